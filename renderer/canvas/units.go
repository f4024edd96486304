package canvasrenderer

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit 是长度值书写时使用的单位。
type Unit int

const (
	UnitMM Unit = iota // 毫米，也是无单位数值的缺省单位
	UnitCM             // 厘米
	UnitIN             // 英寸
	UnitPT             // 点
)

// pt 与 mm 的换算常数。
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

func (u Unit) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length 保留数值及其原始单位。
type Length struct {
	Value float64
	Unit  Unit
}

// MM 将长度换算为毫米，canvas 的默认坐标单位即为毫米。
func (l Length) MM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value
	}
}

// PT 将长度换算为点。
func (l Length) PT() float64 { return l.MM() * MmToPt }

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + l.Unit.String()
}

// ParseLength 解析 "2.5mm"、"0.1in"、"6pt" 之类的长度；无单位时按毫米处理。
// 负数与非数值会返回错误。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度不能为空")
	}
	unit := UnitMM
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("长度 %q 无法解析: %w", value, err)
	}
	if f < 0 {
		return Length{}, fmt.Errorf("长度 %q 不能为负数", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// Set 与 String 一起让 *Length 满足 flag.Value，可直接作为命令行参数。
func (l *Length) Set(value string) error {
	parsed, err := ParseLength(value)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
