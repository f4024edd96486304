package layout

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange 表示元素引用了不存在的网格边界。
var ErrIndexOutOfRange = errors.New("grid index out of range")

// AxisToken 是轴定义中的一项：固定尺寸，或按比例分配剩余空间的 fill。
type AxisToken struct {
	Size int
	Fill bool
}

// Fixed 与 Fill 便于构造轴定义。
func Fixed(size int) AxisToken { return AxisToken{Size: size} }

var Fill = AxisToken{Fill: true}

// ResolveAxis 将一组轴定义转换为从 0 开始的累计偏移，长度为 len(tokens)+1。
//
// 剩余空间为正且存在 fill 时，每个 fill 得到 floor(free/fills)；除不尽的余数
// 不再分配。没有 fill 时固定尺寸原样累加，不会缩放到 total。
func ResolveAxis(tokens []AxisToken, total int) []int {
	used, fills := 0, 0
	for _, t := range tokens {
		if t.Fill {
			fills++
			continue
		}
		used += t.Size
	}
	fillSize := 0
	if free := total - used; free > 0 && fills > 0 {
		fillSize = free / fills
	}

	offsets := make([]int, 0, len(tokens)+1)
	pos := 0
	offsets = append(offsets, pos)
	for _, t := range tokens {
		if t.Fill {
			pos += fillSize
		} else {
			pos += t.Size
		}
		offsets = append(offsets, pos)
	}
	return offsets
}

// Axis 保存一条轴（列或行）上的全部边界偏移。
type Axis struct {
	Offsets []int
	Total   int
}

// Append 追加一段轴定义。第一段从 0 开始；之后的每一段从当前最后一个偏移 s
// 继续，按剩余空间 total-s 解析，且不重复 s 本身。
func (a *Axis) Append(tokens []AxisToken) {
	if len(a.Offsets) == 0 {
		a.Offsets = ResolveAxis(tokens, a.Total)
		return
	}
	start := a.Offsets[len(a.Offsets)-1]
	run := ResolveAxis(tokens, a.Total-start)
	for _, off := range run[1:] {
		a.Offsets = append(a.Offsets, start+off)
	}
}

// At 返回第 i 个边界的偏移。
func (a *Axis) At(i int) (int, error) {
	if i < 0 || i >= len(a.Offsets) {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(a.Offsets))
	}
	return a.Offsets[i], nil
}

// Len 返回边界数量。
func (a *Axis) Len() int { return len(a.Offsets) }

// Grid 由列轴与行轴组成，宽高取自帧缓冲。
type Grid struct {
	Columns Axis
	Rows    Axis
}

// NewGrid 创建一个空网格，width/height 为各轴可分配的总尺寸。
func NewGrid(width, height int) *Grid {
	return &Grid{
		Columns: Axis{Total: width},
		Rows:    Axis{Total: height},
	}
}

func (g *Grid) AppendColumns(tokens []AxisToken) { g.Columns.Append(tokens) }
func (g *Grid) AppendRows(tokens []AxisToken)    { g.Rows.Append(tokens) }

// Column 返回第 i 个列边界的 x 坐标。
func (g *Grid) Column(i int) (int, error) {
	x, err := g.Columns.At(i)
	if err != nil {
		return 0, fmt.Errorf("column: %w", err)
	}
	return x, nil
}

// Row 返回第 i 个行边界的 y 坐标。
func (g *Grid) Row(i int) (int, error) {
	y, err := g.Rows.At(i)
	if err != nil {
		return 0, fmt.Errorf("row: %w", err)
	}
	return y, nil
}

// Rect 是以像素表示的半开矩形 [Left, Right) x [Top, Bottom)。
type Rect struct {
	Left, Right, Top, Bottom int
}

// Cell 将四个边界索引解析为像素矩形。
func (g *Grid) Cell(left, right, top, bottom int) (Rect, error) {
	var (
		r   Rect
		err error
	)
	if r.Left, err = g.Column(left); err != nil {
		return Rect{}, err
	}
	if r.Right, err = g.Column(right); err != nil {
		return Rect{}, err
	}
	if r.Top, err = g.Row(top); err != nil {
		return Rect{}, err
	}
	if r.Bottom, err = g.Row(bottom); err != nil {
		return Rect{}, err
	}
	return r, nil
}
