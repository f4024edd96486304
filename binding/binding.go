// Package binding fills ${path} placeholders in element text from decoded
// JSON data.
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ${a.b[0].c} or ${a.b|fallback}
var placeholder = regexp.MustCompile(`\$\{([^}|]+)(?:\|([^}]*))?\}`)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 路径不存在时使用 | 之后的缺省值；没有缺省值则保留原占位符。
// 替换进来的值中的反斜杠会被转义，因此数据只会作为字面文本绘制。
func Interpolate(text string, data any) string {
	if !strings.Contains(text, "${") {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		groups := placeholder.FindStringSubmatch(match)
		path := strings.TrimSpace(groups[1])
		fallback, hasFallback := groups[2], strings.Contains(match, "|")
		if path == "" {
			return match
		}
		if val, ok := Lookup(data, path); ok {
			return escape(format(val))
		}
		if hasFallback {
			return fallback
		}
		return match
	})
}

// Lookup 按 a.b[0].c 形式的路径在 JSON 解码结果中查找值。
func Lookup(data any, path string) (any, bool) {
	if data == nil {
		return nil, false
	}
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := parseSegment(segment)
		if !ok {
			return nil, false
		}
		if name != "" {
			m, isMap := current.(map[string]any)
			if !isMap {
				return nil, false
			}
			if current, ok = m[name]; !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			list, isList := current.([]any)
			if !isList || idx < 0 || idx >= len(list) {
				return nil, false
			}
			current = list[idx]
		}
	}
	return current, true
}

// parseSegment 拆分 name[1][2] 形式的路径片段。
func parseSegment(segment string) (string, []int, bool) {
	name, rest, _ := strings.Cut(segment, "[")
	if rest == "" {
		return name, nil, true
	}
	rest = "[" + rest
	var indexes []int
	for rest != "" {
		end := strings.IndexByte(rest, ']')
		if rest[0] != '[' || end == -1 {
			return "", nil, false
		}
		idx, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, idx)
		rest = rest[end+1:]
	}
	return name, indexes, true
}

// format 以适合点阵显示的形式输出标量；JSON 数字是 float64，整数不带小数点。
func format(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func escape(s string) string {
	return strings.ReplaceAll(s, `\`, `\\`)
}
