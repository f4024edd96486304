package layout

import (
	"errors"
	"fmt"
)

// ErrIncompleteInput 表示输入在 "end" 之前就结束了。
var ErrIncompleteInput = errors.New("input ended before \"end\"")

// ParseError 描述布局描述中无法解释的一行。
type ParseError struct {
	Line     int    // 从 1 开始的行号
	Content  string // 出错的原始行
	Expected string // 该位置期望的语法形态
	Err      error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("layout: line %d: %q: expected %s", e.Line, e.Content, e.Expected)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }
