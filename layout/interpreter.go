package layout

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ByLCY/flipdot/binding"
	"github.com/ByLCY/flipdot/dsl"
	"github.com/ByLCY/flipdot/text"
)

// State 是解释器所处的段落。
type State int

const (
	AwaitColumnsHeader State = iota
	Columns
	Rows
	Elements
	Done
)

func (s State) String() string {
	switch s {
	case AwaitColumnsHeader:
		return "await-columns-header"
	case Columns:
		return "columns"
	case Rows:
		return "rows"
	case Elements:
		return "elements"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Interpreter 逐行解释布局描述：
//
//	columns:
//	  <轴定义>+
//	rows:
//	  <轴定义>+
//	elements:
//	  <元素>*
//	end
//
// 每一行处理完毕后才读取下一行，元素命令立即作用于 Context。
type Interpreter struct {
	ctx       *Context
	state     State
	line      int
	axisLines int
}

// NewInterpreter 创建绑定到 ctx 的解释器。
func NewInterpreter(ctx *Context) *Interpreter {
	return &Interpreter{ctx: ctx}
}

// State 返回当前状态。
func (in *Interpreter) State() State { return in.state }

// Run 从 r 读取布局描述并解释，直到遇到 "end"。
// 输入在 "end" 之前结束时返回包装了 ErrIncompleteInput 的 *ParseError。
func Run(ctx *Context, r io.Reader) error {
	in := NewInterpreter(ctx)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if err := in.Step(sc.Text()); err != nil {
			return err
		}
		if in.state == Done {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("layout: 读取输入失败: %w", err)
	}
	if err := in.Finish(); err != nil {
		return err
	}
	ctx.logger.Info("布局解释完成", "elements", len(ctx.elements), "litDots", ctx.Frame.Count())
	return nil
}

// Finish 检查解释器是否已到达 "end"。
func (in *Interpreter) Finish() error {
	if in.state == Done {
		return nil
	}
	return &ParseError{
		Line:     in.line,
		Content:  "",
		Expected: in.expected(),
		Err:      ErrIncompleteInput,
	}
}

// Step 解释一行输入。空行（含仅有空白的行）在任何状态下都被忽略。
func (in *Interpreter) Step(line string) error {
	in.line++
	if strings.TrimSpace(line) == "" || in.state == Done {
		return nil
	}
	header := strings.TrimRight(line, " \t\r")

	switch in.state {
	case AwaitColumnsHeader:
		if header == dsl.ColumnsHeader {
			in.enter(Columns)
			return nil
		}
	case Columns:
		if dsl.IsIndented(line) {
			return in.axis(line, in.ctx.Grid.AppendColumns)
		}
		if header == dsl.RowsHeader && in.axisLines > 0 {
			in.enter(Rows)
			return nil
		}
	case Rows:
		if dsl.IsIndented(line) {
			return in.axis(line, in.ctx.Grid.AppendRows)
		}
		if header == dsl.ElementsHeader && in.axisLines > 0 {
			in.enter(Elements)
			return nil
		}
	case Elements:
		if dsl.IsIndented(line) {
			return in.element(line)
		}
		if header == dsl.End {
			in.enter(Done)
			return nil
		}
	}
	return in.fail(line, nil)
}

func (in *Interpreter) enter(s State) {
	in.state = s
	in.axisLines = 0
}

// expected 描述当前状态下可接受的行。
func (in *Interpreter) expected() string {
	switch in.state {
	case AwaitColumnsHeader:
		return fmt.Sprintf("header %q", dsl.ColumnsHeader)
	case Columns:
		if in.axisLines == 0 {
			return "indented axis line " + dsl.AxisShape
		}
		return fmt.Sprintf("indented axis line %s or header %q", dsl.AxisShape, dsl.RowsHeader)
	case Rows:
		if in.axisLines == 0 {
			return "indented axis line " + dsl.AxisShape
		}
		return fmt.Sprintf("indented axis line %s or header %q", dsl.AxisShape, dsl.ElementsHeader)
	case Elements:
		return fmt.Sprintf("indented element (%s | %s) or %q", dsl.TextShape, dsl.RectShape, dsl.End)
	default:
		return "end of input"
	}
}

func (in *Interpreter) fail(line string, err error) error {
	return &ParseError{Line: in.line, Content: line, Expected: in.expected(), Err: err}
}

func (in *Interpreter) axis(line string, appendTo func([]AxisToken)) error {
	parsed, err := dsl.ParseAxis(strings.TrimSpace(line))
	if err != nil {
		return &ParseError{Line: in.line, Content: line, Expected: dsl.AxisShape, Err: err}
	}
	tokens := make([]AxisToken, 0, len(parsed.Tokens))
	for _, t := range parsed.Tokens {
		tokens = append(tokens, AxisToken{Size: t.Size, Fill: t.Fill})
	}
	appendTo(tokens)
	in.axisLines++
	return nil
}

func (in *Interpreter) element(line string) error {
	el, err := dsl.ParseElement(strings.TrimLeft(line, " \t"))
	if err != nil {
		return &ParseError{Line: in.line, Content: line, Expected: dsl.TextShape + " | " + dsl.RectShape, Err: err}
	}

	switch {
	case el.Text != nil:
		return in.textElement(line, el.Text, el.Fill())
	case el.Rect != nil:
		c := el.Rect.Cell
		r, err := in.ctx.Grid.Cell(c.Left, c.Right, c.Top, c.Bottom)
		if err != nil {
			return &ParseError{Line: in.line, Content: line, Expected: dsl.RectShape, Err: err}
		}
		rec := in.ctx.DrawRect(r, el.Fill())
		rec.Line = in.line
		in.ctx.record(rec)
	}
	return nil
}

func (in *Interpreter) textElement(line string, el *dsl.TextElement, fill bool) error {
	font, ok := in.ctx.Font(el.Font)
	if !ok {
		return &ParseError{Line: in.line, Content: line, Expected: dsl.TextShape, Err: fmt.Errorf("unknown font %q", el.Font)}
	}
	align, err := text.ParseAlign(el.Align)
	if err != nil {
		return &ParseError{Line: in.line, Content: line, Expected: dsl.TextShape, Err: err}
	}
	c := el.Cell
	r, err := in.ctx.Grid.Cell(c.Left, c.Right, c.Top, c.Bottom)
	if err != nil {
		return &ParseError{Line: in.line, Content: line, Expected: dsl.TextShape, Err: err}
	}

	raw := binding.Interpolate(el.Text(), in.ctx.Data)
	tokens := text.Scan(text.Normalize(raw))
	rec := in.ctx.DrawText(TextOp{
		Font:   font,
		Align:  align,
		Rect:   r,
		Tokens: tokens,
		Fill:   fill,
	})
	rec.Line = in.line
	rec.Font = el.Font
	in.ctx.record(rec)
	return nil
}
