package layout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ByLCY/flipdot/bdf"
	"github.com/ByLCY/flipdot/framebuffer"
	"github.com/ByLCY/flipdot/text"
)

// Context 持有一次运行的全部可变状态：帧缓冲、网格与字体表。
// 解释器与绘制函数都通过指针共享它，不存在包级可变状态。
type Context struct {
	Frame *framebuffer.FrameBuffer
	Grid  *Grid
	Fonts map[string]*bdf.Font
	Data  any

	typesetter Typesetter
	logger     *slog.Logger
	elements   []Element
}

// NewContext 根据 Options 创建上下文，帧缓冲初始为全暗。
func NewContext(opts Options) (*Context, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("layout: 显示尺寸无效 %dx%d", opts.Width, opts.Height)
	}
	fonts := opts.Fonts
	if fonts == nil {
		fonts = map[string]*bdf.Font{}
	}
	ts := opts.Typesetter
	if ts == nil {
		ts = text.Engine{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = Logger()
	}
	return &Context{
		Frame:      framebuffer.New(opts.Width, opts.Height),
		Grid:       NewGrid(opts.Width, opts.Height),
		Fonts:      fonts,
		Data:       opts.Data,
		typesetter: ts,
		logger:     logger,
	}, nil
}

// Font 按名称查找已加载的字体。
func (c *Context) Font(name string) (*bdf.Font, bool) {
	f, ok := c.Fonts[name]
	return f, ok
}

// TextOp 描述一次文本绘制。Rect 为单元格像素范围；Right/Bottom 为开区间。
type TextOp struct {
	Font   *bdf.Font
	Align  text.Align
	Rect   Rect
	Tokens []text.Token
	Fill   bool
}

// DrawText 在单元格内按对齐方式绘制文本。
//
// 基线位于 Bottom-1，即单元格内最后一行像素。文本含 fill 标记时从 Left 开始，
// 每个标记占 floor(剩余空间/标记数)；否则按 Align 计算起点。
func (c *Context) DrawText(op TextOp) Element {
	cellWidth := op.Rect.Right - op.Rect.Left
	textWidth := c.typesetter.MeasureTokens(op.Font, op.Tokens)

	originX := op.Rect.Left
	fillWidth := 0
	if n := text.CountFills(op.Tokens); n > 0 {
		fillWidth = text.FillWidth(cellWidth, textWidth, n)
	} else {
		originX += text.AlignOffset(op.Align, cellWidth, textWidth)
	}
	baseline := op.Rect.Bottom - 1

	el := Element{
		Kind:      "text",
		Fill:      op.Fill,
		Rect:      op.Rect,
		Align:     op.Align.String(),
		Text:      text.Plain(op.Tokens),
		OriginX:   originX,
		Baseline:  baseline,
		FillWidth: fillWidth,
	}
	for p := range c.typesetter.LayoutTokens(op.Font, op.Tokens, originX, baseline, op.Font.LineHeight(), fillWidth) {
		if c.Frame.Contains(p.X, p.Y) {
			el.Dots++
		}
		c.Frame.Set(p.X, p.Y, op.Fill)
	}
	if c.logger.Enabled(context.Background(), slog.LevelDebug) {
		for _, t := range op.Tokens {
			if t.Kind == text.Literal && op.Font.Glyph(t.Char) == nil {
				c.logger.Debug("字体中缺少字符，已跳过", "char", string(t.Char))
			}
		}
	}
	return el
}

// DrawRect 点亮或擦除矩形内的全部像素。
func (c *Context) DrawRect(r Rect, fill bool) Element {
	c.Frame.FillRect(r.Left, r.Right, r.Top, r.Bottom, fill)
	w := min(r.Right, c.Frame.Width()) - max(r.Left, 0)
	h := min(r.Bottom, c.Frame.Height()) - max(r.Top, 0)
	el := Element{Kind: "rect", Fill: fill, Rect: r}
	if w > 0 && h > 0 {
		el.Dots = w * h
	}
	return el
}

func (c *Context) record(el Element) {
	c.elements = append(c.elements, el)
	c.logger.Debug("元素已绘制", "line", el.Line, "kind", el.Kind, "fill", el.Fill, "dots", el.Dots)
}

// Result 返回当前网格与已绘制元素的快照。
func (c *Context) Result() *Result {
	return &Result{
		Width:    c.Frame.Width(),
		Height:   c.Frame.Height(),
		Columns:  append([]int(nil), c.Grid.Columns.Offsets...),
		Rows:     append([]int(nil), c.Grid.Rows.Offsets...),
		Elements: append([]Element(nil), c.elements...),
		LitDots:  c.Frame.Count(),
	}
}
