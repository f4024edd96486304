package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/flipdot/framebuffer"
	"github.com/ByLCY/flipdot/renderer"
)

// Renderer 使用 github.com/tdewolff/canvas 将帧缓冲绘制为翻点屏的 PDF 预览：
// 深色面板上每个点是一个圆片，点亮的为亮色，未点亮的为暗色。
type Renderer struct {
	opts Options
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options 配置预览的尺寸与配色，长度单位均为毫米。
type Options struct {
	Pitch  float64 // 相邻点中心的间距
	Dot    float64 // 圆片直径占间距的比例，(0, 1]
	Margin float64 // 面板边距

	Panel color.Color
	Lit   color.Color
	Unlit color.Color

	Title string
}

// DefaultOptions 返回 5mm 间距、黑色面板、黄色亮点的配置。
func DefaultOptions() Options {
	return Options{
		Pitch:  5,
		Dot:    0.85,
		Margin: 5,
		Panel:  canvas.RGBA(0.08, 0.08, 0.08, 1),
		Lit:    canvas.RGBA(1, 0.84, 0.1, 1),
		Unlit:  canvas.RGBA(0.22, 0.22, 0.22, 1),
		Title:  "flipdot",
	}
}

// NewRenderer 创建渲染器，Options 中的零值字段使用缺省值。
func NewRenderer(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.Pitch <= 0 {
		opts.Pitch = def.Pitch
	}
	if opts.Dot <= 0 || opts.Dot > 1 {
		opts.Dot = def.Dot
	}
	if opts.Margin < 0 {
		opts.Margin = 0
	}
	if opts.Panel == nil {
		opts.Panel = def.Panel
	}
	if opts.Lit == nil {
		opts.Lit = def.Lit
	}
	if opts.Unlit == nil {
		opts.Unlit = def.Unlit
	}
	return &Renderer{opts: opts}
}

// Size 返回 fb 对应的页面尺寸（mm）。
func (r *Renderer) Size(fb *framebuffer.FrameBuffer) (float64, float64) {
	w := float64(fb.Width())*r.opts.Pitch + 2*r.opts.Margin
	h := float64(fb.Height())*r.opts.Pitch + 2*r.opts.Margin
	return w, h
}

// Render 将帧缓冲渲染为单页 PDF。
func (r *Renderer) Render(fb *framebuffer.FrameBuffer) ([]byte, error) {
	if fb == nil {
		return nil, fmt.Errorf("帧缓冲为空")
	}
	w, h := r.Size(fb)

	var buf bytes.Buffer
	writer := pdf.New(&buf, w, h, nil)
	writer.SetInfo(r.opts.Title, fmt.Sprintf("%dx%d flip-dot frame", fb.Width(), fb.Height()), "flipdot", "", "flipdot")

	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 与帧缓冲一致，左上角为原点，y 向下
	ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	ctx.SetStrokeWidth(0)

	ctx.SetFillColor(r.opts.Panel)
	ctx.DrawPath(0, 0, canvas.Rectangle(w, h))
	r.drawDots(ctx, fb)

	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// drawDots 先画全部暗点再画亮点，减少填充色切换。
func (r *Renderer) drawDots(ctx *canvas.Context, fb *framebuffer.FrameBuffer) {
	radius := r.opts.Pitch * r.opts.Dot / 2
	disc := canvas.Circle(radius)
	for _, lit := range []bool{false, true} {
		if lit {
			ctx.SetFillColor(r.opts.Lit)
		} else {
			ctx.SetFillColor(r.opts.Unlit)
		}
		for y := 0; y < fb.Height(); y++ {
			for x := 0; x < fb.Width(); x++ {
				if fb.Lit(x, y) != lit {
					continue
				}
				cx, cy := r.center(x, y)
				ctx.DrawPath(cx, cy, disc)
			}
		}
	}
}

// center 返回第 (x, y) 个点的圆心坐标（mm）。
func (r *Renderer) center(x, y int) (float64, float64) {
	p := r.opts.Pitch
	return r.opts.Margin + (float64(x)+0.5)*p, r.opts.Margin + (float64(y)+0.5)*p
}

// ParseColor 解析 #rgb、#rrggbb 或 #rrggbbaa（透明度部分被忽略）。
func ParseColor(value string) (color.Color, error) {
	v := strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(v) {
	case 3:
		v = strings.Repeat(v[0:1], 2) + strings.Repeat(v[1:2], 2) + strings.Repeat(v[2:3], 2)
	case 6:
	case 8:
		v = v[:6]
	default:
		return nil, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}, nil
}
