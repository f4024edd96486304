package layout

import (
	"image"
	"iter"
	"log/slog"

	"github.com/ByLCY/flipdot/bdf"
	"github.com/ByLCY/flipdot/text"
)

// Options 配置解释器所需的显示尺寸、字体与排版后端。
type Options struct {
	Width  int // 显示宽度（点）
	Height int // 显示高度（点）
	Fonts  map[string]*bdf.Font
	// Data 为 ${...} 占位符提供数据，通常来自 JSON。
	Data       any
	Typesetter Typesetter
	// Logger 为空时使用 SetLogger 设置的包级日志器。
	Logger *slog.Logger
}

// Typesetter 负责测量文本宽度并生成点阵坐标，默认实现为 text.Engine。
type Typesetter interface {
	MeasureTokens(font *bdf.Font, tokens []text.Token) int
	LayoutTokens(font *bdf.Font, tokens []text.Token, originX, originY, lineHeight, fillWidth int) iter.Seq[image.Point]
}

var _ Typesetter = text.Engine{}
