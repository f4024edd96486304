package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ByLCY/flipdot/bdf"
	"github.com/ByLCY/flipdot/dsl"
	"github.com/ByLCY/flipdot/fonts"
	"github.com/ByLCY/flipdot/layout"
	"github.com/ByLCY/flipdot/raster"
	"github.com/ByLCY/flipdot/renderer"
	"github.com/ByLCY/flipdot/renderer/bitmap"
	canvasrenderer "github.com/ByLCY/flipdot/renderer/canvas"
	"github.com/ByLCY/flipdot/text"
	"github.com/ByLCY/flipdot/transport"
)

// fontFlags 收集重复出现的 -font name=src。
type fontFlags map[string]string

func (f fontFlags) String() string {
	parts := make([]string, 0, len(f))
	for name, src := range f {
		parts = append(parts, name+"="+src)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func (f fontFlags) Set(v string) error {
	name, src, ok := strings.Cut(v, "=")
	if !ok || name == "" || src == "" {
		return fmt.Errorf("字体参数应为 name=src，实际 %q", v)
	}
	if !dsl.ValidFontName(name) {
		return fmt.Errorf("字体名 %q 无法在布局中引用，应为标识符或 5x7 这类以数字开头的单词", name)
	}
	f[name] = src
	return nil
}

// config 汇总命令行参数。
type config struct {
	input         string
	fonts         fontFlags
	width, height int
	data          any
	storedPadding bool

	pdfPath   string
	pitch     canvasrenderer.Length
	bmpPath   string
	bmpScale  int
	debugPath string

	host    string
	timeout time.Duration
}

func main() {
	cfg := config{
		fonts: fontFlags{},
		pitch: canvasrenderer.Length{Value: 5, Unit: canvasrenderer.UnitMM},
	}
	flag.StringVar(&cfg.input, "in", "", "布局描述文件路径，缺省读取标准输入")
	flag.Var(cfg.fonts, "font", "以 name=src 加载 BDF 字体，src 为文件路径或 embed:<名称>；可重复")
	flag.IntVar(&cfg.width, "width", 28, "显示宽度（点）")
	flag.IntVar(&cfg.height, "height", 14, "显示高度（点）")
	dataJSON := flag.String("data", "", "绑定到 ${...} 占位符的 JSON 数据")
	flag.BoolVar(&cfg.storedPadding, "stored-padding", false, "按存储宽度对齐位图行，而不是按行值")
	flag.StringVar(&cfg.pdfPath, "pdf", "", "PDF 预览输出路径")
	flag.Var(&cfg.pitch, "pitch", "PDF 预览中的点间距，如 5mm、0.2in")
	flag.StringVar(&cfg.bmpPath, "bmp", "", "BMP 预览输出路径")
	flag.IntVar(&cfg.bmpScale, "scale", 1, "BMP 中每个点占用的像素边长")
	flag.StringVar(&cfg.debugPath, "debug", "", "布局调试 JSON 输出路径")
	flag.StringVar(&cfg.host, "host", "", "显示控制器地址，设置后推送帧")
	flag.DurationVar(&cfg.timeout, "timeout", 10*time.Second, "推送帧的超时时间")
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	if *verbose {
		layout.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &cfg.data); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	if err := run(context.Background(), cfg, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("生成帧失败: %v", err)
	}
}

// run 串联字体加载、解释、输出与推送。
func run(ctx context.Context, cfg config, stdin io.Reader, stdout io.Writer) error {
	loaded, err := loadFonts(cfg.fonts)
	if err != nil {
		return err
	}

	engine := text.Engine{}
	if cfg.storedPadding {
		engine.Rasterizer = &raster.Rasterizer{Padding: raster.PadStored}
	}
	lctx, err := layout.NewContext(layout.Options{
		Width:      cfg.width,
		Height:     cfg.height,
		Fonts:      loaded,
		Data:       cfg.data,
		Typesetter: engine,
	})
	if err != nil {
		return err
	}

	in := stdin
	if cfg.input != "" {
		file, err := os.Open(cfg.input)
		if err != nil {
			return fmt.Errorf("无法打开布局文件 %s: %w", cfg.input, err)
		}
		defer file.Close()
		in = file
	}
	if err := layout.Run(lctx, in); err != nil {
		return fmt.Errorf("解释布局失败: %w", err)
	}

	if _, err := lctx.Frame.WriteTo(stdout); err != nil {
		return fmt.Errorf("输出帧失败: %w", err)
	}

	if cfg.debugPath != "" {
		if err := ensureDir(cfg.debugPath); err != nil {
			return err
		}
		if err := layout.WriteDebugJSON(lctx.Result(), cfg.debugPath); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}
	if cfg.pdfPath != "" {
		opts := canvasrenderer.DefaultOptions()
		opts.Pitch = cfg.pitch.MM()
		if err := writePreview(canvasrenderer.NewRenderer(opts), lctx, cfg.pdfPath); err != nil {
			return err
		}
	}
	if cfg.bmpPath != "" {
		if err := writePreview(bitmap.Renderer{Scale: cfg.bmpScale}, lctx, cfg.bmpPath); err != nil {
			return err
		}
	}

	if cfg.host != "" {
		sendCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
		client := &transport.Client{Host: cfg.host}
		if err := client.Send(sendCtx, lctx.Frame); err != nil {
			return fmt.Errorf("推送帧失败: %w", err)
		}
	}
	return nil
}

// loadFonts 加载全部 -font 参数；未指定时提供内置的 dot5。
func loadFonts(specs fontFlags) (map[string]*bdf.Font, error) {
	if len(specs) == 0 {
		specs = fontFlags{"dot5": fonts.Prefix + "dot5"}
	}
	loaded := make(map[string]*bdf.Font, len(specs))
	for name, src := range specs {
		f, err := loadFont(src)
		if err != nil {
			return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
		}
		loaded[name] = f
	}
	return loaded, nil
}

func loadFont(src string) (*bdf.Font, error) {
	if fonts.IsEmbedded(src) {
		data, err := fonts.Load(src)
		if err != nil {
			return nil, err
		}
		return bdf.ParseString(string(data))
	}
	file, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return bdf.Parse(file)
}

func writePreview(r renderer.Renderer, lctx *layout.Context, path string) error {
	data, err := r.Render(lctx.Frame)
	if err != nil {
		return fmt.Errorf("渲染预览失败: %w", err)
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入预览文件失败: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	return nil
}
