package layout

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ByLCY/flipdot/bdf"
	"github.com/ByLCY/flipdot/fonts"
)

func loadDot5(t *testing.T) *bdf.Font {
	t.Helper()
	data, err := fonts.Load("embed:dot5.bdf")
	if err != nil {
		t.Fatalf("加载内置字体失败: %v", err)
	}
	f, err := bdf.ParseString(string(data))
	if err != nil {
		t.Fatalf("解析内置字体失败: %v", err)
	}
	return f
}

// runLayout 是测试辅助：在 width x height 的显示上解释 src。
func runLayout(t *testing.T, width, height int, src string, data any) (*Context, error) {
	t.Helper()
	ctx, err := NewContext(Options{
		Width:  width,
		Height: height,
		Fonts:  map[string]*bdf.Font{"dot5": loadDot5(t)},
		Data:   data,
	})
	if err != nil {
		t.Fatalf("创建上下文失败: %v", err)
	}
	return ctx, Run(ctx, strings.NewReader(src))
}

func mustRun(t *testing.T, width, height int, src string, data any) *Context {
	t.Helper()
	ctx, err := runLayout(t, width, height, src, data)
	if err != nil {
		t.Fatalf("解释失败: %v", err)
	}
	return ctx
}

func assertFrame(t *testing.T, ctx *Context, want string) {
	t.Helper()
	if got := ctx.Frame.String(); got != want {
		t.Fatalf("帧内容不符\n got:\n%s\nwant:\n%s", strings.ReplaceAll(got, " ", "."), strings.ReplaceAll(want, " ", "."))
	}
}

const blank20 = "                    \n"

// TestRunRectAndCenteredErase 覆盖完整流程：多段行定义、矩形填充与居中擦除文本。
func TestRunRectAndCenteredErase(t *testing.T) {
	src := `columns:
  2 fill 2
rows:
  6

  fill
elements:
  fill-rect 0 3 0 1
  unfill-text dot5 center 1 2 0 1 HI
end
`
	ctx := mustRun(t, 20, 12, src, nil)

	res := ctx.Result()
	if got := res.Columns; len(got) != 4 || got[1] != 2 || got[2] != 18 || got[3] != 20 {
		t.Fatalf("列偏移错误: %v", got)
	}
	if got := res.Rows; len(got) != 3 || got[1] != 6 || got[2] != 12 {
		t.Fatalf("行偏移错误: %v", got)
	}

	want := "XXXXXXXXXXXXXXXXXXXX\n" +
		"XXXXXX X X   XXXXXXX\n" +
		"XXXXXX X XX XXXXXXXX\n" +
		"XXXXXX   XX XXXXXXXX\n" +
		"XXXXXX X XX XXXXXXXX\n" +
		"XXXXXX X X   XXXXXXX\n" +
		strings.Repeat(blank20, 6)
	assertFrame(t, ctx, want)

	if len(res.Elements) != 2 {
		t.Fatalf("应记录 2 个元素，实际 %d", len(res.Elements))
	}
	txt := res.Elements[1]
	if txt.Kind != "text" || txt.Fill || txt.OriginX != 6 || txt.Baseline != 5 || txt.Line != 9 || txt.Font != "dot5" {
		t.Fatalf("文本元素记录错误: %+v", txt)
	}
	if res.Elements[0].Dots != 120 {
		t.Fatalf("矩形应写入 120 个点，实际 %d", res.Elements[0].Dots)
	}
}

// TestFillMarkersJustify 验证 \h 占用剩余空间，使文本两端对齐。
func TestFillMarkersJustify(t *testing.T) {
	src := "columns:\n  fill\nrows:\n  fill\nelements:\n  fill-text dot5 center 0 1 0 1 A\\hB\nend\n"
	ctx := mustRun(t, 20, 6, src, nil)
	want := blank20 +
		"XXX              XX \n" +
		"X X              X X\n" +
		"XXX              XX \n" +
		"X X              X X\n" +
		"X X              XX \n"
	assertFrame(t, ctx, want)
	if fw := ctx.Result().Elements[0].FillWidth; fw != 13 {
		t.Fatalf("fill 宽度应为 13，实际 %d", fw)
	}
}

// TestMultiLineRightAligned 验证换行后基线下移一个行高，且以最宽的一行对齐。
func TestMultiLineRightAligned(t *testing.T) {
	src := "columns:\n  fill\nrows:\n  6\n  fill\nelements:\n  fill-text dot5 right 0 1 0 1 AB\\nC\nend\n"
	ctx := mustRun(t, 20, 12, src, nil)
	want := blank20 +
		"             XXX XX \n" +
		"             X X X X\n" +
		"             XXX XX \n" +
		"             X X X X\n" +
		"             X X XX \n" +
		blank20 +
		"             XXX    \n" +
		"             X      \n" +
		"             X      \n" +
		"             X      \n" +
		"             XXX    \n"
	assertFrame(t, ctx, want)
}

// TestLeniency 验证越界像素被裁剪、缺失字符被跳过，均不报错。
func TestLeniency(t *testing.T) {
	src := `columns:
  fill
rows:
  fill
elements:
  fill-text dot5 left 0 1 0 1 abc
  fill-text dot5 right 0 1 0 1 WIDE TEXT THAT OVERFLOWS
end
`
	ctx := mustRun(t, 8, 4, src, nil)
	res := ctx.Result()
	if res.Elements[0].Dots != 0 {
		t.Fatalf("小写字母不在字体中，应不绘制任何点")
	}
	if res.LitDots == 0 {
		t.Fatalf("溢出的文本仍应在显示范围内留下部分像素")
	}
}

// TestDataBinding 验证 ${...} 占位符来自数据。
func TestDataBinding(t *testing.T) {
	src := "columns:\n  fill\nrows:\n  fill\nelements:\n  fill-text dot5 left 0 1 0 1 ${n}\nend\n"
	withData := mustRun(t, 8, 6, src, map[string]any{"n": "1"})
	literal := mustRun(t, 8, 6, "columns:\n  fill\nrows:\n  fill\nelements:\n  fill-text dot5 left 0 1 0 1 1\nend\n", nil)
	if withData.Frame.String() != literal.Frame.String() {
		t.Fatalf("绑定结果应与直接书写相同:\n%s\n%s", withData.Frame, literal.Frame)
	}
}

// TestBlankLinesAndTrailingInput 验证空行被忽略，end 之后的内容不会被读取。
func TestBlankLinesAndTrailingInput(t *testing.T) {
	src := "\n\ncolumns:   \n\n\t10\n  \nrows:\n\t5\nelements:\n\nend\nthis is not read\n"
	ctx := mustRun(t, 10, 5, src, nil)
	if ctx.Frame.Count() != 0 {
		t.Fatalf("没有元素时帧应保持全暗")
	}
}

func TestStepStates(t *testing.T) {
	ctx, err := NewContext(Options{Width: 4, Height: 4})
	if err != nil {
		t.Fatalf("创建上下文失败: %v", err)
	}
	in := NewInterpreter(ctx)
	steps := []struct {
		line string
		want State
	}{
		{"columns:", Columns},
		{"  fill", Columns},
		{"rows:", Rows},
		{"  fill", Rows},
		{"elements:", Elements},
		{"  fill-rect 0 1 0 1", Elements},
		{"end", Done},
	}
	for _, s := range steps {
		if err := in.Step(s.line); err != nil {
			t.Fatalf("Step(%q): %v", s.line, err)
		}
		if in.State() != s.want {
			t.Fatalf("Step(%q) 后状态为 %s，期望 %s", s.line, in.State(), s.want)
		}
	}
	if err := in.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if ctx.Frame.Count() != 16 {
		t.Fatalf("矩形应点亮整个 4x4 显示")
	}
}

// TestParseErrors 覆盖各类致命错误，并检查行号与期望语法。
func TestParseErrors(t *testing.T) {
	head := "columns:\n  fill\nrows:\n  fill\nelements:\n"
	cases := []struct {
		name     string
		src      string
		line     int
		expected string
		cause    error
	}{
		{"错误的首行", "rows:\n", 1, `"columns:"`, nil},
		{"缩进的首行", "  columns:\n", 1, `"columns:"`, nil},
		{"非法轴定义", "columns:\n  10 auto\n", 2, "<size|fill>", nil},
		{"负数尺寸", "columns:\n  -3\n", 2, "<size|fill>", nil},
		{"粘连的轴定义", "columns:\n  10fill\n", 2, "<size|fill>", nil},
		{"列段为空", "columns:\nrows:\n", 2, "indented axis line", nil},
		{"行段为空", "columns:\n  fill\nrows:\nelements:\n", 4, "indented axis line", nil},
		{"列段中出现未知行", "columns:\n  fill\nelements:\n", 3, `"rows:"`, nil},
		{"未知命令", head + "  draw-rect 0 1 0 1\nend\n", 6, "fill-rect", nil},
		{"参数不足", head + "  fill-rect 0 1 0\nend\n", 6, "fill-rect", nil},
		{"列索引越界", head + "  fill-rect 0 2 0 1\nend\n", 6, "fill-rect", ErrIndexOutOfRange},
		{"行索引越界", head + "  fill-text dot5 left 0 1 0 5 X\nend\n", 6, "fill-text", ErrIndexOutOfRange},
		{"索引与文本粘连", head + "  fill-text dot5 left 0 1 0 1A\nend\n", 6, "fill-text", nil},
		{"未知字体", head + "  fill-text nope left 0 1 0 1 X\nend\n", 6, "fill-text", nil},
		{"未缩进的元素", head + "fill-rect 0 1 0 1\nend\n", 6, `"end"`, nil},
		{"缺少 end", head + "  fill-rect 0 1 0 1\n", 6, "fill-rect", ErrIncompleteInput},
		{"空输入", "", 0, `"columns:"`, ErrIncompleteInput},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := runLayout(t, 10, 10, c.src, nil)
			if err == nil {
				t.Fatalf("期望出错")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("期望 *ParseError，实际 %T: %v", err, err)
			}
			if pe.Line != c.line {
				t.Fatalf("行号应为 %d，实际 %d (%v)", c.line, pe.Line, err)
			}
			if !strings.Contains(pe.Expected, c.expected) {
				t.Fatalf("期望语法应包含 %q，实际 %q", c.expected, pe.Expected)
			}
			if c.cause != nil && !errors.Is(err, c.cause) {
				t.Fatalf("错误应包装 %v，实际 %v", c.cause, err)
			}
		})
	}
}

func TestNewContextRejectsEmptyDisplay(t *testing.T) {
	if _, err := NewContext(Options{Width: 0, Height: 5}); err == nil {
		t.Fatalf("宽度为 0 时应报错")
	}
}

// TestEncodeDebugJSON 验证调试 JSON 可以读回，且值为 0 的坐标不会被省略。
func TestEncodeDebugJSON(t *testing.T) {
	src := "columns:\n  5 fill\nrows:\n  fill\nelements:\n  fill-rect 0 1 0 1\n  fill-text dot5 left 0 1 0 1 I\nend\n"
	ctx := mustRun(t, 10, 6, src, nil)
	var buf bytes.Buffer
	if err := EncodeDebugJSON(&buf, ctx.Result()); err != nil {
		t.Fatalf("编码失败: %v", err)
	}
	var got Result
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("调试 JSON 无法解析: %v", err)
	}
	if got.LitDots != 30 || len(got.Elements) != 2 || got.Elements[0].Kind != "rect" || len(got.Columns) != 3 {
		t.Fatalf("调试 JSON 内容不符: %+v", got)
	}
	for _, field := range []string{`"originX": 0`, `"fillWidth": 0`, `"baseline": 5`} {
		if !bytes.Contains(buf.Bytes(), []byte(field)) {
			t.Fatalf("调试 JSON 缺少 %s:\n%s", field, buf.String())
		}
	}
}

// TestDigitLedFontName 验证 5x7 这类以数字开头的字体名可以被引用。
func TestDigitLedFontName(t *testing.T) {
	ctx, err := NewContext(Options{
		Width:  4,
		Height: 6,
		Fonts:  map[string]*bdf.Font{"5x7": loadDot5(t)},
	})
	if err != nil {
		t.Fatalf("创建上下文失败: %v", err)
	}
	src := "columns:\n  fill\nrows:\n  fill\nelements:\n  fill-text 5x7 left 0 1 0 1 I\nend\n"
	if err := Run(ctx, strings.NewReader(src)); err != nil {
		t.Fatalf("解释失败: %v", err)
	}
	if ctx.Frame.Count() != 9 {
		t.Fatalf("字母 I 应点亮 9 个点，实际 %d", ctx.Frame.Count())
	}
}
