package renderer

import "github.com/ByLCY/flipdot/framebuffer"

// Renderer 将帧缓冲输出为预览文件，例如 PDF 或位图。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(fb *framebuffer.FrameBuffer) ([]byte, error)
}
