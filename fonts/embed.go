package fonts

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed *.bdf
var fontFS embed.FS

// Prefix marks a font source that lives in this package rather than on disk.
const Prefix = "embed:"

// Load 返回内置字体的字节数据，path 可写为 "embed:dot5.bdf" 或直接 "dot5.bdf"。
func Load(path string) ([]byte, error) {
	target := strings.TrimPrefix(path, Prefix)
	if !strings.HasSuffix(target, ".bdf") {
		target += ".bdf"
	}
	data, err := fontFS.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("读取内置字体 %s 失败: %w", target, err)
	}
	return data, nil
}

// IsEmbedded reports whether src names a built-in font.
func IsEmbedded(src string) bool {
	return strings.HasPrefix(src, Prefix)
}

// Names 列出内置字体（不含 .bdf 后缀）。
func Names() []string {
	entries, err := fs.ReadDir(fontFS, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".bdf"))
	}
	return names
}
