package layout

import (
	"encoding/json"
	"io"
	"os"
)

// EncodeDebugJSON 将解释结果（网格偏移与各元素的像素范围）以缩进 JSON 写入 w。
func EncodeDebugJSON(w io.Writer, res *Result) error {
	if res == nil {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteDebugJSON 将解释结果写入 path，便于排查网格与对齐问题。
func WriteDebugJSON(res *Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeDebugJSON(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
