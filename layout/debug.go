package layout

import (
	"encoding/json"
	"io"
	"os"
)

// WriteJSON 将布局结果以缩进 JSON 写入 w，即交给下游渲染器的约定格式。
func WriteJSON(res *Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(res)
}

// WriteDebugJSON 将布局结果输出到文件，便于调试或交给其他渲染器。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(res, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
