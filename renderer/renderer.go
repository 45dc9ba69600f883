package renderer

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/htmlpaper/layout"
)

// Renderer 将布局结果输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// CheckResult 校验布局结果是否可渲染。
func CheckResult(result *layout.Result) error {
	if result == nil {
		return fmt.Errorf("渲染结果为空")
	}
	if len(result.PDFConfig.Pages) == 0 {
		return fmt.Errorf("缺少可渲染的页面")
	}
	return nil
}

// ResolvePath 将相对路径解析到 baseDir 下；未指定 baseDir 时只接受绝对路径。
func ResolvePath(baseDir, name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}
	if baseDir == "" {
		return "", fmt.Errorf("未指定资源目录时不允许使用相对路径：%s", name)
	}
	return filepath.Join(baseDir, name), nil
}

// ImageData 读取元素引用的图片：优先使用内联的 base64 数据，其次读取文件。
func ImageData(baseDir string, e layout.Element) ([]byte, error) {
	if e.ImageBase64 != "" {
		raw := e.ImageBase64
		if i := strings.Index(raw, ","); strings.HasPrefix(raw, "data:") && i >= 0 {
			raw = raw[i+1:]
		}
		data, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("解码内联图片失败: %w", err)
		}
		return data, nil
	}
	if e.Image == nil || e.Image.FileName == "" {
		return nil, fmt.Errorf("图片元素缺少来源")
	}
	return ReadImage(baseDir, *e.Image)
}

// ReadImage 读取图片文件（元素图片或页面背景）。
func ReadImage(baseDir string, ref layout.ImageRef) ([]byte, error) {
	path, err := ResolvePath(baseDir, ref.FileName)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取图片 %s 失败: %w", ref.FileName, err)
	}
	return data, nil
}

// Gray 将 fillColour 灰度值限制在 0-255。
func Gray(fill *int) uint8 {
	if fill == nil {
		return 0
	}
	switch v := *fill; {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}
