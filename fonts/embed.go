// Package fonts 提供渲染器使用的内置 TrueType 字体（Go 字体族）。
// 布局中的字体名只区分比例字体与等宽字体，粗体/斜体由样式选择。
package fonts

import (
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	proportional = [4][]byte{goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF}
	monospace    = [4][]byte{gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF}
)

// IsMonospace 判断字体名是否指向等宽字体，例如 Courier。
func IsMonospace(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "courier") || strings.Contains(n, "mono") || strings.Contains(n, "code")
}

// Load 返回与字体名、样式最接近的内置字体数据。
func Load(name string, bold, italic bool) []byte {
	idx := 0
	if bold {
		idx |= 1
	}
	if italic {
		idx |= 2
	}
	if IsMonospace(name) {
		return monospace[idx]
	}
	return proportional[idx]
}
