package layout

import (
	"go.uber.org/zap"

	"github.com/ByLCY/htmlpaper/markup"
)

// BuildOptions 配置一次转换的可选依赖。
type BuildOptions struct {
	// Logger 接收调试事件，为空时不输出。
	Logger *zap.Logger
	// Data 非空时，文本中的 ${path} 占位符在测量前被替换。
	Data any
	// FileName 原样写入 pdfConfig.fileName。
	FileName string
	// Markup 控制 HTML 树的构建（仅 Convert/ConvertReader 使用）。
	Markup markup.Options
}
