// Package fpdfrenderer draws layout results with the PDF core fonts
// (Helvetica, Courier, Times) through codeberg.org/go-pdf/fpdf.
package fpdfrenderer

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"sync"

	"codeberg.org/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/ByLCY/htmlpaper/config"
	"github.com/ByLCY/htmlpaper/layout"
	"github.com/ByLCY/htmlpaper/renderer"
)

// 核心字体族，键为小写字体名。
var coreFamilies = map[string]string{
	"helvetica":    "Helvetica",
	"arial":        "Arial",
	"courier":      "Courier",
	"times":        "Times",
	"symbol":       "Symbol",
	"zapfdingbats": "ZapfDingbats",
}

// Renderer is safe for concurrent use, each Render call owns its document.
type Renderer struct {
	baseDir string
	log     *zap.Logger

	mu     sync.Mutex
	warned map[string]bool
}

var _ renderer.Renderer = (*Renderer)(nil)

func NewRenderer(baseDir string, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{baseDir: baseDir, log: log, warned: map[string]bool{}}
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if err := renderer.CheckResult(result); err != nil {
		return nil, err
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetCreator("htmlpaper", true)
	if name := result.PDFConfig.FileName; name != "" {
		doc.SetTitle(name, true)
	}
	tr := doc.UnicodeTranslatorFromDescriptor("")

	images := 0
	for i, page := range result.PDFConfig.Pages {
		doc.AddPage()
		if bg := page.BackgroundImage; bg != nil {
			data, err := renderer.ReadImage(r.baseDir, *bg)
			if err != nil {
				return nil, fmt.Errorf("第 %d 页: %w", i+1, err)
			}
			images++
			r.placeImage(doc, images, data, bg.Format, 0, 0, config.PageWidth, config.PageHeight)
		}
		for _, e := range page.PageElements {
			switch {
			case e.IsRect():
				g := int(renderer.Gray(e.FillColour))
				doc.SetFillColor(g, g, g)
				doc.Rect(e.X, e.Y, e.W, e.H, "F")
			case e.Image != nil || e.ImageBase64 != "":
				data, err := renderer.ImageData(r.baseDir, e)
				if err != nil {
					return nil, fmt.Errorf("第 %d 页: %w", i+1, err)
				}
				format := ""
				if e.Image != nil {
					format = e.Image.Format
				}
				images++
				r.placeImage(doc, images, data, format, e.X, e.Y, e.W, e.H)
			case e.Text != "":
				doc.SetFont(r.family(e.Font), fontStyle(e.FontStyle), e.FontSize)
				text := tr(e.Text)
				// Text 的 y 为基线
				doc.Text(e.X, e.Y, text)
				if doc.GetStringWidth(text) > config.PageWidth-e.X {
					r.log.Debug("Text overflows page width", zap.String("text", e.Text), zap.Float64("x", e.X))
				}
			}
			if doc.Err() {
				return nil, fmt.Errorf("第 %d 页绘制失败: %w", i+1, doc.Error())
			}
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) placeImage(doc *fpdf.Fpdf, n int, data []byte, format string, x, y, w, h float64) {
	if format == "" {
		if _, f, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			format = f
		}
	}
	opts := fpdf.ImageOptions{ImageType: format, ReadDpi: true}
	name := fmt.Sprintf("img%d", n)
	doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	doc.ImageOptions(name, x, y, w, h, false, opts, 0, "")
}

// family 将字体名映射为核心字体，未知字体回退到 Helvetica 并只告警一次。
func (r *Renderer) family(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if f, ok := coreFamilies[key]; ok {
		return f
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.warned[key] {
		r.warned[key] = true
		r.log.Warn("Font is not a PDF core font, using Helvetica", zap.String("font", name))
	}
	return "Helvetica"
}

func fontStyle(style string) string {
	switch style {
	case layout.StyleBold:
		return "B"
	case layout.StyleItalic:
		return "I"
	case layout.StyleBoldItalic:
		return "BI"
	}
	return ""
}
