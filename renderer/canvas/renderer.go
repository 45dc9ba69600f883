package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"go.uber.org/zap"

	"github.com/ByLCY/htmlpaper/config"
	"github.com/ByLCY/htmlpaper/fonts"
	"github.com/ByLCY/htmlpaper/layout"
	"github.com/ByLCY/htmlpaper/renderer"
)

// Renderer draws layout results via github.com/tdewolff/canvas using the
// embedded Go fonts.
type Renderer struct {
	baseDir string
	log     *zap.Logger

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving images.
func NewRenderer(baseDir string, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		baseDir:      baseDir,
		log:          log,
		fontFamilies: map[string]*canvas.FontFamily{},
	}
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if err := renderer.CheckResult(result); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, config.PageWidth, config.PageHeight, nil)
	writer.SetInfo(result.PDFConfig.FileName, "", "", "", "htmlpaper")
	for i, page := range result.PDFConfig.Pages {
		if i > 0 {
			writer.NewPage(config.PageWidth, config.PageHeight)
		}
		c := canvas.New(config.PageWidth, config.PageHeight)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.drawPage(ctx, page); err != nil {
			return nil, fmt.Errorf("第 %d 页: %w", i+1, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page) error {
	if page.BackgroundImage != nil {
		data, err := renderer.ReadImage(r.baseDir, *page.BackgroundImage)
		if err != nil {
			return err
		}
		if err := drawImage(ctx, data, 0, 0, config.PageWidth, config.PageHeight); err != nil {
			return err
		}
	}
	for _, e := range page.PageElements {
		switch {
		case e.IsRect():
			drawRect(ctx, e)
		case e.Image != nil || e.ImageBase64 != "":
			data, err := renderer.ImageData(r.baseDir, e)
			if err != nil {
				return err
			}
			if err := drawImage(ctx, data, e.X, e.Y, e.W, e.H); err != nil {
				return err
			}
		case e.Text != "":
			r.drawText(ctx, e)
		}
	}
	return nil
}

// drawText 在 (X, Y) 处绘制一行文本，Y 为基线。
func (r *Renderer) drawText(ctx *canvas.Context, e layout.Element) {
	face := r.fontFace(e.Font, e.FontStyle, e.FontSize)
	ctx.DrawText(e.X, e.Y, canvas.NewTextLine(face, e.Text, canvas.Left))
	if right := config.PageWidth - e.X; face.TextWidth(e.Text) > right {
		r.log.Debug("Text overflows page width", zap.String("text", e.Text), zap.Float64("x", e.X))
	}
}

func drawRect(ctx *canvas.Context, e layout.Element) {
	g := renderer.Gray(e.FillColour)
	ctx.SetFillColor(color.Gray{Y: g})
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(e.X, e.Y, canvas.Rectangle(e.W, e.H))
}

// drawImage 将图片拉伸到布局给出的 width×height（mm），与布局推进的高度一致。
func drawImage(ctx *canvas.Context, data []byte, x, y, width, height float64) error {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("解码图片失败: %w", err)
	}
	sx, sy := imageScale(img.Bounds(), width, height)
	ctx.Push()
	ctx.ComposeView(canvas.Identity.Translate(x, y).Scale(sx, sy))
	ctx.DrawImage(0, 0, img, canvas.DPMM(1))
	ctx.Pop()
	return nil
}

// imageScale 返回每像素对应的 mm（横、纵）。缺少一边时按原始宽高比补齐，两边都缺时每 mm 4 像素。
func imageScale(bounds image.Rectangle, width, height float64) (float64, float64) {
	dx, dy := float64(bounds.Dx()), float64(bounds.Dy())
	if dx <= 0 || dy <= 0 {
		return 1, 1
	}
	if width <= 0 && height <= 0 {
		width = dx / 4
	}
	switch {
	case width <= 0:
		width = height * dx / dy
	case height <= 0:
		height = width * dy / dx
	}
	return width / dx, height / dy
}

// MeasureText 返回文本按给定字体绘制时的宽度（mm），size 为 pt。
func (r *Renderer) MeasureText(font, style string, size float64, text string) float64 {
	return r.fontFace(font, style, size).TextWidth(text)
}

func (r *Renderer) fontFace(font, style string, size float64) *canvas.FontFace {
	fs := parseFontStyle(style)
	return r.fontFamily(font, fs).Face(size, canvas.Black, fs, canvas.FontNormal)
}

// fontFamily 每个字体名与样式组合只加载一次。
func (r *Renderer) fontFamily(font string, style canvas.FontStyle) *canvas.FontFamily {
	key := fmt.Sprintf("%s|%d", strings.ToLower(font), style)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[key]; ok {
		return family
	}
	family := canvas.NewFontFamily(key)
	data := fonts.Load(font, style&canvas.FontBold != 0, style&canvas.FontItalic != 0)
	if err := family.LoadFont(data, 0, style); err != nil {
		// 内置字体不会解析失败
		panic(fmt.Sprintf("加载内置字体失败: %v", err))
	}
	r.fontFamilies[key] = family
	return family
}

func parseFontStyle(style string) canvas.FontStyle {
	result := canvas.FontRegular
	if strings.Contains(style, layout.StyleBold) {
		result = canvas.FontBold
	}
	if strings.Contains(style, layout.StyleItalic) {
		result |= canvas.FontItalic
	}
	return result
}
