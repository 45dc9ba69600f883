package layout

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ByLCY/htmlpaper/binding"
	"github.com/ByLCY/htmlpaper/config"
	"github.com/ByLCY/htmlpaper/markup"
)

const (
	bullet             = "•"
	defaultImageWidth  = 40.0
	defaultImageHeight = 30.0
)

// 自身会产生内容或样式变化的标签，其余标签只渲染子节点。
var knownTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"hr": true, "br": true, "p": true, "img": true,
	"code": true, "strong": true, "em": true,
	"ol": true, "ul": true, "li": true,
}

// Convert 解析 HTML 后完成排版。解析失败是唯一的错误来源。
func Convert(partial *config.Partial, src string, opts BuildOptions) (*Result, error) {
	return ConvertReader(partial, strings.NewReader(src), "text/html; charset=utf-8", opts)
}

// ConvertReader 与 Convert 相同，但从 r 读取并按 contentType（或内容嗅探）解码字符集。
func ConvertReader(partial *config.Partial, r io.Reader, contentType string, opts BuildOptions) (*Result, error) {
	cfg := config.Resolve(partial)
	nodes, err := markup.ParseReader(r, contentType, opts.Markup)
	if err != nil {
		return nil, fmt.Errorf("解析 HTML 失败: %w", err)
	}
	return Build(cfg, nodes, opts), nil
}

// Build 按文档顺序遍历节点树，生成分页后的元素列表。每次调用使用独立的状态。
func Build(cfg config.Resolved, nodes []*markup.Node, opts BuildOptions) *Result {
	w := newWalker(cfg, opts)
	for _, n := range nodes {
		w.visit(n)
	}
	w.log.Debug("Layout finished",
		zap.Int("pages", w.state.PageCount),
		zap.Int("nodes", w.visited),
		zap.Float64("cursor", w.state.CumulativeContentHeight))
	return &Result{
		PDFConfig: PDFConfig{
			FileName:        opts.FileName,
			DefaultFont:     cfg.Fonts.DefaultFont,
			DefaultFontSize: cfg.Fonts.DefaultFontSize,
			Pages:           w.pages.pages,
		},
		PDFInfo: w.state,
	}
}

// NewState 返回遍历开始前的初始状态。
func NewState(cfg config.Resolved) *State {
	fontSizeMM := cfg.Fonts.DefaultFontSize * MMPerPoint
	maxChars := 0
	if fontSizeMM > 0 {
		maxChars = 2 * int(math.Floor(cfg.PrintableWidth()/fontSizeMM))
	}
	return &State{
		LineSpacingInMM:            fontSizeMM * (1 + cfg.Fonts.LineSpacing),
		MaxCharactersPerLineOfText: maxChars,
		CumulativeContentHeight:    cfg.Margins.Top,
		CurrentIndent:              cfg.Margins.Left,
		FontStack: []FontFrame{{
			FontName: cfg.Fonts.DefaultFont,
			FontSize: cfg.Fonts.DefaultFontSize,
		}},
		ListStack: []ListFrame{},
	}
}

type walker struct {
	cfg     config.Resolved
	data    any
	state   *State
	pages   *pageAccumulator
	log     *zap.Logger
	unknown map[string]bool
	visited int
}

func newWalker(cfg config.Resolved, opts BuildOptions) *walker {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	st := NewState(cfg)
	return &walker{
		cfg:     cfg,
		data:    opts.Data,
		state:   st,
		pages:   newPageAccumulator(cfg, st, log),
		log:     log,
		unknown: map[string]bool{},
	}
}

// visit：预估高度 → 换页检查 → 样式入栈 → 输出 → 递归子节点 → 样式出栈。
func (w *walker) visit(n *markup.Node) {
	if n == nil {
		return
	}
	w.visited++
	w.pages.ensureCapacity(w.estimate(n))
	w.state.push(w.cfg, n)
	w.emit(n)
	for _, child := range n.Children {
		w.visit(child)
	}
	w.state.pop(w.cfg, n)
}

func (w *walker) estimate(n *markup.Node) float64 {
	if n.Kind == markup.Text {
		return estimateText(w.text(n), w.state)
	}
	return EstimateHeight(w.cfg, n, w.state)
}

func (w *walker) text(n *markup.Node) string {
	return binding.Interpolate(n.Data, w.data)
}

func (w *walker) emit(n *markup.Node) {
	if n.Kind == markup.Text {
		w.emitText(w.text(n))
		return
	}
	switch n.Name {
	case "li":
		w.emitListItem()
	case "br":
		w.pages.advance(MMPerPoint * w.state.Font().FontSize * 0.5)
	case "hr":
		w.pages.advance(hrAdvance)
		black := 0
		w.pages.emit(Element{
			X:          w.cfg.Margins.Left,
			Y:          w.state.CumulativeContentHeight,
			W:          w.cfg.PrintableWidth(),
			H:          hrHeight,
			FillColour: &black,
		})
	case "img":
		w.emitImage(n)
	default:
		if !knownTags[n.Name] && !w.unknown[n.Name] {
			w.unknown[n.Name] = true
			w.log.Debug("Tag has no layout rules, rendering children only", zap.String("tag", n.Name))
		}
	}
}

func (w *walker) emitListItem() {
	font := w.state.Font()
	w.pages.advance(MMPerPoint * font.FontSize)
	marker := bullet
	if list := w.state.List(); list != nil && list.IsNumbered {
		marker = strconv.Itoa(list.ItemCount) + "."
	}
	w.pages.emit(w.textElement(marker, font))
	w.state.CurrentIndent += w.cfg.Idents.ListItem
	w.state.SharesBulletLine = true
}

func (w *walker) emitText(text string) {
	if text == "" {
		return
	}
	font := w.state.Font()
	line := MMPerPoint * font.FontSize
	if utf8.RuneCountInString(text) < w.state.MaxCharactersPerLineOfText {
		w.pages.advanceLine(line)
		w.pages.emit(w.textElement(text, font))
		return
	}
	for _, l := range WrapLine(text, w.state.MaxCharactersPerLineOfText) {
		w.pages.advanceLine(line)
		w.pages.emit(w.textElement(l, font))
	}
}

func (w *walker) emitImage(n *markup.Node) {
	src, _ := n.Attr("src")
	if src == "" {
		w.log.Debug("Image without src skipped")
		return
	}
	width, height := imageSize(n)
	w.state.SharesBulletLine = false
	w.pages.emit(Element{
		X:     w.state.CurrentIndent,
		Y:     w.state.CumulativeContentHeight,
		W:     width,
		H:     height,
		Image: &ImageRef{FileName: src, Format: imageFormat(src)},
	})
	w.pages.advance(height)
}

func (w *walker) textElement(text string, font FontFrame) Element {
	return Element{
		X:         w.state.CurrentIndent,
		Y:         w.state.CumulativeContentHeight,
		Text:      text,
		Font:      font.FontName,
		FontSize:  font.FontSize,
		FontStyle: font.FontStyle,
	}
}

// imageSize 读取 width/height 属性（默认 mm，可带 pt/cm/in），缺省 40×30mm。
func imageSize(n *markup.Node) (float64, float64) {
	return imageDimension(n, "width", defaultImageWidth), imageDimension(n, "height", defaultImageHeight)
}

func imageDimension(n *markup.Node, key string, def float64) float64 {
	v, ok := n.Attr(key)
	if !ok {
		return def
	}
	l, err := config.ParseLength(v)
	if err != nil || l.MM() <= 0 {
		return def
	}
	return l.MM()
}

func imageFormat(src string) string {
	ext := strings.ToUpper(strings.TrimPrefix(filepath.Ext(src), "."))
	if ext == "JPG" {
		return "JPEG"
	}
	return ext
}
