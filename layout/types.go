package layout

import "github.com/ByLCY/htmlpaper/markup"

// 该文件定义交给下游 PDF 渲染器的页面/元素结构以及遍历过程中的排版状态。
// JSON 字段名与下游约定保持一致（pageElements、fillColour 等）。

// Result 是一次转换的输出：pdfConfig 供渲染器绘制，pdfInfo 为遍历结束时的排版状态快照。
type Result struct {
	PDFConfig PDFConfig `json:"pdfConfig"`
	PDFInfo   *State    `json:"pdfInfo"`
}

// PDFConfig 描述整份文档；FileName 由调用方填写。
type PDFConfig struct {
	FileName        string  `json:"fileName"`
	DefaultFont     string  `json:"defaultFont,omitempty"`
	DefaultFontSize float64 `json:"defaultFontSize,omitempty"`
	Pages           []Page  `json:"pages"`
}

// Page 记录一页中按顺序排好的元素。页面只追加，换页后不再修改旧页。
type Page struct {
	PageElements    []Element `json:"pageElements"`
	BackgroundImage *ImageRef `json:"backgroundImage,omitempty"`
}

// ImageRef 只传递文件名与格式，图片解码由渲染器负责。
type ImageRef struct {
	FileName string `json:"fileName"`
	Format   string `json:"format"`
}

// Element 是一个已定位的绘制单元（文本、填充矩形或图片），坐标以页面左上角为原点，单位 mm。
// 文本的 Y 为基线位置。
type Element struct {
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	W           float64   `json:"w,omitempty"`
	H           float64   `json:"h,omitempty"`
	Font        string    `json:"font,omitempty"`
	FontStyle   string    `json:"fontStyle,omitempty"`
	FontSize    float64   `json:"fontSize,omitempty"`
	Text        string    `json:"text"`
	Image       *ImageRef `json:"image,omitempty"`
	ImageBase64 string    `json:"imageBase64,omitempty"`
	FillColour  *int      `json:"fillColour,omitempty"`
}

// IsRect 判断元素是否为填充矩形（例如水平线）。
func (e Element) IsRect() bool { return e.FillColour != nil }

// 字体样式，粗体与斜体可以叠加。
const (
	StyleNormal     = ""
	StyleBold       = "bold"
	StyleItalic     = "italic"
	StyleBoldItalic = "bolditalic"
)

// FontFrame 是样式栈中的一帧。
type FontFrame struct {
	Node      *markup.Node `json:"-"`
	FontName  string       `json:"fontName"`
	FontSize  float64      `json:"fontSize"`
	FontStyle string       `json:"fontStyle"`
}

// ListFrame 记录一个尚未关闭的 ol/ul。
type ListFrame struct {
	Node       *markup.Node `json:"-"`
	IsNumbered bool         `json:"isNumbered"`
	ItemCount  int          `json:"itemCount"`
}

// State 是单次遍历独占的可变排版状态，栈顶为切片最后一个元素。
type State struct {
	LineSpacingInMM            float64 `json:"lineSpacingInMM"`
	MaxCharactersPerLineOfText int     `json:"maxCharactersPerLineOfText"`
	CumulativeContentHeight    float64 `json:"cumulativeContentHeight"`
	PageCount                  int     `json:"pageCount"`
	CurrentIndent              float64 `json:"currentIndent"`
	IndentLevel                int     `json:"indentLevel"`
	// SharesBulletLine 为 true 时，下一行文本与刚输出的列表符号共用一行，不再下移。
	SharesBulletLine bool        `json:"sharesBulletLine"`
	FontStack        []FontFrame `json:"fontStack"`
	ListStack        []ListFrame `json:"listStack"`
}

// Font 返回当前样式帧。样式栈在遍历期间至少保留文档默认帧。
func (s *State) Font() FontFrame {
	return s.FontStack[len(s.FontStack)-1]
}

// List 返回最内层列表帧，不在列表中时返回 nil。
func (s *State) List() *ListFrame {
	if len(s.ListStack) == 0 {
		return nil
	}
	return &s.ListStack[len(s.ListStack)-1]
}
