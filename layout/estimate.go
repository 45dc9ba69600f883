package layout

import (
	"unicode/utf8"

	"github.com/ByLCY/htmlpaper/config"
	"github.com/ByLCY/htmlpaper/markup"
)

// MMPerPoint 是 1pt 对应的毫米数。
const MMPerPoint = config.PtToMm

const (
	hrEstimate = 1.0 // 水平线预估高度
	hrAdvance  = 3.0 // 水平线实际下移量
	hrHeight   = 1.0 // 水平线矩形高度
)

// EstimateHeight 预测节点将占用的纵向空间（mm），只读 state。
// 调用时 state 仍是父节点上下文（本节点的样式尚未入栈）。
func EstimateHeight(cfg config.Resolved, n *markup.Node, st *State) float64 {
	if n == nil {
		return 0
	}
	if n.Kind == markup.Text {
		return estimateText(n.Data, st)
	}
	if level := headingLevel(n.Name); level > 0 {
		return MMPerPoint * (cfg.Fonts.DefaultFontSize + cfg.HeadingDelta(level))
	}
	switch n.Name {
	case "hr":
		return hrEstimate
	case "br":
		return MMPerPoint * st.Font().FontSize * 0.5
	case "p":
		return MMPerPoint * st.Font().FontSize
	case "img":
		if src, _ := n.Attr("src"); src == "" {
			return 0
		}
		_, h := imageSize(n)
		return h
	}
	return 0
}

// estimateText：首行与列表符号共行时不计入高度。
func estimateText(text string, st *State) float64 {
	if text == "" {
		return 0
	}
	line := MMPerPoint * st.Font().FontSize
	if utf8.RuneCountInString(text) < st.MaxCharactersPerLineOfText {
		if st.SharesBulletLine {
			return 0
		}
		return line
	}
	count := len(WrapLine(text, st.MaxCharactersPerLineOfText))
	if st.SharesBulletLine {
		count--
	}
	return line * float64(count)
}

func headingLevel(name string) int {
	if len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6' {
		return int(name[1] - '0')
	}
	return 0
}
