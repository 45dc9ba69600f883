package layout

import (
	"strings"

	"github.com/ByLCY/htmlpaper/config"
	"github.com/ByLCY/htmlpaper/markup"
)

// push 在进入节点时压入样式帧；ol/ul 额外压入列表帧并增加缩进，li 递增序号。
// li 自身的缩进在输出列表符号之后才增加（见 emitListItem）。
func (s *State) push(cfg config.Resolved, n *markup.Node) {
	frame := s.Font()
	frame.Node = n
	if n.Kind != markup.Element {
		s.FontStack = append(s.FontStack, frame)
		return
	}
	if level := headingLevel(n.Name); level > 0 {
		frame.FontName = cfg.Fonts.DefaultFont
		frame.FontSize = cfg.Fonts.DefaultFontSize + cfg.HeadingDelta(level)
	}
	switch n.Name {
	case "code":
		frame.FontName = cfg.Fonts.CodeFont
	case "strong":
		frame.FontStyle = withBold(frame.FontStyle)
	case "em":
		frame.FontStyle = withItalic(frame.FontStyle)
	case "ol", "ul":
		s.ListStack = append(s.ListStack, ListFrame{Node: n, IsNumbered: n.Name == "ol"})
		s.CurrentIndent += cfg.Idents.List
		s.IndentLevel++
	case "li":
		if list := s.List(); list != nil {
			list.ItemCount++
		}
	}
	s.FontStack = append(s.FontStack, frame)
}

// pop 与 push 严格对称。
func (s *State) pop(cfg config.Resolved, n *markup.Node) {
	if n.Kind == markup.Element {
		switch n.Name {
		case "ol", "ul":
			s.CurrentIndent -= cfg.Idents.List
			s.IndentLevel--
			s.ListStack = s.ListStack[:len(s.ListStack)-1]
		case "li":
			s.CurrentIndent -= cfg.Idents.ListItem
			// 空条目结束后，后续文本不再与其列表符号共行
			s.SharesBulletLine = false
		}
	}
	s.FontStack = s.FontStack[:len(s.FontStack)-1]
}

func withBold(style string) string {
	if strings.Contains(style, StyleItalic) {
		return StyleBoldItalic
	}
	return StyleBold
}

func withItalic(style string) string {
	if strings.Contains(style, StyleBold) {
		return StyleBoldItalic
	}
	return StyleItalic
}
