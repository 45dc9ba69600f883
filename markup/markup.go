// Package markup turns HTML (or Markdown) source into the ordered node tree
// consumed by the layout engine.
package markup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// Kind tells element nodes from text nodes.
type Kind int

const (
	Element Kind = iota
	Text
)

func (k Kind) String() string {
	if k == Text {
		return "text"
	}
	return "tag"
}

// Attr is a single element attribute.
type Attr struct {
	Key string `json:"key"`
	Val string `json:"val"`
}

// Node is one entry of the document tree.
type Node struct {
	Kind     Kind    `json:"kind"`
	Name     string  `json:"name,omitempty"` // lower case tag name, elements only
	Attrs    []Attr  `json:"attrs,omitempty"`
	Data     string  `json:"data,omitempty"` // raw characters, text only
	Children []*Node `json:"children,omitempty"`
}

// Attr returns the value of attribute key.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// NewElement builds an element node, handy for tests and programmatic trees.
func NewElement(name string, children ...*Node) *Node {
	return &Node{Kind: Element, Name: strings.ToLower(name), Children: children}
}

// NewText builds a text node.
func NewText(data string) *Node {
	return &Node{Kind: Text, Data: data}
}

// Options control tree construction.
type Options struct {
	// KeepWhitespace keeps whitespace-only text nodes, by default they are dropped.
	KeepWhitespace bool
}

// Parse parses UTF-8 HTML as a body fragment and returns its top-level nodes.
func Parse(r io.Reader, opts Options) ([]*Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, context)
	if err != nil {
		return nil, fmt.Errorf("unable to parse markup: %w", err)
	}
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if conv := convert(n, opts); conv != nil {
			out = append(out, conv)
		}
	}
	return out, nil
}

// ParseString is Parse for in-memory source.
func ParseString(src string, opts Options) ([]*Node, error) {
	return Parse(strings.NewReader(src), opts)
}

// ParseReader decodes r to UTF-8 first. contentType may carry a charset
// parameter, otherwise the encoding is sniffed from the content.
func ParseReader(r io.Reader, contentType string, opts Options) ([]*Node, error) {
	utf8, err := charset.NewReader(r, contentType)
	if errors.Is(err, io.EOF) {
		return []*Node{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to detect input encoding: %w", err)
	}
	return Parse(utf8, opts)
}

// FromMarkdown renders Markdown to HTML.
func FromMarkdown(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("unable to convert markdown: %w", err)
	}
	return buf.String(), nil
}

func convert(n *html.Node, opts Options) *Node {
	switch n.Type {
	case html.TextNode:
		if !opts.KeepWhitespace && strings.TrimSpace(n.Data) == "" {
			return nil
		}
		return NewText(n.Data)
	case html.ElementNode:
		el := &Node{Kind: Element, Name: strings.ToLower(n.Data)}
		for _, a := range n.Attr {
			el.Attrs = append(el.Attrs, Attr{Key: a.Key, Val: a.Val})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := convert(c, opts); child != nil {
				el.Children = append(el.Children, child)
			}
		}
		return el
	default:
		// comments, doctype
		return nil
	}
}
