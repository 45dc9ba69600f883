package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/ByLCY/htmlpaper/dsl"
)

// LoadFile reads partial configuration from a YAML file or, for ".paper" and
// ".cfg" files, from the block syntax understood by package dsl.
func LoadFile(path string) (*Partial, error) {
	var (
		p   *Partial
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".paper", ".cfg":
		var f *os.File
		if f, err = os.Open(path); err != nil {
			return nil, fmt.Errorf("unable to read configuration file: %w", err)
		}
		defer f.Close()
		p, err = ReadDSL(f)
	default:
		var data []byte
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("unable to read configuration file: %w", err)
		}
		p, err = ParseYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("bad configuration file '%s': %w", path, err)
	}
	return p, nil
}

// ParseYAML decodes partial configuration, unknown keys are rejected.
func ParseYAML(data []byte) (*Partial, error) {
	p := &Partial{}
	if len(bytes.TrimSpace(data)) == 0 {
		return p, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}
	return p, nil
}

// ParseDSL converts block syntax into partial configuration. Margins and
// indents default to millimeters, font sizes and heading deltas to points.
func ParseDSL(src string) (*Partial, error) {
	doc, err := dsl.ParseString(src)
	if err != nil {
		return nil, err
	}
	return fromDocument(doc)
}

// ReadDSL is ParseDSL for a stream.
func ReadDSL(r io.Reader) (*Partial, error) {
	doc, err := dsl.Parse(r)
	if err != nil {
		return nil, err
	}
	return fromDocument(doc)
}

func fromDocument(doc *dsl.Document) (p *Partial, err error) {
	p = &Partial{}
	for _, section := range doc.Sections {
		if first := doc.Section(section.Name); first != section {
			return nil, fmt.Errorf("%s: section %q already defined at %s", section.Pos, section.Name, first.Pos)
		}
		switch section.Name {
		case "margins":
			m := &PartialMargins{}
			err = assignAll(section, map[string]any{
				"top": lengthField{&m.Top, UnitMM}, "bottom": lengthField{&m.Bottom, UnitMM},
				"left": lengthField{&m.Left, UnitMM}, "right": lengthField{&m.Right, UnitMM},
			})
			p.Margins = m
		case "idents", "indents":
			i := &PartialIndents{}
			err = assignAll(section, map[string]any{
				"list": lengthField{&i.List, UnitMM}, "listItem": lengthField{&i.ListItem, UnitMM},
			})
			p.Idents = i
		case "fonts":
			f := &PartialFonts{}
			err = assignAll(section, map[string]any{
				"defaultFont": &f.DefaultFont, "defaultFontSize": lengthField{&f.DefaultFontSize, UnitPT},
				"codeFont": &f.CodeFont, "lineSpacing": factorField{&f.LineSpacing},
			})
			p.Fonts = f
		case "headingsIncreaseFontSize", "headings":
			h := &PartialHeadingDeltas{}
			err = assignAll(section, map[string]any{
				"h1": lengthField{&h.H1, UnitPT}, "h2": lengthField{&h.H2, UnitPT}, "h3": lengthField{&h.H3, UnitPT},
				"h4": lengthField{&h.H4, UnitPT}, "h5": lengthField{&h.H5, UnitPT}, "h6": lengthField{&h.H6, UnitPT},
			})
			p.HeadingsIncreaseFontSize = h
		default:
			return nil, fmt.Errorf("%s: unknown section %q", section.Pos, section.Name)
		}
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

type lengthField struct {
	dst  **float64
	unit Unit
}

type factorField struct {
	dst **float64
}

func assignAll(section *dsl.Section, fields map[string]any) error {
	for _, a := range section.Block.Assignments {
		field, ok := fields[a.Key]
		if !ok {
			return fmt.Errorf("%s: unknown key %q in section %q", a.Pos, a.Key, section.Name)
		}
		text := a.Value.Text()
		switch f := field.(type) {
		case **string:
			if a.Value.IsNumber() {
				return fmt.Errorf("%s: %s expects a name, got %s", a.Pos, a.Key, text)
			}
			*f = &text
		case lengthField:
			l, err := ParseLength(text)
			if err != nil {
				return fmt.Errorf("%s: %s expects a length (bare numbers are %s): %w", a.Pos, a.Key, f.unit, err)
			}
			v := l.In(f.unit)
			*f.dst = &v
		case factorField:
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return fmt.Errorf("%s: %s expects a plain number: %w", a.Pos, a.Key, err)
			}
			*f.dst = &v
		}
	}
	return nil
}

// Dump returns resolved configuration as YAML.
func Dump(cfg Resolved) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("unable to encode configuration: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
