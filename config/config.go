package config

// Built-in defaults. Margins and indents are millimeters, font sizes points.
const (
	DefaultMargin         = 10.0
	DefaultListIndent     = 10.0
	DefaultListItemIndent = 5.0
	DefaultFont           = "Helvetica"
	DefaultCodeFont       = "Courier"
	DefaultFontSize       = 10.0
	DefaultLineSpacing    = 0.2
)

type (
	Margins struct {
		Top    float64 `yaml:"top" json:"top"`
		Bottom float64 `yaml:"bottom" json:"bottom"`
		Left   float64 `yaml:"left" json:"left"`
		Right  float64 `yaml:"right" json:"right"`
	}

	Indents struct {
		List     float64 `yaml:"list" json:"list"`
		ListItem float64 `yaml:"listItem" json:"listItem"`
	}

	Fonts struct {
		DefaultFont     string  `yaml:"defaultFont" json:"defaultFont"`
		DefaultFontSize float64 `yaml:"defaultFontSize" json:"defaultFontSize"`
		CodeFont        string  `yaml:"codeFont" json:"codeFont"`
		LineSpacing     float64 `yaml:"lineSpacing" json:"lineSpacing"`
	}

	// HeadingDeltas holds the point size added to the default font size for h1..h6.
	HeadingDeltas struct {
		H1 float64 `yaml:"h1" json:"h1"`
		H2 float64 `yaml:"h2" json:"h2"`
		H3 float64 `yaml:"h3" json:"h3"`
		H4 float64 `yaml:"h4" json:"h4"`
		H5 float64 `yaml:"h5" json:"h5"`
		H6 float64 `yaml:"h6" json:"h6"`
	}

	// Resolved is the fully populated configuration used by a conversion.
	// It is built once and not modified afterwards.
	Resolved struct {
		Margins                  Margins       `yaml:"margins" json:"margins"`
		Idents                   Indents       `yaml:"idents" json:"idents"`
		Fonts                    Fonts         `yaml:"fonts" json:"fonts"`
		HeadingsIncreaseFontSize HeadingDeltas `yaml:"headingsIncreaseFontSize" json:"headingsIncreaseFontSize"`
	}
)

type (
	PartialMargins struct {
		Top    *float64 `yaml:"top,omitempty"`
		Bottom *float64 `yaml:"bottom,omitempty"`
		Left   *float64 `yaml:"left,omitempty"`
		Right  *float64 `yaml:"right,omitempty"`
	}

	PartialIndents struct {
		List     *float64 `yaml:"list,omitempty"`
		ListItem *float64 `yaml:"listItem,omitempty"`
	}

	PartialFonts struct {
		DefaultFont     *string  `yaml:"defaultFont,omitempty"`
		DefaultFontSize *float64 `yaml:"defaultFontSize,omitempty"`
		CodeFont        *string  `yaml:"codeFont,omitempty"`
		LineSpacing     *float64 `yaml:"lineSpacing,omitempty"`
	}

	PartialHeadingDeltas struct {
		H1 *float64 `yaml:"h1,omitempty"`
		H2 *float64 `yaml:"h2,omitempty"`
		H3 *float64 `yaml:"h3,omitempty"`
		H4 *float64 `yaml:"h4,omitempty"`
		H5 *float64 `yaml:"h5,omitempty"`
		H6 *float64 `yaml:"h6,omitempty"`
	}

	// Partial is user supplied configuration, every field is optional.
	Partial struct {
		Margins                  *PartialMargins       `yaml:"margins,omitempty"`
		Idents                   *PartialIndents       `yaml:"idents,omitempty"`
		Fonts                    *PartialFonts         `yaml:"fonts,omitempty"`
		HeadingsIncreaseFontSize *PartialHeadingDeltas `yaml:"headingsIncreaseFontSize,omitempty"`
	}
)

// Defaults returns the built-in configuration.
func Defaults() Resolved {
	return Resolved{
		Margins: Margins{Top: DefaultMargin, Bottom: DefaultMargin, Left: DefaultMargin, Right: DefaultMargin},
		Idents:  Indents{List: DefaultListIndent, ListItem: DefaultListItemIndent},
		Fonts: Fonts{
			DefaultFont:     DefaultFont,
			DefaultFontSize: DefaultFontSize,
			CodeFont:        DefaultCodeFont,
			LineSpacing:     DefaultLineSpacing,
		},
		HeadingsIncreaseFontSize: HeadingDeltas{H1: 14, H2: 12, H3: 10, H4: 8, H5: 6, H6: 4},
	}
}

// Resolve merges p over Defaults. A leaf overrides its default only when it
// is present and non-zero, so zero margins cannot be requested this way
// (build a Resolved directly for that). A present heading block replaces all
// six levels, absent levels become 0.
func Resolve(p *Partial) Resolved {
	cfg := Defaults()
	if p == nil {
		return cfg
	}
	if f := p.Fonts; f != nil {
		setString(&cfg.Fonts.DefaultFont, f.DefaultFont)
		setNumber(&cfg.Fonts.DefaultFontSize, f.DefaultFontSize)
		setString(&cfg.Fonts.CodeFont, f.CodeFont)
		setNumber(&cfg.Fonts.LineSpacing, f.LineSpacing)
	}
	if i := p.Idents; i != nil {
		setNumber(&cfg.Idents.List, i.List)
		setNumber(&cfg.Idents.ListItem, i.ListItem)
	}
	if m := p.Margins; m != nil {
		setNumber(&cfg.Margins.Top, m.Top)
		setNumber(&cfg.Margins.Bottom, m.Bottom)
		setNumber(&cfg.Margins.Left, m.Left)
		setNumber(&cfg.Margins.Right, m.Right)
	}
	if h := p.HeadingsIncreaseFontSize; h != nil {
		cfg.HeadingsIncreaseFontSize = HeadingDeltas{
			H1: valueOf(h.H1), H2: valueOf(h.H2), H3: valueOf(h.H3),
			H4: valueOf(h.H4), H5: valueOf(h.H5), H6: valueOf(h.H6),
		}
	}
	return cfg
}

// HeadingDelta returns the size increase for heading level 1..6, 0 otherwise.
func (c Resolved) HeadingDelta(level int) float64 {
	h := c.HeadingsIncreaseFontSize
	switch level {
	case 1:
		return h.H1
	case 2:
		return h.H2
	case 3:
		return h.H3
	case 4:
		return h.H4
	case 5:
		return h.H5
	case 6:
		return h.H6
	}
	return 0
}

// PrintableWidth is the A4 width between left and right margins.
func (c Resolved) PrintableWidth() float64 {
	return PageWidth - c.Margins.Left - c.Margins.Right
}

func setNumber(dst *float64, v *float64) {
	if v != nil && *v != 0 {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

func valueOf(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
