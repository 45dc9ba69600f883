package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func TestResolveAbsentReturnsDefaults(t *testing.T) {
	got := Resolve(nil)
	if got != Defaults() {
		t.Fatalf("Resolve(nil) = %+v, want defaults", got)
	}
	if got.Fonts.DefaultFont != "Helvetica" || got.Fonts.DefaultFontSize != 10 {
		t.Fatalf("unexpected default font: %+v", got.Fonts)
	}
	m := got.Margins
	if m.Top != 10 || m.Bottom != 10 || m.Left != 10 || m.Right != 10 {
		t.Fatalf("unexpected default margins: %+v", m)
	}
	if got.Idents.List != 10 || got.Idents.ListItem != 5 {
		t.Fatalf("unexpected default indents: %+v", got.Idents)
	}
	if got.Fonts.CodeFont != "Courier" || got.Fonts.LineSpacing != 0.2 {
		t.Fatalf("unexpected default fonts: %+v", got.Fonts)
	}
	want := HeadingDeltas{H1: 14, H2: 12, H3: 10, H4: 8, H5: 6, H6: 4}
	if got.HeadingsIncreaseFontSize != want {
		t.Fatalf("unexpected heading deltas: %+v", got.HeadingsIncreaseFontSize)
	}
}

func TestResolveEmptyPartial(t *testing.T) {
	if got := Resolve(&Partial{}); got != Defaults() {
		t.Fatalf("empty partial changed defaults: %+v", got)
	}
}

func TestResolveOverridesTruthyLeaves(t *testing.T) {
	p := &Partial{
		Margins: &PartialMargins{Top: ptr(20.0), Left: ptr(0.0)},
		Fonts:   &PartialFonts{DefaultFont: ptr("Times"), CodeFont: ptr(""), DefaultFontSize: ptr(12.0)},
		Idents:  &PartialIndents{ListItem: ptr(7.0)},
	}
	got := Resolve(p)
	if got.Margins.Top != 20 {
		t.Fatalf("top margin not overridden: %v", got.Margins.Top)
	}
	if got.Margins.Left != 10 {
		t.Fatalf("zero override must be ignored, left=%v", got.Margins.Left)
	}
	if got.Fonts.DefaultFont != "Times" || got.Fonts.DefaultFontSize != 12 {
		t.Fatalf("fonts not overridden: %+v", got.Fonts)
	}
	if got.Fonts.CodeFont != "Courier" {
		t.Fatalf("empty string override must be ignored, code font=%q", got.Fonts.CodeFont)
	}
	if got.Idents.List != 10 || got.Idents.ListItem != 7 {
		t.Fatalf("unexpected indents: %+v", got.Idents)
	}
}

func TestResolveHeadingsReplaceAllLevels(t *testing.T) {
	p := &Partial{HeadingsIncreaseFontSize: &PartialHeadingDeltas{H1: ptr(20.0), H3: ptr(0.0)}}
	got := Resolve(p).HeadingsIncreaseFontSize
	want := HeadingDeltas{H1: 20}
	if got != want {
		t.Fatalf("heading deltas = %+v, want %+v", got, want)
	}
}

func TestHeadingDelta(t *testing.T) {
	cfg := Defaults()
	for level, want := range map[int]float64{1: 14, 2: 12, 3: 10, 4: 8, 5: 6, 6: 4, 0: 0, 7: 0} {
		if got := cfg.HeadingDelta(level); got != want {
			t.Fatalf("HeadingDelta(%d) = %v, want %v", level, got, want)
		}
	}
	if got := cfg.PrintableWidth(); got != 190 {
		t.Fatalf("PrintableWidth = %v, want 190", got)
	}
}

func TestParseYAML(t *testing.T) {
	p, err := ParseYAML([]byte(`
margins:
  top: 15
fonts:
  defaultFont: Times
  lineSpacing: 0.5
headingsIncreaseFontSize:
  h1: 10
  h2: 8
  h3: 6
  h4: 4
  h5: 2
  h6: 1
`))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	got := Resolve(p)
	if got.Margins.Top != 15 || got.Margins.Bottom != 10 {
		t.Fatalf("unexpected margins: %+v", got.Margins)
	}
	if got.Fonts.DefaultFont != "Times" || got.Fonts.LineSpacing != 0.5 {
		t.Fatalf("unexpected fonts: %+v", got.Fonts)
	}
	if got.HeadingsIncreaseFontSize.H6 != 1 {
		t.Fatalf("unexpected headings: %+v", got.HeadingsIncreaseFontSize)
	}
}

func TestParseYAMLRejectsUnknownKeys(t *testing.T) {
	if _, err := ParseYAML([]byte("margin:\n  top: 3\n")); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestParseDSLMatchesYAML(t *testing.T) {
	fromDSL, err := ParseDSL(`
margins { top: 1.5cm; left: 20mm }
fonts { defaultFont: "Times" defaultFontSize: 12pt lineSpacing: 0.5 }
idents { list: 8 }
`)
	if err != nil {
		t.Fatalf("ParseDSL: %v", err)
	}
	fromYAML, err := ParseYAML([]byte(`
margins: {top: 15, left: 20}
fonts: {defaultFont: Times, defaultFontSize: 12, lineSpacing: 0.5}
idents: {list: 8}
`))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	a, b := Resolve(fromDSL), Resolve(fromYAML)
	if math.Abs(a.Margins.Top-b.Margins.Top) > 1e-9 {
		t.Fatalf("top margin differs: dsl=%v yaml=%v", a.Margins.Top, b.Margins.Top)
	}
	a.Margins.Top = b.Margins.Top
	if a != b {
		t.Fatalf("resolved configs differ:\n dsl=%+v\nyaml=%+v", a, b)
	}
}

func TestParseDSLPointFontSizeFromMillimeters(t *testing.T) {
	p, err := ParseDSL(`fonts { defaultFontSize: 5mm }`)
	if err != nil {
		t.Fatalf("ParseDSL: %v", err)
	}
	if got := *p.Fonts.DefaultFontSize; math.Abs(got-5*MmToPt) > 1e-9 {
		t.Fatalf("font size = %v, want %v", got, 5*MmToPt)
	}
}

func TestParseDSLErrors(t *testing.T) {
	for _, src := range []string{
		`colors { a: 1 }`,
		`margins { middle: 3 }`,
		`margins { top: wide }`,
		`fonts { defaultFont: 12 }`,
		`fonts { lineSpacing: 2pt }`,
	} {
		if _, err := ParseDSL(src); err == nil {
			t.Errorf("expected error for %q", src)
		}
	}
}

func TestLoadFileByExtension(t *testing.T) {
	dir := t.TempDir()
	dslPath := filepath.Join(dir, "layout.paper")
	if err := os.WriteFile(dslPath, []byte(`margins { bottom: 25 }`), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadFile(dslPath)
	if err != nil {
		t.Fatalf("LoadFile(dsl): %v", err)
	}
	if got := Resolve(p).Margins.Bottom; got != 25 {
		t.Fatalf("bottom = %v, want 25", got)
	}

	yamlPath := filepath.Join(dir, "layout.yaml")
	if err := os.WriteFile(yamlPath, []byte("margins:\n  bottom: 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err = LoadFile(yamlPath)
	if err != nil {
		t.Fatalf("LoadFile(yaml): %v", err)
	}
	if got := Resolve(p).Margins.Bottom; got != 30 {
		t.Fatalf("bottom = %v, want 30", got)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestDumpRoundTrip(t *testing.T) {
	data, err := Dump(Defaults())
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if !strings.Contains(string(data), "defaultFont: Helvetica") {
		t.Fatalf("dump missing default font:\n%s", data)
	}
	p, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML(dump): %v", err)
	}
	if got := Resolve(p); got != Defaults() {
		t.Fatalf("dump does not round trip: %+v", got)
	}
}

func TestLoggingPrepareLevels(t *testing.T) {
	for _, level := range []string{"none", "normal", "debug", ""} {
		conf := LoggingConfig{Level: level}
		log, closer, err := conf.Prepare()
		if err != nil {
			t.Fatalf("Prepare(%q): %v", level, err)
		}
		log.Debug("probe")
		if err := closer(); err != nil {
			t.Fatalf("closer(%q): %v", level, err)
		}
	}
	bad := LoggingConfig{Level: "loud"}
	if _, _, err := bad.Prepare(); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLoggingPrepareFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "run.log")
	conf := LoggingConfig{Level: "none", Destination: dest}
	log, closer, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	log.Info("hello file")
	if err := log.Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if err := closer(); err != nil {
		t.Fatalf("closer: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello file") {
		t.Fatalf("log file missing message: %q", data)
	}
}

func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want Length
	}{
		{"12", Length{12, UnitNone}},
		{" 12.5MM ", Length{12.5, UnitMM}},
		{"1.5cm", Length{1.5, UnitCM}},
		{"2in", Length{2, UnitIN}},
		{"10 pt", Length{10, UnitPT}},
		{"-3mm", Length{-3, UnitMM}},
	}
	for _, c := range cases {
		got, err := ParseLength(c.in)
		if err != nil {
			t.Fatalf("ParseLength(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseLength(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
	for _, bad := range []string{"", "mm", "wide", "1.2.3pt"} {
		if _, err := ParseLength(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestLengthIn(t *testing.T) {
	cases := []struct {
		l      Length
		target Unit
		want   float64
	}{
		{Length{7, UnitNone}, UnitMM, 7},
		{Length{7, UnitNone}, UnitPT, 7},
		{Length{2, UnitCM}, UnitMM, 20},
		{Length{1, UnitIN}, UnitMM, 25.4},
		{Length{10, UnitPT}, UnitPT, 10},
		{Length{10, UnitPT}, UnitMM, 10 * PtToMm},
		{Length{1, UnitMM}, UnitPT, MmToPt},
	}
	for _, c := range cases {
		if got := c.l.In(c.target); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("%+v in %s = %v, want %v", c.l, c.target, got, c.want)
		}
	}
	if got := (Length{3, UnitCM}).MM(); got != 30 {
		t.Errorf("MM() = %v", got)
	}
}

func TestUnitString(t *testing.T) {
	for u, want := range map[Unit]string{UnitNone: "", UnitMM: "mm", UnitCM: "cm", UnitIN: "in", UnitPT: "pt"} {
		if got := u.String(); got != want {
			t.Errorf("Unit(%d).String() = %q, want %q", int(u), got, want)
		}
	}
}

func TestParseDSLLengthErrorNamesDefaultUnit(t *testing.T) {
	_, err := ParseDSL(`fonts { defaultFontSize: big }`)
	if err == nil || !strings.Contains(err.Error(), "bare numbers are pt") {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = ParseDSL(`margins { top: wide }`)
	if err == nil || !strings.Contains(err.Error(), "bare numbers are mm") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReadDSLStream(t *testing.T) {
	p, err := ReadDSL(strings.NewReader("idents { list: 2cm; listItem: 4 }"))
	if err != nil {
		t.Fatal(err)
	}
	got := Resolve(p)
	if got.Idents.List != 20 || got.Idents.ListItem != 4 {
		t.Fatalf("unexpected indents: %+v", got.Idents)
	}
	if _, err := ReadDSL(strings.NewReader("margins { top 3 }")); err == nil {
		t.Fatal("expected syntax error")
	}
}

func TestParseDSLRejectsDuplicateSections(t *testing.T) {
	_, err := ParseDSL("margins { top: 3 }\nfonts { codeFont: Courier }\nmargins { left: 4 }")
	if err == nil || !strings.Contains(err.Error(), "already defined") {
		t.Fatalf("unexpected error: %v", err)
	}
}
