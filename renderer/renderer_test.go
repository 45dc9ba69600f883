package renderer

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/htmlpaper/layout"
)

func TestCheckResult(t *testing.T) {
	if err := CheckResult(nil); err == nil {
		t.Fatal("nil result must fail")
	}
	if err := CheckResult(&layout.Result{}); err == nil {
		t.Fatal("result without pages must fail")
	}
	res := &layout.Result{PDFConfig: layout.PDFConfig{Pages: []layout.Page{{}}}}
	if err := CheckResult(res); err != nil {
		t.Fatal(err)
	}
}

func TestResolvePath(t *testing.T) {
	if _, err := ResolvePath("", "a.png"); err == nil {
		t.Fatal("relative path without base dir must fail")
	}
	got, err := ResolvePath("/assets", "a.png")
	if err != nil || got != filepath.Join("/assets", "a.png") {
		t.Fatalf("got %q, %v", got, err)
	}
	if got, _ := ResolvePath("", "/abs/a.png"); got != "/abs/a.png" {
		t.Fatalf("absolute path changed: %q", got)
	}
}

func TestImageData(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err := ImageData(dir, layout.Element{Image: &layout.ImageRef{FileName: "a.png", Format: "PNG"}})
	if err != nil || string(data) != "png" {
		t.Fatalf("file image: %q, %v", data, err)
	}

	inline := base64.StdEncoding.EncodeToString([]byte("gif"))
	for _, src := range []string{inline, "data:image/gif;base64," + inline} {
		data, err = ImageData("", layout.Element{ImageBase64: src})
		if err != nil || string(data) != "gif" {
			t.Fatalf("inline image %q: %q, %v", src, data, err)
		}
	}

	if _, err := ImageData(dir, layout.Element{Image: &layout.ImageRef{FileName: "missing.png"}}); err == nil {
		t.Fatal("missing file must fail")
	}
	if _, err := ImageData(dir, layout.Element{}); err == nil {
		t.Fatal("element without image must fail")
	}
}

func TestGray(t *testing.T) {
	v := func(i int) *int { return &i }
	if Gray(nil) != 0 || Gray(v(-3)) != 0 || Gray(v(128)) != 128 || Gray(v(999)) != 255 {
		t.Fatal("unexpected gray mapping")
	}
}
