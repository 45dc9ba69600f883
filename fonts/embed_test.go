package fonts

import (
	"bytes"
	"testing"
)

func TestLoadPicksFamilyAndStyle(t *testing.T) {
	regular := Load("Helvetica", false, false)
	if len(regular) == 0 {
		t.Fatal("empty font data")
	}
	if bytes.Equal(regular, Load("Helvetica", true, false)) {
		t.Fatal("bold must differ from regular")
	}
	if bytes.Equal(Load("Helvetica", false, true), Load("Courier", false, true)) {
		t.Fatal("monospace must differ from proportional")
	}
	if !bytes.Equal(Load("Times", true, true), Load("Arial", true, true)) {
		t.Fatal("all proportional names share the same family")
	}
}

func TestIsMonospace(t *testing.T) {
	for name, want := range map[string]bool{"Courier": true, "GoMono": true, "Helvetica": false, "": false} {
		if got := IsMonospace(name); got != want {
			t.Errorf("IsMonospace(%q) = %v", name, got)
		}
	}
}
