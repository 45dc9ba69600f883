package binding

import (
	"encoding/json"
	"testing"
)

func TestInterpolate(t *testing.T) {
	var data any
	if err := json.Unmarshal([]byte(`{"user":{"name":"Ada","tags":["x","y"]},"total":12.5,"items":[[1,2],[3,4]]}`), &data); err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		in, want string
	}{
		{"Hello ${user.name}!", "Hello Ada!"},
		{"${ user.tags[1] }", "y"},
		{"Total: ${total}", "Total: 12.5"},
		{"${items[1][0]}", "3"},
		{"${missing.path}", "${missing.path}"},
		{"${user.tags[9]}", "${user.tags[9]}"},
		{"${}", "${}"},
		{"plain", "plain"},
	}
	for _, c := range cases {
		if got := Interpolate(c.in, data); got != c.want {
			t.Errorf("Interpolate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestInterpolateNilData(t *testing.T) {
	if got := Interpolate("${a}", nil); got != "${a}" {
		t.Fatalf("nil data must leave text alone, got %q", got)
	}
}
