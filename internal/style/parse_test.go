package style

import "testing"

func TestParseDeclarations(t *testing.T) {
	got := ParseDeclarations("background-color: #fff; padding: 4px  8px;\n font-family: Inter")
	want := map[string]string{
		"backgroundColor": "#fff",
		"padding":         "4px 8px",
		"fontFamily":      "Inter",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("%s: expected %q, got %q", k, v, got[k])
		}
	}
}

func TestParseDeclarationsEmpty(t *testing.T) {
	if got := ParseDeclarations("   "); len(got) != 0 {
		t.Fatalf("expected no declarations, got %v", got)
	}
}

func TestCamelCase(t *testing.T) {
	cases := map[string]string{
		"border-top-left-radius": "borderTopLeftRadius",
		"color":                  "color",
		" Font-Size ":            "fontSize",
	}
	for in, want := range cases {
		if got := CamelCase(in); got != want {
			t.Fatalf("CamelCase(%q) = %q, want %q", in, got, want)
		}
	}
}
