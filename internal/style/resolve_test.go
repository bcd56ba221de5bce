package style

import (
	"testing"

	"quiz-builder/internal/domain"
)

func TestEligibility(t *testing.T) {
	cases := []struct {
		property string
		typ      domain.ElementType
		want     bool
	}{
		{"backgroundColor", domain.ElementButton, true},
		{"backgroundColor", domain.ElementText, false},
		{"color", domain.ElementLink, true},
		{"color", domain.ElementButton, false},
		{"borderRadius", domain.ElementImage, true},
		{"fontSize", domain.ElementImage, false},
		{"width", domain.ElementButton, true},
		{"margin", domain.ElementButton, false},
		{"fontFamily", domain.ElementGroup, false},
	}
	for _, c := range cases {
		if got := Eligible(c.property, c.typ); got != c.want {
			t.Fatalf("Eligible(%s, %s) = %v, want %v", c.property, c.typ, got, c.want)
		}
	}
}

func TestDerivedUsesSizeTable(t *testing.T) {
	theme := domain.DefaultTheme()
	theme.Size = domain.SizeSmall
	got := Derived(theme, domain.ElementButton)
	if got["fontSize"] != "14px" || got["padding"] != "8px 16px" || got["width"] != "160px" {
		t.Fatalf("unexpected small tier %v", got)
	}
	if got["backgroundColor"] != theme.PrimaryColor || got["borderRadius"] != theme.CornerRadius {
		t.Fatalf("unexpected theme values %v", got)
	}
	if len(Derived(theme, domain.ElementGroup)) != 0 {
		t.Fatalf("groups have no theme-governed properties")
	}
}

func TestDerivedBackfillsEmptyTheme(t *testing.T) {
	got := Derived(domain.Theme{}, domain.ElementText)
	if got["fontFamily"] != domain.DefaultTheme().FontFamily || got["fontSize"] != "16px" {
		t.Fatalf("expected defaults, got %v", got)
	}
}

func TestResolveOwnedKeys(t *testing.T) {
	theme := domain.DefaultTheme()
	el := domain.Element{Type: domain.ElementButton, Styles: Seed(domain.ElementButton, map[string]string{"color": "#fff"}, theme)}
	el.Styles["fontSize"] = domain.StyleValue{Value: "99px", Source: domain.SourceTheme}

	values, owned := Resolve(&el, theme)
	if values["color"] != "#fff" {
		t.Fatalf("unexpected values %v", values)
	}
	for _, k := range owned {
		if k == "fontSize" || k == "color" {
			t.Fatalf("%s must not be owned: %v", k, owned)
		}
	}
	if len(owned) != 5 {
		t.Fatalf("expected 5 owned keys, got %v", owned)
	}
}

func TestApplyUpdate(t *testing.T) {
	theme := domain.DefaultTheme()
	el := domain.Element{Type: domain.ElementButton, Styles: Seed(domain.ElementButton, nil, theme)}

	ApplyUpdate(&el, map[string]string{"backgroundColor": "#abcdef", "margin": "4px"}, theme)
	if el.Styles["backgroundColor"].Source != domain.SourceManual || el.Styles["margin"].Source != domain.SourceManual {
		t.Fatalf("edited keys must be manual: %+v", el.Styles)
	}

	ApplyUpdate(&el, map[string]string{"fontSize": "16px"}, theme)
	if el.Styles["fontSize"].Source != domain.SourceTheme {
		t.Fatalf("setting the theme value keeps the theme source")
	}

	ApplyUpdate(&el, map[string]string{"backgroundColor": theme.PrimaryColor}, theme)
	if el.Styles["backgroundColor"].Source != domain.SourceManual {
		t.Fatalf("a manual key stays manual when set to the theme value")
	}

	ApplyUpdate(&el, map[string]string{"margin": ""}, theme)
	if _, ok := el.Styles["margin"]; ok {
		t.Fatalf("empty value must delete the key")
	}
}

func TestCascade(t *testing.T) {
	from := domain.DefaultTheme()
	to := from
	to.PrimaryColor = "#000000"
	to.Size = domain.SizeLarge

	el := domain.Element{Type: domain.ElementButton, Styles: Seed(domain.ElementButton, nil, from)}
	el.Styles["padding"] = domain.StyleValue{Value: "1px", Source: domain.SourceManual}
	delete(el.Styles, "width")

	if !Cascade(&el, from, to, false) {
		t.Fatalf("expected a change")
	}
	if el.Styles["backgroundColor"].Value != "#000000" || el.Styles["fontSize"].Value != "18px" {
		t.Fatalf("owned keys not moved: %+v", el.Styles)
	}
	if el.Styles["padding"].Value != "1px" {
		t.Fatalf("manual override lost")
	}
	if _, ok := el.Styles["width"]; ok {
		t.Fatalf("deleted key must stay deleted: %+v", el.Styles["width"])
	}

	if !Cascade(&el, to, to, true) || el.Styles["padding"].Value != "16px 32px" {
		t.Fatalf("reset must force overrides back to the theme")
	}
	if el.Styles["width"] != (domain.StyleValue{Value: "240px", Source: domain.SourceTheme}) {
		t.Fatalf("reset must restore deleted keys: %+v", el.Styles["width"])
	}
}

func TestCascadeSkipsClassBound(t *testing.T) {
	from := domain.DefaultTheme()
	to := from
	to.PrimaryColor = "#000000"
	el := domain.Element{Type: domain.ElementButton, StyleClass: "c1", Styles: Seed(domain.ElementButton, nil, from)}
	if Cascade(&el, from, to, false) {
		t.Fatalf("class-bound element must be skipped")
	}
	if el.Styles["backgroundColor"].Value != from.PrimaryColor {
		t.Fatalf("class-bound element changed")
	}
}

func TestNormalizeDemotesStaleThemeMarkers(t *testing.T) {
	theme := domain.DefaultTheme()
	el := domain.Element{Type: domain.ElementLink, Styles: domain.Styles{
		"color":   {Value: "#123456", Source: domain.SourceTheme},
		"opacity": {Value: "0.5", Source: domain.SourceTheme},
	}}
	if !Normalize(&el, theme) {
		t.Fatalf("expected normalization")
	}
	if el.Styles["color"].Source != domain.SourceManual || el.Styles["opacity"].Source != domain.SourceManual {
		t.Fatalf("stale markers not demoted: %+v", el.Styles)
	}
}
