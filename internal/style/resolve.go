// Package style decides which element style properties follow the document
// theme and recomputes them when the theme changes.
package style

import (
	"sort"

	"quiz-builder/internal/domain"
)

// sizeTier holds the concrete values a theme size maps to.
type sizeTier struct {
	FontSize      string
	ButtonPadding string
	ButtonWidth   string
}

var sizeTable = map[domain.ThemeSize]sizeTier{
	domain.SizeSmall:  {FontSize: "14px", ButtonPadding: "8px 16px", ButtonWidth: "160px"},
	domain.SizeMedium: {FontSize: "16px", ButtonPadding: "12px 24px", ButtonWidth: "200px"},
	domain.SizeLarge:  {FontSize: "18px", ButtonPadding: "16px 32px", ButtonWidth: "240px"},
}

type rule struct {
	property string
	types    []domain.ElementType
	value    func(domain.Theme) string
}

// rules is the eligibility table. Anything not listed is never theme-owned.
var rules = []rule{
	{"backgroundColor", []domain.ElementType{domain.ElementButton}, func(t domain.Theme) string { return t.PrimaryColor }},
	{"color", []domain.ElementType{domain.ElementLink}, func(t domain.Theme) string { return t.PrimaryColor }},
	{"fontFamily", []domain.ElementType{domain.ElementText, domain.ElementButton, domain.ElementLink}, func(t domain.Theme) string { return t.FontFamily }},
	{"borderRadius", []domain.ElementType{domain.ElementButton, domain.ElementImage}, func(t domain.Theme) string { return t.CornerRadius }},
	{"fontSize", []domain.ElementType{domain.ElementText, domain.ElementButton, domain.ElementLink}, func(t domain.Theme) string { return tier(t).FontSize }},
	{"padding", []domain.ElementType{domain.ElementButton}, func(t domain.Theme) string { return tier(t).ButtonPadding }},
	{"width", []domain.ElementType{domain.ElementButton}, func(t domain.Theme) string { return tier(t).ButtonWidth }},
}

func tier(t domain.Theme) sizeTier {
	if v, ok := sizeTable[t.Size]; ok {
		return v
	}
	return sizeTable[domain.SizeMedium]
}

// Effective fills missing theme fields with the default theme.
func Effective(t domain.Theme) domain.Theme {
	return domain.BackfillTheme(t)
}

// Eligible reports whether property can be governed by the theme for type t.
func Eligible(property string, t domain.ElementType) bool {
	for _, r := range rules {
		if r.property == property && hasType(r.types, t) {
			return true
		}
	}
	return false
}

// Derived returns every theme-governed property for type t with the value
// the theme currently assigns it.
func Derived(theme domain.Theme, t domain.ElementType) map[string]string {
	theme = Effective(theme)
	out := make(map[string]string)
	for _, r := range rules {
		if hasType(r.types, t) {
			out[r.property] = r.value(theme)
		}
	}
	return out
}

// SectionBackground is the background every section follows.
func SectionBackground(theme domain.Theme) string {
	return Effective(theme).BackgroundColor
}

// Resolve returns the element's effective styles and the keys that are
// theme-owned right now: marked as theme and still equal to the live value.
func Resolve(el *domain.Element, theme domain.Theme) (map[string]string, []string) {
	derived := Derived(theme, el.Type)
	owned := make([]string, 0)
	for key, v := range el.Styles {
		if v.Source != domain.SourceTheme {
			continue
		}
		if want, ok := derived[key]; ok && want == v.Value {
			owned = append(owned, key)
		}
	}
	sort.Strings(owned)
	return el.Styles.Values(), owned
}

// Normalize demotes theme markers that no longer match the theme to manual.
// It reports whether anything changed.
func Normalize(el *domain.Element, theme domain.Theme) bool {
	_, owned := Resolve(el, theme)
	keep := make(map[string]struct{}, len(owned))
	for _, k := range owned {
		keep[k] = struct{}{}
	}
	changed := false
	for key, v := range el.Styles {
		if v.Source != domain.SourceTheme {
			continue
		}
		if _, ok := keep[key]; !ok {
			v.Source = domain.SourceManual
			el.Styles[key] = v
			changed = true
		}
	}
	return changed
}

// ApplyUpdate merges a user style delta into the element. A property set to
// anything other than the live theme value becomes manual; a property set to
// exactly the theme value keeps whatever source it had. An empty value
// removes the property.
func ApplyUpdate(el *domain.Element, updates map[string]string, theme domain.Theme) {
	if len(updates) == 0 {
		return
	}
	derived := Derived(theme, el.Type)
	for key, value := range updates {
		if value == "" {
			delete(el.Styles, key)
			continue
		}
		if el.Styles == nil {
			el.Styles = domain.Styles{}
		}
		prev, existed := el.Styles[key]
		next := domain.StyleValue{Value: value, Source: domain.SourceManual}
		if want, ok := derived[key]; ok && want == value && existed {
			next.Source = prev.Source
		}
		el.Styles[key] = next
	}
	Normalize(el, theme)
}

// Cascade re-themes a single element moving from theme `from` to theme `to`.
// Class-bound elements are left alone unless reset is set. With reset every
// eligible property is forced back to the theme value. Otherwise a property
// moves only when it is theme-owned under `from`. A property the element does
// not carry is left out unless reset is set. Children are not visited.
func Cascade(el *domain.Element, from, to domain.Theme, reset bool) bool {
	if el.StyleClass != "" && !reset {
		return false
	}
	next := Derived(to, el.Type)
	if len(next) == 0 {
		return false
	}
	prev := Derived(from, el.Type)
	changed := false
	for key, value := range next {
		cur, exists := el.Styles[key]
		owned := exists && cur.Source == domain.SourceTheme && cur.Value == prev[key]
		if !reset && !owned {
			continue
		}
		want := domain.StyleValue{Value: value, Source: domain.SourceTheme}
		if cur != want {
			if el.Styles == nil {
				el.Styles = domain.Styles{}
			}
			el.Styles[key] = want
			changed = true
		}
	}
	return changed
}

// Seed builds the initial styles of a new element: type defaults as manual,
// overlaid with theme-owned values for every eligible property.
func Seed(t domain.ElementType, defaults map[string]string, theme domain.Theme) domain.Styles {
	out := make(domain.Styles, len(defaults))
	for k, v := range defaults {
		out[k] = domain.StyleValue{Value: v, Source: domain.SourceManual}
	}
	for k, v := range Derived(theme, t) {
		out[k] = domain.StyleValue{Value: v, Source: domain.SourceTheme}
	}
	return out
}

func hasType(types []domain.ElementType, t domain.ElementType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
