package domain

import (
	"reflect"
	"time"
)

// Deep copies of the document tree. Snapshots held by history and handed to
// subscribers must never share maps or slices with the live document.

// Clone returns a deep copy of the document.
func (q *Quiz) Clone() *Quiz {
	if q == nil {
		return nil
	}
	c := *q
	c.Screens = cloneScreens(q.Screens)
	c.Themes = cloneThemePresets(q.Themes)
	c.StyleClasses = cloneStyleClasses(q.StyleClasses)
	return &c
}

// Clone returns a deep copy of the element and all of its descendants.
func (e Element) Clone() Element {
	c := e
	c.Styles = cloneStyles(e.Styles)
	c.Attributes = cloneStringMap(e.Attributes)
	c.Children = CloneElements(e.Children)
	if e.Layout != nil {
		l := *e.Layout
		c.Layout = &l
	}
	if e.LegacyThemeStyles != nil {
		c.LegacyThemeStyles = append([]string(nil), e.LegacyThemeStyles...)
	}
	return c
}

// CloneElements deep copies a list of elements.
func CloneElements(elements []Element) []Element {
	if elements == nil {
		return nil
	}
	result := make([]Element, len(elements))
	for i := range elements {
		result[i] = elements[i].Clone()
	}
	return result
}

func cloneScreens(screens []Screen) []Screen {
	if screens == nil {
		return nil
	}
	result := make([]Screen, len(screens))
	for i := range screens {
		result[i] = Screen{
			ID:   screens[i].ID,
			Name: screens[i].Name,
			Sections: Sections{
				Header: cloneSection(screens[i].Sections.Header),
				Body:   cloneSection(screens[i].Sections.Body),
				Footer: cloneSection(screens[i].Sections.Footer),
			},
		}
	}
	return result
}

func cloneSection(s Section) Section {
	c := s
	c.Elements = CloneElements(s.Elements)
	c.Styles = cloneStringMap(s.Styles)
	return c
}

func cloneThemePresets(presets []ThemePreset) []ThemePreset {
	if presets == nil {
		return nil
	}
	result := make([]ThemePreset, len(presets))
	copy(result, presets)
	return result
}

func cloneStyleClasses(classes []StyleClass) []StyleClass {
	if classes == nil {
		return nil
	}
	result := make([]StyleClass, len(classes))
	for i := range classes {
		result[i] = classes[i]
		result[i].Styles = cloneStringMap(classes[i].Styles)
	}
	return result
}

func cloneStyles(s Styles) Styles {
	if s == nil {
		return nil
	}
	result := make(Styles, len(s))
	for k, v := range s {
		result[k] = v
	}
	return result
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	result := make(map[string]string, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

// Equal compares two documents structurally, ignoring LastEdited.
func Equal(a, b *Quiz) bool {
	if a == nil || b == nil {
		return a == b
	}
	x, y := *a, *b
	x.LastEdited, y.LastEdited = time.Time{}, time.Time{}
	return reflect.DeepEqual(x, y)
}
