package editor

import (
	"quiz-builder/internal/domain"
	"quiz-builder/internal/style"
)

// ApplyThemeOptions scopes ApplyThemeToElements.
type ApplyThemeOptions struct {
	// ElementIDs defaults to the current selection.
	ElementIDs []string `json:"elementIds,omitempty"`
	// ResetAll detaches the listed elements from their style classes and forces
	// every eligible property back to the theme value, manual overrides and
	// deleted properties included. Descendants keep their class binding.
	ResetAll bool `json:"resetAll,omitempty"`
}

// UpdateTheme merges u into the current theme, mirrors it into the active
// preset and re-themes the whole document in one commit.
func (s *DocumentStore) UpdateTheme(u domain.ThemeUpdate) bool {
	next := s.draft()
	from := next.Theme
	to := u.Apply(from)
	next.Theme = to
	if preset := next.ThemePreset(next.ActiveThemeID); preset != nil {
		preset.Settings = to
	}
	cascadeDocument(next, from, to)
	return s.commit("updateTheme", next)
}

// SwitchTheme makes the preset with id both the current theme and the active
// preset, then re-themes the document.
func (s *DocumentStore) SwitchTheme(id string) bool {
	next := s.draft()
	preset := next.ThemePreset(id)
	if preset == nil {
		return false
	}
	from := next.Theme
	next.Theme = preset.Settings
	next.ActiveThemeID = id
	cascadeDocument(next, from, next.Theme)
	return s.commit("switchTheme", next)
}

// ApplyThemeToElements re-themes a subset of elements and their descendants.
func (s *DocumentStore) ApplyThemeToElements(opts ApplyThemeOptions) bool {
	ids := opts.ElementIDs
	if len(ids) == 0 {
		ids = s.selection.ElementIDs
	}
	if len(ids) == 0 {
		return false
	}
	next := s.draft()
	found := false
	for _, id := range ids {
		loc, ok := next.Locate(id)
		if !ok {
			continue
		}
		found = true
		el := loc.Element()
		if opts.ResetAll {
			el.StyleClass = ""
		}
		applyThemeTree(el, next.Theme, opts.ResetAll)
	}
	if !found {
		return false
	}
	return s.commit("applyThemeToElements", next)
}

// SaveThemePreset stores the current theme as a new named preset and makes
// it active.
func (s *DocumentStore) SaveThemePreset(name string) (string, bool) {
	next := s.draft()
	if name == "" {
		name = "Custom theme"
	}
	preset := domain.ThemePreset{ID: s.newID(), Name: name, Settings: next.Theme}
	next.Themes = append(next.Themes, preset)
	next.ActiveThemeID = preset.ID
	if !s.commit("saveThemePreset", next) {
		return "", false
	}
	return preset.ID, true
}

// DeleteThemePreset removes a preset. The current theme is kept; deleting the
// active preset clears the active pointer.
func (s *DocumentStore) DeleteThemePreset(id string) bool {
	next := s.draft()
	for i := range next.Themes {
		if next.Themes[i].ID != id {
			continue
		}
		next.Themes = append(next.Themes[:i], next.Themes[i+1:]...)
		if next.ActiveThemeID == id {
			next.ActiveThemeID = ""
		}
		return s.commit("deleteThemePreset", next)
	}
	return false
}

// applyThemeTree cascades theme into el and its descendants. Descendants still
// bound to a style class are left to the class.
func applyThemeTree(el *domain.Element, theme domain.Theme, reset bool) {
	if el.StyleClass == "" {
		style.Cascade(el, theme, theme, reset)
	}
	for i := range el.Children {
		applyThemeTree(&el.Children[i], theme, reset)
	}
}

// cascadeDocument re-themes every element of every screen and sets all
// section backgrounds to the theme background.
func cascadeDocument(doc *domain.Quiz, from, to domain.Theme) {
	bg := style.SectionBackground(to)
	for i := range doc.Screens {
		for _, sec := range doc.Screens[i].Sections.All() {
			if sec.Styles == nil {
				sec.Styles = map[string]string{}
			}
			sec.Styles["backgroundColor"] = bg
		}
	}
	doc.Walk(func(loc domain.Location) bool {
		style.Cascade(loc.Element(), from, to, false)
		return true
	})
}
