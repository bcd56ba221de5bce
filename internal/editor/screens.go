package editor

import (
	"fmt"
	"slices"

	"quiz-builder/internal/domain"
)

// AddScreen appends an empty screen and makes it current.
func (s *DocumentStore) AddScreen(name string) (string, bool) {
	next := s.draft()
	if name == "" {
		name = fmt.Sprintf("Screen %d", len(next.Screens)+1)
	}
	screen := domain.NewScreen(s.newID(), name, next.Theme)
	next.Screens = append(next.Screens, screen)
	next.CurrentScreenIndex = len(next.Screens) - 1
	if !s.commit("addScreen", next) {
		return "", false
	}
	s.selection = domain.Selection{}
	return screen.ID, true
}

// DuplicateScreen inserts a copy of a screen, with fresh element ids, right
// after it and makes the copy current.
func (s *DocumentStore) DuplicateScreen(id string) (string, bool) {
	next := s.draft()
	idx := next.ScreenIndex(id)
	if idx < 0 {
		return "", false
	}
	src := next.Screens[idx]
	copied := domain.Screen{ID: s.newID(), Name: src.Name + " (copy)"}
	fresh := s.idSource(next)
	for _, sid := range domain.SectionOrder {
		sec := *src.Sections.Get(sid)
		sec.Elements = domain.CloneElements(sec.Elements)
		sec.Styles = copyStrings(sec.Styles)
		for i := range sec.Elements {
			sec.Elements[i].RegenerateIDs(fresh)
			sec.Elements[i].SetPlacement(sid, "")
		}
		*copied.Sections.Get(sid) = sec
	}
	next.Screens = slices.Insert(next.Screens, idx+1, copied)
	next.CurrentScreenIndex = idx + 1
	if !s.commit("duplicateScreen", next) {
		return "", false
	}
	s.selection = domain.Selection{}
	return copied.ID, true
}

// RemoveScreen deletes a screen. The last remaining screen cannot be removed.
func (s *DocumentStore) RemoveScreen(id string) bool {
	next := s.draft()
	idx := next.ScreenIndex(id)
	if idx < 0 || len(next.Screens) == 1 {
		return false
	}
	next.Screens = slices.Delete(next.Screens, idx, idx+1)
	if idx < next.CurrentScreenIndex {
		next.CurrentScreenIndex--
	}
	next.CurrentScreenIndex = domain.ClampIndex(next.CurrentScreenIndex, len(next.Screens))
	if !s.commit("removeScreen", next) {
		return false
	}
	s.pruneSelection(next)
	return true
}

// RenameScreen changes a screen name.
func (s *DocumentStore) RenameScreen(id, name string) bool {
	next := s.draft()
	idx := next.ScreenIndex(id)
	if idx < 0 || name == "" {
		return false
	}
	next.Screens[idx].Name = name
	return s.commit("renameScreen", next)
}

// SelectScreen makes the screen at index current. Screen navigation is part
// of the document and is therefore undoable.
func (s *DocumentStore) SelectScreen(index int) bool {
	next := s.draft()
	if index < 0 || index >= len(next.Screens) || index == next.CurrentScreenIndex {
		return false
	}
	next.CurrentScreenIndex = index
	if !s.commit("selectScreen", next) {
		return false
	}
	s.selection = domain.Selection{}
	return true
}

// SetSectionEnabled toggles header or footer of the current screen. The body
// is always enabled.
func (s *DocumentStore) SetSectionEnabled(id domain.SectionID, enabled bool) bool {
	if !id.Valid() || id == domain.SectionBody {
		return false
	}
	next := s.draft()
	sec := next.Screens[current(next)].Sections.Get(id)
	if sec.Enabled == enabled {
		return false
	}
	sec.Enabled = enabled
	if !s.commit("setSectionEnabled", next) {
		return false
	}
	if !enabled && s.selection.SectionID == id {
		s.selection.SectionID = ""
	}
	return true
}

// UpdateSectionStyles merges styles into a section of the current screen.
func (s *DocumentStore) UpdateSectionStyles(id domain.SectionID, styles map[string]string) bool {
	if !id.Valid() || len(styles) == 0 {
		return false
	}
	next := s.draft()
	sec := next.Screens[current(next)].Sections.Get(id)
	if !mergeStrings(&sec.Styles, styles) {
		return false
	}
	return s.commit("updateSectionStyles", next)
}

// UpdateSectionLayout merges a partial layout into a section of the current screen.
func (s *DocumentStore) UpdateSectionLayout(id domain.SectionID, layout domain.LayoutUpdate) bool {
	if !id.Valid() {
		return false
	}
	next := s.draft()
	sec := next.Screens[current(next)].Sections.Get(id)
	sec.Layout = layout.Apply(sec.Layout)
	return s.commit("updateSectionLayout", next)
}

// RenameDocument changes the document display name.
func (s *DocumentStore) RenameDocument(name string) bool {
	if name == "" {
		return false
	}
	next := s.draft()
	next.Name = name
	return s.commit("renameDocument", next)
}
