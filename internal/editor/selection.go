package editor

import (
	"slices"

	"quiz-builder/internal/domain"
)

// SelectElement selects the element with id. With multiSelect the element is
// toggled in the existing selection instead of replacing it. Selecting an
// element clears the section selection.
func (s *DocumentStore) SelectElement(id string, multiSelect bool) bool {
	if _, ok := s.history.Present().Locate(id); !ok {
		return false
	}
	s.selection.SectionID = ""
	if !multiSelect {
		s.selection.ElementIDs = []string{id}
		return true
	}
	if i := slices.Index(s.selection.ElementIDs, id); i >= 0 {
		s.selection.ElementIDs = slices.Delete(s.selection.ElementIDs, i, i+1)
		return true
	}
	s.selection.ElementIDs = append(s.selection.ElementIDs, id)
	return true
}

// SelectSection selects an enabled section of the current screen and clears
// the element selection.
func (s *DocumentStore) SelectSection(id domain.SectionID) bool {
	doc := s.history.Present()
	screen := doc.CurrentScreen()
	if screen == nil || !id.Valid() || !screen.Sections.Get(id).Enabled {
		return false
	}
	s.selection = domain.Selection{SectionID: id}
	return true
}

// ClearSelection drops both element and section selection.
func (s *DocumentStore) ClearSelection() {
	s.selection = domain.Selection{}
}

// pruneSelection forgets selected elements that no longer exist in doc.
func (s *DocumentStore) pruneSelection(doc *domain.Quiz) {
	kept := s.selection.ElementIDs[:0]
	for _, id := range s.selection.ElementIDs {
		if _, ok := doc.Locate(id); ok {
			kept = append(kept, id)
		}
	}
	s.selection.ElementIDs = kept
	if screen := doc.CurrentScreen(); s.selection.SectionID != "" && screen != nil {
		if !screen.Sections.Get(s.selection.SectionID).Enabled {
			s.selection.SectionID = ""
		}
	}
}
