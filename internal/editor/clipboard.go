package editor

import "quiz-builder/internal/domain"

// CopySelectedElements fills the clipboard with deep copies of the selected
// elements, in document order, and returns how many were copied. Ids are kept
// until paste. An empty selection leaves the clipboard alone.
func (s *DocumentStore) CopySelectedElements() int {
	doc := s.history.Present()
	var copied []domain.Element
	for _, id := range topLevel(doc, s.selection.ElementIDs) {
		if el, ok := doc.Find(id); ok {
			copied = append(copied, el)
		}
	}
	if len(copied) == 0 {
		return 0
	}
	s.clipboard = copied
	return len(copied)
}

// PasteElements inserts fresh copies of the clipboard. With a targetGroupID
// that names a container on the current screen the copies are appended to its
// children and take the group's section, which may differ from targetSection.
// Otherwise they go to the target section ("" means the selected section, or
// body). The pasted elements become the selection.
func (s *DocumentStore) PasteElements(targetSection domain.SectionID, targetGroupID string) []string {
	if len(s.clipboard) == 0 {
		return nil
	}
	if targetSection == "" {
		targetSection = s.selection.SectionID
	}
	if targetSection == "" {
		targetSection = domain.SectionBody
	}
	if !targetSection.Valid() {
		return nil
	}

	next := s.draft()
	screen := current(next)
	dest := &next.Screens[screen].Sections.Get(targetSection).Elements
	section, parent := targetSection, ""
	if targetGroupID != "" {
		if loc, ok := next.LocateInScreen(screen, targetGroupID); ok && loc.Element().IsGroup {
			group := loc.Element()
			dest, section, parent = &group.Children, loc.Section, group.ID
		}
	}

	fresh := s.idSource(next)
	ids := make([]string, 0, len(s.clipboard))
	for _, src := range s.clipboard {
		el := src.Clone()
		el.RegenerateIDs(fresh)
		el.SetPlacement(section, parent)
		*dest = append(*dest, el)
		ids = append(ids, el.ID)
	}
	if !s.commit("pasteElements", next) {
		return nil
	}
	s.selection = domain.Selection{ElementIDs: ids}
	return ids
}
