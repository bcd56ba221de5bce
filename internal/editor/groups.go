package editor

import (
	"slices"

	"quiz-builder/internal/domain"
	"quiz-builder/internal/style"
)

// GroupSelectedElements wraps the selected elements of the current screen in
// a new group and selects it. It needs at least two elements.
//
// Every selected element is removed from wherever it is nested; groups left
// empty by this removal are deleted. The group goes to the section that
// contributed most elements, ties resolved in header, body, footer order. It
// is inserted where the first grouped element of that section used to be, or
// appended when that section only contributed nested elements.
func (s *DocumentStore) GroupSelectedElements() (string, bool) {
	if len(s.selection.ElementIDs) < 2 {
		return "", false
	}
	next := s.draft()
	screen := current(next)
	ids := topLevelInScreen(next, screen, s.selection.ElementIDs)
	if len(ids) < 2 {
		return "", false
	}

	before := sectionOrderSnapshot(next, screen)
	grouped := make([]domain.Element, 0, len(ids))
	counts := make(map[domain.SectionID]int)
	firstDirect := make(map[domain.SectionID]string)
	for _, id := range ids {
		loc, ok := next.LocateInScreen(screen, id)
		if !ok {
			continue
		}
		counts[loc.Section]++
		if loc.Parent == nil {
			if _, seen := firstDirect[loc.Section]; !seen {
				firstDirect[loc.Section] = id
			}
		}
		parentID := loc.ParentID()
		grouped = append(grouped, removeAt(loc.Container, loc.Index))
		if parentID != "" {
			pruneEmptyGroups(next, screen, parentID)
		}
	}

	target := domain.SectionBody
	best := 0
	for _, id := range domain.SectionOrder {
		if counts[id] > best {
			target, best = id, counts[id]
		}
	}
	sec := next.Screens[screen].Sections.Get(target)

	group := domain.Element{
		ID:      s.idSource(next)(),
		Type:    domain.ElementGroup,
		IsGroup: true,
		Styles:  style.Seed(domain.ElementGroup, defaultsByType[domain.ElementGroup].styles, next.Theme),
	}
	layout := groupLayout(grouped, sec.Layout)
	group.Layout = &layout
	group.Children = grouped
	group.SetPlacement(target, "")

	at := insertionIndex(before[target], firstDirect[target], sec.Elements)
	sec.Elements = slices.Insert(sec.Elements, at, group)

	if !s.commit("groupSelectedElements", next) {
		return "", false
	}
	s.selection = domain.Selection{ElementIDs: []string{group.ID}}
	return group.ID, true
}

// UngroupElements splices the children of a group into the group's place in
// its parent list and selects them. Empty or unknown groups are ignored.
func (s *DocumentStore) UngroupElements(groupID string) bool {
	next := s.draft()
	loc, ok := next.Locate(groupID)
	if !ok {
		return false
	}
	group := loc.Element()
	if !group.IsGroup || len(group.Children) == 0 {
		return false
	}
	children := group.Children
	ids := make([]string, len(children))
	for i := range children {
		children[i].SetPlacement(loc.Section, loc.ParentID())
		ids[i] = children[i].ID
	}
	*loc.Elements = slices.Replace(*loc.Elements, loc.Index, loc.Index+1, children...)
	if !s.commit("ungroupElements", next) {
		return false
	}
	s.selection = domain.Selection{ElementIDs: ids}
	return true
}

// UpdateGroupStyles merges styles into a group element.
func (s *DocumentStore) UpdateGroupStyles(groupID string, styles map[string]string) bool {
	if len(styles) == 0 {
		return false
	}
	return s.updateElement("updateGroupStyles", groupID, ElementUpdate{Styles: styles}, true)
}

// UpdateGroupLayout merges a partial layout into a group element.
func (s *DocumentStore) UpdateGroupLayout(groupID string, layout domain.LayoutUpdate) bool {
	return s.updateElement("updateGroupLayout", groupID, ElementUpdate{Layout: &layout}, true)
}

// groupLayout reuses the layout shared by grouped groups, then the target
// section layout, then the default.
func groupLayout(grouped []domain.Element, sectionLayout domain.Layout) domain.Layout {
	shared := true
	var first *domain.Layout
	for i := range grouped {
		el := &grouped[i]
		if !el.IsGroup || el.Layout == nil {
			shared = false
			break
		}
		if first == nil {
			first = el.Layout
		} else if *first != *el.Layout {
			shared = false
			break
		}
	}
	if shared && first != nil {
		return *first
	}
	if !sectionLayout.IsZero() {
		return sectionLayout
	}
	return domain.DefaultLayout()
}

// pruneEmptyGroups removes the group with id if it has no children left, and
// keeps walking up while parents become empty.
func pruneEmptyGroups(doc *domain.Quiz, screen int, id string) {
	for id != "" {
		loc, ok := doc.LocateInScreen(screen, id)
		if !ok {
			return
		}
		el := loc.Element()
		if !el.IsGroup || len(el.Children) > 0 {
			return
		}
		id = loc.ParentID()
		removeAt(loc.Container, loc.Index)
	}
}

func topLevelInScreen(doc *domain.Quiz, screen int, ids []string) []string {
	var out []string
	for _, id := range topLevel(doc, ids) {
		if _, ok := doc.LocateInScreen(screen, id); ok {
			out = append(out, id)
		}
	}
	return out
}

// sectionOrderSnapshot records the ids of every section's direct elements.
func sectionOrderSnapshot(doc *domain.Quiz, screen int) map[domain.SectionID][]string {
	out := make(map[domain.SectionID][]string, len(domain.SectionOrder))
	for _, id := range domain.SectionOrder {
		sec := doc.Screens[screen].Sections.Get(id)
		ids := make([]string, len(sec.Elements))
		for i := range sec.Elements {
			ids[i] = sec.Elements[i].ID
		}
		out[id] = ids
	}
	return out
}

// insertionIndex counts the surviving elements that preceded anchor in the
// original order. Without an anchor the group is appended.
func insertionIndex(before []string, anchor string, after []domain.Element) int {
	if anchor == "" {
		return len(after)
	}
	alive := make(map[string]struct{}, len(after))
	for i := range after {
		alive[after[i].ID] = struct{}{}
	}
	at := 0
	for _, id := range before {
		if id == anchor {
			break
		}
		if _, ok := alive[id]; ok {
			at++
		}
	}
	return at
}
