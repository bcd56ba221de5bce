package editor

import (
	"slices"

	"quiz-builder/internal/domain"
	"quiz-builder/internal/style"
)

// Direction is the requested move of ReorderElement. Up and left move toward
// the start of the sibling list, down and right toward its end.
type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// ElementUpdate is a partial element edit. Styles and attributes are merged
// key by key; an empty value removes the key.
type ElementUpdate struct {
	Content    *string              `json:"content,omitempty"`
	Styles     map[string]string    `json:"styles,omitempty"`
	Attributes map[string]string    `json:"attributes,omitempty"`
	Layout     *domain.LayoutUpdate `json:"layout,omitempty"`
}

// AddElement appends a new element of type t to a section of the given
// screen ("" for the current one) and selects it.
func (s *DocumentStore) AddElement(t domain.ElementType, section domain.SectionID, screenID string) (string, bool) {
	if !t.Valid() || !section.Valid() {
		return "", false
	}
	next := s.draft()
	screen := current(next)
	if screenID != "" {
		if screen = next.ScreenIndex(screenID); screen < 0 {
			return "", false
		}
	}
	el := newElement(t, section, next.Theme, s.idSource(next))
	sec := next.Screens[screen].Sections.Get(section)
	sec.Elements = append(sec.Elements, el)
	if !s.commit("addElement", next) {
		return "", false
	}
	s.selection = domain.Selection{ElementIDs: []string{el.ID}}
	return el.ID, true
}

// UpdateElement merges u into the element with id, wherever it is nested.
// Style edits on a class-bound element are broadcast to the class and every
// other element using it.
func (s *DocumentStore) UpdateElement(id string, u ElementUpdate) bool {
	return s.updateElement("updateElement", id, u, false)
}

func (s *DocumentStore) updateElement(op, id string, u ElementUpdate, groupsOnly bool) bool {
	next := s.draft()
	loc, ok := next.Locate(id)
	if !ok {
		return false
	}
	el := loc.Element()
	if groupsOnly && !el.IsGroup {
		return false
	}
	if u.Content != nil {
		el.Content = *u.Content
	}
	mergeStrings(&el.Attributes, u.Attributes)
	if u.Layout != nil && el.IsGroup {
		base := domain.DefaultLayout()
		if el.Layout != nil {
			base = *el.Layout
		}
		l := u.Layout.Apply(base)
		el.Layout = &l
	}
	if len(u.Styles) > 0 {
		style.ApplyUpdate(el, u.Styles, next.Theme)
		if el.StyleClass != "" {
			broadcastClassDelta(next, el.StyleClass, u.Styles)
		}
	}
	return s.commit(op, next)
}

// RemoveElement deletes the element with id together with its descendants.
// Groups left empty stay in place.
func (s *DocumentStore) RemoveElement(id string) bool {
	next := s.draft()
	if _, ok := removeByID(next, id); !ok {
		return false
	}
	if !s.commit("removeElement", next) {
		return false
	}
	s.pruneSelection(next)
	return true
}

// RemoveSelectedElements deletes every selected element.
func (s *DocumentStore) RemoveSelectedElements() bool {
	next := s.draft()
	removed := 0
	for _, id := range topLevel(next, s.selection.ElementIDs) {
		if _, ok := removeByID(next, id); ok {
			removed++
		}
	}
	if removed == 0 || !s.commit("removeSelectedElements", next) {
		return false
	}
	s.selection.ElementIDs = nil
	return true
}

// MoveElement moves a section-level element of the current screen to the end
// of another section. Nested elements are moved out with UngroupElements.
func (s *DocumentStore) MoveElement(id string, target domain.SectionID) bool {
	if !target.Valid() {
		return false
	}
	next := s.draft()
	screen := current(next)
	loc, ok := next.LocateInScreen(screen, id)
	if !ok || loc.Parent != nil || loc.Section == target {
		return false
	}
	el := removeAt(loc.Container, loc.Index)
	el.SetPlacement(target, "")
	sec := next.Screens[screen].Sections.Get(target)
	sec.Elements = append(sec.Elements, el)
	return s.commit("moveElement", next)
}

// ReorderElement swaps the element with its neighbour in its own sibling
// list. Moves past either end are ignored.
func (s *DocumentStore) ReorderElement(id string, dir Direction) bool {
	next := s.draft()
	loc, ok := next.Locate(id)
	if !ok {
		return false
	}
	j := loc.Index
	switch dir {
	case DirectionUp, DirectionLeft:
		j--
	case DirectionDown, DirectionRight:
		j++
	default:
		return false
	}
	list := *loc.Elements
	if j < 0 || j >= len(list) {
		return false
	}
	list[loc.Index], list[j] = list[j], list[loc.Index]
	return s.commit("reorderElement", next)
}

// ApplyContent replaces the content of every listed element in a single
// commit and returns how many elements changed. Unknown ids are skipped.
func (s *DocumentStore) ApplyContent(replacements map[string]string) int {
	next := s.draft()
	changed := 0
	next.Walk(func(loc domain.Location) bool {
		el := loc.Element()
		if content, ok := replacements[el.ID]; ok && el.Content != content {
			el.Content = content
			changed++
		}
		return true
	})
	if changed == 0 || !s.commit("applyContent", next) {
		return 0
	}
	return changed
}

// idSource returns an id generator that never repeats an id already in doc.
func (s *DocumentStore) idSource(doc *domain.Quiz) func() string {
	return func() string {
		for {
			id := s.newID()
			if _, taken := doc.Locate(id); !taken {
				return id
			}
		}
	}
}

func removeByID(doc *domain.Quiz, id string) (domain.Element, bool) {
	loc, ok := doc.Locate(id)
	if !ok {
		return domain.Element{}, false
	}
	return removeAt(loc.Container, loc.Index), true
}

func removeAt(c domain.Container, i int) domain.Element {
	el := (*c.Elements)[i]
	*c.Elements = slices.Delete(*c.Elements, i, i+1)
	return el
}

// topLevel keeps the ids that exist in doc and are not nested inside another
// id of the list, in document order.
func topLevel(doc *domain.Quiz, ids []string) []string {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []string
	var covered []*domain.Element
	doc.Walk(func(loc domain.Location) bool {
		el := loc.Element()
		if _, ok := want[el.ID]; !ok {
			return true
		}
		for _, anc := range covered {
			if anc.Contains(el.ID) {
				return true
			}
		}
		out = append(out, el.ID)
		covered = append(covered, el)
		return true
	})
	return out
}

// mergeStrings applies delta to *dst, removing keys set to "". The map is
// allocated only when a value is actually written, so a nil map stays nil.
func mergeStrings(dst *map[string]string, delta map[string]string) bool {
	changed := false
	for k, v := range delta {
		if v == "" {
			if _, ok := (*dst)[k]; ok {
				delete(*dst, k)
				changed = true
			}
			continue
		}
		if cur, ok := (*dst)[k]; ok && cur == v {
			continue
		}
		if *dst == nil {
			*dst = map[string]string{}
		}
		(*dst)[k] = v
		changed = true
	}
	return changed
}
