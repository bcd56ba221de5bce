package domain

// Container is an ordered element list inside the document: either the
// top-level elements of a section or the children of a container element.
type Container struct {
	Elements *[]Element
	Screen   int
	Section  SectionID
	// Parent is nil for section-direct lists.
	Parent *Element
}

// ParentID returns the id of the owning container element, or "".
func (c Container) ParentID() string {
	if c.Parent == nil {
		return ""
	}
	return c.Parent.ID
}

// Location pins an element inside its container. It is only valid until the
// container slice is modified.
type Location struct {
	Container
	Index int
	Depth int
}

// Element returns the located element.
func (l Location) Element() *Element {
	return &(*l.Elements)[l.Index]
}

// Walk visits every element in lookup order: the current screen first, then
// the remaining screens by index; header, body, footer; declaration order;
// children right after their parent. fn returns false to stop. fn may edit
// element fields but must not add or remove elements.
func (q *Quiz) Walk(fn func(Location) bool) {
	if !q.WalkScreen(q.CurrentScreenIndex, fn) {
		return
	}
	for i := range q.Screens {
		if i == q.CurrentScreenIndex {
			continue
		}
		if !q.WalkScreen(i, fn) {
			return
		}
	}
}

// WalkScreen is Walk restricted to the screen at index i. It reports false if
// fn stopped the traversal.
func (q *Quiz) WalkScreen(i int, fn func(Location) bool) bool {
	if i < 0 || i >= len(q.Screens) {
		return true
	}
	for _, id := range SectionOrder {
		sec := q.Screens[i].Sections.Get(id)
		if !walkList(Container{Elements: &sec.Elements, Screen: i, Section: id}, 0, fn) {
			return false
		}
	}
	return true
}

func walkList(c Container, depth int, fn func(Location) bool) bool {
	for idx := range *c.Elements {
		if !fn(Location{Container: c, Index: idx, Depth: depth}) {
			return false
		}
		el := &(*c.Elements)[idx]
		if len(el.Children) == 0 {
			continue
		}
		child := Container{Elements: &el.Children, Screen: c.Screen, Section: c.Section, Parent: el}
		if !walkList(child, depth+1, fn) {
			return false
		}
	}
	return true
}

// Locate finds the element with id anywhere in the document.
func (q *Quiz) Locate(id string) (Location, bool) {
	var found Location
	ok := false
	if id == "" {
		return found, false
	}
	q.Walk(func(loc Location) bool {
		if loc.Element().ID == id {
			found, ok = loc, true
			return false
		}
		return true
	})
	return found, ok
}

// LocateInScreen finds the element with id on the screen at index i.
func (q *Quiz) LocateInScreen(i int, id string) (Location, bool) {
	var found Location
	ok := false
	if id == "" {
		return found, false
	}
	q.WalkScreen(i, func(loc Location) bool {
		if loc.Element().ID == id {
			found, ok = loc, true
			return false
		}
		return true
	})
	return found, ok
}

// Find returns a copy of the element with id.
func (q *Quiz) Find(id string) (Element, bool) {
	loc, ok := q.Locate(id)
	if !ok {
		return Element{}, false
	}
	return loc.Element().Clone(), true
}

// Contains reports whether id names a descendant of e.
func (e *Element) Contains(id string) bool {
	for i := range e.Children {
		if e.Children[i].ID == id || e.Children[i].Contains(id) {
			return true
		}
	}
	return false
}

// SetPlacement records section and parent group on e and, recursively, on its
// descendants.
func (e *Element) SetPlacement(section SectionID, groupID string) {
	e.SectionID = section
	e.GroupID = groupID
	for i := range e.Children {
		e.Children[i].SetPlacement(section, e.ID)
	}
}

// RegenerateIDs assigns fresh ids to e and all descendants, keeping GroupID
// references of the children consistent.
func (e *Element) RegenerateIDs(newID func() string) {
	e.ID = newID()
	for i := range e.Children {
		e.Children[i].RegenerateIDs(newID)
		e.Children[i].GroupID = e.ID
	}
}

// EnsureUniqueIDs regenerates the id of every element that repeats an id
// already seen in lookup order. It returns the number of ids replaced.
func EnsureUniqueIDs(q *Quiz, newID func() string) int {
	if newID == nil {
		newID = NewID
	}
	seen := make(map[string]struct{})
	replaced := 0
	q.Walk(func(loc Location) bool {
		el := loc.Element()
		if _, dup := seen[el.ID]; dup || el.ID == "" {
			el.ID = newID()
			for i := range el.Children {
				el.Children[i].GroupID = el.ID
			}
			replaced++
		}
		seen[el.ID] = struct{}{}
		return true
	})
	return replaced
}
