package editor

import (
	"fmt"

	"quiz-builder/internal/domain"
)

// CreateStyleClass snapshots the styles of an element into a new class
// scoped to its type and attaches the element to it.
func (s *DocumentStore) CreateStyleClass(elementID, name string) (string, bool) {
	next := s.draft()
	loc, ok := next.Locate(elementID)
	if !ok {
		return "", false
	}
	el := loc.Element()
	if name == "" {
		name = fmt.Sprintf("%s style %d", el.Type, len(next.StyleClasses)+1)
	}
	class := domain.StyleClass{
		ID:          s.newID(),
		Name:        name,
		ElementType: el.Type,
		Styles:      el.Styles.Values(),
	}
	next.StyleClasses = append(next.StyleClasses, class)
	el.StyleClass = class.ID
	if !s.commit("createStyleClass", next) {
		return "", false
	}
	return class.ID, true
}

// UpdateStyleClass merges styles into a class and every element using it.
func (s *DocumentStore) UpdateStyleClass(classID string, styles map[string]string) bool {
	if len(styles) == 0 {
		return false
	}
	next := s.draft()
	if next.StyleClass(classID) == nil {
		return false
	}
	broadcastClassDelta(next, classID, styles)
	return s.commit("updateStyleClass", next)
}

// RenameStyleClass changes the display name of a class.
func (s *DocumentStore) RenameStyleClass(classID, name string) bool {
	next := s.draft()
	class := next.StyleClass(classID)
	if class == nil || name == "" {
		return false
	}
	class.Name = name
	return s.commit("renameStyleClass", next)
}

// DeleteStyleClass removes a class. Elements using it keep their last styles
// but are no longer linked.
func (s *DocumentStore) DeleteStyleClass(classID string) bool {
	next := s.draft()
	idx := -1
	for i := range next.StyleClasses {
		if next.StyleClasses[i].ID == classID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	next.StyleClasses = append(next.StyleClasses[:idx], next.StyleClasses[idx+1:]...)
	next.Walk(func(loc domain.Location) bool {
		if el := loc.Element(); el.StyleClass == classID {
			el.StyleClass = ""
		}
		return true
	})
	return s.commit("deleteStyleClass", next)
}

// ApplyStyleClass links an element to a class and copies the class styles.
// A class made for another element type is not applied.
func (s *DocumentStore) ApplyStyleClass(elementID, classID string) bool {
	next := s.draft()
	class := next.StyleClass(classID)
	loc, ok := next.Locate(elementID)
	if class == nil || !ok {
		return false
	}
	el := loc.Element()
	if el.Type != class.ElementType {
		s.log.Debug("style class type mismatch")
		return false
	}
	el.StyleClass = classID
	copyClassStyles(el, class.Styles)
	return s.commit("applyStyleClass", next)
}

// DetachStyleClass unlinks an element from its class, keeping its styles.
func (s *DocumentStore) DetachStyleClass(elementID string) bool {
	next := s.draft()
	loc, ok := next.Locate(elementID)
	if !ok || loc.Element().StyleClass == "" {
		return false
	}
	loc.Element().StyleClass = ""
	return s.commit("detachStyleClass", next)
}

// broadcastClassDelta merges delta into the class and into every element
// linked to it. An empty value removes the property.
func broadcastClassDelta(doc *domain.Quiz, classID string, delta map[string]string) {
	class := doc.StyleClass(classID)
	if class == nil {
		return
	}
	mergeStrings(&class.Styles, delta)
	doc.Walk(func(loc domain.Location) bool {
		if el := loc.Element(); el.StyleClass == classID {
			copyClassStyles(el, delta)
		}
		return true
	})
}

// copyClassStyles writes class values as manual styles; values already equal
// keep their source.
func copyClassStyles(el *domain.Element, styles map[string]string) {
	for k, v := range styles {
		if v == "" {
			delete(el.Styles, k)
			continue
		}
		if cur, ok := el.Styles[k]; ok && cur.Value == v {
			continue
		}
		if el.Styles == nil {
			el.Styles = domain.Styles{}
		}
		el.Styles[k] = domain.StyleValue{Value: v, Source: domain.SourceManual}
	}
}
