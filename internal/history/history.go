// Package history keeps a bounded, linear undo/redo stack of snapshots.
package history

// DefaultLimit is the number of past snapshots kept when none is configured.
const DefaultLimit = 50

// History holds past snapshots, the present one and the redo stack.
// It is not safe for concurrent use; callers serialize access.
type History[T any] struct {
	past    []T
	present T
	future  []T
	limit   int
	equal   func(a, b T) bool
	clone   func(T) T
}

// New starts a history at initial. equal suppresses no-op pushes; clone makes
// the defensive copy stored on every push.
func New[T any](initial T, limit int, equal func(a, b T) bool, clone func(T) T) *History[T] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &History[T]{present: clone(initial), limit: limit, equal: equal, clone: clone}
}

// Push records next as the present snapshot. It reports false, and leaves the
// history untouched, when next equals the present.
func (h *History[T]) Push(next T) bool {
	if h.equal != nil && h.equal(h.present, next) {
		return false
	}
	h.past = h.appendBounded(h.past, h.present)
	h.present = h.clone(next)
	h.future = nil
	return true
}

// Undo steps back one snapshot.
func (h *History[T]) Undo() (T, bool) {
	if len(h.past) == 0 {
		return h.present, false
	}
	last := len(h.past) - 1
	prev := h.past[last]
	h.past[last] = *new(T)
	h.past = h.past[:last]
	h.future = append([]T{h.present}, h.future...)
	h.present = prev
	return h.present, true
}

// Redo re-applies the most recently undone snapshot.
func (h *History[T]) Redo() (T, bool) {
	if len(h.future) == 0 {
		return h.present, false
	}
	next := h.future[0]
	h.future = h.future[1:]
	h.past = h.appendBounded(h.past, h.present)
	h.present = next
	return h.present, true
}

// Present returns the current snapshot. Callers must not modify it.
func (h *History[T]) Present() T {
	return h.present
}

// Reset drops all history and starts over at initial.
func (h *History[T]) Reset(initial T) {
	h.past = nil
	h.future = nil
	h.present = h.clone(initial)
}

func (h *History[T]) CanUndo() bool { return len(h.past) > 0 }
func (h *History[T]) CanRedo() bool { return len(h.future) > 0 }

// Depth returns the sizes of the undo and redo stacks.
func (h *History[T]) Depth() (past, future int) {
	return len(h.past), len(h.future)
}

func (h *History[T]) appendBounded(stack []T, v T) []T {
	stack = append(stack, v)
	if over := len(stack) - h.limit; over > 0 {
		var zero T
		for i := 0; i < over; i++ {
			stack[i] = zero
		}
		stack = append(stack[:0:0], stack[over:]...)
	}
	return stack
}
