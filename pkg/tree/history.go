package tree

// DefaultHistoryLimit is the number of snapshots retained when no limit is configured.
const DefaultHistoryLimit = 50

// History is a bounded undo/redo log of tree snapshots with a cursor at the entry
// matching the live tree. Tree values are immutable, so entries can never be
// corrupted by later edits of the live tree.
type History[M any] struct {
	entries []Tree[M]
	cursor  int
	limit   int
}

// NewHistory starts a log holding initial as its only entry. A limit below one falls
// back to DefaultHistoryLimit.
func NewHistory[M any](initial Tree[M], limit int) *History[M] {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	return &History[M]{entries: []Tree[M]{initial}, limit: limit}
}

// Record discards any redo entries, appends snapshot and evicts the oldest entries
// beyond the limit.
func (h *History[M]) Record(snapshot Tree[M]) {
	h.entries = append(h.entries[:h.cursor+1], snapshot)
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = append([]Tree[M](nil), h.entries[over:]...)
	}
	h.cursor = len(h.entries) - 1
}

// Undo steps the cursor back. At the oldest entry it is a no-op.
func (h *History[M]) Undo() (Tree[M], bool) {
	if h.cursor == 0 {
		return Tree[M]{}, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Redo steps the cursor forward. At the newest entry it is a no-op.
func (h *History[M]) Redo() (Tree[M], bool) {
	if h.cursor >= len(h.entries)-1 {
		return Tree[M]{}, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

// Current returns the entry under the cursor.
func (h *History[M]) Current() Tree[M] {
	return h.entries[h.cursor]
}

func (h *History[M]) CanUndo() bool { return h.cursor > 0 }
func (h *History[M]) CanRedo() bool { return h.cursor < len(h.entries)-1 }
func (h *History[M]) Len() int      { return len(h.entries) }
func (h *History[M]) Cursor() int   { return h.cursor }
func (h *History[M]) Limit() int    { return h.limit }
