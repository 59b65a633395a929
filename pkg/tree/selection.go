package tree

import "sort"

// Shape is the read-only view of a tree the selection engine needs.
type Shape interface {
	IsLeaf(id string) bool
	Contains(id string) bool
	LeafIDsUnder(id string) []string
}

// Indicator is the tri-state checkbox display state of a node.
type Indicator struct {
	Checked       bool
	Indeterminate bool
}

// String renders the indicator as a checkbox.
func (i Indicator) String() string {
	switch {
	case i.Checked:
		return "[x]"
	case i.Indeterminate:
		return "[-]"
	default:
		return "[ ]"
	}
}

// Selection is the set of leaf ids the user has marked. Parent state is never stored;
// it is derived from the leaves on every query.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection creates a selection holding ids.
func NewSelection(ids ...string) *Selection {
	s := &Selection{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// IsSelected reports whether id is in the set.
func (s *Selection) IsSelected(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected leaves.
func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids sorted.
func (s *Selection) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SetSelected toggles a single leaf. Non-leaf and unknown ids are ignored and reported
// as false; parents go through SelectCascade.
func (s *Selection) SetSelected(t Shape, id string, on bool) bool {
	if !t.IsLeaf(id) {
		return false
	}
	if on {
		s.ids[id] = struct{}{}
	} else {
		delete(s.ids, id)
	}
	return true
}

// SelectCascade applies on to every leaf in the subtree rooted at id.
func (s *Selection) SelectCascade(t Shape, id string, on bool) bool {
	if !t.Contains(id) {
		return false
	}
	for _, leaf := range t.LeafIDsUnder(id) {
		s.SetSelected(t, leaf, on)
	}
	return true
}

// SelectAll cascades from the virtual root: every leaf in the tree.
func (s *Selection) SelectAll(t Shape, on bool) {
	if !on {
		s.ids = make(map[string]struct{})
		return
	}
	for _, leaf := range t.LeafIDsUnder("") {
		s.ids[leaf] = struct{}{}
	}
}

// ComputeIndicator derives the checkbox state of id from its leaf descendants. A node
// without leaves below it, or an unknown id, is unchecked.
func (s *Selection) ComputeIndicator(t Shape, id string) Indicator {
	leaves := t.LeafIDsUnder(id)
	if len(leaves) == 0 {
		return Indicator{}
	}
	n := 0
	for _, leaf := range leaves {
		if s.IsSelected(leaf) {
			n++
		}
	}
	return Indicator{
		Checked:       n == len(leaves),
		Indeterminate: n > 0 && n < len(leaves),
	}
}

// Prune drops ids that are no longer leaves of t and returns how many were removed.
func (s *Selection) Prune(t Shape) int {
	removed := 0
	for id := range s.ids {
		if !t.IsLeaf(id) {
			delete(s.ids, id)
			removed++
		}
	}
	return removed
}

// Clone returns an independent copy of the selection.
func (s *Selection) Clone() *Selection {
	return NewSelection(s.IDs()...)
}
