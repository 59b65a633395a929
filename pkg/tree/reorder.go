package tree

// Reorder moves activeID next to overID, the way a drag-and-drop ends.
//
// When both share a parent the active node slides to overID's index and the siblings
// in between shift one slot toward the vacated position. Otherwise the active subtree
// is detached and inserted immediately after overID in overID's sibling sequence.
//
// It reports false, leaving the tree untouched, when the ids are equal, either id is
// unknown, or overID lies inside activeID's subtree.
func (t Tree[M]) Reorder(activeID, overID string) (Tree[M], bool) {
	if activeID == overID {
		return t, false
	}
	activePath, ok := t.pathOf(activeID)
	if !ok {
		return t, false
	}
	overPath, ok := t.pathOf(overID)
	if !ok {
		return t, false
	}
	if hasPrefix(overPath, activePath) {
		return t, false
	}

	aLast, oLast := len(activePath)-1, len(overPath)-1
	if equalPath(activePath[:aLast], overPath[:oLast]) {
		from, to := activePath[aLast], overPath[oLast]
		return t.editSiblings(activePath[:aLast], func(s []*Node[M]) []*Node[M] {
			return arrayMove(s, from, to)
		}), true
	}

	node := t.nodeAt(activePath)
	detached := t.removeAt(activePath)
	// Removing the active node can shift overID's indices.
	overPath, _ = detached.pathOf(overID)
	oLast = len(overPath) - 1
	return detached.insertAt(overPath[:oLast], node, overPath[oLast]+1), true
}

// Indent makes id the last child of its previous sibling. It reports false when id is
// first among its siblings or the previous sibling cannot hold children.
func (t Tree[M]) Indent(id string) (Tree[M], bool) {
	path, ok := t.pathOf(id)
	if !ok {
		return t, false
	}
	last := len(path) - 1
	if path[last] == 0 {
		return t, false
	}
	prevPath := append(append([]int(nil), path[:last]...), path[last]-1)
	if !t.nodeAt(prevPath).Kind.CanHoldChildren() {
		return t, false
	}
	node := t.nodeAt(path)
	// prevPath precedes path, so it survives the removal unchanged.
	return t.removeAt(path).insertAt(prevPath, node, -1), true
}

// Outdent moves id out of its parent to sit right after it. Root-level nodes cannot
// be outdented.
func (t Tree[M]) Outdent(id string) (Tree[M], bool) {
	path, ok := t.pathOf(id)
	if !ok || len(path) < 2 {
		return t, false
	}
	node := t.nodeAt(path)
	parentPath := path[:len(path)-1]
	pLast := len(parentPath) - 1
	return t.removeAt(path).insertAt(parentPath[:pLast], node, parentPath[pLast]+1), true
}

func arrayMove[T any](s []T, from, to int) []T {
	if from == to {
		return s
	}
	item := s[from]
	if from < to {
		copy(s[from:to], s[from+1:to+1])
	} else {
		copy(s[to+1:from+1], s[to:from])
	}
	s[to] = item
	return s
}

func hasPrefix(path, prefix []int) bool {
	if len(prefix) > len(path) {
		return false
	}
	return equalPath(path[:len(prefix)], prefix)
}

func equalPath(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
