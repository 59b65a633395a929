package tree

// Walk visits every node depth-first in document order. Returning false from fn stops
// the walk.
func (t Tree[M]) Walk(fn func(n *Node[M], depth int) bool) {
	walkNodes(t.roots, 0, fn)
}

func walkNodes[M any](level []*Node[M], depth int, fn func(*Node[M], int) bool) bool {
	for _, n := range level {
		if !fn(n, depth) {
			return false
		}
		if !walkNodes(n.Children, depth+1, fn) {
			return false
		}
	}
	return true
}

// IDs returns every node id in document order.
func (t Tree[M]) IDs() []string {
	var ids []string
	t.Walk(func(n *Node[M], _ int) bool {
		ids = append(ids, n.ID)
		return true
	})
	return ids
}

// FlattenToLeafIDs returns the ids of all leaves in document order.
func (t Tree[M]) FlattenToLeafIDs() []string {
	return leafIDs(t.roots)
}

// LeafIDsUnder returns the leaf ids in the subtree rooted at id, or the whole tree when
// id is empty. A leaf yields itself.
func (t Tree[M]) LeafIDsUnder(id string) []string {
	if id == "" {
		return t.FlattenToLeafIDs()
	}
	n, ok := t.FindByID(id)
	if !ok {
		return nil
	}
	return leafIDs([]*Node[M]{n})
}

func leafIDs[M any](level []*Node[M]) []string {
	var ids []string
	walkNodes(level, 0, func(n *Node[M], _ int) bool {
		if n.IsLeaf() {
			ids = append(ids, n.ID)
		}
		return true
	})
	return ids
}

// IsLeaf reports whether id exists and has no children.
func (t Tree[M]) IsLeaf(id string) bool {
	n, ok := t.FindByID(id)
	return ok && n.IsLeaf()
}

// Contains reports whether id exists in the tree.
func (t Tree[M]) Contains(id string) bool {
	_, ok := t.pathOf(id)
	return ok
}

// AllDescendantIDs returns the ids below id in document order, excluding id itself.
func (t Tree[M]) AllDescendantIDs(id string) []string {
	n, ok := t.FindByID(id)
	if !ok {
		return nil
	}
	var ids []string
	walkNodes(n.Children, 0, func(d *Node[M], _ int) bool {
		ids = append(ids, d.ID)
		return true
	})
	return ids
}

// AncestorChainOf returns the ids of id's ancestors, nearest parent first.
func (t Tree[M]) AncestorChainOf(id string) []string {
	path, ok := t.pathOf(id)
	if !ok {
		return nil
	}
	chain := make([]string, 0, len(path)-1)
	for i := len(path) - 1; i > 0; i-- {
		chain = append(chain, t.nodeAt(path[:i]).ID)
	}
	return chain
}

// IsDescendant reports whether id lies strictly below ancestorID.
func (t Tree[M]) IsDescendant(id, ancestorID string) bool {
	for _, a := range t.AncestorChainOf(id) {
		if a == ancestorID {
			return true
		}
	}
	return false
}

// Depth returns the nesting level of id (0 for roots), or -1 when unknown.
func (t Tree[M]) Depth(id string) int {
	path, ok := t.pathOf(id)
	if !ok {
		return -1
	}
	return len(path) - 1
}
