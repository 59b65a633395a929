package tree

import (
	"errors"
	"fmt"
	"reflect"
)

// Tree is an immutable ordered forest. Every edit returns a new Tree that shares
// untouched subtrees with the receiver, so older values (history snapshots, renderer
// frames) stay valid after any later edit.
type Tree[M any] struct {
	roots []*Node[M]
}

// New builds a tree from deep copies of the given roots.
func New[M any](roots ...*Node[M]) Tree[M] {
	t := Tree[M]{roots: make([]*Node[M], 0, len(roots))}
	for _, r := range roots {
		if r != nil {
			t.roots = append(t.roots, r.Clone())
		}
	}
	return t
}

// Roots returns the top-level nodes. The returned nodes must not be modified.
func (t Tree[M]) Roots() []*Node[M] {
	return append([]*Node[M](nil), t.roots...)
}

// Len returns the total number of nodes.
func (t Tree[M]) Len() int {
	n := 0
	t.Walk(func(*Node[M], int) bool {
		n++
		return true
	})
	return n
}

// FindByID returns the node with the given id.
func (t Tree[M]) FindByID(id string) (*Node[M], bool) {
	path, ok := t.pathOf(id)
	if !ok {
		return nil, false
	}
	return t.nodeAt(path), true
}

// FindParentAndIndex locates the sibling sequence holding id. parentID is empty for
// root-level nodes.
func (t Tree[M]) FindParentAndIndex(id string) (parentID string, siblings []*Node[M], index int, ok bool) {
	path, found := t.pathOf(id)
	if !found {
		return "", nil, -1, false
	}
	last := len(path) - 1
	if last == 0 {
		return "", t.Roots(), path[0], true
	}
	parent := t.nodeAt(path[:last])
	return parent.ID, append([]*Node[M](nil), parent.Children...), path[last], true
}

// AddChild inserts a copy of node under parentID at position. An empty parentID adds
// at root level; a position outside [0, len] appends.
func (t Tree[M]) AddChild(parentID string, node *Node[M], position int) (Tree[M], error) {
	if node == nil || node.ID == "" {
		return t, errors.New("add child: node has no id")
	}
	if err := t.checkNewIDs(node, ""); err != nil {
		return t, err
	}
	var parentPath []int
	if parentID != "" {
		path, ok := t.pathOf(parentID)
		if !ok {
			return t, NotFoundError{ID: parentID}
		}
		if !t.nodeAt(path).Kind.CanHoldChildren() {
			return t, fmt.Errorf("add child to %s: %w", parentID, ErrNotContainer)
		}
		parentPath = path
	}
	return t.insertAt(parentPath, node.Clone(), position), nil
}

// RemoveByID detaches the node and its whole subtree.
func (t Tree[M]) RemoveByID(id string) (Tree[M], *Node[M], bool) {
	path, ok := t.pathOf(id)
	if !ok {
		return t, nil, false
	}
	removed := t.nodeAt(path)
	return t.removeAt(path), removed, true
}

// ReplaceSubtree swaps the subtree rooted at id for a copy of node. The replacement may
// reuse ids from the subtree it replaces but not from anywhere else in the tree.
func (t Tree[M]) ReplaceSubtree(id string, node *Node[M]) (Tree[M], error) {
	if node == nil || node.ID == "" {
		return t, fmt.Errorf("replace %s: replacement has no id", id)
	}
	path, ok := t.pathOf(id)
	if !ok {
		return t, NotFoundError{ID: id}
	}
	if err := t.checkNewIDs(node, id); err != nil {
		return t, err
	}
	repl := node.Clone()
	last := len(path) - 1
	return t.editSiblings(path[:last], func(s []*Node[M]) []*Node[M] {
		s[path[last]] = repl
		return s
	}), nil
}

// Rename sets the title of id. It reports false when id is unknown or the title is
// unchanged.
func (t Tree[M]) Rename(id, title string) (Tree[M], bool) {
	n, ok := t.FindByID(id)
	if !ok || n.Title == title {
		return t, false
	}
	return t.editNode(id, func(n *Node[M]) { n.Title = title }), true
}

// SetMeta replaces the metadata of id.
func (t Tree[M]) SetMeta(id string, meta M) (Tree[M], bool) {
	if _, ok := t.FindByID(id); !ok {
		return t, false
	}
	return t.editNode(id, func(n *Node[M]) { n.Meta = meta }), true
}

// WouldDiscard reports whether converting id to kind drops existing children.
func (t Tree[M]) WouldDiscard(id string, kind Kind) bool {
	n, ok := t.FindByID(id)
	return ok && kind != KindFolder && len(n.Children) > 0
}

// Convert changes the kind of id. Converting to a folder keeps the children;
// converting to any other kind discards them, so callers must confirm first when
// WouldDiscard is true.
func (t Tree[M]) Convert(id string, kind Kind) (Tree[M], bool, error) {
	if _, ok := ParseKind(string(kind)); !ok || kind == "" {
		return t, false, fmt.Errorf("convert %s to %q: %w", id, kind, ErrInvalidKind)
	}
	n, ok := t.FindByID(id)
	if !ok {
		return t, false, NotFoundError{ID: id}
	}
	if n.Kind == kind {
		return t, false, nil
	}
	return t.editNode(id, func(n *Node[M]) {
		n.Kind = kind
		if kind == KindFolder {
			if n.Children == nil {
				n.Children = []*Node[M]{}
			}
			return
		}
		n.Children = nil
	}), true, nil
}

// Duplicate inserts a deep copy of id right after it. Every node of the copy gets a
// fresh id from newID, and the copied root is titled "<title> (copy)".
func (t Tree[M]) Duplicate(id string, newID func() string) (Tree[M], string, bool) {
	path, ok := t.pathOf(id)
	if !ok || newID == nil {
		return t, "", false
	}
	cp := t.nodeAt(path).Clone()
	existing := t.idSet()
	var assign func(n *Node[M])
	assign = func(n *Node[M]) {
		next := newID()
		for next == "" || existing[next] {
			next = newID()
		}
		existing[next] = true
		n.ID = next
		for _, ch := range n.Children {
			assign(ch)
		}
	}
	assign(cp)
	cp.Title = titleOrUntitled(t.nodeAt(path).Title) + " (copy)"
	last := len(path) - 1
	return t.insertAt(path[:last], cp, path[last]+1), cp.ID, true
}

func titleOrUntitled(s string) string {
	if s == "" {
		return "Untitled"
	}
	return s
}

// Validate checks the structural invariants of a tree built from external input.
func (t Tree[M]) Validate() error {
	seen := make(map[string]bool)
	var err error
	t.Walk(func(n *Node[M], _ int) bool {
		switch {
		case n.ID == "":
			err = fmt.Errorf("node %q has an empty id", n.Title)
		case seen[n.ID]:
			err = fmt.Errorf("%w: %s", ErrDuplicateID, n.ID)
		case len(n.Children) > 0 && !n.Kind.CanHoldChildren():
			err = fmt.Errorf("node %s of kind %q has children: %w", n.ID, n.Kind, ErrNotContainer)
		}
		seen[n.ID] = true
		return err == nil
	})
	return err
}

// Equal reports structural equality: same ids, titles, kinds, metadata and order.
func (t Tree[M]) Equal(other Tree[M]) bool {
	return equalLevel(t.roots, other.roots)
}

func equalLevel[M any](a, b []*Node[M]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x == y {
			continue
		}
		if x.ID != y.ID || x.Title != y.Title || x.Kind != y.Kind || !reflect.DeepEqual(x.Meta, y.Meta) {
			return false
		}
		if !equalLevel(x.Children, y.Children) {
			return false
		}
	}
	return true
}

// pathOf returns the index path from the roots to id.
func (t Tree[M]) pathOf(id string) ([]int, bool) {
	if id == "" {
		return nil, false
	}
	var path []int
	var search func(level []*Node[M]) bool
	search = func(level []*Node[M]) bool {
		for i, n := range level {
			path = append(path, i)
			if n.ID == id || search(n.Children) {
				return true
			}
			path = path[:len(path)-1]
		}
		return false
	}
	if !search(t.roots) {
		return nil, false
	}
	return path, true
}

func (t Tree[M]) nodeAt(path []int) *Node[M] {
	level := t.roots
	var n *Node[M]
	for _, i := range path {
		n = level[i]
		level = n.Children
	}
	return n
}

func (t Tree[M]) idSet() map[string]bool {
	ids := make(map[string]bool)
	t.Walk(func(n *Node[M], _ int) bool {
		ids[n.ID] = true
		return true
	})
	return ids
}

// checkNewIDs rejects a subtree whose ids collide with each other or with the tree,
// ignoring ids inside the subtree rooted at replacing.
func (t Tree[M]) checkNewIDs(node *Node[M], replacing string) error {
	existing := t.idSet()
	if replacing != "" {
		for _, id := range t.AllDescendantIDs(replacing) {
			delete(existing, id)
		}
		delete(existing, replacing)
	}
	seen := make(map[string]bool)
	var err error
	walkNodes([]*Node[M]{node}, 0, func(n *Node[M], _ int) bool {
		if n.ID == "" || seen[n.ID] || existing[n.ID] {
			err = fmt.Errorf("%w: %q", ErrDuplicateID, n.ID)
			return false
		}
		seen[n.ID] = true
		return true
	})
	return err
}

// editSiblings rebuilds the spine down to the sibling sequence at parentPath and
// replaces that sequence with fn's result. fn receives a private copy.
func (t Tree[M]) editSiblings(parentPath []int, fn func([]*Node[M]) []*Node[M]) Tree[M] {
	return Tree[M]{roots: editLevel(t.roots, parentPath, fn)}
}

func editLevel[M any](level []*Node[M], path []int, fn func([]*Node[M]) []*Node[M]) []*Node[M] {
	out := append([]*Node[M](nil), level...)
	if len(path) == 0 {
		return fn(out)
	}
	n := *out[path[0]]
	n.Children = editLevel(n.Children, path[1:], fn)
	out[path[0]] = &n
	return out
}

func (t Tree[M]) editNode(id string, fn func(*Node[M])) Tree[M] {
	path, ok := t.pathOf(id)
	if !ok {
		return t
	}
	last := len(path) - 1
	return t.editSiblings(path[:last], func(s []*Node[M]) []*Node[M] {
		n := s[path[last]].shallow()
		fn(n)
		s[path[last]] = n
		return s
	})
}

func (t Tree[M]) insertAt(parentPath []int, node *Node[M], position int) Tree[M] {
	return t.editSiblings(parentPath, func(s []*Node[M]) []*Node[M] {
		if position < 0 || position > len(s) {
			position = len(s)
		}
		s = append(s, nil)
		copy(s[position+1:], s[position:])
		s[position] = node
		return s
	})
}

func (t Tree[M]) removeAt(path []int) Tree[M] {
	last := len(path) - 1
	return t.editSiblings(path[:last], func(s []*Node[M]) []*Node[M] {
		return append(s[:path[last]], s[path[last]+1:]...)
	})
}
