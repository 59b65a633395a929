package tree

import "strings"

// Kind categorizes nodes by which child-adding operations are legal on them.
type Kind string

const (
	KindPlain  Kind = "plain"  // A leaf section; cannot gain children until converted
	KindFolder Kind = "folder" // A grouping node, e.g. "Week 1"
	KindFile   Kind = "file"   // A document; may hold an outline of sections
)

// CanHoldChildren reports whether nodes of this kind may gain children.
func (k Kind) CanHoldChildren() bool {
	return k == KindFolder || k == KindFile
}

// ParseKind normalizes user input into a Kind.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain", "section", "leaf", "":
		return KindPlain, true
	case "folder", "dir", "directory", "group":
		return KindFolder, true
	case "file", "doc", "document":
		return KindFile, true
	default:
		return "", false
	}
}

// Node is a single entry in a tree. Nodes reachable from a Tree are treated as
// read-only; all edits go through Tree methods which copy the affected spine.
type Node[M any] struct {
	ID       string
	Title    string
	Kind     Kind
	Meta     M
	Children []*Node[M]
}

// NewNode creates a childless node.
func NewNode[M any](id, title string, kind Kind, meta M) *Node[M] {
	return &Node[M]{ID: id, Title: title, Kind: kind, Meta: meta}
}

// IsLeaf reports whether the node has no children.
func (n *Node[M]) IsLeaf() bool {
	return len(n.Children) == 0
}

// shallow returns a copy of n sharing its children.
func (n *Node[M]) shallow() *Node[M] {
	c := *n
	if n.Children != nil {
		c.Children = append([]*Node[M](nil), n.Children...)
	}
	return &c
}

// Clone returns an independent deep copy of the subtree rooted at n.
func (n *Node[M]) Clone() *Node[M] {
	if n == nil {
		return nil
	}
	c := *n
	if n.Children != nil {
		c.Children = make([]*Node[M], len(n.Children))
		for i, ch := range n.Children {
			c.Children[i] = ch.Clone()
		}
	}
	return &c
}
