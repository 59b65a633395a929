package editor

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mattsolo1/grove-syllabus/pkg/tree"
)

// ChangeKind names the command that produced a Change.
type ChangeKind string

const (
	ChangeAdd       ChangeKind = "add"
	ChangeRename    ChangeKind = "rename"
	ChangeMeta      ChangeKind = "meta"
	ChangeDelete    ChangeKind = "delete"
	ChangeDuplicate ChangeKind = "duplicate"
	ChangeConvert   ChangeKind = "convert"
	ChangeMove      ChangeKind = "move"
	ChangeUndo      ChangeKind = "undo"
	ChangeRedo      ChangeKind = "redo"
	ChangeReset     ChangeKind = "reset"
)

// Change describes a successful command so renderers can refresh.
type Change struct {
	Kind ChangeKind
	ID   string
}

// Listener is notified after every successful structural command.
type Listener func(Change)

// Config holds session configuration
type Config struct {
	HistoryLimit int
	NewID        func() string
	Logger       *logrus.Entry
}

// Session is one editable tree surface: the live tree, its undo/redo history, the
// selection and view state. The sidebar document tree and every document outline
// each get their own Session.
//
// A Session is driven from a single UI event loop and is not safe for concurrent use.
// Each command runs to completion, and a successful structural command records
// exactly one history entry after the mutation; failed commands record nothing.
type Session[M any] struct {
	name      string
	tree      tree.Tree[M]
	history   *tree.History[M]
	selection *tree.Selection
	expanded  map[string]bool
	focused   string

	dragActive bool
	dragID     string

	newID     func() string
	logger    *logrus.Entry
	listeners []Listener
}

// New creates a session whose history starts with initial.
func New[M any](name string, initial tree.Tree[M], cfg Config) *Session[M] {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.New()) // Fallback to a null logger
	}
	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &Session[M]{
		name:      name,
		tree:      initial,
		history:   tree.NewHistory(initial, cfg.HistoryLimit),
		selection: tree.NewSelection(),
		expanded:  make(map[string]bool),
		newID:     newID,
		logger:    logger.WithFields(logrus.Fields{"sub-component": "editor", "surface": name}),
	}
}

// Name returns the surface name given to New.
func (s *Session[M]) Name() string { return s.name }

// Tree returns the current snapshot.
func (s *Session[M]) Tree() tree.Tree[M] { return s.tree }

// Selection returns the live selection set. Callers should mutate it only through
// session commands.
func (s *Session[M]) Selection() *tree.Selection { return s.selection }

// Focused returns the id of the clicked node, if any.
func (s *Session[M]) Focused() string { return s.focused }

func (s *Session[M]) CanUndo() bool { return s.history.CanUndo() }
func (s *Session[M]) CanRedo() bool { return s.history.CanRedo() }

// HistoryLen returns the number of retained snapshots.
func (s *Session[M]) HistoryLen() int { return s.history.Len() }

// OnChange registers a listener.
func (s *Session[M]) OnChange(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Reset replaces the tree and starts a fresh history, e.g. after loading a file.
func (s *Session[M]) Reset(t tree.Tree[M]) {
	s.tree = t
	s.history = tree.NewHistory(t, s.history.Limit())
	s.selection.Prune(t)
	s.endDrag()
	if !t.Contains(s.focused) {
		s.focused = ""
	}
	s.notify(Change{Kind: ChangeReset})
}

// commit installs next as the live tree and records it.
func (s *Session[M]) commit(next tree.Tree[M], change Change) {
	s.tree = next
	s.history.Record(next)
	s.afterTreeChange()
	s.logger.WithFields(logrus.Fields{"op": change.Kind, "id": change.ID}).Debug("Recorded history entry")
	s.notify(change)
}

func (s *Session[M]) afterTreeChange() {
	if n := s.selection.Prune(s.tree); n > 0 {
		s.logger.WithField("dropped", n).Debug("Pruned selection after tree change")
	}
	if s.focused != "" && !s.tree.Contains(s.focused) {
		s.focused = ""
	}
	for id := range s.expanded {
		if !s.tree.Contains(id) {
			delete(s.expanded, id)
		}
	}
}

func (s *Session[M]) notify(c Change) {
	for _, l := range s.listeners {
		l(c)
	}
}

func (s *Session[M]) ignored(op string, id string, err error) {
	entry := s.logger.WithFields(logrus.Fields{"op": op, "id": id})
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Debug("Command ignored")
}

// --- Selection ---

// Select marks or unmarks id. Leaves toggle directly; parents cascade to every leaf
// below them.
func (s *Session[M]) Select(id string, on bool) bool {
	if s.tree.IsLeaf(id) {
		return s.selection.SetSelected(s.tree, id, on)
	}
	if !s.selection.SelectCascade(s.tree, id, on) {
		s.ignored("select", id, tree.NotFoundError{ID: id})
		return false
	}
	return true
}

// ToggleSelect flips id based on its current indicator: a checked node is cleared,
// anything else becomes fully selected.
func (s *Session[M]) ToggleSelect(id string) bool {
	return s.Select(id, !s.Indicator(id).Checked)
}

// SelectAll selects or clears every leaf.
func (s *Session[M]) SelectAll(on bool) {
	s.selection.SelectAll(s.tree, on)
}

// Indicator derives the tri-state checkbox of id.
func (s *Session[M]) Indicator(id string) tree.Indicator {
	return s.selection.ComputeIndicator(s.tree, id)
}

// --- View state ---

// Click focuses id.
func (s *Session[M]) Click(id string) bool {
	if !s.tree.Contains(id) {
		s.ignored("click", id, tree.NotFoundError{ID: id})
		return false
	}
	s.focused = id
	return true
}

// IsExpanded reports whether id's children are shown.
func (s *Session[M]) IsExpanded(id string) bool {
	return s.expanded[id]
}

// ToggleExpand flips the expanded state of a node with children.
func (s *Session[M]) ToggleExpand(id string) bool {
	n, ok := s.tree.FindByID(id)
	if !ok || n.IsLeaf() {
		return false
	}
	s.expanded[id] = !s.expanded[id]
	return true
}

// SetExpanded expands or collapses id.
func (s *Session[M]) SetExpanded(id string, on bool) {
	if !s.tree.Contains(id) {
		return
	}
	if on {
		s.expanded[id] = true
	} else {
		delete(s.expanded, id)
	}
}

// ExpandAll expands every node with children.
func (s *Session[M]) ExpandAll() {
	s.tree.Walk(func(n *tree.Node[M], _ int) bool {
		if !n.IsLeaf() {
			s.expanded[n.ID] = true
		}
		return true
	})
}

// Reveal expands every ancestor of id so it is visible.
func (s *Session[M]) Reveal(id string) {
	for _, a := range s.tree.AncestorChainOf(id) {
		s.expanded[a] = true
	}
}

// --- Drag and drop ---

// DragStart begins a drag session for id. A second DragStart before the matching
// DragEnd is rejected.
func (s *Session[M]) DragStart(id string) bool {
	if s.dragActive {
		s.ignored("drag-start", id, errors.New("drag already in progress"))
		return false
	}
	if !s.tree.Contains(id) {
		s.ignored("drag-start", id, tree.NotFoundError{ID: id})
		return false
	}
	s.dragActive = true
	s.dragID = id
	return true
}

// Dragging returns the id being dragged.
func (s *Session[M]) Dragging() (string, bool) {
	return s.dragID, s.dragActive
}

// DragEnd drops the dragged node onto overID. Without an active drag it is ignored.
func (s *Session[M]) DragEnd(overID string) bool {
	if !s.dragActive {
		s.ignored("drag-end", overID, errors.New("no drag in progress"))
		return false
	}
	active := s.dragID
	s.endDrag()
	return s.Reorder(active, overID)
}

// DragCancel abandons the drag session without moving anything.
func (s *Session[M]) DragCancel() {
	s.endDrag()
}

func (s *Session[M]) endDrag() {
	s.dragActive = false
	s.dragID = ""
}

// --- Structural commands ---

// Reorder moves activeID next to overID.
func (s *Session[M]) Reorder(activeID, overID string) bool {
	next, ok := s.tree.Reorder(activeID, overID)
	if !ok {
		s.ignored("reorder", activeID, tree.ErrInvalidMove)
		return false
	}
	s.commit(next, Change{Kind: ChangeMove, ID: activeID})
	s.Reveal(activeID)
	return true
}

// Indent nests id under its previous sibling.
func (s *Session[M]) Indent(id string) bool {
	next, ok := s.tree.Indent(id)
	if !ok {
		s.ignored("indent", id, tree.ErrInvalidMove)
		return false
	}
	s.commit(next, Change{Kind: ChangeMove, ID: id})
	s.Reveal(id)
	return true
}

// Outdent lifts id out of its parent.
func (s *Session[M]) Outdent(id string) bool {
	next, ok := s.tree.Outdent(id)
	if !ok {
		s.ignored("outdent", id, tree.ErrInvalidMove)
		return false
	}
	s.commit(next, Change{Kind: ChangeMove, ID: id})
	return true
}

// AddNode appends a new node under parentID (root level when empty) and returns its
// id. An empty title falls back to a default for the kind.
func (s *Session[M]) AddNode(parentID string, kind tree.Kind, title string, meta M) (string, error) {
	return s.add(parentID, -1, kind, title, meta)
}

// AddSibling inserts a new node right after targetID.
func (s *Session[M]) AddSibling(targetID string, kind tree.Kind, title string, meta M) (string, error) {
	parentID, _, index, ok := s.tree.FindParentAndIndex(targetID)
	if !ok {
		err := tree.NotFoundError{ID: targetID}
		s.ignored("add-sibling", targetID, err)
		return "", err
	}
	return s.add(parentID, index+1, kind, title, meta)
}

func (s *Session[M]) add(parentID string, position int, kind tree.Kind, title string, meta M) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle(kind)
	}
	node := tree.NewNode(s.newID(), title, kind, meta)
	if kind == tree.KindFolder {
		node.Children = []*tree.Node[M]{}
	}
	next, err := s.tree.AddChild(parentID, node, position)
	if err != nil {
		s.ignored("add", parentID, err)
		return "", err
	}
	s.commit(next, Change{Kind: ChangeAdd, ID: node.ID})
	if parentID != "" {
		s.expanded[parentID] = true
	}
	return node.ID, nil
}

// Rename retitles id. Blank and unchanged titles are ignored.
func (s *Session[M]) Rename(id, title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}
	next, ok := s.tree.Rename(id, title)
	if !ok {
		s.ignored("rename", id, nil)
		return false
	}
	s.commit(next, Change{Kind: ChangeRename, ID: id})
	return true
}

// SetMeta replaces the metadata of id.
func (s *Session[M]) SetMeta(id string, meta M) bool {
	next, ok := s.tree.SetMeta(id, meta)
	if !ok || next.Equal(s.tree) {
		return false
	}
	s.commit(next, Change{Kind: ChangeMeta, ID: id})
	return true
}

// Delete removes id and its subtree.
func (s *Session[M]) Delete(id string) bool {
	next, _, ok := s.tree.RemoveByID(id)
	if !ok {
		s.ignored("delete", id, tree.NotFoundError{ID: id})
		return false
	}
	s.commit(next, Change{Kind: ChangeDelete, ID: id})
	return true
}

// Duplicate copies id's subtree with fresh ids and returns the copy's id.
func (s *Session[M]) Duplicate(id string) (string, bool) {
	next, newID, ok := s.tree.Duplicate(id, s.newID)
	if !ok {
		s.ignored("duplicate", id, tree.NotFoundError{ID: id})
		return "", false
	}
	s.commit(next, Change{Kind: ChangeDuplicate, ID: newID})
	return newID, true
}

// Convert changes the kind of id. When the conversion would discard children it
// fails with tree.ErrDestructiveConversion unless confirmed is set.
func (s *Session[M]) Convert(id string, kind tree.Kind, confirmed bool) (bool, error) {
	if s.tree.WouldDiscard(id, kind) && !confirmed {
		return false, tree.ErrDestructiveConversion
	}
	next, changed, err := s.tree.Convert(id, kind)
	if err != nil {
		s.ignored("convert", id, err)
		return false, err
	}
	if !changed {
		return false, nil
	}
	s.commit(next, Change{Kind: ChangeConvert, ID: id})
	return true, nil
}

// --- History ---

// Undo restores the previous snapshot. At the start of history it is a no-op.
func (s *Session[M]) Undo() bool {
	prev, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.tree = prev
	s.afterTreeChange()
	s.notify(Change{Kind: ChangeUndo})
	return true
}

// Redo reapplies the next snapshot. At the end of history it is a no-op.
func (s *Session[M]) Redo() bool {
	next, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.tree = next
	s.afterTreeChange()
	s.notify(Change{Kind: ChangeRedo})
	return true
}

// DefaultTitle returns the title given to new nodes of kind.
func DefaultTitle(kind tree.Kind) string {
	caser := cases.Title(language.English)
	switch kind {
	case tree.KindFolder:
		return caser.String("new folder")
	case tree.KindFile:
		return caser.String("new document")
	default:
		return caser.String("new section")
	}
}
