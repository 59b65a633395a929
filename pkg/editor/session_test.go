package editor

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-syllabus/pkg/tree"
)

type meta struct{ Note string }

func sampleTree() tree.Tree[meta] {
	return tree.New(&tree.Node[meta]{ID: "A", Title: "A", Kind: tree.KindFolder, Children: []*tree.Node[meta]{
		{ID: "B", Title: "B", Kind: tree.KindFile},
		{ID: "C", Title: "C", Kind: tree.KindFolder, Children: []*tree.Node[meta]{
			{ID: "D", Title: "D", Kind: tree.KindFile},
			{ID: "E", Title: "E", Kind: tree.KindFile},
		}},
	}})
}

func newSession(t *testing.T) *Session[meta] {
	t.Helper()
	n := 0
	return New("sidebar", sampleTree(), Config{
		HistoryLimit: 50,
		NewID: func() string {
			n++
			return fmt.Sprintf("id%d", n)
		},
	})
}

func titles(t tree.Tree[meta], id string) []string {
	_, sibs, _, _ := t.FindParentAndIndex(id)
	out := make([]string, 0, len(sibs))
	for _, s := range sibs {
		out = append(out, s.ID)
	}
	return out
}

func TestReorderRecordsOneEntry(t *testing.T) {
	s := newSession(t)
	before := s.Tree()

	require.True(t, s.Reorder("D", "B"))
	assert.Equal(t, 2, s.HistoryLen())
	assert.Equal(t, []string{"B", "D", "C"}, titles(s.Tree(), "D"))
	assert.True(t, s.IsExpanded("A"), "moved node is revealed")

	assert.False(t, s.Reorder("D", "D"))
	assert.False(t, s.Reorder("A", "E"), "cannot drop into own subtree")
	assert.False(t, s.Reorder("missing", "B"))
	assert.Equal(t, 2, s.HistoryLen(), "rejected moves record nothing")

	require.True(t, s.Undo())
	assert.True(t, s.Tree().Equal(before))
	require.True(t, s.Redo())
	assert.Equal(t, []string{"B", "D", "C"}, titles(s.Tree(), "D"))
}

func TestDragSession(t *testing.T) {
	s := newSession(t)

	assert.False(t, s.DragEnd("B"), "drop without a drag is ignored")
	require.True(t, s.DragStart("E"))
	assert.False(t, s.DragStart("D"), "re-entrant drag start is rejected")
	id, active := s.Dragging()
	assert.True(t, active)
	assert.Equal(t, "E", id)

	require.True(t, s.DragEnd("D"))
	assert.Equal(t, []string{"E", "D"}, titles(s.Tree(), "D"))
	_, active = s.Dragging()
	assert.False(t, active)

	require.True(t, s.DragStart("B"))
	s.DragCancel()
	assert.False(t, s.DragEnd("E"))
	assert.False(t, s.DragStart("missing"))
}

func TestDragEndOnInvalidTargetStillEndsDrag(t *testing.T) {
	s := newSession(t)
	require.True(t, s.DragStart("A"))
	assert.False(t, s.DragEnd("D"))
	assert.True(t, s.DragStart("B"), "a failed drop still closes the drag session")
}

func TestSelectCascadesThroughParents(t *testing.T) {
	s := newSession(t)

	require.True(t, s.Select("B", true))
	require.True(t, s.Select("D", true))
	assert.Equal(t, tree.Indicator{Indeterminate: true}, s.Indicator("C"))
	assert.Equal(t, tree.Indicator{Indeterminate: true}, s.Indicator("A"))

	require.True(t, s.Select("C", true))
	assert.Equal(t, tree.Indicator{Checked: true}, s.Indicator("A"))

	require.True(t, s.ToggleSelect("A"))
	assert.Equal(t, 0, s.Selection().Len())
	require.True(t, s.ToggleSelect("C"))
	assert.Equal(t, []string{"D", "E"}, s.Selection().IDs())

	s.SelectAll(true)
	assert.Equal(t, 3, s.Selection().Len())
	s.SelectAll(false)
	assert.Equal(t, 0, s.Selection().Len())

	assert.False(t, s.Select("missing", true))
}

func TestAddRenameDeleteDuplicate(t *testing.T) {
	s := newSession(t)
	var changes []ChangeKind
	s.OnChange(func(c Change) { changes = append(changes, c.Kind) })

	id, err := s.AddNode("C", tree.KindFile, "  ", meta{})
	require.NoError(t, err)
	assert.Equal(t, "id1", id)
	n, ok := s.Tree().FindByID(id)
	require.True(t, ok)
	assert.Equal(t, "New Document", n.Title)
	assert.True(t, s.IsExpanded("C"))

	_, err = s.AddNode("B", tree.KindFile, "x", meta{})
	assert.NoError(t, err, "files can hold children")
	_, err = s.AddNode(id+"-missing", tree.KindFile, "x", meta{})
	assert.ErrorIs(t, err, tree.ErrNotFound)

	assert.True(t, s.Rename(id, "Reading list"))
	assert.False(t, s.Rename(id, "Reading list"))
	assert.False(t, s.Rename(id, "   "))

	copyID, ok := s.Duplicate("C")
	require.True(t, ok)
	cp, _ := s.Tree().FindByID(copyID)
	assert.Equal(t, "C (copy)", cp.Title)

	assert.True(t, s.SetMeta("B", meta{Note: "x"}))
	assert.False(t, s.SetMeta("B", meta{Note: "x"}), "unchanged meta is not an edit")

	assert.True(t, s.Delete("C"))
	assert.False(t, s.Delete("C"))

	assert.Equal(t, []ChangeKind{ChangeAdd, ChangeAdd, ChangeRename, ChangeDuplicate, ChangeMeta, ChangeDelete}, changes)
	assert.Equal(t, 7, s.HistoryLen())
}

func TestDeletePrunesSelectionAndFocus(t *testing.T) {
	s := newSession(t)
	require.True(t, s.Select("C", true))
	require.True(t, s.Click("D"))

	require.True(t, s.Delete("C"))
	assert.Equal(t, 0, s.Selection().Len())
	assert.Equal(t, "", s.Focused())

	require.True(t, s.Undo())
	assert.True(t, s.Tree().Contains("D"))
	assert.Equal(t, 0, s.Selection().Len(), "undo does not resurrect the selection")
}

func TestAddingChildToSelectedLeaf(t *testing.T) {
	s := newSession(t)
	require.True(t, s.Select("B", true))
	_, err := s.AddNode("B", tree.KindPlain, "Intro", meta{})
	require.NoError(t, err)
	assert.False(t, s.Selection().IsSelected("B"), "B is no longer a leaf")
}

func TestConvertRequiresConfirmation(t *testing.T) {
	s := newSession(t)

	changed, err := s.Convert("C", tree.KindFile, false)
	assert.ErrorIs(t, err, tree.ErrDestructiveConversion)
	assert.False(t, changed)
	assert.Equal(t, 1, s.HistoryLen())

	changed, err = s.Convert("C", tree.KindFile, true)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, s.Tree().IsLeaf("C"))

	changed, err = s.Convert("B", tree.KindFolder, false)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.Convert("B", tree.KindFolder, false)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestUndoRedoBoundaries(t *testing.T) {
	s := newSession(t)
	assert.False(t, s.CanUndo())
	assert.False(t, s.Undo())
	assert.False(t, s.Redo())

	require.True(t, s.Rename("B", "Syllabus"))
	assert.True(t, s.CanUndo())
	require.True(t, s.Undo())
	assert.False(t, s.Undo())
	require.True(t, s.Redo())
	assert.False(t, s.Redo())
}

func TestIndentOutdent(t *testing.T) {
	s := newSession(t)
	assert.True(t, s.Indent("C"), "B is a file and can hold children")
	assert.Equal(t, []string{"C"}, titles(s.Tree(), "C"))
	assert.True(t, s.Outdent("C"))
	assert.Equal(t, []string{"B", "C"}, titles(s.Tree(), "C"))
	assert.False(t, s.Outdent("A"))
}

func TestExpandState(t *testing.T) {
	s := newSession(t)
	assert.False(t, s.ToggleExpand("B"), "leaves cannot expand")
	assert.True(t, s.ToggleExpand("A"))
	assert.True(t, s.IsExpanded("A"))
	assert.True(t, s.ToggleExpand("A"))
	assert.False(t, s.IsExpanded("A"))

	s.ExpandAll()
	assert.True(t, s.IsExpanded("C"))
	s.SetExpanded("C", false)
	assert.False(t, s.IsExpanded("C"))
}

func TestReset(t *testing.T) {
	s := newSession(t)
	require.True(t, s.Rename("B", "x"))
	require.True(t, s.Click("E"))

	s.Reset(tree.New(&tree.Node[meta]{ID: "Z", Title: "Z", Kind: tree.KindFile}))
	assert.Equal(t, 1, s.HistoryLen())
	assert.Equal(t, "", s.Focused())
	assert.False(t, s.CanUndo())
}

type fakePrompter struct {
	answer  string
	ok      bool
	confirm bool
	err     error
	asked   []string
}

func (f *fakePrompter) Prompt(message, initial string) (string, bool, error) {
	f.asked = append(f.asked, message)
	return f.answer, f.ok, f.err
}

func (f *fakePrompter) Confirm(message string) (bool, error) {
	f.asked = append(f.asked, message)
	return f.confirm, f.err
}

func TestInteractiveCommands(t *testing.T) {
	s := newSession(t)

	p := &fakePrompter{answer: "Week 2", ok: true}
	ok, err := s.RenameInteractive(p, "C")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{`Rename "C" to:`}, p.asked)

	p = &fakePrompter{ok: false}
	ok, err = s.RenameInteractive(p, "C")
	require.NoError(t, err)
	assert.False(t, ok, "cancelled prompt")

	p = &fakePrompter{answer: "Slides", ok: true}
	id, err := s.AddInteractive(p, "A", tree.KindFile, meta{})
	require.NoError(t, err)
	n, _ := s.Tree().FindByID(id)
	assert.Equal(t, "Slides", n.Title)

	p = &fakePrompter{confirm: false}
	ok, err = s.DeleteInteractive(p, "C")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{`Delete "Week 2" and 2 nested item(s)?`}, p.asked)

	p = &fakePrompter{confirm: true}
	ok, err = s.ConvertInteractive(p, "C", tree.KindFile)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, p.asked, 1)

	p = &fakePrompter{err: errors.New("tty closed")}
	_, err = s.DeleteInteractive(p, "B")
	assert.Error(t, err)
	assert.True(t, s.Tree().Contains("B"))
}

func TestAddSibling(t *testing.T) {
	s := newSession(t)

	id, err := s.AddSibling("D", tree.KindFile, "Reading", meta{})
	require.NoError(t, err)
	assert.Equal(t, []string{"D", id, "E"}, titles(s.Tree(), "D"))
	assert.Equal(t, 2, s.HistoryLen())

	rootID, err := s.AddSibling("A", tree.KindFolder, "", meta{})
	require.NoError(t, err)
	n, _ := s.Tree().FindByID(rootID)
	assert.Equal(t, "New Folder", n.Title)
	assert.Equal(t, []string{"A", rootID}, titles(s.Tree(), "A"))

	_, err = s.AddSibling("missing", tree.KindFile, "x", meta{})
	assert.ErrorIs(t, err, tree.ErrNotFound)
	assert.Equal(t, 3, s.HistoryLen())
}
