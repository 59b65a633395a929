package tree

import (
	"fmt"
	"sort"
	"testing"

	"pgregory.net/rapid"
)

// genTree draws a random forest. Every node is a folder so any node may receive
// children; childless folders count as leaves.
func genTree(t *rapid.T) Tree[testMeta] {
	n := rapid.IntRange(1, 24).Draw(t, "size")
	tr := New[testMeta]()
	ids := []string{""}
	for i := 0; i < n; i++ {
		parent := rapid.SampledFrom(ids).Draw(t, "parent")
		id := fmt.Sprintf("n%d", i)
		var err error
		tr, err = tr.AddChild(parent, folder(id), rapid.IntRange(-1, 3).Draw(t, "pos"))
		if err != nil {
			t.Fatalf("add %s under %q: %v", id, parent, err)
		}
		ids = append(ids, id)
	}
	return tr
}

func sortedIDs(tr Tree[testMeta]) []string {
	ids := tr.IDs()
	sort.Strings(ids)
	return ids
}

func TestReorderPreservesNodesProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := genTree(t)
		ids := tr.IDs()
		a := rapid.SampledFrom(ids).Draw(t, "active")
		b := rapid.SampledFrom(ids).Draw(t, "over")

		got, ok := tr.Reorder(a, b)
		if a == b || tr.IsDescendant(b, a) {
			if ok || !got.Equal(tr) {
				t.Fatalf("reorder(%s, %s) should be a no-op", a, b)
			}
			return
		}
		if !ok {
			t.Fatalf("reorder(%s, %s) rejected", a, b)
		}
		if got.Len() != tr.Len() {
			t.Fatalf("node count changed: %d -> %d", tr.Len(), got.Len())
		}
		if fmt.Sprint(sortedIDs(got)) != fmt.Sprint(sortedIDs(tr)) {
			t.Fatalf("id set changed")
		}
		if err := got.Validate(); err != nil {
			t.Fatalf("invalid tree: %v", err)
		}
	})
}

func TestCascadeCheckedProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := genTree(t)
		p := rapid.SampledFrom(tr.IDs()).Draw(t, "node")
		sel := NewSelection()

		sel.SelectCascade(tr, p, true)
		if got := sel.ComputeIndicator(tr, p); got != (Indicator{Checked: true}) {
			t.Fatalf("indicator after cascade = %+v", got)
		}
		leaves := tr.LeafIDsUnder(p)
		for _, l := range leaves {
			if !sel.IsSelected(l) {
				t.Fatalf("leaf %s not selected", l)
			}
		}

		if len(leaves) < 2 {
			return
		}
		off := rapid.SampledFrom(leaves).Draw(t, "deselect")
		sel.SetSelected(tr, off, false)
		if got := sel.ComputeIndicator(tr, p); got != (Indicator{Indeterminate: true}) {
			t.Fatalf("indicator after deselecting %s = %+v", off, got)
		}
	})
}

func TestUndoRestoresProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		before := genTree(t)
		frozen := New(before.Roots()...)
		h := NewHistory(before, DefaultHistoryLimit)

		ids := before.IDs()
		var after Tree[testMeta]
		var ok bool
		switch rapid.IntRange(0, 2).Draw(t, "op") {
		case 0:
			after, ok = before.Reorder(rapid.SampledFrom(ids).Draw(t, "a"), rapid.SampledFrom(ids).Draw(t, "b"))
		case 1:
			after, _, ok = before.RemoveByID(rapid.SampledFrom(ids).Draw(t, "rm"))
		default:
			after, ok = before.Rename(rapid.SampledFrom(ids).Draw(t, "rn"), "renamed")
		}
		if !ok {
			return
		}
		h.Record(after)

		undone, ok := h.Undo()
		if !ok || !undone.Equal(frozen) {
			t.Fatalf("undo did not restore the original tree")
		}
		redone, ok := h.Redo()
		if !ok || !redone.Equal(after) {
			t.Fatalf("redo did not restore the edited tree")
		}
	})
}
