package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReorder(t *testing.T) {
	siblings := New(leaf("1"), leaf("2"), leaf("3"), leaf("4"))

	tests := []struct {
		name   string
		tree   Tree[testMeta]
		active string
		over   string
		want   string
		ok     bool
	}{
		{name: "move down among siblings", tree: siblings, active: "1", over: "3", want: "2, 3, 1, 4", ok: true},
		{name: "move up among siblings", tree: siblings, active: "4", over: "2", want: "1, 4, 2, 3", ok: true},
		{name: "adjacent swap", tree: siblings, active: "2", over: "3", want: "1, 3, 2, 4", ok: true},
		{name: "cross parent lands after over", tree: sample(), active: "D", over: "B", want: "A[B, D, C[E]]", ok: true},
		{name: "cross parent into deeper level", tree: sample(), active: "B", over: "D", want: "A[C[D, B, E]]", ok: true},
		{name: "cross parent to root level", tree: New(folder("A", leaf("B")), leaf("Z")), active: "B", over: "Z", want: "A, Z, B", ok: true},
		{name: "same id", tree: sample(), active: "C", over: "C", want: "A[B, C[D, E]]"},
		{name: "unknown active", tree: sample(), active: "X", over: "B", want: "A[B, C[D, E]]"},
		{name: "unknown over", tree: sample(), active: "B", over: "X", want: "A[B, C[D, E]]"},
		{name: "over is a descendant", tree: sample(), active: "A", over: "D", want: "A[B, C[D, E]]"},
		{name: "over is a child", tree: sample(), active: "C", over: "E", want: "A[B, C[D, E]]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := render(tt.tree)
			got, ok := tt.tree.Reorder(tt.active, tt.over)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, render(got))
			assert.Equal(t, before, render(tt.tree), "receiver must not change")
			assert.NoError(t, got.Validate())
		})
	}
}

func TestIndentOutdent(t *testing.T) {
	tr := New(folder("A", leaf("B")), leaf("C"), leaf("D"))

	got, ok := tr.Indent("C")
	assert.True(t, ok)
	assert.Equal(t, "A[B, C], D", render(got))

	_, ok = got.Indent("D")
	assert.True(t, ok, "A can hold children")

	_, ok = tr.Indent("D")
	assert.False(t, ok, "C is plain and cannot hold children")
	_, ok = tr.Indent("A")
	assert.False(t, ok, "first sibling has no previous sibling")

	got, ok = got.Outdent("B")
	assert.True(t, ok)
	assert.Equal(t, "A[C], B, D", render(got))

	_, ok = got.Outdent("A")
	assert.False(t, ok)
	_, ok = got.Outdent("missing")
	assert.False(t, ok)
}
