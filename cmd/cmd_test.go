package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-syllabus/pkg/models"
	"github.com/mattsolo1/grove-syllabus/pkg/service"
	"github.com/mattsolo1/grove-syllabus/pkg/tree"
)

func newTestService(t *testing.T) *service.Service {
	t.Helper()
	svc, err := service.New(&service.Config{DataDir: t.TempDir(), Weeks: 1}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func run(t *testing.T, c *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), err
}

func docTree() tree.Tree[models.DocMeta] {
	week := tree.NewNode("w1", "Week 1", tree.KindFolder, models.DocMeta{})
	week.Children = []*tree.Node[models.DocMeta]{
		tree.NewNode("a", "Lecture", tree.KindFile, models.DocMeta{}),
		tree.NewNode("b", "Reading", tree.KindFile, models.DocMeta{}),
	}
	return tree.New(week, tree.NewNode("c", "Policies", tree.KindFile, models.DocMeta{}))
}

func noSuffix(*tree.Node[models.DocMeta]) string { return "" }

func TestWriteTree(t *testing.T) {
	t.Run("indicators and folders", func(t *testing.T) {
		var buf bytes.Buffer
		writeTree(&buf, docTree(), tree.NewSelection("a"), false, noSuffix)

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "[-] Week 1/", lines[0])
		assert.Equal(t, "  [x] Lecture", lines[1])
		assert.Equal(t, "  [ ] Reading", lines[2])
		assert.Equal(t, "[ ] Policies", lines[3])
	})

	t.Run("ids", func(t *testing.T) {
		var buf bytes.Buffer
		writeTree(&buf, docTree(), tree.NewSelection(), true, noSuffix)
		assert.Contains(t, buf.String(), "w1")
		assert.Contains(t, buf.String(), "Policies")
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		writeTree(&buf, tree.New[models.DocMeta](), tree.NewSelection(), false, noSuffix)
		assert.Contains(t, buf.String(), "(empty)")
	})
}

func TestShownTree(t *testing.T) {
	shown := shownTree(docTree(), tree.NewSelection("a", "b"), func(n *shownNode, m models.DocMeta) {
		n.Status = string(m.Status)
	})

	require.Len(t, shown, 2)
	assert.True(t, shown[0].Checked)
	assert.False(t, shown[0].Indeterminate)
	require.Len(t, shown[0].Children, 2)
	assert.Equal(t, "Lecture", shown[0].Children[0].Title)
	assert.False(t, shown[1].Checked)
	assert.Empty(t, shown[1].Children)
}

func TestDocSuffix(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Empty(t, docSuffix(models.DocMeta{}, now))

	overdue := docSuffix(models.DocMeta{Status: models.StatusDraft, DueDate: "2025-02-01"}, now)
	assert.Contains(t, overdue, "draft")
	assert.Contains(t, overdue, "due 2025-02-01 (overdue)")

	done := docSuffix(models.DocMeta{Status: models.StatusDone, DueDate: "2025-02-01"}, now)
	assert.NotContains(t, done, "overdue")
}

func TestParseKind(t *testing.T) {
	kind, err := parseKind("folder")
	require.NoError(t, err)
	assert.Equal(t, tree.KindFolder, kind)

	_, err = parseKind("bogus")
	assert.ErrorIs(t, err, tree.ErrInvalidKind)
}

func TestTitleArg(t *testing.T) {
	assert.Equal(t, "", titleArg([]string{"psy"}, 1))
	assert.Equal(t, "Week 5 review", titleArg([]string{"psy", "Week", "5", " review "}, 1))
}

func TestHighlight(t *testing.T) {
	out := highlight("the <match>office</match> hours")
	assert.Contains(t, out, "office")
	assert.NotContains(t, out, "<match>")
	assert.NotContains(t, out, "</match>")
}

func TestCommands(t *testing.T) {
	svc := newTestService(t)

	out, err := run(t, NewNewCmd(&svc), "psy", "--title", "Psychology")
	require.NoError(t, err)
	assert.Contains(t, out, "Created")

	out, err = run(t, NewListCmd(&svc))
	require.NoError(t, err)
	assert.Contains(t, out, "psy")

	out, err = run(t, NewAddCmd(&svc), "psy", "Lab", "Sessions", "--kind", "folder")
	require.NoError(t, err)
	folderID := strings.TrimSpace(out)
	require.NotEmpty(t, folderID)

	out, err = run(t, NewAddCmd(&svc), "psy", "Tuesday", "--parent", folderID)
	require.NoError(t, err)
	fileID := strings.TrimSpace(out)

	_, err = run(t, NewAddCmd(&svc), "psy", "Nested", "--parent", fileID)
	assert.Error(t, err, "files cannot hold children")

	_, err = run(t, NewSelectCmd(&svc), "psy", fileID)
	require.NoError(t, err)

	out, err = run(t, NewShowCmd(&svc), "psy")
	require.NoError(t, err)
	assert.Contains(t, out, "[x] Lab Sessions/")
	assert.Contains(t, out, "[x] Tuesday")

	_, err = run(t, NewRenameCmd(&svc), "psy", fileID, "Thursday")
	require.NoError(t, err)

	_, err = run(t, NewSetCmd(&svc), "psy", fileID, "--status", "review")
	require.NoError(t, err)

	out, err = run(t, NewShowCmd(&svc), "psy")
	require.NoError(t, err)
	assert.Contains(t, out, "Thursday")
	assert.Contains(t, out, "review")

	_, err = run(t, NewRemoveCmd(&svc), "psy", fileID)
	assert.ErrorContains(t, err, "--force")

	_, err = run(t, NewRemoveCmd(&svc), "psy", fileID, "--force")
	require.NoError(t, err)

	out, err = run(t, NewShowCmd(&svc), "psy")
	require.NoError(t, err)
	assert.NotContains(t, out, "Thursday")
}

func TestMoveCmd(t *testing.T) {
	svc := newTestService(t)
	_, err := run(t, NewNewCmd(&svc), "psy", "--weeks", "0")
	require.NoError(t, err)

	out, err := run(t, NewAddCmd(&svc), "psy", "Unit", "--kind", "folder")
	require.NoError(t, err)
	unitID := strings.TrimSpace(out)

	out, err = run(t, NewAddCmd(&svc), "psy", "Quiz", "--parent", unitID)
	require.NoError(t, err)
	quizID := strings.TrimSpace(out)

	_, err = run(t, NewMoveCmd(&svc), "psy", unitID, quizID)
	assert.ErrorIs(t, err, tree.ErrInvalidMove)

	_, err = run(t, NewMoveCmd(&svc), "psy", quizID)
	assert.ErrorContains(t, err, "need a target")

	_, err = run(t, NewMoveCmd(&svc), "psy", quizID, "--outdent")
	require.NoError(t, err)

	p, err := svc.Open("psy")
	require.NoError(t, err)
	parent, _, _, ok := p.Docs.Tree().FindParentAndIndex(quizID)
	require.True(t, ok)
	assert.Empty(t, parent)
}
