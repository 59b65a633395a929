package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-syllabus/pkg/models"
	"github.com/mattsolo1/grove-syllabus/pkg/search"
	"github.com/mattsolo1/grove-syllabus/pkg/syllabus"
	"github.com/mattsolo1/grove-syllabus/pkg/tree"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := New(&Config{DataDir: t.TempDir(), Weeks: 2}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func findByTitle[M any](t tree.Tree[M], title string) *tree.Node[M] {
	var found *tree.Node[M]
	t.Walk(func(n *tree.Node[M], _ int) bool {
		if n.Title == title {
			found = n
			return false
		}
		return true
	})
	return found
}

func TestCreateAndOpen(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.Create("algo", "Algorithms", -1)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(svc.Config.DataDir, "algo"+syllabus.Extension), p.Path)
	assert.FileExists(t, p.Path)
	assert.False(t, p.Dirty())

	_, err = svc.Create("algo", "Again", 0)
	assert.True(t, errors.Is(err, ErrExists))

	opened, err := svc.Open("algo")
	require.NoError(t, err)
	assert.Equal(t, "Algorithms", opened.Title)
	assert.True(t, opened.Docs.Tree().Equal(p.Docs.Tree()))
	assert.NotNil(t, findByTitle(opened.Docs.Tree(), "Week 2"))

	list, err := svc.List()
	require.NoError(t, err)
	assert.Equal(t, []string{p.Path}, list)
}

func TestPath(t *testing.T) {
	svc := newTestService(t)
	assert.Equal(t, filepath.Join(svc.Config.DataDir, "x"+syllabus.Extension), svc.Path("x"))
	assert.Equal(t, "x"+syllabus.Extension, svc.Path("x"+syllabus.Extension))
	assert.Equal(t, filepath.Join("a", "b"), svc.Path(filepath.Join("a", "b")))
}

func TestSavePersistsEditsAndSelection(t *testing.T) {
	svc := newTestService(t)
	p, err := svc.Create("algo", "Algorithms", 1)
	require.NoError(t, err)

	lecture := findByTitle(p.Docs.Tree(), "Lecture")
	require.NotNil(t, lecture)
	require.True(t, p.Docs.Rename(lecture.ID, "Sorting"))
	require.True(t, p.Docs.Select(lecture.ID, true))
	p.SetContent(lecture.ID, "Quicksort and mergesort.")

	outline, err := p.Outline(lecture.ID)
	require.NoError(t, err)
	secID, err := p.Add(lecture.ID, "", tree.KindPlain, "Complexity")
	require.NoError(t, err)
	p.SetContent(secID, "Big O notation.")
	assert.True(t, outline.Tree().Contains(secID))
	assert.True(t, p.Dirty())

	require.NoError(t, svc.Save(p))
	assert.False(t, p.Dirty())

	reopened, err := svc.Open("algo")
	require.NoError(t, err)
	assert.True(t, reopened.Docs.Selection().IsSelected(lecture.ID))
	assert.Equal(t, "Quicksort and mergesort.", reopened.Content(lecture.ID))
	o, err := reopened.Outline(lecture.ID)
	require.NoError(t, err)
	assert.True(t, o.Tree().Contains(secID))

	results, err := svc.Search("mergesort")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, lecture.ID, results[0].ID)

	results, err = svc.Search("notation", OfKind(search.KindSection), InDocument(lecture.ID))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, secID, results[0].ID)
}

func TestSelectionChangeMarksDirty(t *testing.T) {
	svc := newTestService(t)
	p, err := svc.Create("algo", "Algorithms", 1)
	require.NoError(t, err)

	p.Docs.SelectAll(true)
	assert.True(t, p.Dirty())
	p.Docs.SelectAll(false)
	assert.False(t, p.Dirty())
}

func TestOutlineOfFolder(t *testing.T) {
	svc := newTestService(t)
	p, err := svc.Create("algo", "Algorithms", 1)
	require.NoError(t, err)

	schedule := findByTitle(p.Docs.Tree(), "Schedule")
	_, err = p.Outline(schedule.ID)
	assert.True(t, errors.Is(err, ErrNotDocument))

	_, err = p.Outline("missing")
	assert.True(t, errors.Is(err, tree.ErrNotFound))

	s, err := p.Surface("")
	require.NoError(t, err)
	assert.Equal(t, "documents", s.Name())
}

func TestSnapshotKeepsOutlinesForUndo(t *testing.T) {
	svc := newTestService(t)
	p, err := svc.Create("algo", "Algorithms", 0)
	require.NoError(t, err)

	overview := findByTitle(p.Docs.Tree(), "Course Syllabus")
	require.NotNil(t, overview)
	require.True(t, p.Docs.Delete(overview.ID))
	assert.Empty(t, p.Snapshot().Outlines)

	require.True(t, p.Docs.Undo())
	snap := p.Snapshot()
	assert.Contains(t, snap.Outlines, overview.ID)
	require.NoError(t, snap.Validate())
}

func TestExport(t *testing.T) {
	svc := newTestService(t)
	p, err := svc.Create("algo", "Algorithms", 1)
	require.NoError(t, err)

	out, m, err := svc.Export(p, "", ExportOptions{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(svc.Config.DataDir, "algo.zip"), out)
	assert.FileExists(t, out)
	assert.Len(t, m.Documents, 3)

	lecture := findByTitle(p.Docs.Tree(), "Lecture")
	p.Docs.Select(lecture.ID, true)
	out, m, err = svc.Export(p, filepath.Join(t.TempDir(), "sel.json"), ExportOptions{Format: "json", OnlySelected: true})
	require.NoError(t, err)
	require.Len(t, m.Documents, 1)
	assert.Equal(t, lecture.ID, m.Documents[0].ID)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Lecture"`)

	_, _, err = svc.Export(p, "", ExportOptions{Format: "rar"})
	assert.Error(t, err)
}

func TestReindex(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Create("a", "Alpha", 0)
	require.NoError(t, err)
	_, err = svc.Create("b", "Beta", 1)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(svc.Config.DataDir, "broken"+syllabus.Extension), []byte("documents: [oops"), 0644))

	n, err := svc.Reindex()
	require.NoError(t, err)
	// Each syllabus has one overview with 22 outline sections; Beta adds schedule,
	// week and two documents.
	assert.Equal(t, 23+23+4, n)

	results, err := svc.Search("Office Hours", InSyllabus(svc.Path("b")))
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestStatusRoundTripThroughSave(t *testing.T) {
	svc := newTestService(t)
	p, err := svc.Create("algo", "Algorithms", 0)
	require.NoError(t, err)
	overview := findByTitle(p.Docs.Tree(), "Course Syllabus")
	require.True(t, p.Docs.SetMeta(overview.ID, models.DocMeta{Status: models.StatusDone, DueDate: "2025-03-01"}))
	require.NoError(t, svc.Save(p))

	reopened, err := svc.Open("algo")
	require.NoError(t, err)
	n, _ := reopened.Docs.Tree().FindByID(overview.ID)
	assert.Equal(t, models.StatusDone, n.Meta.Status)
	assert.Equal(t, "2025-03-01", n.Meta.DueDate)
}
