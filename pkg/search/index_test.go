package search

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-syllabus/pkg/models"
	"github.com/mattsolo1/grove-syllabus/pkg/tree"
)

func sampleSyllabus() *models.Syllabus {
	s := models.NewSyllabus("Networks")
	week := tree.NewNode("w1", "Week 1", tree.KindFolder, models.DocMeta{})
	week.Children = []*tree.Node[models.DocMeta]{
		tree.NewNode("lec", "Routing Lecture", tree.KindFile, models.DocMeta{Status: models.StatusDraft}),
	}
	s.Documents = tree.New(
		tree.NewNode("ov", "Overview", tree.KindFile, models.DocMeta{}),
		week,
	)
	s.Outlines["lec"] = tree.New(
		tree.NewNode("bgp", "Border Gateway", tree.KindPlain, models.SectionMeta{}),
	)
	s.Content["ov"] = "This course covers packet switching."
	s.Content["lec"] = "Distance vector protocols."
	s.Content["bgp"] = "Autonomous systems exchange prefixes."
	return s
}

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex(filepath.Join(t.TempDir(), "search.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestRecords(t *testing.T) {
	records := Records("a.syllabus.yaml", sampleSyllabus())
	require.Len(t, records, 4)

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"ov", "w1", "lec", "bgp"}, ids)

	assert.Equal(t, "Week 1", records[2].Path)
	assert.Equal(t, KindSection, records[3].Kind)
	assert.Equal(t, "lec", records[3].DocID)
	assert.Equal(t, "Week 1 / Routing Lecture", records[3].Path)
	assert.Equal(t, "draft", records[2].Status)
	assert.Equal(t, 4, records[3].WordCount)
}

func TestIndexAndSearch(t *testing.T) {
	idx := newTestIndex(t)

	n, err := idx.IndexSyllabus("a.syllabus.yaml", sampleSyllabus())
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	results, err := idx.Search("prefixes", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "bgp", results[0].ID)
	assert.NotEmpty(t, results[0].Snippet)

	results, err = idx.Search("Routing", &Options{Kind: KindDocument})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "lec", results[0].ID)

	results, err = idx.Search("   ", nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchFilters(t *testing.T) {
	idx := newTestIndex(t)
	_, err := idx.IndexSyllabus("a.syllabus.yaml", sampleSyllabus())
	require.NoError(t, err)

	results, err := idx.Search("prefixes", &Options{Source: "other.syllabus.yaml"})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = idx.Search("prefixes", &Options{DocID: "lec"})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestReindexReplacesSource(t *testing.T) {
	idx := newTestIndex(t)
	s := sampleSyllabus()
	_, err := idx.IndexSyllabus("a.syllabus.yaml", s)
	require.NoError(t, err)

	s.Documents, _, _ = s.Documents.RemoveByID("w1")
	s.Prune()
	n, err := idx.IndexSyllabus("a.syllabus.yaml", s)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err := idx.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := idx.Search("prefixes", nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRemove(t *testing.T) {
	idx := newTestIndex(t)
	_, err := idx.IndexSyllabus("a.syllabus.yaml", sampleSyllabus())
	require.NoError(t, err)

	require.NoError(t, idx.Remove("ov"))
	results, err := idx.Search("packet", nil)
	require.NoError(t, err)
	assert.Empty(t, results)

	require.NoError(t, idx.IndexRecord(&Record{ID: "ov", Source: "a.syllabus.yaml", DocID: "ov", Kind: KindDocument, Title: "Overview", Content: "packet switching"}))
	results, err = idx.Search("packet", nil)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short text", snippet("short text", "text"))
	long := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa needle bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	got := snippet(long, "needle")
	assert.Contains(t, got, "needle")
	assert.True(t, len(got) < len(long))
}
