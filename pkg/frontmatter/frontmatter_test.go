package frontmatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantFM   *Frontmatter
		wantBody string
		wantErr  bool
	}{
		{
			name: "valid frontmatter",
			content: `---
id: lec1
title: Lecture 1
kind: file
status: draft
due: "2025-02-03"
path: [Schedule, Week 1]
tags: [schedule, week-1]
order: 3
exported: 2025-01-01 10:00:00
---

# Lecture 1

Body.`,
			wantFM: &Frontmatter{
				ID:       "lec1",
				Title:    "Lecture 1",
				Kind:     "file",
				Status:   "draft",
				Due:      "2025-02-03",
				Path:     []string{"Schedule", "Week 1"},
				Tags:     []string{"schedule", "week-1"},
				Order:    3,
				Exported: "2025-01-01 10:00:00",
			},
			wantBody: "\n# Lecture 1\n\nBody.",
		},
		{
			name:     "no frontmatter",
			content:  "# Just a title\n\nSome content.",
			wantBody: "# Just a title\n\nSome content.",
		},
		{
			name:     "invalid yaml",
			content:  "---\nid: x\ntitle: [broken\n---\n\nBody",
			wantBody: "---\nid: x\ntitle: [broken\n---\n\nBody",
			wantErr:  true,
		},
		{
			name:     "missing arrays become empty",
			content:  "---\nid: x\ntitle: X\n---\nBody",
			wantFM:   &Frontmatter{ID: "x", Title: "X", Path: []string{}, Tags: []string{}},
			wantBody: "Body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotFM, gotBody, err := Parse(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantFM, gotFM)
			assert.Equal(t, tt.wantBody, gotBody)
		})
	}
}

func TestBuild(t *testing.T) {
	fm := &Frontmatter{
		ID:       "lec1",
		Title:    "Lecture: Intro",
		Kind:     "file",
		Status:   "review",
		Due:      "2025-02-03",
		Path:     []string{"Schedule", "Week 1, Part A"},
		Tags:     []string{"schedule"},
		Order:    2,
		Exported: "2025-01-01 10:00:00",
	}

	want := `---
id: lec1
title: "Lecture: Intro"
kind: file
status: review
due: "2025-02-03"
path: [Schedule, "Week 1, Part A"]
tags: [schedule]
order: 2
exported: 2025-01-01 10:00:00
---`
	assert.Equal(t, want, Build(fm))

	minimal := Build(&Frontmatter{ID: "x", Title: "X", Exported: "2025-01-01 10:00:00"})
	assert.Equal(t, "---\nid: x\ntitle: X\npath: []\ntags: []\norder: 0\nexported: 2025-01-01 10:00:00\n---", minimal)
}

func TestBuildContent(t *testing.T) {
	fm := &Frontmatter{ID: "x", Title: "X", Exported: "2025-01-01 10:00:00"}

	assert.Contains(t, BuildContent(fm, "Body"), "---\n\nBody")
	assert.Contains(t, BuildContent(fm, "\nBody"), "---\n\nBody")
}

func TestRoundTrip(t *testing.T) {
	fm := &Frontmatter{
		ID:       "s-1",
		Title:    "Grading & Policies",
		Status:   "done",
		Due:      "2025-05-01",
		Path:     []string{"Overview"},
		Tags:     []string{"overview"},
		Order:    1,
		Exported: FormatTimestamp(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)),
	}

	parsed, body, err := Parse(BuildContent(fm, "text"))
	require.NoError(t, err)
	assert.Equal(t, fm, parsed)
	assert.Equal(t, "\ntext", body)
}

func TestFormatAndParseTimestamp(t *testing.T) {
	ts := time.Date(2025, 6, 7, 8, 9, 10, 0, time.UTC)
	got, err := ParseTimestamp(FormatTimestamp(ts))
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))
}

func TestTagsFromPath(t *testing.T) {
	assert.Equal(t, []string{"schedule", "week-1"}, TagsFromPath([]string{"Schedule", " Week  1 "}))
	assert.Equal(t, []string{}, TagsFromPath(nil))
}

func TestMergeTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, MergeTags([]string{"a", "b"}, []string{"b", "", "c"}))
	assert.Equal(t, []string{}, MergeTags())
}
