package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattsolo1/grove-syllabus/pkg/tree"
)

// DateLayout is the format of due dates.
const DateLayout = "2006-01-02"

// Status is the workflow state of a syllabus document.
type Status string

const (
	StatusNone       Status = ""
	StatusDraft      Status = "draft"
	StatusInProgress Status = "in_progress"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
)

// Statuses lists the selectable statuses in display order.
var Statuses = []Status{StatusDraft, StatusInProgress, StatusReview, StatusDone}

// ParseStatus normalizes user input into a Status.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return StatusNone, nil
	case "draft", "todo":
		return StatusDraft, nil
	case "in_progress", "in-progress", "doing", "wip":
		return StatusInProgress, nil
	case "review", "in_review", "needs-review", "needs_review":
		return StatusReview, nil
	case "done", "complete", "completed":
		return StatusDone, nil
	default:
		return StatusNone, fmt.Errorf("unknown status %q", s)
	}
}

// Next cycles through Statuses, starting at draft for an unset status.
func (s Status) Next() Status {
	for i, st := range Statuses {
		if st == s {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return StatusDraft
}

// DocType is what a sidebar document is for. It only affects display.
type DocType string

const (
	DocNone     DocType = ""
	DocSyllabus DocType = "syllabus"
	DocTextbook DocType = "textbook"
	DocLesson   DocType = "lesson"
	DocRubric   DocType = "rubric"
)

// ParseDocType normalizes user input into a DocType.
func ParseDocType(s string) (DocType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return DocNone, nil
	case "syllabus":
		return DocSyllabus, nil
	case "textbook", "reading", "chapter":
		return DocTextbook, nil
	case "lesson", "lecture", "lesson-plan":
		return DocLesson, nil
	case "rubric", "assessment":
		return DocRubric, nil
	default:
		return DocNone, fmt.Errorf("unknown document type %q", s)
	}
}

// DocMeta is the display-only metadata of a sidebar document node.
type DocMeta struct {
	Type    DocType `yaml:"type,omitempty" json:"type,omitempty"`
	Status  Status  `yaml:"status,omitempty" json:"status,omitempty"`
	DueDate string  `yaml:"due,omitempty" json:"due,omitempty"` // YYYY-MM-DD
}

// Due parses DueDate.
func (m DocMeta) Due() (time.Time, bool) {
	if m.DueDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, m.DueDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Overdue reports whether the document is past due and not done.
func (m DocMeta) Overdue(now time.Time) bool {
	due, ok := m.Due()
	if !ok || m.Status == StatusDone {
		return false
	}
	y, mo, d := now.Date()
	return due.Before(time.Date(y, mo, d, 0, 0, 0, 0, due.Location()))
}

// SectionMeta is the metadata of an outline section.
type SectionMeta struct {
	Anchor string `yaml:"anchor,omitempty" json:"anchor,omitempty"`
}

// DocTree is the sidebar document tree.
type DocTree = tree.Tree[DocMeta]

// OutlineTree is the section outline of one document.
type OutlineTree = tree.Tree[SectionMeta]

// Syllabus is a whole editing session's data: the sidebar tree, one outline per
// document and the text content of leaves keyed by node id.
type Syllabus struct {
	Title     string
	Documents DocTree
	Outlines  map[string]OutlineTree
	Content   map[string]string
	Selected  []string // Selected sidebar leaves, kept for export
}

// NewSyllabus returns an empty syllabus.
func NewSyllabus(title string) *Syllabus {
	return &Syllabus{
		Title:    title,
		Outlines: make(map[string]OutlineTree),
		Content:  make(map[string]string),
	}
}

// Outline returns the outline of docID, empty if it has none.
func (s *Syllabus) Outline(docID string) OutlineTree {
	return s.Outlines[docID]
}

// Validate checks that every tree is well formed and that ids are unique across the
// sidebar and all outlines, so content keys are unambiguous.
func (s *Syllabus) Validate() error {
	if err := s.Documents.Validate(); err != nil {
		return fmt.Errorf("documents: %w", err)
	}
	seen := make(map[string]string)
	for _, id := range s.Documents.IDs() {
		seen[id] = "documents"
	}
	for docID, outline := range s.Outlines {
		if !s.Documents.Contains(docID) {
			return fmt.Errorf("outline for unknown document %q", docID)
		}
		if err := outline.Validate(); err != nil {
			return fmt.Errorf("outline %s: %w", docID, err)
		}
		for _, id := range outline.IDs() {
			if owner, ok := seen[id]; ok {
				return fmt.Errorf("%w: %q used in %s and outline %s", tree.ErrDuplicateID, id, owner, docID)
			}
			seen[id] = "outline " + docID
		}
	}
	return nil
}

// Prune removes outlines and content whose owning nodes no longer exist.
func (s *Syllabus) Prune() {
	live := make(map[string]bool)
	for _, id := range s.Documents.IDs() {
		live[id] = true
	}
	for docID, outline := range s.Outlines {
		if !live[docID] {
			delete(s.Outlines, docID)
			continue
		}
		for _, id := range outline.IDs() {
			live[id] = true
		}
	}
	for id := range s.Content {
		if !live[id] {
			delete(s.Content, id)
		}
	}
	selected := s.Selected[:0]
	for _, id := range s.Selected {
		if s.Documents.IsLeaf(id) {
			selected = append(selected, id)
		}
	}
	s.Selected = selected
}

// WordCount counts words in the content of id.
func (s *Syllabus) WordCount(id string) int {
	return len(strings.Fields(s.Content[id]))
}
