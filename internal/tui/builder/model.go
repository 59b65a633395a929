package builder

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mattsolo1/grove-syllabus/internal/tui/builder/components/confirm"
	"github.com/mattsolo1/grove-syllabus/pkg/editor"
	"github.com/mattsolo1/grove-syllabus/pkg/models"
	"github.com/mattsolo1/grove-syllabus/pkg/service"
	"github.com/mattsolo1/grove-syllabus/pkg/tree"
)

type pane int

const (
	sidebarPane pane = iota
	outlinePane
)

type inputMode int

const (
	inputNone inputMode = iota
	inputAddAfter
	inputAddInside
	inputRename
)

// row is a single visible line of a tree pane.
type row struct {
	ID          string
	Title       string
	Kind        tree.Kind
	Depth       int
	HasChildren bool
	Expanded    bool
	Indicator   tree.Indicator

	// Neighbouring sibling ids, used for keyboard reordering.
	Prev string
	Next string

	Suffix string
}

// flatten lists the nodes of s that are visible under its expanded set.
func flatten[M any](s *editor.Session[M], suffix func(M) string) []row {
	var rows []row
	var walk func(level []*tree.Node[M], depth int)
	walk = func(level []*tree.Node[M], depth int) {
		for i, n := range level {
			r := row{
				ID:          n.ID,
				Title:       n.Title,
				Kind:        n.Kind,
				Depth:       depth,
				HasChildren: !n.IsLeaf(),
				Expanded:    s.IsExpanded(n.ID),
				Indicator:   s.Indicator(n.ID),
			}
			if i > 0 {
				r.Prev = level[i-1].ID
			}
			if i < len(level)-1 {
				r.Next = level[i+1].ID
			}
			if suffix != nil {
				r.Suffix = suffix(n.Meta)
			}
			rows = append(rows, r)
			if r.HasChildren && r.Expanded {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(s.Tree().Roots(), 0)
	return rows
}

// Model is the main model for the syllabus builder TUI
type Model struct {
	service *service.Service
	project *service.Project
	keys    KeyMap
	help    help.Model
	width   int
	height  int

	pane   pane
	docID  string // document whose outline is shown
	cursor [2]int
	scroll [2]int

	input       textinput.Model
	inputMode   inputMode
	inputTarget string
	inputKind   tree.Kind

	confirm     confirm.Model
	pendingID   string
	pendingKind tree.Kind

	statusMessage string
	quitting      bool

	copy func(string) error
	now  func() time.Time
}

// New creates a builder for an open project.
func New(svc *service.Service, p *service.Project) Model {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 50

	m := Model{
		service: svc,
		project: p,
		keys:    keys,
		help:    help.New(),
		input:   ti,
		confirm: confirm.New(),
		copy:    clipboard.WriteAll,
		now:     time.Now,
	}
	p.Docs.ExpandAll()
	m.syncDoc()
	return m
}

// Project returns the project being edited.
func (m Model) Project() *service.Project {
	return m.project
}

func (m Model) Init() tea.Cmd {
	return nil
}

// surface returns the session behind the active pane, or nil when the outline pane
// has no document.
func (m Model) surface() service.Surface {
	if m.pane == sidebarPane {
		return m.project.Docs
	}
	if m.docID == "" {
		return nil
	}
	sess, err := m.project.Outline(m.docID)
	if err != nil {
		return nil
	}
	return sess
}

func (m Model) sidebarRows() []row {
	now := m.now()
	return flatten(m.project.Docs, func(meta models.DocMeta) string {
		return docSuffix(meta, now)
	})
}

func (m Model) outlineRows() []row {
	if m.docID == "" {
		return nil
	}
	sess, err := m.project.Outline(m.docID)
	if err != nil {
		return nil
	}
	return flatten(sess, nil)
}

func (m Model) rows() []row {
	if m.pane == sidebarPane {
		return m.sidebarRows()
	}
	return m.outlineRows()
}

// current returns the row under the cursor of the active pane.
func (m Model) current() (row, bool) {
	rows := m.rows()
	c := m.cursor[m.pane]
	if c < 0 || c >= len(rows) {
		return row{}, false
	}
	return rows[c], true
}

// focus reveals id in the active pane and moves the cursor onto it.
func (m *Model) focus(id string) {
	s := m.surface()
	if s == nil {
		return
	}
	s.Reveal(id)
	for i, r := range m.rows() {
		if r.ID == id {
			m.cursor[m.pane] = i
			break
		}
	}
	m.clamp()
}

// clamp keeps the cursor inside the rows and the rows around the cursor visible.
func (m *Model) clamp() {
	n := len(m.rows())
	c := &m.cursor[m.pane]
	if *c >= n {
		*c = n - 1
	}
	if *c < 0 {
		*c = 0
	}
	h := m.viewportHeight()
	sc := &m.scroll[m.pane]
	if *c < *sc {
		*sc = *c
	}
	if *c >= *sc+h {
		*sc = *c - h + 1
	}
	if *sc < 0 {
		*sc = 0
	}
	if m.pane == sidebarPane {
		m.syncDoc()
	}
}

// syncDoc points the outline pane at the document under the sidebar cursor.
func (m *Model) syncDoc() {
	rows := m.sidebarRows()
	c := m.cursor[sidebarPane]
	if c < 0 || c >= len(rows) {
		return
	}
	r := rows[c]
	m.project.Docs.Click(r.ID)
	if r.Kind == tree.KindFolder || r.ID == m.docID {
		return
	}
	m.docID = r.ID
	m.cursor[outlinePane] = 0
	m.scroll[outlinePane] = 0
}

func (m Model) viewportHeight() int {
	h := m.height - 10
	if h < 5 {
		h = 5
	}
	return h
}
