package service

import (
	"errors"
	"fmt"
	"slices"

	"github.com/mattsolo1/grove-syllabus/pkg/editor"
	"github.com/mattsolo1/grove-syllabus/pkg/models"
	"github.com/mattsolo1/grove-syllabus/pkg/tree"
)

// ErrNotDocument is returned when an outline is requested for a folder.
var ErrNotDocument = errors.New("not a document")

// Surface is the part of an editor session that does not depend on the node
// metadata type, so commands can drive the sidebar and any outline alike.
type Surface interface {
	Name() string
	Select(id string, on bool) bool
	SelectAll(on bool)
	Indicator(id string) tree.Indicator
	Reorder(activeID, overID string) bool
	Indent(id string) bool
	Outdent(id string) bool
	Rename(id, title string) bool
	Delete(id string) bool
	Duplicate(id string) (string, bool)
	Convert(id string, kind tree.Kind, confirmed bool) (bool, error)
	RenameInteractive(p editor.Prompter, id string) (bool, error)
	DeleteInteractive(p editor.Prompter, id string) (bool, error)
	ConvertInteractive(p editor.Prompter, id string, kind tree.Kind) (bool, error)
	Undo() bool
	Redo() bool
	CanUndo() bool
	CanRedo() bool

	Click(id string) bool
	Focused() string
	IsExpanded(id string) bool
	ToggleExpand(id string) bool
	SetExpanded(id string, on bool)
	Reveal(id string)
	DragStart(id string) bool
	DragEnd(overID string) bool
	DragCancel()
	Dragging() (string, bool)
}

var (
	_ Surface = (*editor.Session[models.DocMeta])(nil)
	_ Surface = (*editor.Session[models.SectionMeta])(nil)
)

// Project is an open syllabus: one editor session for the sidebar, one per outline
// that has been touched, and the content of every node.
type Project struct {
	Path  string
	Title string
	Docs  *editor.Session[models.DocMeta]

	cfg      editor.Config
	stored   map[string]models.OutlineTree
	outlines map[string]*editor.Session[models.SectionMeta]
	content  map[string]string
	dirty    bool
	savedSel []string
}

// NewProject wraps s for editing. The selection saved with s is restored.
func NewProject(path string, s *models.Syllabus, cfg editor.Config) *Project {
	p := &Project{
		Path:     path,
		Title:    s.Title,
		cfg:      cfg,
		stored:   make(map[string]models.OutlineTree, len(s.Outlines)),
		outlines: make(map[string]*editor.Session[models.SectionMeta]),
		content:  make(map[string]string, len(s.Content)),
	}
	for id, t := range s.Outlines {
		p.stored[id] = t
	}
	for id, text := range s.Content {
		p.content[id] = text
	}
	p.Docs = editor.New("documents", s.Documents, cfg)
	for _, id := range s.Selected {
		p.Docs.Select(id, true)
	}
	p.Docs.OnChange(p.markDirty)
	p.savedSel = p.Docs.Selection().IDs()
	return p
}

func (p *Project) markDirty(editor.Change) { p.dirty = true }

// Dirty reports whether anything, the selection included, changed since the project
// was opened or saved.
func (p *Project) Dirty() bool {
	return p.dirty || !slices.Equal(p.savedSel, p.Docs.Selection().IDs())
}

// MarkSaved clears the dirty flag.
func (p *Project) MarkSaved() {
	p.dirty = false
	p.savedSel = p.Docs.Selection().IDs()
}

// Outline returns the outline session of docID, creating it on first use.
func (p *Project) Outline(docID string) (*editor.Session[models.SectionMeta], error) {
	n, ok := p.Docs.Tree().FindByID(docID)
	if !ok {
		return nil, tree.NotFoundError{ID: docID}
	}
	if n.Kind == tree.KindFolder {
		return nil, fmt.Errorf("outline of %s: %w", docID, ErrNotDocument)
	}
	if sess, ok := p.outlines[docID]; ok {
		return sess, nil
	}
	sess := editor.New("outline:"+docID, p.stored[docID], p.cfg)
	sess.OnChange(p.markDirty)
	p.outlines[docID] = sess
	return sess, nil
}

// Surface returns the sidebar for an empty docID and the outline of docID otherwise.
func (p *Project) Surface(docID string) (Surface, error) {
	if docID == "" {
		return p.Docs, nil
	}
	return p.Outline(docID)
}

// Add creates a node on the sidebar (empty docID) or in the outline of docID.
func (p *Project) Add(docID, parentID string, kind tree.Kind, title string) (string, error) {
	if docID == "" {
		return p.Docs.AddNode(parentID, kind, title, models.DocMeta{})
	}
	sess, err := p.Outline(docID)
	if err != nil {
		return "", err
	}
	return sess.AddNode(parentID, kind, title, models.SectionMeta{})
}

// AddSibling creates a node right after targetID on the sidebar (empty docID) or in
// the outline of docID.
func (p *Project) AddSibling(docID, targetID string, kind tree.Kind, title string) (string, error) {
	if docID == "" {
		return p.Docs.AddSibling(targetID, kind, title, models.DocMeta{})
	}
	sess, err := p.Outline(docID)
	if err != nil {
		return "", err
	}
	return sess.AddSibling(targetID, kind, title, models.SectionMeta{})
}

// AddInteractive is Add with the title supplied by a prompter.
func (p *Project) AddInteractive(pr editor.Prompter, docID, parentID string, kind tree.Kind) (string, error) {
	if docID == "" {
		return p.Docs.AddInteractive(pr, parentID, kind, models.DocMeta{})
	}
	sess, err := p.Outline(docID)
	if err != nil {
		return "", err
	}
	return sess.AddInteractive(pr, parentID, kind, models.SectionMeta{})
}

// Content returns the text of id.
func (p *Project) Content(id string) string {
	return p.content[id]
}

// SetContent replaces the text of id. Empty text removes it.
func (p *Project) SetContent(id, text string) {
	if p.content[id] == text {
		return
	}
	if text == "" {
		delete(p.content, id)
	} else {
		p.content[id] = text
	}
	p.dirty = true
}

// Snapshot assembles the current state into a syllabus. Outlines and content of
// deleted nodes are dropped from the snapshot but kept in the project, so an undo
// brings them back.
func (p *Project) Snapshot() *models.Syllabus {
	s := models.NewSyllabus(p.Title)
	s.Documents = p.Docs.Tree()
	for id, t := range p.stored {
		s.Outlines[id] = t
	}
	for id, sess := range p.outlines {
		s.Outlines[id] = sess.Tree()
	}
	for id, t := range s.Outlines {
		if t.Len() == 0 {
			delete(s.Outlines, id)
		}
	}
	for id, text := range p.content {
		s.Content[id] = text
	}
	s.Selected = p.Docs.Selection().IDs()
	s.Prune()
	return s
}
