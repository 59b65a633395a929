package syllabus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mattsolo1/grove-syllabus/pkg/models"
	"github.com/mattsolo1/grove-syllabus/pkg/tree"
)

// Extension is the file extension of syllabus files.
const Extension = ".syllabus.yaml"

// file is the on-disk layout. Content and outlines are stored inline on the node
// that owns them so a syllabus reads top to bottom like the document it describes.
type file struct {
	Title     string   `yaml:"title"`
	Documents []*node  `yaml:"documents"`
	Selected  []string `yaml:"selected,omitempty"`
}

type node struct {
	ID       string        `yaml:"id"`
	Title    string        `yaml:"title"`
	Kind     tree.Kind     `yaml:"kind,omitempty"`
	Type     string        `yaml:"type,omitempty"`
	Status   models.Status `yaml:"status,omitempty"`
	Due      string        `yaml:"due,omitempty"`
	Anchor   string        `yaml:"anchor,omitempty"`
	Content  string        `yaml:"content,omitempty"`
	Outline  []*node       `yaml:"outline,omitempty"`
	Children []*node       `yaml:"children,omitempty"`
}

// Load reads and validates a syllabus file.
func Load(path string) (*models.Syllabus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read syllabus: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a syllabus from YAML.
func Parse(data []byte) (*models.Syllabus, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse syllabus: %w", err)
	}

	s := models.NewSyllabus(strings.TrimSpace(f.Title))
	docs := make([]*tree.Node[models.DocMeta], 0, len(f.Documents))
	for _, n := range f.Documents {
		d, err := decodeDocument(s, n)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	s.Documents = tree.New(docs...)
	s.Selected = f.Selected
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func decodeDocument(s *models.Syllabus, n *node) (*tree.Node[models.DocMeta], error) {
	if n == nil {
		return nil, fmt.Errorf("empty document entry")
	}
	kind, err := decodeKind(n, tree.KindFile)
	if err != nil {
		return nil, err
	}
	status, err := models.ParseStatus(string(n.Status))
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", n.ID, err)
	}
	docType, err := models.ParseDocType(n.Type)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", n.ID, err)
	}
	meta := models.DocMeta{Type: docType, Status: status, DueDate: strings.TrimSpace(n.Due)}
	if _, ok := meta.Due(); meta.DueDate != "" && !ok {
		return nil, fmt.Errorf("document %s: due date %q is not YYYY-MM-DD", n.ID, n.Due)
	}

	out := tree.NewNode(n.ID, n.Title, kind, meta)
	if kind == tree.KindFolder {
		out.Children = []*tree.Node[models.DocMeta]{}
	}
	for _, ch := range n.Children {
		c, err := decodeDocument(s, ch)
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, c)
	}
	if n.Content != "" {
		s.Content[n.ID] = n.Content
	}
	if len(n.Outline) > 0 {
		sections := make([]*tree.Node[models.SectionMeta], 0, len(n.Outline))
		for _, sec := range n.Outline {
			c, err := decodeSection(s, sec)
			if err != nil {
				return nil, err
			}
			sections = append(sections, c)
		}
		s.Outlines[n.ID] = tree.New(sections...)
	}
	return out, nil
}

func decodeSection(s *models.Syllabus, n *node) (*tree.Node[models.SectionMeta], error) {
	if n == nil {
		return nil, fmt.Errorf("empty outline entry")
	}
	def := tree.KindPlain
	if len(n.Children) > 0 {
		def = tree.KindFolder
	}
	kind, err := decodeKind(n, def)
	if err != nil {
		return nil, err
	}
	out := tree.NewNode(n.ID, n.Title, kind, models.SectionMeta{Anchor: n.Anchor})
	for _, ch := range n.Children {
		c, err := decodeSection(s, ch)
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, c)
	}
	if n.Content != "" {
		s.Content[n.ID] = n.Content
	}
	return out, nil
}

func decodeKind(n *node, def tree.Kind) (tree.Kind, error) {
	if n.Kind == "" {
		if len(n.Children) > 0 && def == tree.KindFile {
			return tree.KindFolder, nil
		}
		return def, nil
	}
	kind, ok := tree.ParseKind(string(n.Kind))
	if !ok {
		return "", fmt.Errorf("node %s: %w %q", n.ID, tree.ErrInvalidKind, n.Kind)
	}
	return kind, nil
}

// Marshal encodes a syllabus as YAML.
func Marshal(s *models.Syllabus) ([]byte, error) {
	f := file{Title: s.Title, Selected: s.Selected}
	for _, d := range s.Documents.Roots() {
		f.Documents = append(f.Documents, encodeDocument(s, d))
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("marshal syllabus: %w", err)
	}
	return data, nil
}

func encodeDocument(s *models.Syllabus, d *tree.Node[models.DocMeta]) *node {
	out := &node{
		ID:      d.ID,
		Title:   d.Title,
		Kind:    d.Kind,
		Type:    string(d.Meta.Type),
		Status:  d.Meta.Status,
		Due:     d.Meta.DueDate,
		Content: s.Content[d.ID],
	}
	for _, ch := range d.Children {
		out.Children = append(out.Children, encodeDocument(s, ch))
	}
	for _, sec := range s.Outline(d.ID).Roots() {
		out.Outline = append(out.Outline, encodeSection(s, sec))
	}
	return out
}

func encodeSection(s *models.Syllabus, n *tree.Node[models.SectionMeta]) *node {
	out := &node{
		ID:      n.ID,
		Title:   n.Title,
		Anchor:  n.Meta.Anchor,
		Content: s.Content[n.ID],
	}
	if n.Kind != tree.KindPlain {
		out.Kind = n.Kind
	}
	for _, ch := range n.Children {
		out.Children = append(out.Children, encodeSection(s, ch))
	}
	return out
}

// Save writes s to path through a temporary file so a failed write never truncates
// the previous version.
func Save(path string, s *models.Syllabus) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("ensure directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".syllabus-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write syllabus: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace syllabus: %w", err)
	}
	return nil
}
