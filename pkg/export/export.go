package export

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-syllabus/pkg/frontmatter"
	"github.com/mattsolo1/grove-syllabus/pkg/models"
	"github.com/mattsolo1/grove-syllabus/pkg/tree"
)

// Format selects the archive layout.
type Format string

const (
	FormatZip  Format = "zip"
	FormatJSON Format = "json"
)

// Names of the fixed entries of a zip export.
const (
	ManifestName = "manifest.json"
	ProjectName  = "project.json"
	ReadmeName   = "README.md"
)

// ParseFormat normalizes a format name. An empty name means zip.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "zip":
		return FormatZip, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// Ext returns the file extension for the format.
func (f Format) Ext() string {
	if f == FormatJSON {
		return ".json"
	}
	return ".zip"
}

// Options controls an export.
type Options struct {
	Format       Format
	Filenames    models.FilenameFormat
	OnlySelected bool
	Selection    *tree.Selection
	Now          func() time.Time
}

// Manifest describes the documents of a zip export.
type Manifest struct {
	Title     string  `json:"title"`
	Exported  string  `json:"exported"`
	Format    Format  `json:"format"`
	Documents []Entry `json:"documents"`
}

// Entry is one exported document.
type Entry struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Kind     string   `json:"kind"`
	Status   string   `json:"status,omitempty"`
	Due      string   `json:"due,omitempty"`
	Path     []string `json:"path"`
	File     string   `json:"file,omitempty"`
	Sections int      `json:"sections"`
	Words    int      `json:"words"`
}

// Exporter serializes a syllabus snapshot.
type Exporter struct {
	logger *logrus.Entry
}

// New creates an Exporter.
func New(logger *logrus.Entry) *Exporter {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	return &Exporter{logger: logger.WithField("sub-component", "export")}
}

// Export writes s to w in the requested format and returns the manifest of what was
// written.
func (e *Exporter) Export(w io.Writer, s *models.Syllabus, opts Options) (*Manifest, error) {
	if opts.Format == "" {
		opts.Format = FormatZip
	}
	if opts.Filenames == "" {
		opts.Filenames = models.FilenameFormatTitle
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.OnlySelected && opts.Selection == nil {
		opts.Selection = tree.NewSelection()
	}

	docs := s.Documents
	if opts.OnlySelected {
		docs = selectedOnly(docs, opts.Selection)
	}
	exported := frontmatter.FormatTimestamp(opts.Now())

	switch opts.Format {
	case FormatZip:
		return e.writeZip(w, s, docs, exported, opts)
	case FormatJSON:
		return e.writeJSON(w, s, docs, exported)
	default:
		return nil, fmt.Errorf("unknown export format %q", opts.Format)
	}
}

// ExportFile exports to path through a temporary file in the same directory.
func (e *Exporter) ExportFile(filePath string, s *models.Syllabus, opts Options) (*Manifest, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("ensure directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".export-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	m, err := e.Export(tmp, s, opts)
	if err != nil {
		_ = tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		return nil, fmt.Errorf("write export: %w", err)
	}
	return m, nil
}

func (e *Exporter) writeZip(w io.Writer, s *models.Syllabus, docs models.DocTree, exported string, opts Options) (*Manifest, error) {
	m := &Manifest{Title: s.Title, Exported: exported, Format: FormatZip, Documents: []Entry{}}
	zw := zip.NewWriter(w)
	modified := opts.Now()
	used := make(map[string]bool)

	var walk func(level []*tree.Node[models.DocMeta], titles, dirs []string) error
	walk = func(level []*tree.Node[models.DocMeta], titles, dirs []string) error {
		for i, n := range level {
			name := uniqueName(used, dirs, fileName(n, i+1, opts.Filenames))
			if n.Kind != tree.KindFolder {
				entry := entryFor(s, n, titles)
				entry.File = path.Join(append(append([]string{}, dirs...), name+".md")...)
				fm := &frontmatter.Frontmatter{
					ID:       n.ID,
					Title:    n.Title,
					Kind:     string(n.Kind),
					Status:   entry.Status,
					Due:      entry.Due,
					Path:     append([]string{}, titles...),
					Tags:     frontmatter.MergeTags(frontmatter.TagsFromPath(titles), statusTags(n.Meta)),
					Order:    i + 1,
					Exported: exported,
				}
				body := frontmatter.BuildContent(fm, RenderMarkdown(s, n))
				hdr := &zip.FileHeader{Name: entry.File, Method: zip.Deflate, Modified: modified}
				f, err := zw.CreateHeader(hdr)
				if err != nil {
					return fmt.Errorf("add %s: %w", entry.File, err)
				}
				if _, err := io.WriteString(f, body); err != nil {
					return fmt.Errorf("write %s: %w", entry.File, err)
				}
				m.Documents = append(m.Documents, entry)
				e.logger.WithField("file", entry.File).Debug("Exported document")
			}
			if len(n.Children) > 0 {
				if err := walk(n.Children, append(titles, n.Title), append(dirs, name)); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(docs.Roots(), nil, nil); err != nil {
		return nil, err
	}

	project, _ := buildProject(s, docs, exported)
	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal project: %w", err)
	}
	if err := addFile(zw, ProjectName, data, modified); err != nil {
		return nil, err
	}
	if err := addFile(zw, ReadmeName, []byte(readme(m)), modified); err != nil {
		return nil, err
	}
	data, err = json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	if err := addFile(zw, ManifestName, data, modified); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}

	e.logger.WithFields(logrus.Fields{
		"documents": len(m.Documents),
		"format":    FormatZip,
	}).Info("Export complete")
	return m, nil
}

func addFile(zw *zip.Writer, name string, data []byte, modified time.Time) error {
	f, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified})
	if err != nil {
		return fmt.Errorf("add %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func readme(m *Manifest) string {
	var sb strings.Builder
	sb.WriteString("# " + m.Title + "\n\n")
	sb.WriteString("Syllabus export created " + m.Exported + ".\n\n")
	sb.WriteString("## Contents\n\n")
	sb.WriteString("- " + ProjectName + ": the complete syllabus, importable as a JSON export\n")
	sb.WriteString("- " + ManifestName + ": one entry per exported document\n")
	for _, d := range m.Documents {
		sb.WriteString("- " + d.File + ": " + d.Title + "\n")
	}
	return sb.String()
}

// jsonDoc is the JSON export layout of one sidebar node.
type jsonDoc struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Kind     tree.Kind      `json:"kind"`
	Meta     models.DocMeta `json:"meta"`
	Content  string         `json:"content,omitempty"`
	Outline  []*jsonSection `json:"outline,omitempty"`
	Children []*jsonDoc     `json:"children,omitempty"`
}

type jsonSection struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Kind     tree.Kind      `json:"kind"`
	Anchor   string         `json:"anchor,omitempty"`
	Content  string         `json:"content,omitempty"`
	Children []*jsonSection `json:"children,omitempty"`
}

type jsonExport struct {
	Title     string     `json:"title"`
	Exported  string     `json:"exported"`
	Documents []*jsonDoc `json:"documents"`
}

func (e *Exporter) writeJSON(w io.Writer, s *models.Syllabus, docs models.DocTree, exported string) (*Manifest, error) {
	out, entries := buildProject(s, docs, exported)
	m := &Manifest{Title: s.Title, Exported: exported, Format: FormatJSON, Documents: entries}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	e.logger.WithFields(logrus.Fields{
		"documents": len(m.Documents),
		"format":    FormatJSON,
	}).Info("Export complete")
	return m, nil
}

// buildProject converts docs into the JSON export layout and lists its documents.
func buildProject(s *models.Syllabus, docs models.DocTree, exported string) (*jsonExport, []Entry) {
	out := &jsonExport{Title: s.Title, Exported: exported, Documents: []*jsonDoc{}}
	entries := []Entry{}

	var convert func(n *tree.Node[models.DocMeta], titles []string) *jsonDoc
	convert = func(n *tree.Node[models.DocMeta], titles []string) *jsonDoc {
		d := &jsonDoc{ID: n.ID, Title: n.Title, Kind: n.Kind, Meta: n.Meta, Content: s.Content[n.ID]}
		for _, sec := range s.Outline(n.ID).Roots() {
			d.Outline = append(d.Outline, convertSection(s, sec))
		}
		if n.Kind != tree.KindFolder {
			entries = append(entries, entryFor(s, n, titles))
		}
		for _, ch := range n.Children {
			d.Children = append(d.Children, convert(ch, append(titles, n.Title)))
		}
		return d
	}
	for _, r := range docs.Roots() {
		out.Documents = append(out.Documents, convert(r, nil))
	}
	return out, entries
}

func convertSection(s *models.Syllabus, n *tree.Node[models.SectionMeta]) *jsonSection {
	out := &jsonSection{ID: n.ID, Title: n.Title, Kind: n.Kind, Anchor: n.Meta.Anchor, Content: s.Content[n.ID]}
	for _, ch := range n.Children {
		out.Children = append(out.Children, convertSection(s, ch))
	}
	return out
}

func entryFor(s *models.Syllabus, n *tree.Node[models.DocMeta], titles []string) Entry {
	words := s.WordCount(n.ID)
	outline := s.Outline(n.ID)
	outline.Walk(func(sec *tree.Node[models.SectionMeta], _ int) bool {
		words += s.WordCount(sec.ID)
		return true
	})
	return Entry{
		ID:       n.ID,
		Title:    n.Title,
		Kind:     string(n.Kind),
		Status:   string(n.Meta.Status),
		Due:      n.Meta.DueDate,
		Path:     append([]string{}, titles...),
		Sections: outline.Len(),
		Words:    words,
	}
}

func statusTags(meta models.DocMeta) []string {
	if meta.Status == models.StatusNone {
		return nil
	}
	return []string{"status-" + strings.ReplaceAll(string(meta.Status), "_", "-")}
}

// selectedOnly keeps the selected leaves, the containers that hold at least one of
// them and nothing else.
func selectedOnly(t models.DocTree, sel *tree.Selection) models.DocTree {
	var filter func(level []*tree.Node[models.DocMeta]) []*tree.Node[models.DocMeta]
	filter = func(level []*tree.Node[models.DocMeta]) []*tree.Node[models.DocMeta] {
		var out []*tree.Node[models.DocMeta]
		for _, n := range level {
			if n.IsLeaf() {
				if sel.IsSelected(n.ID) {
					out = append(out, n)
				}
				continue
			}
			kids := filter(n.Children)
			if len(kids) == 0 {
				continue
			}
			cp := *n
			cp.Children = kids
			out = append(out, &cp)
		}
		return out
	}
	return tree.New(filter(t.Roots())...)
}
