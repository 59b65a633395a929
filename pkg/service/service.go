package service

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-syllabus/pkg/editor"
	"github.com/mattsolo1/grove-syllabus/pkg/export"
	"github.com/mattsolo1/grove-syllabus/pkg/models"
	"github.com/mattsolo1/grove-syllabus/pkg/search"
	"github.com/mattsolo1/grove-syllabus/pkg/syllabus"
	"github.com/mattsolo1/grove-syllabus/pkg/tree"
)

// ErrExists is returned when creating a syllabus over an existing file.
var ErrExists = errors.New("syllabus already exists")

// Service is the core syllabus service
type Service struct {
	Index    *search.Index
	Exporter *export.Exporter
	Config   *Config
	Logger   *logrus.Entry
}

// Config holds service configuration
type Config struct {
	DataDir      string
	Editor       string
	HistoryLimit int
	ExportFormat string
	Filenames    models.FilenameFormat
	Weeks        int
}

// New creates a new syllabus service
func New(config *Config, logger *logrus.Entry) (*Service, error) {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = tree.DefaultHistoryLimit
	}
	if err := os.MkdirAll(config.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("ensure data directory: %w", err)
	}

	index, err := search.NewIndex(filepath.Join(config.DataDir, "index.db"))
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &Service{
		Index:    index,
		Exporter: export.New(logger),
		Config:   config,
		Logger:   logger.WithField("sub-component", "service"),
	}, nil
}

// Path resolves a syllabus name to its file. Names containing a path separator or
// ending in the syllabus extension are used as given.
func (s *Service) Path(name string) string {
	if strings.ContainsRune(name, os.PathSeparator) || strings.HasSuffix(name, syllabus.Extension) {
		return name
	}
	return filepath.Join(s.Config.DataDir, name+syllabus.Extension)
}

// List returns the syllabus files in the data directory.
func (s *Service) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.Config.DataDir, "*"+syllabus.Extension))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

func (s *Service) editorConfig() editor.Config {
	return editor.Config{HistoryLimit: s.Config.HistoryLimit, Logger: s.Logger}
}

// Create scaffolds a new syllabus and saves it.
func (s *Service) Create(name, title string, weeks int) (*Project, error) {
	path := s.Path(name)
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrExists, path)
	}
	if title == "" {
		title = name
	}
	if weeks < 0 {
		weeks = s.Config.Weeks
	}

	p := NewProject(path, syllabus.Scaffold(title, weeks, nil), s.editorConfig())
	if err := s.Save(p); err != nil {
		return nil, err
	}
	s.Logger.WithField("path", path).Info("Created syllabus")
	return p, nil
}

// Open loads a syllabus for editing.
func (s *Service) Open(name string) (*Project, error) {
	path := s.Path(name)
	syl, err := syllabus.Load(path)
	if err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{
		"path":      path,
		"documents": syl.Documents.Len(),
	}).Debug("Opened syllabus")
	return NewProject(path, syl, s.editorConfig()), nil
}

// Save writes the project and refreshes its search records. An indexing failure is
// logged and does not fail the save.
func (s *Service) Save(p *Project) error {
	snap := p.Snapshot()
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("validate %s: %w", p.Path, err)
	}
	if err := syllabus.Save(p.Path, snap); err != nil {
		return err
	}
	p.MarkSaved()

	if _, err := s.Index.IndexSyllabus(p.Path, snap); err != nil {
		s.Logger.WithError(err).Warn("Failed to index syllabus")
	}
	return nil
}

// ExportOptions selects the export format and the subset of documents.
type ExportOptions struct {
	Format       string
	OnlySelected bool
}

// Export writes an archive of the project to out. An empty out derives the name from
// the syllabus file.
func (s *Service) Export(p *Project, out string, opts ExportOptions) (string, *export.Manifest, error) {
	name := opts.Format
	if name == "" {
		name = s.Config.ExportFormat
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		return "", nil, err
	}
	if out == "" {
		out = strings.TrimSuffix(p.Path, syllabus.Extension) + format.Ext()
	}

	m, err := s.Exporter.ExportFile(out, p.Snapshot(), export.Options{
		Format:       format,
		Filenames:    s.Config.Filenames,
		OnlySelected: opts.OnlySelected,
		Selection:    p.Docs.Selection(),
	})
	if err != nil {
		return "", nil, fmt.Errorf("export %s: %w", p.Path, err)
	}
	return out, m, nil
}

// Reindex rebuilds the search records of every syllabus in the data directory.
func (s *Service) Reindex() (int, error) {
	paths, err := s.List()
	if err != nil {
		return 0, err
	}
	total := 0
	for _, path := range paths {
		syl, err := syllabus.Load(path)
		if err != nil {
			s.Logger.WithError(err).WithField("path", path).Warn("Skipping unreadable syllabus")
			continue
		}
		n, err := s.Index.IndexSyllabus(path, syl)
		if err != nil {
			return total, fmt.Errorf("index %s: %w", path, err)
		}
		total += n
	}
	return total, nil
}

// Search searches indexed documents and sections
func (s *Service) Search(query string, options ...SearchOption) ([]*search.Record, error) {
	opts := &search.Options{Limit: 50}
	for _, opt := range options {
		opt(opts)
	}

	results, err := s.Index.Search(query, opts)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	return results, nil
}

// Edit opens the syllabus file in the configured editor and reindexes it afterwards.
func (s *Service) Edit(name string) error {
	path := s.Path(name)
	if err := s.openInEditor(path); err != nil {
		return fmt.Errorf("run editor: %w", err)
	}
	syl, err := syllabus.Load(path)
	if err != nil {
		return err
	}
	if _, err := s.Index.IndexSyllabus(path, syl); err != nil {
		s.Logger.WithError(err).Warn("Failed to index syllabus")
	}
	return nil
}

// openInEditor opens a file in the configured editor
func (s *Service) openInEditor(path string) error {
	editorCmd := s.Config.Editor
	if editorCmd == "" {
		editorCmd = os.Getenv("EDITOR")
	}
	if editorCmd == "" {
		editorCmd = "vim" // fallback
	}

	args := strings.Fields(editorCmd)
	cmd := exec.Command(args[0], append(args[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// Close closes the service
func (s *Service) Close() error {
	if s.Index != nil {
		if err := s.Index.Close(); err != nil {
			return err
		}
	}
	return nil
}

type SearchOption func(*search.Options)

// InSyllabus restricts results to one syllabus file.
func InSyllabus(path string) SearchOption {
	return func(o *search.Options) {
		o.Source = path
	}
}

// InDocument restricts results to one document and its outline.
func InDocument(docID string) SearchOption {
	return func(o *search.Options) {
		o.DocID = docID
	}
}

// OfKind restricts results to documents or sections.
func OfKind(kind string) SearchOption {
	return func(o *search.Options) {
		o.Kind = kind
	}
}

func WithLimit(limit int) SearchOption {
	return func(o *search.Options) {
		o.Limit = limit
	}
}
