package search

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mattsolo1/grove-syllabus/pkg/models"
	"github.com/mattsolo1/grove-syllabus/pkg/tree"
)

// Record kinds.
const (
	KindDocument = "document"
	KindSection  = "section"
)

// Record is one searchable node of a syllabus
type Record struct {
	ID        string
	Source    string // Syllabus file the node belongs to
	DocID     string // Owning document; equal to ID for documents
	Kind      string
	Title     string
	Path      string // Ancestor titles joined with " / "
	Content   string
	Status    string
	WordCount int
	Snippet   string
}

// Index manages the search index
type Index struct {
	db     *sql.DB
	useFTS bool
}

// NewIndex creates a new search index
func NewIndex(dbPath string) (*Index, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	idx := &Index{db: db}
	if err := idx.init(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return idx, nil
}

// UsesFTS reports whether the index runs on FTS5.
func (idx *Index) UsesFTS() bool {
	return idx.useFTS
}

// init creates the database schema
func (idx *Index) init() error {
	// First, check if FTS5 is available
	idx.useFTS = idx.checkFTS5Support()

	// Create metadata table first (always needed)
	metaSchema := `
	CREATE TABLE IF NOT EXISTS nodes_meta (
		id TEXT PRIMARY KEY,
		source TEXT,
		doc_id TEXT,
		kind TEXT,
		title TEXT,
		path TEXT,
		content TEXT,
		status TEXT,
		word_count INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_nodes_meta_source ON nodes_meta(source);
	CREATE INDEX IF NOT EXISTS idx_nodes_meta_doc ON nodes_meta(doc_id);
	CREATE INDEX IF NOT EXISTS idx_nodes_meta_kind ON nodes_meta(kind);
	`

	if _, err := idx.db.Exec(metaSchema); err != nil {
		return err
	}

	// Create FTS table if supported
	if idx.useFTS {
		ftsSchema := `
		CREATE VIRTUAL TABLE IF NOT EXISTS nodes_fts USING fts5(
			id UNINDEXED,
			title,
			path,
			content,
			tokenize = 'porter unicode61'
		);
		`

		if _, err := idx.db.Exec(ftsSchema); err != nil {
			// If FTS creation fails, disable FTS and continue
			idx.useFTS = false
		}
	}

	return nil
}

// checkFTS5Support checks if FTS5 module is available
func (idx *Index) checkFTS5Support() bool {
	// Try to create a test FTS5 table to check if it's supported
	_, err := idx.db.Exec("CREATE VIRTUAL TABLE IF NOT EXISTS fts5_test USING fts5(content)")
	if err != nil {
		return false
	}

	// Clean up test table
	_, _ = idx.db.Exec("DROP TABLE IF EXISTS fts5_test")
	return true
}

// Records flattens a syllabus into search records: one per document and one per
// outline section, in document order.
func Records(source string, s *models.Syllabus) []Record {
	var out []Record
	titles := make(map[string]string)
	s.Documents.Walk(func(n *tree.Node[models.DocMeta], _ int) bool {
		titles[n.ID] = n.Title
		docChain := s.Documents.AncestorChainOf(n.ID)
		out = append(out, Record{
			ID:        n.ID,
			Source:    source,
			DocID:     n.ID,
			Kind:      KindDocument,
			Title:     n.Title,
			Path:      joinPath(docChain, titles),
			Content:   s.Content[n.ID],
			Status:    string(n.Meta.Status),
			WordCount: s.WordCount(n.ID),
		})
		outline := s.Outline(n.ID)
		outline.Walk(func(sec *tree.Node[models.SectionMeta], _ int) bool {
			titles[sec.ID] = sec.Title
			chain := append(outline.AncestorChainOf(sec.ID), n.ID)
			chain = append(chain, docChain...)
			out = append(out, Record{
				ID:        sec.ID,
				Source:    source,
				DocID:     n.ID,
				Kind:      KindSection,
				Title:     sec.Title,
				Path:      joinPath(chain, titles),
				Content:   s.Content[sec.ID],
				WordCount: s.WordCount(sec.ID),
			})
			return true
		})
		return true
	})
	return out
}

// joinPath renders a nearest-first ancestor chain outermost first.
func joinPath(chain []string, titles map[string]string) string {
	parts := make([]string, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		parts = append(parts, titles[chain[i]])
	}
	return strings.Join(parts, " / ")
}

// IndexSyllabus replaces every record of source with the current content of s
func (idx *Index) IndexSyllabus(source string, s *models.Syllabus) (int, error) {
	records := Records(source, s)

	tx, err := idx.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := idx.removeSource(tx, source); err != nil {
		return 0, err
	}
	for i := range records {
		if err := idx.remove(tx, records[i].ID); err != nil {
			return 0, err
		}
		if err := idx.insert(tx, &records[i]); err != nil {
			return 0, fmt.Errorf("index %s: %w", records[i].ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(records), nil
}

// IndexRecord indexes or reindexes a single record
func (idx *Index) IndexRecord(r *Record) error {
	tx, err := idx.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := idx.remove(tx, r.ID); err != nil {
		return err
	}
	if err := idx.insert(tx, r); err != nil {
		return err
	}

	return tx.Commit()
}

func (idx *Index) insert(tx *sql.Tx, r *Record) error {
	// Insert into FTS table if using FTS
	if idx.useFTS {
		_, err := tx.Exec(`
			INSERT INTO nodes_fts (id, title, path, content)
			VALUES (?, ?, ?, ?)
		`, r.ID, r.Title, r.Path, r.Content)
		if err != nil {
			return err
		}
	}

	// Insert into metadata table (always)
	_, err := tx.Exec(`
		INSERT INTO nodes_meta (
			id, source, doc_id, kind, title, path, content, status, word_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Source, r.DocID, r.Kind, r.Title, r.Path, r.Content, r.Status, r.WordCount)
	return err
}

// Options for searching
type Options struct {
	Source string
	DocID  string
	Kind   string
	Limit  int
}

// Search performs a full-text search
func (idx *Index) Search(query string, opts *Options) ([]*Record, error) {
	if opts == nil {
		opts = &Options{Limit: 50}
	}
	if opts.Limit == 0 {
		opts.Limit = 50
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	if idx.useFTS {
		return idx.searchWithFTS(query, opts)
	}
	return idx.searchWithoutFTS(query, opts)
}

func filters(opts *Options, prefix string) ([]string, []any) {
	var conditions []string
	var args []any

	if opts.Source != "" {
		conditions = append(conditions, prefix+"source = ?")
		args = append(args, opts.Source)
	}
	if opts.DocID != "" {
		conditions = append(conditions, prefix+"doc_id = ?")
		args = append(args, opts.DocID)
	}
	if opts.Kind != "" {
		conditions = append(conditions, prefix+"kind = ?")
		args = append(args, opts.Kind)
	}
	return conditions, args
}

// ftsQuery quotes every term so user input never trips the FTS5 query syntax.
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}

// searchWithFTS performs search using FTS5
func (idx *Index) searchWithFTS(query string, opts *Options) ([]*Record, error) {
	conditions, args := filters(opts, "m.")
	conditions = append(conditions, "nodes_fts MATCH ?")
	args = append(args, ftsQuery(query), opts.Limit)

	searchQuery := fmt.Sprintf(`
		SELECT
			m.id, m.source, m.doc_id, m.kind, m.title, m.path, m.content, m.status, m.word_count,
			snippet(nodes_fts, 3, '<match>', '</match>', '...', 32) as snippet
		FROM nodes_fts f
		JOIN nodes_meta m ON f.id = m.id
		WHERE %s
		ORDER BY rank
		LIMIT ?
	`, strings.Join(conditions, " AND "))

	rows, err := idx.db.Query(searchQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*Record
	for rows.Next() {
		r := &Record{}
		err := rows.Scan(
			&r.ID, &r.Source, &r.DocID, &r.Kind, &r.Title, &r.Path, &r.Content, &r.Status, &r.WordCount,
			&r.Snippet,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// searchWithoutFTS performs search using LIKE queries on metadata table
func (idx *Index) searchWithoutFTS(query string, opts *Options) ([]*Record, error) {
	conditions, args := filters(opts, "")

	// Add search conditions for title and content
	searchPattern := "%" + strings.ReplaceAll(query, " ", "%") + "%"
	conditions = append(conditions, "(title LIKE ? OR content LIKE ? OR path LIKE ?)")
	args = append(args, searchPattern, searchPattern, searchPattern, opts.Limit)

	searchQuery := fmt.Sprintf(`
		SELECT
			id, source, doc_id, kind, title, path, content, status, word_count
		FROM nodes_meta
		WHERE %s
		ORDER BY title
		LIMIT ?
	`, strings.Join(conditions, " AND "))

	rows, err := idx.db.Query(searchQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*Record
	for rows.Next() {
		r := &Record{}
		err := rows.Scan(
			&r.ID, &r.Source, &r.DocID, &r.Kind, &r.Title, &r.Path, &r.Content, &r.Status, &r.WordCount,
		)
		if err != nil {
			return nil, err
		}
		r.Snippet = snippet(r.Content, query)
		results = append(results, r)
	}

	return results, rows.Err()
}

// snippet cuts a window of content around the first match of query.
func snippet(content, query string) string {
	const radius = 40
	i := strings.Index(strings.ToLower(content), strings.ToLower(strings.Fields(query)[0]))
	if i < 0 {
		if len(content) > 2*radius {
			return content[:2*radius] + "..."
		}
		return content
	}
	start, end := i-radius, i+radius
	prefix, suffix := "...", "..."
	if start <= 0 {
		start, prefix = 0, ""
	}
	if end >= len(content) {
		end, suffix = len(content), ""
	}
	return prefix + content[start:end] + suffix
}

// Remove removes a node from the index
func (idx *Index) Remove(id string) error {
	tx, err := idx.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := idx.remove(tx, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (idx *Index) remove(tx *sql.Tx, id string) error {
	// Remove from FTS table if using FTS
	if idx.useFTS {
		if _, err := tx.Exec("DELETE FROM nodes_fts WHERE id = ?", id); err != nil {
			return err
		}
	}

	// Remove from metadata table
	_, err := tx.Exec("DELETE FROM nodes_meta WHERE id = ?", id)
	return err
}

func (idx *Index) removeSource(tx *sql.Tx, source string) error {
	if idx.useFTS {
		_, err := tx.Exec("DELETE FROM nodes_fts WHERE id IN (SELECT id FROM nodes_meta WHERE source = ?)", source)
		if err != nil {
			return err
		}
	}
	_, err := tx.Exec("DELETE FROM nodes_meta WHERE source = ?", source)
	return err
}

// Count returns the number of indexed records.
func (idx *Index) Count() (int, error) {
	var n int
	err := idx.db.QueryRow("SELECT COUNT(*) FROM nodes_meta").Scan(&n)
	return n, err
}

// Close closes the index
func (idx *Index) Close() error {
	return idx.db.Close()
}
