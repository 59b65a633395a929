package frontmatter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	delimiter       = "---"
	timestampLayout = "2006-01-02 15:04:05"
)

var blockPattern = regexp.MustCompile(`(?s)^---\n(.*?)\n---\n(.*)`)

// Frontmatter is the metadata block written at the top of every exported document.
type Frontmatter struct {
	ID       string   `yaml:"id"`
	Title    string   `yaml:"title"`
	Kind     string   `yaml:"kind,omitempty"`
	Status   string   `yaml:"status,omitempty"`
	Due      string   `yaml:"due,omitempty"`
	Path     []string `yaml:"path,flow"` // enclosing folder titles, outermost first
	Tags     []string `yaml:"tags,flow"`
	Order    int      `yaml:"order"`
	Exported string   `yaml:"exported"`
}

// Parse splits an exported document into its frontmatter and body. A document
// without a frontmatter block yields a nil Frontmatter and the content unchanged.
func Parse(content string) (*Frontmatter, string, error) {
	m := blockPattern.FindStringSubmatch(content)
	if m == nil {
		return nil, content, nil
	}

	fm := &Frontmatter{}
	if err := yaml.Unmarshal([]byte(m[1]), fm); err != nil {
		return nil, content, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if fm.Path == nil {
		fm.Path = []string{}
	}
	if fm.Tags == nil {
		fm.Tags = []string{}
	}
	return fm, m[2], nil
}

// Build renders fm with a fixed key order so exports diff cleanly. Empty optional
// keys are left out; path, tags and order are always written.
func Build(fm *Frontmatter) string {
	lines := []string{
		delimiter,
		"id: " + fm.ID,
		"title: " + scalar(fm.Title),
	}
	optional := func(key, value string) {
		if value != "" {
			lines = append(lines, key+": "+value)
		}
	}
	optional("kind", fm.Kind)
	optional("status", fm.Status)
	if fm.Due != "" {
		optional("due", strconv.Quote(fm.Due))
	}
	lines = append(lines,
		"path: "+flowList(fm.Path),
		"tags: "+flowList(fm.Tags),
		"order: "+strconv.Itoa(fm.Order),
		"exported: "+fm.Exported,
		delimiter,
	)
	return strings.Join(lines, "\n")
}

// BuildContent joins the frontmatter and body with exactly one blank line.
func BuildContent(fm *Frontmatter, body string) string {
	return Build(fm) + "\n\n" + strings.TrimPrefix(body, "\n")
}

func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(timestampLayout, s)
}

func flowList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = scalar(item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// scalar quotes s when a bare YAML scalar would be misread.
func scalar(s string) string {
	if s == "" || s != strings.TrimSpace(s) || strings.ContainsAny(s, ",:[]{}\"'#&*!|>%@`") {
		return strconv.Quote(s)
	}
	return s
}

// TagsFromPath turns folder titles into tags: "Week 1" becomes "week-1".
func TagsFromPath(path []string) []string {
	tags := make([]string, 0, len(path))
	for _, title := range path {
		if tag := strings.ToLower(strings.Join(strings.Fields(title), "-")); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// MergeTags concatenates tag lists, dropping blanks and repeats.
func MergeTags(sources ...[]string) []string {
	seen := map[string]struct{}{}
	merged := []string{}
	for _, tags := range sources {
		for _, tag := range tags {
			if _, dup := seen[tag]; tag == "" || dup {
				continue
			}
			seen[tag] = struct{}{}
			merged = append(merged, tag)
		}
	}
	return merged
}
