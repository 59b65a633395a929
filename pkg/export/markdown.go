package export

import (
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/mattsolo1/grove-syllabus/pkg/models"
	"github.com/mattsolo1/grove-syllabus/pkg/tree"
)

// RenderMarkdown renders a document and its outline as markdown. Outline sections
// become headings one level below the document title.
func RenderMarkdown(s *models.Syllabus, n *tree.Node[models.DocMeta]) string {
	var sb strings.Builder
	sb.WriteString("# " + n.Title + "\n")
	if body := strings.TrimSpace(s.Content[n.ID]); body != "" {
		sb.WriteString("\n" + body + "\n")
	}
	s.Outline(n.ID).Walk(func(sec *tree.Node[models.SectionMeta], depth int) bool {
		level := depth + 2
		if level > 6 {
			level = 6
		}
		sb.WriteString("\n" + strings.Repeat("#", level) + " " + sec.Title)
		if sec.Meta.Anchor != "" {
			sb.WriteString(" {#" + sec.Meta.Anchor + "}")
		}
		sb.WriteString("\n")
		if body := strings.TrimSpace(s.Content[sec.ID]); body != "" {
			sb.WriteString("\n" + body + "\n")
		}
		return true
	})
	return sb.String()
}

// Slugify lowercases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return sb.String()
}

func fileName(n *tree.Node[models.DocMeta], order int, format models.FilenameFormat) string {
	slug := Slugify(n.Title)
	if slug == "" {
		slug = "untitled"
	}
	switch format {
	case models.FilenameFormatID:
		return n.ID
	case models.FilenameFormatIndexTitle:
		return fmt.Sprintf("%02d-%s", order, slug)
	default:
		return slug
	}
}

// uniqueName appends -2, -3, ... until name is free within dirs.
func uniqueName(used map[string]bool, dirs []string, name string) string {
	base := path.Join(append(append([]string{}, dirs...), name)...)
	candidate, n := name, 1
	for used[base] {
		n++
		candidate = fmt.Sprintf("%s-%d", name, n)
		base = path.Join(append(append([]string{}, dirs...), candidate)...)
	}
	used[base] = true
	return candidate
}
