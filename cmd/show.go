package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-syllabus/pkg/models"
	"github.com/mattsolo1/grove-syllabus/pkg/service"
	"github.com/mattsolo1/grove-syllabus/pkg/tree"
)

var (
	dimStyle     = lipgloss.NewStyle().Faint(true)
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyles = map[models.Status]lipgloss.Style{
		models.StatusDraft:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		models.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		models.StatusReview:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		models.StatusDone:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

// shownNode is the JSON form of a tree row.
type shownNode struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Kind          tree.Kind    `json:"kind"`
	Checked       bool         `json:"checked"`
	Indeterminate bool         `json:"indeterminate"`
	Type          string       `json:"type,omitempty"`
	Status        string       `json:"status,omitempty"`
	Due           string       `json:"due,omitempty"`
	Children      []*shownNode `json:"children,omitempty"`
}

func NewShowCmd(svc **service.Service) *cobra.Command {
	var (
		docID      string
		jsonOutput bool
		showIDs    bool
	)

	cmd := &cobra.Command{
		Use:   "show <syllabus>",
		Short: "Show the document tree with selection markers",
		Long: `Show the document tree of a syllabus, or the outline of one document with --doc.

Markers: [x] selected, [-] partly selected, [ ] not selected.

Examples:
  syl show psy101
  syl show psy101 --ids
  syl show psy101 --doc <document-id>
  syl show psy101 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			p, err := s.Open(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if docID != "" {
				sess, err := p.Outline(docID)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(out, shownTree(sess.Tree(), sess.Selection(), nil))
				}
				writeTree(out, sess.Tree(), sess.Selection(), showIDs, func(*tree.Node[models.SectionMeta]) string { return "" })
				return nil
			}

			if jsonOutput {
				return writeJSON(out, shownTree(p.Docs.Tree(), p.Docs.Selection(), func(n *shownNode, m models.DocMeta) {
					n.Type = string(m.Type)
					n.Status = string(m.Status)
					n.Due = m.DueDate
				}))
			}
			fmt.Fprintln(out, lipgloss.NewStyle().Bold(true).Render(p.Title))
			now := time.Now()
			writeTree(out, p.Docs.Tree(), p.Docs.Selection(), showIDs, func(n *tree.Node[models.DocMeta]) string {
				return docSuffix(n.Meta, now)
			})
			return nil
		},
	}

	surfaceFlag(cmd, &docID)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the tree as JSON")
	cmd.Flags().BoolVar(&showIDs, "ids", false, "Show node ids")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func shownTree[M any](t tree.Tree[M], sel *tree.Selection, decorate func(*shownNode, M)) []*shownNode {
	var convert func(level []*tree.Node[M]) []*shownNode
	convert = func(level []*tree.Node[M]) []*shownNode {
		out := []*shownNode{}
		for _, n := range level {
			ind := sel.ComputeIndicator(t, n.ID)
			sn := &shownNode{ID: n.ID, Title: n.Title, Kind: n.Kind, Checked: ind.Checked, Indeterminate: ind.Indeterminate}
			if decorate != nil {
				decorate(sn, n.Meta)
			}
			if len(n.Children) > 0 {
				sn.Children = convert(n.Children)
			}
			out = append(out, sn)
		}
		return out
	}
	return convert(t.Roots())
}

func writeTree[M any](w io.Writer, t tree.Tree[M], sel *tree.Selection, showIDs bool, suffix func(*tree.Node[M]) string) {
	if t.Len() == 0 {
		fmt.Fprintln(w, dimStyle.Render("(empty)"))
		return
	}
	t.Walk(func(n *tree.Node[M], depth int) bool {
		var sb strings.Builder
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(sel.ComputeIndicator(t, n.ID).String())
		sb.WriteString(" ")
		sb.WriteString(n.Title)
		if n.Kind == tree.KindFolder {
			sb.WriteString("/")
		}
		if extra := suffix(n); extra != "" {
			sb.WriteString("  " + extra)
		}
		if showIDs {
			sb.WriteString("  " + dimStyle.Render(n.ID))
		}
		fmt.Fprintln(w, sb.String())
		return true
	})
}

func docSuffix(m models.DocMeta, now time.Time) string {
	var parts []string
	if m.Type != models.DocNone {
		parts = append(parts, dimStyle.Render(string(m.Type)))
	}
	if m.Status != models.StatusNone {
		parts = append(parts, statusStyles[m.Status].Render(string(m.Status)))
	}
	if m.DueDate != "" {
		due := "due " + m.DueDate
		if m.Overdue(now) {
			due = overdueStyle.Render(due + " (overdue)")
		}
		parts = append(parts, due)
	}
	return strings.Join(parts, " ")
}
