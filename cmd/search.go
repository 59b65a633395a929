package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-syllabus/pkg/search"
	"github.com/mattsolo1/grove-syllabus/pkg/service"
)

func NewSearchCmd(svc **service.Service) *cobra.Command {
	var (
		syllabusName string
		docID        string
		kind         string
		searchLimit  int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search documents and outline sections",
		Long: `Search titles and text of every saved syllabus.

Examples:
  syl search "late work"
  syl search grading --syllabus psy101
  syl search rubric --kind document`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			query := strings.Join(args, " ")

			var opts []service.SearchOption
			if syllabusName != "" {
				opts = append(opts, service.InSyllabus(s.Path(syllabusName)))
			}
			if docID != "" {
				opts = append(opts, service.InDocument(docID))
			}
			switch kind {
			case "":
			case search.KindDocument, search.KindSection:
				opts = append(opts, service.OfKind(kind))
			default:
				return fmt.Errorf("unknown kind %q (want %s or %s)", kind, search.KindDocument, search.KindSection)
			}
			opts = append(opts, service.WithLimit(searchLimit))

			results, err := s.Search(query, opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, "No results found")
				return nil
			}

			fmt.Fprintf(out, "Found %d results:\n\n", len(results))
			for i, r := range results {
				var prettyStr strings.Builder
				prettyStr.WriteString(fmt.Sprintf("%d. %s", i+1, r.Title))
				prettyStr.WriteString(dimStyle.Render(fmt.Sprintf("  (%s %s)", r.Kind, r.ID)))
				if r.Path != "" {
					prettyStr.WriteString(fmt.Sprintf("\n   %s", r.Path))
				}
				prettyStr.WriteString(fmt.Sprintf("\n   %s", r.Source))
				if r.Snippet != "" {
					prettyStr.WriteString(fmt.Sprintf("\n   %s", highlight(r.Snippet)))
				}
				fmt.Fprintln(out, prettyStr.String())
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&syllabusName, "syllabus", "s", "", "Search only this syllabus")
	cmd.Flags().StringVarP(&docID, "doc", "d", "", "Search only this document and its outline")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "document or section")
	cmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "Maximum number of results")

	return cmd
}

var matchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)

// highlight renders FTS match markers.
func highlight(snippet string) string {
	var sb strings.Builder
	for {
		start := strings.Index(snippet, "<match>")
		if start < 0 {
			break
		}
		end := strings.Index(snippet[start:], "</match>")
		if end < 0 {
			break
		}
		sb.WriteString(snippet[:start])
		sb.WriteString(matchStyle.Render(snippet[start+len("<match>") : start+end]))
		snippet = snippet[start+end+len("</match>"):]
	}
	sb.WriteString(snippet)
	return strings.ReplaceAll(sb.String(), "\n", " ")
}

func NewReindexCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from every saved syllabus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := (*svc).Reindex()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d records\n", n)
			return nil
		},
	}
}

func NewEditCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <syllabus>",
		Short: "Open the syllabus file in $EDITOR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return (*svc).Edit(args[0])
		},
	}
}
