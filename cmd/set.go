package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-syllabus/pkg/models"
	"github.com/mattsolo1/grove-syllabus/pkg/service"
	"github.com/mattsolo1/grove-syllabus/pkg/tree"
)

func NewSetCmd(svc **service.Service) *cobra.Command {
	var (
		status  string
		due     string
		docType string
		next    bool
	)

	cmd := &cobra.Command{
		Use:   "set <syllabus> <id>",
		Short: "Set a document's status, due date or type",
		Long: `Set document metadata shown in the tree.

Statuses: draft, in_progress, review, done (or none to clear).
Types: syllabus, textbook, lesson, rubric (or none to clear).

Examples:
  syl set psy101 <id> --status review --due 2025-02-03
  syl set psy101 <id> --next
  syl set psy101 <id> --due ""`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editProject(*svc, args[0], func(p *service.Project) (bool, error) {
				n, ok := p.Docs.Tree().FindByID(args[1])
				if !ok {
					return false, tree.NotFoundError{ID: args[1]}
				}
				meta := n.Meta
				if cmd.Flags().Changed("status") {
					st, err := models.ParseStatus(status)
					if err != nil {
						return false, err
					}
					meta.Status = st
				}
				if next {
					meta.Status = meta.Status.Next()
				}
				if cmd.Flags().Changed("due") {
					if due != "" {
						if _, err := time.Parse(models.DateLayout, due); err != nil {
							return false, fmt.Errorf("due date %q is not YYYY-MM-DD", due)
						}
					}
					meta.DueDate = due
				}
				if cmd.Flags().Changed("type") {
					dt, err := models.ParseDocType(docType)
					if err != nil {
						return false, err
					}
					meta.Type = dt
				}
				if !p.Docs.SetMeta(args[1], meta) {
					noChange(cmd, "%s already has these values", args[1])
					return false, nil
				}
				return true, nil
			})
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Workflow status")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD, empty to clear)")
	cmd.Flags().StringVarP(&docType, "type", "t", "", "Document type")
	cmd.Flags().BoolVarP(&next, "next", "n", false, "Advance to the next status")
	cmd.MarkFlagsMutuallyExclusive("status", "next")

	return cmd
}

func NewWriteCmd(svc **service.Service) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "write <syllabus> <id>",
		Short: "Replace the text of a document or section",
		Long: `Replace the text of a document or outline section with the contents of a file,
or of stdin when no file is given. Empty input clears the text.

Examples:
  syl write psy101 <section-id> --file grading.md
  echo "Office hours are on Mondays." | syl write psy101 <section-id>`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if file != "" {
				data, err = os.ReadFile(file)
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read content: %w", err)
			}

			return editProject(*svc, args[0], func(p *service.Project) (bool, error) {
				if !contains(p, args[1]) {
					return false, tree.NotFoundError{ID: args[1]}
				}
				p.SetContent(args[1], string(data))
				return p.Dirty(), nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the text from this file")

	return cmd
}

// contains reports whether id names a document or a section of any outline.
func contains(p *service.Project, id string) bool {
	if p.Docs.Tree().Contains(id) {
		return true
	}
	for _, outline := range p.Snapshot().Outlines {
		if outline.Contains(id) {
			return true
		}
	}
	return false
}
