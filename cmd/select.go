package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-syllabus/pkg/service"
	"github.com/mattsolo1/grove-syllabus/pkg/tree"
)

func NewSelectCmd(svc **service.Service) *cobra.Command {
	var (
		off  bool
		all  bool
		none bool
	)

	cmd := &cobra.Command{
		Use:   "select <syllabus> [id...]",
		Short: "Select documents for export",
		Long: `Select or clear documents. Selecting a folder selects every document below it.
The selection is saved with the syllabus and used by "syl export --selected".

Examples:
  syl select psy101 <week-1-id>
  syl select psy101 <lecture-id> --off
  syl select psy101 --all
  syl select psy101 --none`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && !none && len(args) < 2 {
				return fmt.Errorf("need at least one id, --all or --none")
			}
			return editProject(*svc, args[0], func(p *service.Project) (bool, error) {
				switch {
				case all:
					p.Docs.SelectAll(true)
				case none:
					p.Docs.SelectAll(false)
				}
				for _, id := range args[1:] {
					if !p.Docs.Tree().Contains(id) {
						return false, tree.NotFoundError{ID: id}
					}
					p.Docs.Select(id, !off)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d document(s) selected\n", p.Docs.Selection().Len())
				return false, nil
			})
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "Clear instead of select")
	cmd.Flags().BoolVar(&all, "all", false, "Select every document")
	cmd.Flags().BoolVar(&none, "none", false, "Clear the selection")
	cmd.MarkFlagsMutuallyExclusive("all", "none")

	return cmd
}
