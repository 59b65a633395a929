package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-syllabus/pkg/service"
)

func NewNewCmd(svc **service.Service) *cobra.Command {
	var (
		title string
		weeks int
	)

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a new syllabus",
		Long: `Create a new syllabus from the starter template: a course syllabus document
with a standard outline and a schedule folder with one folder per week.

Examples:
  syl new psy101 --title "Introduction to Psychology"
  syl new seminar --weeks 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			p, err := s.Create(args[0], title, weeks)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%d documents)\n", p.Path, p.Docs.Tree().Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Syllabus title (defaults to the name)")
	cmd.Flags().IntVarP(&weeks, "weeks", "w", -1, "Number of week folders (defaults to the configured value)")

	return cmd
}
