package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-syllabus/pkg/service"
)

func NewExportCmd(svc **service.Service) *cobra.Command {
	var (
		output   string
		format   string
		selected bool
	)

	cmd := &cobra.Command{
		Use:   "export <syllabus>",
		Short: "Export a syllabus as a zip archive or JSON",
		Long: `Export a syllabus. The zip format holds one markdown file per document with
YAML frontmatter, laid out along the folder tree, plus project.json, manifest.json
and a README. The json format writes the whole syllabus as one JSON document.

Examples:
  syl export psy101
  syl export psy101 --selected -o week1.zip
  syl export psy101 --format json -o psy101.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			p, err := s.Open(args[0])
			if err != nil {
				return err
			}
			if selected && p.Docs.Selection().Len() == 0 {
				return fmt.Errorf("nothing selected; use \"syl select\" first")
			}

			out, m, err := s.Export(p, output, service.ExportOptions{Format: format, OnlySelected: selected})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d document(s) to %s\n", len(m.Documents), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (defaults next to the syllabus)")
	cmd.Flags().StringVar(&format, "format", "", "zip or json (defaults to the configured format)")
	cmd.Flags().BoolVar(&selected, "selected", false, "Export only selected documents")

	return cmd
}
