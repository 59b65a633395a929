package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-syllabus/pkg/service"
	"github.com/mattsolo1/grove-syllabus/pkg/syllabus"
)

func NewListCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List syllabi in the data directory",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			paths, err := s.List()
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No syllabi in %s\n", s.Config.DataDir)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTITLE\tDOCUMENTS\tSELECTED")
			for _, path := range paths {
				name := strings.TrimSuffix(filepath.Base(path), syllabus.Extension)
				syl, err := syllabus.Load(path)
				if err != nil {
					fmt.Fprintf(w, "%s\t(unreadable)\t-\t-\n", name)
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", name, syl.Title, len(syl.Documents.FlattenToLeafIDs()), len(syl.Selected))
			}
			return w.Flush()
		},
	}

	return cmd
}
