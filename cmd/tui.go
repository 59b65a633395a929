package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mattsolo1/grove-syllabus/internal/tui/builder"
	"github.com/mattsolo1/grove-syllabus/pkg/service"
)

// NewTuiCmd creates the `syl tui` command.
func NewTuiCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui <syllabus>",
		Short: "Edit a syllabus in an interactive terminal UI",
		Long: `Launch the syllabus builder: the document tree on the left, the outline of the
document under the cursor on the right, and a rendered preview below it.

Press ? inside the builder for the full list of keys.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("TUI mode requires an interactive terminal")
			}

			s := *svc
			p, err := s.Open(args[0])
			if err != nil {
				return err
			}

			model := builder.New(s, p)
			prog := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := prog.Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}
			return nil
		},
	}
	return cmd
}
