package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-syllabus/pkg/service"
	"github.com/mattsolo1/grove-syllabus/pkg/tree"
)

// editProject opens name, runs fn against it and saves when fn reports a change.
func editProject(s *service.Service, name string, fn func(p *service.Project) (bool, error)) error {
	p, err := s.Open(name)
	if err != nil {
		return err
	}
	changed, err := fn(p)
	if err != nil {
		return err
	}
	if !changed && !p.Dirty() {
		return nil
	}
	return s.Save(p)
}

// surfaceFlag registers --doc, which points a command at a document outline instead
// of the sidebar.
func surfaceFlag(cmd *cobra.Command, docID *string) {
	cmd.Flags().StringVarP(docID, "doc", "d", "", "Operate on the outline of this document")
}

func parseKind(s string) (tree.Kind, error) {
	kind, ok := tree.ParseKind(s)
	if !ok {
		return "", fmt.Errorf("%w %q (want folder, file or plain)", tree.ErrInvalidKind, s)
	}
	return kind, nil
}

// noChange reports a command that left the tree as it was.
func noChange(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), "No change: "+format+"\n", args...)
}

func titleArg(args []string, from int) string {
	if len(args) <= from {
		return ""
	}
	return strings.TrimSpace(strings.Join(args[from:], " "))
}
