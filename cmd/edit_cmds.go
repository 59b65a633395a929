package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-syllabus/pkg/service"
	"github.com/mattsolo1/grove-syllabus/pkg/tree"
)

func NewAddCmd(svc **service.Service) *cobra.Command {
	var (
		docID    string
		parentID string
		afterID  string
		kindName string
	)

	cmd := &cobra.Command{
		Use:   "add <syllabus> [title...]",
		Short: "Add a document, folder or outline section",
		Long: `Add a node to the document tree, or to a document outline with --doc.
Without a title you are prompted for one.

Examples:
  syl add psy101 "Week 5" --kind folder --parent <schedule-id>
  syl add psy101 "Reading list" --after <document-id>
  syl add psy101 "Grading scale" --doc <document-id> --kind plain`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(kindName)
			if err != nil {
				return err
			}
			if kindName == "" {
				kind = tree.KindFile
				if docID != "" {
					kind = tree.KindPlain
				}
			}
			title := titleArg(args, 1)

			return editProject(*svc, args[0], func(p *service.Project) (bool, error) {
				var id string
				var err error
				switch {
				case afterID != "":
					id, err = p.AddSibling(docID, afterID, kind, title)
				case title == "" && isTerminal():
					id, err = p.AddInteractive(huhPrompter{}, docID, parentID, kind)
				default:
					id, err = p.Add(docID, parentID, kind, title)
				}
				if err != nil || id == "" {
					return false, err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return true, nil
			})
		},
	}

	surfaceFlag(cmd, &docID)
	cmd.Flags().StringVarP(&parentID, "parent", "p", "", "Parent node (defaults to the top level)")
	cmd.Flags().StringVarP(&afterID, "after", "a", "", "Insert right after this node instead of under a parent")
	cmd.Flags().StringVarP(&kindName, "kind", "k", "", "Node kind: file, folder or plain (default file, or plain in an outline)")

	return cmd
}

func NewRenameCmd(svc **service.Service) *cobra.Command {
	var docID string

	cmd := &cobra.Command{
		Use:   "rename <syllabus> <id> [title...]",
		Short: "Rename a node",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := titleArg(args, 2)
			return editProject(*svc, args[0], func(p *service.Project) (bool, error) {
				s, err := p.Surface(docID)
				if err != nil {
					return false, err
				}
				if title == "" {
					return s.RenameInteractive(huhPrompter{}, args[1])
				}
				if !s.Rename(args[1], title) {
					noChange(cmd, "%s not found or already titled %q", args[1], title)
					return false, nil
				}
				return true, nil
			})
		},
	}

	surfaceFlag(cmd, &docID)

	return cmd
}

func NewRemoveCmd(svc **service.Service) *cobra.Command {
	var (
		docID string
		force bool
	)

	cmd := &cobra.Command{
		Use:     "rm <syllabus> <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a node and everything under it",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editProject(*svc, args[0], func(p *service.Project) (bool, error) {
				s, err := p.Surface(docID)
				if err != nil {
					return false, err
				}
				if !force && !isTerminal() {
					return false, fmt.Errorf("refusing to delete %s without a terminal; pass --force", args[1])
				}
				deleted, err := s.DeleteInteractive(huhPrompter{force: force}, args[1])
				if err != nil {
					return false, err
				}
				if !deleted {
					noChange(cmd, "%s was not deleted", args[1])
				}
				return deleted, nil
			})
		},
	}

	surfaceFlag(cmd, &docID)
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete without confirmation")

	return cmd
}

func NewDuplicateCmd(svc **service.Service) *cobra.Command {
	var docID string

	cmd := &cobra.Command{
		Use:     "dup <syllabus> <id>",
		Aliases: []string{"duplicate"},
		Short:   "Duplicate a node with fresh ids, right after the original",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editProject(*svc, args[0], func(p *service.Project) (bool, error) {
				s, err := p.Surface(docID)
				if err != nil {
					return false, err
				}
				id, ok := s.Duplicate(args[1])
				if !ok {
					return false, tree.NotFoundError{ID: args[1]}
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return true, nil
			})
		},
	}

	surfaceFlag(cmd, &docID)

	return cmd
}

func NewConvertCmd(svc **service.Service) *cobra.Command {
	var (
		docID string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "convert <syllabus> <id> <kind>",
		Short: "Change a node's kind (file, folder or plain)",
		Long: `Change the kind of a node. Converting a node with children to anything but a
folder discards the children and asks for confirmation first.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[2])
			if err != nil {
				return err
			}
			return editProject(*svc, args[0], func(p *service.Project) (bool, error) {
				s, err := p.Surface(docID)
				if err != nil {
					return false, err
				}
				if force {
					return s.Convert(args[1], kind, true)
				}
				if !isTerminal() {
					changed, err := s.Convert(args[1], kind, false)
					if errors.Is(err, tree.ErrDestructiveConversion) {
						return false, fmt.Errorf("%w; pass --force to discard the children", err)
					}
					return changed, err
				}
				changed, err := s.ConvertInteractive(huhPrompter{}, args[1], kind)
				if err == nil && !changed {
					noChange(cmd, "%s kept its kind", args[1])
				}
				return changed, err
			})
		},
	}

	surfaceFlag(cmd, &docID)
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Discard children without confirmation")

	return cmd
}

func NewMoveCmd(svc **service.Service) *cobra.Command {
	var (
		docID   string
		indent  bool
		outdent bool
	)

	cmd := &cobra.Command{
		Use:   "mv <syllabus> <id> [over-id]",
		Short: "Move a node",
		Long: `Move a node the way a drag and drop would. Dropped on a sibling it takes that
sibling's position; dropped on a node elsewhere it lands right after it. A node
cannot be dropped into its own subtree.

With --indent the node becomes the last child of its previous sibling; with
--outdent it moves out of its parent to sit right after it.

Examples:
  syl mv psy101 <lecture-id> <assignment-id>
  syl mv psy101 <lecture-id> --outdent`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if indent == outdent && len(args) != 3 {
				return fmt.Errorf("need a target node, --indent or --outdent")
			}
			return editProject(*svc, args[0], func(p *service.Project) (bool, error) {
				s, err := p.Surface(docID)
				if err != nil {
					return false, err
				}
				var moved bool
				switch {
				case indent:
					moved = s.Indent(args[1])
				case outdent:
					moved = s.Outdent(args[1])
				default:
					moved = s.Reorder(args[1], args[2])
				}
				if !moved {
					return false, fmt.Errorf("move %s: %w", args[1], tree.ErrInvalidMove)
				}
				return true, nil
			})
		},
	}

	surfaceFlag(cmd, &docID)
	cmd.Flags().BoolVar(&indent, "indent", false, "Nest under the previous sibling")
	cmd.Flags().BoolVar(&outdent, "outdent", false, "Move out of the parent")
	cmd.MarkFlagsMutuallyExclusive("indent", "outdent")

	return cmd
}
