package editor

import (
	"fmt"

	"github.com/mattsolo1/grove-syllabus/pkg/tree"
)

// Prompter is the renderer-side dialog capability. The session asks for a string or a
// yes/no answer and never assumes how the user supplies it. ok is false when the user
// cancelled.
type Prompter interface {
	Prompt(message, initial string) (value string, ok bool, err error)
	Confirm(message string) (bool, error)
}

// RenameInteractive asks for a new title for id.
func (s *Session[M]) RenameInteractive(p Prompter, id string) (bool, error) {
	n, found := s.tree.FindByID(id)
	if !found {
		return false, nil
	}
	title, ok, err := p.Prompt(fmt.Sprintf("Rename %q to:", n.Title), n.Title)
	if err != nil || !ok {
		return false, err
	}
	return s.Rename(id, title), nil
}

// AddInteractive asks for the title of a new node under parentID.
func (s *Session[M]) AddInteractive(p Prompter, parentID string, kind tree.Kind, meta M) (string, error) {
	title, ok, err := p.Prompt(fmt.Sprintf("Title for the new %s:", kind), DefaultTitle(kind))
	if err != nil || !ok {
		return "", err
	}
	return s.AddNode(parentID, kind, title, meta)
}

// DeleteInteractive confirms before removing id and its subtree.
func (s *Session[M]) DeleteInteractive(p Prompter, id string) (bool, error) {
	n, found := s.tree.FindByID(id)
	if !found {
		return false, nil
	}
	msg := fmt.Sprintf("Delete %q?", n.Title)
	if d := len(s.tree.AllDescendantIDs(id)); d > 0 {
		msg = fmt.Sprintf("Delete %q and %d nested item(s)?", n.Title, d)
	}
	yes, err := p.Confirm(msg)
	if err != nil || !yes {
		return false, err
	}
	return s.Delete(id), nil
}

// ConvertInteractive converts id to kind, confirming first when children would be
// discarded.
func (s *Session[M]) ConvertInteractive(p Prompter, id string, kind tree.Kind) (bool, error) {
	confirmed := false
	if s.tree.WouldDiscard(id, kind) {
		n, _ := s.tree.FindByID(id)
		yes, err := p.Confirm(fmt.Sprintf("Converting %q to a %s discards its %d nested item(s). Continue?",
			n.Title, kind, len(s.tree.AllDescendantIDs(id))))
		if err != nil || !yes {
			return false, err
		}
		confirmed = true
	}
	return s.Convert(id, kind, confirmed)
}
