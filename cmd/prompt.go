package cmd

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/mattsolo1/grove-syllabus/pkg/editor"
)

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// huhPrompter answers editor dialogs with huh forms. With force set every
// confirmation is accepted without asking.
type huhPrompter struct {
	force bool
}

var _ editor.Prompter = huhPrompter{}

func (p huhPrompter) Prompt(message, initial string) (string, bool, error) {
	value := initial
	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title(message).
				Value(&value),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (p huhPrompter) Confirm(message string) (bool, error) {
	if p.force {
		return true, nil
	}
	var yes bool
	form := newForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(message).
				Affirmative("Yes").
				Negative("No").
				Value(&yes),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return yes, nil
}
