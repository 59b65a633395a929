package confirm

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// --- Messages ---

// ConfirmedMsg is sent when the user confirms the action. Tag echoes the tag given to
// Activate so the caller knows which question was answered.
type ConfirmedMsg struct{ Tag string }

// CancelledMsg is sent when the user cancels the action.
type CancelledMsg struct{ Tag string }

var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(1, 2)
	hintStyle = lipgloss.NewStyle().Faint(true).Align(lipgloss.Center)
)

// --- Model ---

// Model represents a confirmation dialog.
type Model struct {
	Active bool
	Prompt string
	Tag    string
	keys   keyMap
}

// New creates a new confirmation dialog model.
func New() Model {
	return Model{
		keys: defaultKeyMap,
	}
}

// Activate prepares the dialog for display with a given prompt.
func (m *Model) Activate(tag, prompt string) {
	m.Tag = tag
	m.Prompt = prompt
	m.Active = true
}

// --- Update ---

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.Active {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		tag := m.Tag
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.Active = false
			return m, func() tea.Msg { return ConfirmedMsg{Tag: tag} }
		case key.Matches(msg, m.keys.Cancel):
			m.Active = false
			return m, func() tea.Msg { return CancelledMsg{Tag: tag} }
		}
	}

	return m, nil
}

// --- View ---

func (m Model) View() string {
	if !m.Active {
		return ""
	}

	box := dialogStyle.Render(m.Prompt)
	hint := fmt.Sprintf("\n%s %s · %s %s",
		m.keys.Confirm.Help().Key, m.keys.Confirm.Help().Desc,
		m.keys.Cancel.Help().Key, m.keys.Cancel.Help().Desc)

	return lipgloss.JoinVertical(lipgloss.Left, box,
		hintStyle.Width(lipgloss.Width(box)).Render(hint))
}

// --- KeyMap ---

type keyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

var defaultKeyMap = keyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}
