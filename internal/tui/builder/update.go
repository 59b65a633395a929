package builder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mattsolo1/grove-syllabus/internal/tui/builder/components/confirm"
	"github.com/mattsolo1/grove-syllabus/pkg/editor"
	"github.com/mattsolo1/grove-syllabus/pkg/service"
	"github.com/mattsolo1/grove-syllabus/pkg/tree"
)

const (
	confirmDelete  = "delete"
	confirmConvert = "convert"
	confirmQuit    = "quit"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.clamp()
		return m, nil

	case confirm.ConfirmedMsg:
		return m.confirmed(msg.Tag)

	case confirm.CancelledMsg:
		m.pendingID = ""
		m.statusMessage = "Cancelled"
		return m, nil

	case tea.KeyMsg:
		if m.confirm.Active {
			var cmd tea.Cmd
			m.confirm, cmd = m.confirm.Update(msg)
			return m, cmd
		}
		if m.inputMode != inputNone {
			return m.updateInput(msg)
		}
		if m.help.ShowAll {
			if key.Matches(msg, m.keys.Help, m.keys.Quit, m.keys.Cancel) {
				m.help.ShowAll = false
			}
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMessage = ""
	s := m.surface()
	cur, hasCur := m.current()

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.project.Dirty() {
			m.confirm.Activate(confirmQuit, "There are unsaved changes. Quit anyway?")
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = true

	case key.Matches(msg, m.keys.Cancel):
		if s != nil {
			if _, ok := s.Dragging(); ok {
				s.DragCancel()
				m.statusMessage = "Move cancelled"
			}
		}

	case key.Matches(msg, m.keys.Up):
		m.cursor[m.pane]--
		m.clamp()

	case key.Matches(msg, m.keys.Down):
		m.cursor[m.pane]++
		m.clamp()

	case key.Matches(msg, m.keys.GoToTop):
		m.cursor[m.pane] = 0
		m.clamp()

	case key.Matches(msg, m.keys.GoToBottom):
		m.cursor[m.pane] = len(m.rows()) - 1
		m.clamp()

	case key.Matches(msg, m.keys.SwitchPane):
		m.switchPane()

	case key.Matches(msg, m.keys.Expand):
		if hasCur && cur.HasChildren {
			s.SetExpanded(cur.ID, true)
		}

	case key.Matches(msg, m.keys.Collapse):
		if !hasCur {
			break
		}
		if cur.HasChildren && cur.Expanded {
			s.SetExpanded(cur.ID, false)
			m.clamp()
		} else if chain := m.chain(cur.ID); len(chain) > 0 {
			m.focus(chain[0])
		}

	case key.Matches(msg, m.keys.Open):
		if !hasCur {
			break
		}
		if m.pane == sidebarPane && cur.Kind != tree.KindFolder {
			m.docID = cur.ID
			m.pane = outlinePane
			m.clamp()
			break
		}
		if s.ToggleExpand(cur.ID) {
			m.clamp()
		}

	case key.Matches(msg, m.keys.ToggleSelect):
		if hasCur {
			s.Select(cur.ID, !cur.Indicator.Checked)
		}

	case key.Matches(msg, m.keys.SelectAll):
		if s != nil {
			s.SelectAll(true)
		}

	case key.Matches(msg, m.keys.SelectNone):
		if s != nil {
			s.SelectAll(false)
		}

	case key.Matches(msg, m.keys.MoveUp):
		if hasCur {
			m.moved(cur.Prev != "" && s.Reorder(cur.ID, cur.Prev), cur.ID)
		}

	case key.Matches(msg, m.keys.MoveDown):
		if hasCur {
			m.moved(cur.Next != "" && s.Reorder(cur.ID, cur.Next), cur.ID)
		}

	case key.Matches(msg, m.keys.Indent):
		if hasCur {
			m.moved(s.Indent(cur.ID), cur.ID)
		}

	case key.Matches(msg, m.keys.Outdent):
		if hasCur {
			m.moved(s.Outdent(cur.ID), cur.ID)
		}

	case key.Matches(msg, m.keys.Grab):
		if hasCur {
			m.grabOrDrop(s, cur)
		}

	case key.Matches(msg, m.keys.AddAfter):
		if s != nil {
			m.startInput(inputAddAfter, cur.ID, m.newKind(), "")
		}

	case key.Matches(msg, m.keys.AddInside):
		if hasCur {
			if !cur.Kind.CanHoldChildren() {
				m.statusMessage = fmt.Sprintf("%q cannot hold children; convert it first", cur.Title)
				break
			}
			m.startInput(inputAddInside, cur.ID, m.newKind(), "")
		}

	case key.Matches(msg, m.keys.AddFolder):
		if s != nil {
			m.startInput(inputAddAfter, cur.ID, tree.KindFolder, "")
		}

	case key.Matches(msg, m.keys.Rename):
		if hasCur {
			m.startInput(inputRename, cur.ID, cur.Kind, cur.Title)
		}

	case key.Matches(msg, m.keys.Delete):
		if hasCur {
			m.pendingID = cur.ID
			prompt := fmt.Sprintf("Delete %q?", cur.Title)
			if n := len(m.descendants(cur.ID)); n > 0 {
				prompt = fmt.Sprintf("Delete %q and %d nested item(s)?", cur.Title, n)
			}
			m.confirm.Activate(confirmDelete, prompt)
		}

	case key.Matches(msg, m.keys.Duplicate):
		if hasCur {
			if id, ok := s.Duplicate(cur.ID); ok {
				m.focus(id)
				m.statusMessage = "Duplicated " + cur.Title
			}
		}

	case key.Matches(msg, m.keys.Convert):
		if hasCur {
			m.convert(s, cur, m.convertTarget(cur.Kind), false)
		}

	case key.Matches(msg, m.keys.Status):
		if hasCur && m.pane == sidebarPane && cur.Kind != tree.KindFolder {
			n, _ := m.project.Docs.Tree().FindByID(cur.ID)
			meta := n.Meta
			meta.Status = meta.Status.Next()
			m.project.Docs.SetMeta(cur.ID, meta)
			m.statusMessage = fmt.Sprintf("%s: %s", cur.Title, meta.Status)
		}

	case key.Matches(msg, m.keys.Undo):
		if s != nil && s.Undo() {
			m.clamp()
			m.statusMessage = "Undone"
		}

	case key.Matches(msg, m.keys.Redo):
		if s != nil && s.Redo() {
			m.clamp()
			m.statusMessage = "Redone"
		}

	case key.Matches(msg, m.keys.Copy):
		if hasCur {
			if err := m.copy(cur.Title); err != nil {
				m.statusMessage = "Copy failed: " + err.Error()
			} else {
				m.statusMessage = "Copied " + cur.Title
			}
		}

	case key.Matches(msg, m.keys.Save):
		m.save()

	case key.Matches(msg, m.keys.Export):
		m.export()
	}

	return m, nil
}

func (m *Model) switchPane() {
	if m.pane == sidebarPane {
		if m.docID == "" {
			m.statusMessage = "No document to outline"
			return
		}
		m.pane = outlinePane
	} else {
		m.pane = sidebarPane
	}
	m.clamp()
}

func (m *Model) moved(ok bool, id string) {
	if !ok {
		m.statusMessage = "Cannot move there"
		return
	}
	m.focus(id)
}

// grabOrDrop starts a drag on the row under the cursor, or drops the dragged row
// after it.
func (m *Model) grabOrDrop(s service.Surface, cur row) {
	active, dragging := s.Dragging()
	if !dragging {
		if s.DragStart(cur.ID) {
			m.statusMessage = fmt.Sprintf("Moving %q: pick a target and press m, esc cancels", cur.Title)
		}
		return
	}
	if s.DragEnd(cur.ID) {
		m.focus(active)
		m.statusMessage = "Moved"
		return
	}
	m.statusMessage = "Cannot drop there"
}

// newKind is the kind created by the add keys in the active pane.
func (m Model) newKind() tree.Kind {
	if m.pane == sidebarPane {
		return tree.KindFile
	}
	return tree.KindPlain
}

// convertTarget cycles sidebar nodes between documents and folders, and outline nodes
// between plain sections and groups.
func (m Model) convertTarget(k tree.Kind) tree.Kind {
	if m.pane == sidebarPane {
		if k == tree.KindFolder {
			return tree.KindFile
		}
		return tree.KindFolder
	}
	if k == tree.KindPlain {
		return tree.KindFolder
	}
	return tree.KindPlain
}

func (m *Model) convert(s service.Surface, cur row, kind tree.Kind, confirmed bool) {
	changed, err := s.Convert(cur.ID, kind, confirmed)
	switch {
	case errors.Is(err, tree.ErrDestructiveConversion):
		m.pendingID = cur.ID
		m.pendingKind = kind
		m.confirm.Activate(confirmConvert, fmt.Sprintf("Converting %q to a %s discards its %d nested item(s). Continue?",
			cur.Title, kind, len(m.descendants(cur.ID))))
	case err != nil:
		m.statusMessage = err.Error()
	case changed:
		m.clamp()
		m.statusMessage = fmt.Sprintf("%s is now a %s", cur.Title, kind)
	}
}

func (m Model) confirmed(tag string) (tea.Model, tea.Cmd) {
	id := m.pendingID
	m.pendingID = ""
	s := m.surface()
	switch tag {
	case confirmQuit:
		m.quitting = true
		return m, tea.Quit
	case confirmDelete:
		if s != nil && s.Delete(id) {
			m.clamp()
			m.statusMessage = "Deleted"
		}
	case confirmConvert:
		if s != nil {
			if r, ok := m.rowByID(id); ok {
				m.convert(s, r, m.pendingKind, true)
			}
		}
	}
	return m, nil
}

func (m *Model) startInput(mode inputMode, target string, kind tree.Kind, initial string) {
	m.inputMode = mode
	m.inputTarget = target
	m.inputKind = kind
	m.input.SetValue(initial)
	m.input.Placeholder = editor.DefaultTitle(kind)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m Model) inputPrompt() string {
	switch m.inputMode {
	case inputRename:
		return "Rename to:"
	default:
		return fmt.Sprintf("Title for the new %s:", m.inputKind)
	}
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputMode = inputNone
		m.input.Blur()
		m.statusMessage = "Cancelled"
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		mode, target, kind := m.inputMode, m.inputTarget, m.inputKind
		m.inputMode = inputNone
		m.input.Blur()
		m.submit(mode, target, kind, value)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit(mode inputMode, target string, kind tree.Kind, value string) {
	docID := ""
	if m.pane == outlinePane {
		docID = m.docID
	}
	var (
		id  string
		err error
	)
	switch mode {
	case inputRename:
		if s := m.surface(); s != nil && s.Rename(target, value) {
			m.statusMessage = "Renamed"
		}
		return
	case inputAddInside:
		id, err = m.project.Add(docID, target, kind, value)
	case inputAddAfter:
		if target == "" {
			id, err = m.project.Add(docID, "", kind, value)
		} else {
			id, err = m.project.AddSibling(docID, target, kind, value)
		}
	}
	if err != nil {
		m.statusMessage = err.Error()
		return
	}
	m.focus(id)
	m.statusMessage = "Added"
}

func (m *Model) save() {
	if m.service == nil {
		return
	}
	if err := m.service.Save(m.project); err != nil {
		m.statusMessage = "Save failed: " + err.Error()
		return
	}
	m.statusMessage = "Saved " + m.project.Path
}

// export writes the selected documents, or all of them when nothing is selected.
func (m *Model) export() {
	if m.service == nil {
		return
	}
	opts := service.ExportOptions{OnlySelected: m.project.Docs.Selection().Len() > 0}
	out, manifest, err := m.service.Export(m.project, "", opts)
	if err != nil {
		m.statusMessage = "Export failed: " + err.Error()
		return
	}
	m.statusMessage = fmt.Sprintf("Exported %d document(s) to %s", len(manifest.Documents), out)
}

func (m Model) rowByID(id string) (row, bool) {
	for _, r := range m.rows() {
		if r.ID == id {
			return r, true
		}
	}
	return row{}, false
}

func (m Model) chain(id string) []string {
	if m.pane == sidebarPane {
		return m.project.Docs.Tree().AncestorChainOf(id)
	}
	if sess, err := m.project.Outline(m.docID); err == nil {
		return sess.Tree().AncestorChainOf(id)
	}
	return nil
}

func (m Model) descendants(id string) []string {
	if m.pane == sidebarPane {
		return m.project.Docs.Tree().AllDescendantIDs(id)
	}
	if sess, err := m.project.Outline(m.docID); err == nil {
		return sess.Tree().AllDescendantIDs(id)
	}
	return nil
}
