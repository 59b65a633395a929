package builder

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mattsolo1/grove-syllabus/pkg/export"
	"github.com/mattsolo1/grove-syllabus/pkg/models"
	"github.com/mattsolo1/grove-syllabus/pkg/tree"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	draggedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyles  = map[models.Status]lipgloss.Style{
		models.StatusDraft:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		models.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		models.StatusReview:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		models.StatusDone:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	activePaneStyle = paneStyle.BorderForeground(lipgloss.Color("13"))
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.help.ShowAll {
		return "\n" + headerStyle.Render("Syllabus Builder - Help") + "\n\n" + m.help.View(m.keys)
	}

	title := m.project.Title
	if title == "" {
		title = "Syllabus Builder"
	}
	header := headerStyle.Render(title)
	if m.project.Dirty() {
		header += mutedStyle.Render(" (modified)")
	}
	if n := m.project.Docs.Selection().Len(); n > 0 {
		header += infoStyle.Render(fmt.Sprintf("  [%d selected]", n))
	}

	leftWidth, rightWidth := m.paneWidths()
	left := m.renderPane("Documents", m.sidebarRows(), sidebarPane, leftWidth)

	outlineTitle := "Outline"
	if n, ok := m.project.Docs.Tree().FindByID(m.docID); ok {
		outlineTitle = "Outline: " + n.Title
	}
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.renderPane(outlineTitle, m.outlineRows(), outlinePane, rightWidth),
		m.renderPreview(rightWidth),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	var footer string
	switch {
	case m.confirm.Active:
		footer = m.confirm.View()
	case m.inputMode != inputNone:
		footer = m.inputPrompt() + "\n" + m.input.View()
	default:
		footer = m.help.View(m.keys)
	}

	status := ""
	if m.statusMessage != "" {
		status = infoStyle.Render(m.statusMessage)
	}

	return "\n" + lipgloss.JoinVertical(lipgloss.Left, header, "", body, status, footer)
}

func (m Model) paneWidths() (int, int) {
	width := m.width
	if width <= 0 {
		width = 100
	}
	left := width * 2 / 5
	if left < 30 {
		left = 30
	}
	right := width - left - 4
	if right < 30 {
		right = 30
	}
	return left, right
}

func (m Model) renderPane(title string, rows []row, p pane, width int) string {
	style := paneStyle
	if m.pane == p {
		style = activePaneStyle
	}
	var dragging string
	if s := m.paneSurface(p); s != nil {
		dragging, _ = s.Dragging()
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")
	if len(rows) == 0 {
		b.WriteString(mutedStyle.Render("(empty)"))
		return style.Width(width).Render(b.String())
	}

	height := m.viewportHeight()
	if p == outlinePane {
		height = height / 2
		if height < 3 {
			height = 3
		}
	}
	start := m.scroll[p]
	if start > len(rows)-1 {
		start = 0
	}
	if c := m.cursor[p]; c >= start+height {
		start = c - height + 1
	}
	end := start + height
	if end > len(rows) {
		end = len(rows)
	}

	for i := start; i < end; i++ {
		r := rows[i]
		isCursor := i == m.cursor[p] && m.pane == p
		b.WriteString(renderRow(r, isCursor, r.ID == dragging))
		b.WriteString("\n")
	}
	if len(rows) > height {
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" (%d-%d of %d)", start+1, end, len(rows))))
	}
	return style.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) paneSurface(p pane) interface{ Dragging() (string, bool) } {
	if p == sidebarPane {
		return m.project.Docs
	}
	if m.docID == "" {
		return nil
	}
	sess, err := m.project.Outline(m.docID)
	if err != nil {
		return nil
	}
	return sess
}

func renderRow(r row, isCursor, isDragged bool) string {
	cursor := "  "
	if isCursor {
		cursor = cursorStyle.Render("▶ ")
	}
	fold := "  "
	if r.HasChildren {
		fold = "▶ "
		if r.Expanded {
			fold = "▼ "
		}
	}
	name := r.Title
	if r.Kind == tree.KindFolder {
		name += "/"
	}
	line := fmt.Sprintf("%s%s%s %s", strings.Repeat("  ", r.Depth), fold, r.Indicator.String(), name)
	switch {
	case isDragged:
		line = draggedStyle.Render(line + " (moving)")
	case isCursor:
		line = selectedStyle.Render(line)
	}
	if r.Suffix != "" {
		line += "  " + r.Suffix
	}
	return cursor + line
}

// renderPreview shows the rendered text of the node under the cursor.
func (m Model) renderPreview(width int) string {
	md := m.previewMarkdown()
	body := renderMarkdown(md, width-4)
	if body == "" {
		body = mutedStyle.Render("(no content)")
	}
	lines := strings.Split(body, "\n")
	if limit := m.viewportHeight() / 2; len(lines) > limit {
		lines = append(lines[:limit], mutedStyle.Render("..."))
	}
	return paneStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m Model) previewMarkdown() string {
	cur, ok := m.current()
	if !ok {
		return ""
	}
	if m.pane == outlinePane {
		text := m.project.Content(cur.ID)
		return strings.TrimSpace("## " + cur.Title + "\n\n" + text)
	}
	if cur.Kind == tree.KindFolder {
		return ""
	}
	s := m.project.Snapshot()
	n, ok := s.Documents.FindByID(cur.ID)
	if !ok {
		return ""
	}
	return export.RenderMarkdown(s, n)
}

func docSuffix(meta models.DocMeta, now time.Time) string {
	var parts []string
	if meta.Type != models.DocNone {
		parts = append(parts, mutedStyle.Render(string(meta.Type)))
	}
	if meta.Status != models.StatusNone {
		parts = append(parts, statusStyles[meta.Status].Render(string(meta.Status)))
	}
	if meta.DueDate != "" {
		due := "due " + meta.DueDate
		if meta.Overdue(now) {
			due = overdueStyle.Render(due)
		}
		parts = append(parts, due)
	}
	return strings.Join(parts, " ")
}
