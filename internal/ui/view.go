package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"haru/internal/config"
	"haru/internal/format"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	subtitleStyle = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
	labelStyle    = lipgloss.NewStyle().Bold(true)
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("haru"))
	b.WriteString("\n\n")

	switch m.mode {
	case modeForm:
		b.WriteString(m.renderForm())
	case modeDatePick:
		b.WriteString(labelStyle.Render("Due date"))
		b.WriteString("\n")
		b.WriteString(m.picker.View())
	case modeTimePick:
		b.WriteString(labelStyle.Render("Due time"))
		b.WriteString("\n")
		b.WriteString(m.picker.View())
	default:
		b.WriteString(m.renderList())
	}

	b.WriteString("\n\n")
	b.WriteString(m.status)
	if m.mode == modeList {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(renderHelp(m.cfg.Keys)))
	}
	return b.String()
}

func (m Model) renderList() string {
	if m.loadErr != nil {
		return errorStyle.Render("Could not load tasks: " + m.loadErr.Error())
	}
	if len(m.tasks) == 0 {
		return subtitleStyle.Render("No tasks yet. Press 'a' to add one.")
	}

	now := m.now()
	var b strings.Builder
	for i, t := range m.tasks {
		cursor := " "
		if m.cursor == i {
			cursor = cursorStyle.Render(">")
		}

		checkbox := "[ ]"
		title := t.Title
		if t.Completed {
			checkbox = "[x]"
			title = doneStyle.Render(title)
		}

		b.WriteString(cursor + " " + checkbox + " " + title + "\n")
		if sub := format.Subtitle(t.Description, t.Due, now); sub != "" {
			b.WriteString("      " + subtitleStyle.Render(sub) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderForm() string {
	var b strings.Builder
	if m.form.taskID == 0 {
		b.WriteString(labelStyle.Render("Add task"))
	} else {
		b.WriteString(labelStyle.Render("Edit task"))
	}
	b.WriteString("\n\n")
	b.WriteString("Title       " + m.title.View() + "\n")
	b.WriteString("Description " + m.desc.View() + "\n")

	due := "none"
	if m.form.due.Valid {
		due = m.form.due.Time.Format("2-Jan-2006 15:04")
	}
	b.WriteString("Due         " + due + "  " + helpStyle.Render("("+m.cfg.Keys.DueDate+" to change)"))
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s edit • %s toggle • %s delete • %s quit",
		k.Up, k.Down, k.Add, k.Edit, humanKey(k.Toggle), k.Delete, k.Quit)
}

func humanKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
