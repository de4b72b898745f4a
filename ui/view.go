package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// chatHistory is how many transcript messages the view shows.
const chatHistory = 8

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	bannerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#c0392b")).Padding(0, 1)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	enhancedStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	userStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	botStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("76")).Bold(true)
	sectionStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
)

func (m Model) View() string {
	var b strings.Builder

	header := "My To-Do List"
	if m.email != "" {
		header += mutedStyle.Render("  " + m.email)
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")

	if m.banner != "" {
		b.WriteString(bannerStyle.Render(m.banner + "  (esc to dismiss)"))
		b.WriteString("\n\n")
	}

	switch m.mode {
	case modeEmail:
		b.WriteString("Email: " + m.input.View() + "\n")
		return b.String()
	case modeAdd:
		b.WriteString("New task: " + m.input.View() + "\n\n")
	}

	b.WriteString(m.viewTasks())
	b.WriteString(m.viewChat())

	b.WriteString("\n")
	if m.mode == modeList {
		b.WriteString(m.help.View(m.keys))
	} else {
		b.WriteString(mutedStyle.Render("enter submit • esc back"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewTasks() string {
	var b strings.Builder
	switch {
	case m.loading && len(m.tasks) == 0:
		b.WriteString(mutedStyle.Render("Loading tasks...") + "\n")
	case len(m.tasks) == 0:
		b.WriteString(mutedStyle.Render("No tasks yet. Press a to add one.") + "\n")
	}

	for i, task := range m.tasks {
		marker := "  "
		if i == m.cursor && m.mode == modeList {
			marker = cursorStyle.Render("> ")
		}
		check := "[ ]"
		if task.Completed {
			check = "[x]"
		}

		if m.mode == modeEdit && task.ID == m.editingID {
			fmt.Fprintf(&b, "%s%s %s\n", marker, check, m.input.View())
			continue
		}

		title := task.Title
		if task.Completed {
			title = doneStyle.Render(title)
		}
		fmt.Fprintf(&b, "%s%s %s\n", marker, check, title)
		if task.EnhancedTitle != nil && *task.EnhancedTitle != "" {
			fmt.Fprintf(&b, "      %s\n", enhancedStyle.Render("✨ "+*task.EnhancedTitle))
		}
	}
	return b.String()
}

func (m Model) viewChat() string {
	if len(m.chat) == 0 && m.mode != modeChat {
		return ""
	}

	var b strings.Builder
	b.WriteString(sectionStyle.Render("Assistant"))
	b.WriteString("\n")

	start := 0
	if len(m.chat) > chatHistory {
		start = len(m.chat) - chatHistory
	}
	for _, message := range m.chat[start:] {
		label := botStyle.Render("bot:")
		if message.Role == RoleUser {
			label = userStyle.Render("you:")
		}
		fmt.Fprintf(&b, "%s %s\n", label, message.Text)
	}
	if m.chatPending > 0 {
		b.WriteString(mutedStyle.Render("bot is typing...") + "\n")
	}
	if m.mode == modeChat {
		b.WriteString("> " + m.input.View() + "\n")
	}
	return b.String()
}
