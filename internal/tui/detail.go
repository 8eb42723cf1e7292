package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/notexe/canvas-tui/internal/task"
)

// renderDetail builds the full-detail view for one task. Descriptions
// are rendered as markdown; plain text passes through unchanged.
func renderDetail(t task.Task, now time.Time, width int) string {
	if width <= 0 {
		width = 80
	}

	field := func(label, value string) string {
		return labelStyle.Render(label) + " " + value
	}

	status := t.Status(now)

	rows := []string{
		headerStyle.Render("Task Details"),
		"",
		field("Title: ", t.Title),
		field("Due:   ", t.Due.Format("2006-01-02 15:04")),
		field("Status:", statusStyle(status).Render(status)),
		field("Course:", t.Course),
		field("Type:  ", t.Kind.String()),
	}

	if t.URL != "" {
		rows = append(rows, field("URL:   ", dimStyle.Render(t.URL)))
	}

	if desc := strings.TrimSpace(t.Description); desc != "" {
		rows = append(rows, "", labelStyle.Render("Description:"), renderMarkdown(desc, width))
	}

	footer := fmt.Sprintf("%s: %s",
		keyStyle.Render("esc"), actionStyle.Render("back"))
	rows = append(rows, "", footer)

	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

func renderMarkdown(content string, width int) string {
	wrap := width - 4
	if wrap > 100 {
		wrap = 100
	}
	if wrap < 20 {
		wrap = 20
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}

	return strings.TrimRight(rendered, "\n")
}
