package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/notexe/canvas-tui/internal/canvas"
)

// dueFormat is the one accepted input format for the due date field.
const dueFormat = "2006-01-02 15:04"

const (
	fieldTitle = iota
	fieldDescription
	fieldDue
	fieldCourse
	fieldCount
)

// addForm collects a new task. The course field is a selector cycled
// with left/right rather than a free-text input.
type addForm struct {
	inputs    [3]textinput.Model
	focus     int
	courseIdx int // 0 = personal, i>0 = courses[i-1]
	courses   []canvas.Course
	errMsg    string
}

func newAddForm(courses []canvas.Course, now time.Time) addForm {
	f := addForm{courses: courses}

	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 256
	title.Width = 50
	title.Focus()
	f.inputs[fieldTitle] = title

	desc := textinput.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = 1024
	desc.Width = 50
	f.inputs[fieldDescription] = desc

	due := textinput.New()
	due.Placeholder = dueFormat
	due.CharLimit = 16
	due.Width = 50
	due.SetValue(now.Format(dueFormat))
	f.inputs[fieldDue] = due

	return f
}

func (f *addForm) next() {
	f.setFocus((f.focus + 1) % fieldCount)
}

func (f *addForm) prev() {
	f.setFocus((f.focus + fieldCount - 1) % fieldCount)
}

func (f *addForm) setFocus(idx int) {
	f.focus = idx
	for i := range f.inputs {
		if i == idx {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f *addForm) cycleCourse(delta int) {
	n := len(f.courses) + 1
	f.courseIdx = (f.courseIdx + delta + n) % n
}

func (f *addForm) courseLabel() string {
	if f.courseIdx == 0 {
		return "None (Personal Task)"
	}
	return f.courses[f.courseIdx-1].Name
}

func (f *addForm) courseID() int64 {
	if f.courseIdx == 0 {
		return 0
	}
	return f.courses[f.courseIdx-1].ID
}

// submit validates the form and returns the values to create.
func (f *addForm) submit(loc *time.Location) (title, description string, due time.Time, courseID int64, ok bool) {
	title = strings.TrimSpace(f.inputs[fieldTitle].Value())
	if title == "" {
		f.errMsg = "Title is required"
		return "", "", time.Time{}, 0, false
	}

	due, err := time.ParseInLocation(dueFormat, strings.TrimSpace(f.inputs[fieldDue].Value()), loc)
	if err != nil {
		f.errMsg = "Invalid date format. Use YYYY-MM-DD HH:MM"
		return "", "", time.Time{}, 0, false
	}

	f.errMsg = ""
	return title, f.inputs[fieldDescription].Value(), due, f.courseID(), true
}

func (f *addForm) update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		f.next()
		return nil
	case "shift+tab", "up":
		f.prev()
		return nil
	case "left":
		if f.focus == fieldCourse {
			f.cycleCourse(-1)
			return nil
		}
	case "right":
		if f.focus == fieldCourse {
			f.cycleCourse(1)
			return nil
		}
	}

	if f.focus < len(f.inputs) {
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return cmd
	}
	return nil
}

func (f *addForm) view() string {
	rows := []string{
		headerStyle.Render("Add New Task"),
		"",
		labelStyle.Render("Title:"),
		f.inputs[fieldTitle].View(),
		"",
		labelStyle.Render("Description:"),
		f.inputs[fieldDescription].View(),
		"",
		labelStyle.Render("Due Date (YYYY-MM-DD HH:MM):"),
		f.inputs[fieldDue].View(),
		"",
		labelStyle.Render("Course:"),
		f.courseView(),
	}

	if f.errMsg != "" {
		rows = append(rows, "", errorStyle.Render(f.errMsg))
	}

	footer := fmt.Sprintf("%s: %s %s %s: %s %s %s: %s",
		keyStyle.Render("tab"), actionStyle.Render("next field"),
		bulletStyle.Render("•"),
		keyStyle.Render("enter"), actionStyle.Render("create"),
		bulletStyle.Render("•"),
		keyStyle.Render("esc"), actionStyle.Render("cancel"))
	rows = append(rows, "", footer)

	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

func (f *addForm) courseView() string {
	label := f.courseLabel()
	if f.focus == fieldCourse {
		return valueStyle.Render("◀ " + label + " ▶")
	}
	return dimStyle.Render("  " + label)
}
