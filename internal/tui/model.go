package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"
	"github.com/pkg/browser"
	"go.uber.org/zap"

	"github.com/notexe/canvas-tui/internal/canvas"
	"github.com/notexe/canvas-tui/internal/config"
	"github.com/notexe/canvas-tui/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeDetail
)

type validatedMsg struct {
	user *canvas.User
	err  error
}

type refreshedMsg struct {
	tasks   []task.Task
	courses []canvas.Course
}

type createdMsg struct {
	result canvas.CreateResult
}

// Model is the top-level application state. The task and course lists
// are owned here exclusively and replaced wholesale on every refresh.
type Model struct {
	cfg    *config.Config
	client *canvas.Client // nil when credentials are missing
	agg    *task.Aggregator
	log    *zap.SugaredLogger

	mode      mode
	table     table.Model
	spin      spinner.Model
	form      addForm
	tasks     []task.Task
	courses   []canvas.Course
	connected bool
	loading   bool
	creating  bool
	status    string
	statusSty lipgloss.Style
	colored   bool
	width     int
	height    int
}

func New(cfg *config.Config, client *canvas.Client, agg *task.Aggregator, log *zap.SugaredLogger) Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Due", Width: 12},
			{Title: "Status", Width: 9},
			{Title: "Course", Width: 20},
			{Title: "Title", Width: 50},
			{Title: "Type", Width: 15},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

	m := Model{
		cfg:       cfg,
		client:    client,
		agg:       agg,
		log:       log,
		table:     t,
		spin:      s,
		colored:   cfg.UI.ColoredOutput,
		status:    "Loading Canvas tasks...",
		statusSty: statusBarStyle,
	}
	if client == nil {
		m.setStatus(notConfiguredNotice(), errorStyle)
	}
	return m
}

// Run starts the full-screen program and blocks until quit.
func Run(cfg *config.Config, client *canvas.Client, agg *task.Aggregator, log *zap.SugaredLogger) error {
	p := tea.NewProgram(New(cfg, client, agg, log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	if m.client == nil {
		return nil
	}
	return tea.Batch(m.spin.Tick, m.validateCmd())
}

func (m *Model) validateCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		user, err := client.ValidateToken(context.Background())
		return validatedMsg{user: user, err: err}
	}
}

// refreshCmd fetches all sources sequentially and rebuilds the task
// list. Fetch failures degrade to empty slices inside the client.
func (m *Model) refreshCmd() tea.Cmd {
	client := m.client
	agg := m.agg
	log := m.log
	return func() tea.Msg {
		refreshID := uuid.NewString()
		ctx := context.Background()

		courses := client.ActiveCourses(ctx)
		notes := client.PlannerNotes(ctx)

		start, end := agg.FetchRange()
		events := client.CalendarEvents(ctx, start, end)

		var assignments []canvas.Assignment
		for _, course := range courses {
			assignments = append(assignments, client.Assignments(ctx, course.ID)...)
		}

		tasks := agg.Build(courses, notes, events, assignments)
		log.Infow("refresh complete",
			"refresh_id", refreshID,
			"courses", len(courses),
			"planner_notes", len(notes),
			"calendar_events", len(events),
			"assignments", len(assignments),
			"tasks", len(tasks))

		return refreshedMsg{tasks: tasks, courses: courses}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.loading || m.creating {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		tableHeight := m.height - 7
		if tableHeight < 5 {
			tableHeight = 5
		}
		m.table.SetHeight(tableHeight)
		return m, nil

	case validatedMsg:
		if msg.err != nil {
			m.log.Errorw("token validation failed", "error", msg.err)
			m.setStatus("Invalid Canvas token", errorStyle)
			return m, nil
		}
		m.connected = true
		m.log.Infow("token validated", "user_id", msg.user.ID, "user", msg.user.Name)
		m.loading = true
		m.setStatus("Fetching tasks from Canvas...", statusBarStyle)
		return m, tea.Batch(m.spin.Tick, m.refreshCmd())

	case refreshedMsg:
		m.loading = false
		m.tasks = msg.tasks
		m.courses = msg.courses
		m.table.SetRows(m.taskRows())
		m.setStatus(fmt.Sprintf("%d tasks loaded | Press 'a' to add, 'r' to refresh, 'q' to quit", len(m.tasks)), statusBarStyle)
		return m, nil

	case createdMsg:
		m.creating = false
		if msg.result.Success {
			m.setStatus(fmt.Sprintf("Task created as %s!", methodLabel(msg.result.Method)), successStyle)
			m.loading = true
			return m, tea.Batch(m.spin.Tick, m.refreshCmd())
		}
		m.setStatus("Failed to create task: "+msg.result.Err, errorStyle)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeDetail:
			return m.updateDetail(msg)
		default:
			return m.updateList(msg)
		}
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "r":
		if !m.connected {
			m.setStatus(m.notConnectedNotice(), errorStyle)
			return m, nil
		}
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.setStatus("Fetching tasks from Canvas...", statusBarStyle)
		return m, tea.Batch(m.spin.Tick, m.refreshCmd())

	case "a":
		if !m.connected {
			m.setStatus(m.notConnectedNotice(), errorStyle)
			return m, nil
		}
		m.mode = modeAdd
		m.form = newAddForm(m.courses, m.agg.ReferenceNow())
		return m, nil

	case "d":
		if m.selectedTask() == nil {
			m.setStatus("No task selected", infoStyle)
			return m, nil
		}
		m.mode = modeDetail
		return m, nil

	case "enter", "o":
		return m.openSelected()

	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.setStatus("Cancelled", statusBarStyle)
		return m, nil

	case "enter":
		title, description, due, courseID, ok := m.form.submit(m.agg.Location)
		if !ok {
			return m, nil
		}

		m.mode = modeList
		m.creating = true
		m.setStatus("Creating task in Canvas...", statusBarStyle)

		client := m.client
		return m, tea.Batch(m.spin.Tick, func() tea.Msg {
			result := client.CreateTask(context.Background(), title, description, due, courseID)
			return createdMsg{result: result}
		})

	default:
		cmd := m.form.update(msg)
		return m, cmd
	}
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "d", "q":
		m.mode = modeList
		return m, nil
	case "enter", "o":
		return m.openSelected()
	}
	return m, nil
}

// openSelected opens the selected task's URL in the system browser.
func (m Model) openSelected() (tea.Model, tea.Cmd) {
	t := m.selectedTask()
	if t == nil {
		m.setStatus("No task selected", infoStyle)
		return m, nil
	}
	if t.URL == "" {
		m.setStatus("No URL available for this task", infoStyle)
		return m, nil
	}

	if err := browser.OpenURL(t.URL); err != nil {
		m.log.Errorw("failed to open browser", "url", t.URL, "error", err)
		m.setStatus("Failed to open browser: "+err.Error(), errorStyle)
		return m, nil
	}
	m.setStatus("Opened task in browser", successStyle)
	return m, nil
}

// selectedTask maps the table cursor back into the task slice by
// positional index.
func (m Model) selectedTask() *task.Task {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.tasks) {
		return nil
	}
	return &m.tasks[cursor]
}

func (m *Model) setStatus(status string, style lipgloss.Style) {
	m.status = status
	m.statusSty = style
}

func notConfiguredNotice() string {
	return "Canvas not configured. Edit " + config.GetDefaultConfigPath()
}

func (m *Model) notConnectedNotice() string {
	if m.client == nil {
		return notConfiguredNotice()
	}
	return "Canvas not connected"
}

// taskRows carries plain text only: the table truncates cells to the
// column width and would cut an ANSI sequence mid-escape. The detail
// view colors the status instead.
func (m Model) taskRows() []table.Row {
	now := m.agg.ReferenceNow()

	rows := make([]table.Row, 0, len(m.tasks))
	for _, t := range m.tasks {
		rows = append(rows, table.Row{
			t.Due.Format("01/02 15:04"),
			t.Status(now),
			truncate(t.Course, 20),
			truncate(t.Title, 50),
			t.Kind.String(),
		})
	}
	return rows
}

func (m Model) View() string {
	switch m.mode {
	case modeAdd:
		return m.form.view()
	case modeDetail:
		if t := m.selectedTask(); t != nil {
			return renderDetail(*t, m.agg.ReferenceNow(), m.width)
		}
	}

	header := headerStyle.Render("Canvas Tasks")

	statusLine := m.status
	if m.loading || m.creating {
		statusLine = m.spin.View() + " " + statusLine
	}
	if m.colored {
		statusLine = m.statusSty.Render(statusLine)
	}

	commands := []string{
		m.footerKey("a", "add"),
		m.footerKey("r", "refresh"),
		m.footerKey("enter", "open"),
		m.footerKey("d", "details"),
		m.footerKey("q", "quit"),
	}
	footer := strings.Join(commands, bulletStyle.Render(" • "))

	return lipgloss.JoinVertical(lipgloss.Top,
		header,
		statusLine,
		"",
		m.table.View(),
		"",
		footer,
	)
}

func (m Model) footerKey(key, action string) string {
	if !m.colored {
		return key + ": " + action
	}
	return keyStyle.Render(key) + ": " + actionStyle.Render(action)
}

func methodLabel(method string) string {
	parts := strings.Split(method, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// truncate cuts by display width so double-width runes do not overflow
// the column.
func truncate(s string, max int) string {
	return runewidth.Truncate(s, max, "")
}
