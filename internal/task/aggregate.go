package task

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/notexe/canvas-tui/internal/canvas"
)

// Aggregator merges the three Canvas source kinds into one normalized,
// filtered, sorted task list.
type Aggregator struct {
	BaseURL    string
	Location   *time.Location
	PastDays   int
	FutureDays int
	ClampToNow bool
	Log        *zap.SugaredLogger

	// Now overrides the clock in tests. Nil means time.Now.
	Now func() time.Time
}

func (a *Aggregator) now() time.Time {
	if a.Now != nil {
		return a.Now().In(a.Location)
	}
	return time.Now().In(a.Location)
}

func (a *Aggregator) logger() *zap.SugaredLogger {
	if a.Log == nil {
		return zap.NewNop().Sugar()
	}
	return a.Log
}

// ReferenceNow is the current time in the reference timezone, the
// anchor for windowing and status labels.
func (a *Aggregator) ReferenceNow() time.Time {
	return a.now()
}

// FetchRange is the date range requested from the calendar events
// endpoint. It always spans the full lookback so the visibility window
// can be widened without refetching.
func (a *Aggregator) FetchRange() (time.Time, time.Time) {
	now := a.now()
	return now.AddDate(0, 0, -a.PastDays), now.AddDate(0, 0, a.FutureDays)
}

// window returns the inclusive bounds applied to normalized due times.
func (a *Aggregator) window() (time.Time, time.Time) {
	now := a.now()
	lower := now
	if !a.ClampToNow {
		lower = now.AddDate(0, 0, -a.PastDays)
	}
	return lower, now.AddDate(0, 0, a.FutureDays)
}

// Build normalizes all sources into one list sorted ascending by due
// time. The sort is stable: ties keep source-appended order (planner
// notes, then calendar events, then assignments).
func (a *Aggregator) Build(courses []canvas.Course, notes []canvas.PlannerNote, events []canvas.CalendarEvent, assignments []canvas.Assignment) []Task {
	lower, upper := a.window()
	courseNames := make(map[int64]string, len(courses))
	for _, c := range courses {
		courseNames[c.ID] = c.Name
	}

	var tasks []Task

	for _, note := range notes {
		if note.WorkflowState != "" && note.WorkflowState != "active" {
			continue
		}
		if note.TodoDate == "" {
			continue
		}

		due, err := a.normalize(note.TodoDate)
		if err != nil {
			a.logger().Debugw("dropping planner note with bad date", "id", note.ID, "todo_date", note.TodoDate, "error", err)
			continue
		}
		if due.Before(lower) || due.After(upper) {
			continue
		}

		course := "Personal"
		if name, ok := courseNames[note.CourseID]; ok && note.CourseID != 0 {
			course = name
		}

		var noteURL string
		if note.CourseID != 0 {
			noteURL = fmt.Sprintf("%s/courses/%d/planner_items?filter=planner_note_%d", a.BaseURL, note.CourseID, note.ID)
		}

		tasks = append(tasks, Task{
			Title:       note.Title,
			Description: note.Details,
			Due:         due,
			Course:      course,
			Kind:        KindPlannerNote,
			URL:         noteURL,
			Raw:         note,
		})
	}

	for _, event := range events {
		dateField := event.StartAt
		if dateField == "" {
			dateField = event.AllDayDate
		}
		if dateField == "" {
			continue
		}

		due, err := a.normalize(dateField)
		if err != nil {
			a.logger().Debugw("dropping calendar event with bad date", "id", event.ID, "date", dateField, "error", err)
			continue
		}
		if due.Before(lower) || due.After(upper) {
			continue
		}

		context := event.ContextName
		if context == "" {
			context = event.ContextCode
		}
		if context == "" {
			context = "Calendar"
		}

		title := event.Title
		if title == "" {
			title = "Untitled Event"
		}

		tasks = append(tasks, Task{
			Title:       title,
			Description: event.Description,
			Due:         due,
			Course:      context,
			Kind:        KindCalendarEvent,
			URL:         event.HTMLURL,
			Raw:         event,
		})
	}

	for _, assignment := range assignments {
		if completed(assignment) {
			continue
		}
		if assignment.DueAt == "" {
			continue
		}

		due, err := a.normalize(assignment.DueAt)
		if err != nil {
			a.logger().Debugw("dropping assignment with bad date", "id", assignment.ID, "due_at", assignment.DueAt, "error", err)
			continue
		}
		if due.Before(lower) || due.After(upper) {
			continue
		}

		course := "Unknown"
		if name, ok := courseNames[assignment.CourseID]; ok {
			course = name
		}

		var assignmentURL string
		if assignment.CourseID != 0 && assignment.ID != 0 {
			assignmentURL = fmt.Sprintf("%s/courses/%d/assignments/%d", a.BaseURL, assignment.CourseID, assignment.ID)
		}

		tasks = append(tasks, Task{
			Title:       assignment.Name,
			Description: assignment.Description,
			Due:         due,
			Course:      course,
			Kind:        KindAssignment,
			URL:         assignmentURL,
			Raw:         assignment,
		})
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Due.Before(tasks[j].Due)
	})

	return tasks
}

// completed reports whether an assignment is already submitted or
// graded and should be hidden.
func completed(a canvas.Assignment) bool {
	if a.HasSubmittedSubmissions {
		return true
	}
	if a.Submission == nil {
		return false
	}
	switch a.Submission.WorkflowState {
	case "submitted", "graded", "complete":
		return true
	}
	return false
}

// dueLayouts are the date shapes Canvas emits across the three source
// kinds: offset-aware ISO8601, naive date-times, and bare dates. Naive
// values are treated as UTC.
var dueLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// normalize parses a source date field and converts it to the
// reference timezone.
func (a *Aggregator) normalize(value string) (time.Time, error) {
	for _, layout := range dueLayouts {
		t, err := time.ParseInLocation(layout, value, time.UTC)
		if err == nil {
			return t.In(a.Location), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", value)
}
