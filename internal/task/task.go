package task

import "time"

// Kind identifies which Canvas source a task came from.
type Kind int

const (
	KindPlannerNote Kind = iota
	KindCalendarEvent
	KindAssignment
)

func (k Kind) String() string {
	switch k {
	case KindPlannerNote:
		return "Planner Note"
	case KindCalendarEvent:
		return "Calendar Event"
	case KindAssignment:
		return "Assignment"
	default:
		return "Unknown"
	}
}

// Task is one normalized due-date item. Due is always expressed in the
// reference timezone; all comparison and sorting happen there. Tasks
// are rebuilt wholesale on every refresh.
type Task struct {
	Title       string
	Description string
	Due         time.Time
	Course      string
	Kind        Kind
	URL         string
	Raw         interface{}
}

// Status labels for the table. Overdue is only reachable when the
// lookback window is enabled.
const (
	StatusToday    = "Today"
	StatusUpcoming = "Upcoming"
	StatusOverdue  = "Overdue"
)

// Status derives the display label from the due date relative to now,
// both in the reference timezone.
func (t Task) Status(now time.Time) string {
	y1, m1, d1 := t.Due.Date()
	y2, m2, d2 := now.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return StatusToday
	}
	if t.Due.Before(now) {
		return StatusOverdue
	}
	return StatusUpcoming
}
