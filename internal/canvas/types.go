package canvas

// Creation methods, in fallback order.
const (
	MethodPlannerNote   = "planner_note"
	MethodCalendarEvent = "calendar_event"
	MethodNone          = "none"
)

// User is the authenticated Canvas user, fetched to validate the token.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Course is an active enrollment, used to label assignments and to
// populate the course selector.
type Course struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Submission carries the workflow state used to filter out completed
// assignments.
type Submission struct {
	WorkflowState string `json:"workflow_state"`
}

type Assignment struct {
	ID                      int64       `json:"id"`
	Name                    string      `json:"name"`
	Description             string      `json:"description,omitempty"`
	DueAt                   string      `json:"due_at"`
	CourseID                int64       `json:"course_id"`
	HTMLURL                 string      `json:"html_url,omitempty"`
	HasSubmittedSubmissions bool        `json:"has_submitted_submissions"`
	Submission              *Submission `json:"submission,omitempty"`
}

type PlannerNote struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Details       string `json:"details,omitempty"`
	TodoDate      string `json:"todo_date"`
	CourseID      int64  `json:"course_id,omitempty"`
	WorkflowState string `json:"workflow_state,omitempty"`
}

type CalendarEvent struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	StartAt     string `json:"start_at,omitempty"`
	EndAt       string `json:"end_at,omitempty"`
	AllDayDate  string `json:"all_day_date,omitempty"`
	AllDay      bool   `json:"all_day"`
	ContextName string `json:"context_name,omitempty"`
	ContextCode string `json:"context_code,omitempty"`
	HTMLURL     string `json:"html_url,omitempty"`
}

// CreateResult reports the outcome of a task creation attempt. Method
// records which tier succeeded, or MethodNone when all tiers failed.
type CreateResult struct {
	Success bool
	Method  string
	Err     string
}

// canvasErrorResponse is the upstream error body shape.
type canvasErrorResponse struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
	Message string `json:"message,omitempty"`
}
