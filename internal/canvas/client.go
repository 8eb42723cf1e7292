package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/notexe/canvas-tui/internal/config"
)

// Client talks to the Canvas REST API. Read operations degrade to
// empty results on failure; only token validation and writes surface
// errors.
type Client struct {
	baseURL string
	token   string
	perPage int
	http    *http.Client
	log     *zap.SugaredLogger
}

func NewClient(cfg config.CanvasConfig, log *zap.SugaredLogger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("Canvas base URL is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("Canvas token is required")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		perPage: cfg.PerPage,
		http: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		log: log,
	}, nil
}

// BaseURL returns the configured instance URL, used to reconstruct
// deep links.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ValidateToken fetches the current user. Auth failure is surfaced to
// the caller, not degraded.
func (c *Client) ValidateToken(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/api/v1/users/self", nil, &user); err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	return &user, nil
}

// ActiveCourses fetches the user's active enrollments. Returns an
// empty slice on any failure.
func (c *Client) ActiveCourses(ctx context.Context) []Course {
	query := url.Values{
		"enrollment_state": {"active"},
		"per_page":         {strconv.Itoa(c.perPage)},
	}

	var courses []Course
	if err := c.get(ctx, "/api/v1/courses", query, &courses); err != nil {
		c.log.Warnw("failed to fetch courses", "error", err)
		return nil
	}
	return courses
}

// Assignments fetches assignments for one course, ordered by due date.
// Returns an empty slice on any failure.
func (c *Client) Assignments(ctx context.Context, courseID int64) []Assignment {
	query := url.Values{
		"order_by": {"due_at"},
		"per_page": {strconv.Itoa(c.perPage)},
	}

	var assignments []Assignment
	path := fmt.Sprintf("/api/v1/courses/%d/assignments", courseID)
	if err := c.get(ctx, path, query, &assignments); err != nil {
		c.log.Warnw("failed to fetch assignments", "course_id", courseID, "error", err)
		return nil
	}
	return assignments
}

// PlannerNotes fetches the user's planner notes. Returns an empty
// slice on any failure.
func (c *Client) PlannerNotes(ctx context.Context) []PlannerNote {
	query := url.Values{
		"per_page": {strconv.Itoa(c.perPage)},
	}

	var notes []PlannerNote
	if err := c.get(ctx, "/api/v1/planner_notes", query, &notes); err != nil {
		c.log.Warnw("failed to fetch planner notes", "error", err)
		return nil
	}
	return notes
}

// CalendarEvents fetches events between two dates. Returns an empty
// slice on any failure.
func (c *Client) CalendarEvents(ctx context.Context, start, end time.Time) []CalendarEvent {
	query := url.Values{
		"type":       {"event"},
		"start_date": {start.Format("2006-01-02")},
		"end_date":   {end.Format("2006-01-02")},
		"per_page":   {strconv.Itoa(c.perPage)},
	}

	var events []CalendarEvent
	if err := c.get(ctx, "/api/v1/calendar_events", query, &events); err != nil {
		c.log.Warnw("failed to fetch calendar events", "error", err)
		return nil
	}
	return events
}

// CreatePlannerNote creates a planner note, the preferred tier.
func (c *Client) CreatePlannerNote(ctx context.Context, title, details string, todoDate time.Time, courseID int64) CreateResult {
	payload := map[string]interface{}{
		"title":     title,
		"details":   details,
		"todo_date": todoDate.Format(time.RFC3339),
	}
	if courseID != 0 {
		payload["course_id"] = courseID
	}

	if err := c.post(ctx, "/api/v1/planner_notes", payload); err != nil {
		return CreateResult{Success: false, Err: err.Error()}
	}
	return CreateResult{Success: true, Method: MethodPlannerNote}
}

// CreateCalendarEvent creates a calendar event, the fallback tier. The
// event gets a one hour duration and a decorated title so reminders
// created this way are recognizable on the calendar.
func (c *Client) CreateCalendarEvent(ctx context.Context, title, description string, startAt time.Time, courseID int64) CreateResult {
	event := map[string]interface{}{
		"title":       "📋 " + title,
		"description": fmt.Sprintf("Task: %s\n\n%s", title, description),
		"start_at":    startAt.Format(time.RFC3339),
		"end_at":      startAt.Add(time.Hour).Format(time.RFC3339),
		"all_day":     false,
	}
	if courseID != 0 {
		event["context_code"] = fmt.Sprintf("course_%d", courseID)
	}

	payload := map[string]interface{}{"calendar_event": event}

	if err := c.post(ctx, "/api/v1/calendar_events", payload); err != nil {
		return CreateResult{Success: false, Err: err.Error()}
	}
	return CreateResult{Success: true, Method: MethodCalendarEvent}
}

// CreateTask creates a reminder upstream, trying each tier in order:
// planner note, then calendar event. The first success wins.
func (c *Client) CreateTask(ctx context.Context, title, description string, due time.Time, courseID int64) CreateResult {
	result := c.CreatePlannerNote(ctx, title, description, due, courseID)
	if result.Success {
		return result
	}
	c.log.Warnw("planner note creation failed, falling back to calendar event", "error", result.Err)

	result = c.CreateCalendarEvent(ctx, title, description, due, courseID)
	if result.Success {
		return result
	}
	c.log.Errorw("calendar event creation failed", "error", result.Err)

	return CreateResult{Success: false, Method: MethodNone, Err: result.Err}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return apiError(body, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return apiError(respBody, resp.StatusCode)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

func apiError(body []byte, status int) error {
	var errResp canvasErrorResponse
	if json.Unmarshal(body, &errResp) == nil {
		if len(errResp.Errors) > 0 && errResp.Errors[0].Message != "" {
			return fmt.Errorf("%s", errResp.Errors[0].Message)
		}
		if errResp.Message != "" {
			return fmt.Errorf("%s", errResp.Message)
		}
	}
	return fmt.Errorf("API error: %s (status %d)", string(body), status)
}
