// Package client is a typed HTTP client for the taskkeep API, shared by the
// CLI and the TUI.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fentz26/taskkeep/internal/models"
)

// DefaultClientTimeout is the default timeout for API requests.
const DefaultClientTimeout = 10 * time.Second

// Client wraps HTTP calls to the taskkeep API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client with timeout.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultClientTimeout,
		},
	}
}

// BaseURL returns the API address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is a failed response decoded from the server envelope.
type APIError struct {
	Status        int
	Message       string
	Details       []string
	Hint          string
	CurrentStatus string
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "API error (%d): %s", e.Status, e.Message)
	for _, d := range e.Details {
		b.WriteString("\n  - ")
		b.WriteString(d)
	}
	if e.CurrentStatus != "" {
		fmt.Fprintf(&b, "\n  current status: %s", e.CurrentStatus)
	}
	if e.Hint != "" {
		b.WriteString("\n  hint: ")
		b.WriteString(e.Hint)
	}
	return b.String()
}

// envelope mirrors the server's response wrapper.
type envelope struct {
	Success       bool            `json:"success"`
	Message       string          `json:"message"`
	Count         int             `json:"count"`
	Data          json.RawMessage `json:"data"`
	Details       []string        `json:"details"`
	Hint          string          `json:"hint"`
	CurrentStatus string          `json:"currentStatus"`
}

// StatusGroup is one bucket of the tasks-by-status response.
type StatusGroup struct {
	Count int           `json:"count" yaml:"count"`
	Tasks []models.Task `json:"tasks" yaml:"tasks"`
}

// HealthResponse matches the server's health response structure.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	DB      string `json:"db"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

// --- Tasks ---

// ListTasks fetches tasks, optionally filtered by status and priority.
func (c *Client) ListTasks(status, priority string) ([]models.Task, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if priority != "" {
		q.Set("priority", priority)
	}
	path := "/api/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var tasks []models.Task
	if _, err := c.do(http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask fetches a single task.
func (c *Client) GetTask(id string) (*models.Task, error) {
	var task models.Task
	if _, err := c.do(http.MethodGet, "/api/tasks/"+url.PathEscape(id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask creates a task from the given fields.
func (c *Client) CreateTask(fields map[string]any) (*models.Task, error) {
	var task models.Task
	if _, err := c.do(http.MethodPost, "/api/tasks", fields, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies a partial update.
func (c *Client) UpdateTask(id string, fields map[string]any) (*models.Task, error) {
	var task models.Task
	if _, err := c.do(http.MethodPut, "/api/tasks/"+url.PathEscape(id), fields, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(id string) error {
	_, err := c.do(http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil)
	return err
}

// ReopenTask moves a completed task back to in-progress.
func (c *Client) ReopenTask(id string) (*models.Task, error) {
	var task models.Task
	if _, err := c.do(http.MethodPost, "/api/tasks/"+url.PathEscape(id)+"/reopen", nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// TaskHistory fetches the decision records for a task, oldest first.
func (c *Client) TaskHistory(id string) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	if _, err := c.do(http.MethodGet, "/api/tasks/"+url.PathEscape(id)+"/history", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CountTasks returns the number of stored tasks.
func (c *Client) CountTasks() (int, error) {
	env, err := c.do(http.MethodGet, "/api/tasks/stats/count", nil, nil)
	if err != nil {
		return 0, err
	}
	return env.Count, nil
}

// TasksByStatus returns tasks grouped under pending, inProgress and completed.
func (c *Client) TasksByStatus() (map[string]StatusGroup, error) {
	var groups map[string]StatusGroup
	if _, err := c.do(http.MethodGet, "/api/tasks/stats/status", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// --- Users ---

// ListUsers fetches all users.
func (c *Client) ListUsers() ([]models.User, error) {
	var users []models.User
	if _, err := c.do(http.MethodGet, "/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches a single user.
func (c *Client) GetUser(id string) (*models.User, error) {
	var u models.User
	if _, err := c.do(http.MethodGet, "/api/users/"+url.PathEscape(id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser registers a user.
func (c *Client) CreateUser(fields map[string]any) (*models.User, error) {
	var u models.User
	if _, err := c.do(http.MethodPost, "/api/users", fields, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser applies a partial update.
func (c *Client) UpdateUser(id string, fields map[string]any) (*models.User, error) {
	var u models.User
	if _, err := c.do(http.MethodPut, "/api/users/"+url.PathEscape(id), fields, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser removes a user.
func (c *Client) DeleteUser(id string) error {
	_, err := c.do(http.MethodDelete, "/api/users/"+url.PathEscape(id), nil, nil)
	return err
}

// CountUsers returns the number of stored users.
func (c *Client) CountUsers() (int, error) {
	env, err := c.do(http.MethodGet, "/api/users/stats/count", nil, nil)
	if err != nil {
		return 0, err
	}
	return env.Count, nil
}

// CheckHealth checks if the daemon is healthy and returns the health response.
// Unlike other API calls, this returns the parsed HealthResponse even on non-200
// responses, allowing callers to inspect the health payload alongside the error.
func (c *Client) CheckHealth() (*HealthResponse, error) {
	resp, err := c.httpClient.Get(c.baseURL + "/health")
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var health HealthResponse
	if err := json.Unmarshal(body, &health); err != nil {
		return nil, fmt.Errorf("failed to parse health response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &health, fmt.Errorf("health check failed (status %d): %s", resp.StatusCode, string(body))
	}

	return &health, nil
}

// do sends a request and decodes the envelope. When out is non-nil the
// envelope's data field is decoded into it.
func (c *Client) do(method, path string, data any, out any) (*envelope, error) {
	var reqBody io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode >= 400 {
			return nil, &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		}
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		return nil, &APIError{
			Status:        resp.StatusCode,
			Message:       env.Message,
			Details:       env.Details,
			Hint:          env.Hint,
			CurrentStatus: env.CurrentStatus,
		}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("failed to parse response data: %w", err)
		}
	}
	return &env, nil
}
