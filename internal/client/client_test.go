package client

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fentz26/taskkeep/internal/audit"
	"github.com/fentz26/taskkeep/internal/models"
	"github.com/fentz26/taskkeep/internal/server"
	"github.com/fentz26/taskkeep/internal/service"
	"github.com/fentz26/taskkeep/internal/store"
	"github.com/fentz26/taskkeep/internal/validation"
	"github.com/sirupsen/logrus"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	mem := store.NewMemory()
	engine := validation.New()
	tasks := service.NewTasks(mem, engine, audit.NewRecorder(mem, log), log)
	users := service.NewUsers(mem, engine, audit.NewRecorder(mem, log), log)
	srv := server.NewServer(tasks, users, mem, log, server.Options{Version: "test"})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return New(ts.URL + "/")
}

func TestCheckHealth(t *testing.T) {
	c := newTestClient(t)

	health, err := c.CheckHealth()
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if !health.OK || health.DB != "ok" || health.Version != "test" {
		t.Errorf("unexpected health: %+v", health)
	}
}

func TestTaskRoundTrip(t *testing.T) {
	c := newTestClient(t)

	task, err := c.CreateTask(map[string]any{"title": "Write docs", "priority": "low"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if task.Status != models.TaskStatusPending || task.Priority != models.PriorityLow {
		t.Errorf("unexpected task: %+v", task)
	}

	got, err := c.GetTask(task.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Title != "Write docs" {
		t.Errorf("expected title 'Write docs', got %q", got.Title)
	}

	done, err := c.UpdateTask(task.ID, map[string]any{"status": "completed"})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if done.Status != models.TaskStatusCompleted {
		t.Errorf("expected completed, got %s", done.Status)
	}

	err = c.DeleteTask(task.ID)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusForbidden {
		t.Fatalf("expected 403 APIError, got %v", err)
	}
	if apiErr.Hint == "" {
		t.Error("expected locked response to carry a hint")
	}

	reopened, err := c.ReopenTask(task.ID)
	if err != nil {
		t.Fatalf("ReopenTask failed: %v", err)
	}
	if reopened.Status != models.TaskStatusInProgress {
		t.Errorf("expected in-progress, got %s", reopened.Status)
	}

	_, err = c.ReopenTask(task.ID)
	if !errors.As(err, &apiErr) || apiErr.CurrentStatus != "in-progress" {
		t.Fatalf("expected wrong-state error with current status, got %v", err)
	}

	if err := c.DeleteTask(task.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}

	history, err := c.TaskHistory(task.ID)
	if err != nil {
		t.Fatalf("TaskHistory failed: %v", err)
	}
	if len(history) != 6 {
		t.Errorf("expected 6 history entries, got %d", len(history))
	}

	n, err := c.CountTasks()
	if err != nil {
		t.Fatalf("CountTasks failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 tasks, got %d", n)
	}
}

func TestListAndGroup(t *testing.T) {
	c := newTestClient(t)

	for _, fields := range []map[string]any{
		{"title": "one", "status": "pending"},
		{"title": "two", "status": "in-progress", "priority": "low"},
		{"title": "three", "status": "completed"},
	} {
		if _, err := c.CreateTask(fields); err != nil {
			t.Fatalf("CreateTask(%v) failed: %v", fields, err)
		}
	}

	low, err := c.ListTasks("", "low")
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(low) != 1 || low[0].Title != "two" {
		t.Errorf("expected only 'two', got %+v", low)
	}

	groups, err := c.TasksByStatus()
	if err != nil {
		t.Fatalf("TasksByStatus failed: %v", err)
	}
	for _, key := range []string{"pending", "inProgress", "completed"} {
		if groups[key].Count != 1 || len(groups[key].Tasks) != 1 {
			t.Errorf("expected one task under %s, got %+v", key, groups[key])
		}
	}
}

func TestValidationError(t *testing.T) {
	c := newTestClient(t)

	_, err := c.CreateTask(map[string]any{"title": "ab"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || len(apiErr.Details) == 0 {
		t.Errorf("unexpected error: %+v", apiErr)
	}

	_, err = c.GetTask("not-a-uuid")
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed id, got %v", err)
	}
}

func TestUsers(t *testing.T) {
	c := newTestClient(t)

	u, err := c.CreateUser(map[string]any{
		"name":     "Jane Roe",
		"email":    "jane@example.com",
		"password": "Password123",
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if u.Role != models.RoleCustomer {
		t.Errorf("expected default role customer, got %s", u.Role)
	}

	updated, err := c.UpdateUser(u.ID, map[string]any{"name": "Jane Q Roe"})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.Name != "Jane Q Roe" {
		t.Errorf("expected updated name, got %q", updated.Name)
	}

	users, err := c.ListUsers()
	if err != nil || len(users) != 1 {
		t.Fatalf("ListUsers: %v, %d users", err, len(users))
	}

	if err := c.DeleteUser(u.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if _, err := c.GetUser(u.ID); err == nil {
		t.Error("expected deleted user to be gone")
	}
	n, err := c.CountUsers()
	if err != nil || n != 0 {
		t.Errorf("CountUsers: %d, %v", n, err)
	}
}

func TestNonEnvelopeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := New(ts.URL).ListTasks("", "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadGateway || apiErr.Message != "bad gateway" {
		t.Errorf("unexpected error: %v", err)
	}
}
