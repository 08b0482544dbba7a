package tui

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fentz26/taskkeep/internal/audit"
	"github.com/fentz26/taskkeep/internal/client"
	"github.com/fentz26/taskkeep/internal/models"
	"github.com/fentz26/taskkeep/internal/server"
	"github.com/fentz26/taskkeep/internal/service"
	"github.com/fentz26/taskkeep/internal/store"
	"github.com/fentz26/taskkeep/internal/validation"
	"github.com/sirupsen/logrus"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	mem := store.NewMemory()
	engine := validation.New()
	tasks := service.NewTasks(mem, engine, audit.NewRecorder(mem, log), log)
	users := service.NewUsers(mem, engine, audit.NewRecorder(mem, log), log)
	srv := server.NewServer(tasks, users, mem, log, server.Options{})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	a := New(client.New(ts.URL))
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return a
}

// run executes cmd and feeds the resulting message back into the app.
func run(t *testing.T, a *App, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	a.Update(msg)
	return msg
}

func refresh(t *testing.T, a *App) {
	t.Helper()
	msg := run(t, a, a.fetchTasks())
	if e, ok := msg.(errMsg); ok {
		t.Fatalf("fetch failed: %v", e.err)
	}
}

func TestAddAndList(t *testing.T) {
	a := newTestApp(t)

	msg := run(t, a, a.executeCommand("add Write docs"))
	res, ok := msg.(commandResultMsg)
	if !ok || !strings.Contains(res.message, "Created task") {
		t.Fatalf("unexpected result: %#v", msg)
	}

	refresh(t, a)
	if len(a.tasks) != 1 || a.tasks[0].Title != "Write docs" {
		t.Fatalf("expected one task, got %+v", a.tasks)
	}
	if view := a.View(); !strings.Contains(view, "Write docs") || !strings.Contains(view, "Filter: [ALL]") {
		t.Errorf("view is missing the task:\n%s", view)
	}
}

func TestCommandErrorsAreShown(t *testing.T) {
	a := newTestApp(t)

	run(t, a, a.executeCommand("add ab"))
	if !strings.HasPrefix(a.message, "Error:") {
		t.Errorf("expected error message, got %q", a.message)
	}

	run(t, a, a.executeCommand("done"))
	if a.message != "No task selected" {
		t.Errorf("expected 'No task selected', got %q", a.message)
	}

	run(t, a, a.executeCommand("frobnicate"))
	if !strings.HasPrefix(a.message, "Unknown: frobnicate") {
		t.Errorf("unexpected message %q", a.message)
	}
}

func TestLockedTaskFlow(t *testing.T) {
	a := newTestApp(t)

	run(t, a, a.executeCommand("/add Ship release"))
	refresh(t, a)

	run(t, a, a.executeCommand("done"))
	refresh(t, a)
	if a.tasks[0].Status != models.TaskStatusCompleted {
		t.Fatalf("expected completed, got %s", a.tasks[0].Status)
	}

	run(t, a, a.executeCommand("delete"))
	if !strings.Contains(a.message, "403") {
		t.Errorf("expected locked error, got %q", a.message)
	}

	run(t, a, a.executeCommand("reopen"))
	refresh(t, a)
	if a.tasks[0].Status != models.TaskStatusInProgress {
		t.Fatalf("expected in-progress after reopen, got %s", a.tasks[0].Status)
	}

	res := run(t, a, a.executeCommand("delete")).(commandResultMsg)
	if !res.deleted {
		t.Errorf("expected delete to succeed, got %q", res.message)
	}
	refresh(t, a)
	if len(a.tasks) != 0 {
		t.Errorf("expected no tasks, got %d", len(a.tasks))
	}
}

func TestDetailView(t *testing.T) {
	a := newTestApp(t)

	run(t, a, a.executeCommand("add Review pull requests"))
	refresh(t, a)

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if a.mode != modeDetail {
		t.Fatalf("expected detail mode, got %s", a.mode)
	}
	run(t, a, cmd)
	if a.currentTask == nil || a.currentTask.Title != "Review pull requests" {
		t.Fatalf("expected task detail, got %+v", a.currentTask)
	}
	if len(a.history) != 1 || a.history[0].Action != audit.ActionCreate {
		t.Errorf("expected create history entry, got %+v", a.history)
	}
	if view := a.View(); !strings.Contains(view, "History:") {
		t.Errorf("detail view missing history:\n%s", view)
	}

	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if a.mode != modeList || a.currentTask != nil {
		t.Errorf("expected esc to return to list, mode=%s", a.mode)
	}
}

func TestTabCyclesFilter(t *testing.T) {
	a := newTestApp(t)

	run(t, a, a.executeCommand("add First task"))
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyTab})
	if a.filter() != "pending" {
		t.Fatalf("expected pending filter, got %q", a.filter())
	}
	run(t, a, cmd)
	if len(a.tasks) != 1 {
		t.Errorf("expected pending task listed, got %d", len(a.tasks))
	}

	_, cmd = a.Update(tea.KeyMsg{Type: tea.KeyTab})
	run(t, a, cmd)
	if a.filter() != "in-progress" || len(a.tasks) != 0 {
		t.Errorf("expected empty in-progress list, got %q with %d", a.filter(), len(a.tasks))
	}
}

func TestSuggestions(t *testing.T) {
	s := NewSuggestions()

	s.Update("/re")
	if !s.IsVisible() {
		t.Fatal("expected suggestions for /re")
	}
	var got []string
	for _, item := range s.filtered {
		got = append(got, item.Text)
	}
	if strings.Join(got, ",") != "reopen,rename" {
		t.Errorf("expected reopen,rename, got %v", got)
	}

	s.Next()
	if sel := s.Selected(); sel == nil || sel.Text != "rename" {
		t.Errorf("expected rename selected, got %+v", sel)
	}

	s.Update("add something")
	if s.IsVisible() {
		t.Error("plain input should hide suggestions")
	}

	s.SetTasks([]models.Task{{ID: "a", Title: "Write docs"}, {ID: "b", Title: "Ship release"}})
	s.Update("@ship")
	if sel := s.Selected(); sel == nil || sel.TaskID != "b" {
		t.Errorf("expected task b, got %+v", sel)
	}
}
