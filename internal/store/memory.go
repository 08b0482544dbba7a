package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fentz26/taskkeep/internal/models"
)

// Memory is an in-process store. Records are copied on the way in and out so
// callers never share state with the maps.
type Memory struct {
	mu    sync.RWMutex
	tasks map[string]models.Task
	users map[string]models.User
	audit []models.AuditEntry
	now   func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		tasks: make(map[string]models.Task),
		users: make(map[string]models.User),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// Ping always succeeds.
func (m *Memory) Ping(ctx context.Context) error { return ctx.Err() }

func cloneTask(t models.Task) models.Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}

// --- Task Operations ---

// CreateTask inserts a new task built from p.
func (m *Memory) CreateTask(p models.TaskPatch) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task := newTask(p, m.now())
	m.tasks[task.ID] = cloneTask(task)
	return &task, nil
}

// GetTask retrieves a task by ID.
func (m *Memory) GetTask(id string) (*models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	task, ok := m.tasks[id]
	if !ok {
		return nil, nil
	}
	task = cloneTask(task)
	return &task, nil
}

// ListTasks returns tasks matching the filter, newest first.
func (m *Memory) ListTasks(filter models.TaskFilter) ([]models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tasks := []models.Task{}
	for _, t := range m.tasks {
		if filter.Matches(t) {
			tasks = append(tasks, cloneTask(t))
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
	return tasks, nil
}

// UpdateTask merges p into the stored task.
func (m *Memory) UpdateTask(id string, p models.TaskPatch) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.tasks[id]
	if !ok {
		return nil, nil
	}
	next := current.Apply(p, m.now())
	m.tasks[id] = cloneTask(next)
	return &next, nil
}

// DeleteTask removes a task. It reports false when no task had the id.
func (m *Memory) DeleteTask(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return false, nil
	}
	delete(m.tasks, id)
	return true, nil
}

// CountTasks returns the number of stored tasks.
func (m *Memory) CountTasks() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tasks), nil
}

// --- User Operations ---

func (m *Memory) emailTaken(email, exceptID string) bool {
	for id, u := range m.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

// CreateUser inserts a new user built from p.
func (m *Memory) CreateUser(p models.UserPatch) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := newUser(p, m.now())
	if m.emailTaken(u.Email, "") {
		return nil, ErrEmailTaken
	}
	m.users[u.ID] = u
	return &u, nil
}

// GetUser retrieves a user by ID.
func (m *Memory) GetUser(id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// GetUserByEmail retrieves a user by normalized email.
func (m *Memory) GetUserByEmail(email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

// ListUsers returns all users, newest first.
func (m *Memory) ListUsers() ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.After(users[j].CreatedAt)
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

// UpdateUser merges p into the stored user.
func (m *Memory) UpdateUser(id string, p models.UserPatch) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	next := current.Apply(p, m.now())
	if m.emailTaken(next.Email, id) {
		return nil, ErrEmailTaken
	}
	m.users[id] = next
	return &next, nil
}

// DeleteUser removes a user. It reports false when no user had the id.
func (m *Memory) DeleteUser(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return false, nil
	}
	delete(m.users, id)
	return true, nil
}

// CountUsers returns the number of stored users.
func (m *Memory) CountUsers() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}

// --- Audit Operations ---

// WriteAudit appends a decision record. ID and Timestamp are filled in when unset.
func (m *Memory) WriteAudit(entry models.AuditEntry) (*models.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stampAudit(&entry)
	m.audit = append(m.audit, entry)
	return &entry, nil
}

// ListAudit returns the decision records for a task, oldest first.
func (m *Memory) ListAudit(taskID string) ([]models.AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := []models.AuditEntry{}
	for _, e := range m.audit {
		if e.TaskID == taskID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}
