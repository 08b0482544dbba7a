// Package service composes validation, the lifecycle guard, persistence and
// ordering into the task and user operations exposed by taskkeep.
package service

import (
	"fmt"
	"sync"

	"github.com/fentz26/taskkeep/internal/audit"
	"github.com/fentz26/taskkeep/internal/lifecycle"
	"github.com/fentz26/taskkeep/internal/models"
	"github.com/fentz26/taskkeep/internal/ordering"
	"github.com/fentz26/taskkeep/internal/validation"
	"github.com/sirupsen/logrus"
)

// TaskRepository is the persistence the task service needs.
type TaskRepository interface {
	CreateTask(p models.TaskPatch) (*models.Task, error)
	GetTask(id string) (*models.Task, error)
	ListTasks(filter models.TaskFilter) ([]models.Task, error)
	UpdateTask(id string, p models.TaskPatch) (*models.Task, error)
	DeleteTask(id string) (bool, error)
	CountTasks() (int, error)
	ListAudit(taskID string) ([]models.AuditEntry, error)
}

// Tasks provides the task business logic. Every mutation runs its
// check-then-act sequence under one lock, so a guard decision always holds
// when the store applies it.
type Tasks struct {
	mu     sync.RWMutex
	repo   TaskRepository
	engine *validation.Engine
	guard  *lifecycle.Guard
	audit  *audit.Recorder
	log    logrus.FieldLogger
}

// NewTasks creates a new task service.
func NewTasks(repo TaskRepository, engine *validation.Engine, recorder *audit.Recorder, log logrus.FieldLogger) *Tasks {
	return &Tasks{
		repo:   repo,
		engine: engine,
		guard:  lifecycle.New(),
		audit:  recorder,
		log:    log.WithField("component", "tasks"),
	}
}

// Create validates raw and stores a new task.
func (s *Tasks) Create(raw map[string]any) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patch, err := s.engine.TaskCreate(raw)
	if err != nil {
		s.reject(audit.ActionCreate, raw, "", err)
		return nil, err
	}

	task, err := s.repo.CreateTask(patch)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.audit.Record(audit.ActionCreate, raw, audit.OutcomeSuccess, task.ID, "")
	return task, nil
}

// Get returns the task with the given id.
func (s *Tasks) Get(id string) (*models.Task, error) {
	id, err := validation.ParseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.find(id)
}

// List returns the tasks matching the optional status and priority filters,
// in presentation order.
func (s *Tasks) List(status, priority string) ([]models.Task, error) {
	filter := s.engine.TaskFilter(status, priority)

	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks, err := s.repo.ListTasks(filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	ordering.Sort(tasks)
	return tasks, nil
}

// Update validates raw and merges it into the task. Completed tasks are locked.
func (s *Tasks) Update(id string, raw map[string]any) (*models.Task, error) {
	id, err := validation.ParseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	patch, err := s.engine.TaskUpdate(raw)
	if err != nil {
		s.reject(audit.ActionUpdate, raw, id, err)
		return nil, err
	}

	current, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.Check(*current, lifecycle.OpUpdate); err != nil {
		s.reject(audit.ActionUpdate, raw, id, err)
		return nil, err
	}

	// A patch may set only one of priority and dueDate; the deadline rule
	// applies to the record as it would be stored.
	if patch.Priority != nil || patch.DueDate != nil {
		if err := s.engine.CheckDeadline(current.Apply(patch, current.UpdatedAt)); err != nil {
			s.reject(audit.ActionUpdate, raw, id, err)
			return nil, err
		}
	}

	task, err := s.repo.UpdateTask(id, patch)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	s.audit.Record(audit.ActionUpdate, raw, audit.OutcomeSuccess, id, "")
	return task, nil
}

// Delete removes the task. Completed tasks are locked.
func (s *Tasks) Delete(id string) error {
	id, err := validation.ParseID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.find(id)
	if err != nil {
		return err
	}
	if _, err := s.guard.Check(*current, lifecycle.OpDelete); err != nil {
		s.reject(audit.ActionDelete, idInput(id), id, err)
		return err
	}

	ok, err := s.repo.DeleteTask(id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if !ok {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	s.audit.Record(audit.ActionDelete, idInput(id), audit.OutcomeSuccess, id, "")
	return nil
}

// Reopen moves a completed task back to in-progress.
func (s *Tasks) Reopen(id string) (*models.Task, error) {
	id, err := validation.ParseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.find(id)
	if err != nil {
		return nil, err
	}
	decision, err := s.guard.Check(*current, lifecycle.OpReopen)
	if err != nil {
		s.reject(audit.ActionReopen, idInput(id), id, err)
		return nil, err
	}

	next := decision.Next
	task, err := s.repo.UpdateTask(id, models.TaskPatch{Status: &next})
	if err != nil {
		return nil, fmt.Errorf("reopen task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	s.audit.Record(audit.ActionReopen, idInput(id), audit.OutcomeSuccess, id, "")
	return task, nil
}

// Count returns the number of stored tasks.
func (s *Tasks) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, err := s.repo.CountTasks()
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

// ByStatus returns every task grouped by status, each group in presentation order.
func (s *Tasks) ByStatus() (ordering.Groups, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks, err := s.repo.ListTasks(models.TaskFilter{})
	if err != nil {
		return ordering.Groups{}, fmt.Errorf("list tasks: %w", err)
	}
	return ordering.GroupByStatus(tasks), nil
}

// History returns the audit trail of a task, oldest first. The trail outlives
// the task itself.
func (s *Tasks) History(id string) ([]models.AuditEntry, error) {
	id, err := validation.ParseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.repo.ListAudit(id)
	if err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	if len(entries) == 0 {
		if _, err := s.find(id); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// find loads a task or returns ErrNotFound. Callers hold the lock.
func (s *Tasks) find(id string) (*models.Task, error) {
	task, err := s.repo.GetTask(id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return task, nil
}

// reject records a refused mutation.
func (s *Tasks) reject(action string, inputs any, taskID string, err error) {
	s.log.WithFields(logrus.Fields{
		"action":  action,
		"task_id": taskID,
	}).WithError(err).Debug("request rejected")
	s.audit.Record(action, inputs, audit.OutcomeRejected, taskID, err.Error())
}

func idInput(id string) map[string]string {
	return map[string]string{"id": id}
}
