// Package models defines the core domain types for taskkeep.
package models

import "time"

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// TaskStatuses returns all valid statuses in display order.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}
}

// IsValid reports whether the status is a known value.
func (s TaskStatus) IsValid() bool {
	for _, valid := range TaskStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// Priority represents the importance of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities returns all valid priorities, most urgent first.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// IsValid reports whether the priority is a known value.
func (p Priority) IsValid() bool {
	for _, valid := range Priorities() {
		if p == valid {
			return true
		}
	}
	return false
}

// Task represents a tracked unit of work.
//
// Task is treated as a value: updates build a new Task with Apply and the
// store replaces the previous record wholesale.
type Task struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Status      TaskStatus `json:"status" yaml:"status"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" yaml:"updatedAt"`
}

// TaskPatch carries sanitized field values for create and update.
// Nil pointers mean "leave this field alone".
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *Priority
	DueDate     *time.Time
}

// IsEmpty reports whether the patch sets no field at all.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Priority == nil && p.DueDate == nil
}

// Apply returns a copy of t with every field present in p overwritten and
// UpdatedAt set to now.
func (t Task) Apply(p TaskPatch, now time.Time) Task {
	next := t
	if p.Title != nil {
		next.Title = *p.Title
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.Status != nil {
		next.Status = *p.Status
	}
	if p.Priority != nil {
		next.Priority = *p.Priority
	}
	if p.DueDate != nil {
		due := *p.DueDate
		next.DueDate = &due
	}
	next.UpdatedAt = now
	return next
}

// TaskFilter selects tasks by equality on status and priority.
// Empty values match everything.
type TaskFilter struct {
	Status   TaskStatus
	Priority Priority
}

// Matches reports whether t passes the filter.
func (f TaskFilter) Matches(t Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	return true
}

// Role is the access role recorded on a user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleUser     Role = "user"
	RoleCustomer Role = "customer"
)

// User represents a registered person.
// Password is kept in cleartext and is never serialized.
type User struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email" yaml:"email"`
	Password  string    `json:"-" yaml:"-"`
	Role      Role      `json:"role" yaml:"role"`
	Phone     string    `json:"phone,omitempty" yaml:"phone,omitempty"`
	Address   string    `json:"address,omitempty" yaml:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// UserPatch carries sanitized user fields. Nil pointers are left untouched.
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
	Role     *Role
	Phone    *string
	Address  *string
}

// Apply returns a copy of u with the patch applied and UpdatedAt set to now.
func (u User) Apply(p UserPatch, now time.Time) User {
	next := u
	if p.Name != nil {
		next.Name = *p.Name
	}
	if p.Email != nil {
		next.Email = *p.Email
	}
	if p.Password != nil {
		next.Password = *p.Password
	}
	if p.Role != nil {
		next.Role = *p.Role
	}
	if p.Phone != nil {
		next.Phone = *p.Phone
	}
	if p.Address != nil {
		next.Address = *p.Address
	}
	next.UpdatedAt = now
	return next
}

// AuditEntry records a decision taken on a mutating request. TaskID holds the
// id of the task or user the entry concerns.
type AuditEntry struct {
	ID         string    `json:"id" yaml:"id"`
	Action     string    `json:"action" yaml:"action"`
	InputsHash string    `json:"inputsHash" yaml:"inputsHash"`
	Outcome    string    `json:"outcome" yaml:"outcome"`
	TaskID     string    `json:"taskId,omitempty" yaml:"taskId,omitempty"`
	Details    string    `json:"details,omitempty" yaml:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
}
