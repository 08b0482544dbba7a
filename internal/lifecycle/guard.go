// Package lifecycle decides which mutations a task's current status allows.
//
// The rules live in a single table keyed by status and operation. Only entry
// into and exit from the completed state is gated: a completed task is locked
// against updates and deletes, and reopen is its only way out.
package lifecycle

import (
	"errors"
	"fmt"

	"github.com/fentz26/taskkeep/internal/models"
)

// Operation is a mutating request against an existing task.
type Operation string

const (
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
	OpReopen Operation = "reopen"
)

// Operations lists every operation the guard knows.
func Operations() []Operation {
	return []Operation{OpUpdate, OpDelete, OpReopen}
}

var (
	// ErrLocked is returned for updates and deletes on a completed task.
	ErrLocked = errors.New("task is completed and locked")

	// ErrIllegalTransition is returned when the current status has no
	// transition for the operation.
	ErrIllegalTransition = errors.New("illegal status transition")
)

// TransitionError reports an operation the current status does not allow.
type TransitionError struct {
	Op   Operation
	From models.TaskStatus
	Err  error
}

func (e *TransitionError) Error() string {
	if e.Err == ErrLocked {
		return fmt.Sprintf("cannot %s task: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("cannot %s task in status %q: only completed tasks can be reopened", e.Op, e.From)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// Decision is the outcome of a permitted check.
type Decision struct {
	// Next is the status the task must move to, or "" to leave it to the patch.
	Next models.TaskStatus
}

type rule struct {
	allow bool
	next  models.TaskStatus
	err   error
}

var table = map[models.TaskStatus]map[Operation]rule{
	models.TaskStatusPending: {
		OpUpdate: {allow: true},
		OpDelete: {allow: true},
		OpReopen: {err: ErrIllegalTransition},
	},
	models.TaskStatusInProgress: {
		OpUpdate: {allow: true},
		OpDelete: {allow: true},
		OpReopen: {err: ErrIllegalTransition},
	},
	models.TaskStatusCompleted: {
		OpUpdate: {err: ErrLocked},
		OpDelete: {err: ErrLocked},
		OpReopen: {allow: true, next: models.TaskStatusInProgress},
	},
}

// Guard checks operations against the transition table. It keeps no state
// of its own; callers pass the record as currently stored.
type Guard struct{}

// New returns a Guard.
func New() *Guard {
	return &Guard{}
}

// Check reports whether op is allowed on current. Rejections are
// *TransitionError values wrapping ErrLocked or ErrIllegalTransition.
func (g *Guard) Check(current models.Task, op Operation) (Decision, error) {
	ops, ok := table[current.Status]
	if !ok {
		return Decision{}, &TransitionError{Op: op, From: current.Status, Err: ErrIllegalTransition}
	}
	r, ok := ops[op]
	if !ok {
		return Decision{}, &TransitionError{Op: op, From: current.Status, Err: ErrIllegalTransition}
	}
	if !r.allow {
		return Decision{}, &TransitionError{Op: op, From: current.Status, Err: r.err}
	}
	return Decision{Next: r.next}, nil
}
