package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/fentz26/taskkeep/internal/models"
)

// Task payload field names.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldPriority    = "priority"
	FieldDueDate     = "dueDate"
)

// TaskFields lists every field a task payload may carry.
var TaskFields = []string{FieldTitle, FieldDescription, FieldStatus, FieldPriority, FieldDueDate}

const (
	msgTitleRequired    = "Title is required and cannot be empty"
	msgTitleLength      = "Title must be between 3 and 200 characters"
	msgTitleCharset     = "Title can only contain letters, numbers, spaces, and basic punctuation (- _ , . ! ? ( ))"
	msgDescriptionLong  = "Description must not exceed 1000 characters"
	msgStatusInvalid    = "Status must be one of: pending, in-progress, completed"
	msgPriorityInvalid  = "Priority must be one of: low, medium, high"
	msgDueDateFormat    = "Due date must be a valid ISO 8601 date format (e.g., 2026-12-31T10:00:00Z)"
	msgDueDatePast      = "Due date cannot be in the past. Please select a future date."
	msgDueDateTooFar    = "Due date cannot be more than 5 years in the future."
	msgHighNeedsDueDate = "Due date is required for high priority tasks and must be within 7 days."
	msgHighDueWindow    = "High priority tasks must have a due date within 7 days from today."
	msgEmptyUpdate      = "At least one field must be provided for update. Allowed fields: title, description, status, priority, dueDate"
)

var titleCharset = regexp.MustCompile(`^[A-Za-z0-9 \-_,.!?()]+$`)

type mode int

const (
	modeCreate mode = iota
	modeUpdate
)

// TaskCreate validates a creation payload. Title is required; every other
// field is optional and defaulted by the store.
func (e *Engine) TaskCreate(raw map[string]any) (models.TaskPatch, error) {
	return e.task(raw, modeCreate)
}

// TaskUpdate validates an update payload. At least one known field must be
// present.
func (e *Engine) TaskUpdate(raw map[string]any) (models.TaskPatch, error) {
	return e.task(raw, modeUpdate)
}

func (e *Engine) task(raw map[string]any, m mode) (models.TaskPatch, error) {
	var patch models.TaskPatch
	errs := FieldErrors{}

	unknown := unexpectedFields(raw, TaskFields)
	for _, name := range unknown {
		errs.add(name, "Unexpected field. Allowed fields are: "+strings.Join(TaskFields, ", "))
	}

	if m == modeUpdate && len(unknown) == len(raw) {
		errs.add(BodyField, msgEmptyUpdate)
	}

	titleChain := chain{trim, notEmpty(msgTitleRequired), collapseSpaces, length(3, 200, msgTitleLength), matches(titleCharset, msgTitleCharset), escapeHTML}
	if v, ok := raw[FieldTitle]; ok {
		if s, err := e.field(FieldTitle, v, titleChain); err != nil {
			errs.add(FieldTitle, err.Error())
		} else {
			patch.Title = &s
		}
	} else if m == modeCreate {
		errs.add(FieldTitle, msgTitleRequired)
	}

	descChain := chain{trim, escapeHTML, collapseSpaces, length(0, 1000, msgDescriptionLong)}
	if v, ok := raw[FieldDescription]; ok {
		if s, err := e.field(FieldDescription, v, descChain); err != nil {
			errs.add(FieldDescription, err.Error())
		} else {
			patch.Description = &s
		}
	}

	statusChain := chain{trim, lower, e.oneOf(msgStatusInvalid, statusValues()...)}
	if v, ok := raw[FieldStatus]; ok {
		if s, err := e.field(FieldStatus, v, statusChain); err != nil {
			errs.add(FieldStatus, err.Error())
		} else {
			status := models.TaskStatus(s)
			patch.Status = &status
		}
	}

	priorityChain := chain{trim, lower, e.oneOf(msgPriorityInvalid, priorityValues()...)}
	if v, ok := raw[FieldPriority]; ok {
		if s, err := e.field(FieldPriority, v, priorityChain); err != nil {
			errs.add(FieldPriority, err.Error())
		} else {
			priority := models.Priority(s)
			patch.Priority = &priority
		}
	}

	highPriority := patch.Priority != nil && *patch.Priority == models.PriorityHigh

	if v, ok := raw[FieldDueDate]; ok && v != nil {
		s, err := e.field(FieldDueDate, v, chain{trim, notEmpty(msgDueDateFormat)})
		if err != nil {
			errs.add(FieldDueDate, err.Error())
		} else if due, err := parseDueDate(s, time.UTC); err != nil {
			errs.add(FieldDueDate, msgDueDateFormat)
		} else if msg := e.checkDueDate(due, highPriority); msg != "" {
			errs.add(FieldDueDate, msg)
		} else {
			due = due.UTC()
			patch.DueDate = &due
		}
	} else if ok {
		errs.add(FieldDueDate, msgDueDateFormat)
	} else if highPriority {
		errs.add(FieldDueDate, msgHighNeedsDueDate)
	}

	if err := errs.err(); err != nil {
		return models.TaskPatch{}, err
	}
	return patch, nil
}

// field converts raw to a string and runs it through c.
func (e *Engine) field(name string, raw any, c chain) (string, error) {
	s, err := asString(name, raw)
	if err != nil {
		return "", err
	}
	return c.run(s)
}

// checkDueDate returns the first date rule due violates, or "".
func (e *Engine) checkDueDate(due time.Time, high bool) string {
	now := e.now()
	if due.Before(startOfDay(now)) {
		return msgDueDatePast
	}
	if due.After(now.AddDate(5, 0, 0)) {
		return msgDueDateTooFar
	}
	if high && due.After(highPriorityDeadline(now)) {
		return msgHighDueWindow
	}
	return ""
}

// CheckDeadline enforces the high priority due date window on a complete
// record. Updates that send only one of priority or dueDate are checked
// against the merged result with it.
func (e *Engine) CheckDeadline(t models.Task) error {
	if t.Priority != models.PriorityHigh {
		return nil
	}
	errs := FieldErrors{}
	switch {
	case t.DueDate == nil:
		errs.add(FieldDueDate, msgHighNeedsDueDate)
	case t.DueDate.After(highPriorityDeadline(e.now())):
		errs.add(FieldDueDate, msgHighDueWindow)
	}
	return errs.err()
}

// TaskFilter normalizes list filters. Empty values mean "no filter"; a
// value that names no known status or priority matches no task.
func (e *Engine) TaskFilter(status, priority string) models.TaskFilter {
	return models.TaskFilter{
		Status:   models.TaskStatus(strings.TrimSpace(status)),
		Priority: models.Priority(strings.TrimSpace(priority)),
	}
}

func statusValues() []string {
	var values []string
	for _, s := range models.TaskStatuses() {
		values = append(values, string(s))
	}
	return values
}

func priorityValues() []string {
	var values []string
	for _, p := range models.Priorities() {
		values = append(values, string(p))
	}
	return values
}
