package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fentz26/taskkeep/internal/models"
)

// fixedNow is a Tuesday noon in UTC.
var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return New(WithClock(func() time.Time { return fixedNow }))
}

func fieldErrors(t *testing.T, err error) FieldErrors {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	return verr.Fields
}

func TestTaskCreateSanitizesTitle(t *testing.T) {
	e := newTestEngine()

	patch, err := e.TaskCreate(map[string]any{"title": "  Ship \t  the\n release  "})
	if err != nil {
		t.Fatalf("TaskCreate failed: %v", err)
	}
	if patch.Title == nil || *patch.Title != "Ship the release" {
		t.Errorf("unexpected title %v", patch.Title)
	}
	if patch.Status != nil || patch.Priority != nil || patch.DueDate != nil || patch.Description != nil {
		t.Errorf("expected only title to be set, got %+v", patch)
	}
}

func TestTaskCreateRequiresTitle(t *testing.T) {
	e := newTestEngine()

	for _, raw := range []map[string]any{
		{},
		{"title": "   "},
		{"description": "no title here"},
	} {
		_, err := e.TaskCreate(raw)
		fields := fieldErrors(t, err)
		if fields[FieldTitle] != msgTitleRequired {
			t.Errorf("raw %v: expected title required, got %q", raw, fields[FieldTitle])
		}
	}
}

func TestTaskTitleRules(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name  string
		title any
		want  string
	}{
		{"too short", "ab", msgTitleLength},
		{"too long", strings.Repeat("a", 201), msgTitleLength},
		{"html", "<b>bold</b>", msgTitleCharset},
		{"ampersand", "Tom & Jerry", msgTitleCharset},
		{"not a string", 42.0, "title must be a string"},
		{"null", nil, "title must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.TaskCreate(map[string]any{"title": tt.title})
			fields := fieldErrors(t, err)
			if fields[FieldTitle] != tt.want {
				t.Errorf("expected %q, got %q", tt.want, fields[FieldTitle])
			}
		})
	}

	if _, err := e.TaskCreate(map[string]any{"title": "Fix bug #12"}); err == nil {
		t.Error("expected '#' to be rejected")
	}
	if _, err := e.TaskCreate(map[string]any{"title": "Done? Yes (mostly), ok - v1.2_final!"}); err != nil {
		t.Errorf("expected punctuation title to pass, got %v", err)
	}
}

func TestTaskDescriptionEscaped(t *testing.T) {
	e := newTestEngine()

	patch, err := e.TaskCreate(map[string]any{
		"title":       "Escape check",
		"description": "  <script>alert('x')</script>\n\n  next   line ",
	})
	if err != nil {
		t.Fatalf("TaskCreate failed: %v", err)
	}
	want := "&lt;script&gt;alert(&#x27;x&#x27;)&lt;&#x2F;script&gt; next line"
	if patch.Description == nil || *patch.Description != want {
		t.Errorf("expected %q, got %v", want, patch.Description)
	}

	_, err = e.TaskCreate(map[string]any{"title": "Long one", "description": strings.Repeat("x", 1001)})
	if fields := fieldErrors(t, err); fields[FieldDescription] != msgDescriptionLong {
		t.Errorf("expected description length error, got %q", fields[FieldDescription])
	}
}

func TestTaskEnumsNormalized(t *testing.T) {
	e := newTestEngine()

	patch, err := e.TaskCreate(map[string]any{
		"title":    "Normalize",
		"status":   " IN-PROGRESS ",
		"priority": "Low",
	})
	if err != nil {
		t.Fatalf("TaskCreate failed: %v", err)
	}
	if *patch.Status != models.TaskStatusInProgress {
		t.Errorf("expected in-progress, got %s", *patch.Status)
	}
	if *patch.Priority != models.PriorityLow {
		t.Errorf("expected low, got %s", *patch.Priority)
	}

	_, err = e.TaskCreate(map[string]any{"title": "Bad enums", "status": "done", "priority": "urgent"})
	fields := fieldErrors(t, err)
	if fields[FieldStatus] != msgStatusInvalid {
		t.Errorf("unexpected status message %q", fields[FieldStatus])
	}
	if fields[FieldPriority] != msgPriorityInvalid {
		t.Errorf("unexpected priority message %q", fields[FieldPriority])
	}
}

func TestTaskDueDateRules(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name     string
		due      any
		priority string
		want     string
	}{
		{"unparseable", "next tuesday", "", msgDueDateFormat},
		{"empty", "", "", msgDueDateFormat},
		{"not a string", 12.0, "", "dueDate must be a string"},
		{"null", nil, "", msgDueDateFormat},
		{"yesterday", "2026-03-09T23:59:59Z", "", msgDueDatePast},
		{"beyond five years", "2031-03-11", "", msgDueDateTooFar},
		{"high beyond seven days", "2026-03-18T00:00:00Z", "high", msgHighDueWindow},
		{"high without due", nil, "high", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := map[string]any{"title": "Due date"}
			if tt.priority != "" {
				raw["priority"] = tt.priority
			}
			if tt.name != "high without due" {
				raw["dueDate"] = tt.due
			}
			_, err := e.TaskCreate(raw)
			fields := fieldErrors(t, err)
			want := tt.want
			if want == "" {
				want = msgHighNeedsDueDate
			}
			if fields[FieldDueDate] != want {
				t.Errorf("expected %q, got %q", want, fields[FieldDueDate])
			}
		})
	}
}

func TestTaskDueDateAccepted(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name     string
		due      string
		priority string
		want     time.Time
	}{
		{"start of today", "2026-03-10", "", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"rfc3339 offset", "2026-04-01T10:00:00+02:00", "", time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)},
		{"fractional", "2026-04-01T10:00:00.250Z", "medium", time.Date(2026, 4, 1, 10, 0, 0, 250000000, time.UTC)},
		{"zone-less", "2026-04-01T10:00", "", time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)},
		{"high in three days", "2026-03-13T09:00:00Z", "high", time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC)},
		{"high end of seventh day", "2026-03-17T23:59:59Z", "HIGH", time.Date(2026, 3, 17, 23, 59, 59, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := map[string]any{"title": "Due date", "dueDate": tt.due}
			if tt.priority != "" {
				raw["priority"] = tt.priority
			}
			patch, err := e.TaskCreate(raw)
			if err != nil {
				t.Fatalf("TaskCreate failed: %v", err)
			}
			if patch.DueDate == nil || !patch.DueDate.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, patch.DueDate)
			}
			if patch.DueDate.Location() != time.UTC {
				t.Errorf("expected due date stored in UTC, got %v", patch.DueDate.Location())
			}
		})
	}
}

func TestTaskCollectsEveryViolation(t *testing.T) {
	e := newTestEngine()

	_, err := e.TaskCreate(map[string]any{
		"title":    "ab",
		"status":   "archived",
		"priority": "high",
		"color":    "red",
		"owner":    "me",
	})
	fields := fieldErrors(t, err)

	for _, field := range []string{FieldTitle, FieldStatus, FieldDueDate, "color", "owner"} {
		if _, ok := fields[field]; !ok {
			t.Errorf("expected error for %s, got %v", field, fields)
		}
	}
	if len(fields) != 5 {
		t.Errorf("expected 5 field errors, got %d: %v", len(fields), fields)
	}

	var verr *Error
	errors.As(err, &verr)
	details := verr.Details()
	if len(details) != 5 || !strings.HasPrefix(details[0], "color: ") {
		t.Errorf("expected sorted details, got %v", details)
	}
}

func TestTaskUpdateRequiresAField(t *testing.T) {
	e := newTestEngine()

	_, err := e.TaskUpdate(map[string]any{})
	if fields := fieldErrors(t, err); fields[BodyField] != msgEmptyUpdate {
		t.Errorf("expected empty update error, got %v", fields)
	}

	_, err = e.TaskUpdate(map[string]any{"colour": "blue"})
	fields := fieldErrors(t, err)
	if _, ok := fields["colour"]; !ok {
		t.Error("expected unknown field to be reported")
	}
	if _, ok := fields[BodyField]; !ok {
		t.Error("expected empty update error alongside unknown field")
	}

	patch, err := e.TaskUpdate(map[string]any{"status": "completed"})
	if err != nil {
		t.Fatalf("TaskUpdate failed: %v", err)
	}
	if patch.Title != nil || *patch.Status != models.TaskStatusCompleted {
		t.Errorf("unexpected patch %+v", patch)
	}
}

func TestTaskUpdateHighPriorityNeedsDueDate(t *testing.T) {
	e := newTestEngine()

	_, err := e.TaskUpdate(map[string]any{"priority": "high"})
	if fields := fieldErrors(t, err); fields[FieldDueDate] != msgHighNeedsDueDate {
		t.Errorf("expected dueDate error, got %v", fields)
	}
}

func TestCheckDeadline(t *testing.T) {
	e := newTestEngine()
	soon := fixedNow.Add(48 * time.Hour)
	late := fixedNow.AddDate(0, 0, 9)

	if err := e.CheckDeadline(models.Task{Priority: models.PriorityHigh, DueDate: &soon}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if err := e.CheckDeadline(models.Task{Priority: models.PriorityLow, DueDate: &late}); err != nil {
		t.Errorf("expected low priority to be unconstrained, got %v", err)
	}
	if fields := fieldErrors(t, e.CheckDeadline(models.Task{Priority: models.PriorityHigh, DueDate: &late})); fields[FieldDueDate] != msgHighDueWindow {
		t.Errorf("unexpected message %v", fields)
	}
	if fields := fieldErrors(t, e.CheckDeadline(models.Task{Priority: models.PriorityHigh})); fields[FieldDueDate] != msgHighNeedsDueDate {
		t.Errorf("unexpected message %v", fields)
	}
}

func TestTaskFilter(t *testing.T) {
	e := newTestEngine()

	filter := e.TaskFilter(" pending ", "high")
	if filter.Status != models.TaskStatusPending || filter.Priority != models.PriorityHigh {
		t.Errorf("unexpected filter %+v", filter)
	}

	if filter := e.TaskFilter("", ""); filter != (models.TaskFilter{}) {
		t.Errorf("expected empty filter, got %+v", filter)
	}

	// Unknown and differently cased values are kept verbatim and match nothing.
	filter = e.TaskFilter("blocked", "HIGH")
	task := models.Task{Status: models.TaskStatusPending, Priority: models.PriorityHigh}
	if filter.Status != "blocked" || filter.Matches(task) {
		t.Errorf("unknown filter should match nothing, got %+v", filter)
	}
	if e.TaskFilter("", "HIGH").Matches(task) {
		t.Error("filters are case sensitive")
	}
}

func TestDateOnlyDueDateIsUTC(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	e := New(WithClock(func() time.Time { return fixedNow.In(tokyo) }))

	patch, err := e.TaskCreate(map[string]any{"title": "Ship release", "dueDate": "2026-03-15"})
	if err != nil {
		t.Fatalf("TaskCreate failed: %v", err)
	}
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if patch.DueDate == nil || !patch.DueDate.Equal(want) {
		t.Errorf("expected %v, got %v", want, patch.DueDate)
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 123E4567-E89B-12D3-A456-426614174000 ")
	if err != nil {
		t.Fatalf("ParseID failed: %v", err)
	}
	if id != "123e4567-e89b-12d3-a456-426614174000" {
		t.Errorf("expected lowercase id, got %s", id)
	}

	if _, err := ParseID("not-a-uuid"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
}
