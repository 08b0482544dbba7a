package ordering

import (
	"math/rand"
	"testing"
	"time"

	"github.com/fentz26/taskkeep/internal/models"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func ids(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSortDueDateThenPriority(t *testing.T) {
	created := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{ID: "D", Priority: models.PriorityLow, CreatedAt: created},
		{ID: "B", Priority: models.PriorityLow, DueDate: date(2026, 1, 5), CreatedAt: created},
		{ID: "C", Priority: models.PriorityHigh, CreatedAt: created},
		{ID: "A", Priority: models.PriorityMedium, DueDate: date(2026, 1, 1), CreatedAt: created},
	}

	Sort(tasks)

	want := []string{"A", "B", "C", "D"}
	if got := ids(tasks); !equalIDs(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSortMissingPriorityRanksAsMedium(t *testing.T) {
	created := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{ID: "low", Priority: models.PriorityLow, CreatedAt: created},
		{ID: "none", CreatedAt: created.Add(time.Hour)},
		{ID: "high", Priority: models.PriorityHigh, CreatedAt: created},
		{ID: "medium", Priority: models.PriorityMedium, CreatedAt: created},
	}

	Sort(tasks)

	want := []string{"high", "none", "medium", "low"}
	if got := ids(tasks); !equalIDs(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSortNewestFirstOnTie(t *testing.T) {
	base := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{ID: "old", Priority: models.PriorityMedium, CreatedAt: base},
		{ID: "new", Priority: models.PriorityMedium, CreatedAt: base.Add(2 * time.Minute)},
		{ID: "mid", Priority: models.PriorityMedium, CreatedAt: base.Add(time.Minute)},
	}

	Sort(tasks)

	want := []string{"new", "mid", "old"}
	if got := ids(tasks); !equalIDs(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSortIndependentOfInputOrder(t *testing.T) {
	base := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{ID: "a", DueDate: date(2026, 2, 1), Priority: models.PriorityLow, CreatedAt: base},
		{ID: "b", DueDate: date(2026, 2, 1), Priority: models.PriorityHigh, CreatedAt: base},
		{ID: "c", Priority: models.PriorityMedium, CreatedAt: base},
		{ID: "d", Priority: models.PriorityMedium, CreatedAt: base},
		{ID: "e", Priority: models.PriorityHigh, CreatedAt: base.Add(time.Second)},
		{ID: "f", DueDate: date(2026, 1, 15), CreatedAt: base},
	}

	reference := append([]models.Task(nil), tasks...)
	Sort(reference)
	want := ids(reference)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		shuffled := append([]models.Task(nil), tasks...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		Sort(shuffled)
		if got := ids(shuffled); !equalIDs(got, want) {
			t.Fatalf("order depends on input order: expected %v, got %v", want, got)
		}
	}

	if !equalIDs(want, []string{"f", "b", "a", "e", "c", "d"}) {
		t.Errorf("unexpected reference order %v", want)
	}
}

func TestGroupByStatus(t *testing.T) {
	base := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{ID: "p1", Status: models.TaskStatusPending, Priority: models.PriorityLow, CreatedAt: base},
		{ID: "c1", Status: models.TaskStatusCompleted, Priority: models.PriorityMedium, CreatedAt: base},
		{ID: "p2", Status: models.TaskStatusPending, Priority: models.PriorityHigh, DueDate: date(2026, 1, 1), CreatedAt: base},
	}

	g := GroupByStatus(tasks)

	if got := ids(g.Pending); !equalIDs(got, []string{"p2", "p1"}) {
		t.Errorf("unexpected pending order %v", got)
	}
	if g.InProgress == nil || len(g.InProgress) != 0 {
		t.Errorf("expected empty non-nil in-progress bucket, got %v", g.InProgress)
	}
	if got := ids(g.Completed); !equalIDs(got, []string{"c1"}) {
		t.Errorf("unexpected completed bucket %v", got)
	}
}
