// Package ordering defines the order in which task lists are presented.
package ordering

import (
	"sort"

	"github.com/fentz26/taskkeep/internal/models"
)

// priorityRank maps priorities to their sort rank; lower sorts first.
var priorityRank = map[models.Priority]int{
	models.PriorityHigh:   1,
	models.PriorityMedium: 2,
	models.PriorityLow:    3,
}

// rank returns the sort rank of p. Missing or unknown priorities rank as medium.
func rank(p models.Priority) int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return priorityRank[models.PriorityMedium]
}

// Less reports whether a sorts before b:
// dated tasks first, earliest due date first, then priority rank,
// then newest createdAt, then id.
func Less(a, b models.Task) bool {
	switch {
	case a.DueDate != nil && b.DueDate == nil:
		return true
	case a.DueDate == nil && b.DueDate != nil:
		return false
	case a.DueDate != nil && b.DueDate != nil && !a.DueDate.Equal(*b.DueDate):
		return a.DueDate.Before(*b.DueDate)
	}

	if ra, rb := rank(a.Priority), rank(b.Priority); ra != rb {
		return ra < rb
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}

// Sort orders tasks in place.
func Sort(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return Less(tasks[i], tasks[j])
	})
}

// Groups holds tasks bucketed by status, each bucket sorted.
type Groups struct {
	Pending    []models.Task
	InProgress []models.Task
	Completed  []models.Task
}

// GroupByStatus buckets tasks by status. Buckets are never nil.
func GroupByStatus(tasks []models.Task) Groups {
	g := Groups{
		Pending:    []models.Task{},
		InProgress: []models.Task{},
		Completed:  []models.Task{},
	}
	for _, t := range tasks {
		switch t.Status {
		case models.TaskStatusPending:
			g.Pending = append(g.Pending, t)
		case models.TaskStatusInProgress:
			g.InProgress = append(g.InProgress, t)
		case models.TaskStatusCompleted:
			g.Completed = append(g.Completed, t)
		}
	}
	Sort(g.Pending)
	Sort(g.InProgress)
	Sort(g.Completed)
	return g
}
