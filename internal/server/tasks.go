package server

import (
	"net/http"

	"github.com/fentz26/taskkeep/internal/lifecycle"
	"github.com/fentz26/taskkeep/internal/models"
)

var taskHints = map[lifecycle.Operation]string{
	lifecycle.OpUpdate: "To make changes, reopen the task first with POST /api/tasks/{id}/reopen.",
	lifecycle.OpDelete: "Completed tasks are kept for record-keeping purposes.",
}

func taskResource(id string) resource {
	return resource{name: "Task", id: id, hints: taskHints}
}

// --- Task Handlers ---

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tasks, err := s.tasks.List(q.Get("status"), q.Get("priority"))
	if err != nil {
		s.handleError(w, r, err, taskResource(""))
		return
	}
	writeSuccess(w, http.StatusOK, "", envelope{"count": len(tasks), "data": tasks})
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeObject(w, r)
	if err != nil {
		writeBadBody(w, err)
		return
	}

	task, err := s.tasks.Create(raw)
	if err != nil {
		s.handleError(w, r, err, taskResource(""))
		return
	}
	writeSuccess(w, http.StatusCreated, "Task created successfully", envelope{"data": task})
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	task, err := s.tasks.Get(id)
	if err != nil {
		s.handleError(w, r, err, taskResource(id))
		return
	}
	writeSuccess(w, http.StatusOK, "", envelope{"data": task})
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	raw, err := decodeObject(w, r)
	if err != nil {
		writeBadBody(w, err)
		return
	}

	task, err := s.tasks.Update(id, raw)
	if err != nil {
		s.handleError(w, r, err, taskResource(id))
		return
	}
	writeSuccess(w, http.StatusOK, "Task updated successfully", envelope{"data": task})
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.tasks.Delete(id); err != nil {
		s.handleError(w, r, err, taskResource(id))
		return
	}
	writeSuccess(w, http.StatusOK, "Task deleted successfully", envelope{"data": envelope{}})
}

func (s *Server) reopenTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	task, err := s.tasks.Reopen(id)
	if err != nil {
		s.handleError(w, r, err, taskResource(id))
		return
	}
	writeSuccess(w, http.StatusOK, "Task reopened successfully. You can now edit this task.", envelope{"data": task})
}

func (s *Server) taskHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	entries, err := s.tasks.History(id)
	if err != nil {
		s.handleError(w, r, err, taskResource(id))
		return
	}
	writeSuccess(w, http.StatusOK, "", envelope{"count": len(entries), "data": entries})
}

func (s *Server) countTasks(w http.ResponseWriter, r *http.Request) {
	n, err := s.tasks.Count()
	if err != nil {
		s.handleError(w, r, err, taskResource(""))
		return
	}
	writeSuccess(w, http.StatusOK, "", envelope{"count": n})
}

type statusGroup struct {
	Count int           `json:"count"`
	Tasks []models.Task `json:"tasks"`
}

func (s *Server) tasksByStatus(w http.ResponseWriter, r *http.Request) {
	g, err := s.tasks.ByStatus()
	if err != nil {
		s.handleError(w, r, err, taskResource(""))
		return
	}
	writeSuccess(w, http.StatusOK, "", envelope{"data": map[string]statusGroup{
		"pending":    {Count: len(g.Pending), Tasks: g.Pending},
		"inProgress": {Count: len(g.InProgress), Tasks: g.InProgress},
		"completed":  {Count: len(g.Completed), Tasks: g.Completed},
	}})
}
