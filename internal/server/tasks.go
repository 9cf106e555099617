package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/taskflowhq/taskflow/internal/store"
)

// taskPayload is the JSON shape of a task on the wire.
type taskPayload struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Reminder    bool       `json:"reminder"`
	Priority    string     `json:"priority"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func toPayload(t *store.Task) taskPayload {
	p := taskPayload{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Reminder:    t.Reminder,
		Priority:    t.Priority,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.DueDate.Valid {
		due := t.DueDate.Time
		p.DueDate = &due
	}
	return p
}

// createTaskRequest is the body of POST /api/tasks.
type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Reminder    bool       `json:"reminder"`
	Priority    string     `json:"priority"`
}

// updateTaskRequest is the body of PUT /api/tasks/{id}. Pointer fields
// distinguish "leave unchanged" from an explicit zero value.
type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Completed   *bool      `json:"completed"`
	DueDate     *time.Time `json:"dueDate"`
	Reminder    *bool      `json:"reminder"`
	Priority    *string    `json:"priority"`
}

// handleTasks handles /api/tasks: GET lists the caller's tasks, POST creates
// one.
func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		tasks, err := s.store.ListTasks(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list tasks")
			return
		}
		payload := make([]taskPayload, 0, len(tasks))
		for _, t := range tasks {
			payload = append(payload, toPayload(t))
		}
		writeJSON(w, http.StatusOK, payload)

	case http.MethodPost:
		var req createTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Title) == "" {
			writeError(w, http.StatusBadRequest, "title is required")
			return
		}
		if req.Priority != "" && !store.ValidPriority(req.Priority) {
			writeError(w, http.StatusBadRequest, "priority must be low, medium, or high")
			return
		}

		task := &store.Task{
			OwnerID:     userID,
			Title:       strings.TrimSpace(req.Title),
			Description: req.Description,
			Reminder:    req.Reminder,
			Priority:    req.Priority,
		}
		if req.DueDate != nil {
			task.DueDate = sql.NullTime{Time: *req.DueDate, Valid: true}
		}
		if err := s.store.CreateTask(r.Context(), task); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create task")
			return
		}
		writeJSON(w, http.StatusCreated, toPayload(task))

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleTaskByID handles /api/tasks/{id}: GET, PUT, DELETE.
func (s *Server) handleTaskByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	task, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load task")
		return
	}
	if task.OwnerID != userID {
		writeError(w, http.StatusForbidden, "task belongs to another user")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, toPayload(task))

	case http.MethodPut:
		var req updateTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.Title != nil {
			if strings.TrimSpace(*req.Title) == "" {
				writeError(w, http.StatusBadRequest, "title must not be empty")
				return
			}
			task.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			task.Description = *req.Description
		}
		if req.Completed != nil {
			task.Completed = *req.Completed
		}
		if req.DueDate != nil {
			task.DueDate = sql.NullTime{Time: *req.DueDate, Valid: true}
		}
		if req.Reminder != nil {
			task.Reminder = *req.Reminder
		}
		if req.Priority != nil {
			if !store.ValidPriority(*req.Priority) {
				writeError(w, http.StatusBadRequest, "priority must be low, medium, or high")
				return
			}
			task.Priority = *req.Priority
		}
		if err := s.store.UpdateTask(r.Context(), task); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to update task")
			return
		}
		writeJSON(w, http.StatusOK, toPayload(task))

	case http.MethodDelete:
		if err := s.store.DeleteTask(r.Context(), id); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to delete task")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
