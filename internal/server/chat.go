package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/taskflowhq/taskflow/internal/chat"
	"github.com/taskflowhq/taskflow/internal/observability"
	"github.com/taskflowhq/taskflow/internal/store"
)

// anonymousUser keys sessions and rate limits for callers that supply no
// identity. The store is never read or written for them; any grounding
// comes from the snapshot in the request body.
const anonymousUser = "anonymous"

// chatTaskPayload is a caller-supplied task snapshot entry.
type chatTaskPayload struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// chatRequest is the body of POST /api/chat. The user may arrive via the
// X-User-Id header or the body; the header wins. Identity-less callers may
// send a sessionId so their dialogue state is not shared with every other
// anonymous client, and a tasks snapshot so list/stats questions and the
// oracle prompt are grounded even though the server holds no tasks for them.
type chatRequest struct {
	Message   string            `json:"message"`
	UserID    string            `json:"userId"`
	SessionID string            `json:"sessionId"`
	Tasks     []chatTaskPayload `json:"tasks"`
}

// chatResponse mirrors the engine result on the wire.
type chatResponse struct {
	Response     string `json:"response"`
	Action       string `json:"action,omitempty"`
	TaskTitle    string `json:"taskTitle,omitempty"`
	NeedsDetails bool   `json:"needsDetails"`
}

// handleChat runs one conversational turn: load the session and task
// snapshot, hand the utterance to the engine, persist any emitted action,
// and save the new dialogue state.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	userID := r.Header.Get(userHeader)
	if userID == "" {
		userID = strings.TrimSpace(req.UserID)
	}
	if userID == "" {
		userID = anonymousUser
	}

	// Anonymous clients get their own dialogue state when they supply a
	// session ID; without one they all share a single bucket.
	sessionKey := userID
	if userID == anonymousUser {
		if sid := strings.TrimSpace(req.SessionID); sid != "" {
			sessionKey = anonymousUser + ":" + sid
		}
	}

	ctx := r.Context()
	log := observability.WithTrace(ctx)

	state, history := s.sessions.Get(sessionKey)

	// Identified users are grounded from the store; anonymous callers from
	// the snapshot they sent, if any.
	var tasks []chat.TaskSummary
	if userID != anonymousUser {
		stored, err := s.store.ListTasks(ctx, userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load tasks")
			return
		}
		tasks = make([]chat.TaskSummary, len(stored))
		for i, t := range stored {
			tasks[i] = chat.TaskSummary{Title: t.Title, Completed: t.Completed}
		}
	} else if len(req.Tasks) > 0 {
		tasks = make([]chat.TaskSummary, len(req.Tasks))
		for i, t := range req.Tasks {
			tasks[i] = chat.TaskSummary{Title: t.Title, Completed: t.Completed}
		}
	}

	result := s.engine.Handle(ctx, chat.Request{
		UserID:    userID,
		Utterance: message,
		State:     state,
		Tasks:     tasks,
		History:   history,
	})

	resp := chatResponse{
		Response:     result.Reply,
		NeedsDetails: result.NeedsDetails,
	}

	if result.Action != nil {
		resp.Action = result.Action.Kind
		resp.TaskTitle = result.Action.Title
		if userID != anonymousUser {
			task := &store.Task{
				OwnerID:     userID,
				Title:       result.Action.Title,
				Description: result.Action.Description,
			}
			if err := s.store.CreateTask(ctx, task); err != nil {
				log.Error("create task from chat failed", "error", err)
				writeError(w, http.StatusInternalServerError, "failed to create task")
				return
			}
			log.Info("task created from chat", "task_id", task.ID, "user_id", userID)
		}
	}

	s.sessions.Update(sessionKey, result.State, message, result.Reply)

	writeJSON(w, http.StatusOK, resp)
}
