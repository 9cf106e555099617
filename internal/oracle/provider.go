// Package oracle talks to a remote OpenAI-compatible language model on behalf
// of the conversation engine. Every call is best-effort: the gateway bounds
// latency with a timeout, enforces per-user rate and token limits, and
// collapses all failures into ErrUnavailable so callers can fall back to the
// deterministic interpreter without caring why the model was unreachable.
package oracle

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by Gateway.Ask whenever the model cannot answer,
// for any reason: missing credentials, rate limit, token budget, transport
// failure, timeout, or a malformed response.
var ErrUnavailable = errors.New("oracle unavailable")

// Message is one prior conversation turn, replayed to the model for context.
// Role is "user" or "assistant".
type Message struct {
	Role    string
	Content string
}

// TaskSummary is the caller's task snapshot, folded into the system prompt so
// the model can answer questions about existing tasks.
type TaskSummary struct {
	Title     string
	Completed bool
}

// Query is one request to the model.
type Query struct {
	// UserID keys rate limiting and token accounting. Empty is treated as
	// the anonymous user.
	UserID string

	// Message is the user's current utterance.
	Message string

	// Tasks is the user's current task list.
	Tasks []TaskSummary

	// History is the recent conversation, oldest first.
	History []Message
}

// Completion is a raw model answer before directive extraction.
type Completion struct {
	Text  string
	Usage *TokenUsage
}

// TokenUsage carries the token accounting the API reported for one call.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Provider is a backend that can produce completions. Implementations must be
// safe for concurrent use.
type Provider interface {
	Complete(ctx context.Context, q Query) (*Completion, error)
}
