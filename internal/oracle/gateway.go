package oracle

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const defaultAskTimeout = 10 * time.Second

// GatewayConfig tunes the guardrails around the remote model.
type GatewayConfig struct {
	// Timeout bounds one Ask call end to end. Defaults to 10 s.
	Timeout time.Duration

	// RateLimit is the maximum Ask calls per user per minute.
	// Non-positive selects DefaultRateLimit.
	RateLimit int

	// DailyTokenBudget is the maximum LLM tokens per user per UTC day.
	// Non-positive selects DefaultTokenBudget.
	DailyTokenBudget int
}

// Gateway wraps a Provider with a timeout, per-user rate limiting, and
// per-user daily token accounting. All failure modes surface as
// ErrUnavailable so the conversation engine can fall back without inspecting
// the cause.
type Gateway struct {
	provider Provider
	timeout  time.Duration
	limiter  *RateLimiter
	budget   *TokenBudget
}

// NewGateway creates a gateway around provider. A nil provider is allowed
// and yields a gateway whose Ask always reports ErrUnavailable.
func NewGateway(provider Provider, cfg GatewayConfig) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultAskTimeout
	}
	return &Gateway{
		provider: provider,
		timeout:  timeout,
		limiter:  NewRateLimiter(cfg.RateLimit, 0),
		budget:   NewTokenBudget(cfg.DailyTokenBudget),
	}
}

// Ask sends one query to the model and returns its reply with any directive
// extracted. Returns an error wrapping ErrUnavailable on any failure.
func (g *Gateway) Ask(ctx context.Context, q Query) (*Reply, error) {
	if g == nil || g.provider == nil {
		return nil, fmt.Errorf("%w: no provider configured", ErrUnavailable)
	}

	userID := q.UserID
	if userID == "" {
		userID = "anonymous"
	}

	if !g.limiter.Allow(userID) {
		return nil, fmt.Errorf("%w: rate limit exceeded for user %q", ErrUnavailable, userID)
	}
	if !g.budget.Allow(userID) {
		return nil, fmt.Errorf("%w: daily token budget exhausted for user %q", ErrUnavailable, userID)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	started := time.Now()
	completion, err := g.provider.Complete(ctx, q)
	if err != nil {
		slog.Warn("oracle call failed",
			"error", err,
			"elapsed", time.Since(started).Round(time.Millisecond),
		)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if completion.Usage != nil {
		g.budget.RecordUsage(userID, completion.Usage.TotalTokens)
		slog.Debug("oracle tokens used",
			"user_id", userID,
			"total_tokens", completion.Usage.TotalTokens,
			"remaining_budget", g.budget.Remaining(userID),
		)
	}

	text, directive := ExtractDirective(completion.Text)
	return &Reply{Text: text, Directive: directive}, nil
}
