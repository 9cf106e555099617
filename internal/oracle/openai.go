package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	maxReplyTokens = 500
)

// Config configures the OpenAI-compatible provider.
type Config struct {
	// APIKey is the bearer token used to authenticate against the API.
	APIKey string

	// BaseURL overrides the API endpoint. Useful for local models (Ollama),
	// Azure OpenAI, or any other OpenAI-compatible endpoint.
	// Defaults to https://api.openai.com/v1 when empty.
	BaseURL string

	// Model is the chat model to use. Defaults to gpt-4o-mini when empty.
	Model string
}

// openAIProvider implements Provider using the OpenAI chat completions API.
// Request lifetime is bounded by the caller's context, so the underlying
// http.Client carries no timeout of its own.
type openAIProvider struct {
	cfg    Config
	client *http.Client
}

// NewProvider returns a Provider backed by the OpenAI (or compatible) chat
// API. The returned provider is safe for concurrent use.
func NewProvider(cfg Config) Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	return &openAIProvider{
		cfg:    cfg,
		client: &http.Client{},
	}
}

// --- minimal OpenAI wire types ---

type oaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type oaiRequest struct {
	Model       string       `json:"model"`
	Messages    []oaiMessage `json:"messages"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
	Temperature float64      `json:"temperature"`
}

type oaiResponse struct {
	Choices []oaiChoice `json:"choices"`
	Usage   *oaiUsage   `json:"usage,omitempty"`
	Error   *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

type oaiChoice struct {
	Message      oaiMessage `json:"message"`
	FinishReason string     `json:"finish_reason"`
}

type oaiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// systemPromptTmpl is the instruction set sent as the "system" message.
// One printf verb is substituted at call time: the rendered task context.
const systemPromptTmpl = `You are TaskFlow Assistant, a friendly AI helper inside a personal task manager.
You help the user organise their tasks and offer short productivity advice.

%s

When the user asks you to create a task, include this exact single-line directive
somewhere in your reply, with the task name filled in:
{"action": "addTask", "taskTitle": "task name here"}

Keep replies concise and friendly, and use relevant emojis.`

// Complete sends the conversation to the model and returns its raw answer.
func (p *openAIProvider) Complete(ctx context.Context, q Query) (*Completion, error) {
	messages := make([]oaiMessage, 0, len(q.History)+2)
	messages = append(messages, oaiMessage{
		Role:    "system",
		Content: fmt.Sprintf(systemPromptTmpl, taskContext(q.Tasks)),
	})
	for _, m := range q.History {
		messages = append(messages, oaiMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, oaiMessage{Role: "user", Content: q.Message})

	body := oaiRequest{
		Model:       p.cfg.Model,
		Messages:    messages,
		MaxTokens:   maxReplyTokens,
		Temperature: 0.7,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("oracle: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.BaseURL+"/chat/completions",
		bytes.NewReader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("oracle: create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("oracle: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("oracle: read response body: %w", err)
	}

	var oaiResp oaiResponse
	if err := json.Unmarshal(respBody, &oaiResp); err != nil {
		return nil, fmt.Errorf("oracle: decode API response: %w", err)
	}

	if oaiResp.Error != nil {
		return nil, fmt.Errorf("oracle: API error (%s): %s", oaiResp.Error.Type, oaiResp.Error.Message)
	}

	if len(oaiResp.Choices) == 0 {
		return nil, fmt.Errorf("oracle: no choices returned (HTTP %d)", resp.StatusCode)
	}

	completion := &Completion{Text: oaiResp.Choices[0].Message.Content}
	if oaiResp.Usage != nil {
		completion.Usage = &TokenUsage{
			PromptTokens:     oaiResp.Usage.PromptTokens,
			CompletionTokens: oaiResp.Usage.CompletionTokens,
			TotalTokens:      oaiResp.Usage.TotalTokens,
		}
	}
	return completion, nil
}

// taskContext renders the user's task list for the system prompt.
func taskContext(tasks []TaskSummary) string {
	if len(tasks) == 0 {
		return "The user has no tasks yet."
	}
	parts := make([]string, len(tasks))
	for i, t := range tasks {
		status := "pending"
		if t.Completed {
			status = "completed"
		}
		parts[i] = fmt.Sprintf("%q (%s)", t.Title, status)
	}
	return "The user's current tasks: " + strings.Join(parts, ", ") + "."
}
