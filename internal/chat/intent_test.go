package chat_test

import (
	"testing"

	"github.com/taskflowhq/taskflow/internal/chat"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		wantKind  chat.IntentKind
		wantTitle string
	}{
		{
			name:      "add with full phrase",
			utterance: "Add a task to buy groceries",
			wantKind:  chat.IntentAddTask,
			wantTitle: "buy groceries",
		},
		{
			name:      "create without filler words",
			utterance: "create finish the report",
			wantKind:  chat.IntentAddTask,
			wantTitle: "finish the report",
		},
		{
			name:      "add todo phrasing",
			utterance: "add a todo call the dentist",
			wantKind:  chat.IntentAddTask,
			wantTitle: "call the dentist",
		},
		{
			name:      "add without a title",
			utterance: "add a task",
			wantKind:  chat.IntentAddTask,
			wantTitle: "",
		},
		{
			name:      "add with too-short title",
			utterance: "add a task to x",
			wantKind:  chat.IntentAddTask,
			wantTitle: "",
		},
		{
			name:      "help",
			utterance: "help",
			wantKind:  chat.IntentHelp,
		},
		{
			name:      "what can you do",
			utterance: "What can you do?",
			wantKind:  chat.IntentHelp,
		},
		{
			name:      "delete",
			utterance: "delete my second task",
			wantKind:  chat.IntentDeleteHelp,
		},
		{
			name:      "remove",
			utterance: "please remove the dentist task",
			wantKind:  chat.IntentDeleteHelp,
		},
		{
			name:      "completed filter",
			utterance: "show my completed tasks",
			wantKind:  chat.IntentListCompleted,
		},
		{
			name:      "done tasks filter",
			utterance: "what are my done tasks",
			wantKind:  chat.IntentListCompleted,
		},
		{
			name:      "pending filter",
			utterance: "show pending tasks",
			wantKind:  chat.IntentListPending,
		},
		{
			name:      "remaining filter",
			utterance: "what's remaining?",
			wantKind:  chat.IntentListPending,
		},
		{
			name:      "list all",
			utterance: "list everything",
			wantKind:  chat.IntentListTasks,
		},
		{
			name:      "show all tasks",
			utterance: "all tasks please",
			wantKind:  chat.IntentListTasks,
		},
		{
			name:      "stats via how many",
			utterance: "how many tasks do I have left?",
			wantKind:  chat.IntentStats,
		},
		{
			name:      "stats via progress",
			utterance: "what's my progress",
			wantKind:  chat.IntentStats,
		},
		{
			name:      "unknown",
			utterance: "tell me a joke",
			wantKind:  chat.IntentUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chat.Classify(tt.utterance)
			if got.Kind != tt.wantKind {
				t.Fatalf("Classify(%q).Kind = %q, want %q", tt.utterance, got.Kind, tt.wantKind)
			}
			if got.TitleHint != tt.wantTitle {
				t.Fatalf("Classify(%q).TitleHint = %q, want %q", tt.utterance, got.TitleHint, tt.wantTitle)
			}
		})
	}
}

// The specific-filter rules must win over the generic list rule.
func TestClassify_CompletedBeatsShow(t *testing.T) {
	got := chat.Classify("show completed tasks")
	if got.Kind != chat.IntentListCompleted {
		t.Fatalf("Kind = %q, want %q", got.Kind, chat.IntentListCompleted)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	utterances := []string{
		"add a task to water the plants",
		"show my tasks",
		"gibberish input 123",
	}
	for _, u := range utterances {
		first := chat.Classify(u)
		second := chat.Classify(u)
		if first != second {
			t.Fatalf("Classify(%q) not deterministic: %+v vs %+v", u, first, second)
		}
	}
}

func TestClassify_UnknownKeepsRaw(t *testing.T) {
	got := chat.Classify("flibbertigibbet")
	if got.Kind != chat.IntentUnknown {
		t.Fatalf("Kind = %q, want %q", got.Kind, chat.IntentUnknown)
	}
	if got.Raw != "flibbertigibbet" {
		t.Fatalf("Raw = %q, want original utterance", got.Raw)
	}
}
