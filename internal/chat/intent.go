// Package chat implements TaskFlow's conversational task-intent engine.
//
// The engine turns a free-text utterance plus the current dialogue state and
// task snapshot into a reply, an optional structured action, and a new
// dialogue state. Understanding is layered: a remote language-model oracle is
// tried first and a deterministic keyword interpreter takes over whenever the
// oracle is unavailable — no LLM output is ever required for the app to work.
package chat

import (
	"regexp"
	"strings"
	"unicode"
)

// IntentKind is the high-level category of a classified utterance.
type IntentKind string

const (
	// IntentAddTask means the user wants to create a task.
	IntentAddTask IntentKind = "add_task"
	// IntentListTasks means the user wants to see all of their tasks.
	IntentListTasks IntentKind = "list_tasks"
	// IntentListCompleted means the user wants to see finished tasks.
	IntentListCompleted IntentKind = "list_completed"
	// IntentListPending means the user wants to see remaining tasks.
	IntentListPending IntentKind = "list_pending"
	// IntentStats means the user wants task statistics.
	IntentStats IntentKind = "stats"
	// IntentHelp means the user asked what the assistant can do.
	IntentHelp IntentKind = "help"
	// IntentDeleteHelp means the user asked to delete a task, which the chat
	// assistant cannot do — it explains where deletion lives instead.
	IntentDeleteHelp IntentKind = "delete_help"
	// IntentUnknown means no rule matched.
	IntentUnknown IntentKind = "unknown"
)

// Intent is the result of classifying one utterance.
type Intent struct {
	Kind IntentKind

	// TitleHint is the task title extracted from an add-task utterance.
	// Empty when the utterance did not contain a usable title; the engine
	// then asks for a name.
	TitleHint string

	// Raw is the original utterance, kept for IntentUnknown so the reply
	// can echo what was not understood.
	Raw string
}

// titlePattern extracts the trailing task title from an add-task utterance,
// e.g. "add a task to buy groceries" → "buy groceries".
var titlePattern = regexp.MustCompile(`(?i)\b(?:add|create|make)\b(?:\s+a)?(?:\s+(?:task|todo))?(?:\s+to)?\s+(\S.*)$`)

// Classify determines the intent of an utterance using ordered keyword rules.
// It is pure and total: the same input always yields the same Intent, and an
// unmatched utterance classifies as IntentUnknown rather than failing.
//
// Rule order is load-bearing. The specific filters ("completed", "pending")
// must run before the generic list rule so that "show completed tasks" does
// not fall into the show-everything bucket, and add/create runs first because
// it is the primary actionable intent.
func Classify(utterance string) Intent {
	lower := strings.ToLower(utterance)

	switch {
	case containsAny(lower, "add", "create", "make"):
		return Intent{Kind: IntentAddTask, TitleHint: extractTitle(utterance)}

	case containsAny(lower, "help", "what can"):
		return Intent{Kind: IntentHelp}

	case containsAny(lower, "delete", "remove"):
		return Intent{Kind: IntentDeleteHelp}

	case containsAny(lower, "completed", "done tasks"):
		return Intent{Kind: IntentListCompleted}

	case containsAny(lower, "pending", "remaining", "todo tasks"):
		return Intent{Kind: IntentListPending}

	case containsAny(lower, "show", "list", "all tasks"):
		return Intent{Kind: IntentListTasks}

	case containsAny(lower, "how many", "statistics", "stats", "progress"):
		return Intent{Kind: IntentStats}

	default:
		return Intent{Kind: IntentUnknown, Raw: utterance}
	}
}

// extractTitle pulls the task title out of an add-task utterance. Returns ""
// when no usable title is present.
func extractTitle(utterance string) string {
	m := titlePattern.FindStringSubmatch(utterance)
	if m == nil {
		return ""
	}
	title := strings.TrimSpace(m[1])
	if !usableTitle(title) {
		return ""
	}
	return title
}

// usableTitle reports whether s works as a task title: at least three letters
// or digits, and not just the bare words "task" or "todo" left over from the
// verb phrase.
func usableTitle(s string) bool {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "task", "todo":
		return false
	}
	meaningful := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			meaningful++
		}
	}
	return meaningful >= 3
}

// containsAny reports whether s contains at least one of the substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
