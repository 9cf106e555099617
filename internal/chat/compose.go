package chat

import (
	"fmt"
	"math"
	"strings"
)

// TaskSummary is the read-only task snapshot the composer and oracle work
// from. Full task records stay in the store; conversation only needs titles
// and completion.
type TaskSummary struct {
	Title     string
	Completed bool
}

const helpReply = `🤖 I can help you manage your tasks! Here's what I can do:

➕ "Add a task to buy groceries" - Create a new task
📋 "Show my tasks" - List all your tasks
✅ "Show completed tasks" - See what you've finished
⏳ "Show pending tasks" - See what's left to do
📊 "How many tasks do I have?" - Get task statistics

Just ask me naturally!`

const deleteHelpReply = `🗑️ I can't delete tasks from chat yet. Open your task list and use the delete button next to the task you want to remove.`

const noTasksReply = `📝 You don't have any tasks yet. Try saying "Add a task to get started"!`

const noCompletedReply = `💪 You haven't completed any tasks yet. Keep going, you've got this!`

const allDoneReply = `🎉 Amazing! You've completed all your tasks. Time to add some new goals!`

// Compose renders the canned reply for a classified intent against the given
// task snapshot. It never mutates tasks and handles IntentAddTask nowhere:
// add-task flows through the slot-filling sequence, not through a one-shot
// reply.
func Compose(intent Intent, tasks []TaskSummary) string {
	switch intent.Kind {
	case IntentHelp:
		return helpReply
	case IntentDeleteHelp:
		return deleteHelpReply
	case IntentListTasks:
		return composeList(tasks)
	case IntentListCompleted:
		return composeCompleted(tasks)
	case IntentListPending:
		return composePending(tasks)
	case IntentStats:
		return composeStats(tasks)
	default:
		return fmt.Sprintf("🤔 I didn't quite understand %q. Try saying \"help\" to see what I can do!", intent.Raw)
	}
}

func composeList(tasks []TaskSummary) string {
	if len(tasks) == 0 {
		return noTasksReply
	}
	var b strings.Builder
	b.WriteString("📋 Your Tasks:\n\n")
	for i, t := range tasks {
		marker := "⏳"
		if t.Completed {
			marker = "✅"
		}
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, t.Title, marker)
	}
	return strings.TrimRight(b.String(), "\n")
}

func composeCompleted(tasks []TaskSummary) string {
	completed := filterTasks(tasks, true)
	if len(completed) == 0 {
		return noCompletedReply
	}
	var b strings.Builder
	b.WriteString("✅ Completed Tasks:\n\n")
	for i, t := range completed {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t.Title)
	}
	return strings.TrimRight(b.String(), "\n")
}

func composePending(tasks []TaskSummary) string {
	if len(tasks) == 0 {
		return noTasksReply
	}
	pending := filterTasks(tasks, false)
	if len(pending) == 0 {
		return allDoneReply
	}
	var b strings.Builder
	b.WriteString("⏳ Pending Tasks:\n\n")
	for i, t := range pending {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t.Title)
	}
	return strings.TrimRight(b.String(), "\n")
}

func composeStats(tasks []TaskSummary) string {
	total := len(tasks)
	completed := len(filterTasks(tasks, true))
	pending := total - completed
	percent := 0
	if total > 0 {
		percent = int(math.Round(float64(completed) / float64(total) * 100))
	}
	return fmt.Sprintf("📊 Task Statistics:\n\n📋 Total Tasks: %d\n✅ Completed: %d\n⏳ Pending: %d\n📈 Progress: %d%%",
		total, completed, pending, percent)
}

func filterTasks(tasks []TaskSummary, completed bool) []TaskSummary {
	var out []TaskSummary
	for _, t := range tasks {
		if t.Completed == completed {
			out = append(out, t)
		}
	}
	return out
}
