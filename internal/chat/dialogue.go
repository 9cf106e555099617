package chat

import (
	"fmt"
	"strings"
)

// Phase is the position of a session inside the add-task slot-filling
// sequence.
type Phase string

const (
	// PhaseIdle means no sequence is active; utterances are classified.
	PhaseIdle Phase = "idle"
	// PhaseAwaitingName means the next utterance is the task title.
	PhaseAwaitingName Phase = "awaiting_name"
	// PhaseAwaitingDate means the next utterance is the due date (or a
	// decline).
	PhaseAwaitingDate Phase = "awaiting_date"
	// PhaseAwaitingTime means the next utterance is the due time (or a
	// decline).
	PhaseAwaitingTime Phase = "awaiting_time"
)

// Draft accumulates the slots collected so far for the task being built.
// Date and time are kept as the user's own words; interpretation is left to
// the reader of the task.
type Draft struct {
	Title    string
	DateText string
	TimeText string
}

// State is one session's dialogue state. The zero value is idle, which is
// also the state every completed or fresh session returns to.
type State struct {
	Phase Phase
	Draft Draft
}

// NewState returns an idle dialogue state.
func NewState() State {
	return State{Phase: PhaseIdle}
}

// ActionAddTask identifies the only structured action the engine emits.
const ActionAddTask = "addTask"

// Action is a structured instruction for the caller, produced when a
// slot-filling sequence completes. The engine never touches storage itself.
type Action struct {
	Kind        string `json:"action"`
	Title       string `json:"taskTitle"`
	Description string `json:"description,omitempty"`
}

// Result is the engine's answer to one utterance.
type Result struct {
	// Reply is the text to show the user. Never empty.
	Reply string
	// Action is non-nil only when a task should be created.
	Action *Action
	// State replaces the session's dialogue state.
	State State
	// NeedsDetails is true while the sequence is still collecting slots.
	NeedsDetails bool
}

// Decline answers for the optional date and time slots.
var (
	noDateAnswers = map[string]bool{"no": true, "no due date": true, "none": true}
	noTimeAnswers = map[string]bool{"no": true, "no time": true, "none": true}
)

const askNameReply = `📝 Sure! What would you like to name the task?`

const askTimeReply = `⏰ What time is it due? Say something like "3pm", or "no" to skip.`

func askDateReply(title string) string {
	return fmt.Sprintf("📅 Got it, %q. When is it due? Say something like \"tomorrow\", or \"no\" to skip.", title)
}

func createdReply(title string) string {
	return fmt.Sprintf("✨ Task %q has been added to your list!", title)
}

// advanceSequence consumes one utterance while a slot-filling sequence is
// active. While a sequence runs neither the oracle nor the keyword
// interpreter sees the utterance: the words fill the pending slot verbatim.
func advanceSequence(state State, utterance string) Result {
	answer := strings.TrimSpace(utterance)

	switch state.Phase {
	case PhaseAwaitingName:
		state.Draft.Title = answer
		state.Phase = PhaseAwaitingDate
		return Result{Reply: askDateReply(answer), State: state, NeedsDetails: true}

	case PhaseAwaitingDate:
		if !noDateAnswers[strings.ToLower(answer)] {
			state.Draft.DateText = answer
		}
		state.Phase = PhaseAwaitingTime
		return Result{Reply: askTimeReply, State: state, NeedsDetails: true}

	case PhaseAwaitingTime:
		if !noTimeAnswers[strings.ToLower(answer)] {
			state.Draft.TimeText = answer
		}
		action := &Action{
			Kind:        ActionAddTask,
			Title:       state.Draft.Title,
			Description: buildDescription(state.Draft),
		}
		return Result{Reply: createdReply(state.Draft.Title), Action: action, State: NewState()}

	default:
		// Unreachable through the engine, which only routes non-idle
		// states here. Recover by resetting the session.
		return Result{Reply: helpReply, State: NewState()}
	}
}

// buildDescription renders the collected date and time slots into the task
// description, one "Label: value" line per filled slot.
func buildDescription(d Draft) string {
	var lines []string
	if d.DateText != "" {
		lines = append(lines, "Date: "+d.DateText)
	}
	if d.TimeText != "" {
		lines = append(lines, "Time: "+d.TimeText)
	}
	return strings.Join(lines, "\n")
}
