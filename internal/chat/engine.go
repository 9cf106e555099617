package chat

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taskflowhq/taskflow/internal/oracle"
)

// Oracle is the slice of the language-model gateway the engine needs. Kept
// small so tests can fake it.
type Oracle interface {
	Ask(ctx context.Context, q oracle.Query) (*oracle.Reply, error)
}

// Engine orchestrates one conversational turn: slot-filling sequences first,
// then the oracle, then the deterministic keyword interpreter. A nil oracle
// simply means every turn uses the local interpreter.
type Engine struct {
	oracle Oracle
}

// NewEngine creates an engine. oracle may be nil.
func NewEngine(o Oracle) *Engine {
	return &Engine{oracle: o}
}

// Request is the input for one conversational turn.
type Request struct {
	UserID    string
	Utterance string
	State     State
	Tasks     []TaskSummary
	History   []oracle.Message
}

// Handle processes one utterance. It never returns an error: oracle failures
// degrade silently to the keyword interpreter, so the user always gets a
// reply. The caller is responsible for persisting Result.State and executing
// Result.Action.
func (e *Engine) Handle(ctx context.Context, req Request) Result {
	utterance := strings.TrimSpace(req.Utterance)

	// An active sequence owns the turn outright.
	if req.State.Phase != PhaseIdle {
		return advanceSequence(req.State, utterance)
	}

	if e.oracle != nil {
		reply, err := e.oracle.Ask(ctx, oracle.Query{
			UserID:  req.UserID,
			Message: utterance,
			Tasks:   oracleTasks(req.Tasks),
			History: req.History,
		})
		if err == nil {
			if reply.Directive != nil {
				return beginAddTask(reply.Directive.TaskTitle)
			}
			return Result{Reply: reply.Text, State: NewState()}
		}
		slog.Debug("oracle unavailable, using local interpreter", "error", err)
	}

	intent := Classify(utterance)
	if intent.Kind == IntentAddTask {
		return beginAddTask(intent.TitleHint)
	}
	return Result{Reply: Compose(intent, req.Tasks), State: NewState()}
}

// beginAddTask starts the slot-filling sequence. A usable title hint skips
// straight to the date question; otherwise the sequence opens by asking for
// a name.
func beginAddTask(titleHint string) Result {
	titleHint = strings.TrimSpace(titleHint)
	if !usableTitle(titleHint) {
		return Result{
			Reply:        askNameReply,
			State:        State{Phase: PhaseAwaitingName},
			NeedsDetails: true,
		}
	}
	return Result{
		Reply:        askDateReply(titleHint),
		State:        State{Phase: PhaseAwaitingDate, Draft: Draft{Title: titleHint}},
		NeedsDetails: true,
	}
}

func oracleTasks(tasks []TaskSummary) []oracle.TaskSummary {
	if len(tasks) == 0 {
		return nil
	}
	out := make([]oracle.TaskSummary, len(tasks))
	for i, t := range tasks {
		out[i] = oracle.TaskSummary{Title: t.Title, Completed: t.Completed}
	}
	return out
}
