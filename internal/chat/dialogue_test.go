package chat_test

import (
	"context"
	"strings"
	"testing"

	"github.com/taskflowhq/taskflow/internal/chat"
)

// The canonical four-turn flow: trigger, name, date, time.
func TestSlotFilling_FullSequence(t *testing.T) {
	engine := chat.NewEngine(nil)
	ctx := context.Background()

	r1 := engine.Handle(ctx, chat.Request{Utterance: "add task"})
	if r1.State.Phase != chat.PhaseAwaitingName {
		t.Fatalf("after trigger: phase = %q, want %q", r1.State.Phase, chat.PhaseAwaitingName)
	}
	if !r1.NeedsDetails {
		t.Fatal("after trigger: NeedsDetails = false, want true")
	}
	if r1.Action != nil {
		t.Fatalf("after trigger: unexpected action %+v", r1.Action)
	}

	r2 := engine.Handle(ctx, chat.Request{Utterance: "buy groceries", State: r1.State})
	if r2.State.Phase != chat.PhaseAwaitingDate {
		t.Fatalf("after name: phase = %q, want %q", r2.State.Phase, chat.PhaseAwaitingDate)
	}
	if !strings.Contains(r2.Reply, "buy groceries") {
		t.Fatalf("date prompt should mention the title:\n%s", r2.Reply)
	}

	r3 := engine.Handle(ctx, chat.Request{Utterance: "tomorrow", State: r2.State})
	if r3.State.Phase != chat.PhaseAwaitingTime {
		t.Fatalf("after date: phase = %q, want %q", r3.State.Phase, chat.PhaseAwaitingTime)
	}

	r4 := engine.Handle(ctx, chat.Request{Utterance: "3pm", State: r3.State})
	if r4.State.Phase != chat.PhaseIdle {
		t.Fatalf("after time: phase = %q, want %q", r4.State.Phase, chat.PhaseIdle)
	}
	if r4.NeedsDetails {
		t.Fatal("after time: NeedsDetails = true, want false")
	}
	if r4.Action == nil {
		t.Fatal("after time: no action emitted")
	}
	if r4.Action.Kind != chat.ActionAddTask {
		t.Fatalf("action kind = %q, want %q", r4.Action.Kind, chat.ActionAddTask)
	}
	if r4.Action.Title != "buy groceries" {
		t.Fatalf("action title = %q, want %q", r4.Action.Title, "buy groceries")
	}
	if r4.Action.Description != "Date: tomorrow\nTime: 3pm" {
		t.Fatalf("action description = %q", r4.Action.Description)
	}
}

// A usable title in the trigger skips the name question.
func TestSlotFilling_TitleHintSkipsName(t *testing.T) {
	engine := chat.NewEngine(nil)

	r := engine.Handle(context.Background(), chat.Request{Utterance: "add a task to water the plants"})
	if r.State.Phase != chat.PhaseAwaitingDate {
		t.Fatalf("phase = %q, want %q", r.State.Phase, chat.PhaseAwaitingDate)
	}
	if r.State.Draft.Title != "water the plants" {
		t.Fatalf("draft title = %q, want %q", r.State.Draft.Title, "water the plants")
	}
}

func TestSlotFilling_DeclineDate(t *testing.T) {
	engine := chat.NewEngine(nil)
	ctx := context.Background()

	state := chat.State{
		Phase: chat.PhaseAwaitingDate,
		Draft: chat.Draft{Title: "pay rent"},
	}

	r1 := engine.Handle(ctx, chat.Request{Utterance: "No", State: state})
	if r1.State.Phase != chat.PhaseAwaitingTime {
		t.Fatalf("phase = %q, want %q", r1.State.Phase, chat.PhaseAwaitingTime)
	}
	if r1.State.Draft.DateText != "" {
		t.Fatalf("declined date slot holds %q", r1.State.Draft.DateText)
	}

	r2 := engine.Handle(ctx, chat.Request{Utterance: "3pm", State: r1.State})
	if r2.Action == nil {
		t.Fatal("no action emitted")
	}
	if r2.Action.Description != "Time: 3pm" {
		t.Fatalf("description = %q, want %q", r2.Action.Description, "Time: 3pm")
	}
}

func TestSlotFilling_DeclineBoth(t *testing.T) {
	engine := chat.NewEngine(nil)
	ctx := context.Background()

	state := chat.State{
		Phase: chat.PhaseAwaitingDate,
		Draft: chat.Draft{Title: "pay rent"},
	}

	r1 := engine.Handle(ctx, chat.Request{Utterance: "no due date", State: state})
	r2 := engine.Handle(ctx, chat.Request{Utterance: "none", State: r1.State})

	if r2.Action == nil {
		t.Fatal("no action emitted")
	}
	if r2.Action.Description != "" {
		t.Fatalf("description = %q, want empty", r2.Action.Description)
	}
}

// Whatever the user says while awaiting a name becomes the title verbatim,
// even words that look like commands.
func TestSlotFilling_NameTakenVerbatim(t *testing.T) {
	engine := chat.NewEngine(nil)

	state := chat.State{Phase: chat.PhaseAwaitingName}
	r := engine.Handle(context.Background(), chat.Request{Utterance: "show my tasks", State: state})

	if r.State.Draft.Title != "show my tasks" {
		t.Fatalf("draft title = %q, want the verbatim utterance", r.State.Draft.Title)
	}
	if r.State.Phase != chat.PhaseAwaitingDate {
		t.Fatalf("phase = %q, want %q", r.State.Phase, chat.PhaseAwaitingDate)
	}
}
