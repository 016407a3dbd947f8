// Package commands holds the static table of local commands and the
// dispatcher that matches utterances against it.
package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/dayuer/voxbot/internal/input"
	"github.com/dayuer/voxbot/internal/logging"
)

// EffectKind tags what an entry does after its acknowledgment is spoken.
type EffectKind int

const (
	EffectRespond EffectKind = iota // speak only
	EffectChangeMode
	EffectTerminate
	EffectSideEffect
)

// Effect is the tagged action of a table entry.
type Effect struct {
	Kind   EffectKind
	Mode   input.Mode                      // EffectChangeMode
	Action func(ctx context.Context) error // EffectSideEffect
}

func Respond() Effect                { return Effect{Kind: EffectRespond} }
func ChangeMode(m input.Mode) Effect { return Effect{Kind: EffectChangeMode, Mode: m} }
func Terminate() Effect              { return Effect{Kind: EffectTerminate} }

func SideEffect(action func(ctx context.Context) error) Effect {
	return Effect{Kind: EffectSideEffect, Action: action}
}

// TextFunc produces an acknowledgment. It runs at dispatch time so that
// entries like the clock never speak a stale value.
type TextFunc func() string

// Static returns a TextFunc for fixed text.
func Static(s string) TextFunc { return func() string { return s } }

// Entry is one row of the command table.
type Entry struct {
	Trigger string
	Say     TextFunc
	Effect  Effect
}

// OutcomeKind is what the main loop should do after dispatch.
type OutcomeKind int

const (
	NoMatch OutcomeKind = iota
	Handled
	ModeChanged
	Terminated
)

func (k OutcomeKind) String() string {
	switch k {
	case Handled:
		return "handled"
	case ModeChanged:
		return "mode-changed"
	case Terminated:
		return "terminated"
	default:
		return "no-match"
	}
}

// Outcome carries the resulting mode alongside the kind. For NoMatch the
// mode is the caller's current mode.
type Outcome struct {
	Kind OutcomeKind
	Mode input.Mode
}

// Speaker renders acknowledgments. It must not fail.
type Speaker interface {
	Speak(ctx context.Context, text string)
}

// Dispatcher matches utterances by substring against entries in order.
type Dispatcher struct {
	entries []Entry
	speaker Speaker
}

// NewDispatcher creates a dispatcher over a fixed table.
func NewDispatcher(speaker Speaker, entries []Entry) *Dispatcher {
	return &Dispatcher{entries: entries, speaker: speaker}
}

// Match returns the first entry whose trigger occurs anywhere in utterance.
func (d *Dispatcher) Match(utterance string) (Entry, bool) {
	for _, e := range d.entries {
		if strings.Contains(utterance, e.Trigger) {
			return e, true
		}
	}
	return Entry{}, false
}

// Triggers lists the trigger phrases in table order.
func (d *Dispatcher) Triggers() []string {
	out := make([]string, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.Trigger
	}
	return out
}

// Dispatch speaks the matched acknowledgment, then applies the effect.
// An error is returned only when a side effect fails.
func (d *Dispatcher) Dispatch(ctx context.Context, utterance string, current input.Mode) (Outcome, error) {
	e, ok := d.Match(utterance)
	if !ok {
		return Outcome{Kind: NoMatch, Mode: current}, nil
	}

	logging.Debug(logging.Fields{"trigger": e.Trigger, "mode": current}, "Command matched")
	if e.Say != nil {
		d.speaker.Speak(ctx, e.Say())
	}

	switch e.Effect.Kind {
	case EffectChangeMode:
		return Outcome{Kind: ModeChanged, Mode: e.Effect.Mode}, nil
	case EffectTerminate:
		return Outcome{Kind: Terminated, Mode: current}, nil
	case EffectSideEffect:
		if e.Effect.Action != nil {
			if err := e.Effect.Action(ctx); err != nil {
				return Outcome{Kind: Handled, Mode: current}, fmt.Errorf("command %q: %w", e.Trigger, err)
			}
		}
	}
	return Outcome{Kind: Handled, Mode: current}, nil
}
