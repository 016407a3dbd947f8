// Package assistant runs the interactive loop: choose a mode, then acquire,
// dispatch and answer one utterance at a time until the session ends.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dayuer/voxbot/internal/commands"
	"github.com/dayuer/voxbot/internal/input"
	"github.com/dayuer/voxbot/internal/logging"
)

// Fallback answers utterances that match no local command.
type Fallback interface {
	Send(ctx context.Context, utterance string) (string, error)
}

// Options wires an Assistant. Voice may be nil when voice input is not
// configured; the loop then stays in text mode.
type Options struct {
	Name     string
	Farewell string
	Apology  string

	Speaker    commands.Speaker
	Dispatcher *commands.Dispatcher
	Fallback   Fallback
	Voice      input.Provider
	Text       input.Provider
	Lines      *input.LineReader // mode selection reads from here
	Out        io.Writer

	// Closers are released by Close in order.
	Closers []io.Closer
}

// Assistant is the main loop state machine.
type Assistant struct {
	name     string
	farewell string
	apology  string

	speaker    commands.Speaker
	dispatcher *commands.Dispatcher
	fallback   Fallback
	voice      input.Provider
	text       input.Provider
	lines      *input.LineReader
	console    *console

	closers []io.Closer
	closed  bool
}

// New validates opts and creates an Assistant.
func New(opts Options) (*Assistant, error) {
	switch {
	case opts.Speaker == nil:
		return nil, errors.New("assistant: speaker is required")
	case opts.Dispatcher == nil:
		return nil, errors.New("assistant: dispatcher is required")
	case opts.Fallback == nil:
		return nil, errors.New("assistant: fallback is required")
	case opts.Text == nil || opts.Lines == nil:
		return nil, errors.New("assistant: text input is required")
	}
	if opts.Name == "" {
		opts.Name = "Gemini"
	}
	if opts.Farewell == "" {
		opts.Farewell = "Goodbye!"
	}
	if opts.Apology == "" {
		opts.Apology = "Sorry, I encountered an error"
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	return &Assistant{
		name:       opts.Name,
		farewell:   opts.Farewell,
		apology:    opts.Apology,
		speaker:    opts.Speaker,
		dispatcher: opts.Dispatcher,
		fallback:   opts.Fallback,
		voice:      opts.Voice,
		text:       opts.Text,
		lines:      opts.Lines,
		console:    newConsole(opts.Out),
		closers:    opts.Closers,
	}, nil
}

// Run drives the session until exit, end of input or ctx cancellation.
// Per-turn failures are apologized for and never end the session.
func (a *Assistant) Run(ctx context.Context) error {
	a.speaker.Speak(ctx, a.name+" Assistant Ready")

	mode, ok := a.selectMode(ctx)
	if !ok {
		a.sayFarewell(ctx)
		return nil
	}
	mode = a.usable(ctx, mode)
	a.speaker.Speak(ctx, fmt.Sprintf("Entering %s mode. Say 'help' for commands.", mode))
	logging.Info(logging.Fields{"mode": mode}, "Session started")

	for {
		if ctx.Err() != nil {
			a.sayFarewell(ctx)
			return nil
		}

		next, done, err := a.turn(ctx, mode)
		if err != nil {
			if ctx.Err() != nil {
				a.sayFarewell(ctx)
				return nil
			}
			a.recoverTurn(ctx, mode, err)
			continue
		}
		if done {
			logging.Info(nil, "Session ended")
			return nil
		}
		if next != mode {
			next = a.usable(ctx, next)
			logging.Info(logging.Fields{"from": mode, "to": next}, "Mode changed")
		}
		mode = next
	}
}

// selectMode prompts until the user picks 1 or 2. It reports false when
// input ends or ctx is cancelled first.
func (a *Assistant) selectMode(ctx context.Context) (input.Mode, bool) {
	for {
		a.console.promptMode()
		line, err := a.lines.ReadLine(ctx)
		if err != nil {
			fmt.Fprintln(a.console.out)
			return "", false
		}
		if m, ok := input.ParseSelector(line); ok {
			return m, true
		}
	}
}

// usable falls back to text mode when voice input is not configured.
func (a *Assistant) usable(ctx context.Context, m input.Mode) input.Mode {
	if m == input.ModeVoice && a.voice == nil {
		a.console.notice("Voice input is not configured; staying in text mode.")
		a.speaker.Speak(ctx, "Voice input is unavailable")
		return input.ModeText
	}
	return m
}

func (a *Assistant) providerFor(m input.Mode) input.Provider {
	if m == input.ModeVoice && a.voice != nil {
		return a.voice
	}
	return a.text
}

// turn runs one acquire/dispatch/answer iteration. Panics are returned as
// errors so the loop can apologize and carry on.
func (a *Assistant) turn(ctx context.Context, mode input.Mode) (next input.Mode, done bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			next, done, err = mode, false, fmt.Errorf("panic: %v", r)
		}
	}()

	res := a.providerFor(mode).Acquire(ctx)
	switch res.Kind {
	case input.KindEndOfInput:
		a.speaker.Speak(ctx, a.farewell)
		return mode, true, nil
	case input.KindNoInput:
		return mode, false, nil
	}

	out, err := a.dispatcher.Dispatch(ctx, res.Text, mode)
	if err != nil {
		return mode, false, err
	}
	switch out.Kind {
	case commands.Terminated:
		// the exit acknowledgment was the farewell
		return mode, true, nil
	case commands.ModeChanged, commands.Handled:
		return out.Mode, false, nil
	}

	a.console.thinking(a.name)
	reply, err := a.fallback.Send(ctx, res.Text)
	if err != nil {
		return mode, false, fmt.Errorf("fallback: %w", err)
	}
	a.console.reply(a.name, reply)
	a.speaker.Speak(ctx, reply)
	return mode, false, nil
}

func (a *Assistant) recoverTurn(ctx context.Context, mode input.Mode, err error) {
	traceID := logging.ErrorWithTraceID(logging.Fields{"mode": mode, "error": err.Error()}, "Turn failed")
	a.console.failure(err, traceID)
	a.speaker.Speak(ctx, a.apology)
}

// sayFarewell speaks even when ctx is already cancelled.
func (a *Assistant) sayFarewell(ctx context.Context) {
	logging.Info(nil, "Session ending")
	a.speaker.Speak(context.WithoutCancel(ctx), a.farewell)
}

// Close releases the speech engine, chat backend and audio device. It is
// safe to call more than once.
func (a *Assistant) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	var errs []error
	for _, c := range a.closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
