// Package input acquires one utterance per turn, from the keyboard or the
// microphone depending on the session mode.
package input

import (
	"context"
	"strings"
)

// Mode is the active input method.
type Mode string

const (
	ModeVoice Mode = "voice"
	ModeText  Mode = "text"
)

// ParseSelector maps the startup menu choice to a mode: "1" is voice, "2" is text.
func ParseSelector(s string) (Mode, bool) {
	switch strings.TrimSpace(s) {
	case "1":
		return ModeVoice, true
	case "2":
		return ModeText, true
	}
	return "", false
}

// Kind tells the main loop what an acquisition produced.
type Kind int

const (
	// KindNoInput means nothing usable was heard or typed; try again.
	KindNoInput Kind = iota
	// KindUtterance carries normalized text in Result.Text.
	KindUtterance
	// KindEndOfInput means the input stream is exhausted and the session should end.
	KindEndOfInput
)

func (k Kind) String() string {
	switch k {
	case KindUtterance:
		return "utterance"
	case KindEndOfInput:
		return "end-of-input"
	default:
		return "no-input"
	}
}

// Result is the outcome of one acquisition.
type Result struct {
	Kind Kind
	Text string
}

func Heard(text string) Result { return Result{Kind: KindUtterance, Text: text} }
func Nothing() Result          { return Result{Kind: KindNoInput} }
func Ended() Result            { return Result{Kind: KindEndOfInput} }

// Provider acquires one utterance. Implementations absorb their own
// failures and never return errors.
type Provider interface {
	Acquire(ctx context.Context) Result
}
