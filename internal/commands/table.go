package commands

import (
	"context"
	"time"

	"github.com/pkg/browser"

	"github.com/dayuer/voxbot/internal/input"
)

const (
	TimeLayout = "03:04 PM"         // %I:%M %p
	DateLayout = "January 02, 2006" // %B %d, %Y
)

// Opener launches a URL in the user's browser.
type Opener func(url string) error

// TableOptions customizes DefaultTable.
type TableOptions struct {
	Now      func() time.Time
	Open     Opener
	Farewell string
}

// OpenBrowser opens url with the platform's browser launcher.
func OpenBrowser(url string) error {
	return browser.OpenURL(url)
}

func openURL(open Opener, url string) func(context.Context) error {
	return func(context.Context) error { return open(url) }
}

// DefaultTable returns the built-in command table. Order matters: the first
// trigger contained in an utterance wins.
func DefaultTable(opts TableOptions) []Entry {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Open == nil {
		opts.Open = OpenBrowser
	}
	if opts.Farewell == "" {
		opts.Farewell = "Goodbye!"
	}
	now := opts.Now

	return []Entry{
		{Trigger: "text mode", Say: Static("Switching to text mode"), Effect: ChangeMode(input.ModeText)},
		{Trigger: "voice mode", Say: Static("Switching to voice mode"), Effect: ChangeMode(input.ModeVoice)},

		{Trigger: "open youtube", Say: Static("Opening YouTube"), Effect: SideEffect(openURL(opts.Open, "https://youtube.com"))},
		{Trigger: "open google", Say: Static("Opening Google"), Effect: SideEffect(openURL(opts.Open, "https://google.com"))},

		{Trigger: "time", Say: func() string { return "The time is " + now().Format(TimeLayout) }, Effect: Respond()},
		{Trigger: "date", Say: func() string { return "Today is " + now().Format(DateLayout) }, Effect: Respond()},

		{Trigger: "exit", Say: Static(opts.Farewell), Effect: Terminate()},
	}
}
