package assistant

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayuer/voxbot/internal/commands"
	"github.com/dayuer/voxbot/internal/input"
	"github.com/dayuer/voxbot/internal/logging"
	"github.com/dayuer/voxbot/internal/speech"
)

// --- fakes ---

type spoken struct {
	texts     []string
	cancelled []bool
}

func (s *spoken) Speak(ctx context.Context, text string) {
	s.texts = append(s.texts, text)
	s.cancelled = append(s.cancelled, ctx.Err() != nil)
}

// scripted hands out results in order, then end of input.
type scripted struct {
	results []input.Result
	calls   int
	hook    func(call int)
}

func (p *scripted) Acquire(context.Context) input.Result {
	i := p.calls
	p.calls++
	if p.hook != nil {
		p.hook(i)
	}
	if i < len(p.results) {
		return p.results[i]
	}
	return input.Ended()
}

type fakeFallback struct {
	got   []string
	errAt map[int]error
}

func (f *fakeFallback) Send(_ context.Context, utterance string) (string, error) {
	i := len(f.got)
	f.got = append(f.got, utterance)
	if err := f.errAt[i]; err != nil {
		return "", err
	}
	return "reply to " + utterance, nil
}

type closer struct {
	n   int
	err error
}

func (c *closer) Close() error { c.n++; return c.err }

type harness struct {
	speaker  *spoken
	fallback *fakeFallback
	text     *scripted
	voice    *scripted
	opened   []string
	out      *bytes.Buffer
	a        *Assistant
}

func newHarness(t *testing.T, stdin string, text, voice []input.Result) *harness {
	t.Helper()
	logging.Init(logging.Options{Output: io.Discard})

	h := &harness{
		speaker:  &spoken{},
		fallback: &fakeFallback{errAt: map[int]error{}},
		text:     &scripted{results: text},
		out:      &bytes.Buffer{},
	}
	opts := Options{
		Speaker:  h.speaker,
		Fallback: h.fallback,
		Text:     h.text,
		Lines:    input.NewLineReader(strings.NewReader(stdin)),
		Out:      h.out,
	}
	if voice != nil {
		h.voice = &scripted{results: voice}
		opts.Voice = h.voice
	}
	opts.Dispatcher = commands.NewDispatcher(h.speaker, commands.DefaultTable(commands.TableOptions{
		Now:  func() time.Time { return time.Date(2026, 3, 7, 9, 30, 0, 0, time.UTC) },
		Open: func(url string) error { h.opened = append(h.opened, url); return nil },
	}))

	a, err := New(opts)
	require.NoError(t, err)
	h.a = a
	return h
}

const (
	ready     = "Gemini Assistant Ready"
	enterText = "Entering text mode. Say 'help' for commands."
)

// --- tests ---

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestRun_NoMatchCallsFallbackOnce(t *testing.T) {
	h := newHarness(t, "2\n", []input.Result{input.Heard("tell me a joke")}, nil)

	require.NoError(t, h.a.Run(context.Background()))

	assert.Equal(t, []string{"tell me a joke"}, h.fallback.got)
	assert.Equal(t, []string{ready, enterText, "reply to tell me a joke", "Goodbye!"}, h.speaker.texts)
	assert.Contains(t, h.out.String(), "Gemini is thinking...")
	assert.Contains(t, h.out.String(), "reply to tell me a joke")
}

func TestRun_TriggerNeverCallsFallback(t *testing.T) {
	h := newHarness(t, "2\n", []input.Result{
		input.Heard("what time is it"),
		input.Heard("open google"),
	}, nil)

	require.NoError(t, h.a.Run(context.Background()))

	assert.Empty(t, h.fallback.got)
	assert.Equal(t, []string{"https://google.com"}, h.opened)
	assert.Contains(t, h.speaker.texts, "The time is 09:30 AM")
}

func TestRun_HelpRequestReachesFallback(t *testing.T) {
	h := newHarness(t, "2\n", []input.Result{input.Heard("can you help me write a poem")}, nil)

	require.NoError(t, h.a.Run(context.Background()))

	assert.Equal(t, []string{"can you help me write a poem"}, h.fallback.got)
}

func TestRun_ExitStopsWithSingleFarewell(t *testing.T) {
	h := newHarness(t, "2\n", []input.Result{
		input.Heard("exit"),
		input.Heard("never read"),
	}, nil)

	require.NoError(t, h.a.Run(context.Background()))

	assert.Equal(t, 1, h.text.calls)
	assert.Equal(t, []string{ready, enterText, "Goodbye!"}, h.speaker.texts)
}

func TestRun_EndOfInputTerminates(t *testing.T) {
	h := newHarness(t, "2\n", []input.Result{input.Nothing(), input.Ended()}, nil)

	require.NoError(t, h.a.Run(context.Background()))

	assert.Empty(t, h.fallback.got)
	assert.Equal(t, []string{ready, enterText, "Goodbye!"}, h.speaker.texts)
}

func TestRun_FallbackErrorApologizesAndContinues(t *testing.T) {
	h := newHarness(t, "2\n", []input.Result{
		input.Heard("first question"),
		input.Heard("second question"),
	}, nil)
	h.fallback.errAt[0] = errors.New("rate limited")

	require.NoError(t, h.a.Run(context.Background()))

	assert.Equal(t, []string{
		ready, enterText,
		"Sorry, I encountered an error",
		"reply to second question",
		"Goodbye!",
	}, h.speaker.texts)
	assert.Contains(t, h.out.String(), "rate limited")
}

func TestRun_PanicIsRecovered(t *testing.T) {
	h := newHarness(t, "2\n", nil, nil)
	h.text.hook = func(call int) {
		if call == 0 {
			panic("microphone exploded")
		}
	}

	require.NoError(t, h.a.Run(context.Background()))
	assert.Equal(t, []string{ready, enterText, "Sorry, I encountered an error", "Goodbye!"}, h.speaker.texts)
}

func TestRun_TTSFailureDoesNotStopLoop(t *testing.T) {
	h := newHarness(t, "2\n", []input.Result{input.Heard("hello"), input.Heard("again")}, nil)
	eng := &failingEngine{}
	h.a.speaker = speech.NewOutput(eng)

	require.NoError(t, h.a.Run(context.Background()))

	assert.Equal(t, []string{"hello", "again"}, h.fallback.got)
	assert.Equal(t, []string{ready, enterText, "reply to hello", "reply to again", "Goodbye!"}, eng.said)
}

func TestRun_ModeSelectionReprompts(t *testing.T) {
	h := newHarness(t, "x\n3\n\n1\n", nil, []input.Result{input.Nothing()})

	require.NoError(t, h.a.Run(context.Background()))

	assert.Equal(t, 4, strings.Count(h.out.String(), "Choose mode:"))
	assert.Equal(t, "Entering voice mode. Say 'help' for commands.", h.speaker.texts[1])
	assert.Equal(t, 2, h.voice.calls)
	assert.Zero(t, h.text.calls)
}

func TestRun_EndOfInputDuringSelection(t *testing.T) {
	h := newHarness(t, "9\n", nil, nil)

	require.NoError(t, h.a.Run(context.Background()))

	assert.Equal(t, []string{ready, "Goodbye!"}, h.speaker.texts)
	assert.Zero(t, h.text.calls)
}

func TestRun_ModeChangeSwitchesProvider(t *testing.T) {
	h := newHarness(t, "1\n", []input.Result{input.Heard("voice mode")}, []input.Result{input.Heard("text mode")})

	require.NoError(t, h.a.Run(context.Background()))

	// voice: "text mode", text: "voice mode", voice: end
	assert.Equal(t, 2, h.voice.calls)
	assert.Equal(t, 1, h.text.calls)
	assert.Empty(t, h.fallback.got)
	assert.Equal(t, []string{
		ready,
		"Entering voice mode. Say 'help' for commands.",
		"Switching to text mode",
		"Switching to voice mode",
		"Goodbye!",
	}, h.speaker.texts)
}

func TestRun_VoiceUnavailableStaysInText(t *testing.T) {
	h := newHarness(t, "1\n", []input.Result{input.Heard("voice mode")}, nil)

	require.NoError(t, h.a.Run(context.Background()))

	assert.Equal(t, 2, h.text.calls)
	assert.Contains(t, h.speaker.texts, enterText)
	assert.Contains(t, h.out.String(), "Voice input is not configured")
}

func TestRun_InterruptSpeaksFarewell(t *testing.T) {
	h := newHarness(t, "2\n", nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	h.text.results = []input.Result{input.Nothing(), input.Heard("unreached")}
	h.text.hook = func(int) { cancel() }

	require.NoError(t, h.a.Run(ctx))

	assert.Equal(t, 1, h.text.calls)
	assert.Empty(t, h.fallback.got)
	require.Equal(t, []string{ready, enterText, "Goodbye!"}, h.speaker.texts)
	// farewell is spoken on a live context
	assert.False(t, h.speaker.cancelled[2])
}

func TestRun_InterruptDuringSelection(t *testing.T) {
	logging.Init(logging.Options{Output: io.Discard})
	pr, pw := io.Pipe()
	defer pw.Close()

	sp := &spoken{}
	a, err := New(Options{
		Speaker:    sp,
		Dispatcher: commands.NewDispatcher(sp, commands.DefaultTable(commands.TableOptions{})),
		Fallback:   &fakeFallback{},
		Text:       &scripted{},
		Lines:      input.NewLineReader(pr),
		Out:        io.Discard,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.NoError(t, a.Run(ctx))
	assert.Equal(t, []string{ready, "Goodbye!"}, sp.texts)
}

func TestClose_ReleasesOnce(t *testing.T) {
	h := newHarness(t, "", nil, nil)
	c1 := &closer{}
	c2 := &closer{err: errors.New("device busy")}
	h.a.closers = []io.Closer{c1, nil, c2}

	err := h.a.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device busy")
	require.NoError(t, h.a.Close())
	assert.Equal(t, 1, c1.n)
	assert.Equal(t, 1, c2.n)
}

type failingEngine struct{ said []string }

func (e *failingEngine) Say(_ context.Context, text string) error {
	e.said = append(e.said, text)
	return errors.New("audio device missing")
}
func (e *failingEngine) Name() string { return "failing" }
func (e *failingEngine) Close() error { return nil }
