package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dayuer/voxbot/internal/logging"
	"github.com/dayuer/voxbot/internal/utils"
)

const textPrompt = "\n⌨️ You (text): "

type line struct {
	text string
	err  error
}

// LineReader reads lines from r on a background goroutine so that a blocked
// read can be abandoned when ctx is cancelled.
type LineReader struct {
	r     io.Reader
	lines chan line
	once  sync.Once
	err   error // terminal read error, set before lines is closed
}

// NewLineReader wraps r. Nothing is read until the first ReadLine.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: r, lines: make(chan line)}
}

func (l *LineReader) start() {
	go func() {
		defer close(l.lines)
		br := bufio.NewReader(l.r)
		for {
			s, err := br.ReadString('\n')
			if s != "" {
				l.lines <- line{text: strings.TrimRight(s, "\r\n")}
			}
			if err != nil {
				l.err = err
				l.lines <- line{err: err}
				return
			}
		}
	}()
}

// ReadLine returns the next line without its newline, io.EOF when the input
// is exhausted, or ctx.Err() if ctx ends first. Lines have no length limit.
// A read failure other than EOF is returned on every later call.
func (l *LineReader) ReadLine(ctx context.Context) (string, error) {
	l.once.Do(l.start)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case ln, ok := <-l.lines:
		if !ok {
			return "", l.err
		}
		return ln.text, ln.err
	}
}

// TextProvider reads typed utterances.
type TextProvider struct {
	lines *LineReader
	out   io.Writer
}

// NewTextProvider prompts on out and reads from lines.
func NewTextProvider(lines *LineReader, out io.Writer) *TextProvider {
	return &TextProvider{lines: lines, out: out}
}

func (p *TextProvider) Acquire(ctx context.Context) Result {
	fmt.Fprint(p.out, textPrompt)

	text, err := p.lines.ReadLine(ctx)
	switch {
	case errors.Is(err, io.EOF):
		return Ended()
	case err != nil:
		if ctx.Err() == nil {
			logging.Warn(logging.Fields{"error": err.Error()}, "Text input error")
		}
		return Nothing()
	}

	if q := utils.NormalizeUtterance(text); q != "" {
		return Heard(q)
	}
	return Nothing()
}
