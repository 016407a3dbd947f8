package assistant

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

const modePrompt = "Choose mode:\n1. Voice\n2. Text\n> "

// console prints the loop's status lines. Styling is resolved against out,
// so pipes and test buffers get plain text.
type console struct {
	out   io.Writer
	label lipgloss.Style
	dim   lipgloss.Style
	warn  lipgloss.Style
}

func newConsole(out io.Writer) *console {
	r := lipgloss.NewRenderer(out)
	return &console{
		out:   out,
		label: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f")),
		dim:   r.NewStyle().Foreground(lipgloss.Color("#6e7681")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("#ff5f5f")),
	}
}

func (c *console) promptMode() {
	fmt.Fprint(c.out, modePrompt)
}

func (c *console) thinking(name string) {
	fmt.Fprintln(c.out, c.dim.Render(fmt.Sprintf("\n🤖 %s is thinking...", name)))
}

func (c *console) reply(name, text string) {
	fmt.Fprintf(c.out, "%s %s\n", c.label.Render(fmt.Sprintf("🤖 %s:", name)), text)
}

func (c *console) failure(err error, traceID string) {
	fmt.Fprintln(c.out, c.warn.Render(fmt.Sprintf("Error: %v (trace %s)", err, traceID)))
}

func (c *console) notice(text string) {
	fmt.Fprintln(c.out, c.dim.Render(text))
}
