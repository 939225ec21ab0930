package chatcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/skeinhq/skein/pkg/cliui"
	"github.com/skeinhq/skein/pkg/engine"
)

var (
	assistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("assistant> ")
	reasoningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	sourcesNote     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("● includes web search sources")
)

// terminalSink renders engine output to a terminal. Fragments stream live
// as they arrive; when the turn completes the streamed region is erased
// and replaced with the fully rendered markdown body.
type terminalSink struct {
	out     io.Writer
	spinner *cliui.Spinner

	// streamedLines counts newlines written since the container opened so
	// FinalizeMessage can erase the live region. Wrapped lines are not
	// accounted for, so very long unbroken lines may leave residue above
	// the rendered output.
	streamedLines int
	streaming     bool
}

func newTerminalSink(out io.Writer) *terminalSink {
	return &terminalSink{
		out:     out,
		spinner: cliui.NewSpinner(out),
	}
}

func (t *terminalSink) ShowWaiting(label string) {
	t.spinner.Start(label)
}

func (t *terminalSink) SetWaitingLabel(label string) {
	t.spinner.SetLabel(label)
}

func (t *terminalSink) HideWaiting() {
	t.spinner.Stop()
}

func (t *terminalSink) CreateContainer() {
	if t.streaming {
		return
	}
	t.streaming = true
	t.streamedLines = 1
	fmt.Fprintf(t.out, "%s\n", assistantPrompt)
}

func (t *terminalSink) AppendFragment(escaped string) {
	t.streamedLines += strings.Count(escaped, "\n")
	fmt.Fprint(t.out, escaped)
}

func (t *terminalSink) AppendReasoning(escaped string) {
	t.streamedLines += strings.Count(escaped, "\n")
	fmt.Fprint(t.out, reasoningStyle.Render(escaped))
}

func (t *terminalSink) FinalizeMessage(rendered string, reasoning string, hasSideChannel bool) {
	if t.streaming {
		// Move to the start of the live region and clear to end of screen.
		fmt.Fprintf(t.out, "\r\x1b[%dA\x1b[J", t.streamedLines)
	}

	fmt.Fprintf(t.out, "%s\n", assistantPrompt)
	if reasoning != "" {
		fmt.Fprintln(t.out, reasoningStyle.Render(reasoning))
	}
	fmt.Fprintln(t.out, rendered)
	if hasSideChannel {
		fmt.Fprintf(t.out, "  %s\n", sourcesNote)
	}

	t.streaming = false
	t.streamedLines = 0
}

func (t *terminalSink) ShowImage(path string) {
	fmt.Fprintf(t.out, "  %s Saved image to %s\n", cliui.SuccessMark, cliui.NameStyle.Render(path))
}

func (t *terminalSink) Notify(message string, severity engine.Severity) {
	switch severity {
	case engine.SeverityError:
		fmt.Fprintf(t.out, "  %s %s\n", cliui.FailMark, cliui.ErrorStyle.Render(message))
	case engine.SeverityWarn:
		fmt.Fprintf(t.out, "  %s %s\n", cliui.WarnMark, cliui.WarnStyle.Render(message))
	default:
		fmt.Fprintf(t.out, "  %s\n", cliui.DimStyle.Render(message))
	}
}
