// Package render provides ANSI-colored terminal rendering for a codex event
// stream.
package render

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/bazelment/codex-sdk/codex"
)

// ANSI color codes - chosen to work on both light and dark backgrounds
const (
	ColorReset  = "\x1b[0m"
	ColorDim    = "\x1b[2m"
	ColorItalic = "\x1b[3m"
	ColorBold   = "\x1b[1m"
	ColorRed    = "\x1b[31m"
	ColorGreen  = "\x1b[32m"
	ColorYellow = "\x1b[33m"
	ColorCyan   = "\x1b[36m"
	ColorGray   = "\x1b[90m"
)

// Renderer handles terminal output with ANSI colors.
type Renderer struct {
	out     io.Writer
	mu      sync.Mutex
	verbose bool
	noColor bool
}

// NewRenderer creates a renderer writing to out. If verbose is true,
// reasoning, to-do lists, and in-progress items are shown. If noColor is
// true, ANSI color codes are suppressed; colors are also suppressed when out
// is not a terminal.
func NewRenderer(out io.Writer, verbose, noColor bool) *Renderer {
	if !noColor {
		noColor = !isTerminal(out)
	}
	return &Renderer{
		out:     out,
		verbose: verbose,
		noColor: noColor,
	}
}

// isTerminal checks if the writer is a terminal.
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// color returns the color code if colors are enabled, empty string otherwise.
func (r *Renderer) color(c string) string {
	if r.noColor {
		return ""
	}
	return c
}

// HandleEvent renders one event from the stream.
func (r *Renderer) HandleEvent(event codex.ThreadEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev := event.(type) {
	case codex.ThreadStartedEvent:
		fmt.Fprintf(r.out, "%s[thread=%s]%s\n", r.color(ColorGray), ev.ThreadID, r.color(ColorReset))

	case codex.TurnStartedEvent:
		if r.verbose {
			fmt.Fprintf(r.out, "%s[turn started]%s\n", r.color(ColorGray), r.color(ColorReset))
		}

	case codex.ItemStartedEvent:
		if r.verbose {
			if cmd, ok := ev.Item.(codex.CommandExecutionItem); ok {
				fmt.Fprintf(r.out, "%s[%s]%s …\n",
					r.color(ColorCyan), truncate(cmd.Command, 60), r.color(ColorReset))
			}
		}

	case codex.ItemCompletedEvent:
		r.item(ev.Item)

	case codex.TurnCompletedEvent:
		fmt.Fprintf(r.out, "\n%s───────────────────────────────────────────────────────%s\n",
			r.color(ColorDim), r.color(ColorReset))
		fmt.Fprintf(r.out, "%s✓ Turn complete (%d input / %d cached / %d output tokens)%s\n",
			r.color(ColorGreen),
			ev.Usage.InputTokens, ev.Usage.CachedInputTokens, ev.Usage.OutputTokens,
			r.color(ColorReset))

	case codex.TurnFailedEvent:
		fmt.Fprintf(r.out, "\n%s✗ Turn failed: %s%s\n",
			r.color(ColorRed), ev.Error.Message, r.color(ColorReset))

	case codex.ThreadErrorEvent:
		fmt.Fprintf(r.out, "\n%s[stream error]%s %s\n",
			r.color(ColorRed), r.color(ColorReset), ev.Message)
	}
}

// item renders one completed item.
func (r *Renderer) item(item codex.ThreadItem) {
	switch it := item.(type) {
	case codex.AgentMessageItem:
		fmt.Fprintln(r.out, it.Text)

	case codex.ReasoningItem:
		if r.verbose {
			fmt.Fprintf(r.out, "%s%s%s%s\n",
				r.color(ColorDim), r.color(ColorItalic), it.Text, r.color(ColorReset))
		}

	case codex.CommandExecutionItem:
		exitCode := 0
		if it.ExitCode != nil {
			exitCode = *it.ExitCode
		}
		if it.Status == codex.CommandStatusCompleted && exitCode == 0 {
			fmt.Fprintf(r.out, "%s[%s]%s %s✓%s\n",
				r.color(ColorCyan), truncate(it.Command, 60), r.color(ColorReset),
				r.color(ColorGreen), r.color(ColorReset))
		} else {
			fmt.Fprintf(r.out, "%s[%s]%s %s✗ exit %d%s\n",
				r.color(ColorCyan), truncate(it.Command, 60), r.color(ColorReset),
				r.color(ColorRed), exitCode, r.color(ColorReset))
		}

	case codex.FileChangeItem:
		for _, change := range it.Changes {
			fmt.Fprintf(r.out, "%s[%s]%s %s\n",
				r.color(ColorYellow), change.Kind, r.color(ColorReset), change.Path)
		}

	case codex.McpToolCallItem:
		status := "✓"
		colorCode := ColorGreen
		if it.Status == codex.McpToolCallFailed {
			status = "✗"
			colorCode = ColorRed
		}
		fmt.Fprintf(r.out, "%s[%s.%s]%s %s%s%s\n",
			r.color(ColorCyan), it.Server, it.Tool, r.color(ColorReset),
			r.color(colorCode), status, r.color(ColorReset))

	case codex.WebSearchItem:
		fmt.Fprintf(r.out, "%s[search]%s %s\n",
			r.color(ColorCyan), r.color(ColorReset), it.Query)

	case codex.TodoListItem:
		if r.verbose {
			for _, entry := range it.Items {
				box := "[ ]"
				if entry.Completed {
					box = "[x]"
				}
				fmt.Fprintf(r.out, "%s%s %s%s\n",
					r.color(ColorGray), box, entry.Text, r.color(ColorReset))
			}
		}

	case codex.ErrorItem:
		fmt.Fprintf(r.out, "%s[error]%s %s\n",
			r.color(ColorRed), r.color(ColorReset), it.Message)
	}
}

// truncate truncates a string to the given max length.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
