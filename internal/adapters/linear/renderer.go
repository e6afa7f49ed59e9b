// Package linear provides a synchronous, line-buffered renderer for CI
// environments and plain terminals: reload/preparation/index-update
// operations are reported as chronological, name-prefixed lines rather than
// an interactive status tree.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.indexbridge.dev/core/internal/core/ports"
	"go.indexbridge.dev/core/internal/ui/output"
	"go.indexbridge.dev/core/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer for CI/non-interactive environments.
// It outputs linear, chronological logs with operation name prefixes.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output
	lg     *lipgloss.Renderer
	plain  bool

	mu      sync.Mutex
	tasks   map[string]*taskState // spanID -> operation state
	buffers map[string]*bytes.Buffer
}

type taskState struct {
	name      string
	startTime time.Time
}

// NewRenderer creates a new Renderer. plain disables color/symbol styling,
// for CI logs that shouldn't carry ANSI escapes regardless of NO_COLOR.
func NewRenderer(stdout, stderr io.Writer, plain bool) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	profileFn := output.ColorProfileANSI
	if plain {
		profileFn = func() termenv.Profile { return termenv.Ascii }
	}
	termOutput := output.NewWithProfile(stderr, profileFn)

	return &Renderer{
		stdout:  stdout,
		stderr:  stderr,
		output:  termOutput,
		lg:      lipgloss.NewRenderer(stderr),
		plain:   plain,
		tasks:   make(map[string]*taskState),
		buffers: make(map[string]*bytes.Buffer),
	}
}

// Start is a no-op for linear renderer (synchronous).
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes all remaining buffers.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for spanID := range r.buffers {
		r.flushBufferLocked(spanID)
	}

	return nil
}

// Wait is a no-op for linear renderer (synchronous).
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the planned operations.
func (r *Renderer) OnPlanEmit(operations []string, _ map[string][]string, targets []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.stderr, "planning %d operation(s) for target(s): %v\n",
		len(operations), targets)
}

// OnTaskStart prints an operation start message.
func (r *Renderer) OnTaskStart(spanID, _ /* parentID */, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[spanID] = &taskState{
		name:      name,
		startTime: startTime,
	}
	r.buffers[spanID] = new(bytes.Buffer)

	prefix := r.prefixStyle().Render(fmt.Sprintf("[%s]", name))
	_, _ = fmt.Fprintf(r.stderr, "%s starting...\n", prefix)
}

// OnTaskLog buffers log data and prints complete lines with the operation
// name prefix.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	buf.Write(data)

	for {
		line, err := buf.ReadBytes('\n')
		if err != nil {
			if len(line) > 0 {
				newBuf := new(bytes.Buffer)
				newBuf.Write(line)
				r.buffers[spanID] = newBuf
			}
			break
		}

		r.printLineLocked(task.name, line)
	}
}

// OnTaskComplete flushes the remaining buffer and prints a completion status.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	r.flushBufferLocked(spanID)

	duration := endTime.Sub(task.startTime)
	prefix := fmt.Sprintf("[%s]", task.name)

	if err != nil {
		symbol := r.statusStyle(style.Red).Render(style.Cross)
		_, _ = fmt.Fprintf(r.stderr, "%s %s failed after %v: %v\n",
			prefix, symbol, duration, err)
	} else {
		symbol := r.statusStyle(style.Green).Render(style.Check)
		_, _ = fmt.Fprintf(r.stderr, "%s %s completed in %v\n",
			prefix, symbol, duration)
	}

	delete(r.tasks, spanID)
	delete(r.buffers, spanID)
}

// prefixStyle is the faint style used for operation-name prefixes, unless
// plain output was requested.
func (r *Renderer) prefixStyle() lipgloss.Style {
	if r.plain {
		return r.lg.NewStyle()
	}
	return r.lg.NewStyle().Faint(true)
}

// statusStyle colors a completion symbol, unless plain output was requested.
func (r *Renderer) statusStyle(color lipgloss.Color) lipgloss.Style {
	if r.plain {
		return r.lg.NewStyle()
	}
	return r.lg.NewStyle().Foreground(color)
}

// flushBufferLocked flushes any remaining data in the buffer for an
// operation. Must be called with r.mu held.
func (r *Renderer) flushBufferLocked(spanID string) {
	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	if buf.Len() > 0 {
		r.printLineLocked(task.name, buf.Bytes())
		buf.Reset()
	}
}

// printLineLocked prints a line with the operation name prefix. Must be
// called with r.mu held.
func (r *Renderer) printLineLocked(taskName string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))

	if len(line) == 0 {
		return
	}

	prefix := fmt.Sprintf("[%s]", taskName)
	_, _ = fmt.Fprintf(r.stdout, "%s %s\n", prefix, string(line))
}
