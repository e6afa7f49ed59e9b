package ports

import (
	"context"
	"io"
)

// ProcessResult reports how a subprocess terminated.
type ProcessResult struct {
	ExitCode int
	// Signalled is true when the process was terminated by a signal,
	// typically because the caller's context was cancelled.
	Signalled bool
	// Cancelled is true when termination followed a caller-initiated
	// cancellation; exit-by-signal in that case is not logged as an error
	// (section 6, Exit handling).
	Cancelled bool
}

// Executor launches external tools (the build tool for preparation, the
// indexer for index-store updates) and relays cancellation as an interrupt
// signal to the child, awaiting its exit rather than killing it outright.
type Executor interface {
	// Run executes name with args in dir, streaming combined output to out,
	// and returns once the process exits or ctx is cancelled. A non-zero
	// exit is reported via the returned ProcessResult, not as an error:
	// compilation failures in user code are expected, not exceptional
	// (section 6, Exit handling / section 7, SubprocessFailure).
	Run(ctx context.Context, name string, args []string, dir string, env []string, out io.Writer) (ProcessResult, error)
}
