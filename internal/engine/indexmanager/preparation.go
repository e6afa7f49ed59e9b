package indexmanager

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/cespare/xxhash/v2"
	"go.indexbridge.dev/core/internal/core/domain"
	"go.indexbridge.dev/core/internal/core/ports"
	"go.indexbridge.dev/core/internal/engine/scheduler"
)

// preparationTask builds a batch of targets' prerequisites so their sources
// can be individually indexed, via
// `<toolchain>/swift build --package-path <ws> --scratch-path <scratch>
// --disable-index-store --target <target_id>` invoked once per target.
type preparationTask struct {
	targets       []domain.ConfiguredTarget
	executor      ports.Executor
	toolchainPath string
	workspace     string
	scratchPath   string
	priority      int
	logger        ports.Logger

	onResult func(target domain.ConfiguredTarget, result ports.ProcessResult, output string, err error)

	// targetSetKey is an xxhash digest of the batch's sorted target IDs,
	// giving IsIdempotentWith an O(1) short-circuit for the common case of
	// two tasks covering the exact same batch, instead of always paying the
	// O(n*m) subset scan below.
	targetSetKey uint64
}

// newPreparationTask builds a preparationTask for batch, precomputing its
// dedup key once since targets never change after construction.
func newPreparationTask(
	batch []domain.ConfiguredTarget,
	executor ports.Executor,
	toolchainPath, workspace, scratchPath string,
	priority int,
	logger ports.Logger,
) *preparationTask {
	return &preparationTask{
		targets:       batch,
		executor:      executor,
		toolchainPath: toolchainPath,
		workspace:     workspace,
		scratchPath:   scratchPath,
		priority:      priority,
		logger:        logger,
		targetSetKey:  targetSetKey(batch),
	}
}

// targetSetKey hashes targets' IDs in sorted order so that two batches
// covering the same set of targets, regardless of discovery order, hash
// identically.
func targetSetKey(targets []domain.ConfiguredTarget) uint64 {
	ids := make([]string, len(targets))
	for i, t := range targets {
		ids[i] = t.String()
	}
	sort.Strings(ids)

	h := xxhash.New()
	for _, id := range ids {
		_, _ = h.WriteString(id)
		_, _ = h.WriteString("\x00")
	}
	return h.Sum64()
}

// Execute runs swift build once per target, sequentially. A per-target
// failure (non-zero exit, signal, or abnormal termination) is reported via
// onResult and does not abort the remaining targets; only cancellation
// aborts the whole batch early.
func (p *preparationTask) Execute(ctx context.Context) error {
	for _, ct := range p.targets {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		args := []string{
			"build",
			"--package-path", p.workspace,
			"--scratch-path", p.scratchPath,
			"--disable-index-store",
			"--target", ct.TargetID.String(),
		}

		var out bytes.Buffer
		result, err := p.executor.Run(ctx, fmt.Sprintf("%s/swift", p.toolchainPath), args, p.workspace, nil, &out)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if p.onResult != nil {
				p.onResult(ct, result, out.String(), err)
			}
			continue
		}

		if p.onResult != nil {
			p.onResult(ct, result, out.String(), nil)
		}
		if result.ExitCode != 0 && p.logger != nil {
			p.logger.Debug("preparation target exited non-zero", "target", ct.String(), "exit_code", result.ExitCode)
		}
	}
	return nil
}

// IsIdempotentWith reports whether other is a preparation task whose target
// set already contains every target self needs — i.e. other's execution
// would subsume self's, making self a candidate to preempt other when self
// is scheduled at higher priority (section 4.2's rescheduling protocol).
func (p *preparationTask) IsIdempotentWith(other scheduler.Description) bool {
	o, ok := other.(*preparationTask)
	if !ok {
		return false
	}
	if p.targetSetKey == o.targetSetKey {
		return true
	}
	return isSubset(p.targets, o.targets)
}

func (p *preparationTask) Priority() int { return p.priority }

func isSubset(a, b []domain.ConfiguredTarget) bool {
	for _, x := range a {
		if !slices.Contains(b, x) {
			return false
		}
	}
	return true
}
