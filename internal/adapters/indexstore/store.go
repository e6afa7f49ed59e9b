// Package indexstore triggers a compiled unit's index-data merge by
// re-invoking the compiler with the prepared arguments plus
// -index-store-path; the store's own on-disk record format is out of
// scope, this adapter only needs the compiler to produce it.
package indexstore

import (
	"bytes"
	"context"
	"path/filepath"

	"go.indexbridge.dev/core/internal/core/domain"
	"go.indexbridge.dev/core/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.IndexStore = (*Store)(nil)

// Store implements ports.IndexStore for a single workspace.
type Store struct {
	executor  ports.Executor
	toolchain ports.ToolchainRegistry
	path      string
	logger    ports.Logger
}

// NewStore creates a new Store that merges units into the index store at
// path (typically <scratch>/index/store).
func NewStore(executor ports.Executor, toolchain ports.ToolchainRegistry, path string, logger ports.Logger) *Store {
	return &Store{executor: executor, toolchain: toolchain, path: path, logger: logger}
}

// Update implements ports.IndexStore.
func (s *Store) Update(ctx context.Context, unit ports.IndexUnit) error {
	tc, err := s.toolchain.DefaultToolchain(ctx)
	if err != nil {
		return err
	}

	args := append(append([]string{}, unit.Arguments...), "-index-store-path", s.path)
	swiftc := filepath.Join(tc.Path, "swiftc")

	var out bytes.Buffer
	result, err := s.executor.Run(ctx, swiftc, args, unit.WorkingDir, nil, &out)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrIndexUpdateFailed.Error()), "file", unit.SourcePath)
	}
	if result.ExitCode != 0 {
		return zerr.With(domain.ErrIndexUpdateFailed, "file", unit.SourcePath, "exit_code", result.ExitCode)
	}

	if s.logger != nil {
		s.logger.Debug("merged index unit", "target", unit.TargetID, "file", unit.SourcePath)
	}
	return nil
}
