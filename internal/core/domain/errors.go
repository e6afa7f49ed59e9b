package domain

import "go.trai.ch/zerr"

var (
	// ErrNoManifest is returned by init when no package manifest can be
	// found walking up from the workspace path. Construction failure.
	ErrNoManifest = zerr.New("no package manifest found")

	// ErrCannotDetermineHostToolchain is returned by init when the toolchain
	// registry cannot resolve a default toolchain. Construction failure.
	ErrCannotDetermineHostToolchain = zerr.New("cannot determine host toolchain")

	// ErrPackageLoadFailure is returned by reload when the package loader
	// fails; the resolver's prior target maps are preserved.
	ErrPackageLoadFailure = zerr.New("package load failed")

	// ErrSymlinkResolutionFailure is returned from query methods when
	// resolving a path's real location fails; settings become unavailable
	// for that file, not globally.
	ErrSymlinkResolutionFailure = zerr.New("symlink resolution failed")

	// ErrMissingTarget is logged (not surfaced) when a file has no mapped
	// target during an index scheduling pass; the file is dropped from
	// that pass.
	ErrMissingTarget = zerr.New("file is not mapped to any target")

	// ErrTargetNotFound is returned when a query names a target absent
	// from the current build graph.
	ErrTargetNotFound = zerr.New("target not found")

	// ErrNoSourcesInTarget is returned when substitute-file selection is
	// attempted against a target with no sources at all.
	ErrNoSourcesInTarget = zerr.New("target has no source files to substitute from")

	// ErrEnvironmentNotCached reports a task that expects a previously
	// hydrated environment absent from the cache; no code path in this
	// module returns it.
	ErrEnvironmentNotCached = zerr.New("environment not found in cache")

	// ErrSchedulerClosed is returned by Schedule once the scheduler has
	// been shut down.
	ErrSchedulerClosed = zerr.New("scheduler is closed")

	// ErrConfigParseFailed is returned when the optional override config
	// file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse build-setup override file")

	// ErrConfigReadFailed is returned when the optional override config
	// file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read build-setup override file")

	// ErrPreparationFailed wraps a non-zero/aborted `swift build` invocation
	// reported through a task's result callback, never surfaced as an
	// Index Manager method error.
	ErrPreparationFailed = zerr.New("preparation task failed")

	// ErrIndexUpdateFailed wraps a failed index-store update invocation,
	// also never surfaced as a method error.
	ErrIndexUpdateFailed = zerr.New("index-store update failed")
)
