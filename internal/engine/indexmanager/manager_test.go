package indexmanager_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.indexbridge.dev/core/internal/core/domain"
	"go.indexbridge.dev/core/internal/core/ports"
	"go.indexbridge.dev/core/internal/engine/indexmanager"
	"go.indexbridge.dev/core/internal/engine/scheduler"
)

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(error, ...any)  {}

func libTarget() domain.ConfiguredTarget {
	return domain.ConfiguredTarget{
		TargetID:         domain.NewInternedString("Lib"),
		RunDestinationID: domain.NewInternedString("dummy"),
	}
}

// fakeResolver maps every file to a single target, reports it first in
// topological order, and returns the target's full file list verbatim.
type fakeResolver struct {
	target domain.ConfiguredTarget
	files  []string
}

func (f *fakeResolver) ConfiguredTargets(string) ([]domain.ConfiguredTarget, error) {
	return []domain.ConfiguredTarget{f.target}, nil
}

func (f *fakeResolver) BuildSettings(uri string, _ domain.ConfiguredTarget, _ string) (domain.FileBuildSettings, error) {
	return domain.FileBuildSettings{Arguments: []string{"-c", uri}, WorkingDirectory: "/ws"}, nil
}

func (f *fakeResolver) TopologicalSort(targets []domain.ConfiguredTarget) []domain.ConfiguredTarget {
	return targets
}

func (f *fakeResolver) SourceFiles() []string { return f.files }

func (f *fakeResolver) FilesInTarget(domain.ConfiguredTarget) []string { return f.files }

type fakeExecutor struct {
	mu    sync.Mutex
	calls int
}

func (e *fakeExecutor) Run(ctx context.Context, _ string, _ []string, _ string, _ []string, _ io.Writer) (ports.ProcessResult, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	return ports.ProcessResult{ExitCode: 0}, nil
}

type fakeIndexStore struct {
	mu      sync.Mutex
	updated []string
}

func (s *fakeIndexStore) Update(_ context.Context, unit ports.IndexUnit) error {
	s.mu.Lock()
	s.updated = append(s.updated, unit.SourcePath)
	s.mu.Unlock()
	return nil
}

func (s *fakeIndexStore) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.updated...)
}

type failingIndexStore struct{}

func (failingIndexStore) Update(context.Context, ports.IndexUnit) error {
	return assert.AnError
}

type recordingDelegate struct {
	mu          sync.Mutex
	depsUpdated [][]string
}

func (d *recordingDelegate) FileBuildSettingsChanged([]string) {}
func (d *recordingDelegate) FileHandlingCapabilityChanged()    {}
func (d *recordingDelegate) FileDependenciesUpdated(files []string) {
	d.mu.Lock()
	d.depsUpdated = append(d.depsUpdated, files)
	d.mu.Unlock()
}

func newManager(t *testing.T, resolver *fakeResolver, executor ports.Executor, store ports.IndexStore, delegate ports.BuildSystemDelegate) *indexmanager.Manager {
	t.Helper()
	return indexmanager.New(indexmanager.Config{
		Resolver:      resolver,
		Scheduler:     scheduler.New(2),
		Executor:      executor,
		IndexStore:    store,
		Logger:        noopLogger{},
		Delegate:      delegate,
		ToolchainPath: "/toolchain",
		Workspace:     "/ws",
		ScratchPath:   "/ws/.build",
	})
}

func TestScheduleBackgroundIndex_RunsPreparationAndUpdate(t *testing.T) {
	resolver := &fakeResolver{target: libTarget(), files: []string{"/ws/a.swift", "/ws/b.swift"}}
	executor := &fakeExecutor{}
	store := &fakeIndexStore{}

	m := newManager(t, resolver, executor, store, nil)

	handle := m.ScheduleBackgroundIndex([]string{"/ws/a.swift", "/ws/b.swift"})
	require.NoError(t, handle.Wait())

	assert.ElementsMatch(t, []string{"/ws/a.swift", "/ws/b.swift"}, store.snapshot())

	scheduled, executing := m.InProgressIndexTasks()
	assert.Empty(t, scheduled)
	assert.Empty(t, executing)
}

func TestScheduleBackgroundIndex_SkipsAlreadyUpToDateFiles(t *testing.T) {
	resolver := &fakeResolver{target: libTarget(), files: []string{"/ws/a.swift"}}
	executor := &fakeExecutor{}
	store := &fakeIndexStore{}

	m := newManager(t, resolver, executor, store, nil)

	require.NoError(t, m.ScheduleBackgroundIndex([]string{"/ws/a.swift"}).Wait())
	require.NoError(t, m.ScheduleBackgroundIndex([]string{"/ws/a.swift"}).Wait())

	assert.Equal(t, []string{"/ws/a.swift"}, store.snapshot())
}

func TestScheduleBackgroundIndex_UpdateFailureDoesNotFailHandle(t *testing.T) {
	resolver := &fakeResolver{target: libTarget(), files: []string{"/ws/a.swift"}}
	executor := &fakeExecutor{}

	m := newManager(t, resolver, executor, failingIndexStore{}, nil)

	handle := m.ScheduleBackgroundIndex([]string{"/ws/a.swift"})
	require.NoError(t, handle.Wait())
}

func TestScheduleBuildGraphGeneration_SingleFlight(t *testing.T) {
	resolver := &fakeResolver{target: libTarget(), files: []string{"/ws/a.swift"}}
	executor := &fakeExecutor{}
	store := &fakeIndexStore{}

	reloadCalls := 0
	var mu sync.Mutex
	block := make(chan struct{})

	m := indexmanager.New(indexmanager.Config{
		Resolver:      resolver,
		Scheduler:     scheduler.New(2),
		Executor:      executor,
		IndexStore:    store,
		Logger:        noopLogger{},
		ToolchainPath: "/toolchain",
		Workspace:     "/ws",
		ScratchPath:   "/ws/.build",
		Reload: func(context.Context) error {
			mu.Lock()
			reloadCalls++
			mu.Unlock()
			<-block
			return nil
		},
	})

	first := m.ScheduleBuildGraphGenerationAndBackgroundIndexAllFiles()
	second := m.ScheduleBuildGraphGenerationAndBackgroundIndexAllFiles()

	close(block)
	require.NoError(t, first.Wait())
	require.NoError(t, second.Wait())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, reloadCalls)
}

func TestWaitForUpToDateIndex_RespectsContextCancellation(t *testing.T) {
	resolver := &fakeResolver{target: libTarget(), files: []string{"/ws/a.swift"}}
	executor := &fakeExecutor{}
	store := &fakeIndexStore{}

	m := newManager(t, resolver, executor, store, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	err := m.WaitForUpToDateIndex(ctx, []string{"/ws/a.swift"})
	if err != nil {
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}
}

func TestScheduleBackgroundIndex_EmitsDependenciesUpdatedToDelegate(t *testing.T) {
	resolver := &fakeResolver{target: libTarget(), files: []string{"/ws/a.swift", "/ws/b.swift"}}
	executor := &fakeExecutor{}
	store := &fakeIndexStore{}
	delegate := &recordingDelegate{}

	m := newManager(t, resolver, executor, store, delegate)

	require.NoError(t, m.ScheduleBackgroundIndex([]string{"/ws/a.swift"}).Wait())

	require.Eventually(t, func() bool {
		delegate.mu.Lock()
		defer delegate.mu.Unlock()
		return len(delegate.depsUpdated) > 0
	}, time.Second, time.Millisecond)
}
