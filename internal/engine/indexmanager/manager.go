// Package indexmanager implements the semantic index manager: it tracks
// per-file index freshness, schedules preparation and index-store-update
// tasks on the shared task scheduler, and answers
// wait-for-up-to-date-index queries.
package indexmanager

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	"go.indexbridge.dev/core/internal/core/domain"
	"go.indexbridge.dev/core/internal/core/ports"
	"go.indexbridge.dev/core/internal/engine/debounce"
	"go.indexbridge.dev/core/internal/engine/scheduler"
)

// Priority bands for the two kinds of index requests this component issues.
// Higher values run first (scheduler.Description.Priority).
const (
	PriorityBackground = 0
	PriorityRequested  = 10
)

// DependencyDebounceWindow is the coalescing window for
// fileDependenciesUpdated notifications following a preparation task.
const DependencyDebounceWindow = 500 * time.Millisecond

// resolverPort is the subset of the build-settings resolver the index
// manager depends on.
type resolverPort interface {
	ConfiguredTargets(uri string) ([]domain.ConfiguredTarget, error)
	BuildSettings(uri string, ct domain.ConfiguredTarget, language string) (domain.FileBuildSettings, error)
	TopologicalSort(targets []domain.ConfiguredTarget) []domain.ConfiguredTarget
	SourceFiles() []string
	FilesInTarget(ct domain.ConfiguredTarget) []string
}

// Manager owns indexStatus and the single optional build-graph-generation
// task (section 4.4). All mutable state is guarded by mu; scheduling a batch
// assigns every affected file's status before returning, with no
// suspension point in between (the critical ordering property).
type Manager struct {
	mu     sync.Mutex
	status map[string]domain.FileIndexStatus

	generateBuildGraphTask domain.TaskHandle

	resolver      resolverPort
	scheduler     *scheduler.Scheduler
	executor      ports.Executor
	indexStore    ports.IndexStore
	logger        ports.Logger
	delegate      ports.BuildSystemDelegate
	toolchainPath string
	workspace     string
	scratchPath   string

	depDebouncer *debounce.Debouncer[[]string]

	tasksWereScheduled func(count int)
	reload             func(ctx context.Context) error
}

// Config bundles Manager's fixed collaborators and environment.
type Config struct {
	Resolver           resolverPort
	Scheduler          *scheduler.Scheduler
	Executor           ports.Executor
	IndexStore         ports.IndexStore
	Logger             ports.Logger
	Delegate           ports.BuildSystemDelegate
	ToolchainPath      string
	Workspace          string
	ScratchPath        string
	TasksWereScheduled func(count int)
	// Reload regenerates the build graph; invoked by
	// ScheduleBuildGraphGenerationAndBackgroundIndexAllFiles.
	Reload func(ctx context.Context) error
}

// New creates a Manager from cfg.
func New(cfg Config) *Manager {
	m := &Manager{
		status:             make(map[string]domain.FileIndexStatus),
		resolver:           cfg.Resolver,
		scheduler:          cfg.Scheduler,
		executor:           cfg.Executor,
		indexStore:         cfg.IndexStore,
		logger:             cfg.Logger,
		delegate:           cfg.Delegate,
		toolchainPath:      cfg.ToolchainPath,
		workspace:          cfg.Workspace,
		scratchPath:        cfg.ScratchPath,
		tasksWereScheduled: cfg.TasksWereScheduled,
		reload:             cfg.Reload,
	}
	m.depDebouncer = debounce.New(DependencyDebounceWindow, unionFiles, m.emitDependenciesUpdated)
	return m
}

func unionFiles(older, newer []string) []string {
	seen := make(map[string]struct{}, len(older)+len(newer))
	for _, f := range older {
		seen[f] = struct{}{}
	}
	for _, f := range newer {
		seen[f] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (m *Manager) emitDependenciesUpdated(files []string) {
	if m.delegate != nil && len(files) > 0 {
		m.delegate.FileDependenciesUpdated(files)
	}
}

// ScheduleBackgroundIndex schedules a low-priority index pass over files not
// already up to date.
func (m *Manager) ScheduleBackgroundIndex(files []string) domain.TaskHandle {
	return m.schedule(files, PriorityBackground)
}

// ScheduleBuildGraphGenerationAndBackgroundIndexAllFiles spawns a single
// low-priority task that regenerates the build graph then schedules
// background indexing for every known source file. Only one such task runs
// at a time.
func (m *Manager) ScheduleBuildGraphGenerationAndBackgroundIndexAllFiles() domain.TaskHandle {
	m.mu.Lock()
	if m.generateBuildGraphTask != nil {
		existing := m.generateBuildGraphTask
		m.mu.Unlock()
		return existing
	}

	gh := newGroupHandle()
	m.generateBuildGraphTask = gh
	m.mu.Unlock()

	go func() {
		var err error
		if m.reload != nil {
			err = m.reload(context.Background())
		}

		var inner domain.TaskHandle
		if err == nil {
			files := m.resolver.SourceFiles()
			inner = m.schedule(files, PriorityBackground)
			err = inner.Wait()
		}

		m.mu.Lock()
		m.generateBuildGraphTask = nil
		m.mu.Unlock()

		gh.finish(err)
	}()

	return gh
}

// WaitForUpToDateIndexAll awaits any in-flight build-graph generation, then
// every currently tracked task, then returns.
func (m *Manager) WaitForUpToDateIndexAll(ctx context.Context) error {
	m.mu.Lock()
	graphTask := m.generateBuildGraphTask
	m.mu.Unlock()

	if graphTask != nil {
		if err := graphTask.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			m.logger.Warn("build graph generation failed while awaiting up-to-date index")
		}
	}

	return m.awaitAllTracked(ctx)
}

// WaitForUpToDateIndex narrows the wait to files: scheduling a smaller-scoped
// task can induce the scheduler to reschedule a broader background task
// ahead of it.
func (m *Manager) WaitForUpToDateIndex(ctx context.Context, files []string) error {
	handle := m.schedule(files, PriorityRequested)
	select {
	case <-handle.Done():
		return handle.Wait()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) awaitAllTracked(ctx context.Context) error {
	m.mu.Lock()
	handles := make(map[*groupHandle]struct{})
	for _, st := range m.status {
		if gh, ok := st.Task.(*groupHandle); ok {
			handles[gh] = struct{}{}
		}
	}
	m.mu.Unlock()

	for gh := range handles {
		select {
		case <-gh.done:
			_ = gh.Wait()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// InProgressIndexTasks reports files currently Scheduled and Executing, for
// in_progress_index_tasks introspection.
func (m *Manager) InProgressIndexTasks() (scheduled, executing []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for f, st := range m.status {
		switch st.State {
		case domain.IndexScheduled:
			scheduled = append(scheduled, f)
		case domain.IndexExecuting:
			executing = append(executing, f)
		}
	}
	sort.Strings(scheduled)
	sort.Strings(executing)
	return scheduled, executing
}

// schedule implements the scheduling algorithm (section 4.4): filter to
// out-of-date files, group by target, sort targets topologically with
// fallback, partition into batches, and synchronously assign Scheduled
// status to every file before spawning each batch's work.
func (m *Manager) schedule(files []string, priority int) *aggregateHandle {
	outOfDate := m.filterOutOfDate(files)
	sort.Strings(outOfDate)

	groups, dropped := groupByTarget(m.resolver, outOfDate)
	for _, f := range dropped {
		m.logger.Warn(domain.ErrMissingTarget.Error(), "file", f)
	}

	targets := make([]domain.ConfiguredTarget, 0, len(groups))
	for ct := range groups {
		targets = append(targets, ct)
	}
	sortedTargets := sortTargetsWithFallback(m.resolver, targets, m.logger)

	batches := partitionBatches(sortedTargets, 1)

	handles := make([]domain.TaskHandle, 0, len(batches))
	scheduledCount := 0

	m.mu.Lock()
	for _, batch := range batches {
		var batchFiles []string
		for _, ct := range batch {
			batchFiles = append(batchFiles, groups[ct]...)
		}

		gh := newGroupHandle()
		for _, f := range batchFiles {
			m.status[f] = domain.FileIndexStatus{State: domain.IndexScheduled, Task: gh}
		}
		scheduledCount += len(batchFiles)
		handles = append(handles, gh)

		go m.runBatch(batch, batchFiles, gh, priority)
	}
	m.mu.Unlock()

	if m.tasksWereScheduled != nil {
		m.tasksWereScheduled(scheduledCount)
	}

	return &aggregateHandle{handles: handles}
}

func (m *Manager) filterOutOfDate(files []string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(files))
	for _, f := range files {
		if st, ok := m.status[f]; ok && st.State == domain.IndexUpToDate {
			continue
		}
		out = append(out, f)
	}
	return out
}

// runBatch runs the batch's preparation task, then one update-index-store
// task per file (current sub-batch size is one).
func (m *Manager) runBatch(batch []domain.ConfiguredTarget, files []string, gh *groupHandle, priority int) {
	prep := newPreparationTask(batch, m.executor, m.toolchainPath, m.workspace, m.scratchPath, priority, m.logger)

	prepHandle, err := m.scheduler.Schedule(prep, nil)
	if err != nil {
		gh.finish(err)
		return
	}
	gh.setActive(prepHandle)

	prepErr := prepHandle.Wait()

	m.emitDependencyUpdateForBatch(batch)

	if prepErr != nil {
		gh.finish(prepErr)
		return
	}

	var wg sync.WaitGroup
	for _, f := range files {
		ct, ok := m.fileTarget(batch, f)
		if !ok {
			continue
		}

		wg.Add(1)
		go func(file string, target domain.ConfiguredTarget) {
			defer wg.Done()
			m.runUpdate(file, target, priority)
		}(f, ct)
	}
	wg.Wait()

	gh.finish(nil)
}

// fileTarget finds the batch target containing file by asking the resolver
// which target it currently owns; since the batch was formed from that same
// grouping, this always resolves within the batch.
func (m *Manager) fileTarget(batch []domain.ConfiguredTarget, file string) (domain.ConfiguredTarget, bool) {
	targets, err := m.resolver.ConfiguredTargets("file://" + file)
	if err != nil || len(targets) == 0 {
		return domain.ConfiguredTarget{}, false
	}
	if slices.Contains(batch, targets[0]) {
		return targets[0], true
	}
	return domain.ConfiguredTarget{}, false
}

func (m *Manager) runUpdate(file string, target domain.ConfiguredTarget, priority int) {
	update := &updateTask{
		file:       file,
		target:     target,
		resolver:   m.resolver,
		indexStore: m.indexStore,
		priority:   priority,
		logger:     m.logger,
	}

	handle, err := m.scheduler.Schedule(update, func(st scheduler.State) {
		m.onUpdateStateChange(file, st)
	})
	if err != nil {
		m.logger.Error(err, "file", file)
		return
	}

	if err := handle.Wait(); err != nil {
		m.logger.Warn(domain.ErrIndexUpdateFailed.Error(), "file", file)
	}
}

func (m *Manager) onUpdateStateChange(file string, st scheduler.State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.status[file]
	if !ok {
		m.logger.Warn("index status transition observed for untracked file", "file", file)
		return
	}

	switch st {
	case scheduler.StateExecuting:
		current.State = domain.IndexExecuting
	case scheduler.StateCancelledToBeRescheduled:
		current.State = domain.IndexScheduled
	case scheduler.StateFinished:
		current.State = domain.IndexUpToDate
		current.Task = nil
	}
	m.status[file] = current
}

func (m *Manager) emitDependencyUpdateForBatch(batch []domain.ConfiguredTarget) {
	var files []string
	for _, ct := range batch {
		files = append(files, m.resolver.FilesInTarget(ct)...)
	}
	if len(files) > 0 {
		m.depDebouncer.Schedule(files)
	}
}
