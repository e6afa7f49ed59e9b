// Package app wires the adapters into the resolver, scheduler, delegate
// bus, and semantic index manager for one invocation of the CLI, following
// the same errgroup-driven renderer/work split the build-tool predecessor
// used for its own task graph.
package app

import (
	"context"
	"time"

	"go.indexbridge.dev/core/internal/adapters/detector"
	"go.indexbridge.dev/core/internal/adapters/indexstore"
	"go.indexbridge.dev/core/internal/adapters/linear"
	"go.indexbridge.dev/core/internal/adapters/telemetry"
	"go.indexbridge.dev/core/internal/core/domain"
	"go.indexbridge.dev/core/internal/core/ports"
	"go.indexbridge.dev/core/internal/engine/delegatebus"
	"go.indexbridge.dev/core/internal/engine/indexmanager"
	"go.indexbridge.dev/core/internal/engine/resolver"
	"go.indexbridge.dev/core/internal/engine/scheduler"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"
)

// Options carries the per-invocation parameters common to every operation:
// the workspace root and the build-setup overrides the CLI accepts as
// flags, merged on top of whatever .indexcore.yaml and built-in defaults
// the configured loader produces.
type Options struct {
	Root          string
	Configuration domain.Configuration
	ScratchPath   string
	IndexOnly     bool
	Concurrency   int
	OutputFlag    string
}

// App composes the process-wide adapters. One App is constructed per
// process; each operation builds its own resolver/scheduler/index-manager
// session scoped to Options.Root.
type App struct {
	configLoader  ports.BuildSetupLoader
	packageLoader ports.PackageLoader
	paths         ports.PathResolver
	executor      ports.Executor
	watcher       ports.Watcher
	toolchain     ports.ToolchainRegistry
	logger        ports.Logger
}

// New creates an App from its adapters.
func New(
	configLoader ports.BuildSetupLoader,
	packageLoader ports.PackageLoader,
	paths ports.PathResolver,
	executor ports.Executor,
	watcher ports.Watcher,
	toolchain ports.ToolchainRegistry,
	logger ports.Logger,
) *App {
	return &App{
		configLoader:  configLoader,
		packageLoader: packageLoader,
		paths:         paths,
		executor:      executor,
		watcher:       watcher,
		toolchain:     toolchain,
		logger:        logger,
	}
}

// session bundles one operation's engine components and the renderer/tracer
// pair driving their progress output.
type session struct {
	resolver *resolver.Resolver
	manager  *indexmanager.Manager
	bus      *delegatebus.Bus
	sched    *scheduler.Scheduler
	renderer ports.Renderer
	tracer   *telemetry.OTelTracer
	tp       *sdktrace.TracerProvider
}

// newSession resolves the effective build-setup config, picks and starts
// a renderer, registers a span processor bridging its lifecycle to the
// renderer, and constructs the resolver/scheduler/index-manager/delegate-bus
// quartet for opts.Root. The returned closer stops the scheduler, flushes
// and waits on the renderer, and shuts down the tracer provider.
func (a *App) newSession(ctx context.Context, opts Options) (*session, func(), error) {
	setup, err := a.configLoader.Load(opts.Root)
	if err != nil {
		return nil, nil, err
	}
	setup = setup.Merge(domain.BuildSetupConfig{
		Configuration: opts.Configuration,
		ScratchPath:   opts.ScratchPath,
	})

	mode := detector.ResolveMode(detector.DetectEnvironment(), opts.OutputFlag)
	renderer := linear.NewRenderer(nil, nil, mode == detector.ModePlain)
	if err := renderer.Start(ctx); err != nil {
		return nil, nil, err
	}

	bridge := telemetry.NewBridge(renderer)
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(bridge))
	otel.SetTracerProvider(tp)
	tracer := telemetry.NewOTelTracer("indexcore").WithRenderer(renderer)

	bus := delegatebus.New()

	scratchPath := setup.ScratchPath
	if scratchPath == "" {
		scratchPath = domain.DefaultScratchPath(opts.Root, opts.IndexOnly)
	}

	res := resolver.New(opts.Root, setup, a.packageLoader, a.paths, a.logger, tracer, bus, opts.IndexOnly)

	toolchainInfo, err := a.toolchain.DefaultToolchain(ctx)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = renderer.Stop()
		return nil, nil, err
	}

	store := indexstore.NewStore(a.executor, a.toolchain, scratchPath+"/index/store", a.logger)
	sched := scheduler.New(opts.Concurrency)

	manager := indexmanager.New(indexmanager.Config{
		Resolver:      res,
		Scheduler:     sched,
		Executor:      a.executor,
		IndexStore:    store,
		Logger:        a.logger,
		Delegate:      bus,
		ToolchainPath: toolchainInfo.Path,
		Workspace:     opts.Root,
		ScratchPath:   scratchPath,
		Reload: func(ctx context.Context) error {
			return res.Reload(ctx, nil)
		},
	})

	sess := &session{resolver: res, manager: manager, bus: bus, sched: sched, renderer: renderer, tracer: tracer, tp: tp}

	closer := func() {
		sched.Close()
		_ = renderer.Stop()
		_ = renderer.Wait()
		_ = tp.Shutdown(ctx)
	}

	return sess, closer, nil
}

// Reload loads the package manifest fresh, reporting progress through the
// selected renderer.
func (a *App) Reload(ctx context.Context, opts Options) error {
	sess, closer, err := a.newSession(ctx, opts)
	if err != nil {
		return err
	}
	defer closer()

	ctx, span := sess.tracer.Start(ctx, "reload")
	defer span.End()

	if err := sess.resolver.Reload(ctx, nil); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// Index reloads the package and schedules background indexing for files,
// or, if files is empty, for every source file in the workspace.
func (a *App) Index(ctx context.Context, opts Options, files []string) error {
	sess, closer, err := a.newSession(ctx, opts)
	if err != nil {
		return err
	}
	defer closer()

	ctx, span := sess.tracer.Start(ctx, "index")
	defer span.End()

	if err := sess.resolver.Reload(ctx, nil); err != nil {
		span.RecordError(err)
		return err
	}

	if len(files) == 0 {
		sess.tracer.EmitPlan(ctx, []string{"build-graph-generation", "background-index"}, nil, []string{opts.Root})
		sess.manager.ScheduleBuildGraphGenerationAndBackgroundIndexAllFiles()
		if err := sess.manager.WaitForUpToDateIndexAll(ctx); err != nil {
			span.RecordError(err)
			return err
		}
		return nil
	}

	sess.tracer.EmitPlan(ctx, []string{"background-index"}, nil, files)
	sess.manager.ScheduleBackgroundIndex(files)
	if err := sess.manager.WaitForUpToDateIndex(ctx, files); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// Watch starts the file watcher and drives reload/reindex decisions through
// the resolver's File-Event Classifier until ctx is cancelled.
func (a *App) Watch(ctx context.Context, opts Options) error {
	sess, closer, err := a.newSession(ctx, opts)
	if err != nil {
		return err
	}
	defer closer()

	ctx, span := sess.tracer.Start(ctx, "watch")
	defer span.End()

	if err := sess.resolver.Reload(ctx, nil); err != nil {
		span.RecordError(err)
		return err
	}
	sess.manager.ScheduleBuildGraphGenerationAndBackgroundIndexAllFiles()

	if err := a.watcher.Start(ctx, opts.Root); err != nil {
		span.RecordError(err)
		return err
	}
	defer func() { _ = a.watcher.Stop() }()

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return a.watchLoop(gctx, sess)
	})

	if err := group.Wait(); err != nil && gctx.Err() == nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// watchLoop classifies every raw file-system event and reacts: a reload for
// manifest or target-membership changes, a targeted reindex for source
// edits, nothing for everything else.
func (a *App) watchLoop(ctx context.Context, sess *session) error {
	for event := range a.watcher.Events() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fileEvent := domain.FileEvent{
			URI:  "file://" + event.Path,
			Type: classifyOp(event.Operation),
		}

		outcome := sess.resolver.Classify(fileEvent, nil, nil)
		if outcome.ShouldReload {
			if err := sess.resolver.Reload(ctx, nil); err != nil {
				a.logger.Warn("reload after file event failed", "path", event.Path, "error", err.Error())
			}
			continue
		}
		if len(outcome.DependenciesUpdated) > 0 {
			sess.manager.ScheduleBackgroundIndex(outcome.DependenciesUpdated)
		}
	}
	return nil
}

func classifyOp(op ports.WatchOp) domain.FileEventType {
	switch op {
	case ports.OpCreate:
		return domain.FileEventCreated
	case ports.OpRemove:
		return domain.FileEventDeleted
	case ports.OpWrite, ports.OpRename:
		return domain.FileEventChanged
	default:
		return domain.FileEventUnknown
	}
}

// StatusReport summarizes in-progress indexing for the `status` subcommand.
type StatusReport struct {
	Scheduled []string
	Executing []string
	Workspace string
	CheckedAt time.Time
}

// Status reloads the package and reports in-progress index tasks.
func (a *App) Status(ctx context.Context, opts Options) (StatusReport, error) {
	sess, closer, err := a.newSession(ctx, opts)
	if err != nil {
		return StatusReport{}, err
	}
	defer closer()

	if err := sess.resolver.Reload(ctx, nil); err != nil {
		return StatusReport{}, err
	}

	scheduled, executing := sess.manager.InProgressIndexTasks()
	return StatusReport{
		Scheduled: scheduled,
		Executing: executing,
		Workspace: opts.Root,
		CheckedAt: time.Now(),
	}, nil
}
