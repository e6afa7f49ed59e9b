// Package resolver implements the build-settings resolver: it loads a
// package manifest, resolves dependencies, and serves per-file configured-
// target and build-settings queries against the resulting build graph.
package resolver

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.indexbridge.dev/core/internal/core/domain"
	"go.indexbridge.dev/core/internal/core/ports"
	"go.trai.ch/zerr"
)

// snapshot bundles the build graph with the per-load collaborators needed to
// answer build-settings queries, without polluting the domain package with
// function-valued fields.
type snapshot struct {
	graph            *domain.BuildGraph
	compileArguments func(targetID, sourcePath string) ([]string, error)
	interpreterFlags []string
}

// Resolver serializes all mutable state behind a single mutex, modeling the
// specification's single-threaded cooperative actor with a lock rather than
// a message-passing goroutine, consistent with how the rest of this module
// guards shared state.
type Resolver struct {
	mu sync.Mutex

	root   string
	setup  domain.BuildSetupConfig
	loader ports.PackageLoader
	paths  ports.PathResolver
	logger ports.Logger
	tracer ports.Tracer

	current *snapshot

	delegate  ports.BuildSystemDelegate
	watched   map[string]struct{}
	changeCbs []func([]string)
	indexOnly bool

	// substituteCache memoizes patchArguments results keyed by an xxhash of
	// (target, substitute path, resolved requested path), since the same
	// header is typically requested repeatedly across an editing session and
	// patching re-walks the full argument vector each time. Invalidated
	// wholesale on every successful Reload.
	substituteCache map[uint64][]string
}

// New creates a Resolver rooted at root. indexOnly controls whether reload
// forces already-resolved dependency versions (false) or allows fetching
// unresolved ones (true), per the index-only-mode distinction.
func New(
	root string,
	setup domain.BuildSetupConfig,
	loader ports.PackageLoader,
	paths ports.PathResolver,
	logger ports.Logger,
	tracer ports.Tracer,
	delegate ports.BuildSystemDelegate,
	indexOnly bool,
) *Resolver {
	return &Resolver{
		root:            root,
		setup:           setup,
		loader:          loader,
		paths:           paths,
		logger:          logger,
		tracer:          tracer,
		delegate:        delegate,
		watched:         make(map[string]struct{}),
		indexOnly:       indexOnly,
		current:         &snapshot{graph: domain.NewBuildGraph(root, "")},
		substituteCache: make(map[uint64][]string),
	}
}

// RegisterForChangeNotifications marks uri as watched, so it is included in
// the fileBuildSettingsChanged notification on the next successful reload.
func (r *Resolver) RegisterForChangeNotifications(uri string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watched[uri] = struct{}{}
}

// UnregisterForChangeNotifications stops watching uri.
func (r *Resolver) UnregisterForChangeNotifications(uri string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.watched, uri)
}

// AddSourceFilesDidChangeCallback registers cb to be invoked, with the full
// current source file list, after every successful reload.
func (r *Resolver) AddSourceFilesDidChangeCallback(cb func([]string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changeCbs = append(r.changeCbs, cb)
}

// Reload loads the package manifest fresh and, on success, atomically
// replaces the resolver's target maps; on failure the prior state is fully
// preserved. ReloadStatus=Start/End is reported via statusCallback, with End
// firing unconditionally even when the load fails (Open Question a).
func (r *Resolver) Reload(ctx context.Context, statusCallback func(domain.ReloadStatus)) error {
	if statusCallback != nil {
		statusCallback(domain.ReloadStart)
	}
	defer func() {
		if statusCallback != nil {
			statusCallback(domain.ReloadEnd)
		}
	}()

	ctx, span := r.tracer.Start(ctx, "resolver.reload")
	defer span.End()

	desc, err := r.loader.Load(r.root, r.setup, !r.indexOnly)
	if err != nil {
		wrapped := zerr.Wrap(err, domain.ErrPackageLoadFailure.Error())
		span.RecordError(wrapped)
		r.logger.Error(wrapped)
		return wrapped
	}

	next, err := r.buildSnapshot(desc)
	if err != nil {
		span.RecordError(err)
		r.logger.Error(err)
		return err
	}

	r.mu.Lock()
	r.current = next
	r.substituteCache = make(map[uint64][]string)
	watched := make([]string, 0, len(r.watched))
	for uri := range r.watched {
		watched = append(watched, uri)
	}
	cbs := slices.Clone(r.changeCbs)
	sources := r.sourceFilesLocked()
	r.mu.Unlock()

	if r.delegate != nil {
		r.delegate.FileBuildSettingsChanged(watched)
		r.delegate.FileHandlingCapabilityChanged()
	}
	for _, cb := range cbs {
		cb(sources)
	}

	return nil
}

// buildSnapshot enumerates targets in topological order and constructs the
// three lookup maps. Duplicate configured-target identities are logged as
// faults; the later target wins.
func (r *Resolver) buildSnapshot(desc *ports.PackageDescription) (*snapshot, error) {
	manifestPath := filepath.Join(r.root, domain.ManifestFileName)
	graph := domain.NewBuildGraph(r.root, manifestPath)

	for i, lt := range desc.Targets {
		ct := domain.ConfiguredTarget{
			TargetID:         domain.NewInternedString(lt.ID),
			RunDestinationID: domain.NewInternedString("dummy"),
		}
		if _, dup := graph.Targets[ct]; dup {
			r.logger.Warn("duplicate configured target in build graph, last-wins", "target", lt.ID)
		}

		t := &domain.Target{
			ID:               domain.NewInternedString(lt.ID),
			RunDestinationID: ct.RunDestinationID,
			Sources:          domain.NewInternedStrings(lt.Sources),
			Dependencies:     domain.NewInternedStrings(lt.Dependencies),
			Index:            i,
		}
		graph.Targets[ct] = t

		for _, src := range lt.Sources {
			abs := src
			if !filepath.IsAbs(abs) {
				abs = filepath.Join(r.root, abs)
			}
			graph.FileToTarget[abs] = ct
		}
		if len(lt.Sources) > 0 {
			dir := filepath.Dir(resolvePathJoin(r.root, lt.Sources[0]))
			graph.SourceDirToTarget[dir] = ct
		}
	}

	return &snapshot{
		graph:            graph,
		compileArguments: desc.CompileArguments,
		interpreterFlags: desc.InterpreterFlags,
	}, nil
}

func resolvePathJoin(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

func (r *Resolver) sourceFilesLocked() []string {
	out := make([]string, 0, len(r.current.graph.FileToTarget))
	for f := range r.current.graph.FileToTarget {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// SourceFiles returns every known source file path, sorted.
func (r *Resolver) SourceFiles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sourceFilesLocked()
}

// filePathFromURI strips a file:// scheme; non-file URIs return ok=false.
func filePathFromURI(uri string) (string, bool) {
	const scheme = "file://"
	if !strings.HasPrefix(uri, scheme) {
		return "", false
	}
	return strings.TrimPrefix(uri, scheme), true
}

// resolveSymlink returns the symlink-resolved form of path, memoizing the
// mapping so repeated queries for the same unresolved path are cheap.
func (r *Resolver) resolveSymlink(path string) (string, error) {
	if r.paths == nil {
		return path, nil
	}
	resolved, err := r.paths.Resolve(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrSymlinkResolutionFailure.Error()), "path", path)
	}
	return resolved, nil
}

// ConfiguredTargets returns the configured targets owning uri, per the
// specification's query order: direct hit, then symlink-resolved hit, then
// the manifest sentinel, then ancestor-directory walk, else empty.
func (r *Resolver) ConfiguredTargets(uri string) ([]domain.ConfiguredTarget, error) {
	path, ok := filePathFromURI(uri)
	if !ok {
		return nil, nil
	}

	r.mu.Lock()
	graph := r.current.graph
	r.mu.Unlock()

	if ct, ok := graph.FileToTarget[path]; ok {
		return []domain.ConfiguredTarget{ct}, nil
	}

	resolved, err := r.resolveSymlink(path)
	if err == nil && resolved != path {
		if ct, ok := graph.FileToTarget[resolved]; ok {
			r.memoizeResolved(path, resolved, ct)
			return []domain.ConfiguredTarget{ct}, nil
		}
	}

	if filepath.Base(path) == domain.ManifestFileName {
		return []domain.ConfiguredTarget{domain.ManifestConfiguredTarget()}, nil
	}

	if ct, ok := r.ancestorLookup(graph, path); ok {
		return []domain.ConfiguredTarget{ct}, nil
	}
	if resolved != path {
		if ct, ok := r.ancestorLookup(graph, resolved); ok {
			return []domain.ConfiguredTarget{ct}, nil
		}
	}

	return nil, nil
}

func (r *Resolver) ancestorLookup(graph *domain.BuildGraph, path string) (domain.ConfiguredTarget, bool) {
	dir := filepath.Dir(path)
	for {
		if ct, ok := graph.SourceDirToTarget[dir]; ok {
			return ct, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return domain.ConfiguredTarget{}, false
		}
		dir = parent
	}
}

// memoizeResolved caches the resolved path's hit directly in FileToTarget so
// future lookups for the resolved path avoid a second symlink resolution.
func (r *Resolver) memoizeResolved(_, resolved string, ct domain.ConfiguredTarget) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current.graph.FileToTarget == nil {
		return
	}
	r.current.graph.FileToTarget[resolved] = ct
}

// BuildSettings answers a (uri, configured target, language) query,
// returning the manifest's interpreter flags for the sentinel target or a
// (possibly substitute-patched) compiler argument vector otherwise.
func (r *Resolver) BuildSettings(uri string, ct domain.ConfiguredTarget, _ string) (domain.FileBuildSettings, error) {
	path, ok := filePathFromURI(uri)
	if !ok {
		return domain.FileBuildSettings{}, domain.ErrMissingTarget
	}

	r.mu.Lock()
	graph := r.current.graph
	compileArgs := r.current.compileArguments
	interpreterFlags := r.current.interpreterFlags
	r.mu.Unlock()

	if ct.IsManifest() {
		args := append(slices.Clone(interpreterFlags), graph.ManifestPath)
		return domain.FileBuildSettings{Arguments: args, WorkingDirectory: graph.Root}, nil
	}

	target, ok := graph.Target(ct)
	if !ok {
		return domain.FileBuildSettings{}, zerr.With(domain.ErrTargetNotFound, "target", ct.String())
	}

	resolvedPath, err := r.resolveSymlink(path)
	if err != nil {
		return domain.FileBuildSettings{}, err
	}

	sourcePath := path
	if containsSource(target.Sources, path) {
		sourcePath = path
	} else if containsSource(target.Sources, resolvedPath) {
		sourcePath = resolvedPath
	} else {
		substitute, ok := chooseSubstitute(target.Sources)
		if !ok {
			return domain.FileBuildSettings{}, domain.ErrNoSourcesInTarget
		}

		key := substituteCacheKey(target.ID.String(), substitute, resolvedPath)
		r.mu.Lock()
		cached, hit := r.substituteCache[key]
		r.mu.Unlock()
		if hit {
			return domain.FileBuildSettings{Arguments: cached, WorkingDirectory: graph.Root}, nil
		}

		args, err := compileArgs(target.ID.String(), substitute)
		if err != nil {
			return domain.FileBuildSettings{}, zerr.Wrap(err, "failed to obtain substitute compiler arguments")
		}
		patched := patchArguments(args, substitute, resolvedPath)

		r.mu.Lock()
		r.substituteCache[key] = patched
		r.mu.Unlock()

		return domain.FileBuildSettings{Arguments: patched, WorkingDirectory: graph.Root}, nil
	}

	args, err := compileArgs(target.ID.String(), sourcePath)
	if err != nil {
		return domain.FileBuildSettings{}, zerr.Wrap(err, "failed to obtain compiler arguments")
	}
	return domain.FileBuildSettings{Arguments: args, WorkingDirectory: graph.Root}, nil
}

// substituteCacheKey derives the memoization key for a substitute-patched
// argument lookup from the triple that determines its result.
func substituteCacheKey(targetID, substitutePath, resolvedPath string) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(targetID)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(substitutePath)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(resolvedPath)
	return h.Sum64()
}

func containsSource(sources []domain.InternedString, path string) bool {
	for _, s := range sources {
		if s.String() == path {
			return true
		}
	}
	return false
}

// TopologicalSort exposes the resolver's current graph to the package-level
// TopologicalSort utility.
func (r *Resolver) TopologicalSort(targets []domain.ConfiguredTarget) []domain.ConfiguredTarget {
	r.mu.Lock()
	graph := r.current.graph
	r.mu.Unlock()
	return TopologicalSort(graph, targets)
}

// TargetsDependingOn exposes the resolver's current graph to the
// package-level TargetsDependingOn utility.
func (r *Resolver) TargetsDependingOn(targets []domain.ConfiguredTarget) []domain.ConfiguredTarget {
	r.mu.Lock()
	graph := r.current.graph
	r.mu.Unlock()
	return TargetsDependingOn(graph, targets)
}

// Graph returns the resolver's current build graph snapshot.
func (r *Resolver) Graph() *domain.BuildGraph {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current.graph
}

// FilesInTarget returns every source file belonging to ct, or nil if ct is
// unknown.
func (r *Resolver) FilesInTarget(ct domain.ConfiguredTarget) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, ok := r.current.graph.Target(ct)
	if !ok {
		return nil
	}
	out := make([]string, len(target.Sources))
	for i, s := range target.Sources {
		out[i] = s.String()
	}
	return out
}

// IsHandled reports whether uri maps to at least one configured target,
// the definition of file_handling_capability (invariant 7).
func (r *Resolver) IsHandled(uri string) bool {
	targets, err := r.ConfiguredTargets(uri)
	return err == nil && len(targets) > 0
}
