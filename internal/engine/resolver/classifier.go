package resolver

import (
	"path/filepath"
	"strings"

	"go.indexbridge.dev/core/internal/core/domain"
)

// CompileSettingsPredicate reports whether a created or deleted file's path
// would, if present, affect compile settings — e.g. adding or removing a
// source file from a target. It is supplied by the package loader adapter,
// which alone knows the manifest's source-file glob rules.
type CompileSettingsPredicate func(path string) bool

// Outcome is the result of classifying one file-system event.
type Outcome struct {
	// ShouldReload is true when the event must trigger a full reload().
	ShouldReload bool
	// DependenciesUpdated, when non-empty, is the file set that should be
	// reported to the build-system delegate's fileDependenciesUpdated,
	// without requiring a reload.
	DependenciesUpdated []string
}

// Classify implements the File-Event Classifier: created/deleted files that
// affect compile settings and changed manifest files trigger a reload;
// changed .swift files belonging to a known target report that target's
// files as having updated dependencies; in non-index-only mode, a changed
// compiled-module artifact conservatively reports every known file as
// updated.
func (r *Resolver) Classify(
	event domain.FileEvent,
	affectsCompileSettings CompileSettingsPredicate,
	isCompiledModuleArtifact func(path string) bool,
) Outcome {
	path, ok := filePathFromURI(event.URI)
	if !ok {
		return Outcome{}
	}

	switch event.Type {
	case domain.FileEventCreated, domain.FileEventDeleted:
		if affectsCompileSettings != nil && affectsCompileSettings(path) {
			return Outcome{ShouldReload: true}
		}
		return Outcome{}

	case domain.FileEventChanged:
		if filepath.Base(path) == domain.ManifestFileName {
			return Outcome{ShouldReload: true}
		}

		if strings.HasSuffix(path, ".swift") {
			if files, ok := r.targetFiles(path); ok {
				return Outcome{DependenciesUpdated: files}
			}
		}

		if !r.indexOnly && isCompiledModuleArtifact != nil && isCompiledModuleArtifact(path) {
			return Outcome{DependenciesUpdated: r.SourceFiles()}
		}
		return Outcome{}

	default:
		return Outcome{}
	}
}

// targetFiles returns every source file belonging to the target that
// contains path, if any.
func (r *Resolver) targetFiles(path string) ([]string, bool) {
	r.mu.Lock()
	graph := r.current.graph
	r.mu.Unlock()

	ct, ok := graph.FileToTarget[path]
	if !ok {
		return nil, false
	}
	target, ok := graph.Target(ct)
	if !ok {
		return nil, false
	}

	out := make([]string, len(target.Sources))
	for i, s := range target.Sources {
		out[i] = s.String()
	}
	return out, true
}
