// Package swiftpm loads a SwiftPM package description by shelling out to
// `swift package describe`, treating the package manager itself as an
// opaque collaborator (the core never links libSwiftPM).
package swiftpm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"go.indexbridge.dev/core/internal/core/domain"
	"go.indexbridge.dev/core/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.PackageLoader = (*Loader)(nil)

// Loader implements ports.PackageLoader by invoking `swift package describe
// --type json` and translating its target graph into ports.LoadedTarget,
// then synthesizing per-source compiler invocations from the target's
// declared module name, dependency module names, and the effective
// BuildSetupConfig flags.
type Loader struct {
	executor  ports.Executor
	toolchain ports.ToolchainRegistry
	logger    ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(executor ports.Executor, toolchain ports.ToolchainRegistry, logger ports.Logger) *Loader {
	return &Loader{executor: executor, toolchain: toolchain, logger: logger}
}

// describeOutput mirrors the subset of `swift package describe --type json`
// this loader depends on.
type describeOutput struct {
	Name    string           `json:"name"`
	Path    string           `json:"path"`
	Targets []describeTarget `json:"targets"`
}

type describeTarget struct {
	Name               string   `json:"name"`
	C99Name            string   `json:"c99name"`
	ModuleType         string   `json:"module_type"`
	Path               string   `json:"path"`
	Sources            []string `json:"sources"`
	TargetDependencies []string `json:"target_dependencies"`
}

// Load implements ports.PackageLoader.
func (l *Loader) Load(root string, setup domain.BuildSetupConfig, forceResolvedVersions bool) (*ports.PackageDescription, error) {
	ctx := context.Background()

	toolchain, err := l.toolchain.DefaultToolchain(ctx)
	if err != nil {
		return nil, err
	}

	swiftBin := filepath.Join(toolchain.Path, "swift")

	args := []string{"package", "describe", "--type", "json"}
	if forceResolvedVersions {
		args = append([]string{"package", "--disable-automatic-resolution"}, args[1:]...)
	}

	var out bytes.Buffer
	result, err := l.executor.Run(ctx, swiftBin, args, root, nil, &out)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to invoke swift package describe")
	}
	if result.ExitCode != 0 {
		return nil, zerr.With(domain.ErrPackageLoadFailure, "exit_code", result.ExitCode)
	}

	var described describeOutput
	if err := json.Unmarshal(out.Bytes(), &described); err != nil {
		return nil, zerr.Wrap(err, "failed to parse swift package describe output")
	}

	targetsByName := make(map[string]describeTarget, len(described.Targets))
	for _, t := range described.Targets {
		targetsByName[t.Name] = t
	}

	loaded := make([]ports.LoadedTarget, 0, len(described.Targets))
	for _, t := range described.Targets {
		loaded = append(loaded, ports.LoadedTarget{
			ID:           t.Name,
			Sources:      absoluteSources(t.Path, t.Sources),
			Dependencies: t.TargetDependencies,
		})
	}

	desc := &ports.PackageDescription{
		Targets:          loaded,
		InterpreterFlags: setup.Flags.Swift,
		CompileArguments: func(targetID, sourcePath string) ([]string, error) {
			target, ok := targetsByName[targetID]
			if !ok {
				return nil, zerr.With(domain.ErrTargetNotFound, "target", targetID)
			}
			return compileArguments(target, sourcePath, setup), nil
		},
	}

	if l.logger != nil {
		l.logger.Debug("loaded package description", "root", root, "targets", len(loaded))
	}

	return desc, nil
}

func absoluteSources(targetPath string, sources []string) []string {
	abs := make([]string, 0, len(sources))
	for _, s := range sources {
		if filepath.IsAbs(s) {
			abs = append(abs, s)
			continue
		}
		abs = append(abs, filepath.Join(targetPath, s))
	}
	return abs
}

// compileArguments synthesizes a swiftc invocation for one source file of a
// target: the target's own module name, its dependencies' module names as
// -I search hints, and the effective per-language flags merged in from the
// build setup.
func compileArguments(target describeTarget, sourcePath string, setup domain.BuildSetupConfig) []string {
	args := []string{
		"-module-name", moduleName(target),
		"-c", sourcePath,
	}

	for _, dep := range target.TargetDependencies {
		args = append(args, "-I", dep)
	}

	if setup.EffectiveConfiguration() == domain.ConfigurationRelease {
		args = append(args, "-O")
	} else {
		args = append(args, "-Onone", "-g")
	}

	args = append(args, setup.Flags.Swift...)

	return args
}

func moduleName(target describeTarget) string {
	if target.C99Name != "" {
		return target.C99Name
	}
	return fmt.Sprintf("%sModule", target.Name)
}
