// Package config provides the build-setup override loader.
package config

import (
	"path/filepath"

	"go.indexbridge.dev/core/internal/core/domain"
	"go.indexbridge.dev/core/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.BuildSetupLoader = (*Loader)(nil)

// overrideFile is the on-disk shape of .indexcore.yaml.
type overrideFile struct {
	Configuration        string   `yaml:"configuration"`
	DefaultWorkspaceType string   `yaml:"defaultWorkspaceType"`
	ScratchPath          string   `yaml:"scratchPath"`
	Flags                flagsDTO `yaml:"flags"`
}

type flagsDTO struct {
	C      []string `yaml:"c"`
	CXX    []string `yaml:"cxx"`
	Swift  []string `yaml:"swift"`
	Linker []string `yaml:"linker"`
}

// Loader implements ports.BuildSetupLoader: built-in defaults, merged with
// an optional .indexcore.yaml discovered by walking up from root, merged
// with a programmatic override (section 4.8).
type Loader struct {
	FS       FileSystem
	Logger   ports.Logger
	Override domain.BuildSetupConfig
}

// NewLoader creates a new Loader using the real filesystem. override is the
// programmatic override merged last, taking precedence over both defaults
// and the override file.
func NewLoader(logger ports.Logger, override domain.BuildSetupConfig) *Loader {
	return &Loader{FS: NewOSFS(), Logger: logger, Override: override}
}

// Load resolves the effective BuildSetupConfig for root.
func (l *Loader) Load(root string) (domain.BuildSetupConfig, error) {
	merged := domain.DefaultBuildSetupConfig()

	path, ok := l.findOverrideFile(root)
	if ok {
		fromFile, err := l.loadOverrideFile(path)
		if err != nil {
			return domain.BuildSetupConfig{}, err
		}
		merged = merged.Merge(fromFile)
	}

	merged = merged.Merge(l.Override)
	return merged, nil
}

// findOverrideFile walks up from root looking for .indexcore.yaml, the same
// upward-walk idiom the teacher's workfile/samefile discovery uses.
func (l *Loader) findOverrideFile(root string) (string, bool) {
	dir := root
	for {
		candidate := filepath.Join(dir, domain.OverrideConfigFileName)
		if _, err := l.FS.Stat(candidate); err == nil {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func (l *Loader) loadOverrideFile(path string) (domain.BuildSetupConfig, error) {
	contents, err := l.FS.ReadFile(path)
	if err != nil {
		return domain.BuildSetupConfig{}, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var dto overrideFile
	if err := yaml.Unmarshal(contents, &dto); err != nil {
		return domain.BuildSetupConfig{}, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	if l.Logger != nil {
		l.Logger.Debug("loaded build-setup override", "path", path)
	}

	return domain.BuildSetupConfig{
		Configuration:        domain.Configuration(dto.Configuration),
		DefaultWorkspaceType: domain.WorkspaceType(dto.DefaultWorkspaceType),
		ScratchPath:          dto.ScratchPath,
		Flags: domain.Flags{
			C:      dto.Flags.C,
			CXX:    dto.Flags.CXX,
			Swift:  dto.Flags.Swift,
			Linker: dto.Flags.Linker,
		},
	}, nil
}
