package config_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.indexbridge.dev/core/internal/adapters/config"
	"go.indexbridge.dev/core/internal/core/domain"
)

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(error, ...any)  {}

func TestLoader_Load_DefaultsOnly(t *testing.T) {
	root := t.TempDir()

	loader := config.NewLoader(noopLogger{}, domain.BuildSetupConfig{})
	cfg, err := loader.Load(root)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBuildSetupConfig(), cfg)
}

func TestLoader_Load_DiscoversOverrideFileWalkingUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	overridePath := filepath.Join(root, domain.OverrideConfigFileName)
	contents := "configuration: release\nscratchPath: /tmp/scratch\nflags:\n  swift:\n    - \"-DDEBUG\"\n"
	require.NoError(t, os.WriteFile(overridePath, []byte(contents), 0o600))

	loader := config.NewLoader(noopLogger{}, domain.BuildSetupConfig{})
	cfg, err := loader.Load(nested)
	require.NoError(t, err)

	assert.Equal(t, domain.ConfigurationRelease, cfg.Configuration)
	assert.Equal(t, "/tmp/scratch", cfg.ScratchPath)
	assert.Equal(t, []string{"-DDEBUG"}, cfg.Flags.Swift)
}

func TestLoader_Load_ProgrammaticOverrideWinsOverFile(t *testing.T) {
	root := t.TempDir()
	overridePath := filepath.Join(root, domain.OverrideConfigFileName)
	require.NoError(t, os.WriteFile(overridePath, []byte("configuration: release\n"), 0o600))

	override := domain.BuildSetupConfig{Configuration: domain.ConfigurationDebug}
	loader := config.NewLoader(noopLogger{}, override)

	cfg, err := loader.Load(root)
	require.NoError(t, err)
	assert.Equal(t, domain.ConfigurationDebug, cfg.Configuration)
}

func TestLoader_Load_FlagsAppendAcrossAllThreeSources(t *testing.T) {
	root := t.TempDir()
	overridePath := filepath.Join(root, domain.OverrideConfigFileName)
	require.NoError(t, os.WriteFile(overridePath, []byte("flags:\n  c:\n    - \"-Wall\"\n"), 0o600))

	override := domain.BuildSetupConfig{Flags: domain.Flags{C: []string{"-Werror"}}}
	loader := config.NewLoader(noopLogger{}, override)

	cfg, err := loader.Load(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"-Wall", "-Werror"}, cfg.Flags.C)
}

func TestLoader_Load_NoOverrideFileAnywhere(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "x", "y")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	loader := config.NewLoader(noopLogger{}, domain.BuildSetupConfig{})
	cfg, err := loader.Load(nested)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBuildSetupConfig(), cfg)
}

// fakeFS lets TestLoader_Load_MalformedOverrideFile force a parse error
// without writing an actual malformed file to disk.
type fakeFS struct {
	statErr error
	content []byte
	readErr error
}

func (f fakeFS) Stat(string) (fs.FileInfo, error) {
	if f.statErr != nil {
		return nil, f.statErr
	}
	return nil, nil
}

func (f fakeFS) ReadFile(string) ([]byte, error) {
	return f.content, f.readErr
}

func TestLoader_Load_MalformedOverrideFile(t *testing.T) {
	loader := &config.Loader{
		FS:     fakeFS{content: []byte(": : not yaml")},
		Logger: noopLogger{},
	}

	_, err := loader.Load(t.TempDir())
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigParseFailed.Error())
}
