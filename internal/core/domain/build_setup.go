package domain

// Configuration selects the optimization/debug-info profile the build tool
// invokes with.
type Configuration string

const (
	// ConfigurationUnset behaves as ConfigurationDebug once merged.
	ConfigurationUnset   Configuration = ""
	ConfigurationDebug   Configuration = "debug"
	ConfigurationRelease Configuration = "release"
)

// WorkspaceType names the workspace kind a caller expects, mirroring the
// sourcekit-lsp notion of a build-server, compile-db, or SwiftPM workspace.
type WorkspaceType string

const (
	WorkspaceTypeUnset       WorkspaceType = ""
	WorkspaceTypeBuildServer WorkspaceType = "build_server"
	WorkspaceTypeCompDB      WorkspaceType = "comp_db"
	WorkspaceTypeSwiftPM     WorkspaceType = "swift_pm"
)

// Flags are the flag vectors passed through to the compiler per language,
// appended (not replaced) across merges.
type Flags struct {
	C      []string
	CXX    []string
	Swift  []string
	Linker []string
}

// BuildSetupConfig is the merged set of build parameters effective for a
// workspace: configuration, default workspace type, scratch path override,
// and per-language flags.
type BuildSetupConfig struct {
	Configuration        Configuration
	DefaultWorkspaceType WorkspaceType
	ScratchPath          string
	Flags                Flags
}

// DefaultBuildSetupConfig is the built-in baseline merged first, before any
// override file or programmatic override (section 4.8).
func DefaultBuildSetupConfig() BuildSetupConfig {
	return BuildSetupConfig{
		Configuration:        ConfigurationDebug,
		DefaultWorkspaceType: WorkspaceTypeBuildServer,
	}
}

// EffectiveConfiguration returns Configuration, treating Unset as Debug.
func (c BuildSetupConfig) EffectiveConfiguration() Configuration {
	if c.Configuration == ConfigurationUnset {
		return ConfigurationDebug
	}
	return c.Configuration
}

// Merge combines c with other, with other taking precedence for scalars;
// flag vectors are appended in (c, other) order. c is left unmodified.
func (c BuildSetupConfig) Merge(other BuildSetupConfig) BuildSetupConfig {
	merged := c

	if other.Configuration != ConfigurationUnset {
		merged.Configuration = other.Configuration
	}
	if other.DefaultWorkspaceType != WorkspaceTypeUnset {
		merged.DefaultWorkspaceType = other.DefaultWorkspaceType
	}
	if other.ScratchPath != "" {
		merged.ScratchPath = other.ScratchPath
	}

	merged.Flags = Flags{
		C:      append(append([]string{}, c.Flags.C...), other.Flags.C...),
		CXX:    append(append([]string{}, c.Flags.CXX...), other.Flags.CXX...),
		Swift:  append(append([]string{}, c.Flags.Swift...), other.Flags.Swift...),
		Linker: append(append([]string{}, c.Flags.Linker...), other.Flags.Linker...),
	}

	return merged
}
