package domain

// Target is a single build target (module) as reported by the package
// loader: a name, the absolute paths of the sources it lists, and the
// directories those sources live under.
type Target struct {
	// ID is the stable target name, e.g. "Lib".
	ID InternedString
	// RunDestinationID disambiguates a target built for more than one
	// platform/configuration; "dummy" for the common single-destination case.
	RunDestinationID InternedString
	// Sources is the set of absolute source file paths this target lists, in
	// the order the loader reported them; substitute-file selection takes the
	// lexicographically least path, so it does not depend on this order.
	Sources []InternedString
	// SourceDirectories is not populated by the resolver; ancestor-directory
	// lookups for unlisted files (e.g. new headers) use
	// BuildGraph.SourceDirToTarget instead.
	SourceDirectories []InternedString
	// Dependencies are the target IDs this target depends on.
	Dependencies []InternedString
	// Index is the topological rank assigned at load time: if A depends on
	// B, Index(B) < Index(A).
	Index int
}

// ConfiguredTarget is the addressable identity of a target in a specific
// build configuration: a (target_id, run_destination_id) pair.
type ConfiguredTarget struct {
	TargetID         InternedString
	RunDestinationID InternedString
}

// ManifestConfiguredTarget is the reserved sentinel addressing the package
// manifest itself. Empty target_id never collides with a user target,
// since user targets always have non-empty names.
func ManifestConfiguredTarget() ConfiguredTarget {
	return ConfiguredTarget{}
}

// IsManifest reports whether ct is the reserved manifest sentinel.
func (ct ConfiguredTarget) IsManifest() bool {
	return ct == ManifestConfiguredTarget()
}

// String renders the pair as "target_id/run_destination_id" for logging.
func (ct ConfiguredTarget) String() string {
	return ct.TargetID.String() + "/" + ct.RunDestinationID.String()
}

// FileBuildSettings is the compiler invocation synthesized for one file.
type FileBuildSettings struct {
	// Arguments is the full compiler argument vector, including the
	// compiler executable as Arguments[0] when the loader's build
	// description reports one.
	Arguments []string
	// WorkingDirectory is the directory the compiler should be invoked from.
	WorkingDirectory string
}
