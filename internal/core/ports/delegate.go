package ports

// BuildSystemDelegate receives notifications from the Build-Settings
// Resolver and Semantic Index Manager. Implementations are expected to hold
// only a weak reference to the real observer (section 9, Weak delegate) so
// that registering with the resolver never prolongs an observer's lifetime;
// the bus adapter, not this interface, is where that discipline lives.
type BuildSystemDelegate interface {
	FileBuildSettingsChanged(files []string)
	FileHandlingCapabilityChanged()
	FileDependenciesUpdated(files []string)
}
