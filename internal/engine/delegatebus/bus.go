// Package delegatebus implements the build-system delegate bus: a
// weakly-held observer sink the resolver and index manager notify without
// ever prolonging the observer's lifetime.
package delegatebus

import (
	"sync"
	"weak"

	"go.indexbridge.dev/core/internal/core/ports"
)

// holder is the only strongly-typed thing the bus ever takes a weak pointer
// to; registering a delegate wraps it here so weak.Make has a concrete
// object to point at regardless of the delegate's own pointer-ness.
type holder struct {
	delegate ports.BuildSystemDelegate
}

// Registration keeps a delegate registration alive. The caller (typically
// the LSP host object) must retain the Registration for as long as it wants
// to keep receiving notifications; once it is garbage collected, the bus's
// weak reference silently stops resolving and notifications are dropped.
type Registration struct {
	h *holder
}

// Bus fans out resolver/index-manager notifications to at most one
// currently-registered delegate, per section 4.5 and the weak-delegate
// design note (section 9): the bus never owns the delegate, so registering
// with it can never keep an otherwise-unreferenced host object alive.
type Bus struct {
	mu  sync.Mutex
	ref weak.Pointer[holder]
}

// New creates an empty Bus with no registered delegate.
func New() *Bus {
	return &Bus{}
}

// Register installs delegate as the bus's observer, replacing any prior
// registration. The returned Registration must be kept alive by the caller.
func (b *Bus) Register(delegate ports.BuildSystemDelegate) *Registration {
	h := &holder{delegate: delegate}

	b.mu.Lock()
	b.ref = weak.Make(h)
	b.mu.Unlock()

	return &Registration{h: h}
}

// current resolves the weak reference, returning nil if the delegate has
// been garbage collected or none was ever registered.
func (b *Bus) current() ports.BuildSystemDelegate {
	b.mu.Lock()
	ref := b.ref
	b.mu.Unlock()

	h := ref.Value()
	if h == nil {
		return nil
	}
	return h.delegate
}

// FileBuildSettingsChanged implements ports.BuildSystemDelegate, forwarding
// to the live delegate if one is registered and still referenced elsewhere.
func (b *Bus) FileBuildSettingsChanged(files []string) {
	if d := b.current(); d != nil {
		d.FileBuildSettingsChanged(files)
	}
}

// FileHandlingCapabilityChanged implements ports.BuildSystemDelegate.
func (b *Bus) FileHandlingCapabilityChanged() {
	if d := b.current(); d != nil {
		d.FileHandlingCapabilityChanged()
	}
}

// FileDependenciesUpdated implements ports.BuildSystemDelegate.
func (b *Bus) FileDependenciesUpdated(files []string) {
	if d := b.current(); d != nil {
		d.FileDependenciesUpdated(files)
	}
}
