package delegatebus_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.indexbridge.dev/core/internal/engine/delegatebus"
)

type recordingDelegate struct {
	settingsChanged     int
	capabilityChanged   int
	dependenciesUpdated int
}

func (d *recordingDelegate) FileBuildSettingsChanged([]string) { d.settingsChanged++ }
func (d *recordingDelegate) FileHandlingCapabilityChanged()    { d.capabilityChanged++ }
func (d *recordingDelegate) FileDependenciesUpdated([]string)  { d.dependenciesUpdated++ }

func TestBus_ForwardsToRegisteredDelegate(t *testing.T) {
	bus := delegatebus.New()
	d := &recordingDelegate{}
	reg := bus.Register(d)

	bus.FileBuildSettingsChanged([]string{"a.swift"})
	bus.FileHandlingCapabilityChanged()
	bus.FileDependenciesUpdated([]string{"b.swift"})

	assert.Equal(t, 1, d.settingsChanged)
	assert.Equal(t, 1, d.capabilityChanged)
	assert.Equal(t, 1, d.dependenciesUpdated)

	runtime.KeepAlive(reg)
}

func TestBus_NoopWithoutRegistration(t *testing.T) {
	bus := delegatebus.New()

	assert.NotPanics(t, func() {
		bus.FileBuildSettingsChanged(nil)
		bus.FileHandlingCapabilityChanged()
		bus.FileDependenciesUpdated(nil)
	})
}

func TestBus_DropsNotificationsOnceRegistrationIsUnreferenced(t *testing.T) {
	bus := delegatebus.New()
	d := &recordingDelegate{}

	func() {
		// the Registration goes out of scope at the end of this closure
		// without being retained anywhere, so it becomes collectible.
		_ = bus.Register(d)
	}()

	// force collection of the now-unreferenced Registration; weak.Pointer
	// resolution is synchronous with respect to a completed GC cycle.
	for i := 0; i < 3; i++ {
		runtime.GC()
	}

	bus.FileHandlingCapabilityChanged()

	require.Equal(t, 0, d.capabilityChanged, "delegate must not be notified once its registration is unreferenced")
}
