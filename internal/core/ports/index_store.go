package ports

import "context"

// IndexUnit describes one compiled source that needs its record merged into
// the on-disk index store.
type IndexUnit struct {
	TargetID   string
	SourcePath string
	Arguments  []string
	WorkingDir string
}

// IndexStore merges a prepared compilation's index data into the persistent
// index store. The store's own format (the unit/record format consumed by
// downstream indexing tools) is out of scope; this port only covers
// triggering the merge (section 4.7, Update-Index-Store task).
type IndexStore interface {
	Update(ctx context.Context, unit IndexUnit) error
}
