package ports

import (
	"context"
	"iter"
)

// WatchOp classifies a raw file-system operation.
type WatchOp uint8

const (
	OpCreate WatchOp = iota
	OpWrite
	OpRemove
	OpRename
)

// WatchEvent is a single file-system change surfaced by the Watcher.
type WatchEvent struct {
	Path      string
	Operation WatchOp
}

// Watcher watches a workspace root recursively and streams change events.
// It is the File-Event Classifier's (component 6) upstream source.
type Watcher interface {
	Start(ctx context.Context, root string) error
	Stop() error
	Events() iter.Seq[WatchEvent]
}
