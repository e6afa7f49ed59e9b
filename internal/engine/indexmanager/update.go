package indexmanager

import (
	"context"

	"go.indexbridge.dev/core/internal/core/domain"
	"go.indexbridge.dev/core/internal/core/ports"
	"go.indexbridge.dev/core/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// updateTask obtains a single file's build settings from the resolver and
// hands them to the index store, the sub-batch unit of the scheduling
// algorithm's step 5(b) (current sub-batch size is one file).
type updateTask struct {
	file       string
	target     domain.ConfiguredTarget
	resolver   resolverPort
	indexStore ports.IndexStore
	priority   int
	logger     ports.Logger
}

func (u *updateTask) Execute(ctx context.Context) error {
	settings, err := u.resolver.BuildSettings("file://"+u.file, u.target, "")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to obtain build settings for index update"), "file", u.file)
	}

	err = u.indexStore.Update(ctx, ports.IndexUnit{
		TargetID:   u.target.TargetID.String(),
		SourcePath: u.file,
		Arguments:  settings.Arguments,
		WorkingDir: settings.WorkingDirectory,
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrIndexUpdateFailed.Error()), "file", u.file)
	}
	return nil
}

// IsIdempotentWith never preempts or is preempted by another update task;
// each covers exactly one file and there is no broader-vs-narrower relation
// between two single-file tasks.
func (u *updateTask) IsIdempotentWith(scheduler.Description) bool { return false }

func (u *updateTask) Priority() int { return u.priority }
