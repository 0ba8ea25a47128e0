package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type Reprober interface {
	Reprobe(ctx context.Context) bool
}

// RemoteProbeJob re-checks remote AI reachability so the service can move
// between the remote classifier and the local heuristics.
type RemoteProbeJob struct {
	target Reprober
}

func NewRemoteProbeJob(target Reprober) *RemoteProbeJob {
	return &RemoteProbeJob{target: target}
}

func (j *RemoteProbeJob) Name() string {
	return "remote_probe"
}

func (j *RemoteProbeJob) Run(ctx context.Context) error {
	if j.target == nil {
		return nil
	}
	active := j.target.Reprobe(ctx)
	logutil.GetLogger(ctx).Debug("remote probe done", zap.Bool("remote_active", active))
	return nil
}
