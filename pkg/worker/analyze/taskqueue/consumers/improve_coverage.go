package consumers

import (
	"context"

	"github.com/covergen/covergen-api/internal/shared/logutil"
)

// CoverageImprover runs one improvement job to a terminal state. Job-local
// failures are persisted on the job and must not surface here: a returned
// error means infrastructure trouble and makes the queue retry the task.
type CoverageImprover interface {
	Process(ctx context.Context, jobGUID string) error
}

type ImproveCoverage struct {
	baseConsumer

	improver CoverageImprover
}

func NewImproveCoverage(log logutil.Log, improver CoverageImprover) *ImproveCoverage {
	return &ImproveCoverage{
		baseConsumer: baseConsumer{
			log:      log,
			taskName: "coverage improvement",
		},
		improver: improver,
	}
}

func (c ImproveCoverage) Consume(ctx context.Context, jobGUID string) error {
	return c.wrapConsuming(func() error {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, consumeTimeout)
		defer cancel()

		return c.improver.Process(ctx, jobGUID)
	})
}
