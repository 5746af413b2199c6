package consumers

import (
	"context"

	"github.com/covergen/covergen-api/internal/shared/logutil"
)

// RepoScanner refreshes the stored coverage report of a tracked repo.
// A returned error propagates to the queue and triggers its retry policy.
type RepoScanner interface {
	Process(ctx context.Context, repoID uint) error
}

type ScanRepo struct {
	baseConsumer

	scanner RepoScanner
}

func NewScanRepo(log logutil.Log, scanner RepoScanner) *ScanRepo {
	return &ScanRepo{
		baseConsumer: baseConsumer{
			log:      log,
			taskName: "repo scan",
		},
		scanner: scanner,
	}
}

func (c ScanRepo) Consume(ctx context.Context, repoID uint) error {
	return c.wrapConsuming(func() error {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, consumeTimeout)
		defer cancel()

		return c.scanner.Process(ctx, repoID)
	})
}
