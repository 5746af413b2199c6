package fetchers

import (
	"context"

	"github.com/covergen/covergen-api/pkg/worker/lib/executors"
)

type Repo struct {
	CloneURL string

	// Ref is the branch to clone. When empty the default branch is
	// cloned and can be read back with DefaultBranch.
	Ref string
}

type Fetcher interface {
	Fetch(ctx context.Context, repo *Repo, exec executors.Executor) error
	DefaultBranch(ctx context.Context, exec executors.Executor) string
}
