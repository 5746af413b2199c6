package provider

import (
	"context"
)

type Provider interface {
	Name() string

	SetBaseURL(url string) error

	GetRepoByName(ctx context.Context, owner, repo string) (*Repo, error)

	// HasRequiredDependencies reads the repo manifest via the provider API
	// (no clone) and reports whether every name in deps is declared as a
	// runtime or development dependency.
	HasRequiredDependencies(ctx context.Context, owner, repo string, deps []string) (bool, error)

	// CheckPermissions reports whether the configured credential can push
	// to the repo. Without a credential it reports true and warns: the
	// development mode pushes nowhere.
	CheckPermissions(ctx context.Context, owner, repo string) (bool, error)

	CreatePullRequest(ctx context.Context, owner, repo string, cfg *PullRequestConfig) (*PullRequest, error)
}
