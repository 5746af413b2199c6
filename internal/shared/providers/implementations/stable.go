package implementations

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/covergen/covergen-api/internal/shared/providers/provider"
)

// Check the struct is implementing the Provider interface.
var _ provider.Provider = &StableProvider{}

type StableProvider struct {
	underlying   provider.Provider
	totalTimeout time.Duration
	maxRetries   int
}

func NewStableProvider(underlying provider.Provider, totalTimeout time.Duration, maxRetries int) *StableProvider {
	return &StableProvider{
		underlying:   underlying,
		totalTimeout: totalTimeout,
		maxRetries:   maxRetries,
	}
}

func (p StableProvider) Name() string {
	return p.underlying.Name()
}

func (p StableProvider) SetBaseURL(s string) error {
	return p.underlying.SetBaseURL(s)
}

func (p StableProvider) retryErr(f func() error) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = p.totalTimeout

	bmr := backoff.WithMaxRetries(b, uint64(p.maxRetries))
	if err := backoff.Retry(f, bmr); err != nil {
		return err
	}

	return nil
}

func (p StableProvider) retryVoid(f func()) {
	_ = p.retryErr(func() error {
		f()
		return nil
	})
}

func (p StableProvider) GetRepoByName(ctx context.Context, owner, repo string) (retRepo *provider.Repo, err error) {
	p.retryVoid(func() {
		retRepo, err = p.underlying.GetRepoByName(ctx, owner, repo)
	})
	return
}

func (p StableProvider) HasRequiredDependencies(ctx context.Context, owner, repo string,
	deps []string) (ret bool, err error) {

	p.retryVoid(func() {
		ret, err = p.underlying.HasRequiredDependencies(ctx, owner, repo, deps)
	})
	return
}

func (p StableProvider) CheckPermissions(ctx context.Context, owner, repo string) (ret bool, err error) {
	p.retryVoid(func() {
		ret, err = p.underlying.CheckPermissions(ctx, owner, repo)
	})
	return
}

func (p StableProvider) CreatePullRequest(ctx context.Context, owner, repo string,
	cfg *provider.PullRequestConfig) (ret *provider.PullRequest, err error) {

	p.retryVoid(func() {
		ret, err = p.underlying.CreatePullRequest(ctx, owner, repo, cfg)
	})
	return
}
