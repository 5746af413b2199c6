package implementations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/covergen/covergen-api/internal/shared/providers/provider"
	"github.com/google/go-github/github"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// Check the struct is implementing the Provider interface.
var _ provider.Provider = &Github{}

const GithubProviderName = "github.com"

type Github struct {
	accessToken string
	baseURL     *url.URL
	log         logutil.Log
}

func NewGithub(accessToken string, log logutil.Log) *Github {
	return &Github{
		accessToken: accessToken,
		log:         log,
	}
}

func (p Github) Name() string {
	return GithubProviderName
}

func (p *Github) SetBaseURL(s string) error {
	baseURL, err := url.Parse(s)
	if err != nil {
		return errors.Wrap(err, "failed to parse url")
	}

	p.baseURL = baseURL
	return nil
}

func (p Github) client(ctx context.Context) *github.Client {
	var hc *http.Client
	if p.accessToken != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{
				AccessToken: p.accessToken,
			},
		)
		hc = oauth2.NewClient(ctx, ts)
	}

	c := github.NewClient(hc)
	if p.baseURL != nil {
		c.BaseURL = p.baseURL
	}

	return c
}

func (p Github) unwrapError(err error) error {
	if er, ok := err.(*github.ErrorResponse); ok {
		if er.Response.StatusCode == http.StatusNotFound {
			return provider.ErrNotFound
		}
		if er.Response.StatusCode == http.StatusUnauthorized {
			return provider.ErrUnauthorized
		}
	}

	return err
}

func parseGithubRepository(r *github.Repository) *provider.Repo {
	return &provider.Repo{
		ID:            r.GetID(),
		FullName:      r.GetFullName(),
		IsAdmin:       r.GetPermissions()["admin"],
		CanPush:       r.GetPermissions()["push"],
		IsPrivate:     r.GetPrivate(),
		DefaultBranch: r.GetDefaultBranch(),
	}
}

func (p Github) GetRepoByName(ctx context.Context, owner, repo string) (*provider.Repo, error) {
	r, _, err := p.client(ctx).Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, p.unwrapError(err)
	}

	return parseGithubRepository(r), nil
}

func (p Github) getManifest(ctx context.Context, owner, repo string) (*provider.Manifest, error) {
	fc, _, _, err := p.client(ctx).Repositories.GetContents(ctx, owner, repo, "package.json", nil)
	if err != nil {
		return nil, p.unwrapError(err)
	}
	if fc == nil {
		return nil, fmt.Errorf("package.json of %s/%s is not a file", owner, repo)
	}

	content, err := fc.GetContent()
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode package.json content")
	}

	var m provider.Manifest
	if err := json.Unmarshal([]byte(content), &m); err != nil {
		return nil, errors.Wrap(err, "failed to parse package.json")
	}

	return &m, nil
}

func (p Github) HasRequiredDependencies(ctx context.Context, owner, repo string, deps []string) (bool, error) {
	m, err := p.getManifest(ctx, owner, repo)
	if err != nil {
		return false, err
	}

	for _, dep := range deps {
		if !m.HasDependency(dep) {
			p.log.Infof("Repo %s/%s lacks required dependency %s", owner, repo, dep)
			return false, nil
		}
	}

	return true, nil
}

func (p Github) CheckPermissions(ctx context.Context, owner, repo string) (bool, error) {
	if p.accessToken == "" {
		p.log.Warnf("No access token configured, skipping permission check for %s/%s", owner, repo)
		return true, nil
	}

	r, err := p.GetRepoByName(ctx, owner, repo)
	if err != nil {
		return false, err
	}

	return r.CanPush || r.IsAdmin, nil
}

func (p Github) CreatePullRequest(ctx context.Context, owner, repo string,
	cfg *provider.PullRequestConfig) (*provider.PullRequest, error) {

	if p.accessToken == "" {
		mockURL := fmt.Sprintf("https://github.com/%s/%s/pull/new/%s", owner, repo, cfg.Head)
		p.log.Warnf("No access token configured, not creating pull request %q for %s/%s, returning %s",
			cfg.Title, owner, repo, mockURL)
		return &provider.PullRequest{
			HTMLURL: mockURL,
			State:   "open",
		}, nil
	}

	newPR := github.NewPullRequest{
		Title: github.String(cfg.Title),
		Head:  github.String(cfg.Head),
		Base:  github.String(cfg.Base),
		Body:  github.String(cfg.Body),
	}
	pr, _, err := p.client(ctx).PullRequests.Create(ctx, owner, repo, &newPR)
	if err != nil {
		return nil, p.unwrapError(err)
	}

	return &provider.PullRequest{
		Number:  pr.GetNumber(),
		HTMLURL: pr.GetHTMLURL(),
		State:   pr.GetState(),
	}, nil
}
