package repos

import (
	"fmt"
	"strings"
	"time"

	"github.com/covergen/covergen-api/internal/api/apierrors"
	"github.com/covergen/covergen-api/internal/shared/cache"
	"github.com/covergen/covergen-api/internal/shared/config"
	"github.com/covergen/covergen-api/internal/shared/providers"
	"github.com/covergen/covergen-api/internal/shared/providers/provider"
	"github.com/covergen/covergen-api/pkg/api/models"
	"github.com/covergen/covergen-api/pkg/api/request"
	"github.com/covergen/covergen-api/pkg/api/returntypes"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

// RequiredDependencies must be declared in the repo manifest before we track
// it: generated tests are executed by jest and compiled by ts-jest.
var RequiredDependencies = []string{"jest", "ts-jest"}

const depsCheckCacheTTL = time.Minute * 5

// ScanScheduler enqueues a coverage scan for a tracked repo.
type ScanScheduler interface {
	ScheduleScan(repoID uint) error
}

type Service interface {
	//url:/api/repos method:POST
	Create(rc *request.AnonymousContext, reqBody *request.BodyRepo) (*returntypes.RepoInfo, error)

	//url:/api/repos
	List(rc *request.AnonymousContext) ([]returntypes.RepoInfo, error)

	//url:/api/repos/{repoid}/scan method:POST
	TriggerScan(rc *request.AnonymousContext, reqRepo *request.RepoID) (*returntypes.ScanQueuedResponse, error)
}

type BasicService struct {
	ProviderFactory providers.Factory
	ScanScheduler   ScanScheduler
	Cache           cache.Cache
	Cfg             config.Config
}

func (s BasicService) Create(rc *request.AnonymousContext, reqBody *request.BodyRepo) (*returntypes.RepoInfo, error) {
	if reqBody.RepositoryURL == "" {
		return nil, apierrors.NewValidationError("repositoryUrl is required")
	}

	owner, name, err := provider.ParseRepoURL(reqBody.RepositoryURL)
	if err != nil {
		return nil, apierrors.NewValidationErrorf("invalid repository url %q", reqBody.RepositoryURL)
	}
	normalizedURL := fmt.Sprintf("https://github.com/%s/%s", owner, name)

	var repo models.TrackedRepo
	err = models.NewTrackedRepoQuerySet(rc.DB).URLEq(normalizedURL).One(&repo)
	if err == nil {
		rc.Log.Infof("Repo %s is already tracked, returning it", normalizedURL)
		return s.buildRepoInfo(rc, &repo), nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, errors.Wrapf(err, "can't fetch repo with url %s", normalizedURL)
	}

	if err = s.checkRequiredDependencies(rc, owner, name); err != nil {
		return nil, err
	}

	repo = models.TrackedRepo{URL: normalizedURL}
	if err = repo.Create(rc.DB); err != nil {
		return nil, errors.Wrapf(err, "can't create repo %s", normalizedURL)
	}

	if err = s.ScanScheduler.ScheduleScan(repo.ID); err != nil {
		return nil, errors.Wrapf(err, "failed to schedule initial scan for repo %d", repo.ID)
	}

	rc.Log.Infof("Tracked repo %s, initial scan scheduled", normalizedURL)
	return s.buildRepoInfo(rc, &repo), nil
}

func (s BasicService) List(rc *request.AnonymousContext) ([]returntypes.RepoInfo, error) {
	var repos []models.TrackedRepo
	if err := models.NewTrackedRepoQuerySet(rc.DB).OrderDescByCreatedAt().All(&repos); err != nil {
		return nil, errors.Wrap(err, "can't fetch repos")
	}

	ret := make([]returntypes.RepoInfo, 0, len(repos))
	for i := range repos {
		ret = append(ret, *s.buildRepoInfo(rc, &repos[i]))
	}

	return ret, nil
}

func (s BasicService) TriggerScan(rc *request.AnonymousContext, reqRepo *request.RepoID) (*returntypes.ScanQueuedResponse, error) {
	var repo models.TrackedRepo
	err := models.NewTrackedRepoQuerySet(rc.DB).IDEq(reqRepo.RepoID).One(&repo)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apierrors.NewValidationErrorf("repository %d is not tracked", reqRepo.RepoID)
		}
		return nil, errors.Wrapf(err, "can't fetch repo %d", reqRepo.RepoID)
	}

	if err = s.ScanScheduler.ScheduleScan(repo.ID); err != nil {
		return nil, errors.Wrapf(err, "failed to schedule scan for repo %d", repo.ID)
	}

	rc.Log.Infof("Scheduled coverage scan of repo %s", repo.URL)
	return &returntypes.ScanQueuedResponse{
		RepoID: repo.ID,
		Queued: true,
	}, nil
}

func (s BasicService) checkRequiredDependencies(rc *request.AnonymousContext, owner, name string) error {
	type checkResult struct {
		HasDeps bool
	}

	cacheKey := fmt.Sprintf("repos/deps_check/%s/%s?v=1", owner, name)
	var cr checkResult
	if s.Cache != nil {
		if err := s.Cache.Get(cacheKey, &cr); err != nil {
			rc.Log.Warnf("Failed to fetch from cache by key %s: %s", cacheKey, err)
		} else if cr.HasDeps {
			return nil
		}
	}

	p, err := s.ProviderFactory.Build()
	if err != nil {
		return errors.Wrap(err, "failed to build provider")
	}

	hasDeps, err := p.HasRequiredDependencies(rc.Ctx, owner, name, RequiredDependencies)
	if err != nil {
		if errors.Cause(err) == provider.ErrNotFound {
			return apierrors.NewValidationErrorf("repository %s/%s was not found", owner, name)
		}
		return errors.Wrapf(err, "failed to check dependencies of %s/%s", owner, name)
	}
	if !hasDeps {
		return apierrors.NewValidationErrorf("repository must have %s as dependencies",
			strings.Join(RequiredDependencies, " and "))
	}

	// Cache only positive results: a manifest gaining the deps must be
	// visible on the next try.
	if s.Cache != nil {
		if err = s.Cache.Set(cacheKey, depsCheckCacheTTL, checkResult{HasDeps: true}); err != nil {
			rc.Log.Warnf("Failed to save to cache by key %s: %s", cacheKey, err)
		}
	}

	return nil
}

func (s BasicService) buildRepoInfo(rc *request.AnonymousContext, repo *models.TrackedRepo) *returntypes.RepoInfo {
	report, err := repo.ParseCoverageReport()
	if err != nil {
		rc.Log.Errorf("Invalid stored coverage report for repo %d: %s", repo.ID, err)
		report = nil
	}

	return &returntypes.RepoInfo{
		ID:                 repo.ID,
		RepositoryURL:      repo.URL,
		LastCoverageReport: report,
		CreatedAt:          repo.CreatedAt,
		UpdatedAt:          repo.UpdatedAt,
	}
}
