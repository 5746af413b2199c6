package jobs

import (
	"fmt"
	"path"
	"strings"

	"github.com/covergen/covergen-api/internal/api/apierrors"
	"github.com/covergen/covergen-api/internal/shared/config"
	"github.com/covergen/covergen-api/internal/shared/providers/provider"
	"github.com/covergen/covergen-api/pkg/api/models"
	"github.com/covergen/covergen-api/pkg/api/request"
	"github.com/covergen/covergen-api/pkg/api/returntypes"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

// DefaultTargetCoverage is the line coverage percentage a generated test
// must reach before we open a pull request with it.
const DefaultTargetCoverage = 80

// ImproveScheduler enqueues a coverage improvement job for the worker.
type ImproveScheduler interface {
	ScheduleImprove(jobGUID string) error
}

type Service interface {
	//url:/api/jobs method:POST
	Create(rc *request.AnonymousContext, reqBody *request.BodyJob) (*returntypes.JobInfo, error)

	//url:/api/jobs
	List(rc *request.AnonymousContext) ([]returntypes.JobInfo, error)

	//url:/api/jobs/{jobid}
	Get(rc *request.AnonymousContext, reqJob *request.JobID) (*returntypes.JobInfo, error)
}

type BasicService struct {
	ImproveScheduler ImproveScheduler
	Cfg              config.Config
}

func (s BasicService) Create(rc *request.AnonymousContext, reqBody *request.BodyJob) (*returntypes.JobInfo, error) {
	if reqBody.RepositoryURL == "" {
		return nil, apierrors.NewValidationError("repositoryUrl is required")
	}
	if reqBody.FilePath == "" {
		return nil, apierrors.NewValidationError("filePath is required")
	}

	owner, name, err := provider.ParseRepoURL(reqBody.RepositoryURL)
	if err != nil {
		return nil, apierrors.NewValidationErrorf("invalid repository url %q", reqBody.RepositoryURL)
	}
	normalizedURL := fmt.Sprintf("https://github.com/%s/%s", owner, name)

	filePath := path.Clean(strings.ReplaceAll(reqBody.FilePath, "\\", "/"))
	if path.IsAbs(filePath) || filePath == ".." || strings.HasPrefix(filePath, "../") {
		return nil, apierrors.NewValidationError("filePath must be a relative path inside the repository")
	}

	job := models.ImprovementJob{
		JobGUID:        uuid.NewV4().String(),
		RepositoryURL:  normalizedURL,
		FilePath:       filePath,
		TargetCoverage: DefaultTargetCoverage,
		Status:         models.JobStatusQueued,
	}
	if err = job.Create(rc.DB); err != nil {
		return nil, errors.Wrapf(err, "can't create improvement job for %s", normalizedURL)
	}

	if err = s.ImproveScheduler.ScheduleImprove(job.JobGUID); err != nil {
		return nil, errors.Wrapf(err, "failed to schedule improvement job %s", job.JobGUID)
	}

	rc.Log.Infof("Created improvement job %s for %s:%s", job.JobGUID, normalizedURL, filePath)
	return buildJobInfo(&job), nil
}

func (s BasicService) List(rc *request.AnonymousContext) ([]returntypes.JobInfo, error) {
	var jobs []models.ImprovementJob
	if err := models.NewImprovementJobQuerySet(rc.DB).OrderDescByCreatedAt().All(&jobs); err != nil {
		return nil, errors.Wrap(err, "can't fetch improvement jobs")
	}

	ret := make([]returntypes.JobInfo, 0, len(jobs))
	for i := range jobs {
		ret = append(ret, *buildJobInfo(&jobs[i]))
	}

	return ret, nil
}

func (s BasicService) Get(rc *request.AnonymousContext, reqJob *request.JobID) (*returntypes.JobInfo, error) {
	var job models.ImprovementJob
	err := models.NewImprovementJobQuerySet(rc.DB).JobGUIDEq(reqJob.JobID).One(&job)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apierrors.NewValidationErrorf("job %s was not found", reqJob.JobID)
		}
		return nil, errors.Wrapf(err, "can't fetch job %s", reqJob.JobID)
	}

	return buildJobInfo(&job), nil
}

func buildJobInfo(job *models.ImprovementJob) *returntypes.JobInfo {
	return &returntypes.JobInfo{
		ID:             job.JobGUID,
		RepositoryURL:  job.RepositoryURL,
		FilePath:       job.FilePath,
		TargetCoverage: job.TargetCoverage,
		Status:         string(job.Status),
		PRLink:         job.PRLink,
		ErrorMessage:   job.ErrorMessage,
		CreatedAt:      job.CreatedAt,
		UpdatedAt:      job.UpdatedAt,
	}
}
