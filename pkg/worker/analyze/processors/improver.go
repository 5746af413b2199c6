package processors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"

	"github.com/covergen/covergen-api/internal/shared/config"
	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/covergen/covergen-api/internal/shared/providers"
	"github.com/covergen/covergen-api/internal/shared/providers/provider"
	"github.com/covergen/covergen-api/pkg/api/models"
	"github.com/covergen/covergen-api/pkg/worker/lib/executors"
	"github.com/covergen/covergen-api/pkg/worker/lib/fetchers"
)

// TestGenerator produces a validated test file inside the clone.
type TestGenerator interface {
	GenerateTest(ctx context.Context, sourceRel, testRel, repoPath string, targetCoverage float64) error
}

// BranchPusher commits staged paths to a fresh branch and pushes it.
type BranchPusher interface {
	Push(ctx context.Context, exec executors.Executor, branch string,
		files map[string]string, commitMessage string, stagePaths []string) error
}

// Improver drives one improvement job through its state machine:
// CLONING, ANALYZING, GENERATING, PUSHING and finally PR_CREATED. Every
// transition is persisted before the next action starts so the API
// always reports where the job really is. A failure along the way lands
// in FAILED with an escaped error message; it is the job's outcome, not
// a reason to retry, so Process returns an error only when loading or
// persisting the job itself broke.
type Improver struct {
	log logutil.Log
	db  *gorm.DB
	cfg config.Config
	pf  providers.Factory

	fetcher fetchers.Fetcher
	gen     TestGenerator
	pusher  BranchPusher
	newExec ExecutorFactory
}

func NewImprover(log logutil.Log, db *gorm.DB, cfg config.Config, pf providers.Factory,
	fetcher fetchers.Fetcher, gen TestGenerator, pusher BranchPusher, newExec ExecutorFactory) *Improver {

	return &Improver{
		log:     log,
		db:      db,
		cfg:     cfg,
		pf:      pf,
		fetcher: fetcher,
		gen:     gen,
		pusher:  pusher,
		newExec: newExec,
	}
}

func (p Improver) secrets() []string {
	return []string{
		p.cfg.GetString("GITHUB_TOKEN"),
		p.cfg.GetString("GEMINI_API_KEY"),
	}
}

func (p Improver) Process(ctx context.Context, jobGUID string) error {
	var job models.ImprovementJob
	if err := models.NewImprovementJobQuerySet(p.db).JobGUIDEq(jobGUID).One(&job); err != nil {
		if err == gorm.ErrRecordNotFound {
			p.log.Warnf("Skipping missing improvement job %s", jobGUID)
			return nil
		}
		return errors.Wrapf(err, "can't load improvement job %s", jobGUID)
	}

	if job.Status.IsTerminalState() {
		p.log.Infof("Improvement job %s is already %s, skipping", jobGUID, job.Status)
		return nil
	}

	if procErr := p.processJob(ctx, &job); procErr != nil {
		return p.failJob(&job, procErr)
	}

	return nil
}

func (p Improver) processJob(ctx context.Context, job *models.ImprovementJob) error {
	hostProvider, err := p.pf.Build()
	if err != nil {
		return errors.Wrap(err, "can't build repository host provider")
	}

	owner, name, err := provider.ParseRepoURL(job.RepositoryURL)
	if err != nil {
		return err
	}

	if err = p.setStatus(job, models.JobStatusCloning); err != nil {
		return err
	}

	canPush, err := hostProvider.CheckPermissions(ctx, owner, name)
	if err != nil {
		return errors.Wrap(err, "can't check push permissions")
	}
	if !canPush {
		return errors.Errorf("Insufficient permissions to push to %s", job.RepositoryURL)
	}

	exec, err := p.newExec()
	if err != nil {
		return errors.Wrap(err, "can't create executor")
	}
	defer exec.Clean()

	if err = p.fetcher.Fetch(ctx, &fetchers.Repo{CloneURL: job.RepositoryURL}, exec); err != nil {
		return errors.Wrapf(err, "can't clone %s", job.RepositoryURL)
	}
	repoPath := exec.WorkDir()
	baseBranch := p.fetcher.DefaultBranch(ctx, exec)

	if _, err = os.Stat(filepath.Join(repoPath, filepath.FromSlash(job.FilePath))); err != nil {
		return errors.Errorf("source file %s not found in the default branch", job.FilePath)
	}

	if err = p.setStatus(job, models.JobStatusAnalyzing); err != nil {
		return err
	}
	testRel := testPathFor(job.FilePath)

	if err = p.setStatus(job, models.JobStatusGenerating); err != nil {
		return err
	}
	if err = p.gen.GenerateTest(ctx, job.FilePath, testRel, repoPath, job.TargetCoverage); err != nil {
		return err
	}

	if err = p.setStatus(job, models.JobStatusPushing); err != nil {
		return err
	}
	branch := fmt.Sprintf("improve-coverage-%s", job.JobGUID)
	commitMessage := fmt.Sprintf("test: improve coverage for %s", job.FilePath)
	if err = p.pusher.Push(ctx, exec, branch, nil, commitMessage, []string{testRel}); err != nil {
		return err
	}

	pr, err := hostProvider.CreatePullRequest(ctx, owner, name, &provider.PullRequestConfig{
		Title: fmt.Sprintf("Improve test coverage for %s", job.FilePath),
		Body: fmt.Sprintf("Adds a generated unit test for `%s`, targeting %.0f%% statement coverage.",
			job.FilePath, job.TargetCoverage),
		Head: branch,
		Base: baseBranch,
	})
	if err != nil {
		return errors.Wrap(err, "can't create pull request")
	}

	n, err := models.NewImprovementJobQuerySet(p.db).IDEq(job.ID).
		StatusNotIn(models.JobStatusPRCreated, models.JobStatusFailed).
		GetUpdater().
		SetStatus(models.JobStatusPRCreated).
		SetPRLink(pr.HTMLURL).
		UpdateNum()
	if err != nil {
		return errors.Wrapf(err, "can't record pull request %s on job %s", pr.HTMLURL, job.JobGUID)
	}
	if n == 0 {
		return errors.Errorf("job %s reached a terminal state concurrently", job.JobGUID)
	}

	p.log.Infof("Created pull request %s for job %s", pr.HTMLURL, job.JobGUID)
	return nil
}

func (p Improver) setStatus(job *models.ImprovementJob, status models.JobStatus) error {
	n, err := models.NewImprovementJobQuerySet(p.db).IDEq(job.ID).
		StatusNotIn(models.JobStatusPRCreated, models.JobStatusFailed).
		GetUpdater().
		SetStatus(status).
		UpdateNum()
	if err != nil {
		return errors.Wrapf(err, "can't move job %s to status %s", job.JobGUID, status)
	}
	if n == 0 {
		return errors.Errorf("job %s reached a terminal state concurrently", job.JobGUID)
	}

	job.Status = status
	return nil
}

func (p Improver) failJob(job *models.ImprovementJob, procErr error) error {
	p.log.Warnf("Improvement job %s failed: %s", job.JobGUID, procErr)

	n, err := models.NewImprovementJobQuerySet(p.db).IDEq(job.ID).
		StatusNotIn(models.JobStatusPRCreated, models.JobStatusFailed).
		GetUpdater().
		SetStatus(models.JobStatusFailed).
		SetErrorMessage(escapeText(procErr.Error(), p)).
		UpdateNum()
	if err != nil {
		return errors.Wrapf(err, "can't mark job %s as failed", job.JobGUID)
	}
	if n == 0 {
		p.log.Warnf("Job %s reached a terminal state before the failure was recorded", job.JobGUID)
	}

	return nil
}

// testPathFor derives the committed test location: a .test.ts sibling in
// the source file's directory.
func testPathFor(sourceRel string) string {
	rel := filepath.ToSlash(sourceRel)
	for _, ext := range []string{".tsx", ".ts"} {
		if strings.HasSuffix(rel, ext) {
			return strings.TrimSuffix(rel, ext) + ".test.ts"
		}
	}
	return rel + ".test.ts"
}
