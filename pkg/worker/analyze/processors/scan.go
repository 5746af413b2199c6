package processors

import (
	"context"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"

	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/covergen/covergen-api/pkg/api/models"
	"github.com/covergen/covergen-api/pkg/worker/lib/executors"
	"github.com/covergen/covergen-api/pkg/worker/lib/fetchers"
)

// ExecutorFactory builds a fresh executor with its own work dir for one
// task run.
type ExecutorFactory func() (executors.Executor, error)

// CoverageScanner measures per-file line coverage of a cloned repo.
type CoverageScanner interface {
	Scan(ctx context.Context, repoPath string) ([]models.FileCoverage, error)
}

// Scan clones one tracked repo, measures its coverage and stores the
// refreshed report. Returned errors propagate to the queue retry policy.
type Scan struct {
	log     logutil.Log
	db      *gorm.DB
	fetcher fetchers.Fetcher
	scanner CoverageScanner
	newExec ExecutorFactory
}

func NewScan(log logutil.Log, db *gorm.DB, fetcher fetchers.Fetcher,
	scanner CoverageScanner, newExec ExecutorFactory) *Scan {

	return &Scan{
		log:     log,
		db:      db,
		fetcher: fetcher,
		scanner: scanner,
		newExec: newExec,
	}
}

func (p Scan) Process(ctx context.Context, repoID uint) error {
	var repo models.TrackedRepo
	if err := models.NewTrackedRepoQuerySet(p.db).IDEq(repoID).One(&repo); err != nil {
		if err == gorm.ErrRecordNotFound {
			p.log.Warnf("Skipping scan of deleted repo %d", repoID)
			return nil
		}
		return errors.Wrapf(err, "can't load repo %d", repoID)
	}

	exec, err := p.newExec()
	if err != nil {
		return errors.Wrap(err, "can't create executor")
	}
	defer exec.Clean()

	if err = p.fetcher.Fetch(ctx, &fetchers.Repo{CloneURL: repo.URL}, exec); err != nil {
		return errors.Wrapf(err, "can't fetch %s", repo.URL)
	}

	report, err := p.scanner.Scan(ctx, exec.WorkDir())
	if err != nil {
		return errors.Wrapf(err, "can't scan %s", repo.URL)
	}

	data, err := models.MarshalCoverageReport(report)
	if err != nil {
		return err
	}

	// One update: readers must never see a half-written report.
	n, err := models.NewTrackedRepoQuerySet(p.db).IDEq(repo.ID).
		GetUpdater().
		SetLastCoverageReport(data).
		UpdateNum()
	if err != nil {
		return errors.Wrapf(err, "can't save coverage report of repo %d", repo.ID)
	}
	if n == 0 {
		p.log.Warnf("Repo %d was deleted during the scan, dropping the report", repo.ID)
		return nil
	}

	p.log.Infof("Refreshed coverage report of %s: %d files", repo.URL, len(report))
	return nil
}
