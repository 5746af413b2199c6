package models

import (
	"github.com/jinzhu/gorm"
)

//go:generate goqueryset -in improvement_job.go

type JobStatus string

const (
	JobStatusQueued     JobStatus = "QUEUED"
	JobStatusCloning    JobStatus = "CLONING"
	JobStatusAnalyzing  JobStatus = "ANALYZING"
	JobStatusGenerating JobStatus = "GENERATING"
	JobStatusPushing    JobStatus = "PUSHING"
	JobStatusPRCreated  JobStatus = "PR_CREATED"
	JobStatusFailed     JobStatus = "FAILED"
)

func (s JobStatus) IsActiveState() bool {
	return s == JobStatusCloning || s == JobStatusAnalyzing ||
		s == JobStatusGenerating || s == JobStatusPushing
}

func (s JobStatus) IsTerminalState() bool {
	return s == JobStatusPRCreated || s == JobStatusFailed
}

// ActiveJobStatuses are the statuses of jobs currently held by a worker:
// queued and terminal jobs don't count.
func ActiveJobStatuses() []JobStatus {
	return []JobStatus{JobStatusCloning, JobStatusAnalyzing, JobStatusGenerating, JobStatusPushing}
}

//gen:qs
type ImprovementJob struct {
	gorm.Model

	JobGUID string `gorm:"unique_index"` // public job id, used as the queue job key

	RepositoryURL  string
	FilePath       string // source file under improvement, relative to the repo root
	TargetCoverage float64

	Status       JobStatus `gorm:"index"`
	PRLink       string
	ErrorMessage string
}

func (ImprovementJob) TableName() string {
	return "improvement_jobs"
}

// FindActiveJobByRepo returns the oldest job for the repo a worker currently
// holds, excluding the given job. Improve consumers run one at a time today
// so nothing consults it yet; it is the defer guard for raising that bound.
func FindActiveJobByRepo(db *gorm.DB, repoURL, excludeGUID string) (*ImprovementJob, error) {
	var job ImprovementJob
	err := NewImprovementJobQuerySet(db).
		RepositoryURLEq(repoURL).
		StatusIn(ActiveJobStatuses()...).
		JobGUIDNe(excludeGUID).
		OrderAscByCreatedAt().
		One(&job)
	if err != nil {
		return nil, err
	}

	return &job, nil
}
