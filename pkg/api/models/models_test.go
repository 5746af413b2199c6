package models

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/jinzhu/gorm"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	dir, err := ioutil.TempDir("", "covergen-models")
	require.NoError(t, err)

	db, err := gorm.Open("sqlite3", filepath.Join(dir, "test.sqlite"))
	require.NoError(t, err)

	err = db.AutoMigrate(&TrackedRepo{}, &ImprovementJob{}).Error
	require.NoError(t, err)

	return db, func() {
		assert.NoError(t, db.Close())
		assert.NoError(t, os.RemoveAll(dir))
	}
}

func TestTrackedRepoCoverageReportRoundTrip(t *testing.T) {
	db, clean := setupTestDB(t)
	defer clean()

	repo := TrackedRepo{URL: "https://github.com/owner/name"}
	require.NoError(t, repo.Create(db))
	require.NotZero(t, repo.ID)

	var fetched TrackedRepo
	require.NoError(t, NewTrackedRepoQuerySet(db).URLEq(repo.URL).One(&fetched))

	report, err := fetched.ParseCoverageReport()
	assert.NoError(t, err)
	assert.Nil(t, report)

	data, err := MarshalCoverageReport([]FileCoverage{
		{FilePath: "src/user.service.ts", LinesCoverage: 42.5},
		{FilePath: "src/auth.service.ts", LinesCoverage: 0},
	})
	require.NoError(t, err)

	n, err := NewTrackedRepoQuerySet(db).IDEq(repo.ID).GetUpdater().
		SetLastCoverageReport(data).
		UpdateNum()
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	require.NoError(t, NewTrackedRepoQuerySet(db).IDEq(repo.ID).One(&fetched))
	report, err = fetched.ParseCoverageReport()
	require.NoError(t, err)
	require.Len(t, report, 2)
	assert.Equal(t, "src/user.service.ts", report[0].FilePath)
	assert.Equal(t, 42.5, report[0].LinesCoverage)
	assert.Equal(t, float64(0), report[1].LinesCoverage)
}

func TestJobStatusStates(t *testing.T) {
	active := map[JobStatus]bool{
		JobStatusCloning:    true,
		JobStatusAnalyzing:  true,
		JobStatusGenerating: true,
		JobStatusPushing:    true,
	}
	terminal := map[JobStatus]bool{
		JobStatusPRCreated: true,
		JobStatusFailed:    true,
	}

	all := []JobStatus{
		JobStatusQueued, JobStatusCloning, JobStatusAnalyzing,
		JobStatusGenerating, JobStatusPushing, JobStatusPRCreated, JobStatusFailed,
	}
	for _, s := range all {
		assert.Equal(t, active[s], s.IsActiveState(), "status %s", s)
		assert.Equal(t, terminal[s], s.IsTerminalState(), "status %s", s)
	}

	assert.Len(t, ActiveJobStatuses(), 4)
}

func TestImprovementJobActiveLookup(t *testing.T) {
	db, clean := setupTestDB(t)
	defer clean()

	const repoURL = "https://github.com/owner/name"

	mk := func(guid string, status JobStatus, url string) ImprovementJob {
		j := ImprovementJob{
			JobGUID:        guid,
			RepositoryURL:  url,
			FilePath:       "src/app.service.ts",
			TargetCoverage: 80,
			Status:         status,
		}
		require.NoError(t, j.Create(db))
		return j
	}

	mk("done", JobStatusPRCreated, repoURL)
	oldest := mk("oldest-active", JobStatusAnalyzing, repoURL)
	newer := mk("newer-active", JobStatusGenerating, repoURL)
	current := mk("current", JobStatusCloning, repoURL)
	mk("other-repo", JobStatusCloning, "https://github.com/owner/other")

	found, err := FindActiveJobByRepo(db, repoURL, current.JobGUID)
	require.NoError(t, err)
	assert.Equal(t, oldest.JobGUID, found.JobGUID)

	// Excluding the oldest active job surfaces the next one.
	found, err = FindActiveJobByRepo(db, repoURL, oldest.JobGUID)
	require.NoError(t, err)
	assert.Equal(t, newer.JobGUID, found.JobGUID)

	_, err = FindActiveJobByRepo(db, "https://github.com/owner/untracked", current.JobGUID)
	assert.Equal(t, gorm.ErrRecordNotFound, err)
}

func TestImprovementJobStatusUpdateBumpsUpdatedAt(t *testing.T) {
	db, clean := setupTestDB(t)
	defer clean()

	j := ImprovementJob{
		JobGUID:        "bump",
		RepositoryURL:  "https://github.com/owner/name",
		FilePath:       "src/app.service.ts",
		TargetCoverage: 80,
		Status:         JobStatusQueued,
	}
	require.NoError(t, j.Create(db))

	n, err := NewImprovementJobQuerySet(db).JobGUIDEq("bump").GetUpdater().
		SetStatus(JobStatusCloning).
		UpdateNum()
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	var fetched ImprovementJob
	require.NoError(t, NewImprovementJobQuerySet(db).JobGUIDEq("bump").One(&fetched))
	assert.Equal(t, JobStatusCloning, fetched.Status)
	assert.False(t, fetched.UpdatedAt.Before(j.UpdatedAt))
}
