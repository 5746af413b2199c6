package processors

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/covergen/covergen-api/internal/shared/providers/provider"
	"github.com/covergen/covergen-api/pkg/api/models"
	"github.com/covergen/covergen-api/pkg/worker/lib/executors"
	"github.com/covergen/covergen-api/pkg/worker/lib/fetchers"
)

type testConfig map[string]string

func (c testConfig) GetString(key string) string                             { return c[key] }
func (c testConfig) GetDuration(key string, def time.Duration) time.Duration { return def }
func (c testConfig) GetInt(key string, def int) int                          { return def }
func (c testConfig) GetBool(key string, def bool) bool                       { return def }

type fakeExecutor struct {
	wd      string
	cleaned bool
}

func (e *fakeExecutor) Run(ctx context.Context, name string, args ...string) (*executors.RunResult, error) {
	return &executors.RunResult{}, nil
}

func (e *fakeExecutor) WithEnv(k, v string) executors.Executor   { return e }
func (e *fakeExecutor) SetEnv(k, v string)                       {}
func (e *fakeExecutor) WorkDir() string                          { return e.wd }
func (e *fakeExecutor) WithWorkDir(wd string) executors.Executor { e.wd = wd; return e }
func (e *fakeExecutor) Clean()                                   { e.cleaned = true }

type fakeFetcher struct {
	files   map[string]string // written into the work dir on Fetch
	err     error
	branch  string
	fetched []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, repo *fetchers.Repo, exec executors.Executor) error {
	f.fetched = append(f.fetched, repo.CloneURL)
	if f.err != nil {
		return f.err
	}

	for rel, content := range f.files {
		full := filepath.Join(exec.WorkDir(), filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return err
		}
		if err := ioutil.WriteFile(full, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeFetcher) DefaultBranch(ctx context.Context, exec executors.Executor) string {
	if f.branch == "" {
		return "main"
	}
	return f.branch
}

type generateCall struct {
	sourceRel string
	testRel   string
	repoPath  string
	target    float64
}

type fakeGenerator struct {
	err   error
	calls []generateCall
}

func (g *fakeGenerator) GenerateTest(ctx context.Context, sourceRel, testRel, repoPath string, target float64) error {
	g.calls = append(g.calls, generateCall{sourceRel, testRel, repoPath, target})
	return g.err
}

type fakePusher struct {
	err    error
	branch string
	commit string
	staged []string
	calls  int
}

func (p *fakePusher) Push(ctx context.Context, exec executors.Executor, branch string,
	files map[string]string, commitMessage string, stagePaths []string) error {

	p.calls++
	p.branch = branch
	p.commit = commitMessage
	p.staged = append([]string(nil), stagePaths...)
	return p.err
}

type fakeProvider struct {
	canPush bool
	permErr error
	prErr   error

	prCfg   *provider.PullRequestConfig
	prOwner string
	prName  string
}

func (p *fakeProvider) Name() string                { return "github.com" }
func (p *fakeProvider) SetBaseURL(url string) error { return nil }

func (p *fakeProvider) GetRepoByName(ctx context.Context, owner, repo string) (*provider.Repo, error) {
	return &provider.Repo{FullName: owner + "/" + repo, DefaultBranch: "main"}, nil
}

func (p *fakeProvider) HasRequiredDependencies(ctx context.Context, owner, repo string, deps []string) (bool, error) {
	return true, nil
}

func (p *fakeProvider) CheckPermissions(ctx context.Context, owner, repo string) (bool, error) {
	return p.canPush, p.permErr
}

func (p *fakeProvider) CreatePullRequest(ctx context.Context, owner, repo string,
	cfg *provider.PullRequestConfig) (*provider.PullRequest, error) {

	p.prOwner, p.prName, p.prCfg = owner, repo, cfg
	if p.prErr != nil {
		return nil, p.prErr
	}
	return &provider.PullRequest{
		Number:  1,
		HTMLURL: "https://github.com/" + owner + "/" + repo + "/pull/1",
		State:   "open",
	}, nil
}

type fakeFactory struct {
	provider provider.Provider
	err      error
}

func (f fakeFactory) Build() (provider.Provider, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.provider, nil
}

func setupDB(t *testing.T) (*gorm.DB, func()) {
	dir, err := ioutil.TempDir("", "covergen-processors")
	require.NoError(t, err)

	db, err := gorm.Open("sqlite3", filepath.Join(dir, "test.sqlite"))
	require.NoError(t, err)

	err = db.AutoMigrate(&models.TrackedRepo{}, &models.ImprovementJob{}).Error
	require.NoError(t, err)

	return db, func() {
		assert.NoError(t, db.Close())
		assert.NoError(t, os.RemoveAll(dir))
	}
}

type improverEnv struct {
	db       *gorm.DB
	provider *fakeProvider
	fetcher  *fakeFetcher
	gen      *fakeGenerator
	pusher   *fakePusher
	execs    []*fakeExecutor
	improver *Improver
}

func setupImprover(t *testing.T) (*improverEnv, func()) {
	db, cleanDB := setupDB(t)

	env := &improverEnv{
		db:       db,
		provider: &fakeProvider{canPush: true},
		fetcher: &fakeFetcher{
			files: map[string]string{
				"src/user.service.ts": "export class UserService {}\n",
			},
		},
		gen:    &fakeGenerator{},
		pusher: &fakePusher{},
	}

	dirs := []string{}
	newExec := func() (executors.Executor, error) {
		dir, err := ioutil.TempDir("", "covergen-clone")
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, dir)

		e := &fakeExecutor{wd: dir}
		env.execs = append(env.execs, e)
		return e, nil
	}

	cfg := testConfig{"GITHUB_TOKEN": "gh-token-value"}
	env.improver = NewImprover(logutil.NewStderrLog("test"), db, cfg,
		fakeFactory{provider: env.provider}, env.fetcher, env.gen, env.pusher, newExec)

	return env, func() {
		for _, dir := range dirs {
			assert.NoError(t, os.RemoveAll(dir))
		}
		cleanDB()
	}
}

func createJob(t *testing.T, db *gorm.DB, guid string, status models.JobStatus) *models.ImprovementJob {
	j := &models.ImprovementJob{
		JobGUID:        guid,
		RepositoryURL:  "https://github.com/owner/name",
		FilePath:       "src/user.service.ts",
		TargetCoverage: 85,
		Status:         status,
	}
	require.NoError(t, j.Create(db))
	return j
}

func loadJob(t *testing.T, db *gorm.DB, guid string) models.ImprovementJob {
	var job models.ImprovementJob
	require.NoError(t, models.NewImprovementJobQuerySet(db).JobGUIDEq(guid).One(&job))
	return job
}

func TestImproverHappyPath(t *testing.T) {
	env, clean := setupImprover(t)
	defer clean()

	env.fetcher.branch = "develop"
	createJob(t, env.db, "job-1", models.JobStatusQueued)

	require.NoError(t, env.improver.Process(context.Background(), "job-1"))

	job := loadJob(t, env.db, "job-1")
	assert.Equal(t, models.JobStatusPRCreated, job.Status)
	assert.Equal(t, "https://github.com/owner/name/pull/1", job.PRLink)
	assert.Empty(t, job.ErrorMessage)

	require.Len(t, env.gen.calls, 1)
	call := env.gen.calls[0]
	assert.Equal(t, "src/user.service.ts", call.sourceRel)
	assert.Equal(t, "src/user.service.test.ts", call.testRel)
	assert.Equal(t, float64(85), call.target)

	require.Len(t, env.execs, 1)
	assert.Equal(t, env.execs[0].wd, call.repoPath)
	assert.True(t, env.execs[0].cleaned)

	assert.Equal(t, "improve-coverage-job-1", env.pusher.branch)
	assert.Equal(t, "test: improve coverage for src/user.service.ts", env.pusher.commit)
	assert.Equal(t, []string{"src/user.service.test.ts"}, env.pusher.staged)

	require.NotNil(t, env.provider.prCfg)
	assert.Equal(t, "owner", env.provider.prOwner)
	assert.Equal(t, "name", env.provider.prName)
	assert.Equal(t, "Improve test coverage for src/user.service.ts", env.provider.prCfg.Title)
	assert.Equal(t, "improve-coverage-job-1", env.provider.prCfg.Head)
	assert.Equal(t, "develop", env.provider.prCfg.Base)
}

func TestImproverMissingJobIsSkipped(t *testing.T) {
	env, clean := setupImprover(t)
	defer clean()

	require.NoError(t, env.improver.Process(context.Background(), "no-such-job"))
	assert.Empty(t, env.fetcher.fetched)
}

func TestImproverSkipsTerminalJob(t *testing.T) {
	env, clean := setupImprover(t)
	defer clean()

	createJob(t, env.db, "done", models.JobStatusFailed)

	require.NoError(t, env.improver.Process(context.Background(), "done"))

	job := loadJob(t, env.db, "done")
	assert.Equal(t, models.JobStatusFailed, job.Status)
	assert.Empty(t, env.fetcher.fetched)
	assert.Zero(t, env.pusher.calls)
}

func TestImproverPermissionDenied(t *testing.T) {
	env, clean := setupImprover(t)
	defer clean()

	env.provider.canPush = false
	createJob(t, env.db, "job-2", models.JobStatusQueued)

	require.NoError(t, env.improver.Process(context.Background(), "job-2"))

	job := loadJob(t, env.db, "job-2")
	assert.Equal(t, models.JobStatusFailed, job.Status)
	assert.Contains(t, job.ErrorMessage, "Insufficient permissions")
	assert.Contains(t, job.ErrorMessage, "https://github.com/owner/name")

	// The permission check precedes the clone.
	assert.Empty(t, env.fetcher.fetched)
	assert.Empty(t, env.gen.calls)
}

func TestImproverSourceMissing(t *testing.T) {
	env, clean := setupImprover(t)
	defer clean()

	env.fetcher.files = map[string]string{"README.md": "hi\n"}
	createJob(t, env.db, "job-3", models.JobStatusQueued)

	require.NoError(t, env.improver.Process(context.Background(), "job-3"))

	job := loadJob(t, env.db, "job-3")
	assert.Equal(t, models.JobStatusFailed, job.Status)
	assert.Contains(t, job.ErrorMessage, "src/user.service.ts not found")
	assert.Empty(t, env.gen.calls)

	require.Len(t, env.execs, 1)
	assert.True(t, env.execs[0].cleaned)
}

func TestImproverCloneFailure(t *testing.T) {
	env, clean := setupImprover(t)
	defer clean()

	env.fetcher.err = errors.New("git exited with code 128")
	createJob(t, env.db, "job-4", models.JobStatusQueued)

	require.NoError(t, env.improver.Process(context.Background(), "job-4"))

	job := loadJob(t, env.db, "job-4")
	assert.Equal(t, models.JobStatusFailed, job.Status)
	assert.Contains(t, job.ErrorMessage, "can't clone")
	assert.Empty(t, env.gen.calls)
}

func TestImproverGenerationExhaustion(t *testing.T) {
	env, clean := setupImprover(t)
	defer clean()

	env.gen.err = errors.New("no valid test for src/user.service.ts after 3 attempts, " +
		"last error: TestsFailed: expected 2 to be 3")
	createJob(t, env.db, "job-5", models.JobStatusQueued)

	require.NoError(t, env.improver.Process(context.Background(), "job-5"))

	job := loadJob(t, env.db, "job-5")
	assert.Equal(t, models.JobStatusFailed, job.Status)
	assert.Contains(t, job.ErrorMessage, "after 3 attempts")
	assert.Zero(t, env.pusher.calls)
	assert.Empty(t, job.PRLink)
}

func TestImproverHidesSecretsInErrorMessage(t *testing.T) {
	env, clean := setupImprover(t)
	defer clean()

	env.pusher.err = errors.New("remote rejected: token gh-token-value expired")
	createJob(t, env.db, "job-6", models.JobStatusQueued)

	require.NoError(t, env.improver.Process(context.Background(), "job-6"))

	job := loadJob(t, env.db, "job-6")
	assert.Equal(t, models.JobStatusFailed, job.Status)
	assert.NotContains(t, job.ErrorMessage, "gh-token-value")
	assert.Contains(t, job.ErrorMessage, "{hidden}")
}

func TestImproverInvalidRepoURL(t *testing.T) {
	env, clean := setupImprover(t)
	defer clean()

	j := &models.ImprovementJob{
		JobGUID:        "job-7",
		RepositoryURL:  "ftp://example.com/repo",
		FilePath:       "src/user.service.ts",
		TargetCoverage: 80,
		Status:         models.JobStatusQueued,
	}
	require.NoError(t, j.Create(env.db))

	require.NoError(t, env.improver.Process(context.Background(), "job-7"))

	job := loadJob(t, env.db, "job-7")
	assert.Equal(t, models.JobStatusFailed, job.Status)
	assert.NotEmpty(t, job.ErrorMessage)
	assert.Empty(t, env.fetcher.fetched)
}

type fakeScanner struct {
	report []models.FileCoverage
	err    error
	paths  []string
}

func (s *fakeScanner) Scan(ctx context.Context, repoPath string) ([]models.FileCoverage, error) {
	s.paths = append(s.paths, repoPath)
	return s.report, s.err
}

type scanEnv struct {
	db      *gorm.DB
	fetcher *fakeFetcher
	scanner *fakeScanner
	execs   []*fakeExecutor
	scan    *Scan
}

func setupScan(t *testing.T) (*scanEnv, func()) {
	db, cleanDB := setupDB(t)

	env := &scanEnv{
		db:      db,
		fetcher: &fakeFetcher{files: map[string]string{"package.json": "{}\n"}},
		scanner: &fakeScanner{},
	}

	dirs := []string{}
	newExec := func() (executors.Executor, error) {
		dir, err := ioutil.TempDir("", "covergen-clone")
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, dir)

		e := &fakeExecutor{wd: dir}
		env.execs = append(env.execs, e)
		return e, nil
	}

	env.scan = NewScan(logutil.NewStderrLog("test"), db, env.fetcher, env.scanner, newExec)

	return env, func() {
		for _, dir := range dirs {
			assert.NoError(t, os.RemoveAll(dir))
		}
		cleanDB()
	}
}

func TestScanProcessHappyPath(t *testing.T) {
	env, clean := setupScan(t)
	defer clean()

	repo := models.TrackedRepo{URL: "https://github.com/owner/name"}
	require.NoError(t, repo.Create(env.db))

	env.scanner.report = []models.FileCoverage{
		{FilePath: "src/auth.service.ts", LinesCoverage: 0},
		{FilePath: "src/user.service.ts", LinesCoverage: 73.4},
	}

	require.NoError(t, env.scan.Process(context.Background(), repo.ID))

	assert.Equal(t, []string{repo.URL}, env.fetcher.fetched)
	require.Len(t, env.execs, 1)
	assert.Equal(t, []string{env.execs[0].wd}, env.scanner.paths)
	assert.True(t, env.execs[0].cleaned)

	var fetched models.TrackedRepo
	require.NoError(t, models.NewTrackedRepoQuerySet(env.db).IDEq(repo.ID).One(&fetched))
	report, err := fetched.ParseCoverageReport()
	require.NoError(t, err)
	require.Len(t, report, 2)
	assert.Equal(t, "src/auth.service.ts", report[0].FilePath)
	assert.Equal(t, 73.4, report[1].LinesCoverage)
}

func TestScanProcessMissingRepoIsSkipped(t *testing.T) {
	env, clean := setupScan(t)
	defer clean()

	require.NoError(t, env.scan.Process(context.Background(), 12345))
	assert.Empty(t, env.fetcher.fetched)
}

func TestScanProcessScanErrorPropagates(t *testing.T) {
	env, clean := setupScan(t)
	defer clean()

	repo := models.TrackedRepo{URL: "https://github.com/owner/name"}
	require.NoError(t, repo.Create(env.db))

	env.scanner.err = errors.New("dependency install failed")

	err := env.scan.Process(context.Background(), repo.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't scan")

	var fetched models.TrackedRepo
	require.NoError(t, models.NewTrackedRepoQuerySet(env.db).IDEq(repo.ID).One(&fetched))
	assert.Empty(t, fetched.LastCoverageReport)

	require.Len(t, env.execs, 1)
	assert.True(t, env.execs[0].cleaned)
}

func TestScanProcessStoresEmptyReport(t *testing.T) {
	env, clean := setupScan(t)
	defer clean()

	repo := models.TrackedRepo{URL: "https://github.com/owner/name"}
	require.NoError(t, repo.Create(env.db))

	require.NoError(t, env.scan.Process(context.Background(), repo.ID))

	var fetched models.TrackedRepo
	require.NoError(t, models.NewTrackedRepoQuerySet(env.db).IDEq(repo.ID).One(&fetched))
	report, err := fetched.ParseCoverageReport()
	require.NoError(t, err)
	assert.Empty(t, report)
	assert.NotEmpty(t, fetched.LastCoverageReport)
}

type staticSecrets []string

func (s staticSecrets) secrets() []string { return s }

func TestEscapeText(t *testing.T) {
	out := escapeText("push with token-abc123 failed", staticSecrets{"token-abc123"})
	assert.Equal(t, "push with {hidden} failed", out)

	// Too short to be treated as a secret.
	out = escapeText("short ab kept", staticSecrets{"ab"})
	assert.Equal(t, "short ab kept", out)
}

func TestEscapeTextHidesEnvValues(t *testing.T) {
	require.NoError(t, os.Setenv("COVERGEN_TEST_SECRET", "env-secret-value"))
	defer func() {
		assert.NoError(t, os.Unsetenv("COVERGEN_TEST_SECRET"))
	}()

	out := escapeText("log: env-secret-value leaked", staticSecrets{})
	assert.Equal(t, "log: {hidden} leaked", out)
}

func TestTestPathFor(t *testing.T) {
	assert.Equal(t, "src/user.service.test.ts", testPathFor("src/user.service.ts"))
	assert.Equal(t, "src/components/Button.test.ts", testPathFor("src/components/Button.tsx"))
}
