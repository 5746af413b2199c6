package coverage

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/covergen/covergen-api/pkg/worker/lib/sandbox"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	results []*sandbox.Result
	reqs    []*sandbox.Request
	onRun   func(req *sandbox.Request)
}

func (r *fakeRunner) Run(ctx context.Context, req *sandbox.Request) (*sandbox.Result, error) {
	r.reqs = append(r.reqs, req)
	if r.onRun != nil {
		r.onRun(req)
	}

	if len(r.results) == 0 {
		return &sandbox.Result{Success: true}, nil
	}
	res := r.results[0]
	r.results = r.results[1:]
	return res, nil
}

func newTestRepo(t *testing.T, files map[string]string) (string, func()) {
	repo, err := ioutil.TempDir("", "coverage-test")
	require.NoError(t, err)

	for name, content := range files {
		p := filepath.Join(repo, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, ioutil.WriteFile(p, []byte(content), 0644))
	}

	return repo, func() {
		os.RemoveAll(repo)
	}
}

func newTestScanner(runner sandbox.Runner) *Scanner {
	return NewScanner(logutil.NewStderrLog("test"), runner)
}

func TestIsExcluded(t *testing.T) {
	excluded := []string{
		"node_modules/left-pad/index.ts",
		"dist/user.service.ts",
		"src/types/user.ts",
		"lib/interface/shape.ts",
		"src/deep/enums/color.ts",
		"src/user.spec.ts",
		"src/user.test.tsx",
		"src/api.d.ts",
		"src/user.interface.ts",
		"src/color.enum.ts",
		"src/http.constants.ts",
		"app.ts",
		"src/app.ts",
		"src/myapp.ts",
		"src/main.ts",
		"src/index.ts",
		"src/users.module.ts",
		"src/user.entity.ts",
	}
	for _, p := range excluded {
		assert.True(t, IsExcluded(p), "expected %q to be excluded", p)
	}

	included := []string{
		"src/user.service.ts",
		"src/application.tsx",
		"src/typeguards.ts",
		"src/indexer.service.ts",
		"src/appointment.service.ts",
	}
	for _, p := range included {
		assert.False(t, IsExcluded(p), "expected %q to be included", p)
	}
}

func TestCoverageIgnoreGlobs(t *testing.T) {
	globs := coverageIgnoreGlobs()

	assert.Contains(t, globs, "!**/node_modules/**")
	assert.Contains(t, globs, "!**/.git/**")
	assert.Contains(t, globs, "!**/*.d.ts")
	assert.Contains(t, globs, "!**/*.spec.ts")
	assert.Contains(t, globs, "!**/*index.ts")
	assert.Len(t, globs, len(excludedDirs)+len(excludedFilePatterns))
}

func TestInstallCommand(t *testing.T) {
	cases := []struct {
		lockfile string
		name     string
		firstArg string
	}{
		{"package-lock.json", "npm", "ci"},
		{"yarn.lock", "yarn", "install"},
		{"pnpm-lock.yaml", "pnpm", "install"},
		{"", "npm", "install"},
	}

	for _, c := range cases {
		files := map[string]string{"package.json": "{}"}
		if c.lockfile != "" {
			files[c.lockfile] = "{}"
		}
		repo, cleanup := newTestRepo(t, files)

		name, args := installCommand(repo)
		assert.Equal(t, c.name, name, "lockfile %q", c.lockfile)
		assert.Equal(t, c.firstArg, args[0], "lockfile %q", c.lockfile)
		assert.Contains(t, args, "--ignore-scripts", "lockfile %q", c.lockfile)

		cleanup()
	}
}

func TestHasJestConfig(t *testing.T) {
	repo, cleanup := newTestRepo(t, map[string]string{
		"package.json":   "{}",
		"jest.config.js": "module.exports = {};",
	})
	defer cleanup()
	assert.True(t, hasJestConfig(repo))

	repo2, cleanup2 := newTestRepo(t, map[string]string{
		"package.json": `{"name": "x", "jest": {"preset": "ts-jest"}}`,
	})
	defer cleanup2()
	assert.True(t, hasJestConfig(repo2))

	repo3, cleanup3 := newTestRepo(t, map[string]string{
		"package.json": `{"name": "x", "jest": null}`,
	})
	defer cleanup3()
	assert.False(t, hasJestConfig(repo3))

	repo4, cleanup4 := newTestRepo(t, map[string]string{
		"package.json": `{"name": "x"}`,
	})
	defer cleanup4()
	assert.False(t, hasJestConfig(repo4))
}

func TestBuildScanConfig(t *testing.T) {
	cfg := buildScanConfig()

	assert.Contains(t, cfg, "preset: 'ts-jest'")
	assert.Contains(t, cfg, "'**/*.{ts,tsx}'")
	assert.Contains(t, cfg, "'!**/node_modules/**'")
	assert.Contains(t, cfg, "'!**/*.spec.ts'")
	assert.Contains(t, cfg, "passWithNoTests: true")
}

func TestScanParsesSummary(t *testing.T) {
	summary := `{
		"total": {"lines": {"total": 20, "covered": 10, "pct": 50}},
		"/app/src/user.service.ts": {"lines": {"total": 10, "covered": 5, "pct": 50}},
		"/app/src/auth.service.ts": {"lines": {"total": 4, "covered": 1, "pct": "Unknown"}},
		"/app/src/user.spec.ts": {"lines": {"total": 3, "covered": 3, "pct": 100}},
		"../escape.ts": {"lines": {"total": 1, "covered": 1, "pct": 100}}
	}`
	repo, cleanup := newTestRepo(t, map[string]string{
		"package.json":                   "{}",
		"jest.config.js":                 "module.exports = {};",
		"node_modules/.keep":             "",
		"coverage/coverage-summary.json": summary,
	})
	defer cleanup()

	runner := &fakeRunner{}
	entries, err := newTestScanner(runner).Scan(context.Background(), repo)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "src/auth.service.ts", entries[0].FilePath)
	assert.Equal(t, float64(25), entries[0].LinesCoverage)
	assert.Equal(t, "src/user.service.ts", entries[1].FilePath)
	assert.Equal(t, float64(50), entries[1].LinesCoverage)
}

func TestScanRelativizesHostPaths(t *testing.T) {
	repo, cleanup := newTestRepo(t, map[string]string{
		"package.json":       "{}",
		"jest.config.js":     "module.exports = {};",
		"node_modules/.keep": "",
		"src/user.service.ts": `export class UserService {}
`,
	})
	defer cleanup()

	hostPath := filepath.Join(repo, "src", "user.service.ts")
	summary := fmt.Sprintf(`{"%s": {"lines": {"total": 2, "covered": 2, "pct": 100}}}`, hostPath)
	require.NoError(t, os.MkdirAll(filepath.Join(repo, "coverage"), 0755))
	require.NoError(t, ioutil.WriteFile(
		filepath.Join(repo, "coverage", "coverage-summary.json"), []byte(summary), 0644))

	entries, err := newTestScanner(&fakeRunner{}).Scan(context.Background(), repo)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "src/user.service.ts", entries[0].FilePath)
	assert.Equal(t, float64(100), entries[0].LinesCoverage)
}

func TestScanFallsBackWithoutSummary(t *testing.T) {
	repo, cleanup := newTestRepo(t, map[string]string{
		"package.json":           "{}",
		"jest.config.js":         "module.exports = {};",
		"node_modules/dep.ts":    "export {};",
		"src/user.service.ts":    "export class UserService {}",
		"src/user.spec.ts":       "it('x', () => {});",
		"src/types/user.ts":      "export type User = {};",
		"src/auth/auth.guard.ts": "export class AuthGuard {}",
		"README.md":              "# x",
	})
	defer cleanup()

	entries, err := newTestScanner(&fakeRunner{}).Scan(context.Background(), repo)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "src/auth/auth.guard.ts", entries[0].FilePath)
	assert.Equal(t, float64(0), entries[0].LinesCoverage)
	assert.Equal(t, "src/user.service.ts", entries[1].FilePath)
	assert.Equal(t, float64(0), entries[1].LinesCoverage)
}

func TestScanAcceptsFailingTests(t *testing.T) {
	repo, cleanup := newTestRepo(t, map[string]string{
		"package.json":       "{}",
		"jest.config.js":     "module.exports = {};",
		"node_modules/.keep": "",
		"coverage/coverage-summary.json": `{
			"/app/src/user.service.ts": {"lines": {"total": 10, "covered": 3, "pct": 30}}
		}`,
	})
	defer cleanup()

	runner := &fakeRunner{results: []*sandbox.Result{
		{Success: false, ExitCode: 1, CombinedOutput: "1 test failed"},
	}}

	entries, err := newTestScanner(runner).Scan(context.Background(), repo)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, float64(30), entries[0].LinesCoverage)
}

func TestScanFailsOnRunnerCrash(t *testing.T) {
	repo, cleanup := newTestRepo(t, map[string]string{
		"package.json":       "{}",
		"jest.config.js":     "module.exports = {};",
		"node_modules/.keep": "",
	})
	defer cleanup()

	runner := &fakeRunner{results: []*sandbox.Result{
		{Success: false, ExitCode: 137, CombinedOutput: "Killed"},
	}}

	_, err := newTestScanner(runner).Scan(context.Background(), repo)
	require.Error(t, err)
	assert.Equal(t, ErrScan, errors.Cause(err))
	assert.Contains(t, err.Error(), "test run failed")
}

func TestScanFailsOnTimeout(t *testing.T) {
	repo, cleanup := newTestRepo(t, map[string]string{
		"package.json":       "{}",
		"jest.config.js":     "module.exports = {};",
		"node_modules/.keep": "",
	})
	defer cleanup()

	runner := &fakeRunner{results: []*sandbox.Result{
		{Success: false, TimedOut: true, CombinedOutput: "TIMEOUT"},
	}}

	_, err := newTestScanner(runner).Scan(context.Background(), repo)
	require.Error(t, err)
	assert.Equal(t, ErrScan, errors.Cause(err))
	assert.Contains(t, err.Error(), "timed out")
}

func TestScanInstallsDependenciesFirst(t *testing.T) {
	repo, cleanup := newTestRepo(t, map[string]string{
		"package.json":      "{}",
		"package-lock.json": "{}",
		"jest.config.js":    "module.exports = {};",
	})
	defer cleanup()

	runner := &fakeRunner{}
	_, err := newTestScanner(runner).Scan(context.Background(), repo)
	require.NoError(t, err)

	require.Len(t, runner.reqs, 2)

	install := runner.reqs[0]
	assert.Equal(t, "npm", install.Name)
	assert.Equal(t, []string{"ci", "--ignore-scripts"}, install.Args)
	assert.True(t, install.AllowNetwork)
	assert.Equal(t, installTimeout, install.Timeout)

	run := runner.reqs[1]
	assert.Equal(t, sandbox.ToolchainMount+"/node_modules/.bin/jest", run.Name)
	assert.False(t, run.AllowNetwork)
	assert.Equal(t, testRunTimeout, run.Timeout)
}

func TestScanInjectsAndRemovesTempConfig(t *testing.T) {
	repo, cleanup := newTestRepo(t, map[string]string{
		"package.json":       "{}",
		"node_modules/.keep": "",
	})
	defer cleanup()

	configSeen := false
	runner := &fakeRunner{onRun: func(req *sandbox.Request) {
		if _, err := os.Stat(filepath.Join(repo, scanConfigName)); err == nil {
			configSeen = true
		}
	}}

	_, err := newTestScanner(runner).Scan(context.Background(), repo)
	require.NoError(t, err)

	require.Len(t, runner.reqs, 1)
	assert.Contains(t, runner.reqs[0].Args, "--config")
	assert.Contains(t, runner.reqs[0].Args, scanConfigName)

	assert.True(t, configSeen, "temp config must exist while jest runs")
	_, statErr := os.Stat(filepath.Join(repo, scanConfigName))
	assert.True(t, os.IsNotExist(statErr), "temp config must be removed after the scan")
}
