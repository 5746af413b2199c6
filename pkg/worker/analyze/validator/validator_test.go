package validator

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/covergen/covergen-api/pkg/worker/lib/sandbox"
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

func newTestRepo(t *testing.T) (string, func()) {
	repo, err := ioutil.TempDir("", "validator-test")
	require.NoError(t, err)
	return repo, func() {
		os.RemoveAll(repo)
	}
}

func newTestValidator(runner sandbox.Runner) *Validator {
	return NewValidator(logutil.NewStderrLog("test"), runner)
}

const testRel = "src/user.service.verification.test.ts"

func passingRunOutput(coverageMap string) string {
	return `PASS src/user.service.verification.test.ts
{"success":true,"numFailedTests":0,"testResults":[{"message":"","status":"passed"}],"coverageMap":` +
		coverageMap + `}`
}

func TestSourceForTest(t *testing.T) {
	assert.Equal(t, "src/user.service.ts", SourceForTest("src/user.service.verification.test.ts"))
	assert.Equal(t, "src/a.ts", SourceForTest("src/a.test.ts"))
	assert.Equal(t, "src/b.ts", SourceForTest("src/b.spec.ts"))
	assert.Equal(t, "src/c.ts", SourceForTest("src/c.ts"))
}

func TestFirstFatalTSCode(t *testing.T) {
	ignorable := `src/x.ts(1,1): error TS2307: Cannot find module 'foo'.
src/x.ts(2,5): error TS2339: Property 'bar' does not exist on type 'Baz'.`
	_, fatal := firstFatalTSCode(ignorable)
	assert.False(t, fatal)

	mixed := ignorable + `
src/x.ts(3,1): error TS1005: ';' expected.`
	code, fatal := firstFatalTSCode(mixed)
	assert.True(t, fatal)
	assert.Equal(t, "1005", code)

	_, fatal = firstFatalTSCode("everything compiled fine")
	assert.False(t, fatal)
}

func TestExtractRunReportPicksLastPayload(t *testing.T) {
	out := `npm WARN something
{"success":false,"coverageMap":{}}
console.log noise from the code under test
{"success":true,"numFailedTests":0,"testResults":[],"coverageMap":{"/app/src/a.ts":{"lines":{"pct":100}}}}`

	report, ok := extractRunReport(out)
	require.True(t, ok)
	assert.True(t, report.Success)
	assert.Len(t, report.CoverageMap, 1)
}

func TestExtractRunReportNoPayload(t *testing.T) {
	_, ok := extractRunReport("Error: Cannot find module 'jest'")
	assert.False(t, ok)
}

func TestFindCoverageEntry(t *testing.T) {
	m := map[string]json.RawMessage{
		"/app/src/user.service.ts":  json.RawMessage(`{"lines":{"pct":90}}`),
		"/app/src/other.service.ts": json.RawMessage(`{"lines":{"pct":10}}`),
	}

	raw, ok := findCoverageEntry(m, "src/user.service.ts")
	require.True(t, ok)

	pct, _, ok := parseCoverageEntry(raw)
	require.True(t, ok)
	assert.Equal(t, float64(90), pct)

	_, ok = findCoverageEntry(m, "src/missing.service.ts")
	assert.False(t, ok)
}

func TestFindCoverageEntryByBaseName(t *testing.T) {
	m := map[string]json.RawMessage{
		"/work/elsewhere/user.service.ts": json.RawMessage(`{"lines":{"pct":70}}`),
	}

	raw, ok := findCoverageEntry(m, "src/user.service.ts")
	require.True(t, ok)

	pct, _, ok := parseCoverageEntry(raw)
	require.True(t, ok)
	assert.Equal(t, float64(70), pct)
}

func TestParseCoverageEntryShapes(t *testing.T) {
	pct, uncovered, ok := parseCoverageEntry(json.RawMessage(`{"lines":{"pct":85.5}}`))
	require.True(t, ok)
	assert.Equal(t, 85.5, pct)
	assert.Empty(t, uncovered)

	pct, _, ok = parseCoverageEntry(json.RawMessage(`{"statements":{"pct":60}}`))
	require.True(t, ok)
	assert.Equal(t, float64(60), pct)

	pct, uncovered, ok = parseCoverageEntry(json.RawMessage(`{"s":{"0":1,"1":0,"2":3,"3":0}}`))
	require.True(t, ok)
	assert.Equal(t, float64(50), pct)
	assert.Equal(t, []string{"1", "3"}, uncovered)

	pct, _, ok = parseCoverageEntry(json.RawMessage(`{"path":"/app/src/a.ts","data":{"s":{"0":2}}}`))
	require.True(t, ok)
	assert.Equal(t, float64(100), pct)

	_, _, ok = parseCoverageEntry(json.RawMessage(`{"path":"/app/src/a.ts"}`))
	assert.False(t, ok)
}

func TestValidateFatalCompileError(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	configSeen := false
	runner := &fakeRunner{
		results: []*sandbox.Result{
			{Success: false, ExitCode: 2, CombinedOutput: "src/x.ts(3,1): error TS1005: ';' expected."},
		},
		onRun: func(req *sandbox.Request) {
			if _, err := os.Stat(filepath.Join(repo, compileConfigName)); err == nil {
				configSeen = true
			}
		},
	}

	res, err := newTestValidator(runner).Validate(context.Background(), testRel, repo, 80)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.ErrorText, "CompileError")
	assert.Contains(t, res.ErrorText, "TS1005")

	require.Len(t, runner.reqs, 1)
	assert.Contains(t, runner.reqs[0].Args, "--noEmit")
	assert.False(t, runner.reqs[0].AllowNetwork)

	assert.True(t, configSeen, "scoped tsconfig must exist while tsc runs")
	_, statErr := os.Stat(filepath.Join(repo, compileConfigName))
	assert.True(t, os.IsNotExist(statErr), "scoped tsconfig must be unlinked afterwards")
}

func TestValidateIgnoresHarmlessCompileErrors(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	runner := &fakeRunner{results: []*sandbox.Result{
		{Success: false, ExitCode: 2, CombinedOutput: "src/x.ts(1,1): error TS2307: Cannot find module 'foo'."},
		{Success: true, CombinedOutput: passingRunOutput(`{"/app/src/user.service.ts":{"s":{"0":1,"1":1}}}`)},
	}}

	res, err := newTestValidator(runner).Validate(context.Background(), testRel, repo, 80)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, float64(100), res.MeasuredCoverage)

	require.Len(t, runner.reqs, 2)
	assert.Contains(t, runner.reqs[1].Args, "--json")

	_, statErr := os.Stat(filepath.Join(repo, executeConfigName))
	assert.True(t, os.IsNotExist(statErr), "runner config must be unlinked afterwards")
}

func TestValidateLowCoverage(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	runner := &fakeRunner{results: []*sandbox.Result{
		{Success: true},
		{Success: true, CombinedOutput: passingRunOutput(`{"/app/src/user.service.ts":{"s":{"0":1,"1":0,"2":0,"3":1}}}`)},
	}}

	res, err := newTestValidator(runner).Validate(context.Background(), testRel, repo, 80)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.ErrorText, "LowCoverage")
	assert.Contains(t, res.ErrorText, "50.0%")
	assert.Contains(t, res.ErrorText, "uncovered statements: 1, 2")
}

func TestValidateFailingTests(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	out := `{"success":false,"numFailedTests":1,"testResults":[{"message":"expect(received).toBe(expected)"}],"coverageMap":{}}`
	runner := &fakeRunner{results: []*sandbox.Result{
		{Success: true},
		{Success: false, ExitCode: 1, CombinedOutput: out},
	}}

	res, err := newTestValidator(runner).Validate(context.Background(), testRel, repo, 80)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.ErrorText, "TestsFailed")
	assert.Contains(t, res.ErrorText, "expect(received).toBe(expected)")
}

func TestValidateNoReportIsExecutionError(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	runner := &fakeRunner{results: []*sandbox.Result{
		{Success: true},
		{Success: false, ExitCode: 127, CombinedOutput: "sh: jest: not found"},
	}}

	res, err := newTestValidator(runner).Validate(context.Background(), testRel, repo, 80)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.ErrorText, "ExecutionError")
	assert.Contains(t, res.ErrorText, "not found")
}

func TestValidateMissingCoverageEntry(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	runner := &fakeRunner{results: []*sandbox.Result{
		{Success: true},
		{Success: true, CombinedOutput: passingRunOutput(`{"/app/src/other.ts":{"s":{"0":1}}}`)},
	}}

	res, err := newTestValidator(runner).Validate(context.Background(), testRel, repo, 80)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.ErrorText, "CoverageError")
	assert.Contains(t, res.ErrorText, "src/user.service.ts")
}

func TestValidateTimeout(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	runner := &fakeRunner{results: []*sandbox.Result{
		{Success: true},
		{Success: false, TimedOut: true, CombinedOutput: "TIMEOUT"},
	}}

	res, err := newTestValidator(runner).Validate(context.Background(), testRel, repo, 80)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.ErrorText, "ExecutionError: test run timed out")
}

func TestWriteExecuteConfigScopesCoverage(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	configPath := filepath.Join(repo, executeConfigName)
	require.NoError(t, writeExecuteConfig(configPath, testRel, "src/user.service.ts"))

	data, err := ioutil.ReadFile(configPath)
	require.NoError(t, err)

	cfg := string(data)
	assert.Contains(t, cfg, `"<rootDir>/src/user.service.verification.test.ts"`)
	assert.Contains(t, cfg, `collectCoverageFrom: ["src/user.service.ts"]`)
	assert.Contains(t, cfg, "collectCoverage: true")
}
