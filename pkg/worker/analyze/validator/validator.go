package validator

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/covergen/covergen-api/pkg/worker/lib/sandbox"
	"github.com/pkg/errors"
)

const (
	compileTimeout = 120 * time.Second
	executeTimeout = 90 * time.Second

	// Scratch configs written into the clone for one validation pass.
	// Both are removed before Validate returns, whatever the outcome.
	compileConfigName = "tsconfig.validation.json"
	executeConfigName = "jest.config.verification.js"

	maxUncoveredSample = 20
)

// ignorableTSCodes are diagnostics that don't stop ts-jest from executing
// the test: an unresolvable module, an unknown name or a type mismatch
// still transpiles. Every other compile error is fatal.
var ignorableTSCodes = map[string]bool{
	"2304": true, // cannot find name
	"2307": true, // cannot find module
	"2339": true, // property does not exist on type
	"2345": true, // argument type is not assignable
	"2552": true, // cannot find name, did you mean
}

var tsErrorRe = regexp.MustCompile(`error TS(\d+)`)

// Result describes one validation pass over a candidate test file.
// ErrorText is empty iff Success; it's written for feeding back into the
// next generation prompt, so it names the failure class up front.
type Result struct {
	Success          bool
	ErrorText        string
	MeasuredCoverage float64
}

// Validator checks a candidate test in two phases: a scoped no-emit type
// check, then an isolated run collecting coverage for only the source file
// the test exercises.
type Validator struct {
	log    logutil.Log
	runner sandbox.Runner
}

func NewValidator(log logutil.Log, runner sandbox.Runner) *Validator {
	return &Validator{
		log:    log,
		runner: runner,
	}
}

// Validate runs both phases for the test at testRel inside the clone at
// repoPath. A non-nil error means the validator itself broke (file IO,
// sandbox invocation); everything about the candidate test itself comes
// back inside Result.
func (v Validator) Validate(ctx context.Context, testRel, repoPath string, targetCoverage float64) (*Result, error) {
	res, err := v.compile(ctx, testRel, repoPath)
	if err != nil || !res.Success {
		return res, err
	}

	return v.execute(ctx, testRel, repoPath, targetCoverage)
}

func (v Validator) compile(ctx context.Context, testRel, repoPath string) (*Result, error) {
	configPath := filepath.Join(repoPath, compileConfigName)
	if err := writeCompileConfig(configPath, testRel); err != nil {
		return nil, errors.Wrap(err, "validator: can't write type check config")
	}
	defer os.Remove(configPath)

	res, err := v.runner.Run(ctx, &sandbox.Request{
		Name:    sandbox.LocalOrToolchainBin(repoPath, "tsc"),
		Args:    []string{"--project", compileConfigName, "--noEmit"},
		HostDir: repoPath,
		Timeout: compileTimeout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "validator: can't run type check")
	}
	if res.TimedOut {
		return failure("CompileError: type check timed out"), nil
	}

	if code, fatal := firstFatalTSCode(res.CombinedOutput); fatal {
		v.log.Infof("Type check of %s failed with fatal TS%s", testRel, code)
		return failure("CompileError: " + sandbox.OutputTail(res.CombinedOutput, 2000)), nil
	}

	return &Result{Success: true}, nil
}

func (v Validator) execute(ctx context.Context, testRel, repoPath string, targetCoverage float64) (*Result, error) {
	sourceRel := SourceForTest(testRel)

	configPath := filepath.Join(repoPath, executeConfigName)
	if err := writeExecuteConfig(configPath, testRel, sourceRel); err != nil {
		return nil, errors.Wrap(err, "validator: can't write runner config")
	}
	defer os.Remove(configPath)

	res, err := v.runner.Run(ctx, &sandbox.Request{
		Name:    sandbox.LocalOrToolchainBin(repoPath, "jest"),
		Args:    []string{"--config", executeConfigName, "--json", "--ci", "--silent", "--forceExit"},
		HostDir: repoPath,
		Timeout: executeTimeout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "validator: can't run test")
	}
	if res.TimedOut {
		return failure("ExecutionError: test run timed out"), nil
	}

	report, ok := extractRunReport(res.CombinedOutput)
	if !ok {
		return failure("ExecutionError: test runner produced no report: " +
			sandbox.OutputTail(res.CombinedOutput, 1000)), nil
	}

	if !report.Success {
		return failure("TestsFailed: " + report.failureText()), nil
	}

	if len(report.CoverageMap) == 0 {
		if !res.Success {
			return failure("ExecutionError: no coverage collected: " +
				sandbox.OutputTail(res.CombinedOutput, 1000)), nil
		}
		return failure("CoverageError: test run collected no coverage"), nil
	}

	entryRaw, ok := findCoverageEntry(report.CoverageMap, sourceRel)
	if !ok {
		return failure(fmt.Sprintf("CoverageError: no coverage recorded for %s", sourceRel)), nil
	}

	pct, uncovered, ok := parseCoverageEntry(entryRaw)
	if !ok {
		return failure(fmt.Sprintf("CoverageError: unreadable coverage entry for %s", sourceRel)), nil
	}

	if pct < targetCoverage {
		return failure(lowCoverageText(pct, targetCoverage, uncovered)), nil
	}

	v.log.Infof("Validated %s: statement coverage %.1f%%", testRel, pct)
	return &Result{Success: true, MeasuredCoverage: pct}, nil
}

func failure(text string) *Result {
	return &Result{ErrorText: text}
}

var testSuffixes = []string{".verification.test.ts", ".test.ts", ".spec.ts"}

// SourceForTest maps a test path back to the source file it exercises.
func SourceForTest(testRel string) string {
	for _, suffix := range testSuffixes {
		if strings.HasSuffix(testRel, suffix) {
			return strings.TrimSuffix(testRel, suffix) + ".ts"
		}
	}
	return testRel
}

func firstFatalTSCode(out string) (string, bool) {
	for _, line := range strings.Split(out, "\n") {
		for _, m := range tsErrorRe.FindAllStringSubmatch(line, -1) {
			if !ignorableTSCodes[m[1]] {
				return m[1], true
			}
		}
	}
	return "", false
}

func writeCompileConfig(configPath, testRel string) error {
	cfg := map[string]interface{}{
		"compilerOptions": map[string]interface{}{
			"noEmit":           true,
			"skipLibCheck":     true,
			"esModuleInterop":  true,
			"isolatedModules":  true,
			"module":           "commonjs",
			"moduleResolution": "node",
			"target":           "ES2020",
			"types":            []string{"jest", "node"},
		},
		"include": []string{filepath.ToSlash(testRel)},
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(configPath, data, 0644)
}

func writeExecuteConfig(configPath, testRel, sourceRel string) error {
	cfg := fmt.Sprintf(`module.exports = {
  preset: 'ts-jest',
  testEnvironment: 'node',
  testMatch: [%q],
  collectCoverage: true,
  collectCoverageFrom: [%q],
};
`, "<rootDir>/"+filepath.ToSlash(testRel), filepath.ToSlash(sourceRel))

	return ioutil.WriteFile(configPath, []byte(cfg), 0644)
}

type runReport struct {
	Success     bool `json:"success"`
	TestResults []struct {
		Message string `json:"message"`
	} `json:"testResults"`
	CoverageMap map[string]json.RawMessage `json:"coverageMap"`
}

func (r runReport) failureText() string {
	msgs := []string{}
	for _, tr := range r.TestResults {
		if m := strings.TrimSpace(tr.Message); m != "" {
			msgs = append(msgs, m)
		}
	}
	if len(msgs) == 0 {
		return "test run failed"
	}
	return sandbox.OutputTail(strings.Join(msgs, "\n"), 2000)
}

var runReportPrefixes = []string{
	`{"numFailedTestSuites"`,
	`{"numFailedTests"`,
	`{"numPassedTestSuites"`,
	`{"numTotalTestSuites"`,
	`{"success"`,
	`{"testResults"`,
}

// extractRunReport finds the last JSON report in the combined output: the
// runner and the code under test may both print noise before it.
func extractRunReport(out string) (*runReport, bool) {
	start := -1
	for _, prefix := range runReportPrefixes {
		if idx := strings.LastIndex(out, prefix); idx > start {
			start = idx
		}
	}
	if start < 0 {
		return nil, false
	}

	var report runReport
	if err := json.NewDecoder(strings.NewReader(out[start:])).Decode(&report); err != nil {
		return nil, false
	}
	return &report, true
}

func commonSuffixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[len(a)-1-n] == b[len(b)-1-n] {
		n++
	}
	return n
}

// findCoverageEntry locates the source file in the coverage map by longest
// suffix match. Map keys are container or host absolute paths, so an exact
// lookup never works; a match must cover at least the base name.
func findCoverageEntry(m map[string]json.RawMessage, sourceRel string) (json.RawMessage, bool) {
	want := filepath.ToSlash(sourceRel)
	minMatch := len(path.Base(want))

	bestLen := 0
	bestPath := ""
	var best json.RawMessage
	for p, raw := range m {
		n := commonSuffixLen(filepath.ToSlash(p), want)
		if n < minMatch {
			continue
		}
		if n > bestLen || (n == bestLen && p < bestPath) {
			bestLen, bestPath, best = n, p, raw
		}
	}

	return best, bestLen > 0
}

type coverageEntry struct {
	Data  json.RawMessage `json:"data"`
	Lines struct {
		Pct json.RawMessage `json:"pct"`
	} `json:"lines"`
	Statements struct {
		Pct json.RawMessage `json:"pct"`
	} `json:"statements"`
	S map[string]float64 `json:"s"`
}

// parseCoverageEntry reads one coverage map entry. Entries come in several
// shapes: summary style with a published pct, raw istanbul style with a
// statement-hit map, and either of those wrapped in a "data" envelope.
func parseCoverageEntry(raw json.RawMessage) (float64, []string, bool) {
	var entry coverageEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return 0, nil, false
	}

	if len(entry.Data) > 0 && string(entry.Data) != "null" {
		return parseCoverageEntry(entry.Data)
	}

	uncovered := uncoveredStatements(entry.S)

	var pct float64
	if len(entry.Statements.Pct) > 0 && json.Unmarshal(entry.Statements.Pct, &pct) == nil {
		return pct, uncovered, true
	}
	if len(entry.Lines.Pct) > 0 && json.Unmarshal(entry.Lines.Pct, &pct) == nil {
		return pct, uncovered, true
	}

	if len(entry.S) == 0 {
		return 0, nil, false
	}

	hits := 0
	for _, v := range entry.S {
		if v > 0 {
			hits++
		}
	}
	return float64(hits) / float64(len(entry.S)) * 100, uncovered, true
}

func uncoveredStatements(s map[string]float64) []string {
	ids := []string{}
	for id, hits := range s {
		if hits == 0 {
			ids = append(ids, id)
		}
	}

	sort.Slice(ids, func(i, j int) bool {
		a, aErr := strconv.Atoi(ids[i])
		b, bErr := strconv.Atoi(ids[j])
		if aErr == nil && bErr == nil {
			return a < b
		}
		return ids[i] < ids[j]
	})

	if len(ids) > maxUncoveredSample {
		ids = ids[:maxUncoveredSample]
	}
	return ids
}

func lowCoverageText(pct, target float64, uncovered []string) string {
	text := fmt.Sprintf("LowCoverage: statement coverage %.1f%% is below the %.0f%% target", pct, target)
	if len(uncovered) > 0 {
		text += ", uncovered statements: " + strings.Join(uncovered, ", ")
	}
	return text
}
