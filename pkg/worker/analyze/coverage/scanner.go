package coverage

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/covergen/covergen-api/pkg/api/models"
	"github.com/covergen/covergen-api/pkg/worker/lib/sandbox"
	"github.com/pkg/errors"
)

const (
	installTimeout = 120 * time.Second
	testRunTimeout = 90 * time.Second

	// scanConfigName is the temporary jest config injected into repos that
	// carry no jest config of their own. It must never leak into commits.
	scanConfigName = "jest.config.ci-scan.cjs"

	summaryRelPath = "coverage/coverage-summary.json"
)

// ErrScan marks unrecoverable scan failures: dependency install errors,
// test runner timeouts and crashes. Test assertion failures are not
// scan failures, the coverage summary is still consumed.
var ErrScan = errors.New("coverage scan failed")

// Scanner measures per-file line coverage of a cloned repo by running its
// test suite in the sandbox with a json-summary coverage reporter.
type Scanner struct {
	log    logutil.Log
	runner sandbox.Runner
}

func NewScanner(log logutil.Log, runner sandbox.Runner) *Scanner {
	return &Scanner{
		log:    log,
		runner: runner,
	}
}

// Scan installs dependencies if needed, runs the suite and returns coverage
// for every scannable source file, sorted by path. Repos with no usable
// summary degrade to a zero-coverage listing of their source files.
func (s Scanner) Scan(ctx context.Context, repoPath string) ([]models.FileCoverage, error) {
	if err := s.installDeps(ctx, repoPath); err != nil {
		return nil, err
	}

	if err := s.runTests(ctx, repoPath); err != nil {
		return nil, err
	}

	entries, err := s.parseSummary(repoPath)
	if err != nil {
		s.log.Warnf("Scan of %s produced no usable coverage summary, falling back to zero coverage: %s",
			repoPath, err)
		return s.fallbackWalk(repoPath)
	}
	if len(entries) == 0 {
		s.log.Infof("Coverage summary of %s has no scannable entries, falling back to zero coverage", repoPath)
		return s.fallbackWalk(repoPath)
	}

	return entries, nil
}

func (s Scanner) installDeps(ctx context.Context, repoPath string) error {
	if _, err := os.Stat(filepath.Join(repoPath, "node_modules")); err == nil {
		return nil
	}

	name, args := installCommand(repoPath)
	s.log.Infof("Installing dependencies with %s %s", name, strings.Join(args, " "))

	res, err := s.runner.Run(ctx, &sandbox.Request{
		Name:         name,
		Args:         args,
		HostDir:      repoPath,
		Timeout:      installTimeout,
		AllowNetwork: true,
	})
	if err != nil {
		return errors.Wrap(err, "can't run dependency install")
	}
	if !res.Success {
		return errors.Wrapf(ErrScan, "dependency install failed: %s",
			sandbox.OutputTail(res.CombinedOutput, 512))
	}

	return nil
}

// installCommand picks the installer matching the committed lockfile so the
// installed tree reproduces what the repo's own CI would see. Install scripts
// are always disabled: the code is untrusted.
func installCommand(repoPath string) (string, []string) {
	exists := func(name string) bool {
		_, err := os.Stat(filepath.Join(repoPath, name))
		return err == nil
	}

	switch {
	case exists("package-lock.json"):
		return "npm", []string{"ci", "--ignore-scripts"}
	case exists("yarn.lock"):
		return "yarn", []string{"install", "--frozen-lockfile", "--ignore-scripts"}
	case exists("pnpm-lock.yaml"):
		return "pnpm", []string{"install", "--frozen-lockfile", "--ignore-scripts"}
	default:
		return "npm", []string{"install", "--ignore-scripts"}
	}
}

func (s Scanner) runTests(ctx context.Context, repoPath string) error {
	args := []string{
		"--coverage",
		"--coverageReporters=json-summary",
		"--passWithNoTests",
		"--forceExit",
		"--ci",
		"--silent",
	}

	if !hasJestConfig(repoPath) {
		if err := s.writeScanConfig(repoPath); err != nil {
			return err
		}
		defer os.Remove(filepath.Join(repoPath, scanConfigName))
		args = append([]string{"--config", scanConfigName}, args...)
	}

	res, err := s.runner.Run(ctx, &sandbox.Request{
		Name:    sandbox.LocalOrToolchainBin(repoPath, "jest"),
		Args:    args,
		HostDir: repoPath,
		Timeout: testRunTimeout,
	})
	if err != nil {
		return errors.Wrap(err, "can't run test suite")
	}
	if res.TimedOut {
		return errors.Wrapf(ErrScan, "test run timed out: %s",
			sandbox.OutputTail(res.CombinedOutput, 512))
	}

	// Exit code 1 means failing assertions: the summary was still written
	// and those files simply count as covered however far the tests got.
	if !res.Success && res.ExitCode != 1 {
		return errors.Wrapf(ErrScan, "test run failed: %s",
			sandbox.OutputTail(res.CombinedOutput, 512))
	}

	return nil
}

var jestConfigNames = []string{
	"jest.config.js",
	"jest.config.ts",
	"jest.config.cjs",
	"jest.config.mjs",
	"jest.config.json",
}

// hasJestConfig detects the repo's own jest setup: a config file or a "jest"
// key in the manifest. When present it wins, the scan only adds reporters.
func hasJestConfig(repoPath string) bool {
	for _, name := range jestConfigNames {
		if _, err := os.Stat(filepath.Join(repoPath, name)); err == nil {
			return true
		}
	}

	manifest, err := ioutil.ReadFile(filepath.Join(repoPath, "package.json"))
	if err != nil {
		return false
	}

	var pkg struct {
		Jest json.RawMessage `json:"jest"`
	}
	if err := json.Unmarshal(manifest, &pkg); err != nil {
		return false
	}

	return len(pkg.Jest) > 0 && string(pkg.Jest) != "null"
}

func (s Scanner) writeScanConfig(repoPath string) error {
	err := ioutil.WriteFile(filepath.Join(repoPath, scanConfigName), []byte(buildScanConfig()), 0644)
	return errors.Wrap(err, "can't write scan config")
}

func buildScanConfig() string {
	globs := append([]string{"**/*.{ts,tsx}"}, coverageIgnoreGlobs()...)
	quoted := make([]string, 0, len(globs))
	for _, g := range globs {
		quoted = append(quoted, "'"+g+"'")
	}

	return fmt.Sprintf(`module.exports = {
  preset: 'ts-jest',
  testEnvironment: 'node',
  collectCoverageFrom: [%s],
  passWithNoTests: true,
};
`, strings.Join(quoted, ", "))
}

// summaryMetric tolerates the different shapes istanbul emits: pct is
// normally a number but can be the string "Unknown".
type summaryMetric struct {
	Total   json.RawMessage `json:"total"`
	Covered json.RawMessage `json:"covered"`
	Pct     json.RawMessage `json:"pct"`
}

type summaryEntry struct {
	Lines summaryMetric `json:"lines"`
}

func (s Scanner) parseSummary(repoPath string) ([]models.FileCoverage, error) {
	data, err := ioutil.ReadFile(filepath.Join(repoPath, filepath.FromSlash(summaryRelPath)))
	if err != nil {
		return nil, errors.Wrap(err, "can't read coverage summary")
	}

	var raw map[string]summaryEntry
	if err = json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "can't parse coverage summary")
	}

	repoReal, err := filepath.EvalSymlinks(repoPath)
	if err != nil {
		repoReal = repoPath
	}

	entries := []models.FileCoverage{}
	for reportedPath, entry := range raw {
		if reportedPath == "total" {
			continue
		}

		rel, ok := canonicalRelPath(repoReal, reportedPath)
		if !ok {
			s.log.Warnf("Dropping coverage entry %q: path escapes the repo", reportedPath)
			continue
		}
		if IsExcluded(rel) {
			continue
		}

		pct, ok := linesPct(entry.Lines)
		if !ok {
			s.log.Warnf("Dropping coverage entry %q: no usable lines metric", reportedPath)
			continue
		}

		entries = append(entries, models.FileCoverage{
			FilePath:      rel,
			LinesCoverage: pct,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].FilePath < entries[j].FilePath
	})
	return entries, nil
}

// canonicalRelPath converts a summary entry path to a clean repo-relative
// one. The runner executes inside the sandbox, so absolute paths are usually
// container paths under the workdir mount; host-absolute paths are
// relativized against the resolved repo root. Paths that escape the repo are
// rejected.
func canonicalRelPath(repoReal, reportedPath string) (string, bool) {
	p := filepath.ToSlash(reportedPath)

	switch {
	case strings.HasPrefix(p, sandbox.WorkDirMount+"/"):
		p = strings.TrimPrefix(p, sandbox.WorkDirMount+"/")
	case filepath.IsAbs(reportedPath):
		resolved, err := filepath.EvalSymlinks(reportedPath)
		if err != nil {
			resolved = reportedPath
		}
		rel, err := filepath.Rel(repoReal, resolved)
		if err != nil {
			return "", false
		}
		p = filepath.ToSlash(rel)
	}

	p = path.Clean(p)
	if p == "." || p == ".." || strings.HasPrefix(p, "../") || path.IsAbs(p) {
		return "", false
	}

	return p, true
}

func linesPct(m summaryMetric) (float64, bool) {
	var pct float64
	if len(m.Pct) > 0 && json.Unmarshal(m.Pct, &pct) == nil {
		return pct, true
	}

	var total, covered float64
	if len(m.Total) > 0 && json.Unmarshal(m.Total, &total) == nil &&
		len(m.Covered) > 0 && json.Unmarshal(m.Covered, &covered) == nil {

		if total == 0 {
			return 100, true
		}
		return covered / total * 100, true
	}

	return 0, false
}

// fallbackWalk lists every scannable source file at zero coverage. It keeps
// repos without a working test setup visible in reports instead of
// pretending they have nothing to cover.
func (s Scanner) fallbackWalk(repoPath string) ([]models.FileCoverage, error) {
	entries := []models.FileCoverage{}

	err := filepath.Walk(repoPath, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(repoPath, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if rel != "." && excludedDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		if ext := path.Ext(rel); ext != ".ts" && ext != ".tsx" {
			return nil
		}
		if IsExcluded(rel) {
			return nil
		}

		entries = append(entries, models.FileCoverage{
			FilePath:      rel,
			LinesCoverage: 0,
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't walk repo files")
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].FilePath < entries[j].FilePath
	})
	return entries, nil
}
