package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/covergen/covergen-api/internal/shared/config"
	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/covergen/covergen-api/pkg/worker/analyze/validator"
	"github.com/covergen/covergen-api/pkg/worker/lib/sandbox"
	"github.com/pkg/errors"
)

// MaxAttempts bounds the generate-validate repair loop. Feeding the
// validator's error back into the next prompt converges within two or three
// iterations for most files; more attempts mostly burn quota.
const MaxAttempts = 3

const generateTimeout = 120 * time.Second

// Scratch files written into the clone for the CLI invocation. Removed
// before GenerateTest returns and never staged into commits.
const (
	promptFileName = ".gemini-prompt.txt"
	systemFileName = ".gemini/system.md"
)

// ErrGeneration marks exhaustion of the attempt budget.
var ErrGeneration = errors.New("test generation failed")

// TestValidator checks a candidate test file. See validator.Validator.
type TestValidator interface {
	Validate(ctx context.Context, testRel, repoPath string, targetCoverage float64) (*validator.Result, error)
}

// DependencyAnalyzer renders mockable dependency signatures for a source
// file. See tsdeps.Analyzer.
type DependencyAnalyzer interface {
	DependencySignatures(ctx context.Context, repoPath, sourceRel string) string
}

// Generator produces a unit test for one source file by prompting the
// gemini CLI inside the sandbox and validating each candidate until one
// passes or the attempt budget runs out.
type Generator struct {
	log       logutil.Log
	runner    sandbox.Runner
	validator TestValidator
	deps      DependencyAnalyzer
	apiKey    string
	model     string
}

func NewGenerator(log logutil.Log, runner sandbox.Runner, v TestValidator,
	deps DependencyAnalyzer, cfg config.Config) *Generator {

	return &Generator{
		log:       log,
		runner:    runner,
		validator: v,
		deps:      deps,
		apiKey:    cfg.GetString("GEMINI_API_KEY"),
		model:     cfg.GetString("GEMINI_MODEL"),
	}
}

var skipFileNames = map[string]bool{
	"app.ts":         true,
	"main.ts":        true,
	"index.ts":       true,
	"jest.config.ts": true,
}

var skipDirNames = map[string]bool{
	"interfaces":   true,
	"dto":          true,
	"entities":     true,
	"migrations":   true,
	"node_modules": true,
	"dist":         true,
	"coverage":     true,
	"types":        true,
}

var skipSuffixes = []string{
	".interface.ts",
	".d.ts",
	".module.ts",
	".entity.ts",
	".dto.ts",
	".spec.ts",
	".test.ts",
}

// skipReason reports why sourceRel isn't worth generating a test for:
// entrypoints, wiring, declarations and existing tests.
func skipReason(sourceRel string) (string, bool) {
	rel := filepath.ToSlash(sourceRel)
	parts := strings.Split(rel, "/")
	base := parts[len(parts)-1]

	if skipFileNames[base] {
		return "entrypoint or config file", true
	}
	for _, dir := range parts[:len(parts)-1] {
		if skipDirNames[dir] {
			return fmt.Sprintf("file lives under a %s directory", dir), true
		}
	}
	for _, suffix := range skipSuffixes {
		if strings.HasSuffix(base, suffix) {
			return "declaration-only file or already a test", true
		}
	}

	return "", false
}

// GenerateTest writes a validated unit test for sourceRel to testRel inside
// the clone at repoPath. Skip-listed sources return nil without doing
// anything. Candidates are staged under a verification name and only renamed
// over testRel once they validate.
func (g Generator) GenerateTest(ctx context.Context, sourceRel, testRel, repoPath string, targetCoverage float64) error {
	if reason, skip := skipReason(sourceRel); skip {
		g.log.Infof("Skipping test generation for %s: %s", sourceRel, reason)
		return nil
	}

	genCtx, err := g.gatherContext(ctx, repoPath, sourceRel)
	if err != nil {
		return err
	}
	importPath := ImportPath(testRel, sourceRel)

	verificationRel := verificationPath(testRel)
	verificationAbs := filepath.Join(repoPath, filepath.FromSlash(verificationRel))

	systemPath := filepath.Join(repoPath, filepath.FromSlash(systemFileName))
	if err = os.MkdirAll(filepath.Dir(systemPath), 0755); err != nil {
		return errors.Wrap(err, "can't create system instruction directory")
	}
	if err = ioutil.WriteFile(systemPath, []byte(systemInstruction(targetCoverage)), 0644); err != nil {
		return errors.Wrap(err, "can't write system instruction")
	}
	defer os.Remove(filepath.Dir(systemPath))
	defer os.Remove(systemPath)
	defer os.Remove(filepath.Join(repoPath, promptFileName))

	lastErr := ""
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		prompt := buildPrompt(genCtx, sourceRel, testRel, importPath, lastErr)

		text, attemptErr := g.runAttempt(ctx, repoPath, prompt)
		if attemptErr != nil {
			lastErr = attemptErr.Error()
			g.log.Warnf("Generation attempt %d/%d for %s failed: %s", attempt, MaxAttempts, sourceRel, lastErr)
			continue
		}

		code := sanitizeCode(text)
		if code == "" {
			lastErr = "generator returned empty output"
			g.log.Warnf("Generation attempt %d/%d for %s returned nothing", attempt, MaxAttempts, sourceRel)
			continue
		}

		if err = os.MkdirAll(filepath.Dir(verificationAbs), 0755); err != nil {
			return errors.Wrap(err, "can't create test directory")
		}
		if err = ioutil.WriteFile(verificationAbs, []byte(code+"\n"), 0644); err != nil {
			return errors.Wrap(err, "can't write verification test")
		}

		res, vErr := g.validator.Validate(ctx, verificationRel, repoPath, targetCoverage)
		if vErr != nil {
			lastErr = vErr.Error()
			g.log.Warnf("Validation of attempt %d/%d for %s broke: %s", attempt, MaxAttempts, sourceRel, lastErr)
			continue
		}
		if !res.Success {
			lastErr = res.ErrorText
			g.log.Infof("Attempt %d/%d for %s failed validation: %s", attempt, MaxAttempts, sourceRel, lastErr)
			continue
		}

		targetAbs := filepath.Join(repoPath, filepath.FromSlash(testRel))
		if err = os.Rename(verificationAbs, targetAbs); err != nil {
			return errors.Wrap(err, "can't move verified test into place")
		}
		g.log.Infof("Generated %s with %.1f%% statement coverage on attempt %d", testRel, res.MeasuredCoverage, attempt)
		return nil
	}

	os.Remove(verificationAbs)
	return errors.Wrapf(ErrGeneration, "no valid test for %s after %d attempts, last error: %s",
		sourceRel, MaxAttempts, lastErr)
}

type generationContext struct {
	sourceText string
	packages   []string
	depBlock   string
}

// gatherContext collects prompt inputs concurrently: the source text, the
// repo's declared packages and the dependency signature block.
func (g Generator) gatherContext(ctx context.Context, repoPath, sourceRel string) (*generationContext, error) {
	var (
		wg         sync.WaitGroup
		sourceText []byte
		sourceErr  error
		packages   []string
		depBlock   string
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		sourceText, sourceErr = ioutil.ReadFile(filepath.Join(repoPath, filepath.FromSlash(sourceRel)))
	}()
	go func() {
		defer wg.Done()
		packages = declaredPackages(repoPath)
	}()
	go func() {
		defer wg.Done()
		depBlock = g.deps.DependencySignatures(ctx, repoPath, sourceRel)
	}()
	wg.Wait()

	if sourceErr != nil {
		return nil, errors.Wrapf(sourceErr, "can't read source %s", sourceRel)
	}

	return &generationContext{
		sourceText: string(sourceText),
		packages:   packages,
		depBlock:   depBlock,
	}, nil
}

func declaredPackages(repoPath string) []string {
	manifest, err := ioutil.ReadFile(filepath.Join(repoPath, "package.json"))
	if err != nil {
		return nil
	}

	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(manifest, &pkg); err != nil {
		return nil
	}

	names := make([]string, 0, len(pkg.Dependencies)+len(pkg.DevDependencies))
	for name := range pkg.Dependencies {
		names = append(names, name)
	}
	for name := range pkg.DevDependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ImportPath derives the module specifier the test uses to import the unit
// under test: relative from the test's directory, extension stripped,
// ./-prefixed inside the same directory.
func ImportPath(testRel, sourceRel string) string {
	rel, err := filepath.Rel(filepath.Dir(filepath.FromSlash(testRel)), filepath.FromSlash(sourceRel))
	if err != nil {
		rel = filepath.Base(filepath.FromSlash(sourceRel))
	}

	p := filepath.ToSlash(rel)
	p = strings.TrimSuffix(p, ".tsx")
	p = strings.TrimSuffix(p, ".ts")
	if !strings.HasPrefix(p, ".") {
		p = "./" + p
	}
	return p
}

// verificationPath names the staging file a candidate is validated under,
// substituting the final test suffix. The real test path is only written by
// the rename after validation.
func verificationPath(testRel string) string {
	for _, suffix := range []string{".spec.ts", ".test.ts"} {
		if strings.HasSuffix(testRel, suffix) {
			return strings.TrimSuffix(testRel, suffix) + ".verification.test.ts"
		}
	}
	return testRel + ".verification.test.ts"
}

func systemInstruction(targetCoverage float64) string {
	return fmt.Sprintf(`You are a senior TypeScript engineer writing jest unit tests.

Rules:
- Produce exactly one TypeScript test file and nothing else.
- Use jest with ts-jest; import no test framework other than jest.
- Mock every external dependency of the unit under test with jest.mock or
  hand-rolled fakes matching the given signatures.
- Reach at least %.0f%% statement coverage of the source file: exercise every
  visible branch, error path and early return.
- Never touch the network, the filesystem or real timers.
- Output only code. No prose, no explanations, no markdown headings.
`, targetCoverage)
}

func buildPrompt(c *generationContext, sourceRel, testRel, importPath, priorError string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a jest unit test for the TypeScript source file %s.\n", sourceRel)
	fmt.Fprintf(&b, "The test will be saved as %s.\n", testRel)
	fmt.Fprintf(&b, "Import the unit under test from %q.\n\n", importPath)
	fmt.Fprintf(&b, "Source:\n```typescript\n%s\n```\n", c.sourceText)

	if len(c.packages) > 0 {
		fmt.Fprintf(&b, "\nPackages declared by this repository: %s\n", strings.Join(c.packages, ", "))
	}
	if c.depBlock != "" {
		fmt.Fprintf(&b, "\n%s\n", c.depBlock)
	}
	if priorError != "" {
		fmt.Fprintf(&b, "\nYour previous attempt failed validation with:\n%s\n\nFix the test accordingly.\n", priorError)
	}

	return b.String()
}

// runAttempt invokes the CLI once and returns the generated text. The prompt
// travels through a scratch file: it embeds arbitrary source code that must
// not be re-quoted through the shell.
func (g Generator) runAttempt(ctx context.Context, repoPath, prompt string) (string, error) {
	if err := ioutil.WriteFile(filepath.Join(repoPath, promptFileName), []byte(prompt), 0644); err != nil {
		return "", errors.Wrap(err, "can't write prompt file")
	}

	cli := fmt.Sprintf("gemini --output-format json%s -p \"$(cat %s)\"", modelFlag(g.model), promptFileName)
	env := map[string]string{
		"GEMINI_API_KEY":   g.apiKey,
		"GEMINI_SYSTEM_MD": sandbox.WorkDirMount + "/" + systemFileName,
	}
	if g.model != "" {
		env["GEMINI_MODEL"] = g.model
	}

	res, err := g.runner.Run(ctx, &sandbox.Request{
		Name:         "sh",
		Args:         []string{"-c", cli},
		HostDir:      repoPath,
		Env:          env,
		Timeout:      generateTimeout,
		AllowNetwork: true,
	})
	if err != nil {
		return "", err
	}
	if res.TimedOut {
		return "", errors.New("generator timed out")
	}

	text, parseErr := parseCLIResponse(res.CombinedOutput)
	if parseErr != nil {
		if !res.Success {
			return "", errors.Errorf("generator exited with code %d: %s",
				res.ExitCode, sandbox.OutputTail(res.CombinedOutput, 512))
		}
		return "", parseErr
	}
	return text, nil
}

func modelFlag(model string) string {
	if model == "" {
		return ""
	}
	return ` -m "$GEMINI_MODEL"`
}

type cliCandidate struct {
	Text    string `json:"text"`
	Content struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"content"`
}

func (c cliCandidate) text() string {
	if c.Text != "" {
		return c.Text
	}
	parts := []string{}
	for _, p := range c.Content.Parts {
		if p.Text != "" {
			parts = append(parts, p.Text)
		}
	}
	return strings.Join(parts, "")
}

type cliResponse struct {
	Error      json.RawMessage `json:"error"`
	Response   string          `json:"response"`
	Text       string          `json:"text"`
	Candidates []cliCandidate  `json:"candidates"`
}

// parseCLIResponse digs the generated text out of whichever JSON shape the
// CLI produced this release: a bare candidate array, {response}, {text} or
// the full {candidates[0].content.parts[0].text} tree. A non-empty error
// field wins over any payload.
func parseCLIResponse(out string) (string, error) {
	start := strings.IndexAny(out, "{[")
	if start < 0 {
		return "", errors.Errorf("generator produced no JSON: %s", sandbox.OutputTail(out, 512))
	}
	payload := out[start:]

	if strings.HasPrefix(payload, "[") {
		var candidates []cliCandidate
		if err := json.NewDecoder(strings.NewReader(payload)).Decode(&candidates); err != nil {
			return "", errors.Wrap(err, "can't parse generator response")
		}
		for _, c := range candidates {
			if t := c.text(); t != "" {
				return t, nil
			}
		}
		return "", errors.New("generator response has no text")
	}

	var resp cliResponse
	if err := json.NewDecoder(strings.NewReader(payload)).Decode(&resp); err != nil {
		return "", errors.Wrap(err, "can't parse generator response")
	}

	if msg := cliErrorMessage(resp.Error); msg != "" {
		return "", errors.Errorf("generator error: %s", msg)
	}
	if resp.Response != "" {
		return resp.Response, nil
	}
	if resp.Text != "" {
		return resp.Text, nil
	}
	for _, c := range resp.Candidates {
		if t := c.text(); t != "" {
			return t, nil
		}
	}

	return "", errors.New("generator response has no text")
}

func cliErrorMessage(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" || string(raw) == `""` {
		return ""
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}

	var obj struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &obj) == nil && obj.Message != "" {
		return obj.Message
	}
	return string(raw)
}

var fenceRe = regexp.MustCompile("(?s)```(?:typescript|ts|javascript|js)?[ \t]*\r?\n(.*?)```")

// sanitizeCode extracts the body of the first fenced code block when the
// model wrapped its answer in markdown despite instructions.
func sanitizeCode(text string) string {
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}
