package generator

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/covergen/covergen-api/pkg/worker/analyze/validator"
	"github.com/covergen/covergen-api/pkg/worker/lib/sandbox"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig map[string]string

func (c testConfig) GetString(key string) string                             { return c[key] }
func (c testConfig) GetDuration(key string, def time.Duration) time.Duration { return def }
func (c testConfig) GetInt(key string, def int) int                          { return def }
func (c testConfig) GetBool(key string, def bool) bool                       { return def }

type fakeRunner struct {
	results []*sandbox.Result
	reqs    []*sandbox.Request
	prompts []string
}

func (r *fakeRunner) Run(ctx context.Context, req *sandbox.Request) (*sandbox.Result, error) {
	r.reqs = append(r.reqs, req)
	if prompt, err := ioutil.ReadFile(filepath.Join(req.HostDir, promptFileName)); err == nil {
		r.prompts = append(r.prompts, string(prompt))
	}

	if len(r.results) == 0 {
		return &sandbox.Result{Success: true, CombinedOutput: `{"response":"export {};"}`}, nil
	}
	res := r.results[0]
	r.results = r.results[1:]
	return res, nil
}

type fakeValidator struct {
	results []*validator.Result
	calls   []string
}

func (v *fakeValidator) Validate(ctx context.Context, testRel, repoPath string, targetCoverage float64) (*validator.Result, error) {
	v.calls = append(v.calls, testRel)
	if len(v.results) == 0 {
		return &validator.Result{Success: true, MeasuredCoverage: 100}, nil
	}
	r := v.results[0]
	v.results = v.results[1:]
	return r, nil
}

type fakeDeps struct {
	block string
}

func (d fakeDeps) DependencySignatures(ctx context.Context, repoPath, sourceRel string) string {
	return d.block
}

func newTestRepo(t *testing.T) (string, func()) {
	repo, err := ioutil.TempDir("", "generator-test")
	require.NoError(t, err)

	files := map[string]string{
		"package.json": `{"dependencies":{"@nestjs/common":"^10.0.0"},"devDependencies":{"jest":"^29.0.0"}}`,
		"src/user.service.ts": `export class UserService {
  greet(name: string): string {
    return 'hello ' + name;
  }
}
`,
	}
	for name, content := range files {
		p := filepath.Join(repo, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, ioutil.WriteFile(p, []byte(content), 0644))
	}

	return repo, func() {
		os.RemoveAll(repo)
	}
}

func newTestGenerator(runner sandbox.Runner, v TestValidator) *Generator {
	return NewGenerator(logutil.NewStderrLog("test"), runner, v,
		fakeDeps{block: "Dependency signatures (mock these exactly):\nUserRepository:\n  findById(id: string): Promise<User>"},
		testConfig{"GEMINI_API_KEY": "test-key", "GEMINI_MODEL": "gemini-test"})
}

const generatedTest = `import { UserService } from './user.service';

describe('UserService', () => {
  it('greets', () => {
    expect(new UserService().greet('x')).toBe('hello x');
  });
});`

func cliOutputWithFence() string {
	respJSON, _ := json.Marshal(map[string]string{
		"response": "```typescript\n" + generatedTest + "\n```",
	})
	return "Loaded cached credentials.\n" + string(respJSON)
}

func TestSkipReason(t *testing.T) {
	skipped := []string{
		"src/app.ts",
		"src/main.ts",
		"index.ts",
		"jest.config.ts",
		"src/dto/create-user.ts",
		"src/migrations/001-init.ts",
		"src/user.dto.ts",
		"src/user.module.ts",
		"src/user.entity.ts",
		"src/user.spec.ts",
		"src/user.test.ts",
		"src/api.d.ts",
	}
	for _, p := range skipped {
		_, skip := skipReason(p)
		assert.True(t, skip, "expected %q to be skipped", p)
	}

	generated := []string{
		"src/user.service.ts",
		"src/auth/auth.guard.ts",
		"src/application.ts",
	}
	for _, p := range generated {
		_, skip := skipReason(p)
		assert.False(t, skip, "expected %q to be generated for", p)
	}
}

func TestImportPath(t *testing.T) {
	assert.Equal(t, "./user.service", ImportPath("src/user.service.test.ts", "src/user.service.ts"))
	assert.Equal(t, "../user.service", ImportPath("src/__tests__/user.service.test.ts", "src/user.service.ts"))
	assert.Equal(t, "./widget", ImportPath("src/widget.test.ts", "src/widget.tsx"))
	assert.Equal(t, "./nested/thing", ImportPath("src/a.test.ts", "src/nested/thing.ts"))
}

func TestVerificationPath(t *testing.T) {
	assert.Equal(t, "src/a.verification.test.ts", verificationPath("src/a.test.ts"))
	assert.Equal(t, "src/a.verification.test.ts", verificationPath("src/a.spec.ts"))
	assert.Equal(t, "src/a.ts.verification.test.ts", verificationPath("src/a.ts"))
}

func TestParseCLIResponseShapes(t *testing.T) {
	text, err := parseCLIResponse(`{"response":"const a = 1;"}`)
	require.NoError(t, err)
	assert.Equal(t, "const a = 1;", text)

	text, err = parseCLIResponse(`{"text":"const b = 2;"}`)
	require.NoError(t, err)
	assert.Equal(t, "const b = 2;", text)

	text, err = parseCLIResponse(`{"candidates":[{"content":{"parts":[{"text":"const c = 3;"}]}}]}`)
	require.NoError(t, err)
	assert.Equal(t, "const c = 3;", text)

	text, err = parseCLIResponse(`[{"text":"const d = 4;"}]`)
	require.NoError(t, err)
	assert.Equal(t, "const d = 4;", text)

	text, err = parseCLIResponse("Loaded cached credentials.\n" + `{"response":"const e = 5;"}`)
	require.NoError(t, err)
	assert.Equal(t, "const e = 5;", text)

	_, err = parseCLIResponse(`{"error":{"message":"quota exceeded"},"response":"ignored"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	_, err = parseCLIResponse("fatal: no json here")
	require.Error(t, err)
}

func TestSanitizeCode(t *testing.T) {
	fenced := "Here you go:\n```typescript\nconst a = 1;\n```\nEnjoy."
	assert.Equal(t, "const a = 1;", sanitizeCode(fenced))

	tagged := "```ts\nconst b = 2;\n```"
	assert.Equal(t, "const b = 2;", sanitizeCode(tagged))

	bare := "```\nconst c = 3;\n```"
	assert.Equal(t, "const c = 3;", sanitizeCode(bare))

	plain := "  const d = 4;\n"
	assert.Equal(t, "const d = 4;", sanitizeCode(plain))
}

func TestGenerateTestSkipsListedSources(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	runner := &fakeRunner{}
	err := newTestGenerator(runner, &fakeValidator{}).GenerateTest(
		context.Background(), "src/user.module.ts", "src/user.module.test.ts", repo, 80)

	require.NoError(t, err)
	assert.Empty(t, runner.reqs, "skip-listed sources never reach the CLI")
}

func TestGenerateTestHappyPath(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	runner := &fakeRunner{results: []*sandbox.Result{
		{Success: true, CombinedOutput: cliOutputWithFence()},
	}}
	v := &fakeValidator{results: []*validator.Result{
		{Success: true, MeasuredCoverage: 93.5},
	}}

	err := newTestGenerator(runner, v).GenerateTest(
		context.Background(), "src/user.service.ts", "src/user.service.test.ts", repo, 80)
	require.NoError(t, err)

	data, err := ioutil.ReadFile(filepath.Join(repo, "src", "user.service.test.ts"))
	require.NoError(t, err)
	assert.Equal(t, generatedTest+"\n", string(data))

	_, statErr := os.Stat(filepath.Join(repo, "src", "user.service.verification.test.ts"))
	assert.True(t, os.IsNotExist(statErr), "verification file is renamed over the target")

	require.Len(t, v.calls, 1)
	assert.Equal(t, "src/user.service.verification.test.ts", v.calls[0])

	require.Len(t, runner.reqs, 1)
	req := runner.reqs[0]
	assert.True(t, req.AllowNetwork)
	assert.Equal(t, "sh", req.Name)
	assert.Contains(t, req.Args[1], "--output-format json")
	assert.Contains(t, req.Args[1], `-m "$GEMINI_MODEL"`)
	assert.Equal(t, "test-key", req.Env["GEMINI_API_KEY"])
	assert.Equal(t, sandbox.WorkDirMount+"/"+systemFileName, req.Env["GEMINI_SYSTEM_MD"])

	require.Len(t, runner.prompts, 1)
	assert.Contains(t, runner.prompts[0], "src/user.service.ts")
	assert.Contains(t, runner.prompts[0], `Import the unit under test from "./user.service"`)
	assert.Contains(t, runner.prompts[0], "@nestjs/common")
	assert.Contains(t, runner.prompts[0], "UserRepository:")

	for _, scratch := range []string{promptFileName, systemFileName} {
		_, statErr = os.Stat(filepath.Join(repo, scratch))
		assert.True(t, os.IsNotExist(statErr), "%s must be cleaned up", scratch)
	}
}

func TestGenerateTestFeedsValidationErrorBack(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	runner := &fakeRunner{results: []*sandbox.Result{
		{Success: true, CombinedOutput: cliOutputWithFence()},
		{Success: true, CombinedOutput: cliOutputWithFence()},
	}}
	v := &fakeValidator{results: []*validator.Result{
		{Success: false, ErrorText: "TestsFailed: expected 'hello x' got 'hi x'"},
		{Success: true, MeasuredCoverage: 88},
	}}

	err := newTestGenerator(runner, v).GenerateTest(
		context.Background(), "src/user.service.ts", "src/user.service.test.ts", repo, 80)
	require.NoError(t, err)

	require.Len(t, runner.prompts, 2)
	assert.NotContains(t, runner.prompts[0], "previous attempt")
	assert.Contains(t, runner.prompts[1], "previous attempt failed validation")
	assert.Contains(t, runner.prompts[1], "expected 'hello x' got 'hi x'")
}

func TestGenerateTestExhaustsAttempts(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	runner := &fakeRunner{}
	v := &fakeValidator{results: []*validator.Result{
		{Success: false, ErrorText: "LowCoverage: statement coverage 10.0% is below the 80% target"},
		{Success: false, ErrorText: "LowCoverage: statement coverage 20.0% is below the 80% target"},
		{Success: false, ErrorText: "LowCoverage: statement coverage 30.0% is below the 80% target"},
	}}

	err := newTestGenerator(runner, v).GenerateTest(
		context.Background(), "src/user.service.ts", "src/user.service.test.ts", repo, 80)
	require.Error(t, err)
	assert.Equal(t, ErrGeneration, errors.Cause(err))
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Contains(t, err.Error(), "30.0%")

	assert.Len(t, runner.reqs, MaxAttempts)
	assert.Len(t, v.calls, MaxAttempts)

	_, statErr := os.Stat(filepath.Join(repo, "src", "user.service.verification.test.ts"))
	assert.True(t, os.IsNotExist(statErr), "failed verification file is removed")
	_, statErr = os.Stat(filepath.Join(repo, "src", "user.service.test.ts"))
	assert.True(t, os.IsNotExist(statErr), "target test is never written on failure")
}

func TestGenerateTestSurfacesProviderErrors(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	providerErr := &sandbox.Result{Success: true, CombinedOutput: `{"error":{"message":"rate limited"}}`}
	runner := &fakeRunner{results: []*sandbox.Result{providerErr, providerErr, providerErr}}
	v := &fakeValidator{}

	err := newTestGenerator(runner, v).GenerateTest(
		context.Background(), "src/user.service.ts", "src/user.service.test.ts", repo, 80)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
	assert.Empty(t, v.calls, "nothing to validate when the provider errors")
}
