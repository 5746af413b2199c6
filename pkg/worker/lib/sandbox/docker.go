package sandbox

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"time"

	"github.com/covergen/covergen-api/internal/shared/config"
	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/pkg/errors"
)

const DefaultImage = "node:20-bookworm"
const DefaultToolchainVolume = "covergen-toolchain"

const defaultTimeout = 2 * time.Minute

// maxOutputBytes caps captured output: repo test suites can be arbitrarily
// chatty and the output ends up in db rows and generator prompts.
const maxOutputBytes = 10 * 1024 * 1024

// TimeoutMarker is appended to the output of a command killed on timeout.
const TimeoutMarker = "TIMEOUT"

type DockerRunner struct {
	log             logutil.Log
	dockerBin       string
	image           string
	toolchainVolume string
}

var _ Runner = &DockerRunner{}

func NewDockerRunner(log logutil.Log, cfg config.Config) *DockerRunner {
	image := cfg.GetString("SANDBOX_IMAGE")
	if image == "" {
		image = DefaultImage
	}

	toolchainVolume := cfg.GetString("TOOLCHAIN_VOLUME")
	if toolchainVolume == "" {
		toolchainVolume = DefaultToolchainVolume
	}

	return &DockerRunner{
		log:             log,
		dockerBin:       "docker",
		image:           image,
		toolchainVolume: toolchainVolume,
	}
}

func (r DockerRunner) buildArgs(req *Request) []string {
	args := []string{
		"run", "--rm",
		"-v", fmt.Sprintf("%s:%s", req.HostDir, WorkDirMount),
		"-v", fmt.Sprintf("%s:%s:ro", r.toolchainVolume, ToolchainMount),
		"-w", WorkDirMount,
		"-e", fmt.Sprintf("NODE_PATH=%s/node_modules", ToolchainMount),
	}

	envNames := make([]string, 0, len(req.Env))
	for name := range req.Env {
		envNames = append(envNames, name)
	}
	sort.Strings(envNames)
	for _, name := range envNames {
		args = append(args, "-e", fmt.Sprintf("%s=%s", name, req.Env[name]))
	}

	if !req.AllowNetwork {
		args = append(args, "--network", "none")
	}

	if req.RunAsRoot {
		args = append(args, "-u", "root")
	} else {
		args = append(args, "-u", "node")
	}

	args = append(args, r.image, req.Name)
	args = append(args, req.Args...)
	return args
}

func (r DockerRunner) Run(ctx context.Context, req *Request) (*Result, error) {
	if req.Name == "" {
		return nil, errors.New("no command to run in sandbox")
	}
	if req.HostDir == "" {
		return nil, errors.New("no host dir to mount into sandbox")
	}

	timeout := req.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	startedAt := time.Now()
	cmd := exec.CommandContext(ctx, r.dockerBin, r.buildArgs(req)...)
	out, err := cmd.CombinedOutput()

	overflowed := len(out) > maxOutputBytes
	if overflowed {
		out = out[:maxOutputBytes]
	}

	res := &Result{
		CombinedOutput: string(out),
	}

	if ctx.Err() == context.DeadlineExceeded {
		res.TimedOut = true
		res.CombinedOutput += fmt.Sprintf("\n%s: %q exceeded %s", TimeoutMarker, req.Name, timeout)
		r.log.Warnf("Sandboxed %q timed out after %s", req.Name, timeout)
		return res, nil
	}

	// A run that floods the buffer is broken even when it exits zero:
	// whatever report it printed got truncated.
	if overflowed {
		res.CombinedOutput += fmt.Sprintf("\nOUTPUT LIMIT: %q exceeded %d bytes", req.Name, maxOutputBytes)
		r.log.Warnf("Sandboxed %q exceeded the %d byte output cap", req.Name, maxOutputBytes)
		return res, nil
	}

	if err == nil {
		res.Success = true
		r.log.Debugf("sandbox", "Sandboxed %q finished for %s", req.Name, time.Since(startedAt))
		return res, nil
	}

	if ee, ok := err.(*exec.ExitError); ok {
		res.ExitCode = ee.ExitCode()
		r.log.Infof("Sandboxed %q exited with code %d for %s", req.Name, res.ExitCode, time.Since(startedAt))
		return res, nil
	}

	// spawn failures are never silent
	res.CombinedOutput = err.Error()
	r.log.Warnf("Sandboxed %q failed to spawn: %s", req.Name, err)
	return res, nil
}
