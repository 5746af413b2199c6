package sandbox

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/pkg/errors"
)

const toolchainInstallTimeout = 5 * time.Minute

// Marker binaries the cold-start probe looks for on the toolchain volume.
var toolchainMarkers = []string{"jest", "tsc", "gemini"}

var toolchainPackages = []string{
	"jest",
	"ts-jest",
	"typescript",
	"@types/jest",
	"@types/node",
	"@google/gemini-cli",
}

func probeCommand() string {
	checks := make([]string, 0, len(toolchainMarkers))
	for _, m := range toolchainMarkers {
		checks = append(checks, fmt.Sprintf("test -x %s/node_modules/.bin/%s", ToolchainMount, m))
	}
	return strings.Join(checks, " && ")
}

func toolchainReady(ctx context.Context, runner Runner, hostDir string) bool {
	res, err := runner.Run(ctx, &Request{
		Name:    "sh",
		Args:    []string{"-c", probeCommand()},
		HostDir: hostDir,
		Timeout: time.Minute,
	})
	return err == nil && res.Success
}

func populateToolchain(ctx context.Context, runner Runner, hostDir string) error {
	req := &Request{
		Name:         "npm",
		Args:         append([]string{"install", "--prefix", ToolchainMount, "--no-audit", "--no-fund"}, toolchainPackages...),
		HostDir:      hostDir,
		Timeout:      toolchainInstallTimeout,
		AllowNetwork: true,
		RunAsRoot:    true,
	}

	res, err := runner.Run(ctx, req)
	if err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("toolchain install failed: %s", OutputTail(res.CombinedOutput, 512))
	}

	return nil
}

// OutputTail keeps the last n bytes of command output: the interesting
// part of a failed run is at the end.
func OutputTail(out string, n int) string {
	out = strings.TrimSpace(out)
	if len(out) <= n {
		return out
	}
	return "..." + out[len(out)-n:]
}

// Bootstrap probes the toolchain volume for the marker binaries and
// populates it when they are missing. The caller logs a returned error and
// keeps starting up: per-job runs will then fail explicitly.
func Bootstrap(ctx context.Context, log logutil.Log, runner Runner) error {
	hostDir, err := ioutil.TempDir("", "covergen-bootstrap")
	if err != nil {
		return errors.Wrap(err, "can't make bootstrap dir")
	}
	defer os.RemoveAll(hostDir)

	if toolchainReady(ctx, runner, hostDir) {
		log.Infof("Toolchain volume is ready")
		return nil
	}

	log.Infof("Toolchain volume misses marker binaries, populating...")

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 15 * time.Minute
	bmr := backoff.WithMaxRetries(b, 3)
	installF := func() error {
		return populateToolchain(ctx, runner, hostDir)
	}
	if err := backoff.Retry(installF, bmr); err != nil {
		return errors.Wrap(err, "toolchain population failed")
	}

	if !toolchainReady(ctx, runner, hostDir) {
		return errors.New("toolchain markers are still missing after install")
	}

	log.Infof("Toolchain volume populated")
	return nil
}
