package sandbox

import (
	"context"
	"time"
)

// WorkDirMount is the fixed in-sandbox path the host dir is mounted at.
const WorkDirMount = "/app"

// ToolchainMount is where the shared read-only toolchain volume appears.
const ToolchainMount = "/toolchain"

// Request describes one command executed inside an ephemeral sandbox.
type Request struct {
	Name string
	Args []string

	// HostDir is mounted read-write at WorkDirMount and becomes the
	// working directory.
	HostDir string

	Env     map[string]string
	Timeout time.Duration

	// Network access is denied unless explicitly allowed: only dependency
	// installation and generator invocation need it.
	AllowNetwork bool

	// RunAsRoot is used only to populate the toolchain volume.
	RunAsRoot bool
}

type Result struct {
	Success        bool
	CombinedOutput string
	ExitCode       int
	TimedOut       bool
}

// Runner executes commands in an isolated, network-restricted,
// filesystem-scoped environment. A non-nil error means the request itself
// was invalid; command failures including spawn errors are reported
// through Result with Success=false.
type Runner interface {
	Run(ctx context.Context, req *Request) (*Result, error)
}
