package executors

import "context"

type RunResult struct {
	StdOut string // merged with stderr
}

// Executor runs commands on the worker host inside a managed work dir.
// Anything executing untrusted repo code must go through sandbox.Runner
// instead.
type Executor interface {
	Run(ctx context.Context, name string, args ...string) (*RunResult, error)

	WithEnv(k, v string) Executor
	SetEnv(k, v string)

	WorkDir() string
	WithWorkDir(wd string) Executor

	Clean()
}
