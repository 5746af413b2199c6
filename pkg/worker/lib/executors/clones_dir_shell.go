package executors

import (
	"os"
	"path/filepath"

	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

const defaultCloneBasePath = "/tmp/clones"

// CloneBasePath is the host directory holding all repo clones. Error
// messages may mention paths under it but never anything outside.
func CloneBasePath() string {
	if base := os.Getenv("HOST_CLONE_BASE_PATH"); base != "" {
		return base
	}
	return defaultCloneBasePath
}

// ClonesDirShell is an executor rooted at a fresh unique directory under
// the clone base path. The directory is mountable into the sandbox.
type ClonesDirShell struct {
	shell
}

var _ Executor = &ClonesDirShell{}

func NewClonesDirShell(log logutil.Log) (*ClonesDirShell, error) {
	base := CloneBasePath()
	if err := os.MkdirAll(base, 0755); err != nil {
		return nil, errors.Wrapf(err, "can't create clone base dir %s", base)
	}

	wd := filepath.Join(base, uuid.NewV4().String())
	if err := os.Mkdir(wd, 0755); err != nil {
		return nil, errors.Wrap(err, "can't make clone dir")
	}

	return &ClonesDirShell{
		shell: *newShell(log, wd),
	}, nil
}

func (s ClonesDirShell) WorkDir() string {
	return s.wd
}

func (s ClonesDirShell) Clean() {
	if err := os.RemoveAll(s.wd); err != nil {
		s.log.Warnf("Can't remove clone dir %s: %s", s.wd, err)
	}
}

func (s ClonesDirShell) WithEnv(k, v string) Executor {
	eCopy := s
	eCopy.env = append([]string{}, s.env...)
	eCopy.SetEnv(k, v)
	return &eCopy
}

func (s ClonesDirShell) WithWorkDir(wd string) Executor {
	eCopy := s
	eCopy.wd = wd
	return &eCopy
}
