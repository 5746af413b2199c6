package gitpush

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"

	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/covergen/covergen-api/pkg/worker/lib/executors"
	"github.com/covergen/covergen-api/pkg/worker/lib/fetchers"
	"github.com/pkg/errors"
)

type Pusher struct {
	log   logutil.Log
	token string
}

func NewPusher(log logutil.Log, token string) *Pusher {
	return &Pusher{
		log:   log,
		token: token,
	}
}

func outText(out *executors.RunResult) string {
	if out == nil {
		return ""
	}
	return out.StdOut
}

// Push creates and checks out branch, writes files (creating parents),
// stages only stagePaths or, when empty, the file map keys, then commits
// and pushes with upstream tracking. Staging everything is deliberately
// impossible: coverage artifacts and injected configs must not leak into
// the commit.
func (p Pusher) Push(ctx context.Context, exec executors.Executor, branch string,
	files map[string]string, commitMessage string, stagePaths []string) error {

	if out, err := exec.Run(ctx, "git", "checkout", "-q", "-b", branch); err != nil {
		return errors.Wrapf(err, "can't create branch %s: %s", branch, outText(out))
	}

	for relPath, content := range files {
		fullPath := filepath.Join(exec.WorkDir(), relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return errors.Wrapf(err, "can't create parent dirs of %s", relPath)
		}
		if err := ioutil.WriteFile(fullPath, []byte(content), 0644); err != nil {
			return errors.Wrapf(err, "can't write %s", relPath)
		}
	}

	if len(stagePaths) == 0 {
		for relPath := range files {
			stagePaths = append(stagePaths, relPath)
		}
		sort.Strings(stagePaths)
	}

	addArgs := append([]string{"add", "--"}, stagePaths...)
	if out, err := exec.Run(ctx, "git", addArgs...); err != nil {
		return errors.Wrapf(err, "can't stage %v: %s", stagePaths, outText(out))
	}

	if out, err := exec.Run(ctx, "git", "commit", "-q", "-m", commitMessage); err != nil {
		return errors.Wrapf(err, "can't commit: %s", outText(out))
	}

	pushArgs := append(fetchers.AuthArgs(p.token), "push", "-q", "-u", "origin", branch)
	// Never echo args in errors: they carry the auth header.
	if out, err := exec.Run(ctx, "git", pushArgs...); err != nil {
		return errors.Wrapf(err, "can't push branch %s: %s", branch, outText(out))
	}

	p.log.Infof("Pushed branch %s with %d file(s)", branch, len(files))
	return nil
}
