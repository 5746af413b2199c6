package fetchers

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/covergen/covergen-api/pkg/worker/lib/executors"
	"github.com/pkg/errors"
)

var ErrNoBranchOrRepo = errors.New("repo or branch not found")

const botName = "covergen-bot"
const botEmail = "covergen-bot@users.noreply.github.com"

type Git struct {
	log   logutil.Log
	token string
}

func NewGit(log logutil.Log, token string) *Git {
	return &Git{
		log:   log,
		token: token,
	}
}

// AuthArgs injects the credential as an Authorization header config entry
// scoped to one git invocation: the token never appears in the remote URL
// nor in .git/config on disk.
func AuthArgs(token string) []string {
	if token == "" {
		return nil
	}

	b64 := base64.StdEncoding.EncodeToString([]byte("x-access-token:" + token))
	return []string{"-c", fmt.Sprintf("http.https://github.com/.extraheader=AUTHORIZATION: basic %s", b64)}
}

func (gf Git) authArgs() []string {
	return AuthArgs(gf.token)
}

func (gf Git) Fetch(ctx context.Context, repo *Repo, exec executors.Executor) error {
	args := append(gf.authArgs(), "clone", "-q")
	if repo.Ref != "" {
		args = append(args, "--depth", "1", "--branch", repo.Ref, "--single-branch")
	}
	args = append(args, repo.CloneURL, ".")

	// Never echo args in errors: they carry the auth header.
	if out, err := exec.Run(ctx, "git", args...); err != nil {
		outText := ""
		if out != nil {
			outText = out.StdOut
		}

		noBranchOrRepo := strings.Contains(outText, "could not read Username for") ||
			strings.Contains(outText, "Could not find remote branch") ||
			strings.Contains(outText, "Repository not found")
		if noBranchOrRepo {
			return errors.Wrapf(ErrNoBranchOrRepo, "git clone of %s failed: %s", repo.CloneURL, outText)
		}

		return errors.Wrapf(err, "can't clone %s: %s", repo.CloneURL, outText)
	}

	return gf.setBotIdentity(ctx, exec)
}

func (gf Git) setBotIdentity(ctx context.Context, exec executors.Executor) error {
	if _, err := exec.Run(ctx, "git", "config", "user.name", botName); err != nil {
		return errors.Wrap(err, "can't configure git user name")
	}
	if _, err := exec.Run(ctx, "git", "config", "user.email", botEmail); err != nil {
		return errors.Wrap(err, "can't configure git user email")
	}

	return nil
}

func (gf Git) DefaultBranch(ctx context.Context, exec executors.Executor) string {
	out, err := exec.Run(ctx, "git", "symbolic-ref", "--short", "HEAD")
	if err != nil || out == nil || strings.TrimSpace(out.StdOut) == "" {
		gf.log.Warnf("Checkout doesn't report a default branch, falling back to main: %v", err)
		return "main"
	}

	return strings.TrimSpace(out.StdOut)
}
