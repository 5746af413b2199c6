package provider

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrUnauthorized   = errors.New("no VCS provider authorization")
	ErrNotFound       = errors.New("not found in VCS provider")
	ErrInvalidRepoURL = errors.New("invalid repository url")
)

func IsPermanentError(err error) bool {
	causeErr := errors.Cause(err)
	return causeErr == ErrNotFound || causeErr == ErrUnauthorized ||
		causeErr == ErrInvalidRepoURL
}

// ParseRepoURL extracts owner and name from an https repository url.
// Trailing ".git" and slashes are tolerated.
func ParseRepoURL(repoURL string) (owner, name string, err error) {
	u, err := url.Parse(strings.TrimSpace(repoURL))
	if err != nil || u.Host == "" {
		return "", "", errors.Wrapf(ErrInvalidRepoURL, "can't parse %q", repoURL)
	}

	path := strings.Trim(u.Path, "/")
	path = strings.TrimSuffix(path, ".git")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Wrapf(ErrInvalidRepoURL, "can't parse %q", repoURL)
	}

	return parts[0], parts[1], nil
}
