package provider

import "strings"

// Repo represents provider repository.
type Repo struct {
	ID            int
	FullName      string
	IsAdmin       bool
	CanPush       bool
	IsPrivate     bool
	DefaultBranch string
}

func (r Repo) Name() string {
	return strings.Split(r.FullName, "/")[1]
}

func (r Repo) Owner() string {
	return strings.Split(r.FullName, "/")[0]
}

type PullRequestConfig struct {
	Title string
	Body  string

	// Head is the branch with the changes, Base the branch to merge into.
	Head string
	Base string
}

type PullRequest struct {
	Number  int
	HTMLURL string
	State   string
}

// Manifest is the declared dependency surface of a repo's package manifest.
type Manifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func (m Manifest) HasDependency(name string) bool {
	if _, ok := m.Dependencies[name]; ok {
		return true
	}
	_, ok := m.DevDependencies[name]
	return ok
}
