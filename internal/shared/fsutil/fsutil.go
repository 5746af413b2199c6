package fsutil

import (
	"os"
	"path"
	"runtime"
)

func GetProjectRoot() string {
	if os.Getenv("GO_ENV") == "prod" {
		return "./"
	}

	// when we run "go test" current working dir is the package dir,
	// restore the repo root from this file's location
	_, filename, _, _ := runtime.Caller(0)
	return path.Clean(path.Join(path.Dir(filename), "..", "..", ".."))
}
