package util

import (
	"os"
	"path/filepath"
)

func GetProjectRoot() string {
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		return root
	}

	// when we run "go test" the working dir is the package dir,
	// so walk up to the module root
	wd, err := os.Getwd()
	if err != nil {
		return "./"
	}

	for dir := wd; ; dir = filepath.Dir(dir) {
		if _, statErr := os.Stat(filepath.Join(dir, "go.mod")); statErr == nil {
			return dir
		}
		if filepath.Dir(dir) == dir {
			return wd
		}
	}
}
