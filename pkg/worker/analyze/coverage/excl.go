package coverage

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Directories that never hold scannable sources. Any path component match
// excludes the file, at any depth.
var excludedDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
	".git":         true,
	"interfaces":   true,
	"interface":    true,
	"types":        true,
	"type":         true,
	"enums":        true,
	"enum":         true,
	"constants":    true,
	"typings":      true,
}

// File name patterns of declaration-only, generated, wiring and test files.
// Matched against the base name only.
var excludedFilePatterns = []string{
	"*.d.ts",
	"*.interface.ts",
	"*.interfaces.ts",
	"*.types.ts",
	"*.type.ts",
	"*.enum.ts",
	"*.enums.ts",
	"*.constants.ts",
	"*.constant.ts",
	"*.spec.ts",
	"*.test.ts",
	"*.spec.tsx",
	"*.test.tsx",
	"*app.ts",
	"*main.ts",
	"*index.ts",
	"*.module.ts",
	"*.entity.ts",
}

// IsExcluded reports whether the repo-relative path is outside the scannable
// source set. The inline scan config, the fallback walker and the post-filter
// of parsed summary entries all go through here: if they disagree, files the
// runner skipped show up in reports as 0% covered.
func IsExcluded(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	parts := strings.Split(relPath, "/")

	for _, dir := range parts[:len(parts)-1] {
		if excludedDirs[dir] {
			return true
		}
	}

	base := parts[len(parts)-1]
	for _, pattern := range excludedFilePatterns {
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
	}

	return false
}

// coverageIgnoreGlobs renders the exclusion set as negated jest
// collectCoverageFrom globs.
func coverageIgnoreGlobs() []string {
	dirs := make([]string, 0, len(excludedDirs))
	for dir := range excludedDirs {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	globs := make([]string, 0, len(dirs)+len(excludedFilePatterns))
	for _, dir := range dirs {
		globs = append(globs, fmt.Sprintf("!**/%s/**", dir))
	}
	for _, pattern := range excludedFilePatterns {
		globs = append(globs, "!**/"+pattern)
	}

	return globs
}
