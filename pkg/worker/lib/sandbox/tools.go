package sandbox

import (
	"os"
	"path/filepath"
)

// LocalOrToolchainBin picks the repo's own binary under node_modules/.bin
// when the clone has one, otherwise the shared toolchain binary. Returned
// paths are container paths: relative ones resolve against the workdir
// mount.
func LocalOrToolchainBin(hostDir, name string) string {
	if _, err := os.Stat(filepath.Join(hostDir, "node_modules", ".bin", name)); err == nil {
		return "node_modules/.bin/" + name
	}
	return ToolchainMount + "/node_modules/.bin/" + name
}
