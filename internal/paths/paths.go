package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory naming.
	appName = "wheelhouse"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644

	// Default root of the tagged artifact tree.
	DefaultOutputRoot = "output"

	// Name of the per-project standard build output directory.
	DistDir = "dist"
)

// Default root for per-project build workspaces.
//
//	Linux:   $XDG_CACHE_HOME/wheelhouse/builds or ~/.cache/wheelhouse/builds
//	macOS:   ~/Library/Caches/wheelhouse/builds
func BuildRoot() string {
	return filepath.Join(xdg.CacheHome, appName, "builds")
}

// Private workspace of a project under the build root.
func Workspace(buildRoot, project string) string {
	return filepath.Join(buildRoot, project)
}
