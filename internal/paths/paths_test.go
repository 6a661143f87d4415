package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildRoot(t *testing.T) {
	root := BuildRoot()
	assert.Equal(t, "builds", filepath.Base(root))
	assert.Equal(t, appName, filepath.Base(filepath.Dir(root)))
}

func TestWorkspace(t *testing.T) {
	assert.Equal(t, filepath.Join("/tmp/builds", "demo"), Workspace("/tmp/builds", "demo"))
}
