package pipeline

import "errors"

var (
	ErrWorkspace    = errors.New("workspace reset failed")
	ErrClone        = errors.New("clone failed")
	ErrDependencies = errors.New("dependency installation failed")
	ErrBuild        = errors.New("build failed")
	ErrDiscover     = errors.New("wheel discovery failed")
	ErrNoArtifacts  = errors.New("no wheel found after build")
	ErrRelocate     = errors.New("artifact relocation failed")
	ErrInterrupted  = errors.New("build interrupted")
)
