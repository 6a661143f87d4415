package pipeline

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ArtifactExt is the file extension of built packages.
const ArtifactExt = ".whl"

func isArtifact(d fs.DirEntry) bool {
	return d.Type().IsRegular() && strings.HasSuffix(d.Name(), ArtifactExt)
}

// listArtifacts returns the wheels directly inside dir. A missing dir yields
// no artifacts.
func listArtifacts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if isArtifact(entry) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// findArtifacts recursively searches root for wheels.
func findArtifacts(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if isArtifact(d) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
