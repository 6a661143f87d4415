package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sourceplane/wheelhouse/internal/model"
	"github.com/sourceplane/wheelhouse/internal/paths"
	"gopkg.in/yaml.v3"
)

// RenderJSON renders a run report as JSON
func RenderJSON(report *model.RunReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// RenderYAML renders a run report as YAML
func RenderYAML(report *model.RunReport) ([]byte, error) {
	return yaml.Marshal(report)
}

// WriteReport writes a run report to path (JSON or YAML based on extension)
func WriteReport(report *model.RunReport, path string) error {
	var data []byte
	var err error

	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = RenderYAML(report)
	default:
		data, err = RenderJSON(report)
	}
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if err := os.WriteFile(path, data, paths.DefaultFileMode); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}

	return nil
}
