package loader

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/sourceplane/wheelhouse/internal/model"
	"github.com/sourceplane/wheelhouse/internal/schema"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrDuplicateProject = errors.New("duplicate project name")
)

// LoadConfig reads, validates and decodes a build configuration YAML file
func LoadConfig(path string) (*model.BuildConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig validates and decodes a build configuration document
func ParseConfig(data []byte) (*model.BuildConfig, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if doc.Kind == 0 || len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: document is empty", ErrInvalidConfig)
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateConfig(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	var cfg model.BuildConfig
	if err := doc.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := checkProjects(cfg.Projects); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadTemplate reads a recipe template
func LoadTemplate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template file: %w", err)
	}
	return string(data), nil
}

// checkProjects enforces the constraints the schema cannot express: project
// names key the workspace directories, so they must be unique.
func checkProjects(projects []model.ProjectSpec) error {
	seen := make(map[string]bool, len(projects))
	for _, p := range projects {
		if seen[p.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateProject, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}
