// Package recipe renders the Dockerfile that hosts wheel builds.
package recipe

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/distribution/reference"
	"github.com/sourceplane/wheelhouse/internal/model"
	"github.com/sourceplane/wheelhouse/internal/paths"
)

// BaseImage looks up the base image for the configured PyTorch and CUDA
// versions.
func BaseImage(cfg *model.BuildConfig) (string, error) {
	pt, cuda := cfg.Target.PyTorchVersion, cfg.Target.CUDAVersion

	image, ok := cfg.BaseImages[pt][cuda]
	if !ok || image == "" {
		return "", fmt.Errorf("%w for PyTorch %s and CUDA %s", ErrMissingBaseImage, pt, cuda)
	}
	if _, err := reference.ParseNormalizedNamed(image); err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidBaseImage, image, err)
	}
	return image, nil
}

// Substitutions returns the placeholder values derived from cfg.
func Substitutions(cfg *model.BuildConfig) (map[string]string, error) {
	base, err := BaseImage(cfg)
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"BASE_IMAGE":                 base,
		"APT_PACKAGES":               strings.Join(cfg.AptPackages, " "),
		"PIP_PACKAGES":               strings.Join(cfg.PipPackages, " "),
		"PYTHON_VERSION_MAJOR_MINOR": majorMinor(cfg.Target.PythonVersion),
		"PYTHON_VERSION":             cfg.Target.PythonVersion,
		"CUDA_VERSION":               cfg.Target.CUDAVersion,
		"PYTORCH_VERSION":            cfg.Target.PyTorchVersion,
	}, nil
}

// Render substitutes cfg into tmpl.
func Render(cfg *model.BuildConfig, tmpl string) (string, error) {
	subs, err := Substitutions(cfg)
	if err != nil {
		return "", err
	}
	return Expand(tmpl, subs)
}

// Generate renders tmpl and writes the result to outputPath. Nothing is
// written when rendering fails.
func Generate(cfg *model.BuildConfig, tmpl, outputPath string) error {
	rendered, err := Render(cfg, tmpl)
	if err != nil {
		return err
	}

	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, []byte(rendered), paths.DefaultFileMode); err != nil {
		return fmt.Errorf("failed to write recipe to %s: %w", outputPath, err)
	}
	return nil
}

// Expand replaces {NAME} placeholders in tmpl with values from subs. "{{"
// and "}}" produce literal braces. Every placeholder without a value is
// reported in a single error.
func Expand(tmpl string, subs map[string]string) (string, error) {
	var (
		out     strings.Builder
		missing = map[string]bool{}
	)
	out.Grow(len(tmpl))

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch {
		case c == '{' && i+1 < len(tmpl) && tmpl[i+1] == '{':
			out.WriteByte('{')
			i++
		case c == '}' && i+1 < len(tmpl) && tmpl[i+1] == '}':
			out.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed '{' at offset %d", ErrMalformedTemplate, i)
			}
			name := tmpl[i+1 : i+1+end]
			if !validName(name) {
				return "", fmt.Errorf("%w: invalid placeholder %q at offset %d", ErrMalformedTemplate, name, i)
			}
			value, ok := subs[name]
			if !ok {
				missing[name] = true
			}
			out.WriteString(value)
			i += end + 1
		case c == '}':
			return "", fmt.Errorf("%w: single '}' at offset %d", ErrMalformedTemplate, i)
		default:
			out.WriteByte(c)
		}
	}

	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for name := range missing {
			names = append(names, name)
		}
		sort.Strings(names)
		return "", fmt.Errorf("%w: %s", ErrMissingPlaceholder, strings.Join(names, ", "))
	}
	return out.String(), nil
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !(r == '_' || r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// majorMinor keeps the first two components of a version, e.g. "3.10.4" -> "3.10"
func majorMinor(version string) string {
	parts := strings.Split(version, ".")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, ".")
}
