package envtags

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sourceplane/wheelhouse/internal/ctxlog"
	"github.com/sourceplane/wheelhouse/internal/model"
)

// Resolver derives the run's environment tags from configuration and the
// live environment.
type Resolver struct {
	runtime     Probe
	accelerator Probe
	platform    func() string
}

// NewResolver creates a resolver backed by the given probes and the live
// platform.
func NewResolver(runtimeProbe, acceleratorProbe Probe) *Resolver {
	return &Resolver{
		runtime:     runtimeProbe,
		accelerator: acceleratorProbe,
		platform:    Platform,
	}
}

// Resolution is the outcome of tag resolution
type Resolution struct {
	Tags           model.EnvironmentTags
	RuntimeVersion string   // version reported by the interpreter
	Warnings       []string // advisory disagreements, already logged
}

// Resolve computes the tags. It fails only when the runtime version cannot be
// confirmed to match configuration at major.minor granularity.
func (r *Resolver) Resolve(ctx context.Context, target model.BuildTarget) (*Resolution, error) {
	logger := ctxlog.FromContext(ctx)

	wantRuntime, err := majorMinor(target.PythonVersion)
	if err != nil {
		return nil, fmt.Errorf("build_target.python_version: %w", err)
	}

	probe := r.runtime(ctx)
	if !probe.Available() {
		return nil, fmt.Errorf("%w: %v", ErrRuntimeUnavailable, probe.Err)
	}
	liveRuntime, err := majorMinor(probe.Version)
	if err != nil {
		return nil, fmt.Errorf("%w: interpreter reported %q", ErrRuntimeUnavailable, probe.Version)
	}
	if liveRuntime != wantRuntime {
		return nil, fmt.Errorf("%w: expected %s, interpreter is %s", ErrRuntimeMismatch, target.PythonVersion, probe.Version)
	}
	logger.Debug("runtime version check passed", "version", probe.Version)

	res := &Resolution{
		Tags: model.EnvironmentTags{
			Runtime:     "py" + strings.ReplaceAll(liveRuntime, ".", ""),
			Accelerator: "cuda" + target.CUDAVersion,
			Platform:    r.platform(),
		},
		RuntimeVersion: probe.Version,
	}

	if warning := r.checkAccelerator(ctx, target.CUDAVersion); warning != "" {
		logger.Warn(warning)
		res.Warnings = append(res.Warnings, warning)
	}

	logger.Info("resolved environment",
		"runtime", res.Tags.Runtime,
		"accelerator", res.Tags.Accelerator,
		"platform", res.Tags.Platform,
	)
	return res, nil
}

// checkAccelerator compares the configured accelerator version with the
// probe. The configured value is authoritative; the result is a warning or "".
func (r *Resolver) checkAccelerator(ctx context.Context, configured string) string {
	probe := r.accelerator(ctx)
	if !probe.Available() {
		return fmt.Sprintf("could not verify CUDA version %s: %v; using configured version", configured, probe.Err)
	}

	if sameRelease(configured, probe.Version) {
		return ""
	}
	return fmt.Sprintf("configured CUDA version %s differs from detected %s; using configured version", configured, probe.Version)
}

// sameRelease compares at major.minor when both versions parse, literally
// otherwise.
func sameRelease(a, b string) bool {
	ma, errA := majorMinor(a)
	mb, errB := majorMinor(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return ma == mb
}

// majorMinor reduces a version such as "3.10.12" to "3.10"
func majorMinor(version string) (string, error) {
	v := strings.TrimPrefix(strings.TrimSpace(version), "v")
	parts := strings.Split(v, ".")
	if len(parts) < 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, version)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, version)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, version)
	}
	return fmt.Sprintf("%d.%d", major, minor), nil
}
