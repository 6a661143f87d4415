package envtags

import (
	"context"
	"fmt"
	"regexp"

	"github.com/sourceplane/wheelhouse/internal/runner"
)

var (
	pythonVersionPattern = regexp.MustCompile(`Python (\d+\.\d+(?:\.\d+)?)`)
	nvccReleasePattern   = regexp.MustCompile(`release (\d+\.\d+)`)
)

// ProbeResult is either a parsed version or an explicit unavailable marker.
// Err is set exactly when Version is empty.
type ProbeResult struct {
	Version string
	Err     error
}

// Available reports whether the probe produced a version
func (p ProbeResult) Available() bool {
	return p.Err == nil && p.Version != ""
}

// Found returns a successful probe result
func Found(version string) ProbeResult {
	return ProbeResult{Version: version}
}

// Unavailable returns a failed probe result
func Unavailable(err error) ProbeResult {
	if err == nil {
		err = ErrProbeUnavailable
	}
	return ProbeResult{Err: err}
}

// Probe reports a version from the live environment. It never fails; failure
// is expressed in the result.
type Probe func(ctx context.Context) ProbeResult

// OutputRunner runs a command and captures its output
type OutputRunner interface {
	Output(ctx context.Context, cmd runner.Command) (string, error)
}

// PythonProbe asks the build interpreter for its version
func PythonProbe(r OutputRunner, python string) Probe {
	return commandProbe(r, []string{python, "--version"}, pythonVersionPattern)
}

// NvccProbe asks the CUDA compiler for its release
func NvccProbe(r OutputRunner, nvcc string) Probe {
	return commandProbe(r, []string{nvcc, "--version"}, nvccReleasePattern)
}

// Static returns a probe that always reports the same result
func Static(result ProbeResult) Probe {
	return func(context.Context) ProbeResult { return result }
}

func commandProbe(r OutputRunner, args []string, pattern *regexp.Regexp) Probe {
	return func(ctx context.Context) ProbeResult {
		out, err := r.Output(ctx, runner.Command{Args: args})
		if err != nil {
			return Unavailable(fmt.Errorf("%w: %s: %v", ErrProbeUnavailable, args[0], err))
		}
		return parseProbe(args[0], out, pattern)
	}
}

func parseProbe(name, out string, pattern *regexp.Regexp) ProbeResult {
	match := pattern.FindStringSubmatch(out)
	if match == nil {
		return Unavailable(fmt.Errorf("%w: could not parse version from %s output", ErrProbeUnavailable, name))
	}
	return Found(match[1])
}
