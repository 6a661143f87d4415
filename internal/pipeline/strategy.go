package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/mattn/go-shellwords"
	"github.com/sourceplane/wheelhouse/internal/model"
	"github.com/sourceplane/wheelhouse/internal/paths"
	"github.com/sourceplane/wheelhouse/internal/runner"
)

// BuildStrategy is the build step of a project together with the matching
// artifact discovery.
type BuildStrategy interface {
	// Command returns the build invocation, run with the workspace as its
	// working directory.
	Command(python, workspace string) (runner.Command, error)

	// Discover lists the wheels the build produced.
	Discover(workspace string) ([]string, error)

	fmt.Stringer
}

// StandardBuild runs `pip wheel . --no-deps` into the workspace's dist
// directory.
type StandardBuild struct{}

// CustomBuild runs a configured command line verbatim.
type CustomBuild struct {
	CommandLine string
}

// StrategyFor selects the build strategy of a project
func StrategyFor(spec model.ProjectSpec) BuildStrategy {
	if spec.HasCustomBuild() {
		return CustomBuild{CommandLine: spec.BuildCommand}
	}
	return StandardBuild{}
}

func (StandardBuild) Command(python, workspace string) (runner.Command, error) {
	return runner.Command{
		Args: []string{python, "-m", "pip", "wheel", ".", "--no-deps", "-w", distDir(workspace)},
		Dir:  workspace,
	}, nil
}

// Discover lists dist only; wheels elsewhere in the workspace are ignored.
func (StandardBuild) Discover(workspace string) ([]string, error) {
	return listArtifacts(distDir(workspace))
}

func (StandardBuild) String() string {
	return "standard"
}

func (b CustomBuild) Command(_, workspace string) (runner.Command, error) {
	args, err := shellwords.Parse(b.CommandLine)
	if err != nil {
		return runner.Command{}, fmt.Errorf("failed to parse build command %q: %w", b.CommandLine, err)
	}
	if len(args) == 0 {
		return runner.Command{}, runner.ErrEmptyCommand
	}
	return runner.Command{Args: args, Dir: workspace}, nil
}

// Discover searches the whole workspace.
func (CustomBuild) Discover(workspace string) ([]string, error) {
	return findArtifacts(workspace)
}

func (b CustomBuild) String() string {
	return "custom: " + b.CommandLine
}

func distDir(workspace string) string {
	return filepath.Join(workspace, paths.DistDir)
}
