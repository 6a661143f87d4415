package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sourceplane/wheelhouse/internal/envtags"
	"github.com/sourceplane/wheelhouse/internal/pipeline"
	"github.com/sourceplane/wheelhouse/internal/runner"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `build_target:
  python_version: "3.10"
  cuda_version: "12.1"
  pytorch_version: "2.1.0"
projects:
  - name: broken
    repo_url: https://invalid.example/nope.git
  - name: demo
    repo_url: https://example.com/demo.git
pytorch_base_images:
  "2.1.0":
    "12.1": pytorch/pytorch:2.1.0-cuda12.1-cudnn8-devel
apt_packages: [git, build-essential]
pip_packages: [wheel, ninja]
`

// stubExec clones by creating the destination and builds by dropping a wheel
// into dist.
type stubExec struct {
	t *testing.T
}

func (s stubExec) Run(_ context.Context, cmd runner.Command) error {
	args := cmd.Args
	if args[0] == "git" {
		url, dest := args[len(args)-2], args[len(args)-1]
		if strings.Contains(url, "invalid") {
			return &runner.ExitError{Args: args, Code: 128}
		}
		return os.MkdirAll(dest, 0o755)
	}

	name := filepath.Base(cmd.Dir) + "-1.0-py3-none-any.whl"
	return os.WriteFile(filepath.Join(cmd.Dir, "dist", name), []byte("wheel"), 0o644)
}

// setFlags points the package flags at a temporary tree and restores them
// afterwards.
func setFlags(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	oldConfig, oldOutput, oldRoot, oldPython, oldReport, oldDryRun := configFile, buildOutputRoot, buildRoot, buildPython, buildReportFile, buildDryRun
	t.Cleanup(func() {
		configFile, buildOutputRoot, buildRoot, buildPython, buildReportFile, buildDryRun = oldConfig, oldOutput, oldRoot, oldPython, oldReport, oldDryRun
	})

	configFile = filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(testConfig), 0o644))
	buildOutputRoot = filepath.Join(dir, "output")
	buildRoot = filepath.Join(dir, "builds")
	buildPython = "python"
	buildReportFile = ""
	buildDryRun = false
	return dir
}

func testResolver(pythonVersion string) *envtags.Resolver {
	return envtags.NewResolver(
		envtags.Static(envtags.Found(pythonVersion)),
		envtags.Static(envtags.Found("12.1")),
	)
}

func TestRunBuild_SkipsFailedProject(t *testing.T) {
	dir := setFlags(t)
	buildReportFile = filepath.Join(dir, "report.json")

	var out bytes.Buffer
	err := runBuild(context.Background(), &out, stubExec{t}, testResolver("3.10.12"))
	require.NoError(t, err)

	outputDir := filepath.Join(buildOutputRoot, "py310", "cuda12.1", envtags.Platform())
	assert.FileExists(t, filepath.Join(outputDir, "demo-1.0-py3-none-any.whl"))
	assert.NoFileExists(t, filepath.Join(outputDir, "broken-1.0-py3-none-any.whl"))
	assert.FileExists(t, buildReportFile)

	assert.Contains(t, out.String(), "✗ broken skipped at clone")
	assert.Contains(t, out.String(), "✓ demo: 1 wheel(s)")
	assert.Contains(t, out.String(), "Succeeded: 1  Skipped: 1  Wheels: 1")
}

func TestRunBuild_RuntimeMismatchCreatesNothing(t *testing.T) {
	setFlags(t)

	var out bytes.Buffer
	err := runBuild(context.Background(), &out, stubExec{t}, testResolver("3.11.4"))
	require.Error(t, err)
	assert.ErrorIs(t, err, envtags.ErrRuntimeMismatch)

	assert.NoDirExists(t, buildRoot)
	assert.NoDirExists(t, buildOutputRoot)
}

func TestRunBuild_DryRunKeepsWorkspaces(t *testing.T) {
	setFlags(t)
	buildDryRun = true
	keep := filepath.Join(buildRoot, "demo", "keep.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(keep), 0o755))
	require.NoError(t, os.WriteFile(keep, []byte("keep"), 0o644))

	var out bytes.Buffer
	err := runBuild(context.Background(), &out, runner.NewRunner(&out, true), testResolver("3.10.12"))
	require.NoError(t, err)

	assert.FileExists(t, keep)
	assert.NoDirExists(t, filepath.Join(buildRoot, "demo", "dist"))
	assert.NoDirExists(t, buildOutputRoot)

	assert.Contains(t, out.String(), "$ git clone --depth 1 https://example.com/demo.git")
	assert.Contains(t, out.String(), "○ demo: planned")
	assert.Contains(t, out.String(), "Dry run: 2 planned, 0 skipped, nothing was built")
	assert.NotContains(t, out.String(), "skipped at")
}

func TestRunBuild_InterruptedRunFails(t *testing.T) {
	setFlags(t)
	keep := filepath.Join(buildRoot, "demo", "keep.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(keep), 0o755))
	require.NoError(t, os.WriteFile(keep, []byte("keep"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := runBuild(ctx, &out, stubExec{t}, testResolver("3.10.12"))
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrInterrupted)
	assert.FileExists(t, keep)
	assert.NoDirExists(t, buildOutputRoot)
}

func TestRunBuild_InvalidConfig(t *testing.T) {
	setFlags(t)
	require.NoError(t, os.WriteFile(configFile, []byte("projects: []\n"), 0o644))

	err := runBuild(context.Background(), &bytes.Buffer{}, stubExec{t}, testResolver("3.10.12"))
	assert.Error(t, err)
	assert.NoDirExists(t, buildRoot)
}

func TestGenerateDockerfile(t *testing.T) {
	dir := setFlags(t)

	oldTemplate, oldOutput := dockerfileTemplate, dockerfileOutput
	t.Cleanup(func() { dockerfileTemplate, dockerfileOutput = oldTemplate, oldOutput })

	dockerfileTemplate = filepath.Join(dir, "Dockerfile.template")
	dockerfileOutput = filepath.Join(dir, "Dockerfile.generated")

	t.Run("renders", func(t *testing.T) {
		tmpl := "FROM {BASE_IMAGE}\nRUN apt-get install -y {APT_PACKAGES}\nRUN pip install {PIP_PACKAGES}\n"
		require.NoError(t, os.WriteFile(dockerfileTemplate, []byte(tmpl), 0o644))

		require.NoError(t, generateDockerfile(&bytes.Buffer{}))

		got, err := os.ReadFile(dockerfileOutput)
		require.NoError(t, err)
		assert.Equal(t, "FROM pytorch/pytorch:2.1.0-cuda12.1-cudnn8-devel\nRUN apt-get install -y git build-essential\nRUN pip install wheel ninja\n", string(got))
	})

	t.Run("missing placeholder writes nothing", func(t *testing.T) {
		require.NoError(t, os.Remove(dockerfileOutput))
		require.NoError(t, os.WriteFile(dockerfileTemplate, []byte("FROM {BASE_IMAGE}\nENV X={UNKNOWN}\n"), 0o644))

		err := generateDockerfile(&bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "UNKNOWN")
		assert.NoFileExists(t, dockerfileOutput)
	})
}

func TestValidateConfig(t *testing.T) {
	setFlags(t)

	var out bytes.Buffer
	require.NoError(t, validateConfig(&out))
	assert.Contains(t, out.String(), "✓ Configuration is valid (2 projects)")
	assert.Contains(t, out.String(), "demo: https://example.com/demo.git@HEAD [pip wheel]")
	assert.Contains(t, out.String(), "✓ Base image: pytorch/pytorch:2.1.0-cuda12.1-cudnn8-devel")
}

func TestEnvFlagsAreIndependentOfBuild(t *testing.T) {
	dir := setFlags(t)

	oldPython, oldNvcc, oldOutput := envPython, envNvcc, envOutputRoot
	t.Cleanup(func() { envPython, envNvcc, envOutputRoot = oldPython, oldNvcc, oldOutput })

	require.NoError(t, envCmd.Flags().Set("output-root", filepath.Join(dir, "env-output")))
	require.NoError(t, envCmd.Flags().Set("python", "python3.10"))
	assert.Equal(t, filepath.Join(dir, "output"), buildOutputRoot)
	assert.Equal(t, "python", buildPython)

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	var out bytes.Buffer
	require.NoError(t, showEnv(cmd, &out, testResolver("3.10.12")))

	assert.Contains(t, out.String(), "Python Tag:   py310")
	assert.Contains(t, out.String(), filepath.Join(dir, "env-output", "py310", "cuda12.1"))
}
