package recipe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sourceplane/wheelhouse/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *model.BuildConfig {
	return &model.BuildConfig{
		Target: model.BuildTarget{
			PythonVersion:  "3.10.12",
			CUDAVersion:    "12.1",
			PyTorchVersion: "2.1.0",
		},
		BaseImages: map[string]map[string]string{
			"2.1.0": {"12.1": "pytorch/pytorch:2.1.0-cuda12.1-cudnn8-devel"},
		},
		AptPackages: []string{"git", "build-essential"},
		PipPackages: []string{"wheel", "ninja"},
	}
}

const dockerfileTemplate = `FROM {BASE_IMAGE}
RUN apt-get update && apt-get install -y {APT_PACKAGES}
RUN python{PYTHON_VERSION_MAJOR_MINOR} -m pip install {PIP_PACKAGES}
RUN echo '{{"cuda": "{CUDA_VERSION}"}}' > /etc/build.json
`

func TestRender(t *testing.T) {
	got, err := Render(testConfig(), dockerfileTemplate)
	require.NoError(t, err)

	want := `FROM pytorch/pytorch:2.1.0-cuda12.1-cudnn8-devel
RUN apt-get update && apt-get install -y git build-essential
RUN python3.10 -m pip install wheel ninja
RUN echo '{"cuda": "12.1"}' > /etc/build.json
`
	assert.Equal(t, want, got)
}

func TestRender_EmptyPackageLists(t *testing.T) {
	cfg := testConfig()
	cfg.AptPackages = nil
	cfg.PipPackages = nil

	got, err := Render(cfg, "[{APT_PACKAGES}][{PIP_PACKAGES}]")
	require.NoError(t, err)
	assert.Equal(t, "[][]", got)
}

func TestRender_MissingBaseImage(t *testing.T) {
	cfg := testConfig()
	cfg.Target.CUDAVersion = "11.8"

	_, err := Render(cfg, dockerfileTemplate)
	require.ErrorIs(t, err, ErrMissingBaseImage)
	assert.Contains(t, err.Error(), "PyTorch 2.1.0 and CUDA 11.8")
}

func TestRender_InvalidBaseImage(t *testing.T) {
	cfg := testConfig()
	cfg.BaseImages["2.1.0"]["12.1"] = "Not A Valid Image"

	_, err := Render(cfg, dockerfileTemplate)
	assert.ErrorIs(t, err, ErrInvalidBaseImage)
}

func TestExpand_MissingPlaceholderNamesIt(t *testing.T) {
	_, err := Expand("FROM {BASE_IMAGE}\nENV X={UNKNOWN_VALUE} Y={ALSO_MISSING}\n", map[string]string{"BASE_IMAGE": "ubuntu"})
	require.ErrorIs(t, err, ErrMissingPlaceholder)
	assert.Contains(t, err.Error(), "ALSO_MISSING, UNKNOWN_VALUE")
}

func TestExpand_Malformed(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
	}{
		{name: "unclosed brace", tmpl: "FROM {BASE_IMAGE"},
		{name: "stray closing brace", tmpl: "FROM x }"},
		{name: "empty placeholder", tmpl: "FROM {}"},
		{name: "spaces in placeholder", tmpl: "FROM { BASE }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Expand(tt.tmpl, map[string]string{"BASE_IMAGE": "ubuntu"})
			assert.ErrorIs(t, err, ErrMalformedTemplate)
		})
	}
}

func TestGenerate_WritesOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "gen", "Dockerfile.generated")

	require.NoError(t, Generate(testConfig(), "FROM {BASE_IMAGE}\n", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "FROM pytorch/pytorch:2.1.0-cuda12.1-cudnn8-devel\n", string(data))
}

func TestGenerate_MissingPlaceholderWritesNothing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "Dockerfile.generated")

	err := Generate(testConfig(), "FROM {BASE_IMAGE}\nRUN {NOT_CONFIGURED}\n", out)
	require.ErrorIs(t, err, ErrMissingPlaceholder)
	assert.Contains(t, err.Error(), "NOT_CONFIGURED")
	assert.NoFileExists(t, out)
}
