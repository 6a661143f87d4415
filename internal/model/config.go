package model

// BuildConfig is the declarative build configuration, loaded once per run
type BuildConfig struct {
	Target      BuildTarget                  `yaml:"build_target" json:"build_target"`
	Projects    []ProjectSpec                `yaml:"projects" json:"projects"`
	BaseImages  map[string]map[string]string `yaml:"pytorch_base_images" json:"pytorch_base_images"` // framework version -> accelerator version -> image
	AptPackages []string                     `yaml:"apt_packages" json:"apt_packages"`
	PipPackages []string                     `yaml:"pip_packages" json:"pip_packages"`
}

// BuildTarget names the runtime/accelerator combination artifacts are built for
type BuildTarget struct {
	PythonVersion  string `yaml:"python_version" json:"python_version"`
	CUDAVersion    string `yaml:"cuda_version" json:"cuda_version"`
	PyTorchVersion string `yaml:"pytorch_version" json:"pytorch_version"`
}

// ProjectSpec describes one source project to build
type ProjectSpec struct {
	Name         string            `yaml:"name" json:"name"`
	RepoURL      string            `yaml:"repo_url" json:"repo_url"`
	Ref          string            `yaml:"repo_ref,omitempty" json:"repo_ref,omitempty"`           // branch or tag, default branch when empty
	BuildCommand string            `yaml:"build_command,omitempty" json:"build_command,omitempty"` // raw command line overriding the standard build
	Dependencies []string          `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	BuildEnv     map[string]string `yaml:"build_env,omitempty" json:"build_env,omitempty"` // overlay on the ambient environment
}

// HasCustomBuild reports whether the project overrides the standard build command
func (p ProjectSpec) HasCustomBuild() bool {
	return p.BuildCommand != ""
}
