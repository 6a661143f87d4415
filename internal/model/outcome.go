package model

import (
	"path/filepath"
	"time"
)

// EnvironmentTags segment the output tree. Computed once per run.
type EnvironmentTags struct {
	Runtime     string `yaml:"runtime" json:"runtime"`         // e.g. py311
	Accelerator string `yaml:"accelerator" json:"accelerator"` // e.g. cuda12.1
	Platform    string `yaml:"platform" json:"platform"`       // e.g. linux_x86_64
}

// OutputDir returns root/runtime/accelerator/platform
func (t EnvironmentTags) OutputDir(root string) string {
	return filepath.Join(root, t.Runtime, t.Accelerator, t.Platform)
}

// OutcomeStatus is the terminal state of one project in a run
type OutcomeStatus string

const (
	StatusSucceeded OutcomeStatus = "succeeded"
	StatusSkipped   OutcomeStatus = "skipped"
	StatusPlanned   OutcomeStatus = "planned" // dry run, nothing was executed
)

// Stage names a pipeline stage, used to report where a project was abandoned
type Stage string

const (
	StageWorkspace    Stage = "workspace"
	StageClone        Stage = "clone"
	StageDependencies Stage = "dependencies"
	StageBuild        Stage = "build"
	StageDiscover     Stage = "discover"
	StageRelocate     Stage = "relocate"
)

// Artifact is a built package file after relocation into the output tree
type Artifact struct {
	Name string `yaml:"name" json:"name"`
	Path string `yaml:"path" json:"path"`
}

// BuildOutcome is the per-project result of a pipeline run
type BuildOutcome struct {
	Project   string        `yaml:"project" json:"project"`
	Status    OutcomeStatus `yaml:"status" json:"status"`
	Artifacts []Artifact    `yaml:"artifacts,omitempty" json:"artifacts,omitempty"`
	Stage     Stage         `yaml:"stage,omitempty" json:"stage,omitempty"`
	Reason    string        `yaml:"reason,omitempty" json:"reason,omitempty"`
	Warnings  []string      `yaml:"warnings,omitempty" json:"warnings,omitempty"`
	Duration  time.Duration `yaml:"duration" json:"duration"`
}

// Succeeded reports whether every stage of the project completed
func (o BuildOutcome) Succeeded() bool {
	return o.Status == StatusSucceeded
}

// Planned reports whether the project was only previewed
func (o BuildOutcome) Planned() bool {
	return o.Status == StatusPlanned
}

// RunReport aggregates the outcomes of one batch run
type RunReport struct {
	RunID     string          `yaml:"runId" json:"runId"`
	Tags      EnvironmentTags `yaml:"tags" json:"tags"`
	OutputDir string          `yaml:"outputDir" json:"outputDir"`
	DryRun    bool            `yaml:"dryRun,omitempty" json:"dryRun,omitempty"`
	Outcomes  []BuildOutcome  `yaml:"outcomes" json:"outcomes"`
}

// Counts returns the number of succeeded, skipped and planned projects
func (r *RunReport) Counts() (succeeded, skipped, planned int) {
	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusSucceeded:
			succeeded++
		case StatusPlanned:
			planned++
		default:
			skipped++
		}
	}
	return succeeded, skipped, planned
}

// ArtifactCount returns the number of artifacts relocated across all projects
func (r *RunReport) ArtifactCount() int {
	n := 0
	for _, o := range r.Outcomes {
		n += len(o.Artifacts)
	}
	return n
}
