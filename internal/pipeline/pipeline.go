package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sourceplane/wheelhouse/internal/ctxlog"
	"github.com/sourceplane/wheelhouse/internal/git"
	"github.com/sourceplane/wheelhouse/internal/model"
	"github.com/sourceplane/wheelhouse/internal/paths"
	"github.com/sourceplane/wheelhouse/internal/runner"
)

// Executor runs an external command to completion
type Executor interface {
	Run(ctx context.Context, cmd runner.Command) error
}

// Options configures where a pipeline builds and where artifacts land
type Options struct {
	BuildRoot string // parent of the per-project workspaces
	OutputDir string // tagged directory shared by all projects of a run
	Python    string // interpreter used for pip, "python" when empty

	// DryRun prints the commands of clone, dependencies and build without
	// touching the workspace or the output tree.
	DryRun bool
}

// Pipeline builds a single project through all stages
type Pipeline struct {
	exec   Executor
	cloner *git.Cloner
	opts   Options
}

// New creates a pipeline running its commands through exec
func New(exec Executor, opts Options) *Pipeline {
	if opts.Python == "" {
		opts.Python = "python"
	}
	return &Pipeline{
		exec:   exec,
		cloner: git.NewCloner(exec),
		opts:   opts,
	}
}

// projectBuild carries the state of one project through the stages.
type projectBuild struct {
	*Pipeline
	spec      model.ProjectSpec
	workspace string
	strategy  BuildStrategy
	found     []string
	artifacts []model.Artifact
	warnings  []string
}

type stage struct {
	name model.Stage
	run  func(ctx context.Context) error
}

// Build runs every stage for spec and returns its terminal outcome. A stage
// error abandons the remaining stages.
func (p *Pipeline) Build(ctx context.Context, spec model.ProjectSpec) model.BuildOutcome {
	start := time.Now()
	ctx = ctxlog.With(ctx, "project", spec.Name)

	b := &projectBuild{
		Pipeline:  p,
		spec:      spec,
		workspace: paths.Workspace(p.opts.BuildRoot, spec.Name),
		strategy:  StrategyFor(spec),
	}

	for _, s := range b.stages() {
		if err := s.run(ctx); err != nil {
			ctxlog.FromContext(ctx).Error("skipping project", "stage", s.name, "error", err)
			return model.BuildOutcome{
				Project:   spec.Name,
				Status:    model.StatusSkipped,
				Artifacts: b.artifacts,
				Stage:     s.name,
				Reason:    err.Error(),
				Warnings:  b.warnings,
				Duration:  time.Since(start),
			}
		}
	}

	status := model.StatusSucceeded
	if p.opts.DryRun {
		status = model.StatusPlanned
	}
	return model.BuildOutcome{
		Project:   spec.Name,
		Status:    status,
		Artifacts: b.artifacts,
		Warnings:  b.warnings,
		Duration:  time.Since(start),
	}
}

// stages returns the ordered stages of the build. A dry run keeps only the
// command stages.
func (b *projectBuild) stages() []stage {
	if b.opts.DryRun {
		return []stage{
			{model.StageClone, b.clone},
			{model.StageDependencies, b.installDependencies},
			{model.StageBuild, b.build},
		}
	}
	return []stage{
		{model.StageWorkspace, b.resetWorkspace},
		{model.StageClone, b.clone},
		{model.StageDependencies, b.installDependencies},
		{model.StageBuild, b.build},
		{model.StageDiscover, b.discover},
		{model.StageRelocate, b.relocate},
	}
}

// resetWorkspace destroys any workspace left by a previous run. The clone
// recreates it.
func (b *projectBuild) resetWorkspace(ctx context.Context) error {
	if _, err := os.Stat(b.workspace); err == nil {
		ctxlog.FromContext(ctx).Debug("removing previous workspace", "path", b.workspace)
	}
	if err := os.RemoveAll(b.workspace); err != nil {
		return fmt.Errorf("%w: %w", ErrWorkspace, err)
	}
	if err := os.MkdirAll(b.opts.BuildRoot, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrWorkspace, err)
	}
	return nil
}

func (b *projectBuild) clone(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("cloning", "repo", b.spec.RepoURL, "ref", refOrDefault(b.spec.Ref))

	if err := b.cloner.Clone(ctx, b.spec.RepoURL, b.spec.Ref, b.workspace); err != nil {
		return fmt.Errorf("%w: %w", ErrClone, err)
	}

	if b.opts.DryRun {
		return nil
	}
	if rev := b.cloner.Revision(ctx, b.workspace); rev != "" {
		logger.Info("cloned", "revision", rev)
	}
	return nil
}

func (b *projectBuild) installDependencies(ctx context.Context) error {
	if len(b.spec.Dependencies) == 0 {
		return nil
	}
	ctxlog.FromContext(ctx).Info("installing dependencies", "packages", b.spec.Dependencies)

	args := append([]string{b.opts.Python, "-m", "pip", "install"}, b.spec.Dependencies...)
	err := b.exec.Run(ctx, runner.Command{
		Args: args,
		Dir:  b.workspace,
		Env:  b.spec.BuildEnv,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDependencies, err)
	}
	return nil
}

func (b *projectBuild) build(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("building wheel", "strategy", b.strategy.String())
	for _, k := range sortedKeys(b.spec.BuildEnv) {
		logger.Info("build environment", "name", k, "value", b.spec.BuildEnv[k])
	}

	if !b.opts.DryRun {
		if err := os.MkdirAll(distDir(b.workspace), paths.DefaultDirMode); err != nil {
			return fmt.Errorf("%w: %w", ErrBuild, err)
		}
	}

	cmd, err := b.strategy.Command(b.opts.Python, b.workspace)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuild, err)
	}
	cmd.Env = b.spec.BuildEnv

	if err := b.exec.Run(ctx, cmd); err != nil {
		return fmt.Errorf("%w: %w", ErrBuild, err)
	}

	if _, custom := b.strategy.(CustomBuild); custom {
		logger.Warn("custom build command used, searching the whole workspace for wheels", "workspace", b.workspace)
	}
	return nil
}

// discover lists the wheels of a successful build. Zero wheels is an error:
// the build reported success without producing a package.
func (b *projectBuild) discover(ctx context.Context) error {
	found, err := b.strategy.Discover(b.workspace)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDiscover, err)
	}
	if len(found) == 0 {
		return ErrNoArtifacts
	}

	ctxlog.FromContext(ctx).Debug("discovered wheels", "count", len(found))
	b.found = found
	return nil
}

// relocate moves every discovered wheel into the output directory. A wheel
// that disappeared since discovery is a warning, not a failure.
func (b *projectBuild) relocate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	if err := os.MkdirAll(b.opts.OutputDir, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrRelocate, err)
	}

	for _, src := range b.found {
		name := filepath.Base(src)
		dst := filepath.Join(b.opts.OutputDir, name)

		if err := moveFile(src, dst); err != nil {
			if isMissing(err) {
				warning := fmt.Sprintf("expected wheel not found at %s", src)
				logger.Warn(warning)
				b.warnings = append(b.warnings, warning)
				continue
			}
			return fmt.Errorf("%w: %s: %w", ErrRelocate, name, err)
		}

		logger.Info("moved wheel", "file", name, "dest", b.opts.OutputDir)
		b.artifacts = append(b.artifacts, model.Artifact{Name: name, Path: dst})
	}
	return nil
}

func refOrDefault(ref string) string {
	if ref == "" {
		return "(default branch)"
	}
	return ref
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
