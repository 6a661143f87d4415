package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sourceplane/wheelhouse/internal/ctxlog"
	"github.com/sourceplane/wheelhouse/internal/envtags"
	"github.com/sourceplane/wheelhouse/internal/loader"
	"github.com/sourceplane/wheelhouse/internal/paths"
	"github.com/sourceplane/wheelhouse/internal/pipeline"
	"github.com/sourceplane/wheelhouse/internal/render"
	"github.com/sourceplane/wheelhouse/internal/runner"
	"github.com/spf13/cobra"
)

var (
	buildOutputRoot string
	buildRoot       string
	buildPython     string
	buildNvcc       string
	buildReportFile string
	buildDryRun     bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build wheels for every configured project",
	Long:  "Clone, build and collect one wheel per configured project into <output-root>/<python>/<cuda>/<platform>. Projects that fail are skipped; the batch always continues.",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := runner.NewRunner(cmd.OutOrStdout(), buildDryRun)
		resolver := envtags.NewResolver(
			envtags.PythonProbe(r, buildPython),
			envtags.NvccProbe(r, buildNvcc),
		)
		return runBuild(cmd.Context(), cmd.OutOrStdout(), r, resolver)
	},
}

func registerBuildCommand(root *cobra.Command) {
	root.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutputRoot, "output-root", "o", paths.DefaultOutputRoot, "Root of the tagged wheel output tree")
	buildCmd.Flags().StringVar(&buildRoot, "build-root", paths.BuildRoot(), "Directory holding per-project build workspaces")
	buildCmd.Flags().StringVar(&buildPython, "python", "python", "Python interpreter used for pip")
	buildCmd.Flags().StringVar(&buildNvcc, "nvcc", "nvcc", "CUDA compiler used to verify the CUDA version")
	buildCmd.Flags().StringVar(&buildReportFile, "report", "", "Write a run report to this file (json or yaml)")
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "Print commands instead of executing them")
}

// runBuild loads configuration, resolves the environment tags and runs every
// project. Setup failures and interruption are returned; skipped projects are
// reported in the summary.
func runBuild(ctx context.Context, out io.Writer, exec pipeline.Executor, resolver *envtags.Resolver) error {
	fmt.Fprintf(out, "□ Loading configuration from %s...\n", configFile)
	cfg, err := loader.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	runID := uuid.NewString()
	ctx = ctxlog.WithLogger(ctx, slog.Default().With("run", runID))

	fmt.Fprintln(out, "□ Resolving build environment...")
	res, err := resolver.Resolve(ctx, cfg.Target)
	if err != nil {
		return err
	}
	outputDir := res.Tags.OutputDir(buildOutputRoot)
	fmt.Fprintf(out, "✓ Python %s check passed\n", res.RuntimeVersion)
	fmt.Fprintf(out, "  Wheel destination: %s\n", outputDir)

	p := pipeline.New(exec, pipeline.Options{
		BuildRoot: buildRoot,
		OutputDir: outputDir,
		Python:    buildPython,
		DryRun:    buildDryRun,
	})
	report, runErr := pipeline.NewDriver(p, out).Run(ctx, cfg.Projects)
	report.RunID = runID
	report.Tags = res.Tags
	report.OutputDir = outputDir
	report.DryRun = buildDryRun

	fmt.Fprintln(out)
	if err := render.NewSummaryViewer(report, isatty(out)).Print(out); err != nil {
		return err
	}

	if buildReportFile != "" {
		if err := render.WriteReport(report, buildReportFile); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Report saved to: %s\n", buildReportFile)
	}

	return runErr
}
