package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sourceplane/wheelhouse/internal/ctxlog"
	"github.com/sourceplane/wheelhouse/internal/model"
)

// Builder produces the terminal outcome of one project
type Builder interface {
	Build(ctx context.Context, spec model.ProjectSpec) model.BuildOutcome
}

// Driver runs the pipeline over the configured projects in declared order
type Driver struct {
	builder Builder
	out     io.Writer
}

// NewDriver creates a driver printing per-project progress to out
func NewDriver(builder Builder, out io.Writer) *Driver {
	if out == nil {
		out = io.Discard
	}
	return &Driver{builder: builder, out: out}
}

// Run processes every project and returns their outcomes. A skipped project
// never stops the batch. Cancellation of ctx does: the projects not yet
// started are left untouched and ErrInterrupted is returned along with the
// partial report.
func (d *Driver) Run(ctx context.Context, projects []model.ProjectSpec) (*model.RunReport, error) {
	report := &model.RunReport{Outcomes: make([]model.BuildOutcome, 0, len(projects))}

	for i, spec := range projects {
		if err := ctx.Err(); err != nil {
			return report, d.interrupted(len(projects)-i, err)
		}

		fmt.Fprintf(d.out, "\n%s Processing project %d/%d: %s %s\n", rule, i+1, len(projects), spec.Name, rule)

		outcome := d.build(ctx, spec)
		report.Outcomes = append(report.Outcomes, outcome)

		switch {
		case outcome.Succeeded():
			fmt.Fprintf(d.out, "✓ %s: %d wheel(s)\n", spec.Name, len(outcome.Artifacts))
		case outcome.Planned():
			fmt.Fprintf(d.out, "○ %s: planned\n", spec.Name)
		default:
			fmt.Fprintf(d.out, "✗ %s skipped at %s: %s\n", spec.Name, outcome.Stage, outcome.Reason)
		}
	}

	if err := ctx.Err(); err != nil {
		return report, d.interrupted(0, err)
	}

	fmt.Fprintf(d.out, "\n%s Build process finished %s\n", rule, rule)
	return report, nil
}

func (d *Driver) interrupted(remaining int, cause error) error {
	fmt.Fprintf(d.out, "\n%s Build process interrupted, %d project(s) not started %s\n", rule, remaining, rule)
	return fmt.Errorf("%w: %w", ErrInterrupted, cause)
}

// build shields the batch from a panicking project.
func (d *Driver) build(ctx context.Context, spec model.ProjectSpec) (outcome model.BuildOutcome) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.FromContext(ctx).Error("project build panicked", "project", spec.Name, "panic", r)
			outcome = model.BuildOutcome{
				Project: spec.Name,
				Status:  model.StatusSkipped,
				Reason:  fmt.Sprintf("panic: %v", r),
			}
		}
	}()
	return d.builder.Build(ctx, spec)
}

var rule = strings.Repeat("=", 20)
