package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/sourceplane/wheelhouse/internal/model"
)

// SummaryViewer renders a human-readable summary of a run report
type SummaryViewer struct {
	report   *model.RunReport
	colorize bool
}

// NewSummaryViewer creates a summary viewer. colorize enables ANSI colors and
// should only be set for terminals.
func NewSummaryViewer(report *model.RunReport, colorize bool) *SummaryViewer {
	return &SummaryViewer{report: report, colorize: colorize}
}

// View returns the summary as text: one entry per project in run order, with
// the stage and cause of every skipped project.
func (sv *SummaryViewer) View() string {
	var sb strings.Builder
	r := sv.report

	sb.WriteString("Build summary")
	if r.RunID != "" {
		sb.WriteString(fmt.Sprintf(" (run %s)", r.RunID))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Tags:   %s / %s / %s\n", r.Tags.Runtime, r.Tags.Accelerator, r.Tags.Platform))
	sb.WriteString(fmt.Sprintf("  Output: %s\n", r.OutputDir))
	if r.DryRun {
		sb.WriteString("  Mode:   dry run\n")
	}

	if len(r.Outcomes) == 0 {
		sb.WriteString("No projects configured\n")
	}

	for i, o := range r.Outcomes {
		isLast := i == len(r.Outcomes)-1

		prefix, indent := "├─ ", "│    "
		if isLast {
			prefix, indent = "└─ ", "     "
		}

		switch {
		case o.Succeeded():
			sb.WriteString(fmt.Sprintf("%s%s %s  %d wheel(s)\n", prefix, sv.paint(color.Green, "✓"), o.Project, len(o.Artifacts)))
			for _, a := range o.Artifacts {
				sb.WriteString(fmt.Sprintf("%s%s\n", indent, a.Name))
			}
		case o.Planned():
			sb.WriteString(fmt.Sprintf("%s%s %s  planned\n", prefix, sv.paint(color.Cyan, "○"), o.Project))
		default:
			sb.WriteString(fmt.Sprintf("%s%s %s  skipped at %s: %s\n", prefix, sv.paint(color.Red, "✗"), o.Project, stageOrUnknown(o.Stage), o.Reason))
		}

		for _, w := range o.Warnings {
			sb.WriteString(fmt.Sprintf("%s%s %s\n", indent, sv.paint(color.Yellow, "!"), w))
		}
	}

	succeeded, skipped, planned := r.Counts()
	if r.DryRun {
		sb.WriteString(fmt.Sprintf("Dry run: %d planned, %d skipped, nothing was built\n", planned, skipped))
	} else {
		sb.WriteString(fmt.Sprintf("Succeeded: %d  Skipped: %d  Wheels: %d\n", succeeded, skipped, r.ArtifactCount()))
	}
	return sb.String()
}

// Print writes the summary to w
func (sv *SummaryViewer) Print(w io.Writer) error {
	_, err := io.WriteString(w, sv.View())
	return err
}

func (sv *SummaryViewer) paint(c color.Color, s string) string {
	if !sv.colorize {
		return s
	}
	return c.Render(s)
}

func stageOrUnknown(s model.Stage) string {
	if s == "" {
		return "unknown stage"
	}
	return string(s)
}
