// Package pipeline builds wheels for configured projects, one project at a
// time.
//
// Each project runs through a fixed sequence of stages: reset the private
// workspace, shallow-clone the repository, install build dependencies, build,
// discover the produced wheels and move them into the shared output
// directory. A failing stage abandons the project with a skipped outcome
// naming the stage and cause; the driver then moves on to the next project.
// Errors never cross a project boundary.
//
// The build step is a tagged variant. A [StandardBuild] runs pip wheel into
// the workspace's dist directory and only looks there for wheels; a
// [CustomBuild] runs the configured command line and searches the whole
// workspace, since custom commands may write anywhere.
//
// Example usage:
//
//	p := pipeline.New(r, pipeline.Options{
//	    BuildRoot: "/tmp/builds",
//	    OutputDir: tags.OutputDir("/output"),
//	    Python:    "python",
//	})
//	report := pipeline.NewDriver(p, os.Stdout).Run(ctx, cfg.Projects)
package pipeline
