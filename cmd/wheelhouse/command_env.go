package main

import (
	"fmt"
	"io"

	"github.com/sourceplane/wheelhouse/internal/envtags"
	"github.com/sourceplane/wheelhouse/internal/loader"
	"github.com/sourceplane/wheelhouse/internal/paths"
	"github.com/sourceplane/wheelhouse/internal/runner"
	"github.com/spf13/cobra"
)

var (
	envPython     string
	envNvcc       string
	envOutputRoot string
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show the environment tags a build would use",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := runner.NewRunner(cmd.OutOrStdout(), false)
		resolver := envtags.NewResolver(
			envtags.PythonProbe(r, envPython),
			envtags.NvccProbe(r, envNvcc),
		)
		return showEnv(cmd, cmd.OutOrStdout(), resolver)
	},
}

func registerEnvCommand(root *cobra.Command) {
	root.AddCommand(envCmd)

	envCmd.Flags().StringVar(&envPython, "python", "python", "Python interpreter used for pip")
	envCmd.Flags().StringVar(&envNvcc, "nvcc", "nvcc", "CUDA compiler used to verify the CUDA version")
	envCmd.Flags().StringVarP(&envOutputRoot, "output-root", "o", paths.DefaultOutputRoot, "Root of the tagged wheel output tree")
}

func showEnv(cmd *cobra.Command, out io.Writer, resolver *envtags.Resolver) error {
	cfg, err := loader.LoadConfig(configFile)
	if err != nil {
		return err
	}

	res, err := resolver.Resolve(cmd.Context(), cfg.Target)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Detected Environment:")
	fmt.Fprintf(out, "  Python:       %s\n", res.RuntimeVersion)
	fmt.Fprintf(out, "  Python Tag:   %s\n", res.Tags.Runtime)
	fmt.Fprintf(out, "  CUDA Tag:     %s\n", res.Tags.Accelerator)
	fmt.Fprintf(out, "  Platform Tag: %s\n", res.Tags.Platform)
	fmt.Fprintf(out, "  Destination:  %s\n", res.Tags.OutputDir(envOutputRoot))
	for _, w := range res.Warnings {
		fmt.Fprintf(out, "  Warning:      %s\n", w)
	}
	return nil
}
