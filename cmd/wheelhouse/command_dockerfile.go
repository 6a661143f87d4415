package main

import (
	"fmt"
	"io"

	"github.com/sourceplane/wheelhouse/internal/loader"
	"github.com/sourceplane/wheelhouse/internal/recipe"
	"github.com/spf13/cobra"
)

var (
	dockerfileTemplate string
	dockerfileOutput   string
)

var dockerfileCmd = &cobra.Command{
	Use:     "dockerfile",
	Aliases: []string{"recipe"},
	Short:   "Generate the build environment Dockerfile",
	Long:    "Render a Dockerfile template with the base image, apt packages and pip packages from the configuration.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return generateDockerfile(cmd.OutOrStdout())
	},
}

func registerDockerfileCommand(root *cobra.Command) {
	root.AddCommand(dockerfileCmd)

	dockerfileCmd.Flags().StringVarP(&dockerfileTemplate, "template", "t", "templates/Dockerfile.template", "Path to the Dockerfile template")
	dockerfileCmd.Flags().StringVarP(&dockerfileOutput, "output", "o", "Dockerfile.generated", "Path for the generated Dockerfile")
}

func generateDockerfile(out io.Writer) error {
	fmt.Fprintf(out, "□ Reading configuration from %s...\n", configFile)
	cfg, err := loader.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Fprintf(out, "□ Reading template from %s...\n", dockerfileTemplate)
	tmpl, err := loader.LoadTemplate(dockerfileTemplate)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "□ Writing generated Dockerfile to %s...\n", dockerfileOutput)
	if err := recipe.Generate(cfg, tmpl, dockerfileOutput); err != nil {
		return fmt.Errorf("failed to generate Dockerfile: %w", err)
	}

	fmt.Fprintln(out, "✓ Dockerfile generation complete")
	return nil
}
