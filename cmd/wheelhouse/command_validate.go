package main

import (
	"fmt"
	"io"

	"github.com/sourceplane/wheelhouse/internal/loader"
	"github.com/sourceplane/wheelhouse/internal/recipe"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the build configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateConfig(cmd.OutOrStdout())
	},
}

func registerValidateCommand(root *cobra.Command) {
	root.AddCommand(validateCmd)
}

func validateConfig(out io.Writer) error {
	fmt.Fprintln(out, "□ Validating configuration...")
	cfg, err := loader.LoadConfig(configFile)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Configuration is valid (%d projects)\n", len(cfg.Projects))

	for _, p := range cfg.Projects {
		strategy := "pip wheel"
		if p.HasCustomBuild() {
			strategy = p.BuildCommand
		}
		fmt.Fprintf(out, "  - %s: %s@%s [%s]\n", p.Name, p.RepoURL, refLabel(p.Ref), strategy)
	}

	// The base image only matters to the Dockerfile generator, so a missing
	// mapping is reported without failing validation.
	if image, err := recipe.BaseImage(cfg); err != nil {
		fmt.Fprintf(out, "! %v\n", err)
	} else {
		fmt.Fprintf(out, "✓ Base image: %s\n", image)
	}

	return nil
}

func refLabel(ref string) string {
	if ref == "" {
		return "HEAD"
	}
	return ref
}
