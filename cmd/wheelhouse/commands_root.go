package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

var (
	configFile string
	debugMode  bool
	quietMode  bool
)

var rootCmd = &cobra.Command{
	Use:           "wheelhouse",
	Short:         "Build wheels for configured projects",
	Long:          "wheelhouse builds Python wheels for a list of source projects into a tagged output tree and generates the Dockerfile of the build environment",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configureLogger()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "Path to the build configuration file")
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "Enable debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Only log warnings and errors")

	registerBuildCommand(rootCmd)
	registerDockerfileCommand(rootCmd)
	registerValidateCommand(rootCmd)
	registerEnvCommand(rootCmd)
}

// configureLogger applies the verbosity flags to the global logger
func configureLogger() {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	} else if quietMode {
		level = slog.LevelWarn
	}
	slog.SetDefault(newLogger(os.Stderr, level))

	if !isatty(os.Stdout) {
		color.Disable()
	}
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Whether w is an interactive terminal.
func isatty(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
