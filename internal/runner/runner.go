package runner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// Command is a single external process invocation
type Command struct {
	Args []string
	Dir  string            // working directory, inherited when empty
	Env  map[string]string // overlay on the ambient environment
}

// String renders the argument vector for logs
func (c Command) String() string {
	return strings.Join(c.Args, " ")
}

// ExitError reports a command that ran but exited non-zero
type ExitError struct {
	Args []string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q exited with status %d", strings.Join(e.Args, " "), e.Code)
}

// Runner executes external commands, streaming their merged output
type Runner struct {
	Stdout io.Writer
	DryRun bool
}

func NewRunner(stdout io.Writer, dryRun bool) *Runner {
	return &Runner{
		Stdout: stdout,
		DryRun: dryRun,
	}
}

// Run executes cmd and blocks until it exits. Standard output and error are
// interleaved line by line into r.Stdout as they arrive.
func (r *Runner) Run(ctx context.Context, cmd Command) error {
	if len(cmd.Args) == 0 {
		return ErrEmptyCommand
	}

	fmt.Fprintf(r.Stdout, "$ %s%s\n", cmd.String(), dirSuffix(cmd.Dir))
	if r.DryRun {
		return nil
	}

	c := r.command(ctx, cmd)
	out, err := c.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to attach output of %s: %w", cmd.Args[0], err)
	}
	c.Stderr = c.Stdout

	if err := c.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", cmd.Args[0], err)
	}

	copyErr := copyLines(r.Stdout, out)

	if err := c.Wait(); err != nil {
		return exitError(cmd, err)
	}
	if copyErr != nil {
		return fmt.Errorf("failed to stream output of %s: %w", cmd.Args[0], copyErr)
	}

	return nil
}

// Output executes cmd and returns its combined output. Used for probes where
// nothing should reach the console.
func (r *Runner) Output(ctx context.Context, cmd Command) (string, error) {
	if len(cmd.Args) == 0 {
		return "", ErrEmptyCommand
	}

	var buf bytes.Buffer
	c := r.command(ctx, cmd)
	c.Stdout = &buf
	c.Stderr = &buf

	if err := c.Run(); err != nil {
		return buf.String(), exitError(cmd, err)
	}
	return buf.String(), nil
}

func (r *Runner) command(ctx context.Context, cmd Command) *exec.Cmd {
	c := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = MergeEnv(os.Environ(), cmd.Env)
	}
	return c
}

// MergeEnv returns base with overlay applied. Overlay values shadow ambient
// ones; everything else passes through. Neither argument is modified.
func MergeEnv(base []string, overlay map[string]string) []string {
	merged := make([]string, 0, len(base)+len(overlay))
	for _, entry := range base {
		k, _, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, shadowed := overlay[k]; shadowed {
			continue
		}
		merged = append(merged, entry)
	}

	keys := make([]string, 0, len(overlay))
	for k := range overlay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		merged = append(merged, k+"="+overlay[k])
	}
	return merged
}

// copyLines forwards r to w one line at a time so long builds show progress.
func copyLines(w io.Writer, r io.Reader) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if _, werr := io.WriteString(w, line); werr != nil {
				// keep draining so the child never blocks on a full pipe
				_, _ = io.Copy(io.Discard, br)
				return werr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func exitError(cmd Command, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Args: cmd.Args, Code: exitErr.ExitCode()}
	}
	return fmt.Errorf("failed to run %q: %w", cmd.String(), err)
}

func dirSuffix(dir string) string {
	if dir == "" {
		return ""
	}
	return " (in " + dir + ")"
}
