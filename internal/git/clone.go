package git

import (
	"context"
	"strings"

	"github.com/sourceplane/wheelhouse/internal/runner"
)

// Executor runs a command to completion, streaming its output
type Executor interface {
	Run(ctx context.Context, cmd runner.Command) error
}

// OutputRunner runs a command and captures its output
type OutputRunner interface {
	Output(ctx context.Context, cmd runner.Command) (string, error)
}

// Cloner fetches project sources with the git CLI
type Cloner struct {
	exec   Executor
	binary string // git executable, "git" when empty
}

// NewCloner creates a cloner that runs git through exec
func NewCloner(exec Executor) *Cloner {
	return &Cloner{exec: exec, binary: "git"}
}

// CloneCommand returns the shallow clone invocation for url into dest. When
// ref is set only that branch or tag is fetched.
func (c *Cloner) CloneCommand(url, ref, dest string) runner.Command {
	args := []string{c.binary, "clone", "--depth", "1"}
	if ref != "" {
		args = append(args, "--branch", ref)
	}
	args = append(args, url, dest)
	return runner.Command{Args: args}
}

// Clone shallow-clones url into dest. dest must not exist.
func (c *Cloner) Clone(ctx context.Context, url, ref, dest string) error {
	return c.exec.Run(ctx, c.CloneCommand(url, ref, dest))
}

// Revision returns the commit checked out in dir, or "" when it cannot be
// determined (e.g. when exec does not capture output).
func (c *Cloner) Revision(ctx context.Context, dir string) string {
	out, ok := c.exec.(OutputRunner)
	if !ok {
		return ""
	}

	rev, err := out.Output(ctx, runner.Command{
		Args: []string{c.binary, "rev-parse", "HEAD"},
		Dir:  dir,
	})
	if err != nil {
		return ""
	}
	return strings.TrimSpace(rev)
}
