package resolver

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/depskew/pkg/errors"
)

// DefaultNPM is the npm executable looked up on PATH.
const DefaultNPM = "npm"

// Runner executes name with args in dir and returns its standard output.
type Runner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// ExecRunner runs the command with os/exec. Standard error is discarded.
func ExecRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = io.Discard
	err := cmd.Run()
	return stdout.Bytes(), err
}

// NPM fetches the tree by running `npm ls [names...] --all --json`.
type NPM struct {
	// Bin is the npm executable. Empty means DefaultNPM.
	Bin string
	// Dir is the project directory npm runs in.
	Dir string
	// Run executes the command. Nil means ExecRunner.
	Run    Runner
	Logger *log.Logger
}

// Name returns "npm".
func (n *NPM) Name() string { return "npm" }

// Args returns the npm arguments used for names.
func Args(names []string) []string {
	args := append([]string{"ls"}, names...)
	return append(args, "--all", "--json")
}

// Fetch runs npm. npm exits non-zero when the tree has problems (missing or
// invalid packages) but still prints the JSON tree, so a non-zero exit is
// only logged. A failure to start npm at all is an error.
func (n *NPM) Fetch(ctx context.Context, names []string) ([]byte, error) {
	bin := n.Bin
	if bin == "" {
		bin = DefaultNPM
	}
	run := n.Run
	if run == nil {
		run = ExecRunner
	}
	logger := n.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	args := Args(names)
	logger.Debug("running npm", "bin", bin, "dir", n.Dir, "args", args)

	out, err := run(ctx, n.Dir, bin, args...)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) && len(out) == 0 {
			return nil, errs.Wrap(errs.ErrCodeResolverFailed, err, "run %s", bin)
		}
		logger.Debug("npm ls exited with error", "error", err)
	}
	return out, nil
}

// Ensure NPM implements Fetcher.
var _ Fetcher = (*NPM)(nil)
