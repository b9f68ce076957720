// Package runner acquires tool output: either by running the tool or by
// reading previously captured text. The parsers never touch processes.
package runner

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"codeberg.org/mutker/hwstat/internal/errors"
	"codeberg.org/mutker/hwstat/internal/logger"
)

const (
	ErrCommandFailed = errors.ErrCommandFailed
	ErrReadInput     = errors.ErrReadInput
	ErrTimeout       = errors.ErrTimeout
)

// commandError describes a failed invocation.
type commandError struct {
	Command  string
	ExitCode int
	Stderr   string
	Error    string
}

// Source supplies the raw text of one tool invocation.
type Source interface {
	Output(ctx context.Context) (string, error)
}

// Command runs an external binary.
type Command struct {
	Path    string
	Args    []string
	Timeout time.Duration
}

// Output runs the command and returns its stdout, decoded and with
// trailing whitespace trimmed.
func (c Command) Output(ctx context.Context) (string, error) {
	errFactory := errors.New()

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// A fixed locale keeps decimal points and dates in the expected layout.
	cmd.Env = append(os.Environ(), "LC_ALL=C")

	start := time.Now()
	err := cmd.Run()

	logger.Debug().
		Str("command", c.Path).
		Strs("args", c.Args).
		Dur("elapsed", time.Since(start)).
		Int("bytes", stdout.Len()).
		Msg("Command finished")

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", errFactory.Wrap(ErrTimeout, ctx.Err())
	}

	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return "", errFactory.WithData(ErrCommandFailed, commandError{
			Command:  c.Path,
			ExitCode: exitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
			Error:    err.Error(),
		})
	}

	return strings.TrimRight(stdout.String(), " \t\r\n"), nil
}

// File reads captured tool output from a path, or from Stdin when Path is "-".
type File struct {
	Path  string
	Stdin io.Reader
}

func (f File) Output(_ context.Context) (string, error) {
	errFactory := errors.New()

	var (
		data []byte
		err  error
	)
	if f.Path == "-" {
		in := f.Stdin
		if in == nil {
			in = os.Stdin
		}
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(f.Path)
	}
	if err != nil {
		return "", errFactory.Wrap(ErrReadInput, err)
	}

	return strings.TrimRight(string(data), " \t\r\n"), nil
}
