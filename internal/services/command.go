package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command describes one external tool invocation.
type Command struct {
	Name string
	Args []string
	// Env entries are appended to the parent environment for this invocation only.
	Env []string
	// Stdout and Stderr receive the child's streams. Nil discards stdout and
	// keeps the stderr tail for error reporting.
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for logs.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	parts = append(parts, c.Args...)
	return strings.Join(parts, " ")
}

// CommandRunner executes a Command. Tests inject fakes through the clients'
// WithCommandRunner options.
type CommandRunner func(ctx context.Context, cmd Command) error

const stderrTailLimit = 2048

// RunCommand executes cmd with os/exec.
func RunCommand(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...) //nolint:gosec
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.Stdout = c.Stdout

	var stderr bytes.Buffer
	if c.Stderr != nil {
		cmd.Stderr = io.MultiWriter(c.Stderr, &tailWriter{buf: &stderr})
	} else {
		cmd.Stderr = &tailWriter{buf: &stderr}
	}

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return fmt.Errorf("%s: %w", c.Name, err)
		}
		return fmt.Errorf("%s: %w: %s", c.Name, err, detail)
	}
	return nil
}

// tailWriter keeps only the last stderrTailLimit bytes written to it.
type tailWriter struct {
	buf *bytes.Buffer
}

func (w *tailWriter) Write(p []byte) (int, error) {
	n := len(p)
	w.buf.Write(p)
	if over := w.buf.Len() - stderrTailLimit; over > 0 {
		w.buf.Next(over)
	}
	return n, nil
}
