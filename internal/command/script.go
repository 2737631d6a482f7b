package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Script is an external process invocation. It runs without a shell.
type Script struct {
	Name string
	Args []string
}

// Shell returns a Script that hands line to sh -c.
func Shell(line string) Script {
	return Script{Name: "sh", Args: []string{"-c", line}}
}

// WithArgs returns a copy of s with extra appended to its arguments.
func (s Script) WithArgs(extra ...string) Script {
	args := make([]string, 0, len(s.Args)+len(extra))
	args = append(args, s.Args...)
	args = append(args, extra...)
	return Script{Name: s.Name, Args: args}
}

func (s Script) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	return s.Name + " " + strings.Join(s.Args, " ")
}

// ProcessError reports a process that could not start or exited non-zero.
type ProcessError struct {
	Script   Script
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("command %q failed", e.Script.String())
	if e.ExitCode > 0 {
		msg = fmt.Sprintf("%s with exit code %d", msg, e.ExitCode)
	}
	if e.Stderr != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Stderr)
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// Run executes the script and returns its trimmed standard output. When ctx
// ends first the process is killed.
func (s Script) Run(ctx context.Context) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cmd := exec.CommandContext(ctx, s.Name, s.Args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		perr := &ProcessError{Script: s, Stderr: strings.TrimSpace(stderr.String()), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			perr.ExitCode = exitErr.ExitCode()
		}
		return strings.TrimSpace(stdout.String()), perr
	}
	return strings.TrimSpace(stdout.String()), nil
}
