// Package worker spawns and supervises the external worker processes the
// pipeline delegates its real work to. Workers may be long-lived and
// interactive, so stdio is passed straight through and no timeout is imposed;
// cancellation arrives via context and is translated into a graceful stop.
package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// DefaultGracePeriod is how long a worker gets between SIGTERM and SIGKILL
// once the run context is cancelled.
const DefaultGracePeriod = 10 * time.Second

// Invocation describes one worker spawn. Env entries are KEY=VALUE pairs
// appended to the child's environment only; the parent environment is never
// mutated.
type Invocation struct {
	Command string
	Args    []string
	Dir     string
	Env     []string
}

// String renders the invocation as a shell-pasteable command line, used in
// error messages so a failed stage can be re-run by hand.
func (inv Invocation) String() string {
	parts := make([]string, 0, len(inv.Args)+1)
	parts = append(parts, inv.Command)
	for _, arg := range inv.Args {
		if strings.ContainsAny(arg, " \t\"'") {
			parts = append(parts, fmt.Sprintf("%q", arg))
		} else {
			parts = append(parts, arg)
		}
	}
	return strings.Join(parts, " ")
}

// Option customizes a Runner.
type Option func(*Runner)

// WithGracePeriod overrides the TERM-to-KILL escalation delay.
func WithGracePeriod(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.grace = d
		}
	}
}

// WithStdio redirects the child's stdio, used by tests. Nil values keep the
// process defaults.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdin = stdin
		r.stdout = stdout
		r.stderr = stderr
	}
}

// Runner executes one worker invocation at a time. The child inherits the
// caller's terminal; on context cancellation the child receives SIGTERM,
// then SIGKILL after the grace period. Nothing about the supervision
// outlives Run, so repeated calls never accumulate handlers.
type Runner struct {
	grace  time.Duration
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewRunner builds a Runner with inherited stdio and the default grace period.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		grace:  DefaultGracePeriod,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Run spawns the invocation and blocks until the child exits. The exit code
// is returned as the platform reports it: a clean wait maps to 0, a nonzero
// exit is returned as-is with a nil error (the caller decides fatal vs.
// continue), and a signal-terminated child reports -1 together with an error.
// A cancelled context also yields a non-nil error after the child is stopped.
func (r *Runner) Run(ctx context.Context, inv Invocation) (int, error) {
	if strings.TrimSpace(inv.Command) == "" {
		return -1, fmt.Errorf("worker: empty command")
	}
	cmd := exec.Command(inv.Command, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Stdin = r.stdin
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	if len(inv.Env) > 0 {
		cmd.Env = append(os.Environ(), inv.Env...)
	}
	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("worker: start %s: %w", inv.Command, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case waitErr := <-done:
		return exitCode(waitErr)
	case <-ctx.Done():
	}

	// Graceful stop: TERM, bounded wait, then KILL. The wait goroutine above
	// still owns the final Wait result.
	_ = cmd.Process.Signal(syscall.SIGTERM)
	timer := time.NewTimer(r.grace)
	defer timer.Stop()
	select {
	case waitErr := <-done:
		code, _ := exitCode(waitErr)
		return code, fmt.Errorf("worker: %s interrupted: %w", inv.Command, ctx.Err())
	case <-timer.C:
		_ = cmd.Process.Kill()
	}
	waitErr := <-done
	code, _ := exitCode(waitErr)
	return code, fmt.Errorf("worker: %s killed after %s grace: %w", inv.Command, r.grace, ctx.Err())
}

// exitCode normalizes a Wait error. Only a genuinely reported clean exit maps
// to 0; a signal-terminated process surfaces -1 plus the wait error rather
// than being assumed successful.
func exitCode(waitErr error) (int, error) {
	if waitErr == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		code := exitErr.ExitCode()
		if code >= 0 {
			return code, nil
		}
		return code, fmt.Errorf("worker: terminated by signal: %w", waitErr)
	}
	return -1, fmt.Errorf("worker: wait: %w", waitErr)
}
