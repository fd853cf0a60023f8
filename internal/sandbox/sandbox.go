package sandbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mstepanov/execguard/internal/config"
	"github.com/mstepanov/execguard/internal/execenv"
	"github.com/mstepanov/execguard/internal/validator"
)

// DefaultGraceWindow is how long a terminated process gets to exit after
// the graceful signal before the forceful kill is sent.
const DefaultGraceWindow = 5 * time.Second

// Sandbox executes validated commands with enforced limits. Safe for
// concurrent use; invocations share only the immutable configuration and
// allowlist.
type Sandbox struct {
	cfg       config.Config
	validator *validator.Validator
	logger    *slog.Logger
	grace     time.Duration
	envPolicy execenv.Policy
}

// Option customizes a Sandbox.
type Option func(*Sandbox)

// WithGraceWindow overrides the terminate-to-kill escalation window.
func WithGraceWindow(d time.Duration) Option {
	return func(s *Sandbox) { s.grace = d }
}

// WithEnvPolicy overrides the child environment policy.
func WithEnvPolicy(p execenv.Policy) Option {
	return func(s *Sandbox) { s.envPolicy = p }
}

// New creates a Sandbox. A nil logger disables logging.
func New(cfg config.Config, v *validator.Validator, logger *slog.Logger, opts ...Option) *Sandbox {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Sandbox{
		cfg:       cfg,
		validator: v,
		logger:    logger,
		grace:     DefaultGraceWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs one request to its single terminal outcome. Runtime and
// policy violations are reported in the Result; the error return is
// reserved for malformed requests (non-positive limits).
//
// Caller cancellation through ctx is treated like the deadline firing: the
// process group is torn down and the result carries ViolationTimeout.
func (s *Sandbox) Execute(ctx context.Context, req Request) (Result, error) {
	req, err := s.normalize(req)
	if err != nil {
		return Result{}, err
	}

	var vres validator.Result
	argv := req.Argv
	if len(argv) > 0 {
		vres = s.validator.ValidateArgv(argv)
	} else {
		vres = s.validator.Validate(req.Command)
		argv = strings.Fields(vres.SanitizedCommand)
	}
	if !vres.Allowed {
		s.logger.Debug("command rejected", "id", req.ID, "reason", vres.Reason)
		return Result{ExitCode: -1, Violation: ViolationNotAllowed, Reason: vres.Reason}, nil
	}

	// Spawn the argv directly, never through a shell interpreter.
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = req.WorkingDir
	cmd.Stdin = nil
	cmd.Env = s.childEnv(req.MaxMemoryBytes)
	setupProcessGroup(cmd)

	r := newResolver()
	done := make(chan struct{})
	onExceed := func() {
		if r.settle(ViolationOutputExceeded) {
			s.teardown(cmd, done)
		}
	}
	stdout := newCapWriter(req.MaxOutputBytes, onExceed)
	stderr := newCapWriter(req.MaxOutputBytes, onExceed)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		s.logger.Warn("spawn failed", "id", req.ID, "command", argv[0], "err", err)
		return Result{
			ExitCode:  -1,
			Violation: ViolationProcessError,
			Reason:    fmt.Sprintf("spawn failed: %v", err),
		}, nil
	}
	s.logger.Debug("spawned", "id", req.ID, "pid", cmd.Process.Pid, "timeout", req.Timeout)

	timer := time.AfterFunc(req.Timeout, func() {
		if r.settle(ViolationTimeout) {
			s.teardown(cmd, done)
		}
	})
	go func() {
		select {
		case <-ctx.Done():
			if r.settle(ViolationTimeout) {
				s.teardown(cmd, done)
			}
		case <-done:
		}
	}()

	waitErr := cmd.Wait()
	timer.Stop()
	close(done)
	duration := time.Since(start)

	// Natural exit claims the outcome unless a limit already has.
	r.settle(ViolationNone)

	res := Result{
		ExitCode:  -1,
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Violation: r.outcome(),
		Duration:  duration,
	}

	switch res.Violation {
	case ViolationNone:
		var exitErr *exec.ExitError
		switch {
		case waitErr == nil:
			res.ExitCode = 0
			res.Succeeded = true
		case errors.As(waitErr, &exitErr):
			res.ExitCode = exitErr.ExitCode()
		default:
			res.Violation = ViolationProcessError
			res.Reason = fmt.Sprintf("wait failed: %v", waitErr)
		}
	case ViolationTimeout:
		res.Reason = fmt.Sprintf("execution exceeded %s deadline", req.Timeout)
	case ViolationOutputExceeded:
		res.Reason = fmt.Sprintf("output exceeded %d bytes", req.MaxOutputBytes)
	}

	s.logger.Debug("resolved", "id", req.ID, "violation", res.Violation.String(),
		"exit_code", res.ExitCode, "duration", duration)
	return res, nil
}

// teardown is run by whichever event source won the race: graceful
// terminate now, forceful kill if the group is still alive after the grace
// window.
func (s *Sandbox) teardown(cmd *exec.Cmd, done <-chan struct{}) {
	if err := terminateGroup(cmd); err != nil {
		s.logger.Warn("terminate failed", "err", err)
	}
	grace := s.grace
	go func() {
		select {
		case <-done:
		case <-time.After(grace):
			if err := killGroup(cmd); err != nil {
				s.logger.Warn("kill failed", "err", err)
			}
		}
	}()
}

// childEnv builds the filtered child environment with the advisory memory
// hints layered on top. GOMEMLIMIT and NODE_OPTIONS are runtime hints, not
// an enforcement boundary: an arbitrary executable is free to ignore them.
func (s *Sandbox) childEnv(maxMemoryBytes int64) []string {
	p := s.envPolicy
	set := make(map[string]string, len(p.Set)+2)
	for k, v := range p.Set {
		set[k] = v
	}
	set["GOMEMLIMIT"] = strconv.FormatInt(maxMemoryBytes, 10)
	set["NODE_OPTIONS"] = fmt.Sprintf("--max-old-space-size=%d", maxMemoryBytes/(1024*1024))
	p.Set = set
	return p.Build()
}

// normalize fills zero limits from the configuration and rejects negative
// ones. A malformed request is a programming error, not a violation.
func (s *Sandbox) normalize(req Request) (Request, error) {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.Timeout == 0 {
		req.Timeout = time.Duration(s.cfg.TimeoutMS) * time.Millisecond
	}
	if req.MaxMemoryBytes == 0 {
		req.MaxMemoryBytes = s.cfg.MaxMemoryBytes
	}
	if req.MaxOutputBytes == 0 {
		req.MaxOutputBytes = s.cfg.MaxOutputBytes
	}
	if req.Timeout < 0 {
		return req, fmt.Errorf("timeout must be positive, got %s", req.Timeout)
	}
	if req.MaxMemoryBytes < 0 {
		return req, fmt.Errorf("max memory must be positive, got %d", req.MaxMemoryBytes)
	}
	if req.MaxOutputBytes < 0 {
		return req, fmt.Errorf("max output must be positive, got %d", req.MaxOutputBytes)
	}
	return req, nil
}
