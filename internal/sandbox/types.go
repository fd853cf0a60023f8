// Package sandbox executes validated commands as isolated child processes
// under enforced timeout and output-size bounds.
//
// Each execution spawns one OS process in its own session; invocations are
// independent and may run concurrently. Within one invocation three event
// sources race to produce the single terminal result — timer expiry,
// output-threshold crossing, and natural process exit — arbitrated by a
// settle-once resolver so exactly one of them wins.
package sandbox

import (
	"time"

	"github.com/google/uuid"
)

// Violation identifies the resource or policy limit that terminated or
// rejected an execution.
type Violation int

const (
	// ViolationNone means the process ran to natural exit.
	ViolationNone Violation = iota
	// ViolationTimeout means the wall-clock deadline fired.
	ViolationTimeout
	// ViolationOutputExceeded means a stream crossed the output cap.
	ViolationOutputExceeded
	// ViolationProcessError means the process could not be spawned.
	ViolationProcessError
	// ViolationNotAllowed means the command failed validation.
	ViolationNotAllowed
)

// String returns the violation name.
func (v Violation) String() string {
	switch v {
	case ViolationNone:
		return "none"
	case ViolationTimeout:
		return "timeout"
	case ViolationOutputExceeded:
		return "output-exceeded"
	case ViolationProcessError:
		return "process-error"
	case ViolationNotAllowed:
		return "not-allowed"
	default:
		return "unknown"
	}
}

// Request describes one command execution. Zero limit fields mean "use the
// configured default"; after normalization every limit is positive.
type Request struct {
	// ID correlates the request with its result in logs.
	ID uuid.UUID

	// Command is the raw command string. It is re-validated before spawning
	// regardless of what the caller already did.
	Command string

	// Argv, when non-empty, is the pre-split argument vector to spawn and
	// takes precedence over Command. It carries arguments that contain
	// whitespace (commit messages) without a lossy string round trip.
	Argv []string

	// WorkingDir is an already-resolved absolute directory path.
	WorkingDir string

	// Timeout is the wall-clock deadline measured from spawn.
	Timeout time.Duration

	// MaxMemoryBytes is the advisory memory ceiling passed to the child as
	// runtime hints. Not an isolation boundary.
	MaxMemoryBytes int64

	// MaxOutputBytes caps the bytes retained from each of stdout and stderr.
	MaxOutputBytes int64
}

// NewRequest creates a Request with a fresh ID and default limits.
func NewRequest(command, workingDir string) Request {
	return Request{
		ID:         uuid.New(),
		Command:    command,
		WorkingDir: workingDir,
	}
}

// Result is the single terminal outcome of a Request.
type Result struct {
	// Succeeded is true only for a natural exit with status zero.
	Succeeded bool

	// ExitCode is the process exit status; -1 when the process was killed
	// or never ran.
	ExitCode int

	// Stdout holds captured standard output, truncated to MaxOutputBytes.
	Stdout string

	// Stderr holds captured standard error, truncated to MaxOutputBytes.
	Stderr string

	// Violation names the limit or policy that stopped the execution;
	// ViolationNone for a natural exit.
	Violation Violation

	// Reason is a human-readable explanation for non-None violations.
	Reason string

	// Duration is the wall-clock time from spawn to resolution.
	Duration time.Duration
}
