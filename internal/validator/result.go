// Package validator classifies raw shell commands as allowed or denied
// before any process is created.
//
// The decision is three-layered: a denylist of unconditionally dangerous
// patterns, a shell-metacharacter check that defeats command chaining, and
// an allowlist mapping base executables to permitted argument prefixes.
// Validation is deterministic and side-effect-free; it never touches the
// filesystem or the network.
package validator

import "strings"

// Result is the outcome of validating a single raw command. It is produced
// once per command and never mutated.
type Result struct {
	// Allowed reports whether the command may be executed.
	Allowed bool

	// SanitizedCommand is the whitespace-normalized command, set only when
	// Allowed is true.
	SanitizedCommand string

	// Reason is a human-readable explanation, set only when Allowed is false.
	Reason string
}

// Command is a raw command string with its derived argv. Immutable once
// parsed.
type Command struct {
	Raw  string
	Argv []string
}

// ParseCommand derives the (base executable, arguments) form of a raw
// command. The raw string is split on whitespace only — quoting is not
// interpreted, because validated commands are spawned directly rather than
// through a shell.
func ParseCommand(raw string) Command {
	return Command{
		Raw:  strings.TrimSpace(raw),
		Argv: strings.Fields(raw),
	}
}

// Program returns the base executable, or "" for an empty command.
func (c Command) Program() string {
	if len(c.Argv) == 0 {
		return ""
	}
	return c.Argv[0]
}

// Args returns the arguments after the base executable.
func (c Command) Args() []string {
	if len(c.Argv) == 0 {
		return nil
	}
	return c.Argv[1:]
}
