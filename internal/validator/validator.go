package validator

import (
	"fmt"
	"strings"
)

// shellMetachars are the characters that enable piping, redirection,
// backgrounding, and command chaining. Their presence anywhere in a command
// defeats the allowlist, so they are rejected outright.
const shellMetachars = "|&;<>"

// metacharReason is the fixed rejection reason for commands containing
// shell metacharacters.
const metacharReason = "shell redirection/piping not allowed"

// Validator classifies raw commands against the denylist and allowlist.
// Safe for concurrent use: the allowlist is immutable after construction.
type Validator struct {
	allowlist *Allowlist
}

// New creates a Validator over the given allowlist.
func New(allowlist *Allowlist) *Validator {
	return &Validator{allowlist: allowlist}
}

// NewDefault creates a Validator over the built-in allowlist only.
func NewDefault() *Validator {
	return New(DefaultAllowlist())
}

// Validate classifies a raw command. The denylist and the metacharacter
// check both run before any allowlist lookup, so a dangerous command can
// never be rescued by an allowlist coincidence. When both trip, the
// metacharacter reason wins: it names the mechanism the caller must remove
// before the rest of the command can even be considered.
func (v *Validator) Validate(rawCommand string) Result {
	return v.classify(ParseCommand(rawCommand), true)
}

// ValidateArgv classifies a pre-split argument vector. The denylist scan
// still runs over the joined form, so an argument that smuggles a
// dangerous pattern is rejected. The metacharacter check is skipped:
// argv elements are passed to the program literally, so a `&` inside a
// commit message cannot chain commands.
func (v *Validator) ValidateArgv(argv []string) Result {
	return v.classify(Command{
		Raw:  strings.TrimSpace(strings.Join(argv, " ")),
		Argv: argv,
	}, false)
}

func (v *Validator) classify(cmd Command, checkMetachars bool) Result {
	if cmd.Raw == "" {
		return Result{Allowed: false, Reason: "empty command"}
	}

	denyClass := matchDenylist(cmd.Raw)

	if checkMetachars {
		if idx := strings.IndexAny(cmd.Raw, shellMetachars); idx >= 0 {
			head := strings.TrimSpace(cmd.Raw[:idx])
			if head != cmd.Raw {
				return Result{Allowed: false, Reason: metacharReason}
			}
		}
	}

	if denyClass != "" {
		return Result{Allowed: false, Reason: fmt.Sprintf("dangerous pattern: %s", denyClass)}
	}

	if !v.allowlist.Knows(cmd.Program()) {
		return Result{
			Allowed: false,
			Reason:  fmt.Sprintf("executable %q is not in the allowlist", cmd.Program()),
		}
	}
	if !v.allowlist.Permits(cmd.Argv) {
		return Result{
			Allowed: false,
			Reason:  fmt.Sprintf("arguments not permitted for %q", cmd.Program()),
		}
	}

	return Result{
		Allowed:          true,
		SanitizedCommand: strings.Join(cmd.Argv, " "),
	}
}
