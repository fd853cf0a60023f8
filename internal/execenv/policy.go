// Package execenv builds the filtered environment handed to sandboxed
// child processes.
//
// The safety layer owns the process credentials; by default anything that
// looks like a credential (*KEY*, *SECRET*, *TOKEN*) is scrubbed from the
// child environment so a spawned command can never read the stored API key
// out of its own environ.
package execenv

import (
	"os"
	"sort"
	"strings"
)

// Inherit controls which variables form the starting set.
type Inherit string

const (
	// InheritAll starts from the full parent environment (default).
	InheritAll Inherit = "all"
	// InheritNone starts with an empty environment.
	InheritNone Inherit = "none"
	// InheritCore keeps only platform-essential variables.
	InheritCore Inherit = "core"
)

// coreVars are the platform-essential variables kept by InheritCore.
var coreVars = map[string]bool{
	"HOME":     true,
	"LOGNAME":  true,
	"PATH":     true,
	"SHELL":    true,
	"USER":     true,
	"USERNAME": true,
	"TMPDIR":   true,
	"TEMP":     true,
	"TMP":      true,
}

// credentialPatterns are scrubbed from the child environment unless
// KeepCredentialVars is set.
var credentialPatterns = []string{"*KEY*", "*SECRET*", "*TOKEN*"}

// Policy configures environment filtering for spawned processes.
//
// Derivation order: inherit starting set, scrub credential-looking vars,
// apply custom excludes, insert explicit sets.
type Policy struct {
	// Inherit selects the starting set. Empty means InheritAll.
	Inherit Inherit

	// KeepCredentialVars disables the credential scrub. Off by default:
	// spawned commands must not see the caller's API keys.
	KeepCredentialVars bool

	// Exclude removes variables whose names match these wildcard patterns
	// (case-insensitive; * and ? supported).
	Exclude []string

	// Set inserts explicit key=value pairs after filtering. This is where
	// the sandbox injects its advisory memory-limit hints.
	Set map[string]string
}

// Build derives the child environment from the current process environment,
// returned in the KEY=VALUE form expected by exec.Cmd. The slice is sorted
// for determinism.
func (p Policy) Build() []string {
	vars := make(map[string]string)
	for _, entry := range os.Environ() {
		if k, v, ok := strings.Cut(entry, "="); ok {
			vars[k] = v
		}
	}
	return p.BuildFrom(vars)
}

// BuildFrom derives the child environment from the given variables.
func (p Policy) BuildFrom(vars map[string]string) []string {
	env := make(map[string]string)

	inherit := p.Inherit
	if inherit == "" {
		inherit = InheritAll
	}
	switch inherit {
	case InheritAll:
		for k, v := range vars {
			env[k] = v
		}
	case InheritNone:
		// empty start
	case InheritCore:
		for k, v := range vars {
			if coreVars[k] {
				env[k] = v
			}
		}
	}

	if !p.KeepCredentialVars {
		for k := range env {
			if matchesAny(k, credentialPatterns) {
				delete(env, k)
			}
		}
	}

	for k := range env {
		if matchesAny(k, p.Exclude) {
			delete(env, k)
		}
	}

	for k, v := range p.Set {
		env[k] = v
	}

	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}

// matchesAny reports whether name matches any wildcard pattern,
// case-insensitively.
func matchesAny(name string, patterns []string) bool {
	nameLower := strings.ToLower(name)
	for _, pattern := range patterns {
		if wildcardMatch(nameLower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// wildcardMatch matches s against pattern where * matches any run of
// characters and ? matches exactly one. Both inputs must be lowercased.
// Iterative glob match with single-star backtracking.
func wildcardMatch(s, pattern string) bool {
	var si, pi int
	starPi, starSi := -1, 0
	for si < len(s) {
		switch {
		case pi < len(pattern) && (pattern[pi] == '?' || pattern[pi] == s[si]):
			si++
			pi++
		case pi < len(pattern) && pattern[pi] == '*':
			starPi, starSi = pi, si
			pi++
		case starPi >= 0:
			starSi++
			si = starSi
			pi = starPi + 1
		default:
			return false
		}
	}
	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}
