// Package gitsafety analyzes argv vectors for git (and a few adjacent
// tools) to decide whether an invocation is destructive, read-only, or
// expresses an intent that must be routed through the confirmation gate.
// Analysis is purely lexical; no repository state is consulted.
package gitsafety

import (
	"path/filepath"
	"strings"
)

// IsDestructive reports whether the command could discard or overwrite
// work: history rewrites, forced pushes, branch or file deletion.
func IsDestructive(argv []string) bool {
	if len(argv) == 0 {
		return false
	}

	cmd0 := argv[0]
	base := filepath.Base(cmd0)

	switch {
	case base == "git":
		idx, subcommand, found := FindSubcommand(argv, []string{"reset", "rm", "branch", "push", "clean"})
		if !found {
			return false
		}
		switch subcommand {
		case "reset", "rm":
			return true
		case "branch":
			return branchIsDelete(argv[idx+1:])
		case "push":
			return PushIsForced(argv[idx+1:])
		case "clean":
			return cleanIsForce(argv[idx+1:])
		}
		return false

	case cmd0 == "rm":
		if len(argv) > 1 {
			arg1 := argv[1]
			if arg1 == "-f" || arg1 == "-rf" || arg1 == "-fr" {
				return true
			}
		}
		return false

	case cmd0 == "sudo":
		if len(argv) > 1 {
			return IsDestructive(argv[1:])
		}
		return false
	}

	return false
}

// IsReadOnlyGit reports whether argv is a git invocation that cannot
// mutate the repository or execute external commands. Such commands may
// bypass the confirmation gate.
func IsReadOnlyGit(argv []string) bool {
	if len(argv) == 0 || filepath.Base(argv[0]) != "git" {
		return false
	}

	// Config overrides like `-c core.pager=...` can make git run
	// arbitrary external commands.
	if hasConfigOverride(argv) {
		return false
	}

	idx, subcommand, found := FindSubcommand(argv, []string{"status", "log", "diff", "show", "branch", "rev-parse"})
	if !found {
		return false
	}

	rest := argv[idx+1:]
	switch subcommand {
	case "status", "log", "diff", "show", "rev-parse":
		return argsAreReadOnly(rest)
	case "branch":
		return argsAreReadOnly(rest) && branchIsListOnly(rest)
	}
	return false
}

// FindSubcommand locates the first git subcommand among candidates,
// skipping global options. In git the first non-option token is the
// subcommand, so scanning stops there either way.
func FindSubcommand(argv []string, candidates []string) (idx int, name string, found bool) {
	if len(argv) == 0 || filepath.Base(argv[0]) != "git" {
		return 0, "", false
	}

	skipNext := false
	for i := 1; i < len(argv); i++ {
		if skipNext {
			skipNext = false
			continue
		}
		arg := argv[i]

		if isGlobalOptionWithInlineValue(arg) {
			continue
		}
		if isGlobalOptionWithValue(arg) {
			skipNext = true
			continue
		}
		if arg == "--" || strings.HasPrefix(arg, "-") {
			continue
		}

		for _, c := range candidates {
			if arg == c {
				return i, arg, true
			}
		}
		return 0, "", false
	}
	return 0, "", false
}

// PushIsForced reports whether push arguments force-update or delete
// remote refs.
func PushIsForced(pushArgs []string) bool {
	for _, arg := range pushArgs {
		switch arg {
		case "--force", "--force-with-lease", "--force-if-includes", "--delete", "-f", "-d":
			return true
		}
		if strings.HasPrefix(arg, "--force-with-lease=") ||
			strings.HasPrefix(arg, "--force-if-includes=") ||
			strings.HasPrefix(arg, "--delete=") {
			return true
		}
		if shortFlagGroupContains(arg, 'f') || shortFlagGroupContains(arg, 'd') {
			return true
		}
		if refspecIsForced(arg) {
			return true
		}
	}
	return false
}

// refspecIsForced: `+<refspec>` forces updates and `:<dst>` deletes the
// remote ref.
func refspecIsForced(arg string) bool {
	return (strings.HasPrefix(arg, "+") || strings.HasPrefix(arg, ":")) && len(arg) > 1
}

func branchIsDelete(branchArgs []string) bool {
	for _, arg := range branchArgs {
		if arg == "-d" || arg == "-D" || arg == "--delete" || strings.HasPrefix(arg, "--delete=") {
			return true
		}
		if shortFlagGroupContains(arg, 'd') || shortFlagGroupContains(arg, 'D') {
			return true
		}
	}
	return false
}

func branchIsListOnly(branchArgs []string) bool {
	if len(branchArgs) == 0 {
		return true
	}
	sawListFlag := false
	for _, arg := range branchArgs {
		switch arg {
		case "--list", "-l", "--show-current", "-a", "--all", "-r", "--remotes",
			"-v", "-vv", "--verbose":
			sawListFlag = true
		default:
			if strings.HasPrefix(arg, "--format=") {
				sawListFlag = true
			} else {
				// Anything else may create, rename, or delete branches.
				return false
			}
		}
	}
	return sawListFlag
}

func cleanIsForce(cleanArgs []string) bool {
	for _, arg := range cleanArgs {
		if arg == "--force" || arg == "-f" || strings.HasPrefix(arg, "--force=") {
			return true
		}
		if shortFlagGroupContains(arg, 'f') {
			return true
		}
	}
	return false
}

func argsAreReadOnly(args []string) bool {
	unsafe := []string{"--output", "--ext-diff", "--textconv", "--exec", "--paginate"}
	for _, arg := range args {
		for _, flag := range unsafe {
			if arg == flag {
				return false
			}
		}
		if strings.HasPrefix(arg, "--output=") || strings.HasPrefix(arg, "--exec=") {
			return false
		}
	}
	return true
}

func hasConfigOverride(argv []string) bool {
	for _, arg := range argv {
		if arg == "-c" || arg == "--config-env" {
			return true
		}
		if strings.HasPrefix(arg, "-c") && len(arg) > 2 {
			return true
		}
		if strings.HasPrefix(arg, "--config-env=") {
			return true
		}
	}
	return false
}

// shortFlagGroupContains checks whether a short-flag group like "-dv"
// carries the target flag character.
func shortFlagGroupContains(arg string, target byte) bool {
	if !strings.HasPrefix(arg, "-") || strings.HasPrefix(arg, "--") {
		return false
	}
	for i := 1; i < len(arg); i++ {
		if arg[i] == target {
			return true
		}
	}
	return false
}

func isGlobalOptionWithValue(arg string) bool {
	switch arg {
	case "-C", "-c", "--config-env", "--exec-path", "--git-dir", "--namespace", "--work-tree":
		return true
	}
	return false
}

func isGlobalOptionWithInlineValue(arg string) bool {
	for _, prefix := range []string{
		"--config-env=", "--exec-path=", "--git-dir=", "--namespace=", "--work-tree=",
	} {
		if strings.HasPrefix(arg, prefix) {
			return true
		}
	}
	// -C<value> or -c<value> with the value inline.
	if (strings.HasPrefix(arg, "-C") || strings.HasPrefix(arg, "-c")) && len(arg) > 2 {
		return true
	}
	return false
}
