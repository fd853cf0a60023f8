package gitsafety

import "strings"

// IntentKind is the coarse purpose of a git invocation that the
// confirmation gate cares about.
type IntentKind int

const (
	IntentNone IntentKind = iota
	IntentCommit
	IntentPush
	IntentBranchCreate
)

func (k IntentKind) String() string {
	switch k {
	case IntentCommit:
		return "commit"
	case IntentPush:
		return "push"
	case IntentBranchCreate:
		return "branch-create"
	default:
		return "none"
	}
}

// Intent is what a git command is trying to do, with the parameters the
// gate needs to build its preview.
type Intent struct {
	Kind    IntentKind
	Branch  string
	Message string
	Remote  string
	Forced  bool
}

// Classify extracts the gate-relevant intent from a git argv. The second
// return is false for commands with no such intent (read-only queries,
// non-git programs, subcommands the gate does not own).
func Classify(argv []string) (Intent, bool) {
	idx, subcommand, found := FindSubcommand(argv, []string{"commit", "push", "branch", "checkout", "switch"})
	if !found {
		return Intent{}, false
	}
	rest := argv[idx+1:]

	switch subcommand {
	case "commit":
		return Intent{Kind: IntentCommit, Message: commitMessage(rest)}, true

	case "push":
		intent := Intent{Kind: IntentPush, Forced: PushIsForced(rest)}
		intent.Remote, intent.Branch = pushTargets(rest)
		return intent, true

	case "branch":
		if branchIsDelete(rest) || branchIsListOnly(rest) {
			return Intent{}, false
		}
		return Intent{Kind: IntentBranchCreate, Branch: firstPositional(rest)}, true

	case "checkout":
		if name, ok := flagValue(rest, "-b", "-B"); ok {
			return Intent{Kind: IntentBranchCreate, Branch: name}, true
		}
		return Intent{}, false

	case "switch":
		if name, ok := flagValue(rest, "-c", "-C", "--create"); ok {
			return Intent{Kind: IntentBranchCreate, Branch: name}, true
		}
		return Intent{}, false
	}
	return Intent{}, false
}

func commitMessage(args []string) string {
	for i, arg := range args {
		if arg == "-m" || arg == "--message" {
			if i+1 < len(args) {
				return args[i+1]
			}
			return ""
		}
		if strings.HasPrefix(arg, "--message=") {
			return strings.TrimPrefix(arg, "--message=")
		}
		if strings.HasPrefix(arg, "-m") && len(arg) > 2 {
			return arg[2:]
		}
	}
	return ""
}

// pushTargets reads the positional remote and refspec from push args.
func pushTargets(args []string) (remote, branch string) {
	var positionals []string
	skipNext := false
	for _, arg := range args {
		if skipNext {
			skipNext = false
			continue
		}
		switch arg {
		case "-o", "--push-option", "--repo", "--receive-pack", "--exec":
			skipNext = true
			continue
		}
		if strings.HasPrefix(arg, "-") {
			continue
		}
		positionals = append(positionals, arg)
	}
	if len(positionals) > 0 {
		remote = positionals[0]
	}
	if len(positionals) > 1 {
		branch = strings.TrimPrefix(positionals[1], "+")
	}
	return remote, branch
}

func firstPositional(args []string) string {
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			return arg
		}
	}
	return ""
}

// flagValue finds the value following any of the given flags, handling
// the --flag=value form for long flags.
func flagValue(args []string, flags ...string) (string, bool) {
	for i, arg := range args {
		for _, f := range flags {
			if arg == f {
				if i+1 < len(args) {
					return args[i+1], true
				}
				return "", true
			}
			if strings.HasPrefix(f, "--") && strings.HasPrefix(arg, f+"=") {
				return strings.TrimPrefix(arg, f+"="), true
			}
		}
	}
	return "", false
}
