package validator

// defaultRules is the built-in allowlist, always loaded first. User rules
// files can extend it but the denylist still applies to everything.
//
// allow_any is reserved for read-only utilities that cannot mutate state no
// matter their arguments. Anything that can write goes through allow_prefix
// with an explicit argument prefix.
const defaultRules = `
# Zero-risk read-only utilities: any arguments.
allow_any("ls", reason="directory listing")
allow_any("pwd", reason="print working directory")
allow_any("cat", reason="file read")
allow_any("head", reason="file read")
allow_any("tail", reason="file read")
allow_any("wc", reason="line/word count")
allow_any("echo", reason="prints its arguments")
allow_any("which", reason="binary lookup")
allow_any("whoami", reason="identity query")
allow_any("uname", reason="platform query")
allow_any("stat", reason="file metadata")
allow_any("date", reason="clock read")
allow_any("grep", reason="content search")
allow_any("rg", reason="content search")
allow_any("true", reason="no-op")
allow_any("false", reason="no-op")

# git: read operations plus the subcommands the confirmation gate drives.
allow_prefix(
    pattern = ["git", [
        "status", "log", "diff", "show", "branch", "rev-parse", "remote",
        "add", "commit", "push", "checkout", "switch",
    ]],
    reason = "git operations used by the assistant; destructive ones are gated upstream",
)

# Build and test tooling: restricted to known subcommands.
allow_prefix(
    pattern = ["go", ["build", "test", "vet", "fmt", "list", "version", "env"]],
    reason = "Go toolchain",
)
allow_prefix(
    pattern = ["npm", ["test", "run", "install", "ci", "ls", "list", "--version"]],
    reason = "npm toolchain",
)
allow_prefix(
    pattern = ["cargo", ["build", "test", "check", "fmt", "--version"]],
    reason = "cargo toolchain",
)
allow_prefix(
    pattern = ["python", ["--version", "-V"]],
    reason = "interpreter version query only",
)
allow_prefix(
    pattern = ["node", ["--version", "-v"]],
    reason = "interpreter version query only",
)
allow_prefix(
    pattern = ["sleep"],
    reason = "bounded by the sandbox timeout",
)
`

// DefaultAllowlist parses the built-in rules. Panics on failure — the
// embedded source is part of the binary and must always parse.
func DefaultAllowlist() *Allowlist {
	allowlist, err := ParseAllowlist("builtin.rules", defaultRules)
	if err != nil {
		panic("builtin allowlist rules failed to parse: " + err.Error())
	}
	return allowlist
}
