package validator

// Allowlist maps base executables to their permitted argument-prefix
// patterns. Programs registered with AddAnyArgs are permitted with any
// arguments; that form is reserved for zero-risk read-only utilities.
//
// An Allowlist is built once at startup and treated as immutable afterwards.
type Allowlist struct {
	// rulesByProgram maps program name → prefix rules for that program.
	rulesByProgram map[string][]*AllowRule
	// anyArgs maps program name → reason for programs allowed with any args.
	anyArgs map[string]string
}

// NewAllowlist creates an empty allowlist.
func NewAllowlist() *Allowlist {
	return &Allowlist{
		rulesByProgram: make(map[string][]*AllowRule),
		anyArgs:        make(map[string]string),
	}
}

// AddRule registers a prefix rule, indexed by the pattern's program name.
func (a *Allowlist) AddRule(r *AllowRule) {
	name := r.Pattern.ProgramName()
	a.rulesByProgram[name] = append(a.rulesByProgram[name], r)
}

// AddAnyArgs registers a program permitted with any argument list.
func (a *Allowlist) AddAnyArgs(program, reason string) {
	a.anyArgs[program] = reason
}

// Knows reports whether the program has any allowlist entry at all.
func (a *Allowlist) Knows(program string) bool {
	if _, ok := a.anyArgs[program]; ok {
		return true
	}
	return len(a.rulesByProgram[program]) > 0
}

// Permits reports whether argv is permitted: either its program carries the
// any-args marker, or at least one registered prefix pattern matches.
func (a *Allowlist) Permits(argv []string) bool {
	if len(argv) == 0 {
		return false
	}
	if _, ok := a.anyArgs[argv[0]]; ok {
		return true
	}
	for _, r := range a.rulesByProgram[argv[0]] {
		if r.Matches(argv) {
			return true
		}
	}
	return false
}

// Merge adds all entries from another allowlist into this one.
func (a *Allowlist) Merge(other *Allowlist) {
	for name, rules := range other.rulesByProgram {
		a.rulesByProgram[name] = append(a.rulesByProgram[name], rules...)
	}
	for name, reason := range other.anyArgs {
		a.anyArgs[name] = reason
	}
}
