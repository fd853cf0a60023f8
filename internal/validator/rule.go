package validator

// TokenKind distinguishes single-value tokens from alternative sets.
type TokenKind int

const (
	// TokenSingle matches exactly one string value.
	TokenSingle TokenKind = iota
	// TokenAlts matches any of a set of alternative strings.
	TokenAlts
)

// PatternToken is a single element in an argument-prefix pattern. It matches
// either exactly one string or any of a set of alternatives.
type PatternToken struct {
	Kind   TokenKind
	Single string   // used when Kind == TokenSingle
	Alts   []string // used when Kind == TokenAlts
}

// Matches reports whether the token matches the given argv element.
func (pt *PatternToken) Matches(s string) bool {
	switch pt.Kind {
	case TokenSingle:
		return pt.Single == s
	case TokenAlts:
		for _, alt := range pt.Alts {
			if alt == s {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// PrefixPattern is a sequence of tokens matched against a command prefix.
// The first token names the program and must be a single value.
type PrefixPattern []PatternToken

// Matches reports whether the pattern is a prefix of the given argv.
func (pp PrefixPattern) Matches(argv []string) bool {
	if len(argv) < len(pp) {
		return false
	}
	for i, token := range pp {
		if !token.Matches(argv[i]) {
			return false
		}
	}
	return true
}

// ProgramName returns the program named by the first token, or "" when the
// pattern is empty or its first token is an alternative set.
func (pp PrefixPattern) ProgramName() string {
	if len(pp) == 0 {
		return ""
	}
	if pp[0].Kind == TokenSingle {
		return pp[0].Single
	}
	return ""
}

// AllowRule permits commands whose argv starts with the rule's pattern.
type AllowRule struct {
	Pattern PrefixPattern
	// Reason documents why the prefix is considered safe. Informational only.
	Reason string
}

// Matches reports whether argv is permitted by this rule.
func (r *AllowRule) Matches(argv []string) bool {
	return r.Pattern.Matches(argv)
}
