package validator

import (
	"errors"
	"fmt"

	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// ParseAllowlist parses a Starlark rules source into an Allowlist. Two
// builtins are available:
//
//	allow_prefix(pattern=["git", ["status", "log"]], reason="...")
//	allow_any("pwd", reason="...")
//
// allow_prefix registers an argument-prefix pattern whose first element
// names the program. allow_any registers a zero-risk utility permitted with
// any arguments.
func ParseAllowlist(filename, source string) (*Allowlist, error) {
	allowlist := NewAllowlist()

	allowPrefix := starlark.NewBuiltin("allow_prefix", func(
		thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple,
	) (starlark.Value, error) {
		var (
			patternVal *starlark.List
			reason     string
		)
		if err := starlark.UnpackArgs(fn.Name(), args, kwargs,
			"pattern", &patternVal,
			"reason?", &reason,
		); err != nil {
			return nil, err
		}

		pattern, err := patternFromStarlark(patternVal)
		if err != nil {
			return nil, err
		}
		if len(pattern) == 0 {
			return nil, fmt.Errorf("allow_prefix pattern must not be empty")
		}
		if pattern[0].Kind != TokenSingle {
			return nil, fmt.Errorf("allow_prefix pattern must start with a program name, not an alternative list")
		}

		allowlist.AddRule(&AllowRule{Pattern: pattern, Reason: reason})
		return starlark.None, nil
	})

	allowAny := starlark.NewBuiltin("allow_any", func(
		thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple,
	) (starlark.Value, error) {
		var (
			program string
			reason  string
		)
		if err := starlark.UnpackArgs(fn.Name(), args, kwargs,
			"program", &program,
			"reason?", &reason,
		); err != nil {
			return nil, err
		}
		if program == "" {
			return nil, fmt.Errorf("allow_any program must not be empty")
		}

		allowlist.AddAnyArgs(program, reason)
		return starlark.None, nil
	})

	predeclared := starlark.StringDict{
		"allow_prefix": allowPrefix,
		"allow_any":    allowAny,
	}

	thread := &starlark.Thread{Name: filename}
	if _, err := starlark.ExecFile(thread, filename, source, predeclared); err != nil {
		return nil, &ParseError{
			File:    filename,
			Line:    errorLine(err),
			Message: fmt.Sprintf("starlark parse error: %v", err),
			Cause:   err,
		}
	}

	return allowlist, nil
}

// errorLine extracts the source line from a starlark error, or 0 when the
// error carries no position.
func errorLine(err error) int {
	// Builtin frames carry no source position; walk outward to the
	// nearest frame that does.
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		for i := len(evalErr.CallStack) - 1; i >= 0; i-- {
			if line := int(evalErr.CallStack[i].Pos.Line); line > 0 {
				return line
			}
		}
	}
	var resolveErrs resolve.ErrorList
	if errors.As(err, &resolveErrs) && len(resolveErrs) > 0 {
		return int(resolveErrs[0].Pos.Line)
	}
	var syntaxErr syntax.Error
	if errors.As(err, &syntaxErr) {
		return int(syntaxErr.Pos.Line)
	}
	return 0
}

// patternFromStarlark converts a Starlark list into a PrefixPattern. Each
// element is either a string (TokenSingle) or a list of strings (TokenAlts).
func patternFromStarlark(list *starlark.List) (PrefixPattern, error) {
	pattern := make(PrefixPattern, 0, list.Len())

	iter := list.Iterate()
	defer iter.Done()
	var val starlark.Value
	for iter.Next(&val) {
		switch v := val.(type) {
		case starlark.String:
			s := string(v)
			if s == "" {
				return nil, fmt.Errorf("pattern token must not be empty string")
			}
			pattern = append(pattern, PatternToken{Kind: TokenSingle, Single: s})
		case *starlark.List:
			alts, err := stringsFromStarlark(v)
			if err != nil {
				return nil, fmt.Errorf("alternative list: %w", err)
			}
			if len(alts) == 0 {
				return nil, fmt.Errorf("alternative list must not be empty")
			}
			pattern = append(pattern, PatternToken{Kind: TokenAlts, Alts: alts})
		default:
			return nil, fmt.Errorf("pattern element must be string or list of strings, got %s", val.Type())
		}
	}

	return pattern, nil
}

func stringsFromStarlark(list *starlark.List) ([]string, error) {
	result := make([]string, 0, list.Len())
	iter := list.Iterate()
	defer iter.Done()
	var val starlark.Value
	for iter.Next(&val) {
		s, ok := val.(starlark.String)
		if !ok {
			return nil, fmt.Errorf("expected string, got %s", val.Type())
		}
		str := string(s)
		if str == "" {
			return nil, fmt.Errorf("alternative must not be empty string")
		}
		result = append(result, str)
	}
	return result, nil
}
