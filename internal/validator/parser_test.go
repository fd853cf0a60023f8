package validator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAllowlist_PrefixRule(t *testing.T) {
	source := `
allow_prefix(
    pattern = ["docker", ["ps", "images"]],
    reason = "read-only docker queries",
)
`
	allowlist, err := ParseAllowlist("test.rules", source)
	require.NoError(t, err)

	assert.True(t, allowlist.Permits([]string{"docker", "ps"}))
	assert.True(t, allowlist.Permits([]string{"docker", "images", "-a"}))
	assert.False(t, allowlist.Permits([]string{"docker", "run", "alpine"}))
	assert.False(t, allowlist.Permits([]string{"docker"}))
}

func TestParseAllowlist_AnyArgs(t *testing.T) {
	allowlist, err := ParseAllowlist("test.rules", `allow_any("hexdump", reason="read-only")`)
	require.NoError(t, err)

	assert.True(t, allowlist.Permits([]string{"hexdump"}))
	assert.True(t, allowlist.Permits([]string{"hexdump", "-C", "file.bin"}))
	assert.True(t, allowlist.Knows("hexdump"))
	assert.False(t, allowlist.Knows("xxd"))
}

func TestParseAllowlist_Errors(t *testing.T) {
	cases := []struct {
		name   string
		source string
	}{
		{"empty pattern", `allow_prefix(pattern = [])`},
		{"alts first", `allow_prefix(pattern = [["git", "hg"], "status"])`},
		{"empty token", `allow_prefix(pattern = [""])`},
		{"empty alternative", `allow_prefix(pattern = ["git", [""]])`},
		{"non-string token", `allow_prefix(pattern = [42])`},
		{"empty program", `allow_any("")`},
		{"syntax error", `allow_prefix(pattern = ["git"`},
		{"unknown builtin", `deny_prefix(pattern = ["rm"])`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseAllowlist("test.rules", tc.source)
			assert.Error(t, err)
		})
	}
}

func TestParseAllowlist_ParseErrorCarriesFile(t *testing.T) {
	_, err := ParseAllowlist("broken.rules", `allow_prefix(`)
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "broken.rules", parseErr.File)
}

func TestParseAllowlist_ParseErrorCarriesLine(t *testing.T) {
	// Syntax error on line 2.
	_, err := ParseAllowlist("broken.rules", "\nallow_prefix(")
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.Line)
	assert.Contains(t, parseErr.Error(), "broken.rules:2:")

	// Builtin rejection on line 3 surfaces the call site.
	_, err = ParseAllowlist("broken.rules", "\n\nallow_prefix(pattern = [42])\n")
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 3, parseErr.Line)
}

func TestParseError_FormatWithoutLine(t *testing.T) {
	err := &ParseError{File: "x.rules", Message: "boom"}
	assert.Equal(t, "x.rules: boom", err.Error())
}

func TestDefaultAllowlist_Parses(t *testing.T) {
	allowlist := DefaultAllowlist()
	assert.True(t, allowlist.Permits([]string{"git", "status"}))
	assert.True(t, allowlist.Permits([]string{"ls", "-la"}))
	assert.False(t, allowlist.Permits([]string{"git", "rebase"}))
}

func TestLoadAllowlist_MissingRulesDir(t *testing.T) {
	allowlist, err := LoadAllowlist(t.TempDir())
	require.NoError(t, err)

	// Built-in rules still apply.
	assert.True(t, allowlist.Permits([]string{"git", "status"}))
}

func TestLoadAllowlist_MergesUserRules(t *testing.T) {
	home := t.TempDir()
	rulesDir := filepath.Join(home, "rules")
	require.NoError(t, os.MkdirAll(rulesDir, 0o755))

	userRules := `allow_prefix(pattern = ["kubectl", ["get", "describe"]], reason = "read-only")`
	require.NoError(t, os.WriteFile(filepath.Join(rulesDir, "k8s.rules"), []byte(userRules), 0o644))
	// Non-.rules files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(rulesDir, "notes.txt"), []byte("junk"), 0o644))

	allowlist, err := LoadAllowlist(home)
	require.NoError(t, err)

	assert.True(t, allowlist.Permits([]string{"kubectl", "get", "pods"}))
	assert.False(t, allowlist.Permits([]string{"kubectl", "delete", "pod"}))
	assert.True(t, allowlist.Permits([]string{"git", "status"}))
}

func TestLoadAllowlist_BadRulesFile(t *testing.T) {
	home := t.TempDir()
	rulesDir := filepath.Join(home, "rules")
	require.NoError(t, os.MkdirAll(rulesDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(rulesDir, "bad.rules"), []byte("allow_prefix("), 0o644))

	_, err := LoadAllowlist(home)
	assert.Error(t, err)
}

func TestPatternToken_Matches(t *testing.T) {
	single := PatternToken{Kind: TokenSingle, Single: "git"}
	assert.True(t, single.Matches("git"))
	assert.False(t, single.Matches("hg"))

	alts := PatternToken{Kind: TokenAlts, Alts: []string{"status", "log"}}
	assert.True(t, alts.Matches("log"))
	assert.False(t, alts.Matches("push"))
}

func TestPrefixPattern_ProgramName(t *testing.T) {
	pp := PrefixPattern{{Kind: TokenSingle, Single: "git"}}
	assert.Equal(t, "git", pp.ProgramName())

	assert.Equal(t, "", PrefixPattern{}.ProgramName())
	assert.Equal(t, "", PrefixPattern{{Kind: TokenAlts, Alts: []string{"a"}}}.ProgramName())
}
