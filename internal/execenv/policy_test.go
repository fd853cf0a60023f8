package execenv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sample() map[string]string {
	return map[string]string{
		"HOME":              "/home/dev",
		"PATH":              "/usr/bin",
		"EDITOR":            "vim",
		"ANTHROPIC_API_KEY": "sk-secret",
		"AWS_SECRET_ACCESS": "abc",
		"GITHUB_TOKEN":      "ghp_x",
	}
}

func asMap(t *testing.T, env []string) map[string]string {
	t.Helper()
	out := make(map[string]string, len(env))
	for _, e := range env {
		k, v, ok := trim(e)
		assert.True(t, ok, "malformed entry %q", e)
		out[k] = v
	}
	return out
}

func trim(entry string) (string, string, bool) {
	for i := 0; i < len(entry); i++ {
		if entry[i] == '=' {
			return entry[:i], entry[i+1:], true
		}
	}
	return "", "", false
}

func TestBuildFrom_DefaultScrubsCredentials(t *testing.T) {
	env := asMap(t, Policy{}.BuildFrom(sample()))

	assert.NotContains(t, env, "ANTHROPIC_API_KEY")
	assert.NotContains(t, env, "AWS_SECRET_ACCESS")
	assert.NotContains(t, env, "GITHUB_TOKEN")
	assert.Equal(t, "/home/dev", env["HOME"])
	assert.Equal(t, "vim", env["EDITOR"])
}

func TestBuildFrom_KeepCredentialVars(t *testing.T) {
	env := asMap(t, Policy{KeepCredentialVars: true}.BuildFrom(sample()))
	assert.Equal(t, "sk-secret", env["ANTHROPIC_API_KEY"])
}

func TestBuildFrom_InheritCore(t *testing.T) {
	env := asMap(t, Policy{Inherit: InheritCore}.BuildFrom(sample()))

	assert.Contains(t, env, "HOME")
	assert.Contains(t, env, "PATH")
	assert.NotContains(t, env, "EDITOR")
}

func TestBuildFrom_InheritNone(t *testing.T) {
	env := Policy{Inherit: InheritNone}.BuildFrom(sample())
	assert.Empty(t, env)
}

func TestBuildFrom_CustomExclude(t *testing.T) {
	env := asMap(t, Policy{Exclude: []string{"EDI*"}}.BuildFrom(sample()))
	assert.NotContains(t, env, "EDITOR")
	assert.Contains(t, env, "HOME")
}

func TestBuildFrom_SetInsertsAfterFiltering(t *testing.T) {
	p := Policy{
		Inherit: InheritNone,
		Set:     map[string]string{"GOMEMLIMIT": "536870912"},
	}
	env := asMap(t, p.BuildFrom(sample()))
	assert.Equal(t, map[string]string{"GOMEMLIMIT": "536870912"}, env)
}

func TestBuildFrom_SortedOutput(t *testing.T) {
	env := Policy{}.BuildFrom(sample())
	for i := 1; i < len(env); i++ {
		assert.LessOrEqual(t, env[i-1], env[i])
	}
}

func TestWildcardMatch(t *testing.T) {
	cases := []struct {
		s, pattern string
		want       bool
	}{
		{"anthropic_api_key", "*key*", true},
		{"github_token", "*token*", true},
		{"home", "*key*", false},
		{"abc", "a?c", true},
		{"abc", "a?d", false},
		{"anything", "*", true},
		{"", "*", true},
		{"", "?", false},
		{"key", "key", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, wildcardMatch(tc.s, tc.pattern), "%q vs %q", tc.s, tc.pattern)
	}
}
