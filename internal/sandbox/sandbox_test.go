package sandbox

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mstepanov/execguard/internal/config"
	"github.com/mstepanov/execguard/internal/validator"
)

// testRules permits the helper binaries these tests spawn, including one
// that does not exist so the spawn-failure path can be exercised.
const testRules = `
allow_any("echo")
allow_any("sleep")
allow_any("yes")
allow_any("ls")
allow_any("no-such-binary-execguard-test")
`

func testSandbox(t *testing.T, opts ...Option) *Sandbox {
	t.Helper()
	allowlist, err := validator.ParseAllowlist("test.rules", testRules)
	require.NoError(t, err)

	cfg := config.Config{
		TimeoutMS:      10_000,
		MaxMemoryBytes: 512 * 1024 * 1024,
		MaxOutputBytes: 1024 * 1024,
	}
	return New(cfg, validator.New(allowlist), nil, opts...)
}

func TestExecute_NaturalExit(t *testing.T) {
	s := testSandbox(t)

	res, err := s.Execute(context.Background(), NewRequest("echo hello", t.TempDir()))
	require.NoError(t, err)

	assert.True(t, res.Succeeded)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, ViolationNone, res.Violation)
	assert.Equal(t, "hello\n", res.Stdout)
	assert.Empty(t, res.Reason)
}

func TestExecute_ArgvCarriesEmbeddedWhitespace(t *testing.T) {
	s := testSandbox(t)

	req := NewRequest("", t.TempDir())
	req.Argv = []string{"echo", "two words"}

	res, err := s.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, res.Succeeded)
	assert.Equal(t, "two words\n", res.Stdout)
}

func TestExecute_NonZeroExit(t *testing.T) {
	s := testSandbox(t)

	res, err := s.Execute(context.Background(), NewRequest("ls /definitely/not/a/path", t.TempDir()))
	require.NoError(t, err)

	assert.False(t, res.Succeeded)
	assert.NotEqual(t, 0, res.ExitCode)
	assert.Equal(t, ViolationNone, res.Violation)
	assert.NotEmpty(t, res.Stderr)
}

func TestExecute_NotAllowed(t *testing.T) {
	s := testSandbox(t)

	res, err := s.Execute(context.Background(), NewRequest("rm -rf /", t.TempDir()))
	require.NoError(t, err)

	assert.False(t, res.Succeeded)
	assert.Equal(t, ViolationNotAllowed, res.Violation)
	assert.NotEmpty(t, res.Reason)
	assert.Empty(t, res.Stdout)
}

func TestExecute_SpawnFailure(t *testing.T) {
	s := testSandbox(t)

	res, err := s.Execute(context.Background(), NewRequest("no-such-binary-execguard-test", t.TempDir()))
	require.NoError(t, err)

	assert.False(t, res.Succeeded)
	assert.Equal(t, ViolationProcessError, res.Violation)
	assert.Contains(t, res.Reason, "spawn failed")
}

func TestExecute_Timeout(t *testing.T) {
	s := testSandbox(t, WithGraceWindow(time.Second))

	req := NewRequest("sleep 5", t.TempDir())
	req.Timeout = 150 * time.Millisecond

	start := time.Now()
	res, err := s.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, ViolationTimeout, res.Violation)
	assert.False(t, res.Succeeded)
	assert.Contains(t, res.Reason, "deadline")
	// Resolution must land well before the sleep would have finished:
	// timeout + grace + scheduling slack.
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestExecute_OutputExceeded(t *testing.T) {
	s := testSandbox(t, WithGraceWindow(time.Second))

	req := NewRequest("yes", t.TempDir())
	req.MaxOutputBytes = 4096
	req.Timeout = 10 * time.Second

	res, err := s.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, ViolationOutputExceeded, res.Violation)
	assert.False(t, res.Succeeded)
	assert.LessOrEqual(t, len(res.Stdout), 4096)
	assert.Contains(t, res.Reason, "output exceeded")
}

func TestExecute_ContextCancellation(t *testing.T) {
	s := testSandbox(t, WithGraceWindow(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	res, err := s.Execute(ctx, NewRequest("sleep 5", t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, ViolationTimeout, res.Violation)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestExecute_MalformedRequest(t *testing.T) {
	s := testSandbox(t)

	cases := []Request{
		{Command: "echo hi", Timeout: -time.Second},
		{Command: "echo hi", MaxMemoryBytes: -1},
		{Command: "echo hi", MaxOutputBytes: -1},
	}
	for _, req := range cases {
		_, err := s.Execute(context.Background(), req)
		assert.Error(t, err)
	}
}

func TestExecute_DefaultsApplied(t *testing.T) {
	s := testSandbox(t)

	req, err := s.normalize(Request{Command: "echo hi"})
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, req.Timeout)
	assert.Equal(t, int64(512*1024*1024), req.MaxMemoryBytes)
	assert.Equal(t, int64(1024*1024), req.MaxOutputBytes)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", req.ID.String())
}

func TestExecute_ConcurrentInvocations(t *testing.T) {
	s := testSandbox(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.Execute(context.Background(), NewRequest("echo concurrent", t.TempDir()))
			assert.NoError(t, err)
			assert.True(t, res.Succeeded)
		}()
	}
	wg.Wait()
}

func TestChildEnv_MemoryHintsInjected(t *testing.T) {
	s := testSandbox(t)

	env := s.childEnv(512 * 1024 * 1024)
	joined := strings.Join(env, "\n")

	assert.Contains(t, joined, "GOMEMLIMIT=536870912")
	assert.Contains(t, joined, "NODE_OPTIONS=--max-old-space-size=512")
}

func TestChildEnv_CredentialsScrubbed(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-secret")
	s := testSandbox(t)

	joined := strings.Join(s.childEnv(1024*1024), "\n")
	assert.NotContains(t, joined, "sk-secret")
}
