package gate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mstepanov/execguard/internal/sandbox"
)

// DefaultRemote is the push target when an action does not name one.
const DefaultRemote = "origin"

// Executor runs one sandboxed command. *sandbox.Sandbox satisfies it; tests
// substitute a scripted fake.
type Executor interface {
	Execute(ctx context.Context, req sandbox.Request) (sandbox.Result, error)
}

// Preview describes what an action would do, in execution order. It is
// shown to the user before confirmation and never includes secret values.
type Preview struct {
	Branch      string
	Message     string
	Remote      string
	Push        bool
	StagedFiles []string
	Operations  []string
}

// Outcome is the gate's decision for one action.
type Outcome struct {
	// Proceed is true when the action may be executed now.
	Proceed bool

	// Reason explains a false Proceed: dry-run mode or missing confirmation.
	Reason string

	Preview Preview
}

// Step is one executed command of an action's sequence.
type Step struct {
	Name   string
	Result sandbox.Result
	Ok     bool
}

// RunResult is the terminal state of one Run call.
type RunResult struct {
	Outcome Outcome
	Steps   []Step

	// Committed is true once the commit step succeeded. A later push
	// failure does not revoke it.
	Committed bool

	// Pushed is true when the push step succeeded.
	Pushed bool

	// PushError carries a failed push's reason. The local commit stands.
	PushError string

	// FailedStep names the fatal step that aborted the sequence, if any.
	FailedStep string
}

// Gate evaluates and executes confirmable actions. Safe for concurrent use.
type Gate struct {
	exec    Executor
	workDir string
	dryRun  bool
	logger  *slog.Logger
}

// New creates a Gate operating in workDir. A nil logger disables logging.
func New(exec Executor, workDir string, dryRun bool, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Gate{exec: exec, workDir: workDir, dryRun: dryRun, logger: logger}
}

// Evaluate decides whether the action may proceed and builds its preview.
// The only external access is a read-only staged-files query through the
// sandbox; nothing is mutated regardless of the decision.
func (g *Gate) Evaluate(ctx context.Context, action ConfirmableAction) Outcome {
	preview := g.buildPreview(ctx, action)

	switch {
	case g.dryRun:
		return Outcome{Reason: "dry-run mode: no commands executed", Preview: preview}
	case action.destructive() && !action.Confirmed:
		return Outcome{Reason: "confirmation required for " + action.Kind.String(), Preview: preview}
	default:
		return Outcome{Proceed: true, Preview: preview}
	}
}

// Run executes the action's git sequence after a positive evaluation. A
// negative evaluation returns immediately with the preview and no side
// effects. Commit failure aborts the sequence; push failure is reported in
// PushError but leaves the local commit standing. The error return is
// reserved for executor failures, not for failing git commands.
func (g *Gate) Run(ctx context.Context, action ConfirmableAction) (RunResult, error) {
	out := g.Evaluate(ctx, action)
	res := RunResult{Outcome: out}
	if !out.Proceed {
		g.logger.Debug("action withheld", "id", action.ID, "kind", action.Kind.String(), "reason", out.Reason)
		return res, nil
	}

	if action.Params.Branch != "" {
		step, err := g.step(ctx, "create branch", []string{"git", "checkout", "-b", action.Params.Branch})
		if err != nil {
			return res, err
		}
		res.Steps = append(res.Steps, step)
		if !step.Ok {
			res.FailedStep = step.Name
			return res, nil
		}
	}
	if action.Kind == KindBranchCreate {
		return res, nil
	}

	sequence := []struct {
		name string
		argv []string
	}{
		{"stage changes", []string{"git", "add", "-A"}},
		{"commit", []string{"git", "commit", "-m", action.Params.Message}},
	}
	for _, s := range sequence {
		step, err := g.step(ctx, s.name, s.argv)
		if err != nil {
			return res, err
		}
		res.Steps = append(res.Steps, step)
		if !step.Ok {
			res.FailedStep = step.Name
			return res, nil
		}
	}
	res.Committed = true

	if action.Params.Push {
		step, err := g.step(ctx, "push", []string{"git", "push", remoteOf(action.Params), "HEAD"})
		if err != nil {
			return res, err
		}
		res.Steps = append(res.Steps, step)
		if step.Ok {
			res.Pushed = true
		} else {
			res.PushError = pushFailure(step.Result)
			g.logger.Warn("push failed, local commit stands", "id", action.ID, "err", res.PushError)
		}
	}
	return res, nil
}

func (g *Gate) step(ctx context.Context, name string, argv []string) (Step, error) {
	req := sandbox.NewRequest("", g.workDir)
	req.Argv = argv
	result, err := g.exec.Execute(ctx, req)
	if err != nil {
		return Step{}, fmt.Errorf("%s: %w", name, err)
	}
	return Step{Name: name, Result: result, Ok: result.Succeeded}, nil
}

// buildPreview assembles the ordered operation list and queries the staged
// files read-only. A failing query degrades to an empty list rather than
// blocking the preview.
func (g *Gate) buildPreview(ctx context.Context, action ConfirmableAction) Preview {
	p := Preview{
		Branch:  action.Params.Branch,
		Message: action.Params.Message,
		Remote:  remoteOf(action.Params),
		Push:    action.Params.Push,
	}

	if action.Params.Branch != "" {
		p.Operations = append(p.Operations, fmt.Sprintf("create branch %q", action.Params.Branch))
	}
	if action.Kind == KindCommitPush {
		p.StagedFiles = g.stagedFiles(ctx)
		p.Operations = append(p.Operations,
			"stage all changes",
			fmt.Sprintf("commit %q", action.Params.Message))
		if action.Params.Push {
			p.Operations = append(p.Operations, fmt.Sprintf("push to %s", p.Remote))
		}
	}
	return p
}

func (g *Gate) stagedFiles(ctx context.Context) []string {
	req := sandbox.NewRequest("git diff --name-only --cached", g.workDir)
	result, err := g.exec.Execute(ctx, req)
	if err != nil || !result.Succeeded {
		g.logger.Debug("staged-files query failed", "err", err, "violation", result.Violation.String())
		return nil
	}
	var files []string
	for _, line := range strings.Split(result.Stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files
}

func remoteOf(p Params) string {
	if p.Remote != "" {
		return p.Remote
	}
	return DefaultRemote
}

func pushFailure(r sandbox.Result) string {
	if r.Reason != "" {
		return r.Reason
	}
	if msg := strings.TrimSpace(r.Stderr); msg != "" {
		return msg
	}
	return fmt.Sprintf("exit code %d", r.ExitCode)
}
