package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mstepanov/execguard/internal/gitsafety"
	"github.com/mstepanov/execguard/internal/sandbox"
)

var (
	runTimeout   time.Duration
	runMaxOutput int64
)

var runCmd = &cobra.Command{
	Use:   "run <command>...",
	Short: "Execute an allowed command in the sandbox",
	Long: `Validate a command and execute it under the configured limits.

The command is spawned directly, never through a shell, in its own
process group. Git commits, pushes, and branch creation are refused
here; they go through "execguard commit" and "execguard branch" so the
confirmation gate can preview them.

Examples:
  execguard run go test ./...
  execguard run --timeout 10s npm run build`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Execution deadline (default from config)")
	runCmd.Flags().Int64Var(&runMaxOutput, "max-output", 0, "Per-stream output cap in bytes (default from config)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	st := defaultStyles()

	// Destructive git intents belong to the confirmation gate.
	if intent, ok := gitsafety.Classify(args); ok {
		switch intent.Kind {
		case gitsafety.IntentCommit, gitsafety.IntentPush:
			return fmt.Errorf("git %s must go through %q so it can be previewed and confirmed",
				intent.Kind, "execguard commit")
		case gitsafety.IntentBranchCreate:
			return fmt.Errorf("git %s must go through %q so it can be previewed and confirmed",
				intent.Kind, "execguard branch")
		}
	}

	req := sandbox.NewRequest("", a.workDir)
	req.Argv = args
	req.Timeout = runTimeout
	req.MaxOutputBytes = runMaxOutput

	res, err := a.sandbox.Execute(cmd.Context(), req)
	if err != nil {
		return err
	}

	os.Stdout.WriteString(res.Stdout)
	os.Stderr.WriteString(res.Stderr)

	switch {
	case res.Succeeded:
		fmt.Fprintf(os.Stderr, "%s\n", st.Dim.Render(fmt.Sprintf("ok in %s", res.Duration.Round(time.Millisecond))))
		return nil
	case res.Violation != sandbox.ViolationNone:
		fmt.Fprintf(os.Stderr, "%s %s\n", st.Rejected.Render(res.Violation.String()+":"), res.Reason)
		return fmt.Errorf("execution stopped: %s", res.Violation)
	default:
		return fmt.Errorf("exit code %d", res.ExitCode)
	}
}
