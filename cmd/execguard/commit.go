package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mstepanov/execguard/internal/gate"
)

var (
	commitMessage string
	commitBranch  string
	commitRemote  string
	commitPush    bool
	commitYes     bool
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Stage, commit, and optionally push through the confirmation gate",
	Long: `Run the gated git sequence: create a branch if requested, stage all
changes, commit, and optionally push.

Without --yes the planned operations and the staged files are previewed
and nothing is executed. A failed push leaves the local commit in place.

Examples:
  execguard commit -m "fix watcher race"
  execguard commit -m "fix watcher race" --branch fix/watcher --push --yes`,
	RunE: runCommit,
}

func init() {
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "Commit message (required)")
	commitCmd.Flags().StringVar(&commitBranch, "branch", "", "Create and switch to this branch first")
	commitCmd.Flags().StringVar(&commitRemote, "remote", "", "Push target (default origin)")
	commitCmd.Flags().BoolVar(&commitPush, "push", false, "Push after committing")
	commitCmd.Flags().BoolVarP(&commitYes, "yes", "y", false, "Confirm the destructive action")
	commitCmd.MarkFlagRequired("message")
	rootCmd.AddCommand(commitCmd)
}

func runCommit(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	st := defaultStyles()

	action := gate.NewAction(gate.KindCommitPush, gate.Params{
		Branch:  commitBranch,
		Message: commitMessage,
		Remote:  commitRemote,
		Push:    commitPush,
	})
	action.Confirmed = commitYes

	res, err := a.gate.Run(cmd.Context(), action)
	if err != nil {
		return err
	}

	renderPreview(st, res.Outcome.Preview)

	if !res.Outcome.Proceed {
		fmt.Printf("\n%s %s\n", st.Warn.Render("withheld:"), res.Outcome.Reason)
		if !commitYes && !dryRun {
			fmt.Println(st.Dim.Render("re-run with --yes to execute"))
		}
		return nil
	}

	fmt.Println()
	for _, step := range res.Steps {
		if step.Ok {
			fmt.Printf("%s %s\n", st.Allowed.Render("done:"), step.Name)
		} else {
			fmt.Printf("%s %s\n", st.Rejected.Render("failed:"), step.Name)
		}
	}

	if res.FailedStep != "" {
		return fmt.Errorf("%s failed", res.FailedStep)
	}
	if res.PushError != "" {
		fmt.Printf("%s push failed, local commit stands: %s\n", st.Warn.Render("warning:"), res.PushError)
	}
	return nil
}

func renderPreview(st styles, p gate.Preview) {
	fmt.Println(st.Header.Render("Planned operations"))
	for _, op := range p.Operations {
		fmt.Printf("  %s %s\n", st.Bullet.Render("•"), op)
	}
	if len(p.StagedFiles) > 0 {
		fmt.Println(st.Header.Render("Staged files"))
		for _, f := range p.StagedFiles {
			fmt.Printf("  %s\n", st.Dim.Render(f))
		}
	}
}
