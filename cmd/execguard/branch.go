package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mstepanov/execguard/internal/gate"
)

var branchYes bool

var branchCmd = &cobra.Command{
	Use:   "branch <name>",
	Short: "Create and switch to a branch through the confirmation gate",
	Long: `Create a new branch and switch to it.

Without --yes the planned operation is previewed and nothing is
executed.

Examples:
  execguard branch fix/watcher
  execguard branch fix/watcher --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runBranch,
}

func init() {
	branchCmd.Flags().BoolVarP(&branchYes, "yes", "y", false, "Confirm the destructive action")
	rootCmd.AddCommand(branchCmd)
}

func runBranch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	st := defaultStyles()

	action := gate.NewAction(gate.KindBranchCreate, gate.Params{Branch: args[0]})
	action.Confirmed = branchYes

	res, err := a.gate.Run(cmd.Context(), action)
	if err != nil {
		return err
	}

	renderPreview(st, res.Outcome.Preview)

	if !res.Outcome.Proceed {
		fmt.Printf("\n%s %s\n", st.Warn.Render("withheld:"), res.Outcome.Reason)
		if !branchYes && !dryRun {
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
	return nil
}
