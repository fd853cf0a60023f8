package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <command>...",
	Short: "Validate a command without running it",
	Long: `Run a command through the validator and report the decision.

Nothing is executed; the result is the same decision "run" would make.

Examples:
  execguard check git status
  execguard check "rm -rf /tmp"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	st := defaultStyles()

	res := a.validator.Validate(strings.Join(args, " "))
	if res.Allowed {
		fmt.Printf("%s %s\n", st.Allowed.Render("allowed:"), res.SanitizedCommand)
		return nil
	}
	fmt.Printf("%s %s\n", st.Rejected.Render("rejected:"), res.Reason)
	return fmt.Errorf("command rejected")
}
