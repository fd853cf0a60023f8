package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mstepanov/execguard/internal/keycheck"
	"github.com/mstepanov/execguard/internal/secrets"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the stored API credential",
	Long: `Store, inspect, delete, or verify the API key.

The key lives in the OS keychain when one is available; otherwise the
` + secrets.EnvFallback + ` environment variable is used read-only.
The key value is never printed or logged.`,
}

var keySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the API key",
	RunE:  runKeySet,
}

var keyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether a key is present",
	RunE:  runKeyStatus,
}

var keyDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored key",
	RunE:  runKeyDelete,
}

var keyVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the stored key against the API",
	RunE:  runKeyVerify,
}

func init() {
	keyCmd.AddCommand(keySetCmd, keyStatusCmd, keyDeleteCmd, keyVerifyCmd)
	rootCmd.AddCommand(keyCmd)
}

func runKeySet(cmd *cobra.Command, args []string) error {
	store := secrets.New(newLogger(verbose))
	st := defaultStyles()

	key, err := readSecret("API key: ")
	if err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("empty key")
	}

	if !store.Set(key) {
		return fmt.Errorf("keychain unavailable; export %s instead", secrets.EnvFallback)
	}
	fmt.Println(st.Allowed.Render("key stored"))
	return nil
}

func runKeyStatus(cmd *cobra.Command, args []string) error {
	store := secrets.New(newLogger(verbose))
	st := defaultStyles()

	if store.BackendAvailable() {
		fmt.Println("backend: keychain")
	} else {
		fmt.Printf("backend: environment (%s)\n", secrets.EnvFallback)
	}
	if _, ok := store.Get(); ok {
		fmt.Println(st.Allowed.Render("key: present"))
	} else {
		fmt.Println(st.Warn.Render("key: not set"))
	}
	return nil
}

func runKeyDelete(cmd *cobra.Command, args []string) error {
	store := secrets.New(newLogger(verbose))
	st := defaultStyles()

	if !store.Delete() {
		fmt.Println(st.Warn.Render("nothing deleted"))
		return nil
	}
	fmt.Println(st.Allowed.Render("key deleted"))
	return nil
}

func runKeyVerify(cmd *cobra.Command, args []string) error {
	store := secrets.New(newLogger(verbose))
	st := defaultStyles()

	key, ok := store.Get()
	if !ok {
		return fmt.Errorf("no key configured; run %q or export %s", "execguard key set", secrets.EnvFallback)
	}
	if err := keycheck.Verify(cmd.Context(), key); err != nil {
		return err
	}
	fmt.Println(st.Allowed.Render("key verified"))
	return nil
}

// readSecret reads a line without echo on a terminal, falling back to a
// plain line read when stdin is a pipe.
func readSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return "", scanner.Err()
	}
	return strings.TrimSpace(scanner.Text()), nil
}
