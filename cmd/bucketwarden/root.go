// File: cmd/bucketwarden/root.go
package main

import (
	"errors"
	"fmt"
	"os"

	"bucketwarden/internal/flags"
	"bucketwarden/internal/service"

	"github.com/spf13/cobra"
)

// Exit codes. Drift has its own code so check runs can drive CI gates.
const (
	exitOK      = 0
	exitFailure = 1
	exitDrift   = 2
)

func newRootCmd(app *appContainer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bucketwarden",
		Short: "Bucketwarden reconciles bucket lifecycle configurations against declared policies.",
		Long: `Bucketwarden drives a bucket's lifecycle configuration to a desired state
declared in a local policy file. It reads the remote configuration, compares
it to the policy, applies the policy on drift and verifies the write
converged. Read-only commands inspect buckets across configured providers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolP(flags.Debug, flags.DebugShort, false, "Enable verbose debug logging")

	rootCmd.AddCommand(
		newReconcileCmd(app),
		newCheckCmd(app),
		newBucketsCmd(app),
		newConfigCmd(app),
	)
	return rootCmd
}

func Execute(app *appContainer) {
	if err := newRootCmd(app).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, service.ErrDriftDetected) {
			os.Exit(exitDrift)
		}
		os.Exit(exitFailure)
	}
	os.Exit(exitOK)
}
