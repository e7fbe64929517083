// File: cmd/bucketwarden/reconcile_cmd.go
package main

import (
	"errors"
	"fmt"
	"os"

	"bucketwarden/internal/flags"
	"bucketwarden/internal/service"
	"bucketwarden/internal/ui/prompt"
	"bucketwarden/pkg/formatter"

	"github.com/spf13/cobra"
)

type reconcileFlags struct {
	provider        string
	policyFile      string
	merge           bool
	skipObjectCount bool
	snapshotDir     string
	force           bool
}

func newReconcileCmd(app *appContainer) *cobra.Command {
	cmdFlags := reconcileFlags{}

	reconcileCmd := &cobra.Command{
		Use:   "reconcile [bucket-name]",
		Short: "Drive a bucket's lifecycle configuration to the declared policy",
		Long: `Reads the bucket's current lifecycle configuration, compares it to the policy
file and applies the policy when they differ. The remote configuration is
snapshotted before any write, and the write is verified with a fresh read.
A converged bucket sees no mutating calls at all.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := service.ReconcileOptions{
				Bucket:          args[0],
				PolicyPath:      cmdFlags.policyFile,
				Provider:        cmdFlags.provider,
				Merge:           cmdFlags.merge,
				SkipObjectCount: cmdFlags.skipObjectCount,
				SnapshotDir:     cmdFlags.snapshotDir,
			}

			if !cmdFlags.force {
				prompter := newPrompter()
				opts.Confirm = func(bucket string) (bool, error) {
					message := fmt.Sprintf("Lifecycle configuration drift detected on bucket '%s'. The declared policy will replace the current configuration.", bucket)
					return prompter.Confirm(message, bucket)
				}
			}

			result, err := app.Reconciler.Reconcile(cmd.Context(), opts)
			if errors.Is(err, service.ErrConfirmationDeclined) {
				fmt.Println("Aborted, no changes were made.")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Println(app.ReportFormatter.FormatReconcileReport(reportView(result)))
			return nil
		},
	}

	reconcileCmd.Flags().StringVarP(&cmdFlags.policyFile, flags.PolicyFile, flags.PolicyFileShort, "", "Path to the desired lifecycle policy document, JSON or YAML (required)")
	reconcileCmd.MarkFlagRequired(flags.PolicyFile)
	reconcileCmd.Flags().StringVarP(&cmdFlags.provider, flags.Provider, flags.ProviderShort, "s3", "The provider where the bucket resides")
	reconcileCmd.Flags().BoolVar(&cmdFlags.merge, flags.Merge, false, "Preserve remote-only rules instead of replacing the whole configuration")
	reconcileCmd.Flags().BoolVar(&cmdFlags.skipObjectCount, flags.SkipObjectCount, false, "Skip the object sampling pass in the summary")
	reconcileCmd.Flags().StringVar(&cmdFlags.snapshotDir, flags.SnapshotDir, os.TempDir(), "Directory for the pre-apply snapshot of the remote configuration")
	reconcileCmd.Flags().BoolVar(&cmdFlags.force, flags.Force, false, "Apply without the interactive confirmation prompt")

	return reconcileCmd
}

// Picks the interactive prompter when stdin is a terminal, the plain
// line-reader otherwise (pipes, CI).
func newPrompter() prompt.Prompter {
	if info, err := os.Stdin.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
		return prompt.NewInteractivePrompter()
	}
	return prompt.NewStandardPrompter(os.Stdin, os.Stderr)
}

func reportView(result service.Result) formatter.ReconcileReport {
	return formatter.ReconcileReport{
		Bucket:       result.Bucket,
		Provider:     result.Provider,
		Outcome:      string(result.Outcome),
		Before:       result.Before.String(),
		After:        result.After.String(),
		ObjectCount:  result.Objects.Count,
		Sampled:      result.Objects.Sampled,
		SnapshotPath: result.SnapshotPath,
	}
}
