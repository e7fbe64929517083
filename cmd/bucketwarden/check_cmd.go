// File: cmd/bucketwarden/check_cmd.go
package main

import (
	"errors"
	"fmt"

	"bucketwarden/internal/flags"
	"bucketwarden/internal/service"

	"github.com/spf13/cobra"
)

type checkFlags struct {
	provider   string
	policyFile string
	merge      bool
}

func newCheckCmd(app *appContainer) *cobra.Command {
	cmdFlags := checkFlags{}

	checkCmd := &cobra.Command{
		Use:   "check [bucket-name]",
		Short: "Report whether a bucket's lifecycle configuration matches the declared policy",
		Long: `Compares the bucket's current lifecycle configuration against the policy file
without writing anything. Exits 0 when they match and 2 on drift, so the
command can gate CI pipelines.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Reconciler.Check(cmd.Context(), service.ReconcileOptions{
				Bucket:     args[0],
				PolicyPath: cmdFlags.policyFile,
				Provider:   cmdFlags.provider,
				Merge:      cmdFlags.merge,
			})
			if errors.Is(err, service.ErrDriftDetected) {
				fmt.Println(app.ReportFormatter.FormatReconcileReport(reportView(result)))
				return err
			}
			if err != nil {
				return err
			}

			fmt.Printf("Bucket '%s' matches the declared policy (%s).\n", result.Bucket, result.Before.String())
			return nil
		},
	}

	checkCmd.Flags().StringVarP(&cmdFlags.policyFile, flags.PolicyFile, flags.PolicyFileShort, "", "Path to the desired lifecycle policy document, JSON or YAML (required)")
	checkCmd.MarkFlagRequired(flags.PolicyFile)
	checkCmd.Flags().StringVarP(&cmdFlags.provider, flags.Provider, flags.ProviderShort, "s3", "The provider where the bucket resides")
	checkCmd.Flags().BoolVar(&cmdFlags.merge, flags.Merge, false, "Compare against the merged view that preserves remote-only rules")

	return checkCmd
}
