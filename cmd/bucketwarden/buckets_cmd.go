// File: cmd/bucketwarden/buckets_cmd.go
package main

import (
	"fmt"
	"strings"

	"bucketwarden/internal/flags"
	"bucketwarden/internal/provider/factory"
	"bucketwarden/internal/provider/registry"

	"github.com/spf13/cobra"
)

type bucketsFlags struct {
	providersList []string
	provider      string
	prefix        string
}

func newBucketsCmd(app *appContainer) *cobra.Command {
	cmdFlags := bucketsFlags{}

	bucketsCmd := &cobra.Command{
		Use:   "buckets",
		Short: "Inspect buckets across configured providers",
		Long:  `The buckets command lists and describes buckets and their objects. All subcommands are read-only.`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List buckets",
		Long: `Lists buckets from configured providers. If no flags are provided, it queries
all configured providers. Use the --providers flag to restrict the query
(e.g., --providers s3,gcs).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			providersToQuery, err := resolveProvidersForList(cmdFlags.providersList, app.ProviderFactory)
			if err != nil {
				return err
			}

			allBuckets, err := app.InspectService.ListAllBuckets(cmd.Context(), providersToQuery)
			if err != nil {
				return err
			}

			if len(allBuckets) > 0 {
				fmt.Println(app.StorageFormatter.FormatBucketList(allBuckets))
			} else {
				if len(providersToQuery) == 0 {
					fmt.Printf("No providers configured. Use 'bucketwarden config set'. Supported providers: %s\n", strings.Join(registry.GetSupportedProviders(), ", "))
				} else {
					fmt.Println("No buckets found.")
				}
			}
			return nil
		},
	}
	listCmd.Flags().StringSliceVarP(&cmdFlags.providersList, flags.Providers, flags.ProvidersShort, []string{}, "Specify providers to query (comma-separated). Defaults to all configured providers.")

	describeCmd := &cobra.Command{
		Use:   "describe [bucket-name]",
		Short: "Describe a specific bucket",
		Long:  `Provides detailed information about a bucket, including its lifecycle rules. You must specify the bucket name and the --provider flag.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucketName := args[0]
			providerName := cmdFlags.provider

			bucketDetails, err := app.InspectService.DescribeBucket(cmd.Context(), bucketName, providerName)
			if err != nil {
				return fmt.Errorf("error describing bucket '%s' on %s: %w", bucketName, providerName, err)
			}

			fmt.Println(app.StorageFormatter.FormatBucketDetails(bucketDetails))
			return nil
		},
	}
	describeCmd.Flags().StringVarP(&cmdFlags.provider, flags.Provider, flags.ProviderShort, "", "The provider where the bucket resides (required)")
	describeCmd.MarkFlagRequired(flags.Provider)

	objectsCmd := &cobra.Command{
		Use:   "objects [bucket-name]",
		Short: "List objects in a bucket",
		Long:  `Lists objects and common prefixes in a bucket, one delimiter level at a time. Use --prefix to descend.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucketName := args[0]
			providerName := cmdFlags.provider

			list, err := app.InspectService.ListObjects(cmd.Context(), bucketName, providerName, cmdFlags.prefix)
			if err != nil {
				return fmt.Errorf("error listing objects in bucket '%s' on %s: %w", bucketName, providerName, err)
			}

			fmt.Println(app.StorageFormatter.FormatObjectList(list))
			return nil
		},
	}
	objectsCmd.Flags().StringVarP(&cmdFlags.provider, flags.Provider, flags.ProviderShort, "", "The provider where the bucket resides (required)")
	objectsCmd.MarkFlagRequired(flags.Provider)
	objectsCmd.Flags().StringVar(&cmdFlags.prefix, flags.Prefix, "", "Only list objects whose keys start with this prefix")

	objectCmd := &cobra.Command{
		Use:   "object [bucket-name] [object-key]",
		Short: "Describe a single object",
		Long:  `Shows the metadata of one object: size, storage class, last modified time and ETag.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucketName, objectKey := args[0], args[1]
			providerName := cmdFlags.provider

			obj, err := app.InspectService.DescribeObject(cmd.Context(), bucketName, providerName, objectKey)
			if err != nil {
				return fmt.Errorf("error describing object '%s' in bucket '%s' on %s: %w", objectKey, bucketName, providerName, err)
			}

			fmt.Println(app.StorageFormatter.FormatObjectDetails(obj))
			return nil
		},
	}
	objectCmd.Flags().StringVarP(&cmdFlags.provider, flags.Provider, flags.ProviderShort, "", "The provider where the bucket resides (required)")
	objectCmd.MarkFlagRequired(flags.Provider)

	bucketsCmd.AddCommand(listCmd, describeCmd, objectsCmd, objectCmd)
	return bucketsCmd
}

func resolveProvidersForList(requestedProviders []string, providerFactory *factory.Factory) ([]string, error) {
	if len(requestedProviders) == 0 {
		return providerFactory.GetConfiguredProviders(), nil
	}

	var validatedProviders []string
	var invalidProviders []string
	seen := make(map[string]bool)

	for _, p := range requestedProviders {
		p = strings.ToLower(strings.TrimSpace(p))

		if seen[p] {
			continue
		}
		seen[p] = true

		if registry.IsSupported(p) {
			if providerFactory.IsConfigured(p) {
				validatedProviders = append(validatedProviders, p)
			} else {
				return nil, fmt.Errorf("provider '%s' was requested but is not configured. Use 'bucketwarden config set %s.<key> <value>'", p, p)
			}
		} else {
			invalidProviders = append(invalidProviders, p)
		}
	}

	if len(invalidProviders) > 0 {
		return nil, fmt.Errorf("unsupported providers requested: %s. Supported providers are: %s",
			strings.Join(invalidProviders, ", "), strings.Join(registry.GetSupportedProviders(), ", "))
	}

	return validatedProviders, nil
}
