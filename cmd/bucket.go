package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var renameOnCollision bool

// bucketCmd groups the bucket subcommands.
var bucketCmd = &cobra.Command{
	Use:   "bucket",
	Short: "Manage buckets",
}

var bucketCreateCmd = &cobra.Command{
	Use:   "create <bucket>",
	Short: "Create a bucket",
	Long: `Creates a bucket in the configured region. When the name is taken and
--rename is set (or storage.rename_on_collision is enabled) the bucket is
created as <bucket>-YYYYMMDD and that name is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		opts := rt.service.DefaultBucketOptions()
		if cmd.Flags().Changed("rename") {
			opts.RenameOnCollision = renameOnCollision
		}

		name, err := rt.service.CreateBucket(cmd.Context(), args[0], opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
		return nil
	},
}

var bucketDeleteCmd = &cobra.Command{
	Use:   "delete <bucket>",
	Short: "Delete an empty bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		if err := rt.service.DeleteBucket(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted bucket %s\n", args[0])
		return nil
	},
}

var bucketListCmd = &cobra.Command{
	Use:   "list",
	Short: "List buckets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		buckets, err := rt.service.ListBuckets(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), buckets)
		}
		for _, b := range buckets {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", b.CreatedAt.Format("2006-01-02"), b.Name)
		}
		return nil
	},
}

func init() {
	bucketCreateCmd.Flags().BoolVar(&renameOnCollision, "rename", false, "append the current date when the name is taken")
	bucketListCmd.Flags().BoolVar(&jsonOutput, "json", false, "print JSON")

	bucketCmd.AddCommand(bucketCreateCmd, bucketDeleteCmd, bucketListCmd)
	RootCmd.AddCommand(bucketCmd)
}
