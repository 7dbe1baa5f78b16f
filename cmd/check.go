package cmd

import (
	"fmt"
	"time"

	"s3-manager/feature/health"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check storage and database connectivity",
	Long:  `Lists buckets to verify the endpoint and credentials, and pings the journal database when enabled.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		startTime := time.Now()

		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		report := health.NewService(rt.client, rt.db, rt.logger).Check(cmd.Context())

		if jsonOutput {
			if err := printJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
		} else {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "=== Connectivity ===")
			fmt.Fprintf(out, "Provider: %s\n", rt.cfg.Storage.Provider)
			fmt.Fprintf(out, "Storage: %s (%dms, %d buckets)\n", report.Storage.Status, report.Storage.LatencyMS, report.Buckets)
			if report.Storage.Error != "" {
				fmt.Fprintf(out, "  %s: %s\n", report.Storage.Kind, report.Storage.Error)
			}
			fmt.Fprintf(out, "Database: %s\n", report.Database.Status)
			if report.Database.Error != "" {
				fmt.Fprintf(out, "  %s\n", report.Database.Error)
			}
		}

		rt.logger.Debug("Connectivity check completed",
			zap.Bool("healthy", report.Healthy),
			zap.Duration("execution_time", time.Since(startTime)))

		if !report.Healthy {
			return fmt.Errorf("connectivity check failed")
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&jsonOutput, "json", false, "print JSON")
	RootCmd.AddCommand(checkCmd)
}
