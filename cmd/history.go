package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent transfers from the journal",
	Long:  `Lists the newest entries of the transfer journal. Requires the database to be enabled.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		entries, err := rt.service.History(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), entries)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tOPERATION\tBUCKET\tKEY\tBYTES\tSTATUS")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
				e.CreatedAt.Format("2006-01-02 15:04:05"), e.Operation, e.Bucket, e.Key, e.Bytes, e.Status)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "number of entries to show")
	historyCmd.Flags().BoolVar(&jsonOutput, "json", false, "print JSON")
	RootCmd.AddCommand(historyCmd)
}
