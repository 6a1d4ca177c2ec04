package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <dataset>",
		Short: "Show the most recent exports of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset, err := datasetArg(args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("limit") {
				appCtx.Settings.History.Preview = limit
			}
			wf := appCtx.NewWorkflow(dataset, nil)
			if err := wf.Open(cmd.Context()); err != nil {
				return reported(err)
			}

			records := wf.History()
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No previous exports.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCREATED\tSIZE\tURL")
			for _, r := range records {
				created := "-"
				if !r.CreatedAt.IsZero() {
					created = humanize.Time(r.CreatedAt)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, created, humanize.Bytes(uint64(r.Size)), r.DownloadURL)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 1, "number of exports to show")
	return cmd
}
