package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func formatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formats <dataset>",
		Short: "List the export formats offered for a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset, err := datasetArg(args)
			if err != nil {
				return err
			}
			wf := appCtx.NewWorkflow(dataset, nil)
			if err := wf.Open(cmd.Context()); err != nil {
				return reported(err)
			}

			formats := wf.Formats()
			if len(formats) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No export formats available.")
				return nil
			}
			selected, _ := wf.Selected()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "\tNAME\tTITLE\tTAGS\tSTATUS")
			for _, f := range formats {
				mark := ""
				if f.Name == selected {
					mark = "*"
				}
				status := "available"
				if f.Disabled {
					status = "disabled"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", mark, f.Name, f.Title, strings.Join(f.Tags, ","), status)
			}
			return tw.Flush()
		},
	}
	return cmd
}
