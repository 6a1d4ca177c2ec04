package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"dsexport/internal/crypto"
)

func downloadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "downloads",
		Short: "List files saved by earlier exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := appCtx.Downloads.ListDownloads()
			if err != nil {
				return err
			}
			if len(saved) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No downloads yet.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tSAVED\tSIZE\tDIGEST\tPATH")
			for i := len(saved) - 1; i >= 0; i-- {
				a := saved[i]
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					a.Filename,
					humanize.Time(a.SavedAt),
					humanize.Bytes(uint64(a.Size)),
					crypto.Fingerprint(a.Digest),
					a.Path,
				)
			}
			return tw.Flush()
		},
	}
	return cmd
}
