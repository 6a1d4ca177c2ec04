package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"dsexport/internal/domain"
	"dsexport/internal/form"
	"dsexport/internal/services/submission"
)

// export: request one export of <dataset> and save it locally.
func exportCmd() *cobra.Command {
	var (
		format  string
		options []string
		open    bool
	)
	cmd := &cobra.Command{
		Use:   "export <dataset>",
		Short: "Export a dataset and save the file",
		Long: "Export a dataset and save the returned file in the download directory\n" +
			"under the name chosen by the export service.\n\n" +
			"Options are sent as key=value pairs, e.g. --option download_all_tasks=true.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset, err := datasetArg(args)
			if err != nil {
				return err
			}
			opts, err := optionForm(options)
			if err != nil {
				return err
			}

			wf := appCtx.NewWorkflow(dataset, opts)
			// A failed history load is reported but does not stop the export.
			if err := wf.Open(cmd.Context()); err != nil && len(wf.Formats()) == 0 {
				return reported(err)
			}
			if format != "" {
				if err := wf.Select(format); err != nil {
					return err
				}
			}
			if _, ok := wf.Selected(); !ok {
				return fmt.Errorf("dataset %s offers no export formats", dataset)
			}

			stderr := cmd.ErrOrStderr()
			wf.Orchestrator().Subscribe(func(st domain.SubmissionState) {
				if st == domain.SubmissionInFlightLong {
					fmt.Fprintln(stderr, submission.LongWaitNotice)
				}
			})

			out, err := wf.Export(cmd.Context())
			if err != nil {
				return reported(err)
			}
			if out.SaveErr != nil {
				if !out.Saved() {
					return fmt.Errorf("export received but not saved: %w", out.SaveErr)
				}
				fmt.Fprintf(stderr, "warning: %v\n", out.SaveErr)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s)\n", out.Artifact.Path, humanize.Bytes(uint64(out.Artifact.Size)))
			if open {
				return browser.OpenFile(out.Artifact.Path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "export format (default: first offered)")
	cmd.Flags().StringArrayVarP(&options, "option", "o", nil, "export option key=value (repeatable)")
	cmd.Flags().BoolVar(&open, "open", false, "open the saved file")
	return cmd
}

// optionForm declares one field per key=value pair.
func optionForm(pairs []string) (*form.Form, error) {
	f := form.New()
	for _, p := range pairs {
		field, err := form.ParsePair(p)
		if err != nil {
			return nil, err
		}
		if field.Name == form.ExportTypeField {
			return nil, fmt.Errorf("use --format to choose the export type")
		}
		f.Declare(field)
	}
	return f, nil
}
