package commands

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"dsexport/internal/ui/modal"
)

func modalCmd() *cobra.Command {
	var options []string
	cmd := &cobra.Command{
		Use:   "modal <dataset>",
		Short: "Open the interactive export dialog",
		Args:  cobra.ExactArgs(1),
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

			// The dialog owns the terminal; keep reporter lines out of it.
			appCtx.Reporter.Out = io.Discard
			m := modal.New(cmd.Context(), wf)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			modal.Listen(wf, p.Send)
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().StringArrayVarP(&options, "option", "o", nil, "export option key=value (repeatable)")
	return cmd
}
