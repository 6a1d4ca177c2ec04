// Package modal is the interactive export dialog.
//
// The dialog lists the dataset's export formats and its latest previous
// export, lets the user pick a format and submit one export at a time, and
// shows a spinner while the export is pending. After the notice delay the
// long-wait notice is shown under the spinner. Esc and q close the dialog
// only while no export is in flight; Ctrl+C cancels a pending export and
// closes the dialog once it has returned.
//
//	p := tea.NewProgram(modal.New(ctx, wf))
//	modal.Listen(wf, p.Send)
//	_, err := p.Run()
package modal
