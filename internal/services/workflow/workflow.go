package workflow

import (
	"context"

	"golang.org/x/sync/errgroup"

	"dsexport/internal/domain"
	"dsexport/internal/form"
	"dsexport/internal/services/catalog"
	"dsexport/internal/services/history"
	"dsexport/internal/services/submission"
)

// Workflow is the export modal's state for one dataset.
type Workflow struct {
	dataset  domain.DatasetRef
	catalog  *catalog.Loader
	history  *history.Loader
	submit   *submission.Orchestrator
	form     *form.Form
	assemble domain.AssembleConfig
}

// New constructs a Workflow for dataset. The dataset does not change for the
// lifetime of the Workflow; build a new one to export another dataset.
func New(
	dataset domain.DatasetRef,
	catalogLoader *catalog.Loader,
	historyLoader *history.Loader,
	orchestrator *submission.Orchestrator,
	options *form.Form,
	assemble domain.AssembleConfig,
) *Workflow {
	if options == nil {
		options = form.New()
	}
	return &Workflow{
		dataset:  dataset,
		catalog:  catalogLoader,
		history:  historyLoader,
		submit:   orchestrator,
		form:     options,
		assemble: assemble,
	}
}

// Dataset returns the dataset this workflow exports.
func (w *Workflow) Dataset() domain.DatasetRef { return w.dataset }

// Open loads the catalog and the history in parallel. Neither load waits for
// or cancels the other; the first error is returned after both finished.
func (w *Workflow) Open(ctx context.Context) error {
	if w.dataset.IsZero() {
		return domain.ErrNoDataset
	}
	var g errgroup.Group
	g.Go(func() error { return w.catalog.Load(ctx, w.dataset) })
	g.Go(func() error { return w.history.Load(ctx, w.dataset) })
	return g.Wait()
}

// Formats returns the loaded catalog.
func (w *Workflow) Formats() []domain.ExportFormat { return w.catalog.Formats() }

// Selected returns the selected format name.
func (w *Workflow) Selected() (string, bool) { return w.catalog.Selected() }

// Select changes the selected format.
func (w *Workflow) Select(name string) error { return w.catalog.Select(name) }

// History returns the previous-export preview.
func (w *Workflow) History() []domain.PreviousExport { return w.history.Records() }

// Form returns the option form.
func (w *Workflow) Form() *form.Form { return w.form }

// Orchestrator exposes submission state for observers.
func (w *Workflow) Orchestrator() *submission.Orchestrator { return w.submit }

// Options assembles the option set a submission would send now.
func (w *Workflow) Options() domain.OptionSet {
	name, _ := w.catalog.Selected()
	w.form.Declare(form.Field{Name: form.ExportTypeField, Kind: form.Hidden, Value: name})
	return w.form.AssembleOptions(w.assemble)
}

// Export submits one export with the current selection and options. With no
// format selected the exportType is sent empty and left for the service to
// reject.
func (w *Workflow) Export(ctx context.Context) (submission.Outcome, error) {
	return w.submit.Submit(ctx, w.dataset, w.Options())
}
