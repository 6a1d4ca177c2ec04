package interfaces

import (
	"context"

	domaintypes "dsexport/internal/domain/types"
)

// ExportService is how we talk to the remote export service, all with context.
type ExportService interface {
	ListFormats(ctx context.Context, dataset domaintypes.DatasetRef) ([]domaintypes.ExportFormat, error)
	ListPreviousExports(
		ctx context.Context,
		dataset domaintypes.DatasetRef,
	) ([]domaintypes.PreviousExport, error)

	// ExportRaw requests a new export and returns its binary payload. It is
	// not idempotent: every call may create a new export server-side.
	ExportRaw(
		ctx context.Context,
		dataset domaintypes.DatasetRef,
		options domaintypes.OptionSet,
	) (domaintypes.RawExport, error)
}
