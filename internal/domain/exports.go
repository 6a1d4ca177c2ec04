package domain

import (
	interfaces "dsexport/internal/domain/interfaces"
	types "dsexport/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	DatasetRef      = types.DatasetRef
	ExportFormat    = types.ExportFormat
	PreviousExport  = types.PreviousExport
	RawExport       = types.RawExport
	SavedArtifact   = types.SavedArtifact
	OptionSet       = types.OptionSet
	AssembleConfig  = types.AssembleConfig
	SubmissionState = types.SubmissionState
)

// Submission states.
const (
	SubmissionIdle         = types.SubmissionIdle
	SubmissionInFlight     = types.SubmissionInFlight
	SubmissionInFlightLong = types.SubmissionInFlightLong
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	ExportService   = interfaces.ExportService
	ErrorReporter   = interfaces.ErrorReporter
	FileSaver       = interfaces.FileSaver
	DownloadLedger  = interfaces.DownloadLedger
	OptionAssembler = interfaces.OptionAssembler
)
