package interfaces

import domaintypes "dsexport/internal/domain/types"

// OptionAssembler collects the current field values into an option set.
type OptionAssembler interface {
	AssembleOptions(cfg domaintypes.AssembleConfig) domaintypes.OptionSet
}
