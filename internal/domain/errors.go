package domain

import "errors"

// ErrNoDataset is returned when an operation needs a dataset reference and
// none is set. No remote call is made.
var ErrNoDataset = errors.New("no dataset reference")
