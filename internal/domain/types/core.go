package types

// DatasetRef identifies the dataset (project) an export is scoped to.
type DatasetRef string

// String returns the string form of the dataset reference.
func (r DatasetRef) String() string { return string(r) }

// IsZero reports whether the reference is absent.
func (r DatasetRef) IsZero() bool { return r == "" }
