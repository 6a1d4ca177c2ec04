// Package catalog loads the export formats offered for a dataset and tracks
// which one is selected.
//
// The first format of every successful load becomes the selection; an empty
// catalog leaves nothing selected. Loads are tagged with a generation so a
// response for a superseded dataset never overwrites newer state.
package catalog
