// Package workflow ties the export components together for one dataset.
//
// Open loads the format catalog and the export history concurrently; Export
// copies the selected format into the option form, assembles a fresh option
// set and hands it to the submission orchestrator.
package workflow
