// Package app wires application dependencies for the CLI.
//
// It builds the logger, the export service client, the reporter and the
// local stores from Config, and hands out export workflows built on them.
package app
