// Package commands defines the dsexport CLI and wires dependencies for subcommands.
//
// Commands
//
//   - formats <dataset>    List the export formats offered for a dataset
//   - history <dataset>    Show the dataset's previous exports
//   - export <dataset>     Export a dataset and save the file locally
//   - modal <dataset>      Interactive export dialog
//   - downloads            List files saved by earlier exports
//   - config show|init     Print or create the configuration file
//
// # Implementation
//
// The root command loads the configuration (file, then DSEXPORT_* variables,
// then flags) and builds the dependency graph before any subcommand runs.
// Service failures are printed once by the error reporter; the process then
// exits non-zero without repeating the message.
package commands
