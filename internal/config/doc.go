// Package config loads dsexport configuration.
//
// Files may be TOML (default), YAML or JSON, chosen by extension. Values are
// layered as built-in defaults, then the file, then DSEXPORT_* environment
// variables, and are validated last.
//
// Default location: ~/.dsexport/config.toml
package config
