// Package reporting is the shared error sink for failed export-service calls.
//
// Reporter logs every error with structured fields and writes one
// user-facing line per error. For HTTP failures it prefers the "detail"
// message of a JSON error body over the raw status line.
package reporting
