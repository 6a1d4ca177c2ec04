// Package store provides file-based persistence for dsexport.
//
// It contains concrete implementations of the domain storage interfaces:
//   - Export payloads written into the download directory (ArtifactFileStore)
//   - The JSON download ledger listing saved artifacts (DownloadFileStore)
//
// Every write goes to a transient temp file in the target directory and is
// renamed into place, so a failed save never leaves a partial file behind.
// Export file names are used verbatim; only names that would escape the
// download directory are refused.
package store
