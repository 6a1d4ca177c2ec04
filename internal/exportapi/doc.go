// Package exportapi provides an HTTP implementation of the
// domain.ExportService interface used by dsexport.
//
// The export service owns the actual export jobs. This package offers a
// concrete client for the three operations the export workflow needs:
//   - Listing the export formats available for a dataset.
//   - Listing previously completed exports for a dataset.
//   - Requesting a new export and downloading its binary payload.
//
// All requests accept a context for cancellation and deadlines; the client
// itself imposes no timeout. Non-2xx statuses are returned as *StatusError
// with the HTTP method, path, status text and the start of the body to aid
// diagnostics. Export options are sent as query parameters and the file name
// is read from the "filename" response header, falling back to
// Content-Disposition.
package exportapi
