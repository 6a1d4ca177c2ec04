// Package main runs the in-memory export service used by dsexport during
// development and tests.
//
// HTTP API
//
//	GET /api/projects/{pk}/export/formats
//	    Return the formats offered for dataset {pk} (JSON, CSV, and a
//	    disabled TSV).
//
//	GET /api/projects/{pk}/export/files
//	    Return {"export_files": [...]}, newest first.
//
//	GET /api/projects/{pk}/export?exportType=JSON
//	    Render the dataset and return it as the response body. The file name
//	    is sent in the "filename" header and in Content-Disposition. Each
//	    export is added to the dataset's history.
//
//	GET /api/projects/{pk}/export/files/{name}
//	    Return a previous export.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit. Datasets "1" and
//     "42" are seeded at start.
//   - Errors are JSON objects with a "detail" field.
//   - --delay holds every export response back, which makes the client's
//     long-wait notice visible.
//   - --fail makes exports of the listed datasets answer 500.
//   - The default listen address is :8080.
package main
