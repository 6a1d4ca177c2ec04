// Package devserver is an in-memory export service for local development and
// tests. It serves the same three endpoints as the real service:
//
//	GET /api/projects/{pk}/export/formats
//	GET /api/projects/{pk}/export/files
//	GET /api/projects/{pk}/export?exportType=...
//
// plus GET /api/projects/{pk}/export/files/{name} to fetch a previous export.
// Exports can be slowed down with Config.Delay and made to fail per dataset
// with Config.Fail.
package devserver
