package types

import "time"

// PreviousExport is a completed export recorded by the export service.
type PreviousExport struct {
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	Size        int64     `json:"size"`
	DownloadURL string    `json:"url"`
}

// RawExport is the binary result of an export request.
type RawExport struct {
	Payload     []byte
	Filename    string
	ContentType string
}

// SavedArtifact describes an export payload written to local disk.
type SavedArtifact struct {
	Filename string    `json:"filename"`
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	Digest   string    `json:"digest"`
	SavedAt  time.Time `json:"saved_at"`
}
