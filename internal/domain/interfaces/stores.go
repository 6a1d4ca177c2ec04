package interfaces

import domaintypes "dsexport/internal/domain/types"

// FileSaver materializes an export payload as a local file named filename.
type FileSaver interface {
	Save(payload []byte, filename string) (domaintypes.SavedArtifact, error)
}

// DownloadLedger keeps a local record of saved export artifacts.
type DownloadLedger interface {
	AppendDownload(a domaintypes.SavedArtifact) error
	ListDownloads() ([]domaintypes.SavedArtifact, error)
}
