package store

import (
	"path/filepath"
	"sync"

	"dsexport/internal/domain"
)

const downloadsFile = "downloads.json"

// DownloadFileStore persists the local download ledger to disk.
type DownloadFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewDownloadFileStore returns a DownloadFileStore rooted at dir.
func NewDownloadFileStore(dir string) *DownloadFileStore {
	return &DownloadFileStore{dir: dir}
}

// AppendDownload records a saved artifact.
func (s *DownloadFileStore) AppendDownload(a domain.SavedArtifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, downloadsFile)
	var downloads []domain.SavedArtifact
	if err := readJSON(path, &downloads); err != nil {
		return err
	}
	downloads = append(downloads, a)
	return writeJSON(path, downloads, 0o600)
}

// ListDownloads returns recorded artifacts, oldest first.
func (s *DownloadFileStore) ListDownloads() ([]domain.SavedArtifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var downloads []domain.SavedArtifact
	if err := readJSON(filepath.Join(s.dir, downloadsFile), &downloads); err != nil {
		return nil, err
	}
	return downloads, nil
}

// Compile-time assertion that DownloadFileStore implements domain.DownloadLedger.
var _ domain.DownloadLedger = (*DownloadFileStore)(nil)
