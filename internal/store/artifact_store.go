package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dsexport/internal/crypto"
	"dsexport/internal/domain"
)

// ErrUnsafeFilename is returned for file names that would land outside the
// download directory.
var ErrUnsafeFilename = errors.New("unsafe export filename")

// ArtifactFileStore saves export payloads into a download directory.
type ArtifactFileStore struct {
	dir    string
	ledger domain.DownloadLedger
	now    func() time.Time
}

// NewArtifactFileStore returns an ArtifactFileStore rooted at dir. Successful
// saves are recorded in ledger when it is non-nil.
func NewArtifactFileStore(dir string, ledger domain.DownloadLedger) *ArtifactFileStore {
	return &ArtifactFileStore{dir: dir, ledger: ledger, now: time.Now}
}

// Dir returns the download directory.
func (s *ArtifactFileStore) Dir() string { return s.dir }

// Save writes payload to <dir>/<filename>, using filename as given by the
// export service.
func (s *ArtifactFileStore) Save(payload []byte, filename string) (domain.SavedArtifact, error) {
	if err := checkFilename(filename); err != nil {
		return domain.SavedArtifact{}, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return domain.SavedArtifact{}, err
	}

	path := filepath.Join(s.dir, filename)
	if err := writeFile(path, payload, 0o644); err != nil {
		return domain.SavedArtifact{}, fmt.Errorf("saving %s: %w", filename, err)
	}

	a := domain.SavedArtifact{
		Filename: filename,
		Path:     path,
		Size:     int64(len(payload)),
		Digest:   crypto.Digest(payload),
		SavedAt:  s.now().UTC(),
	}
	if s.ledger != nil {
		if err := s.ledger.AppendDownload(a); err != nil {
			return a, fmt.Errorf("recording %s: %w", filename, err)
		}
	}
	return a, nil
}

func checkFilename(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", ErrUnsafeFilename, name)
	case strings.ContainsAny(name, `/\`), strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q", ErrUnsafeFilename, name)
	}
	return nil
}

// Compile-time assertion that ArtifactFileStore implements domain.FileSaver.
var _ domain.FileSaver = (*ArtifactFileStore)(nil)
