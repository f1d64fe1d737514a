package storage

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// ArtifactStore writes anonymized overlays to durable storage. The
// original unmasked capture is never written here, by contract: only
// the anonymized rendering is handed to this store.
type ArtifactStore struct {
	dir    string
	logger *zap.Logger
}

// NewArtifactStore prepares the artifact directory.
func NewArtifactStore(dir string, logger *zap.Logger) (*ArtifactStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir %s: %w", dir, err)
	}
	return &ArtifactStore{dir: dir, logger: logger.Named("artifacts")}, nil
}

// SaveAnonymizedOverlay writes the overlay as <recordID>.png and
// returns its path.
func (s *ArtifactStore) SaveAnonymizedOverlay(recordID string, overlay image.Image) (string, error) {
	path := filepath.Join(s.dir, recordID+".png")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create overlay file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, overlay); err != nil {
		// best effort removal of the partial file
		_ = os.Remove(path)
		return "", fmt.Errorf("encode overlay: %w", err)
	}

	s.logger.Debug("anonymized overlay persisted", zap.String("path", path))
	return path, nil
}
