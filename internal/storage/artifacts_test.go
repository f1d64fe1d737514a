package storage

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestSaveAnonymizedOverlay(t *testing.T) {
	dir := t.TempDir()
	store, err := NewArtifactStore(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	overlay := image.NewRGBA(image.Rect(0, 0, 2, 2))
	path, err := store.SaveAnonymizedOverlay("record-1", overlay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join(dir, "record-1.png") {
		t.Fatalf("unexpected path: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("overlay file missing: %v", err)
	}
	defer f.Close()

	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("overlay is not a valid PNG: %v", err)
	}
	if decoded.Bounds().Dx() != 2 || decoded.Bounds().Dy() != 2 {
		t.Fatalf("unexpected overlay dimensions: %v", decoded.Bounds())
	}
}

func TestNewArtifactStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "overlays")
	if _, err := NewArtifactStore(dir, zap.NewNop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("artifact directory was not created: %v", err)
	}
}
