package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/goliatone/go-gridsweep/pkg/host"
)

// pngStore writes images as PNG files named by run ID, with the infotext as a
// sidecar when present.
type pngStore struct{}

var _ host.ImageStore = (*pngStore)(nil)

func newPNGStore() *pngStore {
	return &pngStore{}
}

// PersistImage implements host.ImageStore.
func (s *pngStore) PersistImage(img image.Image, dir, namePrefix string, meta host.ImageMeta) error {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: create %s: %w", dir, err)
	}

	runID := meta.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	stem := fmt.Sprintf("%s-%s-%s", namePrefix, runID, uuid.NewString()[:8])

	path := filepath.Join(dir, stem+".png")
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("store: create %s: %w", path, err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("store: encode %s: %w", path, err)
	}

	if meta.Infotext != "" {
		sidecar := filepath.Join(dir, stem+".txt")
		if err := os.WriteFile(sidecar, []byte(meta.Infotext), 0o644); err != nil {
			return fmt.Errorf("store: write %s: %w", sidecar, err)
		}
	}
	return nil
}
