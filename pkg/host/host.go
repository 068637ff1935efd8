// Package host declares the collaborator contracts a host application
// provides to the sweep pipeline: rendering, grid composition, progress
// reporting, persistence, and access to shared render configuration. The
// library ships default implementations for the seams that do not require a
// diffusion backend (grid, progress); rendering itself is always host-owned.
package host

import (
	"context"
	"image"

	"github.com/goliatone/go-gridsweep/pkg/generation"
)

// Renderer executes one generation request. A renderer may fail or return a
// result without images; the driver masks either case with a placeholder and
// keeps the sweep going.
type Renderer interface {
	Render(ctx context.Context, req *generation.Request) (*generation.Result, error)
}

// Compositor arranges cell images into a page grid and overlays legend
// annotations. Label slices may be empty when no legend is requested.
type Compositor interface {
	ComposeGrid(images []image.Image, rows int) (image.Image, error)
	AnnotateGrid(grid image.Image, cellWidth, cellHeight int, colLabels, rowLabels []string) (image.Image, error)
}

// ProgressTracker receives the expected work total before a sweep starts and
// a per-cell progress report before each render.
type ProgressTracker interface {
	SetTotalWork(totalSteps int64)
	ReportProgress(current, total int)
}

// ImageMeta accompanies a persisted image so stores can write sidecar
// metadata or embed it in the output format.
type ImageMeta struct {
	Prompt   string
	Seed     int64
	Infotext string
	RunID    string
}

// ImageStore persists a composed grid (or lone image) to host storage.
type ImageStore interface {
	PersistImage(img image.Image, dir, namePrefix string, meta ImageMeta) error
}

// Environment exposes the host's shared render state: name catalogs for
// samplers, checkpoints and hypernetworks, plus the mutable configuration
// that per-cell axis applications change and the orchestrator's settings
// guard restores.
type Environment interface {
	// Lookup* resolve a user-supplied name to the host's canonical identifier.
	// The boolean is false when the name matches nothing.
	LookupSampler(name string) (string, bool)
	LookupCheckpoint(name string) (string, bool)
	LookupHypernetwork(name string) (string, bool)

	// SelectCheckpoint and SelectHypernetwork switch the active model weights.
	// An empty hypernetwork name clears the active hypernetwork.
	SelectCheckpoint(name string) error
	SelectHypernetwork(name string) error
	SetHypernetworkStrength(strength float64)
	SetClipSkip(layers int)

	// Config snapshots the current shared configuration; RestoreConfig puts a
	// snapshot back, reloading weights as needed.
	Config() generation.Config
	RestoreConfig(cfg generation.Config) error
}

// Options carries host capability flags that change sweep behavior.
type Options struct {
	// ReturnsGrids reports that the host can keep multi-image batches
	// together; when false the orchestrator forces batch size to 1.
	ReturnsGrids bool

	// SaveGrids enables persisting each composed page via the ImageStore.
	SaveGrids bool
}
