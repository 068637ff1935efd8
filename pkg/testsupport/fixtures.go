// Package testsupport provides shared fixtures for package tests: a
// deterministic random source, solid test images, diff helpers, and in-memory
// fakes for the host collaborator seams.
package testsupport

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"sync"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-gridsweep/pkg/generation"
	"github.com/goliatone/go-gridsweep/pkg/host"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// Diff returns a human-readable diff when the values differ.
func Diff(want, got any, opts ...cmp.Option) string {
	return cmp.Diff(want, got, opts...)
}

// Rand returns a deterministic random source.
func Rand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// SolidImage returns a w x h image filled with c.
func SolidImage(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// FakeRenderer records every request it receives and produces solid-color
// images, optionally failing selected calls.
type FakeRenderer struct {
	mu sync.Mutex

	// Requests holds a clone of every request, in call order.
	Requests []*generation.Request

	// FailOn, when set, makes the n-th call (1-based) fail.
	FailOn func(call int) bool

	// EmptyOn, when set, makes the n-th call return a result with no images.
	EmptyOn func(call int) bool

	// CellSize is the produced image edge length; defaults to 8.
	CellSize int
}

var _ host.Renderer = (*FakeRenderer)(nil)

// Render implements host.Renderer.
func (f *FakeRenderer) Render(_ context.Context, req *generation.Request) (*generation.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Requests = append(f.Requests, req.Clone())
	call := len(f.Requests)

	if f.FailOn != nil && f.FailOn(call) {
		return nil, errors.New("fake renderer: induced failure")
	}
	if f.EmptyOn != nil && f.EmptyOn(call) {
		return &generation.Result{}, nil
	}

	size := f.CellSize
	if size < 1 {
		size = 8
	}
	shade := uint8(call * 29)
	img := SolidImage(size, size, color.RGBA{R: shade, G: 0x80, B: 0x40, A: 0xff})
	return &generation.Result{
		Images:     []image.Image{img},
		AllPrompts: []string{req.Prompt},
		AllSeeds:   []int64{req.Seed},
		Infotexts:  []string{fmt.Sprintf("cell %d", call)},
		Prompt:     req.Prompt,
		Seed:       req.Seed,
	}, nil
}

// Calls returns how many renders happened.
func (f *FakeRenderer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requests)
}

// RecordingTracker captures progress calls.
type RecordingTracker struct {
	mu      sync.Mutex
	Totals  []int64
	Reports [][2]int
}

var _ host.ProgressTracker = (*RecordingTracker)(nil)

// SetTotalWork implements host.ProgressTracker.
func (t *RecordingTracker) SetTotalWork(totalSteps int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Totals = append(t.Totals, totalSteps)
}

// ReportProgress implements host.ProgressTracker.
func (t *RecordingTracker) ReportProgress(current, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Reports = append(t.Reports, [2]int{current, total})
}

// SavedImage is one MemoryStore entry.
type SavedImage struct {
	Image  image.Image
	Dir    string
	Prefix string
	Meta   host.ImageMeta
}

// MemoryStore collects persisted images in memory.
type MemoryStore struct {
	mu    sync.Mutex
	Saved []SavedImage
}

var _ host.ImageStore = (*MemoryStore)(nil)

// PersistImage implements host.ImageStore.
func (s *MemoryStore) PersistImage(img image.Image, dir, namePrefix string, meta host.ImageMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Saved = append(s.Saved, SavedImage{Image: img, Dir: dir, Prefix: namePrefix, Meta: meta})
	return nil
}
