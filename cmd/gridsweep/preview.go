package main

import (
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"

	"github.com/goliatone/go-gridsweep/pkg/generation"
	"github.com/goliatone/go-gridsweep/pkg/host"
)

// Catalogs backing the built-in environment so Sampler, Checkpoint and
// Hypernetwork axes resolve without a live diffusion backend.
var (
	previewSamplers      = []string{"Euler", "Euler a", "Heun", "DDIM", "DPM2", "LMS"}
	previewCheckpoints   = []string{"base-v1.ckpt", "base-v2.ckpt", "anime-v3.ckpt"}
	previewHypernetworks = []string{"sketch", "watercolor"}
)

// previewRenderer stands in for a diffusion backend: every cell becomes a
// deterministic two-tone gradient derived from the request parameters, so
// sweeping any axis produces visibly distinct tiles.
type previewRenderer struct{}

var _ host.Renderer = (*previewRenderer)(nil)

func (previewRenderer) Render(ctx context.Context, req *generation.Request) (*generation.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w, h := req.Width, req.Height
	if w < 1 {
		w = 64
	}
	if h < 1 {
		h = 64
	}

	seed := digest(req)
	base := color.RGBA{
		R: uint8(seed),
		G: uint8(seed >> 8),
		B: uint8(seed >> 16),
		A: 0xff,
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		fade := uint8(y * 160 / h)
		row := color.RGBA{
			R: base.R/2 + fade,
			G: base.G/2 + fade,
			B: base.B/2 + fade,
			A: 0xff,
		}
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, row)
		}
	}

	info := fmt.Sprintf("prompt: %s, seed: %d, steps: %d, cfg: %g, sampler: %s",
		req.Prompt, req.Seed, req.Steps, req.CFGScale, req.SamplerName)
	return &generation.Result{
		Images:     []image.Image{img},
		AllPrompts: []string{req.Prompt},
		AllSeeds:   []int64{req.Seed},
		Infotexts:  []string{info},
		Prompt:     req.Prompt,
		Seed:       req.Seed,
	}, nil
}

// digest folds every tunable field into a stable hash so each parameter
// combination maps to its own tile color.
func digest(req *generation.Request) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%d|%d|%g|%d|%g|%s|%g|%g|%g|%g|%g|%g|%g",
		req.Prompt, req.NegativePrompt, req.Seed, req.Subseed, req.SubseedStrength,
		req.Steps, req.CFGScale, req.SamplerName,
		req.DenoisingStrength, req.Eta,
		req.SigmaChurn, req.SigmaTmin, req.SigmaTmax, req.SigmaNoise,
		req.InpaintingMaskWeight)
	return h.Sum64()
}
