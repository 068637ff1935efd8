// Package sweepfile loads YAML sweep definitions: the base generation
// request, the three axis bindings, and sweep flags. A sweepfile is the
// headless counterpart of a host UI's axis pickers.
package sweepfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-gridsweep/pkg/axis"
	"github.com/goliatone/go-gridsweep/pkg/generation"
	"github.com/goliatone/go-gridsweep/pkg/sweep"
)

// RequestSpec mirrors generation.Request with YAML field names and sweepfile
// defaults (unfixed seeds, 512x512, 20 steps).
type RequestSpec struct {
	Prompt         string  `yaml:"prompt"`
	NegativePrompt string  `yaml:"negativePrompt"`
	Seed           int64   `yaml:"seed"`
	Subseed        int64   `yaml:"subseed"`
	SubseedStr     float64 `yaml:"subseedStrength"`
	Steps          int     `yaml:"steps"`
	CFGScale       float64 `yaml:"cfgScale"`
	Sampler        string  `yaml:"sampler"`
	Width          int     `yaml:"width"`
	Height         int     `yaml:"height"`
	BatchSize      int     `yaml:"batchSize"`
	Iterations     int     `yaml:"iterations"`
	HighRes        bool    `yaml:"highRes"`
	Denoising      float64 `yaml:"denoisingStrength"`
	Eta            float64 `yaml:"eta"`
	GridOutputDir  string  `yaml:"gridOutputDir"`
}

// AxisBinding names an axis option and its raw value specification.
type AxisBinding struct {
	Axis   string `yaml:"axis"`
	Values string `yaml:"values"`
}

// Flags carries the sweep toggles.
type Flags struct {
	DrawLegend        bool `yaml:"drawLegend"`
	IncludeLoneImages bool `yaml:"includeLoneImages"`
	KeepUnfixedSeeds  bool `yaml:"keepUnfixedSeeds"`
}

// Document is a parsed sweepfile.
type Document struct {
	Request RequestSpec `yaml:"request"`
	Col     AxisBinding `yaml:"col"`
	Row     AxisBinding `yaml:"row"`
	Page    AxisBinding `yaml:"page"`
	Flags   Flags       `yaml:"flags"`
}

func defaultDocument() Document {
	return Document{
		Request: RequestSpec{
			Seed:       -1,
			Subseed:    -1,
			Steps:      20,
			CFGScale:   7,
			Width:      512,
			Height:     512,
			BatchSize:  1,
			Iterations: 1,
		},
		Col:   AxisBinding{Axis: axis.LabelNothing},
		Row:   AxisBinding{Axis: axis.LabelNothing},
		Page:  AxisBinding{Axis: axis.LabelNothing},
		Flags: Flags{DrawLegend: true},
	}
}

// Load reads and parses a sweepfile from disk.
func Load(path string) (Document, error) {
	if path == "" {
		return Document{}, fmt.Errorf("sweepfile: path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("sweepfile: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a sweepfile, filling omitted fields with defaults.
func Parse(data []byte) (Document, error) {
	doc := defaultDocument()
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("sweepfile: decode: %w", err)
	}
	return doc, nil
}

// SweepRequest resolves the document's axis labels against a registry and
// builds the sweep request.
func (d Document) SweepRequest(registry *axis.Registry) (sweep.Request, error) {
	col, err := resolveAxis(registry, d.Col)
	if err != nil {
		return sweep.Request{}, err
	}
	row, err := resolveAxis(registry, d.Row)
	if err != nil {
		return sweep.Request{}, err
	}
	page, err := resolveAxis(registry, d.Page)
	if err != nil {
		return sweep.Request{}, err
	}

	return sweep.Request{
		Base: &generation.Request{
			Prompt:            d.Request.Prompt,
			NegativePrompt:    d.Request.NegativePrompt,
			Seed:              d.Request.Seed,
			Subseed:           d.Request.Subseed,
			SubseedStrength:   d.Request.SubseedStr,
			Steps:             d.Request.Steps,
			CFGScale:          d.Request.CFGScale,
			SamplerName:       d.Request.Sampler,
			Width:             d.Request.Width,
			Height:            d.Request.Height,
			BatchSize:         d.Request.BatchSize,
			Iterations:        d.Request.Iterations,
			HighRes:           d.Request.HighRes,
			DenoisingStrength: d.Request.Denoising,
			Eta:               d.Request.Eta,
			GridOutputDir:     d.Request.GridOutputDir,
		},
		Col:               sweep.AxisSpec{Option: col, Values: d.Col.Values},
		Row:               sweep.AxisSpec{Option: row, Values: d.Row.Values},
		Page:              sweep.AxisSpec{Option: page, Values: d.Page.Values},
		DrawLegend:        d.Flags.DrawLegend,
		IncludeLoneImages: d.Flags.IncludeLoneImages,
		KeepUnfixedSeeds:  d.Flags.KeepUnfixedSeeds,
	}, nil
}

func resolveAxis(registry *axis.Registry, binding AxisBinding) (axis.Option, error) {
	label := binding.Axis
	if label == "" {
		label = axis.LabelNothing
	}
	opt, ok := registry.Lookup(label)
	if !ok {
		return axis.Option{}, fmt.Errorf("sweepfile: unknown axis %q", binding.Axis)
	}
	return opt, nil
}
