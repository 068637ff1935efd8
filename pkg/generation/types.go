package generation

import "image"

// Request describes a single image-generation job the host renderer knows how
// to execute. Axis applications mutate a clone of the sweep's base request, so
// every field that an axis can target lives here as a plain value.
type Request struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negativePrompt,omitempty"`

	// Seed and Subseed use -1 as the "unfixed" sentinel; the orchestrator
	// replaces unfixed seeds before rendering unless asked to keep them.
	Seed            int64   `json:"seed"`
	Subseed         int64   `json:"subseed"`
	SubseedStrength float64 `json:"subseedStrength,omitempty"`

	Steps       int     `json:"steps"`
	CFGScale    float64 `json:"cfgScale"`
	SamplerName string  `json:"sampler,omitempty"`

	Width  int `json:"width"`
	Height int `json:"height"`

	BatchSize  int `json:"batchSize,omitempty"`
	Iterations int `json:"iterations,omitempty"`

	// HighRes doubles the expected diffusion step total when enabled.
	HighRes           bool    `json:"highRes,omitempty"`
	DenoisingStrength float64 `json:"denoisingStrength,omitempty"`

	Eta        float64 `json:"eta,omitempty"`
	SigmaChurn float64 `json:"sigmaChurn,omitempty"`
	SigmaTmin  float64 `json:"sigmaTmin,omitempty"`
	SigmaTmax  float64 `json:"sigmaTmax,omitempty"`
	SigmaNoise float64 `json:"sigmaNoise,omitempty"`

	InpaintingMaskWeight float64 `json:"inpaintingMaskWeight,omitempty"`

	// GridOutputDir is where composed grids are persisted when the host
	// enables grid saving.
	GridOutputDir string `json:"gridOutputDir,omitempty"`
}

// Clone returns a copy of the request safe for per-cell mutation. All fields
// are plain values, so a shallow copy is a full copy.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	out := *r
	return &out
}

// Result is what a render (or a whole sweep) produced. For a sweep the lists
// hold, per page, the composed grid plus optionally every lone cell image
// interleaved in render order.
type Result struct {
	Images     []image.Image
	AllPrompts []string
	AllSeeds   []int64
	Infotexts  []string

	// Prompt and Seed describe the single generation this result came from;
	// for an aggregate sweep result they carry the first rendered cell's
	// values.
	Prompt string
	Seed   int64
}

// Append adds a lone cell entry to the end of every aggregate list.
func (r *Result) Append(img image.Image, prompt string, seed int64, infotext string) {
	r.Images = append(r.Images, img)
	r.AllPrompts = append(r.AllPrompts, prompt)
	r.AllSeeds = append(r.AllSeeds, seed)
	r.Infotexts = append(r.Infotexts, infotext)
}

// InsertAt places an entry at index across every aggregate list. The contract
// for composed page grids is positional insert, not append, so page ordering
// is preserved independent of completion order.
func (r *Result) InsertAt(index int, img image.Image, prompt string, seed int64, infotext string) {
	r.Images = insertImage(r.Images, index, img)
	r.AllPrompts = insertString(r.AllPrompts, index, prompt)
	r.AllSeeds = insertInt64(r.AllSeeds, index, seed)
	r.Infotexts = insertString(r.Infotexts, index, infotext)
}

// Clear empties the aggregate lists while keeping the single-generation
// metadata. The driver clears its template container this way before
// repopulating it with grids.
func (r *Result) Clear() {
	r.Images = nil
	r.AllPrompts = nil
	r.AllSeeds = nil
	r.Infotexts = nil
}

func insertImage(s []image.Image, i int, v image.Image) []image.Image {
	if i < 0 {
		i = 0
	}
	if i >= len(s) {
		return append(s, v)
	}
	s = append(s, nil)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func insertString(s []string, i int, v string) []string {
	if i < 0 {
		i = 0
	}
	if i >= len(s) {
		return append(s, v)
	}
	s = append(s, "")
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func insertInt64(s []int64, i int, v int64) []int64 {
	if i < 0 {
		i = 0
	}
	if i >= len(s) {
		return append(s, v)
	}
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

// Config is the shared render configuration that outlives a single request:
// the active model checkpoint, the active hypernetwork and its strength, and
// the CLIP layer-skip count. The orchestrator snapshots and restores it around
// every sweep so axis applications never leak into later renders.
type Config struct {
	Checkpoint           string  `json:"checkpoint,omitempty"`
	Hypernetwork         string  `json:"hypernetwork,omitempty"`
	HypernetworkStrength float64 `json:"hypernetworkStrength,omitempty"`
	ClipSkip             int     `json:"clipSkip,omitempty"`
}
