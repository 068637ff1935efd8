package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-gridsweep/pkg/axis"
	"github.com/goliatone/go-gridsweep/pkg/driver"
	"github.com/goliatone/go-gridsweep/pkg/expand"
	"github.com/goliatone/go-gridsweep/pkg/generation"
	"github.com/goliatone/go-gridsweep/pkg/grid"
	"github.com/goliatone/go-gridsweep/pkg/host"
	"github.com/goliatone/go-gridsweep/pkg/progress"
)

// gridNamePrefix names persisted page grids.
const gridNamePrefix = "sweep_grid"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRenderer injects the host renderer. Required before Run.
func WithRenderer(r host.Renderer) Option {
	return func(o *Orchestrator) { o.renderer = r }
}

// WithEnvironment injects the host environment used for name lookups and the
// shared-settings guard.
func WithEnvironment(env host.Environment) Option {
	return func(o *Orchestrator) { o.env = env }
}

// WithCompositor overrides the built-in grid compositor.
func WithCompositor(c host.Compositor) Option {
	return func(o *Orchestrator) { o.compositor = c }
}

// WithProgress injects a progress tracker.
func WithProgress(t host.ProgressTracker) Option {
	return func(o *Orchestrator) { o.tracker = t }
}

// WithStore injects the image store used when grid persistence is enabled.
func WithStore(s host.ImageStore) Option {
	return func(o *Orchestrator) { o.store = s }
}

// WithRegistry overrides the default axis catalog.
func WithRegistry(r *axis.Registry) Option {
	return func(o *Orchestrator) { o.registry = r }
}

// WithHostOptions sets host capability flags.
func WithHostOptions(opts host.Options) Option {
	return func(o *Orchestrator) { o.hostOpts = opts }
}

// WithLogger injects a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithRand injects the random source used for seed fixing. Tests pass a
// seeded source for determinism.
func WithRand(rng *rand.Rand) Option {
	return func(o *Orchestrator) { o.rng = rng }
}

// Orchestrator wires expansion, iteration and composition into the single
// runSweep entry point. Missing collaborators are initialised with built-in
// implementations so a host only has to provide its renderer.
type Orchestrator struct {
	renderer   host.Renderer
	env        host.Environment
	compositor host.Compositor
	tracker    host.ProgressTracker
	store      host.ImageStore
	registry   *axis.Registry
	hostOpts   host.Options
	logger     *slog.Logger
	rng        *rand.Rand
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

func (o *Orchestrator) applyDefaults() {
	if o.env == nil {
		o.env = host.NewMemoryEnvironment(generation.Config{})
	}
	if o.compositor == nil {
		o.compositor = grid.NewCompositor()
	}
	if o.tracker == nil {
		o.tracker = progress.NopTracker{}
	}
	if o.registry == nil {
		o.registry = axis.DefaultRegistry(o.env)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
}

// Registry exposes the axis catalog in use, for hosts building pickers.
func (o *Orchestrator) Registry() *axis.Registry {
	return o.registry
}

// AxisSpec binds one axis option to its raw value specification.
type AxisSpec struct {
	Option axis.Option
	Values string
}

// Request describes one sweep invocation.
type Request struct {
	// Base is the request every cell clones and mutates.
	Base *generation.Request

	Col  AxisSpec
	Row  AxisSpec
	Page AxisSpec

	// DrawLegend overlays row/column (and page) labels on composed grids.
	DrawLegend bool

	// IncludeLoneImages appends every successfully rendered cell image to
	// the aggregate result, interleaved before the grids.
	IncludeLoneImages bool

	// KeepUnfixedSeeds leaves -1 seeds untouched instead of drawing random
	// replacements.
	KeepUnfixedSeeds bool
}

// Run executes the sweep: expands all three axes, renders every combination,
// composes one grid per page, and returns the aggregate result plus the
// number of composed pages. Shared render configuration is snapshotted on
// entry and restored on every exit path.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*generation.Result, int, error) {
	if ctx == nil {
		return nil, 0, errors.New("sweep: context is required")
	}
	if o.renderer == nil {
		return nil, 0, errors.New("sweep: renderer is required")
	}
	if req.Base == nil {
		return nil, 0, errors.New("sweep: base request is required")
	}

	base := req.Base.Clone()
	if !req.KeepUnfixedSeeds {
		fixRequestSeeds(base, o.rng)
	}
	if !o.hostOpts.ReturnsGrids {
		base.BatchSize = 1
	}

	colValues, err := expand.Values(base, req.Col.Option, req.Col.Values)
	if err != nil {
		return nil, 0, err
	}
	rowValues, err := expand.Values(base, req.Row.Option, req.Row.Values)
	if err != nil {
		return nil, 0, err
	}
	pageValues, err := expand.Values(base, req.Page.Option, req.Page.Values)
	if err != nil {
		return nil, 0, err
	}

	if !req.KeepUnfixedSeeds {
		colValues = expand.FixSeeds(req.Col.Option, colValues, o.rng)
		rowValues = expand.FixSeeds(req.Row.Option, rowValues, o.rng)
		pageValues = expand.FixSeeds(req.Page.Option, pageValues, o.rng)
	}

	totalSteps := expectedSteps(base, req, colValues, rowValues, pageValues)
	iterations := int64(base.Iterations)
	if iterations < 1 {
		iterations = 1
	}

	cells := len(colValues) * len(rowValues) * len(pageValues)
	o.logger.Info("starting sweep",
		"images", int64(cells)*iterations,
		"pages", len(pageValues),
		"cols", len(colValues),
		"rows", len(rowValues),
		"totalSteps", totalSteps*iterations)
	o.tracker.SetTotalWork(totalSteps * iterations)

	cell := func(ctx context.Context, col, row, page any) (*generation.Result, error) {
		pc := base.Clone()
		if err := req.Col.Option.Apply(pc, col, colValues); err != nil {
			return nil, driver.Fatal(err)
		}
		if err := req.Row.Option.Apply(pc, row, rowValues); err != nil {
			return nil, driver.Fatal(err)
		}
		if err := req.Page.Option.Apply(pc, page, pageValues); err != nil {
			return nil, driver.Fatal(err)
		}
		return o.renderer.Render(ctx, pc)
	}

	// Settings guard: per-cell axis applications may swap the checkpoint,
	// hypernetwork or clip-skip; the snapshot goes back no matter how the
	// sweep exits.
	snapshot := o.env.Config()
	defer func() {
		if restoreErr := o.env.RestoreConfig(snapshot); restoreErr != nil {
			o.logger.Error("restore shared render configuration", "error", restoreErr)
		}
	}()

	d := driver.New(o.compositor, o.tracker, o.logger)
	result, pageCount, err := d.Run(ctx, driver.Params{
		ColValues:         colValues,
		RowValues:         rowValues,
		PageValues:        pageValues,
		ColLabels:         formatLabels(base, req.Col.Option, colValues),
		RowLabels:         formatLabels(base, req.Row.Option, rowValues),
		PageLabels:        formatLabels(base, req.Page.Option, pageValues),
		Cell:              cell,
		DrawLegend:        req.DrawLegend,
		IncludeLoneImages: req.IncludeLoneImages,
	})
	if err != nil {
		return nil, 0, err
	}

	if o.hostOpts.SaveGrids && o.store != nil && pageCount > 0 {
		if err := o.persistGrids(result, pageCount, base); err != nil {
			return nil, 0, err
		}
	}

	return result, pageCount, nil
}

func (o *Orchestrator) persistGrids(result *generation.Result, pageCount int, base *generation.Request) error {
	runID := uuid.NewString()
	for i := 0; i < pageCount && i < len(result.Images); i++ {
		meta := host.ImageMeta{
			Prompt: base.Prompt,
			Seed:   result.Seed,
			RunID:  runID,
		}
		if err := o.store.PersistImage(result.Images[i], base.GridOutputDir, gridNamePrefix, meta); err != nil {
			return fmt.Errorf("sweep: persist page %d: %w", i, err)
		}
	}
	return nil
}

// fixRequestSeeds pins the base request's unfixed seeds so every cell shares
// them unless an axis overrides per cell.
func fixRequestSeeds(req *generation.Request, rng *rand.Rand) {
	if req.Seed == -1 {
		req.Seed = expand.DrawSeed(rng)
	}
	if req.Subseed == -1 {
		req.Subseed = expand.DrawSeed(rng)
	}
}

// expectedSteps computes the diffusion step total: when an axis sweeps the
// Steps parameter its values sum, multiplied by the other two axis lengths;
// otherwise the base step count times the full combination count. High-res
// refinement doubles the total.
func expectedSteps(base *generation.Request, req Request, colValues, rowValues, pageValues []any) int64 {
	var total int64
	switch {
	case req.Col.Option.Label == axis.LabelSteps:
		total = sumInts(colValues) * int64(len(rowValues)) * int64(len(pageValues))
	case req.Row.Option.Label == axis.LabelSteps:
		total = sumInts(rowValues) * int64(len(colValues)) * int64(len(pageValues))
	case req.Page.Option.Label == axis.LabelSteps:
		total = sumInts(pageValues) * int64(len(colValues)) * int64(len(rowValues))
	default:
		total = int64(base.Steps) * int64(len(colValues)) * int64(len(rowValues)) * int64(len(pageValues))
	}
	if base.HighRes {
		total *= 2
	}
	return total
}

func sumInts(values []any) int64 {
	var sum int64
	for _, value := range values {
		if v, ok := value.(int64); ok {
			sum += v
		}
	}
	return sum
}

func formatLabels(base *generation.Request, opt axis.Option, values []any) []string {
	labels := make([]string, 0, len(values))
	for _, value := range values {
		labels = append(labels, opt.Format(base, opt, value))
	}
	return labels
}
