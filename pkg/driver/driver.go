// Package driver iterates the Cartesian product of page, row and column
// values, rendering one cell per combination and compositing each page into a
// grid. Rendering is strictly sequential: cells mutate shared host state, so
// cells never run in parallel, and cancellation is cooperative via the
// context checked between columns and between rows.
package driver

import (
	"context"
	"errors"
	"image"
	"log/slog"

	"github.com/goliatone/go-gridsweep/pkg/generation"
	"github.com/goliatone/go-gridsweep/pkg/grid"
	"github.com/goliatone/go-gridsweep/pkg/host"
	"github.com/goliatone/go-gridsweep/pkg/progress"
)

// CellFunc renders one combination. The values arrive in column, row, page
// order, matching the cell's grid coordinate.
type CellFunc func(ctx context.Context, col, row, page any) (*generation.Result, error)

// Params describes one sweep iteration: the expanded value sequences, their
// preformatted legend labels, and the render callback.
type Params struct {
	ColValues  []any
	RowValues  []any
	PageValues []any

	ColLabels  []string
	RowLabels  []string
	PageLabels []string

	Cell CellFunc

	DrawLegend        bool
	IncludeLoneImages bool
}

// Driver runs sweep iterations against a compositor and progress tracker.
type Driver struct {
	compositor host.Compositor
	tracker    host.ProgressTracker
	logger     *slog.Logger
}

// New constructs a Driver. Nil collaborators fall back to the built-in
// compositor, a no-op tracker, and the default logger.
func New(compositor host.Compositor, tracker host.ProgressTracker, logger *slog.Logger) *Driver {
	if compositor == nil {
		compositor = grid.NewCompositor()
	}
	if tracker == nil {
		tracker = progress.NopTracker{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{compositor: compositor, tracker: tracker, logger: logger}
}

// failureRecorder is implemented by trackers that want to observe masked
// cell failures (the sweep result itself never surfaces them).
type failureRecorder interface {
	RecordFailure()
}

// fatalError marks a cell error that aborts the sweep instead of being
// masked with a placeholder (axis application failures, not render failures).
type fatalError struct {
	err error
}

func (e *fatalError) Error() string { return e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

// Fatal wraps a cell error so Run aborts instead of masking it.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

// Run iterates pages, then rows, then columns, strictly nested. Render
// failures become blank placeholders sized to the sweep's template cell; the
// first successful cell fixes that template and seeds the aggregate result
// container. Returns the aggregate result and the number of composed pages.
// A sweep where no cell produced an image reports an empty result with zero
// pages rather than an error.
func (d *Driver) Run(ctx context.Context, p Params) (*generation.Result, int, error) {
	cols := len(p.ColValues)
	rows := len(p.RowValues)
	pages := len(p.PageValues)
	total := cols * rows * pages

	var (
		result      *generation.Result
		cache       []image.Image
		templateW   = 1
		templateH   = 1
		done        int
		pagesDone   int
		interrupted bool
	)

	for ipg, pageValue := range p.PageValues {
		for _, rowValue := range p.RowValues {
			for _, colValue := range p.ColValues {
				d.tracker.ReportProgress(done+1, total)

				res, err := p.Cell(ctx, colValue, rowValue, pageValue)

				var cellImage image.Image
				switch {
				case err != nil:
					var fatal *fatalError
					if errors.As(err, &fatal) {
						return nil, 0, fatal.err
					}
					d.recordFailure(err)
					cellImage = blankImage(templateW, templateH)
				case res == nil || len(res.Images) == 0:
					d.recordFailure(nil)
					cellImage = blankImage(templateW, templateH)
				default:
					img := res.Images[0]
					if result == nil {
						// First usable cell: capture the template container
						// and the uniform placeholder geometry.
						container := *res
						container.Clear()
						result = &container
						bounds := img.Bounds()
						templateW, templateH = bounds.Dx(), bounds.Dy()
					}
					if p.IncludeLoneImages {
						result.Append(img, res.Prompt, res.Seed, firstInfotext(res))
					}
					cellImage = img
				}

				cache = append(cache, cellImage)
				done++

				if ctx.Err() != nil {
					interrupted = true
					break
				}
			}
			if interrupted {
				// Pad the page so grid composition stays well-defined, then
				// abandon the remaining rows.
				for len(cache) < cols*rows {
					cache = append(cache, blankImage(templateW, templateH))
				}
				break
			}
		}

		if result != nil {
			pageImage, err := d.compositor.ComposeGrid(cache, rows)
			if err != nil {
				return nil, 0, err
			}
			if p.DrawLegend {
				pageImage, err = d.compositor.AnnotateGrid(pageImage, templateW, templateH, p.ColLabels, p.RowLabels)
				if err != nil {
					return nil, 0, err
				}
				if pages > 1 {
					bounds := pageImage.Bounds()
					pageImage, err = d.compositor.AnnotateGrid(pageImage, bounds.Dx(), bounds.Dy(), []string{label(p.PageLabels, ipg)}, []string{""})
					if err != nil {
						return nil, 0, err
					}
				}
			}
			// Insert at the count of grids composed so far, not the page
			// index: a page skipped before the first success (no template
			// yet) must not leave a gap in the count or the result lists.
			result.InsertAt(pagesDone, pageImage, "", -1, "")
			pagesDone++
		}
		cache = cache[:0]

		if interrupted {
			break
		}
	}

	if result == nil {
		d.logger.Warn("sweep produced no usable images")
		return &generation.Result{}, 0, nil
	}
	return result, pagesDone, nil
}

func (d *Driver) recordFailure(err error) {
	if err != nil {
		d.logger.Debug("cell render failed, substituting placeholder", "error", err)
	} else {
		d.logger.Debug("cell render returned no images, substituting placeholder")
	}
	if recorder, ok := d.tracker.(failureRecorder); ok {
		recorder.RecordFailure()
	}
}

func blankImage(w, h int) image.Image {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func firstInfotext(res *generation.Result) string {
	if len(res.Infotexts) > 0 {
		return res.Infotexts[0]
	}
	return ""
}

func label(labels []string, idx int) string {
	if idx < 0 || idx >= len(labels) {
		return ""
	}
	return labels[idx]
}
