// Package grid provides the built-in Compositor: a row-major image grid
// layout with optional legend margins. Hosts with their own layout engine can
// supply any host.Compositor instead; this one covers headless use and tests
// out of the box.
package grid

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/goliatone/go-gridsweep/pkg/host"
)

const labelPadding = 4

// Compositor arranges cell images into a page grid and draws legend labels
// into margins around it.
type Compositor struct {
	// Background fills empty space and legend margins. Defaults to white.
	Background color.Color

	face font.Face
}

var _ host.Compositor = (*Compositor)(nil)

// NewCompositor returns a compositor with the built-in bitmap face and a
// white background.
func NewCompositor() *Compositor {
	return &Compositor{
		Background: color.White,
		face:       basicfont.Face7x13,
	}
}

// ComposeGrid lays out the images row-major into rows. The cell size is taken
// from the first image; callers pass uniformly sized cells.
func (c *Compositor) ComposeGrid(images []image.Image, rows int) (image.Image, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("grid: no images to compose")
	}
	if rows < 1 {
		return nil, fmt.Errorf("grid: rows must be positive, got %d", rows)
	}
	cols := (len(images) + rows - 1) / rows

	cell := images[0].Bounds()
	cellW, cellH := cell.Dx(), cell.Dy()

	canvas := image.NewRGBA(image.Rect(0, 0, cols*cellW, rows*cellH))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(c.background()), image.Point{}, draw.Src)

	for idx, img := range images {
		if img == nil {
			continue
		}
		row := idx / cols
		col := idx % cols
		target := image.Rect(col*cellW, row*cellH, (col+1)*cellW, (row+1)*cellH)
		draw.Draw(canvas, target, img, img.Bounds().Min, draw.Src)
	}
	return canvas, nil
}

// AnnotateGrid draws column labels above each cell column and row labels left
// of each cell row, returning a larger image with the grid offset into the
// legend margins. Empty label sets skip their margin, so a single full-width
// column label doubles as a page title band.
func (c *Compositor) AnnotateGrid(grid image.Image, cellWidth, cellHeight int, colLabels, rowLabels []string) (image.Image, error) {
	if grid == nil {
		return nil, fmt.Errorf("grid: nil grid image")
	}
	if cellWidth < 1 || cellHeight < 1 {
		return nil, fmt.Errorf("grid: invalid cell size %dx%d", cellWidth, cellHeight)
	}

	top := 0
	if hasText(colLabels) {
		top = c.fontFace().Metrics().Height.Ceil() + 2*labelPadding
	}
	left := 0
	if hasText(rowLabels) {
		left = c.maxLabelWidth(rowLabels) + 2*labelPadding
	}

	src := grid.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, left+src.Dx(), top+src.Dy()))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(c.background()), image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(left, top, left+src.Dx(), top+src.Dy()), grid, src.Min, draw.Src)

	drawer := font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: c.fontFace(),
	}

	for col, label := range colLabels {
		if label == "" {
			continue
		}
		width := drawer.MeasureString(label).Ceil()
		x := left + col*cellWidth + (cellWidth-width)/2
		drawer.Dot = fixed.P(x, top-labelPadding)
		drawer.DrawString(label)
	}

	ascent := c.fontFace().Metrics().Ascent.Ceil()
	for row, label := range rowLabels {
		if label == "" {
			continue
		}
		y := top + row*cellHeight + (cellHeight+ascent)/2
		drawer.Dot = fixed.P(labelPadding, y)
		drawer.DrawString(label)
	}

	return canvas, nil
}

func (c *Compositor) fontFace() font.Face {
	if c.face == nil {
		return basicfont.Face7x13
	}
	return c.face
}

func (c *Compositor) background() color.Color {
	if c.Background == nil {
		return color.White
	}
	return c.Background
}

func (c *Compositor) maxLabelWidth(labels []string) int {
	drawer := font.Drawer{Face: c.fontFace()}
	max := 0
	for _, label := range labels {
		if label == "" {
			continue
		}
		if w := drawer.MeasureString(label).Ceil(); w > max {
			max = w
		}
	}
	return max
}

func hasText(labels []string) bool {
	for _, label := range labels {
		if label != "" {
			return true
		}
	}
	return false
}
