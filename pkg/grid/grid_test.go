package grid

import (
	"image"
	"image/color"
	"testing"

	"github.com/goliatone/go-gridsweep/pkg/testsupport"
)

func cells(n, size int) []image.Image {
	out := make([]image.Image, n)
	for i := range out {
		out[i] = testsupport.SolidImage(size, size, color.RGBA{R: uint8(40 * i), A: 0xff})
	}
	return out
}

func TestComposeGrid_RowMajorLayout(t *testing.T) {
	c := NewCompositor()

	grid, err := c.ComposeGrid(cells(6, 10), 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	bounds := grid.Bounds()
	if bounds.Dx() != 30 || bounds.Dy() != 20 {
		t.Fatalf("expected 30x20 grid for 3x2 cells, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	// cell 4 (index 3) lands at row 1, col 0
	rgba := grid.(*image.RGBA)
	got := rgba.RGBAAt(5, 15)
	if got.R != 120 {
		t.Fatalf("expected cell 3's color at (5,15), got %+v", got)
	}
}

func TestComposeGrid_PartialLastRowKeepsGeometry(t *testing.T) {
	c := NewCompositor()

	grid, err := c.ComposeGrid(cells(5, 10), 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	bounds := grid.Bounds()
	if bounds.Dx() != 30 || bounds.Dy() != 20 {
		t.Fatalf("expected 30x20 grid, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestComposeGrid_Validation(t *testing.T) {
	c := NewCompositor()
	if _, err := c.ComposeGrid(nil, 1); err == nil {
		t.Fatal("expected empty input to fail")
	}
	if _, err := c.ComposeGrid(cells(2, 4), 0); err == nil {
		t.Fatal("expected zero rows to fail")
	}
}

func TestAnnotateGrid_AddsMarginsOnlyForNonEmptyLabels(t *testing.T) {
	c := NewCompositor()
	base, err := c.ComposeGrid(cells(4, 20), 2)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	both, err := c.AnnotateGrid(base, 20, 20, []string{"a", "b"}, []string{"x", "y"})
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if both.Bounds().Dx() <= base.Bounds().Dx() || both.Bounds().Dy() <= base.Bounds().Dy() {
		t.Fatalf("expected both margins, got %v from %v", both.Bounds(), base.Bounds())
	}

	colsOnly, err := c.AnnotateGrid(base, 20, 20, []string{"a", "b"}, []string{"", ""})
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if colsOnly.Bounds().Dx() != base.Bounds().Dx() {
		t.Fatalf("expected no left margin for empty row labels, got %v", colsOnly.Bounds())
	}
	if colsOnly.Bounds().Dy() <= base.Bounds().Dy() {
		t.Fatalf("expected a top margin for column labels, got %v", colsOnly.Bounds())
	}

	none, err := c.AnnotateGrid(base, 20, 20, nil, nil)
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if none.Bounds() != base.Bounds() {
		t.Fatalf("expected unchanged geometry, got %v", none.Bounds())
	}
}

func TestAnnotateGrid_FullWidthLabelActsAsTitleBand(t *testing.T) {
	c := NewCompositor()
	base, err := c.ComposeGrid(cells(4, 20), 2)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	// page title: one column label spanning the whole page, no row labels
	titled, err := c.AnnotateGrid(base, base.Bounds().Dx(), base.Bounds().Dy(), []string{"Steps: 20"}, []string{""})
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if titled.Bounds().Dx() != base.Bounds().Dx() {
		t.Fatalf("expected unchanged width, got %v", titled.Bounds())
	}
	if titled.Bounds().Dy() <= base.Bounds().Dy() {
		t.Fatalf("expected a title band, got %v", titled.Bounds())
	}
}

func TestAnnotateGrid_Validation(t *testing.T) {
	c := NewCompositor()
	if _, err := c.AnnotateGrid(nil, 10, 10, nil, nil); err == nil {
		t.Fatal("expected nil grid to fail")
	}
	base := testsupport.SolidImage(10, 10, color.White)
	if _, err := c.AnnotateGrid(base, 0, 10, nil, nil); err == nil {
		t.Fatal("expected invalid cell size to fail")
	}
}

func TestZeroValueCompositorIsUsable(t *testing.T) {
	var c Compositor

	grid, err := c.ComposeGrid(cells(2, 8), 1)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if _, err := c.AnnotateGrid(grid, 8, 8, []string{"a", "b"}, nil); err != nil {
		t.Fatalf("annotate: %v", err)
	}
}
