package driver

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/goliatone/go-gridsweep/pkg/generation"
	"github.com/goliatone/go-gridsweep/pkg/testsupport"
)

func vals(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = int64(i)
	}
	return out
}

func labels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("v%d", i)
	}
	return out
}

func renderCell(renderer *testsupport.FakeRenderer) CellFunc {
	return func(ctx context.Context, col, row, page any) (*generation.Result, error) {
		return renderer.Render(ctx, &generation.Request{
			Prompt: fmt.Sprintf("%v/%v/%v", col, row, page),
		})
	}
}

func TestRun_OnePagePerPageValue(t *testing.T) {
	renderer := &testsupport.FakeRenderer{}
	d := New(nil, nil, nil)

	result, pages, err := d.Run(testsupport.Context(), Params{
		ColValues:  vals(3),
		RowValues:  vals(2),
		PageValues: vals(2),
		ColLabels:  labels(3),
		RowLabels:  labels(2),
		PageLabels: labels(2),
		Cell:       renderCell(renderer),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pages != 2 {
		t.Fatalf("expected 2 pages, got %d", pages)
	}
	if renderer.Calls() != 12 {
		t.Fatalf("expected 3*2*2 = 12 renders, got %d", renderer.Calls())
	}
	if len(result.Images) != 2 {
		t.Fatalf("expected only the composed pages in the result, got %d images", len(result.Images))
	}
}

func TestRun_IterationOrderIsPageRowCol(t *testing.T) {
	var visits []string
	cell := func(_ context.Context, col, row, page any) (*generation.Result, error) {
		visits = append(visits, fmt.Sprintf("%v%v%v", page, row, col))
		return &generation.Result{Images: []image.Image{testsupport.SolidImage(2, 2, color.White)}}, nil
	}

	_, _, err := New(nil, nil, nil).Run(testsupport.Context(), Params{
		ColValues:  vals(2),
		RowValues:  vals(2),
		PageValues: vals(2),
		Cell:       cell,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []string{"000", "001", "010", "011", "100", "101", "110", "111"}
	if len(visits) != len(want) {
		t.Fatalf("expected %d visits, got %d", len(want), len(visits))
	}
	for i := range want {
		if visits[i] != want[i] {
			t.Fatalf("visit %d: expected %q, got %q (all: %v)", i, want[i], visits[i], visits)
		}
	}
}

func TestRun_FailedCellsAreMaskedWithPlaceholders(t *testing.T) {
	renderer := &testsupport.FakeRenderer{
		CellSize: 16,
		FailOn:   func(call int) bool { return call == 2 },
	}
	d := New(nil, nil, nil)

	result, pages, err := d.Run(testsupport.Context(), Params{
		ColValues:  vals(3),
		RowValues:  vals(1),
		PageValues: vals(1),
		Cell:       renderCell(renderer),
	})
	if err != nil {
		t.Fatalf("expected masked failure, got error %v", err)
	}
	if pages != 1 {
		t.Fatalf("expected 1 page, got %d", pages)
	}
	// 3 cols x 1 row at 16px cells
	bounds := result.Images[0].Bounds()
	if bounds.Dx() != 48 || bounds.Dy() != 16 {
		t.Fatalf("expected 48x16 grid, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRun_EmptyResultCountsAsFailure(t *testing.T) {
	renderer := &testsupport.FakeRenderer{
		EmptyOn: func(call int) bool { return call == 1 },
	}
	tracker := &failureCountingTracker{}

	_, pages, err := New(nil, tracker, nil).Run(testsupport.Context(), Params{
		ColValues:  vals(2),
		RowValues:  vals(1),
		PageValues: vals(1),
		Cell:       renderCell(renderer),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pages != 1 {
		t.Fatalf("expected 1 page, got %d", pages)
	}
	if tracker.failures != 1 {
		t.Fatalf("expected 1 recorded failure, got %d", tracker.failures)
	}
}

func TestRun_FatalCellErrorAbortsTheSweep(t *testing.T) {
	cause := errors.New("bad axis value")
	cell := func(context.Context, any, any, any) (*generation.Result, error) {
		return nil, Fatal(cause)
	}

	_, _, err := New(nil, nil, nil).Run(testsupport.Context(), Params{
		ColValues:  vals(2),
		RowValues:  vals(1),
		PageValues: vals(1),
		Cell:       cell,
	})
	if !errors.Is(err, cause) {
		t.Fatalf("expected the fatal cause, got %v", err)
	}
}

func TestRun_ZeroSuccessesReturnsEmptyResult(t *testing.T) {
	renderer := &testsupport.FakeRenderer{
		FailOn: func(int) bool { return true },
	}

	result, pages, err := New(nil, nil, nil).Run(testsupport.Context(), Params{
		ColValues:  vals(2),
		RowValues:  vals(2),
		PageValues: vals(1),
		Cell:       renderCell(renderer),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pages != 0 {
		t.Fatalf("expected 0 pages, got %d", pages)
	}
	if result == nil || len(result.Images) != 0 {
		t.Fatalf("expected an empty result, got %#v", result)
	}
}

func TestRun_LoneImagesInterleaveBeforeTheirPage(t *testing.T) {
	renderer := &testsupport.FakeRenderer{CellSize: 4}

	result, pages, err := New(nil, nil, nil).Run(testsupport.Context(), Params{
		ColValues:         vals(2),
		RowValues:         vals(1),
		PageValues:        vals(2),
		Cell:              renderCell(renderer),
		IncludeLoneImages: true,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pages != 2 {
		t.Fatalf("expected 2 pages, got %d", pages)
	}
	// per page: the grid inserted at the page index, lone cells after
	if len(result.Images) != 6 {
		t.Fatalf("expected 2 grids + 4 lone images, got %d", len(result.Images))
	}
	// grids are 8x4 (2x1 cells of 4px), lone images 4x4
	for i, wantGrid := range []bool{true, true, false, false, false, false} {
		b := result.Images[i].Bounds()
		isGrid := b.Dx() == 8
		if isGrid != wantGrid {
			t.Fatalf("image %d: expected grid=%v, got %dx%d", i, wantGrid, b.Dx(), b.Dy())
		}
	}
}

func TestRun_AllFailedFirstPageDoesNotInflatePageCount(t *testing.T) {
	// page 0's cells all fail before any template exists; page 1 succeeds
	renderer := &testsupport.FakeRenderer{
		CellSize: 4,
		FailOn:   func(call int) bool { return call <= 2 },
	}

	result, pages, err := New(nil, nil, nil).Run(testsupport.Context(), Params{
		ColValues:  vals(2),
		RowValues:  vals(1),
		PageValues: vals(2),
		Cell:       renderCell(renderer),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pages != 1 {
		t.Fatalf("expected only the composed page to count, got %d", pages)
	}
	if len(result.Images) != pages {
		t.Fatalf("expected %d grid(s) in the result, got %d images", pages, len(result.Images))
	}
	bounds := result.Images[0].Bounds()
	if bounds.Dx() != 8 || bounds.Dy() != 4 {
		t.Fatalf("expected the surviving page's 8x4 grid, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRun_AllFailedFirstPageKeepsLoneImagesAfterGrids(t *testing.T) {
	renderer := &testsupport.FakeRenderer{
		CellSize: 4,
		FailOn:   func(call int) bool { return call <= 2 },
	}

	result, pages, err := New(nil, nil, nil).Run(testsupport.Context(), Params{
		ColValues:         vals(2),
		RowValues:         vals(1),
		PageValues:        vals(2),
		Cell:              renderCell(renderer),
		IncludeLoneImages: true,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pages != 1 {
		t.Fatalf("expected 1 page, got %d", pages)
	}
	// the grid leads, page 1's two lone cells follow
	if len(result.Images) != 3 {
		t.Fatalf("expected 1 grid + 2 lone images, got %d", len(result.Images))
	}
	if got := result.Images[0].Bounds().Dx(); got != 8 {
		t.Fatalf("expected the grid first, got width %d", got)
	}
	for i := 1; i < 3; i++ {
		if got := result.Images[i].Bounds().Dx(); got != 4 {
			t.Fatalf("image %d: expected a lone 4px cell, got width %d", i, got)
		}
	}
}

func TestRun_ProgressReportsRunningCounter(t *testing.T) {
	renderer := &testsupport.FakeRenderer{}
	tracker := &testsupport.RecordingTracker{}

	_, _, err := New(nil, tracker, nil).Run(testsupport.Context(), Params{
		ColValues:  vals(2),
		RowValues:  vals(2),
		PageValues: vals(1),
		Cell:       renderCell(renderer),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(tracker.Reports) != 4 {
		t.Fatalf("expected 4 reports, got %d", len(tracker.Reports))
	}
	for i, report := range tracker.Reports {
		if report[0] != i+1 || report[1] != 4 {
			t.Fatalf("report %d: expected [%d 4], got %v", i, i+1, report)
		}
	}
}

func TestRun_InterruptFinishesCurrentPageAndStops(t *testing.T) {
	ctx, cancel := context.WithCancel(testsupport.Context())
	renderer := &testsupport.FakeRenderer{CellSize: 4}
	calls := 0
	cell := func(ctx context.Context, col, row, page any) (*generation.Result, error) {
		calls++
		if calls == 3 {
			cancel()
		}
		return renderer.Render(ctx, &generation.Request{})
	}

	result, pages, err := New(nil, nil, nil).Run(ctx, Params{
		ColValues:  vals(2),
		RowValues:  vals(2),
		PageValues: vals(3),
		Cell:       cell,
	})
	if err != nil {
		t.Fatalf("expected cooperative interruption, got error %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected rendering to stop after the cancelled cell, got %d calls", calls)
	}
	if pages != 1 {
		t.Fatalf("expected the interrupted page to be composed, got %d pages", pages)
	}
	// the partial page is padded to full rows x cols geometry
	bounds := result.Images[0].Bounds()
	if bounds.Dx() != 8 || bounds.Dy() != 8 {
		t.Fatalf("expected padded 8x8 page, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRun_LegendAddsMargins(t *testing.T) {
	renderer := &testsupport.FakeRenderer{CellSize: 10}

	plain, _, err := New(nil, nil, nil).Run(testsupport.Context(), Params{
		ColValues:  vals(2),
		RowValues:  vals(2),
		PageValues: vals(1),
		Cell:       renderCell(renderer),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	renderer = &testsupport.FakeRenderer{CellSize: 10}
	annotated, _, err := New(nil, nil, nil).Run(testsupport.Context(), Params{
		ColValues:  vals(2),
		RowValues:  vals(2),
		PageValues: vals(1),
		ColLabels:  labels(2),
		RowLabels:  labels(2),
		Cell:       renderCell(renderer),
		DrawLegend: true,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	pb := plain.Images[0].Bounds()
	ab := annotated.Images[0].Bounds()
	if ab.Dx() <= pb.Dx() || ab.Dy() <= pb.Dy() {
		t.Fatalf("expected legend margins to grow the page: plain %v, annotated %v", pb, ab)
	}
}

type failureCountingTracker struct {
	failures int
}

func (t *failureCountingTracker) SetTotalWork(int64)      {}
func (t *failureCountingTracker) ReportProgress(int, int) {}
func (t *failureCountingTracker) RecordFailure()          { t.failures++ }
