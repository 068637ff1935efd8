package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-gridsweep/pkg/generation"
	"github.com/goliatone/go-gridsweep/pkg/host"
	"github.com/goliatone/go-gridsweep/pkg/progress"
	"github.com/goliatone/go-gridsweep/pkg/report"
	"github.com/goliatone/go-gridsweep/pkg/sweep"
	"github.com/goliatone/go-gridsweep/pkg/sweepfile"
)

func main() {
	sweepPath := flag.String("sweepfile", "sweep.yaml", "sweep definition path")
	outputDir := flag.String("output", "", "grid output directory (overrides the sweepfile)")
	reportPath := flag.String("report", "", "write an HTML contact sheet to this path")
	interactive := flag.Bool("interactive", false, "pick axes and values interactively")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	doc, err := sweepfile.Load(*sweepPath)
	if err != nil {
		log.Fatalf("load sweepfile: %v", err)
	}
	if *outputDir != "" {
		doc.Request.GridOutputDir = *outputDir
	}
	if doc.Request.GridOutputDir == "" {
		doc.Request.GridOutputDir = "output"
	}

	env := host.NewMemoryEnvironment(generation.Config{Checkpoint: previewCheckpoints[0]})
	env.RegisterSamplers(previewSamplers...)
	env.RegisterCheckpoints(previewCheckpoints...)
	env.RegisterHypernetworks(previewHypernetworks...)

	orc := sweep.New(
		sweep.WithRenderer(&previewRenderer{}),
		sweep.WithEnvironment(env),
		sweep.WithStore(newPNGStore()),
		sweep.WithProgress(progress.NewConsoleTracker(os.Stderr)),
		sweep.WithHostOptions(host.Options{SaveGrids: true}),
		sweep.WithLogger(logger),
	)

	if *interactive {
		if err := promptSweep(ctx, orc.Registry(), &doc, surveyPrompter{}); err != nil {
			log.Fatalf("interactive setup: %v", err)
		}
	}

	req, err := doc.SweepRequest(orc.Registry())
	if err != nil {
		log.Fatalf("resolve sweep: %v", err)
	}

	result, pages, err := orc.Run(ctx, req)
	if err != nil {
		log.Fatalf("run sweep: %v", err)
	}
	if pages == 0 {
		fmt.Println("no cells rendered")
		return
	}
	fmt.Printf("composed %d page(s), %d image(s) in %s\n", pages, len(result.Images), doc.Request.GridOutputDir)

	if *reportPath != "" {
		if err := writeReport(*reportPath, doc, result, pages); err != nil {
			log.Fatalf("write report: %v", err)
		}
		fmt.Printf("report written to %s\n", *reportPath)
	}
}

func writeReport(path string, doc sweepfile.Document, result *generation.Result, pages int) error {
	renderer, err := report.NewRenderer()
	if err != nil {
		return err
	}

	labels := make([]string, 0, pages)
	for i := 0; i < pages; i++ {
		labels = append(labels, fmt.Sprintf("%s / %s page %d", doc.Col.Axis, doc.Row.Axis, i+1))
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	// The aggregate result may interleave lone images before the grids; the
	// report only wants the composed pages, which the driver inserts first.
	_, err = renderer.Render(report.Params{
		Title:      "Parameter sweep",
		Prompt:     doc.Request.Prompt,
		PageLabels: labels,
		Result:     result,
		PageCount:  pages,
	}, out)
	return err
}
