// Package sweep coordinates a full parameter sweep: three axes bound to
// tunable parameters of an image-generation request, expanded into value
// sequences, rendered once per combination, and composed into annotated,
// optionally paginated grids.
//
// The orchestrator applies sensible defaults (built-in compositor, in-memory
// environment, default axis catalog) while remaining open to dependency
// injection; a host only has to provide its renderer:
//
//	orc := sweep.New(sweep.WithRenderer(myRenderer))
//	result, pages, err := orc.Run(ctx, sweep.Request{
//		Base: &generation.Request{Prompt: "a cat", Steps: 20, Seed: -1, Width: 512, Height: 512},
//		Col:  sweep.AxisSpec{Option: mustLookup(orc.Registry(), "Steps"), Values: "10-30(10)"},
//		Row:  sweep.AxisSpec{Option: mustLookup(orc.Registry(), "CFG Scale"), Values: "5,7,9"},
//		Page: sweep.AxisSpec{Option: mustLookup(orc.Registry(), "Nothing")},
//		DrawLegend: true,
//	})
package sweep
