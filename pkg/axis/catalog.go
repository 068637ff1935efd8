package axis

import (
	"github.com/goliatone/go-gridsweep/pkg/generation"
	"github.com/goliatone/go-gridsweep/pkg/host"
)

// DefaultRegistry builds the standard axis catalog against a host
// environment. The environment supplies name lookups and shared-state
// mutation for the sampler, checkpoint, hypernetwork and clip-skip axes;
// every other axis only touches the cloned request.
func DefaultRegistry(env host.Environment) *Registry {
	return MustNewRegistry(
		Option{Label: LabelNothing, Type: TypeString, Apply: applyNothing, Format: FormatNothing},
		Option{Label: LabelSeed, Type: TypeInt, Format: FormatWithLabel,
			Apply: applyInt(LabelSeed, func(req *generation.Request, v int64) { req.Seed = v })},
		Option{Label: LabelVarSeed, Type: TypeInt, Format: FormatWithLabel,
			Apply: applyInt(LabelVarSeed, func(req *generation.Request, v int64) { req.Subseed = v })},
		Option{Label: "Var. strength", Type: TypeFloat, Format: FormatWithLabel,
			Apply: applyFloat("Var. strength", func(req *generation.Request, v float64) { req.SubseedStrength = v })},
		Option{Label: LabelSteps, Type: TypeInt, Format: FormatWithLabel,
			Apply: applyInt(LabelSteps, func(req *generation.Request, v int64) { req.Steps = int(v) })},
		Option{Label: "CFG Scale", Type: TypeFloat, Format: FormatWithLabel,
			Apply: applyFloat("CFG Scale", func(req *generation.Request, v float64) { req.CFGScale = v })},
		Option{Label: "Prompt S/R", Type: TypeString, Apply: applyPromptReplace, Format: FormatValue, Confirm: confirmPromptReplace},
		Option{Label: "Prompt order", Type: TypePermutation, Apply: applyPromptOrder, Format: FormatJoinList},
		Option{Label: "Sampler", Type: TypeString, Apply: applySampler(env), Format: FormatValue, Confirm: confirmSamplers(env)},
		Option{Label: "Checkpoint name", Type: TypeString, Apply: applyCheckpoint(env), Format: FormatValue, Confirm: confirmCheckpoints(env)},
		Option{Label: "Hypernetwork", Type: TypeString, Apply: applyHypernetwork(env), Format: FormatValue, Confirm: confirmHypernetworks(env)},
		Option{Label: "Hypernet str.", Type: TypeFloat, Apply: applyHypernetworkStrength(env), Format: FormatWithLabel},
		Option{Label: "Sigma Churn", Type: TypeFloat, Format: FormatWithLabel,
			Apply: applyFloat("Sigma Churn", func(req *generation.Request, v float64) { req.SigmaChurn = v })},
		Option{Label: "Sigma min", Type: TypeFloat, Format: FormatWithLabel,
			Apply: applyFloat("Sigma min", func(req *generation.Request, v float64) { req.SigmaTmin = v })},
		Option{Label: "Sigma max", Type: TypeFloat, Format: FormatWithLabel,
			Apply: applyFloat("Sigma max", func(req *generation.Request, v float64) { req.SigmaTmax = v })},
		Option{Label: "Sigma noise", Type: TypeFloat, Format: FormatWithLabel,
			Apply: applyFloat("Sigma noise", func(req *generation.Request, v float64) { req.SigmaNoise = v })},
		Option{Label: "Eta", Type: TypeFloat, Format: FormatWithLabel,
			Apply: applyFloat("Eta", func(req *generation.Request, v float64) { req.Eta = v })},
		Option{Label: "Clip skip", Type: TypeInt, Apply: applyClipSkip(env), Format: FormatWithLabel},
		Option{Label: "Denoising", Type: TypeFloat, Format: FormatWithLabel,
			Apply: applyFloat("Denoising", func(req *generation.Request, v float64) { req.DenoisingStrength = v })},
		Option{Label: "Cond. Image Mask Weight", Type: TypeFloat, Format: FormatWithLabel,
			Apply: applyFloat("Cond. Image Mask Weight", func(req *generation.Request, v float64) { req.InpaintingMaskWeight = v })},
	)
}
