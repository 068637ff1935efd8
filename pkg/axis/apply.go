package axis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-gridsweep/pkg/generation"
	"github.com/goliatone/go-gridsweep/pkg/host"
)

// applyNothing leaves the request untouched.
func applyNothing(*generation.Request, any, []any) error { return nil }

func applyInt(label string, set func(*generation.Request, int64)) ApplyFunc {
	return func(req *generation.Request, value any, _ []any) error {
		v, ok := value.(int64)
		if !ok {
			return fmt.Errorf("axis: %s expects an int value, got %T", label, value)
		}
		set(req, v)
		return nil
	}
}

func applyFloat(label string, set func(*generation.Request, float64)) ApplyFunc {
	return func(req *generation.Request, value any, _ []any) error {
		v, ok := value.(float64)
		if !ok {
			return fmt.Errorf("axis: %s expects a float value, got %T", label, value)
		}
		set(req, v)
		return nil
	}
}

// applyPromptReplace substitutes the search token (the axis's first value)
// with the cell's value in both the positive and negative prompt.
func applyPromptReplace(req *generation.Request, value any, values []any) error {
	replacement, ok := value.(string)
	if !ok {
		return fmt.Errorf("axis: Prompt S/R expects a string value, got %T", value)
	}
	if len(values) == 0 {
		return &ValidationError{Axis: "Prompt S/R", Reason: "no search token"}
	}
	token, ok := values[0].(string)
	if !ok {
		return fmt.Errorf("axis: Prompt S/R expects string values, got %T", values[0])
	}
	if !strings.Contains(req.Prompt, token) && !strings.Contains(req.NegativePrompt, token) {
		return &ValidationError{Axis: "Prompt S/R", Value: token, Reason: "token not found in prompt or negative prompt"}
	}
	req.Prompt = strings.ReplaceAll(req.Prompt, token, replacement)
	req.NegativePrompt = strings.ReplaceAll(req.NegativePrompt, token, replacement)
	return nil
}

// confirmPromptReplace runs the token presence check once at expansion time
// so the sweep is rejected before any render when the token is absent.
func confirmPromptReplace(req *generation.Request, values []any) error {
	if len(values) == 0 {
		return &ValidationError{Axis: "Prompt S/R", Reason: "no search token"}
	}
	token, ok := values[0].(string)
	if !ok {
		return fmt.Errorf("axis: Prompt S/R expects string values, got %T", values[0])
	}
	if !strings.Contains(req.Prompt, token) && !strings.Contains(req.NegativePrompt, token) {
		return &ValidationError{Axis: "Prompt S/R", Value: token, Reason: "token not found in prompt or negative prompt"}
	}
	return nil
}

// applyPromptOrder rewrites the prompt so the tokens of the current
// permutation occur in the chosen order. Tokens are located in the prompt,
// removed in order of earliest occurrence, then reinserted in the permuted
// order starting at the earliest-found token's position.
func applyPromptOrder(req *generation.Request, value any, _ []any) error {
	order, ok := value.([]string)
	if !ok {
		return fmt.Errorf("axis: Prompt order expects a permutation value, got %T", value)
	}

	type located struct {
		pos   int
		token string
	}
	found := make([]located, 0, len(order))
	for _, token := range order {
		pos := strings.Index(req.Prompt, token)
		if pos < 0 {
			return &ValidationError{Axis: "Prompt order", Value: token, Reason: "token not found in prompt"}
		}
		found = append(found, located{pos: pos, token: token})
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	// Cut the tokens out, keeping the text that preceded each one.
	rest := req.Prompt
	parts := make([]string, 0, len(found))
	for _, loc := range found {
		n := strings.Index(rest, loc.token)
		if n < 0 {
			return &ValidationError{Axis: "Prompt order", Value: loc.token, Reason: "token not found in prompt"}
		}
		parts = append(parts, rest[:n])
		rest = rest[n+len(loc.token):]
	}

	var b strings.Builder
	for idx, part := range parts {
		b.WriteString(part)
		b.WriteString(order[idx])
	}
	b.WriteString(rest)
	req.Prompt = b.String()
	return nil
}

func applySampler(env host.Environment) ApplyFunc {
	return func(req *generation.Request, value any, _ []any) error {
		name, ok := value.(string)
		if !ok {
			return fmt.Errorf("axis: Sampler expects a string value, got %T", value)
		}
		resolved, ok := env.LookupSampler(name)
		if !ok {
			return &ValidationError{Axis: "Sampler", Value: name, Reason: "unknown sampler"}
		}
		req.SamplerName = resolved
		return nil
	}
}

func confirmSamplers(env host.Environment) ConfirmFunc {
	return func(_ *generation.Request, values []any) error {
		for _, value := range values {
			name, ok := value.(string)
			if !ok {
				return fmt.Errorf("axis: Sampler expects string values, got %T", value)
			}
			if _, ok := env.LookupSampler(name); !ok {
				return &ValidationError{Axis: "Sampler", Value: name, Reason: "unknown sampler"}
			}
		}
		return nil
	}
}

func applyCheckpoint(env host.Environment) ApplyFunc {
	return func(_ *generation.Request, value any, _ []any) error {
		name, ok := value.(string)
		if !ok {
			return fmt.Errorf("axis: Checkpoint name expects a string value, got %T", value)
		}
		resolved, ok := env.LookupCheckpoint(name)
		if !ok {
			return &ValidationError{Axis: "Checkpoint name", Value: name, Reason: "unknown checkpoint"}
		}
		if err := env.SelectCheckpoint(resolved); err != nil {
			return fmt.Errorf("axis: select checkpoint %q: %w", resolved, err)
		}
		return nil
	}
}

func confirmCheckpoints(env host.Environment) ConfirmFunc {
	return func(_ *generation.Request, values []any) error {
		for _, value := range values {
			name, ok := value.(string)
			if !ok {
				return fmt.Errorf("axis: Checkpoint name expects string values, got %T", value)
			}
			if _, ok := env.LookupCheckpoint(name); !ok {
				return &ValidationError{Axis: "Checkpoint name", Value: name, Reason: "unknown checkpoint"}
			}
		}
		return nil
	}
}

func clearsHypernetwork(name string) bool {
	switch strings.ToLower(name) {
	case "", "none":
		return true
	default:
		return false
	}
}

func applyHypernetwork(env host.Environment) ApplyFunc {
	return func(_ *generation.Request, value any, _ []any) error {
		name, ok := value.(string)
		if !ok {
			return fmt.Errorf("axis: Hypernetwork expects a string value, got %T", value)
		}
		if clearsHypernetwork(name) {
			return env.SelectHypernetwork("")
		}
		resolved, ok := env.LookupHypernetwork(name)
		if !ok {
			return &ValidationError{Axis: "Hypernetwork", Value: name, Reason: "unknown hypernetwork"}
		}
		if err := env.SelectHypernetwork(resolved); err != nil {
			return fmt.Errorf("axis: select hypernetwork %q: %w", resolved, err)
		}
		return nil
	}
}

func confirmHypernetworks(env host.Environment) ConfirmFunc {
	return func(_ *generation.Request, values []any) error {
		for _, value := range values {
			name, ok := value.(string)
			if !ok {
				return fmt.Errorf("axis: Hypernetwork expects string values, got %T", value)
			}
			if clearsHypernetwork(name) {
				continue
			}
			if _, ok := env.LookupHypernetwork(name); !ok {
				return &ValidationError{Axis: "Hypernetwork", Value: name, Reason: "unknown hypernetwork"}
			}
		}
		return nil
	}
}

func applyHypernetworkStrength(env host.Environment) ApplyFunc {
	return func(_ *generation.Request, value any, _ []any) error {
		v, ok := value.(float64)
		if !ok {
			return fmt.Errorf("axis: Hypernet str. expects a float value, got %T", value)
		}
		env.SetHypernetworkStrength(v)
		return nil
	}
}

func applyClipSkip(env host.Environment) ApplyFunc {
	return func(_ *generation.Request, value any, _ []any) error {
		v, ok := value.(int64)
		if !ok {
			return fmt.Errorf("axis: Clip skip expects an int value, got %T", value)
		}
		env.SetClipSkip(int(v))
		return nil
	}
}
