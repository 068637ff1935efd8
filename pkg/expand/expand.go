// Package expand turns a raw axis value specification into the concrete
// ordered value sequence the driver iterates. Fields are comma separated with
// CSV quoting, each field may be a numeric range expression, and the
// permutation type permutes the whole field list.
package expand

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/goliatone/go-gridsweep/internal/rangeexpr"
	"github.com/goliatone/go-gridsweep/pkg/axis"
	"github.com/goliatone/go-gridsweep/pkg/generation"
)

// seedUpperBound is exclusive: drawn seeds lie in [0, 2^32-2).
const seedUpperBound = 4294967294

// DrawSeed returns a fresh random seed in [0, 2^32-2).
func DrawSeed(rng *rand.Rand) int64 {
	return rng.Int63n(seedUpperBound)
}

// Values expands rawText into the axis's ordered value sequence and runs the
// option's confirm hook, so an invalid sweep is rejected before any render.
// The Nothing axis always yields the single-element sequence [0].
func Values(req *generation.Request, opt axis.Option, rawText string) ([]any, error) {
	if opt.IsNothing() {
		return []any{int64(0)}, nil
	}

	fields, err := splitFields(rawText)
	if err != nil {
		return nil, fmt.Errorf("expand: axis %q: split values: %w", opt.Label, err)
	}

	var values []any
	switch opt.Type {
	case axis.TypeInt:
		if values, err = expandInts(opt.Label, fields); err != nil {
			return nil, err
		}
	case axis.TypeFloat:
		if values, err = expandFloats(opt.Label, fields); err != nil {
			return nil, err
		}
	case axis.TypePermutation:
		// The whole field list is permuted, not each field. Factorial growth:
		// callers bound the input count.
		for _, perm := range permutations(fields) {
			values = append(values, perm)
		}
	case axis.TypeString:
		for _, field := range fields {
			values = append(values, field)
		}
	default:
		return nil, fmt.Errorf("expand: axis %q: unsupported value type %q", opt.Label, opt.Type)
	}

	if len(values) == 0 {
		return nil, &axis.ValidationError{Axis: opt.Label, Reason: "no values"}
	}

	if opt.Confirm != nil {
		if err := opt.Confirm(req, values); err != nil {
			return nil, err
		}
	}
	return values, nil
}

// FixSeeds replaces every unfixed (-1) value of a seed axis with a freshly
// drawn random integer in [0, 2^32-2), each value independently. Non-seed
// axes pass through untouched.
func FixSeeds(opt axis.Option, values []any, rng *rand.Rand) []any {
	if !opt.IsSeedAxis() {
		return values
	}
	out := make([]any, len(values))
	for i, value := range values {
		if v, ok := value.(int64); !ok || v == -1 {
			out[i] = DrawSeed(rng)
			continue
		}
		out[i] = value
	}
	return out
}

// splitFields breaks the raw text into comma-separated fields honoring CSV
// quoting, trimming surrounding whitespace from each field. Multi-line input
// is flattened in order.
func splitFields(raw string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1
	// users write "a, "b, c", d" with a space before the quote; accept both
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	var fields []string
	for _, record := range records {
		for _, field := range record {
			fields = append(fields, strings.TrimSpace(field))
		}
	}
	return fields, nil
}

func expandInts(label string, fields []string) ([]any, error) {
	var out []any
	for _, field := range fields {
		if r, ok := rangeexpr.ParseInt(field); ok {
			for _, v := range r.Values() {
				out = append(out, v)
			}
			continue
		}
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("expand: axis %q: parse int %q: %w", label, field, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func expandFloats(label string, fields []string) ([]any, error) {
	var out []any
	for _, field := range fields {
		if r, ok := rangeexpr.ParseFloat(field); ok {
			for _, v := range r.Values() {
				out = append(out, v)
			}
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("expand: axis %q: parse float %q: %w", label, field, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// permutations yields every ordering of tokens, first-position-major, the
// order a nested picker produces.
func permutations(tokens []string) [][]string {
	if len(tokens) == 0 {
		return nil
	}
	if len(tokens) == 1 {
		return [][]string{{tokens[0]}}
	}
	var out [][]string
	for i := range tokens {
		rest := make([]string, 0, len(tokens)-1)
		rest = append(rest, tokens[:i]...)
		rest = append(rest, tokens[i+1:]...)
		for _, tail := range permutations(rest) {
			perm := make([]string, 0, len(tokens))
			perm = append(perm, tokens[i])
			perm = append(perm, tail...)
			out = append(out, perm)
		}
	}
	return out
}
