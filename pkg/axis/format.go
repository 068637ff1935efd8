package axis

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-gridsweep/pkg/generation"
)

// floats in legends are rounded to 8 decimal places before printing
const legendFloatPrecision = 1e8

// FormatWithLabel prefixes the axis label, e.g. "Steps: 20".
func FormatWithLabel(_ *generation.Request, opt Option, value any) string {
	return opt.Label + ": " + valueString(value)
}

// FormatValue prints the raw value with no label prefix.
func FormatValue(_ *generation.Request, _ Option, value any) string {
	return valueString(value)
}

// FormatJoinList prints a permutation value as a comma-joined token list.
func FormatJoinList(_ *generation.Request, _ Option, value any) string {
	if tokens, ok := value.([]string); ok {
		return strings.Join(tokens, ", ")
	}
	return valueString(value)
}

// FormatNothing always prints an empty label.
func FormatNothing(_ *generation.Request, _ Option, _ any) string {
	return ""
}

func valueString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		rounded := math.Round(v*legendFloatPrecision) / legendFloatPrecision
		return strconv.FormatFloat(rounded, 'g', -1, 64)
	case []string:
		return strings.Join(v, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
