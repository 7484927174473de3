package dataset

import (
	"math"
	"strconv"
	"strings"
)

// Float is a numeric cell. Valid is false when the source text was empty or
// could not be read as a number.
type Float struct {
	Value float64
	Valid bool
}

// Missing is the zero Float.
var Missing = Float{}

// Num wraps a present value.
func Num(v float64) Float { return Float{Value: v, Valid: true} }

// ParseOptions controls how cell text is read as a number.
type ParseOptions struct {
	// DecimalSeparator defaults to '.' when 0.
	DecimalSeparator rune
	// ThousandsSeparator is stripped before parsing when set. It must differ
	// from the decimal separator.
	ThousandsSeparator rune
}

// ParseNumber reads s as a number. Empty or unparseable text, NaN and
// infinities yield Missing; nothing is reported as an error.
func ParseNumber(s string, opt ParseOptions) Float {
	raw := strings.TrimSpace(strings.ReplaceAll(s, "\u00A0", " "))
	if raw == "" {
		return Missing
	}
	dec := opt.DecimalSeparator
	if dec == 0 {
		dec = '.'
	}
	if thou := opt.ThousandsSeparator; thou != 0 && thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		// a literal '.' with a non-dot decimal separator is not a number
		if strings.ContainsRune(raw, '.') {
			return Missing
		}
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Missing
	}
	return Num(f)
}

// Values returns the present values of xs in row order.
func Values(xs []Float) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if x.Valid {
			out = append(out, x.Value)
		}
	}
	return out
}

// CountValid reports how many cells of xs are present.
func CountValid(xs []Float) int {
	n := 0
	for _, x := range xs {
		if x.Valid {
			n++
		}
	}
	return n
}
