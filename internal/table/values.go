package table

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags a column once at validation time; later stages consult the tag
// instead of attempting numeric operations and checking for failure.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
	KindUnknown     Kind = "unknown"
)

var missingTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"NaN":  true,
	"null": true,
	"NULL": true,
	"None": true,
	"-":    true,
}

// IsMissing reports whether a raw cell counts as a missing value.
func IsMissing(s string) bool {
	return missingTokens[strings.TrimSpace(s)]
}

// InferKind tags a column: numeric when every present cell parses as a
// number, categorical when at least one present cell does not, unknown when
// the column holds no present cells.
func InferKind(values []string) Kind {
	present := 0
	for _, v := range values {
		if IsMissing(v) {
			continue
		}
		present++
		if _, ok := ParseNumber(v); !ok {
			return KindCategorical
		}
	}
	if present == 0 {
		return KindUnknown
	}
	return KindNumeric
}

// ParseNumber coerces a cell to float64. It accepts a decimal point or a
// decimal comma, thousands separators, scientific notation and
// non-breaking spaces.
func ParseNumber(s string) (float64, bool) {
	raw := strings.ReplaceAll(s, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, !isNaNOrInf(f)
	}
	// Decide decimal separator by whichever of ',' '.' comes last.
	dec := '.'
	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	switch {
	case cpos >= 0 && dpos >= 0 && cpos > dpos:
		dec = ','
	case cpos >= 0 && dpos < 0 && strings.Count(raw, ",") == 1 && !thousandsGroup(raw[cpos+1:]):
		dec = ','
	}
	intPart, frac := raw, ""
	if i := strings.LastIndexByte(raw, byte(dec)); i >= 0 && strings.Count(raw, string(dec)) == 1 {
		intPart, frac = raw[:i], raw[i+1:]
	}
	if strings.ContainsAny(frac, ",. ") {
		return 0, false
	}
	digits, ok := ungroup(intPart)
	if !ok {
		return 0, false
	}
	if frac != "" {
		digits += "." + frac
	}
	f, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, false
	}
	return f, !isNaNOrInf(f)
}

// ungroup removes thousands separators from an integer part. Every group
// after the first must hold exactly three digits, so "1,2,3" is rejected.
func ungroup(s string) (string, bool) {
	if !strings.ContainsAny(s, ",. ") {
		return s, true
	}
	groups := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '.' || r == ' ' })
	if n := strings.Count(s, ",") + strings.Count(s, ".") + strings.Count(s, " "); n != len(groups)-1 {
		return "", false
	}
	first := strings.TrimLeft(groups[0], "+-")
	if len(first) == 0 || len(first) > 3 {
		return "", false
	}
	for _, g := range groups[1:] {
		if !thousandsGroup(g) {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

// thousandsGroup reports whether the digits after a lone comma look like a
// thousands group ("1,000") rather than decimals ("3,5").
func thousandsGroup(tail string) bool {
	if len(tail) != 3 {
		return false
	}
	for i := 0; i < len(tail); i++ {
		if tail[i] < '0' || tail[i] > '9' {
			return false
		}
	}
	return true
}

func isNaNOrInf(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}
