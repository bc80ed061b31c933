package calc

import (
	"math"
	"strconv"
)

// Engineering-notation suffixes: each letter scales by a power of one
// thousand. Parsing a numeral ending in one of these tags the resulting
// number; the tag survives until an operation whose semantics drop it.
var engExponents = map[byte]int{
	'y': -24, // yocto
	'z': -21, // zepto
	'a': -18, // atto
	'f': -15, // femto
	'p': -12, // pico
	'n': -9,  // nano
	'u': -6,  // micro
	'm': -3,  // milli
	'k': 3,   // kilo
	'M': 6,   // mega
	'G': 9,   // giga
	'T': 12,  // tera
	'P': 15,  // peta
	'E': 18,  // exa
	'Z': 21,  // zetta
	'Y': 24,  // yotta
}

// maxExactInt is the largest float64 magnitude whose integer values are
// all exactly representable.
const maxExactInt = 1 << 53

// parseEng parses a numeral carrying an engineering-notation suffix, e.g.
// "10k" or "2.2u". The returned Value is tagged with the suffix. Plain
// numerals (no suffix) are rejected; those are handled by the literal
// parser.
func parseEng(s string) (Value, bool) {
	if len(s) < 2 {
		return noValue, false
	}
	suffix := s[len(s)-1]
	exp, ok := engExponents[suffix]
	if !ok {
		return noValue, false
	}
	mantissa, err := strconv.ParseFloat(s[:len(s)-1], 64)
	if err != nil {
		return noValue, false
	}

	scaled := mantissa * math.Pow10(exp)
	if scaled == math.Trunc(scaled) && math.Abs(scaled) < maxExactInt {
		return FromInt(int64(scaled)).WithEng(suffix), true
	}
	return FromFloat(scaled).WithEng(suffix), true
}

// formatEng renders a tagged number back in the notation it was entered
// with: the magnitude divided down by the suffix's scale, then the suffix
// letter.
func formatEng(v Value) string {
	exp := engExponents[v.eng]
	mantissa := v.AsFloat() / math.Pow10(exp)
	return strconv.FormatFloat(mantissa, 'g', -1, 64) + string(v.eng)
}

// combineEngTag decides the tag of an additive result. Only when both
// operands are tagged does the result stay in engineering notation, and
// then it inherits the tag of the larger-magnitude operand.
func combineEngTag(a, b Value) byte {
	if a.eng == 0 || b.eng == 0 {
		return 0
	}
	if math.Abs(a.AsFloat()) >= math.Abs(b.AsFloat()) {
		return a.eng
	}
	return b.eng
}
