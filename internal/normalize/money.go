package normalize

import (
	"math"
	"strconv"
	"strings"
)

// amountStrip removes the characters clean-up tolerates in currency
// strings: dollar signs, thousands separators, and whitespace.
var amountStrip = strings.NewReplacer("$", "", ",", "", " ", "", "\t", "")

// CleanAmount parses a free-form currency string into a float64.
// Returns nil on empty or non-numeric input; never returns NaN or Inf.
func CleanAmount(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = amountStrip.Replace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// FormatDollars renders an amount with comma-grouped thousands and two
// decimal places, e.g. 1234.5 → "1,234.50". Used in flag messages.
func FormatDollars(v float64) string {
	neg := v < 0
	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
