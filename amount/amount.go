// Package amount recognizes and compares Spanish-formatted currency
// strings: dot-separated thousands groups and a mandatory two-digit
// decimal part after a comma, e.g. 1.234,56.
//
// Comparison goes through exact decimal arithmetic so that magnitude
// ordering never suffers float rounding.
package amount

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Pattern is the currency shape, unanchored. Extractors embed it in
// larger expressions; use [Matches] to test a single token.
const Pattern = `\d{1,3}(?:\.\d{3})*,\d{2}`

var shapeRe = regexp.MustCompile(`^` + Pattern)

// Matches reports whether s begins with a currency-shaped value.
func Matches(s string) bool {
	return shapeRe.MatchString(s)
}

// Normalize parses the currency-shaped prefix of s into an exact decimal:
// thousands dots dropped, the comma read as the decimal separator.
// Trailing text after the shape (a currency sign, OCR noise) is ignored.
func Normalize(s string) (decimal.Decimal, bool) {
	m := shapeRe.FindString(s)
	if m == "" {
		return decimal.Decimal{}, false
	}
	cleaned := strings.ReplaceAll(m, ".", "")
	cleaned = strings.Replace(cleaned, ",", ".", 1)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// Largest returns the candidate with the greatest numeric value, keeping
// its original string form. Candidates that do not parse are skipped; ok
// is false when none parse. Ties keep the earliest candidate.
func Largest(candidates []string) (string, bool) {
	var (
		best    string
		bestVal decimal.Decimal
		found   bool
	)
	for _, c := range candidates {
		v, ok := Normalize(c)
		if !ok {
			continue
		}
		if !found || v.GreaterThan(bestVal) {
			best, bestVal, found = c, v, true
		}
	}
	return best, found
}
