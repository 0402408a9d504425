package fields

import (
	"regexp"

	"github.com/solera/factura/amount"
	"github.com/solera/factura/layout"
)

// Window bounds an anchor-proximity scan: Before tokens behind the
// anchor and After tokens from the anchor onward, clamped to the
// stream. The anchor token itself falls inside the window.
type Window struct {
	Before int
	After  int
}

func (w Window) clamp(idx, n int) (lo, hi int) {
	lo = idx - w.Before
	if lo < 0 {
		lo = 0
	}
	hi = idx + w.After
	if hi > n {
		hi = n
	}
	return lo, hi
}

// NumberRules configures invoice number extraction.
type NumberRules struct {
	// Patterns run against the full document text. The first match
	// wins and its first capture group is the value.
	Patterns []*regexp.Regexp

	// Anchor is the folded substring that marks the number label.
	Anchor string

	// Window bounds the scan around the anchor.
	Window Window

	// SeriesShape catches the serie/numero form ("24/62"). Tried first
	// on every token in the window.
	SeriesShape *regexp.Regexp

	// DigitShape catches bare digit runs. A run equal to a value some
	// other field already claimed is skipped.
	DigitShape *regexp.Regexp
}

// DateRules configures issue date extraction.
type DateRules struct {
	Patterns []*regexp.Regexp
	Anchor   string
	Window   Window

	// Shape matches a date-formed token near the anchor.
	Shape *regexp.Regexp
}

// NameRules configures client name extraction.
type NameRules struct {
	Patterns []*regexp.Regexp

	// Markers flag company-name candidates in the top zone. Matched by
	// raw containment, case preserved: "SL" must not fire on lowercase
	// words that merely contain the letters.
	Markers []string

	// Suffix closes a company name. The tokens from the marker through
	// the suffix bearer join, space separated, into the name.
	Suffix string

	// Reach is how many tokens past a marker the suffix may sit.
	Reach int

	// Anchor and Window drive the last-resort label scan: the first
	// token after the anchor longer than MinRunes and not all digits
	// becomes the name.
	Anchor   string
	Window   Window
	MinRunes int
}

// TaxIDRules configures fiscal identifier extraction. Only the pattern
// tier exists for this field.
type TaxIDRules struct {
	Patterns []*regexp.Regexp
}

// TotalRules configures invoice total extraction.
type TotalRules struct {
	Patterns []*regexp.Regexp

	// Anchors are tried together: the first token containing any of
	// them, folded, anchors the window scan.
	Anchors []string
	Window  Window

	// Shape matches a currency-formed token.
	Shape *regexp.Regexp

	// Zone is scanned in the positional fallback; the largest amount
	// found there wins.
	Zone layout.Zone
}

// RuleSet bundles the extraction rules for every field.
type RuleSet struct {
	Number NumberRules
	Date   DateRules
	Name   NameRules
	TaxID  TaxIDRules
	Total  TotalRules
}

// DefaultRuleSet returns the rules for Spanish invoices: FACTURA/FECHA
// labels, NIF/CIF identifiers, company names closed by an SL suffix,
// and amounts with dot thousands separators and a decimal comma.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Number: NumberRules{
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:N°|N|N[úu]mero|No|Nº)\s*(?:de)?\s*(?:FACTURA|factura|Fra|fac)[\s:]*(\d+[/\-\.]*\d*)`),
				regexp.MustCompile(`(?i)(?:FACTURA|factura|Fra|fac)[\s:]*(?:N°|N|N[úu]mero|No|Nº)[\s:]*(\d+[/\-\.]*\d*)`),
				regexp.MustCompile(`(?i)(?:FACTURA|factura|Fra|fac)[\s:]*(\d+[/\-\.]*\d*)`),
			},
			Anchor:      "FACTURA",
			Window:      Window{Before: 3, After: 5},
			SeriesShape: regexp.MustCompile(`^\d{1,2}/\d{1,2}`),
			DigitShape:  regexp.MustCompile(`^\d{2,6}`),
		},
		Date: DateRules{
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:FECHA|fecha|Date)[\s:]*(\d{1,2}[/\-\.]\d{1,2}[/\-\.]\d{2,4})`),
				regexp.MustCompile(`(?i)(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})`),
			},
			Anchor: "FECHA",
			Window: Window{Before: 3, After: 5},
			Shape:  regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}`),
		},
		Name: NameRules{
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:CLIENTE|cliente|Client)[\s:]*([A-Z\s]+(?:\sS\.?L\.?|S\.?A\.?))`),
				regexp.MustCompile(`(?i)(?:NOMBRE|nombre|Name)[\s:]*([A-Z\s]+(?:\sS\.?L\.?|S\.?A\.?))`),
				regexp.MustCompile(`(?i)(?:RAZON SOCIAL|razon social)[\s:]*([A-Z\s]+(?:\sS\.?L\.?|S\.?A\.?))`),
			},
			Markers:  []string{"CAPITAL", "PAN", "SL"},
			Suffix:   "SL",
			Reach:    5,
			Anchor:   "CLIENTE",
			Window:   Window{Before: 0, After: 5},
			MinRunes: 2,
		},
		TaxID: TaxIDRules{
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:N\.?I\.?F\.?|CIF|C\.I\.F\.|NIF)[\s:]*([A-Z0-9]{9})`),
				regexp.MustCompile(`(?i)(?:N\.?L\.?F\.?)[\s:]*([A-Z0-9]{9})`),
			},
		},
		Total: TotalRules{
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:TOTAL|Total|total)[\s:]*(\d{1,3}(?:\.\d{3})*,\d{2})`),
				regexp.MustCompile(`(?i)(?:IMPORTE|Importe|importe)[\s:]*(?:LIQUIDO|liquido|TOTAL|total)?[\s:]*(\d{1,3}(?:\.\d{3})*,\d{2})`),
				regexp.MustCompile(`(?i)(?:LIQUIDO|liquido)[\s:]*(\d{1,3}(?:\.\d{3})*,\d{2})`),
			},
			Anchors: []string{"LIQUIDO", "TOTAL"},
			Window:  Window{Before: 3, After: 8},
			Shape:   regexp.MustCompile(`^` + amount.Pattern),
			Zone:    layout.ZoneBottom,
		},
	}
}
