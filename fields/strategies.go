package fields

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/solera/factura/amount"
	"github.com/solera/factura/layout"
	"github.com/solera/factura/token"
)

// Strategy tries one tactic for one field. prior carries the values
// extracted so far, so a strategy can refuse a token another field
// already claimed. Strategies are pure: same document, same answer.
type Strategy func(doc *Document, prior *Result) (string, bool)

// Cascade is an ordered strategy list for one field.
type Cascade []Strategy

// Apply runs the strategies in order and returns the first value
// produced. ok is false when every strategy came up empty.
func (c Cascade) Apply(doc *Document, prior *Result) (string, bool) {
	for _, s := range c {
		if v, ok := s(doc, prior); ok {
			return v, true
		}
	}
	return "", false
}

// patternStrategy matches patterns against the full document text, in
// order. The first match wins and its first capture group, trimmed,
// is the value.
func patternStrategy(patterns []*regexp.Regexp) Strategy {
	return func(doc *Document, _ *Result) (string, bool) {
		for _, re := range patterns {
			if m := re.FindStringSubmatch(doc.Text); m != nil {
				return strings.TrimSpace(m[1]), true
			}
		}
		return "", false
	}
}

// anchorStrategy locates the first token whose folded text contains
// one of the anchors, then returns the first token in the window
// around it whose text opens with the shape.
func anchorStrategy(w Window, shape *regexp.Regexp, anchors ...string) Strategy {
	return func(doc *Document, _ *Result) (string, bool) {
		idx, ok := anchorIndex(doc.Tokens, anchors...)
		if !ok {
			return "", false
		}
		lo, hi := w.clamp(idx, len(doc.Tokens))
		for i := lo; i < hi; i++ {
			if shape.MatchString(doc.Tokens[i].Text) {
				return doc.Tokens[i].Text, true
			}
		}
		return "", false
	}
}

// numberAnchorStrategy scans around the invoice number label. Each
// window token is tried against the serie/numero shape first and the
// bare digit shape second; a bare run equal to an already extracted
// value is rejected, since dates and totals shed digit runs that a
// loose window would otherwise pick up.
func numberAnchorStrategy(r NumberRules) Strategy {
	return func(doc *Document, prior *Result) (string, bool) {
		idx, ok := anchorIndex(doc.Tokens, r.Anchor)
		if !ok {
			return "", false
		}
		lo, hi := r.Window.clamp(idx, len(doc.Tokens))
		for i := lo; i < hi; i++ {
			text := doc.Tokens[i].Text
			if r.SeriesShape.MatchString(text) {
				return text, true
			}
			if r.DigitShape.MatchString(text) && !prior.Contains(text) {
				return text, true
			}
		}
		return "", false
	}
}

// nameZoneStrategy reconstructs a company name from the top zone. A
// zone token bearing a marker opens a candidate; the first suffix
// bearer within reach closes it, and the stream tokens from opener
// through closer join into the name. A marker with no suffix in reach
// is abandoned and the scan moves to the next marker.
func nameZoneStrategy(r NameRules) Strategy {
	return func(doc *Document, _ *Result) (string, bool) {
		toks := doc.Tokens
		for _, zt := range doc.Zones.Tokens(layout.ZoneTop) {
			if !containsRaw(zt.Text, r.Markers) {
				continue
			}
			hi := zt.ID + r.Reach
			if hi > len(toks) {
				hi = len(toks)
			}
			for j := zt.ID; j < hi; j++ {
				if !strings.Contains(toks[j].Text, r.Suffix) {
					continue
				}
				parts := make([]string, 0, j-zt.ID+1)
				for k := zt.ID; k <= j; k++ {
					parts = append(parts, toks[k].Text)
				}
				return strings.Join(parts, " "), true
			}
		}
		return "", false
	}
}

// nameAnchorStrategy is the last resort for the client name: the
// first token after the label that is long enough and not all digits.
func nameAnchorStrategy(r NameRules) Strategy {
	return func(doc *Document, _ *Result) (string, bool) {
		idx, ok := anchorIndex(doc.Tokens, r.Anchor)
		if !ok {
			return "", false
		}
		_, hi := r.Window.clamp(idx, len(doc.Tokens))
		for i := idx + 1; i < hi; i++ {
			text := doc.Tokens[i].Text
			if utf8.RuneCountInString(text) > r.MinRunes && !allDigits(text) {
				return text, true
			}
		}
		return "", false
	}
}

// totalZoneStrategy picks the largest currency amount in the fallback
// zone. The grand total is normally the largest figure at the bottom
// of the page.
func totalZoneStrategy(r TotalRules) Strategy {
	return func(doc *Document, _ *Result) (string, bool) {
		var candidates []string
		for _, t := range doc.Zones.Tokens(r.Zone) {
			if r.Shape.MatchString(t.Text) {
				candidates = append(candidates, t.Text)
			}
		}
		return amount.Largest(candidates)
	}
}

// anchorIndex returns the index of the first token whose folded text
// contains any of the anchors.
func anchorIndex(toks []token.Token, anchors ...string) (int, bool) {
	for i, t := range toks {
		folded := token.Fold(t.Text)
		for _, a := range anchors {
			if strings.Contains(folded, a) {
				return i, true
			}
		}
	}
	return 0, false
}

// containsRaw reports whether s contains any of the needles, case
// preserved.
func containsRaw(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// allDigits reports whether s is non-empty and wholly decimal digits.
func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
