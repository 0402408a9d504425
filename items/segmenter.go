// Package items segments the detail table of an invoice into rows of
// description and amount.
//
// The segmenter works in two passes. The structured pass finds the
// table between a header keyword (CONCEPTO, DESCRIPCION, CARGOS) and a
// totals boundary (TOTAL, BASE, I.V.A, LIQUIDO), then walks it row by
// row: a short alphanumeric code opens a row, vertically aligned
// tokens extend its description, and a currency-shaped token closes it
// as the amount. Rows that never reach an amount are dropped. When the
// structured pass yields nothing, a fallback scans the whole stream
// for currency-shaped tokens and reconstructs a description from the
// tokens behind each one.
package items

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/solera/factura/amount"
	"github.com/solera/factura/token"
)

// Item is one detail row: a free-text description and the amount as
// printed on the invoice.
type Item struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

// Config holds configuration for line item segmentation.
type Config struct {
	// StartKeywords open the detail table. Matched against folded
	// token text by containment.
	StartKeywords []string

	// EndKeywords close the table. Matched raw and case preserved:
	// folding would let everyday lowercase words ("activa") close the
	// table through an embedded IVA.
	EndKeywords []string

	// MaxTableSpan caps the table when no end keyword shows up.
	MaxTableSpan int

	// RowOpener marks a token that can start a row, typically a short
	// article code. OpenerWord admits tokens the shape misses.
	RowOpener  *regexp.Regexp
	OpenerWord string

	// LineTolerance is the maximum top-edge drift, in pixels, for a
	// token to count as part of the row it follows.
	LineTolerance int

	// LookBehind bounds the fallback's backward scan for a
	// description; ExtendBehind bounds how much further it reaches to
	// complete one.
	LookBehind   int
	ExtendBehind int

	// MinDescRunes is the length a fallback description candidate must
	// exceed.
	MinDescRunes int

	// ExcludeWords disqualify a description candidate; GuardWords on
	// the token before an amount disqualify the amount itself. Both
	// matched raw.
	ExcludeWords []string
	GuardWords   []string

	// DefaultDesc labels fallback rows with no recoverable description.
	DefaultDesc string

	// AmountShape recognizes amounts; NumericShape recognizes the
	// loose numeric forms a description may not take.
	AmountShape  *regexp.Regexp
	NumericShape *regexp.Regexp
}

// DefaultConfig returns the segmentation settings for Spanish
// invoices.
func DefaultConfig() Config {
	return Config{
		StartKeywords: []string{"DESCRIPCION", "CONCEPTO", "CARGOS"},
		EndKeywords:   []string{"TOTAL", "BASE", "I.V.A", "LIQUIDO"},
		MaxTableSpan:  30,
		RowOpener:     regexp.MustCompile(`^[A-Za-z0-9]{3,8}`),
		OpenerWord:    "Cuota",
		LineTolerance: 20,
		LookBehind:    10,
		ExtendBehind:  5,
		MinDescRunes:  4,
		ExcludeWords:  []string{"TOTAL", "IVA", "BASE"},
		GuardWords:    []string{"TOTAL"},
		DefaultDesc:   "Servicio",
		AmountShape:   regexp.MustCompile(`^` + amount.Pattern),
		NumericShape:  regexp.MustCompile(`^\d+[.,]\d{2}`),
	}
}

// Segmenter extracts line items from a token stream.
type Segmenter struct {
	config Config
	folded []string
}

// NewSegmenter creates a segmenter with default configuration.
func NewSegmenter() *Segmenter {
	return NewSegmenterWithConfig(DefaultConfig())
}

// NewSegmenterWithConfig creates a segmenter with custom configuration.
func NewSegmenterWithConfig(config Config) *Segmenter {
	folded := make([]string, len(config.StartKeywords))
	for i, kw := range config.StartKeywords {
		folded[i] = token.Fold(kw)
	}
	return &Segmenter{config: config, folded: folded}
}

// Segment returns the detail rows of the stream in encounter order.
// The result is never nil; a stream with no recognizable rows yields
// an empty slice.
func (s *Segmenter) Segment(toks []token.Token) []Item {
	items := []Item{}
	if start, ok := s.tableStart(toks); ok {
		items = s.scanTable(toks, start, s.tableEnd(toks, start), items)
	}
	if len(items) == 0 {
		items = s.fallback(toks, items)
	}
	return items
}

// tableStart returns the index of the first token whose folded text
// contains a start keyword.
func (s *Segmenter) tableStart(toks []token.Token) (int, bool) {
	for i, t := range toks {
		folded := token.Fold(t.Text)
		for _, kw := range s.folded {
			if strings.Contains(folded, kw) {
				return i, true
			}
		}
	}
	return 0, false
}

// tableEnd returns the index the table scan stops before: the first
// end keyword after start, or start+MaxTableSpan when none appears.
func (s *Segmenter) tableEnd(toks []token.Token, start int) int {
	for i := start + 1; i < len(toks); i++ {
		if containsRaw(toks[i].Text, s.config.EndKeywords) {
			return i
		}
	}
	end := start + s.config.MaxTableSpan
	if end > len(toks) {
		end = len(toks)
	}
	return end
}

// scanTable assembles rows inside the table window. Vertical alignment
// is always measured against the row's opener, so a row that drifts
// line by line still breaks once it strays from where it started.
func (s *Segmenter) scanTable(toks []token.Token, start, end int, items []Item) []Item {
	i := start + 1
	for i < end {
		opener := toks[i]
		if !s.opensRow(opener.Text) {
			i++
			continue
		}

		parts := []string{opener.Text}
		rowAmount := ""
		closed := false

		j := i + 1
		for j < end {
			next := toks[j]
			if s.config.AmountShape.MatchString(next.Text) {
				rowAmount = next.Text
				closed = true
				break
			}
			if abs(opener.Box.Y0-next.Box.Y0) < s.config.LineTolerance {
				parts = append(parts, next.Text)
			} else if len(parts) > 1 {
				break
			}
			j++
		}

		if closed {
			items = append(items, Item{
				Description: strings.Join(parts, " "),
				Amount:      rowAmount,
			})
			i = j + 1
		} else {
			i++
		}
	}
	return items
}

func (s *Segmenter) opensRow(text string) bool {
	return s.config.RowOpener.MatchString(text) ||
		strings.Contains(text, s.config.OpenerWord)
}

// fallback emits one row per currency-shaped token whose predecessor
// is not a guard word. The description is the nearest qualifying token
// behind the amount, extended with aligned tokens behind that; rows
// whose amount string was already emitted are dropped.
func (s *Segmenter) fallback(toks []token.Token, items []Item) []Item {
	for i, t := range toks {
		if !s.config.AmountShape.MatchString(t.Text) {
			continue
		}
		prev := i - 1
		if prev < 0 {
			prev = 0
		}
		if containsRaw(toks[prev].Text, s.config.GuardWords) {
			continue
		}
		if hasAmount(items, t.Text) {
			continue
		}

		desc := s.config.DefaultDesc
		lo := i - s.config.LookBehind
		if lo < 0 {
			lo = 0
		}
		for j := i - 1; j > lo; j-- {
			if !s.describes(toks[j].Text) {
				continue
			}
			desc = toks[j].Text
			if more := s.extend(toks, j); len(more) > 0 {
				desc = strings.Join(append(more, desc), " ")
			}
			break
		}

		items = append(items, Item{Description: desc, Amount: t.Text})
	}
	return items
}

// describes reports whether text can serve as a fallback description.
func (s *Segmenter) describes(text string) bool {
	if utf8.RuneCountInString(text) <= s.config.MinDescRunes {
		return false
	}
	if s.config.NumericShape.MatchString(text) {
		return false
	}
	return !containsRaw(text, s.config.ExcludeWords)
}

// extend collects the non-numeric tokens behind toks[j] that align
// with it, in stream order.
func (s *Segmenter) extend(toks []token.Token, j int) []string {
	lo := j - s.config.ExtendBehind
	if lo < 0 {
		lo = 0
	}
	var more []string
	for k := j - 1; k > lo; k-- {
		t := toks[k]
		if abs(t.Box.Y0-toks[j].Box.Y0) < s.config.LineTolerance &&
			!s.config.NumericShape.MatchString(t.Text) {
			more = append([]string{t.Text}, more...)
		}
	}
	return more
}

func hasAmount(items []Item, amt string) bool {
	for _, it := range items {
		if it.Amount == amt {
			return true
		}
	}
	return false
}

func containsRaw(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
