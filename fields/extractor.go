package fields

import (
	"github.com/solera/factura/layout"
	"github.com/solera/factura/token"
)

// Field identifies one scalar invoice field.
type Field int

const (
	// InvoiceNumber is the issuer's invoice identifier, often a
	// serie/numero pair like "24/62".
	InvoiceNumber Field = iota
	// InvoiceDate is the issue date as printed, not normalized.
	InvoiceDate
	// ClientName is the billed party's name.
	ClientName
	// TaxID is the billed party's fiscal identifier (NIF/CIF).
	TaxID
	// Total is the invoice total as printed ("1.234,56").
	Total
)

// String returns the field's wire name, matching the record's JSON keys.
func (f Field) String() string {
	switch f {
	case InvoiceNumber:
		return "invoice_number"
	case InvoiceDate:
		return "date"
	case ClientName:
		return "client_name"
	case TaxID:
		return "client_id"
	case Total:
		return "total"
	default:
		return "unknown"
	}
}

// Document is the analyzed view of one token stream that every
// strategy shares. Tokens hold ingestion order, so a token's ID
// indexes back into Tokens; the layout views carry the same tokens.
type Document struct {
	Tokens []token.Token
	Text   string
	Zones  *layout.ZoneMap
	Blocks *layout.BlockMap
	Lines  *layout.LineLayout
}

// NewDocument analyzes toks with the default layout detectors. Callers
// holding configured detectors fill the struct themselves.
func NewDocument(toks []token.Token) *Document {
	return &Document{
		Tokens: toks,
		Text:   token.FullText(toks),
		Zones:  layout.NewZoneDetector().Detect(toks),
		Blocks: layout.NewBlockClassifier().Detect(toks),
		Lines:  layout.NewLineGrouper().Detect(toks),
	}
}

// Result holds the extracted field values. Absent fields are distinct
// from fields extracted as the empty string.
type Result struct {
	values map[Field]string
}

// NewResult returns an empty result.
func NewResult() *Result {
	return &Result{values: make(map[Field]string)}
}

// Get returns the value extracted for f. ok is false when the field's
// cascade was exhausted without a match.
func (r *Result) Get(f Field) (string, bool) {
	v, ok := r.values[f]
	return v, ok
}

// Ptr returns the value for f as a pointer, nil when absent. Record
// fields want exactly this shape.
func (r *Result) Ptr(f Field) *string {
	if v, ok := r.values[f]; ok {
		return &v
	}
	return nil
}

// Contains reports whether any extracted value equals v.
func (r *Result) Contains(v string) bool {
	for _, have := range r.values {
		if have == v {
			return true
		}
	}
	return false
}

func (r *Result) set(f Field, v string) {
	r.values[f] = v
}

// Extractor resolves every field by running its cascade over a
// document. Extraction order is fixed: number, date, tax ID, name,
// total. Later cascades see earlier values through the result, which
// is how the number window refuses a digit run the date already owns.
type Extractor struct {
	order    []Field
	cascades map[Field]Cascade
}

// NewExtractor creates an extractor with the default Spanish rules.
func NewExtractor() *Extractor {
	return NewExtractorWithRules(DefaultRuleSet())
}

// NewExtractorWithRules creates an extractor from a custom rule set.
func NewExtractorWithRules(rules RuleSet) *Extractor {
	return &Extractor{
		order: []Field{InvoiceNumber, InvoiceDate, TaxID, ClientName, Total},
		cascades: map[Field]Cascade{
			InvoiceNumber: {
				patternStrategy(rules.Number.Patterns),
				numberAnchorStrategy(rules.Number),
			},
			InvoiceDate: {
				patternStrategy(rules.Date.Patterns),
				anchorStrategy(rules.Date.Window, rules.Date.Shape, rules.Date.Anchor),
			},
			TaxID: {
				patternStrategy(rules.TaxID.Patterns),
			},
			ClientName: {
				patternStrategy(rules.Name.Patterns),
				nameZoneStrategy(rules.Name),
				nameAnchorStrategy(rules.Name),
			},
			Total: {
				patternStrategy(rules.Total.Patterns),
				anchorStrategy(rules.Total.Window, rules.Total.Shape, rules.Total.Anchors...),
				totalZoneStrategy(rules.Total),
			},
		},
	}
}

// Extract runs every cascade and collects the values. Fields whose
// cascades all miss are absent from the result, never empty-string
// placeholders.
func (e *Extractor) Extract(doc *Document) *Result {
	res := NewResult()
	for _, f := range e.order {
		if v, ok := e.cascades[f].Apply(doc, res); ok {
			res.set(f, v)
		}
	}
	return res
}
