// Package factura extracts structured data from Spanish invoices:
// invoice number, issue date, client, total and line items.
//
// Basic usage:
//
//	rec := factura.New().Extract(toks)
//	if rec.Total != nil {
//	    fmt.Println("total:", *rec.Total)
//	}
//
// Tokens come from any collaborator that yields positioned words: the
// ocr package for scanned images, the pdftext package for born-digital
// PDFs, or the tokenjson package for pre-tokenized streams.
//
// With configuration:
//
//	cfg := factura.DefaultConfig()
//	cfg.Rules.Total.Anchors = []string{"MONTANT", "TOTAL"}
//	rec := factura.NewWithConfig(cfg).Extract(toks)
//
// The engine performs no I/O and holds no state across calls, so one
// engine may serve any number of goroutines.
package factura

import (
	"time"

	"github.com/solera/factura/fields"
	"github.com/solera/factura/items"
	"github.com/solera/factura/layout"
	"github.com/solera/factura/token"
)

// Record is the structured result of one extraction. Scalar fields are
// nil when every strategy for them came up empty, which is distinct
// from a field extracted as the empty string. Items is never nil.
type Record struct {
	InvoiceNumber *string      `json:"invoice_number"`
	Date          *string      `json:"date"`
	Total         *string      `json:"total"`
	ClientName    *string      `json:"client_name"`
	ClientID      *string      `json:"client_id"`
	Items         []items.Item `json:"items"`
}

// Meta carries processing metadata a pipeline attaches to a record.
// The engine never fills it: identity, provenance and timing belong to
// the caller that ran the extraction.
type Meta struct {
	ID        string        `json:"id"`
	Source    string        `json:"source"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}

// Engine turns token streams into invoice records. It is immutable
// after construction and safe for concurrent use.
type Engine struct {
	zoner      *layout.ZoneDetector
	classifier *layout.BlockClassifier
	grouper    *layout.LineGrouper
	extractor  *fields.Extractor
	segmenter  *items.Segmenter
}

// New creates an engine with the default Spanish-invoice configuration.
func New() *Engine {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates an engine from a custom configuration.
func NewWithConfig(config Config) *Engine {
	return &Engine{
		zoner:      layout.NewZoneDetectorWithConfig(config.Zones),
		classifier: layout.NewBlockClassifierWithConfig(config.Vocabulary),
		grouper:    layout.NewLineGrouperWithConfig(config.Lines),
		extractor:  fields.NewExtractorWithRules(config.Rules),
		segmenter:  items.NewSegmenterWithConfig(config.Items),
	}
}

// Extract analyzes the stream and resolves every field and the line
// items. The record is never nil and tolerates an empty stream.
func (e *Engine) Extract(toks []token.Token) *Record {
	res := e.extractor.Extract(e.Analyze(toks))
	return &Record{
		InvoiceNumber: res.Ptr(fields.InvoiceNumber),
		Date:          res.Ptr(fields.InvoiceDate),
		Total:         res.Ptr(fields.Total),
		ClientName:    res.Ptr(fields.ClientName),
		ClientID:      res.Ptr(fields.TaxID),
		Items:         e.segmenter.Segment(toks),
	}
}

// ExtractWords ingests raw words, assigning sequential token IDs, and
// extracts a record from them.
func (e *Engine) ExtractWords(words []token.Word) *Record {
	return e.Extract(token.NewStream(words))
}

// Analyze runs the engine's layout detectors over the stream and
// returns the assembled document view: zones, functional blocks, and
// the line grouping with its label/value pair candidates. Extract uses
// it internally; callers wanting the spatial analysis alone, pair
// candidates included, call it directly.
func (e *Engine) Analyze(toks []token.Token) *fields.Document {
	return &fields.Document{
		Tokens: toks,
		Text:   token.FullText(toks),
		Zones:  e.zoner.Detect(toks),
		Blocks: e.classifier.Detect(toks),
		Lines:  e.grouper.Detect(toks),
	}
}

// Must wraps a call returning (T, error) and panics on error. It is
// intended for scripts and tests where error handling would be
// cumbersome.
//
// Example:
//
//	toks := factura.Must(tokenjson.Load("invoice.json"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
