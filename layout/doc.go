// Package layout recovers spatial structure from a positioned token
// stream: vertical zones, functional blocks, and visual lines with
// label/value candidates.
//
// # Detectors
//
// The package includes three independent detectors:
//
//   - [ZoneDetector] - bands tokens into vertical thirds of the page
//   - [BlockClassifier] - assigns tokens to functional categories by keyword
//   - [LineGrouper] - groups tokens into visual rows and pairs labels with values
//
// All three are pure: they read the stream and return new values, so the
// same stream always produces the same layout.
//
// # Zoning
//
//	zones := layout.NewZoneDetector().Detect(toks)
//	for _, t := range zones.Tokens(layout.ZoneBottom) {
//	    // totals usually live here
//	}
//
// The page height is the maximum bottom edge in the stream; a token's
// band is picked by its top edge. Indexes past [ZoneBottom] are legal and
// preserved, and consumers tolerate zones that received no tokens.
//
// # Functional blocks
//
//	blocks := layout.NewBlockClassifier().Detect(toks)
//	detail := blocks.Tokens(layout.CategoryDetail)
//
// Categories claim tokens in vocabulary order; the first match wins. The
// detail block is then widened to unclaimed tokens inside its vertical
// span, since table rows rarely repeat the header keywords.
//
// # Lines and pairs
//
//	rows := layout.NewLineGrouper().Detect(toks)
//	for _, p := range rows.Pairs {
//	    // p.Key labels p.Value
//	}
//
// Rows are keyed by the integer vertical midpoint of each box. The pair
// list is a corroborating signal only: extraction never depends on it as
// a sole source.
//
// # Configuration
//
// Each detector takes its configuration at construction:
//
//	vocab := layout.DefaultVocabulary()
//	vocab.Keywords[layout.CategoryTotals] = append(vocab.Keywords[layout.CategoryTotals], "AMOUNT")
//	blocks := layout.NewBlockClassifierWithConfig(vocab).Detect(toks)
package layout
