// Package fields extracts scalar invoice fields from a positioned
// token stream.
//
// # Fields
//
// Five scalar fields are extracted: [InvoiceNumber], [InvoiceDate],
// [ClientName], [TaxID] and [Total]. Each field is resolved by its own
// [Cascade], an ordered list of strategies tried until one yields a
// value. A field whose cascade is exhausted is simply absent; no
// strategy reports an error.
//
// # Cascades
//
// Every cascade opens with a pattern strategy that matches regular
// expressions against the full document text and returns the first
// capture group. When the patterns fail, anchor strategies look for a
// label token (FACTURA, FECHA, TOTAL) and scan a bounded window of
// neighbors for a token of the right shape. Total and client name
// carry a final positional strategy that falls back to the bottom or
// top zone of the page.
//
// # Usage
//
// Build a [Document] from a token stream, then run an [Extractor]
// over it:
//
//	doc := fields.NewDocument(toks)
//	res := fields.NewExtractor().Extract(doc)
//	if total, ok := res.Get(fields.Total); ok {
//		fmt.Println("total:", total)
//	}
//
// # Configuration
//
// The default rules target Spanish invoices. Alternate issuers or
// locales supply a custom [RuleSet]:
//
//	rules := fields.DefaultRuleSet()
//	rules.Total.Anchors = []string{"MONTANT", "TOTAL"}
//	ex := fields.NewExtractorWithRules(rules)
package fields
