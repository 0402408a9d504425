package layout

import (
	"testing"

	"github.com/solera/factura/token"
)

func TestLineGrouper_EmptyStream(t *testing.T) {
	l := NewLineGrouper().Detect(nil)

	if l.LineCount() != 0 {
		t.Errorf("expected 0 lines, got %d", l.LineCount())
	}
	if len(l.Pairs) != 0 {
		t.Errorf("expected 0 pairs, got %d", len(l.Pairs))
	}
	if l.Text() != "" {
		t.Errorf("expected empty text, got %q", l.Text())
	}
}

func TestLineGrouper_GroupsByMidpoint(t *testing.T) {
	toks := []token.Token{
		makeToken(0, "FACTURA", 10, 40, 90, 60),  // midpoint 50
		makeToken(1, "24/62", 200, 42, 250, 58),  // midpoint 50
		makeToken(2, "TOTAL", 10, 800, 70, 820),  // midpoint 810
	}

	l := NewLineGrouper().Detect(toks)

	if l.LineCount() != 2 {
		t.Fatalf("expected 2 lines, got %d", l.LineCount())
	}
	if got := l.Lines[0].Text(); got != "FACTURA 24/62" {
		t.Errorf("expected first line 'FACTURA 24/62', got %q", got)
	}
	if got := l.Lines[1].Text(); got != "TOTAL" {
		t.Errorf("expected second line 'TOTAL', got %q", got)
	}
}

func TestLineGrouper_SortsLeftToRight(t *testing.T) {
	toks := []token.Token{
		makeToken(0, "24/62", 200, 40, 250, 60),
		makeToken(1, "FACTURA", 10, 40, 90, 60),
	}

	l := NewLineGrouper().Detect(toks)

	if l.LineCount() != 1 {
		t.Fatalf("expected 1 line, got %d", l.LineCount())
	}
	if got := l.Lines[0].Text(); got != "FACTURA 24/62" {
		t.Errorf("expected x-sorted line, got %q", got)
	}
}

func TestLineGrouper_LinesTopToBottom(t *testing.T) {
	toks := []token.Token{
		makeToken(0, "abajo", 10, 800, 60, 820),
		makeToken(1, "arriba", 10, 40, 70, 60),
	}

	l := NewLineGrouper().Detect(toks)

	if l.Lines[0].Text() != "arriba" || l.Lines[1].Text() != "abajo" {
		t.Errorf("expected top-to-bottom order, got %q then %q",
			l.Lines[0].Text(), l.Lines[1].Text())
	}
}

func TestLineGrouper_PunctuationLabelPairs(t *testing.T) {
	toks := []token.Token{
		makeToken(0, "Fecha:", 10, 40, 60, 60),
		makeToken(1, "01/03/24", 70, 40, 140, 60),
	}

	l := NewLineGrouper().Detect(toks)

	if len(l.Pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(l.Pairs))
	}
	p := l.Pairs[0]
	if p.Key.Text != "Fecha:" || p.Value.Text != "01/03/24" {
		t.Errorf("expected Fecha: -> 01/03/24, got %s -> %s", p.Key.Text, p.Value.Text)
	}
}

func TestLineGrouper_KeywordLabelPairs(t *testing.T) {
	// TOTAL has no trailing punctuation but is a known label keyword.
	toks := []token.Token{
		makeToken(0, "TOTAL", 10, 800, 70, 820),
		makeToken(1, "150,00", 200, 800, 260, 820),
	}

	l := NewLineGrouper().Detect(toks)

	if len(l.Pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(l.Pairs))
	}
	if l.Pairs[0].Value.Text != "150,00" {
		t.Errorf("expected value 150,00, got %s", l.Pairs[0].Value.Text)
	}
}

func TestLineGrouper_KeywordLabelIsExactMatch(t *testing.T) {
	// SUBTOTALES contains the keyword SUBTOTAL but is not equal to any
	// keyword, so adjacency alone emits no pair.
	toks := []token.Token{
		makeToken(0, "SUBTOTALES", 10, 800, 110, 820),
		makeToken(1, "150,00", 200, 800, 260, 820),
	}

	l := NewLineGrouper().Detect(toks)

	if len(l.Pairs) != 0 {
		t.Errorf("expected no pairs, got %d", len(l.Pairs))
	}
}

func TestLineGrouper_NoPairAcrossLines(t *testing.T) {
	toks := []token.Token{
		makeToken(0, "Fecha:", 10, 40, 60, 60),
		makeToken(1, "01/03/24", 70, 400, 140, 420),
	}

	l := NewLineGrouper().Detect(toks)

	if len(l.Pairs) != 0 {
		t.Errorf("expected no pairs across lines, got %d", len(l.Pairs))
	}
}

func TestLineGrouper_ChainedPairs(t *testing.T) {
	// Adjacent pairs are evaluated independently along the row.
	toks := []token.Token{
		makeToken(0, "CLIENTE", 10, 100, 80, 120),
		makeToken(1, "NIF:", 90, 100, 120, 120),
		makeToken(2, "B12345678", 130, 100, 220, 120),
	}

	l := NewLineGrouper().Detect(toks)

	if len(l.Pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(l.Pairs))
	}
	if l.Pairs[0].Value.Text != "NIF:" {
		t.Errorf("expected CLIENTE -> NIF:, got value %s", l.Pairs[0].Value.Text)
	}
	if l.Pairs[1].Value.Text != "B12345678" {
		t.Errorf("expected NIF: -> B12345678, got value %s", l.Pairs[1].Value.Text)
	}
}

func TestLine_Text(t *testing.T) {
	line := Line{Tokens: []token.Token{
		makeToken(0, "IMPORTE", 0, 0, 60, 20),
		makeToken(1, "LIQUIDO", 70, 0, 130, 20),
	}}
	if got := line.Text(); got != "IMPORTE LIQUIDO" {
		t.Errorf("expected 'IMPORTE LIQUIDO', got %q", got)
	}
}
