package pdftext

import (
	"testing"

	"github.com/ledongthuc/pdf"

	"github.com/solera/factura/token"
)

func glyph(s string, x, y, w, fontSize float64) pdf.Text {
	return pdf.Text{S: s, X: x, Y: y, W: w, FontSize: fontSize}
}

func TestRowWords_MergesAdjacentGlyphs(t *testing.T) {
	row := []pdf.Text{
		glyph("F", 10, 800, 6, 10),
		glyph("R", 16, 800, 6, 10),
		glyph("A", 22, 800, 6, 10),
	}

	words := rowWords(row)
	if len(words) != 1 {
		t.Fatalf("expected 1 word, got %d: %+v", len(words), words)
	}
	if words[0].text != "FRA" {
		t.Errorf("expected FRA, got %q", words[0].text)
	}
	if words[0].x0 != 10 || words[0].x1 != 28 {
		t.Errorf("expected extent [10, 28], got [%v, %v]", words[0].x0, words[0].x1)
	}
}

func TestRowWords_GapSplitsWords(t *testing.T) {
	// The gap between "A" ending at 28 and "2" starting at 40 is 12pt,
	// well past 30% of the 10pt font.
	row := []pdf.Text{
		glyph("F", 10, 800, 6, 10),
		glyph("A", 16, 800, 6, 10),
		glyph("A", 22, 800, 6, 10),
		glyph("2", 40, 800, 6, 10),
		glyph("4", 46, 800, 6, 10),
	}

	words := rowWords(row)
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d: %+v", len(words), words)
	}
	if words[0].text != "FAA" || words[1].text != "24" {
		t.Errorf("expected FAA and 24, got %q and %q", words[0].text, words[1].text)
	}
}

func TestRowWords_WhitespaceSplitsWords(t *testing.T) {
	row := []pdf.Text{
		glyph("N", 10, 800, 6, 10),
		glyph(" ", 16, 800, 3, 10),
		glyph("7", 19, 800, 6, 10),
	}

	words := rowWords(row)
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d: %+v", len(words), words)
	}
	if words[0].text != "N" || words[1].text != "7" {
		t.Errorf("expected N and 7, got %q and %q", words[0].text, words[1].text)
	}
}

func TestRowWords_SortsGlyphsByX(t *testing.T) {
	row := []pdf.Text{
		glyph("A", 16, 800, 6, 10),
		glyph("F", 10, 800, 6, 10),
	}

	words := rowWords(row)
	if len(words) != 1 || words[0].text != "FA" {
		t.Errorf("expected FA, got %+v", words)
	}
}

func TestRowWords_Empty(t *testing.T) {
	if words := rowWords(nil); len(words) != 0 {
		t.Errorf("expected no words, got %+v", words)
	}
}

func TestAssemble_FlipsYDown(t *testing.T) {
	top := &pdf.Row{Position: 800, Content: pdf.TextHorizontal{
		glyph("FACTURA", 10, 800, 42, 10),
	}}
	bottom := &pdf.Row{Position: 100, Content: pdf.TextHorizontal{
		glyph("TOTAL", 10, 100, 30, 10),
	}}

	// Stream order follows page position, not input order.
	words := assemble(pdf.Rows{bottom, top})
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}

	want := []token.Word{
		{Text: "FACTURA", Box: token.Box{X0: 30, Y0: 0, X1: 156, Y1: 30}},
		{Text: "TOTAL", Box: token.Box{X0: 30, Y0: 2100, X1: 120, Y1: 2130}},
	}
	for i, w := range want {
		if words[i] != w {
			t.Errorf("word %d: expected %+v, got %+v", i, w, words[i])
		}
	}
}

func TestAssemble_Empty(t *testing.T) {
	if words := assemble(nil); len(words) != 0 {
		t.Errorf("expected no words, got %+v", words)
	}
}

func TestExtractBytes_NotAPDF(t *testing.T) {
	if _, err := ExtractBytes([]byte("plain text")); err == nil {
		t.Error("expected error for non-PDF data")
	}
}

func TestPx(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{10, 30},
		{10.4, 31},
		{595.28, 1786},
	}
	for _, tt := range tests {
		if got := px(tt.in); got != tt.want {
			t.Errorf("px(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
