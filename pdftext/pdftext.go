// Package pdftext extracts positioned words from born-digital PDFs,
// the ones that carry a real text layer and need no OCR.
//
// PDF user space puts the origin at the bottom-left corner with y
// growing upward, in points. The extraction pipeline works in y-down
// pixel space, so every word is flipped against the top of the page
// text and scaled from points to pixels. Box height spans the font
// size above the glyph baseline.
package pdftext

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/solera/factura/token"
)

// pointsToPixels scales PDF points to the pixel space OCR sources
// produce. An A4 page (595pt wide) comes out around 1800px, in the
// range of a 200 DPI scan.
const pointsToPixels = 3

// Extract reads the PDF at path and returns the words of its first
// page as a positioned token stream. Invoices are single-page
// documents; later pages are ignored.
func Extract(path string) ([]token.Token, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pdftext: open %s: %w", path, err)
	}
	defer f.Close()
	return pageTokens(r)
}

// ExtractBytes extracts from an in-memory PDF.
func ExtractBytes(data []byte) ([]token.Token, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("pdftext: read pdf: %w", err)
	}
	return pageTokens(r)
}

func pageTokens(r *pdf.Reader) ([]token.Token, error) {
	if r.NumPage() < 1 {
		return token.NewStream(nil), nil
	}
	page := r.Page(1)
	if page.V.IsNull() {
		return token.NewStream(nil), nil
	}
	rows, err := page.GetTextByRow()
	if err != nil {
		return nil, fmt.Errorf("pdftext: text by row: %w", err)
	}
	return token.NewStream(assemble(rows)), nil
}

// word is an assembled run of glyphs, still in point space.
type word struct {
	text     string
	x0, x1   float64
	y        float64 // glyph baseline
	fontSize float64
}

// assemble groups the glyphs of each row into words and converts them
// to y-down pixel boxes. Rows arrive top of page first (higher Y in
// point space); within a row, words read left to right.
func assemble(rows pdf.Rows) []token.Word {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Position > rows[j].Position
	})

	var words []word
	pageTop := 0.0
	for _, row := range rows {
		for _, w := range rowWords(row.Content) {
			if top := w.y + w.fontSize; top > pageTop {
				pageTop = top
			}
			words = append(words, w)
		}
	}

	out := make([]token.Word, 0, len(words))
	for _, w := range words {
		out = append(out, token.Word{
			Text: w.text,
			Box: token.Box{
				X0: px(w.x0),
				Y0: px(pageTop - (w.y + w.fontSize)),
				X1: px(w.x1),
				Y1: px(pageTop - w.y),
			},
		})
	}
	return out
}

// rowWords merges a row's glyphs into words. A whitespace glyph or a
// horizontal gap wider than wordGap closes the current word.
func rowWords(glyphs []pdf.Text) []word {
	sorted := make([]pdf.Text, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var words []word
	var cur *word
	flush := func() {
		if cur != nil {
			words = append(words, *cur)
			cur = nil
		}
	}

	for _, g := range sorted {
		if strings.TrimSpace(g.S) == "" {
			flush()
			continue
		}
		if cur != nil && g.X-cur.x1 > wordGap(cur.fontSize) {
			flush()
		}
		if cur == nil {
			cur = &word{text: g.S, x0: g.X, x1: g.X + g.W, y: g.Y, fontSize: g.FontSize}
			continue
		}
		cur.text += g.S
		if end := g.X + g.W; end > cur.x1 {
			cur.x1 = end
		}
		if g.FontSize > cur.fontSize {
			cur.fontSize = g.FontSize
		}
	}
	flush()
	return words
}

// wordGap is the horizontal gap that separates two words: 30% of the
// font size, with a fixed fallback when the font size is unknown.
func wordGap(fontSize float64) float64 {
	if fontSize <= 0 {
		return 3.0
	}
	return 0.3 * fontSize
}

func px(pt float64) int {
	return int(math.Round(pt * pointsToPixels))
}
