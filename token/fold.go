package token

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldChain decomposes to NFD, strips combining marks, and recomposes, so
// accented letters reduce to their base form.
var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold normalizes text for keyword comparison: diacritics stripped, then
// uppercased. OCR output mixes accented and plain spellings of the same
// Spanish word, so DESCRIPCIÓN, Descripción and DESCRIPCION all fold to
// the same key.
func Fold(s string) string {
	folded, _, err := transform.String(foldChain, s)
	if err != nil {
		folded = s
	}
	return strings.ToUpper(folded)
}
