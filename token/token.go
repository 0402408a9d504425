// Package token defines the positioned word stream the rest of the module
// consumes: each token is a piece of recognized text with its pixel
// bounding box and a stable identifier assigned at ingestion.
package token

import "strings"

// Word is a raw (text, box) pair as produced by an acquisition source,
// before identity has been assigned.
type Word struct {
	Text string `json:"text"`
	Box  Box    `json:"box"`
}

// Token is a Word with a stable ID. NewStream assigns IDs in stream order,
// starting at zero, and they are never reassigned: a token keeps its ID
// through zoning, classification and grouping, so any stage can refer back
// to the original stream position.
type Token struct {
	ID   int
	Text string
	Box  Box
}

// Word returns the token's raw form, without identity.
func (t Token) Word() Word {
	return Word{Text: t.Text, Box: t.Box}
}

// NewStream ingests raw words and assigns each its ID. The returned slice
// satisfies the stream invariant: toks[i].ID == i.
func NewStream(words []Word) []Token {
	toks := make([]Token, len(words))
	for i, w := range words {
		toks[i] = Token{ID: i, Text: w.Text, Box: w.Box}
	}
	return toks
}

// Words converts a token stream back to its raw form.
func Words(toks []Token) []Word {
	words := make([]Word, len(toks))
	for i, t := range toks {
		words[i] = t.Word()
	}
	return words
}

// FullText joins token texts with single spaces, in stream order. This is
// the text the pattern-matching tier searches.
func FullText(toks []Token) string {
	if len(toks) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, t := range toks {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}
