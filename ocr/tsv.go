package ocr

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/solera/factura/token"
)

// Tesseract TSV columns. Only word-level rows carry a non-negative
// confidence and text.
const (
	tsvLeft   = 6
	tsvTop    = 7
	tsvWidth  = 8
	tsvHeight = 9
	tsvConf   = 10
	tsvText   = 11
)

// ParseTSV parses Tesseract TSV output (tesseract image out tsv) into a
// positioned token stream. Rows with blank text or without positive
// confidence are skipped; structural rows (page, block, paragraph, line)
// carry confidence -1 and fall out with the same check. The header row
// fails confidence parsing and is skipped too.
func ParseTSV(r io.Reader) ([]token.Token, error) {
	var words []token.Word
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Split(sc.Text(), "\t")
		if len(fields) <= tsvText {
			continue
		}
		conf, err := strconv.ParseFloat(fields[tsvConf], 64)
		if err != nil || conf <= 0 {
			continue
		}
		text := strings.TrimSpace(fields[tsvText])
		if text == "" {
			continue
		}
		box, ok := tsvBox(fields)
		if !ok {
			continue
		}
		words = append(words, token.Word{Text: text, Box: box})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ocr: read tsv: %w", err)
	}

	return token.NewStream(words), nil
}

// tsvBox converts the left/top/width/height columns to corner form.
func tsvBox(fields []string) (token.Box, bool) {
	var vals [4]int
	for i, col := range []int{tsvLeft, tsvTop, tsvWidth, tsvHeight} {
		v, err := strconv.Atoi(fields[col])
		if err != nil {
			return token.Box{}, false
		}
		vals[i] = v
	}
	left, top, width, height := vals[0], vals[1], vals[2], vals[3]
	return token.Box{X0: left, Y0: top, X1: left + width, Y1: top + height}, true
}
