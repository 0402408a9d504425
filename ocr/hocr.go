package ocr

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/solera/factura/token"
)

// ParseHOCR parses Tesseract hOCR output into a positioned token stream.
// Word spans carry their pixel box and confidence in the title attribute:
//
//	<span class='ocrx_word' title='bbox 157 80 320 109; x_wconf 96'>FACTURA</span>
//
// Words with blank text or without positive confidence are skipped,
// matching the filter [ParseTSV] applies to TSV output.
func ParseHOCR(r io.Reader) ([]token.Token, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("ocr: parse hocr: %w", err)
	}

	var words []token.Word
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocrx_word") {
			if w, ok := hocrWord(n); ok {
				words = append(words, w)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return token.NewStream(words), nil
}

func hocrWord(n *html.Node) (token.Word, bool) {
	box, conf, ok := parseHOCRTitle(attr(n, "title"))
	if !ok || conf <= 0 {
		return token.Word{}, false
	}
	text := strings.TrimSpace(nodeText(n))
	if text == "" {
		return token.Word{}, false
	}
	return token.Word{Text: text, Box: box}, true
}

// parseHOCRTitle reads the bbox and x_wconf properties from an hOCR
// title attribute. Properties are semicolon-separated; a missing or
// malformed bbox invalidates the word, a missing confidence reads as -1.
func parseHOCRTitle(title string) (token.Box, float64, bool) {
	var box token.Box
	conf := -1.0
	found := false
	for _, part := range strings.Split(title, ";") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "bbox":
			if len(fields) != 5 {
				return token.Box{}, 0, false
			}
			var coords [4]int
			for i, f := range fields[1:] {
				v, err := strconv.Atoi(f)
				if err != nil {
					return token.Box{}, 0, false
				}
				coords[i] = v
			}
			box = token.Box{X0: coords[0], Y0: coords[1], X1: coords[2], Y1: coords[3]}
			found = true
		case "x_wconf":
			if len(fields) == 2 {
				if v, err := strconv.ParseFloat(fields[1], 64); err == nil {
					conf = v
				}
			}
		}
	}
	return box, conf, found
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
