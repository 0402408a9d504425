//go:build ocr

// Package ocr recognizes words and their pixel positions in scanned
// invoice images.
//
// This implementation wraps the Tesseract engine via gosseract and is
// selected with the "ocr" build tag:
//
//	go build -tags ocr
//
// It requires Tesseract and its Spanish language data to be installed.
// On macOS:
//
//	brew install tesseract tesseract-lang
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr tesseract-ocr-spa
//
// The hOCR and TSV parsers, the image preprocessing chain and the Azure
// client do not depend on Tesseract and are available under either build.
package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/solera/factura/token"
)

// Client wraps Tesseract for word-level OCR.
type Client struct {
	client *gosseract.Client
}

// New creates an OCR client recognizing the given language. Multiple
// languages can be specified as a "+" separated string (e.g. "spa+cat").
// The client should be closed when no longer needed to release resources.
func New(lang string) (*Client, error) {
	client := gosseract.NewClient()
	if lang != "" {
		if err := client.SetLanguage(lang); err != nil {
			client.Close()
			return nil, fmt.Errorf("ocr: set language %q: %w", lang, err)
		}
	}
	return &Client{client: client}, nil
}

// Close releases Tesseract resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Words recognizes the words in image data (PNG, JPEG, TIFF, BMP) and
// returns them as a positioned token stream. Recognition goes through
// Tesseract's hOCR output; see [ParseHOCR] for the filtering applied.
func (c *Client) Words(ctx context.Context, image []byte) ([]token.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.client.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("ocr: set image: %w", err)
	}
	hocr, err := c.client.HOCRText()
	if err != nil {
		return nil, fmt.Errorf("ocr: recognize: %w", err)
	}
	return ParseHOCR(strings.NewReader(hocr))
}
