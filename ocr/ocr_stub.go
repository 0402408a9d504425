//go:build !ocr

// Package ocr recognizes words and their pixel positions in scanned
// invoice images.
//
// This is the stub implementation used when the "ocr" build tag is not
// set. Client operations return ErrOCRNotEnabled. To enable local OCR,
// rebuild with the "ocr" build tag:
//
//	go build -tags ocr
//
// This requires Tesseract and its Spanish language data to be installed.
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
	"errors"

	"github.com/solera/factura/token"
)

// ErrOCRNotEnabled is returned when local OCR is invoked but OCR support
// was not compiled in. Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Client is a stub OCR client that returns errors for all operations.
type Client struct{}

// New returns an error indicating OCR support is not enabled.
// To enable OCR, rebuild with: go build -tags ocr
func New(lang string) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op for the stub client. It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// Words returns an error indicating OCR support is not enabled.
func (c *Client) Words(ctx context.Context, image []byte) ([]token.Token, error) {
	return nil, ErrOCRNotEnabled
}
