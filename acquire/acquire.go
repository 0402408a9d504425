// Package acquire routes input documents to the acquisition source
// that can turn them into a token stream: embedded PDF text for
// born-digital invoices, OCR for scans, and the token dump loader for
// saved streams.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/solera/factura/format"
	"github.com/solera/factura/ocr"
	"github.com/solera/factura/pdftext"
	"github.com/solera/factura/token"
	"github.com/solera/factura/tokenjson"
)

// ErrNoOCR is returned for image inputs when the source was built
// without an OCR client.
var ErrNoOCR = errors.New("acquire: no OCR client configured")

// ErrUnsupported is returned for inputs whose format cannot be
// detected or has no acquisition path.
var ErrUnsupported = errors.New("acquire: unsupported input format")

// ImageOCR recognizes words in image data. Both the local Tesseract
// client and the Azure client satisfy it.
type ImageOCR interface {
	Words(ctx context.Context, image []byte) ([]token.Token, error)
}

// Source turns input documents into token streams. The zero value
// handles PDFs and token dumps; an OCR client adds scanned images.
type Source struct {
	ocr ImageOCR
}

// NewSource creates a source. A nil client disables the image path,
// leaving ErrNoOCR for scans.
func NewSource(client ImageOCR) *Source {
	return &Source{ocr: client}
}

// FromFile reads the document at path. The extension picks the
// acquisition path; when it is inconclusive the file's leading bytes
// decide.
func (s *Source) FromFile(ctx context.Context, path string) ([]token.Token, error) {
	f := format.Detect(path)
	if f == format.PDF {
		return pdftext.Extract(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("acquire: read %s: %w", path, err)
	}
	if f == format.Unknown {
		f = format.DetectFromMagic(data)
	}
	return s.fromFormat(ctx, f, data)
}

// FromUpload routes uploaded data, preferring the client-supplied
// filename and falling back to magic sniffing.
func (s *Source) FromUpload(ctx context.Context, filename string, data []byte) ([]token.Token, error) {
	if f := format.Detect(filename); f != format.Unknown {
		return s.fromFormat(ctx, f, data)
	}
	return s.FromBytes(ctx, data)
}

// FromBytes routes in-memory data by its leading bytes alone.
func (s *Source) FromBytes(ctx context.Context, data []byte) ([]token.Token, error) {
	return s.fromFormat(ctx, format.DetectFromMagic(data), data)
}

func (s *Source) fromFormat(ctx context.Context, f format.Format, data []byte) ([]token.Token, error) {
	switch f {
	case format.PDF:
		return pdftext.ExtractBytes(data)
	case format.Image:
		if s.ocr == nil {
			return nil, ErrNoOCR
		}
		img, err := ocr.Preprocess(data)
		if err != nil {
			return nil, err
		}
		return s.ocr.Words(ctx, img)
	case format.TokenJSON:
		return tokenjson.Unmarshal(data)
	default:
		return nil, ErrUnsupported
	}
}
