// Package format provides input format detection for the invoice
// pipeline.
package format

import (
	"io"
	"path/filepath"
	"strings"
)

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a born-digital PDF document.
	PDF
	// Image indicates a raster scan (PNG, JPEG, TIFF or BMP).
	Image
	// TokenJSON indicates a pre-tokenized stream saved as JSON.
	TokenJSON
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case Image:
		return "Image"
	case TokenJSON:
		return "TokenJSON"
	default:
		return "Unknown"
	}
}

// Extension returns the canonical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case Image:
		return ".png"
	case TokenJSON:
		return ".json"
	default:
		return ""
	}
}

// Supported reports whether files of this format can enter the
// pipeline.
func (f Format) Supported() bool {
	return f != Unknown
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return PDF
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp":
		return Image
	case ".json":
		return TokenJSON
	default:
		return Unknown
	}
}

// DetectFromMagic checks magic bytes to determine format. This is more
// reliable than extension-based detection. Returns Unknown when the
// bytes match no known signature.
func DetectFromMagic(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	// PDF magic: %PDF
	if data[0] == '%' && data[1] == 'P' && data[2] == 'D' && data[3] == 'F' {
		return PDF
	}

	// PNG magic: \x89PNG
	if data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G' {
		return Image
	}

	// JPEG magic: FF D8 FF
	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return Image
	}

	// TIFF magic: II*\x00 (little endian) or MM\x00* (big endian)
	if data[0] == 'I' && data[1] == 'I' && data[2] == 0x2A && data[3] == 0x00 {
		return Image
	}
	if data[0] == 'M' && data[1] == 'M' && data[2] == 0x00 && data[3] == 0x2A {
		return Image
	}

	// BMP magic: BM
	if data[0] == 'B' && data[1] == 'M' {
		return Image
	}

	if detectJSONMagic(data) {
		return TokenJSON
	}

	return Unknown
}

// detectJSONMagic checks if the data opens like a JSON token stream.
func detectJSONMagic(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}

// DetectFromReader reads the opening bytes of r and detects from
// content rather than name.
func DetectFromReader(r io.Reader) (Format, error) {
	magic := make([]byte, 512)
	n, err := io.ReadFull(r, magic)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Unknown, err
	}
	return DetectFromMagic(magic[:n]), nil
}
