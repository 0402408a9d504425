package acquire

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/solera/factura/token"
)

const tokenDump = `{
	"full_text": "FACTURA 24/62",
	"words": [
		{"text": "FACTURA", "box": [0, 0, 60, 10]},
		{"text": "24/62", "box": [65, 0, 100, 10]}
	]
}`

// fakeOCR records the image it was handed and returns a fixed stream.
type fakeOCR struct {
	toks  []token.Token
	err   error
	image []byte
}

func (f *fakeOCR) Words(ctx context.Context, image []byte) ([]token.Token, error) {
	f.image = image
	return f.toks, f.err
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestSource_TokenJSONFile(t *testing.T) {
	path := writeFile(t, "stream.json", []byte(tokenDump))

	toks, err := NewSource(nil).FromFile(context.Background(), path)
	if err != nil {
		t.Fatalf("from file: %v", err)
	}
	if len(toks) != 2 || toks[0].Text != "FACTURA" {
		t.Errorf("unexpected tokens: %+v", toks)
	}
}

func TestSource_TokenJSONByMagic(t *testing.T) {
	// No useful extension, so the leading brace decides.
	path := writeFile(t, "stream.dat", []byte(tokenDump))

	toks, err := NewSource(nil).FromFile(context.Background(), path)
	if err != nil {
		t.Fatalf("from file: %v", err)
	}
	if len(toks) != 2 {
		t.Errorf("expected 2 tokens, got %d", len(toks))
	}
}

func TestSource_ImageRoutesThroughOCR(t *testing.T) {
	want := token.NewStream([]token.Word{
		{Text: "TOTAL", Box: token.Box{X0: 0, Y0: 0, X1: 50, Y1: 10}},
	})
	fake := &fakeOCR{toks: want}
	path := writeFile(t, "scan.png", pngBytes(t))

	toks, err := NewSource(fake).FromFile(context.Background(), path)
	if err != nil {
		t.Fatalf("from file: %v", err)
	}
	if len(toks) != 1 || toks[0].Text != "TOTAL" {
		t.Errorf("unexpected tokens: %+v", toks)
	}
	if fake.image == nil {
		t.Fatal("OCR client never received an image")
	}
	if !bytes.HasPrefix(fake.image, []byte("\x89PNG")) {
		t.Error("OCR client received unpreprocessed data")
	}
}

func TestSource_ImageWithoutOCR(t *testing.T) {
	path := writeFile(t, "scan.png", pngBytes(t))

	_, err := NewSource(nil).FromFile(context.Background(), path)
	if !errors.Is(err, ErrNoOCR) {
		t.Errorf("expected ErrNoOCR, got %v", err)
	}
}

func TestSource_OCRFailure(t *testing.T) {
	fail := errors.New("tesseract exploded")
	fake := &fakeOCR{err: fail}
	path := writeFile(t, "scan.png", pngBytes(t))

	_, err := NewSource(fake).FromFile(context.Background(), path)
	if !errors.Is(err, fail) {
		t.Errorf("expected OCR error to propagate, got %v", err)
	}
}

func TestSource_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, "notes.txt", []byte("texto plano"))

	_, err := NewSource(nil).FromFile(context.Background(), path)
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestSource_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.png")

	if _, err := NewSource(nil).FromFile(context.Background(), missing); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSource_BadPDF(t *testing.T) {
	path := writeFile(t, "broken.pdf", []byte("not a pdf"))

	if _, err := NewSource(nil).FromFile(context.Background(), path); err == nil {
		t.Error("expected error for invalid PDF")
	}
}

func TestSource_UploadPrefersExtension(t *testing.T) {
	toks, err := NewSource(nil).FromUpload(context.Background(), "factura.json", []byte(tokenDump))
	if err != nil {
		t.Fatalf("from upload: %v", err)
	}
	if len(toks) != 2 {
		t.Errorf("expected 2 tokens, got %d", len(toks))
	}
}

func TestSource_UploadFallsBackToMagic(t *testing.T) {
	toks, err := NewSource(nil).FromUpload(context.Background(), "factura", []byte(tokenDump))
	if err != nil {
		t.Fatalf("from upload: %v", err)
	}
	if len(toks) != 2 {
		t.Errorf("expected 2 tokens, got %d", len(toks))
	}
}

func TestSource_BytesUnknown(t *testing.T) {
	_, err := NewSource(nil).FromBytes(context.Background(), []byte("??"))
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}
