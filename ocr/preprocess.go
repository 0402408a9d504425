package ocr

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	// Register decoders for the scan formats the pipeline accepts.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Preprocess enhances a scanned invoice image before recognition:
// grayscale, contrast +30, sharpen 1.5, brightness +10, gamma 1.2.
// The result is PNG-encoded regardless of the input format.
func Preprocess(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("ocr: decode image: %w", err)
	}

	img := imaging.Grayscale(src)
	img = imaging.AdjustContrast(img, 30)
	img = imaging.Sharpen(img, 1.5)
	img = imaging.AdjustBrightness(img, 10)
	img = imaging.AdjustGamma(img, 1.2)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("ocr: encode image: %w", err)
	}
	return buf.Bytes(), nil
}
