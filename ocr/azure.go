package ocr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
	"github.com/Azure/go-autorest/autorest"

	"github.com/solera/factura/token"
)

// AzureClient recognizes words through the Azure Computer Vision OCR
// API. It needs no local Tesseract install and is available under
// either build. Recognition is fixed to Spanish, the language the
// extraction vocabulary targets.
type AzureClient struct {
	client computervision.BaseClient
}

// NewAzure creates an Azure OCR client for the given Computer Vision
// endpoint and subscription key.
func NewAzure(endpoint, key string) *AzureClient {
	client := computervision.New(endpoint)
	client.Authorizer = autorest.NewCognitiveServicesAuthorizer(key)
	return &AzureClient{client: client}
}

// Words recognizes the words in image data and returns them as a
// positioned token stream.
func (c *AzureClient) Words(ctx context.Context, image []byte) ([]token.Token, error) {
	result, err := c.client.RecognizePrintedTextInStream(
		ctx,
		true,
		io.NopCloser(bytes.NewReader(image)),
		computervision.OcrLanguagesEs,
	)
	if err != nil {
		return nil, fmt.Errorf("ocr: azure recognize: %w", err)
	}
	return token.NewStream(azureWords(result)), nil
}

// azureWords flattens the region/line/word hierarchy of an OCR result
// into raw words. Words with blank text or a malformed box are skipped.
func azureWords(result computervision.OcrResult) []token.Word {
	var words []token.Word
	if result.Regions == nil {
		return words
	}
	for _, region := range *result.Regions {
		if region.Lines == nil {
			continue
		}
		for _, line := range *region.Lines {
			if line.Words == nil {
				continue
			}
			for _, w := range *line.Words {
				if w.Text == nil || w.BoundingBox == nil {
					continue
				}
				text := strings.TrimSpace(*w.Text)
				box, ok := azureBox(*w.BoundingBox)
				if text == "" || !ok {
					continue
				}
				words = append(words, token.Word{Text: text, Box: box})
			}
		}
	}
	return words
}

// azureBox parses the API's "left,top,width,height" box form into
// corner form.
func azureBox(s string) (token.Box, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return token.Box{}, false
	}
	var vals [4]int
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return token.Box{}, false
		}
		vals[i] = v
	}
	left, top, width, height := vals[0], vals[1], vals[2], vals[3]
	return token.Box{X0: left, Y0: top, X1: left + width, Y1: top + height}, true
}
