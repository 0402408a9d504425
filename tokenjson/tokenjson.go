// Package tokenjson reads and writes token streams as JSON.
//
// The wire form carries the concatenated text and every word with its
// box:
//
//	{
//	  "full_text": "FACTURA 24/62",
//	  "words": [
//	    {"text": "FACTURA", "box": [0, 0, 60, 10]},
//	    {"text": "24/62", "box": [65, 0, 100, 10]}
//	  ]
//	}
//
// Incoming streams are validated against a JSON schema before
// decoding, enforcing the engine's input contract at the boundary:
// non-empty text and four non-negative box coordinates per word.
package tokenjson

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/solera/factura/token"
)

const schema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["full_text", "words"],
	"properties": {
		"full_text": {"type": "string"},
		"words": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["text", "box"],
				"properties": {
					"text": {"type": "string", "minLength": 1},
					"box": {
						"type": "array",
						"items": {"type": "integer", "minimum": 0},
						"minItems": 4,
						"maxItems": 4
					}
				}
			}
		}
	}
}`

var streamSchema = jsonschema.MustCompileString("tokenstream.json", schema)

// Stream is the wire form of a token stream.
type Stream struct {
	FullText string       `json:"full_text"`
	Words    []token.Word `json:"words"`
}

// Marshal renders toks in the wire form, indented for inspection.
func Marshal(toks []token.Token) ([]byte, error) {
	s := Stream{
		FullText: token.FullText(toks),
		Words:    token.Words(toks),
	}
	return json.MarshalIndent(s, "", "  ")
}

// Unmarshal validates data against the stream schema and decodes it
// into a token stream with sequential IDs.
func Unmarshal(data []byte) ([]token.Token, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("tokenjson: decode: %w", err)
	}
	if err := streamSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("tokenjson: validate: %w", err)
	}

	var s Stream
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("tokenjson: decode: %w", err)
	}
	return token.NewStream(s.Words), nil
}

// Save writes toks to path in the wire form.
func Save(path string, toks []token.Token) error {
	data, err := Marshal(toks)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a token stream from path.
func Load(path string) ([]token.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}
