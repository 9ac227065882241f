package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/phrazzld/product-api/internal/domain"
)

// MaxBodyBytes bounds the size of a product payload.
const MaxBodyBytes = 1 << 20

// Request decoding errors.
var (
	// ErrEmptyBody indicates the request carried no body, or only whitespace.
	ErrEmptyBody = errors.New("request body is empty")

	// ErrNotJSONObject indicates the body is not a single JSON object.
	ErrNotJSONObject = errors.New("request body is not a JSON object")
)

// DecodeProductChanges reads a JSON object from body and records every
// member, in document order, as a product field. Values keep their literal
// text: strings are unquoted, numbers are left as written, null becomes the
// empty string, and booleans, arrays and objects keep their raw JSON.
// A repeated key keeps its first position and its last value.
func DecodeProductChanges(body io.Reader) (domain.ProductChanges, error) {
	var changes domain.ProductChanges

	data, err := io.ReadAll(io.LimitReader(body, MaxBodyBytes+1))
	if err != nil {
		return changes, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(data) > MaxBodyBytes {
		return changes, fmt.Errorf("%w: body exceeds %d bytes", ErrNotJSONObject, MaxBodyBytes)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return changes, ErrEmptyBody
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return changes, fmt.Errorf("%w: %v", ErrNotJSONObject, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return changes, ErrNotJSONObject
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return changes, fmt.Errorf("%w: %v", ErrNotJSONObject, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return changes, ErrNotJSONObject
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return changes, fmt.Errorf("%w: %v", ErrNotJSONObject, err)
		}

		changes.Set(domain.ProductField(key), rawText(raw))
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return changes, fmt.Errorf("%w: %v", ErrNotJSONObject, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return changes, fmt.Errorf("%w: trailing data after object", ErrNotJSONObject)
	}

	return changes, nil
}

func rawText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		return ""
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	return string(trimmed)
}
