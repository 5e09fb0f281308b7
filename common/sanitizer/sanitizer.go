// Package sanitizer trims and HTML-escapes user-supplied form fields before
// they are stored or rendered.
package sanitizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"
)

// ErrNotObject is returned by SanitizeJSON when the document is not a JSON object
var ErrNotObject = errors.New("sanitizer: payload must be a JSON object")

// SanitizeString trims surrounding whitespace, then escapes < > & " '.
func SanitizeString(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

// SanitizeInput returns a copy of input with every string value sanitized.
// Nested maps are sanitized recursively; all other values, slices included,
// are copied through unchanged. The input map is not modified.
func SanitizeInput(input map[string]interface{}) map[string]interface{} {
	if input == nil {
		return nil
	}
	out := make(map[string]interface{}, len(input))
	for key, value := range input {
		out[key] = sanitizeValue(value)
	}
	return out
}

func sanitizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		return SanitizeString(v)
	case map[string]interface{}:
		return SanitizeInput(v)
	default:
		return v
	}
}

// SanitizeJSON applies the SanitizeInput rules to a JSON object while keeping
// its keys in their original order. Numbers are preserved verbatim.
func SanitizeJSON(data []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("sanitizer: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, ErrNotObject
	}

	var buf bytes.Buffer
	if err := writeObject(dec, &buf); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err == nil {
		return nil, fmt.Errorf("sanitizer: trailing data after object")
	}
	return buf.Bytes(), nil
}

// writeObject copies an object whose opening brace was already consumed.
func writeObject(dec *json.Decoder, buf *bytes.Buffer) error {
	buf.WriteByte('{')
	first := true
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("sanitizer: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("sanitizer: unexpected object key %v", keyTok)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		writeString(buf, key)
		buf.WriteByte(':')

		if err := writeValue(dec, buf); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return fmt.Errorf("sanitizer: %w", err)
	}
	buf.WriteByte('}')
	return nil
}

func writeValue(dec *json.Decoder, buf *bytes.Buffer) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("sanitizer: %w", err)
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return writeObject(dec, buf)
		case '[':
			return writeRawArray(dec, buf)
		default:
			return fmt.Errorf("sanitizer: unexpected delimiter %q", v)
		}
	case string:
		writeString(buf, SanitizeString(v))
	case json.Number:
		buf.WriteString(v.String())
	case bool:
		if v {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case nil:
		buf.WriteString("null")
	default:
		return fmt.Errorf("sanitizer: unexpected token %v", tok)
	}
	return nil
}

// writeRawArray copies an array and everything inside it untouched.
func writeRawArray(dec *json.Decoder, buf *bytes.Buffer) error {
	buf.WriteByte('[')
	first := true
	for dec.More() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("sanitizer: %w", err)
		}
		buf.Write(raw)
	}
	if _, err := dec.Token(); err != nil { // closing ']'
		return fmt.Errorf("sanitizer: %w", err)
	}
	buf.WriteByte(']')
	return nil
}

// writeString emits s as a JSON string without re-escaping the entities
// SanitizeString produced.
func writeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
}
