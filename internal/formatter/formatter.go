// Package formatter renders documents back to JSON text.
package formatter

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/mcncl/jsonform/internal/models"
)

// DefaultIndent is the number of spaces per nesting level in saved files.
const DefaultIndent = 2

// Formatter is responsible for turning values into JSON text.
type Formatter struct {
	Indent          int
	TrailingNewline bool
}

// NewFormatter creates a Formatter that writes two-space indented JSON
// followed by a newline.
func NewFormatter() *Formatter {
	return &Formatter{Indent: DefaultIndent, TrailingNewline: true}
}

// Format returns the indented JSON encoding of v. Object members are written
// in their stored order.
func (f *Formatter) Format(v any) ([]byte, error) {
	compact, err := models.AppendJSON(nil, v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	if f.Indent <= 0 {
		if f.TrailingNewline {
			compact = append(compact, '\n')
		}
		return compact, nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", strings.Repeat(" ", f.Indent)); err != nil {
		return nil, fmt.Errorf("failed to indent JSON: %w", err)
	}
	if f.TrailingNewline {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// FormatString is Format returning a string.
func (f *Formatter) FormatString(v any) (string, error) {
	out, err := f.Format(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
