// Package parser decodes JSON text into the ordered value model of package
// models. Object members keep the order in which they appear in the source.
package parser

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/creachadair/jtree"
	"github.com/tailscale/hujson"

	"github.com/mcncl/jsonform/internal/errors"
)

// Options control how input is accepted.
type Options struct {
	// AllowComments accepts JWCC input (comments and trailing commas), which
	// is standardized to plain JSON before decoding.
	AllowComments bool
}

// Parse decodes exactly one JSON value from reader.
func Parse(reader io.Reader) (any, error) {
	st := jtree.NewStream(reader)

	var dec decoder
	if err := st.ParseOne(&dec); err != nil {
		// A syntax error may wrap io.EOF for truncated input, so only a bare
		// io.EOF means there was no value at all.
		if err == io.EOF {
			return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrFileEmpty)
		}
		return nil, syntaxError(err)
	}

	// Anything but whitespace after the first value is an error.
	var rest decoder
	switch err := st.ParseOne(&rest); {
	case err == nil:
		return nil, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	case err != io.EOF:
		return nil, errors.NewParsingError("invalid trailing data after first JSON value", errors.ErrInvalidJSON)
	}
	return dec.root, nil
}

func syntaxError(err error) error {
	var se *jtree.SyntaxError
	if stderrors.As(err, &se) {
		return errors.NewParsingError(fmt.Sprintf("JSON syntax error: %v", se), errors.ErrInvalidJSON)
	}
	return errors.NewParsingError("failed to decode JSON", err)
}

// ParseBytes decodes data according to opts.
func ParseBytes(data []byte, opts Options) (any, error) {
	if opts.AllowComments {
		std, err := hujson.Standardize(data)
		if err != nil {
			return nil, errors.NewParsingError("invalid JWCC input", err)
		}
		data = std
	}
	return Parse(strings.NewReader(string(data)))
}

// ParseString decodes a JSON value from a string.
func ParseString(jsonString string) (any, error) {
	if strings.TrimSpace(jsonString) == "" {
		return nil, errors.NewParsingError("input string is empty", errors.ErrFileEmpty)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseValue decodes raw as a JSON value if it is one. It reports false if
// raw is not valid JSON; callers then use the raw text as a string.
func ParseValue(raw string) (any, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	v, err := Parse(strings.NewReader(raw))
	if err != nil {
		return nil, false
	}
	return v, true
}

// ParseFile decodes the JSON file at filePath.
func ParseFile(filePath string, opts Options) (any, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewIOError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewIOError(fmt.Sprintf("failed to read file '%s'", filePath), err)
	}
	if len(data) == 0 {
		return nil, errors.NewIOError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}
	return ParseBytes(data, opts)
}
