// Package coerce turns edited field text back into typed values, guided by
// the type the field had when it was projected.
//
// There are two contracts. Preview is lenient and never fails; it is used
// while the user is typing. Strict is used when edits are committed on
// navigation or save, and reports an error instead of writing a wrong number.
package coerce

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mcncl/jsonform/internal/errors"
	"github.com/mcncl/jsonform/internal/models"
	"github.com/mcncl/jsonform/internal/parser"
)

// Mode selects the coercion policy.
type Mode int

const (
	// Live is the per-keystroke policy.
	Live Mode = iota
	// Committed is the navigation/save policy.
	Committed
)

func (m Mode) String() string {
	if m == Live {
		return "live"
	}
	return "committed"
}

// Coerce applies Preview or Strict according to mode.
func Coerce(raw string, kind models.Kind, mode Mode) (any, error) {
	if mode == Live {
		return Preview(raw, kind), nil
	}
	return Strict(raw, kind)
}

// Preview converts raw to a value of the given kind. Numbers that do not
// parse become zero.
func Preview(raw string, kind models.Kind) any {
	switch kind {
	case models.KindInt:
		if z, err := parseInt(raw); err == nil {
			return z
		}
		return int64(0)
	case models.KindFloat:
		if f, err := parseFloat(raw); err == nil {
			return f
		}
		return 0.0
	default:
		return lenient(raw, kind)
	}
}

// Strict converts raw to a value of the given kind. Text that is not a valid
// integer or float for a numeric field is reported as a coercion error.
func Strict(raw string, kind models.Kind) (any, error) {
	switch kind {
	case models.KindInt:
		z, err := parseInt(raw)
		if err != nil {
			return nil, errors.NewCoercionError("", fmt.Sprintf("cannot use %q as %s", raw, kind), err)
		}
		return z, nil
	case models.KindFloat:
		f, err := parseFloat(raw)
		if err != nil {
			return nil, errors.NewCoercionError("", fmt.Sprintf("cannot use %q as %s", raw, kind), err)
		}
		return f, nil
	default:
		return lenient(raw, kind), nil
	}
}

// lenient handles the kinds whose conversion is the same under both policies.
func lenient(raw string, kind models.Kind) any {
	switch kind {
	case models.KindBool:
		switch strings.ToLower(raw) {
		case "true":
			return true
		case "false":
			return false
		}
		return raw != ""
	case models.KindArray:
		return parseList(raw)
	case models.KindNull:
		if strings.EqualFold(raw, "null") {
			return nil
		}
		return raw
	default:
		return raw
	}
}

// parseList decodes raw as JSON, retrying with single quotes swapped for
// double quotes to accept hand-typed list literals like ['a', 'b']. Text that
// still does not decode is kept as a string.
func parseList(raw string) any {
	if v, ok := parser.ParseValue(raw); ok {
		return v
	}
	if strings.Contains(raw, "'") {
		if v, ok := parser.ParseValue(strings.ReplaceAll(raw, "'", `"`)); ok {
			return v
		}
	}
	return raw
}

func parseInt(raw string) (int64, error) {
	z, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, errors.ErrInvalidNumber
	}
	return z, nil
}

func parseFloat(raw string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.ErrInvalidNumber
	}
	return f, nil
}
