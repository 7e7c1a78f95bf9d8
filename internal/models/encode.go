package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/creachadair/jtree"
)

// AppendJSON appends the compact JSON encoding of v to dst.
func AppendJSON(dst []byte, v any) ([]byte, error) {
	switch t := v.(type) {
	case nil:
		return append(dst, "null"...), nil
	case bool:
		return strconv.AppendBool(dst, t), nil
	case int64:
		return strconv.AppendInt(dst, t, 10), nil
	case int:
		return strconv.AppendInt(dst, int64(t), 10), nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, fmt.Errorf("unsupported float value %v", t)
		}
		return append(dst, FormatFloat(t)...), nil
	case string:
		return append(dst, jtree.Quote(t)...), nil
	case []any:
		return AppendJSON(dst, Array(t))
	case Array:
		dst = append(dst, '[')
		for i, elt := range t {
			if i > 0 {
				dst = append(dst, ',')
			}
			var err error
			if dst, err = AppendJSON(dst, elt); err != nil {
				return nil, err
			}
		}
		return append(dst, ']'), nil
	case *Object:
		dst = append(dst, '{')
		for i, m := range t.members {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = append(dst, jtree.Quote(m.Key)...)
			dst = append(dst, ':')
			var err error
			if dst, err = AppendJSON(dst, m.Value); err != nil {
				return nil, err
			}
		}
		return append(dst, '}'), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// FormatFloat renders f in its shortest form, keeping a ".0" suffix on
// integral values so they still read as floats. Exponent notation is used
// only for very large or very small magnitudes.
func FormatFloat(f float64) string {
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// Text returns the editable text of a leaf value.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return FormatFloat(t)
	case string:
		return t
	default:
		buf, err := AppendJSON(nil, v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(buf)
	}
}
