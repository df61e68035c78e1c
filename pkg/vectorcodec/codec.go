// Package vectorcodec provides the textual wire encoding for embedding
// vectors as stored in the catalog's vector columns: a bracketed,
// comma-joined list of decimals, e.g. "[0.12,-0.5,1]".
//
// The two directions are intentionally asymmetric. Encode is defensive:
// an invalid (NaN) slot produced by upstream code is written as "0".
// Decode is strict: a corrupt token is a format error and propagates,
// it is never silently zeroed.
package vectorcodec

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Encode serializes a vector into its storage representation.
// A nil or empty vector encodes to the empty string, not "[]", so a
// column can represent "no preference yet" distinctly from a zero vector.
func Encode(v []float32) string {
	if len(v) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteByte('[')
	for i, value := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		if math.IsNaN(float64(value)) {
			b.WriteByte('0')
			continue
		}
		b.WriteString(strconv.FormatFloat(float64(value), 'g', -1, 32))
	}
	b.WriteByte(']')

	return b.String()
}

// Decode parses the storage representation back into a vector.
// Blank input yields an empty vector. A single pair of enclosing brackets
// is stripped if present; components are split on commas and trimmed.
// Empty tokens are skipped; any unparseable numeric token is an error.
func Decode(s string) ([]float32, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, nil
	}

	trimmed = strings.TrimPrefix(trimmed, "[")
	trimmed = strings.TrimSuffix(trimmed, "]")
	if strings.TrimSpace(trimmed) == "" {
		return nil, nil
	}

	parts := strings.Split(trimmed, ",")
	values := make([]float32, 0, len(parts))
	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		value, err := strconv.ParseFloat(p, 32)
		if err != nil {
			return nil, fmt.Errorf("parsing vector component %q: %w", p, err)
		}
		values = append(values, float32(value))
	}

	return values, nil
}
