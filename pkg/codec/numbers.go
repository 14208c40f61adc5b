package codec

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Absent marks a field as intentionally empty.
const Absent = "-"

// IsAbsent reports whether text is missing or the absent marker.
func IsAbsent(text string) bool {
	return strings.TrimSpace(text) == "" || strings.TrimSpace(text) == Absent
}

// FormatFloat renders f so that ParseFloat returns exactly f. Integral values
// keep a trailing ".0" so they read back as floats in other tools; very
// large and very small magnitudes use exponent notation.
//
// Non-finite values have no literal form and are rendered as "nan", "inf" or
// "-inf", which the decoders reject. Check values that are about to be
// stored with CheckFinite first.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if f == 0 {
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	exp := math.Floor(math.Log10(math.Abs(f)))
	if exp < -4 || exp >= 16 {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// CheckFinite returns an error wrapping ErrNonFinite for the first NaN or
// infinite value.
func CheckFinite(values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s", ErrNonFinite, FormatFloat(v))
		}
	}
	return nil
}

// CheckFiniteLists is CheckFinite over every list of values.
func CheckFiniteLists(values [][]float64) error {
	for i, vs := range values {
		if err := CheckFinite(vs...); err != nil {
			return fmt.Errorf("list %d: %w", i, err)
		}
	}
	return nil
}

func writeFloats(b *strings.Builder, values []float64) {
	b.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(FormatFloat(v))
	}
	b.WriteByte(']')
}

func writeInts(b *strings.Builder, values []int) {
	b.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(v))
	}
	b.WriteByte(']')
}

// EncodeFloat renders a single number.
func EncodeFloat(f float64) string {
	return FormatFloat(f)
}

// DecodeFloat parses a single number.
func DecodeFloat(text string) (float64, error) {
	v, err := Parse(text)
	if err != nil {
		return 0, err
	}
	if v.IsList {
		return 0, fmt.Errorf("%w: expected number, got list", ErrMalformed)
	}
	return v.Number, nil
}

// EncodeInt renders a single integer.
func EncodeInt(n int) string {
	return strconv.Itoa(n)
}

// DecodeInt parses a single integer.
func DecodeInt(text string) (int, error) {
	v, err := Parse(text)
	if err != nil {
		return 0, err
	}
	return v.Int()
}

// EncodeFloats renders a flat list of numbers.
func EncodeFloats(values []float64) string {
	var b strings.Builder
	writeFloats(&b, values)
	return b.String()
}

// DecodeFloats parses a flat list of numbers.
func DecodeFloats(text string) ([]float64, error) {
	v, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return v.Floats()
}

// EncodeInts renders a flat list of integers.
func EncodeInts(values []int) string {
	var b strings.Builder
	writeInts(&b, values)
	return b.String()
}

// DecodeInts parses a flat list of integers.
func DecodeInts(text string) ([]int, error) {
	v, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return v.Ints()
}

// EncodeFloatLists renders a list of number lists.
func EncodeFloatLists(values [][]float64) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, vs := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		writeFloats(&b, vs)
	}
	b.WriteByte(']')
	return b.String()
}

// DecodeFloatLists parses a list of number lists.
func DecodeFloatLists(text string) ([][]float64, error) {
	v, err := Parse(text)
	if err != nil {
		return nil, err
	}
	items, err := v.Items()
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(items))
	for i, item := range items {
		if out[i], err = item.Floats(); err != nil {
			return nil, fmt.Errorf("list %d: %w", i, err)
		}
	}
	return out, nil
}

// EncodeIntLists renders a list of integer lists.
func EncodeIntLists(values [][]int) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, vs := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		writeInts(&b, vs)
	}
	b.WriteByte(']')
	return b.String()
}

// DecodeIntLists parses a list of integer lists.
func DecodeIntLists(text string) ([][]int, error) {
	v, err := Parse(text)
	if err != nil {
		return nil, err
	}
	items, err := v.Items()
	if err != nil {
		return nil, err
	}
	out := make([][]int, len(items))
	for i, item := range items {
		if out[i], err = item.Ints(); err != nil {
			return nil, fmt.Errorf("list %d: %w", i, err)
		}
	}
	return out, nil
}

// MatchCyclic expands values so that there is one entry per segment of each
// polyline, reusing values round-robin across all segments in order:
// segment n (counted over every polyline) receives values[n % len(values)].
// It returns nil if values is empty.
func MatchCyclic[T any](values []T, segmentCounts []int) [][]T {
	if len(values) == 0 {
		return nil
	}
	out := make([][]T, len(segmentCounts))
	count := 0
	for i, n := range segmentCounts {
		row := make([]T, 0, n)
		for j := 0; j < n; j++ {
			row = append(row, values[count%len(values)])
			count++
		}
		out[i] = row
	}
	return out
}
