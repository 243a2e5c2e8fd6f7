package mdsite

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// OrderKey is a document's position in listings.
// Numeric keys sort before string keys and compare numerically; string keys
// compare lexically; the empty key sorts last.
type OrderKey struct {
	raw   string
	num   float64
	isNum bool
}

// NumericOrder returns a numeric OrderKey.
func NumericOrder(n float64) OrderKey {
	return OrderKey{raw: strconv.FormatFloat(n, 'f', -1, 64), num: n, isNum: true}
}

// StringOrder returns an OrderKey for s. Strings that parse as numbers,
// such as "153", are numeric keys.
func StringOrder(s string) OrderKey {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseFloat(s, 64); err == nil && s != "" {
		return OrderKey{raw: s, num: n, isNum: true}
	}
	return OrderKey{raw: s}
}

// IsZero reports whether the key is empty.
func (k OrderKey) IsZero() bool {
	return !k.isNum && k.raw == ""
}

// IsNumeric reports whether the key compares numerically.
func (k OrderKey) IsNumeric() bool {
	return k.isNum
}

func (k OrderKey) String() string {
	return k.raw
}

// Compare returns -1, 0 or +1 as k sorts before, with, or after o.
func (k OrderKey) Compare(o OrderKey) int {
	switch {
	case k.IsZero() || o.IsZero():
		// Empty keys sort last.
		return cmpBool(k.IsZero(), o.IsZero())
	case k.isNum && o.isNum:
		return cmp.Compare(k.num, o.num)
	case k.isNum != o.isNum:
		// Numbers before strings.
		return cmpBool(o.isNum, k.isNum)
	default:
		return strings.Compare(k.raw, o.raw)
	}
}

// cmpBool orders false before true.
func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

// compareDocuments orders by key, then permalink, then source path, so the
// order is total for any set of distinct documents.
func compareDocuments(a, b *Document) int {
	if c := a.Order.Compare(b.Order); c != 0 {
		return c
	}
	if c := strings.Compare(a.Permalink, b.Permalink); c != 0 {
		return c
	}
	return strings.Compare(a.SourcePath, b.SourcePath)
}

// SortDocuments sorts docs in place by ordering key.
func SortDocuments(docs []*Document) {
	slices.SortStableFunc(docs, compareDocuments)
}
