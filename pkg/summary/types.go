package summary

import (
	"fmt"
	"sort"
)

// Type names a kind of summary item.
type Type string

// Supported types.
const (
	// TypeScalar yields the float value of scalar summaries.
	TypeScalar Type = "scalar"

	// TypeImage yields decoded image pixels.
	TypeImage Type = "image"

	// TypeImageRaw yields the encoded image bytes unchanged.
	TypeImageRaw Type = "image_raw"
)

// knownTypes lists the supported types in the order items of one value are
// emitted.
var knownTypes = []Type{TypeScalar, TypeImage, TypeImageRaw}

// DefaultTypes is used when no types are requested explicitly.
var DefaultTypes = []Type{TypeScalar}

// Types returns the supported types.
func Types() []Type {
	return append([]Type(nil), knownTypes...)
}

// Valid reports whether t is a supported type.
func (t Type) Valid() bool {
	return t.rank() >= 0
}

func (t Type) rank() int {
	for i, k := range knownTypes {
		if k == t {
			return i
		}
	}
	return -1
}

// ParseType converts a type name into a Type.
func ParseType(name string) (Type, error) {
	t := Type(name)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, name)
	}
	return t, nil
}

// ParseTypes converts type names into Types, rejecting the first unknown name.
func ParseTypes(names []string) ([]Type, error) {
	out := make([]Type, 0, len(names))
	for _, n := range names {
		t, err := ParseType(n)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// normalizeTypes validates types, drops duplicates and sorts them in
// emission order.
func normalizeTypes(types []Type) ([]Type, error) {
	if len(types) == 0 {
		return nil, fmt.Errorf("%w: no types requested", ErrInvalidType)
	}
	seen := make(map[Type]bool, len(types))
	out := make([]Type, 0, len(types))
	for _, t := range types {
		if !t.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidType, string(t))
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].rank() < out[j].rank() })
	return out, nil
}
