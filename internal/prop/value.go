package prop

import (
	"fmt"
	"math"
	"slices"
	"unicode/utf16"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Value is a sealed interface representing a module property value.
// Only String, Int, Bool, and List implement this.
// There is no Float: numbers are int64 so serialized descriptors stay byte-stable.
type Value interface {
	propValue() // Sealed - only these types implement it
}

// String represents a string property.
type String string

func (String) propValue() {}

// Int represents an integer property. Always int64.
type Int int64

func (Int) propValue() {}

// Bool represents a boolean property.
type Bool bool

func (Bool) propValue() {}

// List represents an ordered list of property values.
// Element order is preserved on serialization.
type List []Value

func (List) propValue() {}

// Strings builds a List of String values.
// Example: Strings("rex_std", "rex_engine")
func Strings(vals ...string) List {
	list := make(List, len(vals))
	for i, v := range vals {
		list[i] = String(v)
	}
	return list
}

// Bag maps normalized property names to values.
// Use SortedKeys() for deterministic iteration.
type Bag map[string]Value

// SortedKeys returns keys in UTF-16 code unit order.
// For ASCII keys this is plain lexicographic order.
func (b Bag) SortedKeys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}

// Clone returns a shallow copy of the bag.
// Values are immutable by convention, so sharing them is safe.
func (b Bag) Clone() Bag {
	out := make(Bag, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Overlay copies every entry of src into b, replacing same-named keys.
// Keys present only in b are left untouched.
func (b Bag) Overlay(src Bag) {
	for k, v := range src {
		b[k] = v
	}
}

// NormalizeKey folds a property name so that differently-cased spellings
// address the same slot. The name is NFC normalized before folding.
func NormalizeKey(name string) string {
	// A Caser holds state; one per call keeps NormalizeKey safe for concurrent use.
	return cases.Fold().String(norm.NFC.String(name))
}

// compareKeys compares strings using UTF-16 code unit ordering.
// Go's default string comparison uses UTF-8 which orders supplementary
// characters differently.
func compareKeys(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	for i := 0; i < min(len(a16), len(b16)); i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}

// FromGo converts a plain Go value to a Value.
// Accepts strings, integer kinds, bools, string slices, []any and Values.
// Floats and maps are rejected.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is not a valid property value")
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint:
		return fromUint(uint64(val))
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case uint64:
		return fromUint(val)
	case float32, float64:
		return nil, fmt.Errorf("floats are not allowed in properties: %v", val)
	case []string:
		return Strings(val...), nil
	case []any:
		list := make(List, len(val))
		for i, elem := range val {
			pv, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list[i] = pv
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unsupported property type: %T", v)
	}
}

func fromUint(n uint64) (Value, error) {
	if n > math.MaxInt64 {
		return nil, fmt.Errorf("integer out of int64 range: %d", n)
	}
	return Int(n), nil
}
