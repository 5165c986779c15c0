package prop

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSealed(t *testing.T) {
	// Verify all types implement Value (compile-time check via assignment)
	var _ Value = String("test")
	var _ Value = Int(42)
	var _ Value = Bool(true)
	var _ Value = List{String("a"), Int(1)}
}

func TestBagSortedKeys(t *testing.T) {
	b := Bag{
		"zebra":  String("z"),
		"apple":  String("a"),
		"banana": String("b"),
	}

	assert.Equal(t, []string{"apple", "banana", "zebra"}, b.SortedKeys())
}

func TestBagSortedKeysEmpty(t *testing.T) {
	assert.Empty(t, Bag{}.SortedKeys())
}

func TestCompareKeysUTF16(t *testing.T) {
	// U+10000 encodes as surrogate pair 0xD800 0xDC00, which sorts before U+E000
	// in UTF-16 but after it in UTF-8.
	assert.Less(t, compareKeys("\U00010000", "\uE000"), 0)
	assert.Greater(t, compareKeys("b", "a"), 0)
	assert.Less(t, compareKeys("a", "aa"), 0)
	assert.Equal(t, 0, compareKeys("", ""))
}

func TestBagCloneIsIndependent(t *testing.T) {
	orig := Bag{"name": String("rex_engine")}
	cp := orig.Clone()
	cp["name"] = String("changed")
	cp["extra"] = Bool(true)

	assert.Equal(t, String("rex_engine"), orig["name"])
	assert.NotContains(t, orig, "extra")
}

func TestBagOverlay(t *testing.T) {
	base := Bag{"a": Int(1), "b": Int(2)}
	base.Overlay(Bag{"b": Int(20), "c": Int(30)})

	assert.Equal(t, Bag{"a": Int(1), "b": Int(20), "c": Int(30)}, base)
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"name", "name"},
		{"Name", "name"},
		{"DATAPATH", "datapath"},
		{"DataPath", "datapath"},
		{"Straße", "strasse"},
		{"e\u0301", "\u00e9"}, // decomposed é is composed before folding
		{"\u00c9", "\u00e9"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.in))
		})
	}
}

func TestStrings(t *testing.T) {
	assert.Equal(t, List{String("a"), String("b")}, Strings("a", "b"))
	assert.Equal(t, List{}, Strings())
}

func TestFromGo(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  Value
	}{
		{"string", "x", String("x")},
		{"bool", true, Bool(true)},
		{"int", 7, Int(7)},
		{"int64", int64(-3), Int(-3)},
		{"uint32", uint32(9), Int(9)},
		{"string slice", []string{"a", "b"}, List{String("a"), String("b")}},
		{"any slice", []any{"a", 1, false}, List{String("a"), Int(1), Bool(false)}},
		{"value passthrough", Int(3), Int(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromGo(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromGoRejects(t *testing.T) {
	tests := []struct {
		name  string
		input any
		msg   string
	}{
		{"nil", nil, "null"},
		{"float", 1.5, "floats"},
		{"float in list", []any{"a", 2.5}, "[1]"},
		{"map", map[string]any{"a": 1}, "unsupported"},
		{"uint overflow", uint64(math.MaxUint64), "out of int64 range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromGo(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
