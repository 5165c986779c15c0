package prop

import (
	"bytes"
	"encoding/json"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

const indentUnit = "  "

// MarshalIndent renders a bag as indented JSON.
//
// Output is deterministic for identical input:
//  1. Keys are emitted in SortedKeys order (UTF-16 code units)
//  2. Keys are NFC normalized; string values are written as supplied
//     (invalid UTF-8 becomes U+FFFD)
//  3. HTML characters (< > &) are NOT escaped
//  4. Two-space indentation, trailing newline
//
// A nil Value is written as null. MarshalIndent never fails.
func MarshalIndent(b Bag) []byte {
	var buf bytes.Buffer
	writeBag(&buf, b, 0)
	buf.WriteByte('\n')
	return buf.Bytes()
}

func writeBag(buf *bytes.Buffer, b Bag, depth int) {
	if len(b) == 0 {
		buf.WriteString("{}")
		return
	}

	buf.WriteString("{\n")
	keys := b.SortedKeys()
	for i, k := range keys {
		writeIndent(buf, depth+1)
		writeString(buf, norm.NFC.String(k))
		buf.WriteString(": ")
		writeValue(buf, b[k], depth+1)
		if i < len(keys)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	writeIndent(buf, depth)
	buf.WriteByte('}')
}

func writeList(buf *bytes.Buffer, l List, depth int) {
	if len(l) == 0 {
		buf.WriteString("[]")
		return
	}

	buf.WriteString("[\n")
	for i, elem := range l {
		writeIndent(buf, depth+1)
		writeValue(buf, elem, depth+1)
		if i < len(l)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	writeIndent(buf, depth)
	buf.WriteByte(']')
}

// writeValue dispatches on the sealed Value set.
func writeValue(buf *bytes.Buffer, v Value, depth int) {
	switch val := v.(type) {
	case String:
		writeString(buf, string(val))
	case Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))
	case List:
		writeList(buf, val, depth)
	default:
		buf.WriteString("null")
	}
}

// writeString writes a JSON string literal without HTML escaping.
func writeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail; invalid UTF-8 is replaced with U+FFFD.
	_ = enc.Encode(s)

	// json.Encoder adds trailing newline, remove it
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
}

func writeIndent(buf *bytes.Buffer, depth int) {
	for range depth {
		buf.WriteString(indentUnit)
	}
}
