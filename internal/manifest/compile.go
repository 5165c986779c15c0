package manifest

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/rexgen/internal/module"
	"github.com/roach88/rexgen/internal/prop"
	"github.com/roach88/rexgen/internal/target"
)

// Fields of a module declaration.
const (
	fieldProperties = "properties"
	fieldOverrides  = "overrides"
)

// CompileError.Field values that are not declaration fields.
const (
	fieldModule  = "module"
	fieldUnknown = "field"
	fieldTarget  = "target"
	fieldValue   = "value"
	fieldCUE     = "cue"
)

// CompileError is a module declaration error with its CUE position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CompileModule turns one module declaration into a descriptor.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the module struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`module: rex_std: { properties: { DataPath: "data" } }`)
//	d, err := CompileModule("rex_std", v.LookupPath(cue.ParsePath("module.rex_std")))
func CompileModule(name string, v cue.Value) (*module.Descriptor, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if v.Kind() != cue.StructKind {
		return nil, &CompileError{
			Field:   fieldModule,
			Message: fmt.Sprintf("module %q must be a struct", name),
			Pos:     v.Pos(),
		}
	}

	d := module.New(name)

	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		label := fieldLabel(iter)
		switch label {
		case fieldProperties:
			if err := eachProperty(iter.Value(), d.SetProperty); err != nil {
				return nil, err
			}
		case fieldOverrides:
			if err := compileOverrides(d, iter.Value()); err != nil {
				return nil, err
			}
		default:
			return nil, &CompileError{
				Field:   fieldUnknown,
				Message: fmt.Sprintf("unknown module field %q (want %q or %q)", label, fieldProperties, fieldOverrides),
				Pos:     iter.Value().Pos(),
			}
		}
	}

	return d, nil
}

// compileOverrides reads `overrides: "<target>": { ... }` blocks.
func compileOverrides(d *module.Descriptor, v cue.Value) error {
	iter, err := structFields(v, fieldOverrides)
	if err != nil {
		return err
	}

	for iter.Next() {
		label := fieldLabel(iter)
		t, err := target.Parse(label)
		if err != nil {
			return &CompileError{
				Field:   fieldTarget,
				Message: fmt.Sprintf("overrides.%s: %v", label, err),
				Pos:     iter.Value().Pos(),
			}
		}

		err = eachProperty(iter.Value(), func(name string, val prop.Value) {
			d.SetPropertyForConfig(t, name, val)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// eachProperty converts every field of a properties struct, in declaration
// order, and hands it to set.
func eachProperty(v cue.Value, set func(name string, val prop.Value)) error {
	iter, err := structFields(v, fieldProperties)
	if err != nil {
		return err
	}

	for iter.Next() {
		val, err := toValue(iter.Value())
		if err != nil {
			return err
		}
		set(fieldLabel(iter), val)
	}
	return nil
}

// toValue converts a concrete CUE value to a property value.
// Floats, null and structs are rejected.
func toValue(v cue.Value) (prop.Value, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	path := v.Path().String()
	switch v.Kind() {
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return prop.String(s), nil

	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, &CompileError{Field: fieldValue, Message: fmt.Sprintf("%s: integer out of int64 range: %v", path, err), Pos: v.Pos()}
		}
		return prop.Int(n), nil

	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return prop.Bool(b), nil

	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		list := prop.List{}
		for iter.Next() {
			elem, err := toValue(iter.Value())
			if err != nil {
				return nil, err
			}
			list = append(list, elem)
		}
		return list, nil

	case cue.FloatKind:
		return nil, &CompileError{Field: fieldValue, Message: path + ": floats are not allowed in properties - use int instead", Pos: v.Pos()}

	case cue.NullKind:
		return nil, &CompileError{Field: fieldValue, Message: path + ": null is not a valid property value", Pos: v.Pos()}

	case cue.StructKind:
		return nil, &CompileError{Field: fieldValue, Message: path + ": structs are not allowed in properties", Pos: v.Pos()}

	default:
		return nil, &CompileError{Field: fieldValue, Message: path + ": property value must be concrete", Pos: v.Pos()}
	}
}

// structFields checks that v is a struct and iterates its regular fields.
func structFields(v cue.Value, field string) (*cue.Iterator, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if v.Kind() != cue.StructKind {
		return nil, &CompileError{Field: field, Message: "must be a struct", Pos: v.Pos()}
	}
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	return iter, nil
}

// fieldLabel returns the unquoted label of the current field, so
// "win64-debug-msvc" comes back without quotes.
func fieldLabel(iter *cue.Iterator) string {
	sel := iter.Selector()
	if sel.LabelType() == cue.StringLabel {
		return sel.Unquoted()
	}
	return sel.String()
}

// formatCUEError converts a CUE error into a CompileError with position
// info when available.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   fieldCUE,
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
