package codegen

import (
	"fmt"

	"github.com/linescript-lang/lsc/internal/types"
)

// classFieldType reports whether name is a field of the class owning the
// function currently being emitted, and its type. A class method body
// checks bare field references through the same flat scope as locals
// (semantic/check.go's checkFunction seeds the scope with one varInfo
// per field), so the AST gives codegen no distinguishing marker between
// `x = v` meaning "assign local x" and "assign field x" — this lookup is
// what codegen uses instead to tell them apart.
func (g *generator) classFieldType(name string) (types.Kind, bool) {
	if g.currentClass == nil {
		return 0, false
	}
	field, ok := g.currentClass.Fields[name]
	if !ok {
		return 0, false
	}
	return field.Type, true
}

// coerceFromObjectGet wraps a `object_get(...)` call in the parse/compare
// needed to read its string-valued result back as k (spec §4.2: fields
// are stored uniformly as strings at runtime).
func coerceFromObjectGet(getter string, k types.Kind) string {
	switch k {
	case types.I32:
		return fmt.Sprintf("(int32_t)parse_i64(%s)", getter)
	case types.I64:
		return fmt.Sprintf("parse_i64(%s)", getter)
	case types.F32:
		return fmt.Sprintf("(float)parse_f64(%s)", getter)
	case types.F64:
		return fmt.Sprintf("parse_f64(%s)", getter)
	case types.Bool:
		return fmt.Sprintf("(strcmp(%s, \"true\") == 0)", getter)
	default:
		return getter
	}
}

// coerceToObjectSet formats val (already a C expression of type k) as the
// string `object_set` stores.
func coerceToObjectSet(val string, k types.Kind) string {
	switch k {
	case types.I32, types.I64:
		return fmt.Sprintf("ls_format_i64((int64_t)(%s))", val)
	case types.F32, types.F64:
		return fmt.Sprintf("ls_format_f64((double)(%s))", val)
	case types.Bool:
		return fmt.Sprintf("ls_format_bool(%s)", val)
	default:
		return val
	}
}
