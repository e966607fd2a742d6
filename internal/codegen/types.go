package codegen

import "github.com/linescript-lang/lsc/internal/types"

// cType maps a semantic Kind to its C spelling. `str` values are always
// `const char *`: ownership of the pointee is a ls_str_hold discipline,
// not a distinct C type.
func cType(k types.Kind) string {
	switch k {
	case types.I32:
		return "int32_t"
	case types.I64:
		return "int64_t"
	case types.F32:
		return "float"
	case types.F64:
		return "double"
	case types.Bool:
		return "bool"
	case types.Str:
		return "const char *"
	case types.Void:
		return "void"
	default:
		return "int64_t"
	}
}
