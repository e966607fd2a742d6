package semantic

import "github.com/linescript-lang/lsc/internal/types"

// registerBuiltins inserts the fixed catalog of runtime functions the
// checker's collect phase assumes exist (spec §4.3): polymorphic
// print/println plus the object-store accessors the parser's field
// lowering emits calls to.
func (c *Checker) registerBuiltins() {
	add := func(name string, params []types.Kind, ret types.Kind, throws ...string) {
		c.symbols.Define(&Signature{Name: name, Params: params, Return: ret, Symbol: "__ls_builtin_" + name, Throws: throws})
	}

	for _, k := range []types.Kind{types.I32, types.I64, types.F32, types.F64, types.Bool, types.Str} {
		add("print", []types.Kind{k}, types.Void)
		add("println", []types.Kind{k}, types.Void)
	}
	add("println", nil, types.Void)

	// print_str/println_str are the optimizer's local-constant-propagation
	// target (spec §4.4 rule 8): a print/println call on a now-constant
	// i64 argument is rewritten to print the decimal literal directly.
	add("print_str", []types.Kind{types.Str}, types.Void)
	add("println_str", []types.Kind{types.Str}, types.Void)

	add("max", []types.Kind{types.I64, types.I64}, types.I64)
	add("min", []types.Kind{types.I64, types.I64}, types.I64)
	add("abs", []types.Kind{types.I64}, types.I64)
	add("clamp", []types.Kind{types.I64, types.I64, types.I64}, types.I64)

	add("object_get", []types.Kind{types.Str, types.Str}, types.Str)
	add("object_set", []types.Kind{types.Str, types.Str, types.Str}, types.Void)
	add("parse_i64", []types.Kind{types.Str}, types.I64)
	add("parse_f64", []types.Kind{types.Str}, types.F64)
	add("format_output", []types.Kind{types.Str}, types.Str)

	add("stateSpeed", nil, types.I64)
	add("superuser", nil, types.Bool)

	for ctor, free := range ownedConstructors {
		add(ctor, nil, types.I64)
		add(free, []types.Kind{types.I64}, types.Void)
	}
}

// ownedConstructors maps each recognized `declare owned` constructor
// identity to its free function (spec §4.3): array, dict, map, object,
// option, result, np, gfx, game, pg surface, phys, http server, http
// client.
var ownedConstructors = map[string]string{
	"array_new":        "array_free",
	"dict_new":         "dict_free",
	"map_new":          "map_free",
	"object_new":       "object_free",
	"option_new":       "option_free",
	"result_new":       "result_free",
	"np_new":           "np_free",
	"gfx_new":          "gfx_free",
	"game_new":         "game_free",
	"pg_surface_new":   "pg_surface_free",
	"phys_new":         "phys_free",
	"http_server_new":  "http_server_free",
	"http_client_new":  "http_client_free",
}
