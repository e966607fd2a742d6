// Package types defines LineScript's closed semantic type set and the
// numeric widening / conversion-cost lattice used by overload resolution.
package types

// Kind is one of the closed set of semantic types from spec §3:
// i32, i64, f32, f64, bool, string, void.
type Kind int

const (
	Invalid Kind = iota
	I32
	I64
	F32
	F64
	Bool
	Str
	Void
)

func (k Kind) String() string {
	switch k {
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case Bool:
		return "bool"
	case Str:
		return "str"
	case Void:
		return "void"
	default:
		return "<invalid>"
	}
}

// IsNumeric reports whether k participates in the numeric widening
// lattice (i32 ⊑ i64 ⊑ f64 and i32 ⊑ f32 ⊑ f64).
func (k Kind) IsNumeric() bool {
	switch k {
	case I32, I64, F32, F64:
		return true
	default:
		return false
	}
}

func (k Kind) IsInteger() bool { return k == I32 || k == I64 }
func (k Kind) IsFloat() bool   { return k == F32 || k == F64 }

// widenSteps gives the number of widening steps from one numeric kind to
// another along the lattice i32 ⊑ i64 ⊑ f64, i32 ⊑ f32 ⊑ f64. A pair absent
// from the map has no widening path.
var widenSteps = map[[2]Kind]int{
	{I32, I32}: 0, {I64, I64}: 0, {F32, F32}: 0, {F64, F64}: 0, {Bool, Bool}: 0, {Str, Str}: 0, {Void, Void}: 0,
	{I32, I64}: 1,
	{I32, F32}: 1,
	{I32, F64}: 2,
	{I64, F64}: 1,
	{F32, F64}: 1,
}

// ConversionCost returns the cost of converting a value of kind `from` to
// a parameter of kind `to`: 0 for an identical type, 1 for a single safe
// widening step, >1 for a multi-step widening, and a false ok for no
// legal conversion at all (spec §4.3's overload-resolution cost lattice).
func ConversionCost(from, to Kind) (cost int, ok bool) {
	if from == to {
		return 0, true
	}
	if c, found := widenSteps[[2]Kind{from, to}]; found {
		return c, true
	}
	return 0, false
}

// AssignCompatible reports whether a value of kind `from` may be assigned
// (with runtime conversion, if numeric) to a binding of kind `to`, per the
// checker's assignment-compatibility rule: numeric-to-numeric is always
// allowed, same-type is always allowed, anything else is an error.
func AssignCompatible(from, to Kind) bool {
	if from == to {
		return true
	}
	return from.IsNumeric() && to.IsNumeric()
}
