package semantic

import "github.com/linescript-lang/lsc/internal/types"

// Signature is one entry in an overload group: a callable's parameter
// types, return type, throws set, resolved symbol and class owner; the
// checker records Symbol and Throws on call sites as ResolvedSymbol and
// ResolvedThrows.
type Signature struct {
	Name       string
	Params     []types.Kind
	Return     types.Kind
	Throws     []string
	Symbol     string
	ClassOwner string
}

// SymbolTable tracks every callable by its flat (mangled) symbol and by
// its public-name overload group, mirroring the teacher's
// internal/semantic/symbol_table.go split between a flat lookup table and
// per-name overload groups.
type SymbolTable struct {
	flat   map[string]*Signature
	groups map[string][]*Signature
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{flat: make(map[string]*Signature), groups: make(map[string][]*Signature)}
}

// Define registers sig in both the flat table (keyed by its mangled
// Symbol) and its overload group (keyed by its public Name). It reports
// whether this duplicates another overload's parameter-type sequence
// within the same group — callers choose whether that is an error.
func (st *SymbolTable) Define(sig *Signature) (duplicate bool) {
	for _, existing := range st.groups[sig.Name] {
		if sameParams(existing.Params, sig.Params) {
			duplicate = true
			break
		}
	}
	st.flat[sig.Symbol] = sig
	st.groups[sig.Name] = append(st.groups[sig.Name], sig)
	return duplicate
}

func (st *SymbolTable) Group(name string) []*Signature { return st.groups[name] }

func sameParams(a, b []types.Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ResolveOverload selects the unique candidate in group whose parameter
// types require the minimum total conversion cost against argTypes (spec
// §4.3): 0 for same type, widening-step cost otherwise, candidates with
// any incompatible argument are rejected outright, and a tie among the
// remaining minimum-cost candidates is an ambiguity.
func ResolveOverload(group []*Signature, argTypes []types.Kind) (sig *Signature, ambiguous bool) {
	bestCost := -1
	var best *Signature
	tied := false

	for _, cand := range group {
		if len(cand.Params) != len(argTypes) {
			continue
		}
		total := 0
		ok := true
		for i, want := range cand.Params {
			cost, convOK := types.ConversionCost(argTypes[i], want)
			if !convOK {
				ok = false
				break
			}
			total += cost
		}
		if !ok {
			continue
		}
		switch {
		case bestCost == -1 || total < bestCost:
			bestCost = total
			best = cand
			tied = false
		case total == bestCost:
			tied = true
		}
	}

	if best == nil {
		return nil, false
	}
	return best, tied
}
