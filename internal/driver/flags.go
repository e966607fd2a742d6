package driver

import (
	"sort"

	"github.com/maruel/natural"

	"github.com/linescript-lang/lsc/internal/ast"
)

// knownCoreFlags are the flat-flag names spec §6 reserves for the core
// driver contract; anything else starting with `--` is either a user
// `flag name()` declaration or, failing that, forwarded verbatim.
var knownCoreFlags = map[string]bool{
	"check": true, "build": true, "run": true,
	"o": true, "cc": true, "backend": true,
	"target": true, "sysroot": true, "linker": true,
	"passes": true, "incremental": true, "cache-dir": true, "no-cache": true,
	"emit-typed-ir": true, "consume-typed-ir": true,
	"max-speed": true, "O4": true,
	"pgo-generate": true, "pgo-use": true, "bolt-use": true,
	"keep-c": true, "repl": true, "shell": true,
}

// ClassifyTokens sorts raw CLI tokens (after cobra has already consumed
// the core flags it recognizes) into the program's active user flags and
// everything else forwarded to cli_token/cli_has/cli_value (spec §6).
// declared is the set of `flag name()` declarations found in the parsed
// program; tokens are deduplicated in first-seen order, since a flag
// passed twice should only appear once in the active list.
func ClassifyTokens(tokens []string, declared map[string]bool) (active []string, forwarded []string) {
	seen := make(map[string]bool)
	for _, tok := range tokens {
		name, ok := stripFlagPrefix(tok)
		if ok && declared[name] {
			if !seen[name] {
				seen[name] = true
				active = append(active, name)
			}
			continue
		}
		forwarded = append(forwarded, tok)
	}
	return active, forwarded
}

func stripFlagPrefix(tok string) (string, bool) {
	if len(tok) > 2 && tok[0] == '-' && tok[1] == '-' {
		return tok[2:], true
	}
	return "", false
}

// ListFlags returns every `flag name()` declaration in prog plus the
// reserved core flags, naturally sorted (spec §6's `--list-flags`): "flag2"
// sorts before "flag10" the way a human reading the list would expect,
// which a plain lexicographic sort gets backwards.
func ListFlags(prog *ast.Program) []string {
	set := make(map[string]bool, len(knownCoreFlags))
	for k := range knownCoreFlags {
		set[k] = true
	}
	for _, name := range flagDeclarations(prog) {
		set[name] = true
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Sort(natural.StringSlice(out))
	return out
}

// DeclaredFlagSet builds the declared-flag lookup ClassifyTokens expects.
func DeclaredFlagSet(prog *ast.Program) map[string]bool {
	set := make(map[string]bool)
	for _, name := range flagDeclarations(prog) {
		set[name] = true
	}
	return set
}
