package codegen

import (
	"strings"
	"testing"

	"github.com/linescript-lang/lsc/internal/ast"
	"github.com/linescript-lang/lsc/internal/lexer"
	"github.com/linescript-lang/lsc/internal/optimizer"
	"github.com/linescript-lang/lsc/internal/parser"
	"github.com/linescript-lang/lsc/internal/semantic"
)

func mustCheckedProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, lexErrs := lexer.Tokenize(src)
	if len(lexErrs) != 0 {
		t.Fatalf("lex errors: %v", lexErrs)
	}
	prog, parseErrs := parser.ParseProgram(toks)
	if len(parseErrs) != 0 {
		t.Fatalf("parse errors: %v", parseErrs)
	}
	c := semantic.Check(prog)
	if len(c.Errors()) != 0 {
		t.Fatalf("check errors: %v", c.Errors())
	}
	optimizer.Run(prog, optimizer.NewConfig(optimizer.DefaultPasses))
	return prog
}

func TestEmitReturnsCompilableMain(t *testing.T) {
	prog := mustCheckedProgram(t, `fn main() {
	println(1 + 2)
}`)
	out, err := Emit(prog, Config{})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "int main(") {
		t.Fatalf("want a synthesized C main, got:\n%s", out)
	}
	if !strings.Contains(out, "__ls_user_main(void)") {
		t.Fatalf("want the user main() lowered under a renamed symbol, got:\n%s", out)
	}
}

func TestEmitPicksUltraMinimalTierForIntOnlyProgram(t *testing.T) {
	prog := mustCheckedProgram(t, `fn main() {
	println(42)
}`)
	out, err := Emit(prog, Config{})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "ultra-minimal tier") {
		t.Fatalf("want the ultra-minimal prelude for an int-only program, got:\n%s", out)
	}
}

func TestEmitPicksMinimalTierForStringProgram(t *testing.T) {
	prog := mustCheckedProgram(t, `fn main() {
	println("hi")
}`)
	out, err := Emit(prog, Config{})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "minimal tier") || strings.Contains(out, "ultra-minimal tier") {
		t.Fatalf("want the minimal (not ultra-minimal) prelude for a string-printing program, got:\n%s", out)
	}
}

func TestEmitPicksFullTierForFloatProgram(t *testing.T) {
	prog := mustCheckedProgram(t, `fn main() {
	declare x: f64 = 1.5
	println(x)
}`)
	out, err := Emit(prog, Config{})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "full tier") {
		t.Fatalf("want the full prelude for a float-using program, got:\n%s", out)
	}
}

func TestEmitOwnedDeclareFreesOnReturn(t *testing.T) {
	prog := mustCheckedProgram(t, `fn f() {
	declare owned a = array_new()
	return
}`)
	out, err := Emit(prog, Config{})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "array_free(a)") {
		t.Fatalf("want the owned array binding freed before return, got:\n%s", out)
	}
}

func TestEmitParallelForUsesPragmaWhenOpenMPEnabled(t *testing.T) {
	prog := mustCheckedProgram(t, `fn f(n: i64) {
	parallel for i in 0..n {
		println(i)
	}
}
fn main() {
	f(10)
}`)
	out, err := Emit(prog, Config{OpenMP: true})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "LS_PAR_FOR_IF") {
		t.Fatalf("want a parallel-for pragma emitted for a `parallel for` loop, got:\n%s", out)
	}
}

func TestEmitSynthesizesEntryFromTopLevelStatements(t *testing.T) {
	prog := mustCheckedProgram(t, `println(1)
println(2)`)
	out, err := Emit(prog, Config{})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "__linescript_script_main(void)") {
		t.Fatalf("want a synthesized wrapper over the top-level statements, got:\n%s", out)
	}
	if !strings.Contains(out, "__linescript_script_main();") {
		t.Fatalf("want C main to invoke the synthesized wrapper, got:\n%s", out)
	}
}

func TestEmitLowersClassConstructorAndFieldAccess(t *testing.T) {
	prog := mustCheckedProgram(t, `class P {
  declare x: i64
  fn constructor(v: i64) {
    x = v
  }
}
declare p = P(7)
println(p.x)`)
	out, err := Emit(prog, Config{})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "object_set(") {
		t.Fatalf("want the in-constructor field assignment lowered to object_set, got:\n%s", out)
	}
	if !strings.Contains(out, "object_get(") {
		t.Fatalf("want the p.x field read lowered to object_get, got:\n%s", out)
	}
	if !strings.Contains(out, "int64_t p = ") {
		t.Fatalf("want the class-instance binding declared as an int64_t handle, got:\n%s", out)
	}
}

// TestEmitLowersThisReceiverFieldAssign exercises spec §8 golden scenario
// S6 (`fn constructor(v: i64) { this.x = v }`) verbatim, rather than the
// bare `x = v` shorthand TestEmitLowersClassConstructorAndFieldAccess uses.
// `this` must lower to the method's implicit `self` handle parameter, and
// the assignment must carry a resolved field type through to object_set's
// coercion (spec §4.5).
func TestEmitLowersThisReceiverFieldAssign(t *testing.T) {
	prog := mustCheckedProgram(t, `class P {
  declare x: i64
  fn constructor(v: i64) {
    this.x = v
  }
}
declare p = P(7)
println(p.x)`)
	out, err := Emit(prog, Config{})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, `object_set(self, "x",`) {
		t.Fatalf("want this.x = v lowered to object_set(self, \"x\", ...), got:\n%s", out)
	}
}

// TestEmitInitializesFieldDefaultAtConstruction exercises a field default
// initializer (`declare y: i64 = 9`) that no constructor touches:
// object_new() must be followed by an object_set for the default before
// p.y is ever read, or the field is a disguised no-op.
func TestEmitInitializesFieldDefaultAtConstruction(t *testing.T) {
	prog := mustCheckedProgram(t, `class P {
  declare x: i64
  declare y: i64 = 9
  fn constructor(v: i64) {
    this.x = v
  }
}
declare p = P(7)
println(p.y)`)
	out, err := Emit(prog, Config{})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	newIdx := strings.Index(out, "object_new()")
	setIdx := strings.Index(out, `object_set(p, "y",`)
	ctorIdx := strings.Index(out, "__ls_cls_P_constructor(p")
	if newIdx < 0 || setIdx < 0 || ctorIdx < 0 {
		t.Fatalf("want object_new, default object_set, and constructor call all present, got:\n%s", out)
	}
	if !(newIdx < setIdx && setIdx < ctorIdx) {
		t.Fatalf("want default object_set to run after allocation but before the constructor, got:\n%s", out)
	}
}

func TestEmitErrorsOnAmbiguousEntry(t *testing.T) {
	prog := mustCheckedProgram(t, `fn f() -> i64 { return 1 }
fn g() -> i64 { return 2 }`)
	_, err := Emit(prog, Config{})
	if err == nil {
		t.Fatalf("want an error for two zero-argument functions with no main()")
	}
}
