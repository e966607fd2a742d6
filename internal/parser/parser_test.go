package parser

import (
	"testing"

	"github.com/linescript-lang/lsc/internal/ast"
	"github.com/linescript-lang/lsc/internal/lexer"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, lexErrs := lexer.Tokenize(src)
	if len(lexErrs) != 0 {
		t.Fatalf("lex errors: %v", lexErrs)
	}
	prog, errs := ParseProgram(toks)
	if len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	return prog
}

func TestParseSimpleFunction(t *testing.T) {
	prog := mustParse(t, `fn main() -> i64 { return 0 }`)
	if len(prog.Functions) != 1 {
		t.Fatalf("want 1 function, got %d", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.Name != "main" || len(fn.Body) != 1 {
		t.Fatalf("unexpected function: %+v", fn)
	}
	if _, ok := fn.Body[0].(*ast.ReturnStmt); !ok {
		t.Fatalf("want ReturnStmt, got %T", fn.Body[0])
	}
}

func TestParseForRangeStep(t *testing.T) {
	prog := mustParse(t, `declare s = 0
for i in 0..10 step 2 {
  s = s + i
}`)
	if len(prog.TopLevel) != 2 {
		t.Fatalf("want 2 top-level statements, got %d", len(prog.TopLevel))
	}
	fr, ok := prog.TopLevel[1].(*ast.ForRangeStmt)
	if !ok {
		t.Fatalf("want ForRangeStmt, got %T", prog.TopLevel[1])
	}
	if fr.Step == nil {
		t.Fatal("expected a step expression")
	}
}

func TestParseParallelFor(t *testing.T) {
	prog := mustParse(t, `parallel for i in 0..10 {
  declare x = i
}`)
	fr := prog.TopLevel[0].(*ast.ForRangeStmt)
	if !fr.Parallel {
		t.Fatal("expected Parallel=true")
	}
}

func TestParseIfElifElse(t *testing.T) {
	prog := mustParse(t, `if x == 1 {
  declare a = 1
} elif x == 2 {
  declare b = 2
} else {
  declare c = 3
}`)
	ifs := prog.TopLevel[0].(*ast.IfStmt)
	if len(ifs.Elifs) != 1 {
		t.Fatalf("want 1 elif clause, got %d", len(ifs.Elifs))
	}
	if len(ifs.Else) != 1 {
		t.Fatalf("want else clause")
	}
}

func TestParseUnless(t *testing.T) {
	prog := mustParse(t, `unless done {
  declare a = 1
}`)
	ifs := prog.TopLevel[0].(*ast.IfStmt)
	if _, ok := ifs.Cond.(*ast.UnaryOp); !ok {
		t.Fatalf("want UnaryOp(!done), got %T", ifs.Cond)
	}
}

func TestParseDoEndBlock(t *testing.T) {
	prog := mustParse(t, `while true do
  break
end`)
	w := prog.TopLevel[0].(*ast.WhileStmt)
	if len(w.Body) != 1 {
		t.Fatalf("want 1 statement in while body, got %d", len(w.Body))
	}
}

func TestParseClassWithConstructorAndField(t *testing.T) {
	prog := mustParse(t, `class P {
  declare x: i64 = 0
  fn constructor(v: i64) {
    this.x = v
  }
}`)
	c := prog.Classes["P"]
	if c == nil {
		t.Fatal("class P not found")
	}
	if _, ok := c.Fields["x"]; !ok {
		t.Fatal("field x not found")
	}
	if _, ok := c.Methods["constructor"]; !ok {
		t.Fatal("constructor overload group not found")
	}
}

func TestParseOperatorOverload(t *testing.T) {
	prog := mustParse(t, `class Vec {
  operator +(a: i64, b: i64) -> i64 {
    return a + b
  }
}`)
	c := prog.Classes["Vec"]
	group, ok := c.Methods["__ls_op_add"]
	if !ok || len(group) != 1 {
		t.Fatalf("expected one __ls_op_add overload, got %v", group)
	}
}

func TestParseFlagDecl(t *testing.T) {
	prog := mustParse(t, `flag my-debug-flag() {
  return
}`)
	if len(prog.Functions) != 1 {
		t.Fatalf("want 1 flag function, got %d", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.CLIFlagName != "my-debug-flag" {
		t.Fatalf("got flag name %q", fn.CLIFlagName)
	}
	if fn.MangledSymbol != "__ls_flag_my_debug_flag" {
		t.Fatalf("got mangled symbol %q", fn.MangledSymbol)
	}
}

func TestParseMacroExpand(t *testing.T) {
	prog := mustParse(t, `macro double(x) = x + x
declare y = expand(double(5))`)
	if len(prog.Macros) != 1 {
		t.Fatalf("want 1 macro")
	}
	decl := prog.TopLevel[0].(*ast.DeclareStmt)
	bin, ok := decl.Init.(*ast.BinaryOp)
	if !ok {
		t.Fatalf("want BinaryOp, got %T", decl.Init)
	}
	l, lok := bin.L.(*ast.IntLit)
	r, rok := bin.R.(*ast.IntLit)
	if !lok || !rok || l.Value != 5 || r.Value != 5 {
		t.Fatalf("macro substitution failed: %+v", bin)
	}
	// each substituted copy must be an independent node
	if l == r {
		t.Fatal("macro substitution should clone, not share, argument nodes")
	}
}

func TestOperatorPrecedenceAndRightAssocPower(t *testing.T) {
	prog := mustParse(t, `declare r = 2 + 3 * 4 ** 2 ** 1`)
	decl := prog.TopLevel[0].(*ast.DeclareStmt)
	// 2 + (3 * (4 ** (2 ** 1)))
	top := decl.Init.(*ast.BinaryOp)
	if top.Op != lexer.PLUS {
		t.Fatalf("top op = %s, want +", top.Op)
	}
	mul := top.R.(*ast.BinaryOp)
	if mul.Op != lexer.STAR {
		t.Fatalf("second op = %s, want *", mul.Op)
	}
	pow := mul.R.(*ast.BinaryOp)
	if pow.Op != lexer.POW {
		t.Fatalf("third op = %s, want **", pow.Op)
	}
}

func TestFieldAccessLowering(t *testing.T) {
	prog := mustParse(t, `declare y = p.x`)
	decl := prog.TopLevel[0].(*ast.DeclareStmt)
	if _, ok := decl.Init.(*ast.FieldGet); !ok {
		t.Fatalf("want FieldGet, got %T", decl.Init)
	}
}

func TestFieldAssignLowering(t *testing.T) {
	prog := mustParse(t, `p.x = 5`)
	assign, ok := prog.TopLevel[0].(*ast.AssignStmt)
	if !ok {
		t.Fatalf("want AssignStmt, got %T", prog.TopLevel[0])
	}
	if _, ok := assign.Target.(*ast.FieldGet); !ok {
		t.Fatalf("want Target to be FieldGet, got %T", assign.Target)
	}
}
