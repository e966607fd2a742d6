package semantic

import (
	"github.com/linescript-lang/lsc/internal/ast"
	"github.com/linescript-lang/lsc/internal/lexer"
	"github.com/linescript-lang/lsc/internal/types"
)

// checkProgram checks every non-extern function body and the synthetic
// top-level body (wrapped by the code generator, codegen's chooseEntry, into __linescript_script_main,
// but checked here as an ordinary void, no-throws function).
func (c *Checker) checkProgram(prog *ast.Program) {
	for _, fn := range prog.Functions {
		if fn.Extern {
			continue
		}
		c.checkFunction(fn)
	}

	top := &ast.Function{Name: "__linescript_script_main", ReturnType: types.Void, Body: prog.TopLevel}
	c.checkFunction(top)
}

func (c *Checker) checkFunction(fn *ast.Function) {
	prev := c.currentFunction
	c.currentFunction = fn
	defer func() { c.currentFunction = prev }()

	sc := newScope(nil)
	if fn.ClassOwner != "" {
		// `this` is the implicit receiver (spec §4.2 golden scenario S6:
		// `this.x = v`); bind it like any other class-instance binding so
		// `this.field` resolves through the ordinary FieldGet path instead
		// of needing a special case in checkAssign/inferExpr.
		sc.define("this", &varInfo{ClassOf: fn.ClassOwner})
		if class := c.classes[fn.ClassOwner]; class != nil {
			for _, field := range class.Fields {
				sc.define(field.Name, &varInfo{Type: field.Type})
			}
		}
	}
	for _, p := range fn.Params {
		sc.define(p.Name, &varInfo{Type: p.Type})
	}
	c.checkBlock(fn.Body, sc)
}

func (c *Checker) checkBlock(stmts []ast.Stmt, sc *scope) {
	for _, s := range stmts {
		c.checkStmt(s, sc)
	}
}

func (c *Checker) checkStmt(s ast.Stmt, sc *scope) {
	switch n := s.(type) {
	case *ast.DeclareStmt:
		c.checkDeclare(n, sc)
	case *ast.AssignStmt:
		c.checkAssign(n, sc)
	case *ast.ExprStmt:
		c.checkExpr(n.X, sc)
	case *ast.ReturnStmt:
		c.checkReturn(n, sc)
	case *ast.IfStmt:
		c.checkCondKind(n.Cond, sc, types.Bool, "if")
		c.checkBlock(n.Then, newScope(sc))
		for _, ei := range n.Elifs {
			c.checkCondKind(ei.Cond, sc, types.Bool, "elif")
			c.checkBlock(ei.Body, newScope(sc))
		}
		c.checkBlock(n.Else, newScope(sc))
	case *ast.WhileStmt:
		c.checkCondKind(n.Cond, sc, types.Bool, "while")
		c.loopDepth++
		c.checkBlock(n.Body, newScope(sc))
		c.loopDepth--
	case *ast.ForRangeStmt:
		c.checkForRange(n, sc)
	case *ast.FormatBlock:
		if n.EndSuffix != nil {
			c.checkCondKind(n.EndSuffix, sc, types.Str, "formatOutput end suffix")
		}
		c.checkBlock(n.Body, newScope(sc))
	case *ast.BreakStmt:
		if c.loopDepth == 0 {
			c.fail(n.Pos(), "'break' outside of a loop")
		}
	case *ast.ContinueStmt:
		if c.loopDepth == 0 {
			c.fail(n.Pos(), "'continue' outside of a loop")
		}
	}
}

func (c *Checker) checkCondKind(e ast.Expr, sc *scope, want types.Kind, where string) {
	got := c.checkExpr(e, sc)
	if got != want && got != types.Invalid {
		c.fail(e.Pos(), "%s condition must be %s, got %s", where, want, got)
	}
}

func (c *Checker) checkDeclare(n *ast.DeclareStmt, sc *scope) {
	info := &varInfo{Const: n.Const, Owned: n.Owned}

	var initType types.Kind = types.Invalid
	if n.Init != nil {
		initType = c.checkExpr(n.Init, sc)
	}

	if n.Owned {
		c.checkOwnedInit(n, sc, &info.FreeFunc)
	}

	if n.HasType {
		info.Type = n.DeclaredType
		if n.Init != nil && initType != types.Invalid && !types.AssignCompatible(initType, n.DeclaredType) {
			c.fail(n.Pos(), "cannot assign %s to declared type %s", initType, n.DeclaredType)
		}
	} else if call, ok := n.Init.(*ast.Call); ok && call.ResolvedClass != "" {
		info.ClassOf = call.ResolvedClass
	} else {
		info.Type = initType
	}

	sc.define(n.Name, info)
}

// checkOwnedInit enforces spec §3/§4.3's ownership rules at declaration
// time: the initializer must be a recognized constructor call, and the
// binding may not occur inside a loop.
func (c *Checker) checkOwnedInit(n *ast.DeclareStmt, sc *scope, freeFunc *string) {
	if c.loopDepth > 0 {
		c.fail(n.Pos(), "'declare owned' is not allowed inside a loop")
	}
	call, ok := n.Init.(*ast.Call)
	if !ok {
		c.fail(n.Pos(), "'declare owned' requires a recognized constructor call as its initializer")
		return
	}
	fname, ok := ownedConstructors[call.Callee]
	if !ok {
		c.fail(n.Pos(), "%q is not a recognized owned constructor", call.Callee)
		return
	}
	*freeFunc = fname
}

func (c *Checker) checkAssign(n *ast.AssignStmt, sc *scope) {
	if n.Target != nil {
		// `v.x = e` / `v.x += e`: lowered field assignment (spec §4.2).
		fg, ok := n.Target.(*ast.FieldGet)
		if !ok {
			c.fail(n.Pos(), "invalid assignment target")
			return
		}
		// checkFieldGet both validates the field exists and records
		// fg.FieldType, which codegen's object_set coercion depends on.
		fieldType := c.checkFieldGet(fg, sc)
		valType := c.checkExpr(n.Value, sc)
		if valType != types.Invalid && fieldType != types.Invalid && !types.AssignCompatible(valType, fieldType) {
			c.fail(n.Pos(), "cannot assign %s to field %q of type %s", valType, fg.Field, fieldType)
		}
		return
	}

	info, ok := sc.lookup(n.Name)
	if !ok {
		c.fail(n.Pos(), "undefined variable %q", n.Name)
		return
	}
	if info.Const {
		c.fail(n.Pos(), "cannot assign to const binding %q", n.Name)
	}
	if info.Owned {
		c.fail(n.Pos(), "owned binding %q cannot be reassigned", n.Name)
	}
	valType := c.checkExpr(n.Value, sc)
	if valType != types.Invalid && info.Type != types.Invalid && !types.AssignCompatible(valType, info.Type) {
		c.fail(n.Pos(), "cannot assign %s to %q of type %s", valType, n.Name, info.Type)
	}
}

func (c *Checker) checkReturn(n *ast.ReturnStmt, sc *scope) {
	if n.Value == nil {
		if c.currentFunction != nil && c.currentFunction.ReturnType != types.Void {
			c.fail(n.Pos(), "missing return value for function returning %s", c.currentFunction.ReturnType)
		}
		return
	}
	if ident, ok := n.Value.(*ast.Ident); ok {
		if info, found := sc.lookup(ident.Name); found && info.Owned {
			c.fail(n.Pos(), "owned binding %q cannot be returned", ident.Name)
		}
	}
	got := c.checkExpr(n.Value, sc)
	if c.currentFunction != nil && got != types.Invalid && !types.AssignCompatible(got, c.currentFunction.ReturnType) {
		c.fail(n.Pos(), "cannot return %s from function returning %s", got, c.currentFunction.ReturnType)
	}
}

// checkForRange enforces spec §3/§4.3's for-range rules: start/stop/step
// must be i64, a literal step of 0 is rejected, and (for `parallel` loops)
// no break/continue and no assignment to a name defined outside the loop.
func (c *Checker) checkForRange(n *ast.ForRangeStmt, sc *scope) {
	c.checkCondKind(n.Start, sc, types.I64, "for-range start")
	c.checkCondKind(n.Stop, sc, types.I64, "for-range stop")
	if n.Step != nil {
		c.checkCondKind(n.Step, sc, types.I64, "for-range step")
		if lit, ok := n.Step.(*ast.IntLit); ok && lit.Value == 0 {
			c.fail(n.Step.Pos(), "for-range step literal must not be 0")
		}
	}

	loopScope := newScope(sc)
	loopScope.define(n.Var, &varInfo{Type: types.I64})

	if n.Parallel {
		c.parallelDepth++
	}
	c.loopDepth++
	c.checkBlock(n.Body, loopScope)
	c.loopDepth--
	if n.Parallel {
		c.parallelDepth--
		c.checkParallelLoopBody(n, sc)
	}
}

// checkParallelLoopBody re-walks a parallel loop's body looking for
// break/continue or an assignment to a name bound outside the loop (spec
// §3 invariant).
func (c *Checker) checkParallelLoopBody(n *ast.ForRangeStmt, outer *scope) {
	walkStatements(n.Body, func(s ast.Stmt) {
		switch bad := s.(type) {
		case *ast.BreakStmt:
			c.fail(bad.Pos(), "'parallel' for-loops may not contain 'break'")
		case *ast.ContinueStmt:
			c.fail(bad.Pos(), "'parallel' for-loops may not contain 'continue'")
		case *ast.AssignStmt:
			if bad.Target == nil && bad.Name != n.Var {
				if _, definedOutside := outer.lookup(bad.Name); definedOutside {
					c.fail(bad.Pos(), "'parallel' for-loop may not assign to %q, defined outside the loop", bad.Name)
				}
			}
		}
	}, nil)
}

// checkExpr infers e's type, records it via Expr.SetType, and enforces
// call resolution and throws propagation. Operator overrides are not
// resolved here: operators always use the built-in typing rules.
func (c *Checker) checkExpr(e ast.Expr, sc *scope) types.Kind {
	if e == nil {
		return types.Invalid
	}
	k := c.inferExpr(e, sc)
	e.SetType(k)
	return k
}

func (c *Checker) inferExpr(e ast.Expr, sc *scope) types.Kind {
	switch n := e.(type) {
	case *ast.IntLit:
		return types.I64
	case *ast.FloatLit:
		return types.F64
	case *ast.BoolLit:
		return types.Bool
	case *ast.StringLit:
		return types.Str
	case *ast.Ident:
		info, ok := sc.lookup(n.Name)
		if !ok {
			c.fail(n.Pos(), "undefined name %q", n.Name)
			return types.Invalid
		}
		return info.Type
	case *ast.UnaryOp:
		return c.checkUnary(n, sc)
	case *ast.BinaryOp:
		return c.checkBinary(n, sc)
	case *ast.Call:
		return c.checkCall(n, sc)
	case *ast.FieldGet:
		return c.checkFieldGet(n, sc)
	case *ast.MethodCall:
		return c.checkMethodCall(n, sc)
	default:
		return types.Invalid
	}
}

func (c *Checker) checkUnary(n *ast.UnaryOp, sc *scope) types.Kind {
	xt := c.checkExpr(n.X, sc)
	switch n.Op.String() {
	case "-":
		if !xt.IsNumeric() && xt != types.Invalid {
			c.fail(n.Pos(), "unary '-' requires a numeric operand, got %s", xt)
		}
		return xt
	case "!":
		if xt != types.Bool && xt != types.Invalid {
			c.fail(n.Pos(), "unary '!' requires a bool operand, got %s", xt)
		}
		return types.Bool
	default:
		return xt
	}
}

func (c *Checker) checkBinary(n *ast.BinaryOp, sc *scope) types.Kind {
	lt := c.checkExpr(n.L, sc)
	rt := c.checkExpr(n.R, sc)

	switch n.Op.String() {
	case "&&", "||":
		return types.Bool
	case "==", "!=", "<", ">", "<=", ">=":
		return types.Bool
	default:
		if lt == types.Invalid || rt == types.Invalid {
			return types.Invalid
		}
		if !lt.IsNumeric() || !rt.IsNumeric() {
			c.fail(n.Pos(), "operator %s requires numeric operands, got %s and %s", n.Op, lt, rt)
			return types.Invalid
		}
		return widen(lt, rt)
	}
}

// widen returns the common numeric type of two operands along the
// widening lattice i32 ⊑ i64 ⊑ f64, i32 ⊑ f32 ⊑ f64 (spec §3).
func widen(a, b types.Kind) types.Kind {
	if a == b {
		return a
	}
	if (a == types.I64 && b == types.F32) || (a == types.F32 && b == types.I64) {
		return types.F64
	}
	rank := map[types.Kind]int{types.I32: 0, types.F32: 1, types.I64: 1, types.F64: 2}
	if rank[a] >= rank[b] {
		if a == types.F64 || b == types.F64 {
			return types.F64
		}
		return a
	}
	if a == types.F64 || b == types.F64 {
		return types.F64
	}
	return b
}

// checkCall resolves a call expression against its overload group,
// propagates its throws set, and special-cases a callee that names a
// class as a constructor invocation.
func (c *Checker) checkCall(n *ast.Call, sc *scope) types.Kind {
	argTypes := make([]types.Kind, len(n.Args))
	for i, a := range n.Args {
		argTypes[i] = c.checkExpr(a, sc)
	}

	if class, ok := c.classes[n.Callee]; ok {
		n.ResolvedClass = n.Callee
		return c.resolveConstructorCall(n, class, argTypes)
	}

	group := c.symbols.Group(n.Callee)
	if len(group) == 0 {
		c.fail(n.Pos(), "undefined function %q", n.Callee)
		return types.Invalid
	}
	sig, ambiguous := ResolveOverload(group, argTypes)
	if sig == nil {
		c.fail(n.Pos(), "no overload of %q accepts the given argument types", n.Callee)
		return types.Invalid
	}
	if ambiguous {
		c.fail(n.Pos(), "ambiguous call to overloaded function %q", n.Callee)
		return types.Invalid
	}

	n.ResolvedSymbol = sig.Symbol
	n.ResolvedThrows = sig.Throws
	c.checkThrows(n.Pos(), sig.Throws)
	return sig.Return
}

func (c *Checker) resolveConstructorCall(n *ast.Call, class *ast.Class, argTypes []types.Kind) types.Kind {
	overloads := class.Methods["constructor"]
	if len(overloads) == 0 {
		if len(n.Args) != 0 {
			c.fail(n.Pos(), "class %q has no constructor accepting %d argument(s)", class.Name, len(n.Args))
		}
		return types.Void // callers key off ResolvedClass, not this Kind
	}
	var sigs []*Signature
	for _, ov := range overloads {
		params := make([]types.Kind, len(ov.Fn.Params))
		for i, p := range ov.Fn.Params {
			params[i] = p.Type
		}
		sigs = append(sigs, &Signature{Params: params, Symbol: ov.Fn.MangledSymbol})
	}
	sig, ambiguous := ResolveOverload(sigs, argTypes)
	if sig == nil {
		c.fail(n.Pos(), "no constructor of %q accepts the given argument types", class.Name)
	} else if ambiguous {
		c.fail(n.Pos(), "ambiguous constructor call for class %q", class.Name)
	} else {
		n.ResolvedSymbol = sig.Symbol
	}
	return types.Void
}

// checkThrows enforces spec §3/§4.3's throws contract: any throw kind a
// call propagates that is not in the enclosing function's (or the
// top-level's) declared throws list is a compile error, downgraded to a
// warning under superuser mode via Checker.fail.
func (c *Checker) checkThrows(pos lexer.Position, kinds []string) {
	if len(kinds) == 0 {
		return
	}
	var declared []string
	if c.currentFunction != nil {
		declared = c.currentFunction.Throws
	}
	for _, k := range kinds {
		if !containsStr(declared, k) {
			c.fail(pos, "call may throw %q, which is not declared in this function's 'throws' list", k)
		}
	}
}

func containsStr(xs []string, x string) bool {
	for _, s := range xs {
		if s == x {
			return true
		}
	}
	return false
}

func (c *Checker) checkFieldGet(n *ast.FieldGet, sc *scope) types.Kind {
	info, classOf := c.resolveObjectClass(n.Object, sc)
	if classOf == "" {
		return types.Invalid
	}
	_ = info
	class := c.classes[classOf]
	if class == nil {
		return types.Invalid
	}
	field, ok := class.Fields[n.Field]
	if !ok {
		c.fail(n.Pos(), "class %q has no field %q", classOf, n.Field)
		return types.Invalid
	}
	n.FieldType = field.Type
	return field.Type
}

func (c *Checker) checkMethodCall(n *ast.MethodCall, sc *scope) types.Kind {
	_, classOf := c.resolveObjectClass(n.Object, sc)
	argTypes := make([]types.Kind, len(n.Args))
	for i, a := range n.Args {
		argTypes[i] = c.checkExpr(a, sc)
	}
	if classOf == "" {
		return types.Invalid
	}
	class := c.classes[classOf]
	if class == nil {
		return types.Invalid
	}
	group := class.Methods[n.Method]
	if len(group) == 0 {
		c.fail(n.Pos(), "class %q has no method %q", classOf, n.Method)
		return types.Invalid
	}
	var sigs []*Signature
	for _, ov := range group {
		params := make([]types.Kind, len(ov.Fn.Params))
		for i, p := range ov.Fn.Params {
			params[i] = p.Type
		}
		sigs = append(sigs, &Signature{Params: params, Return: ov.Fn.ReturnType, Symbol: ov.Fn.MangledSymbol, Throws: ov.Fn.Throws})
	}
	sig, ambiguous := ResolveOverload(sigs, argTypes)
	if sig == nil {
		c.fail(n.Pos(), "no overload of method %q on %q accepts the given argument types", n.Method, classOf)
		return types.Invalid
	}
	if ambiguous {
		c.fail(n.Pos(), "ambiguous call to overloaded method %q on %q", n.Method, classOf)
		return types.Invalid
	}
	n.ResolvedSymbol = sig.Symbol
	return sig.Return
}

func (c *Checker) resolveObjectClass(obj ast.Expr, sc *scope) (*varInfo, string) {
	ident, ok := obj.(*ast.Ident)
	if !ok {
		c.checkExpr(obj, sc)
		return nil, ""
	}
	info, found := sc.lookup(ident.Name)
	if !found || info.ClassOf == "" {
		c.fail(obj.Pos(), "%q is not a class instance", ident.Name)
		return nil, ""
	}
	return info, info.ClassOf
}
