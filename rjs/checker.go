package rjs

import "fmt"

// FuncSig is a checked function signature, keyed by name in a Checker's
// function table.
type FuncSig struct {
	Params []Type
	Ret    Type
}

// builtinVariadic marks print as taking any number of arguments. The checker
// does not consult it: no builtin call has its argument count checked.
var builtinVariadic = map[string]bool{"print": true}

// builtin globals available without an import (spec §6). Params records each
// builtin's parameter types, but checkCall does not compare a builtin call's
// arguments (count or types) against it; only Ret is used, as the type of
// the call expression.
var builtinFuncs = map[string]FuncSig{
	"print":    {Params: nil, Ret: Undef()},
	"sleep":    {Params: []Type{Num()}, Ret: Undef()},
	"toString": {Params: []Type{Any()}, Ret: Str()},
	"toType":   {Params: []Type{Any()}, Ret: Str()},

	"cacheSet":   {Params: []Type{Str(), Any()}, Ret: Undef()},
	"cacheGet":   {Params: []Type{Str()}, Ret: Any()},
	"cacheDel":   {Params: []Type{Str()}, Ret: BoolT()},
	"cacheClear": {Params: nil, Ret: Undef()},

	"dbCreateTable":   {Params: []Type{Str()}, Ret: Undef()},
	"dbGetAllTables":  {Params: nil, Ret: Vec(Str())},
	"dbDropTable":     {Params: []Type{Str()}, Ret: Undef()},
	"dbDrop":          {Params: nil, Ret: Undef()},
	"dbCreateEntry":   {Params: []Type{Str(), Obj()}, Ret: Num()},
	"dbGetAll":        {Params: []Type{Str()}, Ret: Vec(Obj())},
	"dbGetById":       {Params: []Type{Str(), Num()}, Ret: Any()},
	"dbGetByFields":   {Params: []Type{Str(), Obj()}, Ret: Vec(Obj())},
	"dbUpdateById":    {Params: []Type{Str(), Num(), Obj()}, Ret: BoolT()},
	"dbUpdateByFields": {Params: []Type{Str(), Obj(), Obj()}, Ret: Num()},
	"dbDeleteById":    {Params: []Type{Str(), Num()}, Ret: BoolT()},
	"dbDeleteByFields": {Params: []Type{Str(), Obj()}, Ret: Num()},
}

type scope struct {
	vars   map[string]Type
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: map[string]Type{}, parent: parent}
}

func (s *scope) lookup(name string) (Type, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if t, ok := cur.vars[name]; ok {
			return t, true
		}
	}
	return Type{}, false
}

func (s *scope) define(name string, t Type) { s.vars[name] = t }

// Checker implements the spec §4.2.3 static type checker (component C5):
// single forward pass collecting function signatures, then a body pass
// producing Diagnostics without halting on the first error.
type Checker struct {
	funcs map[string]FuncSig
	diags []Diagnostic
	fnRet     Type // return type of the function currently being checked
	loop      int  // nesting depth of for/while, for continue validity
	breakable int  // nesting depth of for/while/switch, for break validity
}

// Check type-checks a parsed Program and returns all diagnostics found
// (empty slice means the program is well-typed).
func Check(prog *Program) []Diagnostic {
	c := &Checker{funcs: map[string]FuncSig{}, fnRet: Any()}
	for _, d := range prog.Decls {
		if fn, ok := d.(*FuncDecl); ok {
			sig := FuncSig{Ret: fn.Ret}
			for _, p := range fn.Params {
				sig.Params = append(sig.Params, p.Type)
			}
			if _, exists := c.funcs[fn.Name]; exists {
				c.errorAt(fn.Position(), "function %q redeclared", fn.Name)
				continue
			}
			c.funcs[fn.Name] = sig
		}
	}

	top := newScope(nil)
	for _, d := range prog.Decls {
		switch t := d.(type) {
		case *FuncDecl:
			c.checkFunc(t)
		case stmtTopLevel:
			c.checkStmt(t.Stmt, top)
		}
	}
	return c.diags
}

func (c *Checker) errorAt(p Pos, format string, args ...any) {
	c.diags = append(c.diags, Diagnostic{Line: p.Line, Col: p.Col, Severity: SeverityError, Msg: fmt.Sprintf(format, args...)})
}

func (c *Checker) checkFunc(fn *FuncDecl) {
	s := newScope(nil)
	for _, p := range fn.Params {
		s.define(p.Name, p.Type)
	}
	prevRet := c.fnRet
	c.fnRet = fn.Ret
	c.checkBlock(fn.Body, s)
	c.fnRet = prevRet
}

func (c *Checker) checkBlock(b *Block, parent *scope) {
	s := newScope(parent)
	for _, stmt := range b.Stmts {
		c.checkStmt(stmt, s)
	}
}

func (c *Checker) checkStmt(stmt Stmt, s *scope) {
	switch st := stmt.(type) {
	case *LetDecl:
		hasInit := st.Init != nil
		var initType Type
		if hasInit {
			initType = c.checkExpr(st.Init, s)
		}
		declType := st.Type
		if !st.HasType {
			declType = initType
		} else if hasInit && declType.Kind != TAny && !declType.AssignableTo(initType) {
			c.errorAt(st.Init.Position(), "cannot assign %s to %s variable %q", initType, declType, st.Name)
		}
		s.define(st.Name, declType)

	case *Assign:
		if isReqExpr(st.Target) {
			c.errorAt(st.Pos, "req is read-only: cannot assign to req or any of its fields")
		}
		targetType := c.checkExpr(st.Target, s)
		valType := c.checkExpr(st.Value, s)
		if targetType.Kind != TAny && !targetType.AssignableTo(valType) {
			c.errorAt(st.Pos, "cannot assign %s to %s", valType, targetType)
		}

	case *ExprStmt:
		c.checkExpr(st.Expr, s)

	case *Block:
		c.checkBlock(st, s)

	case *If:
		if t := c.checkExpr(st.Cond, s); t.Kind != TBool && t.Kind != TAny {
			c.errorAt(st.Cond.Position(), "if condition must be bool, got %s", t)
		}
		c.checkBlock(st.Then, s)
		if st.Else != nil {
			c.checkStmt(st.Else, s)
		}

	case *For:
		inner := newScope(s)
		if st.Init != nil {
			c.checkStmt(st.Init, inner)
		}
		if st.Cond != nil {
			if t := c.checkExpr(st.Cond, inner); t.Kind != TBool && t.Kind != TAny {
				c.errorAt(st.Cond.Position(), "for condition must be bool, got %s", t)
			}
		}
		if st.Step != nil {
			c.checkStmt(st.Step, inner)
		}
		c.loop++
		c.breakable++
		c.checkBlock(st.Body, inner)
		c.loop--
		c.breakable--

	case *While:
		if t := c.checkExpr(st.Cond, s); t.Kind != TBool && t.Kind != TAny {
			c.errorAt(st.Cond.Position(), "while condition must be bool, got %s", t)
		}
		c.loop++
		c.breakable++
		c.checkBlock(st.Body, s)
		c.loop--
		c.breakable--

	case *Switch:
		// A switch accepts break (to exit the switch) but is not itself a
		// loop: continue still requires an enclosing for/while, so loop is
		// left untouched here.
		c.checkExpr(st.Scrut, s)
		c.breakable++
		for _, cs := range st.Cases {
			c.checkExpr(cs.Literal, s)
			c.checkBlock(cs.Body, s)
		}
		if st.Default != nil {
			c.checkBlock(st.Default, s)
		}
		c.breakable--

	case *Break:
		if c.breakable == 0 {
			c.errorAt(st.Pos, "break outside loop or switch")
		}

	case *Continue:
		if c.loop == 0 {
			c.errorAt(st.Pos, "continue outside loop")
		}

	case *Return:
		var valType Type
		if st.Value != nil {
			valType = c.checkExpr(st.Value, s)
		} else {
			valType = Undef()
		}
		if st.Status != nil {
			if t := c.checkExpr(st.Status, s); t.Kind != TNum && t.Kind != TAny {
				c.errorAt(st.Status.Position(), "return status must be num, got %s", t)
			}
		}
		if c.fnRet.Kind != TAny && !c.fnRet.AssignableTo(valType) {
			c.errorAt(st.Pos, "function returns %s but return value is %s", c.fnRet, valType)
		}

	default:
		c.errorAt(stmt.Position(), "internal: unhandled statement %T", stmt)
	}
}

func (c *Checker) checkExpr(expr Expr, s *scope) Type {
	switch e := expr.(type) {
	case *NumberLit:
		return Num()
	case *StringLit:
		return Str()
	case *BoolLit:
		return BoolT()
	case *UndefinedLit:
		return Undef()
	case *TemplateExpr:
		for _, sub := range e.Exprs {
			c.checkExpr(sub, s)
		}
		return Str()

	case *Ident:
		if t, ok := s.lookup(e.Name); ok {
			return t
		}
		if e.Name == "req" {
			return Obj()
		}
		c.errorAt(e.Pos, "undefined variable %q", e.Name)
		return Any()

	case *Unary:
		t := c.checkExpr(e.X, s)
		switch e.Op {
		case "-":
			if t.Kind != TNum && t.Kind != TAny {
				c.errorAt(e.Pos, "unary - requires num, got %s", t)
			}
			return Num()
		case "!":
			if t.Kind != TBool && t.Kind != TAny {
				c.errorAt(e.Pos, "unary ! requires bool, got %s", t)
			}
			return BoolT()
		}
		return Any()

	case *Binary:
		lt := c.checkExpr(e.L, s)
		rt := c.checkExpr(e.R, s)
		switch e.Op {
		case "+":
			if lt.Kind == TStr || rt.Kind == TStr {
				return Str()
			}
			if lt.Kind != TNum && lt.Kind != TAny || rt.Kind != TNum && rt.Kind != TAny {
				c.errorAt(e.Pos, "operator + requires num or str operands, got %s and %s", lt, rt)
			}
			return Num()
		case "-", "*", "/", "%":
			if lt.Kind != TNum && lt.Kind != TAny {
				c.errorAt(e.L.Position(), "operator %s requires num, got %s", e.Op, lt)
			}
			if rt.Kind != TNum && rt.Kind != TAny {
				c.errorAt(e.R.Position(), "operator %s requires num, got %s", e.Op, rt)
			}
			return Num()
		case "<", "<=", ">", ">=":
			if lt.Kind != TNum && lt.Kind != TAny {
				c.errorAt(e.L.Position(), "operator %s requires num, got %s", e.Op, lt)
			}
			if rt.Kind != TNum && rt.Kind != TAny {
				c.errorAt(e.R.Position(), "operator %s requires num, got %s", e.Op, rt)
			}
			return BoolT()
		case "==", "!=":
			return BoolT()
		case "&&", "||":
			if lt.Kind != TBool && lt.Kind != TAny {
				c.errorAt(e.L.Position(), "operator %s requires bool, got %s", e.Op, lt)
			}
			if rt.Kind != TBool && rt.Kind != TAny {
				c.errorAt(e.R.Position(), "operator %s requires bool, got %s", e.Op, rt)
			}
			return BoolT()
		}
		return Any()

	case *ArrayLit:
		var elem Type
		for i, item := range e.Items {
			t := c.checkExpr(item, s)
			if i == 0 {
				elem = t
			} else if !elem.Equal(t) {
				elem = Any()
			}
		}
		if len(e.Items) == 0 {
			elem = Any()
		}
		return Vec(elem)

	case *ObjectLit:
		for _, v := range e.Values {
			c.checkExpr(v, s)
		}
		return Obj()

	case *Member:
		xt := c.checkExpr(e.X, s)
		if xt.Kind == TVec || xt.Kind == TStr || xt.Kind == TObj || xt.Kind == TAny {
			return Any()
		}
		c.errorAt(e.Pos, "type %s has no member %q", xt, e.Name)
		return Any()

	case *Index:
		xt := c.checkExpr(e.X, s)
		it := c.checkExpr(e.Idx, s)
		if it.Kind != TNum && it.Kind != TStr && it.Kind != TAny {
			c.errorAt(e.Idx.Position(), "index must be num or str, got %s", it)
		}
		if xt.Kind == TVec && xt.Elem != nil {
			return *xt.Elem
		}
		return Any()

	case *Call:
		return c.checkCall(e, s)

	default:
		c.errorAt(expr.Position(), "internal: unhandled expression %T", expr)
		return Any()
	}
}

func (c *Checker) checkCall(call *Call, s *scope) Type {
	switch callee := call.Callee.(type) {
	case *Ident:
		if sig, ok := c.funcs[callee.Name]; ok {
			if len(call.Args) != len(sig.Params) {
				c.errorAt(call.Pos, "function %q expects %d args, got %d", callee.Name, len(sig.Params), len(call.Args))
			}
			for i, a := range call.Args {
				at := c.checkExpr(a, s)
				if i < len(sig.Params) && sig.Params[i].Kind != TAny && !sig.Params[i].AssignableTo(at) {
					c.errorAt(a.Position(), "argument %d of %q expects %s, got %s", i+1, callee.Name, sig.Params[i], at)
				}
			}
			return sig.Ret
		}
		if sig, ok := builtinFuncs[callee.Name]; ok {
			for _, a := range call.Args {
				c.checkExpr(a, s)
			}
			return sig.Ret
		}
		c.errorAt(call.Pos, "undefined function %q", callee.Name)
		for _, a := range call.Args {
			c.checkExpr(a, s)
		}
		return Any()

	case *Member:
		// str/vec instance methods (length, push, substring, ...) are
		// resolved dynamically against the receiver's runtime kind; the
		// checker only validates argument expressions, not arity/type.
		c.checkExpr(callee.X, s)
		for _, a := range call.Args {
			c.checkExpr(a, s)
		}
		return Any()

	default:
		c.checkExpr(call.Callee, s)
		for _, a := range call.Args {
			c.checkExpr(a, s)
		}
		return Any()
	}
}
