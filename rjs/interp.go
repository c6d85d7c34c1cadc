package rjs

import (
	"fmt"
	"strings"
	"time"
)

// env is a runtime variable scope, chained to its enclosing scope.
type env struct {
	vars   map[string]Value
	parent *env
}

func newEnv(parent *env) *env {
	return &env{vars: map[string]Value{}, parent: parent}
}

func (e *env) get(name string) (Value, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return Undefined(), false
}

// set assigns into the nearest enclosing scope that already declares name,
// falling back to defining it in the current scope when no enclosing scope
// declares it. (LetDecl, including a for-init one, uses define instead.)
func (e *env) set(name string, v Value) {
	for cur := e; cur != nil; cur = cur.parent {
		if _, ok := cur.vars[name]; ok {
			cur.vars[name] = v
			return
		}
	}
	e.vars[name] = v
}

func (e *env) define(name string, v Value) { e.vars[name] = v }

// Interp is a tree-walking evaluator for a type-checked RJS Program
// (spec §4.2.4, component C6).
type Interp struct {
	funcs map[string]*FuncDecl
	host  *Host
}

// NewInterp builds an interpreter for prog, bound to the given Host for
// print/cache/db/req built-ins.
func NewInterp(prog *Program, host *Host) *Interp {
	it := &Interp{funcs: map[string]*FuncDecl{}, host: host}
	for _, d := range prog.Decls {
		if fn, ok := d.(*FuncDecl); ok {
			it.funcs[fn.Name] = fn
		}
	}
	return it
}

// Result is the outcome of running a handler's top-level statements:
// the HTTP status (defaulting to 200) and the JSON-able response value.
type Result struct {
	Status int
	Value  Value
}

// Run executes the program's top-level statements in order (the handler
// body of a route script) and returns the first `return` encountered, or a
// bare 200/undefined result if execution falls off the end.
func (it *Interp) Run(prog *Program) (Result, error) {
	e := newEnv(nil)
	for _, d := range prog.Decls {
		st, ok := d.(stmtTopLevel)
		if !ok {
			continue // FuncDecl, already indexed
		}
		sig, err := it.execStmt(st.Stmt, e)
		if err != nil {
			return Result{}, err
		}
		if sig.kind == sigReturn {
			status := 200
			if sig.hasStatus {
				status = int(sig.retStatus.AsNum())
			}
			return Result{Status: status, Value: sig.retValue}, nil
		}
	}
	return Result{Status: 200, Value: Undefined()}, nil
}

func (it *Interp) execBlock(b *Block, parent *env) (signal, error) {
	e := newEnv(parent)
	for _, s := range b.Stmts {
		sig, err := it.execStmt(s, e)
		if err != nil {
			return signal{}, err
		}
		if sig.kind != sigNone {
			return sig, nil
		}
	}
	return signal{}, nil
}

func (it *Interp) execStmt(stmt Stmt, e *env) (signal, error) {
	switch st := stmt.(type) {
	case *LetDecl:
		var v Value
		if st.Init != nil {
			var err error
			v, err = it.eval(st.Init, e)
			if err != nil {
				return signal{}, err
			}
		} else {
			v = Undefined()
		}
		e.define(st.Name, v)
		return signal{}, nil

	case *Assign:
		v, err := it.eval(st.Value, e)
		if err != nil {
			return signal{}, err
		}
		return signal{}, it.assign(st.Target, v, e)

	case *ExprStmt:
		_, err := it.eval(st.Expr, e)
		return signal{}, err

	case *Block:
		return it.execBlock(st, e)

	case *If:
		cond, err := it.eval(st.Cond, e)
		if err != nil {
			return signal{}, err
		}
		if cond.AsBool() {
			return it.execBlock(st.Then, e)
		}
		if st.Else != nil {
			return it.execStmt(st.Else, e)
		}
		return signal{}, nil

	case *For:
		inner := newEnv(e)
		if st.Init != nil {
			if _, err := it.execStmt(st.Init, inner); err != nil {
				return signal{}, err
			}
		}
		for {
			if st.Cond != nil {
				cv, err := it.eval(st.Cond, inner)
				if err != nil {
					return signal{}, err
				}
				if !cv.AsBool() {
					break
				}
			}
			sig, err := it.execBlock(st.Body, inner)
			if err != nil {
				return signal{}, err
			}
			if sig.kind == sigBreak {
				break
			}
			if sig.kind == sigReturn {
				return sig, nil
			}
			if st.Step != nil {
				if _, err := it.execStmt(st.Step, inner); err != nil {
					return signal{}, err
				}
			}
		}
		return signal{}, nil

	case *While:
		for {
			cv, err := it.eval(st.Cond, e)
			if err != nil {
				return signal{}, err
			}
			if !cv.AsBool() {
				break
			}
			sig, err := it.execBlock(st.Body, e)
			if err != nil {
				return signal{}, err
			}
			if sig.kind == sigBreak {
				break
			}
			if sig.kind == sigReturn {
				return sig, nil
			}
		}
		return signal{}, nil

	case *Switch:
		scrut, err := it.eval(st.Scrut, e)
		if err != nil {
			return signal{}, err
		}
		var sig signal
		matched := false
		for _, cs := range st.Cases {
			lit, err := it.eval(cs.Literal, e)
			if err != nil {
				return signal{}, err
			}
			if DeepEqual(scrut, lit) {
				matched = true
				sig, err = it.execBlock(cs.Body, e)
				if err != nil {
					return signal{}, err
				}
				break
			}
		}
		if !matched && st.Default != nil {
			var err error
			sig, err = it.execBlock(st.Default, e)
			if err != nil {
				return signal{}, err
			}
		}
		// A switch's own break only exits the switch. continue and return
		// propagate through it to the enclosing loop/function unchanged.
		if sig.kind == sigBreak {
			return signal{}, nil
		}
		return sig, nil

	case *Break:
		return signal{kind: sigBreak}, nil

	case *Continue:
		return signal{kind: sigContinue}, nil

	case *Return:
		sig := signal{kind: sigReturn, retValue: Undefined()}
		if st.Value != nil {
			v, err := it.eval(st.Value, e)
			if err != nil {
				return signal{}, err
			}
			sig.retValue = v
		}
		if st.Status != nil {
			v, err := it.eval(st.Status, e)
			if err != nil {
				return signal{}, err
			}
			sig.retStatus = v
			sig.hasStatus = true
		}
		return sig, nil

	default:
		return signal{}, &RuntimeError{stmt.Position().Line, stmt.Position().Col, fmt.Sprintf("internal: unhandled statement %T", stmt)}
	}
}

// continue is implemented purely in execStmt's for/while loop bodies:
// execBlock returns sigContinue up to the loop, which simply proceeds to its
// step/condition re-check since nothing further needs unwinding here. Blocks
// that aren't loop bodies (plain blocks, switch cases) propagate sigContinue
// unchanged to their caller until a for/while picks it up.

func (it *Interp) assign(target Expr, v Value, e *env) error {
	if isReqExpr(target) {
		pos := target.Position()
		return &RuntimeError{pos.Line, pos.Col, "req is read-only"}
	}
	switch t := target.(type) {
	case *Ident:
		e.set(t.Name, v)
		return nil
	case *Index:
		xv, err := it.eval(t.X, e)
		if err != nil {
			return err
		}
		iv, err := it.eval(t.Idx, e)
		if err != nil {
			return err
		}
		switch xv.Kind() {
		case KVec:
			i := int(iv.AsNum())
			if !xv.VecSet(i, v) {
				return &RuntimeError{t.Pos.Line, t.Pos.Col, "vec index out of range"}
			}
			return nil
		case KObj:
			xv.ObjSet(iv.AsStr(), v)
			return nil
		default:
			return &RuntimeError{t.Pos.Line, t.Pos.Col, "cannot index-assign into this type"}
		}
	case *Member:
		xv, err := it.eval(t.X, e)
		if err != nil {
			return err
		}
		if xv.Kind() != KObj {
			return &RuntimeError{t.Pos.Line, t.Pos.Col, "cannot assign member on non-object"}
		}
		xv.ObjSet(t.Name, v)
		return nil
	default:
		return &RuntimeError{target.Position().Line, target.Position().Col, "invalid assignment target"}
	}
}

func (it *Interp) eval(expr Expr, e *env) (Value, error) {
	switch ex := expr.(type) {
	case *NumberLit:
		return NumVal(ex.Value), nil
	case *StringLit:
		return StrVal(ex.Value), nil
	case *BoolLit:
		return BoolVal(ex.Value), nil
	case *UndefinedLit:
		return Undefined(), nil

	case *TemplateExpr:
		var out string
		for i, part := range ex.Parts {
			out += part
			if i < len(ex.Exprs) {
				v, err := it.eval(ex.Exprs[i], e)
				if err != nil {
					return Value{}, err
				}
				out += ToString(v)
			}
		}
		return StrVal(out), nil

	case *Ident:
		if v, ok := e.get(ex.Name); ok {
			return v, nil
		}
		if ex.Name == "req" {
			return it.reqValue(), nil
		}
		return Undefined(), &RuntimeError{ex.Pos.Line, ex.Pos.Col, fmt.Sprintf("undefined variable %q", ex.Name)}

	case *Unary:
		v, err := it.eval(ex.X, e)
		if err != nil {
			return Value{}, err
		}
		switch ex.Op {
		case "-":
			return NumVal(-v.AsNum()), nil
		case "!":
			return BoolVal(!v.AsBool()), nil
		}
		return Undefined(), &RuntimeError{ex.Pos.Line, ex.Pos.Col, "unknown unary operator"}

	case *Binary:
		return it.evalBinary(ex, e)

	case *ArrayLit:
		items := make([]Value, len(ex.Items))
		for i, item := range ex.Items {
			v, err := it.eval(item, e)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return VecVal(items), nil

	case *ObjectLit:
		obj := ObjVal()
		for i, k := range ex.Keys {
			v, err := it.eval(ex.Values[i], e)
			if err != nil {
				return Value{}, err
			}
			obj.ObjSet(k, v)
		}
		return obj, nil

	case *Member:
		return it.evalMember(ex, e)

	case *Index:
		xv, err := it.eval(ex.X, e)
		if err != nil {
			return Value{}, err
		}
		iv, err := it.eval(ex.Idx, e)
		if err != nil {
			return Value{}, err
		}
		switch xv.Kind() {
		case KVec:
			i := int(iv.AsNum())
			v, ok := xv.VecGet(i)
			if !ok {
				return Undefined(), &RuntimeError{ex.Pos.Line, ex.Pos.Col, "vec index out of range"}
			}
			return v, nil
		case KObj:
			v, _ := xv.ObjGet(iv.AsStr())
			return v, nil
		case KStr:
			i := int(iv.AsNum())
			runes := []rune(xv.AsStr())
			if i < 0 || i >= len(runes) {
				return Undefined(), &RuntimeError{ex.Pos.Line, ex.Pos.Col, "str index out of range"}
			}
			return StrVal(string(runes[i])), nil
		default:
			return Undefined(), &RuntimeError{ex.Pos.Line, ex.Pos.Col, "value is not indexable"}
		}

	case *Call:
		return it.evalCall(ex, e)

	default:
		return Undefined(), &RuntimeError{expr.Position().Line, expr.Position().Col, fmt.Sprintf("internal: unhandled expression %T", expr)}
	}
}

func (it *Interp) evalBinary(ex *Binary, e *env) (Value, error) {
	lv, err := it.eval(ex.L, e)
	if err != nil {
		return Value{}, err
	}
	if ex.Op == "&&" {
		if !lv.AsBool() {
			return BoolVal(false), nil
		}
		rv, err := it.eval(ex.R, e)
		if err != nil {
			return Value{}, err
		}
		return BoolVal(rv.AsBool()), nil
	}
	if ex.Op == "||" {
		if lv.AsBool() {
			return BoolVal(true), nil
		}
		rv, err := it.eval(ex.R, e)
		if err != nil {
			return Value{}, err
		}
		return BoolVal(rv.AsBool()), nil
	}

	rv, err := it.eval(ex.R, e)
	if err != nil {
		return Value{}, err
	}

	switch ex.Op {
	case "+":
		if lv.Kind() == KStr || rv.Kind() == KStr {
			return StrVal(ToString(lv) + ToString(rv)), nil
		}
		return NumVal(lv.AsNum() + rv.AsNum()), nil
	case "-":
		return NumVal(lv.AsNum() - rv.AsNum()), nil
	case "*":
		return NumVal(lv.AsNum() * rv.AsNum()), nil
	case "/":
		if rv.AsNum() == 0 {
			return Undefined(), &RuntimeError{ex.Pos.Line, ex.Pos.Col, "division by zero"}
		}
		return NumVal(lv.AsNum() / rv.AsNum()), nil
	case "%":
		if rv.AsNum() == 0 {
			return Undefined(), &RuntimeError{ex.Pos.Line, ex.Pos.Col, "modulo by zero"}
		}
		li, ri := int64(lv.AsNum()), int64(rv.AsNum())
		return NumVal(float64(li % ri)), nil
	case "<":
		return BoolVal(lv.AsNum() < rv.AsNum()), nil
	case "<=":
		return BoolVal(lv.AsNum() <= rv.AsNum()), nil
	case ">":
		return BoolVal(lv.AsNum() > rv.AsNum()), nil
	case ">=":
		return BoolVal(lv.AsNum() >= rv.AsNum()), nil
	case "==":
		return BoolVal(DeepEqual(lv, rv)), nil
	case "!=":
		return BoolVal(!DeepEqual(lv, rv)), nil
	default:
		return Undefined(), &RuntimeError{ex.Pos.Line, ex.Pos.Col, fmt.Sprintf("unknown operator %q", ex.Op)}
	}
}

func (it *Interp) evalMember(ex *Member, e *env) (Value, error) {
	xv, err := it.eval(ex.X, e)
	if err != nil {
		return Value{}, err
	}
	if xv.Kind() == KObj {
		v, _ := xv.ObjGet(ex.Name)
		return v, nil
	}
	return Undefined(), nil
}

func (it *Interp) reqValue() Value {
	v := ObjVal()
	v.ObjSet("method", StrVal(it.host.Req.Method))
	v.ObjSet("path", StrVal(it.host.Req.Path))
	params := ObjVal()
	for k, val := range it.host.Req.Params {
		params.ObjSet(k, StrVal(val))
	}
	v.ObjSet("params", params)
	query := ObjVal()
	for k, val := range it.host.Req.Query {
		query.ObjSet(k, val)
	}
	v.ObjSet("query", query)
	headers := ObjVal()
	for k, val := range it.host.Req.Headers {
		headers.ObjSet(k, val)
	}
	v.ObjSet("headers", headers)
	v.ObjSet("body", FromJSONVal(it.host.Req.Body))
	return v
}

func (it *Interp) evalCall(call *Call, e *env) (Value, error) {
	switch callee := call.Callee.(type) {
	case *Ident:
		if fn, ok := it.funcs[callee.Name]; ok {
			return it.callUserFunc(fn, call, e)
		}
		return it.callBuiltinGlobal(callee.Name, call, e)

	case *Member:
		recv, err := it.eval(callee.X, e)
		if err != nil {
			return Value{}, err
		}
		return it.callInstanceMethod(recv, callee.Name, call, e)

	default:
		return Undefined(), &RuntimeError{call.Pos.Line, call.Pos.Col, "call target is not callable"}
	}
}

func (it *Interp) callUserFunc(fn *FuncDecl, call *Call, callerEnv *env) (Value, error) {
	fe := newEnv(nil)
	for i, p := range fn.Params {
		v, err := it.eval(call.Args[i], callerEnv)
		if err != nil {
			return Value{}, err
		}
		fe.define(p.Name, v)
	}
	sig, err := it.execBlock(fn.Body, fe)
	if err != nil {
		return Value{}, err
	}
	if sig.kind == sigReturn {
		return sig.retValue, nil
	}
	return Undefined(), nil
}

func (it *Interp) evalArgs(call *Call, e *env) ([]Value, error) {
	args := make([]Value, len(call.Args))
	for i, a := range call.Args {
		v, err := it.eval(a, e)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (it *Interp) callBuiltinGlobal(name string, call *Call, e *env) (Value, error) {
	args, err := it.evalArgs(call, e)
	if err != nil {
		return Value{}, err
	}
	switch name {
	case "print":
		if it.host != nil && it.host.Logger != nil {
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = ToString(a)
			}
			it.host.Logger.Info(strings.Join(parts, " "))
		}
		return Undefined(), nil
	case "sleep":
		time.Sleep(time.Duration(args[0].AsNum()) * time.Millisecond)
		return Undefined(), nil
	case "toString":
		return StrVal(ToString(args[0])), nil
	case "toType":
		return StrVal(typeName(args[0])), nil

	case "cacheSet", "cacheGet", "cacheDel", "cacheClear":
		return it.callCacheBuiltin(name, args, call)

	case "dbCreateTable", "dbGetAllTables", "dbDropTable", "dbDrop",
		"dbCreateEntry", "dbGetAll", "dbGetById", "dbGetByFields",
		"dbUpdateById", "dbUpdateByFields", "dbDeleteById", "dbDeleteByFields":
		return it.callDBBuiltin(name, args, call)

	default:
		return Undefined(), &RuntimeError{call.Pos.Line, call.Pos.Col, fmt.Sprintf("undefined function %q", name)}
	}
}

// typeName implements toType()'s rendering (spec §6): number, string, bool,
// obj, vec<…>, Undefined.
func typeName(v Value) string {
	switch v.Kind() {
	case KNum:
		return "number"
	case KStr:
		return "string"
	case KBool:
		return "bool"
	case KObj:
		return "obj"
	case KVec:
		return "vec<" + vecElemTypeName(v) + ">"
	default:
		return "Undefined"
	}
}

// vecElemTypeName infers the rendered element type of a vec from its actual
// elements, since a runtime Value carries no static element type: the
// shared type name if every element agrees, "any" if the vec is empty or
// its elements disagree.
func vecElemTypeName(v Value) string {
	n := v.VecLen()
	if n == 0 {
		return "any"
	}
	first, _ := v.VecGet(0)
	elem := typeName(first)
	for i := 1; i < n; i++ {
		item, _ := v.VecGet(i)
		if typeName(item) != elem {
			return "any"
		}
	}
	return elem
}

func (it *Interp) callCacheBuiltin(name string, args []Value, call *Call) (Value, error) {
	if it.host == nil || it.host.Cache == nil {
		return Undefined(), &RuntimeError{call.Pos.Line, call.Pos.Col, "cache is not available"}
	}
	switch name {
	case "cacheSet":
		it.host.Cache.Set(args[0].AsStr(), ToJSONVal(args[1]))
		return Undefined(), nil
	case "cacheGet":
		v, ok := it.host.Cache.Get(args[0].AsStr())
		if !ok {
			return Undefined(), nil
		}
		return FromJSONVal(v), nil
	case "cacheDel":
		return BoolVal(it.host.Cache.Delete(args[0].AsStr())), nil
	case "cacheClear":
		it.host.Cache.Clear()
		return Undefined(), nil
	default:
		return Undefined(), &RuntimeError{call.Pos.Line, call.Pos.Col, fmt.Sprintf("unknown cache builtin %q", name)}
	}
}

func (it *Interp) callDBBuiltin(name string, args []Value, call *Call) (Value, error) {
	if it.host == nil || it.host.DB == nil {
		return Undefined(), &RuntimeError{call.Pos.Line, call.Pos.Col, "db is not available"}
	}
	db := it.host.DB
	wrapErr := func(err error) error {
		if err == nil {
			return nil
		}
		return &RuntimeError{call.Pos.Line, call.Pos.Col, err.Error()}
	}
	switch name {
	case "dbCreateTable":
		return Undefined(), wrapErr(db.CreateTable(args[0].AsStr()))
	case "dbGetAllTables":
		tables, err := db.GetAllTables()
		if err != nil {
			return Undefined(), wrapErr(err)
		}
		out := make([]Value, len(tables))
		for i, t := range tables {
			out[i] = StrVal(t)
		}
		return VecVal(out), nil
	case "dbDropTable":
		return Undefined(), wrapErr(db.DropTable(args[0].AsStr()))
	case "dbDrop":
		return Undefined(), wrapErr(db.Drop())
	case "dbCreateEntry":
		row, err := db.CreateEntry(args[0].AsStr(), ToJSONVal(args[1]))
		if err != nil {
			return Undefined(), wrapErr(err)
		}
		idField, _ := row.Get("id")
		return NumVal(idField.AsNumber()), nil
	case "dbGetAll":
		rows, err := db.GetAll(args[0].AsStr())
		if err != nil {
			return Undefined(), wrapErr(err)
		}
		out := make([]Value, len(rows))
		for i, r := range rows {
			out[i] = FromJSONVal(r)
		}
		return VecVal(out), nil
	case "dbGetById":
		row, ok, err := db.GetById(args[0].AsStr(), ToJSONVal(args[1]))
		if err != nil {
			return Undefined(), wrapErr(err)
		}
		if !ok {
			return Undefined(), nil
		}
		return FromJSONVal(row), nil
	case "dbGetByFields":
		rows, err := db.GetByFields(args[0].AsStr(), ToJSONVal(args[1]))
		if err != nil {
			return Undefined(), wrapErr(err)
		}
		out := make([]Value, len(rows))
		for i, r := range rows {
			out[i] = FromJSONVal(r)
		}
		return VecVal(out), nil
	case "dbUpdateById":
		ok, err := db.UpdateById(args[0].AsStr(), ToJSONVal(args[1]), ToJSONVal(args[2]))
		if err != nil {
			return Undefined(), wrapErr(err)
		}
		return BoolVal(ok), nil
	case "dbUpdateByFields":
		count, err := db.UpdateByFields(args[0].AsStr(), ToJSONVal(args[1]), ToJSONVal(args[2]))
		if err != nil {
			return Undefined(), wrapErr(err)
		}
		return NumVal(float64(count)), nil
	case "dbDeleteById":
		ok, err := db.DeleteById(args[0].AsStr(), ToJSONVal(args[1]))
		if err != nil {
			return Undefined(), wrapErr(err)
		}
		return BoolVal(ok), nil
	case "dbDeleteByFields":
		count, err := db.DeleteByFields(args[0].AsStr(), ToJSONVal(args[1]))
		if err != nil {
			return Undefined(), wrapErr(err)
		}
		return NumVal(float64(count)), nil
	default:
		return Undefined(), &RuntimeError{call.Pos.Line, call.Pos.Col, fmt.Sprintf("unknown db builtin %q", name)}
	}
}

// callInstanceMethod implements the built-in str/vec instance methods of
// spec §6.
func (it *Interp) callInstanceMethod(recv Value, method string, call *Call, e *env) (Value, error) {
	args, err := it.evalArgs(call, e)
	if err != nil {
		return Value{}, err
	}
	switch recv.Kind() {
	case KStr:
		return it.callStrMethod(recv, method, args, call)
	case KVec:
		return it.callVecMethod(recv, method, args, call)
	case KObj:
		if method == "length" {
			return NumVal(float64(recv.ObjLen())), nil
		}
	}
	return Undefined(), &RuntimeError{call.Pos.Line, call.Pos.Col, fmt.Sprintf("unknown method %q on %s", method, recv.TypeOf())}
}

func (it *Interp) callStrMethod(recv Value, method string, args []Value, call *Call) (Value, error) {
	s := recv.AsStr()
	switch method {
	case "length":
		return NumVal(float64(len([]rune(s)))), nil
	case "contains":
		return BoolVal(strings.Contains(s, args[0].AsStr())), nil
	case "split":
		parts := strings.Split(s, args[0].AsStr())
		out := make([]Value, len(parts))
		for i, p := range parts {
			out[i] = StrVal(p)
		}
		return VecVal(out), nil
	case "substring":
		runes := []rune(s)
		a, b := int(args[0].AsNum()), int(args[1].AsNum())
		if a < 0 {
			a = 0
		}
		if b > len(runes) {
			b = len(runes)
		}
		if a > b {
			a = b
		}
		return StrVal(string(runes[a:b])), nil
	case "replace":
		return StrVal(strings.Replace(s, args[0].AsStr(), args[1].AsStr(), 1)), nil
	case "to_chars":
		runes := []rune(s)
		out := make([]Value, len(runes))
		for i, r := range runes {
			out[i] = StrVal(string(r))
		}
		return VecVal(out), nil
	default:
		return Undefined(), &RuntimeError{call.Pos.Line, call.Pos.Col, fmt.Sprintf("unknown str method %q", method)}
	}
}

func (it *Interp) callVecMethod(recv Value, method string, args []Value, call *Call) (Value, error) {
	switch method {
	case "length":
		return NumVal(float64(recv.VecLen())), nil
	case "push":
		recv.VecPush(args[0])
		return NumVal(float64(recv.VecLen())), nil
	case "remove":
		items := recv.AsVec()
		for i, item := range items {
			if DeepEqual(item, args[0]) {
				*recv.vec = append(items[:i], items[i+1:]...)
				return BoolVal(true), nil
			}
		}
		return BoolVal(false), nil
	case "removeAt":
		i := int(args[0].AsNum())
		items := recv.AsVec()
		if i < 0 || i >= len(items) {
			return Undefined(), &RuntimeError{call.Pos.Line, call.Pos.Col, "vec index out of range"}
		}
		removed := items[i]
		*recv.vec = append(items[:i], items[i+1:]...)
		return removed, nil
	default:
		return Undefined(), &RuntimeError{call.Pos.Line, call.Pos.Col, fmt.Sprintf("unknown vec method %q", method)}
	}
}
