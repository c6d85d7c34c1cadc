package rjs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFuncDeclAndReturn(t *testing.T) {
	prog, err := Parse(`
		func add(a: num, b: num): num {
			return a + b;
		}
	`)
	require.NoError(t, err)
	require.Len(t, prog.Decls, 1)
	fn, ok := prog.Decls[0].(*FuncDecl)
	require.True(t, ok)
	require.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	require.Equal(t, Num(), fn.Ret)
}

func TestParseIfElseIfElse(t *testing.T) {
	prog, err := Parse(`
		if (true) {
			let x = 1;
		} else if (false) {
			let y = 2;
		} else {
			let z = 3;
		}
	`)
	require.NoError(t, err)
	require.Len(t, prog.Decls, 1)
	top, ok := prog.Decls[0].(stmtTopLevel)
	require.True(t, ok)
	ifStmt, ok := top.Stmt.(*If)
	require.True(t, ok)
	elseIf, ok := ifStmt.Else.(*If)
	require.True(t, ok)
	_, ok = elseIf.Else.(*Block)
	require.True(t, ok)
}

func TestParseForLoopAndVecType(t *testing.T) {
	prog, err := Parse(`
		let items: vec<num> = [1, 2, 3];
		for (let i: num = 0; i < items.length(); i = i + 1) {
			print(items[i]);
		}
	`)
	require.NoError(t, err)
	require.Len(t, prog.Decls, 2)
}

func TestParseSwitch(t *testing.T) {
	prog, err := Parse(`
		switch (1) {
		case 1:
			print("one");
		case 2:
			print("two");
		default:
			print("other");
		}
	`)
	require.NoError(t, err)
	top := prog.Decls[0].(stmtTopLevel)
	sw, ok := top.Stmt.(*Switch)
	require.True(t, ok)
	require.Len(t, sw.Cases, 2)
	require.NotNil(t, sw.Default)
}

func TestParseReturnWithStatus(t *testing.T) {
	prog, err := Parse(`return 404, { "error": "not found" };`)
	require.NoError(t, err)
	top := prog.Decls[0].(stmtTopLevel)
	ret, ok := top.Stmt.(*Return)
	require.True(t, ok)
	require.NotNil(t, ret.Status)
	require.NotNil(t, ret.Value)
}

func TestParseObjectLiteralPreservesOrder(t *testing.T) {
	prog, err := Parse(`let o = { "b": 1, "a": 2 };`)
	require.NoError(t, err)
	top := prog.Decls[0].(stmtTopLevel)
	letStmt := top.Stmt.(*LetDecl)
	obj := letStmt.Init.(*ObjectLit)
	require.Equal(t, []string{"b", "a"}, obj.Keys)
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse(`let x = ;`)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}
