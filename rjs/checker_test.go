package rjs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Parse(src)
	require.NoError(t, err)
	return prog
}

func TestCheckerAcceptsWellTypedProgram(t *testing.T) {
	prog := mustParse(t, `
		func double(n: num): num {
			return n * 2;
		}
		let x: num = double(21);
		return x;
	`)
	diags := Check(prog)
	require.Empty(t, diags)
}

func TestCheckerRejectsTypeMismatch(t *testing.T) {
	prog := mustParse(t, `let x: num = "hello";`)
	diags := Check(prog)
	require.NotEmpty(t, diags)
}

func TestCheckerRejectsUndefinedVariable(t *testing.T) {
	prog := mustParse(t, `let y = x + 1;`)
	diags := Check(prog)
	require.NotEmpty(t, diags)
}

func TestCheckerRejectsWrongArity(t *testing.T) {
	prog := mustParse(t, `
		func add(a: num, b: num): num {
			return a + b;
		}
		let z = add(1);
	`)
	diags := Check(prog)
	require.NotEmpty(t, diags)
}

func TestCheckerRejectsBreakOutsideLoop(t *testing.T) {
	prog := mustParse(t, `break;`)
	diags := Check(prog)
	require.NotEmpty(t, diags)
}

func TestCheckerAllowsAnyVecElementMix(t *testing.T) {
	prog := mustParse(t, `
		let items: vec<any> = [1, "two", true];
		let first = items[0];
	`)
	diags := Check(prog)
	require.Empty(t, diags)
}

func TestCheckerRejectsContinueInSwitchOutsideLoop(t *testing.T) {
	prog := mustParse(t, `
		switch (1) {
			case 1:
				continue;
		}
	`)
	diags := Check(prog)
	require.NotEmpty(t, diags)
}

func TestCheckerAllowsBreakInSwitchOutsideLoop(t *testing.T) {
	prog := mustParse(t, `
		switch (1) {
			case 1:
				break;
		}
	`)
	diags := Check(prog)
	require.Empty(t, diags)
}

func TestCheckerAllowsContinueInSwitchInsideLoop(t *testing.T) {
	prog := mustParse(t, `
		for (let i = 0; i < 3; i = i + 1) {
			switch (i) {
				case 1:
					continue;
			}
		}
	`)
	diags := Check(prog)
	require.Empty(t, diags)
}

func TestCheckerRejectsAssignToReq(t *testing.T) {
	prog := mustParse(t, `req = 1;`)
	diags := Check(prog)
	require.NotEmpty(t, diags)
}

func TestCheckerRejectsAssignToReqField(t *testing.T) {
	prog := mustParse(t, `req.body = 1;`)
	diags := Check(prog)
	require.NotEmpty(t, diags)
}
