package parser

import (
	"testing"

	"github.com/deepnoodle-ai/wonton/assert"

	"github.com/IsVohi/ByteCode-Compiler/ast"
	"github.com/IsVohi/ByteCode-Compiler/errz"
)

func parseOne(t *testing.T, input string) ast.Node {
	t.Helper()
	program, err := Parse(input)
	assert.Nil(t, err, "unexpected error: %v", err)
	assert.Len(t, program.Items, 1)
	return program.Items[0]
}

func TestLetStatement(t *testing.T) {
	stmt, ok := parseOne(t, "let x = 5;").(*ast.Var)
	assert.True(t, ok)
	assert.Equal(t, stmt.Name.Name, "x")
	value, ok := stmt.Value.(*ast.Int)
	assert.True(t, ok)
	assert.Equal(t, value.Value, int32(5))
}

func TestAssignStatement(t *testing.T) {
	stmt, ok := parseOne(t, "x = 5;").(*ast.Assign)
	assert.True(t, ok)
	assert.Equal(t, stmt.Name.Name, "x")
}

func TestArrayAssignStatement(t *testing.T) {
	stmt, ok := parseOne(t, "arr[2] = 5;").(*ast.SetIndex)
	assert.True(t, ok)
	target, ok := stmt.Target.(*ast.Ident)
	assert.True(t, ok)
	assert.Equal(t, target.Name, "arr")
	index, ok := stmt.Index.(*ast.Int)
	assert.True(t, ok)
	assert.Equal(t, index.Value, int32(2))
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3;", "(1 + (2 * 3))"},
		{"(1 + 2) * 3;", "((1 + 2) * 3)"},
		{"1 + 2 + 3;", "((1 + 2) + 3)"},
		{"1 < 2 == 3 < 4;", "((1 < 2) == (3 < 4))"},
		{"1 + 2 < 3 * 4;", "((1 + 2) < (3 * 4))"},
		{"a && b || c;", "((a && b) || c)"},
		{"a || b && c;", "(a || (b && c))"},
		{"a == b && c == d;", "((a == b) && (c == d))"},
		{"-1 + 2;", "((-1) + 2)"},
		{"-x[0];", "(-x[0])"},
		{"!a && b;", "((!a) && b)"},
		{"1 % 2 * 3;", "((1 % 2) * 3)"},
		{"a + f(b) * c;", "(a + (f(b) * c))"},
	}
	for _, tt := range tests {
		program, err := Parse(tt.input)
		assert.Nil(t, err, "input %q: %v", tt.input, err)
		assert.Len(t, program.Items, 1)
		assert.Equal(t, program.Items[0].String(), tt.expected, "input: %s", tt.input)
	}
}

func TestFunctionDeclaration(t *testing.T) {
	fn, ok := parseOne(t, "fn add(a, b) { return a + b; }").(*ast.Func)
	assert.True(t, ok)
	assert.Equal(t, fn.Name.Name, "add")
	assert.Len(t, fn.Params, 2)
	assert.Equal(t, fn.Params[0].Name, "a")
	assert.Equal(t, fn.Params[1].Name, "b")
	assert.Len(t, fn.Body.Stmts, 1)
	_, ok = fn.Body.Stmts[0].(*ast.Return)
	assert.True(t, ok)
}

func TestFunctionNoParams(t *testing.T) {
	fn, ok := parseOne(t, "fn zero() { return 0; }").(*ast.Func)
	assert.True(t, ok)
	assert.Len(t, fn.Params, 0)
}

func TestCallExpression(t *testing.T) {
	call, ok := parseOne(t, "add(1, 2 * 3, x);").(*ast.Call)
	assert.True(t, ok)
	assert.Equal(t, call.Name, "add")
	assert.Len(t, call.Args, 3)
	assert.Equal(t, call.Args[1].String(), "(2 * 3)")
}

func TestIfStatement(t *testing.T) {
	stmt, ok := parseOne(t, "if (x < 10) { print(x); }").(*ast.If)
	assert.True(t, ok)
	assert.Equal(t, stmt.Cond.String(), "(x < 10)")
	assert.Len(t, stmt.Body.Stmts, 1)
}

func TestWhileStatement(t *testing.T) {
	stmt, ok := parseOne(t, "while (x > 0) { x = x - 1; }").(*ast.While)
	assert.True(t, ok)
	assert.Equal(t, stmt.Cond.String(), "(x > 0)")
}

func TestForStatement(t *testing.T) {
	stmt, ok := parseOne(t, "for (let i = 0; i < 5; i = i + 1) { print(i); }").(*ast.For)
	assert.True(t, ok)
	init, ok := stmt.Init.(*ast.Var)
	assert.True(t, ok)
	assert.Equal(t, init.Name.Name, "i")
	assert.Equal(t, stmt.Cond.String(), "(i < 5)")
	step, ok := stmt.Step.(*ast.Assign)
	assert.True(t, ok)
	assert.Equal(t, step.Name.Name, "i")
}

func TestForStatementEmptyClauses(t *testing.T) {
	tests := []string{
		"for (;;) { break; }",
		"for (let i = 0;;) { break; }",
		"for (; i < 5;) { break; }",
		"for (;; i = i + 1) { break; }",
		"for (i = 0; i < 5;) { break; }",
	}
	for _, input := range tests {
		program, err := Parse(input)
		assert.Nil(t, err, "input %q: %v", input, err)
		_, ok := program.Items[0].(*ast.For)
		assert.True(t, ok, "input: %s", input)
	}
}

func TestForStepExpression(t *testing.T) {
	stmt, ok := parseOne(t, "for (let i = 0; i < 5; bump()) { print(i); }").(*ast.For)
	assert.True(t, ok)
	_, ok = stmt.Step.(*ast.Call)
	assert.True(t, ok)
}

func TestArrayLiteral(t *testing.T) {
	arr, ok := parseOne(t, "[1, 2 + 3, \"x\"];").(*ast.Array)
	assert.True(t, ok)
	assert.Len(t, arr.Elements, 3)

	empty, ok := parseOne(t, "[];").(*ast.Array)
	assert.True(t, ok)
	assert.Len(t, empty.Elements, 0)
}

func TestIndexExpression(t *testing.T) {
	idx, ok := parseOne(t, "arr[i + 1];").(*ast.Index)
	assert.True(t, ok)
	assert.Equal(t, idx.Index.String(), "(i + 1)")

	// Indexing is left-associative over nested arrays
	nested, ok := parseOne(t, "arr[0][1];").(*ast.Index)
	assert.True(t, ok)
	_, ok = nested.Target.(*ast.Index)
	assert.True(t, ok)
}

func TestReturnStatement(t *testing.T) {
	program, err := Parse("fn f() { return; } fn g() { return 1 + 2; }")
	assert.Nil(t, err)
	assert.Len(t, program.Items, 2)

	f := program.Items[0].(*ast.Func)
	ret := f.Body.Stmts[0].(*ast.Return)
	assert.True(t, ret.Value == nil)

	g := program.Items[1].(*ast.Func)
	ret = g.Body.Stmts[0].(*ast.Return)
	assert.NotNil(t, ret.Value)
}

func TestBlockStatement(t *testing.T) {
	block, ok := parseOne(t, "{ let a = 1; print(a); }").(*ast.Block)
	assert.True(t, ok)
	assert.Len(t, block.Stmts, 2)
}

func TestExpressionStatement(t *testing.T) {
	node := parseOne(t, "1 + 2;")
	_, ok := node.(*ast.Infix)
	assert.True(t, ok)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"let = 5;", "unexpected"},
		{"let x 5;", "unexpected"},
		{"print(1);;", "unexpected"},
		{"1 + 2", "unexpected end of input"},
		{"f(1,);", "unexpected"},
		{"[1, 2,];", "unexpected"},
		{"1 + 2 = 3;", "invalid assignment target"},
		{"f() = 3;", "invalid assignment target"},
		{"if (x) { print(x); } else { print(0); }", "else branches are not supported"},
		{"for (let i = 0 i < 5;) { }", "unexpected"},
		{"fn () { }", "unexpected"},
		{"{ print(1);", "unterminated block"},
		{"print(2147483648);", "invalid integer literal"},
	}
	for _, tt := range tests {
		_, err := Parse(tt.input)
		assert.NotNil(t, err, "input: %s", tt.input)
		if err == nil {
			continue
		}
		assert.True(t, errz.IsKind(err, errz.Parser), "input %q: got %v", tt.input, err)
		if !containsStr(err.Error(), tt.want) {
			t.Errorf("input %q: expected error containing %q, got %q", tt.input, tt.want, err.Error())
		}
	}
}

func TestErrorPositions(t *testing.T) {
	_, err := Parse("let x = 1;\nlet = 2;")
	assert.NotNil(t, err)
	e, ok := err.(*errz.Error)
	assert.True(t, ok)
	assert.Equal(t, e.Line, 2)
}

func TestStringRoundTrip(t *testing.T) {
	// Pretty-printing a parsed program and reparsing it produces a
	// structurally identical tree
	inputs := []string{
		"let x = 1 + 2 * 3;",
		"fn add(a, b) { return a + b; } print(add(1, 2));",
		"for (let i = 0; i < 5; i = i + 1) { if (i == 3) { break; } print(i); }",
		"let arr = [1, 2, 3]; arr[0] = arr[1] + arr[2];",
		"while (x > 0) { x = x - 1; continue; }",
		"print(\"hello\" + \"world\");",
	}
	for _, input := range inputs {
		first, err := Parse(input)
		assert.Nil(t, err, "input %q: %v", input, err)
		printed := first.String()
		second, err := Parse(printed)
		assert.Nil(t, err, "reparse %q: %v", printed, err)
		assert.Equal(t, second.String(), printed, "input: %s", input)
	}
}

func containsStr(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
