package bcc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IsVohi/ByteCode-Compiler/errz"
	"github.com/IsVohi/ByteCode-Compiler/object"
	"github.com/IsVohi/ByteCode-Compiler/vm"
)

func TestEval(t *testing.T) {
	var buf bytes.Buffer
	result, err := Eval("print(3 + 5);", WithOutput(&buf))
	require.NoError(t, err)
	require.Equal(t, "8\n", buf.String())
	require.True(t, result.Equals(object.NewInt(0)))
}

func TestEvalResult(t *testing.T) {
	result, err := Eval("return 6 * 7;", WithOutput(&bytes.Buffer{}))
	require.NoError(t, err)
	require.True(t, result.Equals(object.NewInt(42)))
}

func TestEvalScenarios(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{
			name:     "arithmetic",
			source:   "print(3 + 5);",
			expected: "8\n",
		},
		{
			name:     "precedence",
			source:   "let x = 2 + 3 * 4; print(x);",
			expected: "14\n",
		},
		{
			name:     "function call",
			source:   "fn add(a,b){return a+b;} print(add(17,25));",
			expected: "42\n",
		},
		{
			name:     "for loop",
			source:   "for (let i=0; i<5; i=i+1){ print(i); }",
			expected: "0\n1\n2\n3\n4\n",
		},
		{
			name:     "break",
			source:   "for (let i=0; i<10; i=i+1){ if(i==3){break;} print(i); }",
			expected: "0\n1\n2\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			_, err := Eval(tt.source, WithOutput(&buf))
			require.NoError(t, err)
			require.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestEvalWithAndWithoutOptimizer(t *testing.T) {
	source := "for (let i = 0; i < 2 + 1; i = i + 1) { print(i * (3 - 1)); }"

	var plain bytes.Buffer
	_, err := Eval(source, WithOutput(&plain), WithoutOptimizer())
	require.NoError(t, err)

	var optimized bytes.Buffer
	_, err = Eval(source, WithOutput(&optimized))
	require.NoError(t, err)

	require.Equal(t, plain.String(), optimized.String())
	require.Equal(t, "0\n2\n4\n", optimized.String())
}

func TestCompile(t *testing.T) {
	program, err := Compile("fn f(a) { return a; } print(f(1));")
	require.NoError(t, err)
	require.Len(t, program.Functions, 1)
	require.NotEmpty(t, program.Code)
	require.NotEmpty(t, program.Constants)
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		source string
		kind   errz.Kind
	}{
		{"let x = 5 & 3;", errz.Lexer},
		{"let x = ;", errz.Parser},
		{"print(missing);", errz.Codegen},
		{"print(1 / 0);", errz.VM},
	}
	for _, tt := range tests {
		_, err := Eval(tt.source, WithOutput(&bytes.Buffer{}))
		require.Error(t, err, "source: %s", tt.source)
		require.True(t, errz.IsKind(err, tt.kind), "source %q: got %v", tt.source, err)
	}
}

func TestEvalWithObserver(t *testing.T) {
	profiler := vm.NewProfiler()
	_, err := Eval("for (let i = 0; i < 10; i = i + 1) { let x = i; }",
		WithOutput(&bytes.Buffer{}), WithObserver(profiler))
	require.NoError(t, err)
	require.True(t, profiler.TotalInstructions() > 0)
}
