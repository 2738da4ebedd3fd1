package dis

import (
	"bytes"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/wonton/assert"

	"github.com/IsVohi/ByteCode-Compiler/compiler"
	"github.com/IsVohi/ByteCode-Compiler/op"
	"github.com/IsVohi/ByteCode-Compiler/parser"
)

func TestDisassemble(t *testing.T) {
	program, err := parser.Parse("print(3 + 5);")
	assert.Nil(t, err)
	code, err := compiler.Compile(program)
	assert.Nil(t, err)

	instructions := Disassemble(code)
	assert.Len(t, instructions, len(code.Code))

	assert.Equal(t, instructions[0].Name, "CONST")
	assert.Equal(t, instructions[0].Annotation, "3")
	assert.True(t, instructions[0].HasOperand)
	assert.Equal(t, instructions[2].Name, "ADD")
	assert.False(t, instructions[2].HasOperand)
	assert.Equal(t, instructions[3].Name, "PRINT")
}

func TestCallAnnotation(t *testing.T) {
	program, err := parser.Parse("fn add(a, b) { return a + b; } print(add(1, 2));")
	assert.Nil(t, err)
	code, err := compiler.Compile(program)
	assert.Nil(t, err)

	var found bool
	for _, instr := range Disassemble(code) {
		if instr.Opcode == op.Call {
			found = true
			assert.Equal(t, instr.Annotation, "add")
		}
	}
	assert.True(t, found)
}

func TestDump(t *testing.T) {
	program, err := parser.Parse(`fn f(x) { return x; } print(f(7));`)
	assert.Nil(t, err)
	code, err := compiler.Compile(program)
	assert.Nil(t, err)

	var buf bytes.Buffer
	Dump(&buf, code)
	out := buf.String()

	assert.True(t, strings.Contains(out, "=== Bytecode Program ==="))
	assert.True(t, strings.Contains(out, "f entry=0 arity=1 locals=1"))
	assert.True(t, strings.Contains(out, "CALL 0 (f)"))
	assert.True(t, strings.Contains(out, "Main entry:"))
}
