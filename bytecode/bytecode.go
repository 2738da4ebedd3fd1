// Package bytecode defines the compiled program representation executed
// by the virtual machine: a flat instruction vector, a deduplicated
// constant pool, a function table, and the main entry index.
package bytecode

import (
	"github.com/IsVohi/ByteCode-Compiler/object"
	"github.com/IsVohi/ByteCode-Compiler/op"
)

// Instruction is a single fixed-size bytecode instruction. Opcodes that
// take no operand ignore the field.
type Instruction struct {
	Opcode  op.Code
	Operand uint16
}

// FunctionInfo describes one compiled function. The VM uses Entry and
// Arity for calls and LocalCount for frame placement; Name is kept for
// diagnostics and disassembly.
type FunctionInfo struct {
	Name       string
	Entry      uint16
	Arity      uint8
	LocalCount uint8
}

// Program is a complete compiled program. It is constructed by the
// compiler and read-only during execution.
type Program struct {
	Code      []Instruction
	Constants []object.Object
	Functions []FunctionInfo

	// MainEntry is the instruction index where top-level statements
	// begin.
	MainEntry uint16

	// MainLocals is the slot count of the top-level frame, used by the
	// VM to place the first callee frame directly after it.
	MainLocals uint16
}
