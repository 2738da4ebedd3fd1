// Package op defines the opcodes shared by the compiler and the virtual
// machine.
package op

// Code is an integer opcode that indicates an operation to execute.
// Every instruction carries at most one 16-bit operand; opcodes with
// OperandCount zero ignore the field.
type Code uint8

const (
	Const Code = 0x00 // push constants[operand]
	Load  Code = 0x01 // push locals[bp+operand]
	Store Code = 0x02 // pop into locals[bp+operand]

	// Arithmetic. Add also concatenates two strings.
	Add Code = 0x03
	Sub Code = 0x04
	Mul Code = 0x05
	Div Code = 0x06
	Mod Code = 0x07

	// Control flow. Jump operands are absolute instruction indexes.
	Jump       Code = 0x08
	JumpIfZero Code = 0x09 // pop; jump when the value is integer zero
	Call       Code = 0x0A // invoke functions[operand]
	Return     Code = 0x0B // pop frame, push return value into caller

	Print Code = 0x0C // pop and write to the output sink with a newline

	// Comparisons push integer 0 or 1. Eq and Neq are polymorphic over
	// the value type; the relational opcodes require two integers.
	Eq  Code = 0x0D
	Neq Code = 0x0E
	Lt  Code = 0x0F
	Lte Code = 0x10
	Gt  Code = 0x11
	Gte Code = 0x12

	// Arrays
	BuildArray Code = 0x13 // pop operand values, rightmost on top
	ArrayLoad  Code = 0x14 // bounds-checked element load
	ArrayStore Code = 0x15 // bounds-checked in-place element store

	Pop Code = 0x16 // discard the top of the stack
)

// Info contains information about an opcode.
type Info struct {
	Code         Code
	Name         string
	OperandCount int
}

var infos = make([]Info, 256)

func init() {
	ops := []Info{
		{Const, "CONST", 1},
		{Load, "LOAD", 1},
		{Store, "STORE", 1},
		{Add, "ADD", 0},
		{Sub, "SUB", 0},
		{Mul, "MUL", 0},
		{Div, "DIV", 0},
		{Mod, "MOD", 0},
		{Jump, "JUMP", 1},
		{JumpIfZero, "JUMP_IF_ZERO", 1},
		{Call, "CALL", 1},
		{Return, "RETURN", 0},
		{Print, "PRINT", 0},
		{Eq, "EQ", 0},
		{Neq, "NEQ", 0},
		{Lt, "LT", 0},
		{Lte, "LTE", 0},
		{Gt, "GT", 0},
		{Gte, "GTE", 0},
		{BuildArray, "BUILD_ARRAY", 1},
		{ArrayLoad, "ARRAY_LOAD", 0},
		{ArrayStore, "ARRAY_STORE", 0},
		{Pop, "POP", 0},
	}
	for _, o := range ops {
		infos[o.Code] = o
	}
}

// GetInfo returns information about the given opcode. Unknown opcodes
// return an Info with an empty name.
func GetInfo(code Code) Info {
	return infos[code]
}
