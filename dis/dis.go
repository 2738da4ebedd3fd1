// Package dis supports analysis of compiled programs by disassembling
// their bytecode into a human readable listing.
package dis

import (
	"fmt"
	"io"
	"strings"

	"github.com/IsVohi/ByteCode-Compiler/bytecode"
	"github.com/IsVohi/ByteCode-Compiler/op"
)

// Instruction is a decoded instruction with an optional annotation, such
// as the constant value behind a CONST operand or the function name
// behind a CALL operand.
type Instruction struct {
	Offset     int
	Name       string
	Opcode     op.Code
	Operand    uint16
	HasOperand bool
	Annotation string
}

// Disassemble decodes every instruction of the program.
func Disassemble(program *bytecode.Program) []Instruction {
	instructions := make([]Instruction, 0, len(program.Code))
	for offset, instr := range program.Code {
		info := op.GetInfo(instr.Opcode)
		name := info.Name
		if name == "" {
			name = fmt.Sprintf("UNKNOWN(%d)", instr.Opcode)
		}
		var annotation string
		switch instr.Opcode {
		case op.Const:
			if int(instr.Operand) < len(program.Constants) {
				annotation = program.Constants[instr.Operand].Inspect()
			}
		case op.Call:
			if int(instr.Operand) < len(program.Functions) {
				annotation = program.Functions[instr.Operand].Name
			}
		}
		instructions = append(instructions, Instruction{
			Offset:     offset,
			Name:       name,
			Opcode:     instr.Opcode,
			Operand:    instr.Operand,
			HasOperand: info.OperandCount > 0,
			Annotation: annotation,
		})
	}
	return instructions
}

// Dump writes a full listing of the program to the given writer:
// constant pool, function table, instructions, and the main entry.
func Dump(w io.Writer, program *bytecode.Program) {
	fmt.Fprintln(w, "=== Bytecode Program ===")

	fmt.Fprintf(w, "Constants: %d\n", len(program.Constants))
	for i, constant := range program.Constants {
		fmt.Fprintf(w, "  [%d] = %s\n", i, constant.Inspect())
	}

	fmt.Fprintf(w, "Functions: %d\n", len(program.Functions))
	for _, fn := range program.Functions {
		fmt.Fprintf(w, "  %s entry=%d arity=%d locals=%d\n",
			fn.Name, fn.Entry, fn.Arity, fn.LocalCount)
	}

	fmt.Fprintf(w, "Code: %d instructions\n", len(program.Code))
	for _, instr := range Disassemble(program) {
		var line strings.Builder
		fmt.Fprintf(&line, "  [%d] %s", instr.Offset, instr.Name)
		if instr.HasOperand {
			fmt.Fprintf(&line, " %d", instr.Operand)
		}
		if instr.Annotation != "" {
			fmt.Fprintf(&line, " (%s)", instr.Annotation)
		}
		fmt.Fprintln(w, line.String())
	}

	fmt.Fprintf(w, "Main entry: %d\n", program.MainEntry)
}
