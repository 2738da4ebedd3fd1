// Package vm provides a VirtualMachine that executes compiled bytecode.
package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/IsVohi/ByteCode-Compiler/bytecode"
	"github.com/IsVohi/ByteCode-Compiler/errz"
	"github.com/IsVohi/ByteCode-Compiler/object"
	"github.com/IsVohi/ByteCode-Compiler/op"
)

const (
	// MaxStackDepth bounds the value stack.
	MaxStackDepth = 256

	// MaxLocals bounds the contiguous local slot array shared by all
	// active frames.
	MaxLocals = 1024

	// MaxFrameDepth bounds the call stack.
	MaxFrameDepth = 256
)

// frame is the execution context of one function invocation.
type frame struct {
	// returnIP is the instruction index to resume at in the caller
	returnIP int

	// basePointer is the caller's base pointer into the locals array
	basePointer int

	// localCount is the caller's local slot count, restored on return
	localCount int

	// funcIndex identifies the called function, for diagnostics
	funcIndex int
}

// VirtualMachine executes a bytecode program on a single goroutine,
// synchronously. Run resets every local slot before executing, so runs
// started with Run see nothing of earlier ones; RunIncremental keeps the
// local slots left by earlier runs.
type VirtualMachine struct {
	program *bytecode.Program

	stack [MaxStackDepth]object.Object
	sp    int // index of the top of the stack; -1 when empty

	// locals is partitioned into per-frame windows by base pointers
	locals []object.Object

	frames [MaxFrameDepth]frame
	fp     int

	ip int // instruction index
	bp int // base pointer of the active frame

	// localCount is the slot count of the active function, used to
	// place the next frame directly after the current one
	localCount int

	output   io.Writer
	printed  []object.Object
	observer Observer
}

// Option is a configuration function for a VirtualMachine.
type Option func(*VirtualMachine)

// WithOutput sets the sink that print statements write to. The default
// is standard output.
func WithOutput(w io.Writer) Option {
	return func(vm *VirtualMachine) {
		vm.output = w
	}
}

// WithObserver sets an observer that receives a callback for every
// executed instruction. This enables profilers and tracers without
// modifying the dispatch loop.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}

// New creates a new VirtualMachine.
func New(options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		sp:     -1,
		output: os.Stdout,
		locals: make([]object.Object, MaxLocals),
	}
	for _, opt := range options {
		opt(vm)
	}
	return vm
}

// Run executes a program from its main entry until the outermost RETURN
// and returns the resulting value. All state is reset first.
func (vm *VirtualMachine) Run(program *bytecode.Program) (object.Object, error) {
	return vm.run(program, false)
}

// RunIncremental executes a program fragment while preserving the local
// slot array from previous runs. The value stack and call stack are
// cleared. This is the shell's execution mode: the compiler suppresses
// the main footer, so execution falls off the end of the code and the
// result is the top of the stack, or void when the stack is empty.
func (vm *VirtualMachine) RunIncremental(program *bytecode.Program) (object.Object, error) {
	return vm.run(program, true)
}

func (vm *VirtualMachine) run(program *bytecode.Program, keepState bool) (result object.Object, err error) {
	vm.program = program
	vm.sp = -1
	vm.fp = 0
	vm.printed = vm.printed[:0]
	if !keepState {
		for i := range vm.locals {
			vm.locals[i] = object.NewInt(0)
		}
	} else {
		for i := range vm.locals {
			if vm.locals[i] == nil {
				vm.locals[i] = object.NewInt(0)
			}
		}
	}
	vm.ip = int(program.MainEntry)
	vm.bp = 0
	vm.localCount = int(program.MainLocals)

	// Stack discipline violations inside the loop surface as panics;
	// translate them to errors so the host never sees a panic.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			if e, ok := r.(*errz.Error); ok {
				err = e
			} else {
				err = errz.New(errz.VM, "panic: %v", r)
			}
		}
	}()

	return vm.eval()
}

// Printed returns the values printed during the last run, in order. This
// parallels the output sink and exists for test introspection.
func (vm *VirtualMachine) Printed() []object.Object {
	return vm.printed
}

// eval runs the dispatch loop until the outermost RETURN or the end of
// the code.
func (vm *VirtualMachine) eval() (object.Object, error) {
	code := vm.program.Code
	for vm.ip < len(code) {
		instr := code[vm.ip]
		opcode := instr.Opcode
		operand := instr.Operand

		if vm.observer != nil {
			vm.observer.OnStep(StepEvent{
				IP:         vm.ip,
				Opcode:     opcode,
				StackDepth: vm.sp + 1,
				FrameDepth: vm.fp,
			})
		}

		switch opcode {
		case op.Const:
			if int(operand) >= len(vm.program.Constants) {
				return nil, errz.New(errz.VM, "invalid constant index %d", operand)
			}
			vm.push(vm.program.Constants[operand])
			vm.ip++

		case op.Load:
			slot := vm.bp + int(operand)
			if slot >= len(vm.locals) {
				return nil, errz.New(errz.VM, "invalid local variable index %d", operand)
			}
			vm.push(vm.locals[slot])
			vm.ip++

		case op.Store:
			value := vm.pop()
			slot := vm.bp + int(operand)
			if slot >= len(vm.locals) {
				return nil, errz.New(errz.VM, "invalid local variable index %d", operand)
			}
			vm.locals[slot] = value
			vm.ip++

		case op.Add:
			b := vm.pop()
			a := vm.pop()
			switch a := a.(type) {
			case *object.Int:
				b, ok := b.(*object.Int)
				if !ok {
					return nil, vm.typeError("+", a, b)
				}
				vm.push(object.NewInt(a.Value() + b.Value()))
			case *object.String:
				b, ok := b.(*object.String)
				if !ok {
					return nil, vm.typeError("+", a, b)
				}
				vm.push(object.NewString(a.Value() + b.Value()))
			default:
				return nil, vm.typeError("+", a, b)
			}
			vm.ip++

		case op.Sub, op.Mul, op.Div, op.Mod:
			b := vm.pop()
			a := vm.pop()
			result, err := vm.arith(opcode, a, b)
			if err != nil {
				return nil, err
			}
			vm.push(result)
			vm.ip++

		case op.Eq:
			b := vm.pop()
			a := vm.pop()
			vm.push(object.FromBool(a.Equals(b)))
			vm.ip++

		case op.Neq:
			b := vm.pop()
			a := vm.pop()
			vm.push(object.FromBool(!a.Equals(b)))
			vm.ip++

		case op.Lt, op.Lte, op.Gt, op.Gte:
			b := vm.pop()
			a := vm.pop()
			result, err := vm.compare(opcode, a, b)
			if err != nil {
				return nil, err
			}
			vm.push(result)
			vm.ip++

		case op.Jump:
			vm.ip = int(operand)

		case op.JumpIfZero:
			value := vm.pop()
			if i, ok := value.(*object.Int); ok && i.IsZero() {
				vm.ip = int(operand)
			} else {
				vm.ip++
			}

		case op.Call:
			if int(operand) >= len(vm.program.Functions) {
				return nil, errz.New(errz.VM, "invalid function index %d", operand)
			}
			if vm.fp >= MaxFrameDepth {
				return nil, errz.New(errz.VM, "call stack overflow")
			}
			fn := vm.program.Functions[operand]

			// The new frame starts directly after the caller's slots
			newBase := vm.bp + vm.localCount
			if newBase+int(fn.LocalCount) > len(vm.locals) {
				return nil, errz.New(errz.VM, "local slot space exhausted")
			}

			vm.frames[vm.fp] = frame{
				returnIP:    vm.ip + 1,
				basePointer: vm.bp,
				localCount:  vm.localCount,
				funcIndex:   int(operand),
			}
			vm.fp++

			// Pop arguments, rightmost first, into the new frame
			for i := int(fn.Arity) - 1; i >= 0; i-- {
				vm.locals[newBase+i] = vm.pop()
			}
			vm.bp = newBase
			vm.localCount = int(fn.LocalCount)
			vm.ip = int(fn.Entry)

		case op.Return:
			value := vm.pop()
			if vm.fp == 0 {
				// Returning from main: the program ends
				return value, nil
			}
			vm.fp--
			f := vm.frames[vm.fp]
			vm.ip = f.returnIP
			vm.bp = f.basePointer
			vm.localCount = f.localCount
			vm.push(value)

		case op.Print:
			value := vm.pop()
			fmt.Fprintln(vm.output, object.Render(value))
			vm.printed = append(vm.printed, value)
			vm.ip++

		case op.BuildArray:
			count := int(operand)
			items := make([]object.Object, count)
			// The rightmost element is on top of the stack
			for i := count - 1; i >= 0; i-- {
				items[i] = vm.pop()
			}
			vm.push(object.NewArray(items))
			vm.ip++

		case op.ArrayLoad:
			index := vm.pop()
			target := vm.pop()
			arr, ok := target.(*object.Array)
			if !ok {
				return nil, errz.New(errz.VM, "expected array for indexing (got %s)", target.Type())
			}
			idx, ok := index.(*object.Int)
			if !ok {
				return nil, errz.New(errz.VM, "array index must be an integer (got %s)", index.Type())
			}
			value, ok := arr.Get(int(idx.Value()))
			if !ok {
				return nil, errz.New(errz.VM, "array index %d out of bounds (length %d)",
					idx.Value(), arr.Len())
			}
			vm.push(value)
			vm.ip++

		case op.ArrayStore:
			value := vm.pop()
			index := vm.pop()
			target := vm.pop()
			arr, ok := target.(*object.Array)
			if !ok {
				return nil, errz.New(errz.VM, "expected array for assignment (got %s)", target.Type())
			}
			idx, ok := index.(*object.Int)
			if !ok {
				return nil, errz.New(errz.VM, "array index must be an integer (got %s)", index.Type())
			}
			if !arr.Set(int(idx.Value()), value) {
				return nil, errz.New(errz.VM, "array index %d out of bounds (length %d)",
					idx.Value(), arr.Len())
			}
			vm.ip++

		case op.Pop:
			vm.pop()
			vm.ip++

		default:
			return nil, errz.New(errz.VM, "unknown opcode: %d", opcode)
		}
	}

	// Execution fell off the end of the code (incremental mode): the
	// result is the top of the stack, or void
	if vm.sp >= 0 {
		return vm.pop(), nil
	}
	return object.Void, nil
}

// arith applies an integer arithmetic opcode. Division and modulo by
// zero abort execution.
func (vm *VirtualMachine) arith(opcode op.Code, a, b object.Object) (object.Object, error) {
	x, ok := a.(*object.Int)
	if !ok {
		return nil, vm.typeError(op.GetInfo(opcode).Name, a, b)
	}
	y, ok := b.(*object.Int)
	if !ok {
		return nil, vm.typeError(op.GetInfo(opcode).Name, a, b)
	}
	switch opcode {
	case op.Sub:
		return object.NewInt(x.Value() - y.Value()), nil
	case op.Mul:
		return object.NewInt(x.Value() * y.Value()), nil
	case op.Div:
		if y.IsZero() {
			return nil, errz.New(errz.VM, "division by zero")
		}
		return object.NewInt(x.Value() / y.Value()), nil
	case op.Mod:
		if y.IsZero() {
			return nil, errz.New(errz.VM, "modulo by zero")
		}
		return object.NewInt(x.Value() % y.Value()), nil
	}
	return nil, errz.New(errz.VM, "unknown arithmetic opcode: %d", opcode)
}

// compare applies a relational opcode. Both operands must be integers.
func (vm *VirtualMachine) compare(opcode op.Code, a, b object.Object) (object.Object, error) {
	x, ok := a.(*object.Int)
	if !ok {
		return nil, vm.typeError(op.GetInfo(opcode).Name, a, b)
	}
	y, ok := b.(*object.Int)
	if !ok {
		return nil, vm.typeError(op.GetInfo(opcode).Name, a, b)
	}
	switch opcode {
	case op.Lt:
		return object.FromBool(x.Value() < y.Value()), nil
	case op.Lte:
		return object.FromBool(x.Value() <= y.Value()), nil
	case op.Gt:
		return object.FromBool(x.Value() > y.Value()), nil
	case op.Gte:
		return object.FromBool(x.Value() >= y.Value()), nil
	}
	return nil, errz.New(errz.VM, "unknown comparison opcode: %d", opcode)
}

func (vm *VirtualMachine) typeError(operation string, a, b object.Object) error {
	return errz.New(errz.VM, "type mismatch for %s (%s and %s)",
		operation, a.Type(), b.Type())
}

func (vm *VirtualMachine) push(obj object.Object) {
	if vm.sp+1 >= MaxStackDepth {
		panic(errz.New(errz.VM, "stack overflow"))
	}
	vm.sp++
	vm.stack[vm.sp] = obj
}

func (vm *VirtualMachine) pop() object.Object {
	if vm.sp < 0 {
		panic(errz.New(errz.VM, "stack underflow"))
	}
	obj := vm.stack[vm.sp]
	vm.stack[vm.sp] = nil
	vm.sp--
	return obj
}
