// Package compiler lowers an abstract syntax tree into bytecode.
//
// # Two-Pass Strategy
//
// Lowering runs in two passes so that calls can refer to functions
// declared later in the source:
//
// Pass 1 scans top-level items and reserves a function table entry for
// every function declaration, in declaration order.
//
// Pass 2 emits each function body in declaration order, records the main
// entry index, emits the top-level statements, and finally appends a
// "CONST 0; RETURN" footer so main always terminates. In incremental
// mode the footer is suppressed so successive fragments concatenate.
//
// # Slots and Scopes
//
// Each function maintains a stack of scopes mapping names to slot
// indexes. Names resolve innermost-first; the first assignment to an
// undefined name allocates the next available slot, computed as the sum
// of the sizes of all active scopes. Sibling scopes therefore reuse
// slots, and the recorded local count is the peak slot usage across the
// function body. Slots are frame-relative: the VM adds the current base
// pointer to every LOAD/STORE operand.
package compiler

import (
	"github.com/IsVohi/ByteCode-Compiler/ast"
	"github.com/IsVohi/ByteCode-Compiler/bytecode"
	"github.com/IsVohi/ByteCode-Compiler/errz"
	"github.com/IsVohi/ByteCode-Compiler/object"
	"github.com/IsVohi/ByteCode-Compiler/op"
)

const (
	// MaxInstructions is the maximum number of instructions per program.
	MaxInstructions = 65535

	// MaxFunctions is the maximum number of functions per program.
	MaxFunctions = 256

	// MaxLocals is the maximum number of local slots per frame.
	MaxLocals = 1024

	// MaxConstants is the maximum size of the constant pool.
	MaxConstants = 65535

	// MaxArity is the maximum number of function parameters.
	MaxArity = 255
)

// loop tracks per-loop bookkeeping during lowering: the continue target
// and the pending break/continue jump sites awaiting patching.
type loop struct {
	// continueTarget is the instruction index continue jumps to, or -1
	// while it is not yet known (for loops patch it after the body).
	continueTarget int

	breakPos    []int
	continuePos []int
}

// Config holds compiler configuration options.
type Config struct {
	// Incremental preserves the function table, constant pool, and
	// symbol scopes across successive Compile calls and suppresses the
	// trailing "CONST 0; RETURN" footer. This is used by the
	// interactive shell.
	Incremental bool
}

// Compiler lowers AST nodes into a bytecode program.
type Compiler struct {
	program     *bytecode.Program
	functionMap map[string]uint16

	// Scope state for the code currently being emitted. At the top
	// level this holds the global scope; inside a function it is
	// replaced by the function's own scope stack.
	scopes    []map[string]uint16
	slotCount int
	maxSlots  int

	loops []*loop

	incremental bool
	compiled    bool

	// failure records errors from paths that cannot easily propagate,
	// such as constant pool overflow; checked when Compile returns.
	failure error
}

// Compile lowers the given program in one shot and returns the bytecode.
func Compile(program *ast.Program) (*bytecode.Program, error) {
	return New(nil).Compile(program)
}

// New creates a Compiler. Pass nil for cfg to use defaults.
func New(cfg *Config) *Compiler {
	c := &Compiler{
		program:     &bytecode.Program{},
		functionMap: map[string]uint16{},
		scopes:      []map[string]uint16{{}},
	}
	if cfg != nil {
		c.incremental = cfg.Incremental
	}
	return c
}

// Compile lowers the given program. In incremental mode the call appends
// to previously compiled code and the returned program's MainEntry
// points at the new fragment's first top-level instruction; otherwise a
// Compiler compiles exactly once.
func (c *Compiler) Compile(program *ast.Program) (*bytecode.Program, error) {
	if c.compiled && !c.incremental {
		return nil, errz.New(errz.Codegen, "compiler already used")
	}
	c.compiled = true
	c.loops = c.loops[:0]

	// First pass: register all functions so forward calls resolve
	for _, item := range program.Items {
		fn, ok := item.(*ast.Func)
		if !ok {
			continue
		}
		if err := c.declareFunction(fn); err != nil {
			return nil, err
		}
	}

	// Emit function bodies in declaration order
	for _, item := range program.Items {
		if fn, ok := item.(*ast.Func); ok {
			if err := c.compileFunction(fn); err != nil {
				return nil, err
			}
		}
	}

	// Top-level statements begin at the main entry point
	c.program.MainEntry = uint16(c.currentPosition())
	for _, item := range program.Items {
		if _, ok := item.(*ast.Func); ok {
			continue
		}
		if err := c.compileStatement(item); err != nil {
			return nil, err
		}
	}

	// Guarantee that main terminates with a value. The shell suppresses
	// this footer so fragments concatenate.
	if !c.incremental {
		if err := c.emit(program, op.Const, c.constant(object.NewInt(0))); err != nil {
			return nil, err
		}
		if err := c.emit(program, op.Return, 0); err != nil {
			return nil, err
		}
	}

	if c.failure != nil {
		return nil, c.failure
	}
	c.program.MainLocals = uint16(c.maxSlots)
	return c.program, nil
}

// Program returns the bytecode accumulated so far. This is used by the
// shell to inspect state between fragments.
func (c *Compiler) Program() *bytecode.Program {
	return c.program
}

func (c *Compiler) declareFunction(fn *ast.Func) error {
	name := fn.Name.Name
	if _, exists := c.functionMap[name]; exists {
		return c.nodeError(fn, "function %q redefined", name)
	}
	if len(c.program.Functions) >= MaxFunctions {
		return c.nodeError(fn, "function limit of %d exceeded", MaxFunctions)
	}
	if len(fn.Params) > MaxArity {
		return c.nodeError(fn, "function %q exceeds parameter limit of %d", name, MaxArity)
	}
	c.functionMap[name] = uint16(len(c.program.Functions))
	c.program.Functions = append(c.program.Functions, bytecode.FunctionInfo{
		Name:  name,
		Arity: uint8(len(fn.Params)),
	})
	return nil
}

func (c *Compiler) compileFunction(fn *ast.Func) error {
	// Swap in a fresh scope stack for the function body; the enclosing
	// state is restored afterwards. Functions see only their parameters
	// and locals, never the enclosing scope.
	savedScopes, savedSlots, savedMax := c.scopes, c.slotCount, c.maxSlots
	savedLoops := c.loops
	c.scopes = []map[string]uint16{{}}
	c.slotCount = 0
	c.maxSlots = 0
	c.loops = nil
	defer func() {
		c.scopes, c.slotCount, c.maxSlots = savedScopes, savedSlots, savedMax
		c.loops = savedLoops
	}()

	idx := c.functionMap[fn.Name.Name]
	c.program.Functions[idx].Entry = uint16(c.currentPosition())

	for _, param := range fn.Params {
		if _, err := c.define(param); err != nil {
			return err
		}
	}
	for _, stmt := range fn.Body.Stmts {
		if err := c.compileStatement(stmt); err != nil {
			return err
		}
	}

	// Implicit "return 0" in case the body falls off the end
	if err := c.emit(fn, op.Const, c.constant(object.NewInt(0))); err != nil {
		return err
	}
	if err := c.emit(fn, op.Return, 0); err != nil {
		return err
	}

	if c.maxSlots > 255 {
		return c.nodeError(fn, "function %q exceeds local variable limit", fn.Name.Name)
	}
	c.program.Functions[idx].LocalCount = uint8(c.maxSlots)
	return nil
}

func (c *Compiler) compileStatement(node ast.Node) error {
	switch node := node.(type) {
	case *ast.Var:
		return c.compileAssignTo(node, node.Name, node.Value)
	case *ast.Assign:
		return c.compileAssignTo(node, node.Name, node.Value)
	case *ast.SetIndex:
		return c.compileSetIndex(node)
	case *ast.Print:
		if err := c.compileExpression(node.Value); err != nil {
			return err
		}
		return c.emit(node, op.Print, 0)
	case *ast.If:
		return c.compileIf(node)
	case *ast.While:
		return c.compileWhile(node)
	case *ast.For:
		return c.compileFor(node)
	case *ast.Break:
		return c.compileBreak(node)
	case *ast.Continue:
		return c.compileContinue(node)
	case *ast.Return:
		return c.compileReturn(node)
	case *ast.Block:
		return c.compileBlock(node)
	case ast.Expr:
		// Expression statement: evaluate and discard the result
		if err := c.compileExpression(node); err != nil {
			return err
		}
		return c.emit(node, op.Pop, 0)
	default:
		return c.nodeError(node, "cannot compile node of type %T", node)
	}
}

func (c *Compiler) compileAssignTo(node ast.Node, name *ast.Ident, value ast.Expr) error {
	if err := c.compileExpression(value); err != nil {
		return err
	}
	slot, err := c.define(name)
	if err != nil {
		return err
	}
	return c.emit(node, op.Store, slot)
}

func (c *Compiler) compileSetIndex(node *ast.SetIndex) error {
	if err := c.compileExpression(node.Target); err != nil {
		return err
	}
	if err := c.compileExpression(node.Index); err != nil {
		return err
	}
	if err := c.compileExpression(node.Value); err != nil {
		return err
	}
	return c.emit(node, op.ArrayStore, 0)
}

func (c *Compiler) compileIf(node *ast.If) error {
	if err := c.compileExpression(node.Cond); err != nil {
		return err
	}
	jumpToEnd, err := c.emitJump(node, op.JumpIfZero)
	if err != nil {
		return err
	}
	if err := c.compileBlock(node.Body); err != nil {
		return err
	}
	c.patchJump(jumpToEnd, c.currentPosition())
	return nil
}

func (c *Compiler) compileWhile(node *ast.While) error {
	loopStart := c.currentPosition()

	// The continue target of a while loop is known up front
	l := &loop{continueTarget: loopStart}
	c.loops = append(c.loops, l)

	if err := c.compileExpression(node.Cond); err != nil {
		return err
	}
	jumpToEnd, err := c.emitJump(node, op.JumpIfZero)
	if err != nil {
		return err
	}
	if err := c.compileBlock(node.Body); err != nil {
		return err
	}
	if err := c.emit(node, op.Jump, uint16(loopStart)); err != nil {
		return err
	}

	endIP := c.currentPosition()
	c.patchJump(jumpToEnd, endIP)
	for _, pos := range l.breakPos {
		c.patchJump(pos, endIP)
	}
	c.loops = c.loops[:len(c.loops)-1]
	return nil
}

func (c *Compiler) compileFor(node *ast.For) error {
	// The init clause gets its own scope so the loop variable does not
	// leak into the enclosing scope
	c.enterScope()
	defer c.leaveScope()

	if node.Init != nil {
		if err := c.compileClause(node.Init); err != nil {
			return err
		}
	}

	startIP := c.currentPosition()
	l := &loop{continueTarget: -1}
	c.loops = append(c.loops, l)

	jumpToEnd := -1
	if node.Cond != nil {
		if err := c.compileExpression(node.Cond); err != nil {
			return err
		}
		var err error
		jumpToEnd, err = c.emitJump(node, op.JumpIfZero)
		if err != nil {
			return err
		}
	}

	if err := c.compileBlock(node.Body); err != nil {
		return err
	}

	// Continue jumps land at the step clause
	l.continueTarget = c.currentPosition()
	if node.Step != nil {
		if err := c.compileClause(node.Step); err != nil {
			return err
		}
	}
	if err := c.emit(node, op.Jump, uint16(startIP)); err != nil {
		return err
	}

	endIP := c.currentPosition()
	if jumpToEnd != -1 {
		c.patchJump(jumpToEnd, endIP)
	}
	for _, pos := range l.breakPos {
		c.patchJump(pos, endIP)
	}
	for _, pos := range l.continuePos {
		c.patchJump(pos, l.continueTarget)
	}
	c.loops = c.loops[:len(c.loops)-1]
	return nil
}

// compileClause compiles a for-loop init or step clause, which may be a
// statement or a bare expression whose result is discarded.
func (c *Compiler) compileClause(node ast.Node) error {
	return c.compileStatement(node)
}

func (c *Compiler) compileBreak(node *ast.Break) error {
	if len(c.loops) == 0 {
		return c.nodeError(node, "break statement outside of loop")
	}
	l := c.loops[len(c.loops)-1]
	pos, err := c.emitJump(node, op.Jump)
	if err != nil {
		return err
	}
	l.breakPos = append(l.breakPos, pos)
	return nil
}

func (c *Compiler) compileContinue(node *ast.Continue) error {
	if len(c.loops) == 0 {
		return c.nodeError(node, "continue statement outside of loop")
	}
	l := c.loops[len(c.loops)-1]
	if l.continueTarget != -1 {
		return c.emit(node, op.Jump, uint16(l.continueTarget))
	}
	pos, err := c.emitJump(node, op.Jump)
	if err != nil {
		return err
	}
	l.continuePos = append(l.continuePos, pos)
	return nil
}

func (c *Compiler) compileReturn(node *ast.Return) error {
	if node.Value == nil {
		if err := c.emit(node, op.Const, c.constant(object.NewInt(0))); err != nil {
			return err
		}
	} else {
		if err := c.compileExpression(node.Value); err != nil {
			return err
		}
	}
	return c.emit(node, op.Return, 0)
}

func (c *Compiler) compileBlock(node *ast.Block) error {
	c.enterScope()
	defer c.leaveScope()
	for _, stmt := range node.Stmts {
		if err := c.compileStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileExpression(node ast.Expr) error {
	switch node := node.(type) {
	case *ast.Int:
		return c.emit(node, op.Const, c.constant(object.NewInt(node.Value)))
	case *ast.String:
		return c.emit(node, op.Const, c.constant(object.NewString(node.Value)))
	case *ast.Ident:
		slot, ok := c.resolve(node.Name)
		if !ok {
			return c.nodeError(node, "undefined variable %q", node.Name)
		}
		return c.emit(node, op.Load, slot)
	case *ast.Prefix:
		return c.compilePrefix(node)
	case *ast.Infix:
		return c.compileInfix(node)
	case *ast.Call:
		return c.compileCall(node)
	case *ast.Array:
		return c.compileArray(node)
	case *ast.Index:
		if err := c.compileExpression(node.Target); err != nil {
			return err
		}
		if err := c.compileExpression(node.Index); err != nil {
			return err
		}
		return c.emit(node, op.ArrayLoad, 0)
	default:
		return c.nodeError(node, "cannot compile expression of type %T", node)
	}
}

func (c *Compiler) compilePrefix(node *ast.Prefix) error {
	switch node.Op {
	case "-":
		// 0 - operand
		if err := c.emit(node, op.Const, c.constant(object.NewInt(0))); err != nil {
			return err
		}
		if err := c.compileExpression(node.X); err != nil {
			return err
		}
		return c.emit(node, op.Sub, 0)
	case "!":
		// A conditional producing 1 when the operand is integer zero,
		// else 0
		if err := c.compileExpression(node.X); err != nil {
			return err
		}
		jumpTrue, err := c.emitJump(node, op.JumpIfZero)
		if err != nil {
			return err
		}
		if err := c.emit(node, op.Const, c.constant(object.NewInt(0))); err != nil {
			return err
		}
		jumpEnd, err := c.emitJump(node, op.Jump)
		if err != nil {
			return err
		}
		c.patchJump(jumpTrue, c.currentPosition())
		if err := c.emit(node, op.Const, c.constant(object.NewInt(1))); err != nil {
			return err
		}
		c.patchJump(jumpEnd, c.currentPosition())
		return nil
	default:
		return c.nodeError(node, "unknown prefix operator %q", node.Op)
	}
}

func (c *Compiler) compileInfix(node *ast.Infix) error {
	// Short-circuit operators lower to conditional jumps
	if node.Op == "&&" {
		return c.compileAnd(node)
	}
	if node.Op == "||" {
		return c.compileOr(node)
	}
	if err := c.compileExpression(node.X); err != nil {
		return err
	}
	if err := c.compileExpression(node.Y); err != nil {
		return err
	}
	switch node.Op {
	case "+":
		return c.emit(node, op.Add, 0)
	case "-":
		return c.emit(node, op.Sub, 0)
	case "*":
		return c.emit(node, op.Mul, 0)
	case "/":
		return c.emit(node, op.Div, 0)
	case "%":
		return c.emit(node, op.Mod, 0)
	case "==":
		return c.emit(node, op.Eq, 0)
	case "!=":
		return c.emit(node, op.Neq, 0)
	case "<":
		return c.emit(node, op.Lt, 0)
	case "<=":
		return c.emit(node, op.Lte, 0)
	case ">":
		return c.emit(node, op.Gt, 0)
	case ">=":
		return c.emit(node, op.Gte, 0)
	default:
		return c.nodeError(node, "unknown operator %q", node.Op)
	}
}

// compileAnd lowers "&&" with short-circuit evaluation: the right side
// is not evaluated when the left side is zero, and the result is the
// canonical integer 0 or 1.
func (c *Compiler) compileAnd(node *ast.Infix) error {
	if err := c.compileExpression(node.X); err != nil {
		return err
	}
	jumpFalse1, err := c.emitJump(node, op.JumpIfZero)
	if err != nil {
		return err
	}
	if err := c.compileExpression(node.Y); err != nil {
		return err
	}
	jumpFalse2, err := c.emitJump(node, op.JumpIfZero)
	if err != nil {
		return err
	}
	if err := c.emit(node, op.Const, c.constant(object.NewInt(1))); err != nil {
		return err
	}
	jumpEnd, err := c.emitJump(node, op.Jump)
	if err != nil {
		return err
	}
	c.patchJump(jumpFalse1, c.currentPosition())
	c.patchJump(jumpFalse2, c.currentPosition())
	if err := c.emit(node, op.Const, c.constant(object.NewInt(0))); err != nil {
		return err
	}
	c.patchJump(jumpEnd, c.currentPosition())
	return nil
}

// compileOr lowers "||" with short-circuit evaluation and a canonical
// 0/1 result.
func (c *Compiler) compileOr(node *ast.Infix) error {
	if err := c.compileExpression(node.X); err != nil {
		return err
	}
	jumpRight, err := c.emitJump(node, op.JumpIfZero)
	if err != nil {
		return err
	}
	if err := c.emit(node, op.Const, c.constant(object.NewInt(1))); err != nil {
		return err
	}
	jumpEnd1, err := c.emitJump(node, op.Jump)
	if err != nil {
		return err
	}
	c.patchJump(jumpRight, c.currentPosition())
	if err := c.compileExpression(node.Y); err != nil {
		return err
	}
	jumpFalse, err := c.emitJump(node, op.JumpIfZero)
	if err != nil {
		return err
	}
	if err := c.emit(node, op.Const, c.constant(object.NewInt(1))); err != nil {
		return err
	}
	jumpEnd2, err := c.emitJump(node, op.Jump)
	if err != nil {
		return err
	}
	c.patchJump(jumpFalse, c.currentPosition())
	if err := c.emit(node, op.Const, c.constant(object.NewInt(0))); err != nil {
		return err
	}
	end := c.currentPosition()
	c.patchJump(jumpEnd1, end)
	c.patchJump(jumpEnd2, end)
	return nil
}

func (c *Compiler) compileCall(node *ast.Call) error {
	idx, ok := c.functionMap[node.Name]
	if !ok {
		return c.nodeError(node, "undefined function %q", node.Name)
	}
	fn := c.program.Functions[idx]
	if len(node.Args) != int(fn.Arity) {
		return c.nodeError(node, "function %q takes %d argument(s) (%d given)",
			node.Name, fn.Arity, len(node.Args))
	}
	// Arguments are pushed left to right, so the rightmost is on top
	for _, arg := range node.Args {
		if err := c.compileExpression(arg); err != nil {
			return err
		}
	}
	return c.emit(node, op.Call, idx)
}

func (c *Compiler) compileArray(node *ast.Array) error {
	if len(node.Elements) > MaxConstants {
		return c.nodeError(node, "array literal has too many elements")
	}
	for _, element := range node.Elements {
		if err := c.compileExpression(element); err != nil {
			return err
		}
	}
	return c.emit(node, op.BuildArray, uint16(len(node.Elements)))
}

func (c *Compiler) currentPosition() int {
	return len(c.program.Code)
}

// emit appends an instruction and returns an error when the instruction
// limit is exceeded. The node provides the error position.
func (c *Compiler) emit(node ast.Node, opcode op.Code, operand uint16) error {
	if len(c.program.Code) >= MaxInstructions {
		return c.nodeError(node, "instruction limit of %d exceeded", MaxInstructions)
	}
	c.program.Code = append(c.program.Code, bytecode.Instruction{
		Opcode:  opcode,
		Operand: operand,
	})
	return nil
}

// emitJump emits a jump instruction with a placeholder operand and
// returns its index for later patching.
func (c *Compiler) emitJump(node ast.Node, opcode op.Code) (int, error) {
	pos := c.currentPosition()
	if err := c.emit(node, opcode, 0); err != nil {
		return 0, err
	}
	return pos, nil
}

// patchJump overwrites the operand of a previously emitted jump with the
// target instruction index. Targets are always in range because the
// instruction count is bounded by MaxInstructions.
func (c *Compiler) patchJump(pos, target int) {
	c.program.Code[pos].Operand = uint16(target)
}

// constant returns the pool index for a value, reusing an existing entry
// when a structurally equal one is already present. Overflowing the pool
// records a failure that surfaces when Compile returns.
func (c *Compiler) constant(obj object.Object) uint16 {
	for i, existing := range c.program.Constants {
		if existing.Equals(obj) {
			return uint16(i)
		}
	}
	if len(c.program.Constants) >= MaxConstants {
		c.failure = errz.New(errz.Codegen, "constant pool limit of %d exceeded", MaxConstants)
		return 0
	}
	c.program.Constants = append(c.program.Constants, obj)
	return uint16(len(c.program.Constants) - 1)
}

func (c *Compiler) nodeError(node ast.Node, format string, args ...interface{}) error {
	tok := node.Token()
	return errz.NewAt(errz.Codegen, tok.Line, tok.Column, format, args...)
}
