// Package optimizer implements an AST-rewriting optimization pass that
// runs between parsing and lowering. It folds constant expressions and
// removes statically unreachable statements, rewriting nodes in place
// and reporting what it did through Stats.
//
// Folding respects execution semantics: division and modulo by zero are
// left in place so the runtime error is preserved, and the short-circuit
// operators are only folded when the skipped operand could never have
// been evaluated.
package optimizer

import (
	"github.com/IsVohi/ByteCode-Compiler/ast"
)

// Stats reports what an optimization run changed.
type Stats struct {
	// ConstantsFolded is the number of expressions replaced by their
	// constant value.
	ConstantsFolded int

	// DeadCodeRemoved is the number of statements removed because they
	// could never execute.
	DeadCodeRemoved int
}

// Optimizer rewrites a program AST.
type Optimizer struct {
	stats Stats
}

// New returns a new Optimizer.
func New() *Optimizer {
	return &Optimizer{}
}

// Run optimizes the program in place.
func (o *Optimizer) Run(program *ast.Program) error {
	program.Items = o.optimizeStmts(program.Items)
	return nil
}

// Stats returns the statistics collected by Run.
func (o *Optimizer) Stats() Stats {
	return o.stats
}

// optimizeStmts optimizes a statement list, dropping statements that can
// never execute.
func (o *Optimizer) optimizeStmts(stmts []ast.Node) []ast.Node {
	var out []ast.Node
	for i, stmt := range stmts {
		optimized, keep := o.optimizeStmt(stmt)
		if keep {
			out = append(out, optimized)
		}
		// Nothing after a return statement is reachable
		if _, ok := stmt.(*ast.Return); ok && i < len(stmts)-1 {
			o.stats.DeadCodeRemoved += len(stmts) - i - 1
			break
		}
	}
	return out
}

// optimizeStmt optimizes one statement. The bool result is false when
// the statement should be removed entirely.
func (o *Optimizer) optimizeStmt(node ast.Node) (ast.Node, bool) {
	switch node := node.(type) {
	case *ast.Func:
		node.Body.Stmts = o.optimizeStmts(node.Body.Stmts)
		return node, true
	case *ast.Var:
		node.Value = o.foldExpr(node.Value)
		return node, true
	case *ast.Assign:
		node.Value = o.foldExpr(node.Value)
		return node, true
	case *ast.SetIndex:
		node.Target = o.foldExpr(node.Target)
		node.Index = o.foldExpr(node.Index)
		node.Value = o.foldExpr(node.Value)
		return node, true
	case *ast.Print:
		node.Value = o.foldExpr(node.Value)
		return node, true
	case *ast.If:
		node.Cond = o.foldExpr(node.Cond)
		if value, ok := constInt(node.Cond); ok {
			if value == 0 {
				// The body can never execute
				o.stats.DeadCodeRemoved++
				return nil, false
			}
			// The branch is always taken: keep the body block
			node.Body.Stmts = o.optimizeStmts(node.Body.Stmts)
			o.stats.DeadCodeRemoved++
			return node.Body, true
		}
		node.Body.Stmts = o.optimizeStmts(node.Body.Stmts)
		return node, true
	case *ast.While:
		node.Cond = o.foldExpr(node.Cond)
		if value, ok := constInt(node.Cond); ok && value == 0 {
			o.stats.DeadCodeRemoved++
			return nil, false
		}
		node.Body.Stmts = o.optimizeStmts(node.Body.Stmts)
		return node, true
	case *ast.For:
		if node.Init != nil {
			node.Init, _ = o.optimizeStmt(node.Init)
		}
		if node.Cond != nil {
			node.Cond = o.foldExpr(node.Cond)
		}
		if node.Step != nil {
			node.Step, _ = o.optimizeStmt(node.Step)
		}
		node.Body.Stmts = o.optimizeStmts(node.Body.Stmts)
		return node, true
	case *ast.Return:
		if node.Value != nil {
			node.Value = o.foldExpr(node.Value)
		}
		return node, true
	case *ast.Block:
		node.Stmts = o.optimizeStmts(node.Stmts)
		return node, true
	case ast.Expr:
		return o.foldExpr(node), true
	default:
		return node, true
	}
}

// foldExpr folds an expression bottom-up, returning the replacement.
func (o *Optimizer) foldExpr(expr ast.Expr) ast.Expr {
	switch expr := expr.(type) {
	case *ast.Prefix:
		expr.X = o.foldExpr(expr.X)
		if value, ok := constInt(expr.X); ok {
			switch expr.Op {
			case "-":
				o.stats.ConstantsFolded++
				return &ast.Int{Tok: expr.Tok, Value: -value}
			case "!":
				o.stats.ConstantsFolded++
				return &ast.Int{Tok: expr.Tok, Value: boolInt(value == 0)}
			}
		}
		return expr
	case *ast.Infix:
		expr.X = o.foldExpr(expr.X)
		expr.Y = o.foldExpr(expr.Y)
		return o.foldInfix(expr)
	case *ast.Call:
		for i, arg := range expr.Args {
			expr.Args[i] = o.foldExpr(arg)
		}
		return expr
	case *ast.Array:
		for i, element := range expr.Elements {
			expr.Elements[i] = o.foldExpr(element)
		}
		return expr
	case *ast.Index:
		expr.Target = o.foldExpr(expr.Target)
		expr.Index = o.foldExpr(expr.Index)
		return expr
	default:
		return expr
	}
}

func (o *Optimizer) foldInfix(expr *ast.Infix) ast.Expr {
	// String concatenation of two literals
	if expr.Op == "+" {
		if x, ok := expr.X.(*ast.String); ok {
			if y, ok := expr.Y.(*ast.String); ok {
				o.stats.ConstantsFolded++
				return &ast.String{Tok: expr.Tok, Value: x.Value + y.Value}
			}
		}
	}

	x, xConst := constInt(expr.X)
	y, yConst := constInt(expr.Y)

	// Short-circuit operators: when the left side decides the result,
	// the right side would never have been evaluated, so it is safe to
	// drop even if it has side effects.
	switch expr.Op {
	case "&&":
		if xConst && x == 0 {
			o.stats.ConstantsFolded++
			return &ast.Int{Tok: expr.Tok, Value: 0}
		}
		if xConst && yConst {
			o.stats.ConstantsFolded++
			return &ast.Int{Tok: expr.Tok, Value: boolInt(x != 0 && y != 0)}
		}
		return expr
	case "||":
		if xConst && x != 0 {
			o.stats.ConstantsFolded++
			return &ast.Int{Tok: expr.Tok, Value: 1}
		}
		if xConst && yConst {
			o.stats.ConstantsFolded++
			return &ast.Int{Tok: expr.Tok, Value: boolInt(x != 0 || y != 0)}
		}
		return expr
	}

	if !xConst || !yConst {
		return expr
	}

	var value int32
	switch expr.Op {
	case "+":
		value = x + y
	case "-":
		value = x - y
	case "*":
		value = x * y
	case "/":
		// Preserve the runtime error
		if y == 0 {
			return expr
		}
		value = x / y
	case "%":
		if y == 0 {
			return expr
		}
		value = x % y
	case "==":
		value = boolInt(x == y)
	case "!=":
		value = boolInt(x != y)
	case "<":
		value = boolInt(x < y)
	case "<=":
		value = boolInt(x <= y)
	case ">":
		value = boolInt(x > y)
	case ">=":
		value = boolInt(x >= y)
	default:
		return expr
	}
	o.stats.ConstantsFolded++
	return &ast.Int{Tok: expr.Tok, Value: value}
}

func constInt(expr ast.Expr) (int32, bool) {
	if i, ok := expr.(*ast.Int); ok {
		return i.Value, true
	}
	return 0, false
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
