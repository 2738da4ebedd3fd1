// Package ast defines the abstract syntax tree representation of parsed
// source code. Nodes are plain structs with exported fields, grouped into
// expressions and statements, and consumers traverse them with exhaustive
// type switches.
package ast

import (
	"strings"

	"github.com/IsVohi/ByteCode-Compiler/internal/token"
)

// Node represents a portion of the syntax tree. All nodes retain one
// token for error reporting: usually the first token belonging to them,
// but the operator for infix expressions and the "[" for index
// expressions and element assignments.
type Node interface {
	// Token returns the token the node retains for error reporting.
	Token() token.Token

	// String returns a human friendly representation of the node. This is
	// similar to the original source code, but not necessarily identical.
	String() string
}

// Stmt represents a statement node. Statements cause side effects but do
// not evaluate to a value.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node. Expressions evaluate to a value and
// may be embedded within other expressions. An expression in statement
// position is an expression statement: its value is discarded.
type Expr interface {
	Node
	exprNode()
}

// Program is the root of the syntax tree. Items are either function
// declarations or statements, in source order.
type Program struct {
	Items []Node
}

func (p *Program) Token() token.Token {
	if len(p.Items) > 0 {
		return p.Items[0].Token()
	}
	return token.Token{}
}

func (p *Program) String() string {
	var out strings.Builder
	for i, item := range p.Items {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(item.String())
	}
	return out.String()
}
