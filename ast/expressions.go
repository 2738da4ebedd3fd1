package ast

import (
	"strconv"
	"strings"

	"github.com/IsVohi/ByteCode-Compiler/internal/token"
)

// Int is an integer literal expression.
type Int struct {
	Tok   token.Token
	Value int32
}

func (x *Int) exprNode() {}

func (x *Int) Token() token.Token { return x.Tok }

func (x *Int) String() string { return strconv.FormatInt(int64(x.Value), 10) }

// String is a string literal expression. Value holds the unescaped text.
type String struct {
	Tok   token.Token
	Value string
}

func (x *String) exprNode() {}

func (x *String) Token() token.Token { return x.Tok }

func (x *String) String() string { return strconv.Quote(x.Value) }

// Ident is an expression node that refers to a variable by name.
type Ident struct {
	Tok  token.Token
	Name string
}

func (x *Ident) exprNode() {}

func (x *Ident) Token() token.Token { return x.Tok }

func (x *Ident) String() string { return x.Name }

// Prefix is an operator expression where the operator precedes the
// operand, as in "-x" and "!ok".
type Prefix struct {
	Tok token.Token
	Op  string
	X   Expr
}

func (x *Prefix) exprNode() {}

func (x *Prefix) Token() token.Token { return x.Tok }

func (x *Prefix) String() string {
	return "(" + x.Op + x.X.String() + ")"
}

// Infix is an operator expression where the operator is between the
// operands, as in "x + y" and "5 < 1".
type Infix struct {
	Tok token.Token
	X   Expr
	Op  string
	Y   Expr
}

func (x *Infix) exprNode() {}

func (x *Infix) Token() token.Token { return x.Tok }

func (x *Infix) String() string {
	return "(" + x.X.String() + " " + x.Op + " " + x.Y.String() + ")"
}

// Call is a function call expression. Functions are first-order and are
// referred to by name only.
type Call struct {
	Tok  token.Token
	Name string
	Args []Expr
}

func (x *Call) exprNode() {}

func (x *Call) Token() token.Token { return x.Tok }

func (x *Call) String() string {
	args := make([]string, 0, len(x.Args))
	for _, a := range x.Args {
		args = append(args, a.String())
	}
	return x.Name + "(" + strings.Join(args, ", ") + ")"
}

// Array is an array literal expression, as in "[1, 2, 3]".
type Array struct {
	Tok      token.Token
	Elements []Expr
}

func (x *Array) exprNode() {}

func (x *Array) Token() token.Token { return x.Tok }

func (x *Array) String() string {
	elems := make([]string, 0, len(x.Elements))
	for _, e := range x.Elements {
		elems = append(elems, e.String())
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

// Index is an array indexing expression, as in "arr[i]".
type Index struct {
	Tok    token.Token
	Target Expr
	Index  Expr
}

func (x *Index) exprNode() {}

func (x *Index) Token() token.Token { return x.Tok }

func (x *Index) String() string {
	return x.Target.String() + "[" + x.Index.String() + "]"
}
