package ast

import (
	"strings"

	"github.com/IsVohi/ByteCode-Compiler/internal/token"
)

// Var is a statement that declares a variable with an initial value, as
// in "let x = 1". Declaration and assignment share a bytecode encoding:
// the first write to a name defines its slot.
type Var struct {
	Tok   token.Token
	Name  *Ident
	Value Expr
}

func (s *Var) stmtNode() {}

func (s *Var) Token() token.Token { return s.Tok }

func (s *Var) String() string {
	return "let " + s.Name.String() + " = " + s.Value.String() + ";"
}

// Assign is an assignment to an existing or new variable, as in "x = 1".
type Assign struct {
	Tok   token.Token
	Name  *Ident
	Value Expr
}

func (s *Assign) stmtNode() {}

func (s *Assign) Token() token.Token { return s.Tok }

func (s *Assign) String() string {
	return s.Name.String() + " = " + s.Value.String() + ";"
}

// SetIndex is an assignment to an array element, as in "arr[i] = v".
// It mutates the array in place, affecting all aliases.
type SetIndex struct {
	Tok    token.Token
	Target Expr
	Index  Expr
	Value  Expr
}

func (s *SetIndex) stmtNode() {}

func (s *SetIndex) Token() token.Token { return s.Tok }

func (s *SetIndex) String() string {
	return s.Target.String() + "[" + s.Index.String() + "] = " + s.Value.String() + ";"
}

// Print is a print statement, as in "print(x)". The printed value is
// followed by a newline.
type Print struct {
	Tok   token.Token
	Value Expr
}

func (s *Print) stmtNode() {}

func (s *Print) Token() token.Token { return s.Tok }

func (s *Print) String() string {
	return "print(" + s.Value.String() + ");"
}

// If is a conditional statement. The language has no else branch.
type If struct {
	Tok  token.Token
	Cond Expr
	Body *Block
}

func (s *If) stmtNode() {}

func (s *If) Token() token.Token { return s.Tok }

func (s *If) String() string {
	return "if (" + s.Cond.String() + ") " + s.Body.String()
}

// While is a while loop statement.
type While struct {
	Tok  token.Token
	Cond Expr
	Body *Block
}

func (s *While) stmtNode() {}

func (s *While) Token() token.Token { return s.Tok }

func (s *While) String() string {
	return "while (" + s.Cond.String() + ") " + s.Body.String()
}

// For is a C-style for loop. Init, Cond, and Step are each optional.
// Init may be a Var, an Assign, a SetIndex, or an expression statement;
// Step may be an Assign, a SetIndex, or an expression statement.
type For struct {
	Tok  token.Token
	Init Node // Stmt or Expr; nil if absent
	Cond Expr // nil if absent
	Step Node // Stmt or Expr; nil if absent
	Body *Block
}

func (s *For) stmtNode() {}

func (s *For) Token() token.Token { return s.Tok }

func (s *For) String() string {
	var out strings.Builder
	out.WriteString("for (")
	if s.Init != nil {
		out.WriteString(strings.TrimSuffix(s.Init.String(), ";"))
	}
	out.WriteString("; ")
	if s.Cond != nil {
		out.WriteString(s.Cond.String())
	}
	out.WriteString("; ")
	if s.Step != nil {
		out.WriteString(strings.TrimSuffix(s.Step.String(), ";"))
	}
	out.WriteString(") ")
	out.WriteString(s.Body.String())
	return out.String()
}

// Break is a break statement. Valid only inside a loop body.
type Break struct {
	Tok token.Token
}

func (s *Break) stmtNode() {}

func (s *Break) Token() token.Token { return s.Tok }

func (s *Break) String() string { return "break;" }

// Continue is a continue statement. Valid only inside a loop body.
type Continue struct {
	Tok token.Token
}

func (s *Continue) stmtNode() {}

func (s *Continue) Token() token.Token { return s.Tok }

func (s *Continue) String() string { return "continue;" }

// Return is a return statement with an optional value. A bare "return;"
// yields the integer 0.
type Return struct {
	Tok   token.Token
	Value Expr // nil if absent
}

func (s *Return) stmtNode() {}

func (s *Return) Token() token.Token { return s.Tok }

func (s *Return) String() string {
	if s.Value == nil {
		return "return;"
	}
	return "return " + s.Value.String() + ";"
}

// Block is a braced sequence of statements. A block opens a new variable
// scope; slots of sibling blocks are reused.
type Block struct {
	Tok   token.Token
	Stmts []Node
}

func (s *Block) stmtNode() {}

func (s *Block) Token() token.Token { return s.Tok }

func (s *Block) String() string {
	var out strings.Builder
	out.WriteString("{ ")
	for i, stmt := range s.Stmts {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(stmtString(stmt))
	}
	out.WriteString(" }")
	return out.String()
}

// Func is a top-level function declaration.
type Func struct {
	Tok    token.Token
	Name   *Ident
	Params []*Ident
	Body   *Block
}

func (s *Func) stmtNode() {}

func (s *Func) Token() token.Token { return s.Tok }

func (s *Func) String() string {
	params := make([]string, 0, len(s.Params))
	for _, p := range s.Params {
		params = append(params, p.String())
	}
	return "fn " + s.Name.String() + "(" + strings.Join(params, ", ") + ") " + s.Body.String()
}

// stmtString renders a node in statement position. Expression statements
// get a trailing semicolon; proper statements render themselves.
func stmtString(node Node) string {
	if _, ok := node.(Expr); ok {
		return node.String() + ";"
	}
	return node.String()
}
