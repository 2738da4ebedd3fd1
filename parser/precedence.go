package parser

import "github.com/IsVohi/ByteCode-Compiler/internal/token"

// Precedence order for operators, lowest first. All binary operators are
// left-associative; postfix indexing and calls bind tighter than unary
// operators, so "-x[0]" parses as "-(x[0])".
const (
	_ int = iota
	LOWEST
	CONDOR      // ||
	CONDAND     // &&
	EQUALS      // == or !=
	LESSGREATER // < <= > >=
	SUM         // + or -
	PRODUCT     // * / %
	PREFIX      // -x or !x
	INDEX       // arr[i]
)

// precedences maps token types to their binding power.
var precedences = map[token.Type]int{
	token.OR:       CONDOR,
	token.AND:      CONDAND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.LT_EQ:    LESSGREATER,
	token.GT:       LESSGREATER,
	token.GT_EQ:    LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.MOD:      PRODUCT,
	token.LBRACKET: INDEX,
}
