package compiler

// TokenKind classifies a lexical token.
type TokenKind int

const (
	TokenKeyword TokenKind = iota
	TokenIdentifier
	TokenString
	TokenNumber
	TokenOperator
	TokenDelimiter
)

func (k TokenKind) String() string {
	switch k {
	case TokenKeyword:
		return "KEYWORD"
	case TokenIdentifier:
		return "IDENTIFIER"
	case TokenString:
		return "STRING"
	case TokenNumber:
		return "NUMBER"
	case TokenOperator:
		return "OPERATOR"
	case TokenDelimiter:
		return "DELIMITER"
	default:
		return "UNKNOWN"
	}
}

// Token is one lexical unit of contract source. Immutable once produced.
type Token struct {
	Kind    TokenKind
	Literal string
	Line    int
}

// keywords is the fixed vocabulary of the Ricardian contract DSL.
var keywords = map[string]struct{}{
	"contract":   {},
	"party":      {},
	"clause":     {},
	"condition":  {},
	"obligation": {},
	"right":      {},
	"asset":      {},
	"value":      {},
	"currency":   {},
	"timestamp":  {},
	"signature":  {},
	"verify":     {},
}

func isKeyword(word string) bool {
	_, ok := keywords[word]
	return ok
}
