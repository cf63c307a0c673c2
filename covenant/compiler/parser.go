package compiler

// Parser builds a shallow syntax tree from a token stream. Every
// keyword-initiated token produces one top-level node of matching kind; the
// declared name (the identifier or string following the keyword) becomes
// the node value.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a new parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse runs a single pass over the tokens. It never fails: tokens that do
// not start a declaration are skipped.
func (p *Parser) Parse(tokens []Token) *SyntaxTree {
	p.tokens = tokens
	p.pos = 0

	var nodes []*SyntaxNode
	for !p.isAtEnd() {
		token := p.advance()
		if token.Kind != TokenKeyword {
			continue
		}

		switch token.Literal {
		case "contract":
			nodes = append(nodes, p.parseDeclaration(NodeContract, token))
		case "party":
			nodes = append(nodes, p.parseDeclaration(NodeParty, token))
		case "clause":
			nodes = append(nodes, p.parseDeclaration(NodeClause, token))
		case "obligation":
			nodes = append(nodes, p.parseDeclaration(NodeObligation, token))
		case "condition":
			nodes = append(nodes, p.parseDeclaration(NodeCondition, token))
		default:
			nodes = append(nodes, &SyntaxNode{Kind: NodeStatement, Value: token.Literal})
		}
	}

	return &SyntaxTree{Nodes: nodes}
}

// parseDeclaration captures the declared name following the keyword when
// one is present; the keyword itself is the fallback value.
func (p *Parser) parseDeclaration(kind NodeKind, keyword Token) *SyntaxNode {
	value := keyword.Literal
	if next, ok := p.peek(); ok && (next.Kind == TokenIdentifier || next.Kind == TokenString) {
		value = trimQuotes(next.Literal)
		p.pos++
	}
	return &SyntaxNode{Kind: kind, Value: value}
}

func (p *Parser) advance() Token {
	token := p.tokens[p.pos]
	p.pos++
	return token
}

func (p *Parser) peek() (Token, bool) {
	if p.isAtEnd() {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *Parser) isAtEnd() bool {
	return p.pos >= len(p.tokens)
}

func trimQuotes(literal string) string {
	if len(literal) >= 2 && literal[0] == '"' && literal[len(literal)-1] == '"' {
		return literal[1 : len(literal)-1]
	}
	return literal
}
