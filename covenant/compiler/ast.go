package compiler

// NodeKind classifies a syntax node.
type NodeKind int

const (
	NodeContract NodeKind = iota
	NodeParty
	NodeClause
	NodeObligation
	NodeCondition
	NodeStatement
	NodeExpression
)

func (k NodeKind) String() string {
	switch k {
	case NodeContract:
		return "CONTRACT"
	case NodeParty:
		return "PARTY"
	case NodeClause:
		return "CLAUSE"
	case NodeObligation:
		return "OBLIGATION"
	case NodeCondition:
		return "CONDITION"
	case NodeStatement:
		return "STATEMENT"
	case NodeExpression:
		return "EXPRESSION"
	default:
		return "UNKNOWN"
	}
}

// SyntaxNode is one typed node of the shallow syntax tree. The kind is fixed
// at construction; children are owned exclusively by their parent.
type SyntaxNode struct {
	Kind     NodeKind
	Value    string
	Children []*SyntaxNode
}

// SyntaxTree is the ordered sequence of top-level nodes. The DSL is flat at
// the top level: code generation walks this list, not a nested grammar.
type SyntaxTree struct {
	Nodes []*SyntaxNode
}
