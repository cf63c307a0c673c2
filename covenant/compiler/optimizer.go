package compiler

// Optimize transforms the syntax tree prior to code generation. It is an
// identity transform today, kept as a named stage so passes like dead-code
// elimination or constant folding can be inserted without changing the
// pipeline contract. The stage is idempotent: optimizing twice yields the
// same tree as optimizing once.
func Optimize(tree *SyntaxTree) *SyntaxTree {
	return tree
}
