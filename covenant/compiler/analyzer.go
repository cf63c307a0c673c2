package compiler

// AnalysisResult carries the findings of semantic analysis. Warnings do not
// make the result invalid.
type AnalysisResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// analyze checks structural completeness of the syntax tree.
func analyze(tree *SyntaxTree) AnalysisResult {
	var errors []string
	var warnings []string

	hasContract := false
	partyCount := 0
	for _, node := range tree.Nodes {
		switch node.Kind {
		case NodeContract:
			hasContract = true
		case NodeParty:
			partyCount++
		}
	}

	if !hasContract {
		errors = append(errors, "Contract declaration is required")
	}
	if partyCount == 0 {
		warnings = append(warnings, "Contract has no parties defined")
	}

	return AnalysisResult{
		Valid:    len(errors) == 0,
		Errors:   errors,
		Warnings: warnings,
	}
}
