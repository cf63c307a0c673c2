package compiler

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/covenantlabs/covenant/covenant"
)

// bytecodeMagic is the first line of every compiled artifact. The textual
// layout below (header lines, CODE_SECTION:/DATA_SECTION: markers) is
// parsed by downstream tooling and must stay stable.
const bytecodeMagic = "COVENANT_BYTECODE"

// generateBytecode emits the textual bytecode artifact: a versioned header
// followed by one instruction per top-level node.
func generateBytecode(tree *SyntaxTree, contract *covenant.Contract, now time.Time) string {
	var b strings.Builder

	b.WriteString(bytecodeMagic + "\n")
	b.WriteString("VERSION:" + Version + "\n")
	b.WriteString("CONTRACT_ID:" + contract.ContractID + "\n")
	b.WriteString("CONTRACT_TYPE:" + contract.ContractType + "\n")
	b.WriteString("TIMESTAMP:" + now.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("\n")

	b.WriteString("CODE_SECTION:\n")
	for _, node := range tree.Nodes {
		b.WriteString(generateInstruction(node))
	}

	b.WriteString("\nDATA_SECTION:\n")
	b.WriteString("END\n")

	return b.String()
}

func generateInstruction(node *SyntaxNode) string {
	switch node.Kind {
	case NodeContract:
		return fmt.Sprintf("INIT_CONTRACT %s\n", node.Value)
	case NodeParty:
		return fmt.Sprintf("ADD_PARTY %s\n", node.Value)
	case NodeClause:
		return fmt.Sprintf("DEFINE_CLAUSE %s\n", node.Value)
	case NodeObligation:
		return fmt.Sprintf("ADD_OBLIGATION %s\n", node.Value)
	case NodeStatement:
		return fmt.Sprintf("EXEC %s\n", node.Value)
	default:
		return "NOP\n"
	}
}

// ABIFunction describes one callable function in the ABI.
type ABIFunction struct {
	Name    string   `json:"name"`
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`
}

// ABI is the machine-readable description of a contract's callable surface.
type ABI struct {
	ContractName string        `json:"contractName"`
	ContractType string        `json:"contractType"`
	Version      string        `json:"version"`
	Functions    []ABIFunction `json:"functions"`
	Events       []string      `json:"events"`
}

// generateABI lists the function names extracted from clause and obligation
// nodes.
func generateABI(tree *SyntaxTree, contract *covenant.Contract) (string, error) {
	abi := ABI{
		ContractName: contract.Name,
		ContractType: contract.ContractType,
		Version:      Version,
		Functions:    []ABIFunction{},
		Events:       []string{},
	}

	for _, node := range tree.Nodes {
		if node.Kind == NodeClause || node.Kind == NodeObligation {
			abi.Functions = append(abi.Functions, ABIFunction{
				Name:    node.Value,
				Inputs:  []string{},
				Outputs: []string{},
			})
		}
	}

	encoded, err := json.MarshalIndent(&abi, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to encode ABI")
	}
	return string(encoded), nil
}
