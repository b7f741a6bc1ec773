package errors

// Error codes for the ssagraph tools
// These codes are used in diagnostics so that editors and the CLI identify
// problems consistently.
//
// Error code ranges:
// E0001-E0099: Block and label resolution errors
// E0100-E0199: Script syntax errors
// E0200-E0299: Construction protocol errors
// E0800-E0899: Reserved for tooling errors
// W0001-W0099: Graph warnings

const (
	// E0001: Label does not name a block
	ErrorUndefinedBlock = "E0001"

	// E0002: Label already names a block
	ErrorDuplicateBlock = "E0002"

	// E0003: Variable read before any assignment
	ErrorUndefinedVariable = "E0003"

	// E0004: Label names a block that has been dropped
	ErrorStaleBlock = "E0004"

	// E0100: Script could not be parsed
	ErrorSyntax = "E0100"

	// E0200: Statement needs an entry block but none exists
	ErrorMissingEntry = "E0200"

	// E0201: Second entry block in one script
	ErrorDuplicateEntry = "E0201"

	// E0202: First instruction requested from a block without instructions
	ErrorEmptyBlock = "E0202"

	// E0203: Graph failed structural verification
	ErrorVerification = "E0203"

	// E0204: Predecessor could not be added
	ErrorInvalidPredecessor = "E0204"

	// E0205: Current block cannot be dropped
	ErrorDropCurrent = "E0205"

	// E0206: "_" used where a block label is declared
	ErrorReservedLabel = "E0206"

	// W0001: Block left unsealed at the end of the script
	WarningUnsealedBlock = "W0001"

	// W0002: Recorded dominator disagrees with the edges
	WarningDominatorMismatch = "W0002"

	// W0003: Link target does not resolve, statement had no effect
	WarningLinkIgnored = "W0003"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorUndefinedBlock:
		return "Label is used but no block was created under that name"
	case ErrorDuplicateBlock:
		return "Label is already bound to another block"
	case ErrorUndefinedVariable:
		return "Variable is read but was never assigned"
	case ErrorStaleBlock:
		return "Block was dropped and its handle no longer resolves"
	case ErrorSyntax:
		return "Statement does not match the script grammar"
	case ErrorMissingEntry:
		return "An entry block must be created before this statement"
	case ErrorDuplicateEntry:
		return "A script can create only one entry block"
	case ErrorEmptyBlock:
		return "Block has no instructions; it was created bare and never populated"
	case ErrorVerification:
		return "Graph violates a structural invariant"
	case ErrorInvalidPredecessor:
		return "Predecessor is unknown or already recorded"
	case ErrorDropCurrent:
		return "The block under the cursor must stay alive; move away with 'goto' first"
	case ErrorReservedLabel:
		return "The '_' label stands for an absent block and cannot be declared"
	case WarningUnsealedBlock:
		return "Block predecessors were never declared final"
	case WarningDominatorMismatch:
		return "Recorded immediate dominator differs from the one implied by the edges"
	case WarningLinkIgnored:
		return "Relinking a block that does not exist has no effect"
	default:
		return "Unknown error code"
	}
}

// IsWarning returns true if the code represents a warning rather than an error
func IsWarning(code string) bool {
	return len(code) > 0 && code[0] == 'W'
}
