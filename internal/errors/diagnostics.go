package errors

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// DiagnosticBuilder provides a fluent interface for creating diagnostics with suggestions
type DiagnosticBuilder struct {
	err CompilerError
}

// NewError creates a new error-level diagnostic builder
func NewError(code, message string, pos lexer.Position) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewWarning creates a new warning-level diagnostic builder
func NewWarning(code, message string, pos lexer.Position) *DiagnosticBuilder {
	b := NewError(code, message, pos)
	b.err.Level = Warning
	return b
}

// WithLength sets the length of the underlined span
func (b *DiagnosticBuilder) WithLength(length int) *DiagnosticBuilder {
	b.err.Length = length
	return b
}

// WithSuggestion adds a suggestion
func (b *DiagnosticBuilder) WithSuggestion(message string) *DiagnosticBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithReplacement adds a suggestion carrying replacement text
func (b *DiagnosticBuilder) WithReplacement(message, replacement string) *DiagnosticBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{
		Message:     message,
		Replacement: replacement,
	})
	return b
}

// WithNote adds a note
func (b *DiagnosticBuilder) WithNote(note string) *DiagnosticBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp sets the help text
func (b *DiagnosticBuilder) WithHelp(help string) *DiagnosticBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed diagnostic
func (b *DiagnosticBuilder) Build() CompilerError {
	return b.err
}

// UndefinedBlock creates an error for an unknown label with suggestions
func UndefinedBlock(name string, pos lexer.Position, knownLabels []string) CompilerError {
	builder := NewError(ErrorUndefinedBlock, fmt.Sprintf("undefined block '%s'", name), pos).
		WithLength(len(name))

	similar := findSimilarNames(name, knownLabels)
	switch {
	case len(similar) == 1:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similar[0]))
	case len(similar) > 1:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similar, "', '")))
	default:
		builder = builder.WithSuggestion("create the block first with 'entry', 'sealed', 'unsealed' or 'block'")
	}

	return builder.Build()
}

// DuplicateBlock creates an error for a label bound twice
func DuplicateBlock(name string, pos lexer.Position) CompilerError {
	return NewError(ErrorDuplicateBlock, fmt.Sprintf("block '%s' is already defined", name), pos).
		WithLength(len(name)).
		WithSuggestion("choose a different label").
		Build()
}

// StaleBlock creates an error for a label whose block was dropped
func StaleBlock(name string, pos lexer.Position) CompilerError {
	return NewError(ErrorStaleBlock, fmt.Sprintf("block '%s' was dropped", name), pos).
		WithLength(len(name)).
		WithNote("handles of dropped blocks never resolve again").
		Build()
}

// UndefinedVariable creates an error for a variable that was never assigned
func UndefinedVariable(name string, pos lexer.Position, knownVariables []string) CompilerError {
	builder := NewError(ErrorUndefinedVariable, fmt.Sprintf("undefined variable '%s'", name), pos).
		WithLength(len(name))

	if similar := findSimilarNames(name, knownVariables); len(similar) > 0 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similar[0]))
	} else {
		builder = builder.WithSuggestion(fmt.Sprintf("assign it first: 'assign %s;'", name))
	}
	return builder.Build()
}

// MissingEntry creates an error for a statement that needs a current block
func MissingEntry(statement string, pos lexer.Position) CompilerError {
	return NewError(ErrorMissingEntry, fmt.Sprintf("'%s' needs an entry block", statement), pos).
		WithLength(len(statement)).
		WithReplacement("create the entry block first", "entry <label>;").
		Build()
}

// DuplicateEntry creates an error for a second entry block
func DuplicateEntry(pos lexer.Position, existing string) CompilerError {
	return NewError(ErrorDuplicateEntry, "entry block already exists", pos).
		WithLength(len("entry")).
		WithNote(fmt.Sprintf("the entry block is '%s'", existing)).
		Build()
}

// EmptyBlock creates an error for a first-instruction query on an empty block
func EmptyBlock(name string, pos lexer.Position) CompilerError {
	return NewError(ErrorEmptyBlock, fmt.Sprintf("block '%s' has no instructions", name), pos).
		WithLength(len(name)).
		WithNote("bare blocks created with 'block' do not get a placeholder instruction").
		WithHelp("use 'sealed' or 'unsealed' when the block must be usable immediately").
		Build()
}

// InvalidPredecessor creates an error for a rejected predecessor widening
func InvalidPredecessor(block, pred string, pos lexer.Position) CompilerError {
	return NewError(ErrorInvalidPredecessor, fmt.Sprintf("cannot add '%s' as predecessor of '%s'", pred, block), pos).
		WithNote("a predecessor is recorded at most once").
		Build()
}

// DropCurrent creates an error for dropping the block under the cursor
func DropCurrent(name string, pos lexer.Position) CompilerError {
	return NewError(ErrorDropCurrent, fmt.Sprintf("cannot drop '%s' while it is the current block", name), pos).
		WithLength(len(name)).
		WithSuggestion("move the cursor first with 'goto'").
		Build()
}

// ReservedLabel creates an error for declaring the "_" placeholder
func ReservedLabel(pos lexer.Position) CompilerError {
	return NewError(ErrorReservedLabel, "'_' cannot name a block", pos).
		WithNote("'_' marks an absent successor in 'link' and an open bound in 'bfs'").
		Build()
}

// SyntaxError creates an error for a statement the parser rejected
func SyntaxError(message string, pos lexer.Position) CompilerError {
	return NewError(ErrorSyntax, message, pos).Build()
}

// VerificationFailed wraps a structural verification failure
func VerificationFailed(pos lexer.Position, violations []string) CompilerError {
	builder := NewError(ErrorVerification, "graph verification failed", pos).WithLength(len("verify"))
	for _, v := range violations {
		builder = builder.WithNote(v)
	}
	return builder.Build()
}

// UnsealedBlock creates a warning for a block never sealed
func UnsealedBlock(name string, pos lexer.Position) CompilerError {
	return NewWarning(WarningUnsealedBlock, fmt.Sprintf("block '%s' is never sealed", name), pos).
		WithLength(len(name)).
		WithSuggestion(fmt.Sprintf("add 'seal %s;' once all its predecessors are known", name)).
		Build()
}

// DominatorMismatch creates a warning for a recorded dominator that the edges contradict
func DominatorMismatch(detail string, pos lexer.Position) CompilerError {
	return NewWarning(WarningDominatorMismatch, "recorded dominator disagrees with the edges", pos).
		WithLength(len("verify")).
		WithNote(detail).
		WithHelp("relink the block with 'link' so its dominator is recomputed").
		Build()
}

// LinkIgnored creates a warning for a link whose target does not resolve
func LinkIgnored(name string, pos lexer.Position) CompilerError {
	return NewWarning(WarningLinkIgnored, fmt.Sprintf("link target '%s' does not exist; nothing changed", name), pos).
		WithLength(len(name)).
		Build()
}

// findSimilarNames returns candidates within a small edit distance of target
func findSimilarNames(target string, candidates []string) []string {
	var similar []string
	for _, candidate := range candidates {
		if candidate != target && levenshteinDistance(target, candidate) <= 2 {
			similar = append(similar, candidate)
		}
	}
	return similar
}

// levenshteinDistance computes the edit distance between a and b
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
