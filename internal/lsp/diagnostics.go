package lsp

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"ssagraph/internal/errors"
)

// ConvertDiagnostics transforms builder and parser diagnostics into LSP
// diagnostics for IDE display. Suggestions, notes and help text are folded
// into the message since clients render it verbatim.
func ConvertDiagnostics(errs []errors.CompilerError) []protocol.Diagnostic {
	diagnostics := make([]protocol.Diagnostic, 0, len(errs))

	for _, err := range errs {
		line := max(err.Position.Line-1, 0)    // Convert to 0-based indexing
		start := max(err.Position.Column-1, 0) // Convert to 0-based indexing
		length := max(err.Length, 1)

		severity := protocol.DiagnosticSeverityError
		if err.Level == errors.Warning {
			severity = protocol.DiagnosticSeverityWarning
		}

		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: uint32(line), Character: uint32(start)},
				End:   protocol.Position{Line: uint32(line), Character: uint32(start + length)},
			},
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: err.Code},
			Source:   ptrString("ssagraph"),
			Message:  diagnosticMessage(err),
		})
	}

	return diagnostics
}

func diagnosticMessage(err errors.CompilerError) string {
	var sb strings.Builder
	sb.WriteString(err.Message)
	for _, s := range err.Suggestions {
		sb.WriteString("\nhelp: " + s.Message)
	}
	for _, note := range err.Notes {
		sb.WriteString("\nnote: " + note)
	}
	if err.HelpText != "" {
		sb.WriteString("\nhelp: " + err.HelpText)
	}
	return sb.String()
}
