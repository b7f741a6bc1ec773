package lsp

import (
	"github.com/alecthomas/participle/v2/lexer"

	"ssagraph/grammar"
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into the semanticTokenTypes array
// TokenModifiers is a bitmask based on semanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int // index into semanticTokenTypes
	TokenModifiers int // bitmask
}

func collectSemanticTokens(script *grammar.Script) []SemanticToken {
	var tokens []SemanticToken

	if script == nil {
		return tokens
	}

	for _, st := range script.Statements {
		tokens = append(tokens, walkStatement(st)...)
	}

	return tokens
}

func walkStatement(st *grammar.Statement) []SemanticToken {
	if st.Comment != nil {
		return makeToken(st.Comment.Pos, lexer.Position{}, st.Comment.Text, "comment", 0)
	}

	keyword := st.Keyword()
	tokens := makeToken(st.Pos, lexer.Position{}, keyword, "keyword", 0)

	switch {
	case st.Entry != nil:
		tokens = append(tokens, labelToken(st.Entry.Label, 1)...)
	case st.Sealed != nil:
		tokens = append(tokens, labelToken(st.Sealed.Label, 1)...)
	case st.Unsealed != nil:
		tokens = append(tokens, labelToken(st.Unsealed.Label, 1)...)
	case st.Block != nil:
		tokens = append(tokens, labelToken(st.Block.Label, 1)...)
	case st.Link != nil:
		tokens = append(tokens, labelToken(st.Link.Target, 0)...)
		tokens = append(tokens, labelToken(st.Link.Left, 0)...)
		tokens = append(tokens, labelToken(st.Link.Right, 0)...)
	case st.Goto != nil:
		tokens = append(tokens, labelToken(st.Goto.Label, 0)...)
	case st.Pred != nil:
		tokens = append(tokens, labelToken(st.Pred.Block, 0)...)
		tokens = append(tokens, labelToken(st.Pred.Pred, 0)...)
	case st.Seal != nil:
		tokens = append(tokens, labelToken(st.Seal.Label, 0)...)
	case st.Drop != nil:
		tokens = append(tokens, labelToken(st.Drop.Label, 0)...)
	case st.Assign != nil:
		v := st.Assign.Variable
		tokens = append(tokens, makeToken(v.Pos, v.EndPos, v.Value, "variable", 1)...)
	case st.Read != nil:
		v := st.Read.Variable
		tokens = append(tokens, makeToken(v.Pos, v.EndPos, v.Value, "variable", 0)...)
		tokens = append(tokens, labelToken(st.Read.In, 0)...)
	case st.First != nil:
		tokens = append(tokens, labelToken(st.First.Label, 0)...)
	case st.BFS != nil:
		tokens = append(tokens, labelToken(st.BFS.Start, 0)...)
		tokens = append(tokens, labelToken(st.BFS.Stop, 0)...)
	}

	return tokens
}

// labelToken marks a block label; the "_" placeholder is not a label.
func labelToken(id *grammar.Ident, declModifier int) []SemanticToken {
	if id.IsBlank() {
		return nil
	}
	return makeToken(id.Pos, id.EndPos, id.Value, "namespace", declModifier)
}

// collectNames returns the declared block labels and assigned variables of
// script, each in first-occurrence order.
func collectNames(script *grammar.Script) (labels, variables []string) {
	if script == nil {
		return nil, nil
	}

	seen := make(map[*[]string]map[string]bool)
	add := func(list *[]string, name string) {
		if seen[list] == nil {
			seen[list] = make(map[string]bool)
		}
		if !seen[list][name] {
			seen[list][name] = true
			*list = append(*list, name)
		}
	}

	for _, st := range script.Statements {
		switch {
		case st.Entry != nil:
			add(&labels, st.Entry.Label.Value)
		case st.Sealed != nil:
			add(&labels, st.Sealed.Label.Value)
		case st.Unsealed != nil:
			add(&labels, st.Unsealed.Label.Value)
		case st.Block != nil:
			add(&labels, st.Block.Label.Value)
		case st.Assign != nil:
			add(&variables, st.Assign.Variable.Value)
		}
	}

	return labels, variables
}

// makeToken creates a semantic token for a given position and text
func makeToken(pos, endPos lexer.Position, value, tokenType string, declModifier int) []SemanticToken {
	if value == "" {
		return nil
	}

	length := endPos.Column - pos.Column
	if length <= 0 || length > len(value) || endPos.Line != pos.Line {
		length = len(value)
	}

	return []SemanticToken{{
		Line:           uint32(pos.Line - 1),   // LSP uses 0-based line numbers
		StartChar:      uint32(pos.Column - 1), // LSP uses 0-based column numbers
		Length:         uint32(length),
		TokenType:      indexOf(tokenType, SemanticTokenTypes),
		TokenModifiers: declModifier << indexOf("declaration", SemanticTokenModifiers),
	}}
}

// indexOf returns the index of a string in a slice, or 0 if not found
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return 0 // Default to first token type if not found
}
