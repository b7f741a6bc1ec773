package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Script is a parsed graph script: a sequence of statements that drive a
// block construction context.
type Script struct {
	Pos        lexer.Position
	Statements []*Statement `@@*`
}

type Ident struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Value  string `@Ident`
}

// IsBlank reports whether the identifier is the "_" placeholder for an
// absent block.
func (i *Ident) IsBlank() bool {
	return i == nil || i.Value == "_"
}

type Comment struct {
	Pos  lexer.Position
	Text string `@Comment`
}

type Statement struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Comment  *Comment      `  @@`
	Entry    *EntryStmt    `| @@`
	Sealed   *SealedStmt   `| @@`
	Unsealed *UnsealedStmt `| @@`
	Block    *BlockStmt    `| @@`
	Link     *LinkStmt     `| @@`
	Goto     *GotoStmt     `| @@`
	Pred     *PredStmt     `| @@`
	Seal     *SealStmt     `| @@`
	Drop     *DropStmt     `| @@`
	Assign   *AssignStmt   `| @@`
	Read     *ReadStmt     `| @@`
	First    *FirstStmt    `| @@`
	Dom      *DomStmt      `| @@`
	BFS      *BFSStmt      `| @@`
	Verify   *VerifyStmt   `| @@`
	Print    *PrintStmt    `| @@`
}

type EntryStmt struct {
	Pos   lexer.Position
	Label *Ident `"entry" @@ ";"`
}

type SealedStmt struct {
	Pos   lexer.Position
	Label *Ident `"sealed" @@`
	Join  bool   `[ @"join" ] ";"`
}

type UnsealedStmt struct {
	Pos   lexer.Position
	Label *Ident `"unsealed" @@`
	Edge  string `@( "left" | "right" )`
	Join  bool   `[ @"join" ] ";"`
}

type BlockStmt struct {
	Pos   lexer.Position
	Label *Ident `"block" @@`
	Join  bool   `[ @"join" ] ";"`
}

type LinkStmt struct {
	Pos    lexer.Position
	Target *Ident `"link" @@`
	Left   *Ident `[ "left" @@ ]`
	Right  *Ident `[ "right" @@ ] ";"`
}

type GotoStmt struct {
	Pos   lexer.Position
	Label *Ident `"goto" @@ ";"`
}

type PredStmt struct {
	Pos   lexer.Position
	Block *Ident `"pred" @@ "+="`
	Pred  *Ident `@@ ";"`
}

type SealStmt struct {
	Pos   lexer.Position
	Label *Ident `"seal" @@ ";"`
}

type DropStmt struct {
	Pos   lexer.Position
	Label *Ident `"drop" @@ ";"`
}

type AssignStmt struct {
	Pos      lexer.Position
	Variable *Ident `"assign" @@ ";"`
}

type ReadStmt struct {
	Pos      lexer.Position
	Variable *Ident `"read" @@`
	In       *Ident `[ "in" @@ ] ";"`
}

type FirstStmt struct {
	Pos   lexer.Position
	Label *Ident `"first" @@ ";"`
}

type DomStmt struct {
	Pos     lexer.Position
	Keyword string `@"dom" ";"`
}

type BFSStmt struct {
	Pos   lexer.Position
	Start *Ident `"bfs" @@`
	Stop  *Ident `@@ ";"`
}

type VerifyStmt struct {
	Pos     lexer.Position
	Keyword string `@"verify" ";"`
}

type PrintStmt struct {
	Pos     lexer.Position
	Keyword string `@"print" ";"`
}

// Keyword returns the leading keyword of the statement, or "" for comments.
func (s *Statement) Keyword() string {
	switch {
	case s.Entry != nil:
		return "entry"
	case s.Sealed != nil:
		return "sealed"
	case s.Unsealed != nil:
		return "unsealed"
	case s.Block != nil:
		return "block"
	case s.Link != nil:
		return "link"
	case s.Goto != nil:
		return "goto"
	case s.Pred != nil:
		return "pred"
	case s.Seal != nil:
		return "seal"
	case s.Drop != nil:
		return "drop"
	case s.Assign != nil:
		return "assign"
	case s.Read != nil:
		return "read"
	case s.First != nil:
		return "first"
	case s.Dom != nil:
		return "dom"
	case s.BFS != nil:
		return "bfs"
	case s.Verify != nil:
		return "verify"
	case s.Print != nil:
		return "print"
	default:
		return ""
	}
}
