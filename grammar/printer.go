package grammar

import (
	"fmt"
	"strings"
)

// String renders the script in canonical form: one statement per line.
func (s *Script) String() string {
	var b strings.Builder
	for _, st := range s.Statements {
		b.WriteString(st.String())
		b.WriteString("\n")
	}
	return b.String()
}

func (i *Ident) String() string {
	if i == nil {
		return "_"
	}
	return i.Value
}

func join(kind string, j bool) string {
	if j {
		return kind + " join"
	}
	return kind
}

func (s *Statement) String() string {
	switch {
	case s.Comment != nil:
		return s.Comment.Text
	case s.Entry != nil:
		return fmt.Sprintf("entry %s;", s.Entry.Label)
	case s.Sealed != nil:
		return join(fmt.Sprintf("sealed %s", s.Sealed.Label), s.Sealed.Join) + ";"
	case s.Unsealed != nil:
		return join(fmt.Sprintf("unsealed %s %s", s.Unsealed.Label, s.Unsealed.Edge), s.Unsealed.Join) + ";"
	case s.Block != nil:
		return join(fmt.Sprintf("block %s", s.Block.Label), s.Block.Join) + ";"
	case s.Link != nil:
		var b strings.Builder
		b.WriteString("link " + s.Link.Target.String())
		if s.Link.Left != nil {
			b.WriteString(" left " + s.Link.Left.String())
		}
		if s.Link.Right != nil {
			b.WriteString(" right " + s.Link.Right.String())
		}
		b.WriteString(";")
		return b.String()
	case s.Goto != nil:
		return fmt.Sprintf("goto %s;", s.Goto.Label)
	case s.Pred != nil:
		return fmt.Sprintf("pred %s += %s;", s.Pred.Block, s.Pred.Pred)
	case s.Seal != nil:
		return fmt.Sprintf("seal %s;", s.Seal.Label)
	case s.Drop != nil:
		return fmt.Sprintf("drop %s;", s.Drop.Label)
	case s.Assign != nil:
		return fmt.Sprintf("assign %s;", s.Assign.Variable)
	case s.Read != nil:
		if s.Read.In != nil {
			return fmt.Sprintf("read %s in %s;", s.Read.Variable, s.Read.In)
		}
		return fmt.Sprintf("read %s;", s.Read.Variable)
	case s.First != nil:
		return fmt.Sprintf("first %s;", s.First.Label)
	case s.BFS != nil:
		return fmt.Sprintf("bfs %s %s;", s.BFS.Start, s.BFS.Stop)
	case s.Dom != nil, s.Verify != nil, s.Print != nil:
		return s.Keyword() + ";"
	default:
		return ""
	}
}
