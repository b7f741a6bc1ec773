package builder

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/tliron/commonlog"

	"ssagraph/grammar"
	"ssagraph/internal/config"
	"ssagraph/internal/errors"
	"ssagraph/internal/ssa"
)

func logger() commonlog.Logger {
	return commonlog.GetLogger("ssagraph.builder")
}

// Builder executes graph scripts against a construction context
type Builder struct {
	ctx *ssa.Context
	cfg *config.Config
	out io.Writer

	// Label bookkeeping
	labels   map[string]ssa.BlockID
	names    map[ssa.BlockID]string
	declared map[string]lexer.Position
	order    []string

	// Source variables, keyed by name
	variables map[string]ssa.NodeID

	errors []errors.CompilerError

	// verified is set by a verify statement and cleared by any mutation
	verified bool
}

// New creates a builder writing query output to out. A nil cfg means the
// defaults.
func New(out io.Writer, cfg *config.Config) *Builder {
	if cfg == nil {
		cfg = config.Default()
	}
	if out == nil {
		out = io.Discard
	}
	return &Builder{
		ctx:       ssa.NewContext(),
		cfg:       cfg,
		out:       out,
		labels:    make(map[string]ssa.BlockID),
		names:     make(map[ssa.BlockID]string),
		declared:  make(map[string]lexer.Position),
		variables: make(map[string]ssa.NodeID),
	}
}

// Context returns the construction context driven by the builder.
func (b *Builder) Context() *ssa.Context {
	return b.ctx
}

// Errors returns every diagnostic collected so far, in statement order.
func (b *Builder) Errors() []errors.CompilerError {
	return b.errors
}

// HasErrors reports whether an error-level diagnostic was collected.
func (b *Builder) HasErrors() bool {
	return errors.HasErrors(b.errors)
}

// Block returns the block bound to label, if the label exists.
func (b *Builder) Block(label string) (ssa.BlockID, bool) {
	id, ok := b.labels[label]
	return id, ok
}

// Labels returns the labels of live blocks in declaration order.
func (b *Builder) Labels() []string {
	var live []string
	for _, name := range b.order {
		if _, ok := b.ctx.TryBlock(b.labels[name]); ok {
			live = append(live, name)
		}
	}
	return live
}

// Name renders a block by label, falling back to its handle.
func (b *Builder) Name(id ssa.BlockID) string {
	if name, ok := b.names[id]; ok {
		return name
	}
	return id.String()
}

func (b *Builder) addError(err errors.CompilerError) {
	logger().Debugf("%s", err.Error())
	b.errors = append(b.errors, err)
}

func (b *Builder) printf(format string, args ...interface{}) {
	fmt.Fprintf(b.out, format, args...)
}

// RunSource parses source and executes it to the end. On a syntax error
// nothing is executed and the error is the only diagnostic.
func RunSource(filename, source string, out io.Writer, cfg *config.Config) *Builder {
	b := New(out, cfg)
	script, err := grammar.ParseString(filename, source)
	if err != nil {
		b.addError(ParseError(err))
		return b
	}
	b.Run(script)
	b.Finish(EndOf(filename, script))
	return b
}

// ParseError converts a parser failure into a diagnostic.
func ParseError(err error) errors.CompilerError {
	if pe, ok := err.(participle.Error); ok {
		return errors.SyntaxError(pe.Message(), pe.Position())
	}
	return errors.SyntaxError(err.Error(), lexer.Position{})
}

// EndOf is the position end-of-script diagnostics are anchored to.
func EndOf(filename string, script *grammar.Script) lexer.Position {
	if len(script.Statements) == 0 {
		return lexer.Position{Filename: filename, Line: 1, Column: 1}
	}
	return script.Statements[len(script.Statements)-1].Pos
}

// Run executes every statement of script in order.
func (b *Builder) Run(script *grammar.Script) {
	for _, st := range script.Statements {
		b.Exec(st)
	}
}

// Exec executes a single statement.
func (b *Builder) Exec(st *grammar.Statement) {
	switch st.Keyword() {
	case "", "read", "first", "bfs", "print", "verify":
	default:
		b.verified = false
	}

	switch {
	case st.Comment != nil:
	case st.Entry != nil:
		b.execEntry(st.Entry)
	case st.Sealed != nil:
		b.execSealed(st.Sealed)
	case st.Unsealed != nil:
		b.execUnsealed(st.Unsealed)
	case st.Block != nil:
		b.execBlock(st.Block)
	case st.Link != nil:
		b.execLink(st.Link)
	case st.Goto != nil:
		if id, ok := b.resolve(st.Goto.Label); ok {
			b.ctx.SetCurrent(id)
		}
	case st.Pred != nil:
		b.execPred(st.Pred)
	case st.Seal != nil:
		if id, ok := b.resolve(st.Seal.Label); ok {
			b.ctx.Seal(id)
		}
	case st.Drop != nil:
		b.execDrop(st.Drop)
	case st.Assign != nil:
		b.execAssign(st.Assign)
	case st.Read != nil:
		b.execRead(st.Read)
	case st.First != nil:
		b.execFirst(st.First)
	case st.Dom != nil:
		b.execDom()
	case st.BFS != nil:
		b.execBFS(st.BFS)
	case st.Verify != nil:
		b.verify(st.Verify.Pos)
	case st.Print != nil:
		b.printf("%s", b.Print())
	}
}

// Finish runs the end-of-script passes selected by the configuration and
// warns about every declared block that was never sealed.
func (b *Builder) Finish(pos lexer.Position) {
	if b.cfg.Build.ComputeDom {
		b.ctx.ComputeDom()
	}
	if b.cfg.Build.Verify && !b.verified {
		b.check(pos)
	}
	for _, name := range b.order {
		id := b.labels[name]
		if id == b.ctx.FirstBlock {
			continue
		}
		if _, ok := b.ctx.TryBlock(id); !ok {
			continue
		}
		if !b.ctx.IsSealed(id) {
			b.addError(errors.UnsealedBlock(name, b.declared[name]))
		}
	}
}

func kindOf(join bool) ssa.BlockKind {
	if join {
		return ssa.BlockForJoin
	}
	return ssa.BlockNormal
}

func (b *Builder) requireEntry(statement string, pos lexer.Position) bool {
	if b.ctx.FirstBlock.IsNone() {
		b.addError(errors.MissingEntry(statement, pos))
		return false
	}
	return true
}

// declarable checks a new label before any block is created for it.
func (b *Builder) declarable(label *grammar.Ident) bool {
	if label.IsBlank() {
		b.addError(errors.ReservedLabel(label.Pos))
		return false
	}
	if _, exists := b.labels[label.Value]; exists {
		b.addError(errors.DuplicateBlock(label.Value, label.Pos))
		return false
	}
	return true
}

func (b *Builder) bind(label *grammar.Ident, id ssa.BlockID) {
	b.labels[label.Value] = id
	b.names[id] = label.Value
	b.declared[label.Value] = label.Pos
	b.order = append(b.order, label.Value)
	logger().Debugf("bound %s to %s", label.Value, id)
}

// resolve looks up a label that must name a live block.
func (b *Builder) resolve(label *grammar.Ident) (ssa.BlockID, bool) {
	id, ok := b.labels[label.Value]
	if !ok {
		b.addError(errors.UndefinedBlock(label.Value, label.Pos, b.Labels()))
		return ssa.NoBlock, false
	}
	if _, live := b.ctx.TryBlock(id); !live {
		b.addError(errors.StaleBlock(label.Value, label.Pos))
		return ssa.NoBlock, false
	}
	return id, true
}

// resolveOptional is resolve for positions where "_" means no block.
func (b *Builder) resolveOptional(label *grammar.Ident) (ssa.BlockID, bool) {
	if label.IsBlank() {
		return ssa.NoBlock, true
	}
	return b.resolve(label)
}

func (b *Builder) execEntry(s *grammar.EntryStmt) {
	if !b.ctx.FirstBlock.IsNone() {
		b.addError(errors.DuplicateEntry(s.Pos, b.Name(b.ctx.FirstBlock)))
		return
	}
	if !b.declarable(s.Label) {
		return
	}
	b.bind(s.Label, b.ctx.CreateFirstBlock())
}

func (b *Builder) execSealed(s *grammar.SealedStmt) {
	if !b.requireEntry("sealed", s.Pos) || !b.declarable(s.Label) {
		return
	}
	b.bind(s.Label, b.ctx.NewSealedBlock(kindOf(s.Join)))
}

func (b *Builder) execUnsealed(s *grammar.UnsealedStmt) {
	if !b.requireEntry("unsealed", s.Pos) || !b.declarable(s.Label) {
		return
	}
	edge := ssa.EdgeLeft
	if s.Edge == "right" {
		edge = ssa.EdgeRight
	}
	b.bind(s.Label, b.ctx.NewUnsealedBlock(kindOf(s.Join), edge))
}

func (b *Builder) execBlock(s *grammar.BlockStmt) {
	if !b.requireEntry("block", s.Pos) || !b.declarable(s.Label) {
		return
	}
	b.bind(s.Label, b.ctx.CreateBlock(kindOf(s.Join)).ID)
}

func (b *Builder) execLink(s *grammar.LinkStmt) {
	target, known := b.labels[s.Target.Value]
	if !known {
		b.addError(errors.UndefinedBlock(s.Target.Value, s.Target.Pos, b.Labels()))
		return
	}
	left, okLeft := b.resolveOptional(s.Left)
	right, okRight := b.resolveOptional(s.Right)
	if !okLeft || !okRight {
		return
	}
	if _, live := b.ctx.TryBlock(target); !live {
		b.addError(errors.LinkIgnored(s.Target.Value, s.Target.Pos))
	}
	b.ctx.LinkWithTarget(target, left, right)
}

func (b *Builder) execPred(s *grammar.PredStmt) {
	block, ok := b.resolve(s.Block)
	if !ok {
		return
	}
	pred, ok := b.resolve(s.Pred)
	if !ok {
		return
	}
	if !b.ctx.AddPredecessor(block, pred) {
		b.addError(errors.InvalidPredecessor(s.Block.Value, s.Pred.Value, s.Pos))
	}
}

func (b *Builder) execDrop(s *grammar.DropStmt) {
	id, ok := b.resolve(s.Label)
	if !ok {
		return
	}
	if id == b.ctx.CurrentBlock {
		b.addError(errors.DropCurrent(s.Label.Value, s.Label.Pos))
		return
	}
	b.ctx.RemoveBlock(id)
}

func (b *Builder) execAssign(s *grammar.AssignStmt) {
	if !b.requireEntry("assign", s.Pos) {
		return
	}
	name := s.Variable.Value
	variable, ok := b.variables[name]
	if !ok {
		variable = b.ctx.NewVariable(name)
		b.variables[name] = variable
	}
	value := b.ctx.NewInstruction(variable, ssa.DummyNode(), ssa.OpAssign, ssa.TypeNativeField)
	b.ctx.Current().UpdateVariable(variable, value)
}

func (b *Builder) execRead(s *grammar.ReadStmt) {
	name := s.Variable.Value
	variable, ok := b.variables[name]
	if !ok {
		b.addError(errors.UndefinedVariable(name, s.Variable.Pos, b.variableNames()))
		return
	}

	var block ssa.BlockID
	if s.In != nil {
		if block, ok = b.resolve(s.In); !ok {
			return
		}
	} else {
		block = b.ctx.CurrentBlock
	}

	if value, ok := b.ctx.Block(block).CurrentValue(variable); ok {
		b.printf("read %s in %s: %s\n", name, b.Name(block), value)
	} else {
		b.printf("read %s in %s: no value\n", name, b.Name(block))
	}
}

func (b *Builder) variableNames() []string {
	names := make([]string, 0, len(b.variables))
	for name := range b.variables {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (b *Builder) execFirst(s *grammar.FirstStmt) {
	id, ok := b.resolve(s.Label)
	if !ok {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*ssa.PreconditionError); !ok {
				panic(r)
			}
			b.addError(errors.EmptyBlock(s.Label.Value, s.Label.Pos))
		}
	}()

	first := b.ctx.Block(id).FirstInstruction()
	if inst, ok := b.ctx.Instruction(first); ok {
		b.printf("first %s: %s\n", s.Label.Value, inst)
	} else {
		b.printf("first %s: %s\n", s.Label.Value, first)
	}
}

func (b *Builder) execDom() {
	b.ctx.ComputeDom()
	for blk := range b.ctx.Blocks() {
		if len(blk.Dominated) == 0 {
			continue
		}
		b.printf("dom %s: %s\n", b.Name(blk.ID), b.joinNames(blk.Dominated))
	}
}

func (b *Builder) execBFS(s *grammar.BFSStmt) {
	start, ok := b.resolve(s.Start)
	if !ok {
		return
	}
	stop := ssa.NoBlock
	if !s.Stop.IsBlank() {
		id, known := b.labels[s.Stop.Value]
		if !known {
			b.addError(errors.UndefinedBlock(s.Stop.Value, s.Stop.Pos, b.Labels()))
			return
		}
		stop = id
	}
	b.printf("bfs %s %s: %s\n", s.Start.Value, s.Stop, b.joinNames(b.ctx.BFS(start, stop)))
}

// verify recomputes dominated lists and checks the graph.
func (b *Builder) verify(pos lexer.Position) {
	b.ctx.ComputeDom()
	if b.check(pos) {
		b.printf("verify: ok\n")
	}
	b.verified = true
}

// check reports structural violations as an error and dominator
// disagreements as warnings. It returns false if the graph is invalid.
func (b *Builder) check(pos lexer.Position) bool {
	for _, m := range b.ctx.CheckDominators() {
		detail := fmt.Sprintf("%s: recorded dominator %s, edges imply %s",
			b.Name(m.Block), b.Name(m.Recorded), b.Name(m.Computed))
		b.addError(errors.DominatorMismatch(detail, pos))
	}
	if err := b.ctx.Verify(); err != nil {
		b.addError(errors.VerificationFailed(pos, strings.Split(err.Error(), "\n")))
		return false
	}
	return true
}

// Print dumps the context followed by the label legend.
func (b *Builder) Print() string {
	var sb strings.Builder
	sb.WriteString(ssa.Print(b.ctx))
	if live := b.Labels(); len(live) > 0 {
		pairs := make([]string, 0, len(live))
		for _, name := range live {
			pairs = append(pairs, fmt.Sprintf("%s=%s", name, b.labels[name]))
		}
		sb.WriteString("; labels: " + strings.Join(pairs, " ") + "\n")
	}
	return sb.String()
}

func (b *Builder) joinNames(ids []ssa.BlockID) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = b.Name(id)
	}
	return strings.Join(names, " ")
}
