package format

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/dhamidi/mjc/minijava/parser"
)

// PrettyPrinter writes a Program back as canonical MiniJava source:
// four-space indentation, one declaration or statement per line, and
// parentheses exactly where the source had them.
type PrettyPrinter struct {
	w            io.Writer
	err          error
	comments     []parser.Token
	commentIndex int
	indent       int
	indentStr    string
	atLineStart  bool
	lastLine     int
	wrote        bool
	emptyLine    bool
}

func NewPrettyPrinter(w io.Writer) *PrettyPrinter {
	return &PrettyPrinter{
		w:           w,
		indentStr:   "    ",
		atLineStart: true,
	}
}

// Print writes prog. Comments are emitted before the first declaration or
// statement that follows them in the source.
func (p *PrettyPrinter) Print(prog *parser.Program, comments []parser.Token) error {
	p.comments = append([]parser.Token(nil), comments...)
	sort.Slice(p.comments, func(i, j int) bool {
		return p.comments[i].Span.Start.Offset < p.comments[j].Span.Start.Offset
	})
	p.commentIndex = 0

	if prog.Main != nil {
		p.printMainClass(prog.Main)
	}
	for _, class := range prog.Classes {
		p.newline()
		p.printClass(class)
	}
	p.emitRemainingComments()
	return p.err
}

func (p *PrettyPrinter) printMainClass(mc *parser.MainClass) {
	p.emitCommentsBeforeLine(mc.Span().Start.Line)
	p.mark(mc.Span().Start.Line)

	p.writeIndent()
	p.write("class " + identName(mc.Name) + " {")
	p.newline()
	p.indent++

	if mc.ArgsName != nil {
		p.emitCommentsBeforeLine(mc.ArgsName.Span().Start.Line)
		p.mark(mc.ArgsName.Span().Start.Line)
	}
	p.writeIndent()
	p.write("public static void main(String[] " + identName(mc.ArgsName) + ") {")
	p.newline()
	p.indent++
	p.printBody(mc.Vars, mc.Body)
	p.emitCommentsBeforeLine(mc.Span().End.Line)
	p.indent--
	p.writeIndent()
	p.write("}")
	p.newline()

	p.indent--
	p.writeIndent()
	p.write("}")
	p.newline()
}

func (p *PrettyPrinter) printClass(class parser.ClassDecl) {
	p.emitCommentsBeforeLine(class.Span().Start.Line)
	p.mark(class.Span().Start.Line)

	p.writeIndent()
	p.write("class " + identName(class.ClassName()))
	if derived, ok := class.(*parser.DerivedClass); ok {
		p.write(" extends " + identName(derived.Super))
	}
	p.write(" {")
	p.newline()
	p.indent++

	for _, f := range class.FieldDecls() {
		p.printDecl(f.Span(), f.Mutability, f.Type, f.Name)
	}
	for i, m := range class.MethodDecls() {
		if i > 0 || len(class.FieldDecls()) > 0 {
			p.newline()
		}
		p.printMethod(m)
	}

	p.emitCommentsBeforeLine(class.Span().End.Line)
	p.indent--
	p.writeIndent()
	p.write("}")
	p.newline()
}

func (p *PrettyPrinter) printDecl(span parser.Span, m parser.Mutability, typ parser.Type, name *parser.Ident) {
	p.emitCommentsBeforeLine(span.Start.Line)
	p.writeIndent()
	if m == parser.Mutable {
		p.write("mutable ")
	}
	p.write(typeString(typ) + " " + identName(name) + ";")
	p.emitTrailingLineComment(span.End.Line)
	p.mark(span.End.Line)
	p.newline()
}

func (p *PrettyPrinter) printMethod(m *parser.MethodDecl) {
	p.emitCommentsBeforeLine(m.Span().Start.Line)
	p.mark(m.Span().Start.Line)

	p.writeIndent()
	if m.Public {
		p.write("public ")
	}
	p.write(typeString(m.ReturnType) + " " + identName(m.Name) + "(")
	for i, param := range m.Params {
		if i > 0 {
			p.write(", ")
		}
		p.write(typeString(param.Type) + " " + identName(param.Name))
	}
	p.write(") {")
	p.newline()
	p.indent++

	p.printBody(m.Vars, m.Body)

	if m.Return != nil {
		line := m.Return.Span().Start.Line
		p.emitCommentsBeforeLine(line)
		p.writeIndent()
		p.write("return ")
		p.printExpr(m.Return)
		p.write(";")
		p.emitTrailingLineComment(m.Return.Span().End.Line)
		p.mark(m.Return.Span().End.Line)
		p.newline()
	}

	p.emitCommentsBeforeLine(m.Span().End.Line)
	p.indent--
	p.writeIndent()
	p.write("}")
	p.newline()
}

func (p *PrettyPrinter) printBody(vars []*parser.VarDecl, stmts []parser.Stmt) {
	for _, v := range vars {
		p.printDecl(v.Span(), v.Mutability, v.Type, v.Name)
	}
	for _, s := range stmts {
		p.printStmt(s)
	}
}

func (p *PrettyPrinter) printStmt(s parser.Stmt) {
	p.emitCommentsBeforeLine(s.Span().Start.Line)
	p.writeIndent()
	p.printStmtInline(s)
	p.emitTrailingLineComment(s.Span().End.Line)
	p.mark(s.Span().End.Line)
	p.newline()
}

// printStmtInline writes s starting at the current column, without the
// final newline.
func (p *PrettyPrinter) printStmtInline(s parser.Stmt) {
	switch s := s.(type) {
	case *parser.BlockStmt:
		p.printBlock(s)
	case *parser.PrintStmt:
		p.write("System.out.println(")
		p.printExpr(s.Value)
		p.write(");")
	case *parser.AssignStmt:
		p.write(identName(s.Name) + " = ")
		p.printExpr(s.Value)
		p.write(";")
	case *parser.ArrayAssignStmt:
		p.write(identName(s.Name) + "[")
		p.printExpr(s.Index)
		p.write("] = ")
		p.printExpr(s.Value)
		p.write(";")
	case *parser.WhileStmt:
		p.write("while (")
		p.printExpr(s.Cond)
		p.write(")")
		p.printNested(s.Body)
	case *parser.IfStmt:
		p.printIf(s)
	}
}

func (p *PrettyPrinter) printIf(s *parser.IfStmt) {
	p.write("if (")
	p.printExpr(s.Cond)
	p.write(")")
	p.printNested(s.Then)

	if _, ok := s.Then.(*parser.BlockStmt); ok {
		p.write(" else")
	} else {
		p.newline()
		p.writeIndent()
		p.write("else")
	}

	if elseIf, ok := s.Else.(*parser.IfStmt); ok {
		p.write(" ")
		p.printIf(elseIf)
		return
	}
	p.printNested(s.Else)
}

// printNested writes the body of an if or while: blocks stay on the same
// line, single statements go on the next line one level deeper.
func (p *PrettyPrinter) printNested(s parser.Stmt) {
	if s == nil {
		return
	}
	if block, ok := s.(*parser.BlockStmt); ok {
		p.write(" ")
		p.printBlock(block)
		return
	}
	p.newline()
	p.indent++
	p.writeIndent()
	p.printStmtInline(s)
	p.indent--
}

func (p *PrettyPrinter) printBlock(b *parser.BlockStmt) {
	end := b.Span().End.Line
	if len(b.Stmts) == 0 && !p.hasCommentBeforeLine(end) {
		p.write("{}")
		return
	}
	p.write("{")
	p.newline()
	p.indent++
	for _, s := range b.Stmts {
		p.printStmt(s)
	}
	p.emitCommentsBeforeLine(end)
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *PrettyPrinter) printExpr(e parser.Expr) {
	switch e := e.(type) {
	case *parser.IntLit:
		if e.Literal != "" {
			p.write(e.Literal)
		} else {
			p.write(strconv.FormatInt(e.Value, 10))
		}
	case *parser.BoolLit:
		p.write(strconv.FormatBool(e.Value))
	case *parser.Ident:
		p.write(e.Name)
	case *parser.ThisExpr:
		p.write("this")
	case *parser.NewObjectExpr:
		p.write("new " + identName(e.Class) + "()")
	case *parser.NewIntArrayExpr:
		p.write("new int[")
		p.printExpr(e.Size)
		p.write("]")
	case *parser.BinaryExpr:
		p.printExpr(e.Left)
		p.write(" " + e.Op.Symbol() + " ")
		p.printExpr(e.Right)
	case *parser.NotExpr:
		p.write("!")
		p.printExpr(e.Operand)
	case *parser.ArrayAccessExpr:
		p.printExpr(e.Array)
		p.write("[")
		p.printExpr(e.Index)
		p.write("]")
	case *parser.ArrayLengthExpr:
		p.printExpr(e.Array)
		p.write(".length")
	case *parser.MethodCallExpr:
		p.printExpr(e.Receiver)
		p.write("." + identName(e.Method) + "(")
		for i, arg := range e.Args {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(arg)
		}
		p.write(")")
	case *parser.ParenExpr:
		p.write("(")
		p.printExpr(e.Inner)
		p.write(")")
	}
}

func (p *PrettyPrinter) writeIndent() {
	if !p.atLineStart {
		return
	}
	for i := 0; i < p.indent; i++ {
		p.write(p.indentStr)
	}
	p.atLineStart = false
}

func (p *PrettyPrinter) write(s string) {
	if p.err != nil || s == "" {
		return
	}
	_, p.err = io.WriteString(p.w, s)
	p.wrote = true
	p.emptyLine = false
}

func (p *PrettyPrinter) newline() {
	empty := p.atLineStart
	p.write("\n")
	p.atLineStart = true
	p.emptyLine = empty
}

// mark records the source line of the construct just printed so blank
// lines before comments can be preserved.
func (p *PrettyPrinter) mark(line int) {
	if line > p.lastLine {
		p.lastLine = line
	}
}

func typeString(t parser.Type) string {
	switch t := t.(type) {
	case *parser.IntType:
		return "int"
	case *parser.BooleanType:
		return "boolean"
	case *parser.IntArrayType:
		return "int[]"
	case *parser.ClassType:
		return identName(t.Name)
	}
	return ""
}

func identName(id *parser.Ident) string {
	if id == nil {
		return ""
	}
	return id.Name
}

// SyntaxError is returned by Format for source that does not parse.
type SyntaxError struct {
	Diagnostics parser.Diagnostics
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("cannot format source with errors: %s", e.Diagnostics.Err())
}

func (e *SyntaxError) Unwrap() error {
	return e.Diagnostics.Err()
}

// Format parses src and returns it pretty printed. Source that does not
// parse is returned as an error carrying every diagnostic.
func Format(src []byte) ([]byte, error) {
	return FormatFile(src, "")
}

func FormatFile(src []byte, filename string) ([]byte, error) {
	opts := []parser.Option{parser.WithComments()}
	if filename != "" {
		opts = append(opts, parser.WithFile(filename))
	}
	pr := parser.ParseProgram(bytes.NewReader(src), opts...)
	prog := pr.Finish()
	if err := pr.Err(); err != nil {
		return nil, err
	}
	if prog == nil {
		return nil, &SyntaxError{Diagnostics: pr.Diagnostics()}
	}

	var buf bytes.Buffer
	pp := NewPrettyPrinter(&buf)
	if err := pp.Print(prog, pr.Comments()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
