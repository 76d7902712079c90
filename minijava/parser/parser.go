package parser

import (
	"fmt"
	"io"
	"strconv"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithComments keeps comment tokens so they can be retrieved with
// Comments after Finish.
func WithComments() Option {
	return func(p *Parser) {
		p.includeComments = true
	}
}

type Parser struct {
	file            string
	includeComments bool
	reader          io.Reader
	input           []byte
	readErr         error
	tokens          []Token
	comments        []Token
	pos             int
	diagnostics     Diagnostics
	recovering      bool
}

// ParseProgram prepares a parser for a complete MiniJava source file.
// Nothing is read until Finish is called.
func ParseProgram(r io.Reader, opts ...Option) *Parser {
	p := &Parser{reader: r}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseExpression prepares a parser for a single expression; use
// FinishExpr to run it.
func ParseExpression(r io.Reader, opts ...Option) *Parser {
	return ParseProgram(r, opts...)
}

// Parse builds a Program from an already tokenized stream. Trivia and
// error tokens are ignored and a missing EOF is implied. The program is
// nil whenever an error diagnostic is returned.
func Parse(tokens []Token) (*Program, Diagnostics) {
	p := &Parser{}
	p.load(tokens)
	prog := p.parseProgram()
	if p.diagnostics.HasErrors() {
		return nil, p.diagnostics
	}
	return prog, p.diagnostics
}

func (p *Parser) readAll() error {
	if p.input != nil || p.readErr != nil {
		return p.readErr
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		p.readErr = fmt.Errorf("read source: %w", err)
		return p.readErr
	}
	if data == nil {
		data = []byte{}
	}
	p.input = data
	return nil
}

// Err returns the error encountered while reading the input, if any.
func (p *Parser) Err() error {
	return p.readErr
}

func (p *Parser) Diagnostics() Diagnostics {
	return p.diagnostics
}

func (p *Parser) Comments() []Token {
	return p.comments
}

// Source returns the bytes read from the input.
func (p *Parser) Source() []byte {
	return p.input
}

// Finish reads the input, tokenizes and parses it. It returns nil when the
// input could not be read or when any lexical or syntax error was found;
// the errors are available from Err and Diagnostics.
func (p *Parser) Finish() *Program {
	if !p.prepare() {
		return nil
	}
	prog := p.parseProgram()
	p.diagnostics.Sort()
	if p.diagnostics.HasErrors() {
		return nil
	}
	return prog
}

// FinishExpr is Finish for parsers created with ParseExpression.
func (p *Parser) FinishExpr() Expr {
	if !p.prepare() {
		return nil
	}
	expr := p.parseExpression()
	if !p.check(TokenEOF) {
		p.errorAt(p.peek(), "unexpected "+p.peek().describe()+" after expression")
	}
	p.diagnostics.Sort()
	if p.diagnostics.HasErrors() {
		return nil
	}
	return expr
}

func (p *Parser) Reset(r io.Reader) {
	p.reader = r
	p.input = nil
	p.readErr = nil
	p.tokens = nil
	p.comments = nil
	p.pos = 0
	p.diagnostics = nil
	p.recovering = false
}

func (p *Parser) prepare() bool {
	if err := p.readAll(); err != nil {
		return false
	}
	p.diagnostics = nil
	p.comments = nil
	p.pos = 0
	p.recovering = false

	lexer := NewLexer(p.input, p.file)
	var tokens []Token
	for {
		tok := lexer.NextToken()
		if tok.Kind == TokenComment || tok.Kind == TokenLineComment {
			if p.includeComments {
				p.comments = append(p.comments, tok)
			}
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
	p.diagnostics = append(p.diagnostics, lexer.Diagnostics()...)
	p.load(tokens)
	return true
}

func (p *Parser) load(tokens []Token) {
	p.tokens = p.tokens[:0]
	for _, tok := range tokens {
		if tok.Kind.IsTrivia() || tok.Kind == TokenError {
			continue
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
	if n := len(p.tokens); n == 0 || p.tokens[n-1].Kind != TokenEOF {
		var end Position
		if n > 0 {
			end = p.tokens[n-1].Span.End
		} else {
			end = Position{File: p.file, Line: 1, Column: 1}
		}
		p.tokens = append(p.tokens, Token{Kind: TokenEOF, Span: Span{Start: end, End: end}})
	}
	p.pos = 0
}

func (p *Parser) peek() Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

// expect consumes a token of the given kind. On mismatch it reports the
// error and consumes nothing, as if the missing token had been inserted.
func (p *Parser) expect(kind TokenKind) *Token {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		p.recovering = false
		return &tok
	}
	p.errorExpected(kind)
	return nil
}

func (p *Parser) expectIdent() *Ident {
	tok := p.peek()
	if tok.Kind == TokenIdent {
		p.advance()
		p.recovering = false
		return &Ident{node: node{Loc: tok.Span}, Name: tok.Literal}
	}
	if tok.Kind == TokenRecur {
		p.errorAt(tok, "'recur' is a reserved word and cannot be used as a name", TokenIdent)
		return nil
	}
	p.errorExpected(TokenIdent)
	return nil
}

func (p *Parser) errorExpected(expected ...TokenKind) {
	d := Diagnostic{Expected: expected}
	tok := p.peek()
	p.errorAt(tok, fmt.Sprintf("expected %s, got %s", d.ExpectedString(), tok.describe()), expected...)
}

// errorAt records a syntax error and enters recovery mode. While
// recovering, further errors are dropped until a token is matched or the
// parser resynchronizes.
func (p *Parser) errorAt(tok Token, msg string, expected ...TokenKind) {
	if p.recovering {
		return
	}
	p.reject(tok, msg, expected...)
	p.recovering = true
}

// reject records a syntax error for input that was nonetheless parsed, so
// no recovery is needed.
func (p *Parser) reject(tok Token, msg string, expected ...TokenKind) {
	if p.recovering {
		return
	}
	got := tok
	p.diagnostics = append(p.diagnostics, Diagnostic{
		Severity: SeverityError,
		Phase:    PhaseSyntactic,
		Message:  msg,
		Span:     tok.Span,
		Expected: expected,
		Got:      &got,
	})
}

// skipUntil discards tokens until stop reports true. A semicolon ends the
// skip and is consumed.
func (p *Parser) skipUntil(stop func() bool) {
	for !p.check(TokenEOF) {
		if p.check(TokenSemicolon) {
			p.advance()
			p.recovering = false
			return
		}
		if stop() {
			p.recovering = false
			return
		}
		p.advance()
	}
}

func (p *Parser) syncStatement() {
	p.skipUntil(func() bool {
		return p.startsStatement() || p.startsVarDecl() ||
			p.match(TokenRBrace, TokenReturn, TokenClass)
	})
}

func (p *Parser) syncMember() {
	p.skipUntil(func() bool {
		return p.startsMember() || p.match(TokenRBrace, TokenClass)
	})
}

func (p *Parser) finish(start Position) node {
	end := start
	if p.pos > 0 {
		end = p.tokens[p.pos-1].Span.End
	}
	if end.Offset < start.Offset {
		end = start
	}
	return node{Loc: Span{Start: start, End: end}}
}

func (p *Parser) parseProgram() *Program {
	start := p.peek().Span.Start
	prog := &Program{}

	prog.Main = p.parseMainClass()

	for !p.check(TokenEOF) {
		if p.check(TokenClass) {
			prog.Classes = append(prog.Classes, p.parseClassDecl())
			continue
		}
		p.errorAt(p.peek(), "expected class declaration, got "+p.peek().describe(), TokenClass)
		for !p.check(TokenEOF) && !p.check(TokenClass) {
			p.advance()
		}
		p.recovering = false
	}

	prog.node = p.finish(start)
	return prog
}

func (p *Parser) parseMainClass() *MainClass {
	start := p.peek().Span.Start
	mc := &MainClass{}

	p.expect(TokenClass)
	mc.Name = p.expectIdent()
	p.expect(TokenLBrace)
	p.expect(TokenPublic)
	p.expect(TokenStatic)
	p.expect(TokenVoid)
	p.expect(TokenMain)
	p.expect(TokenLParen)
	p.expect(TokenString)
	p.expect(TokenLBracket)
	p.expect(TokenRBracket)
	mc.ArgsName = p.expectIdent()
	p.expect(TokenRParen)
	p.expect(TokenLBrace)
	mc.Vars, mc.Body = p.parseBody(true)
	p.expect(TokenRBrace)
	p.expect(TokenRBrace)

	mc.node = p.finish(start)
	return mc
}

func (p *Parser) parseClassDecl() ClassDecl {
	start := p.peek().Span.Start
	p.expect(TokenClass)
	name := p.expectIdent()

	var super *Ident
	derived := false
	if p.check(TokenExtends) {
		p.advance()
		derived = true
		super = p.expectIdent()
	}

	fields, methods := p.parseClassBody()
	if derived {
		return &DerivedClass{node: p.finish(start), Name: name, Super: super, Fields: fields, Methods: methods}
	}
	return &BaseClass{node: p.finish(start), Name: name, Fields: fields, Methods: methods}
}

func (p *Parser) parseClassBody() ([]*FieldDecl, []*MethodDecl) {
	var fields []*FieldDecl
	var methods []*MethodDecl

	p.expect(TokenLBrace)
	for !p.match(TokenRBrace, TokenEOF, TokenClass) {
		if !p.startsMember() {
			p.errorAt(p.peek(), "expected field or method declaration, got "+p.peek().describe(),
				TokenPublic, TokenMutable, TokenInt, TokenBoolean, TokenIdent, TokenRBrace)
			p.advance()
			p.syncMember()
			continue
		}

		if p.isMethodAhead() {
			methods = append(methods, p.parseMethodDecl())
		} else {
			first := p.peek()
			field := p.parseFieldDecl()
			if len(methods) > 0 {
				p.reject(first, "field declaration after method declaration")
			} else {
				fields = append(fields, field)
			}
		}
		if p.recovering {
			p.syncMember()
		}
	}
	p.expect(TokenRBrace)
	return fields, methods
}

func (p *Parser) startsMember() bool {
	switch p.peek().Kind {
	case TokenPublic, TokenMutable, TokenInt, TokenBoolean:
		return true
	case TokenIdent:
		return p.peekN(1).Kind == TokenIdent
	}
	return false
}

// isMethodAhead looks past the member's type and name for '('.
func (p *Parser) isMethodAhead() bool {
	if p.check(TokenPublic) {
		return true
	}
	if p.check(TokenMutable) {
		return false
	}
	n := p.typeLength(0)
	return p.peekN(n).Kind == TokenIdent && p.peekN(n+1).Kind == TokenLParen
}

// typeLength returns how many tokens the type starting at offset spans.
func (p *Parser) typeLength(offset int) int {
	if p.peekN(offset).Kind == TokenInt &&
		p.peekN(offset+1).Kind == TokenLBracket &&
		p.peekN(offset+2).Kind == TokenRBracket {
		return 3
	}
	return 1
}

func (p *Parser) parseFieldDecl() *FieldDecl {
	start := p.peek().Span.Start
	f := &FieldDecl{}
	if p.check(TokenMutable) {
		p.advance()
		f.Mutability = Mutable
	}
	f.Type = p.parseType()
	f.Name = p.expectIdent()
	p.expect(TokenSemicolon)
	f.node = p.finish(start)
	return f
}

func (p *Parser) parseVarDecl() *VarDecl {
	start := p.peek().Span.Start
	v := &VarDecl{}
	if p.check(TokenMutable) {
		p.advance()
		v.Mutability = Mutable
	}
	v.Type = p.parseType()
	v.Name = p.expectIdent()
	p.expect(TokenSemicolon)
	v.node = p.finish(start)
	return v
}

func (p *Parser) parseMethodDecl() *MethodDecl {
	start := p.peek().Span.Start
	m := &MethodDecl{}

	if p.check(TokenPublic) {
		p.advance()
		m.Public = true
	}
	m.ReturnType = p.parseType()
	m.Name = p.expectIdent()

	p.expect(TokenLParen)
	if !p.check(TokenRParen) {
		for {
			m.Params = append(m.Params, p.parseParam())
			if !p.check(TokenComma) {
				break
			}
			p.advance()
		}
	}
	p.expect(TokenRParen)

	p.expect(TokenLBrace)
	m.Vars, m.Body = p.parseBody(true)
	p.expect(TokenReturn)
	m.Return = p.parseExpression()
	p.expect(TokenSemicolon)
	p.expect(TokenRBrace)

	m.node = p.finish(start)
	return m
}

func (p *Parser) parseParam() *Param {
	start := p.peek().Span.Start
	param := &Param{}
	param.Type = p.parseType()
	param.Name = p.expectIdent()
	param.node = p.finish(start)
	return param
}

func (p *Parser) parseType() Type {
	start := p.peek().Span.Start
	switch p.peek().Kind {
	case TokenInt:
		if p.peekN(1).Kind == TokenLBracket {
			p.advance()
			p.advance()
			p.expect(TokenRBracket)
			return &IntArrayType{node: p.finish(start)}
		}
		p.advance()
		p.recovering = false
		return &IntType{node: p.finish(start)}
	case TokenBoolean:
		p.advance()
		p.recovering = false
		return &BooleanType{node: p.finish(start)}
	case TokenIdent:
		name := p.expectIdent()
		return &ClassType{node: p.finish(start), Name: name}
	}
	p.errorAt(p.peek(), "expected type, got "+p.peek().describe(), TokenInt, TokenBoolean, TokenIdent)
	return nil
}

// parseBody parses the declarations and statements of a method or main
// body, stopping before '}', 'return' or a new class.
func (p *Parser) parseBody(allowVars bool) ([]*VarDecl, []Stmt) {
	var vars []*VarDecl
	if allowVars {
		for p.startsVarDecl() {
			vars = append(vars, p.parseVarDecl())
			if p.recovering {
				p.syncStatement()
			}
		}
	}
	return vars, p.parseStatements()
}

func (p *Parser) parseStatements() []Stmt {
	var stmts []Stmt
	for {
		switch {
		case p.match(TokenRBrace, TokenReturn, TokenClass, TokenEOF):
			return stmts
		case p.startsStatement():
			if s := p.parseStatement(); s != nil {
				stmts = append(stmts, s)
			}
		case p.startsVarDecl():
			p.reject(p.peek(), "variable declaration must precede statements")
			p.parseVarDecl()
		case p.check(TokenRecur):
			p.errorAt(p.peek(), "'recur' is reserved")
			p.advance()
		default:
			p.errorAt(p.peek(), "expected statement, got "+p.peek().describe(), statementStarts...)
			p.advance()
		}
		if p.recovering {
			p.syncStatement()
		}
	}
}

var statementStarts = []TokenKind{TokenLBrace, TokenPrintln, TokenWhile, TokenIf, TokenIdent}

func (p *Parser) startsStatement() bool {
	switch p.peek().Kind {
	case TokenLBrace, TokenPrintln, TokenWhile, TokenIf:
		return true
	case TokenIdent:
		next := p.peekN(1).Kind
		return next == TokenAssign || next == TokenLBracket
	}
	return false
}

func (p *Parser) startsVarDecl() bool {
	switch p.peek().Kind {
	case TokenMutable, TokenInt, TokenBoolean:
		return true
	case TokenIdent:
		return p.peekN(1).Kind == TokenIdent
	}
	return false
}

func (p *Parser) parseStatement() Stmt {
	switch p.peek().Kind {
	case TokenLBrace:
		return p.parseBlock()
	case TokenPrintln:
		return p.parsePrint()
	case TokenWhile:
		return p.parseWhile()
	case TokenIf:
		return p.parseIf()
	case TokenIdent:
		if p.peekN(1).Kind == TokenLBracket {
			return p.parseArrayAssign()
		}
		return p.parseAssign()
	case TokenRecur:
		p.errorAt(p.peek(), "'recur' is reserved")
		return nil
	}
	p.errorAt(p.peek(), "expected statement, got "+p.peek().describe(), statementStarts...)
	return nil
}

func (p *Parser) parseBlock() Stmt {
	start := p.peek().Span.Start
	block := &BlockStmt{}
	p.expect(TokenLBrace)
	block.Stmts = p.parseStatements()
	p.expect(TokenRBrace)
	block.node = p.finish(start)
	return block
}

func (p *Parser) parsePrint() Stmt {
	start := p.peek().Span.Start
	s := &PrintStmt{}
	p.expect(TokenPrintln)
	p.expect(TokenLParen)
	s.Value = p.parseExpression()
	p.expect(TokenRParen)
	p.expect(TokenSemicolon)
	s.node = p.finish(start)
	return s
}

func (p *Parser) parseAssign() Stmt {
	start := p.peek().Span.Start
	s := &AssignStmt{}
	s.Name = p.expectIdent()
	p.expect(TokenAssign)
	s.Value = p.parseExpression()
	p.expect(TokenSemicolon)
	s.node = p.finish(start)
	return s
}

func (p *Parser) parseArrayAssign() Stmt {
	start := p.peek().Span.Start
	s := &ArrayAssignStmt{}
	s.Name = p.expectIdent()
	p.expect(TokenLBracket)
	s.Index = p.parseExpression()
	p.expect(TokenRBracket)
	p.expect(TokenAssign)
	s.Value = p.parseExpression()
	p.expect(TokenSemicolon)
	s.node = p.finish(start)
	return s
}

func (p *Parser) parseWhile() Stmt {
	start := p.peek().Span.Start
	s := &WhileStmt{}
	p.expect(TokenWhile)
	p.expect(TokenLParen)
	s.Cond = p.parseExpression()
	p.expect(TokenRParen)
	s.Body = p.parseStatement()
	s.node = p.finish(start)
	return s
}

func (p *Parser) parseIf() Stmt {
	start := p.peek().Span.Start
	s := &IfStmt{}
	p.expect(TokenIf)
	p.expect(TokenLParen)
	s.Cond = p.parseExpression()
	p.expect(TokenRParen)
	s.Then = p.parseStatement()
	p.expect(TokenElse)
	s.Else = p.parseStatement()
	s.node = p.finish(start)
	return s
}

// Expressions, lowest precedence first:
//
//	&&  <  <,>  <  +,-  <  *  <  !  <  postfix  <  atom
//
// The operand of '!' is an additive expression, so "!a + b" negates the
// sum while "!a < b" compares the negation.

func (p *Parser) parseExpression() Expr {
	return p.parseAndExpr()
}

func (p *Parser) parseAndExpr() Expr {
	start := p.peek().Span.Start
	left := p.parseRelationalExpr()
	for p.check(TokenAnd) {
		p.advance()
		right := p.parseRelationalExpr()
		left = &BinaryExpr{node: p.finish(start), Op: OpAnd, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseRelationalExpr() Expr {
	start := p.peek().Span.Start
	left := p.parseAdditiveExpr()
	for chained := false; p.match(TokenLT, TokenGT); chained = true {
		tok := p.advance()
		if chained {
			p.reject(tok, "comparison operators cannot be chained; use '&&' or parentheses")
		}
		op := OpLess
		if tok.Kind == TokenGT {
			op = OpGreater
		}
		right := p.parseAdditiveExpr()
		left = &BinaryExpr{node: p.finish(start), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAdditiveExpr() Expr {
	start := p.peek().Span.Start
	left := p.parseMultiplicativeExpr()
	for p.match(TokenPlus, TokenMinus) {
		op := OpPlus
		if p.advance().Kind == TokenMinus {
			op = OpMinus
		}
		right := p.parseMultiplicativeExpr()
		left = &BinaryExpr{node: p.finish(start), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicativeExpr() Expr {
	start := p.peek().Span.Start
	left := p.parseUnaryExpr()
	for p.check(TokenStar) {
		p.advance()
		right := p.parseUnaryExpr()
		left = &BinaryExpr{node: p.finish(start), Op: OpMult, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnaryExpr() Expr {
	if p.check(TokenNot) {
		start := p.peek().Span.Start
		p.advance()
		operand := p.parseAdditiveExpr()
		return &NotExpr{node: p.finish(start), Operand: operand}
	}
	return p.parsePostfixExpr()
}

func (p *Parser) parsePostfixExpr() Expr {
	start := p.peek().Span.Start
	expr := p.parseAtom()
	if expr == nil {
		return nil
	}

	for {
		switch p.peek().Kind {
		case TokenLBracket:
			p.advance()
			index := p.parseExpression()
			p.expect(TokenRBracket)
			expr = &ArrayAccessExpr{node: p.finish(start), Array: expr, Index: index}
		case TokenDot:
			p.advance()
			if p.check(TokenLength) {
				p.advance()
				p.recovering = false
				expr = &ArrayLengthExpr{node: p.finish(start), Array: expr}
				continue
			}
			if !p.check(TokenIdent) {
				p.errorExpected(TokenLength, TokenIdent)
				return expr
			}
			method := p.expectIdent()
			args := p.parseArguments()
			expr = &MethodCallExpr{node: p.finish(start), Receiver: expr, Method: method, Args: args}
		default:
			return expr
		}
	}
}

func (p *Parser) parseArguments() []Expr {
	var args []Expr
	p.expect(TokenLParen)
	if !p.check(TokenRParen) {
		for {
			args = append(args, p.parseExpression())
			if !p.check(TokenComma) {
				break
			}
			p.advance()
		}
	}
	p.expect(TokenRParen)
	return args
}

var expressionStarts = []TokenKind{
	TokenIntLiteral, TokenTrue, TokenFalse, TokenIdent, TokenThis, TokenNew, TokenLParen, TokenNot,
}

func (p *Parser) parseAtom() Expr {
	tok := p.peek()
	switch tok.Kind {
	case TokenIntLiteral:
		p.advance()
		p.recovering = false
		lit := &IntLit{node: node{Loc: tok.Span}, Literal: tok.Literal}
		if value, err := strconv.ParseInt(tok.Literal, 10, 64); err == nil {
			lit.Value = value
		} else {
			lit.Overflow = true
		}
		return lit
	case TokenTrue, TokenFalse:
		p.advance()
		p.recovering = false
		return &BoolLit{node: node{Loc: tok.Span}, Value: tok.Kind == TokenTrue}
	case TokenIdent:
		return p.expectIdent()
	case TokenThis:
		p.advance()
		p.recovering = false
		return &ThisExpr{node: node{Loc: tok.Span}}
	case TokenNew:
		return p.parseNewExpr()
	case TokenLParen:
		start := tok.Span.Start
		p.advance()
		p.recovering = false
		inner := p.parseExpression()
		p.expect(TokenRParen)
		return &ParenExpr{node: p.finish(start), Inner: inner}
	case TokenRecur:
		p.errorAt(tok, "'recur' is reserved")
		return nil
	}
	p.errorAt(tok, "expected expression, got "+tok.describe(), expressionStarts...)
	return nil
}

func (p *Parser) parseNewExpr() Expr {
	start := p.peek().Span.Start
	p.expect(TokenNew)

	if p.check(TokenInt) {
		p.advance()
		p.expect(TokenLBracket)
		size := p.parseExpression()
		p.expect(TokenRBracket)
		return &NewIntArrayExpr{node: p.finish(start), Size: size}
	}

	if !p.check(TokenIdent) {
		p.errorExpected(TokenIdent, TokenInt)
		return nil
	}
	class := p.expectIdent()
	p.expect(TokenLParen)
	p.expect(TokenRParen)
	return &NewObjectExpr{node: p.finish(start), Class: class}
}
