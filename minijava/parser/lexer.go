package parser

import (
	"fmt"
	"unicode/utf8"
)

const printlnLiteral = "System.out.println"

type Lexer struct {
	input       []byte
	file        string
	pos         int
	line        int
	column      int
	diagnostics Diagnostics
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
	}
}

// Tokenize scans the whole input and returns the tokens the parser
// consumes: trivia is dropped and the slice always ends with one EOF token.
// Error tokens are dropped too; they are reported in the diagnostics.
func Tokenize(input []byte, opts ...Option) ([]Token, Diagnostics) {
	cfg := &Parser{}
	for _, opt := range opts {
		opt(cfg)
	}
	l := NewLexer(input, cfg.file)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Kind.IsTrivia() || tok.Kind == TokenError {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
	return tokens, l.Diagnostics()
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

// Diagnostics returns the lexical errors found so far.
func (l *Lexer) Diagnostics() Diagnostics {
	return l.diagnostics
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) errorf(span Span, format string, args ...any) {
	l.diagnostics = append(l.diagnostics, Diagnostic{
		Severity: SeverityError,
		Phase:    PhaseLexical,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

func (l *Lexer) NextToken() Token {
	startPos := l.Position()

	if l.atEOF() {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	ch := l.peek()

	if ch == '/' && l.peekN(1) == '/' {
		return l.scanLineComment(startPos)
	}
	if ch == '/' && l.peekN(1) == '*' {
		return l.scanBlockComment(startPos)
	}

	if isWhitespace(ch) {
		return l.scanWhitespace(startPos)
	}

	if isLetter(ch) {
		return l.scanIdentOrKeyword(startPos)
	}

	if isDigit(ch) {
		return l.scanNumber(startPos)
	}

	return l.scanOperator(startPos)
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for isWhitespace(l.peek()) {
		l.advance()
	}
	return l.token(TokenWhitespace, start)
}

func (l *Lexer) scanLineComment(start Position) Token {
	l.advanceN(2)
	for !l.atEOF() && l.peek() != '\n' {
		l.advance()
	}
	return l.token(TokenLineComment, start)
}

func (l *Lexer) scanBlockComment(start Position) Token {
	l.advanceN(2)
	for {
		if l.atEOF() {
			tok := l.token(TokenError, start)
			l.errorf(Span{Start: start, End: start}, "unterminated block comment")
			return tok
		}
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			break
		}
		l.advance()
	}
	return l.token(TokenComment, start)
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for isLetterOrDigit(l.peek()) {
		l.advance()
	}
	literal := string(l.input[start.Offset:l.pos])

	// "System.out.println" is one token; anything else starting with
	// "System" is an ordinary identifier.
	if literal == "System" {
		rest := l.input[l.pos:]
		tail := printlnLiteral[len("System"):]
		if len(rest) >= len(tail) && string(rest[:len(tail)]) == tail {
			if len(rest) == len(tail) || !isLetterOrDigit(rest[len(tail)]) {
				l.advanceN(len(tail))
				return l.token(TokenPrintln, start)
			}
		}
	}

	return Token{
		Kind:    LookupKeyword(literal),
		Span:    Span{Start: start, End: l.Position()},
		Literal: literal,
	}
}

func (l *Lexer) scanNumber(start Position) Token {
	for isDigit(l.peek()) {
		l.advance()
	}
	tok := l.token(TokenIntLiteral, start)
	if len(tok.Literal) > 1 && tok.Literal[0] == '0' {
		l.errorf(tok.Span, "integer literal %s has a leading zero", tok.Literal)
	}
	return tok
}

func (l *Lexer) scanOperator(start Position) Token {
	ch := l.peek()

	switch ch {
	case '(':
		l.advance()
		return l.token(TokenLParen, start)
	case ')':
		l.advance()
		return l.token(TokenRParen, start)
	case '{':
		l.advance()
		return l.token(TokenLBrace, start)
	case '}':
		l.advance()
		return l.token(TokenRBrace, start)
	case '[':
		l.advance()
		return l.token(TokenLBracket, start)
	case ']':
		l.advance()
		return l.token(TokenRBracket, start)
	case ';':
		l.advance()
		return l.token(TokenSemicolon, start)
	case ',':
		l.advance()
		return l.token(TokenComma, start)
	case '.':
		l.advance()
		return l.token(TokenDot, start)
	case '=':
		l.advance()
		return l.token(TokenAssign, start)
	case '!':
		l.advance()
		return l.token(TokenNot, start)
	case '<':
		l.advance()
		return l.token(TokenLT, start)
	case '>':
		l.advance()
		return l.token(TokenGT, start)
	case '+':
		l.advance()
		return l.token(TokenPlus, start)
	case '-':
		l.advance()
		return l.token(TokenMinus, start)
	case '*':
		l.advance()
		return l.token(TokenStar, start)
	case '&':
		if l.peekN(1) == '&' {
			l.advanceN(2)
			return l.token(TokenAnd, start)
		}
		l.advance()
		tok := l.token(TokenError, start)
		l.errorf(tok.Span, "unexpected character '&' (did you mean '&&'?)")
		return tok
	}

	// Skip one whole rune so multi-byte input yields one diagnostic.
	_, size := utf8.DecodeRune(l.input[l.pos:])
	l.advanceN(size)
	tok := l.token(TokenError, start)
	l.errorf(tok.Span, "unexpected character '%s'", tok.Literal)
	return tok
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isLetterOrDigit(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_'
}
