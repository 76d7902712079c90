package parser

import "fmt"

// Position is a location in a source file. Offset is a 0-based byte offset.
// Line and Column are 1-based, and Column counts bytes, like go/token.
type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}

// Contains reports whether the 1-based line/column falls inside the span.
func (s Span) Contains(line, column int) bool {
	if line < s.Start.Line || line > s.End.Line {
		return false
	}
	if line == s.Start.Line && column < s.Start.Column {
		return false
	}
	if line == s.End.Line && column >= s.End.Column {
		return false
	}
	return true
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenLineComment

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenTrue
	TokenFalse

	// Keywords
	TokenBoolean
	TokenClass
	TokenElse
	TokenExtends
	TokenIf
	TokenInt
	TokenLength
	TokenMain
	TokenMutable
	TokenNew
	TokenPublic
	TokenRecur
	TokenReturn
	TokenStatic
	TokenString
	TokenThis
	TokenVoid
	TokenWhile
	TokenPrintln

	// Operators and punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot

	TokenAssign
	TokenLT
	TokenGT
	TokenAnd
	TokenNot
	TokenPlus
	TokenMinus
	TokenStar
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:          "EOF",
	TokenError:        "Error",
	TokenWhitespace:   "Whitespace",
	TokenComment:      "Comment",
	TokenLineComment:  "LineComment",
	TokenIdent:        "Identifier",
	TokenIntLiteral:   "IntLiteral",
	TokenTrue:         "true",
	TokenFalse:        "false",
	TokenBoolean:      "boolean",
	TokenClass:        "class",
	TokenElse:         "else",
	TokenExtends:      "extends",
	TokenIf:           "if",
	TokenInt:          "int",
	TokenLength:       "length",
	TokenMain:         "main",
	TokenMutable:      "mutable",
	TokenNew:          "new",
	TokenPublic:       "public",
	TokenRecur:        "recur",
	TokenReturn:       "return",
	TokenStatic:       "static",
	TokenString:       "String",
	TokenThis:         "this",
	TokenVoid:         "void",
	TokenWhile:        "while",
	TokenPrintln:      "System.out.println",
	TokenLParen:       "(",
	TokenRParen:       ")",
	TokenLBrace:       "{",
	TokenRBrace:       "}",
	TokenLBracket:     "[",
	TokenRBracket:     "]",
	TokenSemicolon:    ";",
	TokenComma:        ",",
	TokenDot:          ".",
	TokenAssign:       "=",
	TokenLT:           "<",
	TokenGT:           ">",
	TokenAnd:          "&&",
	TokenNot:          "!",
	TokenPlus:         "+",
	TokenMinus:        "-",
	TokenStar:         "*",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsTrivia reports whether tokens of this kind are dropped before parsing.
func (k TokenKind) IsTrivia() bool {
	return k == TokenWhitespace || k == TokenComment || k == TokenLineComment
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

func (t Token) String() string {
	switch t.Kind {
	case TokenIdent, TokenIntLiteral, TokenError:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Literal)
	}
	return t.Kind.String()
}

// describe renders a token the way diagnostics quote it.
func (t Token) describe() string {
	switch t.Kind {
	case TokenEOF:
		return "end of file"
	case TokenIdent:
		return fmt.Sprintf("identifier %q", t.Literal)
	case TokenIntLiteral:
		return fmt.Sprintf("integer %s", t.Literal)
	}
	return fmt.Sprintf("'%s'", t.Literal)
}

var keywords = map[string]TokenKind{
	"boolean": TokenBoolean,
	"class":   TokenClass,
	"else":    TokenElse,
	"extends": TokenExtends,
	"false":   TokenFalse,
	"if":      TokenIf,
	"int":     TokenInt,
	"length":  TokenLength,
	"main":    TokenMain,
	"mutable": TokenMutable,
	"new":     TokenNew,
	"public":  TokenPublic,
	"recur":   TokenRecur,
	"return":  TokenReturn,
	"static":  TokenStatic,
	"String":  TokenString,
	"this":    TokenThis,
	"true":    TokenTrue,
	"void":    TokenVoid,
	"while":   TokenWhile,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}
