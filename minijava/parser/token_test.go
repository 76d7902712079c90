package parser

import (
	"testing"
)

func TestTokenKindString(t *testing.T) {
	tests := []struct {
		kind TokenKind
		want string
	}{
		{TokenEOF, "EOF"},
		{TokenError, "Error"},
		{TokenIdent, "Identifier"},
		{TokenIntLiteral, "IntLiteral"},
		{TokenTrue, "true"},
		{TokenClass, "class"},
		{TokenMutable, "mutable"},
		{TokenPrintln, "System.out.println"},
		{TokenLBracket, "["},
		{TokenAnd, "&&"},
		{TokenKind(9999), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("TokenKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		ident string
		want  TokenKind
	}{
		{"boolean", TokenBoolean},
		{"class", TokenClass},
		{"else", TokenElse},
		{"extends", TokenExtends},
		{"false", TokenFalse},
		{"if", TokenIf},
		{"int", TokenInt},
		{"length", TokenLength},
		{"main", TokenMain},
		{"mutable", TokenMutable},
		{"new", TokenNew},
		{"public", TokenPublic},
		{"recur", TokenRecur},
		{"return", TokenReturn},
		{"static", TokenStatic},
		{"String", TokenString},
		{"this", TokenThis},
		{"true", TokenTrue},
		{"void", TokenVoid},
		{"while", TokenWhile},
		{"string", TokenIdent},
		{"Main", TokenIdent},
		{"System", TokenIdent},
		{"null", TokenIdent},
	}

	for _, tt := range tests {
		t.Run(tt.ident, func(t *testing.T) {
			if got := LookupKeyword(tt.ident); got != tt.want {
				t.Errorf("LookupKeyword(%q) = %v, want %v", tt.ident, got, tt.want)
			}
		})
	}
}

func TestTokenKindIsTrivia(t *testing.T) {
	for _, kind := range []TokenKind{TokenWhitespace, TokenComment, TokenLineComment} {
		if !kind.IsTrivia() {
			t.Errorf("%v.IsTrivia() = false, want true", kind)
		}
	}
	for _, kind := range []TokenKind{TokenEOF, TokenError, TokenIdent, TokenSemicolon} {
		if kind.IsTrivia() {
			t.Errorf("%v.IsTrivia() = true, want false", kind)
		}
	}
}

func TestPositionString(t *testing.T) {
	pos := Position{File: "Main.java", Offset: 10, Line: 2, Column: 5}
	if got := pos.String(); got != "Main.java:2:5" {
		t.Errorf("String() = %q, want %q", got, "Main.java:2:5")
	}
	pos.File = ""
	if got := pos.String(); got != "2:5" {
		t.Errorf("String() = %q, want %q", got, "2:5")
	}
}

func TestSpanContains(t *testing.T) {
	span := Span{
		Start: Position{Line: 2, Column: 5},
		End:   Position{Line: 4, Column: 3},
	}
	tests := []struct {
		line, column int
		want         bool
	}{
		{1, 10, false},
		{2, 4, false},
		{2, 5, true},
		{3, 1, true},
		{4, 2, true},
		{4, 3, false},
		{5, 1, false},
	}
	for _, tt := range tests {
		if got := span.Contains(tt.line, tt.column); got != tt.want {
			t.Errorf("Contains(%d, %d) = %v, want %v", tt.line, tt.column, got, tt.want)
		}
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Kind: TokenIdent, Literal: "foo"}, "Identifier(foo)"},
		{Token{Kind: TokenIntLiteral, Literal: "42"}, "IntLiteral(42)"},
		{Token{Kind: TokenWhile, Literal: "while"}, "while"},
		{Token{Kind: TokenEOF}, "EOF"},
	}
	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestDiagnosticExpectedString(t *testing.T) {
	tests := []struct {
		expected []TokenKind
		want     string
	}{
		{nil, ""},
		{[]TokenKind{TokenSemicolon}, "';'"},
		{[]TokenKind{TokenLength, TokenIdent}, "'length' or 'Identifier'"},
		{[]TokenKind{TokenInt, TokenBoolean, TokenIdent}, "'int', 'boolean' or 'Identifier'"},
	}
	for _, tt := range tests {
		d := Diagnostic{Expected: tt.expected}
		if got := d.ExpectedString(); got != tt.want {
			t.Errorf("ExpectedString() = %q, want %q", got, tt.want)
		}
	}
}

func TestDiagnosticsSortAndErr(t *testing.T) {
	at := func(offset int, phase Phase) Diagnostic {
		return Diagnostic{
			Phase:   phase,
			Message: phase.String(),
			Span:    Span{Start: Position{Offset: offset, Line: 1, Column: offset + 1}},
		}
	}
	ds := Diagnostics{at(9, PhaseSyntactic), at(3, PhaseSyntactic), at(3, PhaseLexical)}
	ds.Sort()

	if ds[0].Phase != PhaseLexical || ds[0].Span.Start.Offset != 3 {
		t.Errorf("ds[0] = %+v, want lexical at offset 3", ds[0])
	}
	if ds[1].Phase != PhaseSyntactic || ds[1].Span.Start.Offset != 3 {
		t.Errorf("ds[1] = %+v, want syntax at offset 3", ds[1])
	}
	if ds[2].Span.Start.Offset != 9 {
		t.Errorf("ds[2] offset = %d, want 9", ds[2].Span.Start.Offset)
	}

	if !ds.HasErrors() {
		t.Error("HasErrors() = false, want true")
	}
	if err := ds.Err(); err == nil {
		t.Error("Err() = nil, want error")
	}
	if err := (Diagnostics{}).Err(); err != nil {
		t.Errorf("empty Err() = %v, want nil", err)
	}
	if got := ds[0].Error(); got != "1:4: lexical" {
		t.Errorf("Error() = %q, want %q", got, "1:4: lexical")
	}
}
