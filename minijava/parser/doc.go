// Package parser turns MiniJava source text into a typed syntax tree.
//
// # Overview
//
// Parsing runs in two stages. The lexer splits bytes into tokens with
// precise positions, and the parser builds the tree by recursive descent
// with one function per precedence level for expressions.
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │   (AST)     │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                           │                   │
//	                           ▼                   ▼
//	                    ┌──────────────────────────────┐
//	                    │         Diagnostics          │
//	                    └──────────────────────────────┘
//
// # Entry Points
//
//	// Tokenize returns the significant tokens of input, ending in EOF.
//	func Tokenize(input []byte, opts ...Option) ([]Token, Diagnostics)
//
//	// Parse builds a Program from tokens.
//	func Parse(tokens []Token) (*Program, Diagnostics)
//
//	// ParseProgram and ParseExpression read from an io.Reader; call
//	// Finish or FinishExpr to run them.
//	func ParseProgram(r io.Reader, opts ...Option) *Parser
//	func ParseExpression(r io.Reader, opts ...Option) *Parser
//
// A tree is only returned when no error was found. Otherwise the result
// is nil and every problem is listed in the diagnostics, ordered by
// position.
//
// # Error Recovery
//
// The parser never panics on malformed input. A missing token is reported
// and parsing continues as if it had been present. After an error the
// parser stops reporting until it has matched a token again, then skips
// to a statement or member boundary:
//
//  1. Statement level: past the next ';', or up to '}' or a token that
//     starts a statement or declaration
//  2. Member level: up to the next field or method
//  3. Top level: up to the next 'class'
//
// Independent mistakes in one file are therefore each reported once.
//
// # Operators
//
// From lowest to highest precedence:
//
//	&&              left associative
//	<  >            do not chain
//	+  -            left associative, one level
//	*               left associative
//	!               operand is an additive expression
//	.length .m() [] postfix, chain freely
//
// # Thread Safety
//
// A Parser is not safe for concurrent use. Trees are never modified after
// construction and may be shared freely.
//
// # Example Usage
//
//	p := parser.ParseProgram(f, parser.WithFile("Factorial.java"))
//	prog := p.Finish()
//	if prog == nil {
//	    for _, d := range p.Diagnostics() {
//	        fmt.Println(d)
//	    }
//	}
package parser
