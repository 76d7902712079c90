package format

import (
	"github.com/dhamidi/mjc/minijava/parser"
)

func (p *PrettyPrinter) hasCommentBeforeLine(line int) bool {
	return p.commentIndex < len(p.comments) && p.comments[p.commentIndex].Span.Start.Line < line
}

func (p *PrettyPrinter) emitCommentsBeforeLine(line int) {
	for p.hasCommentBeforeLine(line) {
		p.emitComment(p.comments[p.commentIndex])
	}
}

func (p *PrettyPrinter) emitRemainingComments() {
	for p.commentIndex < len(p.comments) {
		p.emitComment(p.comments[p.commentIndex])
	}
}

func (p *PrettyPrinter) emitComment(comment parser.Token) {
	if !p.atLineStart {
		p.newline()
	}
	if p.wrote && !p.emptyLine && comment.Span.Start.Line > p.lastLine+1 {
		p.newline()
	}
	p.writeIndent()
	p.write(comment.Literal)
	p.newline()
	p.mark(comment.Span.End.Line)
	p.commentIndex++
}

// emitTrailingLineComment emits a line comment that follows code on the
// given line.
func (p *PrettyPrinter) emitTrailingLineComment(line int) {
	if p.commentIndex >= len(p.comments) {
		return
	}
	comment := p.comments[p.commentIndex]
	if comment.Kind == parser.TokenLineComment && comment.Span.Start.Line == line {
		p.write(" ")
		p.write(comment.Literal)
		p.mark(comment.Span.End.Line)
		p.commentIndex++
	}
}
