package parser

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	}
	return "unknown"
}

// Phase tells which stage of the front end found the problem.
type Phase int

const (
	PhaseLexical Phase = iota
	PhaseSyntactic
)

func (p Phase) String() string {
	switch p {
	case PhaseLexical:
		return "lexical"
	case PhaseSyntactic:
		return "syntax"
	}
	return "unknown"
}

type Diagnostic struct {
	Severity Severity
	Phase    Phase
	Message  string
	Span     Span
	Expected []TokenKind
	Got      *Token
}

func (d Diagnostic) Line() int   { return d.Span.Start.Line }
func (d Diagnostic) Column() int { return d.Span.Start.Column }

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Span.Start, d.Message)
}

// ExpectedString lists the acceptable tokens as "'a', 'b' or 'c'".
func (d Diagnostic) ExpectedString() string {
	if len(d.Expected) == 0 {
		return ""
	}
	names := make([]string, len(d.Expected))
	for i, k := range d.Expected {
		names[i] = "'" + k.String() + "'"
	}
	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}

type Diagnostics []Diagnostic

func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Err returns nil when there are no diagnostics, otherwise an error
// joining all of them in source order.
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	errs := make([]error, len(ds))
	for i, d := range ds {
		errs[i] = d
	}
	return errors.Join(errs...)
}

// Sort orders diagnostics by position, lexical before syntactic on ties.
func (ds Diagnostics) Sort() {
	sort.SliceStable(ds, func(i, j int) bool {
		a, b := ds[i].Span.Start, ds[j].Span.Start
		if a.Offset != b.Offset {
			return a.Offset < b.Offset
		}
		return ds[i].Phase < ds[j].Phase
	})
}
