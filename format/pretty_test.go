package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dhamidi/mjc/minijava/parser"
)

// Helper function to parse a MiniJava expression and pretty print it
func formatExpr(t *testing.T, input string) string {
	t.Helper()
	p := parser.ParseExpression(strings.NewReader(input))
	expr := p.FinishExpr()
	if expr == nil {
		t.Fatalf("parse error for input %q: %v", input, p.Diagnostics())
	}

	var buf bytes.Buffer
	printer := NewPrettyPrinter(&buf)
	printer.printExpr(expr)
	return buf.String()
}

func TestPrintExpr(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"addition", "a+b", "a + b"},
		{"precedence", "1+2*3", "1 + 2 * 3"},
		{"parentheses kept", "(1+2)*3", "(1 + 2) * 3"},
		{"and", "a&&b<c", "a && b < c"},
		{"not", "!a+b", "!a + b"},
		{"length", "a . length", "a.length"},
		{"call", "this.f( 1,x )", "this.f(1, x)"},
		{"new object", "new A( )", "new A()"},
		{"new array", "new int [ n ]", "new int[n]"},
		{"index", "a [ i ] [ j ]", "a[i][j]"},
		{"booleans", "true&&false", "true && false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatExpr(t, tt.input); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatCompactSource(t *testing.T) {
	src := "class M{public static void main(String[] a){while(x<1){x=x+1;}}}" +
		"class B extends A{mutable int x;int f(int[] p,A q){boolean b;if(b){}else x=p.length;return x;}}"
	want := `class M {
    public static void main(String[] a) {
        while (x < 1) {
            x = x + 1;
        }
    }
}

class B extends A {
    mutable int x;

    int f(int[] p, A q) {
        boolean b;
        if (b) {} else
            x = p.length;
        return x;
    }
}
`
	got, err := Format([]byte(src))
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	if string(got) != want {
		t.Errorf("Format() =\n%s\nwant\n%s", got, want)
	}
}

func TestFormatKeepsCanonicalSource(t *testing.T) {
	src := `class Factorial {
    public static void main(String[] a) {
        System.out.println(new Fac().ComputeFac(10));
    }
}

class Fac {
    public int ComputeFac(int num) {
        int num_aux;
        if (num < 1)
            num_aux = 1;
        else
            num_aux = num * (this.ComputeFac(num - 1));
        return num_aux;
    }
}
`
	got, err := Format([]byte(src))
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	if string(got) != src {
		t.Errorf("Format() =\n%s\nwant\n%s", got, src)
	}
}

func TestFormatComments(t *testing.T) {
	src := `// Entry point.
class Main {
    public static void main(String[] a) {
        // say hi
        System.out.println(1); // trailing
    }
}
`
	got, err := Format([]byte(src))
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	if string(got) != src {
		t.Errorf("Format() =\n%s\nwant\n%s", got, src)
	}
}

func TestFormatElseIfChain(t *testing.T) {
	src := "class M { public static void main(String[] a) { if (a) { x = 1; } else if (b) { x = 2; } else { x = 3; } } }"
	want := `class M {
    public static void main(String[] a) {
        if (a) {
            x = 1;
        } else if (b) {
            x = 2;
        } else {
            x = 3;
        }
    }
}
`
	got, err := Format([]byte(src))
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	if string(got) != want {
		t.Errorf("Format() =\n%s\nwant\n%s", got, want)
	}
}

func TestFormatRejectsInvalidSource(t *testing.T) {
	_, err := Format([]byte("class M { public static void main(String[] a) { x = ; } }"))
	if err == nil {
		t.Fatal("Format() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "expected expression") {
		t.Errorf("error %q does not mention the diagnostic", err)
	}
}
