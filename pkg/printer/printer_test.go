package printer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/thomasrohde/golox/pkg/parser"
	"github.com/thomasrohde/golox/pkg/printer"
)

func printSource(t *testing.T, source string) string {
	t.Helper()
	prog, diags := parser.Parse(source, "test.lox")
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	return printer.Print(prog)
}

func TestPrint(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "precedence",
			source: "print 1 + 2 * (3 - -4);",
			want:   "(print (+ 1 (* 2 (group (- 3 (- 4))))))\n",
		},
		{
			name:   "literals",
			source: `var a = "hi"; var b = nil; var c = true; var d = 2.5; var e;`,
			want:   "(var a \"hi\")\n(var b nil)\n(var c true)\n(var d 2.5)\n(var e)\n",
		},
		{
			name:   "logical and assignment",
			source: "a = b or c and !d;",
			want:   "(; (= a (or b (and c (! d)))))\n",
		},
		{
			name:   "for desugars to while",
			source: "for (var i = 0; i < 3; i = i + 1) print i;",
			want: `(block
  (var i 0)
  (while (< i 3)
    (block
      (print i)
      (; (= i (+ i 1))))))
`,
		},
		{
			name:   "function",
			source: "fun add(a, b) { return a + b; }",
			want: `(fun add (a b)
  (return (+ a b)))
`,
		},
		{
			name:   "class with superclass",
			source: "class B < A { init(x) { this.x = x; } get() { return super.get(); } }",
			want: `(class B < A
  (method init (x)
    (; (set this x x)))
  (method get ()
    (return (call (super get)))))
`,
		},
		{
			name:   "if else and calls",
			source: "if (f(1, 2).y) print 1; else return;",
			want: `(if-else (. (call f 1 2) y)
  (print 1)
  (return))
`,
		},
		{
			name:   "empty class and block",
			source: "class E {} {}",
			want:   "(class E)\n(block)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := printSource(t, tt.source)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Print mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPrintEmptyProgram(t *testing.T) {
	if got := printSource(t, ""); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}
