// Package help holds the built-in Lox reference text.
package help

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thomasrohde/golox/pkg/interpreter"
	"github.com/thomasrohde/golox/pkg/stdlib"
)

// Version is reported by the CLI and the language server.
const Version = "v0.1.0"

// QUICKREF is printed by `lox help` with no topic.
const QUICKREF = `Lox ` + Version + ` quick reference

USAGE
  lox                      start the REPL
  lox <file>               run a script
  lox run <file> [--json] [--trace out.jsonl]
  lox check <file> [--json]
  lox ast <file>
  lox repl | lsp | config
  lox trace <file.jsonl>
  lox help [topic]

EXIT CODES
  0 ok, 64 usage, 65 static error, 70 runtime error, 74 I/O error

TOPICS (lox help <topic>, prefixes accepted)
  syntax       statements, expressions, operators
  classes      classes, inheritance, this and super
  closures     functions, scoping and closures
  natives      built-in functions
  diagnostics  error codes and their meaning
  config       lox.toml keys
  examples     short complete programs
`

// Topics maps help topic names to their content.
var Topics = map[string]string{
	"syntax": `SYNTAX

  var name = expr;            declare (initializer optional, defaults to nil)
  print expr;                 print a value and a newline
  { ... }                     block with its own scope
  if (cond) stmt else stmt
  while (cond) stmt
  for (init; cond; step) stmt
  fun name(a, b) { ... }
  return expr;
  class Name < Super { method() { ... } }

Operators, lowest precedence first:
  =   or   and   == !=   < <= > >=   + -   * /   ! -(unary)   call . 

Only nil and false are falsey. "and"/"or" return an operand, not a boolean.
"+" adds numbers or concatenates strings; mixing them is an error.
Division by zero yields Infinity, -Infinity or NaN.
`,
	"classes": `CLASSES

  class Point {
    init(x, y) { this.x = x; this.y = y; }
    sum() { return this.x + this.y; }
  }
  var p = Point(1, 2);        calling a class constructs an instance
  print p.sum();

init runs on construction with the class's arguments and always yields
the instance. Fields are created by assignment and shadow methods.
Methods looked up through an instance are bound: this keeps referring to
that instance wherever the method value travels.

  class Child < Point {
    sum() { return super.sum() * 2; }
  }

super.method starts the lookup at the superclass of the class containing
the method, not at the instance's class.
`,
	"closures": `CLOSURES

Scopes are lexical: a name refers to the declaration visible where it is
written, fixed before the program runs.

  fun makeCounter() {
    var i = 0;
    fun count() { i = i + 1; return i; }
    return count;
  }
  var c = makeCounter();
  print c();   // 1
  print c();   // 2

Functions capture variables, not values. Recursion deeper than the
configured call depth is reported as a stack overflow.
`,
	"natives": `NATIVES

  clock()      seconds since the Unix epoch, as a number with a
               fractional part; successive calls never decrease
`,
	"diagnostics": `DIAGNOSTICS

Static errors (exit 65) stop the program before it runs:
  E_LEX                  unexpected character, unterminated string
  E_PARSE                syntax error
  E_REDECLARE            variable declared twice in one local scope
  E_SELF_INIT            local read in its own initializer
  E_RETURN_TOP           return outside a function
  E_THIS_OUTSIDE         this outside a class
  E_SUPER_OUTSIDE        super outside a class
  E_SUPER_NO_SUPERCLASS  super in a class without a superclass
  E_INHERIT_SELF         class inherits from itself

Warnings do not block execution:
  E_RETURN_INIT          value returned from init (the instance is used)

Runtime errors (exit 70) halt at the first failure:
  E_UNDEFINED_VARIABLE, E_UNDEFINED_PROPERTY, E_TYPE, E_ARITY,
  E_STACK_OVERFLOW

Pass --json to run or check for machine-readable output.
`,
	"config": `CONFIG

lox.toml is searched from the current directory upward, then
~/.lox/config.toml is tried. Print the effective values with lox config.

  [interpreter]
  max-call-depth = 2048

  [repl]
  prompt = "> "
  continuation = ". "
  history = "~/.lox/history"

  [log]
  verbosity = 0          # -v flags add to this
  file = ""              # empty logs to stderr

  [diagnostics]
  format = "text"        # or "json"
`,
	"examples": `EXAMPLES

  fun fib(n) { if (n < 2) return n; return fib(n - 1) + fib(n - 2); }
  print fib(20);

  class Doughnut { cook() { print "Fry until golden brown."; } }
  class BostonCream < Doughnut {
    cook() { super.cook(); print "Pipe full of custard."; }
  }
  BostonCream().cook();

  var start = clock();
  for (var i = 0; i < 100000; i = i + 1) {}
  print clock() - start;
`,
}

// TopicList is the display order of topics.
var TopicList = []string{"syntax", "classes", "closures", "natives", "diagnostics", "config", "examples"}

// MatchTopic finds a topic by exact name or unique prefix.
func MatchTopic(query string) (name, content string, err error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if c, ok := Topics[query]; ok {
		return query, c, nil
	}

	var matches []string
	for _, t := range TopicList {
		if strings.HasPrefix(t, query) {
			matches = append(matches, t)
		}
	}
	switch {
	case query == "" || len(matches) == 0:
		return "", "", fmt.Errorf("unknown help topic %q", query)
	case len(matches) > 1:
		return "", "", fmt.Errorf("ambiguous help topic %q: matches %s", query, strings.Join(matches, ", "))
	}
	return matches[0], Topics[matches[0]], nil
}

// NativeIndex lists the natives in the default registry with their arity.
func NativeIndex() string {
	r := stdlib.Defaults()
	names := r.Names()
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fn := r.Get(name)
		fmt.Fprintf(&b, "  %-12s arity %d  %s\n", name, fn.Arity(), interpreter.Stringify(fn))
	}
	fmt.Fprintf(&b, "Total: %d functions\n", len(names))
	return b.String()
}
