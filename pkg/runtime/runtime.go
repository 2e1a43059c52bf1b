// Package runtime provides the top-level Lox runtime orchestrator.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"github.com/thomasrohde/golox/pkg/config"
	"github.com/thomasrohde/golox/pkg/diagnostics"
	"github.com/thomasrohde/golox/pkg/interpreter"
	"github.com/thomasrohde/golox/pkg/parser"
	"github.com/thomasrohde/golox/pkg/printer"
	"github.com/thomasrohde/golox/pkg/resolver"
	"github.com/thomasrohde/golox/pkg/stdlib"
)

var log = commonlog.GetLogger("lox.runtime")

// Runtime wires the lexer, parser, resolver and interpreter together.
// One Runtime keeps a single interpreter, so globals survive across Run
// calls the way a REPL session expects.
type Runtime struct {
	cfg      *config.Config
	natives  *stdlib.Registry
	stdout   io.Writer
	runID    string
	trace    func(event interpreter.TraceEvent)
	interp   *interpreter.Interpreter
	warnings []diagnostics.Diagnostic
}

// Option is a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithStdout sets the writer print statements go to.
func WithStdout(w io.Writer) Option {
	return func(rt *Runtime) {
		rt.stdout = w
	}
}

// WithConfig sets the configuration. A nil config keeps the defaults.
func WithConfig(c *config.Config) Option {
	return func(rt *Runtime) {
		if c != nil {
			rt.cfg = c
		}
	}
}

// WithNatives replaces the native function registry.
func WithNatives(r *stdlib.Registry) Option {
	return func(rt *Runtime) {
		rt.natives = r
	}
}

// WithRunID sets the run ID for trace events.
func WithRunID(id string) Option {
	return func(rt *Runtime) {
		rt.runID = id
	}
}

// WithTrace sets the trace callback.
func WithTrace(fn func(event interpreter.TraceEvent)) Option {
	return func(rt *Runtime) {
		rt.trace = fn
	}
}

// New creates a new Runtime with the given options.
// By default the default natives are installed and each Runtime gets a
// fresh random run ID.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		cfg:     config.Default(),
		natives: stdlib.Defaults(),
		stdout:  os.Stdout,
		runID:   uuid.NewString(),
	}
	for _, opt := range opts {
		opt(rt)
	}

	iopts := []interpreter.Option{
		interpreter.WithStdout(rt.stdout),
		interpreter.WithMaxCallDepth(rt.cfg.Interpreter.MaxCallDepth),
		interpreter.WithRunID(rt.runID),
	}
	if rt.trace != nil {
		iopts = append(iopts, interpreter.WithTrace(rt.trace))
	}
	rt.interp = interpreter.New(iopts...)
	if rt.natives != nil {
		rt.natives.Install(rt.interp)
	}
	return rt
}

// RunID returns the ID stamped on this runtime's trace events.
func (rt *Runtime) RunID() string {
	return rt.runID
}

// Interpreter exposes the underlying interpreter.
func (rt *Runtime) Interpreter() *interpreter.Interpreter {
	return rt.interp
}

// Warnings returns the non-fatal diagnostics from the most recent Run.
func (rt *Runtime) Warnings() []diagnostics.Diagnostic {
	return rt.warnings
}

// Run parses, resolves, and executes a Lox program. Static errors are
// returned as *DiagnosticError and nothing is executed. Runtime failures are
// returned as *interpreter.RuntimeError.
func (rt *Runtime) Run(ctx context.Context, source, filename string) error {
	rt.warnings = nil
	start := time.Now()

	program, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		log.Debugf("%s: %d parse diagnostics", filename, len(diags))
		return &DiagnosticError{Diagnostics: diags}
	}
	parsed := time.Now()

	locals, rdiags := resolver.Resolve(program)
	for _, d := range rdiags {
		if !d.IsError() {
			rt.warnings = append(rt.warnings, d)
		}
	}
	if diagnostics.HasErrors(rdiags) {
		log.Debugf("%s: %d resolver diagnostics", filename, len(rdiags))
		return &DiagnosticError{Diagnostics: diagnostics.Errors(rdiags)}
	}
	resolved := time.Now()

	err := rt.interp.Interpret(ctx, program, locals)

	stats := rt.interp.Stats()
	log.Debugf("%s: parse %s, resolve %s, execute %s", filename,
		parsed.Sub(start), resolved.Sub(parsed), time.Since(resolved))
	log.Debugf("%s: %d calls, %d loop iterations, max depth %d", filename,
		stats.Calls, stats.Iterations, stats.MaxDepth)
	return err
}

// Check parses and resolves a Lox program without executing it. Parse
// errors are returned alone; otherwise resolver errors and warnings are.
func (rt *Runtime) Check(source, filename string) []diagnostics.Diagnostic {
	return Check(source, filename)
}

// Format parses a Lox program and renders its syntax tree.
func (rt *Runtime) Format(source, filename string) (string, error) {
	program, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return "", &DiagnosticError{Diagnostics: diags}
	}
	return printer.Print(program), nil
}

// Check is the stateless form of Runtime.Check.
func Check(source, filename string) []diagnostics.Diagnostic {
	program, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return diags
	}
	_, rdiags := resolver.Resolve(program)
	return rdiags
}

// DiagnosticError wraps diagnostics as an error.
type DiagnosticError struct {
	Diagnostics []diagnostics.Diagnostic
}

func (e *DiagnosticError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return strings.Join(msgs, "; ")
}

// Incomplete reports whether the error only says the source ended early,
// so an interactive caller can ask for more input.
func (e *DiagnosticError) Incomplete() bool {
	return parser.IsIncomplete(e.Diagnostics)
}

// Process exit statuses, following sysexits.h.
const (
	ExitOK      = 0
	ExitUsage   = 64
	ExitStatic  = 65
	ExitRuntime = 70
	ExitIO      = 74
)

// ExitCode maps an error returned by Run to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var derr *DiagnosticError
	var perr *fs.PathError
	switch {
	case errors.As(err, &derr):
		return ExitStatic
	case errors.As(err, &perr):
		return ExitIO
	}
	return ExitRuntime
}

// FormatError renders an error returned by Run for stderr. Runtime errors
// use the "message\n[line N]" form in text mode.
func FormatError(err error, asJSON bool) string {
	var derr *DiagnosticError
	if errors.As(err, &derr) {
		return diagnostics.FormatDiagnostics(derr.Diagnostics, asJSON)
	}
	var rerr *interpreter.RuntimeError
	if errors.As(err, &rerr) {
		if asJSON {
			return diagnostics.FormatDiagnostic(rerr.Diagnostic(), true)
		}
		return rerr.Report()
	}
	if asJSON {
		d := diagnostics.MakeDiag(diagnostics.EIO, err.Error(), "", 0, 0, "")
		if ExitCode(err) != ExitIO {
			d.Code = diagnostics.EType
		}
		return diagnostics.FormatDiagnostic(d, true)
	}
	return err.Error()
}
