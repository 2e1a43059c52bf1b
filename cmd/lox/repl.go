package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/tliron/commonlog"

	"github.com/thomasrohde/golox/pkg/config"
	"github.com/thomasrohde/golox/pkg/diagnostics"
	"github.com/thomasrohde/golox/pkg/help"
	"github.com/thomasrohde/golox/pkg/parser"
	"github.com/thomasrohde/golox/pkg/runtime"
)

const replFile = "<repl>"

const replHelp = `:help           show this help
:quit, :exit    leave the REPL (Ctrl+D works too)
:reset          discard all definitions
:load <file>    run a file in this session
:ast <code>     print the syntax tree of code
`

var replLog = commonlog.GetLogger("lox.repl")

func (c *cli) cmdRepl() int {
	fmt.Fprintf(c.stdout, "Lox %s. Type :help for commands.\n", help.Version)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := config.ExpandHome(c.cfg.REPL.History)
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	rt := c.newSession()
	for {
		code, ok := c.readInput(ln)
		if !ok {
			fmt.Fprintln(c.stdout)
			break
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			if done := c.replCommand(&rt, trimmed); done {
				break
			}
			continue
		}
		c.evalInSession(rt, code, replFile)
	}

	if histPath != "" {
		c.saveHistory(ln, histPath)
	}
	return runtime.ExitOK
}

func (c *cli) newSession() *runtime.Runtime {
	return runtime.New(runtime.WithStdout(c.stdout), runtime.WithConfig(c.cfg))
}

// evalInSession runs code, reporting errors without ending the session.
// Ctrl+C while code runs cancels it.
func (c *cli) evalInSession(rt *runtime.Runtime, code, filename string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rt.Run(ctx, code, filename)
	stop()

	if warnings := rt.Warnings(); len(warnings) > 0 {
		fmt.Fprintln(c.stderr, diagnostics.FormatDiagnostics(warnings, false))
	}
	if err != nil {
		fmt.Fprintln(c.stderr, runtime.FormatError(err, false))
	}
}

// readInput reads lines until the buffer parses, or fails for a reason
// other than running out of input. ok is false on EOF.
func (c *cli) readInput(ln *liner.State) (code string, ok bool) {
	var b strings.Builder
	for {
		prompt := c.cfg.REPL.Prompt
		if b.Len() > 0 {
			prompt = c.cfg.REPL.Continuation
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			replLog.Warningf("prompt: %s", err)
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, diags := parser.Parse(src, replFile); len(diags) > 0 && parser.IsIncomplete(diags) {
			continue
		}
		return src, true
	}
}

// replCommand handles :help, :quit, :reset, :load and :ast.
func (c *cli) replCommand(rt **runtime.Runtime, line string) (exit bool) {
	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])
	rest := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))

	switch cmd {
	case ":help":
		fmt.Fprint(c.stdout, replHelp)

	case ":quit", ":exit":
		return true

	case ":reset":
		*rt = c.newSession()
		fmt.Fprintln(c.stdout, "session reset.")

	case ":load":
		if rest == "" {
			fmt.Fprintln(c.stderr, "usage: :load <file>")
			return false
		}
		src, err := os.ReadFile(rest)
		if err != nil {
			fmt.Fprintf(c.stderr, "cannot read %s: %s\n", rest, err)
			return false
		}
		c.evalInSession(*rt, string(src), rest)

	case ":ast":
		out, err := (*rt).Format(rest, replFile)
		if err != nil {
			fmt.Fprintln(c.stderr, runtime.FormatError(err, false))
			return false
		}
		fmt.Fprint(c.stdout, out)

	default:
		fmt.Fprintln(c.stderr, "unknown command. Type :help for help.")
	}
	return false
}

func (c *cli) saveHistory(ln *liner.State, path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		replLog.Warningf("history: %s", err)
		return
	}
	f, err := os.Create(path)
	if err != nil {
		replLog.Warningf("history: %s", err)
		return
	}
	defer f.Close()
	if _, err := ln.WriteHistory(f); err != nil {
		replLog.Warningf("history: %s", err)
	}
}
