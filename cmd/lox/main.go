// Command lox is the Lox interpreter CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/tliron/commonlog"
	"github.com/tliron/commonlog/simple"

	"github.com/thomasrohde/golox/pkg/config"
	"github.com/thomasrohde/golox/pkg/diagnostics"
	"github.com/thomasrohde/golox/pkg/help"
	"github.com/thomasrohde/golox/pkg/interpreter"
	"github.com/thomasrohde/golox/pkg/lsp"
	"github.com/thomasrohde/golox/pkg/runtime"
)

const usage = `usage: lox [-v] [script]
       lox [-v] <command> [options]
commands: run, check, ast, repl, lsp, trace, config, help`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// cli carries the process streams and effective configuration.
type cli struct {
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	cfg     *config.Config
	cfgPath string
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	verbosity := 0
	for len(args) > 0 && isVerboseFlag(args[0]) {
		if args[0] == "--verbose" {
			verbosity++
		} else {
			verbosity += len(args[0]) - 1
		}
		args = args[1:]
	}

	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}
	cwd, _ := os.Getwd()
	cfg, path, err := config.Load(cwd)
	if err != nil {
		fmt.Fprintf(stderr, "config: %s\n", err)
		return runtime.ExitUsage
	}
	c.cfg, c.cfgPath = cfg, path
	configureLogging(cfg.Log.Verbosity+verbosity, cfg.Log.File)

	if len(args) == 0 {
		return c.cmdRepl()
	}

	cmd := args[0]
	switch cmd {
	case "run":
		return c.cmdRun(args[1:])
	case "check":
		return c.cmdCheck(args[1:])
	case "ast":
		return c.cmdAST(args[1:])
	case "repl":
		return c.cmdRepl()
	case "lsp":
		return c.cmdLSP()
	case "trace":
		return c.cmdTrace(args[1:])
	case "config":
		return c.cmdConfig()
	case "help", "--help", "-h":
		return c.cmdHelp(args[1:])
	case "version", "--version":
		fmt.Fprintf(stdout, "lox %s\n", help.Version)
		return runtime.ExitOK
	}

	if len(args) == 1 && !strings.HasPrefix(cmd, "-") {
		return c.cmdRun(args)
	}
	fmt.Fprintln(stderr, usage)
	return runtime.ExitUsage
}

func isVerboseFlag(arg string) bool {
	if arg == "--verbose" {
		return true
	}
	return len(arg) > 1 && arg[0] == '-' && strings.Trim(arg[1:], "v") == ""
}

// configureLogging routes commonlog through the simple backend. Messages go
// to stderr, or to file when set; stdout stays reserved for print.
func configureLogging(verbosity int, file string) {
	backend := simple.NewBackend()
	backend.Buffered = false
	commonlog.SetBackend(backend)

	var path *string
	if file != "" {
		expanded := config.ExpandHome(file)
		path = &expanded
	}
	commonlog.Configure(verbosity, path)
}

func (c *cli) jsonOutput(args []string) bool {
	for _, arg := range args {
		if arg == "--json" {
			return true
		}
	}
	return c.cfg.Diagnostics.Format == config.FormatJSON
}

func (c *cli) cmdRun(args []string) int {
	var file, tracePath string
	asJSON := c.jsonOutput(args)

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--json":
		case "--trace":
			if i+1 < len(args) {
				i++
				tracePath = args[i]
			}
		default:
			if args[i] == "-" || !strings.HasPrefix(args[i], "-") {
				file = args[i]
			}
		}
	}

	if file == "" {
		fmt.Fprintln(c.stderr, "usage: lox run <file> [--json] [--trace <out.jsonl>]")
		return runtime.ExitUsage
	}

	source, filename, exitCode := c.readSource(file, asJSON)
	if exitCode != runtime.ExitOK {
		return exitCode
	}

	opts := []runtime.Option{runtime.WithStdout(c.stdout), runtime.WithConfig(c.cfg)}
	if tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			fmt.Fprintln(c.stderr, runtime.FormatError(err, asJSON))
			return runtime.ExitIO
		}
		defer f.Close()
		enc := json.NewEncoder(f)
		opts = append(opts, runtime.WithTrace(func(ev interpreter.TraceEvent) {
			_ = enc.Encode(ev)
		}))
	}
	rt := runtime.New(opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := rt.Run(ctx, source, filename)

	if warnings := rt.Warnings(); len(warnings) > 0 {
		fmt.Fprintln(c.stderr, diagnostics.FormatDiagnostics(warnings, asJSON))
	}
	if err != nil {
		fmt.Fprintln(c.stderr, runtime.FormatError(err, asJSON))
	}
	return runtime.ExitCode(err)
}

func (c *cli) cmdCheck(args []string) int {
	var file string
	asJSON := c.jsonOutput(args)

	for _, arg := range args {
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			file = arg
		}
	}

	if file == "" {
		fmt.Fprintln(c.stderr, "usage: lox check <file> [--json]")
		return runtime.ExitUsage
	}

	source, filename, exitCode := c.readSource(file, asJSON)
	if exitCode != runtime.ExitOK {
		return exitCode
	}

	diags := runtime.Check(source, filename)
	if len(diags) > 0 {
		fmt.Fprintln(c.stderr, diagnostics.FormatDiagnostics(diags, asJSON))
	}
	if diagnostics.HasErrors(diags) {
		return runtime.ExitStatic
	}

	if asJSON {
		fmt.Fprintln(c.stdout, "[]")
	} else {
		fmt.Fprintln(c.stdout, "No errors found.")
	}
	return runtime.ExitOK
}

func (c *cli) cmdAST(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(c.stderr, "usage: lox ast <file>")
		return runtime.ExitUsage
	}

	source, filename, exitCode := c.readSource(args[0], false)
	if exitCode != runtime.ExitOK {
		return exitCode
	}

	rt := runtime.New(runtime.WithConfig(c.cfg))
	out, err := rt.Format(source, filename)
	if err != nil {
		fmt.Fprintln(c.stderr, runtime.FormatError(err, false))
		return runtime.ExitCode(err)
	}
	fmt.Fprint(c.stdout, out)
	return runtime.ExitOK
}

func (c *cli) cmdLSP() int {
	if err := lsp.New(help.Version).Run(); err != nil {
		fmt.Fprintf(c.stderr, "lsp: %s\n", err)
		return runtime.ExitIO
	}
	return runtime.ExitOK
}

func (c *cli) cmdConfig() int {
	if c.cfgPath != "" {
		fmt.Fprintf(c.stdout, "# loaded from %s\n", c.cfgPath)
	} else {
		fmt.Fprintln(c.stdout, "# built-in defaults")
	}
	if err := c.cfg.Encode(c.stdout); err != nil {
		fmt.Fprintf(c.stderr, "config: %s\n", err)
		return runtime.ExitIO
	}
	return runtime.ExitOK
}

func (c *cli) cmdHelp(args []string) int {
	showNatives := false
	topic := ""
	for _, arg := range args {
		if arg == "--natives" {
			showNatives = true
		} else if !strings.HasPrefix(arg, "-") {
			topic = arg
		}
	}

	if showNatives {
		fmt.Fprint(c.stdout, help.NativeIndex())
		return runtime.ExitOK
	}

	if topic == "" {
		fmt.Fprint(c.stdout, help.QUICKREF)
		return runtime.ExitOK
	}

	_, content, err := help.MatchTopic(topic)
	if err != nil {
		fmt.Fprintf(c.stderr, "%s\nAvailable topics: %s\n", err, strings.Join(help.TopicList, ", "))
		return runtime.ExitUsage
	}
	fmt.Fprint(c.stdout, content)
	return runtime.ExitOK
}

// readSource reads file, or stdin for "-". On failure it reports the I/O
// error and returns a non-zero exit code.
func (c *cli) readSource(file string, asJSON bool) (string, string, int) {
	if file == "-" {
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			fmt.Fprintln(c.stderr, runtime.FormatError(err, asJSON))
			return "", "", runtime.ExitIO
		}
		return string(data), "<stdin>", runtime.ExitOK
	}

	source, err := os.ReadFile(file)
	if err != nil {
		diag := diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s", file), file, 0, 0, "")
		if asJSON {
			fmt.Fprintln(c.stderr, diagnostics.FormatDiagnostic(diag, true))
		} else {
			fmt.Fprintf(c.stderr, "Error: %s\n", diag.Message)
		}
		return "", "", runtime.ExitIO
	}
	return string(source), file, runtime.ExitOK
}
