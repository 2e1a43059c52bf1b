package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/thomasrohde/golox/pkg/diagnostics"
	"github.com/thomasrohde/golox/pkg/interpreter"
	"github.com/thomasrohde/golox/pkg/runtime"
)

// TraceSummary aggregates an NDJSON trace written by `lox run --trace`.
type TraceSummary struct {
	RunID         string         `json:"runId"`
	TotalEvents   int            `json:"totalEvents"`
	Runs          int            `json:"runs"`
	Calls         int            `json:"calls"`
	CallsByName   map[string]int `json:"callsByName"`
	RuntimeErrors int            `json:"runtimeErrors"`
	ErrorCodes    []string       `json:"errorCodes,omitempty"`
	StartTime     string         `json:"startTime,omitempty"`
	EndTime       string         `json:"endTime,omitempty"`
	DurationMs    float64        `json:"durationMs"`
	InvalidLines  int            `json:"invalidLines,omitempty"`
}

func (c *cli) cmdTrace(args []string) int {
	var file string
	textOutput := false

	for _, arg := range args {
		switch arg {
		case "--json":
			textOutput = false
		case "--text":
			textOutput = true
		default:
			if !strings.HasPrefix(arg, "-") {
				file = arg
			}
		}
	}

	if file == "" {
		fmt.Fprintln(c.stderr, "usage: lox trace <file.jsonl> [--json|--text]")
		return runtime.ExitUsage
	}

	f, err := os.Open(file)
	if err != nil {
		diag := diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s", file), file, 0, 0, "")
		fmt.Fprintln(c.stderr, diagnostics.FormatDiagnostic(diag, false))
		return runtime.ExitIO
	}
	defer f.Close()

	summary, err := computeTraceSummary(f)
	if err != nil {
		fmt.Fprintf(c.stderr, "trace: %s\n", err)
		return runtime.ExitIO
	}

	if textOutput {
		printTraceSummaryText(c.stdout, summary)
	} else {
		b, _ := json.Marshal(summary)
		fmt.Fprintln(c.stdout, string(b))
	}
	return runtime.ExitOK
}

func computeTraceSummary(r io.Reader) (*TraceSummary, error) {
	summary := &TraceSummary{
		CallsByName: make(map[string]int),
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var event interpreter.TraceEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			summary.InvalidLines++
			continue
		}

		summary.TotalEvents++
		if summary.RunID == "" {
			summary.RunID = event.RunID
		}

		switch event.Event {
		case interpreter.TraceRunStart:
			summary.Runs++
			if summary.StartTime == "" {
				summary.StartTime = event.Timestamp
			}
		case interpreter.TraceRunEnd:
			summary.EndTime = event.Timestamp
		case interpreter.TraceCallStart:
			summary.Calls++
			if name, ok := event.Data["callee"].(string); ok {
				summary.CallsByName[name]++
			}
		case interpreter.TraceRuntimeError:
			summary.RuntimeErrors++
			if code, ok := event.Data["code"].(string); ok {
				summary.ErrorCodes = append(summary.ErrorCodes, code)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if summary.StartTime != "" && summary.EndTime != "" {
		start, err1 := time.Parse(time.RFC3339Nano, summary.StartTime)
		end, err2 := time.Parse(time.RFC3339Nano, summary.EndTime)
		if err1 == nil && err2 == nil {
			summary.DurationMs = float64(end.Sub(start).Microseconds()) / 1000
		}
	}

	return summary, nil
}

func printTraceSummaryText(w io.Writer, s *TraceSummary) {
	fmt.Fprintf(w, "Run: %s\n", s.RunID)
	fmt.Fprintf(w, "Events: %d\n", s.TotalEvents)
	fmt.Fprintf(w, "Calls: %d\n", s.Calls)

	names := make([]string, 0, len(s.CallsByName))
	for name := range s.CallsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %d\n", name, s.CallsByName[name])
	}

	fmt.Fprintf(w, "Runtime errors: %d\n", s.RuntimeErrors)
	if s.DurationMs > 0 {
		fmt.Fprintf(w, "Duration: %.3fms\n", s.DurationMs)
	}
}
