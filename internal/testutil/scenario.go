// Package testutil provides shared test helpers for Lox Go tests.
package testutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ScenariosDir is the relative path from the module root to the scenarios.
const ScenariosDir = "testdata/scenarios"

// ScenarioFile is the file name that marks a scenario directory.
const ScenarioFile = "scenario.yaml"

// Scenario represents a conformance case loaded from scenario.yaml.
type Scenario struct {
	Cmd    []string       `yaml:"cmd"`
	Stdin  string         `yaml:"stdin,omitempty"`
	Meta   *ScenarioMeta  `yaml:"meta,omitempty"`
	Expect ExpectedResult `yaml:"expect"`

	// Dir is the directory the scenario was loaded from.
	Dir string `yaml:"-"`
}

// ScenarioMeta holds optional scenario metadata.
type ScenarioMeta struct {
	Description string   `yaml:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
}

// ExpectedResult describes the expected outcome of running a scenario.
type ExpectedResult struct {
	ExitCode       int      `yaml:"exitCode"`
	Stdout         []string `yaml:"stdout,omitempty"`
	StdoutContains string   `yaml:"stdoutContains,omitempty"`
	Stderr         string   `yaml:"stderr,omitempty"`
	StderrContains []string `yaml:"stderrContains,omitempty"`
}

// Command returns the subcommand ("run" or "check").
func (s *Scenario) Command() string {
	if len(s.Cmd) == 0 {
		return ""
	}
	return s.Cmd[0]
}

// HasFlag reports whether flag appears in the scenario command.
func (s *Scenario) HasFlag(flag string) bool {
	for _, arg := range s.Cmd[1:] {
		if arg == flag {
			return true
		}
	}
	return false
}

// LoadScenario loads a scenario from a directory containing scenario.yaml.
// Unknown keys are rejected so typos in expectations fail loudly.
func LoadScenario(dir string) (*Scenario, error) {
	file, err := os.Open(filepath.Join(dir, ScenarioFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	var s Scenario
	if err := decoder.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	if len(s.Cmd) == 0 {
		return nil, fmt.Errorf("%s: scenario has no cmd", dir)
	}
	s.Dir = dir
	return &s, nil
}

// ListScenarios returns all scenario directories under root, sorted.
func ListScenarios(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			scenarioPath := filepath.Join(root, e.Name(), ScenarioFile)
			if _, err := os.Stat(scenarioPath); err == nil {
				dirs = append(dirs, filepath.Join(root, e.Name()))
			}
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// ReadProgramFile reads the program file named by the scenario cmd: the
// first argument after the subcommand that is not a flag.
func ReadProgramFile(s *Scenario) (source, filename string, err error) {
	for _, arg := range s.Cmd[1:] {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.Dir, arg))
		if err != nil {
			return "", "", err
		}
		return string(data), arg, nil
	}
	return "", "", fmt.Errorf("%s: scenario cmd names no program file", s.Dir)
}

// Lines splits output into lines, dropping the final newline.
func Lines(out string) []string {
	out = strings.TrimSuffix(out, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}
