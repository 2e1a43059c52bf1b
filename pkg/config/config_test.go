package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	c, err := Parse([]byte(`
[interpreter]
max-call-depth = 100

[repl]
prompt = "lox> "
`))
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.Interpreter.MaxCallDepth = 100
	want.REPL.Prompt = "lox> "
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		source string
		errMsg string
	}{
		{"zero depth", "[interpreter]\nmax-call-depth = 0", "max-call-depth"},
		{"bad format", "[diagnostics]\nformat = \"xml\"", "diagnostics.format"},
		{"negative verbosity", "[log]\nverbosity = -1", "log.verbosity"},
		{"syntax", "[interpreter\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.source))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error %q does not mention %q", err, tt.errMsg)
			}
		})
	}
}

func TestLoadSearchesUpward(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(root, FileName)
	if err := os.WriteFile(cfgPath, []byte("[diagnostics]\nformat = \"json\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, path, err := Load(nested)
	if err != nil {
		t.Fatal(err)
	}
	if path != cfgPath {
		t.Errorf("loaded from %q, want %q", path, cfgPath)
	}
	if c.Diagnostics.Format != FormatJSON {
		t.Errorf("format = %q, want json", c.Diagnostics.Format)
	}
}

func TestLoadReportsBrokenProjectFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("not toml ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(dir); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadFallsBackToUserThenDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	project := t.TempDir()

	c, path, err := Load(project)
	if err != nil {
		t.Fatal(err)
	}
	if path != "" {
		t.Skipf("a %s above the temp dir shadows the test: %s", FileName, path)
	}
	if diff := cmp.Diff(Default(), c); diff != "" {
		t.Errorf("expected defaults (-want +got):\n%s", diff)
	}

	userPath := filepath.Join(home, ".lox", "config.toml")
	if err := os.MkdirAll(filepath.Dir(userPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(userPath, []byte("[repl]\nprompt = \"$ \"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, path, err = Load(project)
	if err != nil {
		t.Fatal(err)
	}
	if path != userPath || c.REPL.Prompt != "$ " {
		t.Errorf("expected user config, got %q from %q", c.REPL.Prompt, path)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	c := Default()
	c.Log.Verbosity = 2
	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "max-call-depth = 2048") {
		t.Errorf("encoded config missing call depth:\n%s", buf.String())
	}
	back, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(c, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	if got := ExpandHome("~/.lox/history"); got != filepath.Join(home, ".lox", "history") {
		t.Errorf("ExpandHome = %q", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("absolute path changed: %q", got)
	}
	if got := ExpandHome("~user/x"); got != "~user/x" {
		t.Errorf("~user form should be left alone: %q", got)
	}
}
