package interpreter_test

import (
	"math"
	"testing"

	"github.com/thomasrohde/golox/pkg/interpreter"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3.0, "3"},
		{2.5, "2.5"},
		{-7, "-7"},
		{0.1, "0.1"},
		{1e21, "1000000000000000000000"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		if got := interpreter.FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    interpreter.Value
		want bool
	}{
		{interpreter.NewNil(), false},
		{nil, false},
		{interpreter.NewBool(false), false},
		{interpreter.NewBool(true), true},
		{interpreter.NewNumber(0), true},
		{interpreter.NewString(""), true},
		{interpreter.NewClass("A", nil, nil), true},
	}
	for _, tt := range tests {
		if got := interpreter.Truthy(tt.v); got != tt.want {
			t.Errorf("Truthy(%s) = %v, want %v", interpreter.Stringify(tt.v), got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	a := interpreter.NewClass("A", nil, nil)
	b := interpreter.NewClass("A", nil, nil)
	inst := interpreter.NewInstance(a)

	tests := []struct {
		name string
		x, y interpreter.Value
		want bool
	}{
		{"nil nil", interpreter.NewNil(), interpreter.NewNil(), true},
		{"go nil", nil, interpreter.NewNil(), true},
		{"nil false", interpreter.NewNil(), interpreter.NewBool(false), false},
		{"numbers", interpreter.NewNumber(1), interpreter.NewNumber(1), true},
		{"number string", interpreter.NewNumber(1), interpreter.NewString("1"), false},
		{"strings", interpreter.NewString("ab"), interpreter.NewString("ab"), true},
		{"nan", interpreter.NewNumber(math.NaN()), interpreter.NewNumber(math.NaN()), false},
		{"same class", a, a, true},
		{"same name class", a, b, false},
		{"instance", inst, inst, true},
		{"instances", inst, interpreter.NewInstance(a), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := interpreter.Equal(tt.x, tt.y); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromLiteral(t *testing.T) {
	if interpreter.FromLiteral(nil) != interpreter.NewNil() {
		t.Error("nil literal")
	}
	if interpreter.FromLiteral(1.5) != interpreter.NewNumber(1.5) {
		t.Error("number literal")
	}
	if interpreter.FromLiteral("s") != interpreter.NewString("s") {
		t.Error("string literal")
	}
	if interpreter.FromLiteral(true) != interpreter.NewBool(true) {
		t.Error("bool literal")
	}
}

func TestTypeName(t *testing.T) {
	class := interpreter.NewClass("A", nil, nil)
	tests := map[string]interpreter.Value{
		"nil":      interpreter.NewNil(),
		"boolean":  interpreter.NewBool(true),
		"number":   interpreter.NewNumber(1),
		"string":   interpreter.NewString("x"),
		"function": &interpreter.Native{Name: "n"},
		"class":    class,
		"instance": interpreter.NewInstance(class),
	}
	for want, v := range tests {
		if got := interpreter.TypeName(v); got != want {
			t.Errorf("TypeName = %q, want %q", got, want)
		}
	}
}
