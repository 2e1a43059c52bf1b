// Package interpreter implements the Lox tree-walking evaluator.
package interpreter

import (
	"math"
	"strconv"
)

// Value is the interface for all Lox runtime values.
// Use the sealed marker method to restrict implementations to this package.
type Value interface {
	loxValue() // sealed marker
}

// Nil represents the nil value.
type Nil struct{}

func (Nil) loxValue() {}

// Bool represents a boolean value.
type Bool struct {
	Value bool
}

func (Bool) loxValue() {}

// Number represents a double-precision number.
type Number struct {
	Value float64
}

func (Number) loxValue() {}

// String represents an immutable string value.
type String struct {
	Value string
}

func (String) loxValue() {}

func (*Function) loxValue() {}
func (*Native) loxValue()   {}
func (*Class) loxValue()    {}
func (*Instance) loxValue() {}

// NewNil creates a nil value.
func NewNil() Value {
	return Nil{}
}

// NewBool creates a boolean value.
func NewBool(b bool) Value {
	return Bool{Value: b}
}

// NewNumber creates a numeric value.
func NewNumber(n float64) Value {
	return Number{Value: n}
}

// NewString creates a string value.
func NewString(s string) Value {
	return String{Value: s}
}

// FromLiteral converts a parser literal (nil, bool, float64, string) to a Value.
func FromLiteral(v any) Value {
	switch val := v.(type) {
	case bool:
		return Bool{Value: val}
	case float64:
		return Number{Value: val}
	case string:
		return String{Value: val}
	}
	return Nil{}
}

// Truthy reports whether v counts as true in a condition:
// nil and false are falsy, everything else is truthy.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case nil, Nil:
		return false
	case Bool:
		return val.Value
	}
	return true
}

// Equal implements ==. Nil, booleans, numbers and strings compare by value;
// functions, classes and instances by identity. NaN is not equal to itself.
func Equal(a, b Value) bool {
	if a == nil {
		a = Nil{}
	}
	if b == nil {
		b = Nil{}
	}
	return a == b
}

// TypeName returns a short name for the dynamic type of v.
func TypeName(v Value) string {
	switch v.(type) {
	case nil, Nil:
		return "nil"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case *Function, *Native:
		return "function"
	case *Class:
		return "class"
	case *Instance:
		return "instance"
	}
	return "unknown"
}

// Stringify renders v the way print shows it.
func Stringify(v Value) string {
	switch val := v.(type) {
	case nil, Nil:
		return "nil"
	case Bool:
		return strconv.FormatBool(val.Value)
	case Number:
		return FormatNumber(val.Value)
	case String:
		return val.Value
	case *Function:
		return "<fn " + val.Name() + ">"
	case *Native:
		return "<native fn>"
	case *Class:
		return val.Name
	case *Instance:
		return val.class.Name + " instance"
	}
	return "?"
}

// FormatNumber prints integral values without a fractional part.
func FormatNumber(n float64) string {
	switch {
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case math.IsNaN(n):
		return "NaN"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
