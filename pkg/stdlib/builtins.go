package stdlib

import (
	"github.com/thomasrohde/golox/pkg/interpreter"
)

// RegisterDefaults adds the natives every Lox program can see.
func RegisterDefaults(r *Registry) {
	r.Register(&interpreter.Native{Name: "clock", Params: 0, Fn: nativeClock})
}

// Defaults returns a registry holding the default natives.
func Defaults() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// nativeClock returns the current time in seconds with sub-millisecond
// precision. Successive readings never go backwards.
func nativeClock(_ []interpreter.Value) (interpreter.Value, error) {
	return interpreter.NewNumber(clockSeconds()), nil
}
