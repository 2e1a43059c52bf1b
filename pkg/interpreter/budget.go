package interpreter

// DefaultMaxCallDepth bounds nested calls so runaway recursion becomes a
// Lox runtime error instead of exhausting the Go stack.
const DefaultMaxCallDepth = 2048

// Budget holds the resource limits for a program execution.
type Budget struct {
	MaxCallDepth int
}

// BudgetTracker tracks resource consumption during execution.
type BudgetTracker struct {
	Depth      int
	MaxDepth   int
	Calls      int64
	Iterations int64
}
