package guard

import (
	"github.com/hookguard/hookguard/internal/event"
)

// Severity is a guard's default verdict when it triggers.
// Ordering matters: Block > Warn > Notice when outcomes are combined.
type Severity int

const (
	// Notice surfaces a message but never affects the verdict.
	Notice Severity = iota
	// Warn surfaces a non-blocking advisory.
	Warn
	// Block stops the action.
	Block
)

func (s Severity) String() string {
	switch s {
	case Block:
		return "BLOCK"
	case Warn:
		return "WARN"
	default:
		return "NOTICE"
	}
}

// Guard is a single named policy check. Guards are stateless: evaluating one
// never mutates the context or any external state.
type Guard interface {
	// Name returns the guard's unique identifier (e.g., "git-no-verify").
	Name() string

	// Triggers reports whether the guard fires for this context.
	Triggers(ctx *event.GuardContext) bool

	// Explain returns the human-readable message shown when the guard fires.
	Explain(ctx *event.GuardContext) string

	// Severity returns the guard's default verdict on trigger.
	Severity() Severity
}

// Outcome is the result of running one guard against one context.
type Outcome struct {
	Guard    string
	Message  string
	Severity Severity

	// Faulted marks an internal guard failure (panic). A faulted guard
	// provides zero protection but does not by itself block the action.
	Faulted bool
	Err     error
}
