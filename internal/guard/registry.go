package guard

import (
	"fmt"

	"github.com/hookguard/hookguard/internal/event"
)

// Registry associates guards with the action kinds they apply to and runs
// them against a context. Dispatch order is registration order.
type Registry struct {
	entries []entry
	names   map[string]bool
}

type entry struct {
	guard Guard
	kinds map[event.ActionKind]bool
}

func NewRegistry() *Registry {
	return &Registry{names: map[string]bool{}}
}

// Register adds a guard for the given action kinds. Guard names must be
// unique; registration happens at init time, so a duplicate is a programmer
// error and panics.
func (r *Registry) Register(g Guard, kinds ...event.ActionKind) {
	if r.names[g.Name()] {
		panic(fmt.Sprintf("guard: duplicate registration of %q", g.Name()))
	}
	r.names[g.Name()] = true

	kindSet := make(map[event.ActionKind]bool, len(kinds))
	for _, k := range kinds {
		kindSet[k] = true
	}
	r.entries = append(r.entries, entry{guard: g, kinds: kindSet})
}

// Dispatch runs every guard registered for the context's action kind, in
// registration order, independently: no guard observes another's outcome,
// and a guard that panics is recorded as a faulted outcome without aborting
// the remaining guards.
func (r *Registry) Dispatch(ctx *event.GuardContext) []Outcome {
	var outcomes []Outcome
	for _, e := range r.entries {
		if !e.kinds[ctx.ActionKind] {
			continue
		}
		if out, ok := runOne(e.guard, ctx); ok {
			outcomes = append(outcomes, out)
		}
	}
	return outcomes
}

// runOne evaluates a single guard with panic isolation.
func runOne(g Guard, ctx *event.GuardContext) (out Outcome, fired bool) {
	defer func() {
		if rec := recover(); rec != nil {
			out = Outcome{
				Guard:   g.Name(),
				Faulted: true,
				Err:     fmt.Errorf("guard %q faulted: %v", g.Name(), rec),
			}
			fired = true
		}
	}()

	if !g.Triggers(ctx) {
		return Outcome{}, false
	}
	return Outcome{
		Guard:    g.Name(),
		Message:  g.Explain(ctx),
		Severity: g.Severity(),
	}, true
}

// Guards returns the guards registered for a kind, in dispatch order.
func (r *Registry) Guards(kind event.ActionKind) []Guard {
	var guards []Guard
	for _, e := range r.entries {
		if e.kinds[kind] {
			guards = append(guards, e.guard)
		}
	}
	return guards
}

// Kinds returns every action kind with at least one registered guard.
func (r *Registry) Kinds() []event.ActionKind {
	seen := map[event.ActionKind]bool{}
	var kinds []event.ActionKind
	for _, e := range r.entries {
		for k := range e.kinds {
			if !seen[k] {
				seen[k] = true
				kinds = append(kinds, k)
			}
		}
	}
	return kinds
}
