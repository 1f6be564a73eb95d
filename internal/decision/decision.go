// Package decision aggregates guard outcomes into a single verdict and owns
// the verdict-to-exit-code mapping.
//
// The exit-code table is the hardest contract in the system: the host treats
// exit 2 as the only blocking status and any other non-zero exit as a
// non-blocking infrastructure error. A block reported as exit 1 executes
// anyway.
package decision

import (
	"fmt"
	"strings"

	"github.com/hookguard/hookguard/internal/guard"
)

// Status is the aggregated result of one invocation.
type Status int

const (
	Allowed Status = iota
	Blocked
	Errored
)

func (s Status) String() string {
	switch s {
	case Blocked:
		return "BLOCKED"
	case Errored:
		return "ERRORED"
	default:
		return "ALLOWED"
	}
}

// Exit codes as the host interprets them.
const (
	ExitAllowed = 0
	ExitErrored = 1
	ExitBlocked = 2
)

// ExitCode maps a status to its process exit code. Fixed table; never derive
// exit codes any other way.
func ExitCode(s Status) int {
	switch s {
	case Blocked:
		return ExitBlocked
	case Errored:
		return ExitErrored
	default:
		return ExitAllowed
	}
}

// Verdict is the aggregated decision for one invocation.
type Verdict struct {
	Status Status

	// Triggered holds every non-faulted outcome whose guard fired, in
	// dispatch order. All messages are surfaced, not just the first.
	Triggered []guard.Outcome

	// Faults holds outcomes from guards that failed internally. Faults
	// degrade coverage, never the verdict.
	Faults []guard.Outcome

	// Overridden is set when a block was lifted by a validated override.
	Overridden bool
}

// BlockingGuards returns the names of triggered Block-severity guards.
func (v Verdict) BlockingGuards() []string {
	var names []string
	for _, out := range v.Triggered {
		if out.Severity == guard.Block {
			names = append(names, out.Guard)
		}
	}
	return names
}

// Decide aggregates outcomes into a verdict. Any triggered Block-severity
// guard blocks the whole action; Warn and Notice outcomes are surfaced as
// advisories on an Allowed verdict.
func Decide(outcomes []guard.Outcome) Verdict {
	v := Verdict{Status: Allowed}
	for _, out := range outcomes {
		if out.Faulted {
			v.Faults = append(v.Faults, out)
			continue
		}
		v.Triggered = append(v.Triggered, out)
		if out.Severity == guard.Block {
			v.Status = Blocked
		}
	}
	return v
}

// Override re-decides a blocked verdict with blocking outcomes forced to
// allow. The triggered guards stay visible so the audit trail and the
// operator output still name what was bypassed.
func Override(v Verdict) Verdict {
	if v.Status != Blocked {
		return v
	}
	v.Status = Allowed
	v.Overridden = true
	return v
}

// Explain renders the operator-facing text for a verdict.
func Explain(v Verdict) string {
	var sb strings.Builder

	switch {
	case v.Status == Blocked:
		sb.WriteString("Action blocked by hookguard.\n")
	case v.Overridden:
		sb.WriteString("Action allowed: block overridden by authorized code.\n")
	case len(v.Triggered) > 0:
		sb.WriteString("Action allowed with advisories.\n")
	}

	for _, out := range v.Triggered {
		fmt.Fprintf(&sb, "  [%s] %s: %s\n", out.Severity, out.Guard, out.Message)
	}
	return sb.String()
}
