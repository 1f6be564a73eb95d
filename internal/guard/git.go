package guard

import (
	"fmt"

	"github.com/hookguard/hookguard/internal/event"
)

// gitNoVerify blocks git invocations that skip commit/push hooks.
// Hook bypass defeats exactly the checks an agent is most tempted to skip.
type gitNoVerify struct{}

func (gitNoVerify) Name() string       { return "git-no-verify" }
func (gitNoVerify) Severity() Severity { return Block }

func (g gitNoVerify) Triggers(ctx *event.GuardContext) bool {
	return g.match(ctx.Command) != nil
}

func (g gitNoVerify) Explain(ctx *event.GuardContext) string {
	seg := g.match(ctx.Command)
	if seg == nil {
		return ""
	}
	return fmt.Sprintf("git %s with --no-verify skips commit hooks. Run %q without the bypass flag and fix whatever the hooks report.",
		seg.Subcommand, "git "+seg.Subcommand)
}

func (gitNoVerify) match(raw string) *Segment {
	for _, seg := range ParseCommand(raw).AllSegments() {
		if seg.Executable != "git" {
			continue
		}
		switch seg.Subcommand {
		case "commit":
			// -n is --no-verify for commit only; for push it is --dry-run.
			if seg.HasFlag("no-verify", "n") {
				return &seg
			}
		case "push", "merge":
			if seg.HasFlag("no-verify") {
				return &seg
			}
		}
	}
	return nil
}

// gitForcePush blocks plain force pushes; --force-with-lease is handled
// separately as a warning.
type gitForcePush struct{}

func (gitForcePush) Name() string       { return "git-force-push" }
func (gitForcePush) Severity() Severity { return Block }

func (g gitForcePush) Triggers(ctx *event.GuardContext) bool {
	for _, seg := range ParseCommand(ctx.Command).AllSegments() {
		if seg.Executable == "git" && seg.Subcommand == "push" &&
			seg.HasFlag("force", "f") && !seg.HasFlag("force-with-lease") {
			return true
		}
	}
	return false
}

func (gitForcePush) Explain(ctx *event.GuardContext) string {
	return "git push --force overwrites remote history unconditionally. Use --force-with-lease if a rewrite is genuinely required."
}

// gitForceWithLease warns on lease-protected force pushes.
type gitForceWithLease struct{}

func (gitForceWithLease) Name() string       { return "git-force-with-lease" }
func (gitForceWithLease) Severity() Severity { return Warn }

func (g gitForceWithLease) Triggers(ctx *event.GuardContext) bool {
	for _, seg := range ParseCommand(ctx.Command).AllSegments() {
		if seg.Executable == "git" && seg.Subcommand == "push" && seg.HasFlag("force-with-lease") {
			return true
		}
	}
	return false
}

func (gitForceWithLease) Explain(ctx *event.GuardContext) string {
	return "git push --force-with-lease rewrites remote history; make sure collaborators expect it."
}

// gitHardReset warns on history/worktree destruction that is easy to regret.
type gitHardReset struct{}

func (gitHardReset) Name() string       { return "git-hard-reset" }
func (gitHardReset) Severity() Severity { return Warn }

func (g gitHardReset) Triggers(ctx *event.GuardContext) bool {
	for _, seg := range ParseCommand(ctx.Command).AllSegments() {
		if seg.Executable != "git" {
			continue
		}
		if seg.Subcommand == "reset" && seg.HasFlag("hard") {
			return true
		}
		if seg.Subcommand == "clean" && seg.HasFlag("f") && seg.HasFlag("d") {
			return true
		}
	}
	return false
}

func (gitHardReset) Explain(ctx *event.GuardContext) string {
	return "This git command discards uncommitted work (reset --hard / clean -fd). Stash or commit first if anything might be worth keeping."
}
