package guard

import (
	"fmt"
	"strings"

	"github.com/hookguard/hookguard/internal/event"
)

// pipeToShell blocks download-pipe-to-interpreter patterns
// (curl ... | bash and friends).
type pipeToShell struct{}

func (pipeToShell) Name() string       { return "pipe-to-shell" }
func (pipeToShell) Severity() Severity { return Block }

func (g pipeToShell) Triggers(ctx *event.GuardContext) bool {
	_, _, ok := g.match(ctx.Command)
	return ok
}

func (g pipeToShell) Explain(ctx *event.GuardContext) string {
	src, dst, ok := g.match(ctx.Command)
	if !ok {
		return ""
	}
	return fmt.Sprintf("Download (%s) piped to interpreter (%s). Download to a file and inspect it before executing.", src, dst)
}

func (pipeToShell) match(raw string) (src, dst string, ok bool) {
	cmd := ParseCommand(raw)
	for i := 0; i+1 < len(cmd.Segments); i++ {
		if i >= len(cmd.Operators) || cmd.Operators[i] != "|" {
			continue
		}
		left, right := cmd.Segments[i], cmd.Segments[i+1]
		if downloadCommands[left.Executable] &&
			(shellInterpreters[right.Executable] || codeInterpreters[right.Executable]) {
			return left.Executable, right.Executable, true
		}
	}
	return "", "", false
}

// rmRecursiveRoot blocks recursive+force deletion of the filesystem root or
// a system directory.
type rmRecursiveRoot struct{}

func (rmRecursiveRoot) Name() string       { return "rm-recursive-root" }
func (rmRecursiveRoot) Severity() Severity { return Block }

func (g rmRecursiveRoot) Triggers(ctx *event.GuardContext) bool {
	return g.target(ctx.Command) != ""
}

func (g rmRecursiveRoot) Explain(ctx *event.GuardContext) string {
	return fmt.Sprintf("rm with recursive+force flags targeting %q would destroy the system. Narrow the path.", g.target(ctx.Command))
}

func (rmRecursiveRoot) target(raw string) string {
	for _, seg := range ParseCommand(raw).AllSegments() {
		if seg.Executable != "rm" {
			continue
		}
		recursive := seg.HasFlag("r", "R", "recursive")
		force := seg.HasFlag("f", "force")
		if !recursive || !force {
			continue
		}
		for _, arg := range seg.Args {
			if isRootPath(arg) || isSystemDir(arg) {
				return arg
			}
		}
	}
	return ""
}

// dockerPrivileged blocks containers started with host-level access.
type dockerPrivileged struct{}

func (dockerPrivileged) Name() string       { return "docker-privileged" }
func (dockerPrivileged) Severity() Severity { return Block }

func (g dockerPrivileged) Triggers(ctx *event.GuardContext) bool {
	return g.reason(ctx.Command) != ""
}

func (g dockerPrivileged) Explain(ctx *event.GuardContext) string {
	return fmt.Sprintf("docker run with %s gives the container control of the host. Drop the flag or run the container unprivileged.", g.reason(ctx.Command))
}

func (dockerPrivileged) reason(raw string) string {
	for _, seg := range ParseCommand(raw).AllSegments() {
		if seg.Executable != "docker" || seg.Subcommand != "run" {
			continue
		}
		if seg.HasFlag("privileged") {
			return "--privileged"
		}
		if v, ok := seg.Flags["pid"]; ok && v == "host" {
			return "--pid=host"
		}
		if v, ok := seg.Flags["net"]; ok && v == "host" {
			return "--net=host"
		}
		if v, ok := seg.Flags["network"]; ok && v == "host" {
			return "--network=host"
		}
		if v, ok := seg.Flags["volume"]; ok && strings.HasPrefix(v, "/:") {
			return "a root volume mount"
		}
		for _, arg := range seg.Args {
			if strings.HasPrefix(arg, "/:") {
				return "a root volume mount"
			}
		}
	}
	return ""
}

// sudoShell warns when a command escalates straight into a root shell.
type sudoShell struct{}

func (sudoShell) Name() string       { return "sudo-shell" }
func (sudoShell) Severity() Severity { return Warn }

func (g sudoShell) Triggers(ctx *event.GuardContext) bool {
	raw := strings.TrimSpace(ctx.Command)
	if raw == "sudo -i" || raw == "sudo -s" {
		return true
	}
	for _, seg := range ParseCommand(ctx.Command).AllSegments() {
		if !strings.HasPrefix(seg.Raw, "sudo ") {
			continue
		}
		// ParseCommand strips sudo, so the executable is what sudo runs.
		if seg.Executable == "su" || shellInterpreters[seg.Executable] {
			return true
		}
	}
	return false
}

func (sudoShell) Explain(ctx *event.GuardContext) string {
	return "Command opens an interactive root shell. Prefer running the specific privileged command instead."
}

var downloadCommands = map[string]bool{
	"curl": true, "wget": true, "fetch": true, "aria2c": true,
}

func isRootPath(path string) bool {
	cleaned := strings.TrimRight(path, "/")
	return cleaned == "" || path == "/*"
}

var systemDirs = map[string]bool{
	"/etc": true, "/usr": true, "/var": true, "/boot": true,
	"/bin": true, "/sbin": true, "/lib": true, "/lib64": true,
	"/sys": true, "/proc": true, "/opt": true,
}

func isSystemDir(path string) bool {
	return systemDirs[strings.TrimRight(path, "/")]
}
