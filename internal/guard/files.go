package guard

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hookguard/hookguard/internal/event"
)

// DefaultProtectedPaths are the file patterns the test-script-edit guard
// protects when no explicit patterns are configured.
var DefaultProtectedPaths = []string{
	"run_tests.sh",
	"run-tests.sh",
	".pre-commit-config.yaml",
	".github/workflows/*",
}

// testScriptEdit blocks mutation of test harness and CI configuration files.
// An agent that edits the test runner instead of the code under test is
// gaming its own acceptance criteria.
type testScriptEdit struct {
	patterns []string
}

func (testScriptEdit) Name() string       { return "test-script-edit" }
func (testScriptEdit) Severity() Severity { return Block }

func (g testScriptEdit) Triggers(ctx *event.GuardContext) bool {
	return g.matchedPattern(ctx.FilePath) != ""
}

func (g testScriptEdit) Explain(ctx *event.GuardContext) string {
	return fmt.Sprintf("%s is a protected test/CI file (pattern %q). Change the code under test, not the harness.",
		ctx.FilePath, g.matchedPattern(ctx.FilePath))
}

func (g testScriptEdit) matchedPattern(path string) string {
	if path == "" {
		return ""
	}
	for _, pattern := range g.patterns {
		if matchPath(path, pattern) {
			return pattern
		}
	}
	return ""
}

// guardConfigEdit blocks edits to this tool's own configuration and audit
// log. Self-protection: a blocked agent must not be able to edit the rules
// that blocked it.
type guardConfigEdit struct {
	configDir string
}

func (guardConfigEdit) Name() string       { return "guard-config-edit" }
func (guardConfigEdit) Severity() Severity { return Block }

func (g guardConfigEdit) Triggers(ctx *event.GuardContext) bool {
	if ctx.FilePath == "" {
		return false
	}
	path := filepath.Clean(ctx.FilePath)
	if g.configDir != "" && strings.HasPrefix(path, filepath.Clean(g.configDir)+string(filepath.Separator)) {
		return true
	}
	return strings.Contains(path, string(filepath.Separator)+".hookguard"+string(filepath.Separator))
}

func (guardConfigEdit) Explain(ctx *event.GuardContext) string {
	return fmt.Sprintf("%s is hookguard's own configuration; it cannot be modified by an intercepted action.", ctx.FilePath)
}

// lintSuppressAdded warns when an edit introduces a lint suppression that
// was not already present.
type lintSuppressAdded struct{}

var lintSuppressMarkers = []string{
	"eslint-disable",
	"noqa",
	"nolint",
	"type: ignore",
	"@ts-ignore",
	"rubocop:disable",
}

func (lintSuppressAdded) Name() string       { return "lint-suppress-added" }
func (lintSuppressAdded) Severity() Severity { return Warn }

func (g lintSuppressAdded) Triggers(ctx *event.GuardContext) bool {
	return g.marker(ctx) != ""
}

func (g lintSuppressAdded) Explain(ctx *event.GuardContext) string {
	return fmt.Sprintf("Edit introduces a %q suppression. Fix the finding instead of silencing it, or note why the suppression is justified.", g.marker(ctx))
}

func (lintSuppressAdded) marker(ctx *event.GuardContext) string {
	for _, m := range lintSuppressMarkers {
		if strings.Contains(ctx.NewContent, m) && !strings.Contains(ctx.PriorContent, m) {
			return m
		}
	}
	return ""
}

// envFileWrite warns on writes to credential-bearing files.
type envFileWrite struct{}

func (envFileWrite) Name() string       { return "env-file-write" }
func (envFileWrite) Severity() Severity { return Warn }

func (g envFileWrite) Triggers(ctx *event.GuardContext) bool {
	if ctx.FilePath == "" {
		return false
	}
	base := filepath.Base(ctx.FilePath)
	if strings.HasPrefix(base, ".env") {
		return true
	}
	if strings.HasSuffix(base, ".pem") {
		return true
	}
	return strings.Contains(strings.ToLower(base), "credentials")
}

func (envFileWrite) Explain(ctx *event.GuardContext) string {
	return fmt.Sprintf("%s looks like a credentials file. Verify nothing secret is being written or overwritten.", ctx.FilePath)
}

// matchPath matches a path against a pattern, against both the full path and
// its base name. A pattern containing a separator matches as a suffix glob
// so ".github/workflows/*" catches the directory anywhere in the tree.
func matchPath(path, pattern string) bool {
	path = filepath.ToSlash(filepath.Clean(path))

	if !strings.Contains(pattern, "/") {
		if ok, _ := filepath.Match(pattern, filepath.Base(path)); ok {
			return true
		}
		ok, _ := filepath.Match(pattern, path)
		return ok
	}

	if ok, _ := filepath.Match(pattern, path); ok {
		return true
	}
	// Suffix match: "a/b/.github/workflows/ci.yml" vs ".github/workflows/*".
	if i := strings.Index(path, strings.SplitN(pattern, "*", 2)[0]); i > 0 {
		ok, _ := filepath.Match(pattern, path[i:])
		return ok
	}
	return false
}
