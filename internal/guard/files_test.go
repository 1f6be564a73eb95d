package guard

import (
	"testing"

	"github.com/hookguard/hookguard/internal/event"
)

func editCtx(path, prior, next string) *event.GuardContext {
	return &event.GuardContext{
		ActionKind:   event.ActionFileEdit,
		Phase:        event.PhasePre,
		FilePath:     path,
		PriorContent: prior,
		NewContent:   next,
	}
}

func TestTestScriptEdit(t *testing.T) {
	g := testScriptEdit{patterns: DefaultProtectedPaths}

	tests := []struct {
		path  string
		fires bool
	}{
		{"run_tests.sh", true},
		{"/home/dev/project/run_tests.sh", true},
		{".pre-commit-config.yaml", true},
		{".github/workflows/ci.yml", true},
		{"project/.github/workflows/release.yml", true},
		{"main.go", false},
		{"tests/helper.go", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := g.Triggers(editCtx(tt.path, "", "# change")); got != tt.fires {
			t.Errorf("path %q: expected fires=%v, got %v", tt.path, tt.fires, got)
		}
	}
}

func TestTestScriptEdit_CustomPatterns(t *testing.T) {
	g := testScriptEdit{patterns: []string{"Justfile"}}
	if !g.Triggers(editCtx("Justfile", "", "x")) {
		t.Error("custom pattern did not match")
	}
	if g.Triggers(editCtx("run_tests.sh", "", "x")) {
		t.Error("default pattern should not apply when custom patterns are set")
	}
}

func TestGuardConfigEdit(t *testing.T) {
	g := guardConfigEdit{configDir: "/home/dev/.hookguard"}

	tests := []struct {
		path  string
		fires bool
	}{
		{"/home/dev/.hookguard/settings.yaml", true},
		{"/home/dev/.hookguard/audit.jsonl", true},
		{"/other/.hookguard/settings.yaml", true},
		{"/home/dev/project/main.go", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := g.Triggers(editCtx(tt.path, "", "x")); got != tt.fires {
			t.Errorf("path %q: expected fires=%v, got %v", tt.path, tt.fires, got)
		}
	}
}

func TestLintSuppressAdded(t *testing.T) {
	g := lintSuppressAdded{}

	tests := []struct {
		name  string
		prior string
		next  string
		fires bool
	}{
		{"introduces noqa", "x = 1", "x = 1  # noqa", true},
		{"introduces eslint-disable", "f()", "// eslint-disable-next-line\nf()", true},
		{"already present", "x  # noqa", "y  # noqa", false},
		{"no suppression", "x = 1", "x = 2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Triggers(editCtx("a.py", tt.prior, tt.next)); got != tt.fires {
				t.Errorf("expected fires=%v, got %v", tt.fires, got)
			}
		})
	}
}

func TestEnvFileWrite(t *testing.T) {
	g := envFileWrite{}

	tests := []struct {
		path  string
		fires bool
	}{
		{".env", true},
		{".env.production", true},
		{"deploy/key.pem", true},
		{"aws_credentials.json", true},
		{"config.yaml", false},
		{"environment.go", false},
	}

	for _, tt := range tests {
		ctx := &event.GuardContext{ActionKind: event.ActionFileWrite, FilePath: tt.path}
		if got := g.Triggers(ctx); got != tt.fires {
			t.Errorf("path %q: expected fires=%v, got %v", tt.path, tt.fires, got)
		}
	}
}
