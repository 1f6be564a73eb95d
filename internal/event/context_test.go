package event

import (
	"errors"
	"testing"
)

func TestParse_NativeShell(t *testing.T) {
	ctx, err := Parse([]byte(`{"actionKind": "shell-execution", "command": "git status"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.ActionKind != ActionShell {
		t.Errorf("expected %s, got %s", ActionShell, ctx.ActionKind)
	}
	if ctx.Command != "git status" {
		t.Errorf("expected command %q, got %q", "git status", ctx.Command)
	}
	if ctx.Phase != PhasePre {
		t.Errorf("expected default phase pre, got %s", ctx.Phase)
	}
}

func TestParse_NativeFileEdit(t *testing.T) {
	ctx, err := Parse([]byte(`{
		"actionKind": "file-edit",
		"filePath": "run_tests.sh",
		"priorContent": "old",
		"newContent": "new"
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.ActionKind != ActionFileEdit {
		t.Errorf("expected %s, got %s", ActionFileEdit, ctx.ActionKind)
	}
	if ctx.FilePath != "run_tests.sh" || ctx.PriorContent != "old" || ctx.NewContent != "new" {
		t.Errorf("file fields not mapped: %+v", ctx)
	}
}

func TestParse_ToolCallDialect(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		kind     ActionKind
		phase    Phase
		command  string
		filePath string
	}{
		{
			name:    "bash pre",
			input:   `{"hook_event_name": "PreToolUse", "tool_name": "Bash", "tool_input": {"command": "ls -la"}}`,
			kind:    ActionShell,
			phase:   PhasePre,
			command: "ls -la",
		},
		{
			name:     "edit",
			input:    `{"hook_event_name": "PreToolUse", "tool_name": "Edit", "tool_input": {"file_path": "a.go", "old_string": "x", "new_string": "y"}}`,
			kind:     ActionFileEdit,
			phase:    PhasePre,
			filePath: "a.go",
		},
		{
			name:     "write post",
			input:    `{"hook_event_name": "PostToolUse", "tool_name": "Write", "tool_input": {"file_path": "b.txt", "content": "data"}}`,
			kind:     ActionFileWrite,
			phase:    PhasePost,
			filePath: "b.txt",
		},
		{
			name:  "unknown tool passes through",
			input: `{"hook_event_name": "PreToolUse", "tool_name": "Glob", "tool_input": {}}`,
			kind:  ActionUnknown,
			phase: PhasePre,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, err := Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ctx.ActionKind != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, ctx.ActionKind)
			}
			if ctx.Phase != tt.phase {
				t.Errorf("expected phase %s, got %s", tt.phase, ctx.Phase)
			}
			if ctx.Command != tt.command {
				t.Errorf("expected command %q, got %q", tt.command, ctx.Command)
			}
			if ctx.FilePath != tt.filePath {
				t.Errorf("expected path %q, got %q", tt.filePath, ctx.FilePath)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   \n"},
		{"not json", "not json"},
		{"json null", "null"},
		{"json array", `["a", "b"]`},
		{"json scalar", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatalf("expected error for %q", tt.input)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Errorf("expected *ParseError, got %T", err)
			}
		})
	}
}

func TestParse_UnknownFieldsPreservedInRaw(t *testing.T) {
	ctx, err := Parse([]byte(`{"actionKind": "shell-execution", "command": "ls", "session_id": "abc123"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, ok := ctx.Raw["session_id"]; !ok || got != "abc123" {
		t.Errorf("expected session_id preserved in Raw, got %v", ctx.Raw)
	}
}

func TestParse_MissingOptionalFieldsAreAbsent(t *testing.T) {
	ctx, err := Parse([]byte(`{"actionKind": "file-write"}`))
	if err != nil {
		t.Fatalf("missing optional fields must not error: %v", err)
	}
	if ctx.FilePath != "" || ctx.NewContent != "" {
		t.Errorf("expected absent fields to be empty, got %+v", ctx)
	}
}

func TestParse_UnrecognizedKindMapsToUnknown(t *testing.T) {
	ctx, err := Parse([]byte(`{"actionKind": "network-request"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.ActionKind != ActionUnknown {
		t.Errorf("expected %s, got %s", ActionUnknown, ctx.ActionKind)
	}
}
