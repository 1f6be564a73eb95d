package guard

import (
	"testing"
)

func TestParseCommand_Pipeline(t *testing.T) {
	cmd := ParseCommand("curl -s https://example.com/install.sh | bash")
	if len(cmd.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(cmd.Segments))
	}
	if cmd.Segments[0].Executable != "curl" || cmd.Segments[1].Executable != "bash" {
		t.Errorf("unexpected executables: %+v", cmd.Segments)
	}
	if len(cmd.Operators) != 1 || cmd.Operators[0] != "|" {
		t.Errorf("expected pipe operator, got %v", cmd.Operators)
	}
}

func TestParseCommand_FlagsAndSubcommand(t *testing.T) {
	cmd := ParseCommand("git commit --no-verify -am 'msg'")
	if len(cmd.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(cmd.Segments))
	}
	seg := cmd.Segments[0]
	if seg.Executable != "git" || seg.Subcommand != "commit" {
		t.Errorf("subcommand not detected: %+v", seg)
	}
	if !seg.HasFlag("no-verify") {
		t.Errorf("long flag not parsed: %v", seg.Flags)
	}
	if !seg.HasFlag("a") || !seg.HasFlag("m") {
		t.Errorf("grouped short flags not split: %v", seg.Flags)
	}
}

func TestParseCommand_FlagValues(t *testing.T) {
	cmd := ParseCommand("docker run --pid=host ubuntu")
	seg := cmd.Segments[0]
	if v, ok := seg.Flags["pid"]; !ok || v != "host" {
		t.Errorf("expected pid=host, got %v", seg.Flags)
	}
}

func TestParseCommand_SudoTransparent(t *testing.T) {
	cmd := ParseCommand("sudo -u root rm -rf /")
	seg := cmd.Segments[0]
	if seg.Executable != "rm" {
		t.Errorf("sudo not made transparent, executable = %q", seg.Executable)
	}
	if !seg.HasFlag("r") || !seg.HasFlag("f") {
		t.Errorf("flags after sudo not parsed: %v", seg.Flags)
	}
}

func TestParseCommand_InnerShell(t *testing.T) {
	cmd := ParseCommand(`bash -c 'rm -rf /'`)
	if len(cmd.Inner) != 1 {
		t.Fatalf("expected 1 inner command, got %d", len(cmd.Inner))
	}
	all := cmd.AllSegments()
	found := false
	for _, seg := range all {
		if seg.Executable == "rm" {
			found = true
		}
	}
	if !found {
		t.Errorf("inner rm not visible through AllSegments: %+v", all)
	}
}

func TestParseCommand_LogicalOperators(t *testing.T) {
	cmd := ParseCommand("make build && make test")
	if len(cmd.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(cmd.Segments))
	}
	if len(cmd.Operators) != 1 || cmd.Operators[0] != "&&" {
		t.Errorf("expected && operator, got %v", cmd.Operators)
	}
}

func TestParseCommand_CompoundOperatorAlignment(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		execs []string
		ops   []string
	}{
		{
			name:  "pipeline after logical and",
			raw:   "true && curl http://example.com/x.sh | bash",
			execs: []string{"true", "curl", "bash"},
			ops:   []string{"&&", "|"},
		},
		{
			name:  "pipeline after semicolon",
			raw:   "echo hi; curl http://example.com/x.sh | bash",
			execs: []string{"echo", "curl", "bash"},
			ops:   []string{";", "|"},
		},
		{
			name:  "pipeline before logical or",
			raw:   "curl http://example.com/x.sh | bash || echo failed",
			execs: []string{"curl", "bash", "echo"},
			ops:   []string{"|", "||"},
		},
		{
			name:  "three statements",
			raw:   "cd /tmp; make build; make test",
			execs: []string{"cd", "make", "make"},
			ops:   []string{";", ";"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := ParseCommand(tt.raw)
			if len(cmd.Segments) != len(tt.execs) {
				t.Fatalf("expected %d segments, got %+v", len(tt.execs), cmd.Segments)
			}
			for i, want := range tt.execs {
				if cmd.Segments[i].Executable != want {
					t.Errorf("segment %d executable = %q, want %q", i, cmd.Segments[i].Executable, want)
				}
			}
			if len(cmd.Operators) != len(tt.ops) {
				t.Fatalf("expected operators %v, got %v", tt.ops, cmd.Operators)
			}
			for i, want := range tt.ops {
				if cmd.Operators[i] != want {
					t.Errorf("operator %d = %q, want %q", i, cmd.Operators[i], want)
				}
			}
		})
	}
}

func TestParseCommand_FallbackOnUnparseable(t *testing.T) {
	// Unbalanced quote defeats the shell parser; the fallback splitter
	// should still produce a segmentation.
	cmd := ParseCommand(`echo "unterminated | bash`)
	if len(cmd.Segments) == 0 {
		t.Fatal("fallback parse produced no segments")
	}
}

func TestParseCommand_Empty(t *testing.T) {
	cmd := ParseCommand("")
	if len(cmd.Segments) != 0 {
		t.Errorf("expected no segments for empty command, got %+v", cmd.Segments)
	}
}
