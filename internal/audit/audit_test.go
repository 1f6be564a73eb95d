package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogger_AppendCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "audit.jsonl")

	logger, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer logger.Close()

	if err := logger.Append(Record{EventType: ProtectionTriggered, Guard: "g", Outcome: "blocked"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestLogger_OneJSONLinePerRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	logger, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := logger.Append(Record{EventType: ProtectionTriggered, Guard: "git-no-verify", Subject: "git commit --no-verify", Outcome: "blocked"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := logger.Append(Record{EventType: OverrideAccepted, Guard: "git-no-verify", Outcome: "allowed"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	logger.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	content := string(data)
	if !strings.HasSuffix(content, "\n") {
		t.Error("log must end with a newline")
	}
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for _, line := range lines {
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Errorf("line is not valid JSON: %q (%v)", line, err)
		}
		if rec.Timestamp == "" {
			t.Errorf("timestamp not filled in: %q", line)
		}
	}
}

func TestLogger_RedactsSubject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	logger, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	err = logger.Append(Record{
		EventType: ProtectionTriggered,
		Subject:   "curl -u user https://example.com api_key=sk1234567890abcdef99",
		Outcome:   "blocked",
	})
	logger.Close()
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "sk1234567890abcdef99") {
		t.Error("secret leaked into the audit log")
	}
	if !strings.Contains(string(data), "[REDACTED]") {
		t.Error("expected redaction placeholder in log")
	}
}

func TestReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	content := `{"timestamp":"2025-06-01T12:00:00Z","event_type":"protection_triggered","guard":"g","outcome":"blocked"}

not json at all
{"timestamp":"2025-06-01T12:01:00Z","event_type":"override_accepted","guard":"g","outcome":"allowed"}
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	records, err := ReadAll(path)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records (malformed/blank skipped), got %d", len(records))
	}
	if records[0].EventType != ProtectionTriggered || records[1].EventType != OverrideAccepted {
		t.Errorf("records out of order or mistyped: %+v", records)
	}
}

func TestReadAll_MissingFileIsEmpty(t *testing.T) {
	records, err := ReadAll(filepath.Join(t.TempDir(), "absent.jsonl"))
	if err != nil {
		t.Fatalf("expected nil error for missing file, got %v", err)
	}
	if records != nil {
		t.Errorf("expected no records, got %+v", records)
	}
}
