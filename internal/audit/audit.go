// Package audit appends structured records of every protection and override
// event to a line-oriented log file.
//
// The log is the system's only persisted state. Records are written with a
// single O_APPEND write each, so concurrent invocations interleave at record
// granularity rather than corrupting one another. Records are never edited
// or deleted here; rotation is an operator concern.
package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hookguard/hookguard/internal/redact"
)

// EventType classifies an audit record.
type EventType string

const (
	ProtectionTriggered EventType = "protection_triggered"
	OverrideAccepted    EventType = "override_accepted"
	OverrideRejected    EventType = "override_rejected"

	// BypassUsed records the maintenance kill-switch allowing an action
	// without evaluation.
	BypassUsed EventType = "bypass_used"
)

// Record is one audit log line.
type Record struct {
	Timestamp  string    `json:"timestamp"`
	EventType  EventType `json:"event_type"`
	Guard      string    `json:"guard,omitempty"`
	ActionKind string    `json:"action_kind,omitempty"`
	Subject    string    `json:"subject,omitempty"` // command or file path
	Outcome    string    `json:"outcome"`
	Detail     string    `json:"detail,omitempty"`
}

// Logger appends records to a single log file.
type Logger struct {
	file *os.File
	mu   sync.Mutex
}

// Open creates the log's parent directories as needed and opens it for
// append-only writing.
func Open(path string) (*Logger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}
	return &Logger{file: file}, nil
}

// Append writes one record as one JSON line. Credential material in the
// subject and detail is redacted first. A write failure is returned for
// surfacing but must never change a verdict.
func (l *Logger) Append(rec Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rec.Timestamp == "" {
		rec.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	rec.Subject = redact.Redact(rec.Subject)
	rec.Detail = redact.Redact(rec.Detail)

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	// One Write call per record: atomic under O_APPEND for sane sizes.
	_, err = l.file.Write(data)
	return err
}

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// ReadAll loads every well-formed record from a log file. Blank and
// malformed lines are skipped; a missing file reads as empty.
func ReadAll(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var records []Record
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, scanner.Err()
}
