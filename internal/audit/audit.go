package audit

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const timestampFormat = "2006-01-02T15:04:05.000000Z"

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Entry represents a single audit log entry.
type Entry struct {
	ID        string `json:"id"`
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	User      string `json:"user"` // System user running the command.
	Operation string `json:"op"`

	Identity string `json:"identity,omitempty"` // Hex identity id, when known.
	Mode     string `json:"mode,omitempty"`     // Protection mode, when known.
	Count    int    `json:"count,omitempty"`    // For list.
	Outcome  string `json:"outcome"`
	Error    string `json:"error,omitempty"`
}

// Trail appends entries to one log file.
type Trail struct {
	Path    string
	Enabled bool
	User    string

	now func() time.Time
}

// New returns a trail writing to path. A disabled trail still reads.
func New(path string, enabled bool, user string) *Trail {
	return &Trail{Path: path, Enabled: enabled, User: user, now: time.Now}
}

// Begin starts an entry for op with the trail's user filled in.
func (t *Trail) Begin(op string) Entry {
	return Entry{Operation: op, User: t.User}
}

// Finish sets the outcome from err and records the entry.
func (t *Trail) Finish(entry Entry, err error) {
	if err != nil {
		entry.Outcome = OutcomeError
		entry.Error = err.Error()
	} else {
		entry.Outcome = OutcomeOK
	}
	t.Record(entry)
}

// Record appends entry to the log. Failures are ignored.
func (t *Trail) Record(entry Entry) {
	if t == nil || !t.Enabled || t.Path == "" {
		return
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = t.now().UTC().Format(timestampFormat)
	}

	if err := os.MkdirAll(filepath.Dir(t.Path), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(t.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// ReadEntries reads all entries from the log.
// Returns an empty slice if the log doesn't exist.
func (t *Trail) ReadEntries() ([]Entry, error) {
	data, err := os.ReadFile(t.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Skip partial writes.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
