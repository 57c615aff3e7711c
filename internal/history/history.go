package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/solverde/aegis/internal/configs"
)

// Entry records a single completed protection run.
type Entry struct {
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	User      string `json:"user"` // Email of the submitting user.
	UserUUID  string `json:"uuid"` // Install UUID of the submitting user.

	SubmissionID    string   `json:"submission_id"`    // Client-side id for this run.
	FileName        string   `json:"file_name"`        // Original file name.
	ContentID       string   `json:"content_id"`       // Server-issued content id.
	ProtectedHash   string   `json:"protected_hash"`   // Hash of the protected asset.
	ProtectionScore float64  `json:"protection_score"` // Composed score (may be a default).
	Layers          []string `json:"layers,omitempty"` // Enabled layer names.
}

// Append adds an entry to the protection history log.
// If logging fails, the operation continues without error; a protection
// run should never fail because its history entry could not be written.
func Append(entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	logPath := LogPath()

	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	// #nosec G306 -- history records no secrets, only submission metadata.
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
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

// LogPath returns the path to the protection history log.
func LogPath() string {
	return filepath.Join(configs.UserAegisSettings.UserDataPath, "history.jsonl")
}

// ReadEntries reads all entries from the history log, oldest first.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	data, err := os.ReadFile(LogPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into history entries.
// Malformed lines are silently skipped to handle partial writes.
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
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
