// Package history provides a local log of completed protection runs.
//
// Every successful protection is recorded so the user can review what
// was protected, when, and with which layers, without asking the
// service.
//
// # Log Format
//
// The history is stored as JSON Lines (one JSON object per line) at:
//
//	<data dir>/aegis/history.jsonl
//
// Each entry contains the timestamp, the submitting identity, the
// client-side submission id, and the server-issued content id and hash.
//
// # Failure Handling
//
// History logging is best-effort. If a write fails (permissions, disk
// full, etc.), the protection run continues without error.
//
// # Reading
//
// Use ReadEntries() to parse the log for display. Malformed lines are
// silently skipped to handle partial writes.
package history
