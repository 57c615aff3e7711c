// Package logger provides leveled logging for Aegis CLI commands.
//
// Verbosity is controlled by two flags:
//
//   - --verbose: shows info messages
//   - --debug: shows all messages including debug details
//
// Warnings and errors are always shown.
//
// # Usage
//
// Commands create a logger in their PersistentPreRun and use it directly:
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("submitting %s", file.Name)
//
// ErrorfAndReturn logs an error and returns it, which keeps RunE bodies
// to a single statement per failure path.
package logger
