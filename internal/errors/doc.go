// Package errors provides typed error values for the Aegis application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. This makes
// error handling more robust and refactoring-safe.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Intake errors: a candidate file was rejected (ErrUnsupportedFileType, ErrFileTooLarge)
//   - Configuration errors: missing identity or service URL (ErrNoIdentity)
//   - Workflow errors: workflow driven out of order (ErrNoFileSelected)
//   - Service errors: protection service boundary failures (ErrServiceUnavailable)
//
// # Usage
//
// Return errors from internal packages:
//
//	if file.Size > MaxImageSize {
//	    return nil, aegerr.ErrFileTooLarge
//	}
//
// Handle errors in the CLI layer:
//
//	selected, err := intake.Validate(path)
//	if errors.Is(err, aegerr.ErrFileTooLarge) {
//	    // Show user-friendly message
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("validating %s: %w", path, aegerr.ErrUnsupportedFileType)
package errors
