package errors

import "errors"

// Intake errors indicate a candidate file was rejected before submission.
var (
	// ErrFileNotFound indicates the candidate file could not be located.
	ErrFileNotFound = errors.New("file not found")

	// ErrUnsupportedFileType indicates the candidate is not an image.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrFileTooLarge indicates the candidate exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")
)

// Configuration errors indicate missing or invalid user configuration.
var (
	// ErrNoIdentity indicates no user identity has been configured.
	ErrNoIdentity = errors.New("no user identity configured")

	// ErrNoServiceURL indicates no protection service URL has been configured.
	ErrNoServiceURL = errors.New("no protection service URL configured")

	// ErrInvalidConfig indicates the user configuration is malformed or corrupt.
	ErrInvalidConfig = errors.New("user configuration is invalid")
)

// Workflow errors indicate the protection workflow was driven out of order.
var (
	// ErrNoFileSelected indicates a submission was attempted without a file.
	ErrNoFileSelected = errors.New("no file selected")

	// ErrAlreadyProcessing indicates a submission is already in flight.
	ErrAlreadyProcessing = errors.New("a submission is already processing")
)

// Service errors indicate failures at the protection service boundary.
var (
	// ErrServiceUnavailable indicates the protection service could not be reached.
	ErrServiceUnavailable = errors.New("protection service unavailable")

	// ErrMalformedResponse indicates the service response could not be decoded.
	ErrMalformedResponse = errors.New("malformed service response")
)
