package storage

import "errors"

// Sentinel errors for staging operations.
var (
	// ErrInputResolution indicates no single LaTeX file could be chosen.
	ErrInputResolution = errors.New("cannot resolve input")

	// ErrUpload indicates the output could not be uploaded.
	ErrUpload = errors.New("upload failed")

	// ErrInvalidLocation indicates a malformed s3:// location.
	ErrInvalidLocation = errors.New("invalid storage location")
)
