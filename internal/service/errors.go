package service

import "errors"

// Error types
var (
	// ErrUnauthenticated indicates no identity was presented
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden indicates the identity lacks the required role
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidFolderName indicates a folder name with a path separator
	// or over the length limit
	ErrInvalidFolderName = errors.New("invalid folder name")

	// ErrEmptyUpload indicates an upload request without a file payload
	ErrEmptyUpload = errors.New("missing file payload")

	// ErrNotAnImage indicates an upload whose content type is not an image
	ErrNotAnImage = errors.New("file is not an image")

	// ErrMissingKey indicates a photo operation without a key or URL
	ErrMissingKey = errors.New("missing photo key")
)
