package zipclean

import "errors"

// Sentinel errors for package zipclean.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Archive errors
	ErrMissingFile    = errors.New("file does not exist")
	ErrInvalidArchive = errors.New("not a valid ZIP file")

	// Directory errors
	ErrDirectoryNotFound = errors.New("directory does not exist")

	// Entry errors
	ErrUnsafePath = errors.New("entry path escapes extraction directory")
)
