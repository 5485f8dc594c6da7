package summary

import "errors"

var (
	// ErrInvalidType is returned by NewReader when a requested type is not
	// one of the supported types, or when no type is requested.
	ErrInvalidType = errors.New("summary: invalid type name")

	// ErrInvalidPattern is returned by NewReader for a malformed file pattern.
	ErrInvalidPattern = errors.New("summary: invalid file pattern")

	// ErrImageDecode is the reading error kind for images the codec rejects.
	ErrImageDecode = errors.New("summary: image decode failed")

	// ErrOpen is the reading error kind for files that cannot be opened.
	ErrOpen = errors.New("summary: cannot open file")

	// ErrClosed is returned by Next after Close.
	ErrClosed = errors.New("summary: reader closed")
)
