package content

import "errors"

var (
	// ErrUnsupportedType is returned for uploads that are neither text nor PDF.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrInvalidEncoding is returned when a text upload is not valid UTF-8.
	ErrInvalidEncoding = errors.New("text file is not valid UTF-8")

	// ErrExtractionFailed is returned when a PDF cannot be parsed.
	ErrExtractionFailed = errors.New("failed to extract text from PDF")
)
