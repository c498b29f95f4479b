package document

import "errors"

var (
	// ErrUnsupportedFormat indicates the file extension has no extractor.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrExtractionFailed indicates the extractor could not produce text
	// from a supported file.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrNotFound indicates the document reference is unknown.
	ErrNotFound = errors.New("document not found")
)
