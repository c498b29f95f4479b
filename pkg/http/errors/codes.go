package errors

// Error codes for standardized error responses
const (
	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"

	// Document ingestion errors
	ErrCodeEmptyDocument     = "empty_document"
	ErrCodeUnsupportedFormat = "unsupported_format"
	ErrCodeExtractionFailed  = "extraction_failed"
	ErrCodeDocumentNotFound  = "document_not_found"
	ErrCodeUploadFailed      = "upload_failed"

	// Generation errors
	ErrCodeGenerationFailed     = "generation_failed"
	ErrCodeGenerationTimeout    = "generation_timeout"
	ErrCodeGenerationValidation = "generation_validation_failed"
	ErrCodeRequestSuperseded    = "request_superseded"

	// Session errors
	ErrCodeSetNotFound = "set_not_found"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"
)
