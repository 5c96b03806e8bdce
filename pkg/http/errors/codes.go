package errors

// Error codes for standardized error responses
const (
	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"

	// Catalog/content errors
	ErrCodeQuizNotFound       = "quiz_not_found"
	ErrCodeInvalidQuiz        = "invalid_quiz"
	ErrCodeContentUnavailable = "content_unavailable"

	// Session errors
	ErrCodeSessionNotFound     = "session_not_found"
	ErrCodeInvalidSessionID    = "invalid_session_id"
	ErrCodeQuizAlreadySelected = "quiz_already_selected"
	ErrCodeNoActiveQuestion    = "no_active_question"
	ErrCodeAdvanceBlocked      = "advance_blocked"
	ErrCodeSessionNotFinished  = "session_not_finished"

	// Certificate errors
	ErrCodeCertificateRenderFailed = "certificate_render_failed"

	// WebSocket errors
	ErrCodeUnknownMessageType = "unknown_message_type"

	// Server errors
	ErrCodeServiceUnavailable = "service_unavailable"
)
