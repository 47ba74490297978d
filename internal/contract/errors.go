package contract

// ErrorCode is the machine-readable part of an API error.
type ErrorCode string

const (
	ErrCodeInvalidRequest      ErrorCode = "INVALID_REQUEST"
	ErrCodeNotFound            ErrorCode = "NOT_FOUND"
	ErrCodeNotEnrolled         ErrorCode = "NOT_ENROLLED"
	ErrCodeLessonNotInProgram  ErrorCode = "LESSON_NOT_IN_PROGRAM"
	ErrCodePartNotInLesson     ErrorCode = "PART_NOT_IN_LESSON"
	ErrCodePreviewNotPersisted ErrorCode = "PREVIEW_NOT_PERSISTED"
	ErrCodeInvalidProgram      ErrorCode = "INVALID_PROGRAM"
	ErrCodeInternal            ErrorCode = "INTERNAL"
)

// ErrorDetail carries a human-readable message safe to show to learners.
type ErrorDetail struct {
	Message string    `json:"message"`
	Code    ErrorCode `json:"code"`
}

// ErrorResponse is the envelope of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
