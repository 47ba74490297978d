package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/alexanderramin/syllabus/internal/contract"
	"github.com/alexanderramin/syllabus/internal/repository"
	"github.com/alexanderramin/syllabus/internal/service"
)

// ErrEmptyResponse is a 2xx answer that carries no program or snapshot.
// Installing it would wipe the learner's progress, so it counts as a failure.
var ErrEmptyResponse = errors.New("server returned an empty response")

// RemoteError is a non-2xx answer from the API. It unwraps to the sentinel
// the server raised, so callers can use errors.Is against either backend.
type RemoteError struct {
	Status  int
	Code    contract.ErrorCode
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("remote: %d %s: %s", e.Status, e.Code, e.Message)
}

// UserMessage is the text to show a learner. Server faults have none, so
// callers fall back to their own generic message.
func (e *RemoteError) UserMessage() string {
	if e.Status >= http.StatusInternalServerError {
		return ""
	}
	return e.Message
}

func (e *RemoteError) Unwrap() error {
	switch e.Code {
	case contract.ErrCodeNotFound:
		return repository.ErrNotFound
	case contract.ErrCodeNotEnrolled:
		return service.ErrNotEnrolled
	case contract.ErrCodeLessonNotInProgram:
		return service.ErrLessonNotInProgram
	case contract.ErrCodePartNotInLesson:
		return service.ErrPartNotInLesson
	case contract.ErrCodePreviewNotPersisted:
		return service.ErrPreviewNotPersisted
	case contract.ErrCodeInvalidProgram:
		return service.ErrInvalidProgram
	default:
		return nil
	}
}
