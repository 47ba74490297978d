package progress

import (
	"errors"
	"strings"
)

// GenericFailureMessage is shown when a failed update carries no message of
// its own.
const GenericFailureMessage = "We couldn't save your progress. Please try again."

var (
	// ErrUnknownLesson indicates a mutation for a lesson outside the program.
	ErrUnknownLesson = errors.New("lesson is not part of this program")

	// ErrUnknownPart indicates a part id that does not belong to the lesson.
	ErrUnknownPart = errors.New("part does not belong to this lesson")

	// ErrModuleLocked indicates navigation into a gated module that is not
	// yet unlocked.
	ErrModuleLocked = errors.New("module is locked until the previous module is completed")
)

// userMessager is implemented by remote errors that carry a message meant
// for the learner.
type userMessager interface {
	UserMessage() string
}

// ProgressError is returned after a failed update has been rolled back. It
// is transient: repeating the action is the retry.
type ProgressError struct {
	LessonID string
	PartID   string
	Message  string
	Err      error
}

func (e *ProgressError) Error() string { return e.Message }

func (e *ProgressError) Unwrap() error { return e.Err }

func newProgressError(lessonID, partID string, err error) *ProgressError {
	msg := GenericFailureMessage
	var um userMessager
	if errors.As(err, &um) {
		if m := strings.TrimSpace(um.UserMessage()); m != "" {
			msg = m
		}
	}
	return &ProgressError{LessonID: lessonID, PartID: partID, Message: msg, Err: err}
}
