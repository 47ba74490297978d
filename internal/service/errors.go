package service

import "errors"

var (
	ErrLessonNotInProgram  = errors.New("lesson is not part of the program")
	ErrPartNotInLesson     = errors.New("part is not part of the lesson")
	ErrPreviewNotPersisted = errors.New("preview sessions do not save progress")
	ErrNotEnrolled         = errors.New("user is not enrolled in the program")
	ErrInvalidProgram      = errors.New("invalid program definition")
)
