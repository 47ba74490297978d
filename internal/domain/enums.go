package domain

type ContentType string

const (
	ContentVideo        ContentType = "video"
	ContentText         ContentType = "text"
	ContentDocument     ContentType = "document"
	ContentQuiz         ContentType = "quiz"
	ContentAssignment   ContentType = "assignment"
	ContentPresentation ContentType = "presentation"
)

// ValidContentTypes is the canonical set of accepted content type strings.
var ValidContentTypes = map[string]bool{
	"video": true, "text": true, "document": true,
	"quiz": true, "assignment": true, "presentation": true,
}

// SupportsParts reports whether lessons of this type may be split into
// several files.
func (c ContentType) SupportsParts() bool {
	return c == ContentVideo || c == ContentDocument
}

type LessonStatus string

const (
	LessonInProgress LessonStatus = "in_progress"
	LessonCompleted  LessonStatus = "completed"
)

type EnrollmentKind string

const (
	// KindEnrolled is a persisted enrollment owned by the server.
	KindEnrolled EnrollmentKind = "enrolled"
	// KindPreview is synthesized for a program owner and never persisted.
	KindPreview EnrollmentKind = "preview"
)
