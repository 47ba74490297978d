package testutil

import (
	"time"

	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/google/uuid"
)

// Lesson options
type LessonOption func(*domain.Lesson)

func WithContentType(c domain.ContentType) LessonOption {
	return func(l *domain.Lesson) {
		l.ContentType = c
	}
}

// WithParts turns the lesson into a multi-part video lesson with the given part ids.
func WithParts(ids ...string) LessonOption {
	return func(l *domain.Lesson) {
		if !l.ContentType.SupportsParts() {
			l.ContentType = domain.ContentVideo
		}
		l.Parts = make([]domain.Part, len(ids))
		for i, id := range ids {
			l.Parts[i] = domain.Part{ID: id, Title: "Part " + id}
		}
	}
}

func NewTestLesson(id string, opts ...LessonOption) domain.Lesson {
	l := domain.Lesson{
		ID:          id,
		Title:       "Lesson " + id,
		ContentType: domain.ContentText,
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// Module options
type ModuleOption func(*domain.Module)

func WithGated() ModuleOption {
	return func(m *domain.Module) {
		m.IsGated = true
	}
}

func WithLessons(lessons ...domain.Lesson) ModuleOption {
	return func(m *domain.Module) {
		m.Lessons = append(m.Lessons, lessons...)
	}
}

func NewTestModule(id string, opts ...ModuleOption) domain.Module {
	m := domain.Module{
		ID:    id,
		Title: "Module " + id,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Program options
type ProgramOption func(*domain.Program)

func WithOwner(userID string) ProgramOption {
	return func(p *domain.Program) {
		p.OwnerID = userID
	}
}

func WithProgramID(id string) ProgramOption {
	return func(p *domain.Program) {
		p.ID = id
	}
}

func WithModules(modules ...domain.Module) ProgramOption {
	return func(p *domain.Program) {
		p.Modules = append(p.Modules, modules...)
	}
}

func NewTestProgram(title string, opts ...ProgramOption) *domain.Program {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Program{
		ID:        uuid.New().String(),
		OwnerID:   "owner-" + uuid.New().String()[:8],
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p.Normalize()
}

// TwoModuleProgram builds the canonical gating fixture: M1 (open) with
// lessons m1-l1 and m1-l2, M2 (gated) with lesson m2-l1.
func TwoModuleProgram() *domain.Program {
	return NewTestProgram("Gating",
		WithModules(
			NewTestModule("m1", WithLessons(NewTestLesson("m1-l1"), NewTestLesson("m1-l2"))),
			NewTestModule("m2", WithGated(), WithLessons(NewTestLesson("m2-l1"))),
		),
	)
}

// Enrollment options
type EnrollmentOption func(*domain.Enrollment)

func WithCompleted(lessonIDs ...string) EnrollmentOption {
	return func(e *domain.Enrollment) {
		for _, id := range lessonIDs {
			e.CompletedLessons = e.CompletedLessons.With(id)
		}
	}
}

func WithCompletedParts(lessonID string, totalParts int, partIDs ...string) EnrollmentOption {
	return func(e *domain.Enrollment) {
		next := e
		for _, id := range partIDs {
			next = next.WithPartCompleted(lessonID, id, totalParts)
		}
		*e = *next
	}
}

func WithLastViewed(lessonID string) EnrollmentOption {
	return func(e *domain.Enrollment) {
		e.LastViewedLesson = &lessonID
	}
}

func AsPreview() EnrollmentOption {
	return func(e *domain.Enrollment) {
		e.Kind = domain.KindPreview
	}
}

func NewTestEnrollment(programID, userID string, opts ...EnrollmentOption) *domain.Enrollment {
	now := time.Now().UTC().Truncate(time.Second)
	e := &domain.Enrollment{
		ID:            uuid.New().String(),
		ProgramID:     programID,
		UserID:        userID,
		Kind:          domain.KindEnrolled,
		LessonDetails: map[string]domain.LessonDetail{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
