package contract

import (
	"time"

	"github.com/alexanderramin/syllabus/internal/domain"
)

// LessonDetailDTO is the wire form of domain.LessonDetail.
type LessonDetailDTO struct {
	Status         string   `json:"status"`
	CompletedParts []string `json:"completed_parts"`
}

// EnrollmentDTO is the full progress snapshot returned by every
// progress-changing endpoint.
type EnrollmentDTO struct {
	ID                 string                     `json:"id"`
	ProgramID          string                     `json:"program_id"`
	UserID             string                     `json:"user_id"`
	Kind               string                     `json:"kind"`
	CompletedLessons   []string                   `json:"completed_lessons"`
	LessonDetails      map[string]LessonDetailDTO `json:"lesson_details"`
	LastViewedLessonID *string                    `json:"last_viewed_lesson_id"`
	CreatedAt          time.Time                  `json:"created_at"`
	UpdatedAt          time.Time                  `json:"updated_at"`
}

func FromEnrollment(e *domain.Enrollment) EnrollmentDTO {
	dto := EnrollmentDTO{
		ID:                 e.ID,
		ProgramID:          e.ProgramID,
		UserID:             e.UserID,
		Kind:               string(e.Kind),
		CompletedLessons:   append([]string{}, e.CompletedLessons...),
		LessonDetails:      make(map[string]LessonDetailDTO, len(e.LessonDetails)),
		LastViewedLessonID: e.LastViewedLesson,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
	for id, d := range e.LessonDetails {
		dto.LessonDetails[id] = LessonDetailDTO{
			Status:         string(d.Status),
			CompletedParts: append([]string{}, d.CompletedParts...),
		}
	}
	return dto
}

// ToDomain rebuilds the snapshot. Id lists are normalized into sets, so
// duplicates or unsorted input from the wire cannot break set semantics.
func (dto EnrollmentDTO) ToDomain() *domain.Enrollment {
	kind := domain.EnrollmentKind(dto.Kind)
	if kind == "" {
		kind = domain.KindEnrolled
	}
	e := &domain.Enrollment{
		ID:               dto.ID,
		ProgramID:        dto.ProgramID,
		UserID:           dto.UserID,
		Kind:             kind,
		CompletedLessons: domain.NewIDSet(dto.CompletedLessons...),
		LessonDetails:    make(map[string]domain.LessonDetail, len(dto.LessonDetails)),
		CreatedAt:        dto.CreatedAt,
		UpdatedAt:        dto.UpdatedAt,
	}
	if dto.LastViewedLessonID != nil {
		v := *dto.LastViewedLessonID
		e.LastViewedLesson = &v
	}
	for id, d := range dto.LessonDetails {
		e.LessonDetails[id] = domain.LessonDetail{
			Status:         domain.LessonStatus(d.Status),
			CompletedParts: domain.NewIDSet(d.CompletedParts...),
		}
	}
	return e
}

// SessionDTO is what opening a program returns: structure plus the snapshot
// to start from.
type SessionDTO struct {
	Program    ProgramDTO    `json:"program"`
	Enrollment EnrollmentDTO `json:"enrollment"`
}
