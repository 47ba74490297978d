package contract

import "github.com/alexanderramin/syllabus/internal/domain"

// EnrollRequest is the body of POST /api/programs/:id/enrollments.
type EnrollRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// ProgressUpdateRequest is the body of POST /api/enrollments/:id/progress.
// A null part_id completes the whole lesson.
type ProgressUpdateRequest struct {
	LessonID string  `json:"lesson_id" binding:"required"`
	PartID   *string `json:"part_id"`
}

func NewProgressUpdateRequest(u domain.ProgressUpdate) ProgressUpdateRequest {
	return ProgressUpdateRequest{LessonID: u.LessonID, PartID: u.PartID}
}

func (r ProgressUpdateRequest) ToDomain() domain.ProgressUpdate {
	u := domain.ProgressUpdate{LessonID: r.LessonID}
	if r.PartID != nil && *r.PartID != "" {
		p := *r.PartID
		u.PartID = &p
	}
	return u
}
