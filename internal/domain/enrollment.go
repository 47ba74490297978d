package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type LessonDetail struct {
	Status         LessonStatus
	CompletedParts IDSet
}

// Enrollment is a learner's progress snapshot for one program.
//
// Snapshots are replaced, never edited: every With* method returns a new
// Enrollment and leaves the receiver untouched. This lets a caller keep the
// previous snapshot as an exact rollback target.
type Enrollment struct {
	ID               string
	ProgramID        string
	UserID           string
	Kind             EnrollmentKind
	CompletedLessons IDSet
	LessonDetails    map[string]LessonDetail
	LastViewedLesson *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PreviewIDPrefix marks the ids of synthesized preview snapshots.
const PreviewIDPrefix = "preview:"

// IsPreviewID reports whether id names a preview snapshot.
func IsPreviewID(id string) bool {
	return strings.HasPrefix(id, PreviewIDPrefix)
}

// NewPreviewEnrollment synthesizes the non-persisted snapshot used when a
// program's owner views it without being enrolled.
func NewPreviewEnrollment(p *Program, userID string) *Enrollment {
	now := time.Now().UTC()
	return &Enrollment{
		ID:            PreviewIDPrefix + p.ID,
		ProgramID:     p.ID,
		UserID:        userID,
		Kind:          KindPreview,
		LessonDetails: map[string]LessonDetail{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsPreview reports whether the snapshot is the preview variant. Nil
// enrollments are not previews.
func (e *Enrollment) IsPreview() bool {
	return e != nil && e.Kind == KindPreview
}

// HasCompleted reports whether lessonID is in the completed set.
func (e *Enrollment) HasCompleted(lessonID string) bool {
	return e != nil && e.CompletedLessons.Has(lessonID)
}

// Detail returns the lesson's detail record, or the zero value.
func (e *Enrollment) Detail(lessonID string) (LessonDetail, bool) {
	if e == nil {
		return LessonDetail{}, false
	}
	d, ok := e.LessonDetails[lessonID]
	return d, ok
}

// LastViewed returns the last viewed lesson id or "".
func (e *Enrollment) LastViewed() string {
	if e == nil || e.LastViewedLesson == nil {
		return ""
	}
	return *e.LastViewedLesson
}

// Clone returns a deep copy.
func (e *Enrollment) Clone() *Enrollment {
	if e == nil {
		return nil
	}
	c := *e
	c.CompletedLessons = e.CompletedLessons.Clone()
	if e.LessonDetails != nil {
		c.LessonDetails = make(map[string]LessonDetail, len(e.LessonDetails))
		for id, d := range e.LessonDetails {
			c.LessonDetails[id] = LessonDetail{Status: d.Status, CompletedParts: d.CompletedParts.Clone()}
		}
	}
	if e.LastViewedLesson != nil {
		v := *e.LastViewedLesson
		c.LastViewedLesson = &v
	}
	return &c
}

// WithLessonCompleted adds lessonID to the completed set and points the
// last-viewed marker at it. Completing a lesson twice yields an equal snapshot.
func (e *Enrollment) WithLessonCompleted(lessonID string) *Enrollment {
	c := e.Clone()
	c.CompletedLessons = c.CompletedLessons.With(lessonID)
	c.LastViewedLesson = &lessonID
	return c
}

// WithPartCompleted records partID for lessonID. When the completed parts
// cover totalParts the lesson detail becomes completed and the lesson joins
// the completed set. Coverage is counted, not sequential.
func (e *Enrollment) WithPartCompleted(lessonID, partID string, totalParts int) *Enrollment {
	c := e.Clone()
	if c.LessonDetails == nil {
		c.LessonDetails = map[string]LessonDetail{}
	}
	d, ok := c.LessonDetails[lessonID]
	if !ok {
		d = LessonDetail{Status: LessonInProgress}
	}
	d.CompletedParts = d.CompletedParts.With(partID)
	if totalParts > 0 && d.CompletedParts.Len() >= totalParts {
		d.Status = LessonCompleted
		c.CompletedLessons = c.CompletedLessons.With(lessonID)
	}
	c.LessonDetails[lessonID] = d
	return c
}

// WithDetailStatus sets the status of lessonID's detail record, creating it
// when absent.
func (e *Enrollment) WithDetailStatus(lessonID string, status LessonStatus) *Enrollment {
	c := e.Clone()
	if c.LessonDetails == nil {
		c.LessonDetails = map[string]LessonDetail{}
	}
	d := c.LessonDetails[lessonID]
	d.Status = status
	c.LessonDetails[lessonID] = d
	return c
}

// Validate checks the snapshot against the program it belongs to.
func (e *Enrollment) Validate(p *Program) error {
	var errs []error
	if e.ProgramID != p.ID {
		errs = append(errs, fmt.Errorf("enrollment %s belongs to program %s, not %s", e.ID, e.ProgramID, p.ID))
	}
	lessons := make(map[string]*Lesson, p.TotalLessons)
	for _, l := range p.Lessons() {
		lessons[l.ID] = l
	}
	for _, id := range e.CompletedLessons {
		l, ok := lessons[id]
		if !ok {
			errs = append(errs, fmt.Errorf("completed lesson %s is not in program", id))
			continue
		}
		if l.IsMultiPart() {
			d := e.LessonDetails[id]
			if !NewIDSet(l.PartIDs()...).SubsetOf(d.CompletedParts) {
				errs = append(errs, fmt.Errorf("lesson %s is completed without full part coverage", id))
			}
		}
	}
	for id, d := range e.LessonDetails {
		l, ok := lessons[id]
		if !ok {
			errs = append(errs, fmt.Errorf("lesson detail %s is not in program", id))
			continue
		}
		if !d.CompletedParts.SubsetOf(NewIDSet(l.PartIDs()...)) {
			errs = append(errs, fmt.Errorf("lesson %s has completed parts outside its parts", id))
		}
		if l.IsMultiPart() && d.CompletedParts.Len() >= len(l.Parts) && !e.CompletedLessons.Has(id) {
			errs = append(errs, fmt.Errorf("lesson %s covers all parts but is not completed", id))
		}
	}
	if e.IsPreview() && (e.CompletedLessons.Len() > 0 || len(e.LessonDetails) > 0) {
		errs = append(errs, fmt.Errorf("preview enrollment carries progress"))
	}
	return errors.Join(errs...)
}
