package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/syllabus/internal/db"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/repository"
)

type progressService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewProgressService(uow db.UnitOfWork, observers ...UseCaseObserver) ProgressService {
	return &progressService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// UpdateProgress applies one completion to the stored snapshot and returns
// the full result. Lesson and part ids are checked against the program
// structure. Completing a whole lesson also completes its detail record and,
// for multi-part lessons, every part, so the stored snapshot stays valid.
func (s *progressService) UpdateProgress(ctx context.Context, enrollmentID string, u domain.ProgressUpdate) (enrollment *domain.Enrollment, err error) {
	fields := map[string]any{
		"enrollment_id": enrollmentID,
		"lesson_id":     u.LessonID,
		"part_id":       u.PartIDOrEmpty(),
	}
	defer observe(ctx, s.observer, "update-progress", fields, &err)()

	if domain.IsPreviewID(enrollmentID) {
		return nil, ErrPreviewNotPersisted
	}
	if u.LessonID == "" {
		return nil, fmt.Errorf("updating progress: %w", ErrLessonNotInProgram)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txEnrollments := repository.NewSQLiteEnrollmentRepo(tx)
		txPrograms := repository.NewSQLiteProgramRepo(tx)

		current, err := txEnrollments.GetByID(ctx, enrollmentID)
		if err != nil {
			return err
		}
		program, err := txPrograms.GetByID(ctx, current.ProgramID)
		if err != nil {
			return err
		}

		lesson := findLesson(program, u.LessonID)
		if lesson == nil {
			return fmt.Errorf("lesson %s: %w", u.LessonID, ErrLessonNotInProgram)
		}

		next, err := applyUpdate(current, lesson, u)
		if err != nil {
			return err
		}
		next.UpdatedAt = time.Now().UTC()
		fields["completed_lessons"] = next.CompletedLessons.Len()

		if err := txEnrollments.Save(ctx, next); err != nil {
			return err
		}
		enrollment = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

// applyUpdate computes the next snapshot with the same domain rules the
// client applies optimistically.
func applyUpdate(current *domain.Enrollment, lesson *domain.Lesson, u domain.ProgressUpdate) (*domain.Enrollment, error) {
	if u.PartID != nil {
		partID := *u.PartID
		if !lesson.HasPart(partID) {
			return nil, fmt.Errorf("part %s of lesson %s: %w", partID, lesson.ID, ErrPartNotInLesson)
		}
		next := current.WithPartCompleted(lesson.ID, partID, len(lesson.Parts))
		lessonID := lesson.ID
		next.LastViewedLesson = &lessonID
		return next, nil
	}

	next := current.WithLessonCompleted(lesson.ID)
	if lesson.IsMultiPart() {
		for _, p := range lesson.Parts {
			next = next.WithPartCompleted(lesson.ID, p.ID, len(lesson.Parts))
		}
	}
	return next.WithDetailStatus(lesson.ID, domain.LessonCompleted), nil
}

func findLesson(p *domain.Program, lessonID string) *domain.Lesson {
	for _, l := range p.Lessons() {
		if l.ID == lessonID {
			return l
		}
	}
	return nil
}
