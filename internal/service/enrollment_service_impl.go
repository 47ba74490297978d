package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/syllabus/internal/db"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/repository"
	"github.com/google/uuid"
)

type enrollmentService struct {
	programs    repository.ProgramRepo
	enrollments repository.EnrollmentRepo
	uow         db.UnitOfWork
	observer    UseCaseObserver
}

func NewEnrollmentService(
	programs repository.ProgramRepo,
	enrollments repository.EnrollmentRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) EnrollmentService {
	return &enrollmentService{
		programs:    programs,
		enrollments: enrollments,
		uow:         uow,
		observer:    useCaseObserverOrNoop(observers),
	}
}

// Enroll returns the user's enrollment in programID, creating it on first
// call.
func (s *enrollmentService) Enroll(ctx context.Context, programID, userID string) (enrollment *domain.Enrollment, err error) {
	fields := map[string]any{"program_id": programID, "user_id": userID}
	defer observe(ctx, s.observer, "enroll", fields, &err)()

	if userID == "" {
		return nil, fmt.Errorf("enrolling: user id is required")
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPrograms := repository.NewSQLiteProgramRepo(tx)
		txEnrollments := repository.NewSQLiteEnrollmentRepo(tx)

		existing, err := txEnrollments.GetByProgramAndUser(ctx, programID, userID)
		if err == nil {
			enrollment = existing
			fields["created"] = false
			return nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		if _, err := txPrograms.GetByID(ctx, programID); err != nil {
			return err
		}

		now := time.Now().UTC()
		enrollment = &domain.Enrollment{
			ID:            uuid.New().String(),
			ProgramID:     programID,
			UserID:        userID,
			Kind:          domain.KindEnrolled,
			LessonDetails: map[string]domain.LessonDetail{},
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		fields["created"] = true
		return txEnrollments.Create(ctx, enrollment)
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *enrollmentService) Get(ctx context.Context, id string) (*domain.Enrollment, error) {
	return s.enrollments.GetByID(ctx, id)
}

func (s *enrollmentService) ListByUser(ctx context.Context, userID string) ([]*domain.Enrollment, error) {
	return s.enrollments.ListByUser(ctx, userID)
}

// Open resolves the snapshot a user starts a session from: their enrollment,
// or a preview when they own the program, or ErrNotEnrolled.
func (s *enrollmentService) Open(ctx context.Context, programID, userID string) (session *Session, err error) {
	fields := map[string]any{"program_id": programID, "user_id": userID}
	defer observe(ctx, s.observer, "open-session", fields, &err)()

	program, err := s.programs.GetByID(ctx, programID)
	if err != nil {
		return nil, err
	}

	enrollment, err := s.enrollments.GetByProgramAndUser(ctx, programID, userID)
	switch {
	case err == nil:
		fields["kind"] = string(enrollment.Kind)
		return &Session{Program: program, Enrollment: enrollment}, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	case program.IsOwnedBy(userID):
		fields["kind"] = string(domain.KindPreview)
		return &Session{Program: program, Enrollment: domain.NewPreviewEnrollment(program, userID)}, nil
	default:
		err = fmt.Errorf("program %s: %w", programID, ErrNotEnrolled)
		return nil, err
	}
}

// Reset clears all progress of an enrollment and returns the empty snapshot.
func (s *enrollmentService) Reset(ctx context.Context, enrollmentID string) (enrollment *domain.Enrollment, err error) {
	fields := map[string]any{"enrollment_id": enrollmentID}
	defer observe(ctx, s.observer, "reset-progress", fields, &err)()

	if domain.IsPreviewID(enrollmentID) {
		return nil, ErrPreviewNotPersisted
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txEnrollments := repository.NewSQLiteEnrollmentRepo(tx)
		current, err := txEnrollments.GetByID(ctx, enrollmentID)
		if err != nil {
			return err
		}
		fields["cleared_lessons"] = current.CompletedLessons.Len()

		enrollment = current.Clone()
		enrollment.CompletedLessons = nil
		enrollment.LessonDetails = map[string]domain.LessonDetail{}
		enrollment.LastViewedLesson = nil
		enrollment.UpdatedAt = time.Now().UTC()
		return txEnrollments.Save(ctx, enrollment)
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}
