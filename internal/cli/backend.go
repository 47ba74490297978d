package cli

import (
	"context"

	"github.com/alexanderramin/syllabus/internal/client"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/progress"
	"github.com/alexanderramin/syllabus/internal/service"
)

// Backend is everything a learner-facing command needs. The HTTP client
// satisfies it directly; LocalBackend adapts the in-process services.
type Backend interface {
	progress.Updater

	ListPrograms(ctx context.Context) ([]*domain.Program, error)
	FetchProgram(ctx context.Context, programID string) (*domain.Program, error)
	FetchEnrollments(ctx context.Context, userID string) ([]*domain.Enrollment, error)
	OpenSession(ctx context.Context, programID, userID string) (*domain.Program, *domain.Enrollment, error)
	Enroll(ctx context.Context, programID, userID string) (*domain.Enrollment, error)
	Reset(ctx context.Context, enrollmentID string) (*domain.Enrollment, error)
}

var _ Backend = (*client.Client)(nil)

// LocalBackend serves commands straight from the SQLite-backed services.
type LocalBackend struct {
	programs    service.ProgramService
	enrollments service.EnrollmentService
	progress    service.ProgressService
}

func NewLocalBackend(programs service.ProgramService, enrollments service.EnrollmentService, progress service.ProgressService) *LocalBackend {
	return &LocalBackend{programs: programs, enrollments: enrollments, progress: progress}
}

func (b *LocalBackend) ListPrograms(ctx context.Context) ([]*domain.Program, error) {
	return b.programs.List(ctx)
}

func (b *LocalBackend) FetchProgram(ctx context.Context, programID string) (*domain.Program, error) {
	return b.programs.Get(ctx, programID)
}

func (b *LocalBackend) FetchEnrollments(ctx context.Context, userID string) ([]*domain.Enrollment, error) {
	return b.enrollments.ListByUser(ctx, userID)
}

func (b *LocalBackend) OpenSession(ctx context.Context, programID, userID string) (*domain.Program, *domain.Enrollment, error) {
	s, err := b.enrollments.Open(ctx, programID, userID)
	if err != nil {
		return nil, nil, err
	}
	return s.Program, s.Enrollment, nil
}

func (b *LocalBackend) Enroll(ctx context.Context, programID, userID string) (*domain.Enrollment, error) {
	return b.enrollments.Enroll(ctx, programID, userID)
}

func (b *LocalBackend) Reset(ctx context.Context, enrollmentID string) (*domain.Enrollment, error) {
	return b.enrollments.Reset(ctx, enrollmentID)
}

func (b *LocalBackend) UpdateProgress(ctx context.Context, enrollmentID string, u domain.ProgressUpdate) (*domain.Enrollment, error) {
	return b.progress.UpdateProgress(ctx, enrollmentID, u)
}
