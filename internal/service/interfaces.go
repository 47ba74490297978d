package service

import (
	"context"

	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/importer"
)

type ProgramService interface {
	Get(ctx context.Context, id string) (*domain.Program, error)
	List(ctx context.Context) ([]*domain.Program, error)
	Import(ctx context.Context, schema *importer.ProgramSchema) (*domain.Program, error)
	ImportFile(ctx context.Context, path string) (*domain.Program, error)
}

// Session is what a learner needs to open a program: its structure and the
// snapshot to start from, which is a preview for unenrolled owners.
type Session struct {
	Program    *domain.Program
	Enrollment *domain.Enrollment
}

type EnrollmentService interface {
	Enroll(ctx context.Context, programID, userID string) (*domain.Enrollment, error)
	Get(ctx context.Context, id string) (*domain.Enrollment, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Enrollment, error)
	Open(ctx context.Context, programID, userID string) (*Session, error)
	Reset(ctx context.Context, enrollmentID string) (*domain.Enrollment, error)
}

// ProgressService is the authoritative side of a progress update. It
// satisfies progress.Updater so the engine can run against it in-process.
type ProgressService interface {
	UpdateProgress(ctx context.Context, enrollmentID string, u domain.ProgressUpdate) (*domain.Enrollment, error)
}
