package repository

import (
	"context"

	"github.com/alexanderramin/syllabus/internal/domain"
)

// ProgramRepo persists curriculum structures. A program is written and read
// as a whole tree: modules, lessons and parts keep their curriculum order.
type ProgramRepo interface {
	Create(ctx context.Context, p *domain.Program) error
	GetByID(ctx context.Context, id string) (*domain.Program, error)
	List(ctx context.Context) ([]*domain.Program, error)
	Delete(ctx context.Context, id string) error
}

// EnrollmentRepo persists progress snapshots. Save replaces the stored
// progress with the snapshot's so the row set always mirrors one snapshot.
type EnrollmentRepo interface {
	Create(ctx context.Context, e *domain.Enrollment) error
	GetByID(ctx context.Context, id string) (*domain.Enrollment, error)
	GetByProgramAndUser(ctx context.Context, programID, userID string) (*domain.Enrollment, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Enrollment, error)
	Save(ctx context.Context, e *domain.Enrollment) error
	Delete(ctx context.Context, id string) error
}
