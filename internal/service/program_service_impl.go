package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/syllabus/internal/db"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/importer"
	"github.com/alexanderramin/syllabus/internal/repository"
)

type programService struct {
	programs repository.ProgramRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewProgramService(programs repository.ProgramRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ProgramService {
	return &programService{
		programs: programs,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *programService) Get(ctx context.Context, id string) (*domain.Program, error) {
	return s.programs.GetByID(ctx, id)
}

func (s *programService) List(ctx context.Context) ([]*domain.Program, error) {
	return s.programs.List(ctx)
}

func (s *programService) ImportFile(ctx context.Context, path string) (*domain.Program, error) {
	schema, err := importer.LoadSchema(path)
	if err != nil {
		return nil, fmt.Errorf("loading program file: %w", err)
	}
	return s.Import(ctx, schema)
}

// Import validates and stores a program definition in one transaction.
func (s *programService) Import(ctx context.Context, schema *importer.ProgramSchema) (program *domain.Program, err error) {
	fields := map[string]any{"title": schema.Program.Title}
	defer observe(ctx, s.observer, "import-program", fields, &err)()

	if errs := importer.ValidateSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	program = importer.Convert(schema)
	fields["program_id"] = program.ID
	fields["lesson_count"] = program.TotalLessons

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteProgramRepo(tx).Create(ctx, program)
	})
	if err != nil {
		return nil, fmt.Errorf("creating program: %w", err)
	}
	return program, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("(%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%w %s", ErrInvalidProgram, msg)
}
