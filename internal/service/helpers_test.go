package service

import (
	"context"
	"sync"
	"testing"

	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/repository"
	"github.com/alexanderramin/syllabus/internal/testutil"
	"github.com/stretchr/testify/require"
)

type services struct {
	programs    ProgramService
	enrollments EnrollmentService
	progress    ProgressService
	programRepo repository.ProgramRepo
	observer    *recordingObserver
}

func setupServices(t *testing.T) services {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	programRepo := repository.NewSQLiteProgramRepo(database)
	enrollmentRepo := repository.NewSQLiteEnrollmentRepo(database)
	obs := &recordingObserver{}

	return services{
		programs:    NewProgramService(programRepo, uow, obs),
		enrollments: NewEnrollmentService(programRepo, enrollmentRepo, uow, obs),
		progress:    NewProgressService(uow, obs),
		programRepo: programRepo,
		observer:    obs,
	}
}

// seedCourse stores a program with a single-part lesson, a three-part video
// and a gated quiz module.
func seedCourse(t *testing.T, s services) *domain.Program {
	t.Helper()
	prog := testutil.NewTestProgram("Course",
		testutil.WithOwner("teacher"),
		testutil.WithModules(
			testutil.NewTestModule("m1", testutil.WithLessons(
				testutil.NewTestLesson("l1"),
				testutil.NewTestLesson("l2", testutil.WithParts("a", "b", "c")),
			)),
			testutil.NewTestModule("m2", testutil.WithGated(), testutil.WithLessons(
				testutil.NewTestLesson("l3", testutil.WithContentType(domain.ContentQuiz)),
			)),
		),
	)
	require.NoError(t, s.programRepo.Create(context.Background(), prog))
	return prog
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

func ptr(s string) *string { return &s }
