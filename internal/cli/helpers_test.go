package cli

import (
	"bytes"
	"context"
	"regexp"
	"testing"

	"github.com/alexanderramin/syllabus/internal/config"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/progress"
	"github.com/alexanderramin/syllabus/internal/repository"
	"github.com/alexanderramin/syllabus/internal/service"
	"github.com/alexanderramin/syllabus/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testApp wires a full App backed by an in-memory DB for CLI integration
// tests. The program repo is returned for seeding fixtures with stable ids.
func testApp(t *testing.T) (*App, repository.ProgramRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	programRepo := repository.NewSQLiteProgramRepo(database)
	enrollmentRepo := repository.NewSQLiteEnrollmentRepo(database)

	programs := service.NewProgramService(programRepo, uow)
	enrollments := service.NewEnrollmentService(programRepo, enrollmentRepo, uow)
	progressSvc := service.NewProgressService(uow)

	cfg := config.DefaultConfig()
	cfg.UserID = "learner"

	return &App{
		Backend:     NewLocalBackend(programs, enrollments, progressSvc),
		Programs:    programs,
		Enrollments: enrollments,
		Progress:    progressSvc,
		Config:      cfg,
	}, programRepo
}

// seedCourse stores the standard fixture: m1{l1, l2 with parts a,b,c} and
// a gated m2{l3}, owned by "teacher".
func seedCourse(t *testing.T, programs repository.ProgramRepo) *domain.Program {
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
	require.NoError(t, programs.Create(context.Background(), prog))
	return prog
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(buf.String()), err
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// updaterBackend swaps the progress-update path of a backend.
type updaterBackend struct {
	Backend
	updater progress.Updater
}

func (b updaterBackend) UpdateProgress(ctx context.Context, enrollmentID string, u domain.ProgressUpdate) (*domain.Enrollment, error) {
	return b.updater.UpdateProgress(ctx, enrollmentID, u)
}
