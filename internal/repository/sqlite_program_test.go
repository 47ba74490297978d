package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProgramRepo(db)
	ctx := context.Background()

	prog := testutil.NewTestProgram("Go Basics",
		testutil.WithOwner("teacher-1"),
		testutil.WithModules(
			testutil.NewTestModule("intro", testutil.WithLessons(
				testutil.NewTestLesson("welcome"),
				testutil.NewTestLesson("tour", testutil.WithParts("p1", "p2", "p3")),
			)),
			testutil.NewTestModule("advanced", testutil.WithGated(), testutil.WithLessons(
				testutil.NewTestLesson("quiz", testutil.WithContentType(domain.ContentQuiz)),
			)),
		),
	)
	require.NoError(t, repo.Create(ctx, prog))

	fetched, err := repo.GetByID(ctx, prog.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go Basics", fetched.Title)
	assert.Equal(t, "teacher-1", fetched.OwnerID)
	assert.Equal(t, 3, fetched.TotalLessons)
	require.Len(t, fetched.Modules, 2)

	assert.Equal(t, "intro", fetched.Modules[0].ID)
	assert.False(t, fetched.Modules[0].IsGated)
	assert.Equal(t, []string{"welcome", "tour"}, fetched.Modules[0].LessonIDs())
	assert.Equal(t, []string{"p1", "p2", "p3"}, fetched.Modules[0].Lessons[1].PartIDs())
	assert.Empty(t, fetched.Modules[0].Lessons[0].Parts)

	assert.True(t, fetched.Modules[1].IsGated)
	assert.Equal(t, domain.ContentQuiz, fetched.Modules[1].Lessons[0].ContentType)
	assert.True(t, prog.CreatedAt.Equal(fetched.CreatedAt))
}

func TestProgramRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProgramRepo(db)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProgramRepo_List(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProgramRepo(db)
	ctx := context.Background()

	a := testutil.NewTestProgram("Alpha", testutil.WithModules(
		testutil.NewTestModule("a-m1", testutil.WithLessons(testutil.NewTestLesson("a-l1"))),
	))
	b := testutil.NewTestProgram("Beta", testutil.WithModules(
		testutil.NewTestModule("b-m1", testutil.WithLessons(testutil.NewTestLesson("b-l1"), testutil.NewTestLesson("b-l2"))),
	))
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	programs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, programs, 2)

	byTitle := map[string]*domain.Program{}
	for _, p := range programs {
		byTitle[p.Title] = p
	}
	assert.Equal(t, 1, byTitle["Alpha"].TotalLessons)
	assert.Equal(t, 2, byTitle["Beta"].TotalLessons)
}

func TestProgramRepo_Delete_Cascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProgramRepo(db)
	ctx := context.Background()

	prog := testutil.TwoModuleProgram()
	require.NoError(t, repo.Create(ctx, prog))
	require.NoError(t, repo.Delete(ctx, prog.ID))

	var lessons int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM lessons`).Scan(&lessons))
	assert.Zero(t, lessons)

	assert.ErrorIs(t, repo.Delete(ctx, prog.ID), ErrNotFound)
}

func TestProgramRepo_Create_DuplicateLessonFails(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProgramRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.TwoModuleProgram()))
	assert.Error(t, repo.Create(ctx, testutil.TwoModuleProgram()),
		"module and lesson ids are global keys")
}
