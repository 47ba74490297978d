package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexanderramin/syllabus/internal/contract"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/repository"
	"github.com/alexanderramin/syllabus/internal/service"
	"github.com/alexanderramin/syllabus/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	router  *gin.Engine
	program *domain.Program
}

func setupAPI(t *testing.T) testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	programRepo := repository.NewSQLiteProgramRepo(database)
	enrollmentRepo := repository.NewSQLiteEnrollmentRepo(database)

	prog := testutil.NewTestProgram("HTTP Course",
		testutil.WithOwner("teacher"),
		testutil.WithModules(
			testutil.NewTestModule("m1", testutil.WithLessons(
				testutil.NewTestLesson("l1"),
				testutil.NewTestLesson("l2", testutil.WithParts("a", "b")),
			)),
			testutil.NewTestModule("m2", testutil.WithGated(), testutil.WithLessons(testutil.NewTestLesson("l3"))),
		),
	)
	require.NoError(t, programRepo.Create(context.Background(), prog))

	router := NewRouter(RouterConfig{
		Programs:    service.NewProgramService(programRepo, uow),
		Enrollments: service.NewEnrollmentService(programRepo, enrollmentRepo, uow),
		Progress:    service.NewProgressService(uow),
	})
	return testAPI{router: router, program: prog}
}

func (a testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthCheck(t *testing.T) {
	a := setupAPI(t)
	rec := a.do(t, http.MethodGet, "/healthcheck", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestPrograms_ListAndGet(t *testing.T) {
	a := setupAPI(t)

	rec := a.do(t, http.MethodGet, "/api/programs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Programs []contract.ProgramDTO `json:"programs"`
	}](t, rec)
	require.Len(t, list.Programs, 1)
	assert.Equal(t, 3, list.Programs[0].TotalLessons)

	rec = a.do(t, http.MethodGet, "/api/programs/"+a.program.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[contract.ProgramDTO](t, rec)
	assert.Equal(t, "HTTP Course", p.Title)
	assert.True(t, p.Modules[1].IsGated)

	rec = a.do(t, http.MethodGet, "/api/programs/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	errResp := decode[contract.ErrorResponse](t, rec)
	assert.Equal(t, contract.ErrCodeNotFound, errResp.Error.Code)
}

func TestEnrollAndUpdateProgress(t *testing.T) {
	a := setupAPI(t)

	rec := a.do(t, http.MethodPost, "/api/programs/"+a.program.ID+"/enrollments", contract.EnrollRequest{UserID: "learner"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	e := decode[contract.EnrollmentDTO](t, rec)
	assert.Equal(t, "enrolled", e.Kind)
	assert.Empty(t, e.CompletedLessons)

	part := "a"
	rec = a.do(t, http.MethodPost, "/api/enrollments/"+e.ID+"/progress", contract.ProgressUpdateRequest{LessonID: "l2", PartID: &part})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	snap := decode[contract.EnrollmentDTO](t, rec)
	assert.Equal(t, []string{"a"}, snap.LessonDetails["l2"].CompletedParts)
	assert.Equal(t, "in_progress", snap.LessonDetails["l2"].Status)

	rec = a.do(t, http.MethodPost, "/api/enrollments/"+e.ID+"/progress", contract.ProgressUpdateRequest{LessonID: "l1"})
	require.Equal(t, http.StatusOK, rec.Code)
	snap = decode[contract.EnrollmentDTO](t, rec)
	assert.Equal(t, []string{"l1"}, snap.CompletedLessons)
	require.NotNil(t, snap.LastViewedLessonID)
	assert.Equal(t, "l1", *snap.LastViewedLessonID)

	rec = a.do(t, http.MethodGet, "/api/users/learner/enrollments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Enrollments []contract.EnrollmentDTO `json:"enrollments"`
	}](t, rec)
	require.Len(t, list.Enrollments, 1)
	assert.Equal(t, []string{"l1"}, list.Enrollments[0].CompletedLessons)

	rec = a.do(t, http.MethodPost, "/api/enrollments/"+e.ID+"/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap = decode[contract.EnrollmentDTO](t, rec)
	assert.Empty(t, snap.CompletedLessons)
}

func TestUpdateProgress_ErrorMapping(t *testing.T) {
	a := setupAPI(t)
	rec := a.do(t, http.MethodPost, "/api/programs/"+a.program.ID+"/enrollments", contract.EnrollRequest{UserID: "learner"})
	e := decode[contract.EnrollmentDTO](t, rec)

	bad := "zzz"
	tests := []struct {
		name   string
		path   string
		body   any
		status int
		code   contract.ErrorCode
	}{
		{"missing lesson id", "/api/enrollments/" + e.ID + "/progress", map[string]any{}, http.StatusBadRequest, contract.ErrCodeInvalidRequest},
		{"unknown lesson", "/api/enrollments/" + e.ID + "/progress", contract.ProgressUpdateRequest{LessonID: "nope"}, http.StatusUnprocessableEntity, contract.ErrCodeLessonNotInProgram},
		{"unknown part", "/api/enrollments/" + e.ID + "/progress", contract.ProgressUpdateRequest{LessonID: "l2", PartID: &bad}, http.StatusUnprocessableEntity, contract.ErrCodePartNotInLesson},
		{"unknown enrollment", "/api/enrollments/missing/progress", contract.ProgressUpdateRequest{LessonID: "l1"}, http.StatusNotFound, contract.ErrCodeNotFound},
		{"preview", "/api/enrollments/" + domain.PreviewIDPrefix + a.program.ID + "/progress", contract.ProgressUpdateRequest{LessonID: "l1"}, http.StatusConflict, contract.ErrCodePreviewNotPersisted},
		{"enroll without user", "/api/programs/" + a.program.ID + "/enrollments", map[string]any{}, http.StatusBadRequest, contract.ErrCodeInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(t, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			resp := decode[contract.ErrorResponse](t, rec)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestSession(t *testing.T) {
	a := setupAPI(t)
	base := "/api/programs/" + a.program.ID + "/session"

	rec := a.do(t, http.MethodGet, base+"?user_id=teacher", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	s := decode[contract.SessionDTO](t, rec)
	assert.Equal(t, "preview", s.Enrollment.Kind)
	assert.Equal(t, a.program.ID, s.Program.ID)

	rec = a.do(t, http.MethodGet, base+"?user_id=stranger", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, contract.ErrCodeNotEnrolled, decode[contract.ErrorResponse](t, rec).Error.Code)

	rec = a.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
