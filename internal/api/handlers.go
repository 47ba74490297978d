package api

import (
	"errors"
	"net/http"

	"github.com/alexanderramin/syllabus/internal/contract"
	"github.com/alexanderramin/syllabus/internal/service"
	"github.com/gin-gonic/gin"
)

func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

type ProgramHandler struct {
	programs service.ProgramService
}

func NewProgramHandler(programs service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programs: programs}
}

// GET /api/programs
func (h *ProgramHandler) List(c *gin.Context) {
	programs, err := h.programs.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]contract.ProgramDTO, 0, len(programs))
	for _, p := range programs {
		out = append(out, contract.FromProgram(p))
	}
	c.JSON(http.StatusOK, gin.H{"programs": out})
}

// GET /api/programs/:id
func (h *ProgramHandler) Get(c *gin.Context) {
	p, err := h.programs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.FromProgram(p))
}

type EnrollmentHandler struct {
	enrollments service.EnrollmentService
	progress    service.ProgressService
}

func NewEnrollmentHandler(enrollments service.EnrollmentService, progress service.ProgressService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, progress: progress}
}

// GET /api/users/:id/enrollments
func (h *EnrollmentHandler) ListForUser(c *gin.Context) {
	list, err := h.enrollments.ListByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]contract.EnrollmentDTO, 0, len(list))
	for _, e := range list {
		out = append(out, contract.FromEnrollment(e))
	}
	c.JSON(http.StatusOK, gin.H{"enrollments": out})
}

// POST /api/programs/:id/enrollments
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req contract.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	e, err := h.enrollments.Enroll(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.FromEnrollment(e))
}

// GET /api/programs/:id/session?user_id=
func (h *EnrollmentHandler) Session(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		respondBadRequest(c, errMissingUser)
		return
	}
	s, err := h.enrollments.Open(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.SessionDTO{
		Program:    contract.FromProgram(s.Program),
		Enrollment: contract.FromEnrollment(s.Enrollment),
	})
}

// POST /api/enrollments/:id/progress
func (h *EnrollmentHandler) UpdateProgress(c *gin.Context) {
	var req contract.ProgressUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	e, err := h.progress.UpdateProgress(c.Request.Context(), c.Param("id"), req.ToDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.FromEnrollment(e))
}

// POST /api/enrollments/:id/reset
func (h *EnrollmentHandler) Reset(c *gin.Context) {
	e, err := h.enrollments.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.FromEnrollment(e))
}

var errMissingUser = errors.New("user_id query parameter is required")
