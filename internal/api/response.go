package api

import (
	"errors"
	"net/http"

	"github.com/alexanderramin/syllabus/internal/contract"
	"github.com/alexanderramin/syllabus/internal/repository"
	"github.com/alexanderramin/syllabus/internal/service"
	"github.com/gin-gonic/gin"
)

// respondError writes the error envelope with the status and code err maps
// to. Unknown errors become 500 with a generic message so internal details
// never reach the learner.
func respondError(c *gin.Context, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, contract.ErrorResponse{
		Error: contract.ErrorDetail{Message: msg, Code: code},
	})
}

func respondBadRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, contract.ErrorResponse{
		Error: contract.ErrorDetail{Message: err.Error(), Code: contract.ErrCodeInvalidRequest},
	})
}

func classify(err error) (int, contract.ErrorCode) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, contract.ErrCodeNotFound
	case errors.Is(err, service.ErrNotEnrolled):
		return http.StatusForbidden, contract.ErrCodeNotEnrolled
	case errors.Is(err, service.ErrLessonNotInProgram):
		return http.StatusUnprocessableEntity, contract.ErrCodeLessonNotInProgram
	case errors.Is(err, service.ErrPartNotInLesson):
		return http.StatusUnprocessableEntity, contract.ErrCodePartNotInLesson
	case errors.Is(err, service.ErrPreviewNotPersisted):
		return http.StatusConflict, contract.ErrCodePreviewNotPersisted
	case errors.Is(err, service.ErrInvalidProgram):
		return http.StatusBadRequest, contract.ErrCodeInvalidProgram
	default:
		return http.StatusInternalServerError, contract.ErrCodeInternal
	}
}
