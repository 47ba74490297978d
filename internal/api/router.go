// Package api exposes the program-loading and progress-update contracts
// over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alexanderramin/syllabus/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Programs    service.ProgramService
	Enrollments service.EnrollmentService
	Progress    service.ProgressService
	Logger      *zap.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	programs := NewProgramHandler(cfg.Programs)
	enrollments := NewEnrollmentHandler(cfg.Enrollments, cfg.Progress)

	router.GET("/healthcheck", HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/programs", programs.List)
		api.GET("/programs/:id", programs.Get)
		api.GET("/programs/:id/session", enrollments.Session)
		api.POST("/programs/:id/enrollments", enrollments.Enroll)

		api.GET("/users/:id/enrollments", enrollments.ListForUser)

		api.POST("/enrollments/:id/progress", enrollments.UpdateProgress)
		api.POST("/enrollments/:id/reset", enrollments.Reset)
	}

	return router
}

// requestLogger logs one line per request; failed requests carry the errors
// handlers attached to the context.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("http_request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Warn("http_request", fields...)
		default:
			logger.Info("http_request", fields...)
		}
	}
}

// Serve runs handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}
