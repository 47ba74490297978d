// Package client talks to the syllabus HTTP API. It implements the remote
// progress-update contract the engine needs, plus program and session
// loading.
package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/alexanderramin/syllabus/internal/contract"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/go-resty/resty/v2"
)

type Client struct {
	http *resty.Client
}

// New returns a client for the API at baseURL. Progress updates are not
// retried: a retried completion could land after a newer one.
func New(baseURL string, timeout time.Duration) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: rc}
}

func (c *Client) ListPrograms(ctx context.Context) ([]*domain.Program, error) {
	var out struct {
		Programs []contract.ProgramDTO `json:"programs"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/programs", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("listing programs: %w", err)
	}
	programs := make([]*domain.Program, 0, len(out.Programs))
	for _, p := range out.Programs {
		programs = append(programs, p.ToDomain())
	}
	return programs, nil
}

// FetchProgram is the program-loading contract.
func (c *Client) FetchProgram(ctx context.Context, programID string) (*domain.Program, error) {
	var out contract.ProgramDTO
	params := map[string]string{"id": programID}
	if err := c.do(ctx, http.MethodGet, "/api/programs/{id}", params, nil, &out); err != nil {
		return nil, fmt.Errorf("fetching program: %w", err)
	}
	if out.ID == "" {
		return nil, fmt.Errorf("fetching program: %w", ErrEmptyResponse)
	}
	return out.ToDomain(), nil
}

// FetchEnrollments returns the current enrollments of userID.
func (c *Client) FetchEnrollments(ctx context.Context, userID string) ([]*domain.Enrollment, error) {
	var out struct {
		Enrollments []contract.EnrollmentDTO `json:"enrollments"`
	}
	params := map[string]string{"id": userID}
	if err := c.do(ctx, http.MethodGet, "/api/users/{id}/enrollments", params, nil, &out); err != nil {
		return nil, fmt.Errorf("fetching enrollments: %w", err)
	}
	list := make([]*domain.Enrollment, 0, len(out.Enrollments))
	for _, e := range out.Enrollments {
		list = append(list, e.ToDomain())
	}
	return list, nil
}

// OpenSession loads a program together with the snapshot userID starts
// from, which is a preview when userID owns the program without enrolling.
func (c *Client) OpenSession(ctx context.Context, programID, userID string) (*domain.Program, *domain.Enrollment, error) {
	var out contract.SessionDTO
	req := c.http.R().
		SetContext(ctx).
		SetPathParam("id", programID).
		SetQueryParam("user_id", userID).
		SetResult(&out).
		SetError(&contract.ErrorResponse{})
	resp, err := req.Get("/api/programs/{id}/session")
	if err := check(resp, err); err != nil {
		return nil, nil, fmt.Errorf("opening session: %w", err)
	}
	if out.Program.ID == "" || out.Enrollment.ID == "" {
		return nil, nil, fmt.Errorf("opening session: %w", ErrEmptyResponse)
	}
	return out.Program.ToDomain(), out.Enrollment.ToDomain(), nil
}

func (c *Client) Enroll(ctx context.Context, programID, userID string) (*domain.Enrollment, error) {
	var out contract.EnrollmentDTO
	params := map[string]string{"id": programID}
	body := contract.EnrollRequest{UserID: userID}
	if err := c.do(ctx, http.MethodPost, "/api/programs/{id}/enrollments", params, body, &out); err != nil {
		return nil, fmt.Errorf("enrolling: %w", err)
	}
	return snapshot("enrolling", out)
}

// UpdateProgress is the progress-update contract; it returns the full
// server snapshot.
func (c *Client) UpdateProgress(ctx context.Context, enrollmentID string, u domain.ProgressUpdate) (*domain.Enrollment, error) {
	var out contract.EnrollmentDTO
	params := map[string]string{"id": enrollmentID}
	body := contract.NewProgressUpdateRequest(u)
	if err := c.do(ctx, http.MethodPost, "/api/enrollments/{id}/progress", params, body, &out); err != nil {
		return nil, fmt.Errorf("updating progress: %w", err)
	}
	return snapshot("updating progress", out)
}

func (c *Client) Reset(ctx context.Context, enrollmentID string) (*domain.Enrollment, error) {
	var out contract.EnrollmentDTO
	params := map[string]string{"id": enrollmentID}
	if err := c.do(ctx, http.MethodPost, "/api/enrollments/{id}/reset", params, nil, &out); err != nil {
		return nil, fmt.Errorf("resetting progress: %w", err)
	}
	return snapshot("resetting progress", out)
}

// snapshot converts an enrollment answer, rejecting one without an id.
func snapshot(op string, out contract.EnrollmentDTO) (*domain.Enrollment, error) {
	if out.ID == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyResponse)
	}
	return out.ToDomain(), nil
}

func (c *Client) do(ctx context.Context, method, path string, params map[string]string, body, result any) error {
	req := c.http.R().
		SetContext(ctx).
		SetPathParams(params).
		SetResult(result).
		SetError(&contract.ErrorResponse{})
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	return check(resp, err)
}

// check turns transport failures and non-2xx answers into errors.
func check(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsError() {
		return nil
	}
	remote := &RemoteError{Status: resp.StatusCode()}
	if body, ok := resp.Error().(*contract.ErrorResponse); ok && body != nil {
		remote.Code = body.Error.Code
		remote.Message = body.Error.Message
	}
	return remote
}
