package testutil

import (
	"context"
	"sync"

	"github.com/alexanderramin/syllabus/internal/domain"
)

// UpdateCall records one UpdateProgress invocation.
type UpdateCall struct {
	EnrollmentID string
	Update       domain.ProgressUpdate
}

// FuncUpdater answers UpdateProgress with a function and records calls.
type FuncUpdater struct {
	mu    sync.Mutex
	calls []UpdateCall
	Fn    func(enrollmentID string, u domain.ProgressUpdate) (*domain.Enrollment, error)
}

func (f *FuncUpdater) UpdateProgress(_ context.Context, enrollmentID string, u domain.ProgressUpdate) (*domain.Enrollment, error) {
	f.mu.Lock()
	f.calls = append(f.calls, UpdateCall{EnrollmentID: enrollmentID, Update: u})
	f.mu.Unlock()
	return f.Fn(enrollmentID, u)
}

// Calls returns a copy of the recorded calls.
func (f *FuncUpdater) Calls() []UpdateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]UpdateCall, len(f.calls))
	copy(out, f.calls)
	return out
}

// FailingUpdater fails every call with Err.
func FailingUpdater(err error) *FuncUpdater {
	return &FuncUpdater{Fn: func(string, domain.ProgressUpdate) (*domain.Enrollment, error) {
		return nil, err
	}}
}

// PendingCall is an UpdateProgress call held open until the test resolves it.
type PendingCall struct {
	UpdateCall
	reply chan pendingReply
}

type pendingReply struct {
	snapshot *domain.Enrollment
	err      error
}

// Succeed resolves the call with snapshot.
func (p *PendingCall) Succeed(snapshot *domain.Enrollment) {
	p.reply <- pendingReply{snapshot: snapshot}
}

// Fail resolves the call with err.
func (p *PendingCall) Fail(err error) {
	p.reply <- pendingReply{err: err}
}

// ControlledUpdater parks every call until the test resolves it, which lets
// tests deliver responses in any order.
type ControlledUpdater struct {
	Pending chan *PendingCall
}

func NewControlledUpdater() *ControlledUpdater {
	return &ControlledUpdater{Pending: make(chan *PendingCall, 16)}
}

func (c *ControlledUpdater) UpdateProgress(ctx context.Context, enrollmentID string, u domain.ProgressUpdate) (*domain.Enrollment, error) {
	call := &PendingCall{
		UpdateCall: UpdateCall{EnrollmentID: enrollmentID, Update: u},
		reply:      make(chan pendingReply, 1),
	}
	c.Pending <- call
	select {
	case r := <-call.reply:
		return r.snapshot, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
