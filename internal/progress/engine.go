package progress

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/alexanderramin/syllabus/internal/curriculum"
	"github.com/alexanderramin/syllabus/internal/domain"
	"go.uber.org/zap"
)

// Updater applies a progress update on the server and returns the resulting
// authoritative snapshot.
type Updater interface {
	UpdateProgress(ctx context.Context, enrollmentID string, u domain.ProgressUpdate) (*domain.Enrollment, error)
}

// OrderingPolicy decides which reconciliation wins when responses arrive out
// of issue order.
type OrderingPolicy int

const (
	// OrderLastReconciled applies every reconciliation and rollback as it
	// arrives; the last one to arrive wins.
	OrderLastReconciled OrderingPolicy = iota
	// OrderLastIssued discards responses of mutations older than the newest
	// one the server has confirmed. A failure restores the last confirmed
	// snapshot with the still-pending mutations replayed on top of it.
	OrderLastIssued
)

type MutationState int

const (
	StateIdle MutationState = iota
	StateOptimisticApplied
	StateReconciled
	StateRolledBack
	StateDiscarded
)

func (s MutationState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOptimisticApplied:
		return "optimistic-applied"
	case StateReconciled:
		return "reconciled"
	case StateRolledBack:
		return "rolled-back"
	case StateDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

var errEmptyResponse = errors.New("server returned no snapshot")

// Mutation is one optimistic update awaiting its server response.
type Mutation struct {
	Seq          uint64
	EnrollmentID string
	Update       domain.ProgressUpdate
	Previous     *domain.Enrollment
	Optimistic   *domain.Enrollment

	apply func(*domain.Enrollment) *domain.Enrollment
	mu    sync.Mutex
	state MutationState
}

// State returns the mutation's current state.
func (m *Mutation) State() MutationState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mutation) setState(s MutationState) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// Engine applies progress mutations optimistically and reconciles them with
// the server. It is safe for concurrent use; concurrent mutations are not
// serialized, each one captures and restores its own previous snapshot.
type Engine struct {
	store   *Store
	index   *curriculum.Index
	updater Updater
	logger  *zap.Logger
	policy  OrderingPolicy

	mu            sync.Mutex
	seq           uint64
	newestConfirmed uint64
	confirmed     *domain.Enrollment
	pending       map[uint64]*Mutation
	inFlight      atomic.Int64
}

type EngineOption func(*Engine)

func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithOrdering(p OrderingPolicy) EngineOption {
	return func(e *Engine) {
		e.policy = p
	}
}

func NewEngine(store *Store, index *curriculum.Index, updater Updater, opts ...EngineOption) *Engine {
	e := &Engine{
		store:   store,
		index:   index,
		updater: updater,
		logger:  zap.NewNop(),
		pending: make(map[uint64]*Mutation),
	}
	e.confirmed = store.Snapshot()
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the store the engine publishes to.
func (e *Engine) Store() *Store { return e.store }

// InFlight reports whether any mutation is awaiting its server response.
func (e *Engine) InFlight() bool { return e.inFlight.Load() > 0 }

// Reload replaces the snapshot with one freshly loaded from the server, for
// example after switching enrollments.
func (e *Engine) Reload(snapshot *domain.Enrollment) {
	e.mu.Lock()
	v, listeners := e.store.swap(snapshot)
	e.confirmed = snapshot
	e.newestConfirmed = e.seq
	clear(e.pending)
	e.mu.Unlock()
	notify(snapshot, v, listeners)
}

// BeginLesson optimistically marks lessonID completed and publishes the
// result. It returns a nil Mutation when there is nothing to do: no lesson,
// no snapshot, or a preview snapshot.
func (e *Engine) BeginLesson(lessonID string) (*Mutation, error) {
	snap := e.store.Snapshot()
	if lessonID == "" || snap == nil || snap.IsPreview() {
		return nil, nil
	}
	if e.index.Lesson(lessonID) == nil {
		e.logger.Warn("ignoring completion of unknown lesson",
			zap.String("enrollment_id", snap.ID), zap.String("lesson_id", lessonID))
		return nil, ErrUnknownLesson
	}
	return e.begin(domain.ProgressUpdate{LessonID: lessonID}, func(prev *domain.Enrollment) *domain.Enrollment {
		return prev.WithLessonCompleted(lessonID)
	}), nil
}

// BeginPart optimistically records partID of a multi-part lesson. The lesson
// joins the completed set once its parts are fully covered.
func (e *Engine) BeginPart(lessonID, partID string) (*Mutation, error) {
	snap := e.store.Snapshot()
	if lessonID == "" || partID == "" || snap == nil || snap.IsPreview() {
		return nil, nil
	}
	lesson := e.index.Lesson(lessonID)
	if lesson == nil {
		e.logger.Warn("ignoring part completion of unknown lesson",
			zap.String("enrollment_id", snap.ID), zap.String("lesson_id", lessonID))
		return nil, ErrUnknownLesson
	}
	if !lesson.HasPart(partID) {
		e.logger.Warn("ignoring completion of unknown part",
			zap.String("enrollment_id", snap.ID), zap.String("lesson_id", lessonID), zap.String("part_id", partID))
		return nil, ErrUnknownPart
	}
	total := len(lesson.Parts)
	return e.begin(domain.ProgressUpdate{LessonID: lessonID, PartID: &partID}, func(prev *domain.Enrollment) *domain.Enrollment {
		return prev.WithPartCompleted(lessonID, partID, total)
	}), nil
}

// begin captures the previous snapshot and publishes the optimistic one
// under a single lock so sequence numbers follow publish order.
func (e *Engine) begin(u domain.ProgressUpdate, apply func(*domain.Enrollment) *domain.Enrollment) *Mutation {
	e.mu.Lock()
	prev := e.store.Snapshot()
	if prev == nil || prev.IsPreview() {
		e.mu.Unlock()
		return nil
	}
	e.seq++
	m := &Mutation{
		Seq:          e.seq,
		EnrollmentID: prev.ID,
		Update:       u,
		Previous:     prev,
		Optimistic:   apply(prev),
		apply:        apply,
	}
	v, listeners := e.store.swap(m.Optimistic)
	if e.policy == OrderLastIssued {
		e.pending[m.Seq] = m
	}
	e.inFlight.Add(1)
	m.setState(StateOptimisticApplied)
	e.mu.Unlock()

	notify(m.Optimistic, v, listeners)
	return m
}

// Commit sends m to the server and settles it: the server snapshot replaces
// the local one on success. On failure the default policy restores the
// snapshot m captured; OrderLastIssued restores the last confirmed one with
// the other pending mutations replayed.
// A nil mutation is a no-op. The returned error is a *ProgressError.
func (e *Engine) Commit(ctx context.Context, m *Mutation) error {
	if m == nil {
		return nil
	}
	defer e.inFlight.Add(-1)

	server, err := e.updater.UpdateProgress(ctx, m.EnrollmentID, m.Update)
	if err == nil && server == nil {
		err = errEmptyResponse
	}
	if err != nil {
		e.settle(m, nil)
		e.logger.Warn("progress update failed, rolled back",
			zap.String("enrollment_id", m.EnrollmentID),
			zap.String("lesson_id", m.Update.LessonID),
			zap.String("part_id", m.Update.PartIDOrEmpty()),
			zap.Uint64("seq", m.Seq),
			zap.String("state", m.State().String()),
			zap.Error(err),
		)
		return newProgressError(m.Update.LessonID, m.Update.PartIDOrEmpty(), err)
	}

	e.settle(m, server)
	e.logger.Debug("progress update reconciled",
		zap.String("enrollment_id", m.EnrollmentID),
		zap.String("lesson_id", m.Update.LessonID),
		zap.Uint64("seq", m.Seq),
		zap.String("state", m.State().String()),
	)
	return nil
}

// settle publishes the outcome of m. server is nil when the update failed.
func (e *Engine) settle(m *Mutation, server *domain.Enrollment) {
	state := StateReconciled
	if server == nil {
		state = StateRolledBack
	}

	e.mu.Lock()
	var next *domain.Enrollment
	switch e.policy {
	case OrderLastIssued:
		delete(e.pending, m.Seq)
		if m.Seq <= e.newestConfirmed {
			m.setState(StateDiscarded)
			e.mu.Unlock()
			return
		}
		if server != nil {
			e.confirmed = server
			e.newestConfirmed = m.Seq
		}
		next = e.replayPending()
	default:
		next = server
		if next == nil {
			next = m.Previous
		}
	}
	v, listeners := e.store.swap(next)
	m.setState(state)
	e.mu.Unlock()

	notify(next, v, listeners)
}

// replayPending applies the optimistic updates still awaiting a response, in
// issue order, on top of the last confirmed snapshot. Caller holds e.mu.
func (e *Engine) replayPending() *domain.Enrollment {
	seqs := make([]uint64, 0, len(e.pending))
	for seq := range e.pending {
		if seq > e.newestConfirmed {
			seqs = append(seqs, seq)
		}
	}
	slices.Sort(seqs)

	snap := e.confirmed
	for _, seq := range seqs {
		snap = e.pending[seq].apply(snap)
	}
	return snap
}

// CompleteLesson marks lessonID completed: optimistic publish, server call,
// then reconciliation or rollback.
func (e *Engine) CompleteLesson(ctx context.Context, lessonID string) error {
	m, err := e.BeginLesson(lessonID)
	if err != nil {
		return err
	}
	return e.Commit(ctx, m)
}

// CompletePart marks one part of a multi-part lesson completed.
func (e *Engine) CompletePart(ctx context.Context, lessonID, partID string) error {
	m, err := e.BeginPart(lessonID, partID)
	if err != nil {
		return err
	}
	return e.Commit(ctx, m)
}
