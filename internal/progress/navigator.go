package progress

import (
	"context"

	"github.com/alexanderramin/syllabus/internal/curriculum"
	"github.com/alexanderramin/syllabus/internal/domain"
	"go.uber.org/zap"
)

type Outcome int

const (
	// OutcomeNone means nothing moved.
	OutcomeNone Outcome = iota
	// OutcomeNextPart means the cursor moved to the next part of the lesson.
	OutcomeNextPart
	// OutcomeNextLesson means a new lesson became current.
	OutcomeNextLesson
	// OutcomeFinished means the terminal lesson was completed.
	OutcomeFinished
	// OutcomeGated means the next lesson sits in a module that is still locked.
	OutcomeGated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNextPart:
		return "next_part"
	case OutcomeNextLesson:
		return "next_lesson"
	case OutcomeFinished:
		return "finished"
	case OutcomeGated:
		return "gated"
	default:
		return "none"
	}
}

// Step is the result of one Advance. Mutation, when non-nil, has been
// applied optimistically and still has to be committed.
type Step struct {
	Outcome  Outcome
	Lesson   *domain.Lesson
	Mutation *Mutation
}

// Navigator is the controller a rendering layer drives: it owns the current
// lesson and the part cursor and turns "next" presses into progress
// mutations. It is not safe for concurrent use; drive it from one event loop.
type Navigator struct {
	index   *curriculum.Index
	engine  *Engine
	logger  *zap.Logger
	current *domain.Lesson
	cursor  Cursor
}

func NewNavigator(index *curriculum.Index, engine *Engine, logger *zap.Logger) *Navigator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Navigator{index: index, engine: engine, logger: logger}
}

// Start resolves the initial lesson from the current snapshot.
func (n *Navigator) Start() *domain.Lesson {
	n.setCurrent(n.index.InitialLesson(n.engine.Store().Snapshot()))
	return n.current
}

// Current returns the lesson on screen, nil for an empty program.
func (n *Navigator) Current() *domain.Lesson { return n.current }

// PartIndex returns the cursor position within the current lesson.
func (n *Navigator) PartIndex() int { return n.cursor.Index() }

// CurrentPart returns the part on screen, nil for lessons without parts.
func (n *Navigator) CurrentPart() *domain.Part {
	if n.current == nil || len(n.current.Parts) == 0 {
		return nil
	}
	return &n.current.Parts[n.cursor.Index()]
}

// Select jumps to lessonID unless its module is locked.
func (n *Navigator) Select(lessonID string) error {
	l := n.index.Lesson(lessonID)
	if l == nil {
		n.logger.Warn("stale lesson reference", zap.String("lesson_id", lessonID))
		return curriculum.ErrLessonNotFound
	}
	if n.index.LessonLocked(n.engine.Store().Snapshot(), lessonID) {
		return ErrModuleLocked
	}
	n.setCurrent(l)
	return nil
}

// Back moves the cursor to the previous part.
func (n *Navigator) Back() int { return n.cursor.Back() }

// Advance completes what is on screen and moves forward. For multi-part
// lessons each press completes the visible part; leaving the last part moves
// to the next lesson. The returned mutation must be passed to Engine.Commit.
func (n *Navigator) Advance() (Step, error) {
	l := n.current
	if l == nil {
		return Step{Outcome: OutcomeNone}, nil
	}

	if l.IsMultiPart() {
		part := l.Parts[n.cursor.Index()]
		m, err := n.engine.BeginPart(l.ID, part.ID)
		if err != nil {
			return Step{Outcome: OutcomeNone, Lesson: l}, err
		}
		if _, pastEnd := n.cursor.Advance(len(l.Parts)); !pastEnd {
			return Step{Outcome: OutcomeNextPart, Lesson: l, Mutation: m}, nil
		}
		step := n.moveNext(l)
		step.Mutation = m
		return step, nil
	}

	m, err := n.engine.BeginLesson(l.ID)
	if err != nil {
		return Step{Outcome: OutcomeNone, Lesson: l}, err
	}
	step := n.moveNext(l)
	step.Mutation = m
	return step, nil
}

// AdvanceAndCommit is Advance followed by a blocking commit. After a failed
// commit the position is revalidated against the restored snapshot.
func (n *Navigator) AdvanceAndCommit(ctx context.Context) (Step, error) {
	step, err := n.Advance()
	if err != nil {
		return step, err
	}
	if err := n.engine.Commit(ctx, step.Mutation); err != nil {
		n.Revalidate()
		return step, err
	}
	return step, nil
}

// Revalidate falls back to the initial lesson when the current one is no
// longer reachable, e.g. after a rollback re-locked its module.
func (n *Navigator) Revalidate() *domain.Lesson {
	snap := n.engine.Store().Snapshot()
	if n.current == nil || n.index.LessonLocked(snap, n.current.ID) {
		n.setCurrent(n.index.InitialLesson(snap))
	}
	return n.current
}

func (n *Navigator) moveNext(from *domain.Lesson) Step {
	if n.index.IsLastLesson(from.ID) {
		return Step{Outcome: OutcomeFinished, Lesson: from}
	}
	next, err := n.index.NextLesson(from.ID)
	if err != nil {
		n.logger.Warn("current lesson missing from program structure",
			zap.String("lesson_id", from.ID), zap.Error(err))
		return Step{Outcome: OutcomeNone, Lesson: from}
	}
	if next == nil {
		return Step{Outcome: OutcomeFinished, Lesson: from}
	}
	if n.index.LessonLocked(n.engine.Store().Snapshot(), next.ID) {
		return Step{Outcome: OutcomeGated, Lesson: from}
	}
	n.setCurrent(next)
	return Step{Outcome: OutcomeNextLesson, Lesson: next}
}

func (n *Navigator) setCurrent(l *domain.Lesson) {
	n.current = l
	if l == nil {
		n.cursor.Sync("")
		return
	}
	n.cursor.Sync(l.ID)
}
