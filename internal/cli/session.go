package cli

import (
	"context"

	"github.com/alexanderramin/syllabus/internal/curriculum"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/progress"
)

// learnerSession is one opened program: its index plus an engine over the
// learner's snapshot.
type learnerSession struct {
	program *domain.Program
	index   *curriculum.Index
	store   *progress.Store
	engine  *progress.Engine
}

// openSession loads programInput for the configured user. Owners who are not
// enrolled get a preview session.
func openSession(ctx context.Context, app *App, programInput string) (*learnerSession, error) {
	p, err := resolveProgram(ctx, app, programInput)
	if err != nil {
		return nil, err
	}
	program, snapshot, err := app.Backend.OpenSession(ctx, p.ID, app.Config.UserID)
	if err != nil {
		return nil, err
	}
	return newLearnerSession(app, program, snapshot), nil
}

func newLearnerSession(app *App, program *domain.Program, snapshot *domain.Enrollment) *learnerSession {
	index := curriculum.NewIndex(program)
	store := progress.NewStore(snapshot)
	engine := progress.NewEngine(store, index, app.Backend,
		progress.WithLogger(app.logger()),
		progress.WithOrdering(app.orderingPolicy()),
	)
	return &learnerSession{program: program, index: index, store: store, engine: engine}
}
