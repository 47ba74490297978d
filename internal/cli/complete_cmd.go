package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/syllabus/internal/cli/formatter"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/progress"
	"github.com/spf13/cobra"
)

func newCompleteCmd(app *App) *cobra.Command {
	var partInput string

	cmd := &cobra.Command{
		Use:   "complete PROGRAM LESSON",
		Short: "Mark a lesson, or one part of it, as completed",
		Long: "Mark a lesson as completed. LESSON is a lesson id, a unique id prefix,\n" +
			"or its #number from `syllabus status`. With --part only that part is\n" +
			"recorded; the lesson completes once all of its parts are done.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := openSession(ctx, app, args[0])
			if err != nil {
				return enrollmentHint(err)
			}
			lesson, err := resolveLesson(s.index, args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if s.store.Snapshot().IsPreview() {
				fmt.Fprintln(out, formatter.Dim("Preview: progress is not saved."))
				return nil
			}
			if s.index.LessonLocked(s.store.Snapshot(), lesson.ID) {
				return progress.ErrModuleLocked
			}

			var part *domain.Part
			if partInput != "" {
				if part, err = resolvePart(lesson, partInput); err != nil {
					return err
				}
			}

			if err := commitCompletion(ctx, app, s, lesson, part); err != nil {
				return err
			}

			snap := s.store.Snapshot()
			if part != nil && !snap.HasCompleted(lesson.ID) {
				d, _ := snap.Detail(lesson.ID)
				fmt.Fprintf(out, "%s %s of %s %s\n",
					formatter.StyleGreen.Render("✔"), part.Title, formatter.Bold(lesson.Title),
					formatter.Dim(fmt.Sprintf("(%d/%d parts)", len(d.CompletedParts), len(lesson.Parts))))
			} else {
				fmt.Fprintf(out, "%s Completed %s\n", formatter.StyleGreen.Render("✔"), formatter.Bold(lesson.Title))
			}

			stats := s.index.Stats(snap)
			fmt.Fprintln(out, formatter.RenderLessonProgress(stats.Completed, stats.Total, 24))
			if s.index.ProgramCompleted(snap) {
				fmt.Fprintln(out, formatter.StyleGreen.Render("Program complete."))
			} else if next := s.index.InitialLesson(snap); next != nil {
				fmt.Fprintf(out, "%s %s\n", formatter.Dim("Up next:"), next.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&partInput, "part", "", "Part id or 1-based position within the lesson")

	return cmd
}

// commitCompletion runs the mutation through the engine, with a spinner on
// interactive terminals while the server answers.
func commitCompletion(ctx context.Context, app *App, s *learnerSession, lesson *domain.Lesson, part *domain.Part) error {
	var (
		m   *progress.Mutation
		err error
	)
	if part != nil {
		m, err = s.engine.BeginPart(lesson.ID, part.ID)
	} else {
		m, err = s.engine.BeginLesson(lesson.ID)
	}
	if err != nil {
		return err
	}

	if app.interactive() {
		stop := formatter.StartSpinner(os.Stderr, "Saving progress...")
		defer stop()
	}
	return s.engine.Commit(ctx, m)
}
