package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/syllabus/internal/cli/formatter"
	"github.com/alexanderramin/syllabus/internal/repository"
	"github.com/alexanderramin/syllabus/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newEnrollCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "enroll PROGRAM",
		Short: "Enroll the current user in a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := resolveProgram(ctx, app, args[0])
			if err != nil {
				return err
			}
			e, err := app.Backend.Enroll(ctx, p.ID, app.Config.UserID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Enrolled %s in %s %s\n",
				app.Config.UserID, formatter.Bold(p.Title), formatter.TruncID(e.ID))
			return nil
		},
	}
}

func newEnrollmentsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "enrollments",
		Short: "List the current user's enrollments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			enrollments, err := app.Backend.FetchEnrollments(ctx, app.Config.UserID)
			if err != nil {
				return err
			}
			if len(enrollments) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is not enrolled in any program.\n", app.Config.UserID)
				return nil
			}

			rows := make([]formatter.EnrollmentRow, 0, len(enrollments))
			for _, e := range enrollments {
				p, err := app.Backend.FetchProgram(ctx, e.ProgramID)
				if err != nil {
					if errors.Is(err, repository.ErrNotFound) {
						app.logger().Warn("enrollment references a missing program",
							zap.String("enrollment_id", e.ID), zap.String("program_id", e.ProgramID))
						continue
					}
					return err
				}
				rows = append(rows, formatter.EnrollmentRow{Program: p, Enrollment: e})
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEnrollmentList(rows, time.Now()))
			return nil
		},
	}
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status PROGRAM",
		Short: "Show progress, the next lesson, and which modules are unlocked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(context.Background(), app, args[0])
			if err != nil {
				return enrollmentHint(err)
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStatus(s.index, s.store.Snapshot()))
			return nil
		},
	}
}

func newResetCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset PROGRAM",
		Short: "Clear all progress in a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := openSession(ctx, app, args[0])
			if err != nil {
				return enrollmentHint(err)
			}
			snap := s.store.Snapshot()
			if snap.IsPreview() {
				return fmt.Errorf("preview progress is never saved; nothing to reset")
			}
			if !yes {
				return fmt.Errorf("this clears %s of progress in %s; pass --yes to confirm",
					formatter.Plural(len(snap.CompletedLessons), "completed lesson"), s.program.Title)
			}

			reset, err := app.Backend.Reset(ctx, snap.ID)
			if err != nil {
				return err
			}
			stats := s.index.Stats(reset)
			fmt.Fprintf(cmd.OutOrStdout(), "Progress in %s reset (%d/%d lessons).\n",
				formatter.Bold(s.program.Title), stats.Completed, stats.Total)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")

	return cmd
}

// enrollmentHint turns ErrNotEnrolled into an actionable message.
func enrollmentHint(err error) error {
	if errors.Is(err, service.ErrNotEnrolled) {
		return fmt.Errorf("%w; run `syllabus enroll` first", err)
	}
	return err
}
