package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/syllabus/internal/cli/formatter"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/progress"
	"github.com/alexanderramin/syllabus/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newLearnCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "learn [PROGRAM]",
		Short: "Open the interactive lesson player",
		Long: "Open the lesson player at the lesson you would resume at. Without\n" +
			"PROGRAM a picker lists the available programs.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var programInput string
			if len(args) == 1 {
				programInput = args[0]
			} else {
				if !app.interactive() {
					return fmt.Errorf("program is required when not running in a terminal")
				}
				picked, err := pickProgram(ctx, app)
				if err != nil {
					return err
				}
				programInput = picked
			}

			s, err := openSession(ctx, app, programInput)
			if errors.Is(err, service.ErrNotEnrolled) && app.interactive() {
				s, err = offerEnrollment(ctx, app, programInput)
			}
			if err != nil {
				return enrollmentHint(err)
			}

			nav := progress.NewNavigator(s.index, s.engine, app.logger())
			model := newPlayerModel(ctx, s, nav)
			if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
				return fmt.Errorf("running lesson player: %w", err)
			}

			stats := s.index.Stats(s.store.Snapshot())
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n",
				formatter.Bold(s.program.Title),
				formatter.RenderLessonProgress(stats.Completed, stats.Total, 24))
			return nil
		},
	}
}

// pickProgram asks the learner to choose a program, listing enrolled ones
// first.
func pickProgram(ctx context.Context, app *App) (string, error) {
	programs, err := app.Backend.ListPrograms(ctx)
	if err != nil {
		return "", err
	}
	if len(programs) == 0 {
		return "", fmt.Errorf("no programs available; import one with `syllabus program import`")
	}
	enrolled := map[string]bool{}
	if list, err := app.Backend.FetchEnrollments(ctx, app.Config.UserID); err == nil {
		for _, e := range list {
			enrolled[e.ProgramID] = true
		}
	}

	var choice string
	form := programPickerForm(programs, enrolled, app.Config.UserID, &choice)
	if err := form.RunWithContext(ctx); err != nil {
		return "", err
	}
	return choice, nil
}

func programPickerForm(programs []*domain.Program, enrolled map[string]bool, userID string, result *string) *huh.Form {
	options := make([]huh.Option[string], 0, len(programs))
	var rest []huh.Option[string]
	for _, p := range programs {
		label := fmt.Sprintf("%s (%s)", p.Title, formatter.Plural(p.TotalLessons, "lesson"))
		switch {
		case enrolled[p.ID]:
			options = append(options, huh.NewOption(label+" · enrolled", p.ID))
		case p.IsOwnedBy(userID):
			rest = append(rest, huh.NewOption(label+" · yours", p.ID))
		default:
			rest = append(rest, huh.NewOption(label, p.ID))
		}
	}
	options = append(options, rest...)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which program?").
				Options(options...).
				Value(result),
		),
	).WithTheme(syllabusHuhTheme()).WithShowHelp(false)
}

// offerEnrollment asks whether to enroll in a program the learner is not
// enrolled in, and opens it if they agree.
func offerEnrollment(ctx context.Context, app *App, programInput string) (*learnerSession, error) {
	p, err := resolveProgram(ctx, app, programInput)
	if err != nil {
		return nil, err
	}

	confirm := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("You are not enrolled in %s. Enroll now?", p.Title)).
				Value(&confirm),
		),
	).WithTheme(syllabusHuhTheme()).WithShowHelp(false)
	if err := form.RunWithContext(ctx); err != nil {
		return nil, err
	}
	if !confirm {
		return nil, service.ErrNotEnrolled
	}

	if _, err := app.Backend.Enroll(ctx, p.ID, app.Config.UserID); err != nil {
		return nil, err
	}
	return openSession(ctx, app, p.ID)
}
