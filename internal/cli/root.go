package cli

import (
	"strings"

	"github.com/alexanderramin/syllabus/internal/config"
	"github.com/alexanderramin/syllabus/internal/progress"
	"github.com/alexanderramin/syllabus/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// App holds what the commands need: the active backend, the local services
// for server-only commands, and process settings.
type App struct {
	Backend Backend

	// Local services. Import and serve need them; they are nil when the CLI
	// only talks to a remote API.
	Programs    service.ProgramService
	Enrollments service.EnrollmentService
	Progress    service.ProgressService

	Config config.Config
	Logger *zap.Logger

	// IsInteractive reports whether stdin is a terminal; the learn command
	// only prompts when it is.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

func (a *App) orderingPolicy() progress.OrderingPolicy {
	if a.Config.StrictOrdering {
		return progress.OrderLastIssued
	}
	return progress.OrderLastReconciled
}

// NewRootCmd creates the top-level "syllabus" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "syllabus",
		Short:         "Work through course programs and keep progress in sync",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetGlobalNormalizationFunc(dashedFlagNames)
	root.PersistentFlags().StringVar(&app.Config.UserID, "user", app.Config.UserID, "Learner id")

	root.AddCommand(
		newProgramCmd(app),
		newEnrollCmd(app),
		newEnrollmentsCmd(app),
		newStatusCmd(app),
		newCompleteCmd(app),
		newResetCmd(app),
		newLearnCmd(app),
		newServeCmd(app),
	)

	return root
}

// dashedFlagNames accepts underscores in flag names and treats --user-id,
// the API's field name, as --user.
func dashedFlagNames(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	name = strings.ReplaceAll(name, "_", "-")
	if name == "user-id" {
		name = "user"
	}
	return pflag.NormalizedName(name)
}
