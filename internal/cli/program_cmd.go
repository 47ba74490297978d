package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/syllabus/internal/cli/formatter"
	"github.com/spf13/cobra"
)

var errRemoteImport = errors.New("importing needs the local database; unset SYLLABUS_API_URL")

func newProgramCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "program",
		Short: "Manage programs",
	}

	cmd.AddCommand(
		newProgramImportCmd(app),
		newProgramListCmd(app),
		newProgramShowCmd(app),
	)

	return cmd
}

func newProgramImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a program from a JSON or YAML definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Programs == nil {
				return errRemoteImport
			}
			p, err := app.Programs.ImportFile(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s %s: %s, %s\n",
				formatter.Bold(p.Title), formatter.TruncID(p.ID),
				formatter.Plural(len(p.Modules), "module"),
				formatter.Plural(p.TotalLessons, "lesson"))
			return nil
		},
	}
}

func newProgramListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List programs",
		RunE: func(cmd *cobra.Command, args []string) error {
			programs, err := app.Backend.ListPrograms(context.Background())
			if err != nil {
				return err
			}

			if len(programs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No programs found.")
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProgramList(programs))
			return nil
		},
	}
}

func newProgramShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROGRAM",
		Short: "Show a program's modules and lessons",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := resolveProgram(ctx, app, args[0])
			if err != nil {
				return err
			}
			// List results may be summaries on a remote backend; fetch the full tree.
			full, err := app.Backend.FetchProgram(ctx, p.ID)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProgramDetail(full))
			return nil
		},
	}
}
