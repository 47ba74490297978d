package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/syllabus/internal/api"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var errRemoteServe = errors.New("serve needs the local database; unset SYLLABUS_API_URL")

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the progress API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Programs == nil || app.Enrollments == nil || app.Progress == nil {
				return errRemoteServe
			}
			if app.Config.LogMode == "prod" {
				gin.SetMode(gin.ReleaseMode)
			}

			router := api.NewRouter(api.RouterConfig{
				Programs:    app.Programs,
				Enrollments: app.Enrollments,
				Progress:    app.Progress,
				Logger:      app.logger(),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return api.Serve(ctx, addr, router, app.logger())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", app.Config.ListenAddr, "Listen address")

	return cmd
}
