package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/syllabus/internal/cli"
	"github.com/alexanderramin/syllabus/internal/client"
	"github.com/alexanderramin/syllabus/internal/config"
	"github.com/alexanderramin/syllabus/internal/db"
	"github.com/alexanderramin/syllabus/internal/logging"
	"github.com/alexanderramin/syllabus/internal/repository"
	"github.com/alexanderramin/syllabus/internal/service"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	app := &cli.App{
		Config: cfg,
		Logger: logger,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	if cfg.Remote() {
		logger.Debug("using remote backend", zap.String("api_url", cfg.APIURL))
		app.Backend = client.New(cfg.APIURL, cfg.HTTPTimeout)
		return cli.NewRootCmd(app).Execute()
	}

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	programRepo := repository.NewSQLiteProgramRepo(database)
	enrollmentRepo := repository.NewSQLiteEnrollmentRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Wire services
	observer := service.NewLogUseCaseObserver(logger)
	app.Programs = service.NewProgramService(programRepo, uow, observer)
	app.Enrollments = service.NewEnrollmentService(programRepo, enrollmentRepo, uow, observer)
	app.Progress = service.NewProgressService(uow, observer)
	app.Backend = cli.NewLocalBackend(app.Programs, app.Enrollments, app.Progress)

	return cli.NewRootCmd(app).Execute()
}
