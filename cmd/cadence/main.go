package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/cadence/internal/cli"
	"github.com/alexanderramin/cadence/internal/config"
	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/service"
	"github.com/mattn/go-isatty"
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
		return err
	}
	logger := cfg.NewLogger(os.Stderr)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()
	logger.Debug("database ready", "path", cfg.DBPath)

	repos := repository.NewSQLiteSet(database)
	uow := db.NewSQLiteUnitOfWork(database)

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.LogUseCases {
		observer = service.NewSlogUseCaseObserver(logger)
	}

	app := &cli.App{
		Children: service.NewChildService(repos, cfg.UserID),
		Topics:   service.NewTopicService(repos, cfg.UserID),
		Blocks:   service.NewTimeBlockService(repos, uow, cfg.UserID, observer),
		Sessions: service.NewSessionService(repos, uow, cfg.UserID, observer),
		Scheduling: service.NewSchedulingService(repos, uow, cfg.UserID,
			service.WithSuggestionLimit(cfg.SuggestionLimit),
			service.WithRedistributeMax(cfg.RedistributeMax),
			service.WithSchedulingObserver(observer),
		),
		Capacity: service.NewCapacityService(repos, cfg.UserID, observer),
		Quality:  service.NewQualityService(repos, cfg.UserID, cfg.SchedulerQuality(), observer),
		Events:   service.NewEventService(repos, cfg.UserID),
	}

	// Forms and the week browser need a real terminal on stdin.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
