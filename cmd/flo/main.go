package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/audit"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/cli"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/cli/formatter"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/clock"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/config"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/db"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/metrics"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/notify"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/repository"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	repos := repository.NewSQLiteSet(database)
	uow := db.NewSQLiteUnitOfWork(database)

	registry := prometheus.NewRegistry()
	observers := []service.UseCaseObserver{metrics.NewObserver(metrics.New(registry))}
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	opts := []service.Option{
		service.WithLogger(logger),
		service.WithNotifier(notify.NewLogNotifier(logger)),
		service.WithAuditPublisher(audit.NewStorePublisher(repos.AuditEvents, audit.WithLogger(logger))),
		service.WithObservers(observers...),
	}

	amendments := service.NewAmendmentReviewService(repos, uow, opts...)
	app := &cli.App{
		StatusHistory:  service.NewStatusHistoryService(repos, uow, opts...),
		Assignees:      service.NewAssigneeHistoryService(repos, uow, opts...),
		Extension:      service.NewExtensionService(repos, uow, cfg.ReextensionPolicy, opts...),
		LateAmendments: service.NewLateAmendmentJobService(repos, uow, amendments, opts...),
		Config:         cfg,
		Clock:          clock.Real(),
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		formatter.DisableColor()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	execErr := cli.NewRootCmd(app).ExecuteContext(ctx)

	if cfg.MetricsTextfilePath != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfilePath, registry); err != nil {
			logger.Error("metrics_textfile_failed", "path", cfg.MetricsTextfilePath, "error", err)
		}
	}
	return execErr
}
