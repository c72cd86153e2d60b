package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/DanielPopoola/connect-fulfillment/internal/config"
	"github.com/DanielPopoola/connect-fulfillment/internal/fulfillment"
	"github.com/DanielPopoola/connect-fulfillment/internal/infrastructure/connect"
	"github.com/DanielPopoola/connect-fulfillment/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/connect-fulfillment/internal/observability"
	"github.com/DanielPopoola/connect-fulfillment/internal/processor"
	"github.com/DanielPopoola/connect-fulfillment/internal/worker"
)

var errJournalDisabled = errors.New("dispatch journal is not configured: set FULFILLMENT_DATABASE__* variables")

// app is the wired object graph shared by the subcommands.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	api     *connect.API
	metrics *observability.Metrics
	db      *postgres.DB
	journal *postgres.DispatchRepository
	engine  *fulfillment.Engine
	poller  *worker.Poller
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	a := &app{
		cfg:     cfg,
		logger:  logger,
		metrics: observability.NewMetrics(),
	}

	httpClient := connect.NewHTTPClient(cfg.Connect, logger)
	transport := connect.NewRetryClient(httpClient, cfg.Retry, logger)
	a.api = connect.NewAPI(transport, cfg.Connect.Products)

	var journal fulfillment.Journal
	if cfg.Database != nil {
		a.db, err = postgres.Connect(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		a.journal = postgres.NewDispatchRepository(a.db.Pool)
		journal = a.journal
	} else {
		logger.Info("dispatch journal disabled")
	}

	a.engine = fulfillment.NewEngine(
		a.api,
		processor.NewTemplateProcessor(cfg.Processor, a.api),
		cfg.Connect.Products,
		journal,
		a.metrics,
		logger,
	)

	a.poller = worker.NewPoller(
		a.api,
		a.engine,
		cfg.Worker.Interval,
		cfg.Worker.StopOnError,
		a.metrics,
		logger,
	)

	logger.Info("fulfiller configured",
		"env", cfg.Primary.Env,
		"endpoint", cfg.Connect.APIEndpoint,
		"products", cfg.Connect.Products,
		"journal", cfg.Database != nil,
	)

	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}
