package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielPopoola/connect-fulfillment/internal/domain"
	"github.com/DanielPopoola/connect-fulfillment/internal/rql"
)

type Lister interface {
	ListRequests(ctx context.Context, filters rql.Filters) ([]domain.Request, error)
	ListTierConfigRequests(ctx context.Context, filters rql.Filters) ([]domain.TierConfigRequest, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, r *domain.Request) (string, error)
	DispatchTierConfig(ctx context.Context, t *domain.TierConfigRequest) (string, error)
}

type CycleRecorder interface {
	ObserveCycle(status string, elapsed time.Duration, failedItems int)
}

const (
	CycleOK     = "ok"
	CycleFailed = "failed"
)

// ItemResult is the outcome of one dispatch within a cycle. Result is empty
// when Err is set.
type ItemResult struct {
	ItemID string
	Kind   domain.ItemKind
	Result string
	Err    error
}

type Report struct {
	Items []ItemResult
	// Failed counts dispatch failures; listing failures only show up in the
	// error returned by RunOnce.
	Failed int
}

func (r *Report) add(item ItemResult) {
	r.Items = append(r.Items, item)
	if item.Err != nil {
		r.Failed++
	}
}

// Poller sweeps pending tier-config requests and then pending requests,
// dispatching each one in listing order.
type Poller struct {
	lister      Lister
	dispatcher  Dispatcher
	interval    time.Duration
	stopOnError bool
	metrics     CycleRecorder
	logger      *slog.Logger
}

// NewPoller builds a poller. metrics may be nil. With stopOnError set, a
// failed dispatch ends the sweep of its collection for the current cycle;
// otherwise the failure is logged and the sweep moves on.
func NewPoller(
	lister Lister,
	dispatcher Dispatcher,
	interval time.Duration,
	stopOnError bool,
	metrics CycleRecorder,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		lister:      lister,
		dispatcher:  dispatcher,
		interval:    interval,
		stopOnError: stopOnError,
		metrics:     metrics,
		logger:      logger,
	}
}

// Start runs a cycle immediately and then on every tick until ctx is done.
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("starting poller", "interval", p.interval, "stop_on_error", p.stopOnError)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if _, err := p.RunOnce(ctx); err != nil && ctx.Err() == nil {
			p.logger.Error("poll cycle finished with errors", "error", err)
		}

		select {
		case <-ctx.Done():
			p.logger.Info("stopping poller")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce executes a single sweep. The returned error joins every listing
// and dispatch failure of the cycle.
func (p *Poller) RunOnce(ctx context.Context) (Report, error) {
	started := time.Now()
	pending := rql.Filters{"status": {domain.StatusPending}}

	var (
		report Report
		errs   []error
	)

	tierConfigs, err := p.lister.ListTierConfigRequests(ctx, pending)
	if err != nil {
		p.logger.Error("failed to list tier config requests", "error", err)
		errs = append(errs, fmt.Errorf("listing tier config requests: %w", err))
	} else {
		errs = append(errs, sweep(ctx, p, &report, domain.KindTierConfig, tierConfigs,
			func(t *domain.TierConfigRequest) string { return t.ID },
			p.dispatcher.DispatchTierConfig,
		)...)
	}

	requests, err := p.lister.ListRequests(ctx, pending)
	if err != nil {
		p.logger.Error("failed to list requests", "error", err)
		errs = append(errs, fmt.Errorf("listing requests: %w", err))
	} else {
		errs = append(errs, sweep(ctx, p, &report, domain.KindRequest, requests,
			func(r *domain.Request) string { return r.ID },
			p.dispatcher.Dispatch,
		)...)
	}

	cycleErr := errors.Join(errs...)
	p.observe(started, report, cycleErr)

	return report, cycleErr
}

func sweep[T any](
	ctx context.Context,
	p *Poller,
	report *Report,
	kind domain.ItemKind,
	items []T,
	idOf func(*T) string,
	dispatch func(context.Context, *T) (string, error),
) []error {
	if len(items) > 0 {
		p.logger.Info("dispatching pending items", "kind", kind, "count", len(items))
	}

	var errs []error
	for i := range items {
		if err := ctx.Err(); err != nil {
			return append(errs, err)
		}

		item := &items[i]
		id := idOf(item)

		result, err := dispatch(ctx, item)
		report.add(ItemResult{ItemID: id, Kind: kind, Result: result, Err: err})
		if err == nil {
			continue
		}

		errs = append(errs, fmt.Errorf("%s %s: %w", kind, id, err))
		if p.stopOnError {
			p.logger.Warn("aborting collection after failure", "kind", kind, "item_id", id,
				"remaining", len(items)-i-1)
			return errs
		}
	}
	return errs
}

func (p *Poller) observe(started time.Time, report Report, err error) {
	status := CycleOK
	if err != nil {
		status = CycleFailed
	}

	elapsed := time.Since(started)
	if p.metrics != nil {
		p.metrics.ObserveCycle(status, elapsed, report.Failed)
	}

	p.logger.Info("poll cycle completed",
		"status", status,
		"items", len(report.Items),
		"failed", report.Failed,
		"duration", elapsed,
	)
}
