package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/DanielPopoola/connect-fulfillment/internal/domain"
	"github.com/google/uuid"
)

const (
	ResultInvalidProduct = "Invalid product"
	ResultInquire        = "inquire"
	ResultFail           = "fail"
	ResultSkip           = "skip"

	resultTemplate = "succeed (Activated using template %s)"
	resultTile     = "succeed (%s)"
)

// Outcome labels used by the journal and metrics in addition to the
// OutcomeKind names.
const (
	OutcomeInvalidProduct = "invalid_product"
	OutcomeError          = "error"
)

var ErrProcessorPanic = errors.New("processor panicked")

// Platform holds the reconciling calls the engine can make.
type Platform interface {
	ApproveRequestWithTemplate(ctx context.Context, id, templateID string) error
	ApproveRequestWithTile(ctx context.Context, id, tile string) error
	InquireRequest(ctx context.Context, id string) error
	FailRequest(ctx context.Context, id, reason string) error
	UpdateRequestParameters(ctx context.Context, id string, params domain.Params) error

	ApproveTierConfigWithTemplate(ctx context.Context, id, templateID string) error
	ApproveTierConfigWithTile(ctx context.Context, id, tile string) error
	InquireTierConfig(ctx context.Context, id string) error
	FailTierConfig(ctx context.Context, id, reason string) error
	UpdateTierConfigParameters(ctx context.Context, id string, params domain.Params) error
}

// Journal stores an audit entry per dispatch.
type Journal interface {
	Record(ctx context.Context, rec domain.DispatchRecord) error
}

type Recorder interface {
	ObserveDispatch(kind, outcome string, elapsed time.Duration)
}

// reconciler binds the Platform calls for one item kind.
type reconciler struct {
	approveTemplate func(ctx context.Context, id, templateID string) error
	approveTile     func(ctx context.Context, id, tile string) error
	inquire         func(ctx context.Context, id string) error
	fail            func(ctx context.Context, id, reason string) error
	updateParams    func(ctx context.Context, id string, params domain.Params) error
}

// Engine turns one business decision into at most one reconciling call.
// It holds no per-item state and is safe for concurrent use when its
// collaborators are.
type Engine struct {
	processor Processor
	products  map[string]struct{}
	journal   Journal
	metrics   Recorder
	logger    *slog.Logger

	requests    reconciler
	tierConfigs reconciler
}

// NewEngine builds an engine. journal and metrics may be nil. An empty
// products list allows every product.
func NewEngine(
	platform Platform,
	processor Processor,
	products []string,
	journal Journal,
	metrics Recorder,
	logger *slog.Logger,
) *Engine {
	allowed := make(map[string]struct{}, len(products))
	for _, p := range products {
		allowed[p] = struct{}{}
	}

	return &Engine{
		processor: processor,
		products:  allowed,
		journal:   journal,
		metrics:   metrics,
		logger:    logger,
		requests: reconciler{
			approveTemplate: platform.ApproveRequestWithTemplate,
			approveTile:     platform.ApproveRequestWithTile,
			inquire:         platform.InquireRequest,
			fail:            platform.FailRequest,
			updateParams:    platform.UpdateRequestParameters,
		},
		tierConfigs: reconciler{
			approveTemplate: platform.ApproveTierConfigWithTemplate,
			approveTile:     platform.ApproveTierConfigWithTile,
			inquire:         platform.InquireTierConfig,
			fail:            platform.FailTierConfig,
			updateParams:    platform.UpdateTierConfigParameters,
		},
	}
}

// Dispatch processes one fulfillment request and returns its result string.
// Errors come from the business logic or from the reconciling call; in both
// cases the platform state of the request is left for the next cycle.
func (e *Engine) Dispatch(ctx context.Context, r *domain.Request) (string, error) {
	return e.dispatch(ctx, domain.KindRequest, r.ID, r.ProductID(), e.requests,
		func(ctx context.Context) (Outcome, error) {
			return e.processor.ProcessRequest(ctx, r)
		})
}

func (e *Engine) DispatchTierConfig(ctx context.Context, t *domain.TierConfigRequest) (string, error) {
	return e.dispatch(ctx, domain.KindTierConfig, t.ID, t.ProductID(), e.tierConfigs,
		func(ctx context.Context) (Outcome, error) {
			return e.processor.ProcessTierConfigRequest(ctx, t)
		})
}

func (e *Engine) dispatch(
	ctx context.Context,
	kind domain.ItemKind,
	id, productID string,
	rec reconciler,
	process func(ctx context.Context) (Outcome, error),
) (string, error) {
	started := time.Now()
	e.logger.Info("processing item", "item_id", id, "kind", kind)

	result, label, err := e.decide(ctx, id, productID, rec, process)

	e.observe(ctx, kind, id, label, result, err, started)

	if err != nil {
		e.logger.Error("item processing failed", "item_id", id, "kind", kind, "error", err)
		return "", err
	}

	e.logger.Info("item processed", "item_id", id, "kind", kind, "result", result)
	return result, nil
}

func (e *Engine) decide(
	ctx context.Context,
	id, productID string,
	rec reconciler,
	process func(ctx context.Context) (Outcome, error),
) (string, string, error) {
	if !e.allowed(productID) {
		return ResultInvalidProduct, OutcomeInvalidProduct, nil
	}

	out, err := e.invoke(ctx, process)
	if err != nil {
		return "", OutcomeError, err
	}

	result, err := reconcile(ctx, id, out, rec)
	if err != nil {
		return "", OutcomeError, err
	}
	return result, out.Kind().String(), nil
}

func (e *Engine) allowed(productID string) bool {
	if len(e.products) == 0 {
		return true
	}
	_, ok := e.products[productID]
	return ok
}

// invoke runs business logic, unwrapping signals and recovering panics.
func (e *Engine) invoke(ctx context.Context, process func(ctx context.Context) (Outcome, error)) (out Outcome, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Error(
				"panic recovered",
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			out, err = Outcome{}, fmt.Errorf("%w: %v", ErrProcessorPanic, rec)
		}
	}()

	out, err = process(ctx)
	if err != nil {
		var sig *Signal
		if errors.As(err, &sig) {
			return sig.Outcome, nil
		}
		return Outcome{}, err
	}
	return out, nil
}

func reconcile(ctx context.Context, id string, out Outcome, rec reconciler) (string, error) {
	switch out.Kind() {
	case KindTemplate:
		if err := rec.approveTemplate(ctx, id, out.TemplateID()); err != nil {
			return "", err
		}
		return fmt.Sprintf(resultTemplate, out.TemplateID()), nil

	case KindTile:
		if err := rec.approveTile(ctx, id, out.Content()); err != nil {
			return "", err
		}
		return fmt.Sprintf(resultTile, out.Content()), nil

	case KindInquire:
		if err := rec.updateParams(ctx, id, out.Params()); err != nil {
			return "", err
		}
		if err := rec.inquire(ctx, id); err != nil {
			return "", err
		}
		return ResultInquire, nil

	case KindFail:
		if err := rec.fail(ctx, id, out.Reason()); err != nil {
			return "", err
		}
		return ResultFail, nil

	case KindSkip:
		return ResultSkip, nil

	default:
		return "", fmt.Errorf("unknown outcome kind %s", out.Kind())
	}
}

func (e *Engine) observe(
	ctx context.Context,
	kind domain.ItemKind,
	id, label, result string,
	dispatchErr error,
	started time.Time,
) {
	finished := time.Now()

	if e.metrics != nil {
		e.metrics.ObserveDispatch(string(kind), label, finished.Sub(started))
	}

	if e.journal == nil {
		return
	}

	rec := domain.DispatchRecord{
		ID:         uuid.New(),
		ItemID:     id,
		Kind:       kind,
		Outcome:    label,
		Result:     result,
		StartedAt:  started,
		FinishedAt: finished,
	}
	if dispatchErr != nil {
		msg := dispatchErr.Error()
		rec.Error = &msg
	}

	// A cancelled cycle still records what it already did.
	if err := e.journal.Record(context.WithoutCancel(ctx), rec); err != nil {
		e.logger.Warn("failed to record dispatch", "item_id", id, "kind", kind, "error", err)
	}
}
