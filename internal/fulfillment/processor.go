package fulfillment

import (
	"context"

	"github.com/DanielPopoola/connect-fulfillment/internal/domain"
)

// Processor is the business logic driven by the engine. Returning an error
// that wraps a *Signal is equivalent to returning its Outcome.
type Processor interface {
	ProcessRequest(ctx context.Context, r *domain.Request) (Outcome, error)
	ProcessTierConfigRequest(ctx context.Context, t *domain.TierConfigRequest) (Outcome, error)
}

// ProcessorFuncs adapts plain functions to Processor. A nil function skips
// every item of its kind.
type ProcessorFuncs struct {
	Request    func(ctx context.Context, r *domain.Request) (Outcome, error)
	TierConfig func(ctx context.Context, t *domain.TierConfigRequest) (Outcome, error)
}

func (f ProcessorFuncs) ProcessRequest(ctx context.Context, r *domain.Request) (Outcome, error) {
	if f.Request == nil {
		return Skip(), nil
	}
	return f.Request(ctx, r)
}

func (f ProcessorFuncs) ProcessTierConfigRequest(ctx context.Context, t *domain.TierConfigRequest) (Outcome, error) {
	if f.TierConfig == nil {
		return Skip(), nil
	}
	return f.TierConfig(ctx, t)
}
