// Package processor holds the business logic shipped with the fulfiller:
// a configuration-driven processor that approves with templates or tiles
// once the required parameters are filled in.
package processor

import (
	"context"
	"fmt"

	"github.com/DanielPopoola/connect-fulfillment/internal/config"
	"github.com/DanielPopoola/connect-fulfillment/internal/domain"
	"github.com/DanielPopoola/connect-fulfillment/internal/fulfillment"
)

const requiredParamMessage = "This parameter is required"

type Renderer interface {
	RenderTemplateFor(ctx context.Context, templateID string, r *domain.Request) (string, error)
}

type TemplateProcessor struct {
	cfg      config.ProcessorConfig
	renderer Renderer
}

var _ fulfillment.Processor = (*TemplateProcessor)(nil)

func NewTemplateProcessor(cfg config.ProcessorConfig, renderer Renderer) *TemplateProcessor {
	return &TemplateProcessor{cfg: cfg, renderer: renderer}
}

func (p *TemplateProcessor) ProcessRequest(ctx context.Context, r *domain.Request) (fulfillment.Outcome, error) {
	switch r.Type {
	case domain.RequestTypePurchase, domain.RequestTypeChange, domain.RequestTypeResume:
		if missing := missingParams(r.Asset.Params, p.cfg.RequiredParams); len(missing) > 0 {
			return fulfillment.Inquire(missing...), nil
		}
		return p.activate(ctx, r)

	case domain.RequestTypeSuspend, domain.RequestTypeCancel:
		return fulfillment.Tile(p.cfg.ActivationTile), nil

	default:
		return fulfillment.Skip(), nil
	}
}

func (p *TemplateProcessor) activate(ctx context.Context, r *domain.Request) (fulfillment.Outcome, error) {
	if p.cfg.RequestTemplateID == "" {
		return fulfillment.Tile(p.cfg.ActivationTile), nil
	}
	if !p.cfg.RenderTiles {
		return fulfillment.Template(p.cfg.RequestTemplateID), nil
	}

	tile, err := p.renderer.RenderTemplateFor(ctx, p.cfg.RequestTemplateID, r)
	if err != nil {
		return fulfillment.Outcome{}, fmt.Errorf("rendering activation tile for %s: %w", r.ID, err)
	}
	return fulfillment.Tile(tile), nil
}

func (p *TemplateProcessor) ProcessTierConfigRequest(_ context.Context, t *domain.TierConfigRequest) (fulfillment.Outcome, error) {
	if missing := missingParams(t.Params, p.cfg.RequiredTierParams); len(missing) > 0 {
		return fulfillment.Inquire(missing...), nil
	}
	if p.cfg.TierTemplateID != "" {
		return fulfillment.Template(p.cfg.TierTemplateID), nil
	}
	return fulfillment.Tile(p.cfg.ActivationTile), nil
}

// missingParams returns the required params that are absent or empty,
// annotated for the customer.
func missingParams(params domain.Params, required []string) []domain.Param {
	var missing []domain.Param
	for _, id := range required {
		p, ok := params.ByID(id)
		if !ok {
			p = domain.Param{ID: id}
		}
		if p.Value == "" {
			missing = append(missing, p.WithError(requiredParamMessage))
		}
	}
	return missing
}
