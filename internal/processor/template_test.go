package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/DanielPopoola/connect-fulfillment/internal/config"
	"github.com/DanielPopoola/connect-fulfillment/internal/domain"
	"github.com/DanielPopoola/connect-fulfillment/internal/fulfillment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) RenderTemplateFor(ctx context.Context, templateID string, r *domain.Request) (string, error) {
	args := m.Called(ctx, templateID, r)
	return args.String(0), args.Error(1)
}

func request(typ string, params ...domain.Param) *domain.Request {
	return &domain.Request{
		ID:    "PR-1",
		Type:  typ,
		Asset: domain.Asset{ID: "AS-1", Params: params},
	}
}

func TestTemplateProcessor_ProcessRequest(t *testing.T) {
	filled := domain.Param{ID: "email", Value: "ops@example.com"}

	tests := []struct {
		name    string
		cfg     config.ProcessorConfig
		request *domain.Request
		want    fulfillment.Outcome
	}{
		{
			name:    "purchase with template",
			cfg:     config.ProcessorConfig{RequestTemplateID: "TL-1", RequiredParams: []string{"email"}},
			request: request(domain.RequestTypePurchase, filled),
			want:    fulfillment.Template("TL-1"),
		},
		{
			name:    "change without template uses tile",
			cfg:     config.ProcessorConfig{ActivationTile: "Activated"},
			request: request(domain.RequestTypeChange),
			want:    fulfillment.Tile("Activated"),
		},
		{
			name:    "resume without any configuration",
			request: request(domain.RequestTypeResume),
			want:    fulfillment.Tile(""),
		},
		{
			name:    "suspend ignores template",
			cfg:     config.ProcessorConfig{RequestTemplateID: "TL-1", ActivationTile: "Suspended"},
			request: request(domain.RequestTypeSuspend),
			want:    fulfillment.Tile("Suspended"),
		},
		{
			name:    "cancel skips required params",
			cfg:     config.ProcessorConfig{RequiredParams: []string{"email"}},
			request: request(domain.RequestTypeCancel),
			want:    fulfillment.Tile(""),
		},
		{
			name:    "unknown type skipped",
			request: request("adjustment"),
			want:    fulfillment.Skip(),
		},
		{
			name:    "missing and empty params inquire",
			cfg:     config.ProcessorConfig{RequestTemplateID: "TL-1", RequiredParams: []string{"email", "seats", "region"}},
			request: request(domain.RequestTypePurchase, filled, domain.Param{ID: "seats", Name: "Seats"}),
			want: fulfillment.Inquire(
				domain.Param{ID: "seats", Name: "Seats", ValueError: requiredParamMessage},
				domain.Param{ID: "region", ValueError: requiredParamMessage},
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewTemplateProcessor(tt.cfg, &mockRenderer{})

			got, err := p.ProcessRequest(context.Background(), tt.request)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTemplateProcessor_RendersTile(t *testing.T) {
	r := request(domain.RequestTypePurchase)
	renderer := &mockRenderer{}
	renderer.On("RenderTemplateFor", mock.Anything, "TL-1", r).Return("# Ready\nLogin at example.com", nil)
	p := NewTemplateProcessor(config.ProcessorConfig{RequestTemplateID: "TL-1", RenderTiles: true}, renderer)

	got, err := p.ProcessRequest(context.Background(), r)

	require.NoError(t, err)
	assert.Equal(t, fulfillment.Tile("# Ready\nLogin at example.com"), got)
	renderer.AssertExpectations(t)
}

func TestTemplateProcessor_RenderFailure(t *testing.T) {
	r := request(domain.RequestTypePurchase)
	renderErr := errors.New("template not found")
	renderer := &mockRenderer{}
	renderer.On("RenderTemplateFor", mock.Anything, "TL-1", r).Return("", renderErr)
	p := NewTemplateProcessor(config.ProcessorConfig{RequestTemplateID: "TL-1", RenderTiles: true}, renderer)

	_, err := p.ProcessRequest(context.Background(), r)

	assert.ErrorIs(t, err, renderErr)
}

func TestTemplateProcessor_ProcessTierConfigRequest(t *testing.T) {
	cfg := config.ProcessorConfig{TierTemplateID: "TL-T", RequiredTierParams: []string{"tax_id"}}
	p := NewTemplateProcessor(cfg, &mockRenderer{})

	incomplete := &domain.TierConfigRequest{ID: "TCR-1"}
	got, err := p.ProcessTierConfigRequest(context.Background(), incomplete)
	require.NoError(t, err)
	assert.Equal(t, fulfillment.KindInquire, got.Kind())
	require.Len(t, got.Params(), 1)
	assert.Equal(t, requiredParamMessage, got.Params()[0].ValueError)

	complete := &domain.TierConfigRequest{ID: "TCR-2", Params: domain.Params{{ID: "tax_id", Value: "GB123"}}}
	got, err = p.ProcessTierConfigRequest(context.Background(), complete)
	require.NoError(t, err)
	assert.Equal(t, fulfillment.Template("TL-T"), got)

	tileOnly := NewTemplateProcessor(config.ProcessorConfig{ActivationTile: "Configured"}, &mockRenderer{})
	got, err = tileOnly.ProcessTierConfigRequest(context.Background(), complete)
	require.NoError(t, err)
	assert.Equal(t, fulfillment.Tile("Configured"), got)
}
