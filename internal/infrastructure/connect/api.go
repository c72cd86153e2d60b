package connect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/DanielPopoola/connect-fulfillment/internal/domain"
	"github.com/DanielPopoola/connect-fulfillment/internal/rql"
)

const (
	requestsPath           = "/requests"
	tierConfigRequestsPath = "/tier/config-requests"
	templatesPath          = "/templates"
)

// API is the typed view of the platform used by the dispatch engine and by
// business logic. When products is non-empty every listing is narrowed to
// those products.
type API struct {
	transport Transport
	products  []string
}

func NewAPI(transport Transport, products []string) *API {
	return &API{
		transport: transport,
		products:  append([]string(nil), products...),
	}
}

func (a *API) ListRequests(ctx context.Context, filters rql.Filters) ([]domain.Request, error) {
	q := rql.FromFilters(filters)
	if len(a.products) > 0 {
		q.In("asset.product.id", a.products...)
	}
	return getJSON[[]domain.Request](ctx, a, requestsPath+q.Compile())
}

func (a *API) ListTierConfigRequests(ctx context.Context, filters rql.Filters) ([]domain.TierConfigRequest, error) {
	q := rql.FromFilters(filters)
	if len(a.products) > 0 {
		q.In("configuration.product.id", a.products...)
	}
	return getJSON[[]domain.TierConfigRequest](ctx, a, tierConfigRequestsPath+q.Compile())
}

type templateIDBody struct {
	TemplateID string `json:"template_id"`
}

type activationTileBody struct {
	ActivationTile string `json:"activation_tile"`
}

type tierTemplateIDBody struct {
	Template struct {
		ID string `json:"id"`
	} `json:"template"`
}

type tierTileBody struct {
	Template struct {
		Representation string `json:"representation"`
	} `json:"template"`
}

type failBody struct {
	Reason string `json:"reason"`
}

type requestParamsBody struct {
	Asset assetParams `json:"asset"`
}

type assetParams struct {
	Params []paramPatch `json:"params"`
}

type tierParamsBody struct {
	Params []paramPatch `json:"params"`
}

// paramPatch is the minimal representation accepted by parameter updates.
// Value is always sent so a correction can clear it.
type paramPatch struct {
	ID         string `json:"id"`
	Value      string `json:"value"`
	ValueError string `json:"value_error,omitempty"`
}

var emptyBody = []byte("{}")

func (a *API) ApproveRequestWithTemplate(ctx context.Context, id, templateID string) error {
	return a.post(ctx, requestsPath+"/"+id+"/approve", templateIDBody{TemplateID: templateID})
}

func (a *API) ApproveRequestWithTile(ctx context.Context, id, tile string) error {
	return a.post(ctx, requestsPath+"/"+id+"/approve", activationTileBody{ActivationTile: tile})
}

func (a *API) InquireRequest(ctx context.Context, id string) error {
	return a.postRaw(ctx, requestsPath+"/"+id+"/inquire", emptyBody)
}

func (a *API) FailRequest(ctx context.Context, id, reason string) error {
	return a.post(ctx, requestsPath+"/"+id+"/fail", failBody{Reason: reason})
}

// UpdateRequestParameters pushes corrected asset params for a request.
func (a *API) UpdateRequestParameters(ctx context.Context, id string, params domain.Params) error {
	body := requestParamsBody{Asset: assetParams{Params: toPatches(params)}}
	return a.send(ctx, http.MethodPut, requestsPath+"/"+id, body)
}

func (a *API) ApproveTierConfigWithTemplate(ctx context.Context, id, templateID string) error {
	var body tierTemplateIDBody
	body.Template.ID = templateID
	return a.post(ctx, tierConfigRequestsPath+"/"+id+"/approve", body)
}

func (a *API) ApproveTierConfigWithTile(ctx context.Context, id, tile string) error {
	var body tierTileBody
	body.Template.Representation = tile
	return a.post(ctx, tierConfigRequestsPath+"/"+id+"/approve", body)
}

func (a *API) InquireTierConfig(ctx context.Context, id string) error {
	return a.postRaw(ctx, tierConfigRequestsPath+"/"+id+"/inquire", emptyBody)
}

func (a *API) FailTierConfig(ctx context.Context, id, reason string) error {
	return a.post(ctx, tierConfigRequestsPath+"/"+id+"/fail", failBody{Reason: reason})
}

// UpdateTierConfigParameters pushes corrected params for a tier-config request.
func (a *API) UpdateTierConfigParameters(ctx context.Context, id string, params domain.Params) error {
	body := tierParamsBody{Params: toPatches(params)}
	return a.send(ctx, http.MethodPut, tierConfigRequestsPath+"/"+id, body)
}

// RenderTemplate returns the rendered body of templateID for a request id.
func (a *API) RenderTemplate(ctx context.Context, templateID, requestID string) (string, error) {
	path := templatesPath + "/" + url.PathEscape(templateID) + "/render?request_id=" + url.QueryEscape(requestID)
	resp, err := a.transport.Send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", fmt.Errorf("render template %s: %w", templateID, err)
	}
	return string(resp.Body), nil
}

func (a *API) RenderTemplateFor(ctx context.Context, templateID string, r *domain.Request) (string, error) {
	return a.RenderTemplate(ctx, templateID, r.ID)
}

// TierConfigByProduct returns the approved configuration of a tier account
// for a product, or nil when there is none.
func (a *API) TierConfigByProduct(ctx context.Context, tierID, productID string) (*domain.TierConfig, error) {
	path := tierConfigRequestsPath +
		"?status=approved" +
		"&configuration__product__id=" + url.QueryEscape(productID) +
		"&configuration__account__id=" + url.QueryEscape(tierID)

	found, err := getJSON[[]domain.TierConfigRequest](ctx, a, path)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	cfg := found[0].Configuration
	return &cfg, nil
}

// TierParameter returns one parameter of an approved tier configuration, or
// nil when either the configuration or the parameter is missing.
func (a *API) TierParameter(ctx context.Context, parameterID, tierID, productID string) (*domain.Param, error) {
	cfg, err := a.TierConfigByProduct(ctx, tierID, productID)
	if err != nil || cfg == nil {
		return nil, err
	}
	p, ok := cfg.Params.ByID(parameterID)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (a *API) post(ctx context.Context, path string, body any) error {
	return a.send(ctx, http.MethodPost, path, body)
}

func (a *API) send(ctx context.Context, method, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error marshalling json: %w", err)
	}
	if _, err := a.transport.Send(ctx, method, path, payload); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return nil
}

func (a *API) postRaw(ctx context.Context, path string, payload []byte) error {
	if _, err := a.transport.Send(ctx, http.MethodPost, path, payload); err != nil {
		return fmt.Errorf("%s %s: %w", http.MethodPost, path, err)
	}
	return nil
}

func getJSON[T any](ctx context.Context, a *API, path string) (T, error) {
	var out T
	resp, err := a.transport.Send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return out, fmt.Errorf("%s %s: %w", http.MethodGet, path, err)
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, fmt.Errorf("error decoding json response from %s: %w", path, err)
	}
	return out, nil
}

func toPatches(params domain.Params) []paramPatch {
	patches := make([]paramPatch, 0, len(params))
	for _, p := range params {
		patches = append(patches, paramPatch{ID: p.ID, Value: p.Value, ValueError: p.ValueError})
	}
	return patches
}
