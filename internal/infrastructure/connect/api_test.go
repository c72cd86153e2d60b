package connect_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DanielPopoola/connect-fulfillment/internal/domain"
	"github.com/DanielPopoola/connect-fulfillment/internal/infrastructure/connect"
	"github.com/DanielPopoola/connect-fulfillment/internal/infrastructure/connect/connecttest"
	"github.com/DanielPopoola/connect-fulfillment/internal/rql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPI_ListRequests(t *testing.T) {
	tr := connecttest.NewTransport().
		Respond("GET", "/requests?eq(status,pending)", `[
			{"id":"PR-1","type":"purchase","status":"pending","asset":{"id":"AS-1","product":{"id":"PRD-1"}}},
			{"id":"PR-2","type":"cancel","status":"pending","asset":{"id":"AS-2","product":{"id":"PRD-2"}}}
		]`)
	api := connect.NewAPI(tr, nil)

	requests, err := api.ListRequests(context.Background(), rql.Filters{"status": {"pending"}})

	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, "PR-1", requests[0].ID)
	assert.Equal(t, "PRD-2", requests[1].ProductID())
}

func TestAPI_ListRequests_AddsProductAllowList(t *testing.T) {
	tr := connecttest.NewTransport()
	api := connect.NewAPI(tr, []string{"PRD-1", "PRD-2"})
	tr.Respond("GET", "/requests?eq(status,pending)&in(asset.product.id,(PRD-1,PRD-2))", `[]`)

	_, err := api.ListRequests(context.Background(), rql.Filters{"status": {"pending"}})

	require.NoError(t, err)
	require.Len(t, tr.Calls(), 1)
	assert.Equal(t, "/requests?eq(status,pending)&in(asset.product.id,(PRD-1,PRD-2))", tr.Calls()[0].Path)
}

func TestAPI_ListTierConfigRequests_AddsProductAllowList(t *testing.T) {
	tr := connecttest.NewTransport().
		Respond("GET", "/tier/config-requests?eq(status,pending)&in(configuration.product.id,(PRD-1))", `[
			{"id":"TCR-1","status":"pending","configuration":{"id":"TC-1","product":{"id":"PRD-1"},"account":{"id":"TA-1"}}}
		]`)
	api := connect.NewAPI(tr, []string{"PRD-1"})

	tcrs, err := api.ListTierConfigRequests(context.Background(), rql.Filters{"status": {"pending"}})

	require.NoError(t, err)
	require.Len(t, tcrs, 1)
	assert.Equal(t, "TA-1", tcrs[0].Configuration.Account.ID)
}

func TestAPI_ListRequests_MalformedBody(t *testing.T) {
	tr := connecttest.NewTransport().Respond("GET", "/requests", `{"not":"a list"}`)
	api := connect.NewAPI(tr, nil)

	_, err := api.ListRequests(context.Background(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding json response")
}

func TestAPI_ReconciliationBodies(t *testing.T) {
	params := domain.Params{{ID: "activation_code", Name: "Activation code", ValueError: "Unknown code"}}

	tests := []struct {
		name   string
		call   func(api *connect.API) error
		method string
		path   string
		body   string
	}{
		{
			name:   "approve request with template",
			call:   func(api *connect.API) error { return api.ApproveRequestWithTemplate(context.Background(), "PR-1", "TL-1") },
			method: "POST", path: "/requests/PR-1/approve", body: `{"template_id":"TL-1"}`,
		},
		{
			name:   "approve request with tile",
			call:   func(api *connect.API) error { return api.ApproveRequestWithTile(context.Background(), "PR-1", "done") },
			method: "POST", path: "/requests/PR-1/approve", body: `{"activation_tile":"done"}`,
		},
		{
			name:   "inquire request",
			call:   func(api *connect.API) error { return api.InquireRequest(context.Background(), "PR-1") },
			method: "POST", path: "/requests/PR-1/inquire", body: `{}`,
		},
		{
			name:   "fail request",
			call:   func(api *connect.API) error { return api.FailRequest(context.Background(), "PR-1", "bad id") },
			method: "POST", path: "/requests/PR-1/fail", body: `{"reason":"bad id"}`,
		},
		{
			name:   "update request params",
			call:   func(api *connect.API) error { return api.UpdateRequestParameters(context.Background(), "PR-1", params) },
			method: "PUT", path: "/requests/PR-1", body: `{"asset":{"params":[{"id":"activation_code","value":"","value_error":"Unknown code"}]}}`,
		},
		{
			name:   "approve tier config with template",
			call:   func(api *connect.API) error { return api.ApproveTierConfigWithTemplate(context.Background(), "TCR-1", "TL-2") },
			method: "POST", path: "/tier/config-requests/TCR-1/approve", body: `{"template":{"id":"TL-2"}}`,
		},
		{
			name:   "approve tier config with tile",
			call:   func(api *connect.API) error { return api.ApproveTierConfigWithTile(context.Background(), "TCR-1", "") },
			method: "POST", path: "/tier/config-requests/TCR-1/approve", body: `{"template":{"representation":""}}`,
		},
		{
			name:   "inquire tier config",
			call:   func(api *connect.API) error { return api.InquireTierConfig(context.Background(), "TCR-1") },
			method: "POST", path: "/tier/config-requests/TCR-1/inquire", body: `{}`,
		},
		{
			name:   "fail tier config",
			call:   func(api *connect.API) error { return api.FailTierConfig(context.Background(), "TCR-1", "no account") },
			method: "POST", path: "/tier/config-requests/TCR-1/fail", body: `{"reason":"no account"}`,
		},
		{
			name:   "update tier config params",
			call:   func(api *connect.API) error { return api.UpdateTierConfigParameters(context.Background(), "TCR-1", params) },
			method: "PUT", path: "/tier/config-requests/TCR-1", body: `{"params":[{"id":"activation_code","value":"","value_error":"Unknown code"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := connecttest.NewTransport()
			api := connect.NewAPI(tr, nil)

			require.NoError(t, tt.call(api))

			calls := tr.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, tt.method, calls[0].Method)
			assert.Equal(t, tt.path, calls[0].Path)
			assert.JSONEq(t, tt.body, calls[0].Body)
		})
	}
}

func TestAPI_UpdateParametersCanClearValue(t *testing.T) {
	tr := connecttest.NewTransport()
	api := connect.NewAPI(tr, nil)
	code := domain.Param{ID: "code", Value: "ABC"}.WithValue("").WithError("Unknown code")

	require.NoError(t, api.UpdateRequestParameters(context.Background(), "PR-1", domain.Params{code}))
	require.NoError(t, api.UpdateTierConfigParameters(context.Background(), "TCR-1", domain.Params{code}))

	calls := tr.Calls()
	require.Len(t, calls, 2)
	assert.JSONEq(t, `{"asset":{"params":[{"id":"code","value":"","value_error":"Unknown code"}]}}`, calls[0].Body)
	assert.JSONEq(t, `{"params":[{"id":"code","value":"","value_error":"Unknown code"}]}`, calls[1].Body)
}

func TestAPI_FailReasonIsEscaped(t *testing.T) {
	tr := connecttest.NewTransport()
	api := connect.NewAPI(tr, nil)

	require.NoError(t, api.FailRequest(context.Background(), "PR-1", `quote " and newline`+"\n"))

	assert.JSONEq(t, `{"reason":"quote \" and newline\n"}`, tr.Calls()[0].Body)
}

func TestAPI_TransportErrorIsWrapped(t *testing.T) {
	transportErr := &connect.APIError{Code: "REQ_003", StatusCode: 400}
	tr := connecttest.NewTransport().Fail("POST", "/requests/PR-1/approve", transportErr)
	api := connect.NewAPI(tr, nil)

	err := api.ApproveRequestWithTile(context.Background(), "PR-1", "done")

	require.Error(t, err)
	assert.True(t, errors.Is(err, transportErr))
	assert.Contains(t, err.Error(), "POST /requests/PR-1/approve")
}

func TestAPI_RenderTemplate(t *testing.T) {
	tr := connecttest.NewTransport().
		Respond("GET", "/templates/TL-1/render?request_id=PR-1", "# Welcome\nYour code is 42")
	api := connect.NewAPI(tr, nil)

	byID, err := api.RenderTemplate(context.Background(), "TL-1", "PR-1")
	require.NoError(t, err)

	byRequest, err := api.RenderTemplateFor(context.Background(), "TL-1", &domain.Request{ID: "PR-1"})
	require.NoError(t, err)

	assert.Equal(t, "# Welcome\nYour code is 42", byID)
	assert.Equal(t, byID, byRequest)
}

func TestAPI_RenderTemplate_EscapesTemplateID(t *testing.T) {
	tr := connecttest.NewTransport()
	api := connect.NewAPI(tr, nil)

	_, err := api.RenderTemplate(context.Background(), "TL 1/x", "PR-1&x")
	require.NoError(t, err)

	assert.Equal(t, "/templates/TL%201%2Fx/render?request_id=PR-1%26x", tr.Calls()[0].Path)
}

const approvedTierLookup = "/tier/config-requests?status=approved&configuration__product__id=PRD-1&configuration__account__id=TA-1"

func TestAPI_TierConfigByProduct(t *testing.T) {
	tr := connecttest.NewTransport().Respond("GET", approvedTierLookup, `[
		{"id":"TCR-9","status":"approved","configuration":{"id":"TC-1","account":{"id":"TA-1"},"product":{"id":"PRD-1"},
			"params":[{"id":"reseller_id","value":"R-77"}]}},
		{"id":"TCR-8","status":"approved","configuration":{"id":"TC-0"}}
	]`)
	api := connect.NewAPI(tr, nil)

	cfg, err := api.TierConfigByProduct(context.Background(), "TA-1", "PRD-1")

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "TC-1", cfg.ID)
}

func TestAPI_TierConfigByProduct_NoMatch(t *testing.T) {
	tr := connecttest.NewTransport().Respond("GET", approvedTierLookup, `[]`)
	api := connect.NewAPI(tr, nil)

	cfg, err := api.TierConfigByProduct(context.Background(), "TA-1", "PRD-1")

	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestAPI_TierParameter(t *testing.T) {
	tr := connecttest.NewTransport().Respond("GET", approvedTierLookup, `[
		{"id":"TCR-9","configuration":{"id":"TC-1","params":[{"id":"reseller_id","value":"R-77"}]}}
	]`)
	api := connect.NewAPI(tr, nil)

	p, err := api.TierParameter(context.Background(), "reseller_id", "TA-1", "PRD-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "R-77", p.Value)

	missing, err := api.TierParameter(context.Background(), "other", "TA-1", "PRD-1")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAPI_TierParameter_NoConfiguration(t *testing.T) {
	tr := connecttest.NewTransport().Respond("GET", approvedTierLookup, `[]`)
	api := connect.NewAPI(tr, nil)

	p, err := api.TierParameter(context.Background(), "reseller_id", "TA-1", "PRD-1")

	require.NoError(t, err)
	assert.Nil(t, p)
}
