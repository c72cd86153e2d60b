package connect

import (
	"context"

	"github.com/DanielPopoola/connect-fulfillment/internal/domain"
	"github.com/DanielPopoola/connect-fulfillment/internal/rql"
)

const (
	assetsPath      = "/assets"
	productsPath    = "/products"
	tierConfigsPath = "/tier/configs"
)

// ListAssets lists assets matching q. A nil q lists everything the
// allow-list permits.
func (a *API) ListAssets(ctx context.Context, q *rql.Query) ([]domain.Asset, error) {
	q = a.narrowToProducts(q, "product.id")
	return getJSON[[]domain.Asset](ctx, a, assetsPath+q.Compile())
}

func (a *API) AssetByID(ctx context.Context, id string) (*domain.Asset, error) {
	asset, err := getJSON[domain.Asset](ctx, a, assetsPath+"/"+id)
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// ListProducts is unfiltered; the platform does not support filtering
// products by id on this collection.
func (a *API) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return getJSON[[]domain.Product](ctx, a, productsPath)
}

func (a *API) ProductByID(ctx context.Context, id string) (*domain.Product, error) {
	product, err := getJSON[domain.Product](ctx, a, productsPath+"/"+id)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (a *API) ListTierConfigs(ctx context.Context, q *rql.Query) ([]domain.TierConfig, error) {
	q = a.narrowToProducts(q, "product.id")
	return getJSON[[]domain.TierConfig](ctx, a, tierConfigsPath+q.Compile())
}

func (a *API) TierConfigByID(ctx context.Context, id string) (*domain.TierConfig, error) {
	cfg, err := getJSON[domain.TierConfig](ctx, a, tierConfigsPath+"/"+id)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// narrowToProducts returns a copy of q restricted to the allow-list. The
// caller's query is left untouched.
func (a *API) narrowToProducts(q *rql.Query, field string) *rql.Query {
	q = q.Clone()
	if len(a.products) > 0 {
		q.In(field, a.products...)
	}
	return q
}
