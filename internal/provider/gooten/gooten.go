// Package gooten implements Gooten adapter.
//
// Gooten authenticates partners with recipe id passed as query parameter and reports
// rejected requests with HadError flag in successful responses.
package gooten

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/MichalMitros/pod-sync/internal/provider"
	"github.com/samber/lo"
)

const (
	// BaseURL is Gooten production API url.
	BaseURL = "https://api.print.io/api/v/5/source/api"

	defaultShipType = "standard"
)

// Adapter is Gooten print provider.
type Adapter struct {
	cfg     provider.Config
	session provider.Session
}

// NewAdapter returns new uninitialized Gooten Adapter.
func NewAdapter(cfg provider.Config) *Adapter {
	return &Adapter{cfg: cfg}
}

// Type returns models.ProviderGooten.
func (a *Adapter) Type() models.ProviderType {
	return models.ProviderGooten
}

// Initialize checks that recipe id identifies partner account.
func (a *Adapter) Initialize(ctx context.Context, creds models.Credentials) error {
	fet := a.cfg.NewFetcher(models.ProviderGooten, BaseURL, func(req *http.Request) {
		query := req.URL.Query()
		query.Set("recipeid", creds.APIKey)
		req.URL.RawQuery = query.Encode()
	})

	var info partner
	if err := fet.Do(ctx, http.MethodGet, "/partner", nil, nil, &info); err != nil {
		return fmt.Errorf("can't get gooten partner: %w", err)
	}

	if err := info.check(); err != nil {
		return &platform.AuthError{
			Provider:   string(models.ProviderGooten),
			StatusCode: http.StatusOK,
			Message:    err.Error(),
		}
	}

	a.session.Bind(creds, fet)
	a.cfg.Log().Debug().Str("storeId", creds.StoreID).Str("partnerId", info.ID).Msg("gooten adapter initialized")

	return nil
}

// GetProducts returns single page of partner products. Cursor is page number.
func (a *Adapter) GetProducts(ctx context.Context, opts models.PageOptions) (*models.ProductList, error) {
	_, fet, err := a.session.Get()
	if err != nil {
		return nil, err
	}

	page := 1
	if opts.Cursor != "" {
		page, err = strconv.Atoi(opts.Cursor)
		if err != nil || page < 1 {
			return nil, fmt.Errorf("invalid gooten cursor %q", opts.Cursor)
		}
	}

	pageSize := a.cfg.Limit(opts)
	query := url.Values{
		"page":     {strconv.Itoa(page)},
		"pageSize": {strconv.Itoa(pageSize)},
	}

	body, err := fet.Fetch(ctx, http.MethodGet, "/partnerproducts", query, nil)
	if err != nil {
		return nil, fmt.Errorf("can't fetch gooten products: %w", err)
	}
	defer body.Close()

	items, rest, err := provider.DecodePage(ctx, models.ProviderGooten, body, "Products", mapProduct)
	if err != nil {
		return nil, fmt.Errorf("can't decode gooten products: %w", err)
	}

	var status productsPage
	if err := provider.DecodeFields(models.ProviderGooten, rest, &status); err != nil {
		return nil, fmt.Errorf("can't decode gooten pagination: %w", err)
	}
	if err := status.check(); err != nil {
		return nil, fmt.Errorf("can't fetch gooten products: %w", err)
	}

	if status.Page == 0 {
		status.Page = page
	}
	if status.PageSize == 0 {
		status.PageSize = pageSize
	}

	list := &models.ProductList{
		Items:      items,
		TotalCount: status.TotalCount,
		HasMore:    len(items) > 0 && status.Page*status.PageSize < status.TotalCount,
	}
	if list.HasMore {
		list.Cursor = strconv.Itoa(status.Page + 1)
	}

	return list, nil
}

// SyncProducts reconciles all partner products with stored products.
func (a *Adapter) SyncProducts(ctx context.Context) (*models.SyncResult, error) {
	return a.session.SyncCatalog(ctx, a.cfg.Syncer, a)
}

// SyncInventory returns availability of every partner product variant.
func (a *Adapter) SyncInventory(ctx context.Context) ([]models.InventoryLevel, error) {
	return provider.CollectInventory(ctx, a, a.cfg.PageSize)
}

// CreateProduct creates partner product.
func (a *Adapter) CreateProduct(ctx context.Context, data models.ProductData) (*models.Product, error) {
	_, fet, err := a.session.Get()
	if err != nil {
		return nil, err
	}

	native, err := toNative(provider.DraftProduct(models.ProviderGooten, data))
	if err != nil {
		return nil, err
	}
	native.ID = ""

	var created createdProduct
	if err := fet.Do(ctx, http.MethodPost, "/partnerproducts", nil, native, &created); err != nil {
		return nil, fmt.Errorf("can't create gooten product: %w", err)
	}
	if err := created.check(); err != nil {
		return nil, fmt.Errorf("can't create gooten product: %w", err)
	}

	fetched := provider.MapItem(created.Product, mapProduct)
	if fetched.Error != nil {
		return nil, fmt.Errorf("can't map created gooten product: %w", fetched.Error)
	}

	return fetched.Product, nil
}

// CreateOrder submits order billed to partner billing key stored as creds.ProviderID.
func (a *Adapter) CreateOrder(ctx context.Context, data models.OrderData) (*models.OrderConfirmation, error) {
	creds, fet, err := a.session.Get()
	if err != nil {
		return nil, err
	}

	addr := toAddress(data.Address)
	req := order{
		SourceID:       data.ExternalID,
		ShipToAddress:  addr,
		BillingAddress: addr,
		Items:          toOrderItems(data.Items, lo.Ternary(data.ShippingMethod != "", data.ShippingMethod, defaultShipType)),
		Payment:        payment{PartnerBillingKey: creds.ProviderID},
	}

	var created createdOrder
	if err := fet.Do(ctx, http.MethodPost, "/orders", nil, req, &created); err != nil {
		return nil, fmt.Errorf("can't create gooten order: %w", err)
	}
	if err := created.check(); err != nil {
		return nil, fmt.Errorf("can't create gooten order: %w", err)
	}

	return &models.OrderConfirmation{
		Provider:   models.ProviderGooten,
		ExternalID: data.ExternalID,
		OrderID:    created.ID,
		Status:     "received",
	}, nil
}

// GetShippingRates quotes shipping of items. Unserviceable address produces no rates.
func (a *Adapter) GetShippingRates(
	ctx context.Context,
	addr models.Address,
	items []models.OrderItem,
) ([]models.ShippingRate, error) {
	_, fet, err := a.session.Get()
	if err != nil {
		return nil, err
	}

	req := shippingRequest{
		ShipToPostalCode: addr.PostalCode,
		ShipToCountry:    addr.CountryCode,
		ShipToState:      addr.Region,
		CurrencyCode:     defaultCurrency,
		LanguageCode:     "en",
		Items:            toOrderItems(items, ""),
	}

	var prices shippingPrices
	err = fet.Do(ctx, http.MethodPost, "/shippingprices", nil, req, &prices)
	if err == nil {
		err = prices.check()
	}

	var validationErr *platform.ValidationError
	if errors.As(err, &validationErr) {
		return []models.ShippingRate{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("can't get gooten shipping rates: %w", err)
	}

	return mapShippingRates(prices.Result), nil
}
