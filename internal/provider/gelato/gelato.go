// Package gelato implements Gelato adapter.
//
// Gelato serves store catalog and orders from separate APIs, both authorized with X-API-KEY header.
package gelato

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"

	"github.com/MichalMitros/pod-sync/internal/fetcher"
	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/MichalMitros/pod-sync/internal/provider"
	"github.com/samber/lo"
)

const (
	// EcommerceURL is Gelato store catalog API url.
	EcommerceURL = "https://ecommerce.gelatoapis.com/v1"
	// OrderURL is Gelato order API url.
	OrderURL = "https://order.gelatoapis.com/v4"
)

// Adapter is Gelato print provider.
type Adapter struct {
	cfg     provider.Config
	session provider.Session
	orders  atomic.Pointer[fetcher.Fetcher]
}

// NewAdapter returns new uninitialized Gelato Adapter.
// Config.BaseURL, when set, replaces url of both Gelato APIs.
func NewAdapter(cfg provider.Config) *Adapter {
	return &Adapter{cfg: cfg}
}

// Type returns models.ProviderGelato.
func (a *Adapter) Type() models.ProviderType {
	return models.ProviderGelato
}

// Initialize checks that API key grants access to the store under creds.ProviderID.
func (a *Adapter) Initialize(ctx context.Context, creds models.Credentials) error {
	authorize := func(req *http.Request) {
		req.Header.Set("X-API-KEY", creds.APIKey)
	}
	catalog := a.cfg.NewFetcher(models.ProviderGelato, EcommerceURL, authorize)
	orders := a.cfg.NewFetcher(models.ProviderGelato, OrderURL, authorize)

	var info store
	if err := catalog.Do(ctx, http.MethodGet, "/stores/"+url.PathEscape(creds.ProviderID), nil, nil, &info); err != nil {
		return fmt.Errorf("can't get gelato store: %w", err)
	}

	a.orders.Store(orders)
	a.session.Bind(creds, catalog)
	a.cfg.Log().Debug().Str("storeId", creds.StoreID).Str("gelatoStore", info.Name).Msg("gelato adapter initialized")

	return nil
}

// GetProducts returns single page of store products. Cursor is products offset.
func (a *Adapter) GetProducts(ctx context.Context, opts models.PageOptions) (*models.ProductList, error) {
	creds, fet, err := a.session.Get()
	if err != nil {
		return nil, err
	}

	offset := 0
	if opts.Cursor != "" {
		offset, err = strconv.Atoi(opts.Cursor)
		if err != nil || offset < 0 {
			return nil, fmt.Errorf("invalid gelato cursor %q", opts.Cursor)
		}
	}

	limit := a.cfg.Limit(opts)
	query := url.Values{
		"offset": {strconv.Itoa(offset)},
		"limit":  {strconv.Itoa(limit)},
	}

	body, err := fet.Fetch(ctx, http.MethodGet, "/stores/"+url.PathEscape(creds.ProviderID)+"/products", query, nil)
	if err != nil {
		return nil, fmt.Errorf("can't fetch gelato products: %w", err)
	}
	defer body.Close()

	items, _, err := provider.DecodePage(ctx, models.ProviderGelato, body, "products", mapProduct)
	if err != nil {
		return nil, fmt.Errorf("can't decode gelato products: %w", err)
	}

	// Gelato doesn't report catalog size, full page means there may be more.
	list := &models.ProductList{
		Items:      items,
		TotalCount: offset + len(items),
		HasMore:    len(items) == limit,
	}
	if list.HasMore {
		list.Cursor = strconv.Itoa(offset + len(items))
	}

	return list, nil
}

// SyncProducts reconciles whole store catalog with stored products.
func (a *Adapter) SyncProducts(ctx context.Context) (*models.SyncResult, error) {
	return a.session.SyncCatalog(ctx, a.cfg.Syncer, a)
}

// SyncInventory returns availability of every store product variant.
func (a *Adapter) SyncInventory(ctx context.Context) ([]models.InventoryLevel, error) {
	return provider.CollectInventory(ctx, a, a.cfg.PageSize)
}

// CreateProduct creates store product from template given as data.BlueprintID.
func (a *Adapter) CreateProduct(ctx context.Context, data models.ProductData) (*models.Product, error) {
	creds, fet, err := a.session.Get()
	if err != nil {
		return nil, err
	}

	req, err := toCreateRequest(provider.DraftProduct(models.ProviderGelato, data))
	if err != nil {
		return nil, err
	}

	var created json.RawMessage
	path := "/stores/" + url.PathEscape(creds.ProviderID) + "/products:create-from-template"
	if err := fet.Do(ctx, http.MethodPost, path, nil, req, &created); err != nil {
		return nil, fmt.Errorf("can't create gelato product: %w", err)
	}

	fetched := provider.MapItem(created, mapProduct)
	if fetched.Error != nil {
		return nil, fmt.Errorf("can't map created gelato product: %w", fetched.Error)
	}

	return fetched.Product, nil
}

// CreateOrder submits order. Order item variant ids or SKUs are Gelato product uids.
func (a *Adapter) CreateOrder(ctx context.Context, data models.OrderData) (*models.OrderConfirmation, error) {
	creds, orders, err := a.orderFetcher()
	if err != nil {
		return nil, err
	}

	req := order{
		OrderType:           "order",
		OrderReferenceID:    data.ExternalID,
		CustomerReferenceID: creds.StoreID,
		Currency:            lo.Ternary(data.Currency != "", data.Currency, defaultCurrency),
		Items:               toOrderItems(data.ExternalID, data.Items),
		ShipmentMethodUID:   data.ShippingMethod,
		ShippingAddress:     toAddress(data.Address),
	}

	var created createdOrder
	if err := orders.Do(ctx, http.MethodPost, "/orders", nil, req, &created); err != nil {
		return nil, fmt.Errorf("can't create gelato order: %w", err)
	}

	return &models.OrderConfirmation{
		Provider:   models.ProviderGelato,
		ExternalID: data.ExternalID,
		OrderID:    created.ID,
		Status:     created.FulfillmentStatus,
	}, nil
}

// GetShippingRates quotes shipping of items. Unserviceable address produces no rates.
func (a *Adapter) GetShippingRates(
	ctx context.Context,
	addr models.Address,
	items []models.OrderItem,
) ([]models.ShippingRate, error) {
	creds, orders, err := a.orderFetcher()
	if err != nil {
		return nil, err
	}

	req := quoteRequest{
		OrderReferenceID:    "quote",
		CustomerReferenceID: creds.StoreID,
		Currency:            defaultCurrency,
		Recipient:           toAddress(addr),
		Products:            toOrderItems("quote", items),
	}

	var resp quoteResponse
	err = orders.Do(ctx, http.MethodPost, "/orders:quote", nil, req, &resp)

	var validationErr *platform.ValidationError
	if errors.As(err, &validationErr) {
		return []models.ShippingRate{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("can't get gelato shipping quote: %w", err)
	}

	return mapShippingRates(resp.Quotes), nil
}

func (a *Adapter) orderFetcher() (models.Credentials, *fetcher.Fetcher, error) {
	creds, _, err := a.session.Get()
	if err != nil {
		return models.Credentials{}, nil, err
	}
	return creds, a.orders.Load(), nil
}
