// Package printify implements Printify adapter.
package printify

import (
	"context"
	"encoding/json"
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

// BaseURL is Printify production API url.
const BaseURL = "https://api.printify.com/v1"

// Adapter is Printify print provider.
type Adapter struct {
	cfg     provider.Config
	session provider.Session
}

// NewAdapter returns new uninitialized Printify Adapter.
func NewAdapter(cfg provider.Config) *Adapter {
	return &Adapter{cfg: cfg}
}

// Type returns models.ProviderPrintify.
func (a *Adapter) Type() models.ProviderType {
	return models.ProviderPrintify
}

// Initialize checks that API token grants access to the shop under creds.ProviderID.
func (a *Adapter) Initialize(ctx context.Context, creds models.Credentials) error {
	fet := a.cfg.NewFetcher(models.ProviderPrintify, BaseURL, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+creds.APIKey)
	})

	var shops []shop
	if err := fet.Do(ctx, http.MethodGet, "/shops.json", nil, nil, &shops); err != nil {
		return fmt.Errorf("can't list printify shops: %w", err)
	}

	if !lo.ContainsBy(shops, func(s shop) bool { return strconv.Itoa(s.ID) == creds.ProviderID }) {
		return &platform.AuthError{
			Provider:   string(models.ProviderPrintify),
			StatusCode: http.StatusForbidden,
			Message:    fmt.Sprintf("shop %s is not accessible with provided token", creds.ProviderID),
		}
	}

	a.session.Bind(creds, fet)
	a.cfg.Log().Debug().Str("storeId", creds.StoreID).Str("shopId", creds.ProviderID).Msg("printify adapter initialized")

	return nil
}

// GetProducts returns single page of shop products. Cursor is page number.
func (a *Adapter) GetProducts(ctx context.Context, opts models.PageOptions) (*models.ProductList, error) {
	creds, fet, err := a.session.Get()
	if err != nil {
		return nil, err
	}

	page := 1
	if opts.Cursor != "" {
		page, err = strconv.Atoi(opts.Cursor)
		if err != nil || page < 1 {
			return nil, fmt.Errorf("invalid printify cursor %q", opts.Cursor)
		}
	}

	query := url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(a.cfg.Limit(opts))},
	}

	body, err := fet.Fetch(ctx, http.MethodGet, "/shops/"+creds.ProviderID+"/products.json", query, nil)
	if err != nil {
		return nil, fmt.Errorf("can't fetch printify products: %w", err)
	}
	defer body.Close()

	items, rest, err := provider.DecodePage(ctx, models.ProviderPrintify, body, "data", mapProduct)
	if err != nil {
		return nil, fmt.Errorf("can't decode printify products: %w", err)
	}

	var pagination productsPage
	if err := provider.DecodeFields(models.ProviderPrintify, rest, &pagination); err != nil {
		return nil, fmt.Errorf("can't decode printify pagination: %w", err)
	}

	list := &models.ProductList{
		Items:      items,
		TotalCount: pagination.Total,
		HasMore:    pagination.CurrentPage < pagination.LastPage,
	}
	if list.HasMore {
		list.Cursor = strconv.Itoa(pagination.CurrentPage + 1)
	}

	return list, nil
}

// SyncProducts reconciles whole shop catalog with stored products.
func (a *Adapter) SyncProducts(ctx context.Context) (*models.SyncResult, error) {
	return a.session.SyncCatalog(ctx, a.cfg.Syncer, a)
}

// SyncInventory returns availability of every shop product variant.
func (a *Adapter) SyncInventory(ctx context.Context) ([]models.InventoryLevel, error) {
	return provider.CollectInventory(ctx, a, a.cfg.PageSize)
}

// CreateProduct creates product in the shop.
func (a *Adapter) CreateProduct(ctx context.Context, data models.ProductData) (*models.Product, error) {
	creds, fet, err := a.session.Get()
	if err != nil {
		return nil, err
	}

	native, err := toNative(provider.DraftProduct(models.ProviderPrintify, data))
	if err != nil {
		return nil, err
	}
	native.ID = ""

	var created json.RawMessage
	if err := fet.Do(ctx, http.MethodPost, "/shops/"+creds.ProviderID+"/products.json", nil, native, &created); err != nil {
		return nil, fmt.Errorf("can't create printify product: %w", err)
	}

	fetched := provider.MapItem(created, mapProduct)
	if fetched.Error != nil {
		return nil, fmt.Errorf("can't map created printify product: %w", fetched.Error)
	}

	return fetched.Product, nil
}

// CreateOrder submits order to the shop.
func (a *Adapter) CreateOrder(ctx context.Context, data models.OrderData) (*models.OrderConfirmation, error) {
	creds, fet, err := a.session.Get()
	if err != nil {
		return nil, err
	}

	var created createdOrder
	if err := fet.Do(ctx, http.MethodPost, "/shops/"+creds.ProviderID+"/orders.json", nil, toOrder(data), &created); err != nil {
		return nil, fmt.Errorf("can't create printify order: %w", err)
	}

	return &models.OrderConfirmation{
		Provider:   models.ProviderPrintify,
		ExternalID: data.ExternalID,
		OrderID:    created.ID,
		Status:     lo.Ternary(created.Status != "", created.Status, "pending"),
	}, nil
}

// GetShippingRates quotes shipping of items. Unserviceable address produces no rates.
func (a *Adapter) GetShippingRates(
	ctx context.Context,
	addr models.Address,
	items []models.OrderItem,
) ([]models.ShippingRate, error) {
	creds, fet, err := a.session.Get()
	if err != nil {
		return nil, err
	}

	req := shippingRequest{LineItems: toLineItems(items), AddressTo: toAddress(addr)}

	var rates map[string]*int
	err = fet.Do(ctx, http.MethodPost, "/shops/"+creds.ProviderID+"/orders/shipping.json", nil, req, &rates)

	var validationErr *platform.ValidationError
	if errors.As(err, &validationErr) {
		return []models.ShippingRate{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("can't get printify shipping rates: %w", err)
	}

	return mapShippingRates(rates), nil
}
