// Package printful implements Printful adapter.
//
// Printful lists store products as summaries, so every page is followed by concurrent
// detail requests, one per product.
package printful

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MichalMitros/pod-sync/internal/fetcher"
	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/MichalMitros/pod-sync/internal/provider"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	// BaseURL is Printful production API url.
	BaseURL = "https://api.printful.com"

	detailConcurrency = 5
	defaultShipping   = "STANDARD"
)

// Adapter is Printful print provider.
type Adapter struct {
	cfg     provider.Config
	session provider.Session
}

// NewAdapter returns new uninitialized Printful Adapter.
func NewAdapter(cfg provider.Config) *Adapter {
	return &Adapter{cfg: cfg}
}

// Type returns models.ProviderPrintful.
func (a *Adapter) Type() models.ProviderType {
	return models.ProviderPrintful
}

// Initialize checks that API token grants access to the store under creds.ProviderID.
func (a *Adapter) Initialize(ctx context.Context, creds models.Credentials) error {
	fet := a.cfg.NewFetcher(models.ProviderPrintful, BaseURL, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+creds.APIKey)
		if creds.ProviderID != "" {
			req.Header.Set("X-PF-Store-Id", creds.ProviderID)
		}
	})

	var stores []store
	if err := do(ctx, fet, http.MethodGet, "/stores", nil, nil, &stores); err != nil {
		return fmt.Errorf("can't list printful stores: %w", err)
	}

	if !lo.ContainsBy(stores, func(s store) bool { return strconv.FormatInt(s.ID, 10) == creds.ProviderID }) {
		return &platform.AuthError{
			Provider:   string(models.ProviderPrintful),
			StatusCode: http.StatusForbidden,
			Message:    fmt.Sprintf("store %s is not accessible with provided token", creds.ProviderID),
		}
	}

	a.session.Bind(creds, fet)
	a.cfg.Log().Debug().Str("storeId", creds.StoreID).Str("printfulStoreId", creds.ProviderID).Msg("printful adapter initialized")

	return nil
}

// GetProducts returns single page of store products with their details. Cursor is products offset.
func (a *Adapter) GetProducts(ctx context.Context, opts models.PageOptions) (*models.ProductList, error) {
	_, fet, err := a.session.Get()
	if err != nil {
		return nil, err
	}

	offset := 0
	if opts.Cursor != "" {
		offset, err = strconv.Atoi(opts.Cursor)
		if err != nil || offset < 0 {
			return nil, fmt.Errorf("invalid printful cursor %q", opts.Cursor)
		}
	}

	query := url.Values{
		"offset": {strconv.Itoa(offset)},
		"limit":  {strconv.Itoa(a.cfg.Limit(opts))},
	}

	var (
		summaries []summary
		env       envelope
	)
	if err := fet.Do(ctx, http.MethodGet, "/store/products", query, nil, &env); err != nil {
		return nil, fmt.Errorf("can't fetch printful products: %w", err)
	}
	if err := json.Unmarshal(env.Result, &summaries); err != nil {
		return nil, malformed(err)
	}

	items, err := a.fetchDetails(ctx, fet, summaries)
	if err != nil {
		return nil, err
	}

	list := &models.ProductList{Items: items, TotalCount: len(summaries)}
	if env.Paging != nil {
		list.TotalCount = env.Paging.Total
		next := offset + len(summaries)
		if len(summaries) > 0 && next < env.Paging.Total {
			list.HasMore = true
			list.Cursor = strconv.Itoa(next)
		}
	}

	return list, nil
}

// fetchDetails fetches details of all summaries concurrently. Failure of single detail
// is recorded on its item unless it makes the whole page unusable.
func (a *Adapter) fetchDetails(ctx context.Context, fet *fetcher.Fetcher, summaries []summary) ([]models.FetchedProduct, error) {
	items := make([]models.FetchedProduct, len(summaries))

	errGroup, egCtx := errgroup.WithContext(ctx)
	errGroup.SetLimit(detailConcurrency)

	for ix, s := range summaries {
		errGroup.Go(func() error {
			id := strconv.FormatInt(s.ID, 10)

			var raw json.RawMessage
			err := do(egCtx, fet, http.MethodGet, "/store/products/"+id, nil, nil, &raw)
			if err != nil {
				if failsPage(err) {
					return fmt.Errorf("can't fetch printful product %s: %w", id, err)
				}
				items[ix] = models.FetchedProduct{ExternalID: id, Error: err}
				return nil
			}

			items[ix] = provider.MapItem(raw, mapProduct)
			return nil
		})
	}

	if err := errGroup.Wait(); err != nil {
		return nil, err
	}

	return items, nil
}

// SyncProducts reconciles whole store catalog with stored products.
func (a *Adapter) SyncProducts(ctx context.Context) (*models.SyncResult, error) {
	return a.session.SyncCatalog(ctx, a.cfg.Syncer, a)
}

// SyncInventory returns availability of every store product variant.
func (a *Adapter) SyncInventory(ctx context.Context) ([]models.InventoryLevel, error) {
	return provider.CollectInventory(ctx, a, a.cfg.PageSize)
}

// CreateProduct creates sync product. Variant external ids of data reference Printful catalog variants.
func (a *Adapter) CreateProduct(ctx context.Context, data models.ProductData) (*models.Product, error) {
	_, fet, err := a.session.Get()
	if err != nil {
		return nil, err
	}

	req, err := toCreateRequest(provider.DraftProduct(models.ProviderPrintful, data))
	if err != nil {
		return nil, err
	}

	var created syncProduct
	if err := do(ctx, fet, http.MethodPost, "/store/products", nil, req, &created); err != nil {
		return nil, fmt.Errorf("can't create printful product: %w", err)
	}

	var raw json.RawMessage
	if err := do(ctx, fet, http.MethodGet, "/store/products/"+strconv.FormatInt(created.ID, 10), nil, nil, &raw); err != nil {
		return nil, fmt.Errorf("can't fetch created printful product: %w", err)
	}

	fetched := provider.MapItem(raw, mapProduct)
	if fetched.Error != nil {
		return nil, fmt.Errorf("can't map created printful product: %w", fetched.Error)
	}

	return fetched.Product, nil
}

// CreateOrder submits order as draft.
func (a *Adapter) CreateOrder(ctx context.Context, data models.OrderData) (*models.OrderConfirmation, error) {
	_, fet, err := a.session.Get()
	if err != nil {
		return nil, err
	}

	req := order{
		ExternalID: data.ExternalID,
		Shipping:   lo.Ternary(data.ShippingMethod != "", data.ShippingMethod, defaultShipping),
		Recipient:  toRecipient(data.Address),
		Items:      toOrderItems(data.Items),
	}

	var created createdOrder
	if err := do(ctx, fet, http.MethodPost, "/orders", nil, req, &created); err != nil {
		return nil, fmt.Errorf("can't create printful order: %w", err)
	}

	return &models.OrderConfirmation{
		Provider:   models.ProviderPrintful,
		ExternalID: data.ExternalID,
		OrderID:    strconv.FormatInt(created.ID, 10),
		Status:     created.Status,
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

	req := shippingRequest{Recipient: toRecipient(addr), Items: toOrderItems(items)}

	var rates []shippingRate
	err = do(ctx, fet, http.MethodPost, "/shipping/rates", nil, req, &rates)

	var validationErr *platform.ValidationError
	if errors.As(err, &validationErr) {
		return []models.ShippingRate{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("can't get printful shipping rates: %w", err)
	}

	return mapShippingRates(rates)
}

// do sends request and decodes result of Printful response envelope into out.
func do(ctx context.Context, fet *fetcher.Fetcher, method, path string, query url.Values, body, out any) error {
	var env envelope
	if err := fet.Do(ctx, method, path, query, body, &env); err != nil {
		return err
	}

	if out == nil || len(env.Result) == 0 {
		return nil
	}

	if err := json.Unmarshal(env.Result, out); err != nil {
		return malformed(err)
	}

	return nil
}

func failsPage(err error) bool {
	var (
		rateLimitErr *platform.RateLimitError
		authErr      *platform.AuthError
	)
	return errors.As(err, &rateLimitErr) ||
		errors.As(err, &authErr) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func malformed(err error) error {
	return &platform.ProviderError{
		Provider:   string(models.ProviderPrintful),
		StatusCode: http.StatusOK,
		Message:    "malformed response: " + err.Error(),
	}
}
