package printify_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/MichalMitros/pod-sync/internal/provider"
	"github.com/MichalMitros/pod-sync/internal/provider/mocks"
	"github.com/MichalMitros/pod-sync/internal/provider/printify"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	apiKey = "printify-token"
	shopID = "42"
)

var creds = models.Credentials{
	StoreID:    "store-1",
	Provider:   models.ProviderPrintify,
	APIKey:     apiKey,
	ProviderID: shopID,
}

func TestUnitInitialize(t *testing.T) {
	tests := map[string]struct {
		handler   http.HandlerFunc
		wantErrAs any
	}{
		"ok": {
			handler: func(wrt http.ResponseWriter, req *http.Request) {
				writeJSON(wrt, `[{"id": 7, "title": "Other"}, {"id": 42, "title": "My shop"}]`)
			},
		},
		"unknown shop": {
			handler: func(wrt http.ResponseWriter, req *http.Request) {
				writeJSON(wrt, `[{"id": 7, "title": "Other"}]`)
			},
			wantErrAs: new(*platform.AuthError),
		},
		"rejected token": {
			handler: func(wrt http.ResponseWriter, req *http.Request) {
				wrt.WriteHeader(http.StatusUnauthorized)
			},
			wantErrAs: new(*platform.AuthError),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /shops.json", func(wrt http.ResponseWriter, req *http.Request) {
				assert.Equal(t, "Bearer "+apiKey, req.Header.Get("Authorization"), "should authorize request")
				tt.handler(wrt, req)
			})
			srv := newServer(t, mux)

			err := printify.NewAdapter(provider.Config{Client: srv.Client(), BaseURL: srv.URL}).
				Initialize(context.TODO(), creds)

			if tt.wantErrAs != nil {
				require.ErrorAs(t, err, tt.wantErrAs, "should return auth error")
				return
			}
			require.NoError(t, err, "shouldn't return error")
		})
	}
}

func TestUnitNotInitialized(t *testing.T) {
	adapter := printify.NewAdapter(provider.Config{})

	_, err := adapter.GetProducts(context.TODO(), models.PageOptions{})
	require.ErrorIs(t, err, platform.ErrNotInitialized, "GetProducts should require Initialize")

	_, err = adapter.CreateOrder(context.TODO(), models.OrderData{})
	require.ErrorIs(t, err, platform.ErrNotInitialized, "CreateOrder should require Initialize")

	_, err = adapter.SyncProducts(context.TODO())
	require.ErrorIs(t, err, platform.ErrNotInitialized, "SyncProducts should require Initialize")
}

func TestUnitGetProducts(t *testing.T) {
	mux := shopMux(t)
	mux.HandleFunc("GET /shops/42/products.json", func(wrt http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "1", req.URL.Query().Get("page"), "should request first page")
		assert.Equal(t, "10", req.URL.Query().Get("limit"), "should pass limit")
		writeJSON(wrt, readFixture(t))
	})

	adapter := initialized(t, mux)
	page, err := adapter.GetProducts(context.TODO(), models.PageOptions{Limit: 10})

	require.NoError(t, err, "shouldn't return error")
	assert.True(t, page.HasMore, "should have next page")
	assert.Equal(t, "2", page.Cursor, "should point to next page")
	assert.Equal(t, 4, page.TotalCount, "should return total count")
	require.Len(t, page.Items, 3, "should return all items")

	mug := page.Items[0]
	require.NoError(t, mug.Error, "mug should be mapped")
	assert.Equal(t, "5d39b159e7c48c000728c89f", mug.Product.ExternalID)
	assert.Equal(t, models.ProviderPrintify, mug.Product.Provider)
	require.Len(t, mug.Product.Variants, 2)
	assert.True(t, decimal.RequireFromString("14.99").Equal(*mug.Product.Variants[0].Price), "should convert cents")
	assert.Equal(t, map[string]string{"Colors": "Solid White", "Sizes": "11oz"}, mug.Product.Variants[0].Options,
		"should resolve option ids")
	assert.True(t, mug.Product.Variants[0].Available)
	assert.False(t, mug.Product.Variants[1].Available, "unavailable variant shouldn't be available")
	assert.Equal(t, []string{"33719"}, mug.Product.Images[0].VariantIDs)
	assert.Contains(t, mug.Product.Metadata, provider.RawKey, "should keep native record")

	poster := page.Items[1]
	assert.Equal(t, "5d39b159e7c48c000728c8a0", poster.ExternalID, "failed item should keep its id")
	assert.Nil(t, poster.Product)
	var validationErr *platform.ValidationError
	require.ErrorAs(t, poster.Error, &validationErr, "missing price should fail mapping")

	require.NoError(t, page.Items[2].Error, "item after failed one should be mapped")
}

func TestUnitGetProductsLastPage(t *testing.T) {
	mux := shopMux(t)
	mux.HandleFunc("GET /shops/42/products.json", func(wrt http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "2", req.URL.Query().Get("page"), "should request page from cursor")
		writeJSON(wrt, `{"current_page": 2, "last_page": 2, "total": 0, "data": []}`)
	})

	page, err := initialized(t, mux).GetProducts(context.TODO(), models.PageOptions{Cursor: "2"})

	require.NoError(t, err, "shouldn't return error")
	assert.False(t, page.HasMore, "shouldn't have next page")
	assert.Empty(t, page.Cursor)
	assert.Empty(t, page.Items)
}

func TestUnitGetProductsRateLimited(t *testing.T) {
	mux := shopMux(t)
	mux.HandleFunc("GET /shops/42/products.json", func(wrt http.ResponseWriter, req *http.Request) {
		wrt.Header().Set("Retry-After", "7")
		wrt.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := initialized(t, mux).GetProducts(context.TODO(), models.PageOptions{})

	retryAfter, ok := platform.RetryAfter(err)
	require.True(t, ok, "should return rate limit error")
	assert.Equal(t, 7*time.Second, retryAfter, "should pass retry delay")
}

func TestUnitGetShippingRates(t *testing.T) {
	addr := models.Address{FirstName: "Jane", Line1: "1 Main St", City: "Austin", PostalCode: "73301", CountryCode: "US"}
	items := []models.OrderItem{{ProductID: "5d39b159e7c48c000728c89f", VariantID: "33719", Quantity: 2}}

	t.Run("ok", func(t *testing.T) {
		mux := shopMux(t)
		mux.HandleFunc("POST /shops/42/orders/shipping.json", func(wrt http.ResponseWriter, req *http.Request) {
			var body map[string]any
			assert.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			assert.Equal(t, "US", body["address_to"].(map[string]any)["country"], "should send address")
			writeJSON(wrt, `{"standard": 499, "express": 1299, "priority": null}`)
		})

		rates, err := initialized(t, mux).GetShippingRates(context.TODO(), addr, items)

		require.NoError(t, err, "shouldn't return error")
		require.Len(t, rates, 2, "should skip unavailable methods")
		assert.Equal(t, "express", rates[0].Method)
		assert.True(t, decimal.RequireFromString("12.99").Equal(rates[0].Price))
		assert.Equal(t, "standard", rates[1].Method)
	})

	t.Run("unserviceable", func(t *testing.T) {
		mux := shopMux(t)
		mux.HandleFunc("POST /shops/42/orders/shipping.json", func(wrt http.ResponseWriter, req *http.Request) {
			wrt.Header().Set("Content-Type", "application/json")
			wrt.WriteHeader(http.StatusBadRequest)
			io.WriteString(wrt, `{"message": "Address is not serviceable"}`)
		})

		rates, err := initialized(t, mux).GetShippingRates(context.TODO(), addr, items)

		require.NoError(t, err, "unserviceable address shouldn't be an error")
		assert.NotNil(t, rates)
		assert.Empty(t, rates)
	})
}

func TestUnitCreateOrder(t *testing.T) {
	mux := shopMux(t)
	mux.HandleFunc("POST /shops/42/orders.json", func(wrt http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(req.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{
			"external_id": "order-1",
			"label": "order-1",
			"line_items": [{"product_id": "p1", "variant_id": 33719, "quantity": 1}, {"sku": "TEE-M", "quantity": 3}],
			"shipping_method": 3,
			"address_to": {"first_name": "Jane", "last_name": "Doe", "country": "US", "region": "TX",
				"address1": "1 Main St", "city": "Austin", "zip": "73301"}
		}`, string(body), "should send native order")
		writeJSON(wrt, `{"id": "5a96f649b2439217d070f507"}`)
	})

	confirmation, err := initialized(t, mux).CreateOrder(context.TODO(), models.OrderData{
		ExternalID: "order-1",
		Items: []models.OrderItem{
			{ProductID: "p1", VariantID: "33719", Quantity: 1},
			{VariantID: "v2", SKU: "TEE-M", Quantity: 3},
		},
		Address: models.Address{
			FirstName: "Jane", LastName: "Doe", Line1: "1 Main St", City: "Austin",
			Region: "TX", PostalCode: "73301", CountryCode: "US",
		},
		ShippingMethod: "express",
	})

	require.NoError(t, err, "shouldn't return error")
	assert.Equal(t, &models.OrderConfirmation{
		Provider:   models.ProviderPrintify,
		ExternalID: "order-1",
		OrderID:    "5a96f649b2439217d070f507",
		Status:     "pending",
	}, confirmation)
}

func TestUnitCreateProductRejected(t *testing.T) {
	mux := shopMux(t)
	mux.HandleFunc("POST /shops/42/products.json", func(wrt http.ResponseWriter, req *http.Request) {
		wrt.Header().Set("Content-Type", "application/json")
		wrt.WriteHeader(http.StatusBadRequest)
		io.WriteString(wrt, `{"message": "Validation failed.", "errors": {"reason": "blueprint_id is invalid"}}`)
	})

	_, err := initialized(t, mux).CreateProduct(context.TODO(), models.ProductData{
		Title:       "Mug",
		BlueprintID: "0",
		Variants:    []models.VariantData{{ExternalID: "1", Price: decimalPtr("9.99"), Enabled: true}},
	})

	var validationErr *platform.ValidationError
	require.ErrorAs(t, err, &validationErr, "should return validation error")
	assert.Equal(t, "Validation failed.", validationErr.Message, "should pass supplier message verbatim")
}

func TestUnitSyncInventory(t *testing.T) {
	mux := shopMux(t)
	mux.HandleFunc("GET /shops/42/products.json", func(wrt http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("page") == "1" {
			writeJSON(wrt, readFixture(t))
			return
		}
		writeJSON(wrt, `{"current_page": 2, "last_page": 2, "total": 4, "data": [
			{"id": "p4", "title": "Hoodie", "variants": [{"id": 1, "sku": "HOOD-L", "price": 3999, "is_enabled": false}]}
		]}`)
	})

	levels, err := initialized(t, mux).SyncInventory(context.TODO())

	require.NoError(t, err, "shouldn't return error")
	assert.Equal(t, []models.InventoryLevel{
		{ProductID: "5d39b159e7c48c000728c89f", VariantID: "33719", SKU: "MUG-11", Available: true},
		{ProductID: "5d39b159e7c48c000728c89f", VariantID: "33720", SKU: "MUG-15", Available: false},
		{ProductID: "5d39b159e7c48c000728c8a1", VariantID: "12100", SKU: "TEE-M", Available: true},
		{ProductID: "p4", VariantID: "1", SKU: "HOOD-L", Available: false},
	}, levels, "should collect variants of all pages")
}

func TestUnitSyncProducts(t *testing.T) {
	want := &models.SyncResult{Removed: []string{"A"}}

	syncer := mocks.NewCatalogSyncer(t)
	srv := newServer(t, shopMux(t))
	adapter := printify.NewAdapter(provider.Config{Client: srv.Client(), BaseURL: srv.URL, Syncer: syncer})
	require.NoError(t, adapter.Initialize(context.TODO(), creds))

	syncer.On("SyncCatalog", mock.Anything, creds, adapter).Return(want, nil).Once()

	result, err := adapter.SyncProducts(context.TODO())

	require.NoError(t, err, "shouldn't return error")
	assert.Same(t, want, result, "should return catalog sync result")
}

func shopMux(t *testing.T) *http.ServeMux {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /shops.json", func(wrt http.ResponseWriter, req *http.Request) {
		writeJSON(wrt, `[{"id": 42, "title": "My shop"}]`)
	})
	return mux
}

func initialized(t *testing.T, mux *http.ServeMux) *printify.Adapter {
	t.Helper()

	srv := newServer(t, mux)
	adapter := printify.NewAdapter(provider.Config{Client: srv.Client(), BaseURL: srv.URL})
	require.NoError(t, adapter.Initialize(context.TODO(), creds), "can't initialize adapter")

	return adapter
}

func newServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func readFixture(t *testing.T) string {
	t.Helper()

	raw, err := os.ReadFile("testdata/products.json")
	require.NoError(t, err, "can't read fixture")
	return string(raw)
}

func writeJSON(wrt http.ResponseWriter, body string) {
	wrt.Header().Set("Content-Type", "application/json")
	io.WriteString(wrt, body)
}

func decimalPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}
