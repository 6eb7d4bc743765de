package gelato_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/MichalMitros/pod-sync/internal/provider"
	"github.com/MichalMitros/pod-sync/internal/provider/gelato"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	apiKey       = "gelato-key"
	gelatoStore  = "a6a1f9ce-2bdd-4a9e-9f8d-0009df0e24d9"
	productsPath = "/stores/" + gelatoStore + "/products"
)

var creds = models.Credentials{
	StoreID:    "store-1",
	Provider:   models.ProviderGelato,
	APIKey:     apiKey,
	ProviderID: gelatoStore,
}

const productsPage = `{
	"products": [
		{
			"id": "gl-1",
			"title": "Poster",
			"description": "Museum quality",
			"previewUrl": "https://gelato-api-live.s3.amazonaws.com/poster.png",
			"variants": [
				{
					"id": "glv-1",
					"title": "A3",
					"productUid": "flat_a3_170-gsm-65lb-uncoated_4-0_ver",
					"price": {"amount": "19.90", "currency": "EUR"},
					"connectionStatus": "connected",
					"attributes": {"size": {"name": "Size", "value": "A3"}, "paper": {"name": "Paper", "value": "170 gsm"}}
				},
				{
					"id": "glv-2",
					"title": "A2",
					"productUid": "flat_a2_170-gsm-65lb-uncoated_4-0_ver",
					"sku": "POSTER-A2",
					"price": {"amount": 24.5, "currency": "EUR"},
					"connectionStatus": "not_connected",
					"imageUrl": "https://gelato-api-live.s3.amazonaws.com/poster-a2.png"
				}
			]
		},
		{
			"id": "gl-2",
			"title": "Card",
			"variants": [{"id": "glv-3", "productUid": "cards_pf_a5"}]
		}
	]
}`

func TestUnitInitialize(t *testing.T) {
	tests := map[string]struct {
		status    int
		wantErrAs any
	}{
		"ok":            {status: http.StatusOK},
		"rejected key":  {status: http.StatusForbidden, wantErrAs: new(*platform.AuthError)},
		"unknown store": {status: http.StatusNotFound, wantErrAs: new(*platform.ProviderError)},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /stores/"+gelatoStore, func(wrt http.ResponseWriter, req *http.Request) {
				assert.Equal(t, apiKey, req.Header.Get("X-API-KEY"), "should authorize with api key")
				if tt.status != http.StatusOK {
					wrt.WriteHeader(tt.status)
					return
				}
				writeJSON(wrt, `{"id": "`+gelatoStore+`", "name": "Shop"}`)
			})
			srv := httptest.NewServer(mux)
			t.Cleanup(srv.Close)

			err := gelato.NewAdapter(provider.Config{Client: srv.Client(), BaseURL: srv.URL}).
				Initialize(context.TODO(), creds)

			if tt.wantErrAs != nil {
				require.ErrorAs(t, err, tt.wantErrAs, "should return classified error")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestUnitGetProducts(t *testing.T) {
	mux := storeMux(t)
	mux.HandleFunc("GET "+productsPath, func(wrt http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "0", req.URL.Query().Get("offset"))
		assert.Equal(t, "2", req.URL.Query().Get("limit"))
		writeJSON(wrt, productsPage)
	})

	page, err := initialized(t, mux).GetProducts(context.TODO(), models.PageOptions{Limit: 2})

	require.NoError(t, err)
	assert.True(t, page.HasMore, "full page may be followed by next one")
	assert.Equal(t, "2", page.Cursor)
	require.Len(t, page.Items, 2)

	poster := page.Items[0].Product
	require.NotNil(t, poster)
	assert.Equal(t, "gl-1", poster.ExternalID)
	assert.Equal(t, map[string]string{"Size": "A3", "Paper": "170 gsm"}, poster.Variants[0].Options,
		"should flatten nested attributes")
	assert.Equal(t, "flat_a3_170-gsm-65lb-uncoated_4-0_ver", poster.Variants[0].SKU, "should fall back to product uid")
	assert.Equal(t, "POSTER-A2", poster.Variants[1].SKU)
	assert.True(t, decimal.RequireFromString("24.5").Equal(*poster.Variants[1].Price))
	assert.False(t, poster.Variants[1].Available, "disconnected variant shouldn't be available")
	require.Len(t, poster.Images, 2)
	assert.Equal(t, []string{"glv-2"}, poster.Images[1].VariantIDs)

	card := page.Items[1]
	assert.Equal(t, "gl-2", card.ExternalID)
	var validationErr *platform.ValidationError
	require.ErrorAs(t, card.Error, &validationErr, "missing price should be item error")
}

func TestUnitGetProductsPartialPage(t *testing.T) {
	mux := storeMux(t)
	mux.HandleFunc("GET "+productsPath, func(wrt http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "2", req.URL.Query().Get("offset"), "should start from cursor")
		writeJSON(wrt, productsPage)
	})

	page, err := initialized(t, mux).GetProducts(context.TODO(), models.PageOptions{Limit: 10, Cursor: "2"})

	require.NoError(t, err)
	assert.False(t, page.HasMore, "partial page should be the last one")
	assert.Empty(t, page.Cursor)
}

func TestUnitCreateProduct(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		mux := storeMux(t)
		mux.HandleFunc("POST "+productsPath+":create-from-template", func(wrt http.ResponseWriter, req *http.Request) {
			body, err := io.ReadAll(req.Body)
			assert.NoError(t, err)
			assert.JSONEq(t, `{"templateId": "tpl-1", "title": "Poster",
				"variants": [{"templateVariantId": "tv-1"}]}`, string(body))
			writeJSON(wrt, `{"id": "gl-9", "title": "Poster", "variants": [
				{"id": "glv-9", "productUid": "flat_a3", "price": {"amount": "19.90", "currency": "EUR"}}]}`)
		})

		price := decimal.RequireFromString("19.90")
		product, err := initialized(t, mux).CreateProduct(context.TODO(), models.ProductData{
			Title:       "Poster",
			BlueprintID: "tpl-1",
			Variants:    []models.VariantData{{ExternalID: "tv-1", Price: &price}},
		})

		require.NoError(t, err)
		assert.Equal(t, "gl-9", product.ExternalID)
	})

	t.Run("missing template", func(t *testing.T) {
		price := decimal.RequireFromString("19.90")
		_, err := initialized(t, storeMux(t)).CreateProduct(context.TODO(), models.ProductData{
			Title:    "Poster",
			Variants: []models.VariantData{{ExternalID: "tv-1", Price: &price}},
		})

		var validationErr *platform.ValidationError
		require.ErrorAs(t, err, &validationErr, "should require template")
	})
}

func TestUnitCreateOrder(t *testing.T) {
	mux := storeMux(t)
	mux.HandleFunc("POST /orders", func(wrt http.ResponseWriter, req *http.Request) {
		assert.Equal(t, apiKey, req.Header.Get("X-API-KEY"))
		var body map[string]any
		assert.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, "order-1", body["orderReferenceId"])
		assert.Equal(t, "store-1", body["customerReferenceId"])
		assert.Equal(t, []any{map[string]any{
			"itemReferenceId": "order-1-1",
			"productUid":      "flat_a3",
			"quantity":        float64(2),
		}}, body["items"])
		writeJSON(wrt, `{"id": "go-1", "orderReferenceId": "order-1", "fulfillmentStatus": "created"}`)
	})

	confirmation, err := initialized(t, mux).CreateOrder(context.TODO(), models.OrderData{
		ExternalID: "order-1",
		Items:      []models.OrderItem{{VariantID: "flat_a3", Quantity: 2}},
		Address: models.Address{
			FirstName: "Jan", LastName: "Kowalski", Line1: "Marszalkowska 1", City: "Warszawa",
			PostalCode: "00-001", CountryCode: "PL",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, &models.OrderConfirmation{
		Provider:   models.ProviderGelato,
		ExternalID: "order-1",
		OrderID:    "go-1",
		Status:     "created",
	}, confirmation)
}

func TestUnitGetShippingRates(t *testing.T) {
	addr := models.Address{FirstName: "Jan", Line1: "Marszalkowska 1", City: "Warszawa", PostalCode: "00-001", CountryCode: "PL"}
	items := []models.OrderItem{{VariantID: "flat_a3", Quantity: 1}}

	tests := map[string]struct {
		handler     http.HandlerFunc
		wantMethods []string
	}{
		"ok": {
			handler: func(wrt http.ResponseWriter, req *http.Request) {
				writeJSON(wrt, `{"quotes": [
					{"id": "q1", "shipmentMethods": [
						{"name": "Express", "shipmentMethodUid": "express", "price": 12.5, "currency": "EUR"},
						{"name": "Standard", "shipmentMethodUid": "normal", "price": 4.2, "currency": "EUR", "minDeliveryDays": 3, "maxDeliveryDays": 5}
					]},
					{"id": "q2", "shipmentMethods": [
						{"name": "Express", "shipmentMethodUid": "express", "price": 9.9, "currency": "EUR"}
					]}
				]}`)
			},
			wantMethods: []string{"normal", "express"},
		},
		"no quotes": {
			handler: func(wrt http.ResponseWriter, req *http.Request) {
				writeJSON(wrt, `{"quotes": []}`)
			},
			wantMethods: []string{},
		},
		"unserviceable": {
			handler: func(wrt http.ResponseWriter, req *http.Request) {
				wrt.WriteHeader(http.StatusBadRequest)
				io.WriteString(wrt, `{"message": "Shipping to the country is not supported"}`)
			},
			wantMethods: []string{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			mux := storeMux(t)
			mux.HandleFunc("POST /orders:quote", tt.handler)

			rates, err := initialized(t, mux).GetShippingRates(context.TODO(), addr, items)

			require.NoError(t, err)
			methods := make([]string, 0, len(rates))
			for _, rate := range rates {
				methods = append(methods, rate.Method)
			}
			assert.Equal(t, tt.wantMethods, methods, "should return cheapest rate per method ordered by price")
		})
	}
}

func storeMux(t *testing.T) *http.ServeMux {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /stores/"+gelatoStore, func(wrt http.ResponseWriter, req *http.Request) {
		writeJSON(wrt, `{"id": "`+gelatoStore+`", "name": "Shop"}`)
	})
	return mux
}

func initialized(t *testing.T, mux *http.ServeMux) *gelato.Adapter {
	t.Helper()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	adapter := gelato.NewAdapter(provider.Config{Client: srv.Client(), BaseURL: srv.URL})
	require.NoError(t, adapter.Initialize(context.TODO(), creds), "can't initialize adapter")

	return adapter
}

func writeJSON(wrt http.ResponseWriter, body string) {
	wrt.Header().Set("Content-Type", "application/json")
	io.WriteString(wrt, body)
}
