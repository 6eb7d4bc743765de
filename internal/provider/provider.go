// Package provider defines capabilities shared by all print provider adapters.
//
// Every supplier adapter isolates its wire format: raw supplier JSON is decoded and mapped
// into canonical models inside the adapter package and only canonical models leave it.
package provider

import (
	"context"

	"github.com/MichalMitros/pod-sync/internal/platform/models"
)

//go:generate mockery --name PrintProvider --filename print_provider.go
//go:generate mockery --name CatalogSyncer --filename catalog_syncer.go

// PrintProvider is capability interface implemented by every supplier adapter.
type PrintProvider interface {
	// Type returns supplier handled by the adapter.
	Type() models.ProviderType
	// Initialize validates credentials against provider and binds them to the adapter.
	Initialize(ctx context.Context, creds models.Credentials) error
	// CreateProduct submits single product.
	CreateProduct(ctx context.Context, data models.ProductData) (*models.Product, error)
	// SyncInventory returns availability of all catalog variants.
	SyncInventory(ctx context.Context) ([]models.InventoryLevel, error)
	// CreateOrder submits single order.
	CreateOrder(ctx context.Context, data models.OrderData) (*models.OrderConfirmation, error)
	// GetShippingRates quotes shipping of items to address. Unserviceable address produces no rates.
	GetShippingRates(ctx context.Context, address models.Address, items []models.OrderItem) ([]models.ShippingRate, error)
	// GetProducts returns single page of products, restartable from any returned cursor.
	GetProducts(ctx context.Context, opts models.PageOptions) (*models.ProductList, error)
	// SyncProducts fetches whole catalog and reconciles it with stored products.
	SyncProducts(ctx context.Context) (*models.SyncResult, error)
}

// PageFetcher fetches products pages.
type PageFetcher interface {
	Type() models.ProviderType
	GetProducts(ctx context.Context, opts models.PageOptions) (*models.ProductList, error)
}

// CatalogSyncer fetches all pages from PageFetcher and reconciles them with stored state.
type CatalogSyncer interface {
	SyncCatalog(ctx context.Context, creds models.Credentials, pages PageFetcher) (*models.SyncResult, error)
}
