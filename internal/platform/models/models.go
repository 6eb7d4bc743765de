package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ProviderType is print-on-demand supplier identifier.
type ProviderType string

const (
	ProviderPrintify ProviderType = "printify"
	ProviderPrintful ProviderType = "printful"
	ProviderGooten   ProviderType = "gooten"
	ProviderGelato   ProviderType = "gelato"
)

// Providers lists all supported suppliers.
var Providers = []ProviderType{ProviderPrintify, ProviderPrintful, ProviderGooten, ProviderGelato}

// Valid reports whether p is a supported supplier.
func (p ProviderType) Valid() bool {
	switch p {
	case ProviderPrintify, ProviderPrintful, ProviderGooten, ProviderGelato:
		return true
	default:
		return false
	}
}

// Credentials are store's credentials for one provider.
type Credentials struct {
	StoreID       string
	Provider      ProviderType
	APIKey        string
	ProviderID    string
	WebhookSecret *string
	CreatedAt     time.Time
	RevokedAt     *time.Time
}

// Key identifies provider side product across syncs.
type Key struct {
	Provider   ProviderType
	ExternalID string
}

// Product is canonical product model.
type Product struct {
	ID          int            `json:"id,omitempty"`
	StoreID     string         `json:"storeId,omitempty"`
	Provider    ProviderType   `json:"provider" validate:"required,oneof=printify printful gooten gelato"`
	ExternalID  string         `json:"externalId" validate:"required"`
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description,omitempty"`
	Variants    []Variant      `json:"variants" validate:"required,min=1,dive"`
	Images      []Image        `json:"images,omitempty" validate:"dive"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"createdAt,omitempty"`
	UpdatedAt   time.Time      `json:"updatedAt,omitempty"`
	DeletedAt   *time.Time     `json:"deletedAt,omitempty"`
}

// Key returns product's matching key.
func (p *Product) Key() Key {
	return Key{Provider: p.Provider, ExternalID: p.ExternalID}
}

// Variant is canonical product variant model.
type Variant struct {
	ExternalID string            `json:"externalId" validate:"required"`
	SKU        string            `json:"sku" validate:"required"`
	Title      string            `json:"title,omitempty"`
	Price      *decimal.Decimal  `json:"price" validate:"required"`
	Currency   string            `json:"currency,omitempty" validate:"omitempty,len=3"`
	Available  bool              `json:"available"`
	Options    map[string]string `json:"options,omitempty"`
	Metadata   map[string]any    `json:"metadata,omitempty"`
}

// Image is canonical product image model.
type Image struct {
	URL        string   `json:"url" validate:"required,url"`
	Position   int      `json:"position"`
	IsDefault  bool     `json:"isDefault,omitempty"`
	VariantIDs []string `json:"variantIds,omitempty"`
}

// FetchedProduct is a single record fetched from provider.
// Error is set when record couldn't be mapped into canonical Product.
type FetchedProduct struct {
	ExternalID string
	Product    *Product
	Error      error
}

// PageOptions configures single products page request.
type PageOptions struct {
	Limit  int
	Cursor string
}

// ProductList is a single page of fetched products.
type ProductList struct {
	Items      []FetchedProduct
	TotalCount int
	HasMore    bool
	Cursor     string
}

// ProductData is payload for creating single product on provider side.
type ProductData struct {
	ExternalID      string         `json:"externalId,omitempty"`
	Title           string         `json:"title" validate:"required"`
	Description     string         `json:"description,omitempty"`
	BlueprintID     string         `json:"blueprintId,omitempty"`
	PrintProviderID string         `json:"printProviderId,omitempty"`
	Variants        []VariantData  `json:"variants" validate:"required,min=1,dive"`
	Images          []Image        `json:"images,omitempty" validate:"dive"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// VariantData is variant part of ProductData.
type VariantData struct {
	ExternalID string           `json:"externalId" validate:"required"`
	SKU        string           `json:"sku,omitempty"`
	Price      *decimal.Decimal `json:"price" validate:"required"`
	Enabled    bool             `json:"enabled"`
}

// SyncResult is outcome of one reconciliation pass.
type SyncResult struct {
	Added    []Product    `json:"added"`
	Updated  []Product    `json:"updated"`
	Removed  []string     `json:"removed"`
	Errors   []SyncError  `json:"errors"`
	Metadata SyncMetadata `json:"metadata"`
}

// IsEmpty reports whether result doesn't require any storage change.
func (r *SyncResult) IsEmpty() bool {
	return len(r.Added) == 0 && len(r.Updated) == 0 && len(r.Removed) == 0
}

// SyncError is per product sync failure.
type SyncError struct {
	ProductID string `json:"productId"`
	Error     string `json:"error"`
}

// SyncMetadata holds SyncResult's statistics.
type SyncMetadata struct {
	TotalProcessed int       `json:"totalProcessed"`
	Unchanged      int       `json:"unchanged"`
	LastSyncedAt   time.Time `json:"lastSyncedAt"`
}

// Run is catalog sync process run model.
type Run struct {
	ID              int
	StoreID         string
	Provider        ProviderType
	CreatedAt       time.Time
	FinishedAt      *time.Time
	IsSuccess       *bool
	StatusMessage   *string
	AddedProducts   *int32
	UpdatedProducts *int32
	RemovedProducts *int32
	FailedProducts  *int32
	Errors          []SyncError
}

// Checkpoint holds progress of interrupted catalog fetch.
type Checkpoint struct {
	StoreID   string
	Provider  ProviderType
	Cursor    string
	Complete  bool
	Items     []FetchedProduct
	UpdatedAt time.Time
}

// Address is shipping address.
type Address struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       string `json:"phone,omitempty"`
	Line1       string `json:"line1" validate:"required"`
	Line2       string `json:"line2,omitempty"`
	City        string `json:"city" validate:"required"`
	Region      string `json:"region,omitempty"`
	PostalCode  string `json:"postalCode" validate:"required"`
	CountryCode string `json:"countryCode" validate:"required,len=2"`
}

// OrderItem is single order line.
type OrderItem struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId" validate:"required"`
	SKU       string `json:"sku,omitempty"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// OrderData is outbound order submission payload.
type OrderData struct {
	ExternalID     string      `json:"externalId" validate:"required"`
	Items          []OrderItem `json:"items" validate:"required,min=1,dive"`
	Address        Address     `json:"address"`
	ShippingMethod string      `json:"shippingMethod,omitempty"`
	Currency       string      `json:"currency,omitempty" validate:"omitempty,len=3"`
}

// OrderConfirmation is provider's response to order submission.
type OrderConfirmation struct {
	Provider   ProviderType `json:"provider"`
	ExternalID string       `json:"externalId"`
	OrderID    string       `json:"orderId"`
	Status     string       `json:"status,omitempty"`
}

// ShippingRate is single shipping quote.
type ShippingRate struct {
	Method          string          `json:"method"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency"`
	MinDeliveryDays *int            `json:"minDeliveryDays,omitempty"`
	MaxDeliveryDays *int            `json:"maxDeliveryDays,omitempty"`
}

// InventoryLevel is availability of single variant.
type InventoryLevel struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	SKU       string `json:"sku"`
	Available bool   `json:"available"`
}

// WebhookType is kind of provider webhook.
type WebhookType string

const (
	WebhookOrderStatus WebhookType = "orderStatus"
	WebhookInventory   WebhookType = "inventory"
	WebhookShipping    WebhookType = "shipping"
)

// WebhookPayload is provider webhook notification.
type WebhookPayload struct {
	Type       WebhookType     `json:"type"`
	ProviderID string          `json:"providerId"`
	Data       json.RawMessage `json:"data"`
}
