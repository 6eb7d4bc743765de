package printful

import "encoding/json"

type envelope struct {
	Code   int             `json:"code"`
	Result json.RawMessage `json:"result"`
	Paging *paging         `json:"paging,omitempty"`
}

type paging struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type store struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type summary struct {
	ID         int64  `json:"id"`
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	IsIgnored  bool   `json:"is_ignored"`
}

type detail struct {
	SyncProduct  syncProduct   `json:"sync_product"`
	SyncVariants []syncVariant `json:"sync_variants"`
}

type syncProduct struct {
	ID           int64  `json:"id,omitempty"`
	ExternalID   string `json:"external_id,omitempty"`
	Name         string `json:"name"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	IsIgnored    bool   `json:"is_ignored,omitempty"`
}

type syncVariant struct {
	ID                 int64           `json:"id,omitempty"`
	ExternalID         string          `json:"external_id,omitempty"`
	Name               string          `json:"name,omitempty"`
	VariantID          int64           `json:"variant_id"`
	RetailPrice        string          `json:"retail_price"`
	Currency           string          `json:"currency,omitempty"`
	SKU                string          `json:"sku,omitempty"`
	Files              []file          `json:"files,omitempty"`
	Options            []variantOption `json:"options,omitempty"`
	IsIgnored          bool            `json:"is_ignored,omitempty"`
	AvailabilityStatus string          `json:"availability_status,omitempty"`
}

type file struct {
	Type       string `json:"type,omitempty"`
	URL        string `json:"url,omitempty"`
	PreviewURL string `json:"preview_url,omitempty"`
}

type variantOption struct {
	ID    string `json:"id"`
	Value any    `json:"value"`
}

type order struct {
	ExternalID string      `json:"external_id"`
	Shipping   string      `json:"shipping,omitempty"`
	Recipient  recipient   `json:"recipient"`
	Items      []orderItem `json:"items"`
}

type recipient struct {
	Name        string `json:"name,omitempty"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city"`
	StateCode   string `json:"state_code,omitempty"`
	CountryCode string `json:"country_code"`
	Zip         string `json:"zip"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

type orderItem struct {
	SyncVariantID     int64  `json:"sync_variant_id,omitempty"`
	ExternalVariantID string `json:"external_variant_id,omitempty"`
	Quantity          int    `json:"quantity"`
}

type createdOrder struct {
	ID         int64  `json:"id"`
	ExternalID string `json:"external_id"`
	Status     string `json:"status"`
}

type shippingRequest struct {
	Recipient recipient   `json:"recipient"`
	Items     []orderItem `json:"items"`
	Currency  string      `json:"currency,omitempty"`
}

type shippingRate struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Rate            string `json:"rate"`
	Currency        string `json:"currency"`
	MinDeliveryDays *int   `json:"minDeliveryDays,omitempty"`
	MaxDeliveryDays *int   `json:"maxDeliveryDays,omitempty"`
}
