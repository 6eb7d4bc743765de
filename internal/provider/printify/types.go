package printify

import "encoding/json"

type shop struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	SalesChannel string `json:"sales_channel"`
}

type productsPage struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	Total       int `json:"total"`
}

type product struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Tags            []string        `json:"tags,omitempty"`
	BlueprintID     int             `json:"blueprint_id,omitempty"`
	PrintProviderID int             `json:"print_provider_id,omitempty"`
	Options         []option        `json:"options,omitempty"`
	Variants        []variant       `json:"variants"`
	Images          []image         `json:"images,omitempty"`
	PrintAreas      json.RawMessage `json:"print_areas,omitempty"`
	Visible         bool            `json:"visible,omitempty"`
}

type option struct {
	Name   string        `json:"name"`
	Type   string        `json:"type"`
	Values []optionValue `json:"values"`
}

type optionValue struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type variant struct {
	ID          int    `json:"id"`
	SKU         string `json:"sku"`
	Title       string `json:"title,omitempty"`
	Price       *int   `json:"price"`
	Cost        *int   `json:"cost,omitempty"`
	IsEnabled   bool   `json:"is_enabled"`
	IsAvailable *bool  `json:"is_available,omitempty"`
	Options     []int  `json:"options,omitempty"`
}

type image struct {
	Src        string `json:"src"`
	VariantIDs []int  `json:"variant_ids,omitempty"`
	Position   string `json:"position,omitempty"`
	IsDefault  bool   `json:"is_default"`
}

type createdOrder struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
}

type order struct {
	ExternalID     string     `json:"external_id"`
	Label          string     `json:"label,omitempty"`
	LineItems      []lineItem `json:"line_items"`
	ShippingMethod int        `json:"shipping_method"`
	AddressTo      address    `json:"address_to"`
}

type shippingRequest struct {
	LineItems []lineItem `json:"line_items"`
	AddressTo address    `json:"address_to"`
}

type lineItem struct {
	ProductID string `json:"product_id,omitempty"`
	VariantID int    `json:"variant_id,omitempty"`
	SKU       string `json:"sku,omitempty"`
	Quantity  int    `json:"quantity"`
}

type address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Country   string `json:"country"`
	Region    string `json:"region"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
}
