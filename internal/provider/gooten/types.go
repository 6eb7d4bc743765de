package gooten

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// result is Gooten response status embedded into every response body.
type result struct {
	HadError bool         `json:"HadError"`
	Errors   []fieldError `json:"Errors,omitempty"`
}

type fieldError struct {
	PropertyName string `json:"PropertyName"`
	ErrorMessage string `json:"ErrorMessage"`
}

type partner struct {
	result
	ID                string `json:"Id"`
	PartnerBillingKey string `json:"PartnerBillingKey"`
}

type productsPage struct {
	result
	Page       int `json:"Page"`
	PageSize   int `json:"PageSize"`
	TotalCount int `json:"TotalCount"`
}

type product struct {
	ID          string    `json:"Id"`
	Name        string    `json:"Name"`
	Description string    `json:"Description,omitempty"`
	Variants    []variant `json:"Variants"`
	Images      []image   `json:"Images,omitempty"`
}

type variant struct {
	SKU         string   `json:"Sku"`
	Name        string   `json:"Name,omitempty"`
	Price       *price   `json:"Price"`
	Options     []option `json:"Options,omitempty"`
	IsAvailable *bool    `json:"IsAvailable,omitempty"`
}

type price struct {
	Price        decimal.Decimal `json:"Price"`
	CurrencyCode string          `json:"CurrencyCode"`
}

type option struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

type image struct {
	URL       string   `json:"Url"`
	Index     int      `json:"Index"`
	IsDefault bool     `json:"IsDefault,omitempty"`
	SKUs      []string `json:"Skus,omitempty"`
}

type createdProduct struct {
	result
	Product json.RawMessage `json:"Product"`
}

type order struct {
	SourceID       string      `json:"SourceId"`
	ShipToAddress  address     `json:"ShipToAddress"`
	BillingAddress address     `json:"BillingAddress"`
	Items          []orderItem `json:"Items"`
	Payment        payment     `json:"Payment"`
}

type address struct {
	FirstName   string `json:"FirstName"`
	LastName    string `json:"LastName"`
	Line1       string `json:"Line1"`
	Line2       string `json:"Line2,omitempty"`
	City        string `json:"City"`
	State       string `json:"State,omitempty"`
	CountryCode string `json:"CountryCode"`
	PostalCode  string `json:"PostalCode"`
	Phone       string `json:"Phone,omitempty"`
	Email       string `json:"Email,omitempty"`
}

type orderItem struct {
	SKU      string `json:"SKU"`
	Quantity int    `json:"Quantity"`
	ShipType string `json:"ShipType,omitempty"`
}

type payment struct {
	PartnerBillingKey string `json:"PartnerBillingKey"`
}

type createdOrder struct {
	result
	ID string `json:"Id"`
}

type shippingRequest struct {
	ShipToPostalCode string      `json:"ShipToPostalCode"`
	ShipToCountry    string      `json:"ShipToCountry"`
	ShipToState      string      `json:"ShipToState,omitempty"`
	CurrencyCode     string      `json:"CurrencyCode"`
	LanguageCode     string      `json:"LanguageCode"`
	Items            []orderItem `json:"Items"`
}

type shippingPrices struct {
	result
	Result []itemShipping `json:"Result"`
}

type itemShipping struct {
	SKU         string       `json:"SKU"`
	ShipOptions []shipOption `json:"ShipOptions"`
}

type shipOption struct {
	ID                         int    `json:"Id"`
	Name                       string `json:"Name"`
	MethodType                 string `json:"MethodType"`
	Price                      price  `json:"Price"`
	EstBusinessDaysTilDelivery *int   `json:"EstBusinessDaysTilDelivery,omitempty"`
}
