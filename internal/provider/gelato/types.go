package gelato

import "github.com/shopspring/decimal"

type store struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type product struct {
	ID          string    `json:"id"`
	ExternalID  string    `json:"externalId,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	PreviewURL  string    `json:"previewUrl,omitempty"`
	Status      string    `json:"status,omitempty"`
	Variants    []variant `json:"variants"`
}

type variant struct {
	ID               string               `json:"id"`
	Title            string               `json:"title,omitempty"`
	ProductUID       string               `json:"productUid"`
	SKU              string               `json:"sku,omitempty"`
	Price            *money               `json:"price"`
	ImageURL         string               `json:"imageUrl,omitempty"`
	ConnectionStatus string               `json:"connectionStatus,omitempty"`
	Attributes       map[string]attribute `json:"attributes,omitempty"`
}

type money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type createFromTemplate struct {
	TemplateID  string            `json:"templateId"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Variants    []templateVariant `json:"variants"`
}

type templateVariant struct {
	TemplateVariantID string `json:"templateVariantId"`
}

type order struct {
	OrderType           string      `json:"orderType"`
	OrderReferenceID    string      `json:"orderReferenceId"`
	CustomerReferenceID string      `json:"customerReferenceId"`
	Currency            string      `json:"currency"`
	Items               []orderItem `json:"items"`
	ShipmentMethodUID   string      `json:"shipmentMethodUid,omitempty"`
	ShippingAddress     address     `json:"shippingAddress"`
}

type orderItem struct {
	ItemReferenceID string `json:"itemReferenceId"`
	ProductUID      string `json:"productUid"`
	Quantity        int    `json:"quantity"`
}

type address struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state,omitempty"`
	PostCode     string `json:"postCode"`
	Country      string `json:"country"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

type createdOrder struct {
	ID                string `json:"id"`
	OrderReferenceID  string `json:"orderReferenceId"`
	FulfillmentStatus string `json:"fulfillmentStatus"`
}

type quoteRequest struct {
	OrderReferenceID    string      `json:"orderReferenceId"`
	CustomerReferenceID string      `json:"customerReferenceId"`
	Currency            string      `json:"currency"`
	Recipient           address     `json:"recipient"`
	Products            []orderItem `json:"products"`
}

type quoteResponse struct {
	Quotes []quote `json:"quotes"`
}

type quote struct {
	ID              string           `json:"id"`
	ShipmentMethods []shipmentMethod `json:"shipmentMethods"`
}

type shipmentMethod struct {
	Name              string          `json:"name"`
	ShipmentMethodUID string          `json:"shipmentMethodUid"`
	Price             decimal.Decimal `json:"price"`
	Currency          string          `json:"currency"`
	MinDeliveryDays   *int            `json:"minDeliveryDays,omitempty"`
	MaxDeliveryDays   *int            `json:"maxDeliveryDays,omitempty"`
}
