package gelato

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/MichalMitros/pod-sync/internal/provider"
	"github.com/samber/lo"
)

const (
	defaultCurrency = "USD"
	productUIDKey   = "productUid"
)

// mapProduct maps Gelato store product into canonical product.
// Nested variant attributes are flattened into options keyed by attribute name.
func mapProduct(raw json.RawMessage) (string, *models.Product, error) {
	var native product
	if err := json.Unmarshal(raw, &native); err != nil {
		return "", nil, fmt.Errorf("can't decode gelato product: %w", err)
	}

	if native.ID == "" {
		return "", nil, invalid("id", "product has no id")
	}

	var images []models.Image
	if native.PreviewURL != "" {
		images = append(images, models.Image{URL: native.PreviewURL, IsDefault: true})
	}

	variants := make([]models.Variant, 0, len(native.Variants))
	for ix, v := range native.Variants {
		if v.Price == nil {
			return native.ID, nil, invalid(fmt.Sprintf("variants[%d].price", ix), fmt.Sprintf("variant %s has no price", v.ID))
		}

		options := make(map[string]string, len(v.Attributes))
		for key, attr := range v.Attributes {
			options[lo.Ternary(attr.Name != "", attr.Name, key)] = attr.Value
		}

		if v.ImageURL != "" {
			images = append(images, models.Image{URL: v.ImageURL, Position: len(images), VariantIDs: []string{v.ID}})
		}

		variants = append(variants, models.Variant{
			ExternalID: v.ID,
			SKU:        lo.Ternary(v.SKU != "", v.SKU, v.ProductUID),
			Title:      v.Title,
			Price:      lo.ToPtr(v.Price.Amount),
			Currency:   v.Price.Currency,
			Available:  v.ConnectionStatus == "" || v.ConnectionStatus == "connected",
			Options:    options,
			Metadata:   map[string]any{productUIDKey: v.ProductUID},
		})
	}

	return native.ID, &models.Product{
		Provider:    models.ProviderGelato,
		ExternalID:  native.ID,
		Title:       native.Title,
		Description: native.Description,
		Variants:    variants,
		Images:      images,
		Metadata:    provider.RawMetadata(raw),
	}, nil
}

// toNative maps canonical product into Gelato store product.
func toNative(p models.Product) (product, error) {
	native := product{
		ID:          p.ExternalID,
		Title:       p.Title,
		Description: p.Description,
		Variants:    make([]variant, 0, len(p.Variants)),
	}

	if image, ok := lo.Find(p.Images, func(img models.Image) bool { return img.IsDefault }); ok {
		native.PreviewURL = image.URL
	}

	for ix, v := range p.Variants {
		if v.Price == nil {
			return product{}, invalid(fmt.Sprintf("variants[%d].price", ix), "price is required")
		}

		attributes := make(map[string]attribute, len(v.Options))
		for name, value := range v.Options {
			attributes[strings.ToLower(name)] = attribute{Name: name, Value: value}
		}

		uid := provider.MetadataString(v.Metadata, productUIDKey)
		nv := variant{
			ID:         v.ExternalID,
			Title:      v.Title,
			ProductUID: lo.Ternary(uid != "", uid, v.SKU),
			SKU:        v.SKU,
			Price:      &money{Amount: *v.Price, Currency: lo.Ternary(v.Currency != "", v.Currency, defaultCurrency)},
			Attributes: attributes,
		}
		if image, ok := lo.Find(p.Images, func(img models.Image) bool { return lo.Contains(img.VariantIDs, v.ExternalID) }); ok {
			nv.ImageURL = image.URL
		}

		native.Variants = append(native.Variants, nv)
	}

	return native, nil
}

// toCreateRequest returns payload creating store product from template referenced by blueprint id.
func toCreateRequest(p models.Product) (createFromTemplate, error) {
	templateID := provider.MetadataString(p.Metadata, provider.BlueprintIDKey)
	if templateID == "" {
		return createFromTemplate{}, invalid("blueprintId", "gelato product requires template id")
	}

	return createFromTemplate{
		TemplateID:  templateID,
		Title:       p.Title,
		Description: p.Description,
		Variants: lo.Map(p.Variants, func(v models.Variant, _ int) templateVariant {
			return templateVariant{TemplateVariantID: v.ExternalID}
		}),
	}, nil
}

func toAddress(a models.Address) address {
	return address{
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		AddressLine1: a.Line1,
		AddressLine2: a.Line2,
		City:         a.City,
		State:        a.Region,
		PostCode:     a.PostalCode,
		Country:      a.CountryCode,
		Email:        a.Email,
		Phone:        a.Phone,
	}
}

func toOrderItems(reference string, items []models.OrderItem) []orderItem {
	return lo.Map(items, func(item models.OrderItem, ix int) orderItem {
		return orderItem{
			ItemReferenceID: fmt.Sprintf("%s-%d", reference, ix+1),
			ProductUID:      lo.Ternary(item.SKU != "", item.SKU, item.VariantID),
			Quantity:        item.Quantity,
		}
	})
}

// mapShippingRates returns cheapest rate per shipment method over all quotes.
func mapShippingRates(quotes []quote) []models.ShippingRate {
	byMethod := map[string]models.ShippingRate{}
	for _, q := range quotes {
		for _, m := range q.ShipmentMethods {
			current, ok := byMethod[m.ShipmentMethodUID]
			if ok && current.Price.LessThanOrEqual(m.Price) {
				continue
			}
			byMethod[m.ShipmentMethodUID] = models.ShippingRate{
				Method:          m.ShipmentMethodUID,
				Name:            m.Name,
				Price:           m.Price,
				Currency:        m.Currency,
				MinDeliveryDays: m.MinDeliveryDays,
				MaxDeliveryDays: m.MaxDeliveryDays,
			}
		}
	}

	rates := lo.Values(byMethod)
	slices.SortFunc(rates, func(a, b models.ShippingRate) int {
		if c := a.Price.Cmp(b.Price); c != 0 {
			return c
		}
		return strings.Compare(a.Method, b.Method)
	})

	return rates
}

func invalid(field, message string) error {
	return &platform.ValidationError{
		Provider: string(models.ProviderGelato),
		Fields:   []string{field},
		Message:  message,
	}
}
