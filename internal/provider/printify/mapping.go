package printify

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/MichalMitros/pod-sync/internal/provider"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const currency = "USD"

var shippingMethods = map[string]int{
	"standard": 1,
	"priority": 2,
	"express":  3,
	"economy":  4,
}

var shippingNames = map[string]string{
	"standard":         "Standard",
	"priority":         "Priority",
	"express":          "Express",
	"printify_express": "Printify Express",
	"economy":          "Economy",
}

// mapProduct maps Printify product into canonical product.
func mapProduct(raw json.RawMessage) (string, *models.Product, error) {
	var native product
	if err := json.Unmarshal(raw, &native); err != nil {
		return "", nil, fmt.Errorf("can't decode printify product: %w", err)
	}

	if native.ID == "" {
		return "", nil, invalid("id", "product has no id")
	}

	optionValues := map[int]struct{ name, value string }{}
	for _, opt := range native.Options {
		for _, value := range opt.Values {
			optionValues[value.ID] = struct{ name, value string }{opt.Name, value.Title}
		}
	}

	variants := make([]models.Variant, 0, len(native.Variants))
	for ix, v := range native.Variants {
		if v.Price == nil {
			return native.ID, nil, invalid(fmt.Sprintf("variants[%d].price", ix), fmt.Sprintf("variant %d has no price", v.ID))
		}

		options := map[string]string{}
		for _, id := range v.Options {
			if opt, ok := optionValues[id]; ok {
				options[opt.name] = opt.value
			}
		}

		metadata := map[string]any{}
		if v.Cost != nil {
			metadata["cost"] = decimal.New(int64(*v.Cost), -2).String()
		}

		variants = append(variants, models.Variant{
			ExternalID: strconv.Itoa(v.ID),
			SKU:        v.SKU,
			Title:      v.Title,
			Price:      lo.ToPtr(decimal.New(int64(*v.Price), -2)),
			Currency:   currency,
			Available:  v.IsEnabled && (v.IsAvailable == nil || *v.IsAvailable),
			Options:    options,
			Metadata:   metadata,
		})
	}

	images := lo.Map(native.Images, func(img image, ix int) models.Image {
		return models.Image{
			URL:       img.Src,
			Position:  ix,
			IsDefault: img.IsDefault,
			VariantIDs: lo.Map(img.VariantIDs, func(id int, _ int) string {
				return strconv.Itoa(id)
			}),
		}
	})

	return native.ID, &models.Product{
		Provider:    models.ProviderPrintify,
		ExternalID:  native.ID,
		Title:       native.Title,
		Description: native.Description,
		Variants:    variants,
		Images:      images,
		Metadata:    provider.RawMetadata(raw),
	}, nil
}

// toNative maps canonical product into Printify product.
func toNative(p models.Product) (product, error) {
	native := product{
		ID:              p.ExternalID,
		Title:           p.Title,
		Description:     p.Description,
		BlueprintID:     provider.MetadataInt(p.Metadata, provider.BlueprintIDKey),
		PrintProviderID: provider.MetadataInt(p.Metadata, provider.PrintProviderIDKey),
		Variants:        make([]variant, 0, len(p.Variants)),
	}

	if raw, ok := p.Metadata[provider.RawKey].(map[string]any); ok {
		if native.BlueprintID == 0 {
			native.BlueprintID = provider.MetadataInt(raw, "blueprint_id")
		}
		if native.PrintProviderID == 0 {
			native.PrintProviderID = provider.MetadataInt(raw, "print_provider_id")
		}
	}

	if areas, ok := p.Metadata["print_areas"]; ok {
		encoded, err := json.Marshal(areas)
		if err != nil {
			return product{}, fmt.Errorf("can't encode print areas: %w", err)
		}
		native.PrintAreas = encoded
	}

	for ix, v := range p.Variants {
		id, err := strconv.Atoi(v.ExternalID)
		if err != nil {
			return product{}, invalid(fmt.Sprintf("variants[%d].externalId", ix), "printify variant id must be numeric")
		}
		if v.Price == nil {
			return product{}, invalid(fmt.Sprintf("variants[%d].price", ix), "price is required")
		}

		native.Variants = append(native.Variants, variant{
			ID:        id,
			SKU:       v.SKU,
			Title:     v.Title,
			Price:     lo.ToPtr(int(v.Price.Shift(2).Round(0).IntPart())),
			IsEnabled: v.Available,
		})
	}

	for _, img := range p.Images {
		ids := make([]int, 0, len(img.VariantIDs))
		for _, id := range img.VariantIDs {
			if n, err := strconv.Atoi(id); err == nil {
				ids = append(ids, n)
			}
		}
		native.Images = append(native.Images, image{Src: img.URL, VariantIDs: ids, IsDefault: img.IsDefault})
	}

	return native, nil
}

func toLineItems(items []models.OrderItem) []lineItem {
	return lo.Map(items, func(item models.OrderItem, _ int) lineItem {
		if id, err := strconv.Atoi(item.VariantID); err == nil && item.ProductID != "" {
			return lineItem{ProductID: item.ProductID, VariantID: id, Quantity: item.Quantity}
		}
		return lineItem{SKU: lo.Ternary(item.SKU != "", item.SKU, item.VariantID), Quantity: item.Quantity}
	})
}

func toAddress(a models.Address) address {
	return address{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Phone:     a.Phone,
		Country:   a.CountryCode,
		Region:    a.Region,
		Address1:  a.Line1,
		Address2:  a.Line2,
		City:      a.City,
		Zip:       a.PostalCode,
	}
}

func toOrder(data models.OrderData) order {
	method, ok := shippingMethods[data.ShippingMethod]
	if !ok {
		method = shippingMethods["standard"]
	}

	return order{
		ExternalID:     data.ExternalID,
		Label:          data.ExternalID,
		LineItems:      toLineItems(data.Items),
		ShippingMethod: method,
		AddressTo:      toAddress(data.Address),
	}
}

// mapShippingRates maps Printify rates given in cents per shipping method.
func mapShippingRates(rates map[string]*int) []models.ShippingRate {
	methods := lo.Keys(rates)
	slices.Sort(methods)

	result := make([]models.ShippingRate, 0, len(methods))
	for _, method := range methods {
		cents := rates[method]
		if cents == nil || *cents <= 0 {
			continue
		}

		name, ok := shippingNames[method]
		if !ok {
			name = method
		}

		result = append(result, models.ShippingRate{
			Method:   method,
			Name:     name,
			Price:    decimal.New(int64(*cents), -2),
			Currency: currency,
		})
	}

	return result
}

func invalid(field, message string) error {
	return &platform.ValidationError{
		Provider: string(models.ProviderPrintify),
		Fields:   []string{field},
		Message:  message,
	}
}
