package gooten

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/MichalMitros/pod-sync/internal/provider"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const defaultCurrency = "USD"

// mapProduct maps Gooten partner product into canonical product. Variants are identified by SKU.
func mapProduct(raw json.RawMessage) (string, *models.Product, error) {
	var native product
	if err := json.Unmarshal(raw, &native); err != nil {
		return "", nil, fmt.Errorf("can't decode gooten product: %w", err)
	}

	if native.ID == "" {
		return "", nil, invalid([]string{"Id"}, "product has no id")
	}

	variants := make([]models.Variant, 0, len(native.Variants))
	for ix, v := range native.Variants {
		if v.Price == nil {
			return native.ID, nil, invalid([]string{fmt.Sprintf("Variants[%d].Price", ix)}, fmt.Sprintf("variant %s has no price", v.SKU))
		}

		variants = append(variants, models.Variant{
			ExternalID: v.SKU,
			SKU:        v.SKU,
			Title:      v.Name,
			Price:      lo.ToPtr(v.Price.Price),
			Currency:   v.Price.CurrencyCode,
			Available:  v.IsAvailable == nil || *v.IsAvailable,
			Options: lo.Associate(v.Options, func(opt option) (string, string) {
				return opt.Name, opt.Value
			}),
		})
	}

	images := lo.Map(native.Images, func(img image, _ int) models.Image {
		return models.Image{URL: img.URL, Position: img.Index, IsDefault: img.IsDefault, VariantIDs: img.SKUs}
	})

	return native.ID, &models.Product{
		Provider:    models.ProviderGooten,
		ExternalID:  native.ID,
		Title:       native.Name,
		Description: native.Description,
		Variants:    variants,
		Images:      images,
		Metadata:    provider.RawMetadata(raw),
	}, nil
}

// toNative maps canonical product into Gooten partner product.
func toNative(p models.Product) (product, error) {
	native := product{
		ID:          p.ExternalID,
		Name:        p.Title,
		Description: p.Description,
		Variants:    make([]variant, 0, len(p.Variants)),
	}

	for ix, v := range p.Variants {
		if v.Price == nil {
			return product{}, invalid([]string{fmt.Sprintf("variants[%d].price", ix)}, "price is required")
		}

		sku := lo.Ternary(v.SKU != "", v.SKU, v.ExternalID)
		options := lo.MapToSlice(v.Options, func(name, value string) option {
			return option{Name: name, Value: value}
		})
		slices.SortFunc(options, func(a, b option) int { return strings.Compare(a.Name, b.Name) })

		native.Variants = append(native.Variants, variant{
			SKU:         sku,
			Name:        v.Title,
			Price:       &price{Price: *v.Price, CurrencyCode: lo.Ternary(v.Currency != "", v.Currency, defaultCurrency)},
			Options:     options,
			IsAvailable: lo.ToPtr(v.Available),
		})
	}

	native.Images = lo.Map(p.Images, func(img models.Image, _ int) image {
		return image{URL: img.URL, Index: img.Position, IsDefault: img.IsDefault, SKUs: img.VariantIDs}
	})

	return native, nil
}

func toAddress(a models.Address) address {
	return address{
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Line1:       a.Line1,
		Line2:       a.Line2,
		City:        a.City,
		State:       a.Region,
		CountryCode: a.CountryCode,
		PostalCode:  a.PostalCode,
		Phone:       a.Phone,
		Email:       a.Email,
	}
}

func toOrderItems(items []models.OrderItem, shipType string) []orderItem {
	return lo.Map(items, func(item models.OrderItem, _ int) orderItem {
		return orderItem{
			SKU:      lo.Ternary(item.SKU != "", item.SKU, item.VariantID),
			Quantity: item.Quantity,
			ShipType: shipType,
		}
	})
}

// mapShippingRates sums per item prices of shipping methods offered for every item.
func mapShippingRates(items []itemShipping) []models.ShippingRate {
	if len(items) == 0 {
		return []models.ShippingRate{}
	}

	type total struct {
		rate  models.ShippingRate
		items int
	}
	totals := map[string]*total{}

	for _, item := range items {
		for _, opt := range item.ShipOptions {
			method := strings.ToLower(opt.MethodType)
			t, ok := totals[method]
			if !ok {
				t = &total{rate: models.ShippingRate{
					Method:   method,
					Name:     opt.Name,
					Price:    decimal.Zero,
					Currency: opt.Price.CurrencyCode,
				}}
				totals[method] = t
			}

			t.items++
			t.rate.Price = t.rate.Price.Add(opt.Price.Price)
			if days := opt.EstBusinessDaysTilDelivery; days != nil {
				if t.rate.MaxDeliveryDays == nil || *days > *t.rate.MaxDeliveryDays {
					t.rate.MaxDeliveryDays = lo.ToPtr(*days)
				}
			}
		}
	}

	rates := make([]models.ShippingRate, 0, len(totals))
	for _, t := range totals {
		if t.items == len(items) {
			rates = append(rates, t.rate)
		}
	}
	slices.SortFunc(rates, func(a, b models.ShippingRate) int { return a.Price.Cmp(b.Price) })

	return rates
}

// check returns ValidationError describing Gooten response reported as failed.
func (r result) check() error {
	if !r.HadError {
		return nil
	}

	return invalid(
		lo.FilterMap(r.Errors, func(e fieldError, _ int) (string, bool) { return e.PropertyName, e.PropertyName != "" }),
		strings.Join(lo.Map(r.Errors, func(e fieldError, _ int) string { return e.ErrorMessage }), "; "),
	)
}

func invalid(fields []string, message string) error {
	return &platform.ValidationError{
		Provider: string(models.ProviderGooten),
		Fields:   fields,
		Message:  message,
	}
}
