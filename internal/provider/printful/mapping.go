package printful

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/MichalMitros/pod-sync/internal/provider"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const catalogVariantKey = "catalogVariantId"

// mapProduct maps Printful sync product detail into canonical product.
func mapProduct(raw json.RawMessage) (string, *models.Product, error) {
	var native detail
	if err := json.Unmarshal(raw, &native); err != nil {
		return "", nil, fmt.Errorf("can't decode printful product: %w", err)
	}

	if native.SyncProduct.ID == 0 {
		return "", nil, invalid("sync_product.id", "product has no id")
	}
	externalID := strconv.FormatInt(native.SyncProduct.ID, 10)

	variants := make([]models.Variant, 0, len(native.SyncVariants))
	images := []models.Image{}
	seen := map[string]int{}

	addImage := func(url string, variantID string, isDefault bool) {
		if url == "" {
			return
		}
		if ix, ok := seen[url]; ok {
			if variantID != "" && !lo.Contains(images[ix].VariantIDs, variantID) {
				images[ix].VariantIDs = append(images[ix].VariantIDs, variantID)
			}
			return
		}
		seen[url] = len(images)
		image := models.Image{URL: url, Position: len(images), IsDefault: isDefault}
		if variantID != "" {
			image.VariantIDs = []string{variantID}
		}
		images = append(images, image)
	}

	addImage(native.SyncProduct.ThumbnailURL, "", true)

	for ix, v := range native.SyncVariants {
		variantID := strconv.FormatInt(v.ID, 10)

		if strings.TrimSpace(v.RetailPrice) == "" {
			return externalID, nil, invalid(fmt.Sprintf("sync_variants[%d].retail_price", ix), fmt.Sprintf("variant %s has no price", variantID))
		}
		price, err := decimal.NewFromString(v.RetailPrice)
		if err != nil {
			return externalID, nil, invalid(fmt.Sprintf("sync_variants[%d].retail_price", ix), fmt.Sprintf("variant %s has malformed price %q", variantID, v.RetailPrice))
		}

		options := lo.Associate(v.Options, func(opt variantOption) (string, string) {
			return opt.ID, fmt.Sprint(opt.Value)
		})

		for _, f := range v.Files {
			if f.Type == "preview" {
				addImage(f.PreviewURL, variantID, false)
			}
		}

		variants = append(variants, models.Variant{
			ExternalID: variantID,
			SKU:        v.SKU,
			Title:      v.Name,
			Price:      &price,
			Currency:   v.Currency,
			Available:  !v.IsIgnored && (v.AvailabilityStatus == "" || v.AvailabilityStatus == "active"),
			Options:    options,
			Metadata: map[string]any{
				catalogVariantKey: strconv.FormatInt(v.VariantID, 10),
				"externalId":      v.ExternalID,
			},
		})
	}

	metadata := provider.RawMetadata(raw)
	if native.SyncProduct.ExternalID != "" {
		metadata["externalId"] = native.SyncProduct.ExternalID
	}

	return externalID, &models.Product{
		Provider:   models.ProviderPrintful,
		ExternalID: externalID,
		Title:      native.SyncProduct.Name,
		Variants:   variants,
		Images:     images,
		Metadata:   metadata,
	}, nil
}

// toNative maps canonical product into Printful sync product.
func toNative(p models.Product) (detail, error) {
	native := detail{
		SyncProduct: syncProduct{
			ExternalID: provider.MetadataString(p.Metadata, "externalId"),
			Name:       p.Title,
		},
		SyncVariants: make([]syncVariant, 0, len(p.Variants)),
	}

	if id, err := strconv.ParseInt(p.ExternalID, 10, 64); err == nil {
		native.SyncProduct.ID = id
	}

	if image, ok := lo.Find(p.Images, func(img models.Image) bool { return img.IsDefault }); ok {
		native.SyncProduct.ThumbnailURL = image.URL
	}

	for ix, v := range p.Variants {
		if v.Price == nil {
			return detail{}, invalid(fmt.Sprintf("variants[%d].price", ix), "price is required")
		}

		catalogID, err := strconv.ParseInt(provider.MetadataString(v.Metadata, catalogVariantKey), 10, 64)
		if err != nil && v.Metadata[catalogVariantKey] == nil {
			// drafts reference catalog variants directly.
			catalogID, err = strconv.ParseInt(v.ExternalID, 10, 64)
		}
		if err != nil {
			return detail{}, invalid(fmt.Sprintf("variants[%d].metadata.%s", ix, catalogVariantKey), "printful catalog variant id is required")
		}

		sv := syncVariant{
			ExternalID:  externalVariantID(v),
			Name:        v.Title,
			VariantID:   catalogID,
			RetailPrice: v.Price.StringFixed(2),
			Currency:    v.Currency,
			SKU:         v.SKU,
		}
		if id, err := strconv.ParseInt(v.ExternalID, 10, 64); err == nil {
			sv.ID = id
		}

		for _, img := range p.Images {
			if lo.Contains(img.VariantIDs, v.ExternalID) || len(p.Variants) == 1 && !img.IsDefault {
				sv.Files = append(sv.Files, file{URL: img.URL})
			}
		}

		native.SyncVariants = append(native.SyncVariants, sv)
	}

	return native, nil
}

// toCreateRequest returns product creation payload. Supplier assigned ids are never sent.
func toCreateRequest(p models.Product) (detail, error) {
	native, err := toNative(p)
	if err != nil {
		return detail{}, err
	}

	native.SyncProduct.ID = 0
	if native.SyncProduct.ExternalID == "" {
		native.SyncProduct.ExternalID = p.ExternalID
	}
	for ix := range native.SyncVariants {
		native.SyncVariants[ix].ID = 0
	}

	return native, nil
}

func externalVariantID(v models.Variant) string {
	if id := provider.MetadataString(v.Metadata, "externalId"); id != "" {
		return id
	}
	return v.ExternalID
}

func toRecipient(a models.Address) recipient {
	return recipient{
		Name:        strings.TrimSpace(a.FirstName + " " + a.LastName),
		Address1:    a.Line1,
		Address2:    a.Line2,
		City:        a.City,
		StateCode:   a.Region,
		CountryCode: a.CountryCode,
		Zip:         a.PostalCode,
		Email:       a.Email,
		Phone:       a.Phone,
	}
}

func toOrderItems(items []models.OrderItem) []orderItem {
	return lo.Map(items, func(item models.OrderItem, _ int) orderItem {
		if id, err := strconv.ParseInt(item.VariantID, 10, 64); err == nil {
			return orderItem{SyncVariantID: id, Quantity: item.Quantity}
		}
		return orderItem{ExternalVariantID: item.VariantID, Quantity: item.Quantity}
	})
}

func mapShippingRates(rates []shippingRate) ([]models.ShippingRate, error) {
	result := make([]models.ShippingRate, 0, len(rates))
	for _, rate := range rates {
		price, err := decimal.NewFromString(rate.Rate)
		if err != nil {
			return nil, &platform.ProviderError{
				Provider:   string(models.ProviderPrintful),
				StatusCode: 200,
				Message:    fmt.Sprintf("malformed shipping rate %q", rate.Rate),
			}
		}

		result = append(result, models.ShippingRate{
			Method:          rate.ID,
			Name:            rate.Name,
			Price:           price,
			Currency:        rate.Currency,
			MinDeliveryDays: rate.MinDeliveryDays,
			MaxDeliveryDays: rate.MaxDeliveryDays,
		})
	}

	return result, nil
}

func invalid(field, message string) error {
	return &platform.ValidationError{
		Provider: string(models.ProviderPrintful),
		Fields:   []string{field},
		Message:  message,
	}
}
