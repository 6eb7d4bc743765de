package provider

import (
	"fmt"
	"maps"
	"strconv"

	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/samber/lo"
)

// Metadata keys of product drafts.
const (
	BlueprintIDKey     = "blueprintId"
	PrintProviderIDKey = "printProviderId"
)

// DraftProduct returns canonical product described by create payload.
func DraftProduct(provider models.ProviderType, data models.ProductData) models.Product {
	metadata := maps.Clone(data.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}
	if data.BlueprintID != "" {
		metadata[BlueprintIDKey] = data.BlueprintID
	}
	if data.PrintProviderID != "" {
		metadata[PrintProviderIDKey] = data.PrintProviderID
	}

	return models.Product{
		Provider:    provider,
		ExternalID:  data.ExternalID,
		Title:       data.Title,
		Description: data.Description,
		Variants: lo.Map(data.Variants, func(v models.VariantData, _ int) models.Variant {
			return models.Variant{
				ExternalID: v.ExternalID,
				SKU:        v.SKU,
				Price:      v.Price,
				Available:  v.Enabled,
			}
		}),
		Images:   data.Images,
		Metadata: metadata,
	}
}

// MetadataString returns metadata value under key formatted as string.
func MetadataString(metadata map[string]any, key string) string {
	switch value := metadata[key].(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case nil:
		return ""
	default:
		return fmt.Sprint(value)
	}
}

// MetadataInt returns metadata value under key as int. Zero is returned when value isn't numeric.
func MetadataInt(metadata map[string]any, key string) int {
	n, err := strconv.Atoi(MetadataString(metadata, key))
	if err != nil {
		return 0
	}
	return n
}
