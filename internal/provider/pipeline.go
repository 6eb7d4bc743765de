package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/MichalMitros/pod-sync/internal/decoder"
	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"golang.org/x/sync/errgroup"
)

// RawKey is metadata key holding supplier-native product record.
const RawKey = "raw"

// ItemMapper maps single raw supplier item into canonical product.
// It returns item's external id even when mapping fails, if the id could be read.
type ItemMapper func(raw json.RawMessage) (externalID string, product *models.Product, err error)

// DecodePage streams items array stored under field of supplier response body
// and maps every item with mapItem. Mapping or validation failure of single item
// is recorded on its FetchedProduct and doesn't fail the page.
// Other top-level fields of the response are returned raw.
// Failure of reading body, e.g. client timeout, is retryable NetworkError,
// body which can't be decoded is ProviderError.
func DecodePage(
	ctx context.Context,
	provider models.ProviderType,
	body io.Reader,
	field string,
	mapItem ItemMapper,
) ([]models.FetchedProduct, map[string]json.RawMessage, error) {
	items := make(chan decoder.Item)
	src := &bodyReader{r: body}

	var (
		fetched []models.FetchedProduct
		rest    map[string]json.RawMessage
	)

	errGroup, egCtx := errgroup.WithContext(ctx)

	// decode page.
	errGroup.Go(func() error {
		defer close(items)

		var err error
		rest, err = decoder.Decoder{}.Decode(egCtx, src, field, items)
		if err != nil {
			return fmt.Errorf("can't decode page: %w", err)
		}
		return nil
	})

	// map items.
	errGroup.Go(func() error {
		for item := range items {
			fetched = append(fetched, MapItem(item.Raw, mapItem))
		}
		return nil
	})

	if err := errGroup.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		if src.err != nil {
			return nil, nil, &platform.NetworkError{Provider: string(provider), Err: src.err}
		}
		return nil, nil, malformed(provider, err)
	}

	return fetched, rest, nil
}

// bodyReader remembers first read error other than io.EOF.
type bodyReader struct {
	r   io.Reader
	err error
}

func (b *bodyReader) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && b.err == nil {
		b.err = err
	}
	return n, err
}

// DecodeFields decodes raw response fields returned by DecodePage into out.
func DecodeFields(provider models.ProviderType, fields map[string]json.RawMessage, out any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return malformed(provider, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return malformed(provider, err)
	}
	return nil
}

func malformed(provider models.ProviderType, err error) error {
	return &platform.ProviderError{
		Provider:   string(provider),
		StatusCode: http.StatusOK,
		Message:    "malformed response: " + err.Error(),
	}
}

// MapItem maps and validates single raw supplier item.
// Failed item's ExternalID is empty when its id couldn't be read.
func MapItem(raw json.RawMessage, mapItem ItemMapper) models.FetchedProduct {
	externalID, product, err := mapItem(raw)
	if err == nil {
		err = models.Validate(product)
	}

	if err != nil {
		return models.FetchedProduct{ExternalID: externalID, Error: err}
	}

	return models.FetchedProduct{ExternalID: externalID, Product: product}
}

// RawMetadata decodes supplier record into metadata map under RawKey.
func RawMetadata(raw json.RawMessage) map[string]any {
	var native any
	if err := json.Unmarshal(raw, &native); err != nil {
		return nil
	}
	return map[string]any{RawKey: native}
}

// CollectInventory walks all catalog pages and returns availability of every mapped variant.
// Items which failed mapping are skipped.
func CollectInventory(ctx context.Context, pages PageFetcher, limit int) ([]models.InventoryLevel, error) {
	var (
		levels []models.InventoryLevel
		opts   = models.PageOptions{Limit: limit}
	)

	for {
		page, err := pages.GetProducts(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("can't fetch products page: %w", err)
		}

		for _, item := range page.Items {
			if item.Error != nil || item.Product == nil {
				continue
			}
			for _, variant := range item.Product.Variants {
				levels = append(levels, models.InventoryLevel{
					ProductID: item.ExternalID,
					VariantID: variant.ExternalID,
					SKU:       variant.SKU,
					Available: variant.Available,
				})
			}
		}

		if !page.HasMore || page.Cursor == "" || page.Cursor == opts.Cursor {
			return levels, nil
		}
		opts.Cursor = page.Cursor
	}
}
