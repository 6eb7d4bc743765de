package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
	"strings"
)

// fingerprintContent holds fields which are compared between syncs.
type fingerprintContent struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Variants    []Variant      `json:"variants"`
	Images      []Image        `json:"images"`
	Metadata    map[string]any `json:"metadata"`
}

// Fingerprint returns hash of product's synced content.
// Variants and images order doesn't affect the result, storage identifiers and timestamps are ignored.
func (p *Product) Fingerprint() string {
	content := fingerprintContent{
		Title:       p.Title,
		Description: p.Description,
		Variants:    make([]Variant, 0, len(p.Variants)),
		Images:      make([]Image, 0, len(p.Images)),
		Metadata:    emptyToNil(p.Metadata),
	}

	// nil and empty collections are equal after storage round trip.
	for _, v := range p.Variants {
		v.Metadata = emptyToNil(v.Metadata)
		if len(v.Options) == 0 {
			v.Options = nil
		}
		content.Variants = append(content.Variants, v)
	}
	for _, img := range p.Images {
		if len(img.VariantIDs) == 0 {
			img.VariantIDs = nil
		} else {
			img.VariantIDs = slices.Sorted(slices.Values(img.VariantIDs))
		}
		content.Images = append(content.Images, img)
	}

	slices.SortFunc(content.Variants, func(a, b Variant) int {
		return strings.Compare(a.ExternalID, b.ExternalID)
	})
	slices.SortFunc(content.Images, func(a, b Image) int {
		if a.Position != b.Position {
			return a.Position - b.Position
		}
		return strings.Compare(a.URL, b.URL)
	})

	// map keys are sorted by encoding/json, so encoding is stable.
	raw, err := json.Marshal(content)
	if err != nil {
		// metadata decoded from JSON always encodes back.
		return ""
	}

	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func emptyToNil(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return m
}
