// Package reconciler compares fetched provider catalog with stored products.
package reconciler

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/samber/lo"
)

// Clock provides current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// Option is custom configuration of Reconciler.
type Option func(r *Reconciler)

// Reconciler computes differences between stored and fetched products.
// It has no side effects, applying the result is up to the caller.
type Reconciler struct {
	clock Clock
}

// NewReconciler returns new Reconciler.
func NewReconciler(ops ...Option) *Reconciler {
	r := &Reconciler{clock: systemClock{}}

	for _, op := range ops {
		op(r)
	}

	return r
}

// candidate is fetched product with its fingerprint.
type candidate struct {
	product     models.Product
	fingerprint string
}

// Reconcile splits fetched records into added, updated and unchanged products,
// stored products missing in fetched records into removed and failed records into errors.
//
// Products are matched by provider and external id. Identical duplicates of a product collapse
// into one, conflicting duplicates produce single error. Product with any failed record
// is never updated nor removed. All buckets are ordered by external id.
func (r Reconciler) Reconcile(stored []models.Product, fetched []models.FetchedProduct) *models.SyncResult {
	result := &models.SyncResult{
		Added:   []models.Product{},
		Updated: []models.Product{},
		Removed: []string{},
		Errors:  []models.SyncError{},
		Metadata: models.SyncMetadata{
			TotalProcessed: len(fetched),
			LastSyncedAt:   r.clock.Now(),
		},
	}

	failed := map[string]bool{}
	candidates := map[models.Key]*candidate{}
	conflicts := map[models.Key]bool{}

	for _, record := range fetched {
		if record.Error != nil || record.Product == nil {
			failed[record.ExternalID] = true
			result.Errors = append(result.Errors, models.SyncError{
				ProductID: record.ExternalID,
				Error:     errorMessage(record),
			})
			continue
		}

		if err := models.Validate(record.Product); err != nil {
			failed[record.ExternalID] = true
			result.Errors = append(result.Errors, models.SyncError{ProductID: record.ExternalID, Error: err.Error()})
			continue
		}

		key := record.Product.Key()
		fingerprint := record.Product.Fingerprint()

		existing, ok := candidates[key]
		if !ok {
			candidates[key] = &candidate{product: *record.Product, fingerprint: fingerprint}
			continue
		}
		if existing.fingerprint != fingerprint && !conflicts[key] {
			conflicts[key] = true
			result.Errors = append(result.Errors, models.SyncError{
				ProductID: key.ExternalID,
				Error:     fmt.Sprintf("conflicting duplicates of %s product %s", key.Provider, key.ExternalID),
			})
		}
	}

	for key := range conflicts {
		failed[key.ExternalID] = true
	}

	storedByKey := lo.Associate(stored, func(p models.Product) (models.Key, models.Product) {
		return p.Key(), p
	})

	now := result.Metadata.LastSyncedAt
	for key, c := range candidates {
		if failed[key.ExternalID] {
			continue
		}

		current, ok := storedByKey[key]
		if !ok {
			product := c.product
			product.ID = 0
			product.DeletedAt = nil
			result.Added = append(result.Added, product)
			continue
		}

		if current.DeletedAt == nil && current.Fingerprint() == c.fingerprint {
			result.Metadata.Unchanged++
			continue
		}

		product := c.product
		product.ID = current.ID
		product.StoreID = current.StoreID
		product.CreatedAt = current.CreatedAt
		product.UpdatedAt = now
		product.DeletedAt = nil
		result.Updated = append(result.Updated, product)
	}

	for key, current := range storedByKey {
		if current.DeletedAt != nil || failed[key.ExternalID] {
			continue
		}
		if _, ok := candidates[key]; ok {
			continue
		}
		result.Removed = append(result.Removed, key.ExternalID)
	}

	sortProducts(result.Added)
	sortProducts(result.Updated)
	slices.Sort(result.Removed)
	slices.SortStableFunc(result.Errors, func(a, b models.SyncError) int {
		if c := strings.Compare(a.ProductID, b.ProductID); c != 0 {
			return c
		}
		return strings.Compare(a.Error, b.Error)
	})

	return result
}

func sortProducts(products []models.Product) {
	slices.SortFunc(products, func(a, b models.Product) int {
		if c := strings.Compare(a.ExternalID, b.ExternalID); c != 0 {
			return c
		}
		return strings.Compare(string(a.Provider), string(b.Provider))
	})
}

func errorMessage(record models.FetchedProduct) string {
	if record.Error == nil {
		return "product is missing"
	}
	return record.Error.Error()
}

// WithClock sets Reconciler's custom Clock.
func WithClock(c Clock) Option {
	return func(r *Reconciler) {
		r.clock = c
	}
}
