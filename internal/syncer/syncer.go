// Package syncer runs catalog syncs of provider stores.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/MichalMitros/pod-sync/internal/platform/metrics"
	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/MichalMitros/pod-sync/internal/provider"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

//go:generate mockery --name Storage --filename storage.go
//go:generate mockery --name Reconciler --filename reconciler.go

const (
	// DefaultCheckpointTTL is age after which checkpoint is no longer resumed.
	DefaultCheckpointTTL = time.Hour
)

// Storage is products, runs and checkpoints storage.
type Storage interface {
	// StartRun creates new run if there is no unfinished run of store and provider.
	// Returns platform.ErrAlreadyRunning otherwise.
	StartRun(ctx context.Context, storeID string, provider models.ProviderType) (*models.Run, error)
	// FinishRun finishes provided run and updates its statistics.
	FinishRun(ctx context.Context, run *models.Run) error
	// GetCheckpoint returns saved checkpoint or platform.ErrNotFound.
	GetCheckpoint(ctx context.Context, storeID string, provider models.ProviderType) (*models.Checkpoint, error)
	// SaveCheckpoint saves fetching progress, replacing previously saved one.
	SaveCheckpoint(ctx context.Context, checkpoint *models.Checkpoint) error
	// AppendCheckpoint updates saved progress and appends items fetched since last save.
	AppendCheckpoint(ctx context.Context, checkpoint *models.Checkpoint, items []models.FetchedProduct) error
	// ListProducts returns all stored products of store and provider, removed ones included.
	ListProducts(ctx context.Context, storeID string, provider models.ProviderType) ([]models.Product, error)
	// ApplySync applies result in single transaction and clears checkpoint.
	ApplySync(ctx context.Context, storeID string, provider models.ProviderType, result *models.SyncResult) error
}

// Reconciler computes changes between stored and fetched products.
type Reconciler interface {
	Reconcile(stored []models.Product, fetched []models.FetchedProduct) *models.SyncResult
}

// Clock provides times.
type Clock interface {
	// Now returns current UTC time.
	Now() time.Time
}

// Option is custom configuration of Syncer.
type Option func(s *Syncer)

// Syncer fetches provider catalog page by page and reconciles it with stored products.
type Syncer struct {
	storage       Storage
	reconciler    Reconciler
	log           *zerolog.Logger
	clock         Clock
	pageSize      int
	checkpointTTL time.Duration
}

// NewSyncer returns new Syncer.
func NewSyncer(storage Storage, reconciler Reconciler, log *zerolog.Logger, ops ...Option) *Syncer {
	s := &Syncer{
		storage:       storage,
		reconciler:    reconciler,
		log:           log,
		clock:         systemClock{},
		pageSize:      provider.DefaultPageSize,
		checkpointTTL: DefaultCheckpointTTL,
	}

	for _, op := range ops {
		op(s)
	}

	return s
}

// SyncCatalog syncs whole catalog fetched from pages with products stored for creds.StoreID.
// Fetching resumes from the last saved checkpoint unless it is older than checkpoint TTL.
func (s *Syncer) SyncCatalog(
	ctx context.Context,
	creds models.Credentials,
	pages provider.PageFetcher,
) (*models.SyncResult, error) {
	providerType := pages.Type()
	startedAt := s.clock.Now()

	run, err := s.storage.StartRun(ctx, creds.StoreID, providerType)
	if err != nil {
		return nil, fmt.Errorf("can't start sync: %w", err)
	}

	log := s.log.With().Str("storeId", creds.StoreID).Str("provider", string(providerType)).Int("runId", run.ID).Logger()

	checkpoint, err := s.loadCheckpoint(ctx, creds.StoreID, providerType)
	if err != nil {
		return nil, s.finishSync(ctx, run, nil, err)
	}
	if checkpoint.Cursor != "" || checkpoint.Complete {
		log.Info().Str("cursor", checkpoint.Cursor).Int("items", len(checkpoint.Items)).Msg("resuming sync from checkpoint")
	}

	if err := s.fetchPages(ctx, &log, pages, checkpoint); err != nil {
		return nil, s.finishSync(ctx, run, nil, err)
	}

	stored, err := s.storage.ListProducts(ctx, creds.StoreID, providerType)
	if err != nil {
		return nil, s.finishSync(ctx, run, nil, fmt.Errorf("can't list stored products: %w", err))
	}

	result := s.reconciler.Reconcile(stored, checkpoint.Items)
	lo.ForEach(result.Added, func(_ models.Product, ix int) { result.Added[ix].StoreID = creds.StoreID })

	if err := s.storage.ApplySync(ctx, creds.StoreID, providerType, result); err != nil {
		return nil, s.finishSync(ctx, run, result, fmt.Errorf("can't apply sync result: %w", err))
	}

	if err := s.finishSync(ctx, run, result, nil); err != nil {
		return nil, err
	}

	metrics.ObserveSync(providerType, result, s.clock.Now().Sub(startedAt))
	log.Info().
		Int("added", len(result.Added)).
		Int("updated", len(result.Updated)).
		Int("removed", len(result.Removed)).
		Int("failed", len(result.Errors)).
		Int("unchanged", result.Metadata.Unchanged).
		Msg("catalog synced")

	return result, nil
}

// loadCheckpoint returns fresh saved checkpoint or empty one.
func (s *Syncer) loadCheckpoint(
	ctx context.Context,
	storeID string,
	providerType models.ProviderType,
) (*models.Checkpoint, error) {
	empty := &models.Checkpoint{StoreID: storeID, Provider: providerType}

	checkpoint, err := s.storage.GetCheckpoint(ctx, storeID, providerType)
	if errors.Is(err, platform.ErrNotFound) {
		return empty, nil
	}
	if err != nil {
		return nil, fmt.Errorf("can't get checkpoint: %w", err)
	}

	if s.clock.Now().Sub(checkpoint.UpdatedAt) > s.checkpointTTL {
		return empty, nil
	}

	return checkpoint, nil
}

// fetchPages fetches pages starting at checkpoint's cursor and saves checkpoint after every page.
// Only items of the fetched page are written, checkpoint not saved yet is written whole.
func (s *Syncer) fetchPages(
	ctx context.Context,
	log *zerolog.Logger,
	pages provider.PageFetcher,
	checkpoint *models.Checkpoint,
) error {
	// loaded checkpoint has been saved, new one has zero UpdatedAt.
	saved := !checkpoint.UpdatedAt.IsZero()

	for !checkpoint.Complete {
		page, err := pages.GetProducts(ctx, models.PageOptions{Limit: s.pageSize, Cursor: checkpoint.Cursor})
		if err != nil {
			return fmt.Errorf("can't fetch products page %q: %w", checkpoint.Cursor, err)
		}

		// item without readable id is reported by its position in the whole catalog.
		offset := len(checkpoint.Items)
		for ix := range page.Items {
			if page.Items[ix].ExternalID == "" {
				page.Items[ix].ExternalID = fmt.Sprintf("#%d", offset+ix)
			}
		}

		checkpoint.Items = append(checkpoint.Items, page.Items...)
		// unchanged cursor would fetch the same page forever.
		if !page.HasMore || page.Cursor == "" || page.Cursor == checkpoint.Cursor {
			checkpoint.Complete = true
		} else {
			checkpoint.Cursor = page.Cursor
		}
		checkpoint.UpdatedAt = s.clock.Now()

		if saved {
			err = s.storage.AppendCheckpoint(ctx, checkpoint, page.Items)
		} else {
			err = s.storage.SaveCheckpoint(ctx, checkpoint)
		}
		if err != nil {
			return fmt.Errorf("can't save checkpoint: %w", err)
		}
		saved = true

		log.Debug().Int("items", len(page.Items)).Int("total", page.TotalCount).Str("cursor", page.Cursor).Msg("products page fetched")
	}

	return nil
}

func (s *Syncer) finishSync(ctx context.Context, run *models.Run, result *models.SyncResult, status error) error {
	if result != nil {
		run.AddedProducts = lo.ToPtr(int32(len(result.Added)))
		run.UpdatedProducts = lo.ToPtr(int32(len(result.Updated)))
		run.RemovedProducts = lo.ToPtr(int32(len(result.Removed)))
		run.FailedProducts = lo.ToPtr(int32(len(result.Errors)))
		run.Errors = result.Errors
	}
	if status != nil {
		run.StatusMessage = lo.ToPtr(status.Error())
		metrics.ObserveSync(run.Provider, nil, s.clock.Now().Sub(run.CreatedAt))
	}
	run.IsSuccess = lo.ToPtr(status == nil)
	run.FinishedAt = lo.ToPtr(s.clock.Now())

	err := s.storage.FinishRun(ctx, run)
	if err != nil && status == nil {
		return fmt.Errorf("can't finish sync: %w", err)
	}

	if err != nil && status != nil {
		return fmt.Errorf("can't finish failed sync: %w (fail reason: %w)", err, status)
	}

	return status
}

// WithClock sets Syncer's custom Clock.
func WithClock(c Clock) Option {
	return func(s *Syncer) {
		s.clock = c
	}
}

// WithPageSize sets number of products fetched per page.
func WithPageSize(size int) Option {
	return func(s *Syncer) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// WithCheckpointTTL sets age after which checkpoint is discarded.
func WithCheckpointTTL(ttl time.Duration) Option {
	return func(s *Syncer) {
		s.checkpointTTL = ttl
	}
}
