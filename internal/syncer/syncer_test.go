package syncer_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/MichalMitros/pod-sync/internal/platform/models/modelstesting"
	providermocks "github.com/MichalMitros/pod-sync/internal/provider/mocks"
	"github.com/MichalMitros/pod-sync/internal/reconciler"
	"github.com/MichalMitros/pod-sync/internal/syncer"
	"github.com/MichalMitros/pod-sync/internal/syncer/mocks"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// reusable test data
var (
	pageSize  = 2
	storeID   = "store-1"
	createdAt = time.Date(2024, time.April, 1, 1, 0, 0, 0, time.UTC)
	now       = time.Date(2024, time.April, 1, 1, 1, 1, 0, time.UTC)
	creds     = models.Credentials{StoreID: storeID, Provider: models.ProviderPrintify, APIKey: "key"}
	products  = []models.Product{
		modelstesting.FakeProduct(func(p *models.Product) { p.ExternalID = "1"; p.StoreID = "" }),
		modelstesting.FakeProduct(func(p *models.Product) { p.ExternalID = "3"; p.StoreID = "" }),
	}
	errShouldContainAssertErrorMsg = "should return error containing assert.AnError"
)

func TestUnitSyncCatalog(t *testing.T) {
	storage := mocks.NewStorage(t)
	pages := newPages(t)

	firstPage := &models.ProductList{
		Items: append(
			modelstesting.Fetched(products[0]),
			models.FetchedProduct{ExternalID: "2", Error: assert.AnError},
		),
		TotalCount: 3,
		HasMore:    true,
		Cursor:     "2",
	}
	secondPage := &models.ProductList{Items: modelstesting.Fetched(products[1]), TotalCount: 3}

	mockStartRun(storage, nil)
	storage.On("GetCheckpoint", mock.Anything, storeID, models.ProviderPrintify).Return(nil, platform.ErrNotFound).Once()
	mockPage(pages, "", firstPage, nil)
	mockPage(pages, "2", secondPage, nil)
	storage.On("SaveCheckpoint", mock.Anything, mock.MatchedBy(func(cp *models.Checkpoint) bool {
		return cp.Cursor == "2" && !cp.Complete && len(cp.Items) == 2
	})).Return(nil).Once()
	storage.On("AppendCheckpoint", mock.Anything, mock.MatchedBy(func(cp *models.Checkpoint) bool {
		return cp.Cursor == "2" && cp.Complete && len(cp.Items) == 3 && cp.UpdatedAt.Equal(now)
	}), secondPage.Items).Return(nil).Once()
	storage.On("ListProducts", mock.Anything, storeID, models.ProviderPrintify).Return([]models.Product{}, nil).Once()
	storage.On("ApplySync", mock.Anything, storeID, models.ProviderPrintify, mock.MatchedBy(func(r *models.SyncResult) bool {
		return len(r.Added) == 2 && r.Added[0].StoreID == storeID && r.Added[1].StoreID == storeID
	})).Return(nil).Once()

	wantErrors := []models.SyncError{{ProductID: "2", Error: assert.AnError.Error()}}
	mockFinishRun(storage, &models.Run{
		ID:              1,
		StoreID:         storeID,
		Provider:        models.ProviderPrintify,
		CreatedAt:       createdAt,
		FinishedAt:      &now,
		IsSuccess:       lo.ToPtr(true),
		AddedProducts:   lo.ToPtr(int32(2)),
		UpdatedProducts: lo.ToPtr(int32(0)),
		RemovedProducts: lo.ToPtr(int32(0)),
		FailedProducts:  lo.ToPtr(int32(1)),
		Errors:          wantErrors,
	}, nil)

	result, err := newSyncer(storage).SyncCatalog(context.TODO(), creds, pages)

	require.NoError(t, err, "shouldn't return any error")
	assert.Equal(t, []string{"1", "3"}, lo.Map(result.Added, func(p models.Product, _ int) string { return p.ExternalID }))
	assert.Equal(t, wantErrors, result.Errors, "failed item should be reported once")
	assert.Equal(t, 3, result.Metadata.TotalProcessed)
}

func TestUnitSyncCatalogResumesFromCheckpoint(t *testing.T) {
	storage := mocks.NewStorage(t)
	pages := newPages(t)
	rateLimited := &platform.RateLimitError{Provider: "printify", RetryAfter: 30 * time.Second}

	var saved *models.Checkpoint
	storage.On("SaveCheckpoint", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		cp := *args.Get(1).(*models.Checkpoint)
		cp.Items = slices.Clone(cp.Items)
		saved = &cp
	}).Return(nil)
	storage.On("GetCheckpoint", mock.Anything, storeID, models.ProviderPrintify).Return(nil, platform.ErrNotFound).Once()
	mockStartRun(storage, nil)

	mockPage(pages, "", &models.ProductList{Items: modelstesting.Fetched(products[0]), HasMore: true, Cursor: "2"}, nil)
	mockPage(pages, "2", nil, rateLimited)
	storage.On("FinishRun", mock.Anything, mock.MatchedBy(func(r *models.Run) bool {
		return !*r.IsSuccess
	})).Return(nil).Once()

	s := newSyncer(storage)

	_, err := s.SyncCatalog(context.TODO(), creds, pages)

	var rateLimitErr *platform.RateLimitError
	require.ErrorAs(t, err, &rateLimitErr, "should return rate limit error")
	retryAfter, ok := platform.RetryAfter(err)
	assert.True(t, ok)
	assert.Equal(t, 30*time.Second, retryAfter, "should keep retry after hint")
	require.NotNil(t, saved)
	assert.Equal(t, "2", saved.Cursor, "should checkpoint last successful cursor")

	// retried sync fetches only remaining page and appends it to saved checkpoint.
	storage.On("GetCheckpoint", mock.Anything, storeID, models.ProviderPrintify).Return(saved, nil).Once()
	mockPage(pages, "2", &models.ProductList{Items: modelstesting.Fetched(products[1])}, nil)
	storage.On("AppendCheckpoint", mock.Anything, mock.Anything, modelstesting.Fetched(products[1])).Return(nil).Once()
	storage.On("ListProducts", mock.Anything, storeID, models.ProviderPrintify).Return(nil, nil).Once()
	storage.On("ApplySync", mock.Anything, storeID, models.ProviderPrintify, mock.Anything).Return(nil).Once()
	storage.On("FinishRun", mock.Anything, mock.MatchedBy(func(r *models.Run) bool {
		return *r.IsSuccess
	})).Return(nil).Once()

	result, err := s.SyncCatalog(context.TODO(), creds, pages)

	require.NoError(t, err)
	assert.Len(t, result.Added, 2, "should reconcile items from checkpoint and remaining page")
}

func TestUnitSyncCatalogDiscardsStaleCheckpoint(t *testing.T) {
	storage := mocks.NewStorage(t)
	pages := newPages(t)

	mockStartRun(storage, nil)
	storage.On("GetCheckpoint", mock.Anything, storeID, models.ProviderPrintify).Return(&models.Checkpoint{
		StoreID:   storeID,
		Provider:  models.ProviderPrintify,
		Cursor:    "5",
		Items:     modelstesting.Fetched(modelstesting.FakeProduct()),
		UpdatedAt: now.Add(-2 * syncer.DefaultCheckpointTTL),
	}, nil).Once()
	mockPage(pages, "", &models.ProductList{Items: modelstesting.Fetched(products...)}, nil)
	storage.On("SaveCheckpoint", mock.Anything, mock.Anything).Return(nil).Once()
	storage.On("ListProducts", mock.Anything, storeID, models.ProviderPrintify).Return(nil, nil).Once()
	storage.On("ApplySync", mock.Anything, storeID, models.ProviderPrintify, mock.Anything).Return(nil).Once()
	storage.On("FinishRun", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := newSyncer(storage).SyncCatalog(context.TODO(), creds, pages)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Metadata.TotalProcessed, "stale checkpoint items shouldn't be reconciled")
}

func TestUnitSyncCatalogItemsWithoutID(t *testing.T) {
	storage := mocks.NewStorage(t)
	pages := newPages(t)

	mockStartRun(storage, nil)
	storage.On("GetCheckpoint", mock.Anything, storeID, models.ProviderPrintify).Return(nil, platform.ErrNotFound).Once()
	mockPage(pages, "", &models.ProductList{
		Items:   append(modelstesting.Fetched(products[0]), models.FetchedProduct{Error: assert.AnError}),
		HasMore: true,
		Cursor:  "2",
	}, nil)
	mockPage(pages, "2", &models.ProductList{Items: []models.FetchedProduct{{Error: assert.AnError}}}, nil)
	storage.On("SaveCheckpoint", mock.Anything, mock.Anything).Return(nil).Once()
	storage.On("AppendCheckpoint", mock.Anything, mock.Anything, []models.FetchedProduct{{ExternalID: "#2", Error: assert.AnError}}).
		Return(nil).Once()
	storage.On("ListProducts", mock.Anything, storeID, models.ProviderPrintify).Return(nil, nil).Once()
	storage.On("ApplySync", mock.Anything, storeID, models.ProviderPrintify, mock.Anything).Return(nil).Once()
	storage.On("FinishRun", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := newSyncer(storage).SyncCatalog(context.TODO(), creds, pages)

	require.NoError(t, err)
	assert.Equal(t, []string{"#1", "#2"}, lo.Map(result.Errors, func(e models.SyncError, _ int) string { return e.ProductID }),
		"items on different pages should be reported separately")
}

func TestUnitSyncCatalogStorageError(t *testing.T) {
	t.Run("start run error", func(t *testing.T) {
		storage := mocks.NewStorage(t)
		pages := newPages(t)

		mockStartRun(storage, platform.ErrAlreadyRunning)

		_, err := newSyncer(storage).SyncCatalog(context.TODO(), creds, pages)

		require.ErrorContains(t, err, "can't start sync", "should return error about failed sync start")
		require.ErrorIs(t, err, platform.ErrAlreadyRunning)
	})

	t.Run("apply error", func(t *testing.T) {
		storage := mocks.NewStorage(t)
		pages := newPages(t)
		rec := mocks.NewReconciler(t)

		result := &models.SyncResult{
			Added:   []models.Product{products[0]},
			Removed: []string{"9"},
		}

		mockStartRun(storage, nil)
		storage.On("GetCheckpoint", mock.Anything, storeID, models.ProviderPrintify).Return(nil, platform.ErrNotFound).Once()
		mockPage(pages, "", &models.ProductList{Items: modelstesting.Fetched(products[0])}, nil)
		storage.On("SaveCheckpoint", mock.Anything, mock.Anything).Return(nil).Once()
		storage.On("ListProducts", mock.Anything, storeID, models.ProviderPrintify).Return(nil, nil).Once()
		rec.On("Reconcile", []models.Product(nil), modelstesting.Fetched(products[0])).Return(result).Once()
		storage.On("ApplySync", mock.Anything, storeID, models.ProviderPrintify, result).Return(assert.AnError).Once()
		mockFinishRun(storage, &models.Run{
			ID:              1,
			StoreID:         storeID,
			Provider:        models.ProviderPrintify,
			CreatedAt:       createdAt,
			FinishedAt:      &now,
			IsSuccess:       lo.ToPtr(false),
			StatusMessage:   lo.ToPtr("can't apply sync result: assert.AnError general error for testing"),
			AddedProducts:   lo.ToPtr(int32(1)),
			UpdatedProducts: lo.ToPtr(int32(0)),
			RemovedProducts: lo.ToPtr(int32(1)),
			FailedProducts:  lo.ToPtr(int32(0)),
		}, nil)

		s := syncer.NewSyncer(storage, rec, lo.ToPtr(zerolog.Nop()),
			syncer.WithClock(fakeClock{now: now}),
			syncer.WithPageSize(pageSize),
		)

		_, err := s.SyncCatalog(context.TODO(), creds, pages)

		require.ErrorContains(t, err, "can't apply sync result")
		require.ErrorIs(t, err, assert.AnError, errShouldContainAssertErrorMsg)
		assert.Equal(t, storeID, result.Added[0].StoreID, "should assign store to added products")
	})

	t.Run("finish run error", func(t *testing.T) {
		storage := mocks.NewStorage(t)
		pages := newPages(t)

		mockStartRun(storage, nil)
		storage.On("GetCheckpoint", mock.Anything, storeID, models.ProviderPrintify).Return(nil, assert.AnError).Once()
		storage.On("FinishRun", mock.Anything, mock.Anything).Return(errors.New("connection lost")).Once()

		_, err := newSyncer(storage).SyncCatalog(context.TODO(), creds, pages)

		require.ErrorContains(t, err, "can't finish failed sync", "should return error about failed run finishing")
		require.ErrorContains(t, err, "can't get checkpoint", "should return error about failed checkpoint loading")
		require.ErrorIs(t, err, assert.AnError, errShouldContainAssertErrorMsg)
	})
}

func newSyncer(storage syncer.Storage) *syncer.Syncer {
	return syncer.NewSyncer(
		storage,
		reconciler.NewReconciler(reconciler.WithClock(fakeClock{now: now})),
		lo.ToPtr(zerolog.Nop()),
		syncer.WithClock(fakeClock{now: now}),
		syncer.WithPageSize(pageSize),
	)
}

func newPages(t *testing.T) *providermocks.PrintProvider {
	pages := providermocks.NewPrintProvider(t)
	pages.On("Type").Return(models.ProviderPrintify).Maybe()
	return pages
}

func mockStartRun(storage *mocks.Storage, err error) {
	var run *models.Run
	if err == nil {
		run = &models.Run{ID: 1, StoreID: storeID, Provider: models.ProviderPrintify, CreatedAt: createdAt}
	}
	storage.On("StartRun", mock.Anything, storeID, models.ProviderPrintify).Return(run, err).Once()
}

func mockFinishRun(storage *mocks.Storage, run *models.Run, err error) {
	storage.On("FinishRun", mock.Anything, run).Return(err).Once()
}

func mockPage(pages *providermocks.PrintProvider, cursor string, page *models.ProductList, err error) {
	pages.On("GetProducts", mock.Anything, models.PageOptions{Limit: pageSize, Cursor: cursor}).Return(page, err).Once()
}

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time {
	return c.now
}
