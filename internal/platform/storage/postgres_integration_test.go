package storage_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/MichalMitros/pod-sync/internal/platform/models/modelstesting"
	"github.com/MichalMitros/pod-sync/internal/platform/storage"
	pgmodels "github.com/MichalMitros/pod-sync/internal/platform/storage/gen/postgres/public/model"
	"github.com/MichalMitros/pod-sync/internal/platform/storage/storagetesting"
	"github.com/go-faker/faker/v4"
	_ "github.com/lib/pq"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestPostgresIntegration(t *testing.T) {
	suite.Run(t, new(PostgresTestSuite))
}

type PostgresTestSuite struct {
	suite.Suite
	DB *sql.DB
}

func (s *PostgresTestSuite) SetupSuite() {
	s.DB = storagetesting.Open(s.T())
	storagetesting.CleanupData(s.T(), s.DB)
}

func (s *PostgresTestSuite) TearDownSuite() {
	storagetesting.CleanupData(s.T(), s.DB)
	if err := s.DB.Close(); err != nil {
		s.FailNow("close DB", err)
	}
}

func (s *PostgresTestSuite) TestIntegrationStartRun() {
	storeID := faker.UUIDHyphenated()
	provider := models.ProviderPrintful
	now := time.Now().UTC()

	tests := map[string]struct {
		storedRuns  []pgmodels.Run
		wantErr     error
		wantRunsLen int
	}{
		"first run": {
			wantRunsLen: 1,
		},
		"after finished run": {
			storedRuns: []pgmodels.Run{
				{StoreID: storeID, Provider: string(provider), CreatedAt: now.Add(-time.Minute), FinishedAt: &now, Success: lo.ToPtr(true)},
			},
			wantRunsLen: 2,
		},
		"unfinished run of other provider": {
			storedRuns: []pgmodels.Run{
				{StoreID: storeID, Provider: string(models.ProviderGelato), CreatedAt: now.Add(-time.Minute)},
			},
			wantRunsLen: 2,
		},
		"already running error": {
			storedRuns: []pgmodels.Run{
				{StoreID: storeID, Provider: string(provider), CreatedAt: now.Add(-time.Minute)},
			},
			wantErr: platform.ErrAlreadyRunning,
		},
		"abandoned run": {
			storedRuns: []pgmodels.Run{
				{StoreID: storeID, Provider: string(provider), CreatedAt: now.Add(-3 * time.Hour)},
			},
			wantRunsLen: 2,
		},
	}

	for name, tt := range tests {
		s.Run(name, func() {
			defer storagetesting.CleanupData(s.T(), s.DB)
			storagetesting.InsertRuns(s.T(), s.DB, tt.storedRuns...)

			post := storage.NewPostgres(s.DB)

			run, err := post.StartRun(context.TODO(), storeID, provider)

			if tt.wantErr != nil {
				s.Require().ErrorIs(err, tt.wantErr)
				return
			}

			s.Require().NoError(err)
			s.NotZero(run.ID, "run should have id")
			s.NotZero(run.CreatedAt, "run should have creation time")
			s.Equal(storeID, run.StoreID)
			s.Equal(provider, run.Provider)

			runs := storagetesting.GetRuns(s.T(), s.DB)
			s.Len(runs, tt.wantRunsLen)
			for _, stored := range runs[:len(runs)-1] {
				if stored.Provider == string(provider) {
					s.NotNil(stored.FinishedAt, "previous run should be finished")
				}
			}
		})
	}
}

func (s *PostgresTestSuite) TestIntegrationFinishRun() {
	defer storagetesting.CleanupData(s.T(), s.DB)

	post := storage.NewPostgres(s.DB)
	run, err := post.StartRun(context.TODO(), "store-1", models.ProviderGooten)
	s.Require().NoError(err)

	finishedAt := time.Date(2024, time.April, 1, 2, 1, 1, 0, time.UTC)
	run.FinishedAt = &finishedAt
	run.IsSuccess = lo.ToPtr(true)
	run.AddedProducts = lo.ToPtr(int32(3))
	run.UpdatedProducts = lo.ToPtr(int32(1))
	run.RemovedProducts = lo.ToPtr(int32(0))
	run.FailedProducts = lo.ToPtr(int32(1))
	run.Errors = []models.SyncError{{ProductID: "7", Error: "missing price"}}

	s.Require().NoError(post.FinishRun(context.TODO(), run))

	latest, err := post.LatestRun(context.TODO(), "store-1", models.ProviderGooten)
	s.Require().NoError(err)
	s.True(finishedAt.Equal(*latest.FinishedAt))
	latest.FinishedAt = run.FinishedAt
	latest.CreatedAt = run.CreatedAt
	s.Equal(run, latest)

	err = post.FinishRun(context.TODO(), &models.Run{ID: run.ID + 100})
	s.ErrorIs(err, platform.ErrNotFound, "unknown run can't be finished")

	_, err = post.LatestRun(context.TODO(), "store-2", models.ProviderGooten)
	s.ErrorIs(err, platform.ErrNotFound)
}

func (s *PostgresTestSuite) TestIntegrationApplySync() {
	defer storagetesting.CleanupData(s.T(), s.DB)

	storeID := "store-1"
	provider := models.ProviderPrintify
	setKey := func(id string) func(*models.Product) {
		return func(p *models.Product) {
			p.StoreID = storeID
			p.Provider = provider
			p.ExternalID = id
		}
	}
	post := storage.NewPostgres(s.DB, storage.WithBatchSize(2))

	first := &models.SyncResult{
		Added: []models.Product{
			modelstesting.FakeProduct(setKey("1")),
			modelstesting.FakeProduct(setKey("2")),
			modelstesting.FakeProduct(setKey("3")),
		},
	}
	s.Require().NoError(post.SaveCheckpoint(context.TODO(), &models.Checkpoint{
		StoreID:   storeID,
		Provider:  provider,
		Cursor:    "2",
		Items:     modelstesting.Fetched(first.Added...),
		UpdatedAt: time.Now().UTC(),
	}))
	s.Require().NoError(post.ApplySync(context.TODO(), storeID, provider, first))
	s.Zero(storagetesting.CountCheckpoints(s.T(), s.DB), "applied sync should clear checkpoint")

	stored, err := post.ListProducts(context.TODO(), storeID, provider)
	s.Require().NoError(err)
	s.Require().Len(stored, 3)
	for ix := range stored {
		s.NotZero(stored[ix].ID)
		s.Equal(first.Added[ix].Fingerprint(), stored[ix].Fingerprint(), "product %s should survive round trip", stored[ix].ExternalID)
	}

	updated := stored[0]
	updated.Title = "Renamed"
	second := &models.SyncResult{
		Updated: []models.Product{updated},
		Removed: []string{"2", "3"},
	}
	s.Require().NoError(post.ApplySync(context.TODO(), storeID, provider, second))

	stored, err = post.ListProducts(context.TODO(), storeID, provider)
	s.Require().NoError(err)
	s.Require().Len(stored, 3, "removed products should be kept")
	s.Equal("Renamed", stored[0].Title)
	s.Nil(stored[0].DeletedAt)
	s.NotNil(stored[1].DeletedAt)
	s.NotNil(stored[2].DeletedAt)

	restored := stored[1]
	restored.DeletedAt = nil
	s.Require().NoError(post.ApplySync(context.TODO(), storeID, provider, &models.SyncResult{Updated: []models.Product{restored}}))
	stored, err = post.ListProducts(context.TODO(), storeID, provider)
	s.Require().NoError(err)
	s.Nil(stored[1].DeletedAt, "updated product should be restored")
}

func (s *PostgresTestSuite) TestIntegrationCheckpoint() {
	defer storagetesting.CleanupData(s.T(), s.DB)

	post := storage.NewPostgres(s.DB)
	_, err := post.GetCheckpoint(context.TODO(), "store-1", models.ProviderGelato)
	s.Require().ErrorIs(err, platform.ErrNotFound)

	product := modelstesting.FakeProduct(func(p *models.Product) { p.Provider = models.ProviderGelato })
	checkpoint := &models.Checkpoint{
		StoreID:  "store-1",
		Provider: models.ProviderGelato,
		Cursor:   "50",
		Items: []models.FetchedProduct{
			{ExternalID: product.ExternalID, Product: &product},
			{ExternalID: "broken", Error: errors.New("missing variants")},
		},
		UpdatedAt: time.Date(2024, time.April, 1, 1, 1, 1, 0, time.UTC),
	}
	s.Require().NoError(post.SaveCheckpoint(context.TODO(), checkpoint))

	checkpoint.Cursor = "100"
	checkpoint.Complete = true
	s.Require().NoError(post.SaveCheckpoint(context.TODO(), checkpoint), "checkpoint should be replaced")

	got, err := post.GetCheckpoint(context.TODO(), "store-1", models.ProviderGelato)
	s.Require().NoError(err)
	s.Equal("100", got.Cursor)
	s.True(got.Complete)
	s.True(checkpoint.UpdatedAt.Equal(got.UpdatedAt))
	s.Require().Len(got.Items, 2)
	s.Equal(product.Fingerprint(), got.Items[0].Product.Fingerprint())
	s.EqualError(got.Items[1].Error, "missing variants")
	s.Equal(1, storagetesting.CountCheckpoints(s.T(), s.DB))

	appended := []models.FetchedProduct{{ExternalID: "#2", Error: errors.New("unreadable item")}}
	checkpoint.Cursor = "150"
	checkpoint.Complete = false
	checkpoint.UpdatedAt = checkpoint.UpdatedAt.Add(time.Minute)
	s.Require().NoError(post.AppendCheckpoint(context.TODO(), checkpoint, appended))

	got, err = post.GetCheckpoint(context.TODO(), "store-1", models.ProviderGelato)
	s.Require().NoError(err)
	s.Equal("150", got.Cursor)
	s.False(got.Complete)
	s.True(checkpoint.UpdatedAt.Equal(got.UpdatedAt))
	s.Require().Len(got.Items, 3, "page items should be appended")
	s.Equal(product.ExternalID, got.Items[0].ExternalID)
	s.Equal("#2", got.Items[2].ExternalID)

	checkpoint.StoreID = "store-2"
	s.ErrorIs(post.AppendCheckpoint(context.TODO(), checkpoint, appended), platform.ErrNotFound)
}

func (s *PostgresTestSuite) TestIntegrationSingleProductOperations() {
	defer storagetesting.CleanupData(s.T(), s.DB)

	post := storage.NewPostgres(s.DB)
	product := modelstesting.FakeProduct(func(p *models.Product) {
		p.StoreID = "store-1"
		p.Provider = models.ProviderPrintful
		p.ExternalID = "42"
		p.Variants = []models.Variant{
			modelstesting.FakeVariant(func(v *models.Variant) { v.ExternalID = "421" }),
			modelstesting.FakeVariant(func(v *models.Variant) { v.ExternalID = "422" }),
		}
	})

	s.Require().NoError(post.UpsertProduct(context.TODO(), &product))
	s.Require().NoError(post.UpdateInventory(context.TODO(), "store-1", models.ProviderPrintful, []models.InventoryLevel{
		{ProductID: "42", VariantID: "422", Available: false},
		{ProductID: "unknown", VariantID: "1", Available: false},
	}))

	stored := storagetesting.GetProducts(s.T(), s.DB, "store-1")
	s.Require().Len(stored, 1)
	got, err := storage.FromDBProduct(&stored[0])
	s.Require().NoError(err)
	s.True(got.Variants[0].Available)
	s.False(got.Variants[1].Available, "variant should be out of stock")

	s.Require().NoError(post.RemoveProduct(context.TODO(), "store-1", models.ProviderPrintful, "42"))
	s.Require().NoError(post.RemoveProduct(context.TODO(), "store-1", models.ProviderPrintful, "missing"))

	stored = storagetesting.GetProducts(s.T(), s.DB, "store-1")
	s.NotNil(stored[0].DeletedAt)
}

func (s *PostgresTestSuite) TestIntegrationTasks() {
	defer storagetesting.CleanupData(s.T(), s.DB)

	post := storage.NewPostgres(s.DB)
	base := time.Date(2024, time.April, 1, 1, 0, 0, 0, time.UTC)
	task := func(id string, status models.TaskStatus, minutes int, stores ...string) models.SyncTask {
		return modelstesting.FakeTask(func(t *models.SyncTask) {
			t.ID = id
			t.Status = status
			t.Stores = stores
			t.CreatedAt = base.Add(time.Duration(minutes) * time.Minute)
			t.UpdatedAt = t.CreatedAt
		})
	}

	tasks := []models.SyncTask{
		task("a", models.TaskPending, 2, "store-1"),
		task("b", models.TaskProcessing, 1, "store-1", "store-2"),
		task("c", models.TaskCompleted, 0, "store-2"),
	}
	tasks[0].Payload = []byte(`{"title":"Mug"}`)
	for ix := range tasks {
		s.Require().NoError(post.SaveTask(context.TODO(), &tasks[ix]))
	}

	tasks[2].Status = models.TaskFailed
	tasks[2].Attempts = 3
	tasks[2].Error = lo.ToPtr("boom")
	s.Require().NoError(post.SaveTask(context.TODO(), &tasks[2]), "task should be updated")

	got, err := post.GetTask(context.TODO(), "c")
	s.Require().NoError(err)
	assertTask(s.T(), tasks[2], *got)

	_, err = post.GetTask(context.TODO(), "missing")
	s.ErrorIs(err, platform.ErrNotFound)

	unfinished, err := post.ListUnfinishedTasks(context.TODO())
	s.Require().NoError(err)
	s.Equal([]string{"b", "a"}, taskIDs(unfinished), "unfinished tasks should be oldest first")
	assertTask(s.T(), tasks[0], unfinished[1])

	tests := map[string]struct {
		filter models.TaskFilter
		want   []string
	}{
		"all":       {want: []string{"a", "b", "c"}},
		"by status": {filter: models.TaskFilter{Status: models.TaskFailed}, want: []string{"c"}},
		"by store":  {filter: models.TaskFilter{StoreID: "store-2"}, want: []string{"b", "c"}},
		"limited":   {filter: models.TaskFilter{Limit: 1}, want: []string{"a"}},
		"no match":  {filter: models.TaskFilter{Provider: models.ProviderGelato}, want: []string{}},
	}

	for name, tt := range tests {
		s.Run(name, func() {
			listed, err := post.ListTasks(context.TODO(), tt.filter)
			s.Require().NoError(err)
			s.Equal(tt.want, taskIDs(listed))
		})
	}

	// retried failed task is saved once
	retried := tasks[2]
	retried.Status = models.TaskPending
	retried.Error = nil
	s.Require().NoError(post.SaveTaskIf(context.TODO(), &retried, models.TaskFailed))
	s.ErrorIs(post.SaveTaskIf(context.TODO(), &retried, models.TaskFailed), platform.ErrConflict, "second retry should conflict")
	s.ErrorIs(post.SaveTaskIf(context.TODO(), &models.SyncTask{ID: "missing"}, models.TaskFailed), platform.ErrConflict)

	got, err = post.GetTask(context.TODO(), "c")
	s.Require().NoError(err)
	s.Equal(models.TaskPending, got.Status)
	s.Nil(got.Error)
}

func (s *PostgresTestSuite) TestIntegrationCredentials() {
	defer storagetesting.CleanupData(s.T(), s.DB)

	post := storage.NewPostgres(s.DB)
	createdAt := time.Date(2024, time.April, 1, 1, 0, 0, 0, time.UTC)
	storagetesting.InsertIntegrations(s.T(), s.DB, pgmodels.Integration{
		StoreID:   "store-2",
		Provider:  string(models.ProviderGooten),
		APIKey:    "old",
		CreatedAt: createdAt,
		RevokedAt: &createdAt,
	})

	creds := models.Credentials{
		StoreID:       "store-1",
		Provider:      models.ProviderPrintify,
		APIKey:        faker.Password(),
		ProviderID:    "9001",
		WebhookSecret: lo.ToPtr("secret"),
	}
	s.Require().NoError(post.SaveCredentials(context.TODO(), &creds))

	got, err := post.GetCredentials(context.TODO(), "store-1", models.ProviderPrintify)
	s.Require().NoError(err)
	s.Equal(creds.APIKey, got.APIKey)
	s.Equal("9001", got.ProviderID)
	s.Equal("secret", *got.WebhookSecret)

	integrations, err := post.ListIntegrations(context.TODO())
	s.Require().NoError(err)
	s.Len(integrations, 1, "revoked integration shouldn't be listed")

	s.Require().NoError(post.RevokeCredentials(context.TODO(), "store-1", models.ProviderPrintify))
	s.ErrorIs(post.RevokeCredentials(context.TODO(), "store-1", models.ProviderPrintify), platform.ErrNotFound)

	got, err = post.GetCredentials(context.TODO(), "store-1", models.ProviderPrintify)
	s.Require().NoError(err)
	s.NotNil(got.RevokedAt)

	s.Require().NoError(post.SaveCredentials(context.TODO(), &models.Credentials{
		StoreID: "store-2", Provider: models.ProviderGooten, APIKey: "new",
	}))
	got, err = post.GetCredentials(context.TODO(), "store-2", models.ProviderGooten)
	s.Require().NoError(err)
	s.Nil(got.RevokedAt, "saved integration should be active again")
	s.Equal("new", got.APIKey)
	s.True(createdAt.Equal(got.CreatedAt), "creation time should be kept")

	_, err = post.GetCredentials(context.TODO(), "store-3", models.ProviderGooten)
	s.ErrorIs(err, platform.ErrNotFound)
}

// assertTask is a helper test function to assert task read back from database.
func assertTask(t *testing.T, expected, actual models.SyncTask) {
	t.Helper()

	require.True(t, expected.CreatedAt.Equal(actual.CreatedAt), "task should have correct creation time")
	require.True(t, expected.UpdatedAt.Equal(actual.UpdatedAt), "task should have correct update time")
	actual.CreatedAt = expected.CreatedAt
	actual.UpdatedAt = expected.UpdatedAt
	if len(expected.Payload) > 0 {
		assert.JSONEq(t, string(expected.Payload), string(actual.Payload))
		actual.Payload = expected.Payload
	}

	assert.Equal(t, expected, actual, "task has incorrect values")
}

func taskIDs(tasks []models.SyncTask) []string {
	return lo.Map(tasks, func(t models.SyncTask, _ int) string { return t.ID })
}
