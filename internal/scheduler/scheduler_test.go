package scheduler_test

import (
	"context"
	"testing"

	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/MichalMitros/pod-sync/internal/scheduler"
	"github.com/MichalMitros/pod-sync/internal/scheduler/mocks"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUnitNewScheduler(t *testing.T) {
	tests := map[string]struct {
		schedule string
		wantErr  bool
	}{
		"standard":   {schedule: "*/15 * * * *"},
		"descriptor": {schedule: "@hourly"},
		"seconds":    {schedule: "0 */15 * * * *", wantErr: true},
		"garbage":    {schedule: "every hour", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := scheduler.NewScheduler(tt.schedule, mocks.NewStorage(t), mocks.NewTasks(t), lo.ToPtr(zerolog.Nop()))

			assert.Equal(t, tt.wantErr, err != nil, err)
		})
	}
}

func TestUnitTrigger(t *testing.T) {
	integrations := []models.Credentials{
		{StoreID: "store-1", Provider: models.ProviderPrintify},
		{StoreID: "store-1", Provider: models.ProviderGelato},
		{StoreID: "store-2", Provider: models.ProviderPrintify},
	}

	storage := mocks.NewStorage(t)
	storage.On("ListIntegrations", mock.Anything).Return(integrations, nil).Once()

	tasks := mocks.NewTasks(t)
	tasks.On("List", mock.Anything, mock.MatchedBy(func(f models.TaskFilter) bool {
		return f.Status == models.TaskPending && f.Entity == models.EntityProduct
	})).Return(func(_ context.Context, f models.TaskFilter) ([]models.SyncTask, error) {
		if f.StoreID == "store-1" && f.Provider == models.ProviderGelato {
			return []models.SyncTask{models.CatalogTask("store-1", models.ProviderGelato)}, nil
		}
		// single product task of the same store doesn't block catalog sync
		return []models.SyncTask{{Type: models.TaskUpdate, Entity: models.EntityProduct, EntityID: "42"}}, nil
	}).Times(3)
	tasks.On("Enqueue", mock.Anything, models.CatalogTask("store-1", models.ProviderPrintify)).
		Return(&models.SyncTask{ID: "task-1"}, nil).Once()
	tasks.On("Enqueue", mock.Anything, models.CatalogTask("store-2", models.ProviderPrintify)).
		Return(nil, assert.AnError).Once()

	s, err := scheduler.NewScheduler("@hourly", storage, tasks, lo.ToPtr(zerolog.Nop()))
	require.NoError(t, err)

	err = s.Trigger(context.TODO())

	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "store-2")
}

func TestUnitTriggerListFailure(t *testing.T) {
	storage := mocks.NewStorage(t)
	storage.On("ListIntegrations", mock.Anything).Return(nil, assert.AnError).Once()

	s, err := scheduler.NewScheduler("@daily", storage, mocks.NewTasks(t), lo.ToPtr(zerolog.Nop()))
	require.NoError(t, err)

	require.ErrorIs(t, s.Trigger(context.TODO()), assert.AnError)
}
