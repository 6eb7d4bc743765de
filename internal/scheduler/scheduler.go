// Package scheduler periodically enqueues catalog syncs of all active integrations.
package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

//go:generate mockery --name Storage --filename storage.go
//go:generate mockery --name Tasks --filename tasks.go

// Storage lists integrations.
type Storage interface {
	// ListIntegrations returns credentials of all not revoked integrations.
	ListIntegrations(ctx context.Context) ([]models.Credentials, error)
}

// Tasks is sync task queue.
type Tasks interface {
	Enqueue(ctx context.Context, task models.SyncTask) (*models.SyncTask, error)
	List(ctx context.Context, filter models.TaskFilter) ([]models.SyncTask, error)
}

// Scheduler enqueues catalog sync of every active integration on cron schedule.
type Scheduler struct {
	schedule string
	storage  Storage
	tasks    Tasks
	log      *zerolog.Logger
}

// NewScheduler returns new Scheduler. Schedule is standard 5 field cron expression or descriptor like @hourly.
func NewScheduler(schedule string, storage Storage, tasks Tasks, log *zerolog.Logger) (*Scheduler, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	return &Scheduler{
		schedule: schedule,
		storage:  storage,
		tasks:    tasks,
		log:      log,
	}, nil
}

// Run triggers catalog syncs on schedule until ctx is done.
// Waits for running trigger to finish before returning.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	_, err := c.AddFunc(s.schedule, func() {
		if err := s.Trigger(ctx); err != nil {
			s.log.Error().Err(err).Msg("scheduled catalog sync failed")
		}
	})
	if err != nil {
		return fmt.Errorf("can't schedule catalog sync: %w", err)
	}

	c.Start()
	s.log.Info().Str("schedule", s.schedule).Msg("scheduler started")

	<-ctx.Done()
	<-c.Stop().Done()

	return nil
}

// Trigger enqueues catalog sync for each active integration without one already pending.
// Failure for one integration doesn't stop the others, all failures are joined.
func (s *Scheduler) Trigger(ctx context.Context) error {
	integrations, err := s.storage.ListIntegrations(ctx)
	if err != nil {
		return fmt.Errorf("can't list integrations: %w", err)
	}

	var (
		errs     []error
		enqueued int
	)
	for _, creds := range integrations {
		task := models.CatalogTask(creds.StoreID, creds.Provider)

		pending, err := s.isPending(ctx, task)
		if err != nil {
			errs = append(errs, fmt.Errorf("store %s %s: %w", creds.StoreID, creds.Provider, err))
			continue
		}
		if pending {
			s.log.Debug().
				Str("storeId", creds.StoreID).
				Str("provider", string(creds.Provider)).
				Msg("catalog sync already pending")
			continue
		}

		if _, err := s.tasks.Enqueue(ctx, task); err != nil {
			errs = append(errs, fmt.Errorf("store %s %s: can't enqueue catalog sync: %w", creds.StoreID, creds.Provider, err))
			continue
		}
		enqueued++
	}

	s.log.Info().
		Int("integrations", len(integrations)).
		Int("enqueued", enqueued).
		Int("failed", len(errs)).
		Msg("catalog syncs scheduled")

	return errors.Join(errs...)
}

func (s *Scheduler) isPending(ctx context.Context, task models.SyncTask) (bool, error) {
	pending, err := s.tasks.List(ctx, models.TaskFilter{
		Status:   models.TaskPending,
		Entity:   task.Entity,
		Provider: task.Provider,
		StoreID:  task.Stores[0],
	})
	if err != nil {
		return false, fmt.Errorf("can't list pending tasks: %w", err)
	}

	return lo.ContainsBy(pending, func(t models.SyncTask) bool {
		return t.Type == task.Type && t.EntityID == task.EntityID
	}), nil
}
