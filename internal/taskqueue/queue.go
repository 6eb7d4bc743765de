// Package taskqueue executes sync tasks.
//
// At most one task per target is processed at a time. Runnable tasks are taken in enqueue order,
// tasks of busy target wait behind the one in progress.
package taskqueue

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/MichalMitros/pod-sync/internal/platform/metrics"
	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

//go:generate mockery --name Store --filename store.go
//go:generate mockery --name Dispatcher --filename dispatcher.go

var (
	// ErrNotCancellable is returned when cancelled task is not pending.
	ErrNotCancellable = errors.New("only pending task can be cancelled")
	// ErrNotRetryable is returned when retried task is not failed.
	ErrNotRetryable = errors.New("only failed task can be retried")
	// ErrInterrupted is recorded on tasks whose processing was interrupted by shutdown.
	ErrInterrupted = errors.New("task processing interrupted")
)

// Store persists tasks.
type Store interface {
	// SaveTask inserts or updates task.
	SaveTask(ctx context.Context, task *models.SyncTask) error
	// SaveTaskIf updates task only if its stored status is still from.
	// Returns platform.ErrConflict otherwise.
	SaveTaskIf(ctx context.Context, task *models.SyncTask, from models.TaskStatus) error
	// GetTask returns task or platform.ErrNotFound.
	GetTask(ctx context.Context, id string) (*models.SyncTask, error)
	// ListTasks returns tasks matching filter, newest first.
	ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.SyncTask, error)
	// ListUnfinishedTasks returns pending and processing tasks, oldest first.
	ListUnfinishedTasks(ctx context.Context) ([]models.SyncTask, error)
}

// Dispatcher performs task's operation.
type Dispatcher interface {
	Dispatch(ctx context.Context, task models.SyncTask) error
}

// Clock provides times.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// Option is custom configuration of Queue.
type Option func(q *Queue)

// Queue is sync tasks queue processed by pool of workers.
type Queue struct {
	store      Store
	dispatcher Dispatcher
	log        *zerolog.Logger
	clock      Clock
	workers    int
	backoff    Backoff
	sleep      func(ctx context.Context, d time.Duration) error

	mu      sync.Mutex
	pending []*models.SyncTask
	busy    map[models.Target]bool
	changed chan struct{}
}

// NewQueue returns new Queue.
func NewQueue(store Store, dispatcher Dispatcher, log *zerolog.Logger, ops ...Option) *Queue {
	q := &Queue{
		store:      store,
		dispatcher: dispatcher,
		log:        log,
		clock:      systemClock{},
		workers:    1,
		backoff:    DefaultBackoff,
		sleep:      sleep,
		busy:       map[models.Target]bool{},
		changed:    make(chan struct{}),
	}

	for _, op := range ops {
		op(q)
	}

	return q
}

// Enqueue validates and persists new pending task.
// Task always gets new id, so enqueue never overwrites existing task.
func (q *Queue) Enqueue(ctx context.Context, task models.SyncTask) (*models.SyncTask, error) {
	if err := models.Validate(task); err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	now := q.clock.Now()
	task.ID = uuid.NewString()
	task.Status = models.TaskPending
	task.Attempts = 0
	task.Error = nil
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := q.store.SaveTask(ctx, &task); err != nil {
		return nil, fmt.Errorf("can't save task: %w", err)
	}
	metrics.ObserveTaskTransition(task.Entity, task.Status)

	q.push(&task)

	q.log.Debug().Str("taskId", task.ID).Str("target", task.Target().String()).Msg("task enqueued")

	out := task
	return &out, nil
}

// Get returns task by id.
func (q *Queue) Get(ctx context.Context, id string) (*models.SyncTask, error) {
	task, err := q.store.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("can't get task %s: %w", id, err)
	}
	return task, nil
}

// List returns tasks matching filter.
func (q *Queue) List(ctx context.Context, filter models.TaskFilter) ([]models.SyncTask, error) {
	tasks, err := q.store.ListTasks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("can't list tasks: %w", err)
	}
	return tasks, nil
}

// Cancel cancels pending task. Task in any other status returns ErrNotCancellable.
func (q *Queue) Cancel(ctx context.Context, id string) (*models.SyncTask, error) {
	task, err := q.store.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("can't get task %s: %w", id, err)
	}

	if err := task.Transition(models.TaskCancelled, q.clock.Now(), nil); err != nil {
		return nil, fmt.Errorf("task %s is %s: %w", id, task.Status, ErrNotCancellable)
	}

	// worker which took the task meanwhile has already stored it as processing.
	err = q.store.SaveTaskIf(ctx, task, models.TaskPending)
	if errors.Is(err, platform.ErrConflict) {
		return nil, fmt.Errorf("task %s is no longer pending: %w", id, ErrNotCancellable)
	}
	if err != nil {
		return nil, fmt.Errorf("can't save task: %w", err)
	}
	metrics.ObserveTaskTransition(task.Entity, task.Status)

	q.remove(id)

	out := *task
	return &out, nil
}

// Retry moves failed task back to pending. Task keeps its id, error is cleared.
// Concurrent retries of the same task queue it once.
func (q *Queue) Retry(ctx context.Context, id string) (*models.SyncTask, error) {
	task, err := q.store.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("can't get task %s: %w", id, err)
	}

	if err := task.Transition(models.TaskPending, q.clock.Now(), nil); err != nil {
		return nil, fmt.Errorf("task %s is %s: %w", id, task.Status, ErrNotRetryable)
	}
	task.Attempts = 0

	err = q.store.SaveTaskIf(ctx, task, models.TaskFailed)
	if errors.Is(err, platform.ErrConflict) {
		return nil, fmt.Errorf("task %s is no longer failed: %w", id, ErrNotRetryable)
	}
	if err != nil {
		return nil, fmt.Errorf("can't save task: %w", err)
	}
	metrics.ObserveTaskTransition(task.Entity, task.Status)

	q.push(task)

	out := *task
	return &out, nil
}

// Restore loads unfinished tasks after restart.
// Pending tasks are queued again, tasks interrupted while processing are failed.
func (q *Queue) Restore(ctx context.Context) error {
	tasks, err := q.store.ListUnfinishedTasks(ctx)
	if err != nil {
		return fmt.Errorf("can't list unfinished tasks: %w", err)
	}

	restored := 0
	for ix := range tasks {
		task := tasks[ix]

		if task.Status == models.TaskProcessing {
			if err := q.finish(ctx, &task, ErrInterrupted); err != nil {
				return err
			}
			continue
		}

		q.push(&task)
		restored++
	}

	q.log.Info().Int("pending", restored).Int("interrupted", len(tasks)-restored).Msg("tasks restored")

	return nil
}

// Run processes tasks with pool of workers until ctx is done.
func (q *Queue) Run(ctx context.Context) error {
	errGroup, egCtx := errgroup.WithContext(ctx)

	for range q.workers {
		errGroup.Go(func() error {
			return q.work(egCtx)
		})
	}

	err := errGroup.Wait()
	if ctx.Err() != nil {
		return nil
	}

	return err
}

func (q *Queue) work(ctx context.Context) error {
	for {
		task, wait := q.next()
		if task == nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-wait:
			}
			continue
		}

		if err := q.process(ctx, task); err != nil {
			return err
		}
	}
}

// next takes oldest pending task with idle target.
// When there is none it returns channel closed on next queue change.
func (q *Queue) next() (*models.SyncTask, <-chan struct{}) {
	q.mu.Lock()
	defer q.mu.Unlock()

	ix := slices.IndexFunc(q.pending, func(t *models.SyncTask) bool { return !q.busy[t.Target()] })
	if ix < 0 {
		return nil, q.changed
	}

	task := q.pending[ix]
	q.pending = slices.Delete(q.pending, ix, ix+1)
	q.busy[task.Target()] = true
	metrics.SetPendingTasks(len(q.pending))

	return task, nil
}

// process runs task with bounded retries. Returned error means task state couldn't be saved.
func (q *Queue) process(ctx context.Context, task *models.SyncTask) error {
	defer q.release(task.Target())

	log := q.log.With().Str("taskId", task.ID).Str("target", task.Target().String()).Logger()

	if err := task.Transition(models.TaskProcessing, q.clock.Now(), nil); err != nil {
		log.Error().Err(err).Msg("can't start task")
		return nil
	}

	// task cancelled after it was taken from the queue is skipped.
	err := q.store.SaveTaskIf(ctx, task, models.TaskPending)
	if errors.Is(err, platform.ErrConflict) {
		log.Debug().Msg("task is no longer pending")
		return nil
	}
	if err != nil {
		return fmt.Errorf("can't save task %s: %w", task.ID, err)
	}
	metrics.ObserveTaskTransition(task.Entity, task.Status)

	var dispatchErr error
	for {
		task.Attempts++
		dispatchErr = q.dispatcher.Dispatch(ctx, *task)
		if dispatchErr == nil || !platform.IsRetryable(dispatchErr) || ctx.Err() != nil {
			break
		}

		delay, ok := q.backoff.Delay(task.Attempts, dispatchErr)
		if !ok {
			log.Warn().Err(dispatchErr).Int("attempts", task.Attempts).Msg("giving up retrying task")
			break
		}

		log.Warn().Err(dispatchErr).Int("attempt", task.Attempts).Dur("delay", delay).Msg("retrying task")
		if err := q.sleep(ctx, delay); err != nil {
			break
		}
	}

	if dispatchErr != nil {
		log.Error().Err(dispatchErr).Msg("task failed")
	} else {
		log.Debug().Int("attempts", task.Attempts).Msg("task completed")
	}

	return q.finish(context.WithoutCancel(ctx), task, dispatchErr)
}

func (q *Queue) finish(ctx context.Context, task *models.SyncTask, cause error) error {
	status := models.TaskCompleted
	if cause != nil {
		status = models.TaskFailed
	}

	if err := task.Transition(status, q.clock.Now(), cause); err != nil {
		return fmt.Errorf("can't finish task %s: %w", task.ID, err)
	}

	return q.save(ctx, task)
}

func (q *Queue) save(ctx context.Context, task *models.SyncTask) error {
	if err := q.store.SaveTask(ctx, task); err != nil {
		return fmt.Errorf("can't save task %s: %w", task.ID, err)
	}
	metrics.ObserveTaskTransition(task.Entity, task.Status)
	return nil
}

func (q *Queue) push(task *models.SyncTask) {
	q.mu.Lock()
	defer q.mu.Unlock()

	// restored and retried tasks keep their place by creation time.
	ix := len(q.pending)
	for ix > 0 && q.pending[ix-1].CreatedAt.After(task.CreatedAt) {
		ix--
	}
	q.pending = slices.Insert(q.pending, ix, task)
	metrics.SetPendingTasks(len(q.pending))
	q.notify()
}

// remove drops task from pending tasks if it is still there.
func (q *Queue) remove(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	ix := slices.IndexFunc(q.pending, func(t *models.SyncTask) bool { return t.ID == id })
	if ix < 0 {
		return
	}
	q.pending = slices.Delete(q.pending, ix, ix+1)
	metrics.SetPendingTasks(len(q.pending))
}

func (q *Queue) release(target models.Target) {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.busy, target)
	q.notify()
}

// notify wakes all waiting workers. Caller must hold q.mu.
func (q *Queue) notify() {
	close(q.changed)
	q.changed = make(chan struct{})
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// WithWorkers sets number of tasks processed concurrently.
func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}

// WithBackoff sets retry policy.
func WithBackoff(b Backoff) Option {
	return func(q *Queue) {
		q.backoff = b
	}
}

// WithClock sets Queue's custom Clock.
func WithClock(c Clock) Option {
	return func(q *Queue) {
		q.clock = c
	}
}

// WithSleep replaces function waiting between retries.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(q *Queue) {
		q.sleep = fn
	}
}
