// Package api exposes sync tasks, runs, integrations and webhooks over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/MichalMitros/pod-sync/internal/platform/metrics"
	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/MichalMitros/pod-sync/internal/provider"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

//go:generate mockery --name Tasks --filename tasks.go
//go:generate mockery --name Storage --filename storage.go
//go:generate mockery --name Adapters --filename adapters.go
//go:generate mockery --name Webhooks --filename webhooks.go

const (
	defaultListLimit = 50
	maxListLimit     = 500
	signatureHeader  = "X-Signature"
)

// Tasks is sync task queue.
type Tasks interface {
	Enqueue(ctx context.Context, task models.SyncTask) (*models.SyncTask, error)
	Get(ctx context.Context, id string) (*models.SyncTask, error)
	List(ctx context.Context, filter models.TaskFilter) ([]models.SyncTask, error)
	Cancel(ctx context.Context, id string) (*models.SyncTask, error)
	Retry(ctx context.Context, id string) (*models.SyncTask, error)
}

// Storage stores integrations and runs.
type Storage interface {
	LatestRun(ctx context.Context, storeID string, provider models.ProviderType) (*models.Run, error)
	SaveCredentials(ctx context.Context, creds *models.Credentials) error
	RevokeCredentials(ctx context.Context, storeID string, provider models.ProviderType) error
}

// Adapters opens initialized provider adapters.
type Adapters interface {
	Open(ctx context.Context, storeID string, provider models.ProviderType) (provider.PrintProvider, error)
	Evict(storeID string, provider models.ProviderType)
}

// Webhooks verifies provider webhooks and enqueues their tasks.
type Webhooks interface {
	Handle(ctx context.Context, storeID string, provider models.ProviderType, signature string, body []byte) (*models.SyncTask, error)
}

// Option is custom configuration of API.
type Option func(a *API)

// API is HTTP interface of pod-sync.
type API struct {
	tasks    Tasks
	storage  Storage
	adapters Adapters
	webhooks Webhooks
	log      *zerolog.Logger
	limiter  *rate.Limiter
}

// NewAPI returns new API.
func NewAPI(tasks Tasks, storage Storage, adapters Adapters, webhooks Webhooks, log *zerolog.Logger, ops ...Option) *API {
	a := &API{
		tasks:    tasks,
		storage:  storage,
		adapters: adapters,
		webhooks: webhooks,
		log:      log,
	}

	for _, op := range ops {
		op(a)
	}

	return a
}

// WithRateLimit limits requests served per second. Requests above limit get 429 response.
func WithRateLimit(rps float64, burst int) Option {
	return func(a *API) {
		if rps > 0 {
			a.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
		}
	}
}

// Routes returns API router.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(a.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		if a.limiter != nil {
			r.Use(rateLimit(a.limiter))
		}

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", a.listTasks)
			r.Post("/", a.enqueueTask)
			r.Get("/{id}", a.getTask)
			r.Post("/{id}/cancel", a.cancelTask)
			r.Post("/{id}/retry", a.retryTask)
		})

		r.Route("/stores/{storeId}/providers/{provider}", func(r chi.Router) {
			r.Use(requireProvider)

			r.Post("/sync", a.syncCatalog)
			r.Get("/runs/latest", a.latestRun)
			r.Put("/integration", a.saveIntegration)
			r.Delete("/integration", a.revokeIntegration)
			r.Post("/shipping-rates", a.shippingRates)
		})

		r.With(requireProvider).Post("/webhooks/{provider}/{storeId}", a.webhook)
	})

	return r
}
