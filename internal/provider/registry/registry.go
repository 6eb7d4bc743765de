// Package registry opens provider adapters for stores.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/MichalMitros/pod-sync/internal/provider"
	"github.com/MichalMitros/pod-sync/internal/provider/gelato"
	"github.com/MichalMitros/pod-sync/internal/provider/gooten"
	"github.com/MichalMitros/pod-sync/internal/provider/printful"
	"github.com/MichalMitros/pod-sync/internal/provider/printify"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

//go:generate mockery --name Storage --filename storage.go

// ErrRevoked is returned when store's integration with provider was revoked.
var ErrRevoked = errors.New("integration revoked")

// Storage provides stores credentials.
type Storage interface {
	// GetCredentials returns credentials of store for provider or platform.ErrNotFound.
	GetCredentials(ctx context.Context, storeID string, provider models.ProviderType) (*models.Credentials, error)
}

// Factory builds uninitialized adapter.
type Factory func(cfg provider.Config) provider.PrintProvider

// Limit is requests rate allowed by provider.
type Limit struct {
	RPS   float64
	Burst int
}

// Option is custom configuration of Registry.
type Option func(r *Registry)

type cacheKey struct {
	storeID  string
	provider models.ProviderType
}

// Registry opens initialized adapters and caches them per store and provider.
// All adapters of one provider share single rate limiter.
type Registry struct {
	storage   Storage
	cfg       provider.Config
	log       *zerolog.Logger
	factories map[models.ProviderType]Factory
	limiters  map[models.ProviderType]*rate.Limiter

	mu    sync.Mutex
	cache map[cacheKey]provider.PrintProvider
}

// NewRegistry returns new Registry building adapters with cfg.
func NewRegistry(storage Storage, cfg provider.Config, log *zerolog.Logger, ops ...Option) *Registry {
	r := &Registry{
		storage: storage,
		cfg:     cfg,
		log:     log,
		factories: map[models.ProviderType]Factory{
			models.ProviderPrintify: func(cfg provider.Config) provider.PrintProvider { return printify.NewAdapter(cfg) },
			models.ProviderPrintful: func(cfg provider.Config) provider.PrintProvider { return printful.NewAdapter(cfg) },
			models.ProviderGooten:   func(cfg provider.Config) provider.PrintProvider { return gooten.NewAdapter(cfg) },
			models.ProviderGelato:   func(cfg provider.Config) provider.PrintProvider { return gelato.NewAdapter(cfg) },
		},
		limiters: map[models.ProviderType]*rate.Limiter{},
		cache:    map[cacheKey]provider.PrintProvider{},
	}

	for _, op := range ops {
		op(r)
	}

	return r
}

// Open returns initialized adapter of store for provider.
func (r *Registry) Open(ctx context.Context, storeID string, providerType models.ProviderType) (provider.PrintProvider, error) {
	key := cacheKey{storeID: storeID, provider: providerType}

	r.mu.Lock()
	cached, ok := r.cache[key]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	factory, ok := r.factories[providerType]
	if !ok {
		return nil, fmt.Errorf("unsupported provider %q", providerType)
	}

	creds, err := r.storage.GetCredentials(ctx, storeID, providerType)
	if err != nil {
		return nil, fmt.Errorf("can't get %s credentials of store %s: %w", providerType, storeID, err)
	}
	if creds.RevokedAt != nil {
		return nil, fmt.Errorf("%s integration of store %s: %w", providerType, storeID, ErrRevoked)
	}

	cfg := r.cfg
	cfg.Limiter = r.limiters[providerType]
	adapter := factory(cfg)

	if err := adapter.Initialize(ctx, *creds); err != nil {
		return nil, fmt.Errorf("can't initialize %s adapter of store %s: %w", providerType, storeID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.cache[key]; ok {
		return cached, nil
	}
	r.cache[key] = adapter

	r.log.Info().Str("storeId", storeID).Str("provider", string(providerType)).Msg("adapter opened")

	return adapter, nil
}

// Evict drops cached adapter. Next Open initializes adapter with fresh credentials.
func (r *Registry) Evict(storeID string, providerType models.ProviderType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, cacheKey{storeID: storeID, provider: providerType})
}

// EvictOnAuthError drops cached adapter when err says provider rejected its credentials.
func (r *Registry) EvictOnAuthError(storeID string, providerType models.ProviderType, err error) {
	var authErr *platform.AuthError
	if errors.As(err, &authErr) {
		r.log.Warn().Err(err).Str("storeId", storeID).Str("provider", string(providerType)).Msg("credentials rejected, evicting adapter")
		r.Evict(storeID, providerType)
	}
}

// WithFactory replaces adapter factory of provider.
func WithFactory(providerType models.ProviderType, factory Factory) Option {
	return func(r *Registry) {
		r.factories[providerType] = factory
	}
}

// WithLimits sets requests rate limits of providers.
func WithLimits(limits map[models.ProviderType]Limit) Option {
	return func(r *Registry) {
		for providerType, limit := range limits {
			if limit.RPS <= 0 {
				continue
			}
			burst := limit.Burst
			if burst < 1 {
				burst = 1
			}
			r.limiters[providerType] = rate.NewLimiter(rate.Limit(limit.RPS), burst)
		}
	}
}
