package provider

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/MichalMitros/pod-sync/internal/fetcher"
	"github.com/MichalMitros/pod-sync/internal/platform"
	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultPageSize is products page size used when Config doesn't set one.
const DefaultPageSize = 50

// Config is configuration shared by all adapters.
type Config struct {
	Client    *http.Client
	UserAgent string
	// BaseURL overrides supplier's production API url.
	BaseURL  string
	Limiter  *rate.Limiter
	PageSize int
	Syncer   CatalogSyncer
	Logger   *zerolog.Logger
}

// NewFetcher returns Fetcher sending requests authorized by authorize to supplier API.
func (c Config) NewFetcher(provider models.ProviderType, defaultBaseURL string, authorize fetcher.Authorizer) *fetcher.Fetcher {
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	ops := []fetcher.Option{fetcher.WithAuthorizer(authorize)}
	if c.Limiter != nil {
		ops = append(ops, fetcher.WithLimiter(c.Limiter))
	}

	return fetcher.NewFetcher(client, c.UserAgent, string(provider), baseURL, ops...)
}

// Limit returns products page size.
func (c Config) Limit(opts models.PageOptions) int {
	switch {
	case opts.Limit > 0:
		return opts.Limit
	case c.PageSize > 0:
		return c.PageSize
	default:
		return DefaultPageSize
	}
}

// Log returns configured logger or disabled one.
func (c Config) Log() *zerolog.Logger {
	if c.Logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return c.Logger
}

// Session holds credentials and authorized Fetcher bound to adapter by successful Initialize.
type Session struct {
	mu      sync.RWMutex
	creds   *models.Credentials
	fetcher *fetcher.Fetcher
}

// Bind stores credentials and Fetcher authorized with them.
func (s *Session) Bind(creds models.Credentials, f *fetcher.Fetcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = &creds
	s.fetcher = f
}

// Get returns bound credentials and Fetcher or platform.ErrNotInitialized.
func (s *Session) Get() (models.Credentials, *fetcher.Fetcher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.creds == nil {
		return models.Credentials{}, nil, platform.ErrNotInitialized
	}
	return *s.creds, s.fetcher, nil
}

// SyncCatalog runs catalog sync of pages with bound credentials.
func (s *Session) SyncCatalog(ctx context.Context, syncer CatalogSyncer, pages PageFetcher) (*models.SyncResult, error) {
	creds, _, err := s.Get()
	if err != nil {
		return nil, err
	}
	if syncer == nil {
		return nil, errors.New("catalog syncer is not configured")
	}
	return syncer.SyncCatalog(ctx, creds, pages)
}
