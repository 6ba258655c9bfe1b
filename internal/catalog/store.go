package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taleniq/ai-gateway/internal/httpclient"
	"github.com/taleniq/ai-gateway/internal/store/cache"
)

const (
	catalogPath = "/ai-providers/complete"
	cacheKey    = "catalog:providers"
)

// Store is the single source of truth for the provider catalog. It shields
// callers from backend latency with a TTL cache and degrades to an empty
// catalog on any backend failure.
type Store struct {
	backendURL string
	client     httpclient.HTTPClient
	cache      cache.CacheService
	ttl        time.Duration
	logger     *zap.Logger

	mu        sync.RWMutex
	authToken string
}

func NewStore(backendURL string, client httpclient.HTTPClient, c cache.CacheService, ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{
		backendURL: strings.TrimRight(backendURL, "/"),
		client:     client,
		cache:      c,
		ttl:        ttl,
		logger:     logger,
	}
}

// SetAuthToken records the last known bearer token, used when a call does not
// carry its own.
func (s *Store) SetAuthToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authToken = token
}

func (s *Store) token(override string) string {
	if override != "" {
		return override
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authToken
}

type catalogEnvelope struct {
	Data []Provider `json:"data"`
}

// Providers returns the provider catalog, from cache when fresh. Failures
// are logged and surface as an empty slice: callers must treat "no providers"
// as a configuration condition, not an error.
func (s *Store) Providers(ctx context.Context, token string) []Provider {
	var cached []Provider
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil && len(cached) > 0 {
		return cached
	}

	if s.backendURL == "" {
		s.logger.Warn("No backend URL configured, provider catalog is empty")
		return nil
	}

	headers := map[string]string{}
	if t := s.token(token); t != "" {
		headers["Authorization"] = "Bearer " + t
	}

	var envelope catalogEnvelope
	url := s.backendURL + catalogPath
	if err := httpclient.SendRequest(ctx, s.client, "GET", url, headers, nil, &envelope); err != nil {
		s.logger.Error("Failed to fetch provider catalog",
			zap.String("url", url),
			zap.Error(err),
		)
		return nil
	}

	if len(envelope.Data) > 0 {
		if err := s.cache.Set(ctx, cacheKey, envelope.Data, s.ttl); err != nil {
			s.logger.Warn("Failed to cache provider catalog", zap.Error(err))
		}
	}

	return envelope.Data
}

// ProviderByName looks a provider up case-insensitively. Nil when absent.
func (s *Store) ProviderByName(ctx context.Context, name, token string) *Provider {
	for _, p := range s.Providers(ctx, token) {
		if strings.EqualFold(p.Name, name) {
			return &p
		}
	}
	return nil
}

// ProviderByID looks a provider up by id. Nil when absent.
func (s *Store) ProviderByID(ctx context.Context, id, token string) *Provider {
	for _, p := range s.Providers(ctx, token) {
		if p.ID == id {
			return &p
		}
	}
	return nil
}

// Config returns the full bundle for a provider: the provider itself, its
// models and the typed settings. All fields zero when the provider is not
// found.
func (s *Store) Config(ctx context.Context, providerName, token string) ProviderConfig {
	p := s.ProviderByName(ctx, providerName, token)
	if p == nil {
		return ProviderConfig{}
	}
	return ProviderConfig{
		Provider: p,
		Models:   p.Models,
		Settings: SettingsFromParameters(p),
	}
}

// ClearCache drops the cached catalog so the next call refetches. Idempotent.
func (s *Store) ClearCache(ctx context.Context) {
	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		s.logger.Warn("Failed to clear catalog cache", zap.Error(err))
	}
}
