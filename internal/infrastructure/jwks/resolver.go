package jwks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/manorfm/coffee-shop/internal/domain"
	"github.com/manorfm/coffee-shop/internal/infrastructure/config"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Fetcher retrieves the raw key set document
type Fetcher interface {
	Fetch(ctx context.Context, url string) (jwk.Set, error)
}

const maxKeySetSize = 1 << 20

// HTTPFetcher fetches key sets over HTTP
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher whose requests are bounded by timeout
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{
		Timeout:   timeout,
		Transport: &keySetTransport{base: http.DefaultTransport, limit: maxKeySetSize},
	}}
}

// Fetch downloads and parses the key set at url
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (jwk.Set, error) {
	set, err := jwk.Fetch(ctx, url, jwk.WithHTTPClient(f.client))
	if err != nil {
		return nil, fmt.Errorf("error fetching key set: %w", err)
	}
	return set, nil
}

// keySetTransport rejects non-200 responses and truncates bodies after
// limit bytes. jwk.Fetch reads whatever body it is handed.
type keySetTransport struct {
	base  http.RoundTripper
	limit int64
}

func (t *keySetTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		return nil, fmt.Errorf("unexpected key set response status: %s", res.Status)
	}

	res.Body = struct {
		io.Reader
		io.Closer
	}{io.LimitReader(res.Body, t.limit), res.Body}
	return res, nil
}

type keySet map[string]*domain.SigningKey

// Resolver resolves signing keys by key id. The key set is fetched on first
// use and again whenever a key id is missing. Refetches caused by a miss are
// limited to one per refresh interval.
type Resolver struct {
	url     string
	timeout time.Duration
	fetcher Fetcher
	limiter *rate.Limiter
	logger  *zap.Logger
	keys    atomic.Pointer[keySet]
}

// NewResolver creates a resolver for the configured JWKS endpoint
func NewResolver(cfg *config.Config, logger *zap.Logger) *Resolver {
	return NewResolverWithFetcher(cfg, NewHTTPFetcher(cfg.JWKSFetchTimeout), logger)
}

// NewResolverWithFetcher creates a resolver using a custom fetcher
func NewResolverWithFetcher(cfg *config.Config, fetcher Fetcher, logger *zap.Logger) *Resolver {
	limit := rate.Inf
	if cfg.JWKSMinRefreshInterval > 0 {
		limit = rate.Every(cfg.JWKSMinRefreshInterval)
	}
	return &Resolver{
		url:     cfg.JWKSURL,
		timeout: cfg.JWKSFetchTimeout,
		fetcher: fetcher,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// Resolve returns the signing key with the given key id
func (r *Resolver) Resolve(ctx context.Context, kid string) (*domain.SigningKey, error) {
	if kid == "" {
		return nil, domain.ErrKeyNotFound
	}

	cached := r.keys.Load()
	if cached != nil {
		if key, ok := (*cached)[kid]; ok {
			return key, nil
		}
		// Only refetches caused by a miss count against the limiter.
		if !r.limiter.Allow() {
			r.logger.Warn("Key set refresh rate limited",
				zap.String("kid", kid),
				zap.String("jwks_url", r.url))
			return nil, domain.ErrKeyNotFound
		}
	}

	keys, err := r.refresh(ctx)
	if err != nil {
		return nil, err
	}

	key, ok := keys[kid]
	if !ok {
		r.logger.Warn("Signing key not found after refresh",
			zap.String("kid", kid),
			zap.Int("key_count", len(keys)))
		return nil, domain.ErrKeyNotFound
	}
	return key, nil
}

// Warm fetches the key set ahead of the first request
func (r *Resolver) Warm(ctx context.Context) error {
	_, err := r.refresh(ctx)
	return err
}

// refresh fetches the key set and replaces the cache. Concurrent refreshes
// are not coordinated; the last one to finish wins.
func (r *Resolver) refresh(ctx context.Context) (keySet, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	set, err := r.fetcher.Fetch(ctx, r.url)
	if err != nil {
		r.logger.Error("Failed to fetch key set",
			zap.String("jwks_url", r.url),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrKeySetUnavailable, err)
	}

	keys := r.parse(set)
	r.keys.Store(&keys)

	r.logger.Info("Key set refreshed",
		zap.String("jwks_url", r.url),
		zap.Int("key_count", len(keys)))
	return keys, nil
}

func (r *Resolver) parse(set jwk.Set) keySet {
	keys := make(keySet, set.Len())
	for i := 0; i < set.Len(); i++ {
		key, ok := set.Key(i)
		if !ok {
			continue
		}
		kid := key.KeyID()
		if kid == "" {
			r.logger.Debug("Skipping key without kid", zap.String("kty", key.KeyType().String()))
			continue
		}
		if key.KeyUsage() == string(jwk.ForEncryption) {
			continue
		}
		publicKey, err := jwk.PublicRawKeyOf(key)
		if err != nil {
			r.logger.Warn("Skipping unusable key", zap.String("kid", kid), zap.Error(err))
			continue
		}
		keys[kid] = &domain.SigningKey{
			KeyID:     kid,
			KeyType:   key.KeyType().String(),
			Algorithm: key.Algorithm().String(),
			PublicKey: publicKey,
		}
	}
	return keys
}
