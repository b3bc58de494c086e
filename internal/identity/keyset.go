package identity

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-jose/go-jose/v4"
	"golang.org/x/sync/singleflight"

	"github.com/redmonkez12/plantopia/internal/logging"
)

const (
	// DefaultKeyTTL applies when the key response carries no usable max-age
	DefaultKeyTTL = time.Hour
	// DefaultMinRefreshInterval bounds forced refreshes triggered by unknown key ids
	DefaultMinRefreshInterval = time.Minute

	maxKeySetBytes = 1 << 20
)

var (
	ErrUnknownKey = errors.New("no signing key for kid")
	ErrCacheMiss  = errors.New("key set not cached")
)

// KeyCache stores the raw JWKS document so that several instances can share one fetch
type KeyCache interface {
	// Get returns the cached document and its remaining lifetime, or ErrCacheMiss
	Get(ctx context.Context) ([]byte, time.Duration, error)
	Set(ctx context.Context, raw []byte, ttl time.Duration) error
}

// KeySet fetches and caches the provider's RS256 signing keys.
// Concurrent loads are coalesced; an unknown kid forces at most one refresh per
// MinRefreshInterval to pick up rotated keys.
type KeySet struct {
	url    string
	client *http.Client
	cache  KeyCache
	logger *logging.Logger
	now    func() time.Time

	minRefreshInterval time.Duration

	mu          sync.RWMutex
	keys        map[string]*rsa.PublicKey
	expiresAt   time.Time
	lastRefresh time.Time

	group singleflight.Group
}

type KeySetOption func(*KeySet)

// WithHTTPClient overrides the client used to fetch the key set
func WithHTTPClient(client *http.Client) KeySetOption {
	return func(s *KeySet) { s.client = client }
}

// WithKeyCache shares fetched key sets through cache
func WithKeyCache(cache KeyCache) KeySetOption {
	return func(s *KeySet) { s.cache = cache }
}

func WithMinRefreshInterval(d time.Duration) KeySetOption {
	return func(s *KeySet) { s.minRefreshInterval = d }
}

func WithClock(now func() time.Time) KeySetOption {
	return func(s *KeySet) { s.now = now }
}

func NewKeySet(url string, logger *logging.Logger, opts ...KeySetOption) *KeySet {
	s := &KeySet{
		url:                url,
		client:             &http.Client{Timeout: 10 * time.Second},
		logger:             logger.WithComponent("identity-keys"),
		now:                time.Now,
		minRefreshInterval: DefaultMinRefreshInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = NewMemoryKeyCache(s.now)
	}
	return s
}

// Key returns the public key for kid
func (s *KeySet) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if key, ok := s.lookup(kid); ok {
		return key, nil
	}

	if err := s.load(ctx, false); err != nil {
		return nil, err
	}
	if key, ok := s.lookup(kid); ok {
		return key, nil
	}

	// Unknown kid with a fresh set: the provider may have rotated keys
	if s.canForceRefresh() {
		if err := s.load(ctx, true); err != nil {
			return nil, err
		}
		if key, ok := s.lookup(kid); ok {
			return key, nil
		}
	}

	return nil, fmt.Errorf("%w %q", ErrUnknownKey, kid)
}

func (s *KeySet) lookup(kid string) (*rsa.PublicKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.keys == nil || !s.now().Before(s.expiresAt) {
		return nil, false
	}
	key, ok := s.keys[kid]
	return key, ok
}

func (s *KeySet) canForceRefresh() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now().Sub(s.lastRefresh) >= s.minRefreshInterval
}

// load refreshes the in-process keys. A non-forced load first consults the shared cache.
func (s *KeySet) load(ctx context.Context, force bool) error {
	flight := "load"
	if force {
		flight = "refresh"
	}

	_, err, _ := s.group.Do(flight, func() (any, error) {
		if !force {
			// Another caller may have finished a load while we waited
			s.mu.RLock()
			fresh := s.keys != nil && s.now().Before(s.expiresAt)
			s.mu.RUnlock()
			if fresh {
				return nil, nil
			}

			raw, ttl, err := s.cache.Get(ctx)
			if err == nil {
				keys, parseErr := parseKeySet(raw)
				if parseErr == nil {
					s.store(keys, ttl, false)
					return nil, nil
				}
				s.logger.Warn("ignoring unparsable cached key set", "error", parseErr.Error())
			} else if !errors.Is(err, ErrCacheMiss) {
				s.logger.Warn("key cache read failed", "error", err.Error())
			}
		}

		raw, ttl, err := s.fetch(ctx)
		if err != nil {
			return nil, err
		}
		keys, err := parseKeySet(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrKeysUnavailable, err)
		}

		s.store(keys, ttl, true)
		if err := s.cache.Set(ctx, raw, ttl); err != nil {
			s.logger.Warn("key cache write failed", "error", err.Error())
		}
		s.logger.Debug("signing keys refreshed", "keys", len(keys), "ttl", ttl.String())
		return nil, nil
	})
	return err
}

func (s *KeySet) store(keys map[string]*rsa.PublicKey, ttl time.Duration, fetched bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.keys = keys
	s.expiresAt = now.Add(ttl)
	if fetched {
		s.lastRefresh = now
	}
}

func (s *KeySet) fetch(ctx context.Context) ([]byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrKeysUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrKeysUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("%w: unexpected status %d", ErrKeysUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxKeySetBytes))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrKeysUnavailable, err)
	}

	return raw, maxAge(resp.Header.Get("Cache-Control")), nil
}

// parseKeySet keeps the RSA signing keys of a JWKS document
func parseKeySet(raw []byte) (map[string]*rsa.PublicKey, error) {
	var set jose.JSONWebKeySet
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("decode key set: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.KeyID == "" || (k.Use != "" && k.Use != "sig") {
			continue
		}
		if k.Algorithm != "" && k.Algorithm != "RS256" {
			continue
		}
		pub, ok := k.Key.(*rsa.PublicKey)
		if !ok {
			continue
		}
		keys[k.KeyID] = pub
	}

	if len(keys) == 0 {
		return nil, errors.New("key set has no RSA signing keys")
	}
	return keys, nil
}

// maxAge extracts max-age from a Cache-Control header
func maxAge(header string) time.Duration {
	for _, directive := range strings.Split(header, ",") {
		directive = strings.TrimSpace(directive)
		value, ok := strings.CutPrefix(strings.ToLower(directive), "max-age=")
		if !ok {
			continue
		}
		seconds, err := strconv.Atoi(strings.Trim(value, `"`))
		if err != nil || seconds <= 0 {
			return DefaultKeyTTL
		}
		return time.Duration(seconds) * time.Second
	}
	return DefaultKeyTTL
}

// MemoryKeyCache keeps the key set document in process memory
type MemoryKeyCache struct {
	now func() time.Time

	mu        sync.Mutex
	raw       []byte
	expiresAt time.Time
}

func NewMemoryKeyCache(now func() time.Time) *MemoryKeyCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryKeyCache{now: now}
}

func (c *MemoryKeyCache) Get(context.Context) ([]byte, time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	remaining := c.expiresAt.Sub(c.now())
	if c.raw == nil || remaining <= 0 {
		return nil, 0, ErrCacheMiss
	}
	return c.raw, remaining, nil
}

func (c *MemoryKeyCache) Set(_ context.Context, raw []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.raw = raw
	c.expiresAt = c.now().Add(ttl)
	return nil
}
