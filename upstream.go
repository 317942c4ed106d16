package authgate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// UserService confirms verified tokens against the managed auth provider's
// user endpoint. Provider answers about the token itself map to credential
// failures; network faults and provider outages are surfaced separately so
// they are never mistaken for a bad token.
type UserService struct {
	baseURL    string
	serviceKey string
	client     *http.Client
	rdb        *redis.Client
	cacheTTL   time.Duration
}

// NewUserService builds a user-lookup client from the upstream configuration.
func NewUserService(cfg UpstreamConfig) (*UserService, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("upstream base URL is required")
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = defaultHTTPTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}

	s := &UserService{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		serviceKey: cfg.ServiceKey,
		client: &http.Client{
			Timeout: cfg.HTTPTimeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
			},
		},
		cacheTTL: cfg.CacheTTL,
	}
	if cfg.RedisAddr != "" {
		s.rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}
	return s, nil
}

// Close releases the lookup cache connection, if any.
func (s *UserService) Close() error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

type userResponse struct {
	ID string `json:"id"`
}

// Check asks the provider for the user behind the token and confirms it
// matches the verified subject. Results are cached briefly, keyed by the
// token digest so raw tokens never reach the cache.
func (s *UserService) Check(ctx context.Context, token, subject string) error {
	key := cacheKey(token)

	if id, ok := s.cacheGet(ctx, key); ok {
		return matchSubject(id, subject)
	}

	id, err := s.lookup(ctx, token)
	if err != nil {
		return err
	}

	s.cacheSet(ctx, key, id)
	return matchSubject(id, subject)
}

func (s *UserService) lookup(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return "", newError(ErrCodeUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", bearerPrefix+token)
	if s.serviceKey != "" {
		req.Header.Set("apikey", s.serviceKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", newError(ErrCodeUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode/100 == 2:
	case resp.StatusCode/100 == 4:
		return "", newError(ErrCodeInvalidToken, fmt.Errorf("identity provider rejected token: %s", resp.Status))
	default:
		return "", newError(ErrCodeUpstreamUnavailable, fmt.Errorf("identity provider returned %s", resp.Status))
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", newError(ErrCodeUpstreamUnavailable, err)
	}
	return user.ID, nil
}

func matchSubject(id, subject string) error {
	if id != "" && subject != "" && id != subject {
		return newError(ErrCodeInvalidToken, fmt.Errorf("provider user %q does not match token subject", id))
	}
	return nil
}

// cacheGet and cacheSet are best effort: a broken cache degrades to a lookup
// per request, never to a rejection.
func (s *UserService) cacheGet(ctx context.Context, key string) (string, bool) {
	if s.rdb == nil {
		return "", false
	}
	id, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return id, true
}

func (s *UserService) cacheSet(ctx context.Context, key, id string) {
	if s.rdb == nil {
		return
	}
	_ = s.rdb.Set(ctx, key, id, s.cacheTTL).Err()
}

func cacheKey(token string) string {
	digest := sha256.Sum256([]byte(token))
	return "authgate:user:" + hex.EncodeToString(digest[:])
}
