package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/detalhesstore/detalhes-backend/pkg/config"
	"github.com/detalhesstore/detalhes-backend/pkg/db/models"
	redisclient "github.com/detalhesstore/detalhes-backend/pkg/redis"
	redislib "github.com/redis/go-redis/v9"
)

// ErrNoSession signals an expired or revoked admin session.
var ErrNoSession = errors.New("no active session")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(tokenID string) string
}

// Manager persists the logged-in admin record in Redis, keyed by the access
// token's jti. This is the session-scoped storage of the admin session: it
// expires with the token and is dropped on logout.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// Checker exposes the read-only surface needed by middleware.
type Checker interface {
	Fetch(ctx context.Context, tokenID string) (*models.AdminUser, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.AccessTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("access token ttl must be positive")
	}
	return &Manager{
		store: client,
		keyer: client,
		ttl:   ttl,
	}, nil
}

// Save stores the admin session record under the token id.
func (m *Manager) Save(ctx context.Context, tokenID string, admin models.AdminUser) error {
	if strings.TrimSpace(tokenID) == "" {
		return fmt.Errorf("token id is required")
	}
	payload, err := json.Marshal(admin)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return m.store.Set(ctx, m.keyer.SessionKey(tokenID), payload, m.ttl)
}

// Fetch resolves the admin session stored under the token id.
func (m *Manager) Fetch(ctx context.Context, tokenID string) (*models.AdminUser, error) {
	if strings.TrimSpace(tokenID) == "" {
		return nil, ErrNoSession
	}
	raw, err := m.store.Get(ctx, m.keyer.SessionKey(tokenID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	var admin models.AdminUser
	if err := json.Unmarshal([]byte(raw), &admin); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &admin, nil
}

// Revoke deletes the session tied to the token id.
func (m *Manager) Revoke(ctx context.Context, tokenID string) error {
	if strings.TrimSpace(tokenID) == "" {
		return fmt.Errorf("token id is required")
	}
	return m.store.Del(ctx, m.keyer.SessionKey(tokenID))
}
