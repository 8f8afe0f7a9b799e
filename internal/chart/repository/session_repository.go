package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"workflow-runchart/internal/entity"
	"workflow-runchart/pkg/common"
)

// DefaultSessionTTL replaces a non-positive ttl so sessions always expire.
const DefaultSessionTTL = 30 * time.Minute

// ErrSessionNotFound is returned when a load ID is unknown or has expired.
var ErrSessionNotFound = errors.New("chart session not found")

// Session is one load of the feed. Its records never change after Save.
type Session struct {
	ID       string             `json:"id"`
	LoadedAt time.Time          `json:"loaded_at"`
	Records  []entity.RunRecord `json:"records"`
}

// SessionRepository keeps loaded feeds so navigation does not refetch.
type SessionRepository interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
}

type memorySessionRepository struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewMemorySessionRepository keeps sessions in process memory.
func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	ttl = sessionTTL(ttl)
	return &memorySessionRepository{
		cache: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (r *memorySessionRepository) Save(_ context.Context, session *Session) error {
	r.cache.Set(session.ID, session, r.ttl)
	return nil
}

func (r *memorySessionRepository) Get(_ context.Context, id string) (*Session, error) {
	v, found := r.cache.Get(id)
	if !found {
		return nil, ErrSessionNotFound
	}
	return v.(*Session), nil
}

type redisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionRepository shares sessions between replicas through Redis.
func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) SessionRepository {
	return &redisSessionRepository{client: client, ttl: sessionTTL(ttl)}
}

func (r *redisSessionRepository) Save(ctx context.Context, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.client.Set(ctx, fmt.Sprintf(common.RedisKeyChartSession, session.ID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (r *redisSessionRepository) Get(ctx context.Context, id string) (*Session, error) {
	payload, err := r.client.Get(ctx, fmt.Sprintf(common.RedisKeyChartSession, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func sessionTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultSessionTTL
	}
	return ttl
}
