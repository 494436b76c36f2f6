package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"flightnum-service/internal/models"
	"flightnum-service/internal/providers"
)

// ValidityWindow is how long a cached result set stays servable.
const ValidityWindow = time.Hour

// Entry is the serialized form of a cached result set: the write instant in
// epoch milliseconds plus the payload.
type Entry struct {
	Timestamp int64                 `json:"timestamp"`
	Data      []models.FlightResult `json:"data"`
}

// Cache is a time-boxed result store keyed by (provider, full criteria).
// Get never returns an error: any backend fault degrades to a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]models.FlightResult, bool)
	Set(ctx context.Context, key string, flights []models.FlightResult) error
	Close() error
}

// Key builds the composite cache key. Every criteria field participates even
// when the active adapter ignores some of them, so a provider switch or any
// criteria change misses rather than serving a near-match.
func Key(provider providers.Identity, c models.SearchCriteria) string {
	return fmt.Sprintf("flight:%s:%s:%s:%s:%s", provider, c.Date, c.Airline, c.Origin, c.Destination)
}

// RedisCache keeps entries without a server-side TTL; staleness is judged
// lazily against the validity window on read, and stale entries are deleted
// then rather than by any sweep.
type RedisCache struct {
	client *redis.Client
	window time.Duration
	now    func() time.Time
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Window   time.Duration
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	window := cfg.Window
	if window <= 0 {
		window = ValidityWindow
	}
	return &RedisCache{client: client, window: window, now: time.Now}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]models.FlightResult, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if c.now().UnixMilli()-entry.Timestamp > c.window.Milliseconds() {
		c.client.Del(ctx, key)
		return nil, false
	}
	return entry.Data, true
}

func (c *RedisCache) Set(ctx context.Context, key string, flights []models.FlightResult) error {
	data, err := json.Marshal(Entry{Timestamp: c.now().UnixMilli(), Data: flights})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, 0).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
