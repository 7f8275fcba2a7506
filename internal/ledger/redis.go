package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLedger stores outcomes in Redis lists, one list per supplier,
// with a global list preserving overall append order. Suitable for
// multi-node deployments where runs on different hosts share history.
type RedisLedger struct {
	client *redis.Client
	prefix string
}

// RedisConfig holds Redis connection settings for the ledger.
type RedisConfig struct {
	// Addr is the Redis server address (host:port).
	Addr string
	// Password is the Redis password (optional).
	Password string
	// DB is the Redis database number.
	DB int
	// Prefix is the key prefix for all ledger keys (default: "procgo:ledger:").
	Prefix string
	// PoolSize is the connection pool size (default: 10).
	PoolSize int
}

// NewRedisLedger connects to Redis and verifies the connection.
func NewRedisLedger(cfg RedisConfig) (*RedisLedger, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address is required")
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "procgo:ledger:"
	}
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 10
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: poolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisLedger{client: client, prefix: prefix}, nil
}

func (l *RedisLedger) allKey() string { return l.prefix + "all" }

func (l *RedisLedger) supplierKey(id string) string {
	return l.prefix + "supplier:" + id
}

func (l *RedisLedger) Append(ctx context.Context, o Outcome) error {
	o = stamp(o)
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}

	pipe := l.client.TxPipeline()
	pipe.RPush(ctx, l.allKey(), data)
	pipe.RPush(ctx, l.supplierKey(o.SupplierID), data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append outcome: %w", err)
	}
	return nil
}

func (l *RedisLedger) All(ctx context.Context) ([]Outcome, error) {
	return l.readList(ctx, l.allKey())
}

func (l *RedisLedger) BySupplier(ctx context.Context, supplierID string) ([]Outcome, error) {
	return l.readList(ctx, l.supplierKey(supplierID))
}

func (l *RedisLedger) readList(ctx context.Context, key string) ([]Outcome, error) {
	items, err := l.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read ledger list %s: %w", key, err)
	}
	out := make([]Outcome, 0, len(items))
	for _, item := range items {
		var o Outcome
		if err := json.Unmarshal([]byte(item), &o); err != nil {
			return nil, fmt.Errorf("decode outcome: %w", err)
		}
		out = append(out, o)
	}
	return out, nil
}

func (l *RedisLedger) Close() error {
	return l.client.Close()
}
