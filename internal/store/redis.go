package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pysugar/account-tabs/internal/db/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisOptions configures the Redis backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// RedisStore keeps the document JSON under a single Redis key.
type RedisStore struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, opts RedisOptions, logger *zap.Logger) (*RedisStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Key == "" {
		opts.Key = models.DocumentKey
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	logger.Info("Connected to Redis",
		zap.String("addr", opts.Addr),
		zap.Int("db", opts.DB),
		zap.String("key", opts.Key))

	return &RedisStore{client: rdb, key: opts.Key, logger: logger}, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Read loads the document. A missing key or undecodable value yields an empty
// document; connection errors are returned.
func (s *RedisStore) Read(ctx context.Context) (models.Document, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", s.key, err)
	}

	doc, err := models.DecodeDocument(data)
	if err != nil {
		s.logger.Error("stored document is corrupt, using empty document", zap.String("key", s.key), zap.Error(err))
		return models.NewDocument(), nil
	}
	return doc, nil
}

func (s *RedisStore) Write(ctx context.Context, doc models.Document) error {
	data, err := models.EncodeDocument(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", s.key, err)
	}
	return nil
}
