package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"CoinSentry/internal/domain/models"
	domrepo "CoinSentry/internal/domain/repository"
)

const casMaxRetries = 5

// RedisReliabilityStore persists trust weights in Redis, one JSON value per
// source. Update runs under WATCH so concurrent requests touching the same
// source are serialized via optimistic compare-and-swap; different sources
// never contend.
type RedisReliabilityStore struct {
	client *redis.Client
	prefix string
}

func NewRedisReliabilityStore(client *redis.Client, prefix string) domrepo.ReliabilityStore {
	if prefix == "" {
		prefix = "coinsentry:reliability"
	}
	return &RedisReliabilityStore{client: client, prefix: prefix}
}

func (s *RedisReliabilityStore) key(name string) string {
	return s.prefix + ":" + name
}

func (s *RedisReliabilityStore) Get(ctx context.Context, sourceName string) (*models.SourceReliability, error) {
	b, err := s.client.Get(ctx, s.key(sourceName)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reliability get %s: %w", sourceName, err)
	}
	var rel models.SourceReliability
	if err := json.Unmarshal(b, &rel); err != nil {
		return nil, fmt.Errorf("reliability decode %s: %w", sourceName, err)
	}
	return &rel, nil
}

func (s *RedisReliabilityStore) GetAll(ctx context.Context) ([]*models.SourceReliability, error) {
	var out []*models.SourceReliability
	iter := s.client.Scan(ctx, 0, s.prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		b, err := s.client.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reliability scan get: %w", err)
		}
		var rel models.SourceReliability
		if err := json.Unmarshal(b, &rel); err != nil {
			continue
		}
		out = append(out, &rel)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("reliability scan: %w", err)
	}
	return out, nil
}

func (s *RedisReliabilityStore) Update(ctx context.Context, sourceName string, fn func(cur *models.SourceReliability) *models.SourceReliability) error {
	key := s.key(sourceName)

	txf := func(tx *redis.Tx) error {
		var cur *models.SourceReliability
		b, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil {
			cur = &models.SourceReliability{}
			if uerr := json.Unmarshal(b, cur); uerr != nil {
				cur = nil
			}
		}

		next := fn(cur)
		if next == nil {
			return nil
		}
		buf, err := json.Marshal(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, buf, 0)
			return nil
		})
		return err
	}

	for i := 0; i < casMaxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue // lost the race, re-read and retry
		}
		return fmt.Errorf("reliability update %s: %w", sourceName, err)
	}
	return fmt.Errorf("reliability update %s: cas retries exhausted", sourceName)
}

func (s *RedisReliabilityStore) Close() error {
	return s.client.Close()
}
