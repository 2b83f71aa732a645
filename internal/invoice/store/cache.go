package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	platformredis "intakeflow/internal/platform/redis"

	"intakeflow/internal/invoice/models"
)

// CachedStore is a read-through cache over Lookup. Writes invalidate the keys
// they touch so a cached row is never older than the last in-process write.
// Cache failures degrade to the inner store, never to the caller.
type CachedStore struct {
	inner  RecordStore
	client *platformredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCached(inner RecordStore, client *platformredis.Client, ttl time.Duration, logger *slog.Logger) *CachedStore {
	return &CachedStore{inner: inner, client: client, ttl: ttl, logger: logger}
}

func cacheKey(businessKey string) string {
	return "invoice:record:" + businessKey
}

func (s *CachedStore) Lookup(ctx context.Context, businessKey string) (models.Record, error) {
	if raw, err := s.client.Get(ctx, cacheKey(businessKey)).Bytes(); err == nil {
		var rec models.Record
		if err := json.Unmarshal(raw, &rec); err == nil {
			return rec, nil
		}
	}

	rec, err := s.inner.Lookup(ctx, businessKey)
	if err != nil {
		return models.Record{}, err
	}

	if raw, err := json.Marshal(rec); err == nil {
		if err := s.client.Set(ctx, cacheKey(businessKey), raw, s.ttl).Err(); err != nil {
			s.logger.WarnContext(ctx, "cache set failed", "key", businessKey, "error", err)
		}
	}
	return rec, nil
}

func (s *CachedStore) Append(ctx context.Context, rec models.Record) error {
	if err := s.inner.Append(ctx, rec); err != nil {
		return err
	}
	s.invalidate(ctx, rec.Customer.UniqueID)
	return nil
}

func (s *CachedStore) UpdateWhere(ctx context.Context, pred Predicate, apply Apply) (int, error) {
	var touched []string
	n, err := s.inner.UpdateWhere(ctx, pred, func(rec *models.Record) {
		touched = append(touched, rec.Customer.UniqueID)
		apply(rec)
		// The key itself may have been rewritten; invalidate both sides.
		touched = append(touched, rec.Customer.UniqueID)
	})
	if err != nil {
		return n, err
	}
	s.invalidate(ctx, touched...)
	return n, nil
}

func (s *CachedStore) Exists(ctx context.Context, businessKey string) (bool, error) {
	return s.inner.Exists(ctx, businessKey)
}

func (s *CachedStore) All(ctx context.Context) ([]models.Record, error) {
	return s.inner.All(ctx)
}

func (s *CachedStore) invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.client.Del(ctx, cacheKey(key)).Err(); err != nil {
			s.logger.WarnContext(ctx, "cache invalidation failed", "key", key, "error", err)
		}
	}
}
