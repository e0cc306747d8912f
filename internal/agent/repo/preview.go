package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eduassist/server/internal/agent/model"
	errx "github.com/eduassist/server/internal/core/error"
	logx "github.com/eduassist/server/pkg/logger"
)

// RedisPreviewRepository stores drafted artifacts keyed by thread. SET gives
// the upsert semantics the pipeline needs: saving after preview and again
// after validation overwrites the same key.
type RedisPreviewRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisPreviewRepository(rdb redis.Cmdable, ttl time.Duration) *RedisPreviewRepository {
	return &RedisPreviewRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisPreviewRepository) previewKey(threadID string) string {
	return fmt.Sprintf("thread:%s:preview", threadID)
}

func (r *RedisPreviewRepository) SavePreview(ctx context.Context, record *model.PreviewRecord) error {
	if record == nil || record.ThreadID == "" {
		return fmt.Errorf("preview record requires a thread id")
	}
	record.UpdatedAt = time.Now().UTC()

	b, err := json.Marshal(record)
	if err != nil {
		logx.Error().Err(err).Str("threadID", record.ThreadID).Msg("failed to marshal preview record")
		return fmt.Errorf("marshal preview: %w", err)
	}

	key := r.previewKey(record.ThreadID)
	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save preview to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisPreviewRepository) LoadPreview(ctx context.Context, threadID string) (*model.PreviewRecord, error) {
	key := r.previewKey(threadID)

	raw, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load preview from redis")
		return nil, errx.WrapRedis(err)
	}

	var record model.PreviewRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		logx.Error().Err(err).Str("threadID", threadID).Msg("failed to unmarshal preview record")
		return nil, fmt.Errorf("unmarshal preview: %w", err)
	}
	return &record, nil
}

var _ model.PreviewRepository = (*RedisPreviewRepository)(nil)
