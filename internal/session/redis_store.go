package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prepmate/prepmate/internal/models"
	"github.com/prepmate/prepmate/internal/utils"
)

// RedisStore keeps sessions as JSON values with a sliding TTL. Every Save
// refreshes the expiry, so an abandoned interview ages out on its own.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func sessionKey(interviewID string) string {
	return "interview:session:" + interviewID
}

func (s *RedisStore) Load(ctx context.Context, interviewID string) (*models.InterviewSession, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(interviewID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var out models.InterviewSession
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		// corrupt value: evict and report missing
		_ = s.rdb.Del(ctx, sessionKey(interviewID)).Err()
		return nil, utils.ErrNotFound
	}
	return &out, nil
}

func (s *RedisStore) Save(ctx context.Context, sess *models.InterviewSession) error {
	if sess == nil || sess.InterviewID == "" {
		return errors.New("session requires an interview id")
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKey(sess.InterviewID), b, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, interviewID string) error {
	return s.rdb.Del(ctx, sessionKey(interviewID)).Err()
}
