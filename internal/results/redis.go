package results

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// streamAdder is the subset of *redis.Client used by RedisSink.
type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisConfig selects the server and the capped stream.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
	MaxLen   int64
}

// RedisSink appends each record to a capped Redis stream.
type RedisSink struct {
	client streamAdder
	stream string
	maxLen int64
	close  func() error
}

// OpenRedis connects to cfg.Addr and verifies the connection.
func OpenRedis(ctx context.Context, cfg RedisConfig) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisSink{client: client, stream: cfg.Stream, maxLen: cfg.MaxLen, close: client.Close}, nil
}

func (s *RedisSink) Write(ctx context.Context, rec Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: s.maxLen > 0,
		Values: map[string]any{
			"session_id":  rec.SessionID,
			"user_id":     strconv.FormatInt(rec.UserID, 10),
			"question_id": rec.Question.ID,
			"correct":     strconv.FormatBool(rec.IsCorrect),
			"record":      string(body),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd result: %w", err)
	}
	return nil
}

func (s *RedisSink) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}
