package recent

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/redis/go-redis/v9"
)

type redisRepo struct {
	client *redis.Client
	logger *log.Logger
}

func NewRedis(client *redis.Client, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &redisRepo{client: client, logger: logger}
}

func key(visitorID string) string {
	return fmt.Sprintf("recently_viewed:%s", visitorID)
}

func (r *redisRepo) Push(ctx context.Context, visitorID, handle string) error {
	k := key(visitorID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, k, 0, handle)
		pipe.LPush(ctx, k, handle)
		pipe.LTrim(ctx, k, 0, MaxItems-1)
		pipe.Expire(ctx, k, TTL)
		return nil
	})
	if err != nil {
		r.logger.Printf("recent repo: push visitor=%s handle=%s error=%v", visitorID, handle, err)
		return fmt.Errorf("failed to push recently viewed: %w", err)
	}
	return nil
}

func (r *redisRepo) List(ctx context.Context, visitorID string) ([]string, error) {
	handles, err := r.client.LRange(ctx, key(visitorID), 0, MaxItems-1).Result()
	if err != nil {
		if err == redis.Nil {
			return []string{}, nil
		}
		r.logger.Printf("recent repo: list visitor=%s error=%v", visitorID, err)
		return nil, fmt.Errorf("failed to list recently viewed: %w", err)
	}
	return handles, nil
}
