package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/rosterdocs/internal/config"
	"github.com/stemsi/rosterdocs/internal/model"
	ws "github.com/stemsi/rosterdocs/internal/websocket"
)

// DefaultRunTTL bounds how long a queued or running job holds its import's run key.
const DefaultRunTTL = 15 * time.Minute

// RedisRemarkQueue queues remark jobs on a Redis list. A run key per import
// keeps a second job from being queued while one is pending.
type RedisRemarkQueue struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisRemarkQueue(rdb *redis.Client, ttl time.Duration) *RedisRemarkQueue {
	if ttl <= 0 {
		ttl = DefaultRunTTL
	}
	return &RedisRemarkQueue{rdb: rdb, ttl: ttl}
}

func (q *RedisRemarkQueue) Reserve(ctx context.Context, job model.RemarkJob) error {
	key := config.CacheKey.RemarkRunKey(job.ImportID.String())
	ok, err := q.rdb.SetNX(ctx, key, job.RequestedAt.Format(time.RFC3339), q.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire remark run key: %w", err)
	}
	if !ok {
		return ErrRemarksRunning
	}
	return nil
}

func (q *RedisRemarkQueue) Push(ctx context.Context, job model.RemarkJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal remark job: %w", err)
	}
	if err := q.rdb.RPush(ctx, config.WorkerKey.RemarkJobsQueue, payload).Err(); err != nil {
		return fmt.Errorf("push remark job: %w", err)
	}
	return nil
}

func (q *RedisRemarkQueue) Release(ctx context.Context, importID uuid.UUID) error {
	return q.rdb.Del(ctx, config.CacheKey.RemarkRunKey(importID.String())).Err()
}

// RedisEventPublisher publishes remark events on the import's progress channel.
type RedisEventPublisher struct {
	rdb *redis.Client
}

func NewRedisEventPublisher(rdb *redis.Client) *RedisEventPublisher {
	return &RedisEventPublisher{rdb: rdb}
}

func (p *RedisEventPublisher) Publish(ctx context.Context, ev ws.RemarkEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, config.CacheKey.RemarkProgressChannel(ev.ImportID), payload).Err()
}

// Subscribe streams the raw events published for an import until ctx ends or
// the returned close function is called. It returns once Redis has confirmed
// the subscription.
func (p *RedisEventPublisher) Subscribe(ctx context.Context, importID string) (<-chan []byte, func() error, error) {
	pubsub := p.rdb.Subscribe(ctx, config.CacheKey.RemarkProgressChannel(importID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, fmt.Errorf("subscribe to remark events: %w", err)
	}
	out := make(chan []byte)

	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			select {
			case out <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, pubsub.Close, nil
}
