// Package events publishes lifecycle events to the notification pipeline over
// Redis pub/sub. Delivery is at-most-once: a failed publish is logged and
// dropped, never retried in the request path and never surfaced to the caller.
package events

import (
	"context"
	"encoding/json"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const (
	channelPrefix  = "jobboard.events."
	publishTimeout = 2 * time.Second
)

type envelope struct {
	Event     string    `json:"event"`
	Payload   any       `json:"payload"`
	EmittedAt time.Time `json:"emitted_at"`
}

type redisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher wraps a Redis client as an EventPublisher. A nil client is
// allowed: emission degrades to a logged no-op so the pipeline keeps working
// without a broker.
func NewRedisPublisher(client *redis.Client) domain.EventPublisher {
	return &redisPublisher{client: client}
}

// Emit publishes the event without blocking the caller. The publish runs on
// its own goroutine with its own deadline so a canceled request context cannot
// suppress an event for work that already committed.
func (p *redisPublisher) Emit(event string, payload any) {
	if p.client == nil {
		logger.Log.Debug("event dropped, broker not configured", "event", event)
		return
	}

	body, err := json.Marshal(envelope{
		Event:     event,
		Payload:   payload,
		EmittedAt: time.Now().UTC(),
	})
	if err != nil {
		logger.Log.Warn("event serialization failed", "event", event, "error", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := p.client.Publish(ctx, channelPrefix+event, body).Err(); err != nil {
			logger.Log.Warn("event emission failed", "event", event, "error", err)
		}
	}()
}
