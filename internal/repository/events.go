package repository

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"lifin-backend/internal/models"
)

// Publisher emits document change events on Redis pub/sub. The realtime hub
// bridges these channels to subscribed websocket clients.
type Publisher struct {
	redis *redis.Client
}

func NewPublisher(redisClient *redis.Client) *Publisher {
	return &Publisher{redis: redisClient}
}

// Channel returns the pub/sub channel name for one collection.
func Channel(collection string) string {
	return "collection_updates:" + collection
}

// Publish announces a change on a collection. Delivery is best effort: a
// failed publish is logged, never surfaced to the caller, since the write
// itself already succeeded.
func (p *Publisher) Publish(ctx context.Context, collection, action string, id uuid.UUID) {
	event := models.ChangeEvent{Collection: collection, Action: action, ID: id}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := p.redis.Publish(ctx, Channel(collection), string(data)).Err(); err != nil {
		log.Printf("repository: failed to publish %s change for %s: %v", collection, id, err)
	}
}
