package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/XavierBriggs/fortuna/services/prop-builder/pkg/models"
	"github.com/redis/go-redis/v9"
)

// DefaultStream is the stream slip analyses are published to
const DefaultStream = "slips.analyzed"

// StreamPublisher publishes slip analysis events to a Redis Stream
type StreamPublisher struct {
	redis  *redis.Client
	stream string
}

// NewStreamPublisher creates a new stream publisher
func NewStreamPublisher(redisClient *redis.Client, stream string) *StreamPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &StreamPublisher{
		redis:  redisClient,
		stream: stream,
	}
}

// Stream returns the stream key events are written to
func (p *StreamPublisher) Stream() string {
	return p.stream
}

// Publish appends a slip analysis event to the stream
func (p *StreamPublisher) Publish(ctx context.Context, event models.SlipEvent) error {
	values, err := eventValues(event)
	if err != nil {
		return err
	}

	_, err = p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}).Result()

	if err != nil {
		return fmt.Errorf("error publishing to stream %s: %w", p.stream, err)
	}

	return nil
}

// eventValues encodes an event into the stream entry layout, a single "data" field
func eventValues(event models.SlipEvent) (map[string]interface{}, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("error marshaling slip event: %w", err)
	}

	return map[string]interface{}{
		"data": string(data),
	}, nil
}

// DecodeEvent parses the "data" field of a stream entry back into an event
func DecodeEvent(values map[string]interface{}) (models.SlipEvent, error) {
	var event models.SlipEvent

	raw, ok := values["data"]
	if !ok {
		return event, fmt.Errorf("stream entry has no data field")
	}
	data, ok := raw.(string)
	if !ok {
		return event, fmt.Errorf("stream entry data is %T, not string", raw)
	}

	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return event, fmt.Errorf("error unmarshaling slip event: %w", err)
	}

	return event, nil
}
