package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Envelope is the wire form of an Event on the bus.
type Envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurredAt"`
}

// Bus is an in-process pub/sub channel for pipeline progress. Subscribers
// attach before a run starts; slow subscribers buffer rather than block the
// pipeline.
type Bus struct {
	pubSub *gochannel.GoChannel
}

func NewBus() *Bus {
	return &Bus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 256,
		}, watermill.NopLogger{}),
	}
}

// Publish serializes the event and posts it on its own topic.
func (b *Bus) Publish(evt Event) error {
	raw, err := json.Marshal(Envelope{
		Type:       evt.EventType(),
		Data:       evt.Payload(),
		OccurredAt: evt.Timestamp(),
	})
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
	}
	msg := message.NewMessage(watermill.NewUUID(), raw)
	return b.pubSub.Publish(evt.EventType(), msg)
}

// Subscribe returns the raw message stream for a topic. Consumers must Ack
// every message.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, topic)
}

// Consume attaches a handler to a topic and acks every delivery.
func (b *Bus) Consume(ctx context.Context, topic string, handle func(Envelope)) error {
	messages, err := b.pubSub.Subscribe(ctx, topic)
	if err != nil {
		return err
	}
	go func() {
		for msg := range messages {
			var env Envelope
			if err := json.Unmarshal(msg.Payload, &env); err != nil {
				msg.Ack() // malformed payloads are not retriable
				continue
			}
			handle(env)
			msg.Ack()
		}
	}()
	return nil
}

func (b *Bus) Close() error {
	return b.pubSub.Close()
}
