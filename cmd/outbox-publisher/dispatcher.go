package main

import (
	"context"
	"errors"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/lojaonline/backend/pkg/db/models"
	"github.com/lojaonline/backend/pkg/logger"
	"github.com/lojaonline/backend/pkg/outbox"
)

// LogDispatcher emits each event as a structured log line. Downstream
// consumers tail the event stream from the log pipeline.
type LogDispatcher struct {
	logg *logger.Logger
}

func NewLogDispatcher(logg *logger.Logger) (*LogDispatcher, error) {
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &LogDispatcher{logg: logg}, nil
}

func (d *LogDispatcher) Dispatch(ctx context.Context, event models.OutboxEvent, envelope outbox.PayloadEnvelope) error {
	fields := map[string]any{
		"event_id":       envelope.EventID,
		"event_type":     event.EventType,
		"aggregate_type": event.AggregateType,
		"aggregate_id":   event.AggregateID.String(),
		"payload":        string(event.Payload),
	}
	if envelope.Actor != nil {
		fields["actor_buyer_id"] = envelope.Actor.BuyerID.String()
	}
	d.logg.Info(d.logg.WithFields(ctx, fields), "domain event")
	return nil
}

type publisher interface {
	Publish(context.Context, *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(context.Context) (string, error)
}

// PubSubDispatcher publishes each event to the domain topic. The message
// body is the stored payload; routing metadata travels as attributes.
type PubSubDispatcher struct {
	pub publisher
}

func NewPubSubDispatcher(pub *gcppubsub.Publisher) (*PubSubDispatcher, error) {
	if pub == nil {
		return nil, errors.New("publisher is required")
	}
	return &PubSubDispatcher{pub: &gcpPublisher{Publisher: pub}}, nil
}

func newPubSubDispatcherFromPublisher(pub publisher) *PubSubDispatcher {
	return &PubSubDispatcher{pub: pub}
}

func (d *PubSubDispatcher) Dispatch(ctx context.Context, event models.OutboxEvent, envelope outbox.PayloadEnvelope) error {
	if d == nil || d.pub == nil {
		return errors.New("pubsub dispatcher not initialized")
	}

	msg := &gcppubsub.Message{
		Data: event.Payload,
		Attributes: map[string]string{
			"event_id":       envelope.EventID,
			"event_type":     string(event.EventType),
			"aggregate_type": string(event.AggregateType),
			"aggregate_id":   event.AggregateID.String(),
			"created_at":     event.CreatedAt.Format(time.RFC3339Nano),
		},
	}

	result := d.pub.Publish(ctx, msg)
	if result == nil {
		return errors.New("publisher returned no result")
	}
	if _, err := result.Get(ctx); err != nil {
		return err
	}
	return nil
}

type gcpPublisher struct {
	*gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	if p == nil || p.Publisher == nil {
		return nil
	}
	return p.Publisher.Publish(ctx, msg)
}
