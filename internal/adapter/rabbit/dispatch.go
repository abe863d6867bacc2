package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/taskport/worker-match-system/internal/domain/models"
	wrap "github.com/taskport/worker-match-system/pkg/logger/wrapper"
	"github.com/taskport/worker-match-system/pkg/metrics"
	"github.com/taskport/worker-match-system/pkg/rabbit"
)

const (
	dispatchExchange = "dispatch_topic"
)

// DispatchProducer publishes per-recipient dispatch outcomes so the
// notification subsystem can tell workers and requesters what happened.
type DispatchProducer struct {
	client *rabbit.RabbitMQ
}

func NewDispatchProducer(client *rabbit.RabbitMQ) *DispatchProducer {
	return &DispatchProducer{
		client: client,
	}
}

// PublishOutcome emits one dispatch outcome event, keyed by worker profile.
func (r *DispatchProducer) PublishOutcome(ctx context.Context, event models.DispatchOutcomeEvent) error {
	const op = "DispatchProducer.PublishOutcome"

	if err := r.client.EnsureConnection(ctx); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	body, err := json.Marshal(event)
	if err != nil {
		ctx = wrap.WithAction(ctx, "marshal_dispatch_outcome")
		return wrap.Error(ctx, fmt.Errorf("%s: failed to marshal message: %w", op, err))
	}

	key := fmt.Sprintf("dispatch.outcome.%s", event.WorkerProfileID)

	err = r.client.Channel.PublishWithContext(
		ctx,
		dispatchExchange, // exchange
		key,              // routing key
		false,            // mandatory
		false,            // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	metrics.RecordRabbitMQPublish("dispatch", dispatchExchange, err)
	if err != nil {
		ctx = wrap.WithAction(ctx, "publish_message")
		return wrap.Error(ctx, fmt.Errorf("%s: failed to publish with context: %w", op, err))
	}

	return nil
}
