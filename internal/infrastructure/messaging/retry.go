package messaging

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// DefaultMaxRetries bounds consumer-side redelivery attempts.
const DefaultMaxRetries = 5

// RetryPolicy configures the retry budget and the dead-letter destination for
// one queue.
type RetryPolicy struct {
	MaxRetries    int
	DLQRoutingKey string
}

// RetryPublisher is the slice of the publisher the controller needs to
// republish failed messages.
type RetryPublisher interface {
	PublishRaw(ctx context.Context, routingKey string, body []byte, headers amqp.Table) error
	PublishToQueue(ctx context.Context, queue string, body []byte, headers amqp.Table) error
}

// RetryController settles every delivery exactly once. Successes are acked.
// Failures are republished to the back of the same queue with an incremented
// retry header; once the budget is exhausted the message goes to the
// dead-letter routing key when one is configured, otherwise it is dropped.
type RetryController struct {
	publisher RetryPublisher
	policy    RetryPolicy
	logger    *zap.Logger
}

// NewRetryController creates a controller for one queue's policy.
func NewRetryController(publisher RetryPublisher, policy RetryPolicy, logger *zap.Logger) *RetryController {
	if policy.MaxRetries <= 0 {
		policy.MaxRetries = DefaultMaxRetries
	}
	return &RetryController{
		publisher: publisher,
		policy:    policy,
		logger:    logger,
	}
}

// Process runs the unit of work for a delivery and settles it according to
// the outcome. The returned error reports settle failures, not work failures;
// work failures are absorbed into the retry flow.
func (c *RetryController) Process(ctx context.Context, d *Delivery, work func(context.Context) error) error {
	err := work(ctx)
	if err == nil {
		if ackErr := d.Ack(); ackErr != nil {
			c.logger.Error("failed to ack processed message",
				zap.String("routing_key", d.RoutingKey),
				zap.Error(ackErr))
			return ackErr
		}
		return nil
	}

	retryCount := d.RetryCount() + 1
	if retryCount >= c.policy.MaxRetries {
		return c.deadLetter(ctx, d, retryCount, err)
	}

	headers := amqp.Table{RetryCountHeader: int32(retryCount)}
	if pubErr := c.publisher.PublishToQueue(ctx, d.Queue, d.Body, headers); pubErr != nil {
		c.logger.Error("failed to republish for retry, leaving redelivery to the broker",
			zap.String("routing_key", d.RoutingKey),
			zap.Int("retry_count", retryCount),
			zap.Error(pubErr))
		return d.Reject(true)
	}

	c.logger.Warn("message processing failed, requeued",
		zap.String("routing_key", d.RoutingKey),
		zap.Int("retry_count", retryCount),
		zap.Int("max_retries", c.policy.MaxRetries),
		zap.Error(err))
	return d.Ack()
}

func (c *RetryController) deadLetter(ctx context.Context, d *Delivery, retryCount int, cause error) error {
	if c.policy.DLQRoutingKey == "" {
		c.logger.Error("retry budget exhausted, dropping message",
			zap.String("routing_key", d.RoutingKey),
			zap.Int("retry_count", retryCount),
			zap.Error(cause))
		return d.Reject(false)
	}

	headers := amqp.Table{RetryCountHeader: int32(retryCount)}
	if pubErr := c.publisher.PublishRaw(ctx, c.policy.DLQRoutingKey, d.Body, headers); pubErr != nil {
		c.logger.Error("failed to publish to dead letter queue",
			zap.String("routing_key", d.RoutingKey),
			zap.String("dlq_routing_key", c.policy.DLQRoutingKey),
			zap.Error(pubErr))
		return d.Reject(true)
	}

	c.logger.Error("retry budget exhausted, moved to dead letter queue",
		zap.String("routing_key", d.RoutingKey),
		zap.String("dlq_routing_key", c.policy.DLQRoutingKey),
		zap.Int("retry_count", retryCount),
		zap.Error(cause))
	return d.Ack()
}
