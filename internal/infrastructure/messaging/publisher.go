package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher publishes to a durable topic exchange. A channel is not safe for
// concurrent publishes, so all sends are serialized behind a mutex.
type Publisher struct {
	mu       sync.Mutex
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger
}

// NewPublisher opens a channel and declares the topic exchange.
func NewPublisher(conn *amqp.Connection, exchange string, logger *zap.Logger) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open publisher channel: %w", err)
	}
	if err := declareExchange(ch, exchange); err != nil {
		ch.Close()
		return nil, err
	}
	return &Publisher{
		channel:  ch,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// Publish sends an envelope to the topic exchange.
func (p *Publisher) Publish(ctx context.Context, routingKey string, env Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	return p.PublishRaw(ctx, routingKey, body, nil)
}

// PublishRaw sends a pre-encoded body to the topic exchange. Used by the
// outbox relay (payloads are stored encoded) and by dead-letter publishes.
func (p *Publisher) PublishRaw(ctx context.Context, routingKey string, body []byte, headers amqp.Table) error {
	return p.publish(ctx, p.exchange, routingKey, body, headers)
}

// PublishToQueue sends directly to a queue through the default exchange.
// Used by retry republishes so the message returns to the back of the queue
// it came from without fanning out to other bindings.
func (p *Publisher) PublishToQueue(ctx context.Context, queue string, body []byte, headers amqp.Table) error {
	return p.publish(ctx, "", queue, body, headers)
}

func (p *Publisher) publish(ctx context.Context, exchange, routingKey string, body []byte, headers amqp.Table) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.channel.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers:      headers,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	p.logger.Debug("message published",
		zap.String("exchange", exchange),
		zap.String("routing_key", routingKey),
		zap.Int("size", len(body)))
	return nil
}

// Close releases the publisher channel.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channel.Close()
}

func declareExchange(ch *amqp.Channel, exchange string) error {
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return nil
}
