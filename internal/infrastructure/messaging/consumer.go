package messaging

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ConsumerConfig describes the service queue and its bindings.
type ConsumerConfig struct {
	Queue    string
	Bindings []string
	Prefetch int
}

// Consumer declares the queue topology on start and dispatches deliveries
// through the registry and the retry controller.
type Consumer struct {
	conn       *amqp.Connection
	exchange   string
	cfg        ConsumerConfig
	registry   *Registry
	controller *RetryController
	logger     *zap.Logger

	channel *amqp.Channel
	wg      sync.WaitGroup
}

// NewConsumer creates a consumer bound to one queue.
func NewConsumer(conn *amqp.Connection, exchange string, cfg ConsumerConfig, registry *Registry, controller *RetryController, logger *zap.Logger) *Consumer {
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 10
	}
	return &Consumer{
		conn:       conn,
		exchange:   exchange,
		cfg:        cfg,
		registry:   registry,
		controller: controller,
		logger:     logger,
	}
}

// Start declares the exchange, queue and bindings, then consumes until the
// channel closes or ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("open consumer channel: %w", err)
	}
	c.channel = ch

	if err := declareExchange(ch, c.exchange); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", c.cfg.Queue, err)
	}
	for _, binding := range c.cfg.Bindings {
		if err := ch.QueueBind(c.cfg.Queue, binding, c.exchange, false, nil); err != nil {
			return fmt.Errorf("bind %s to %s: %w", c.cfg.Queue, binding, err)
		}
	}
	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return fmt.Errorf("set prefetch: %w", err)
	}

	deliveries, err := ch.Consume(c.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.cfg.Queue, err)
	}

	c.logger.Info("consumer started",
		zap.String("queue", c.cfg.Queue),
		zap.Strings("bindings", c.cfg.Bindings),
		zap.Strings("handlers", c.registry.Patterns()))

	c.wg.Add(1)
	go c.loop(ctx, deliveries)
	return nil
}

func (c *Consumer) loop(ctx context.Context, deliveries <-chan amqp.Delivery) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-deliveries:
			if !ok {
				c.logger.Warn("delivery channel closed", zap.String("queue", c.cfg.Queue))
				return
			}
			c.dispatch(ctx, msg)
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, msg amqp.Delivery) {
	d := FromAMQP(msg, c.cfg.Queue)

	handler, ok := c.registry.Resolve(d.RoutingKey)
	if !ok {
		c.logger.Debug("no handler for routing key, acking",
			zap.String("routing_key", d.RoutingKey))
		if err := d.Ack(); err != nil {
			c.logger.Error("failed to ack unhandled message", zap.Error(err))
		}
		return
	}

	env, err := ParseEnvelope(d.Body)
	if err != nil {
		// malformed bodies never succeed on retry
		c.logger.Warn("rejecting malformed message",
			zap.String("routing_key", d.RoutingKey),
			zap.Error(err))
		if rejErr := d.Reject(false); rejErr != nil {
			c.logger.Error("failed to reject malformed message", zap.Error(rejErr))
		}
		return
	}

	if err := c.controller.Process(ctx, d, func(ctx context.Context) error {
		return handler(ctx, env)
	}); err != nil {
		c.logger.Error("failed to settle delivery",
			zap.String("routing_key", d.RoutingKey),
			zap.Error(err))
	}
}

// Stop closes the consumer channel and waits for the dispatch loop.
func (c *Consumer) Stop() error {
	var err error
	if c.channel != nil {
		err = c.channel.Close()
	}
	c.wg.Wait()
	return err
}
