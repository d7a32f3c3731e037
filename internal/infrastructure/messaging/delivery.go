package messaging

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

// RetryCountHeader carries the consumer-side delivery attempt count.
const RetryCountHeader = "x-retry-count"

// Acknowledger is the explicit settle handle for one delivery. It is passed
// through the retry controller as a value, never captured ambiently.
type Acknowledger interface {
	Ack() error
	Reject(requeue bool) error
}

type amqpAcknowledger struct {
	d amqp.Delivery
}

func (a amqpAcknowledger) Ack() error                { return a.d.Ack(false) }
func (a amqpAcknowledger) Reject(requeue bool) error { return a.d.Reject(requeue) }

// Delivery is one inbound message together with its settle handle and the
// queue it was consumed from.
type Delivery struct {
	RoutingKey string
	Queue      string
	Body       []byte
	Headers    amqp.Table

	ack Acknowledger
}

// NewDelivery builds a delivery around an explicit settle handle. Used by the
// consumer and by tests that stub the handle.
func NewDelivery(routingKey, queue string, body []byte, headers amqp.Table, ack Acknowledger) *Delivery {
	return &Delivery{
		RoutingKey: routingKey,
		Queue:      queue,
		Body:       body,
		Headers:    headers,
		ack:        ack,
	}
}

// FromAMQP wraps a broker delivery.
func FromAMQP(d amqp.Delivery, queue string) *Delivery {
	return NewDelivery(d.RoutingKey, queue, d.Body, d.Headers, amqpAcknowledger{d: d})
}

// RetryCount reads the retry header. A missing or malformed header counts as
// zero, so first deliveries and messages from non-retrying publishers are
// treated alike.
func (d *Delivery) RetryCount() int {
	if d.Headers == nil {
		return 0
	}
	switch v := d.Headers[RetryCountHeader].(type) {
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float32:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Ack settles the delivery as processed.
func (d *Delivery) Ack() error { return d.ack.Ack() }

// Reject settles the delivery as failed.
func (d *Delivery) Reject(requeue bool) error { return d.ack.Reject(requeue) }
