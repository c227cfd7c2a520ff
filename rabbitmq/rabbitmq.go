package rabbitmq

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"unimart-io/unimart_api/services"
)

// RabbitMQ carries the connection the push publisher writes to. The
// native push gateway consumes the queue on the other side; this side
// only enqueues.
type RabbitMQ struct {
	Conn      *amqp.Connection
	Channel   *amqp.Channel
	PushQueue string
}

func NewRabbitMQ(url, pushQueue string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &RabbitMQ{
		Conn:      conn,
		Channel:   ch,
		PushQueue: pushQueue,
	}, nil
}

// SetupQueues declares the durable push queue.
func (r *RabbitMQ) SetupQueues() error {
	_, err := r.Channel.QueueDeclare(
		r.PushQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		amqp.Table{
			"x-queue-type": "classic",
		},
	)
	return err
}

// Send publishes a push payload as persistent JSON. Implements
// services.PushSender.
func (r *RabbitMQ) Send(ctx context.Context, msg services.PushMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return r.Channel.PublishWithContext(ctx,
		"",          // default exchange
		r.PushQueue, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			ContentType:  "application/json",
			Body:         body,
		},
	)
}

func (r *RabbitMQ) Close() {
	if r.Channel != nil {
		_ = r.Channel.Close()
	}
	if r.Conn != nil {
		_ = r.Conn.Close()
	}
}
