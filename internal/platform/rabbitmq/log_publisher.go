package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"awarerag/internal/model"
)

// LogPublisher enqueues finished conversation turns for asynchronous
// persistence, so a slow or failing database never blocks a response.
type LogPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewLogPublisher(conn *amqp.Connection, queueName string) *LogPublisher {
	return &LogPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *LogPublisher) Publish(ctx context.Context, record model.ConversationLog) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal log payload failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish log record failed: %w", err)
	}
	return nil
}
