package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"awarerag/internal/model"
)

// LogAppender is the durable store the worker writes into; satisfied by
// repository.LogRepository.
type LogAppender interface {
	Append(record *model.ConversationLog) error
}

// LogPersistWorker drains the log-persist queue and writes each record to
// the conversation store. Sequential consumption keeps creation-time order
// per session.
type LogPersistWorker struct {
	conn      *amqp.Connection
	repo      LogAppender
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewLogPersistWorker(conn *amqp.Connection, repo LogAppender, queueName string) *LogPersistWorker {
	return &LogPersistWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
	}
}

func (w *LogPersistWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				w.handle(d)
			}
		}
	}()

	return nil
}

// handle decodes one delivery and appends it to the store. The queued id is
// discarded so the store assigns its own key and insert timestamp.
func (w *LogPersistWorker) handle(d amqp.Delivery) {
	var record model.ConversationLog
	if err := json.Unmarshal(d.Body, &record); err != nil {
		log.Printf("worker decode log record failed: %v", err)
		_ = d.Nack(false, false)
		return
	}
	record.ID = 0

	if err := w.repo.Append(&record); err != nil {
		log.Printf("worker persist log record failed: %v", err)
		_ = d.Nack(false, false)
		return
	}

	_ = d.Ack(false)
}

func (w *LogPersistWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
