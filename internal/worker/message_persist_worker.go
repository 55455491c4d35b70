// Package worker consumes the message queue and writes chat messages to
// MySQL, keeping the request path free of synchronous database writes.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"localchat/internal/model"
	"localchat/internal/pkg/logx"
	"localchat/internal/repository"
)

type MessagePersistWorker struct {
	conn             *amqp.Connection
	messageRepo      *repository.MessageRepository
	conversationRepo *repository.ConversationRepository
	queueName        string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewMessagePersistWorker(
	conn *amqp.Connection,
	messageRepo *repository.MessageRepository,
	conversationRepo *repository.ConversationRepository,
	queueName string,
) *MessagePersistWorker {
	return &MessagePersistWorker{
		conn:             conn,
		messageRepo:      messageRepo,
		conversationRepo: conversationRepo,
		queueName:        queueName,
	}
}

// Start begins consuming the queue in a background goroutine. Calling Start
// on a running worker is a no-op.
func (w *MessagePersistWorker) Start(ctx context.Context) error {
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

	if _, err := ch.QueueDeclare(w.queueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(w.queueName, "", false, false, false, false, nil)
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

func (w *MessagePersistWorker) handle(d amqp.Delivery) {
	var msg model.Message
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		logx.Errorf("worker decode message failed: %v", err)
		_ = d.Nack(false, false)
		return
	}

	if err := w.messageRepo.Create(&msg); err != nil {
		logx.Errorf("worker persist message failed: %v", err)
		_ = d.Nack(false, false)
		return
	}

	if msg.ConversationID != nil {
		if err := w.conversationRepo.Touch(*msg.ConversationID); err != nil {
			logx.Warnf("worker touch conversation %d failed: %v", *msg.ConversationID, err)
		}
	}

	_ = d.Ack(false)
}

// Close stops the consumer and waits for the in-flight delivery to finish.
func (w *MessagePersistWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
