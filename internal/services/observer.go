package services

import (
	"context"

	"fintrack/internal/amqp"
	"fintrack/internal/log"
)

// ChangeObserver is notified after a transaction mutation has been stored.
// Observers run synchronously, before the caller gets its result.
type ChangeObserver interface {
	TransactionChanged(ctx context.Context, userID, transactionID string, op amqp.Op)
}

// ObserverFunc adapts a function to ChangeObserver.
type ObserverFunc func(ctx context.Context, userID, transactionID string, op amqp.Op)

func (f ObserverFunc) TransactionChanged(ctx context.Context, userID, transactionID string, op amqp.Op) {
	f(ctx, userID, transactionID, op)
}

// EventPublisher is the part of amqp.Client used to announce changes.
type EventPublisher interface {
	PublishTransactionChanged(ctx context.Context, msg *amqp.TransactionChangedMessage) error
}

// PublishObserver forwards change notifications to the message broker.
// Publish failures are logged and never surface to the mutating request.
type PublishObserver struct {
	publisher EventPublisher
	logger    *log.Logger
}

func NewPublishObserver(publisher EventPublisher, logger *log.Logger) *PublishObserver {
	return &PublishObserver{publisher: publisher, logger: logger.WithComponent(log.ComponentAMQP)}
}

func (o *PublishObserver) TransactionChanged(ctx context.Context, userID, transactionID string, op amqp.Op) {
	msg := amqp.NewTransactionChangedMessage(userID, transactionID, op)
	// The mutation is already committed; a client disconnect must not drop the event.
	if err := o.publisher.PublishTransactionChanged(context.WithoutCancel(ctx), msg); err != nil {
		o.logger.WarnContext(ctx, "Failed to publish transaction change",
			log.FieldUserID, userID,
			log.FieldTransactionID, transactionID,
			log.FieldOperation, string(op),
			log.FieldError, err)
	}
}
