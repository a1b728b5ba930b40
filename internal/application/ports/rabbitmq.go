package ports

import (
	"context"

	"github.com/rabbitmq/amqp091-go"

	"file-share-api/internal/infrastructure/mq"
)

type RabbitMQ interface {
	EventPublisher
	Connect(ctx context.Context, dsn string) error
	Init() error
	PublisherWorker(ctx context.Context)
	GetInputChan() chan mq.Event
	GetConn() *amqp091.Connection
}

// EventPublisher is what the services need from the broker.
type EventPublisher interface {
	Publish(e mq.Event)
}

// RMQConsumer drains file events into the audit sink.
type RMQConsumer interface {
	Connect(dsn string) error
	Init() error
	DeliveryWorker(ctx context.Context)
}
