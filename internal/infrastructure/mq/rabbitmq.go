package mq

import (
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"file-share-api/config"
	"file-share-api/internal/interface/api/rest/dto/file"
)

const (
	bufferSize = 128
	// flushTimeout bounds how long buffered events are still sent after shutdown
	flushTimeout = 3 * time.Second
)

// publishChannel is the part of *amqp091.Channel the worker needs.
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

type (
	InputCh  = chan Event
	RabbitMQ struct {
		cfg   config.MQ
		log   *zap.Logger
		conn  *amqp091.Connection
		pubCh *amqp091.Channel
		pub   publishChannel
		in    InputCh
	}
	Event struct {
		Id      uuid.UUID `json:"event_id"`
		TS      time.Time `json:"time_stamp"`
		Action  string    `json:"event_action"`
		FileID  string    `json:"file_id"`
		ActorID string    `json:"actor_id"`
		Payload file.File `json:"file_payload"`
	}
)

// Routing keys, one per catalog change.
const (
	ActionUploaded   = "file.uploaded"
	ActionShared     = "file.shared"
	ActionLinkIssued = "file.link_issued"
	ActionDeleted    = "file.deleted"
)

var Actions = []string{ActionUploaded, ActionShared, ActionLinkIssued, ActionDeleted}

// NewEvent describes a change of f made by actor.
func NewEvent(action string, actor uuid.UUID, f file.File, now time.Time) Event {
	return Event{
		Id:      uuid.New(),
		TS:      now.UTC(),
		Action:  action,
		FileID:  f.UUID.String(),
		ActorID: actor.String(),
		Payload: f,
	}
}

func New(cfg config.MQ, logger *zap.Logger) *RabbitMQ {
	return &RabbitMQ{
		cfg: cfg,
		log: logger,
		in:  make(chan Event, bufferSize),
	}
}

func (r *RabbitMQ) Connect(ctx context.Context, dsn string) error {
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	amqpCfg := amqp091.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Properties: amqp091.Table{
			"connection_name": "filesharepublisher",
		},
		Dial: func(network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		},
		TLSClientConfig: nil,
	}

	var err error
	r.conn, err = amqp091.DialConfig(dsn, amqpCfg)
	if err != nil {
		return err
	}
	r.pubCh, err = r.conn.Channel()
	if err != nil {
		_ = r.conn.Close()
		return err
	}
	r.pub = r.pubCh

	r.log.Info("rabbitmq connected successfully")

	return err
}

func (r *RabbitMQ) Init() error {
	var err error
	if err = r.pubCh.ExchangeDeclare(
		r.cfg.Exchange,
		r.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = r.pubCh.Close()
		return err
	}
	q, err := r.pubCh.QueueDeclare(
		r.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	for _, rk := range Actions {
		if err = r.pubCh.QueueBind(q.Name, rk, r.cfg.Exchange, false, nil); err != nil {
			return err
		}
	}

	return nil
}

// PublisherWorker sends events until ctx is done, then flushes whatever is
// still buffered within flushTimeout.
func (r *RabbitMQ) PublisherWorker(ctx context.Context) {
	r.log.Info("starting publisher worker")

	defer func() {
		r.log.Info("publisher worker gracefully stopped")
	}()

	for {
		select {
		case e := <-r.in:
			if err := r.publish(ctx, e); err != nil {
				// alert
				r.log.Error("mq publish error", zap.Error(err), zap.String("action", e.Action))
			}
		case <-ctx.Done():
			r.flush()
			// r.in stays open: handlers may still publish while the server drains
			_ = r.pub.Close()
			return
		}
	}
}

func (r *RabbitMQ) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	for {
		select {
		case e := <-r.in:
			if err := r.publish(ctx, e); err != nil {
				r.log.Warn("mq flush: event lost", zap.Error(err), zap.String("action", e.Action))
			}
		default:
			return
		}
	}
}

func (r *RabbitMQ) publish(ctx context.Context, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}

	return r.pub.PublishWithContext(
		ctx,
		r.cfg.Exchange,
		e.Action,
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    e.Id.String(),
			Timestamp:    e.TS,
			Type:         e.Action,
			Body:         b,
		},
	)
}

// Publish hands e to the publisher worker without blocking the request path.
// Events are dropped with a warning when the buffer is full.
func (r *RabbitMQ) Publish(e Event) {
	select {
	case r.in <- e:
	default:
		r.log.Warn("mq buffer full, event dropped", zap.String("action", e.Action), zap.String("file_id", e.FileID))
	}
}

func (r *RabbitMQ) GetInputChan() chan Event     { return r.in }
func (r *RabbitMQ) GetConn() *amqp091.Connection { return r.conn }
