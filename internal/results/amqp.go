package results

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
)

// Routing keys used by AMQPSink.
const (
	RouteCorrect   = "answer.correct"
	RouteIncorrect = "answer.incorrect"
	RouteSession   = "session."
)

// publisher is the subset of *amqp091.Channel used by AMQPSink.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// AMQPSink publishes records to a durable topic exchange.
type AMQPSink struct {
	ch       publisher
	exchange string
	close    func() error
}

// OpenAMQP dials url and declares exchange.
func OpenAMQP(url, exchange string) (*AMQPSink, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPSink{
		ch:       ch,
		exchange: exchange,
		close: func() error {
			ch.Close()
			return conn.Close()
		},
	}, nil
}

func (s *AMQPSink) Write(ctx context.Context, rec Record) error {
	key := RouteIncorrect
	if rec.IsCorrect {
		key = RouteCorrect
	}
	return s.publish(ctx, key, rec, amqp091.Table{
		"session_id":  rec.SessionID,
		"question_id": rec.Question.ID,
	})
}

func (s *AMQPSink) WriteSessionEvent(ctx context.Context, ev SessionEvent) error {
	return s.publish(ctx, RouteSession+ev.Action, ev, amqp091.Table{
		"session_id": ev.SessionID,
	})
}

func (s *AMQPSink) publish(ctx context.Context, key string, v any, headers amqp091.Table) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	err = s.ch.PublishWithContext(ctx, s.exchange, key, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Body:         body,
		Headers:      headers,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}
	return nil
}

func (s *AMQPSink) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}
